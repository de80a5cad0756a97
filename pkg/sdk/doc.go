// Package bookdex provides an embedded Go client for the bookdex semantic
// book search pipeline backed by Redis with the search module.
//
// The client wires the whole pipeline in-process: embedding, vector index,
// retrieval and answer composition. The host application keeps owning the
// book records; bookdex only maintains the searchable index.
//
//	client, _ := bookdex.New(ctx,
//	    bookdex.WithRedis("localhost:6379", ""),
//	    bookdex.WithEmbedder(myEmbedder),
//	    bookdex.WithCompleter(myLLM),
//	)
//	defer client.Close()
//
//	_ = client.IndexBook(ctx, bookdex.Book{ID: "1", Title: "Piranesi"})
//	resp, _ := client.Search(ctx, "a quiet book about a strange house", 5, bookdex.Filter{})
//
// Without a Completer, Search degrades gracefully: it returns the ranked
// candidates and the fallback answer instead of an LLM-composed one.
package bookdex
