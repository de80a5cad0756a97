package bookdex

import "github.com/bookdex-io/bookdex/internal/domain"

// Book is the slice of a catalog record that the search pipeline indexes.
// The host application owns the full record.
type Book struct {
	ID            string
	Title         string
	Author        string
	Description   string
	Format        string
	ReadingStatus string
	Categories    []string
	Moods         []string
	Notes         string
}

// Filter restricts retrieval to books matching the given attributes.
// Empty fields are ignored.
type Filter struct {
	Format        string
	ReadingStatus string
	Category      string
	Mood          string
}

// Candidate is a single retrieval hit. Similarity is in [0,1], larger
// means closer.
type Candidate struct {
	ID            string
	Similarity    float64
	Title         string
	Author        string
	Format        string
	ReadingStatus string
	Categories    []string
	Moods         []string
}

// SearchResponse is the final search result: the composed answer plus the
// ranked candidates it was grounded in.
type SearchResponse struct {
	Answer  string
	Results []Candidate
}

// SyncReport summarizes a backfill run.
type SyncReport struct {
	Indexed int
	Skipped int
	Failed  int
	Removed int
}

func toInternalBook(b Book) domain.Book {
	return domain.Book{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		Description:   b.Description,
		Format:        b.Format,
		ReadingStatus: b.ReadingStatus,
		Categories:    b.Categories,
		Moods:         b.Moods,
		Notes:         b.Notes,
	}
}

func fromInternalBook(b domain.Book) Book {
	return Book{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		Description:   b.Description,
		Format:        b.Format,
		ReadingStatus: b.ReadingStatus,
		Categories:    b.Categories,
		Moods:         b.Moods,
		Notes:         b.Notes,
	}
}

func toInternalFilter(f Filter) domain.Filter {
	return domain.Filter{
		Format:        f.Format,
		ReadingStatus: f.ReadingStatus,
		Category:      f.Category,
		Mood:          f.Mood,
	}
}

func fromInternalCandidates(cs []domain.Candidate) []Candidate {
	out := make([]Candidate, len(cs))
	for i, c := range cs {
		out[i] = Candidate{
			ID:            c.ID,
			Similarity:    c.Similarity,
			Title:         c.Title,
			Author:        c.Author,
			Format:        c.Format,
			ReadingStatus: c.ReadingStatus,
			Categories:    c.Categories,
			Moods:         c.Moods,
		}
	}
	return out
}
