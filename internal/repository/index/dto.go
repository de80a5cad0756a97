package index

import (
	"encoding/binary"
	"math"
	"strings"

	"github.com/bookdex-io/bookdex/internal/domain"
)

// candidateFields are the denormalized fields returned from the index so
// search results need no second store round trip.
var candidateFields = []string{
	"title", "author", "format", "reading_status", "categories", "moods",
}

// buildHashFields flattens a book and its vector into HSET fields. Categories
// and moods are comma-joined to match the TAG separator in the index schema.
func buildHashFields(book *domain.Book, vector []float32) map[string]string {
	return map[string]string{
		"title":          book.Title,
		"author":         book.Author,
		"format":         book.Format,
		"reading_status": book.ReadingStatus,
		"categories":     strings.Join(book.Categories, ","),
		"moods":          strings.Join(book.Moods, ","),
		"__vector":       vectorToBytes(vector),
	}
}

// parseEntry rebuilds the indexed slice of a book from its hash fields. The
// binary vector is not surfaced.
func parseEntry(id string, fields map[string]string) domain.Book {
	return domain.Book{
		ID:            id,
		Title:         fields["title"],
		Author:        fields["author"],
		Format:        fields["format"],
		ReadingStatus: fields["reading_status"],
		Categories:    splitTags(fields["categories"]),
		Moods:         splitTags(fields["moods"]),
	}
}

func parseCandidate(id string, score float64, fields map[string]string) domain.Candidate {
	return domain.Candidate{
		ID:            id,
		Similarity:    score,
		Title:         fields["title"],
		Author:        fields["author"],
		Format:        fields["format"],
		ReadingStatus: fields["reading_status"],
		Categories:    splitTags(fields["categories"]),
		Moods:         splitTags(fields["moods"]),
	}
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// vectorToBytes serializes []float32 to a binary string (4 bytes per float, little-endian).
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
