// Package domain holds the core types of the book search pipeline.
package domain

import (
	"errors"
	"strings"
)

// Book is the denormalized slice of a catalog record that the search
// pipeline needs. The relational store owns the full record.
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

// Validate checks the minimal requirements for indexing.
func (b *Book) Validate() error {
	if b.ID == "" {
		return errors.New("book id is required")
	}
	return nil
}

// SearchText derives the text that gets embedded for this book.
// Returns "" when the book carries no derivable text; such books must not
// have an index entry.
func (b *Book) SearchText() string {
	var parts []string
	if b.Title != "" {
		parts = append(parts, "Title: "+b.Title)
	}
	if b.Author != "" {
		parts = append(parts, "Author: "+b.Author)
	}
	if b.Description != "" {
		parts = append(parts, "Description: "+b.Description)
	}
	if len(b.Categories) > 0 {
		parts = append(parts, "Categories: "+strings.Join(b.Categories, ", "))
	}
	if len(b.Moods) > 0 {
		parts = append(parts, "Moods: "+strings.Join(b.Moods, ", "))
	}
	return strings.Join(parts, " | ")
}
