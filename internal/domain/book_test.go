package domain

import "testing"

func TestSearchText_AllFields(t *testing.T) {
	b := Book{
		ID:          "b1",
		Title:       "Dune",
		Author:      "Frank Herbert",
		Description: "A desert planet saga.",
		Categories:  []string{"sci-fi", "classic"},
		Moods:       []string{"epic"},
	}

	got := b.SearchText()
	want := "Title: Dune | Author: Frank Herbert | Description: A desert planet saga. | " +
		"Categories: sci-fi, classic | Moods: epic"
	if got != want {
		t.Errorf("SearchText:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestSearchText_PartialFields(t *testing.T) {
	b := Book{ID: "b1", Title: "Dune", Author: "Frank Herbert"}

	got := b.SearchText()
	if got != "Title: Dune | Author: Frank Herbert" {
		t.Errorf("unexpected text: %q", got)
	}
}

func TestSearchText_Empty(t *testing.T) {
	b := Book{ID: "b1"}
	if got := b.SearchText(); got != "" {
		t.Errorf("expected empty text, got %q", got)
	}
}

func TestValidate_RequiresID(t *testing.T) {
	b := Book{Title: "No ID"}
	if err := b.Validate(); err == nil {
		t.Fatal("expected error for missing id")
	}
	b.ID = "b1"
	if err := b.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
