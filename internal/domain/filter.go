package domain

// Filter restricts retrieval to books matching the given attributes.
// Empty fields are ignored.
type Filter struct {
	Format        string
	ReadingStatus string
	Category      string
	Mood          string
}

// IsZero reports whether no filter attribute is set.
func (f Filter) IsZero() bool {
	return f == Filter{}
}

// Matches reports whether a candidate satisfies the filter.
func (f Filter) Matches(c Candidate) bool {
	if f.Format != "" && c.Format != f.Format {
		return false
	}
	if f.ReadingStatus != "" && c.ReadingStatus != f.ReadingStatus {
		return false
	}
	if f.Category != "" && !contains(c.Categories, f.Category) {
		return false
	}
	if f.Mood != "" && !contains(c.Moods, f.Mood) {
		return false
	}
	return true
}

func contains(vals []string, want string) bool {
	for _, v := range vals {
		if v == want {
			return true
		}
	}
	return false
}
