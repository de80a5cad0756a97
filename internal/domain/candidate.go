package domain

import "sort"

// Candidate is a single retrieval hit: a book plus its similarity to the
// query vector. Similarity is in [0,1], larger means closer.
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

// Response is the final search result: the composed answer plus the ranked
// candidates it was grounded in. Not persisted.
type Response struct {
	Answer  string
	Results []Candidate
}

// SortCandidates orders candidates by descending similarity, breaking exact
// ties by ascending ID so result order is deterministic.
func SortCandidates(cs []Candidate) {
	sort.SliceStable(cs, func(i, j int) bool {
		if cs[i].Similarity != cs[j].Similarity {
			return cs[i].Similarity > cs[j].Similarity
		}
		return cs[i].ID < cs[j].ID
	})
}
