package answer

import (
	"fmt"
	"strings"

	"github.com/bookdex-io/bookdex/internal/domain"
)

const systemPrompt = `You are a helpful personal librarian assistant. You help users find books from their personal library based on their queries.

Given the user's query and a list of books from their library, provide a helpful and personalized response. Be conversational but concise.

Guidelines:
- Recommend books that best match the user's query
- Explain why each recommendation fits their request
- If the query is about mood or genre, focus on those aspects
- Keep responses focused and helpful
- If no books are a great match, be honest about it
- Only discuss books from the supplied list; never invent titles or authors`

// buildContext renders candidates as a numbered list for the prompt.
func buildContext(candidates []domain.Candidate) string {
	parts := make([]string, 0, len(candidates))

	for i, c := range candidates {
		lines := []string{
			fmt.Sprintf("%d. %s by %s", i+1, c.Title, c.Author),
			fmt.Sprintf("   Format: %s, Status: %s", c.Format, c.ReadingStatus),
		}
		if len(c.Categories) > 0 {
			lines = append(lines, fmt.Sprintf("   Categories: %s", strings.Join(c.Categories, ", ")))
		}
		if len(c.Moods) > 0 {
			lines = append(lines, fmt.Sprintf("   Moods: %s", strings.Join(c.Moods, ", ")))
		}
		parts = append(parts, strings.Join(lines, "\n"))
	}

	return strings.Join(parts, "\n\n")
}

func buildUserMessage(query string, candidates []domain.Candidate) string {
	if len(candidates) == 0 {
		return fmt.Sprintf(`Query: %s

The library search returned no matching books. Tell the user plainly that nothing in their library matches this query, and suggest they rephrase or add books.`, query)
	}

	return fmt.Sprintf(`Query: %s

Books in library:
%s

Based on these books in the user's library, provide a helpful response to their query.`, query, buildContext(candidates))
}
