package pipeline

import "strings"

const wordsPerMinute = 200

// ReadingMinutes estimates reading time for a document body (frontmatter
// already stripped). Rounds up, with a one-minute floor for any non-empty
// body and zero for an empty one.
func ReadingMinutes(body string) int {
	words := len(strings.Fields(body))
	if words == 0 {
		return 0
	}
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
