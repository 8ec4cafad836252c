package pipeline

import (
	"fmt"
	"strings"
)

// Result aggregates everything one enrichment run did to a document. Step
// failures land in Errors without flipping Success; Success only goes false
// on the fatal path where the metadata mutation itself fails.
type Result struct {
	Path             string
	FinalPath        string
	AlreadyProcessed bool
	SkippedDuplicate bool
	ImagesSaved      int
	ImagesFailed     int
	AuthorNames      []string
	AuthorsCreated   int
	Tags             []string
	Category         string
	ReadingTime      string
	RelatedCount     int
	Success          bool
	Errors           []string
}

func (r *Result) addError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Summary is the one-line per-document notification text.
func (r *Result) Summary() string {
	switch {
	case r.AlreadyProcessed:
		return fmt.Sprintf("⏭️  %s: already processed", r.Path)
	case r.SkippedDuplicate:
		return fmt.Sprintf("⏭️  %s: duplicate URL, skipped", r.Path)
	case !r.Success:
		return fmt.Sprintf("❌ %s: enrichment failed (%s)", r.Path, strings.Join(r.Errors, "; "))
	}

	var parts []string
	if r.ImagesSaved > 0 || r.ImagesFailed > 0 {
		parts = append(parts, fmt.Sprintf("%d images (%d failed)", r.ImagesSaved, r.ImagesFailed))
	}
	if len(r.AuthorNames) > 0 {
		parts = append(parts, fmt.Sprintf("%d author(s), %d new", len(r.AuthorNames), r.AuthorsCreated))
	}
	if len(r.Tags) > 0 {
		parts = append(parts, fmt.Sprintf("%d tags", len(r.Tags)))
	}
	if r.Category != "" {
		parts = append(parts, "category "+r.Category)
	}
	if r.RelatedCount > 0 {
		parts = append(parts, fmt.Sprintf("%d related", r.RelatedCount))
	}
	if len(parts) == 0 {
		parts = append(parts, "no changes")
	}

	line := fmt.Sprintf("✅ %s: %s", r.FinalPath, strings.Join(parts, ", "))
	if len(r.Errors) > 0 {
		line += fmt.Sprintf(" (%d step error(s))", len(r.Errors))
	}
	return line
}
