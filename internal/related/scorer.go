// Package related scores and ranks documents against a newly enriched
// article's tags and filing category.
package related

import (
	"fmt"
	"sort"
	"strings"

	"clipmark/internal/vault"
)

const (
	tagMatchPoints      = 2
	categoryMatchPoints = 3
)

// Candidate is one scored document from the articles folder.
type Candidate struct {
	Path  string
	Title string
	Score int
}

// Scorer ranks article documents by tag overlap and shared filing folder.
type Scorer struct {
	store       vault.Store
	articlesDir string
	maxResults  int
}

func NewScorer(store vault.Store, articlesDir string, maxResults int) *Scorer {
	return &Scorer{store: store, articlesDir: articlesDir, maxResults: maxResults}
}

// Score is +2 per distinct shared tag plus a flat +3 when the candidate sits
// in the category folder the new document files into. Duplicated tags on the
// candidate count once.
func Score(candidateTags, newTags []string, inCategoryFolder bool) int {
	newSet := make(map[string]bool, len(newTags))
	for _, t := range newTags {
		newSet[t] = true
	}

	score := 0
	counted := make(map[string]bool, len(candidateTags))
	for _, t := range candidateTags {
		if newSet[t] && !counted[t] {
			counted[t] = true
			score += tagMatchPoints
		}
	}
	if inCategoryFolder {
		score += categoryMatchPoints
	}
	return score
}

// FindRelated scores every eligible article against the new document's tags
// and category, drops zero scores, and returns the top matches sorted by
// descending score. The sort is stable, so ties keep scan order.
func (s *Scorer) FindRelated(currentPath string, newTags []string, category string) ([]Candidate, error) {
	docs, err := s.store.ListDocuments(s.articlesDir)
	if err != nil {
		return nil, fmt.Errorf("scan articles: %w", err)
	}

	categoryFolder := ""
	if category != "" {
		categoryFolder = s.articlesDir + "/" + category + "/"
	}

	var candidates []Candidate
	for _, doc := range docs {
		if doc.Path == currentPath {
			continue
		}
		inFolder := categoryFolder != "" && strings.HasPrefix(doc.Path, categoryFolder)
		score := Score(doc.Header.GetStringList("tags"), newTags, inFolder)
		if score == 0 {
			continue
		}
		candidates = append(candidates, Candidate{Path: doc.Path, Title: doc.Title(), Score: score})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if s.maxResults > 0 && len(candidates) > s.maxResults {
		candidates = candidates[:s.maxResults]
	}
	return candidates, nil
}

// FormatSection renders the related-links block appended to a document body.
// An empty list renders to an empty string so callers never append a bare
// heading.
func FormatSection(candidates []Candidate) string {
	if len(candidates) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\n## Related Articles\n\n")
	for _, c := range candidates {
		sb.WriteString("- [[" + c.Title + "]]\n")
	}
	return sb.String()
}
