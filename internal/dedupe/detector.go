// Package dedupe detects documents that capture a URL already present in the
// vault.
package dedupe

import (
	"fmt"

	"clipmark/internal/vault"
)

// Detector scans the articles folder for URL collisions. Matching is exact
// string equality with no URL canonicalization.
type Detector struct {
	store       vault.Store
	articlesDir string
}

func NewDetector(store vault.Store, articlesDir string) *Detector {
	return &Detector{store: store, articlesDir: articlesDir}
}

// IsDuplicate reports whether url appears in another document's header under
// the articles root. The document at excludePath is never counted as its own
// duplicate. Short-circuits on the first hit.
func (d *Detector) IsDuplicate(url, excludePath string) (bool, error) {
	if url == "" {
		return false, nil
	}

	docs, err := d.store.ListDocuments(d.articlesDir)
	if err != nil {
		return false, fmt.Errorf("scan articles: %w", err)
	}

	for _, doc := range docs {
		if doc.Path == excludePath {
			continue
		}
		if doc.Header.GetString("url") == url {
			return true, nil
		}
	}
	return false, nil
}
