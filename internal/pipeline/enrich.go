// Package pipeline sequences the enrichment steps over one document and
// folds per-step failures into an aggregate result.
package pipeline

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"clipmark/internal/author"
	"clipmark/internal/config"
	"clipmark/internal/dedupe"
	"clipmark/internal/oracle"
	"clipmark/internal/related"
	"clipmark/internal/taxonomy"
	"clipmark/internal/vault"
)

// ImageFetcher localizes remote images referenced by a document. The
// implementation is external to the enrichment core; a nil fetcher skips the
// step.
type ImageFetcher interface {
	Localize(ctx context.Context, doc *vault.Document) (saved, failed int, err error)
}

// Enricher runs the per-document enrichment state machine:
// duplicate gate → images → authors → tags/category → reading time →
// category move → metadata patch → related articles.
//
// One call enriches one document, synchronously. Callers serialize
// concurrent invocations for the same path; every corpus scan reads a live
// snapshot, there is no cache to invalidate.
type Enricher struct {
	store    vault.Store
	oracle   oracle.TextOracle
	resolver *author.Resolver
	parser   *taxonomy.Parser
	detector *dedupe.Detector
	scorer   *related.Scorer
	images   ImageFetcher
	prompts  *oracle.PromptBuilder
	cfg      *config.Config
	now      func() time.Time
}

func NewEnricher(cfg *config.Config, store vault.Store, o oracle.TextOracle, images ImageFetcher) *Enricher {
	return &Enricher{
		store:    store,
		oracle:   o,
		resolver: author.NewResolver(store, o, cfg.Vault.AuthorsDir, cfg.CreateAuthors()),
		parser:   &taxonomy.Parser{Prefix: cfg.Enrich.TagPrefix, MaxTags: cfg.Enrich.MaxTags},
		detector: dedupe.NewDetector(store, cfg.Vault.ArticlesDir),
		scorer:   related.NewScorer(store, cfg.Vault.ArticlesDir, cfg.Enrich.MaxRelated),
		images:   images,
		prompts:  &oracle.PromptBuilder{},
		cfg:      cfg,
		now:      time.Now,
	}
}

// Run enriches the document at docPath. The returned error is non-nil only
// for the fatal path (the document cannot be read, the duplicate gate cannot
// scan, or the metadata patch fails); step-level trouble is reported through
// Result.Errors with Success still true.
func (e *Enricher) Run(ctx context.Context, docPath string, force bool) (*Result, error) {
	res := &Result{Path: docPath, FinalPath: docPath, Success: true}

	doc, err := e.store.ReadDocument(docPath)
	if err != nil {
		res.Success = false
		res.addError("read document: %v", err)
		return res, fmt.Errorf("read %s: %w", docPath, err)
	}

	if doc.Header.GetBool("dr-processed") && !force {
		res.AlreadyProcessed = true
		return res, nil
	}

	// Duplicate gate: must run before any mutation, and a scan failure here
	// is the one step failure that stops the document.
	stop, err := e.duplicateGateStage(doc, res)
	if err != nil {
		res.Success = false
		res.addError("duplicate check: %v", err)
		return res, err
	}
	if stop {
		return res, nil
	}

	e.imageStage(ctx, doc, res)

	// Re-read after the image step: a fetcher may rewrite the body.
	if refreshed, err := e.store.ReadDocument(docPath); err == nil {
		doc = refreshed
	}

	authorLinks := e.authorStage(ctx, doc, res)
	newTags, category := e.tagStage(ctx, doc, res)
	res.Tags = newTags
	res.Category = category

	minutes := ReadingMinutes(doc.Body)
	if minutes > 0 {
		res.ReadingTime = fmt.Sprintf("%d min", minutes)
	}

	finalPath := e.moveStage(docPath, category, res)
	res.FinalPath = finalPath

	allTags := unionTags(doc.Header.GetStringList("tags"), newTags)
	if err := e.metadataStage(finalPath, authorLinks, allTags, res); err != nil {
		res.Success = false
		res.addError("metadata patch: %v", err)
		return res, fmt.Errorf("patch %s: %w", finalPath, err)
	}

	e.relatedStage(finalPath, allTags, category, res)

	return res, nil
}

func (e *Enricher) duplicateGateStage(doc *vault.Document, res *Result) (stop bool, err error) {
	url := doc.Header.GetString("url")
	if url == "" {
		// Malformed frontmatter can hide the field from the full parse.
		if v, ok := vault.ExtractHeaderField([]byte(doc.Body), "url"); ok {
			url = v
		}
	}
	dup, err := e.detector.IsDuplicate(url, doc.Path)
	if err != nil {
		return false, err
	}
	if dup {
		res.SkippedDuplicate = true
		return true, nil
	}
	return false, nil
}

func (e *Enricher) imageStage(ctx context.Context, doc *vault.Document, res *Result) {
	if e.images == nil {
		return
	}
	saved, failed, err := e.images.Localize(ctx, doc)
	res.ImagesSaved = saved
	res.ImagesFailed = failed
	if err != nil {
		res.addError("images: %v", err)
	}
}

func (e *Enricher) authorStage(ctx context.Context, doc *vault.Document, res *Result) []string {
	rawCredit := doc.Header.GetString("author")
	if rawCredit == "" {
		// Best-effort single-field read when frontmatter failed to parse.
		if v, ok := vault.ExtractHeaderField([]byte(doc.Body), "author"); ok {
			rawCredit = v
		}
	}
	if rawCredit == "" {
		return nil
	}

	linked, err := e.resolver.ResolveAll(ctx, rawCredit, doc.Body)
	if err != nil {
		res.addError("authors: %v", err)
	}
	res.AuthorNames = linked.Names
	res.AuthorsCreated = linked.CreatedCount
	if res.AuthorsCreated > 0 {
		fmt.Printf("👤 Created %d author page(s) for %s\n", res.AuthorsCreated, doc.Path)
	}
	return linked.Links
}

func (e *Enricher) tagStage(ctx context.Context, doc *vault.Document, res *Result) ([]string, string) {
	if e.oracle == nil {
		return nil, ""
	}
	prompt := e.prompts.BuildTagPrompt(doc.Title(), doc.Body, e.cfg.Enrich.TagPrefix, e.cfg.Enrich.MaxTags)
	resp, err := e.oracle.Generate(ctx, prompt)
	if err != nil {
		res.addError("tag generation: %v", err)
		return nil, ""
	}
	return e.parser.Parse(resp)
}

func (e *Enricher) moveStage(docPath, category string, res *Result) string {
	if category == "" {
		return docPath
	}
	newPath := e.cfg.Vault.ArticlesDir + "/" + category + "/" + path.Base(docPath)
	if newPath == docPath {
		return docPath
	}
	moved, err := e.store.MoveDocument(docPath, newPath)
	if err != nil {
		res.addError("move to %s: %v", newPath, err)
		return docPath
	}
	fmt.Printf("📁 Filed %s under %s\n", path.Base(docPath), category)
	return moved
}

func (e *Enricher) metadataStage(docPath string, authorLinks, allTags []string, res *Result) error {
	processedAt := e.now().UTC().Format(time.RFC3339)
	return e.store.PatchHeader(docPath, func(h vault.Header) {
		switch len(authorLinks) {
		case 0:
			// Leave whatever author value was already there.
		case 1:
			h["author"] = authorLinks[0]
		default:
			h["author"] = authorLinks
		}
		if len(allTags) > 0 {
			h["tags"] = allTags
		}
		if res.ReadingTime != "" {
			h["reading-time"] = res.ReadingTime
		}
		h["dr-processed"] = true
		h["dr-processed-at"] = processedAt
	})
}

func (e *Enricher) relatedStage(docPath string, allTags []string, category string, res *Result) {
	candidates, err := e.scorer.FindRelated(docPath, allTags, category)
	if err != nil {
		res.addError("related articles: %v", err)
		return
	}
	res.RelatedCount = len(candidates)

	section := related.FormatSection(candidates)
	if section == "" {
		return
	}
	if err := e.store.AppendBody(docPath, section); err != nil {
		res.addError("append related section: %v", err)
		res.RelatedCount = 0
	}
}

// unionTags keeps the document's existing tags in place and appends the new
// ones that are not already present.
func unionTags(existing, fresh []string) []string {
	seen := make(map[string]bool, len(existing)+len(fresh))
	out := make([]string, 0, len(existing)+len(fresh))
	for _, t := range existing {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	for _, t := range fresh {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
