package author

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"clipmark/internal/oracle"
	"clipmark/internal/vault"
)

// Identity is a persisted author page: display name, vault location and the
// alias strings it can be matched under.
type Identity struct {
	Name    string
	Path    string
	Aliases []string
}

// LinkResult is the outcome of resolving one canonical name. Link always
// points at the canonical name, even when creation is disabled and no page
// exists yet, so document metadata stays consistent either way.
type LinkResult struct {
	Name    string
	Link    string
	Created bool
}

// MultiLinkResult aggregates a full credit string: per-author results in
// credit order (duplicates kept), plus de-duplicated rollups.
type MultiLinkResult struct {
	Authors      []LinkResult
	Names        []string
	Links        []string
	CreatedCount int
}

// Resolver finds or synthesizes author identities in the vault.
type Resolver struct {
	store         vault.Store
	oracle        oracle.TextOracle
	prompts       *oracle.PromptBuilder
	authorsDir    string
	createMissing bool
	now           func() time.Time
}

func NewResolver(store vault.Store, o oracle.TextOracle, authorsDir string, createMissing bool) *Resolver {
	return &Resolver{
		store:         store,
		oracle:        o,
		prompts:       &oracle.PromptBuilder{},
		authorsDir:    authorsDir,
		createMissing: createMissing,
		now:           time.Now,
	}
}

// FindIdentity scans the authors folder for an exact case-insensitive match
// on display name or on any recorded alias. First match in folder iteration
// order wins. Substring matching is deliberately absent: it produced false
// positives like "John" matching "Johnny Depp".
func (r *Resolver) FindIdentity(name string) (*Identity, error) {
	docs, err := r.store.ListDocuments(r.authorsDir)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}

	target := strings.ToLower(strings.TrimSpace(name))
	for _, doc := range docs {
		display := doc.Title()
		if strings.ToLower(display) == target {
			return &Identity{Name: display, Path: doc.Path, Aliases: doc.Header.GetStringList("aliases")}, nil
		}
		for _, alias := range doc.Header.GetStringList("aliases") {
			if strings.ToLower(strings.TrimSpace(alias)) == target {
				return &Identity{Name: display, Path: doc.Path, Aliases: doc.Header.GetStringList("aliases")}, nil
			}
		}
	}
	return nil, nil
}

// ResolveOrCreate links one canonical name to an identity, synthesizing a new
// page when allowed. Oracle failure degrades the new page to placeholder
// bio/social text; creation itself only fails on store errors.
func (r *Resolver) ResolveOrCreate(ctx context.Context, name, contextText string) (LinkResult, error) {
	identity, err := r.FindIdentity(name)
	if err != nil {
		return LinkResult{}, err
	}
	if identity != nil {
		return LinkResult{Name: name, Link: wikiLink(identity.Name)}, nil
	}

	if !r.createMissing {
		return LinkResult{Name: name, Link: wikiLink(name)}, nil
	}

	if err := r.createIdentity(ctx, name, contextText); err != nil {
		if errors.Is(err, vault.ErrExists) {
			// Lost a race with another creation of the same page; link it.
			return LinkResult{Name: name, Link: wikiLink(name)}, nil
		}
		return LinkResult{}, err
	}
	return LinkResult{Name: name, Link: wikiLink(name), Created: true}, nil
}

// ResolveAll runs the full credit string through split, normalize and
// resolve. Per-author failures are folded into the error return but do not
// stop later authors.
func (r *Resolver) ResolveAll(ctx context.Context, rawCredit, contextText string) (MultiLinkResult, error) {
	var result MultiLinkResult
	var errs []string

	seenNames := map[string]bool{}
	seenLinks := map[string]bool{}

	for _, raw := range SplitAuthors(rawCredit) {
		name := NormalizeName(raw)
		if name == "" {
			continue
		}
		link, err := r.ResolveOrCreate(ctx, name, contextText)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", name, err))
			link = LinkResult{Name: name, Link: wikiLink(name)}
		}
		result.Authors = append(result.Authors, link)
		if !seenNames[link.Name] {
			seenNames[link.Name] = true
			result.Names = append(result.Names, link.Name)
		}
		if link.Link != "" && !seenLinks[link.Link] {
			seenLinks[link.Link] = true
			result.Links = append(result.Links, link.Link)
		}
		if link.Created {
			result.CreatedCount++
		}
	}

	if len(errs) > 0 {
		return result, fmt.Errorf("author resolution: %s", strings.Join(errs, "; "))
	}
	return result, nil
}

func (r *Resolver) createIdentity(ctx context.Context, name, contextText string) error {
	bio := "Bio pending."
	var social []string

	if r.oracle != nil {
		resp, err := r.oracle.Generate(ctx, r.prompts.BuildBioPrompt(name, contextText))
		if err == nil {
			if b, s, ok := parseBioResponse(resp); ok {
				bio = b
				social = s
			}
		}
	}

	doc := &vault.Document{
		Path: r.authorsDir + "/" + sanitizeFileName(name) + ".md",
		Header: vault.Header{
			"name":    name,
			"aliases": []string{},
			"created": r.now().UTC().Format("2006-01-02"),
		},
	}

	var body strings.Builder
	body.WriteString("## Bio\n\n")
	body.WriteString(bio)
	body.WriteString("\n\n## Social\n\n")
	if len(social) == 0 {
		body.WriteString("No links found.\n")
	} else {
		for _, line := range social {
			body.WriteString("- " + line + "\n")
		}
	}
	doc.Body = body.String()

	_, err := r.store.CreateDocument(doc.Path, doc.Render())
	return err
}

var (
	bioLabelRe    = regexp.MustCompile(`(?i)\bBIO:\s*`)
	socialLabelRe = regexp.MustCompile(`(?i)\bSOCIAL:\s*`)
	// A trailing [handle] or <url> means the model echoed the template unfilled.
	placeholderTailRe = regexp.MustCompile(`(\[[^\]]*\]|<[^>]*>)\s*$`)
)

// parseBioResponse extracts the BIO and SOCIAL sections from a completion.
// Social lines are filtered against template placeholders.
func parseBioResponse(resp string) (bio string, social []string, ok bool) {
	bioLoc := bioLabelRe.FindStringIndex(resp)
	socialLoc := socialLabelRe.FindStringIndex(resp)
	if bioLoc == nil || socialLoc == nil || socialLoc[0] < bioLoc[1] {
		return "", nil, false
	}

	bio = strings.TrimSpace(resp[bioLoc[1]:socialLoc[0]])
	if bio == "" {
		return "", nil, false
	}

	for _, line := range strings.Split(resp[socialLoc[1]:], "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-*• \t"))
		if line == "" {
			continue
		}
		if placeholderTailRe.MatchString(line) {
			continue
		}
		colon := strings.Index(line, ":")
		if colon < 0 || strings.TrimSpace(line[colon+1:]) == "" {
			continue
		}
		social = append(social, line)
	}
	return bio, social, true
}

func wikiLink(name string) string {
	return "[[" + name + "]]"
}

var unsafeFileChars = regexp.MustCompile(`[\\/:*?"<>|]`)

func sanitizeFileName(name string) string {
	return strings.TrimSpace(unsafeFileChars.ReplaceAllString(name, ""))
}
