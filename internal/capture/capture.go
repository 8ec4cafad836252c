// Package capture downloads a web article and files it into the vault inbox
// as a markdown document with initial frontmatter, ready for enrichment.
package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
	"github.com/go-shiori/go-readability"

	"clipmark/internal/vault"
)

const userAgent = "clipmark/1.0"

// Capturer fetches pages and writes inbox documents.
type Capturer struct {
	client    *http.Client
	store     vault.Store
	converter *md.Converter
	inboxDir  string
	now       func() time.Time
}

func NewCapturer(store vault.Store, inboxDir string) *Capturer {
	return &Capturer{
		client:    &http.Client{Timeout: 30 * time.Second},
		store:     store,
		converter: md.NewConverter("", true, nil),
		inboxDir:  inboxDir,
		now:       time.Now,
	}
}

// PageMeta is what the capture step scrapes from the page head.
type PageMeta struct {
	Title     string
	Author    string
	Published string
}

// Capture downloads rawURL, extracts the readable article, converts it to
// markdown and creates the inbox document. Returns the created path.
func (c *Capturer) Capture(ctx context.Context, rawURL string) (string, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}

	html, err := c.fetch(ctx, rawURL)
	if err != nil {
		return "", err
	}

	meta := ExtractPageMeta(html)

	article, err := readability.FromReader(bytes.NewReader(html), pageURL)
	if err != nil {
		return "", fmt.Errorf("extract article: %w", err)
	}

	body, err := c.converter.ConvertString(article.Content)
	if err != nil {
		return "", fmt.Errorf("convert to markdown: %w", err)
	}

	title := meta.Title
	if title == "" {
		title = strings.TrimSpace(article.Title)
	}
	if title == "" {
		title = pageURL.Host
	}

	authorCredit := meta.Author
	if authorCredit == "" {
		authorCredit = strings.TrimSpace(article.Byline)
	}

	doc := &vault.Document{
		Path: c.inboxDir + "/" + FileNameFromTitle(title) + ".md",
		Header: vault.Header{
			"title":       title,
			"url":         rawURL,
			"captured-at": c.now().UTC().Format(time.RFC3339),
		},
		Body: body + "\n",
	}
	if authorCredit != "" {
		doc.Header["author"] = authorCredit
	}
	if published := NormalizeDate(meta.Published); published != "" {
		doc.Header["published-date"] = published
	}

	createdPath, err := c.store.CreateDocument(doc.Path, doc.Render())
	if errors.Is(err, vault.ErrExists) {
		// Same title captured twice; disambiguate with a timestamp.
		doc.Path = c.inboxDir + "/" + FileNameFromTitle(title) + "-" + c.now().UTC().Format("20060102150405") + ".md"
		createdPath, err = c.store.CreateDocument(doc.Path, doc.Render())
	}
	if err != nil {
		return "", fmt.Errorf("create inbox document: %w", err)
	}
	return createdPath, nil
}

func (c *Capturer) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch page: status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// ExtractPageMeta scrapes author, published date and title from the page
// head. Everything is best-effort; missing tags leave empty fields.
func ExtractPageMeta(html []byte) PageMeta {
	var meta PageMeta

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return meta
	}

	meta.Title = metaContent(doc, `meta[property="og:title"]`, `meta[name="twitter:title"]`)
	if meta.Title == "" {
		meta.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	meta.Author = metaContent(doc,
		`meta[name="author"]`,
		`meta[property="article:author"]`,
		`meta[name="twitter:creator"]`,
	)
	meta.Published = metaContent(doc,
		`meta[property="article:published_time"]`,
		`meta[name="date"]`,
		`meta[itemprop="datePublished"]`,
	)
	return meta
}

func metaContent(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if v, ok := doc.Find(sel).First().Attr("content"); ok {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return ""
}

// NormalizeDate parses any common date representation into YYYY-MM-DD.
// Unparseable input yields an empty string.
func NormalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	t, err := dateparse.ParseAny(raw)
	if err != nil {
		return ""
	}
	return t.Format("2006-01-02")
}

var fileNameStripRe = regexp.MustCompile(`[\\/:*?"<>|#^\[\]]`)
var fileNameSpaceRe = regexp.MustCompile(`\s+`)

// FileNameFromTitle turns a page title into a safe markdown file name.
func FileNameFromTitle(title string) string {
	name := fileNameStripRe.ReplaceAllString(title, "")
	name = fileNameSpaceRe.ReplaceAllString(strings.TrimSpace(name), " ")
	if len(name) > 120 {
		name = strings.TrimSpace(name[:120])
	}
	if name == "" {
		name = "Untitled"
	}
	return name
}
