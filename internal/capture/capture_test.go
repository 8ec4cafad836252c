package capture

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clipmark/internal/vault"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
  <title>Fallback Title</title>
  <meta property="og:title" content="Understanding Raft">
  <meta name="author" content="Jane Smith and John Doe">
  <meta property="article:published_time" content="2024-03-15T10:30:00Z">
</head>
<body>
  <article>
    <h1>Understanding Raft</h1>
    <p>Raft is a consensus algorithm designed to be understandable. It separates
    leader election from log replication and keeps the state space small enough
    to reason about. This paragraph exists to give the readability extractor
    enough prose to treat the article element as the main content block.</p>
    <p>Further sections walk through elections, terms and commitment rules in
    detail, with examples of split votes and network partitions along the way.</p>
  </article>
</body>
</html>`

func TestExtractPageMeta(t *testing.T) {
	meta := ExtractPageMeta([]byte(samplePage))

	assert.Equal(t, "Understanding Raft", meta.Title)
	assert.Equal(t, "Jane Smith and John Doe", meta.Author)
	assert.Equal(t, "2024-03-15T10:30:00Z", meta.Published)
}

func TestExtractPageMeta_MissingTags(t *testing.T) {
	meta := ExtractPageMeta([]byte("<html><head><title>Only Title</title></head><body></body></html>"))

	assert.Equal(t, "Only Title", meta.Title)
	assert.Empty(t, meta.Author)
	assert.Empty(t, meta.Published)
}

func TestNormalizeDate(t *testing.T) {
	assert.Equal(t, "2024-03-15", NormalizeDate("2024-03-15T10:30:00Z"))
	assert.Equal(t, "2024-03-15", NormalizeDate("March 15, 2024"))
	assert.Equal(t, "", NormalizeDate("not a date at all zzz"))
	assert.Equal(t, "", NormalizeDate(""))
}

func TestFileNameFromTitle(t *testing.T) {
	assert.Equal(t, "Understanding Raft", FileNameFromTitle("Understanding Raft"))
	assert.Equal(t, "What is Go", FileNameFromTitle(`What is Go?`))
	assert.Equal(t, "ab b", FileNameFromTitle(`a/b\:* "<b>"`))
	assert.Equal(t, "Untitled", FileNameFromTitle("###"))
}

func TestCapture_WritesInboxDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	store := vault.NewMemStore()
	c := NewCapturer(store, "Inbox")

	path, err := c.Capture(context.Background(), srv.URL+"/raft")
	require.NoError(t, err)
	assert.Equal(t, "Inbox/Understanding Raft.md", path)

	doc, err := store.ReadDocument(path)
	require.NoError(t, err)
	assert.Equal(t, "Understanding Raft", doc.Header.GetString("title"))
	assert.Equal(t, srv.URL+"/raft", doc.Header.GetString("url"))
	assert.Equal(t, "Jane Smith and John Doe", doc.Header.GetString("author"))
	assert.Equal(t, "2024-03-15", doc.Header.GetString("published-date"))
	assert.NotEmpty(t, doc.Header.GetString("captured-at"))
	assert.Contains(t, doc.Body, "consensus algorithm")
}

func TestCapture_DuplicateTitleGetsSuffix(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	store := vault.NewMemStore()
	c := NewCapturer(store, "Inbox")

	first, err := c.Capture(context.Background(), srv.URL+"/one")
	require.NoError(t, err)
	second, err := c.Capture(context.Background(), srv.URL+"/two")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	docs, err := store.ListDocuments("Inbox")
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestCapture_HTTPErrorFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	store := vault.NewMemStore()
	c := NewCapturer(store, "Inbox")

	_, err := c.Capture(context.Background(), srv.URL+"/gone")
	require.Error(t, err)
}
