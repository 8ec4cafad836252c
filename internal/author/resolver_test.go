package author

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clipmark/internal/vault"
)

type stubOracle struct {
	resp string
	err  error
}

func (s stubOracle) Generate(ctx context.Context, prompt string) (string, error) {
	return s.resp, s.err
}

func seedAuthor(t *testing.T, store *vault.MemStore, name string, aliases ...string) {
	t.Helper()
	doc := &vault.Document{
		Path:   "Authors/" + name + ".md",
		Header: vault.Header{"name": name},
		Body:   "## Bio\n\nSeeded.\n",
	}
	if len(aliases) > 0 {
		doc.Header["aliases"] = aliases
	}
	store.Put(doc.Path, doc.Render())
}

func TestFindIdentity_ExactMatchCaseInsensitive(t *testing.T) {
	store := vault.NewMemStore()
	seedAuthor(t, store, "Jane Smith")

	r := NewResolver(store, nil, "Authors", true)

	id, err := r.FindIdentity("jane smith")
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, "Jane Smith", id.Name)
	assert.Equal(t, "Authors/Jane Smith.md", id.Path)
}

func TestFindIdentity_AliasMatch(t *testing.T) {
	store := vault.NewMemStore()
	seedAuthor(t, store, "Joanne Rowling", "J.K. Rowling", "Robert Galbraith")

	r := NewResolver(store, nil, "Authors", true)

	id, err := r.FindIdentity("j.k. rowling")
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, "Joanne Rowling", id.Name)
}

// Substring matching is forbidden: "John" must not resolve to "Johnny Depp".
func TestFindIdentity_NoSubstringMatch(t *testing.T) {
	store := vault.NewMemStore()
	seedAuthor(t, store, "Johnny Depp")

	r := NewResolver(store, nil, "Authors", true)

	id, err := r.FindIdentity("John")
	require.NoError(t, err)
	assert.Nil(t, id)
}

func TestResolveOrCreate_ExistingIdentity(t *testing.T) {
	store := vault.NewMemStore()
	seedAuthor(t, store, "Jane Smith")

	r := NewResolver(store, nil, "Authors", true)

	link, err := r.ResolveOrCreate(context.Background(), "Jane Smith", "")
	require.NoError(t, err)
	assert.Equal(t, "[[Jane Smith]]", link.Link)
	assert.False(t, link.Created)
}

func TestResolveOrCreate_CreatesIdentityWithBio(t *testing.T) {
	store := vault.NewMemStore()
	o := stubOracle{resp: "BIO:\nJane Smith writes about distributed systems.\n\nSOCIAL:\n- Website: https://janesmith.dev\n- Twitter: [handle]\n- Mastodon:\n"}

	r := NewResolver(store, o, "Authors", true)

	link, err := r.ResolveOrCreate(context.Background(), "Jane Smith", "some article text")
	require.NoError(t, err)
	assert.True(t, link.Created)
	assert.Equal(t, "[[Jane Smith]]", link.Link)

	doc, err := store.ReadDocument("Authors/Jane Smith.md")
	require.NoError(t, err)
	assert.Contains(t, doc.Body, "Jane Smith writes about distributed systems.")
	assert.Contains(t, doc.Body, "Website: https://janesmith.dev")
	// Template placeholders and valueless lines must be filtered out.
	assert.NotContains(t, doc.Body, "[handle]")
	assert.NotContains(t, doc.Body, "Mastodon")
}

func TestResolveOrCreate_OracleFailureStillCreates(t *testing.T) {
	store := vault.NewMemStore()
	o := stubOracle{err: errors.New("service unavailable")}

	r := NewResolver(store, o, "Authors", true)

	link, err := r.ResolveOrCreate(context.Background(), "Jane Smith", "")
	require.NoError(t, err)
	assert.True(t, link.Created)

	doc, err := store.ReadDocument("Authors/Jane Smith.md")
	require.NoError(t, err)
	assert.Contains(t, doc.Body, "Bio pending.")
}

func TestResolveOrCreate_CreationDisabled(t *testing.T) {
	store := vault.NewMemStore()

	r := NewResolver(store, nil, "Authors", false)

	link, err := r.ResolveOrCreate(context.Background(), "Jane Smith", "")
	require.NoError(t, err)
	assert.False(t, link.Created)
	// The link still points at the canonical name even though no page exists.
	assert.Equal(t, "[[Jane Smith]]", link.Link)

	docs, err := store.ListDocuments("Authors")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestResolveAll_OrderAndAggregates(t *testing.T) {
	store := vault.NewMemStore()
	seedAuthor(t, store, "Jane Smith")

	r := NewResolver(store, stubOracle{resp: "BIO:\nStub.\nSOCIAL:\n"}, "Authors", true)

	result, err := r.ResolveAll(context.Background(), "john doe, Jane Smith and john doe", "")
	require.NoError(t, err)

	// Per-author results keep credit order and duplicates.
	require.Len(t, result.Authors, 3)
	assert.Equal(t, "John Doe", result.Authors[0].Name)
	assert.Equal(t, "Jane Smith", result.Authors[1].Name)
	assert.Equal(t, "John Doe", result.Authors[2].Name)

	// Aggregates are de-duplicated.
	assert.Equal(t, []string{"John Doe", "Jane Smith"}, result.Names)
	assert.Equal(t, []string{"[[John Doe]]", "[[Jane Smith]]"}, result.Links)
	assert.Equal(t, 1, result.CreatedCount)
}

func TestParseBioResponse(t *testing.T) {
	bio, social, ok := parseBioResponse("BIO:\nA writer.\n\nSOCIAL:\n- Website: https://a.example\n- Twitter: <handle>\n")
	require.True(t, ok)
	assert.Equal(t, "A writer.", bio)
	assert.Equal(t, []string{"Website: https://a.example"}, social)

	_, _, ok = parseBioResponse("no sections here")
	assert.False(t, ok)

	_, _, ok = parseBioResponse("SOCIAL:\n- x: y\nBIO:\nbackwards")
	assert.False(t, ok)
}
