package taxonomy

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_CategoryAndTags(t *testing.T) {
	p := &Parser{Prefix: "research/", MaxTags: 5}

	tags, category := p.Parse("CATEGORY: Technology\nTAGS:\n- ai\n- machine-learning\n")

	assert.Equal(t, "Technology", category)
	assert.Equal(t, []string{"research/ai", "research/machine-learning"}, tags)
}

func TestParse_TagLineCleanup(t *testing.T) {
	p := &Parser{MaxTags: 10}

	tags, _ := p.Parse("TAGS:\n" +
		"- #golang\n" +
		"* \"web-dev\"\n" +
		"- Data Science\n" + // prose line: space without hierarchy
		"- machine learning/nlp\n" + // space with hierarchy becomes hyphen
		"- UPPER-Case\n" +
		"-\n" +
		"some free text that is not a tag\n")

	assert.Equal(t, []string{"golang", "web-dev", "machine-learning/nlp", "upper-case"}, tags)
}

func TestParse_MissingSectionsNeverFail(t *testing.T) {
	p := &Parser{MaxTags: 5}

	tags, category := p.Parse("The model rambled instead of following instructions.")
	assert.Empty(t, tags)
	assert.Empty(t, category)

	tags, category = p.Parse("")
	assert.Empty(t, tags)
	assert.Empty(t, category)

	tags, category = p.Parse("CATEGORY: Science")
	assert.Empty(t, tags)
	assert.Equal(t, "Science", category)

	tags, category = p.Parse("TAGS:\n- physics")
	assert.Equal(t, []string{"physics"}, tags)
	assert.Empty(t, category)
}

func TestParse_CategoryValidation(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
	}{
		{"simple", "CATEGORY: Science & Nature", "Science & Nature"},
		{"hyphenated", "CATEGORY: Sci-Fi", "Sci-Fi"},
		{"digits rejected", "CATEGORY: Web3", ""},
		{"punctuation rejected", "CATEGORY: Tech!", ""},
		{"too long rejected", "CATEGORY: Aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", ""},
		{"missing", "no category line", ""},
	}

	p := &Parser{MaxTags: 5}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, category := p.Parse(tt.response)
			assert.Equal(t, tt.want, category)
		})
	}
}

func TestParse_MaxTagsBound(t *testing.T) {
	p := &Parser{MaxTags: 2}

	tags, _ := p.Parse("TAGS:\n- one\n- two\n- three\n- four\n")
	assert.Equal(t, []string{"one", "two"}, tags)
}

func TestParse_PrefixNotDoubled(t *testing.T) {
	p := &Parser{Prefix: "research/", MaxTags: 5}

	tags, _ := p.Parse("TAGS:\n- research/ai\n- ml\n")
	assert.Equal(t, []string{"research/ai", "research/ml"}, tags)
}

// Every produced tag satisfies the validity contract regardless of input.
func TestParse_TagValidityProperty(t *testing.T) {
	valid := regexp.MustCompile(`^[a-z0-9/-]+$`)
	responses := []string{
		"TAGS:\n- Mixed CASE/Tag\n- 'quoted'\n- #hash/tag\n- with   runs of spaces/ok\n",
		"tags:\n- lower-label\n",
		"TAGS:\n- " + string(bytesOfLen(150)) + "\n- fine\n",
	}

	p := &Parser{Prefix: "x/", MaxTags: 10}
	for _, resp := range responses {
		tags, _ := p.Parse(resp)
		for _, tag := range tags {
			require.True(t, valid.MatchString(tag), "tag %q", tag)
			require.LessOrEqual(t, len(tag), 100)
		}
	}
}

func bytesOfLen(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = 'a'
	}
	return b
}
