// Package taxonomy parses and validates the category/tag completion returned
// by the text oracle.
package taxonomy

import (
	"regexp"
	"strings"
)

const (
	maxTagLength      = 100
	maxCategoryLength = 50
)

var (
	categoryLineRe  = regexp.MustCompile(`(?im)^\s*CATEGORY:\s*(.+)$`)
	categoryValueRe = regexp.MustCompile(`^[A-Za-z &-]+$`)
	tagsLabelRe     = regexp.MustCompile(`(?i)TAGS:`)
	tagValueRe      = regexp.MustCompile(`^[a-z0-9/-]+$`)
	bulletRe        = regexp.MustCompile(`^[-*•]+\s*`)
	whitespaceRunRe = regexp.MustCompile(`\s+`)
)

// Parser validates oracle tag/category output against the vault's tagging
// rules. Prefix is prepended to tags that do not already carry it; MaxTags
// bounds the output.
type Parser struct {
	Prefix  string
	MaxTags int
}

// Parse extracts a validated tag list and category label from a completion.
// Either section may be missing, and malformed lines are skipped; this never
// fails on bad input, it just returns less.
func (p *Parser) Parse(response string) (tags []string, category string) {
	category = p.parseCategory(response)
	tags = p.parseTags(response)
	return tags, category
}

func (p *Parser) parseCategory(response string) string {
	m := categoryLineRe.FindStringSubmatch(response)
	if m == nil {
		return ""
	}
	value := strings.TrimSpace(m[1])
	if value == "" || len(value) > maxCategoryLength || !categoryValueRe.MatchString(value) {
		return ""
	}
	return value
}

func (p *Parser) parseTags(response string) []string {
	loc := tagsLabelRe.FindStringIndex(response)
	if loc == nil {
		return nil
	}

	var tags []string
	for _, line := range strings.Split(response[loc[1]:], "\n") {
		if p.MaxTags > 0 && len(tags) >= p.MaxTags {
			break
		}
		tag, ok := p.normalizeTag(line)
		if !ok {
			continue
		}
		tags = append(tags, tag)
	}
	return tags
}

// normalizeTag turns one response line into a valid tag, or reports that the
// line should be skipped.
func (p *Parser) normalizeTag(line string) (string, bool) {
	s := strings.TrimSpace(line)
	s = bulletRe.ReplaceAllString(s, "")
	s = strings.TrimPrefix(s, "#")
	s = strings.Trim(s, `"'`)
	s = strings.ToLower(strings.TrimSpace(s))

	if s == "" || len(s) > maxTagLength {
		return "", false
	}
	// A space without hierarchy is almost always a prose line, not a tag.
	if strings.Contains(s, " ") && !strings.Contains(s, "/") {
		return "", false
	}

	s = whitespaceRunRe.ReplaceAllString(s, "-")
	if p.Prefix != "" && !strings.HasPrefix(s, p.Prefix) {
		s = p.Prefix + s
	}

	if len(s) > maxTagLength || !tagValueRe.MatchString(s) {
		return "", false
	}
	return s, true
}
