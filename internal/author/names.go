// Package author turns raw author credits into canonical names and links
// them to identity pages in the vault.
package author

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	andSeparatorRe = regexp.MustCompile(`(?i)\s+and\s+`)
	ampSeparatorRe = regexp.MustCompile(`\s*&\s*`)
	commaSplitRe   = regexp.MustCompile(`,\s*`)
	creditPrefixRe = regexp.MustCompile(`(?i)^(written\s+by\s+|by\s+|author:\s*)`)
	wordRe         = regexp.MustCompile(`[a-z]+`)
)

// organizationWords marks credit strings that name an institution rather than
// a person, so "Doe, Jane Foundation" is never inverted into a person name.
var organizationWords = map[string]bool{
	"association": true, "guild": true, "foundation": true, "institute": true,
	"society": true, "organization": true, "corporation": true, "inc": true,
	"llc": true, "ltd": true, "company": true, "group": true, "committee": true,
	"board": true, "council": true, "department": true, "office": true,
}

// SplitAuthors breaks a raw credit string into individual author names.
// " and ", " & " and ", " are equivalent separators.
func SplitAuthors(raw string) []string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	s = andSeparatorRe.ReplaceAllString(s, ", ")
	s = ampSeparatorRe.ReplaceAllString(s, ", ")

	var names []string
	for _, part := range commaSplitRe.Split(s, -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		names = append(names, part)
	}
	return names
}

// NormalizeName produces the canonical display form of one author name:
// credit prefix stripped, "Last, First" inverted when the string plausibly
// names a person, then title-cased with initials preserved.
func NormalizeName(name string) string {
	n := strings.TrimSpace(name)
	n = creditPrefixRe.ReplaceAllString(n, "")
	n = strings.TrimSpace(n)

	if parts := strings.Split(n, ","); len(parts) == 2 {
		last := strings.TrimSpace(parts[0])
		first := strings.TrimSpace(parts[1])
		// The ≤2-word check on the second part is a loose "looks like a first
		// name" heuristic and is known to misfire on unlisted two-word
		// organization names.
		if last != "" && first != "" && !looksLikeOrganization(n) && len(strings.Fields(first)) <= 2 {
			n = first + " " + last
		}
	}

	return titleCase(n)
}

func looksLikeOrganization(s string) bool {
	for _, w := range wordRe.FindAllString(strings.ToLower(s), -1) {
		if organizationWords[w] {
			return true
		}
	}
	return false
}

func titleCase(s string) string {
	tokens := strings.Fields(s)
	for i, tok := range tokens {
		if isInitialism(tok) {
			continue
		}
		tokens[i] = upperFirst(tok)
	}
	return strings.Join(tokens, " ")
}

// isInitialism keeps short all-uppercase tokens like "J.K." or "IBM" verbatim.
func isInitialism(tok string) bool {
	letters := 0
	hasUpper := false
	for _, r := range tok {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			letters++
			hasUpper = true
		}
	}
	return hasUpper && letters <= 3
}

func upperFirst(tok string) string {
	r, size := utf8.DecodeRuneInString(tok)
	if size == 0 || r == utf8.RuneError {
		return tok
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(tok[size:])
}
