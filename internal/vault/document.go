package vault

import (
	"bytes"
	"fmt"
	"path"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Header is the YAML frontmatter block of a document, modelled as a typed
// key/value map with an explicit round-trip instead of scattered regexes.
type Header map[string]any

// Document is one markdown file in the vault, addressed by a slash-separated
// path relative to the vault root.
type Document struct {
	Path   string
	Header Header
	Body   string
}

// Title is the document's display name: the file name without extension.
func (d *Document) Title() string {
	base := path.Base(d.Path)
	return strings.TrimSuffix(base, path.Ext(base))
}

func (h Header) GetString(key string) string {
	if h == nil {
		return ""
	}
	if v, ok := h[key].(string); ok {
		return v
	}
	return ""
}

func (h Header) GetBool(key string) bool {
	if h == nil {
		return false
	}
	if v, ok := h[key].(bool); ok {
		return v
	}
	return false
}

// GetStringList returns the value as a string slice, accepting both a YAML
// sequence and a single scalar.
func (h Header) GetStringList(key string) []string {
	if h == nil {
		return nil
	}
	switch v := h[key].(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return v
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	default:
		return nil
	}
}

// Parse splits raw file content into frontmatter and body. Content without a
// frontmatter block, or with one that fails to parse, becomes body-only.
func Parse(docPath string, content []byte) *Document {
	doc := &Document{Path: docPath, Header: Header{}}

	str := string(content)
	if strings.HasPrefix(str, "---\n") || strings.HasPrefix(str, "---\r\n") {
		header, body, err := extractFrontmatter(str)
		if err != nil {
			doc.Body = str
		} else {
			doc.Header = header
			doc.Body = body
		}
	} else {
		doc.Body = str
	}

	return doc
}

// Render serializes the document back to file content. An empty header still
// produces a frontmatter block so the round-trip is stable.
func (d *Document) Render() []byte {
	var buf bytes.Buffer
	buf.WriteString("---\n")
	if len(d.Header) > 0 {
		out, err := yaml.Marshal(map[string]any(d.Header))
		if err == nil {
			buf.Write(out)
		}
	}
	buf.WriteString("---\n\n")
	buf.WriteString(d.Body)
	return buf.Bytes()
}

// extractFrontmatter parses the YAML block between the --- delimiters.
func extractFrontmatter(content string) (Header, string, error) {
	const delimiter = "---"

	start := len(delimiter)
	if len(content) > start && content[start] == '\r' {
		start++
	}
	if len(content) > start && content[start] == '\n' {
		start++
	}

	closeIdx := strings.Index(content[start:], "\n"+delimiter)
	if closeIdx == -1 {
		closeIdx = strings.Index(content[start:], "\r\n"+delimiter)
	}
	if closeIdx == -1 {
		return nil, content, fmt.Errorf("no closing frontmatter delimiter")
	}

	yamlContent := content[start : start+closeIdx]

	bodyStart := start + closeIdx + 1 + len(delimiter)
	for bodyStart < len(content) && (content[bodyStart] == '\n' || content[bodyStart] == '\r') {
		bodyStart++
	}

	body := ""
	if bodyStart < len(content) {
		body = content[bodyStart:]
	}

	header := Header{}
	if err := yaml.Unmarshal([]byte(yamlContent), &header); err != nil {
		return nil, content, err
	}
	return header, body, nil
}

// ExtractHeaderField is a best-effort single-field read straight from raw
// content, used before the document has been fully parsed. It only handles a
// simple single-line scalar inside the first frontmatter block and returns
// false for anything else.
func ExtractHeaderField(content []byte, key string) (string, bool) {
	str := string(content)
	if !strings.HasPrefix(str, "---") {
		return "", false
	}
	end := strings.Index(str[3:], "\n---")
	if end == -1 {
		return "", false
	}
	block := str[3 : 3+end]

	re, err := regexp.Compile(`(?m)^` + regexp.QuoteMeta(key) + `:[ \t]*(.+)$`)
	if err != nil {
		return "", false
	}
	m := re.FindStringSubmatch(block)
	if m == nil {
		return "", false
	}
	val := strings.TrimSpace(m[1])
	val = strings.Trim(val, `"'`)
	if val == "" || strings.HasPrefix(val, "[") || strings.HasPrefix(val, "|") || strings.HasPrefix(val, ">") {
		return "", false
	}
	return val, true
}
