package oracle

import (
	"fmt"
	"strings"
)

// PromptBuilder constructs standardized prompts for the enrichment steps.
type PromptBuilder struct{}

// maxPromptChars limits article content folded into a prompt. ~4000 chars is
// roughly 1000 tokens, enough for classification without blowing the context.
const maxPromptChars = 4000

// BuildTagPrompt asks for a filing category plus hierarchical tags in the
// labelled-section format the parser expects.
func (pb *PromptBuilder) BuildTagPrompt(title, content, tagPrefix string, maxTags int) string {
	var sb strings.Builder
	sb.WriteString("Role: Librarian. Task: Classify a captured web article for filing.\n\n")
	fmt.Fprintf(&sb, "Article title: %s\n\nArticle content:\n%s\n\n", title, TruncateForPrompt(content, maxPromptChars))
	sb.WriteString("**INSTRUCTION**:\n")
	sb.WriteString("Respond in exactly this format, nothing else:\n\n")
	sb.WriteString("CATEGORY: <one short label, letters/spaces/&/- only>\n")
	sb.WriteString("TAGS:\n")
	fmt.Fprintf(&sb, "- <up to %d tags, lowercase, hyphenated, use / for hierarchy>\n\n", maxTags)
	if tagPrefix != "" {
		fmt.Fprintf(&sb, "Every tag must start with the prefix %q.\n", tagPrefix)
	}
	sb.WriteString("Tags describe topics, not the publisher. No prose, no explanations.\n")
	return sb.String()
}

// BuildBioPrompt asks for a short author bio and social links in the
// labelled-section format the resolver expects.
func (pb *PromptBuilder) BuildBioPrompt(name, contextText string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Role: Research Assistant. Task: Write a profile stub for the author %q.\n\n", name)
	if strings.TrimSpace(contextText) != "" {
		fmt.Fprintf(&sb, "They wrote the following article:\n%s\n\n", TruncateForPrompt(contextText, maxPromptChars))
	}
	sb.WriteString("**INSTRUCTION**:\n")
	sb.WriteString("Respond in exactly this format:\n\n")
	sb.WriteString("BIO:\n<2-3 sentence biography. If you know nothing about this person, say so plainly.>\n\n")
	sb.WriteString("SOCIAL:\n")
	sb.WriteString("- Website: <url>\n")
	sb.WriteString("- Twitter: <handle>\n\n")
	sb.WriteString("Only list social entries you are confident about; omit the rest entirely.\n")
	return sb.String()
}

// TruncateForPrompt cuts content to maxChars, preferring a paragraph boundary.
func TruncateForPrompt(content string, maxChars int) string {
	if len(content) <= maxChars {
		return content
	}

	truncated := content[:maxChars]
	lastPara := strings.LastIndex(truncated, "\n\n")
	if lastPara > maxChars/2 {
		return truncated[:lastPara] + "\n\n[Content truncated...]"
	}

	return truncated + "\n\n[Content truncated...]"
}
