// Package htmltomarkdown normalizes extracted content to Markdown with
// html-to-markdown.
package htmltomarkdown

import (
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/cursorboy/scrapekb"
)

// droppedTags never contribute text to a knowledge item.
var droppedTags = []string{
	"img", "picture", "svg", "video", "audio", "source",
	"script", "style", "iframe", "noscript", "button", "form",
}

var (
	// htmlTagRe detects markup. An escaped \< in Markdown is not a tag.
	htmlTagRe    = regexp.MustCompile(`(^|[^\\])</?[a-zA-Z][a-zA-Z0-9]*(\s[^<>]*)?/?>`)
	emptyLinkRe  = regexp.MustCompile(`\[\s*\]\([^)]*\)`)
	blankLinesRe = regexp.MustCompile(`\n{3,}`)
	trailingWSRe = regexp.MustCompile(`(?m)[ \t]+$`)
)

// Ensure Converter implements scrapekb.Converter at compile time.
var _ scrapekb.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown to convert HTML to Markdown.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	for _, tag := range droppedTags {
		conv.Register.TagType(tag, converter.TagTypeRemove, converter.PriorityStandard)
	}
	return &Converter{conv: conv}
}

// Convert transforms HTML content into Markdown. Text without markup is
// treated as Markdown already and only cleaned up, which makes Convert
// idempotent. Links and image sources are made absolute against a remote
// baseURL; local paths leave them as written.
func (c *Converter) Convert(html, baseURL string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", scrapekb.Errorf(scrapekb.EINVALID, "empty HTML input")
	}

	if !IsHTML(html) {
		return cleanup(html), nil
	}

	var opts []converter.ConvertOptionFunc
	if baseURL != "" && !scrapekb.IsLocalTarget(baseURL) {
		opts = append(opts, converter.WithDomain(baseURL))
	}
	result, err := c.conv.ConvertString(html, opts...)
	if err != nil {
		return "", scrapekb.ParseError("", err)
	}
	result = emptyLinkRe.ReplaceAllString(result, "")
	return cleanup(result), nil
}

// IsHTML reports whether s contains markup outside code.
func IsHTML(s string) bool {
	return htmlTagRe.MatchString(scrapekb.StripCode(s))
}

// cleanup normalizes line endings, hard breaks and blank lines.
func cleanup(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = hardBreaks(s)
	s = trailingWSRe.ReplaceAllString(s, "")
	s = blankLinesRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// hardBreaks rewrites two-space line breaks as a trailing backslash, which
// survives whitespace trimming. Code fences and headings are left alone.
func hardBreaks(s string) string {
	lines := strings.Split(s, "\n")
	fenced := false
	for i := 0; i < len(lines)-1; i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			fenced = !fenced
			continue
		}
		if fenced || !strings.HasSuffix(line, "  ") || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if trimmed == "" || strings.TrimSpace(lines[i+1]) == "" {
			continue
		}
		lines[i] = strings.TrimRight(line, " \t") + `\`
	}
	return strings.Join(lines, "\n")
}
