package scrapekb

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Section represents a heading in a markdown document.
type Section struct {
	Level  int    `json:"level"`
	Title  string `json:"title"`
	Anchor string `json:"anchor"`
}

var (
	headingRe    = regexp.MustCompile(`(?m)^(#{1,6})[ \t]+(.+?)(?:[ \t]+#+)?[ \t]*$`)
	codeBlockRe  = regexp.MustCompile("(?s)```.*?```|~~~.*?~~~")
	codeSpanRe   = regexp.MustCompile("`[^`\n]*`")
	inlineLinkRe = regexp.MustCompile(`!?\[([^\]]*)\]\([^)]*\)`)
	emphasisRe   = regexp.MustCompile(`\*{1,3}([^*]+)\*{1,3}`)
)

// ExtractSections parses markdown and returns all headings (H1-H6).
// It generates URL-safe anchors and handles duplicates with numeric suffixes.
func ExtractSections(markdown string) []Section {
	if markdown == "" {
		return nil
	}

	matches := headingRe.FindAllStringSubmatch(StripCode(markdown), -1)
	if len(matches) == 0 {
		return nil
	}

	sections := make([]Section, 0, len(matches))
	anchorCounts := make(map[string]int)

	for _, match := range matches {
		title := plainText(match[2])
		if title == "" {
			continue
		}
		baseAnchor := Anchor(title)

		anchor := baseAnchor
		if count, exists := anchorCounts[baseAnchor]; exists {
			anchor = baseAnchor + "-" + strconv.Itoa(count)
			anchorCounts[baseAnchor]++
		} else {
			anchorCounts[baseAnchor] = 1
		}

		sections = append(sections, Section{
			Level:  len(match[1]),
			Title:  title,
			Anchor: anchor,
		})
	}

	return sections
}

// FirstHeading returns the plain text of the first heading in markdown, or
// "" when there is none.
func FirstHeading(markdown string) string {
	if s := ExtractSections(markdown); len(s) > 0 {
		return s[0].Title
	}
	return ""
}

// StripCode removes fenced code blocks and inline code spans from markdown.
func StripCode(s string) string {
	s = codeBlockRe.ReplaceAllString(s, "")
	return codeSpanRe.ReplaceAllString(s, "")
}

// plainText drops inline link and emphasis syntax from a heading.
func plainText(s string) string {
	s = inlineLinkRe.ReplaceAllString(s, "$1")
	s = emphasisRe.ReplaceAllString(s, "$1")
	return strings.TrimSpace(s)
}

// Anchor creates a URL-safe anchor from a title.
// Converts to lowercase, replaces spaces with hyphens, removes special chars.
func Anchor(title string) string {
	var sb strings.Builder
	prevHyphen := false

	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			prevHyphen = false
		} else if unicode.IsSpace(r) || r == '-' {
			if !prevHyphen && sb.Len() > 0 {
				sb.WriteRune('-')
				prevHyphen = true
			}
		}
	}

	return strings.TrimSuffix(sb.String(), "-")
}
