package pdf

import (
	"math"
	"path"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cursorboy/scrapekb"
)

// Segmentation defaults.
const (
	DefaultMaxChapters      = 8
	DefaultMinChapterLength = 200
	DefaultHeadingRatio     = 1.3
	DefaultMaxHeadingLength = 120
)

// maxTitleLines bounds how many consecutive heading lines form one title.
const maxTitleLines = 3

var chapterRe = regexp.MustCompile(`(?i)^(chapter|part)\s+(\d+|[ivxlc]+|one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve)\b`)

// Ensure Segmenter implements scrapekb.Segmenter at compile time.
var _ scrapekb.Segmenter = (*Segmenter)(nil)

// Segmenter splits a book into chapters at pages that open with a heading.
type Segmenter struct {
	Reader scrapekb.PDFReader

	// MaxChapters caps the items per document. Later chapters are dropped.
	MaxChapters int

	// MinChapterLength is the body text, in runes, a chapter needs to be
	// kept. The heading does not count.
	MinChapterLength int

	// HeadingRatio is the font-size jump over body text that marks a
	// heading line.
	HeadingRatio float64

	// MaxHeadingLength is the longest line, in runes, that can be a heading.
	MaxHeadingLength int
}

// NewSegmenter creates a Segmenter with default thresholds.
func NewSegmenter(reader scrapekb.PDFReader) *Segmenter {
	return &Segmenter{
		Reader:           reader,
		MaxChapters:      DefaultMaxChapters,
		MinChapterLength: DefaultMinChapterLength,
		HeadingRatio:     DefaultHeadingRatio,
		MaxHeadingLength: DefaultMaxHeadingLength,
	}
}

type chapter struct {
	title string
	parts []string
}

// Segment reads the PDF and returns one book item per chapter. Pages before
// the first chapter are folded into it. Without any chapter boundary the
// whole document becomes a single item. Chapters shorter than
// MinChapterLength are dropped before the cap applies.
func (s *Segmenter) Segment(data []byte, source string) ([]*scrapekb.ContentItem, error) {
	doc, err := s.Reader.Read(data)
	if err != nil {
		return nil, err
	}

	body := bodyFontSize(doc)
	var preface []string
	var chapters []*chapter
	for _, page := range doc.Pages {
		title, rest := s.splitHeading(page.Lines, body)
		text := joinLines(rest)
		switch {
		case title != "":
			chapters = append(chapters, &chapter{title: title, parts: nonEmpty(text)})
		case len(chapters) == 0:
			preface = append(preface, nonEmpty(text)...)
		default:
			last := chapters[len(chapters)-1]
			last.parts = append(last.parts, nonEmpty(text)...)
		}
	}

	if len(chapters) == 0 {
		title := doc.Title
		if title == "" {
			title = strings.TrimSuffix(path.Base(source), path.Ext(source))
		}
		if title == "" || title == "." || title == "/" {
			title = "Untitled"
		}
		if len(preface) == 0 {
			return nil, scrapekb.ExtractionFailure(source, "no extractable text in PDF")
		}
		chapters = []*chapter{{title: title, parts: preface}}
	} else {
		chapters[0].parts = append(preface, chapters[0].parts...)
	}

	kept := chapters[:0]
	for _, ch := range chapters {
		if utf8.RuneCountInString(strings.Join(ch.parts, "\n\n")) >= s.MinChapterLength {
			kept = append(kept, ch)
		}
	}
	if len(kept) == 0 {
		return nil, scrapekb.ExtractionFailure(source, "no chapter has enough text")
	}
	chapters = kept

	if s.MaxChapters > 0 && len(chapters) > s.MaxChapters {
		chapters = chapters[:s.MaxChapters]
	}

	var author *string
	if doc.Author != "" {
		author = scrapekb.StringPtr(doc.Author)
	}

	items := make([]*scrapekb.ContentItem, 0, len(chapters))
	for _, ch := range chapters {
		content := "# " + ch.title
		if len(ch.parts) > 0 {
			content += "\n\n" + strings.Join(ch.parts, "\n\n")
		}
		items = append(items, &scrapekb.ContentItem{
			Title:       ch.title,
			Content:     content,
			ContentType: scrapekb.ContentTypeBook,
			SourceURL:   source,
			Author:      author,
		})
	}
	return items, nil
}

// splitHeading returns the chapter title opening the page, if any, and the
// remaining lines. A page opens a chapter when its first line is set larger
// than body text or reads like "Chapter 3".
func (s *Segmenter) splitHeading(lines []scrapekb.PDFLine, body float64) (string, []scrapekb.PDFLine) {
	if len(lines) == 0 {
		return "", lines
	}

	var title []string
	n := 0
	if s.isChapterLabel(lines[0]) && !s.isHeading(lines[0], body) {
		title = append(title, lines[0].Text)
		n = 1
	}
	for n < len(lines) && len(title) < maxTitleLines && s.isHeading(lines[n], body) {
		title = append(title, lines[n].Text)
		n++
	}
	if n == 0 {
		return "", lines
	}
	return strings.Join(title, " "), lines[n:]
}

func (s *Segmenter) isHeading(line scrapekb.PDFLine, body float64) bool {
	if body <= 0 || line.FontSize < body*s.HeadingRatio {
		return false
	}
	return utf8.RuneCountInString(line.Text) <= s.MaxHeadingLength && strings.IndexFunc(line.Text, unicode.IsLetter) >= 0
}

func (s *Segmenter) isChapterLabel(line scrapekb.PDFLine) bool {
	return utf8.RuneCountInString(line.Text) <= s.MaxHeadingLength && chapterRe.MatchString(line.Text)
}

// bodyFontSize returns the size carrying the most characters, rounded to
// half points.
func bodyFontSize(doc *scrapekb.PDFDocument) float64 {
	weights := make(map[float64]int)
	for _, page := range doc.Pages {
		for _, line := range page.Lines {
			size := math.Round(line.FontSize*2) / 2
			weights[size] += utf8.RuneCountInString(line.Text)
		}
	}
	best, weight := 0.0, 0
	for size, w := range weights {
		if w > weight || (w == weight && size < best) {
			best, weight = size, w
		}
	}
	return best
}

func joinLines(lines []scrapekb.PDFLine) string {
	texts := make([]string, len(lines))
	for i, l := range lines {
		texts[i] = l.Text
	}
	return strings.TrimSpace(strings.Join(texts, "\n"))
}

func nonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}
