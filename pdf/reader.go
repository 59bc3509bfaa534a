// Package pdf reads PDF text layout with ledongthuc/pdf and segments books
// into chapters.
package pdf

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/cursorboy/scrapekb"
	lpdf "github.com/ledongthuc/pdf"
)

// Ensure Reader implements scrapekb.PDFReader at compile time.
var _ scrapekb.PDFReader = (*Reader)(nil)

// Reader extracts positioned text from PDF bytes.
type Reader struct{}

// NewReader creates a new Reader.
func NewReader() *Reader {
	return &Reader{}
}

// Read returns the document info and the text lines of every page. The
// underlying parser panics on some malformed input; panics are reported as
// parse errors.
func (r *Reader) Read(data []byte) (doc *scrapekb.PDFDocument, err error) {
	if len(data) == 0 {
		return nil, scrapekb.Errorf(scrapekb.EINVALID, "empty PDF input")
	}

	defer func() {
		if rec := recover(); rec != nil {
			doc, err = nil, scrapekb.ParseError("", fmt.Errorf("pdf: %v", rec))
		}
	}()

	pr, err := lpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, scrapekb.ParseError("", err)
	}

	info := pr.Trailer().Key("Info")
	doc = &scrapekb.PDFDocument{
		Title:  strings.TrimSpace(info.Key("Title").Text()),
		Author: strings.TrimSpace(info.Key("Author").Text()),
	}

	for i := 1; i <= pr.NumPage(); i++ {
		p := pr.Page(i)
		if p.V.IsNull() {
			continue
		}
		doc.Pages = append(doc.Pages, scrapekb.PDFPage{
			Number: i,
			Lines:  groupLines(p.Content().Text),
		})
	}
	return doc, nil
}

// groupLines assembles glyphs into lines by baseline, top to bottom. A
// space is inserted wherever a glyph starts noticeably past the end of the
// previous one, since the parser does not emit space glyphs.
func groupLines(glyphs []lpdf.Text) []scrapekb.PDFLine {
	rows := make(map[float64][]lpdf.Text)
	for _, g := range glyphs {
		y := math.Round(g.Y)
		rows[y] = append(rows[y], g)
	}

	ys := make([]float64, 0, len(rows))
	for y := range rows {
		ys = append(ys, y)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(ys)))

	var lines []scrapekb.PDFLine
	for _, y := range ys {
		row := rows[y]
		sort.SliceStable(row, func(i, j int) bool { return row[i].X < row[j].X })

		var b strings.Builder
		sizes := make(map[float64]int)
		for i, g := range row {
			if i > 0 {
				prev := row[i-1]
				if g.X > prev.X+prev.W+0.1*g.FontSize {
					b.WriteByte(' ')
				}
			}
			b.WriteString(g.S)
			sizes[g.FontSize]++
		}

		text := strings.Join(strings.Fields(b.String()), " ")
		if text == "" {
			continue
		}
		lines = append(lines, scrapekb.PDFLine{Text: text, FontSize: dominantSize(sizes)})
	}
	return lines
}

// dominantSize returns the most frequent size, preferring the larger on
// ties.
func dominantSize(sizes map[float64]int) float64 {
	best, count := 0.0, 0
	for size, n := range sizes {
		if n > count || (n == count && size > best) {
			best, count = size, n
		}
	}
	return best
}
