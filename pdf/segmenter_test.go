package pdf_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/cursorboy/scrapekb"
	"github.com/cursorboy/scrapekb/mock"
	"github.com/cursorboy/scrapekb/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func page(n int, lines ...scrapekb.PDFLine) scrapekb.PDFPage {
	return scrapekb.PDFPage{Number: n, Lines: lines}
}

func heading(text string) scrapekb.PDFLine {
	return scrapekb.PDFLine{Text: text, FontSize: 24}
}

func body(text string) scrapekb.PDFLine {
	return scrapekb.PDFLine{Text: text, FontSize: 11}
}

func readerOf(doc *scrapekb.PDFDocument) *mock.PDFReader {
	return &mock.PDFReader{
		ReadFn: func([]byte) (*scrapekb.PDFDocument, error) {
			return doc, nil
		},
	}
}

// shortChapters returns a segmenter over doc that keeps chapters of a
// sentence or more, so fixtures stay small.
func shortChapters(doc *scrapekb.PDFDocument) *pdf.Segmenter {
	s := pdf.NewSegmenter(readerOf(doc))
	s.MinChapterLength = 10
	return s
}

func TestSegmenter_Segment(t *testing.T) {
	t.Parallel()

	t.Run("emits one book item per heading-marked chapter in order", func(t *testing.T) {
		t.Parallel()

		doc := &scrapekb.PDFDocument{Pages: []scrapekb.PDFPage{
			page(1, heading("Arrays"), body("Arrays store elements contiguously in memory."), body("Indexing is constant time.")),
			page(2, body("Appending may trigger a resize of the backing store.")),
			page(3, heading("Linked Lists"), body("Nodes point to their successors one at a time.")),
			page(4, heading("Trees"), body("Every node has at most one parent node above it.")),
		}}

		items, err := shortChapters(doc).Segment([]byte("%PDF"), "/books/dsa.pdf")

		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, []string{"Arrays", "Linked Lists", "Trees"}, []string{items[0].Title, items[1].Title, items[2].Title})
		for _, item := range items {
			assert.Equal(t, scrapekb.ContentTypeBook, item.ContentType)
			assert.Equal(t, "/books/dsa.pdf", item.SourceURL)
			assert.Empty(t, item.UserID)
			assert.NoError(t, item.Validate())
		}
		assert.Equal(t, "# Arrays\n\nArrays store elements contiguously in memory.\nIndexing is constant time.\n\n"+
			"Appending may trigger a resize of the backing store.", items[0].Content)

		var all strings.Builder
		for _, item := range items {
			all.WriteString(item.Content)
		}
		joined := all.String()
		assert.Less(t, strings.Index(joined, "contiguously"), strings.Index(joined, "resize"))
		assert.Less(t, strings.Index(joined, "resize"), strings.Index(joined, "successors"))
		assert.Less(t, strings.Index(joined, "successors"), strings.Index(joined, "parent"))
	})

	t.Run("folds pages before the first chapter into it", func(t *testing.T) {
		t.Parallel()

		doc := &scrapekb.PDFDocument{Pages: []scrapekb.PDFPage{
			page(1, body("Preface text written before any chapter begins.")),
			page(2, heading("Sorting"), body("Sorting puts elements in order by a comparison.")),
		}}

		items, err := shortChapters(doc).Segment(nil, "book.pdf")

		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Sorting", items[0].Title)
		assert.True(t, strings.HasPrefix(items[0].Content, "# Sorting\n\nPreface text"))
	})

	t.Run("recognizes chapter labels set in body size", func(t *testing.T) {
		t.Parallel()

		doc := &scrapekb.PDFDocument{Pages: []scrapekb.PDFPage{
			page(1, body("Chapter 1"), heading("Graphs"), body("Graphs connect vertices with edges between them.")),
			page(2, body("CHAPTER TWO: Heaps"), body("A heap is a tree that keeps its minimum at the root.")),
		}}

		items, err := shortChapters(doc).Segment(nil, "book.pdf")

		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "Chapter 1 Graphs", items[0].Title)
		assert.Equal(t, "CHAPTER TWO: Heaps", items[1].Title)
	})

	t.Run("joins consecutive heading lines into one title", func(t *testing.T) {
		t.Parallel()

		doc := &scrapekb.PDFDocument{Pages: []scrapekb.PDFPage{
			page(1, heading("Dynamic Programming"), heading("and Memoization"), body("Overlapping subproblems are solved once and reused.")),
		}}

		items, err := shortChapters(doc).Segment(nil, "book.pdf")

		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Dynamic Programming and Memoization", items[0].Title)
	})

	t.Run("emits the whole document when no chapter is found", func(t *testing.T) {
		t.Parallel()

		doc := &scrapekb.PDFDocument{
			Title:  "Field Notes",
			Author: "Jane Doe",
			Pages: []scrapekb.PDFPage{
				page(1, body("First page of plain notes without headings.")),
				page(2, body("Second page of plain notes without headings.")),
			},
		}

		items, err := shortChapters(doc).Segment(nil, "/tmp/notes.pdf")

		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Field Notes", items[0].Title)
		require.NotNil(t, items[0].Author)
		assert.Equal(t, "Jane Doe", *items[0].Author)
		assert.Contains(t, items[0].Content, "First page")
		assert.Contains(t, items[0].Content, "Second page")
	})

	t.Run("titles an untitled document after its file name", func(t *testing.T) {
		t.Parallel()

		doc := &scrapekb.PDFDocument{Pages: []scrapekb.PDFPage{page(1, body("Some text."))}}

		items, err := shortChapters(doc).Segment(nil, "/tmp/interview-guide.pdf")

		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "interview-guide", items[0].Title)
		assert.Nil(t, items[0].Author)
	})

	t.Run("caps the number of chapters", func(t *testing.T) {
		t.Parallel()

		doc := &scrapekb.PDFDocument{}
		for i := 1; i <= 10; i++ {
			doc.Pages = append(doc.Pages, page(i,
				heading(fmt.Sprintf("Section %d", i)),
				body("Body text that is long enough to outweigh the heading."),
			))
		}

		items, err := shortChapters(doc).Segment(nil, "book.pdf")

		require.NoError(t, err)
		require.Len(t, items, pdf.DefaultMaxChapters)
		assert.Equal(t, "Section 8", items[len(items)-1].Title)
	})

	t.Run("drops chapters without enough body text", func(t *testing.T) {
		t.Parallel()

		// Given two full chapters and a final page holding only a heading
		long := strings.Repeat("Each recursive call shrinks the input toward a base case. ", 5)
		doc := &scrapekb.PDFDocument{Pages: []scrapekb.PDFPage{
			page(1, heading("Recursion"), body(long)),
			page(2, heading("Backtracking"), body(long)),
			page(3, heading("Appendix")),
		}}

		// When segmenting with the default minimum
		items, err := pdf.NewSegmenter(readerOf(doc)).Segment(nil, "book.pdf")

		// Then the heading-only chapter is gone
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "Recursion", items[0].Title)
		assert.Equal(t, "Backtracking", items[1].Title)
	})

	t.Run("fails when no chapter has enough text", func(t *testing.T) {
		t.Parallel()

		doc := &scrapekb.PDFDocument{Pages: []scrapekb.PDFPage{
			page(1, heading("Title Page"), body("Second edition.")),
		}}

		_, err := pdf.NewSegmenter(readerOf(doc)).Segment(nil, "book.pdf")

		require.Error(t, err)
		assert.Equal(t, scrapekb.EEXTRACT, scrapekb.ErrorCode(err))
		assert.Contains(t, err.Error(), "no chapter has enough text")
	})

	t.Run("fails when the document has no text", func(t *testing.T) {
		t.Parallel()

		doc := &scrapekb.PDFDocument{Pages: []scrapekb.PDFPage{page(1), page(2)}}

		_, err := shortChapters(doc).Segment(nil, "scan.pdf")

		require.Error(t, err)
		assert.Equal(t, scrapekb.EEXTRACT, scrapekb.ErrorCode(err))
	})

	t.Run("returns reader errors", func(t *testing.T) {
		t.Parallel()

		reader := &mock.PDFReader{
			ReadFn: func([]byte) (*scrapekb.PDFDocument, error) {
				return nil, scrapekb.ParseError("", errors.New("bad xref"))
			},
		}

		_, err := pdf.NewSegmenter(reader).Segment(nil, "broken.pdf")

		require.Error(t, err)
		assert.Equal(t, scrapekb.EPARSE, scrapekb.ErrorCode(err))
	})
}
