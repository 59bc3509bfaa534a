package goquery_test

import (
	"strings"
	"testing"

	"github.com/cursorboy/scrapekb/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataInferencer_Title(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		head string
		text string
		want string
	}{
		{
			name: "trims the og:site_name suffix",
			head: `<title>Two Pointers Explained | Algo Blog</title><meta property="og:site_name" content="Algo Blog">`,
			want: "Two Pointers Explained",
		},
		{
			name: "trims a site name prefix",
			head: `<title>Algo Blog | Two Pointers Explained</title><meta property="og:site_name" content="Algo Blog">`,
			want: "Two Pointers Explained",
		},
		{
			name: "trims a short suffix without og:site_name",
			head: `<title>Understanding Heaps - Acme</title>`,
			want: "Understanding Heaps",
		},
		{
			name: "keeps a title whose tail is a subtitle",
			head: `<title>Go - Why Interfaces Are Implicit In Practice</title>`,
			want: "Go - Why Interfaces Are Implicit In Practice",
		},
		{
			name: "falls back to og:title",
			head: `<meta property="og:title" content="Graph Basics">`,
			want: "Graph Basics",
		},
		{
			name: "falls back to the first heading of the text",
			text: "Intro line.\n\n## Dynamic *Programming*\n\nBody.",
			want: "Dynamic Programming",
		},
		{
			name: "is empty when nothing matches",
			text: "No headings here.",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			html := "<html><head>" + tt.head + "</head><body><p>Body</p></body></html>"

			got := goquery.NewMetadataInferencer().Infer(html, tt.text)

			assert.Equal(t, tt.want, got.Title)
		})
	}
}

func TestMetadataInferencer_Author(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "reads the author meta tag",
			html: `<html><head><meta name="author" content="Jane Doe"></head><body></body></html>`,
			want: "Jane Doe",
		},
		{
			name: "skips article:author URLs and reads JSON-LD",
			html: `<html><head>
<meta property="article:author" content="https://facebook.com/someone">
<script type="application/ld+json">{"@context":"https://schema.org","@type":"BlogPosting","author":{"@type":"Person","name":"Ada Lovelace"}}</script>
</head><body></body></html>`,
			want: "Ada Lovelace",
		},
		{
			name: "reads JSON-LD graphs with author lists",
			html: `<html><head>
<script type="application/ld+json">{"@graph":[{"@type":"WebPage"},{"@type":"Article","author":[{"name":"Grace Hopper"}]}]}</script>
</head><body></body></html>`,
			want: "Grace Hopper",
		},
		{
			name: "ignores invalid JSON-LD",
			html: `<html><head>
<script type="application/ld+json">{not json</script>
<meta name="twitter:creator" content="@janedoe">
</head><body></body></html>`,
			want: "@janedoe",
		},
		{
			name: "reads byline markup",
			html: `<html><body><article><p class="byline">By Jane Roe on March 3, 2024</p></article></body></html>`,
			want: "Jane Roe",
		},
		{
			name: "reads itemprop author names",
			html: `<html><body><span itemprop="author"><span itemprop="name">Alan Turing</span></span></body></html>`,
			want: "Alan Turing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := goquery.NewMetadataInferencer().Infer(tt.html, "")

			require.NotNil(t, got.Author)
			assert.Equal(t, tt.want, *got.Author)
		})
	}

	t.Run("is nil when no pattern matches", func(t *testing.T) {
		t.Parallel()

		got := goquery.NewMetadataInferencer().Infer(`<html><body><p>Anonymous notes.</p></body></html>`, "")

		assert.Nil(t, got.Author)
	})

	t.Run("rejects overlong values", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><div class="author">` + strings.Repeat("word ", 40) + `</div></body></html>`

		got := goquery.NewMetadataInferencer().Infer(html, "")

		assert.Nil(t, got.Author)
	})

	t.Run("uses the text when the html is empty", func(t *testing.T) {
		t.Parallel()

		got := goquery.NewMetadataInferencer().Infer("", "# Only Heading\n\nBody.")

		assert.Equal(t, "Only Heading", got.Title)
		assert.Nil(t, got.Author)
	})
}
