package scrapekb_test

import (
	"regexp"
	"testing"

	"github.com/cursorboy/scrapekb"
	"github.com/stretchr/testify/assert"
)

func TestURLFilter_Match(t *testing.T) {
	t.Parallel()

	t.Run("passes everything when nil", func(t *testing.T) {
		t.Parallel()

		var f *scrapekb.URLFilter
		assert.True(t, f.Match("https://example.com/anything"))
	})

	t.Run("requires an include match when includes are set", func(t *testing.T) {
		t.Parallel()

		f := &scrapekb.URLFilter{Include: []*regexp.Regexp{regexp.MustCompile(`/blog/`)}}

		assert.True(t, f.Match("https://example.com/blog/heaps"))
		assert.False(t, f.Match("https://example.com/docs/heaps"))
	})

	t.Run("excludes after including", func(t *testing.T) {
		t.Parallel()

		f := &scrapekb.URLFilter{
			Include: []*regexp.Regexp{regexp.MustCompile(`/blog/`)},
			Exclude: []*regexp.Regexp{regexp.MustCompile(`/drafts?/`)},
		}

		assert.True(t, f.Match("https://example.com/blog/heaps"))
		assert.False(t, f.Match("https://example.com/blog/draft/heaps"))
	})
}
