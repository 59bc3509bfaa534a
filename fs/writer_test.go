package fs_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/cursorboy/scrapekb"
	"github.com/cursorboy/scrapekb/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOutput() *scrapekb.Output {
	author := "Jane Doe"
	out := scrapekb.NewOutput("team1")
	out.Items = append(out.Items,
		&scrapekb.ContentItem{
			Title:       "Two Pointers",
			Content:     "# Two Pointers\n\nUse <b>two</b> indices & move them.",
			ContentType: scrapekb.ContentTypeBlog,
			SourceURL:   "https://example.com/blog/two-pointers",
			Author:      &author,
		},
		&scrapekb.ContentItem{
			Title:       "Chapter 1",
			Content:     "# Chapter 1\n\nIt begins.",
			ContentType: scrapekb.ContentTypeBook,
			SourceURL:   "books/guide.pdf",
		},
	)
	return out
}

func TestJSONWriter_WriteOutput(t *testing.T) {
	t.Parallel()

	t.Run("writes the team and items schema", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		err := fs.NewJSONWriter(&buf).WriteOutput(context.Background(), sampleOutput())
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, "team1", got["team_id"])
		items, ok := got["items"].([]any)
		require.True(t, ok)
		require.Len(t, items, 2)

		second, ok := items[1].(map[string]any)
		require.True(t, ok)
		assert.Nil(t, second["author"])
		assert.Equal(t, "", second["user_id"])
		assert.Equal(t, "book", second["content_type"])
	})

	t.Run("does not escape HTML characters", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		require.NoError(t, fs.NewJSONWriter(&buf).WriteOutput(context.Background(), sampleOutput()))

		assert.Contains(t, buf.String(), "<b>two</b> indices & move")
	})

	t.Run("writes an empty array for nil items", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		err := fs.NewJSONWriter(&buf).WriteOutput(context.Background(), &scrapekb.Output{TeamID: "t"})

		require.NoError(t, err)
		assert.JSONEq(t, `{"team_id":"t","items":[]}`, buf.String())
	})
}

func TestFileWriter_WriteOutput(t *testing.T) {
	t.Parallel()

	t.Run("creates parent directories and leaves no temp file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out", "result.json")

		err := fs.NewFileWriter(path).WriteOutput(context.Background(), sampleOutput())
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"team_id": "team1"`)

		_, err = os.Stat(path + ".tmp")
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("replaces an existing file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "result.json")
		require.NoError(t, os.WriteFile(path, []byte("stale"), 0644))

		require.NoError(t, fs.NewFileWriter(path).WriteOutput(context.Background(), scrapekb.NewOutput("fresh")))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.JSONEq(t, `{"team_id":"fresh","items":[]}`, string(data))
	})
}
