package sqlite_test

import (
	"context"
	"testing"

	"github.com/cursorboy/scrapekb"
	"github.com/cursorboy/scrapekb/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleOutput(teamID string) *scrapekb.Output {
	out := scrapekb.NewOutput(teamID)
	out.Items = append(out.Items,
		&scrapekb.ContentItem{
			Title:       "Heap Sort Explained",
			Content:     "# Heap Sort Explained\n\nBuild a heap, then pop.",
			ContentType: scrapekb.ContentTypeBlog,
			SourceURL:   "https://example.com/blog/heap-sort",
			Author:      scrapekb.StringPtr("Jane Doe"),
		},
		&scrapekb.ContentItem{
			Title:       "Arrays",
			Content:     "# Arrays\n\nContiguous storage.",
			ContentType: scrapekb.ContentTypeBook,
			SourceURL:   "/books/dsa.pdf",
		},
	)
	return out
}

func TestRunService_WriteOutput(t *testing.T) {
	t.Parallel()

	t.Run("stores the run and its items in order", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)
		ctx := context.Background()

		require.NoError(t, svc.WriteOutput(ctx, sampleOutput("aline123")))

		runs, err := svc.FindRuns(ctx, scrapekb.RunFilter{})
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.NotEmpty(t, runs[0].ID)
		assert.Equal(t, "aline123", runs[0].TeamID)
		assert.Equal(t, 2, runs[0].ItemCount)
		assert.False(t, runs[0].CreatedAt.IsZero())

		items, err := svc.FindItems(ctx, scrapekb.ItemFilter{RunID: &runs[0].ID})
		require.NoError(t, err)
		assert.Equal(t, sampleOutput("aline123").Items, items)
	})

	t.Run("stores an empty run", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)
		ctx := context.Background()

		require.NoError(t, svc.WriteOutput(ctx, scrapekb.NewOutput("aline123")))

		runs, err := svc.FindRuns(ctx, scrapekb.RunFilter{})
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, 0, runs[0].ItemCount)
	})

	t.Run("rejects an output without a team", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))

		err := svc.WriteOutput(context.Background(), scrapekb.NewOutput(" "))

		require.Error(t, err)
		assert.Equal(t, scrapekb.EINVALID, scrapekb.ErrorCode(err))
	})

	t.Run("stores nothing when any item is invalid", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)
		ctx := context.Background()
		out := sampleOutput("aline123")
		out.Items = append(out.Items, &scrapekb.ContentItem{Title: "empty", ContentType: scrapekb.ContentTypeBlog, SourceURL: "https://example.com/x"})

		err := svc.WriteOutput(ctx, out)

		require.Error(t, err)
		assert.Equal(t, scrapekb.EINVALID, scrapekb.ErrorCode(err))
		var count int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM runs").Scan(&count))
		assert.Equal(t, 0, count)
	})

	t.Run("stores a content hash per item", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)
		ctx := context.Background()
		require.NoError(t, svc.WriteOutput(ctx, sampleOutput("aline123")))

		var hash string
		require.NoError(t, db.QueryRowContext(ctx, "SELECT content_hash FROM items WHERE position = 0").Scan(&hash))
		assert.Regexp(t, `^[0-9a-f]{16}$`, hash)
	})
}

func TestRunService_FindRuns(t *testing.T) {
	t.Parallel()

	t.Run("filters by team", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)
		ctx := context.Background()
		require.NoError(t, svc.WriteOutput(ctx, sampleOutput("team-a")))
		require.NoError(t, svc.WriteOutput(ctx, sampleOutput("team-b")))
		require.NoError(t, svc.WriteOutput(ctx, sampleOutput("team-a")))

		teamID := "team-a"
		runs, err := svc.FindRuns(ctx, scrapekb.RunFilter{TeamID: &teamID})

		require.NoError(t, err)
		assert.Len(t, runs, 2)
		for _, run := range runs {
			assert.Equal(t, "team-a", run.TeamID)
		}
	})

	t.Run("returns newest first and applies pagination", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)
		ctx := context.Background()
		require.NoError(t, svc.WriteOutput(ctx, scrapekb.NewOutput("first")))
		require.NoError(t, svc.WriteOutput(ctx, scrapekb.NewOutput("second")))
		require.NoError(t, svc.WriteOutput(ctx, scrapekb.NewOutput("third")))

		runs, err := svc.FindRuns(ctx, scrapekb.RunFilter{Limit: 1, Offset: 1})

		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, "second", runs[0].TeamID)
	})
}

func TestRunService_FindItems(t *testing.T) {
	t.Parallel()

	t.Run("filters by content type", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)
		ctx := context.Background()
		require.NoError(t, svc.WriteOutput(ctx, sampleOutput("aline123")))

		book := scrapekb.ContentTypeBook
		items, err := svc.FindItems(ctx, scrapekb.ItemFilter{ContentType: &book})

		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Arrays", items[0].Title)
		assert.Nil(t, items[0].Author)
	})

	t.Run("filters by source URL across runs", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)
		ctx := context.Background()
		require.NoError(t, svc.WriteOutput(ctx, sampleOutput("aline123")))
		require.NoError(t, svc.WriteOutput(ctx, sampleOutput("aline123")))

		source := "https://example.com/blog/heap-sort"
		items, err := svc.FindItems(ctx, scrapekb.ItemFilter{SourceURL: &source})

		require.NoError(t, err)
		assert.Len(t, items, 2)
	})
}

func TestRunService_DeleteRun(t *testing.T) {
	t.Parallel()

	t.Run("removes the run and its items", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)
		ctx := context.Background()
		require.NoError(t, svc.WriteOutput(ctx, sampleOutput("aline123")))
		runs, err := svc.FindRuns(ctx, scrapekb.RunFilter{})
		require.NoError(t, err)
		require.Len(t, runs, 1)

		require.NoError(t, svc.DeleteRun(ctx, runs[0].ID))

		items, err := svc.FindItems(ctx, scrapekb.ItemFilter{})
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("returns not found for unknown run", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))

		err := svc.DeleteRun(context.Background(), "missing")

		require.Error(t, err)
		assert.Equal(t, scrapekb.ENOTFOUND, scrapekb.ErrorCode(err))
	})
}
