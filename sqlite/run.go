package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/cursorboy/scrapekb"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ scrapekb.RunService = (*RunService)(nil)

// RunService implements scrapekb.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// hashContent computes xxHash of content and returns a hex string.
func hashContent(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}

// WriteOutput stores out as a new run. Either every item is stored or none.
func (s *RunService) WriteOutput(ctx context.Context, out *scrapekb.Output) error {
	if out == nil {
		return scrapekb.Errorf(scrapekb.EINVALID, "output required")
	}
	if strings.TrimSpace(out.TeamID) == "" {
		return scrapekb.Errorf(scrapekb.EINVALID, "team ID required")
	}
	for _, item := range out.Items {
		if err := item.Validate(); err != nil {
			return err
		}
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	runID := uuid.New().String()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, team_id, created_at)
		VALUES (?, ?, ?)
	`, runID, out.TeamID, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}

	for i, item := range out.Items {
		var author sql.NullString
		if item.Author != nil {
			author = sql.NullString{String: *item.Author, Valid: true}
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO items (id, run_id, position, title, content, content_type, source_url, author, user_id, content_hash)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, uuid.New().String(), runID, i, item.Title, item.Content, string(item.ContentType),
			item.SourceURL, author, item.UserID, hashContent(item.Content)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindRuns retrieves runs matching the filter, newest first.
func (s *RunService) FindRuns(ctx context.Context, filter scrapekb.RunFilter) ([]*scrapekb.Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT r.id, r.team_id, r.created_at, COUNT(i.id)
		FROM runs r LEFT JOIN items i ON i.run_id = r.id WHERE 1=1`)

	if filter.ID != nil {
		query.WriteString(" AND r.id = ?")
		args = append(args, *filter.ID)
	}
	if filter.TeamID != nil {
		query.WriteString(" AND r.team_id = ?")
		args = append(args, *filter.TeamID)
	}

	query.WriteString(" GROUP BY r.id ORDER BY r.created_at DESC, r.rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*scrapekb.Run
	for rows.Next() {
		var run scrapekb.Run
		var createdAt string
		if err := rows.Scan(&run.ID, &run.TeamID, &createdAt, &run.ItemCount); err != nil {
			return nil, err
		}
		if run.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}
		runs = append(runs, &run)
	}

	return runs, rows.Err()
}

// FindItems retrieves items matching the filter in run and emission order.
func (s *RunService) FindItems(ctx context.Context, filter scrapekb.ItemFilter) ([]*scrapekb.ContentItem, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT i.title, i.content, i.content_type, i.source_url, i.author, i.user_id
		FROM items i JOIN runs r ON r.id = i.run_id WHERE 1=1`)

	if filter.RunID != nil {
		query.WriteString(" AND i.run_id = ?")
		args = append(args, *filter.RunID)
	}
	if filter.SourceURL != nil {
		query.WriteString(" AND i.source_url = ?")
		args = append(args, *filter.SourceURL)
	}
	if filter.ContentType != nil {
		query.WriteString(" AND i.content_type = ?")
		args = append(args, string(*filter.ContentType))
	}

	query.WriteString(" ORDER BY r.created_at ASC, r.rowid ASC, i.position ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*scrapekb.ContentItem
	for rows.Next() {
		var item scrapekb.ContentItem
		var contentType string
		var author sql.NullString
		if err := rows.Scan(&item.Title, &item.Content, &contentType, &item.SourceURL, &author, &item.UserID); err != nil {
			return nil, err
		}
		item.ContentType = scrapekb.ContentType(contentType)
		if author.Valid {
			item.Author = &author.String
		}
		items = append(items, &item)
	}

	return items, rows.Err()
}

// DeleteRun permanently removes a run and its items.
func (s *RunService) DeleteRun(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return scrapekb.Errorf(scrapekb.ENOTFOUND, "run not found")
	}

	return nil
}
