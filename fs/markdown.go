package fs

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/cursorboy/scrapekb"
	"gopkg.in/yaml.v3"
)

// Ensure MarkdownStore implements scrapekb.ResultSink at compile time.
var _ scrapekb.ResultSink = (*MarkdownStore)(nil)

// MarkdownStore writes each item as a Markdown file with YAML front matter.
// Files are saved to baseDir/name.tmp and moved to baseDir/name once every
// item is written; a failed write leaves any previous export untouched.
type MarkdownStore struct {
	baseDir string
	name    string
}

// NewMarkdownStore creates a new MarkdownStore.
func NewMarkdownStore(baseDir, name string) *MarkdownStore {
	return &MarkdownStore{
		baseDir: baseDir,
		name:    name,
	}
}

func (s *MarkdownStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *MarkdownStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// WriteOutput implements scrapekb.ResultSink.
func (s *MarkdownStore) WriteOutput(ctx context.Context, out *scrapekb.Output) error {
	if err := os.RemoveAll(s.tempDir()); err != nil {
		return err
	}
	if err := os.MkdirAll(s.tempDir(), 0755); err != nil {
		return err
	}

	for i, item := range out.Items {
		if err := ctx.Err(); err != nil {
			s.abort()
			return err
		}
		content, err := FormatItem(item, out.TeamID)
		if err != nil {
			s.abort()
			return err
		}
		fullPath := filepath.Join(s.tempDir(), ItemPath(i, item))
		if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
			s.abort()
			return err
		}
	}

	return s.commit()
}

func (s *MarkdownStore) commit() error {
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}
	return os.Rename(s.tempDir(), s.finalDir())
}

func (s *MarkdownStore) abort() {
	_ = os.RemoveAll(s.tempDir())
}

// ItemPath returns the file name for the item at index: a zero-padded
// sequence number followed by a slug of the title, or of the source's last
// path segment when the title is empty.
func ItemPath(index int, item *scrapekb.ContentItem) string {
	slug := slugify(item.Title)
	if slug == "" {
		slug = slugify(sourceBase(item.SourceURL))
	}
	if slug == "" {
		slug = "item"
	}
	return fmt.Sprintf("%03d-%s.md", index+1, slug)
}

func sourceBase(source string) string {
	p := source
	if u, err := url.Parse(source); err == nil && u.Path != "" {
		p = u.Path
	}
	base := path.Base(strings.TrimRight(filepath.ToSlash(p), "/"))
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

const maxSlugLength = 60

func slugify(s string) string {
	var sb strings.Builder
	prevHyphen := false
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
			prevHyphen = false
		case !prevHyphen && sb.Len() > 0:
			sb.WriteRune('-')
			prevHyphen = true
		}
		if sb.Len() >= maxSlugLength {
			break
		}
	}
	return strings.Trim(sb.String(), "-")
}

type frontMatter struct {
	Title       string  `yaml:"title"`
	SourceURL   string  `yaml:"source_url"`
	ContentType string  `yaml:"content_type"`
	Author      *string `yaml:"author"`
	TeamID      string  `yaml:"team_id,omitempty"`
}

// FormatItem formats an item with YAML front matter.
func FormatItem(item *scrapekb.ContentItem, teamID string) (string, error) {
	fm, err := yaml.Marshal(frontMatter{
		Title:       item.Title,
		SourceURL:   item.SourceURL,
		ContentType: string(item.ContentType),
		Author:      item.Author,
		TeamID:      teamID,
	})
	if err != nil {
		return "", fmt.Errorf("encoding front matter: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(fm)
	b.WriteString("---\n\n")
	b.WriteString(item.Content)
	b.WriteString("\n")
	return b.String(), nil
}
