package scrapekb

import "strings"

// ContentType classifies a content item by the pipeline stage that produced it.
type ContentType string

// Content types.
const (
	ContentTypeBlog ContentType = "blog"
	ContentTypeBook ContentType = "book"
)

// ContentTypeOf returns book for PDF input and blog for everything else.
func ContentTypeOf(kind ContentKind) ContentType {
	if kind == ContentKindPDF {
		return ContentTypeBook
	}
	return ContentTypeBlog
}

// ContentItem is one normalized unit of extracted content: an article or a
// book chapter. Items are not modified after they are assembled.
type ContentItem struct {
	Title       string      `json:"title"`
	Content     string      `json:"content"`
	ContentType ContentType `json:"content_type"`
	SourceURL   string      `json:"source_url"`
	Author      *string     `json:"author"`
	UserID      string      `json:"user_id"`
}

// Validate returns an error if the item cannot be emitted.
func (i *ContentItem) Validate() error {
	if strings.TrimSpace(i.Content) == "" {
		return Errorf(EINVALID, "item content required")
	}
	switch i.ContentType {
	case ContentTypeBlog, ContentTypeBook:
	default:
		return Errorf(EINVALID, "unknown content type %q", i.ContentType)
	}
	if i.SourceURL == "" {
		return Errorf(EINVALID, "item source URL required")
	}
	if i.UserID != "" {
		return Errorf(EINVALID, "item user ID must be empty")
	}
	return nil
}

// Output is the serialized result of a run.
type Output struct {
	TeamID string         `json:"team_id"`
	Items  []*ContentItem `json:"items"`
}

// NewOutput returns an empty output for teamID. Items is never nil so it
// serializes as an empty array.
func NewOutput(teamID string) *Output {
	return &Output{TeamID: teamID, Items: []*ContentItem{}}
}

// StringPtr returns a pointer to s, or nil when s is blank.
func StringPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
