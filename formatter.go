package scrapekb

import "strings"

// FormatItems renders items as a single Markdown document for previewing.
// Each item is introduced by its title, falling back to the source URL,
// and a source line. Items are separated by blank lines.
func FormatItems(items []*ContentItem) string {
	if len(items) == 0 {
		return ""
	}

	parts := make([]string, 0, len(items))
	for _, item := range items {
		header := item.Title
		if header == "" {
			header = item.SourceURL
		}
		parts = append(parts, "## Item: "+header+"\nSource: "+item.SourceURL+" ("+string(item.ContentType)+")\n\n"+item.Content)
	}

	return strings.Join(parts, "\n\n")
}
