package scrapekb

// Converter normalizes extracted content to Markdown.
type Converter interface {
	// Convert transforms an HTML fragment into Markdown. Images and scripts
	// are dropped; headings, paragraphs, lists, code blocks and links keep
	// their structure. Input that is already Markdown is only cleaned up,
	// so converting twice yields the same text. Relative links resolve
	// against baseURL when it is a remote URL.
	Convert(html, baseURL string) (string, error)
}
