package extract

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Default gate thresholds.
const (
	DefaultMinTextLength = 200
	DefaultMinTextRatio  = 0.1
)

// Gate decides whether extracted content is substantial enough to keep.
type Gate struct {
	// MinTextLength is the minimum visible text in runes.
	MinTextLength int

	// MinTextRatio is the minimum share of visible text bytes in the
	// fragment's markup bytes.
	MinTextRatio float64
}

// DefaultGate returns a Gate with the default thresholds.
func DefaultGate() Gate {
	return Gate{
		MinTextLength: DefaultMinTextLength,
		MinTextRatio:  DefaultMinTextRatio,
	}
}

// Passes reports whether both thresholds are met.
func (g Gate) Passes(length int, ratio float64) bool {
	return length >= g.MinTextLength && ratio >= g.MinTextRatio
}

// invisible holds elements whose text never renders.
var invisible = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
}

// Measure parses an HTML fragment and returns its visible text length in
// runes, whitespace runs counted once, and the ratio of visible text bytes
// to fragment bytes.
func Measure(fragment string) (int, float64, error) {
	if fragment == "" {
		return 0, 0, nil
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return 0, 0, err
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && invisible[n.DataAtom] {
			return
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}

	text := strings.Join(strings.Fields(b.String()), " ")
	return utf8.RuneCountInString(text), float64(len(text)) / float64(len(fragment)), nil
}
