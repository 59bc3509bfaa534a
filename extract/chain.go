// Package extract chains extraction strategies behind a quality gate.
package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cursorboy/scrapekb"
)

// Ensure Chain implements scrapekb.ContentExtractor at compile time.
var _ scrapekb.ContentExtractor = (*Chain)(nil)

// Stage is one named strategy of a Chain.
type Stage struct {
	Name      string
	Extractor scrapekb.Extractor
}

// Chain tries its stages in order and returns the first candidate that
// passes the gate.
type Chain struct {
	Stages []Stage
	Gate   Gate
}

// NewChain creates a Chain over stages.
func NewChain(gate Gate, stages ...Stage) *Chain {
	return &Chain{Stages: stages, Gate: gate}
}

// ExtractContent runs each stage until one passes the gate. When every
// stage failed to parse the document the result is a parse error;
// otherwise it is an extraction failure listing what each stage produced.
func (c *Chain) ExtractContent(html string) (*scrapekb.Candidate, error) {
	if strings.TrimSpace(html) == "" {
		return nil, scrapekb.Errorf(scrapekb.EINVALID, "empty HTML input")
	}

	var reasons []string
	parseFailures := 0
	for _, stage := range c.Stages {
		res, err := stage.Extractor.Extract(html)
		if err != nil {
			if scrapekb.ErrorCode(err) == scrapekb.EPARSE {
				parseFailures++
			}
			reasons = append(reasons, fmt.Sprintf("%s: %v", stage.Name, err))
			continue
		}

		length, ratio, err := Measure(res.ContentHTML)
		if err != nil {
			reasons = append(reasons, fmt.Sprintf("%s: %v", stage.Name, err))
			continue
		}
		if !c.Gate.Passes(length, ratio) {
			reasons = append(reasons, fmt.Sprintf("%s: %d chars at ratio %.2f", stage.Name, length, ratio))
			continue
		}

		return &scrapekb.Candidate{
			ContentHTML: res.ContentHTML,
			Title:       res.Title,
			Author:      res.Author,
			Method:      stage.Name,
			TextLength:  length,
			TextRatio:   ratio,
		}, nil
	}

	cause := errors.New(strings.Join(reasons, "; "))
	if len(c.Stages) > 0 && parseFailures == len(c.Stages) {
		return nil, scrapekb.ParseError("", cause)
	}
	e := scrapekb.ExtractionFailure("", "no extraction strategy passed the quality gate")
	e.Err = cause
	return nil, e
}
