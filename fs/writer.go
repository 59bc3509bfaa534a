package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cursorboy/scrapekb"
)

// Ensure the writers implement scrapekb.ResultSink at compile time.
var (
	_ scrapekb.ResultSink = (*JSONWriter)(nil)
	_ scrapekb.ResultSink = (*FileWriter)(nil)
)

// JSONWriter encodes the run output as indented JSON to a stream.
type JSONWriter struct {
	w io.Writer
}

// NewJSONWriter returns a JSONWriter writing to w.
func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{w: w}
}

// WriteOutput implements scrapekb.ResultSink.
func (w *JSONWriter) WriteOutput(ctx context.Context, out *scrapekb.Output) error {
	return encodeOutput(w.w, out)
}

// FileWriter writes the run output as JSON to a file. The file is written
// to a temporary sibling and renamed into place, so readers never observe
// a partial result.
type FileWriter struct {
	path string
}

// NewFileWriter returns a FileWriter targeting path.
func NewFileWriter(path string) *FileWriter {
	return &FileWriter{path: path}
}

// WriteOutput implements scrapekb.ResultSink.
func (w *FileWriter) WriteOutput(ctx context.Context, out *scrapekb.Output) error {
	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return err
	}

	tmp := w.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	if err := encodeOutput(f, out); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	return os.Rename(tmp, w.path)
}

func encodeOutput(w io.Writer, out *scrapekb.Output) error {
	if out.Items == nil {
		out = &scrapekb.Output{TeamID: out.TeamID, Items: []*scrapekb.ContentItem{}}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}
