package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadError reports a document that could not be read or parsed.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Document is one plain-text unit extracted from a filing: the whole body
// for HTML inputs, one page for PDF inputs.
type Document struct {
	Text     string
	Metadata map[string]interface{}
}

// Loader extracts visible text from filings on local disk.
type Loader struct{}

func New() *Loader {
	return &Loader{}
}

// Load reads an HTML or PDF file into plain-text documents. EDGAR wraps
// modern filings in .txt files whose payload is HTML, so .txt is parsed
// as HTML.
func (l *Loader) Load(path string) ([]Document, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".htm", ".html", ".txt":
		return l.loadHTML(path)
	case ".pdf":
		return l.loadPDF(path)
	default:
		return nil, &LoadError{Path: path, Err: fmt.Errorf("unrecognized format %q", filepath.Ext(path))}
	}
}
