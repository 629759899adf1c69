package loader

import (
	"errors"
	"strings"

	"github.com/ledongthuc/pdf"
)

var errEmptyDocument = errors.New("no visible text extracted")

func (l *Loader) loadPDF(path string) ([]Document, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	var docs []Document
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// skip unreadable pages, keep the rest
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		docs = append(docs, Document{
			Text:     text,
			Metadata: map[string]interface{}{"source": path, "format": "pdf", "page": i},
		})
	}

	if len(docs) == 0 {
		return nil, &LoadError{Path: path, Err: errEmptyDocument}
	}
	return docs, nil
}
