package loader

import (
	"os"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	multiSpaces   = regexp.MustCompile(`[ \t]+`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)
)

// skippedElements contain no visible text worth indexing.
var skippedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"head":     true,
	"title":    true,
	"svg":      true,
}

// blockElements force a line break so headings and table rows do not run
// into each other after tag stripping.
var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "hr": true, "li": true, "tr": true,
	"td": true, "th": true, "table": true, "blockquote": true, "pre": true,
	"section": true, "article": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

func (l *Loader) loadHTML(path string) ([]Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	var sb strings.Builder
	tokenizer := html.NewTokenizer(f)
	skipDepth := 0

	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF ends the document; anything else is a parse failure
			if err := tokenizer.Err(); err != nil && err.Error() != "EOF" {
				return nil, &LoadError{Path: path, Err: err}
			}
			text := normalizeWhitespace(sb.String())
			if text == "" {
				return nil, &LoadError{Path: path, Err: errEmptyDocument}
			}
			return []Document{{
				Text:     text,
				Metadata: map[string]interface{}{"source": path, "format": "html"},
			}}, nil

		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := tokenizer.TagName()
			tag := strings.ToLower(string(name))
			if skippedElements[tag] && tt == html.StartTagToken {
				skipDepth++
			}
			if blockElements[tag] {
				sb.WriteByte('\n')
			}

		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			tag := strings.ToLower(string(name))
			if skippedElements[tag] && skipDepth > 0 {
				skipDepth--
			}
			if blockElements[tag] {
				sb.WriteByte('\n')
			}

		case html.TextToken:
			if skipDepth == 0 {
				sb.Write(tokenizer.Text())
			}
		}
	}
}

func normalizeWhitespace(s string) string {
	s = multiSpaces.ReplaceAllString(s, " ")
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	s = strings.Join(lines, "\n")
	s = multiNewlines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
