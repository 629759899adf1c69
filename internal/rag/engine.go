package rag

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/karanmanglani/RiskSentinel/internal/embedding"
	"github.com/karanmanglani/RiskSentinel/internal/vectorstore"
)

// Source identifies the filing behind one retrieved chunk.
type Source struct {
	Ticker      string  `json:"ticker"`
	FilingType  string  `json:"filing_type"`
	AccessionNo string  `json:"accession_no"`
	Score       float64 `json:"score"`
}

// Answer is a grounded response with the filings it was drawn from.
// Sources is empty for the fixed no-context answer.
type Answer struct {
	Text    string   `json:"answer"`
	Model   string   `json:"model,omitempty"`
	Sources []Source `json:"sources,omitempty"`
}

// Engine answers questions by retrieving indexed filing chunks and
// delegating generation to an ordered list of candidate models.
type Engine struct {
	embedder   embedding.Embedder
	store      vectorstore.Store
	generators []Generator
	topK       int
}

func NewEngine(embedder embedding.Embedder, store vectorstore.Store, generators []Generator, topK int) *Engine {
	if topK <= 0 {
		topK = 3
	}
	return &Engine{
		embedder:   embedder,
		store:      store,
		generators: generators,
		topK:       topK,
	}
}

// Answer runs the retrieve-augment-generate sequence for one question.
// Failures surface as typed errors (*embedding.EmbeddingError,
// *vectorstore.QueryError, *GenerationError); the HTTP boundary decides the
// status code.
func (e *Engine) Answer(ctx context.Context, question string) (*Answer, error) {
	vectors, err := e.embedder.Embed(ctx, []string{question})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, &embedding.EmbeddingError{Provider: e.embedder.Name(), Err: fmt.Errorf("no vector returned")}
	}

	results, err := e.store.Query(ctx, vectors[0], e.topK)
	if err != nil {
		return nil, err
	}

	contextBlock := buildContextBlock(results)
	if contextBlock == "" {
		return &Answer{Text: NoContextAnswer}, nil
	}

	log.Printf("retrieved %d relevant sections for question %q", len(results), truncate(question, 60))

	userPrompt := buildUserPrompt(contextBlock, question)

	var attempted []string
	var lastErr error
	for _, gen := range e.generators {
		attempted = append(attempted, gen.Name())
		text, err := gen.Generate(ctx, systemPrompt, userPrompt)
		if err != nil {
			log.Printf("generation with %s failed: %v", gen.Name(), err)
			lastErr = err
			continue
		}
		return &Answer{
			Text:    strings.TrimSpace(text),
			Model:   gen.Name(),
			Sources: sourcesFrom(results),
		}, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no generation providers configured")
	}
	return nil, &GenerationError{Attempted: attempted, Err: lastErr}
}

func buildContextBlock(results []vectorstore.Result) string {
	var parts []string
	for _, r := range results {
		if t := strings.TrimSpace(r.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n\n")
}

func sourcesFrom(results []vectorstore.Result) []Source {
	sources := make([]Source, 0, len(results))
	for _, r := range results {
		s := Source{Score: r.Score}
		if v, ok := r.Metadata["ticker"].(string); ok {
			s.Ticker = v
		}
		if v, ok := r.Metadata["filing_type"].(string); ok {
			s.FilingType = v
		}
		if v, ok := r.Metadata["accession_no"].(string); ok {
			s.AccessionNo = v
		}
		sources = append(sources, s)
	}
	return sources
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
