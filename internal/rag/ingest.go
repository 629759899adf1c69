package rag

import (
	"context"
	"log"

	"github.com/karanmanglani/RiskSentinel/internal/edgar"
	"github.com/karanmanglani/RiskSentinel/internal/embedding"
	"github.com/karanmanglani/RiskSentinel/internal/loader"
	"github.com/karanmanglani/RiskSentinel/internal/splitter"
	"github.com/karanmanglani/RiskSentinel/internal/vectorstore"
)

const embedBatchSize = 64

// IngestResult summarizes one completed ingestion run.
type IngestResult struct {
	Ticker      string `json:"ticker"`
	FilingType  string `json:"filing_type"`
	AccessionNo string `json:"accession_no"`
	ChunksAdded int    `json:"chunks_added"`
}

// Fetcher is the filing download capability the ingestor needs; satisfied
// by *edgar.Client.
type Fetcher interface {
	FetchLatest(ctx context.Context, ticker, filingType string, limit int) ([]edgar.Filing, error)
}

// Ingestor sequences fetch, load, split, embed and index for one ticker.
type Ingestor struct {
	fetcher    Fetcher
	loader     *loader.Loader
	splitter   *splitter.RecursiveSplitter
	embedder   embedding.Embedder
	store      vectorstore.Store
	filingType string
}

func NewIngestor(fetcher Fetcher, ld *loader.Loader, sp *splitter.RecursiveSplitter, embedder embedding.Embedder, store vectorstore.Store) *Ingestor {
	return &Ingestor{
		fetcher:    fetcher,
		loader:     ld,
		splitter:   sp,
		embedder:   embedder,
		store:      store,
		filingType: "10-K",
	}
}

// Ingest downloads the latest annual filing for ticker and appends its
// embedded chunks to the index. The first failing step aborts the run;
// chunks already written stay in the index (append-only, no rollback).
// Re-ingesting the same filing duplicates its records.
func (ing *Ingestor) Ingest(ctx context.Context, ticker string) (*IngestResult, error) {
	filings, err := ing.fetcher.FetchLatest(ctx, ticker, ing.filingType, 1)
	if err != nil {
		return nil, err
	}
	filing := filings[0]
	log.Printf("ingesting %s %s (%s) from %s", filing.Ticker, filing.FilingType, filing.AccessionNo, filing.LocalPath)

	docs, err := ing.loader.Load(filing.LocalPath)
	if err != nil {
		return nil, err
	}

	var records []vectorstore.Record
	chunkIndex := 0
	for _, doc := range docs {
		for _, chunk := range ing.splitter.Split(doc.Text) {
			records = append(records, vectorstore.Record{
				Ticker:      filing.Ticker,
				FilingType:  filing.FilingType,
				AccessionNo: filing.AccessionNo,
				ChunkIndex:  chunkIndex,
				Text:        chunk.Text,
				Metadata: map[string]interface{}{
					"filing_date": filing.FilingDate,
					"char_start":  chunk.Start,
					"char_end":    chunk.End,
				},
			})
			chunkIndex++
		}
	}

	added := 0
	for start := 0; start < len(records); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]

		texts := make([]string, len(batch))
		for i, rec := range batch {
			texts[i] = rec.Text
		}
		vectors, err := ing.embedder.Embed(ctx, texts)
		if err != nil {
			return nil, err
		}
		for i := range batch {
			batch[i].Vector = vectors[i]
		}

		if err := ing.store.Add(ctx, batch); err != nil {
			return nil, err
		}
		added += len(batch)
	}

	log.Printf("ingested %d chunks for %s", added, filing.Ticker)
	return &IngestResult{
		Ticker:      filing.Ticker,
		FilingType:  filing.FilingType,
		AccessionNo: filing.AccessionNo,
		ChunksAdded: added,
	}, nil
}
