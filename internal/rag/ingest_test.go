package rag

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/karanmanglani/RiskSentinel/internal/edgar"
	"github.com/karanmanglani/RiskSentinel/internal/embedding"
	"github.com/karanmanglani/RiskSentinel/internal/loader"
	"github.com/karanmanglani/RiskSentinel/internal/splitter"
	"github.com/karanmanglani/RiskSentinel/internal/vectorstore"
)

// stubFetcher hands back a pre-written local filing instead of talking to
// EDGAR.
type stubFetcher struct {
	filing edgar.Filing
	err    error
}

func (f *stubFetcher) FetchLatest(ctx context.Context, ticker, filingType string, limit int) ([]edgar.Filing, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []edgar.Filing{f.filing}, nil
}

func writeFiling(t *testing.T, paragraphs int) string {
	t.Helper()
	var sb strings.Builder
	sb.WriteString("<html><body>")
	for i := 0; i < paragraphs; i++ {
		sb.WriteString("<p>")
		sb.WriteString(strings.Repeat("The company is exposed to competitive, regulatory and supply chain risks. ", 4))
		sb.WriteString("</p>")
	}
	sb.WriteString("</body></html>")

	path := filepath.Join(t.TempDir(), "filing.htm")
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		t.Fatalf("writing fixture filing: %v", err)
	}
	return path
}

func newTestIngestor(t *testing.T, fetcher Fetcher, store vectorstore.Store) *Ingestor {
	t.Helper()
	sp, err := splitter.NewRecursiveSplitter(400, 40)
	if err != nil {
		t.Fatalf("NewRecursiveSplitter failed: %v", err)
	}
	return NewIngestor(fetcher, loader.New(), sp, embedding.NewLocalEmbedder(64), store)
}

func TestIngestIndexesFilingChunks(t *testing.T) {
	fetcher := &stubFetcher{filing: edgar.Filing{
		Ticker:      "AAPL",
		FilingType:  "10-K",
		AccessionNo: "0000320193-24-000100",
		FilingDate:  "2024-11-01",
		LocalPath:   writeFiling(t, 30),
	}}
	store := vectorstore.NewMemStore()

	result, err := newTestIngestor(t, fetcher, store).Ingest(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if result.Ticker != "AAPL" || result.FilingType != "10-K" {
		t.Errorf("unexpected result %+v", result)
	}
	if result.ChunksAdded < 2 {
		t.Errorf("ChunksAdded = %d, want a multi-chunk document", result.ChunksAdded)
	}
	if store.Len() != result.ChunksAdded {
		t.Errorf("store has %d records, result reports %d", store.Len(), result.ChunksAdded)
	}

	results, err := store.Query(context.Background(), mustEmbed(t, "supply chain risks"), 1)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	meta := results[0].Metadata
	if meta["ticker"] != "AAPL" || meta["accession_no"] != "0000320193-24-000100" {
		t.Errorf("chunk missing filing namespace: %v", meta)
	}
	if meta["filing_date"] != "2024-11-01" {
		t.Errorf("filing_date = %v", meta["filing_date"])
	}
	if _, ok := meta["char_start"]; !ok {
		t.Error("chunk metadata missing char_start")
	}
}

func mustEmbed(t *testing.T, text string) []float32 {
	t.Helper()
	vecs, err := embedding.NewLocalEmbedder(64).Embed(context.Background(), []string{text})
	if err != nil {
		t.Fatalf("embedding query: %v", err)
	}
	return vecs[0]
}

func TestIngestTwiceDuplicatesRecords(t *testing.T) {
	fetcher := &stubFetcher{filing: edgar.Filing{
		Ticker:      "AAPL",
		FilingType:  "10-K",
		AccessionNo: "0000320193-24-000100",
		LocalPath:   writeFiling(t, 10),
	}}
	store := vectorstore.NewMemStore()
	ing := newTestIngestor(t, fetcher, store)

	first, err := ing.Ingest(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("first Ingest failed: %v", err)
	}
	second, err := ing.Ingest(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("second Ingest failed: %v", err)
	}
	if second.ChunksAdded != first.ChunksAdded {
		t.Errorf("second run added %d chunks, first added %d", second.ChunksAdded, first.ChunksAdded)
	}
	if store.Len() != 2*first.ChunksAdded {
		t.Errorf("store has %d records, want %d (append-only re-ingest)", store.Len(), 2*first.ChunksAdded)
	}
}

func TestIngestFetchFailure(t *testing.T) {
	fetchErr := &edgar.FetchError{Ticker: "NOPE", Op: "ticker lookup", Err: errors.New("unknown ticker")}
	fetcher := &stubFetcher{err: fetchErr}
	store := vectorstore.NewMemStore()

	_, err := newTestIngestor(t, fetcher, store).Ingest(context.Background(), "NOPE")
	var got *edgar.FetchError
	if !errors.As(err, &got) {
		t.Fatalf("expected *edgar.FetchError, got %T (%v)", err, err)
	}
	if store.Len() != 0 {
		t.Errorf("failed fetch must not write to the index, store has %d records", store.Len())
	}
}

func TestIngestLoadFailure(t *testing.T) {
	fetcher := &stubFetcher{filing: edgar.Filing{
		Ticker:     "AAPL",
		FilingType: "10-K",
		LocalPath:  filepath.Join(t.TempDir(), "missing.htm"),
	}}
	store := vectorstore.NewMemStore()

	_, err := newTestIngestor(t, fetcher, store).Ingest(context.Background(), "AAPL")
	var loadErr *loader.LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *loader.LoadError, got %T (%v)", err, err)
	}
	if store.Len() != 0 {
		t.Errorf("failed load must not write to the index, store has %d records", store.Len())
	}
}
