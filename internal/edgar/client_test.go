package edgar

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

const testUserAgent = "sentinel-test test@example.com"

// newFakeEDGAR serves the three EDGAR endpoints used by the client: the
// ticker map, the per-CIK submission index and the filing archive.
func newFakeEDGAR(t *testing.T) (*httptest.Server, *Client) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/files/company_tickers.json", func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != testUserAgent {
			t.Errorf("ticker request User-Agent = %q, want %q", ua, testUserAgent)
		}
		w.Write([]byte(`{
			"0": {"cik_str": 320193, "ticker": "AAPL", "title": "Apple Inc."},
			"1": {"cik_str": 789019, "ticker": "MSFT", "title": "Microsoft Corp"}
		}`))
	})
	mux.HandleFunc("/submissions/CIK0000320193.json", func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != testUserAgent {
			t.Errorf("submissions request User-Agent = %q, want %q", ua, testUserAgent)
		}
		w.Write([]byte(`{"filings": {"recent": {
			"accessionNumber": ["0000320193-24-000123", "0000320193-24-000100", "0000320193-23-000106"],
			"form": ["8-K", "10-K", "10-K"],
			"filingDate": ["2024-12-02", "2024-11-01", "2023-11-03"],
			"primaryDocument": ["a8k.htm", "aapl-20240928.htm", "aapl-20230930.htm"]
		}}}`))
	})
	mux.HandleFunc("/archives/edgar/data/320193/000032019324000100/aapl-20240928.htm", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>Annual report body.</p></body></html>`))
	})
	mux.HandleFunc("/archives/edgar/data/320193/000032019323000106/aapl-20230930.htm", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>Prior year annual report.</p></body></html>`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := NewClient(t.TempDir(), testUserAgent)
	c.TickerURL = srv.URL + "/files/company_tickers.json"
	c.SubmissionsURL = srv.URL + "/submissions"
	c.ArchivesURL = srv.URL + "/archives"
	return srv, c
}

func TestFetchLatestDownloadsMostRecentFiling(t *testing.T) {
	_, c := newFakeEDGAR(t)

	filings, err := c.FetchLatest(context.Background(), "aapl", "10-K", 1)
	if err != nil {
		t.Fatalf("FetchLatest failed: %v", err)
	}
	if len(filings) != 1 {
		t.Fatalf("expected 1 filing, got %d", len(filings))
	}

	f := filings[0]
	if f.Ticker != "AAPL" {
		t.Errorf("Ticker = %q, want AAPL", f.Ticker)
	}
	if f.AccessionNo != "0000320193-24-000100" {
		t.Errorf("AccessionNo = %q, want the newest 10-K", f.AccessionNo)
	}
	if f.FilingDate != "2024-11-01" {
		t.Errorf("FilingDate = %q, want 2024-11-01", f.FilingDate)
	}

	body, err := os.ReadFile(f.LocalPath)
	if err != nil {
		t.Fatalf("downloaded file unreadable: %v", err)
	}
	if !strings.Contains(string(body), "Annual report body.") {
		t.Errorf("downloaded file has unexpected content: %q", string(body))
	}
	for _, part := range []string{"AAPL", "10-K", "0000320193-24-000100"} {
		if !strings.Contains(f.LocalPath, part) {
			t.Errorf("LocalPath %q missing %q", f.LocalPath, part)
		}
	}
}

func TestFetchLatestHonorsLimit(t *testing.T) {
	_, c := newFakeEDGAR(t)

	filings, err := c.FetchLatest(context.Background(), "AAPL", "10-K", 2)
	if err != nil {
		t.Fatalf("FetchLatest failed: %v", err)
	}
	if len(filings) != 2 {
		t.Fatalf("expected 2 filings, got %d", len(filings))
	}
	if filings[0].AccessionNo != "0000320193-24-000100" || filings[1].AccessionNo != "0000320193-23-000106" {
		t.Errorf("filings out of order: %q then %q", filings[0].AccessionNo, filings[1].AccessionNo)
	}
}

func TestFetchLatestUnknownTicker(t *testing.T) {
	_, c := newFakeEDGAR(t)

	_, err := c.FetchLatest(context.Background(), "NOPE", "10-K", 1)
	if err == nil {
		t.Fatal("expected error for unknown ticker")
	}
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %T", err)
	}
	if fetchErr.Ticker != "NOPE" {
		t.Errorf("FetchError.Ticker = %q, want NOPE", fetchErr.Ticker)
	}
	if fetchErr.Op != "ticker lookup" {
		t.Errorf("FetchError.Op = %q, want %q", fetchErr.Op, "ticker lookup")
	}
}

func TestFetchLatestNoMatchingFilings(t *testing.T) {
	_, c := newFakeEDGAR(t)

	_, err := c.FetchLatest(context.Background(), "AAPL", "S-1", 1)
	if err == nil {
		t.Fatal("expected error when no filings match the requested type")
	}
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %T", err)
	}
	if !strings.Contains(err.Error(), "S-1") {
		t.Errorf("error should name the filing type: %v", err)
	}
}

func TestFetchLatestUnreachableEndpoint(t *testing.T) {
	c := NewClient(t.TempDir(), testUserAgent)
	c.TickerURL = "http://127.0.0.1:1/company_tickers.json"

	_, err := c.FetchLatest(context.Background(), "AAPL", "10-K", 1)
	if err == nil {
		t.Fatal("expected error for unreachable endpoint")
	}
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %T", err)
	}
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient("", "")
	if c.userAgent != "RiskSentinel admin@risksentinel.com" {
		t.Errorf("userAgent = %q", c.userAgent)
	}
	if c.storageDir != "./sec-edgar-filings" {
		t.Errorf("storageDir = %q", c.storageDir)
	}
	if c.TickerURL != defaultTickerURL {
		t.Errorf("TickerURL = %q", c.TickerURL)
	}
}
