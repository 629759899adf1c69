package edgar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	defaultTickerURL      = "https://www.sec.gov/files/company_tickers.json"
	defaultSubmissionsURL = "https://data.sec.gov/submissions"
	defaultArchivesURL    = "https://www.sec.gov/Archives"
)

// FetchError reports a failed filing lookup or download.
type FetchError struct {
	Ticker string
	Op     string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("edgar fetch %s for %s: %v", e.Op, e.Ticker, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Filing is one downloaded regulatory filing.
type Filing struct {
	Ticker      string `json:"ticker"`
	FilingType  string `json:"filing_type"`
	AccessionNo string `json:"accession_no"`
	FilingDate  string `json:"filing_date"`
	PrimaryDoc  string `json:"primary_doc"`
	LocalPath   string `json:"local_path"`
}

// Client downloads filings from the SEC EDGAR system. EDGAR requires a
// descriptive User-Agent on every request.
type Client struct {
	httpClient *http.Client
	userAgent  string
	storageDir string

	// Endpoint overrides for tests.
	TickerURL      string
	SubmissionsURL string
	ArchivesURL    string
}

func NewClient(storageDir, userAgent string) *Client {
	if storageDir == "" {
		storageDir = "./sec-edgar-filings"
	}
	if userAgent == "" {
		userAgent = "RiskSentinel admin@risksentinel.com"
	}
	return &Client{
		httpClient:     &http.Client{Timeout: 60 * time.Second},
		userAgent:      userAgent,
		storageDir:     storageDir,
		TickerURL:      defaultTickerURL,
		SubmissionsURL: defaultSubmissionsURL,
		ArchivesURL:    defaultArchivesURL,
	}
}

type tickerEntry struct {
	CIK    int64  `json:"cik_str"`
	Ticker string `json:"ticker"`
	Title  string `json:"title"`
}

type submissions struct {
	Filings struct {
		Recent struct {
			AccessionNumber []string `json:"accessionNumber"`
			Form            []string `json:"form"`
			FilingDate      []string `json:"filingDate"`
			PrimaryDocument []string `json:"primaryDocument"`
		} `json:"recent"`
	} `json:"filings"`
}

// FetchLatest downloads the most recent limit filings of filingType for
// ticker into {storageDir}/{TICKER}/{filingType}/{accession}/. Re-fetching
// reuses the same directory and overwrites the document.
func (c *Client) FetchLatest(ctx context.Context, ticker, filingType string, limit int) ([]Filing, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if limit <= 0 {
		limit = 1
	}

	cik, err := c.lookupCIK(ctx, ticker)
	if err != nil {
		return nil, err
	}

	var subs submissions
	subsURL := fmt.Sprintf("%s/CIK%010d.json", strings.TrimSuffix(c.SubmissionsURL, "/"), cik)
	if err := c.getJSON(ctx, subsURL, &subs); err != nil {
		return nil, &FetchError{Ticker: ticker, Op: "submissions", Err: err}
	}

	recent := subs.Filings.Recent
	var filings []Filing
	// recent is already ordered newest first
	for i := range recent.Form {
		if len(filings) >= limit {
			break
		}
		if !strings.EqualFold(recent.Form[i], filingType) {
			continue
		}
		if i >= len(recent.AccessionNumber) || i >= len(recent.PrimaryDocument) {
			continue
		}
		f := Filing{
			Ticker:      ticker,
			FilingType:  filingType,
			AccessionNo: recent.AccessionNumber[i],
			PrimaryDoc:  recent.PrimaryDocument[i],
		}
		if i < len(recent.FilingDate) {
			f.FilingDate = recent.FilingDate[i]
		}
		path, err := c.download(ctx, cik, &f)
		if err != nil {
			return nil, &FetchError{Ticker: ticker, Op: "download", Err: err}
		}
		f.LocalPath = path
		filings = append(filings, f)
	}

	if len(filings) == 0 {
		return nil, &FetchError{Ticker: ticker, Op: "lookup", Err: fmt.Errorf("no %s filings found", filingType)}
	}
	return filings, nil
}

func (c *Client) lookupCIK(ctx context.Context, ticker string) (int64, error) {
	var entries map[string]tickerEntry
	if err := c.getJSON(ctx, c.TickerURL, &entries); err != nil {
		return 0, &FetchError{Ticker: ticker, Op: "ticker lookup", Err: err}
	}
	for _, e := range entries {
		if strings.EqualFold(e.Ticker, ticker) {
			return e.CIK, nil
		}
	}
	return 0, &FetchError{Ticker: ticker, Op: "ticker lookup", Err: fmt.Errorf("unknown ticker %q", ticker)}
}

func (c *Client) download(ctx context.Context, cik int64, f *Filing) (string, error) {
	accNoDashes := strings.ReplaceAll(f.AccessionNo, "-", "")
	docURL := fmt.Sprintf("%s/edgar/data/%d/%s/%s",
		strings.TrimSuffix(c.ArchivesURL, "/"), cik, accNoDashes, f.PrimaryDoc)

	dir := filepath.Join(c.storageDir, f.Ticker, f.FilingType, f.AccessionNo)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, filepath.Base(f.PrimaryDoc))

	body, err := c.get(ctx, docURL)
	if err != nil {
		return "", err
	}
	defer body.Close()

	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, body); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out interface{}) error {
	body, err := c.get(ctx, url)
	if err != nil {
		return err
	}
	defer body.Close()
	return json.NewDecoder(body).Decode(out)
}

func (c *Client) get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: status %d: %s", url, resp.StatusCode, string(b))
	}
	return resp.Body, nil
}
