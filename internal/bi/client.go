package bi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fricdix/bi-dashboard/internal/domain"
)

// Client reads aggregated metrics from the remote BI data API. The dashboard
// is a thin presentation layer: it never computes KPIs itself.
type Client interface {
	Summary(ctx context.Context) (*domain.Summary, error)
	TimeSeries(ctx context.Context) (*domain.TimeSeries, error)
	Influencers(ctx context.Context) ([]domain.Influencer, error)
	Recommendations(ctx context.Context) ([]domain.Recommendation, error)
	Reports(ctx context.Context, filter domain.ReportFilter) (*domain.ReportPage, error)
	ExportReport(ctx context.Context, filter domain.ReportFilter, format string) (io.ReadCloser, string, error)
}

type httpClient struct {
	baseURL string
	http    *http.Client
}

// NewClient builds an HTTP client for the data API.
func NewClient(baseURL string, timeout time.Duration) Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &httpClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *httpClient) Summary(ctx context.Context) (*domain.Summary, error) {
	var out domain.Summary
	if err := c.getJSON(ctx, "/api/dashboard/summary", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) TimeSeries(ctx context.Context) (*domain.TimeSeries, error) {
	var out domain.TimeSeries
	if err := c.getJSON(ctx, "/api/dashboard/timeseries", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) Influencers(ctx context.Context) ([]domain.Influencer, error) {
	var out struct {
		Influencers []domain.Influencer `json:"influencers"`
	}
	if err := c.getJSON(ctx, "/api/influencers", nil, &out); err != nil {
		return nil, err
	}
	return out.Influencers, nil
}

func (c *httpClient) Recommendations(ctx context.Context) ([]domain.Recommendation, error) {
	var out struct {
		Recommendations []domain.Recommendation `json:"recommendations"`
	}
	if err := c.getJSON(ctx, "/api/recommendations", nil, &out); err != nil {
		return nil, err
	}
	return out.Recommendations, nil
}

func (c *httpClient) Reports(ctx context.Context, filter domain.ReportFilter) (*domain.ReportPage, error) {
	var out domain.ReportPage
	if err := c.getJSON(ctx, "/api/reports", filterQuery(filter, ""), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) ExportReport(ctx context.Context, filter domain.ReportFilter, format string) (io.ReadCloser, string, error) {
	resp, err := c.get(ctx, "/api/reports/export", filterQuery(filter, format))
	if err != nil {
		return nil, "", err
	}
	return resp.Body, resp.Header.Get("Content-Type"), nil
}

func (c *httpClient) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	resp, err := c.get(ctx, path, query)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *httpClient) get(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: unexpected status %d", path, resp.StatusCode)
	}
	return resp, nil
}

func filterQuery(filter domain.ReportFilter, format string) url.Values {
	query := url.Values{}
	category := filter.Category
	if category == "" {
		category = "all"
	}
	query.Set("category", category)
	if filter.From != "" {
		query.Set("from", filter.From)
	}
	if filter.To != "" {
		query.Set("to", filter.To)
	}
	if format != "" {
		query.Set("format", format)
	}
	return query
}
