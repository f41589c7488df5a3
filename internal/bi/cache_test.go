package bi

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fricdix/bi-dashboard/internal/domain"
	"github.com/fricdix/bi-dashboard/internal/observability"
)

type countingClient struct {
	summaryCalls int
	reportCalls  int
	fail         bool
}

func (c *countingClient) Summary(context.Context) (*domain.Summary, error) {
	c.summaryCalls++
	if c.fail {
		return nil, errors.New("upstream down")
	}
	return &domain.Summary{KPI: &domain.KPI{Sales: 21500, GrowthPct: 9.3, Conversion: 4.8}}, nil
}

func (c *countingClient) TimeSeries(context.Context) (*domain.TimeSeries, error) {
	return &domain.TimeSeries{}, nil
}

func (c *countingClient) Influencers(context.Context) ([]domain.Influencer, error) {
	return []domain.Influencer{{ID: "i1", Name: "Creator", Platform: "TIKTOK"}}, nil
}

func (c *countingClient) Recommendations(context.Context) ([]domain.Recommendation, error) {
	return nil, nil
}

func (c *countingClient) Reports(_ context.Context, filter domain.ReportFilter) (*domain.ReportPage, error) {
	c.reportCalls++
	return &domain.ReportPage{Categories: []string{filter.Category}}, nil
}

func (c *countingClient) ExportReport(context.Context, domain.ReportFilter, string) (io.ReadCloser, string, error) {
	return nil, "", errors.New("not used")
}

func testCache(t *testing.T, inner Client) (*CachedClient, *miniredis.Miniredis) {
	cache, mr, _ := testCacheWithMetrics(t, inner)
	return cache, mr
}

func testCacheWithMetrics(t *testing.T, inner Client) (*CachedClient, *miniredis.Miniredis, *observability.Metrics) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	metrics := observability.NewMetrics()
	return NewCachedClient(inner, rdb, time.Minute, zap.NewNop(), metrics), mr, metrics
}

func TestCachedSummaryHitsUpstreamOnce(t *testing.T) {
	inner := &countingClient{}
	cache, _ := testCache(t, inner)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		summary, err := cache.Summary(ctx)
		if err != nil {
			t.Fatalf("Summary: %v", err)
		}
		if summary.KPI == nil || summary.KPI.Sales != 21500 {
			t.Fatalf("summary = %+v", summary)
		}
	}
	if inner.summaryCalls != 1 {
		t.Errorf("upstream called %d times, want 1", inner.summaryCalls)
	}
}

func TestCachedSummaryExpires(t *testing.T) {
	inner := &countingClient{}
	cache, mr := testCache(t, inner)
	ctx := context.Background()

	if _, err := cache.Summary(ctx); err != nil {
		t.Fatalf("Summary: %v", err)
	}
	mr.FastForward(2 * time.Minute)
	if _, err := cache.Summary(ctx); err != nil {
		t.Fatalf("Summary after expiry: %v", err)
	}
	if inner.summaryCalls != 2 {
		t.Errorf("upstream called %d times after expiry, want 2", inner.summaryCalls)
	}
}

func TestReportCacheKeyedByFilter(t *testing.T) {
	inner := &countingClient{}
	cache, _ := testCache(t, inner)
	ctx := context.Background()

	if _, err := cache.Reports(ctx, domain.ReportFilter{Category: "tech"}); err != nil {
		t.Fatalf("Reports: %v", err)
	}
	if _, err := cache.Reports(ctx, domain.ReportFilter{Category: "retail"}); err != nil {
		t.Fatalf("Reports: %v", err)
	}
	if _, err := cache.Reports(ctx, domain.ReportFilter{Category: "tech"}); err != nil {
		t.Fatalf("Reports: %v", err)
	}
	if inner.reportCalls != 2 {
		t.Errorf("upstream called %d times, want 2 (one per distinct filter)", inner.reportCalls)
	}
}

func TestCacheUnavailableFallsThrough(t *testing.T) {
	inner := &countingClient{}
	cache, mr := testCache(t, inner)
	mr.Close()
	ctx := context.Background()

	if _, err := cache.Summary(ctx); err != nil {
		t.Fatalf("Summary with dead cache: %v", err)
	}
	if inner.summaryCalls != 1 {
		t.Errorf("upstream called %d times, want 1", inner.summaryCalls)
	}
}

func TestCacheCountersTrackHitsAndMisses(t *testing.T) {
	inner := &countingClient{}
	cache, _, metrics := testCacheWithMetrics(t, inner)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := cache.Summary(ctx); err != nil {
			t.Fatalf("Summary: %v", err)
		}
	}

	hits, misses := metrics.CacheCounts()
	if misses != 1 {
		t.Errorf("misses = %d, want 1 (cold read)", misses)
	}
	if hits != 2 {
		t.Errorf("hits = %d, want 2", hits)
	}
}

func TestUpstreamErrorPropagates(t *testing.T) {
	inner := &countingClient{fail: true}
	cache, _ := testCache(t, inner)

	if _, err := cache.Summary(context.Background()); err == nil {
		t.Fatal("expected upstream error")
	}
}
