package service

import (
	"context"
	"io"

	"github.com/fricdix/bi-dashboard/internal/bi"
	"github.com/fricdix/bi-dashboard/internal/domain"
	"github.com/fricdix/bi-dashboard/internal/repository"
	apperrors "github.com/fricdix/bi-dashboard/pkg/util"
)

// DashboardData bundles everything the main dashboard page shows.
type DashboardData struct {
	Summary         *domain.Summary
	Series          *domain.TimeSeries
	Influencers     []domain.Influencer
	Recommendations []domain.Recommendation
}

// InsightsService serves the read-only data pages from the remote BI API.
// Upstream trouble surfaces as an upstream error on the data portion, never
// as an authentication failure.
type InsightsService struct {
	client bi.Client
	audit  repository.AuditRepository
}

// NewInsightsService builds the service.
func NewInsightsService(client bi.Client, audit repository.AuditRepository) *InsightsService {
	return &InsightsService{client: client, audit: audit}
}

// Dashboard fetches the headline payloads for the dashboard page.
func (s *InsightsService) Dashboard(ctx context.Context) (*DashboardData, error) {
	summary, err := s.client.Summary(ctx)
	if err != nil {
		return nil, apperrors.NewUpstreamError(err)
	}
	series, err := s.client.TimeSeries(ctx)
	if err != nil {
		return nil, apperrors.NewUpstreamError(err)
	}
	influencers, err := s.client.Influencers(ctx)
	if err != nil {
		return nil, apperrors.NewUpstreamError(err)
	}
	recommendations, err := s.client.Recommendations(ctx)
	if err != nil {
		return nil, apperrors.NewUpstreamError(err)
	}
	return &DashboardData{
		Summary:         summary,
		Series:          series,
		Influencers:     influencers,
		Recommendations: recommendations,
	}, nil
}

// Influencers fetches the ranked influencer list.
func (s *InsightsService) Influencers(ctx context.Context) ([]domain.Influencer, error) {
	influencers, err := s.client.Influencers(ctx)
	if err != nil {
		return nil, apperrors.NewUpstreamError(err)
	}
	return influencers, nil
}

// Recommendations fetches the collaboration matches.
func (s *InsightsService) Recommendations(ctx context.Context) ([]domain.Recommendation, error) {
	recommendations, err := s.client.Recommendations(ctx)
	if err != nil {
		return nil, apperrors.NewUpstreamError(err)
	}
	return recommendations, nil
}

// Reports fetches the filtered report listing.
func (s *InsightsService) Reports(ctx context.Context, filter domain.ReportFilter) (*domain.ReportPage, error) {
	page, err := s.client.Reports(ctx, filter)
	if err != nil {
		return nil, apperrors.NewUpstreamError(err)
	}
	return page, nil
}

// ExportReport streams an upstream export (csv or pdf) to the caller.
func (s *InsightsService) ExportReport(ctx context.Context, filter domain.ReportFilter, format string) (io.ReadCloser, string, error) {
	if format != "csv" && format != "pdf" {
		return nil, "", apperrors.NewValidationError("format must be csv or pdf", nil)
	}
	body, contentType, err := s.client.ExportReport(ctx, filter, format)
	if err != nil {
		return nil, "", apperrors.NewUpstreamError(err)
	}
	return body, contentType, nil
}

// RecentActivity returns the latest audit entries for the admin dashboard.
func (s *InsightsService) RecentActivity(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	if s.audit == nil {
		return nil, nil
	}
	return s.audit.ListRecent(ctx, limit)
}
