package domain

import "time"

// KPI holds the headline numbers for a period.
type KPI struct {
	Sales      float64 `json:"sales"`
	GrowthPct  float64 `json:"growthPct"`
	Conversion float64 `json:"conversion"`
}

// CategoryShare is one slice of the category breakdown.
type CategoryShare struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Summary is the dashboard headline payload.
type Summary struct {
	KPI        *KPI            `json:"kpi"`
	Prev       *KPI            `json:"prev"`
	Categories []CategoryShare `json:"categories"`
}

// SeriesPoint is one day of the KPI time series.
type SeriesPoint struct {
	Date       string  `json:"date"`
	Sales      float64 `json:"sales"`
	GrowthPct  float64 `json:"growthPct"`
	Conversion float64 `json:"conversion"`
}

// TimeSeries is the historical KPI payload.
type TimeSeries struct {
	Points []SeriesPoint `json:"points"`
}

// Influencer is a creator profile ranked by business score.
type Influencer struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Platform      string  `json:"platform"`
	Country       string  `json:"country"`
	Followers     int64   `json:"followers"`
	EngagementPct float64 `json:"engagementPct"`
	Score         float64 `json:"score"`
	Level         string  `json:"level"`
}

// RecommendedProduct is the product side of a collaboration match.
type RecommendedProduct struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	PriceUSD      *float64 `json:"priceUsd"`
	BusinessScore float64  `json:"businessScore"`
	Level         string   `json:"level"`
}

// Recommendation pairs a product with an influencer.
type Recommendation struct {
	ID         string             `json:"id"`
	MatchScore float64            `json:"matchScore"`
	Note       string             `json:"note"`
	Product    RecommendedProduct `json:"product"`
	Influencer Influencer         `json:"influencer"`
}

// ReportMetric is a named value inside a report.
type ReportMetric struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// ReportAuthor identifies who created a report.
type ReportAuthor struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Report is a saved analysis over a date range.
type Report struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Category  string         `json:"category"`
	FromDate  string         `json:"fromDate"`
	ToDate    string         `json:"toDate"`
	CreatedAt time.Time      `json:"createdAt"`
	CreatedBy ReportAuthor   `json:"createdBy"`
	Metrics   []ReportMetric `json:"metrics"`
}

// ReportPage is the filtered report listing plus the available categories.
type ReportPage struct {
	Reports    []Report `json:"reports"`
	Categories []string `json:"categories"`
}

// ReportFilter narrows the report listing.
type ReportFilter struct {
	Category string
	From     string
	To       string
}
