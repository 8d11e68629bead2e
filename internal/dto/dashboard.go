package dto

import "github.com/noah-isme/mcu-dashboard-api/internal/models"

// DashboardSummaryResponse is the aggregated dashboard payload.
type DashboardSummaryResponse struct {
	Counters     DashboardCounters       `json:"counters"`
	TopDiagnoses []models.DiagnosisCount `json:"top_diagnoses"`
	AgeHistogram []AgeBucket             `json:"age_histogram"`
	YearlyTrend  []models.YearCount      `json:"yearly_trend"`
	MonthlyTrend []models.MonthCount     `json:"monthly_trend"`
	TrendYear    int                     `json:"trend_year"`
}

// DashboardCounters holds the headline employee counts by MCU status.
type DashboardCounters struct {
	Total      int `json:"total"`
	Active     int `json:"active"`
	WillExpire int `json:"will_expire"`
	Expired    int `json:"expired"`
	NoMCU      int `json:"no_mcu"`
}

// AgeBucket is one bar of the age histogram.
type AgeBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}
