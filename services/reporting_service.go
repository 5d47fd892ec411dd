package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"volunteer-match-server/models"
)

type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

var Periods = []Period{PeriodDaily, PeriodWeekly, PeriodMonthly}

func ParsePeriod(raw string) (Period, error) {
	switch p := Period(raw); p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
		return p, nil
	}
	return "", validationf("period must be daily, weekly or monthly")
}

// Metric selects which timestamp a window counts.
type Metric string

const (
	MetricCreated Metric = "created"
	MetricClosed  Metric = "closed"
)

func ParseMetric(raw string) (Metric, error) {
	switch m := Metric(raw); m {
	case MetricCreated, MetricClosed:
		return m, nil
	}
	return "", validationf("type must be created or closed")
}

// Window is a half-open [Start, End) interval with a display label.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Label string    `json:"range"`
}

// WindowFor computes the window of period ending with the day of now.
// Weekly covers the last seven days but never starts before the first of
// the month, so a weekly count cannot exceed the monthly one.
func WindowFor(period Period, now time.Time) Window {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := today.AddDate(0, 0, 1)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var start time.Time
	switch period {
	case PeriodDaily:
		start = today
	case PeriodWeekly:
		start = today.AddDate(0, 0, -6)
		if start.Before(monthStart) {
			start = monthStart
		}
	default:
		start = monthStart
	}

	label := start.Format("Jan 2, 2006")
	if !start.Equal(today) {
		label += " - " + today.Format("Jan 2, 2006")
	}
	return Window{Start: start, End: tomorrow, Label: label}
}

// WindowCount is one cell of the analytics summary.
type WindowCount struct {
	Count int64  `json:"count"`
	Range string `json:"range"`
}

// AnalyticsDetail is a window count together with the matching requests.
type AnalyticsDetail struct {
	Period   Period                  `json:"period"`
	Type     Metric                  `json:"type"`
	Count    int                     `json:"count"`
	Range    string                  `json:"range"`
	Requests []models.RequestSummary `json:"requests"`
}

// PlatformStats are the totals shown on the public and admin dashboards.
type PlatformStats struct {
	TotalUsers       int64            `json:"total_users"`
	TotalRequests    int64            `json:"total_requests"`
	TotalCategories  int64            `json:"total_categories"`
	UsersByRole      map[string]int64 `json:"users_by_role"`
	RequestsByStatus map[string]int64 `json:"requests_by_status"`
}

// ReportingService serves read-only aggregates.
type ReportingService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewReportingService(db *gorm.DB) *ReportingService {
	return &ReportingService{db: db, now: time.Now}
}

// WithClock replaces the time source.
func (s *ReportingService) WithClock(now func() time.Time) *ReportingService {
	s.now = now
	return s
}

func windowQuery(db *gorm.DB, metric Metric, w Window) *gorm.DB {
	// Bounds are compared in UTC, matching how timestamps are written.
	start, end := w.Start.UTC(), w.End.UTC()
	if metric == MetricClosed {
		return db.Where("r.status = ? AND r.completed_at >= ? AND r.completed_at < ?",
			models.RequestStatusCompleted, start, end)
	}
	return db.Where("r.created_at >= ? AND r.created_at < ?", start, end)
}

func (s *ReportingService) count(ctx context.Context, metric Metric, w Window) (int64, error) {
	var n int64
	err := windowQuery(s.db.WithContext(ctx).Table("requests AS r"), metric, w).Count(&n).Error
	return n, err
}

// Summary returns counts for every period and metric, keyed as
// summary[period][metric].
func (s *ReportingService) Summary(ctx context.Context) (map[Period]map[Metric]WindowCount, error) {
	now := s.now()
	out := make(map[Period]map[Metric]WindowCount, len(Periods))
	for _, p := range Periods {
		w := WindowFor(p, now)
		out[p] = map[Metric]WindowCount{}
		for _, m := range []Metric{MetricCreated, MetricClosed} {
			n, err := s.count(ctx, m, w)
			if err != nil {
				return nil, fmt.Errorf("count %s %s: %w", p, m, err)
			}
			out[p][m] = WindowCount{Count: n, Range: w.Label}
		}
	}
	return out, nil
}

// Detail lists the requests counted by one period and metric.
func (s *ReportingService) Detail(ctx context.Context, rawPeriod, rawMetric string) (*AnalyticsDetail, error) {
	period, err := ParsePeriod(rawPeriod)
	if err != nil {
		return nil, err
	}
	metric, err := ParseMetric(rawMetric)
	if err != nil {
		return nil, err
	}
	w := WindowFor(period, s.now())

	rows := []models.RequestSummary{}
	order := "r.created_at DESC"
	if metric == MetricClosed {
		order = "r.completed_at DESC"
	}
	if err := windowQuery(summaryQuery(s.db.WithContext(ctx)), metric, w).Order(order).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return &AnalyticsDetail{
		Period:   period,
		Type:     metric,
		Count:    len(rows),
		Range:    w.Label,
		Requests: maskSummaries(rows),
	}, nil
}

type groupCount struct {
	Name  string
	Count int64
}

// Stats counts users by role and requests by status.
func (s *ReportingService) Stats(ctx context.Context) (*PlatformStats, error) {
	db := s.db.WithContext(ctx)
	stats := &PlatformStats{
		UsersByRole:      map[string]int64{},
		RequestsByStatus: map[string]int64{},
	}
	for _, r := range models.AllRoles {
		stats.UsersByRole[string(r)] = 0
	}
	for _, st := range models.AllRequestStatuses {
		stats.RequestsByStatus[string(st)] = 0
	}

	var byRole []groupCount
	if err := db.Model(&models.User{}).Select("role AS name, COUNT(*) AS count").Group("role").Scan(&byRole).Error; err != nil {
		return nil, err
	}
	for _, g := range byRole {
		stats.UsersByRole[g.Name] = g.Count
		stats.TotalUsers += g.Count
	}

	var byStatus []groupCount
	if err := db.Model(&models.HelpRequest{}).Select("status AS name, COUNT(*) AS count").Group("status").Scan(&byStatus).Error; err != nil {
		return nil, err
	}
	for _, g := range byStatus {
		stats.RequestsByStatus[g.Name] = g.Count
		stats.TotalRequests += g.Count
	}

	if err := db.Model(&models.Category{}).Count(&stats.TotalCategories).Error; err != nil {
		return nil, err
	}
	return stats, nil
}
