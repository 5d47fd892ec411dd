package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"volunteer-match-server/models"
	"volunteer-match-server/types"
)

// ReportArchiver copies a generated report to long-term storage and returns its location.
type ReportArchiver interface {
	Enabled() bool
	ArchiveJSON(ctx context.Context, key string, body []byte) (string, error)
}

// ReportContent is the JSON document stored in reports.content.
type ReportContent struct {
	ReportType  Period                  `json:"report_type"`
	GeneratedAt time.Time               `json:"generated_at"`
	Range       string                  `json:"range"`
	Created     int64                   `json:"created"`
	Closed      int64                   `json:"closed"`
	Stats       *PlatformStats          `json:"stats"`
	Requests    []models.RequestSummary `json:"requests"`
}

// ReportService generates and stores manager reports
type ReportService struct {
	db        *gorm.DB
	reporting *ReportingService
	archiver  ReportArchiver
}

func NewReportService(db *gorm.DB, reporting *ReportingService, archiver ReportArchiver) *ReportService {
	return &ReportService{db: db, reporting: reporting, archiver: archiver}
}

// Generate snapshots the analytics for one period. The row is kept even if
// archiving fails; the archive URL is then left empty.
func (s *ReportService) Generate(ctx context.Context, p types.Principal, rawType string) (*models.Report, error) {
	period, err := ParsePeriod(rawType)
	if err != nil {
		return nil, err
	}

	created, err := s.reporting.Detail(ctx, string(period), string(MetricCreated))
	if err != nil {
		return nil, err
	}
	closed, err := s.reporting.Detail(ctx, string(period), string(MetricClosed))
	if err != nil {
		return nil, err
	}
	stats, err := s.reporting.Stats(ctx)
	if err != nil {
		return nil, err
	}

	content := ReportContent{
		ReportType:  period,
		GeneratedAt: s.reporting.now().UTC(),
		Range:       created.Range,
		Created:     int64(created.Count),
		Closed:      int64(closed.Count),
		Stats:       stats,
		Requests:    created.Requests,
	}
	body, err := json.Marshal(content)
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}

	report := models.Report{
		ManagerID:   p.UserID,
		ReportType:  string(period),
		Content:     string(body),
		GeneratedAt: content.GeneratedAt,
	}

	if s.archiver != nil && s.archiver.Enabled() {
		key := fmt.Sprintf("reports/%s/%s-%s.json", period, content.GeneratedAt.Format("20060102T150405Z"), uuid.NewString())
		url, err := s.archiver.ArchiveJSON(ctx, key, body)
		if err != nil {
			log.Printf("⚠️ Report archive failed: %v", err)
		} else {
			report.ArchiveURL = &url
		}
	}

	if err := s.db.WithContext(ctx).Create(&report).Error; err != nil {
		return nil, err
	}
	log.Printf("✅ %s report %d generated by manager %d", period, report.ID, p.UserID)
	return &report, nil
}

func (s *ReportService) List(ctx context.Context, reportType string) ([]models.Report, error) {
	q := s.db.WithContext(ctx).Order("generated_at DESC, id DESC")
	if reportType != "" {
		period, err := ParsePeriod(reportType)
		if err != nil {
			return nil, err
		}
		q = q.Where("report_type = ?", string(period))
	}
	reports := []models.Report{}
	err := q.Find(&reports).Error
	return reports, err
}

func (s *ReportService) Get(ctx context.Context, id uint) (*models.Report, error) {
	var report models.Report
	if err := s.db.WithContext(ctx).First(&report, id).Error; err != nil {
		return nil, notFoundOr(err, "report")
	}
	return &report, nil
}
