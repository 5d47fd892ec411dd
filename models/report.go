package models

import "time"

// Report is a persisted analytics snapshot generated by a platform manager.
type Report struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	ManagerID   uint      `json:"manager_id" gorm:"not null;index"`
	ReportType  string    `json:"report_type" gorm:"type:varchar(20);not null;check:report_type IN ('daily','weekly','monthly')"`
	Content     string    `json:"content" gorm:"type:text;not null"`
	ArchiveURL  *string   `json:"archive_url" gorm:"type:varchar(500)"`
	GeneratedAt time.Time `json:"generated_at" gorm:"index"`
}

func (Report) TableName() string { return "reports" }

type ReportCreate struct {
	ReportType string `json:"report_type"`
}
