package models

import "time"

// ActivityLog is one audited API call.
type ActivityLog struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    *uint     `json:"user_id" gorm:"index"`
	UserName  string    `json:"user_name" gorm:"size:255"`
	UserRole  string    `json:"user_role" gorm:"size:32"`
	Action    string    `json:"action" gorm:"size:100;not null"`
	Details   string    `json:"details" gorm:"type:text"`
	IPAddress string    `json:"ip_address" gorm:"size:45"`
	Method    string    `json:"method" gorm:"size:10"`
	Path      string    `json:"path" gorm:"size:255"`
	Status    int       `json:"status"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

func (ActivityLog) TableName() string { return "activity_logs" }
