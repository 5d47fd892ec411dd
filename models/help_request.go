package models

import (
	"fmt"
	"strings"
	"time"
)

// RequestStatus represents the lifecycle position of a help request
type RequestStatus string

const (
	RequestStatusOpen      RequestStatus = "open"
	RequestStatusMatched   RequestStatus = "matched"
	RequestStatusAccepted  RequestStatus = "accepted"
	RequestStatusCompleted RequestStatus = "completed"
)

var AllRequestStatuses = []RequestStatus{
	RequestStatusOpen,
	RequestStatusMatched,
	RequestStatusAccepted,
	RequestStatusCompleted,
}

func ParseRequestStatus(raw string) (RequestStatus, error) {
	s := RequestStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("invalid request status %q", raw)
	}
	return s, nil
}

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusOpen, RequestStatusMatched, RequestStatusAccepted, RequestStatusCompleted:
		return true
	}
	return false
}

type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// ParseUrgency accepts an empty value as medium.
func ParseUrgency(raw string) (Urgency, error) {
	u := Urgency(strings.ToLower(strings.TrimSpace(raw)))
	if u == "" {
		return UrgencyMedium, nil
	}
	if !u.Valid() {
		return "", fmt.Errorf("invalid urgency %q", raw)
	}
	return u, nil
}

func (u Urgency) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh:
		return true
	}
	return false
}

// HelpRequest is a PIN's request for assistance
type HelpRequest struct {
	ID                  uint          `json:"id" gorm:"primaryKey"`
	UserID              uint          `json:"user_id" gorm:"not null;index"`
	CategoryID          *uint         `json:"category_id" gorm:"index"`
	Title               string        `json:"title" gorm:"type:varchar(200);not null"`
	Description         string        `json:"description" gorm:"type:text;not null"`
	Location            string        `json:"location" gorm:"type:varchar(255)"`
	Status              RequestStatus `json:"status" gorm:"type:varchar(20);not null;default:'open';index;check:status IN ('open','matched','accepted','completed')"`
	Urgency             Urgency       `json:"urgency" gorm:"type:varchar(10);not null;default:'medium';check:urgency IN ('low','medium','high')"`
	PreferredTime       *string       `json:"preferred_time" gorm:"type:varchar(100)"`
	PreferredDate       *string       `json:"preferred_date" gorm:"type:varchar(20)"`
	SpecialRequirements *string       `json:"special_requirements" gorm:"type:text"`
	AccessibilityNeeds  *string       `json:"accessibility_needs" gorm:"type:text"`
	ContactMethod       string        `json:"contact_method" gorm:"type:varchar(50)"`
	Anonymous           bool          `json:"anonymous" gorm:"not null;default:false"`
	PhotoURL            *string       `json:"photo_url" gorm:"type:varchar(500)"`
	CompletionNote      *string       `json:"completion_note" gorm:"type:text"`
	CompletedAt         *time.Time    `json:"completed_at" gorm:"index"`
	CreatedAt           time.Time     `json:"created_at" gorm:"index"`
	UpdatedAt           time.Time     `json:"updated_at"`
}

func (HelpRequest) TableName() string { return "requests" }

// HelpRequestCreate represents the payload for creating a help request
type HelpRequestCreate struct {
	UserID              uint    `json:"user_id"`
	CategoryID          *uint   `json:"category_id"`
	Title               string  `json:"title"`
	Description         string  `json:"description"`
	Location            string  `json:"location"`
	Urgency             string  `json:"urgency"`
	PreferredTime       *string `json:"preferred_time"`
	PreferredDate       *string `json:"preferred_date"`
	SpecialRequirements *string `json:"special_requirements"`
	AccessibilityNeeds  *string `json:"accessibility_needs"`
	ContactMethod       string  `json:"contact_method"`
	Anonymous           bool    `json:"anonymous"`
}

// HelpRequestUpdate is a partial patch; nil fields are left untouched.
type HelpRequestUpdate struct {
	CategoryID          *uint   `json:"category_id"`
	Title               *string `json:"title"`
	Description         *string `json:"description"`
	Location            *string `json:"location"`
	Urgency             *string `json:"urgency"`
	Status              *string `json:"status"`
	PreferredTime       *string `json:"preferred_time"`
	PreferredDate       *string `json:"preferred_date"`
	SpecialRequirements *string `json:"special_requirements"`
	AccessibilityNeeds  *string `json:"accessibility_needs"`
	ContactMethod       *string `json:"contact_method"`
	Anonymous           *bool   `json:"anonymous"`
}

// RequestSummary is the joined read model used by listings and analytics.
type RequestSummary struct {
	ID                  uint          `json:"id"`
	Title               string        `json:"title"`
	Description         string        `json:"description"`
	Location            string        `json:"location"`
	Status              RequestStatus `json:"status"`
	Urgency             Urgency       `json:"urgency"`
	UserID              uint          `json:"user_id"`
	RequesterName       string        `json:"requester_name"`
	CategoryID          *uint         `json:"category_id"`
	CategoryName        *string       `json:"category_name"`
	PreferredTime       *string       `json:"preferred_time"`
	SpecialRequirements *string       `json:"special_requirements"`
	Anonymous           bool          `json:"anonymous"`
	CreatedAt           time.Time     `json:"created_at"`
	CompletedAt         *time.Time    `json:"completed_at"`
}

// MaskRequester hides the requester's identity on anonymous requests.
func (s *RequestSummary) MaskRequester() {
	if s.Anonymous {
		s.RequesterName = "Anonymous"
	}
}
