package models

import (
	"fmt"
	"strings"
	"time"
)

type MatchStatus string

const (
	MatchStatusPending    MatchStatus = "pending"
	MatchStatusInProgress MatchStatus = "in_progress"
	MatchStatusBlocked    MatchStatus = "blocked"
	MatchStatusCompleted  MatchStatus = "completed"
)

func ParseMatchStatus(raw string) (MatchStatus, error) {
	s := MatchStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("invalid match status %q", raw)
	}
	return s, nil
}

func (s MatchStatus) Valid() bool {
	switch s {
	case MatchStatusPending, MatchStatusInProgress, MatchStatusBlocked, MatchStatusCompleted:
		return true
	}
	return false
}

// MatchEntry records a CSR working on a request.
type MatchEntry struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	CSRID       uint        `json:"csr_id" gorm:"column:csr_id;not null;index"`
	RequestID   uint        `json:"request_id" gorm:"not null;index"`
	MatchStatus MatchStatus `json:"match_status" gorm:"type:varchar(20);not null;default:'pending';check:match_status IN ('pending','in_progress','blocked','completed')"`
	MatchedAt   time.Time   `json:"matched_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (MatchEntry) TableName() string { return "match_history" }

// ShortlistEntry is a CSR's saved-for-later marker on a request.
type ShortlistEntry struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	CSRID         uint      `json:"csr_id" gorm:"column:csr_id;not null;index"`
	RequestID     uint      `json:"request_id" gorm:"not null;index"`
	ShortlistedAt time.Time `json:"shortlisted_at" gorm:"autoCreateTime"`
}

func (ShortlistEntry) TableName() string { return "csr_shortlist" }

// CSRAction is the body accepted by CSR endpoints.
type CSRAction struct {
	CSRID  uint   `json:"csr_id" form:"csr_id"`
	Status string `json:"status"`
	Note   string `json:"note"`
}

// MatchListing is a request summary joined with the CSR's match row.
type MatchListing struct {
	RequestSummary
	MatchID     uint        `json:"match_id"`
	CSRID       uint        `json:"csr_id" gorm:"column:csr_id"`
	CSRName     string      `json:"csr_name" gorm:"column:csr_name"`
	MatchStatus MatchStatus `json:"match_status"`
	MatchedAt   time.Time   `json:"matched_at"`
}

// CompletedListing adds the completion note and the requester's feedback,
// when any, to a completed match.
type CompletedListing struct {
	MatchListing
	CompletionNote      *string    `json:"completion_note"`
	FeedbackRating      *int       `json:"feedback_rating"`
	FeedbackComment     *string    `json:"feedback_comment"`
	FeedbackAnonymous   *bool      `json:"feedback_anonymous"`
	FeedbackSubmittedAt *time.Time `json:"feedback_submitted_at"`
}

// ShortlistListing is a request summary joined with the shortlist row.
type ShortlistListing struct {
	RequestSummary
	ShortlistID   uint      `json:"shortlist_id"`
	CSRID         uint      `json:"csr_id" gorm:"column:csr_id"`
	CSRName       string    `json:"csr_name" gorm:"column:csr_name"`
	ShortlistedAt time.Time `json:"shortlisted_at"`
}
