package models

import "time"

// Feedback is a requester's rating of how their request was handled
type Feedback struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	RequestID   uint      `json:"request_id" gorm:"not null;uniqueIndex"`
	Rating      int       `json:"rating" gorm:"type:int;not null;check:rating >= 1 AND rating <= 5"`
	Comment     string    `json:"comment" gorm:"type:text"`
	Anonymous   bool      `json:"anonymous" gorm:"not null;default:false"`
	SubmittedAt time.Time `json:"submitted_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName sets custom table name
func (Feedback) TableName() string { return "feedback" }

type FeedbackInput struct {
	Rating    *int   `json:"rating"`
	Comment   string `json:"comment"`
	Anonymous bool   `json:"anonymous"`
}

// FeedbackListing joins feedback with its request for the admin view.
type FeedbackListing struct {
	ID            uint      `json:"id"`
	RequestID     uint      `json:"request_id"`
	RequestTitle  string    `json:"request_title"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment"`
	Anonymous     bool      `json:"anonymous"`
	RequesterName string    `json:"requester_name"`
	SubmittedAt   time.Time `json:"submitted_at"`
}
