package services

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"volunteer-match-server/models"
)

// FeedbackService serves the admin feedback views
type FeedbackService struct {
	db *gorm.DB
}

func NewFeedbackService(db *gorm.DB) *FeedbackService {
	return &FeedbackService{db: db}
}

type FeedbackQuery struct {
	Rating int
	Search string
	Page   int
	Limit  int
}

// FeedbackStats summarizes all feedback.
type FeedbackStats struct {
	TotalFeedback      int64   `json:"total_feedback"`
	AverageRating      float64 `json:"average_rating"`
	RecentFeedback     int64   `json:"recent_feedback"` // Last 7 days
	RatingDistribution [5]int  `json:"rating_distribution"`
}

// List returns one page of feedback joined with the request title.
func (s *FeedbackService) List(ctx context.Context, q FeedbackQuery) ([]models.FeedbackListing, int64, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 20
	}

	term := strings.ToLower(strings.TrimSpace(q.Search))
	base := func() *gorm.DB {
		query := s.db.WithContext(ctx).Table("feedback AS f").
			Joins("JOIN requests r ON r.id = f.request_id").
			Joins("LEFT JOIN users u ON u.id = r.user_id")
		if q.Rating > 0 {
			query = query.Where("f.rating = ?", q.Rating)
		}
		if term != "" {
			query = query.Where("LOWER(f.comment) LIKE ?", "%"+term+"%")
		}
		return query
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := []models.FeedbackListing{}
	err := base().
		Select(`f.id, f.request_id, r.title AS request_title, f.rating, f.comment, f.anonymous,
			u.name AS requester_name, f.submitted_at`).
		Order("f.submitted_at DESC, f.id DESC").
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	for i := range rows {
		if rows[i].Anonymous {
			rows[i].RequesterName = "Anonymous"
		}
	}
	return rows, total, nil
}

func (s *FeedbackService) Stats(ctx context.Context) (*FeedbackStats, error) {
	db := s.db.WithContext(ctx)
	stats := &FeedbackStats{}

	if err := db.Model(&models.Feedback{}).Count(&stats.TotalFeedback).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Feedback{}).Select("COALESCE(AVG(rating), 0)").Scan(&stats.AverageRating).Error; err != nil {
		return nil, err
	}

	weekAgo := time.Now().UTC().AddDate(0, 0, -7)
	if err := db.Model(&models.Feedback{}).Where("submitted_at >= ?", weekAgo).Count(&stats.RecentFeedback).Error; err != nil {
		return nil, err
	}

	var dist []struct {
		Rating int
		Count  int
	}
	if err := db.Model(&models.Feedback{}).Select("rating, COUNT(*) AS count").Group("rating").Scan(&dist).Error; err != nil {
		return nil, err
	}
	for _, d := range dist {
		if d.Rating >= 1 && d.Rating <= 5 {
			stats.RatingDistribution[d.Rating-1] = d.Count
		}
	}
	return stats, nil
}
