package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"volunteer-match-server/models"
)

// ActivityService persists and queries the API audit trail.
type ActivityService struct {
	db *gorm.DB
}

func NewActivityService(db *gorm.DB) *ActivityService {
	return &ActivityService{db: db}
}

func (s *ActivityService) Record(ctx context.Context, entry *models.ActivityLog) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	return s.db.WithContext(ctx).Create(entry).Error
}

type ActivityQuery struct {
	UserID uint
	Action string
	Page   int
	Limit  int
}

func (s *ActivityService) List(ctx context.Context, q ActivityQuery) ([]models.ActivityLog, int64, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 200 {
		q.Limit = 50
	}
	base := func() *gorm.DB {
		query := s.db.WithContext(ctx).Model(&models.ActivityLog{})
		if q.UserID != 0 {
			query = query.Where("user_id = ?", q.UserID)
		}
		if q.Action != "" {
			query = query.Where("action = ?", q.Action)
		}
		return query
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	logs := []models.ActivityLog{}
	err := base().Order("created_at DESC, id DESC").Offset((q.Page - 1) * q.Limit).Limit(q.Limit).Find(&logs).Error
	return logs, total, err
}

// Prune deletes entries older than retention and returns how many were removed.
func (s *ActivityService) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention)
	res := s.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&models.ActivityLog{})
	return res.RowsAffected, res.Error
}
