package services

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"volunteer-match-server/models"
)

// ShortlistService maintains CSR shortlists and the CSR-facing listings.
type ShortlistService struct {
	db *gorm.DB
}

func NewShortlistService(db *gorm.DB) *ShortlistService {
	return &ShortlistService{db: db}
}

// Shortlist saves the request for the CSR. Saving twice is a no-op.
func (s *ShortlistService) Shortlist(ctx context.Context, requestID, csrID uint) error {
	if csrID == 0 {
		return validationf("csr_id is required")
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireCSR(tx, csrID); err != nil {
			return err
		}
		if err := tx.Select("id").First(&models.HelpRequest{}, requestID).Error; err != nil {
			return notFoundOr(err, "request")
		}
		entry := models.ShortlistEntry{CSRID: csrID, RequestID: requestID}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "csr_id"}, {Name: "request_id"}},
			DoNothing: true,
		}).Create(&entry).Error
	})
}

// requireCSR rejects ids that do not belong to a CSR account.
func requireCSR(tx *gorm.DB, csrID uint) error {
	var user models.User
	err := tx.Select("id", "role").First(&user, csrID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return validationf("csr_id %d does not exist", csrID)
	}
	if err != nil {
		return err
	}
	if user.Role != models.RoleCSR {
		return validationf("user %d is not a CSR", csrID)
	}
	return nil
}

// Unshortlist removes the entry if present.
func (s *ShortlistService) Unshortlist(ctx context.Context, requestID, csrID uint) error {
	if csrID == 0 {
		return validationf("csr_id is required")
	}
	return s.db.WithContext(ctx).
		Where("csr_id = ? AND request_id = ?", csrID, requestID).
		Delete(&models.ShortlistEntry{}).Error
}

const requestSummaryColumns = `r.id, r.title, r.description, r.location, r.status, r.urgency, r.user_id,
	u.name AS requester_name, r.category_id, c.name AS category_name,
	r.preferred_time, r.special_requirements, r.anonymous, r.created_at, r.completed_at`

const matchColumns = requestSummaryColumns + `, m.id AS match_id, m.csr_id, csr.name AS csr_name,
	m.match_status, m.matched_at`

func matchQuery(db *gorm.DB, csrID *uint, columns string) *gorm.DB {
	q := db.Table("match_history AS m").
		Select(columns).
		Joins("JOIN requests r ON r.id = m.request_id").
		Joins("LEFT JOIN users u ON u.id = r.user_id").
		Joins("LEFT JOIN users csr ON csr.id = m.csr_id").
		Joins("LEFT JOIN categories c ON c.id = r.category_id")
	if csrID != nil {
		q = q.Where("m.csr_id = ?", *csrID)
	}
	return q
}

func maskMatches(rows []models.MatchListing) []models.MatchListing {
	for i := range rows {
		rows[i].MaskRequester()
	}
	return rows
}

// Accepted lists matches that are not completed; nil csrID lists all CSRs.
func (s *ShortlistService) Accepted(ctx context.Context, csrID *uint) ([]models.MatchListing, error) {
	rows := []models.MatchListing{}
	err := matchQuery(s.db.WithContext(ctx), csrID, matchColumns).
		Where("m.match_status <> ?", models.MatchStatusCompleted).
		Order("m.matched_at DESC, m.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return maskMatches(rows), nil
}

// Completed lists completed matches with their feedback; nil csrID lists all CSRs.
func (s *ShortlistService) Completed(ctx context.Context, csrID *uint) ([]models.CompletedListing, error) {
	rows := []models.CompletedListing{}
	columns := matchColumns + `, r.completion_note,
		f.rating AS feedback_rating, f.comment AS feedback_comment,
		f.anonymous AS feedback_anonymous, f.submitted_at AS feedback_submitted_at`
	err := matchQuery(s.db.WithContext(ctx), csrID, columns).
		Joins("LEFT JOIN feedback f ON f.request_id = r.id").
		Where("m.match_status = ?", models.MatchStatusCompleted).
		Order("r.completed_at DESC, m.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].MaskRequester()
	}
	return rows, nil
}

// Shortlisted lists shortlist rows; nil csrID lists all CSRs.
func (s *ShortlistService) Shortlisted(ctx context.Context, csrID *uint) ([]models.ShortlistListing, error) {
	q := s.db.WithContext(ctx).Table("csr_shortlist AS sl").
		Select(requestSummaryColumns+`, sl.id AS shortlist_id, sl.csr_id, csr.name AS csr_name, sl.shortlisted_at`).
		Joins("JOIN requests r ON r.id = sl.request_id").
		Joins("LEFT JOIN users u ON u.id = r.user_id").
		Joins("LEFT JOIN users csr ON csr.id = sl.csr_id").
		Joins("LEFT JOIN categories c ON c.id = r.category_id")
	if csrID != nil {
		q = q.Where("sl.csr_id = ?", *csrID)
	}
	rows := []models.ShortlistListing{}
	if err := q.Order("sl.shortlisted_at DESC, sl.id DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].MaskRequester()
	}
	return rows, nil
}
