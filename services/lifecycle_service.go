package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"volunteer-match-server/models"
)

// LifecycleService moves requests and their match rows through their states.
//
// Request.status and MatchEntry.match_status are updated side by side but are
// not kept in lockstep: RemoveSelf leaves the request matched, and several
// CSRs may hold match rows for one request.
type LifecycleService struct {
	db *gorm.DB
}

func NewLifecycleService(db *gorm.DB) *LifecycleService {
	return &LifecycleService{db: db}
}

// Accept records csrID as working on the request and marks the request
// matched. Repeated calls return the existing entry.
func (s *LifecycleService) Accept(ctx context.Context, requestID, csrID uint) (*models.MatchEntry, error) {
	if csrID == 0 {
		return nil, validationf("csr_id is required")
	}
	var entry models.MatchEntry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireCSR(tx, csrID); err != nil {
			return err
		}
		if err := tx.Select("id").First(&models.HelpRequest{}, requestID).Error; err != nil {
			return notFoundOr(err, "request")
		}

		err := tx.Where("csr_id = ? AND request_id = ?", csrID, requestID).Order("id").First(&entry).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			entry = models.MatchEntry{
				CSRID:       csrID,
				RequestID:   requestID,
				MatchStatus: models.MatchStatusPending,
			}
			err = tx.Create(&entry).Error
		}
		if err != nil {
			return err
		}

		return tx.Model(&models.HelpRequest{}).Where("id = ?", requestID).
			Update("status", models.RequestStatusMatched).Error
	})
	if err != nil {
		return nil, err
	}
	log.Printf("✅ CSR %d accepted request %d (match %d)", csrID, requestID, entry.ID)
	return &entry, nil
}

// UpdateStatus sets the match status of the (csr, request) pair.
func (s *LifecycleService) UpdateStatus(ctx context.Context, requestID, csrID uint, raw string) (*models.MatchEntry, error) {
	if csrID == 0 {
		return nil, validationf("csr_id is required")
	}
	status, err := models.ParseMatchStatus(raw)
	if err != nil {
		return nil, validationf("status must be one of pending, in_progress, blocked, completed")
	}

	var entry models.MatchEntry
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("csr_id = ? AND request_id = ?", csrID, requestID).Order("id").First(&entry).Error; err != nil {
			return notFoundOr(err, "match")
		}
		if err := tx.Model(&models.MatchEntry{}).
			Where("csr_id = ? AND request_id = ?", csrID, requestID).
			Update("match_status", status).Error; err != nil {
			return err
		}
		entry.MatchStatus = status
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Complete finalizes the CSR's match and the request. completed_at keeps the
// first completion time; a non-empty note is appended on its own line.
func (s *LifecycleService) Complete(ctx context.Context, requestID, csrID uint, note string) (*models.HelpRequest, error) {
	if csrID == 0 {
		return nil, validationf("csr_id is required")
	}
	var req models.HelpRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&req, requestID).Error; err != nil {
			return notFoundOr(err, "request")
		}
		res := tx.Model(&models.MatchEntry{}).
			Where("csr_id = ? AND request_id = ?", csrID, requestID).
			Update("match_status", models.MatchStatusCompleted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return notFoundf("match not found")
		}

		updates := map[string]interface{}{"status": models.RequestStatusCompleted}
		if req.CompletedAt == nil {
			updates["completed_at"] = time.Now().UTC()
		}
		if note = strings.TrimSpace(note); note != "" {
			updates["completion_note"] = appendNote(req.CompletionNote, note)
		}
		if err := tx.Model(&req).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&req, requestID).Error
	})
	if err != nil {
		return nil, err
	}
	log.Printf("✅ CSR %d completed request %d", csrID, requestID)
	return &req, nil
}

func appendNote(existing *string, note string) string {
	if existing == nil || *existing == "" {
		return note
	}
	return *existing + "\n" + note
}

// RemoveSelf deletes the CSR's match rows for the request. The request keeps
// its current status.
func (s *LifecycleService) RemoveSelf(ctx context.Context, requestID, csrID uint) error {
	if csrID == 0 {
		return validationf("csr_id is required")
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("csr_id = ? AND request_id = ?", csrID, requestID).Delete(&models.MatchEntry{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return notFoundf("match not found")
		}
		log.Printf("↩️ CSR %d removed themselves from request %d", csrID, requestID)
		return nil
	})
}

// OverrideStatus lets a manager set the request status directly.
func (s *LifecycleService) OverrideStatus(ctx context.Context, requestID uint, raw string) (*models.HelpRequest, error) {
	status, err := models.ParseRequestStatus(raw)
	if err != nil {
		return nil, validationf("status must be one of open, matched, accepted, completed")
	}
	var req models.HelpRequest
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&req, requestID).Error; err != nil {
			return notFoundOr(err, "request")
		}
		updates := map[string]interface{}{"status": status}
		if status == models.RequestStatusCompleted && req.CompletedAt == nil {
			updates["completed_at"] = time.Now().UTC()
		}
		if err := tx.Model(&req).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&req, requestID).Error
	})
	if err != nil {
		return nil, err
	}
	return &req, nil
}
