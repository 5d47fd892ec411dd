package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"volunteer-match-server/models"
	"volunteer-match-server/types"
)

// MediaUploader stores an uploaded file and returns its public URL.
type MediaUploader interface {
	Upload(ctx context.Context, file io.Reader, folder, publicID string) (string, error)
}

// HelpRequestService owns creation, editing and feedback of help requests
type HelpRequestService struct {
	db       *gorm.DB
	uploader MediaUploader
}

func NewHelpRequestService(db *gorm.DB, uploader MediaUploader) *HelpRequestService {
	return &HelpRequestService{db: db, uploader: uploader}
}

// RequestFilter narrows List. Zero fields are ignored.
type RequestFilter struct {
	Status     models.RequestStatus
	CategoryID uint
	UserID     uint
	Limit      int
}

// summaryQuery selects RequestSummary columns with requester and category joined.
func summaryQuery(db *gorm.DB) *gorm.DB {
	return db.Table("requests AS r").
		Select(requestSummaryColumns).
		Joins("LEFT JOIN users u ON u.id = r.user_id").
		Joins("LEFT JOIN categories c ON c.id = r.category_id")
}

func maskSummaries(rows []models.RequestSummary) []models.RequestSummary {
	for i := range rows {
		rows[i].MaskRequester()
	}
	return rows
}

func (s *HelpRequestService) List(ctx context.Context, f RequestFilter) ([]models.RequestSummary, error) {
	q := summaryQuery(s.db.WithContext(ctx))
	if f.Status != "" {
		q = q.Where("r.status = ?", f.Status)
	}
	if f.CategoryID != 0 {
		q = q.Where("r.category_id = ?", f.CategoryID)
	}
	if f.UserID != 0 {
		q = q.Where("r.user_id = ?", f.UserID)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	rows := []models.RequestSummary{}
	if err := q.Order("r.created_at DESC, r.id DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return maskSummaries(rows), nil
}

func (s *HelpRequestService) Get(ctx context.Context, id uint) (*models.HelpRequest, error) {
	var req models.HelpRequest
	if err := s.db.WithContext(ctx).First(&req, id).Error; err != nil {
		return nil, notFoundOr(err, "request")
	}
	return &req, nil
}

// Create stores a new open request. The owner is in.UserID when given,
// otherwise the caller.
func (s *HelpRequestService) Create(ctx context.Context, p types.Principal, in models.HelpRequestCreate) (*models.HelpRequest, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if title == "" || description == "" {
		return nil, validationf("title and description are required")
	}
	urgency, err := models.ParseUrgency(in.Urgency)
	if err != nil {
		return nil, validationf("%v", err)
	}

	ownerID := in.UserID
	if ownerID == 0 {
		ownerID = p.UserID
	}
	if ownerID == 0 {
		return nil, validationf("user_id is required")
	}
	if ownerID != p.UserID && !p.IsManager() {
		return nil, forbiddenf("cannot create requests for another user")
	}

	req := models.HelpRequest{
		UserID:              ownerID,
		CategoryID:          in.CategoryID,
		Title:               title,
		Description:         description,
		Location:            strings.TrimSpace(in.Location),
		Status:              models.RequestStatusOpen,
		Urgency:             urgency,
		PreferredTime:       in.PreferredTime,
		PreferredDate:       in.PreferredDate,
		SpecialRequirements: in.SpecialRequirements,
		AccessibilityNeeds:  in.AccessibilityNeeds,
		ContactMethod:       in.ContactMethod,
		Anonymous:           in.Anonymous,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&models.User{}, ownerID).Error; err != nil {
			return notFoundOr(err, "user")
		}
		if in.CategoryID != nil {
			if err := tx.Select("id").First(&models.Category{}, *in.CategoryID).Error; err != nil {
				return notFoundOr(err, "category")
			}
		}
		return tx.Create(&req).Error
	})
	if err != nil {
		return nil, err
	}
	log.Printf("✅ Help request %d created by user %d", req.ID, ownerID)
	return &req, nil
}

// canModify allows the owner and managers.
func canModify(p types.Principal, req *models.HelpRequest) bool {
	return p.IsManager() || (p.UserID == req.UserID && p.Role == models.RolePIN)
}

func (s *HelpRequestService) Update(ctx context.Context, p types.Principal, id uint, in models.HelpRequestUpdate) (*models.HelpRequest, error) {
	var req models.HelpRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&req, id).Error; err != nil {
			return notFoundOr(err, "request")
		}
		if !canModify(p, &req) {
			return forbiddenf("only the owner or a manager can edit this request")
		}

		updates := map[string]interface{}{}
		if in.Title != nil {
			t := strings.TrimSpace(*in.Title)
			if t == "" {
				return validationf("title cannot be empty")
			}
			updates["title"] = t
		}
		if in.Description != nil {
			d := strings.TrimSpace(*in.Description)
			if d == "" {
				return validationf("description cannot be empty")
			}
			updates["description"] = d
		}
		if in.Location != nil {
			updates["location"] = strings.TrimSpace(*in.Location)
		}
		if in.Urgency != nil {
			u, err := models.ParseUrgency(*in.Urgency)
			if err != nil {
				return validationf("%v", err)
			}
			updates["urgency"] = u
		}
		if in.Status != nil {
			if !p.IsManager() {
				return forbiddenf("only managers can change status directly")
			}
			st, err := models.ParseRequestStatus(*in.Status)
			if err != nil {
				return validationf("%v", err)
			}
			updates["status"] = st
			if st == models.RequestStatusCompleted && req.CompletedAt == nil {
				updates["completed_at"] = time.Now().UTC()
			}
		}
		if in.CategoryID != nil {
			if err := tx.Select("id").First(&models.Category{}, *in.CategoryID).Error; err != nil {
				return notFoundOr(err, "category")
			}
			updates["category_id"] = *in.CategoryID
		}
		if in.PreferredTime != nil {
			updates["preferred_time"] = *in.PreferredTime
		}
		if in.PreferredDate != nil {
			updates["preferred_date"] = *in.PreferredDate
		}
		if in.SpecialRequirements != nil {
			updates["special_requirements"] = *in.SpecialRequirements
		}
		if in.AccessibilityNeeds != nil {
			updates["accessibility_needs"] = *in.AccessibilityNeeds
		}
		if in.ContactMethod != nil {
			updates["contact_method"] = *in.ContactMethod
		}
		if in.Anonymous != nil {
			updates["anonymous"] = *in.Anonymous
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&req).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&req, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// deleteRequestRows removes requests and every row that references them.
func deleteRequestRows(tx *gorm.DB, requestIDs []uint) error {
	if len(requestIDs) == 0 {
		return nil
	}
	if err := tx.Where("request_id IN ?", requestIDs).Delete(&models.MatchEntry{}).Error; err != nil {
		return err
	}
	if err := tx.Where("request_id IN ?", requestIDs).Delete(&models.ShortlistEntry{}).Error; err != nil {
		return err
	}
	if err := tx.Where("request_id IN ?", requestIDs).Delete(&models.Feedback{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", requestIDs).Delete(&models.HelpRequest{}).Error
}

func (s *HelpRequestService) Delete(ctx context.Context, p types.Principal, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req models.HelpRequest
		if err := tx.First(&req, id).Error; err != nil {
			return notFoundOr(err, "request")
		}
		if !canModify(p, &req) {
			return forbiddenf("only the owner or a manager can delete this request")
		}
		if err := deleteRequestRows(tx, []uint{id}); err != nil {
			return err
		}
		log.Printf("🗑️ Help request %d deleted by user %d", id, p.UserID)
		return nil
	})
}

// SubmitFeedback creates the request's feedback or overwrites the existing one.
func (s *HelpRequestService) SubmitFeedback(ctx context.Context, p types.Principal, requestID uint, in models.FeedbackInput) (*models.Feedback, error) {
	if in.Rating == nil {
		return nil, validationf("rating is required")
	}
	if *in.Rating < 1 || *in.Rating > 5 {
		return nil, validationf("rating must be between 1 and 5")
	}

	var fb models.Feedback
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req models.HelpRequest
		if err := tx.First(&req, requestID).Error; err != nil {
			return notFoundOr(err, "request")
		}
		if req.UserID != p.UserID && !p.IsAdmin() {
			return forbiddenf("only the requester can leave feedback")
		}

		now := time.Now().UTC()
		err := tx.Where("request_id = ?", requestID).First(&fb).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			fb = models.Feedback{
				RequestID:   requestID,
				Rating:      *in.Rating,
				Comment:     strings.TrimSpace(in.Comment),
				Anonymous:   in.Anonymous,
				SubmittedAt: now,
			}
			return tx.Create(&fb).Error
		case err != nil:
			return err
		}
		fb.Rating = *in.Rating
		fb.Comment = strings.TrimSpace(in.Comment)
		fb.Anonymous = in.Anonymous
		fb.SubmittedAt = now
		return tx.Save(&fb).Error
	})
	if err != nil {
		return nil, err
	}
	return &fb, nil
}

func (s *HelpRequestService) GetFeedback(ctx context.Context, requestID uint) (*models.Feedback, error) {
	var fb models.Feedback
	if err := s.db.WithContext(ctx).Where("request_id = ?", requestID).First(&fb).Error; err != nil {
		return nil, notFoundOr(err, "feedback")
	}
	return &fb, nil
}

// AttachPhoto uploads a photo for the request and stores its URL.
func (s *HelpRequestService) AttachPhoto(ctx context.Context, p types.Principal, requestID uint, file io.Reader) (*models.HelpRequest, error) {
	if s.uploader == nil {
		return nil, validationf("photo uploads are not configured")
	}
	req, err := s.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.UserID != p.UserID && !p.IsAdmin() {
		return nil, forbiddenf("only the requester can attach a photo")
	}

	publicID := fmt.Sprintf("request_%d_%d", requestID, time.Now().Unix())
	url, err := s.uploader.Upload(ctx, file, "volunteer-match/requests", publicID)
	if err != nil {
		return nil, fmt.Errorf("upload photo: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(req).Update("photo_url", url).Error; err != nil {
		return nil, err
	}
	req.PhotoURL = &url
	return req, nil
}
