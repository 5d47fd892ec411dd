package services

import (
	"context"
	"log"
	"strings"

	"gorm.io/gorm"

	"volunteer-match-server/models"
)

type CategoryService struct {
	db *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	err := s.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}

// ListWithUsage returns categories with the number of requests referencing each.
func (s *CategoryService) ListWithUsage(ctx context.Context) ([]models.CategoryWithUsage, error) {
	rows := []models.CategoryWithUsage{}
	err := s.db.WithContext(ctx).Table("categories AS c").
		Select("c.id, c.name, c.description, c.created_at, COUNT(r.id) AS usage_count").
		Joins("LEFT JOIN requests r ON r.category_id = c.id").
		Group("c.id, c.name, c.description, c.created_at").
		Order("c.name ASC").
		Scan(&rows).Error
	return rows, err
}

func nameTaken(tx *gorm.DB, name string, exceptID uint) (bool, error) {
	var count int64
	q := tx.Model(&models.Category{}).Where("LOWER(name) = ?", strings.ToLower(name))
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (s *CategoryService) Create(ctx context.Context, in models.CategoryInput) (*models.Category, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, validationf("name is required")
	}
	category := models.Category{Name: strings.TrimSpace(*in.Name)}
	if in.Description != nil {
		category.Description = strings.TrimSpace(*in.Description)
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := nameTaken(tx, category.Name, 0)
		if err != nil {
			return err
		}
		if taken {
			return conflictf("category %q already exists", category.Name)
		}
		return tx.Create(&category).Error
	})
	if err != nil {
		return nil, err
	}
	log.Printf("✅ Category created: %s (ID: %d)", category.Name, category.ID)
	return &category, nil
}

func (s *CategoryService) Update(ctx context.Context, id uint, in models.CategoryInput) (*models.Category, error) {
	var category models.Category
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&category, id).Error; err != nil {
			return notFoundOr(err, "category")
		}
		updates := map[string]interface{}{}
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return validationf("name cannot be empty")
			}
			taken, err := nameTaken(tx, name, id)
			if err != nil {
				return err
			}
			if taken {
				return conflictf("category %q already exists", name)
			}
			updates["name"] = name
		}
		if in.Description != nil {
			updates["description"] = strings.TrimSpace(*in.Description)
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&category).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&category, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// Usage counts requests that reference the category.
func (s *CategoryService) Usage(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.HelpRequest{}).Where("category_id = ?", id).Count(&count).Error
	return count, err
}

// Delete removes an unused category.
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.First(&category, id).Error; err != nil {
			return notFoundOr(err, "category")
		}
		var usage int64
		if err := tx.Model(&models.HelpRequest{}).Where("category_id = ?", id).Count(&usage).Error; err != nil {
			return err
		}
		if usage > 0 {
			return constraintf("category is used by %d request(s)", usage)
		}
		if err := tx.Delete(&category).Error; err != nil {
			return err
		}
		log.Printf("🗑️ Category %d deleted", id)
		return nil
	})
}
