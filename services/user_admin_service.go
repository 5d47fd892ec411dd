package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"volunteer-match-server/models"
	"volunteer-match-server/types"
)

// UserAdminService implements administrative user management
type UserAdminService struct {
	db *gorm.DB
}

func NewUserAdminService(db *gorm.DB) *UserAdminService {
	return &UserAdminService{db: db}
}

// UserQuery pages the admin user listing.
type UserQuery struct {
	Role   models.UserRole
	Search string
	Page   int
	Limit  int
}

// Normalize applies the default page and page size.
func (q *UserQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 50
	}
}

// List returns one page of users and the total matching count.
func (s *UserAdminService) List(ctx context.Context, q UserQuery) ([]models.UserResponse, int64, error) {
	q.Normalize()
	term := strings.ToLower(strings.TrimSpace(q.Search))
	base := func() *gorm.DB {
		query := s.db.WithContext(ctx).Model(&models.User{})
		if q.Role != "" {
			query = query.Where("role = ?", q.Role)
		}
		if term != "" {
			like := "%" + term + "%"
			query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
		}
		return query
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []models.User
	if err := base().Order("id ASC").Offset((q.Page - 1) * q.Limit).Limit(q.Limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	out := make([]models.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, users[i].ToResponse())
	}
	return out, total, nil
}

func (s *UserAdminService) Get(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, notFoundOr(err, "user")
	}
	return &u, nil
}

func emailTaken(tx *gorm.DB, email string, exceptID uint) (bool, error) {
	var count int64
	q := tx.Model(&models.User{}).Where("email = ?", email)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

// Create adds a user with username user{N}, where N is one past the highest id.
func (s *UserAdminService) Create(ctx context.Context, in models.UserCreate) (*models.User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if name == "" || email == "" || in.Password == "" || in.Role == "" {
		return nil, validationf("name, email, role and password are required")
	}
	role, err := models.ParseRole(in.Role)
	if err != nil {
		return nil, validationf("%v", err)
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Email:        email,
		Name:         name,
		Role:         role,
		PasswordHash: hash,
		Phone:        strings.TrimSpace(in.Phone),
		Department:   strings.TrimSpace(in.Department),
		IsActive:     true,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := emailTaken(tx, email, 0)
		if err != nil {
			return err
		}
		if taken {
			return conflictf("email %s is already registered", email)
		}
		var maxID uint
		if err := tx.Model(&models.User{}).Select("COALESCE(MAX(id), 0)").Scan(&maxID).Error; err != nil {
			return err
		}
		user.Username = fmt.Sprintf("user%d", maxID+1)
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, err
	}
	log.Printf("✅ User %d (%s) created with role %s", user.ID, user.Username, user.Role)
	return &user, nil
}

// Update applies a partial patch.
func (s *UserAdminService) Update(ctx context.Context, actor types.Principal, id uint, in models.UserUpdate) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			return notFoundOr(err, "user")
		}
		updates := map[string]interface{}{}
		if in.Name != nil {
			n := strings.TrimSpace(*in.Name)
			if n == "" {
				return validationf("name cannot be empty")
			}
			updates["name"] = n
		}
		if in.Email != nil {
			e := strings.ToLower(strings.TrimSpace(*in.Email))
			if e == "" {
				return validationf("email cannot be empty")
			}
			taken, err := emailTaken(tx, e, id)
			if err != nil {
				return err
			}
			if taken {
				return conflictf("email %s is already registered", e)
			}
			updates["email"] = e
		}
		if in.Role != nil {
			role, err := models.ParseRole(*in.Role)
			if err != nil {
				return validationf("%v", err)
			}
			if user.Role == models.RoleAdmin && role != models.RoleAdmin {
				if err := ensureOtherAdmin(tx, id); err != nil {
					return err
				}
			}
			updates["role"] = role
		}
		if in.Phone != nil {
			updates["phone"] = strings.TrimSpace(*in.Phone)
		}
		if in.Department != nil {
			updates["department"] = strings.TrimSpace(*in.Department)
		}
		if in.IsActive != nil {
			if !*in.IsActive && id == actor.UserID {
				return constraintf("cannot deactivate your own account")
			}
			updates["is_active"] = *in.IsActive
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&user).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&user, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ensureOtherAdmin fails with ErrConstraint when id is the only admin.
func ensureOtherAdmin(tx *gorm.DB, id uint) error {
	var others int64
	if err := tx.Model(&models.User{}).Where("role = ? AND id <> ?", models.RoleAdmin, id).Count(&others).Error; err != nil {
		return err
	}
	if others == 0 {
		return constraintf("cannot remove the last admin")
	}
	return nil
}

// Delete removes the user, the requests they own with every row referencing
// those requests, and the match and shortlist rows they hold as a CSR.
func (s *UserAdminService) Delete(ctx context.Context, actor types.Principal, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			return notFoundOr(err, "user")
		}
		if user.Role == models.RoleAdmin {
			if err := ensureOtherAdmin(tx, id); err != nil {
				return err
			}
		}
		if id == actor.UserID {
			return constraintf("cannot delete your own account")
		}

		var owned []uint
		if err := tx.Model(&models.HelpRequest{}).Where("user_id = ?", id).Pluck("id", &owned).Error; err != nil {
			return err
		}
		if err := deleteRequestRows(tx, owned); err != nil {
			return err
		}
		if err := tx.Where("csr_id = ?", id).Delete(&models.MatchEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("csr_id = ?", id).Delete(&models.ShortlistEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&user).Error; err != nil {
			return err
		}
		log.Printf("🗑️ User %d deleted by admin %d (%d owned requests removed)", id, actor.UserID, len(owned))
		return nil
	})
}

// ResetPassword replaces the password hash and revokes outstanding refresh tokens.
func (s *UserAdminService) ResetPassword(ctx context.Context, id uint, password string) error {
	if len(password) < 6 {
		return validationf("password must be at least 6 characters")
	}
	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).Where("id = ?", id).Update("password_hash", hash)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return notFoundf("user not found")
		}
		return revokeUserTokens(tx, id)
	})
}
