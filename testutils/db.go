package testutils

import (
	"fmt"
	"os"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"volunteer-match-server/database"
	"volunteer-match-server/models"
)

// NewTestDB returns a migrated database for one test. TEST_DB_DSN selects a
// real Postgres; otherwise a private in-memory SQLite database is used.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	var dialector gorm.Dialector
	if dsn := os.Getenv("TEST_DB_DSN"); dsn != "" {
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	}

	db, err := database.Open(dialector)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("test db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// TestPassword is the plaintext password of every user made by CreateUser.
const TestPassword = "secret123"

var testPasswordHash = func() string {
	b, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(b)
}()

// CreateUser inserts an active user with the given role.
func CreateUser(t *testing.T, db *gorm.DB, role models.UserRole, email string) models.User {
	t.Helper()
	u := models.User{
		Username:     "u_" + uuid.NewString()[:8],
		Email:        email,
		Name:         email,
		Role:         role,
		PasswordHash: testPasswordHash,
		IsActive:     true,
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

// CreateCategory inserts a category with the given name.
func CreateCategory(t *testing.T, db *gorm.DB, name string) models.Category {
	t.Helper()
	c := models.Category{Name: name, Description: name + " help"}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	return c
}

// CreateRequest inserts an open request owned by ownerID.
func CreateRequest(t *testing.T, db *gorm.DB, ownerID uint, title string) models.HelpRequest {
	t.Helper()
	r := models.HelpRequest{
		UserID:      ownerID,
		Title:       title,
		Description: title + " please",
		Status:      models.RequestStatusOpen,
		Urgency:     models.UrgencyMedium,
	}
	if err := db.Create(&r).Error; err != nil {
		t.Fatalf("create request: %v", err)
	}
	return r
}
