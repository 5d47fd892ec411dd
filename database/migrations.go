package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"volunteer-match-server/models"
)

// SchemaMigration records one applied migration step.
type SchemaMigration struct {
	Version   int       `gorm:"primaryKey;autoIncrement:false"`
	Name      string    `gorm:"size:100;not null"`
	AppliedAt time.Time `gorm:"not null"`
}

func (SchemaMigration) TableName() string { return "schema_migrations" }

type migration struct {
	version int
	name    string
	up      func(tx *gorm.DB) error
}

// migrations must stay ordered by version. Never edit an applied step; append a new one.
var migrations = []migration{
	{
		version: 1,
		name:    "create_core_tables",
		up: func(tx *gorm.DB) error {
			return tx.AutoMigrate(
				&models.User{},
				&models.Category{},
				&models.HelpRequest{},
				&models.MatchEntry{},
				&models.ShortlistEntry{},
				&models.Feedback{},
				&models.Report{},
				&models.RefreshToken{},
				&models.ActivityLog{},
			)
		},
	},
	{
		version: 2,
		name:    "unique_shortlist_pair",
		up: func(tx *gorm.DB) error {
			return tx.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_csr_shortlist_pair ON csr_shortlist (csr_id, request_id)").Error
		},
	},
	{
		version: 3,
		name:    "analytics_indexes",
		up: func(tx *gorm.DB) error {
			stmts := []string{
				"CREATE INDEX IF NOT EXISTS idx_match_history_pair ON match_history (csr_id, request_id)",
				"CREATE INDEX IF NOT EXISTS idx_requests_status_completed ON requests (status, completed_at)",
			}
			for _, stmt := range stmts {
				if err := tx.Exec(stmt).Error; err != nil {
					return err
				}
			}
			return nil
		},
	},
}

// Migrate applies every step newer than the recorded schema version. Each
// step runs in its own transaction together with its version row.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&SchemaMigration{}); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	var applied []int
	if err := db.Model(&SchemaMigration{}).Pluck("version", &applied).Error; err != nil {
		return fmt.Errorf("read schema_migrations: %w", err)
	}
	done := make(map[int]bool, len(applied))
	for _, v := range applied {
		done[v] = true
	}

	for _, m := range migrations {
		if done[m.version] {
			continue
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := m.up(tx); err != nil {
				return err
			}
			return tx.Create(&SchemaMigration{Version: m.version, Name: m.name, AppliedAt: time.Now().UTC()}).Error
		})
		if err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
		log.Printf("✅ Applied migration %d: %s", m.version, m.name)
	}
	return nil
}

// SchemaVersion returns the highest applied migration version, or 0.
func SchemaVersion(db *gorm.DB) (int, error) {
	var version int
	err := db.Model(&SchemaMigration{}).Select("COALESCE(MAX(version), 0)").Scan(&version).Error
	return version, err
}
