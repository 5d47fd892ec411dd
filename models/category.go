package models

import "time"

// Category groups help requests by the kind of help needed.
type Category struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"type:varchar(100);not null;uniqueIndex"`
	Description string    `json:"description" gorm:"type:varchar(255)"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Category) TableName() string { return "categories" }

// CategoryWithUsage is the manager listing row.
type CategoryWithUsage struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	UsageCount  int64     `json:"usageCount"`
	CreatedAt   time.Time `json:"created_at"`
}

type CategoryInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}
