package model

import (
	"time"

	"gorm.io/gorm"
)

// FinancialEntry is a single money movement (income or expense) of an
// office, optionally tied to a project.
type FinancialEntry struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	OfficeID    uint           `json:"office_id" gorm:"index;not null"`
	ProjectID   *uint          `json:"project_id,omitempty" gorm:"index"`
	Description string         `json:"description" gorm:"type:varchar(255);not null"`
	Amount      float64        `json:"amount" gorm:"not null"`
	Kind        string         `json:"kind" gorm:"type:varchar(20);not null"` // income | expense
	DueDate     *time.Time     `json:"due_date,omitempty"`
	PaidAt      *time.Time     `json:"paid_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}
