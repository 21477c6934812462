package model

import (
	"time"

	"gorm.io/gorm"
)

// Service is a unit of contracted work inside a project (e.g. executive
// design). Stages nest under services and tasks under stages; every level
// repeats the office id so cross-office references cannot hide behind a
// parent id.

type Service struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	OfficeID  uint           `json:"office_id" gorm:"index;not null"`
	ProjectID uint           `json:"project_id" gorm:"index;not null"`
	Name      string         `json:"name" gorm:"type:varchar(200);not null"`
	Position  int            `json:"position"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

type Stage struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	OfficeID  uint           `json:"office_id" gorm:"index;not null"`
	ServiceID uint           `json:"service_id" gorm:"index;not null"`
	Name      string         `json:"name" gorm:"type:varchar(200);not null"`
	Position  int            `json:"position"`
	Done      bool           `json:"done" gorm:"default:false"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

type Task struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	OfficeID   uint           `json:"office_id" gorm:"index;not null"`
	StageID    uint           `json:"stage_id" gorm:"index;not null"`
	Name       string         `json:"name" gorm:"type:varchar(200);not null"`
	AssigneeID *uint          `json:"assignee_id,omitempty" gorm:"index"`
	Done       bool           `json:"done" gorm:"default:false"`
	DueDate    *time.Time     `json:"due_date,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}
