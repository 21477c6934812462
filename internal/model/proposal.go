package model

import (
	"time"

	"gorm.io/gorm"
)

// Proposal is a commercial offer sent to a client before a project exists.
type Proposal struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	OfficeID  uint           `json:"office_id" gorm:"index;not null"`
	ClientID  uint           `json:"client_id" gorm:"index;not null"`
	Title     string         `json:"title" gorm:"type:varchar(200);not null"`
	Value     float64        `json:"value"`
	Status    string         `json:"status" gorm:"type:varchar(50);default:'draft'"`
	SentAt    *time.Time     `json:"sent_at,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Client Client `json:"client,omitempty" gorm:"foreignKey:ClientID"`
}
