package model

import (
	"time"

	"gorm.io/gorm"
)

// Client is a customer of one office.
type Client struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	OfficeID   uint           `json:"office_id" gorm:"index;not null"`
	Name       string         `json:"name" gorm:"type:varchar(150);not null"`
	Email      string         `json:"email" gorm:"type:varchar(150)"`
	Phone      string         `json:"phone" gorm:"type:varchar(30)"`
	NationalID string         `json:"national_id,omitempty" gorm:"type:varchar(20)"`
	Address    string         `json:"address" gorm:"type:text"`
	Notes      string         `json:"notes" gorm:"type:text"`
	Active     bool           `json:"active" gorm:"default:true"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}
