package model

import (
	"time"

	"gorm.io/gorm"
)

// Office is an architecture firm: the unit of data isolation. Every
// office-owned row carries its id and every query filters by it.
type Office struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	TradeName string         `json:"trade_name" gorm:"type:varchar(150);not null"`
	LegalName string         `json:"legal_name" gorm:"type:varchar(200)"`
	TaxID     *string        `json:"tax_id,omitempty" gorm:"type:varchar(20);uniqueIndex"`
	Email     string         `json:"email" gorm:"type:varchar(150)"`
	Phone     string         `json:"phone" gorm:"type:varchar(30)"`
	Address   string         `json:"address" gorm:"type:text"`
	Color     string         `json:"color" gorm:"type:varchar(10)"`
	LogoURL   string         `json:"logo_url,omitempty" gorm:"type:varchar(255)"`
	Active    bool           `json:"active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
