package model

import (
	"time"

	"gorm.io/gorm"
)

// Project is a commissioned work for a client, owned by one office.
type Project struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	OfficeID  uint           `json:"office_id" gorm:"index;not null"`
	ClientID  uint           `json:"client_id" gorm:"index;not null"`
	Name      string         `json:"name" gorm:"type:varchar(200);not null"`
	Status    string         `json:"status" gorm:"type:varchar(50)"`
	Area      float64        `json:"area"`
	StartDate *time.Time     `json:"start_date,omitempty"`
	EndDate   *time.Time     `json:"end_date,omitempty"`
	Notes     string         `json:"notes" gorm:"type:text"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Client Client `json:"client,omitempty" gorm:"foreignKey:ClientID"`
}
