package model

import (
	"time"

	"gorm.io/gorm"
)

// User represents a person able to authenticate against the back office.
// Email is globally unique; the national id (CPF) is unique when present.
type User struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	Name          string         `json:"name" gorm:"type:varchar(150);not null"`
	Email         string         `json:"email" gorm:"type:varchar(150);uniqueIndex;not null"`
	Password      string         `json:"-" gorm:"type:varchar(255)"`
	NationalID    *string        `json:"national_id,omitempty" gorm:"type:varchar(20);uniqueIndex"`
	Profile       Role           `json:"profile" gorm:"type:varchar(50)"`
	IsSystemAdmin bool           `json:"is_system_admin" gorm:"default:false"`
	Active        bool           `json:"active" gorm:"default:true"`
	PhotoURL      string         `json:"photo_url,omitempty" gorm:"type:varchar(255)"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}

// SystemAdmin reports whether the user holds cross-office administrative
// privileges. Both the flag and the admin profile must be set; legacy data
// carries accounts where only one of the two survived.
func (u *User) SystemAdmin() bool {
	return u.IsSystemAdmin && u.Profile.IsAdmin()
}
