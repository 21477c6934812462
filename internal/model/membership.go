package model

import (
	"time"

	"gorm.io/gorm"
)

// Membership links a user to an office under one role. A user may hold
// several roles in the same office, one row each; the (user, office, role)
// triple is unique among active rows. The payout fields ride on the
// membership because they are scoped to the user-office pair, not to the
// user.
type Membership struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	UserID      uint           `json:"user_id" gorm:"index;not null;uniqueIndex:idx_membership_role"`
	OfficeID    uint           `json:"office_id" gorm:"index;not null;uniqueIndex:idx_membership_role"`
	Role        Role           `json:"role" gorm:"type:varchar(50);not null;uniqueIndex:idx_membership_role"`
	Active      bool           `json:"active" gorm:"default:true"`
	BankName    string         `json:"bank_name,omitempty" gorm:"type:varchar(100)"`
	BankAgency  string         `json:"bank_agency,omitempty" gorm:"type:varchar(20)"`
	BankAccount string         `json:"bank_account,omitempty" gorm:"type:varchar(30)"`
	PixKey      string         `json:"pix_key,omitempty" gorm:"type:varchar(150)"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	User   User   `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Office Office `json:"office,omitempty" gorm:"foreignKey:OfficeID"`
}

// ResolveRole collapses a user's membership rows in one office to a single
// session role: an admin row wins, otherwise the first active row.
func ResolveRole(rows []Membership) (Role, bool) {
	var found Role
	ok := false
	for _, m := range rows {
		if !m.Active {
			continue
		}
		if m.Role.IsAdmin() {
			return m.Role, true
		}
		if !ok {
			found = m.Role
			ok = true
		}
	}
	return found, ok
}
