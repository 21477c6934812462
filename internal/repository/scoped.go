// Package repository holds the gorm-backed persistence layer. Office-owned
// tables are only reachable through scopedDB, so a query that forgets the
// office id does not compile.
package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/arqdesk/backoffice/internal/model"
)

// scopedDB is embedded by every repository over office-owned tables. Its
// only query entry point takes the office id and applies it as a mandatory
// filter, making tenant isolation structural instead of conventional.
type scopedDB struct {
	db *gorm.DB
}

// scope returns a session filtered to one office.
func (s scopedDB) scope(ctx context.Context, officeID uint) *gorm.DB {
	return s.db.WithContext(ctx).Where("office_id = ?", officeID)
}

// raw is reserved for count/aggregate helpers on the same table; callers
// must still add the office filter themselves and are kept package-private.
func (s scopedDB) raw(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// translate maps gorm errors onto the service taxonomy.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return model.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return model.ErrConflict
	default:
		return err
	}
}
