package model

// SecurityContext is the immutable per-request identity resolved from the
// bearer token by the auth middleware. It is built once and handed to
// downstream code as a value; nothing reconstructs it from loose keys.
//
// Invariants: IsAdminMode and OfficeID are mutually exclusive, and
// IsAdminMode is only ever true for a system admin.
type SecurityContext struct {
	UserID        uint
	Email         string
	OfficeID      *uint
	Role          Role
	IsSystemAdmin bool
	IsAdminMode   bool
}

// Scoped reports whether the context carries an office selection.
func (sc SecurityContext) Scoped() bool {
	return !sc.IsAdminMode && sc.OfficeID != nil
}

// CanAccessOffice reports whether the context authorizes reads in the given
// office. System admins pass regardless of their selected context.
func (sc SecurityContext) CanAccessOffice(officeID uint) bool {
	if sc.IsSystemAdmin {
		return true
	}
	return sc.OfficeID != nil && *sc.OfficeID == officeID
}
