package model

// Role is the closed set of membership roles. Legacy rows stored free-form
// labels ("Administrador" next to "Admin"); NormalizeRole folds them onto
// this enum at the repository boundary so business logic never compares raw
// strings.
type Role string

const (
	RoleAdmin              Role = "Admin"
	RoleProjectCoordinator Role = "Coordenador de Projetos"
	RoleProduction         Role = "Produção"
)

// legacy label kept in old membership rows
const legacyAdminLabel = "Administrador"

// NormalizeRole maps a stored or caller-supplied label onto the enum. The
// second return reports whether the label was recognized.
func NormalizeRole(label string) (Role, bool) {
	switch label {
	case string(RoleAdmin), legacyAdminLabel:
		return RoleAdmin, true
	case string(RoleProjectCoordinator):
		return RoleProjectCoordinator, true
	case string(RoleProduction):
		return RoleProduction, true
	}
	return "", false
}

// IsAdmin reports whether the role grants office-admin privileges.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

func (r Role) String() string {
	return string(r)
}
