package entity

import "time"

// Role es el rol de un usuario dentro del sistema.
type Role string

// Roles válidos para User.
const (
	RoleUser        Role = "user"
	RoleTenantAdmin Role = "tenant_admin"
	RoleSuperAdmin  Role = "super_admin"
)

// Valid informa si el rol es uno de los conocidos.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleTenantAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// IsAdmin es verdadero para tenant_admin y super_admin.
func (r Role) IsAdmin() bool {
	return r == RoleTenantAdmin || r == RoleSuperAdmin
}

// User representa un usuario del sistema. TenantID vacío solo para super_admin.
type User struct {
	ID           string
	TenantID     string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	FullName     string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserFilter filtros para listar usuarios de un tenant.
type UserFilter struct {
	TenantID string
	Search   string
	Role     Role
	Limit    int
	Offset   int
}
