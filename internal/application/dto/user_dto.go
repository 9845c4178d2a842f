package dto

import "time"

// CreateUserRequest alta de usuario dentro de un tenant (password en texto, se hashea en use case).
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email" errmsg:"Email inválido"`
	Password string `json:"password" validate:"required,password" errmsg:"La contraseña debe tener al menos 8 caracteres, con mayúscula, minúscula y número"`
	FullName string `json:"fullName" validate:"required,min=2" errmsg:"El nombre completo debe tener al menos 2 caracteres"`
	Role     string `json:"role" validate:"omitempty,oneof=user tenant_admin" errmsg:"El rol debe ser user o tenant_admin"`
}

// UpdateUserRequest actualización parcial: solo se aplican los campos presentes.
type UpdateUserRequest struct {
	FullName *string `json:"fullName" validate:"omitempty,min=2" errmsg:"El nombre completo debe tener al menos 2 caracteres"`
	Role     *string `json:"role" validate:"omitempty,oneof=user tenant_admin" errmsg:"El rol debe ser user o tenant_admin"`
	IsActive *bool   `json:"isActive"`
}

// Empty informa si no hay ningún campo para actualizar.
func (r UpdateUserRequest) Empty() bool {
	return r.FullName == nil && r.Role == nil && r.IsActive == nil
}

// ListUsersQuery filtros del listado de usuarios.
type ListUsersQuery struct {
	PageRequest
	Search string `query:"search"`
	Role   string `query:"role" validate:"omitempty,oneof=user tenant_admin super_admin" errmsg:"Rol inválido"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	TenantID  *string   `json:"tenantId"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserListResponse página de usuarios.
type UserListResponse struct {
	Users      []UserResponse `json:"users"`
	Total      int            `json:"total"`
	Pagination Pagination     `json:"pagination"`
}
