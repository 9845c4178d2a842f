package dto

import "time"

// TenantResponse detalle de un tenant. Stats solo en GET /tenants/:id.
type TenantResponse struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Subdomain        string       `json:"subdomain"`
	Status           string       `json:"status"`
	SubscriptionPlan string       `json:"subscriptionPlan"`
	MaxUsers         int          `json:"maxUsers"`
	MaxProjects      int          `json:"maxProjects"`
	CreatedAt        time.Time    `json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`
	Stats            *TenantStats `json:"stats,omitempty"`
}

// TenantStats contadores del tenant.
type TenantStats struct {
	TotalUsers    int `json:"totalUsers"`
	TotalProjects int `json:"totalProjects"`
	TotalTasks    int `json:"totalTasks"`
}

// TenantListItem fila del listado global.
type TenantListItem struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Subdomain        string    `json:"subdomain"`
	Status           string    `json:"status"`
	SubscriptionPlan string    `json:"subscriptionPlan"`
	TotalUsers       int       `json:"totalUsers"`
	TotalProjects    int       `json:"totalProjects"`
	CreatedAt        time.Time `json:"createdAt"`
}

// TenantListResponse página de tenants.
type TenantListResponse struct {
	Tenants    []TenantListItem `json:"tenants"`
	Pagination Pagination       `json:"pagination"`
}

// ListTenantsQuery filtros del listado de tenants.
type ListTenantsQuery struct {
	PageRequest
	Status string `query:"status" validate:"omitempty,oneof=active suspended trial" errmsg:"Estado inválido"`
	Plan   string `query:"plan" validate:"omitempty,oneof=free pro enterprise" errmsg:"Plan de suscripción inválido"`
}

// UpdateTenantRequest actualización parcial. Status, plan y límites solo para super_admin.
type UpdateTenantRequest struct {
	Name             *string `json:"name" validate:"omitempty,min=2" errmsg:"El nombre del tenant debe tener al menos 2 caracteres"`
	Status           *string `json:"status" validate:"omitempty,oneof=active suspended trial" errmsg:"Estado inválido"`
	SubscriptionPlan *string `json:"subscriptionPlan" validate:"omitempty,oneof=free pro enterprise" errmsg:"Plan de suscripción inválido"`
	MaxUsers         *int    `json:"maxUsers" validate:"omitempty,min=1" errmsg:"maxUsers debe ser un entero positivo"`
	MaxProjects      *int    `json:"maxProjects" validate:"omitempty,min=1" errmsg:"maxProjects debe ser un entero positivo"`
}

// Empty informa si no hay ningún campo para actualizar.
func (r UpdateTenantRequest) Empty() bool {
	return r.Name == nil && r.Status == nil && r.SubscriptionPlan == nil && r.MaxUsers == nil && r.MaxProjects == nil
}
