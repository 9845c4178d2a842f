package dto

// RegisterTenantRequest alta de un tenant con su primer tenant_admin.
type RegisterTenantRequest struct {
	TenantName    string `json:"tenantName" validate:"required,min=2" errmsg:"El nombre del tenant debe tener al menos 2 caracteres"`
	Subdomain     string `json:"subdomain" validate:"required,subdomain" errmsg:"El subdominio debe tener entre 3 y 63 caracteres: minúsculas, números y guiones"`
	AdminEmail    string `json:"adminEmail" validate:"required,email" errmsg:"Email inválido"`
	AdminPassword string `json:"adminPassword" validate:"required,password" errmsg:"La contraseña debe tener al menos 8 caracteres, con mayúscula, minúscula y número"`
	AdminFullName string `json:"adminFullName" validate:"required,min=2" errmsg:"El nombre completo debe tener al menos 2 caracteres"`
}

// RegisterTenantResponse tenant creado y su administrador.
type RegisterTenantResponse struct {
	TenantID  string       `json:"tenantId"`
	Subdomain string       `json:"subdomain"`
	AdminUser UserResponse `json:"adminUser"`
}

// LoginRequest credenciales. Sin subdominio ni tenantId se intenta login de super_admin.
type LoginRequest struct {
	Email           string `json:"email" validate:"required,email" errmsg:"Email inválido"`
	Password        string `json:"password" validate:"required" errmsg:"La contraseña es obligatoria"`
	TenantSubdomain string `json:"tenantSubdomain"`
	TenantID        string `json:"tenantId" validate:"omitempty,uuid" errmsg:"tenantId debe ser un UUID"`
}

// LoginResponse token firmado y usuario autenticado.
type LoginResponse struct {
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresIn int          `json:"expiresIn"`
}

// TenantBrief resumen del tenant del usuario autenticado.
type TenantBrief struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Subdomain        string `json:"subdomain"`
	Status           string `json:"status"`
	SubscriptionPlan string `json:"subscriptionPlan"`
	MaxUsers         int    `json:"maxUsers"`
	MaxProjects      int    `json:"maxProjects"`
}

// MeResponse usuario actual con su tenant (null para super_admin).
type MeResponse struct {
	UserResponse
	Tenant *TenantBrief `json:"tenant"`
}
