package entity

import "time"

// TenantStatus estado de la cuenta de un tenant.
type TenantStatus string

const (
	TenantActive    TenantStatus = "active"
	TenantSuspended TenantStatus = "suspended"
	TenantTrial     TenantStatus = "trial"
)

// Valid informa si el estado es uno de los permitidos por la tabla tenants.
func (s TenantStatus) Valid() bool {
	return s == TenantActive || s == TenantSuspended || s == TenantTrial
}

// Plan plan de suscripción de un tenant.
type Plan string

const (
	PlanFree       Plan = "free"
	PlanPro        Plan = "pro"
	PlanEnterprise Plan = "enterprise"
)

// Valid informa si el plan existe.
func (p Plan) Valid() bool {
	return p == PlanFree || p == PlanPro || p == PlanEnterprise
}

// Tenant representa una organización del sistema (multi-tenant).
type Tenant struct {
	ID               string
	Name             string
	Subdomain        string
	Status           TenantStatus
	SubscriptionPlan Plan
	MaxUsers         int
	MaxProjects      int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TenantStats contadores agregados de un tenant.
type TenantStats struct {
	TotalUsers    int
	TotalProjects int
	TotalTasks    int
}

// TenantFilter filtros del listado global de tenants.
type TenantFilter struct {
	Status TenantStatus
	Plan   Plan
	Limit  int
	Offset int
}

// TenantSummary fila del listado de tenants con sus contadores.
type TenantSummary struct {
	Tenant
	TotalUsers    int
	TotalProjects int
}
