package entity

import "time"

// ProjectStatus estado de un proyecto.
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectArchived  ProjectStatus = "archived"
	ProjectCompleted ProjectStatus = "completed"
)

// Valid informa si el estado es válido.
func (s ProjectStatus) Valid() bool {
	return s == ProjectActive || s == ProjectArchived || s == ProjectCompleted
}

// Project pertenece a un tenant y registra quién lo creó.
type Project struct {
	ID          string
	TenantID    string
	Name        string
	Description *string
	Status      ProjectStatus
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProjectSummary proyecto con datos del creador y contadores de tareas (para listados).
type ProjectSummary struct {
	Project
	CreatorName        string
	TaskCount          int
	CompletedTaskCount int
}

// ProjectFilter filtros de listado. TenantID vacío = todos los tenants (solo super_admin).
type ProjectFilter struct {
	TenantID string
	Status   ProjectStatus
	Search   string
	Limit    int
	Offset   int
}
