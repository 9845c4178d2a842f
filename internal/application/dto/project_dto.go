package dto

import "time"

// CreateProjectRequest alta de proyecto en el tenant del usuario.
type CreateProjectRequest struct {
	Name        string  `json:"name" validate:"required,min=2" errmsg:"El nombre del proyecto debe tener al menos 2 caracteres"`
	Description *string `json:"description"`
	Status      string  `json:"status" validate:"omitempty,oneof=active archived completed" errmsg:"Estado de proyecto inválido"`
}

// UpdateProjectRequest actualización parcial; description acepta null.
type UpdateProjectRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=2" errmsg:"El nombre del proyecto debe tener al menos 2 caracteres"`
	Description Nullable[string] `json:"description"`
	Status      *string          `json:"status" validate:"omitempty,oneof=active archived completed" errmsg:"Estado de proyecto inválido"`
}

// Empty informa si no hay ningún campo para actualizar.
func (r UpdateProjectRequest) Empty() bool {
	return r.Name == nil && !r.Description.Set && r.Status == nil
}

// ListProjectsQuery filtros del listado de proyectos.
type ListProjectsQuery struct {
	PageRequest
	Status string `query:"status" validate:"omitempty,oneof=active archived completed" errmsg:"Estado de proyecto inválido"`
	Search string `query:"search"`
}

// CreatorRef creador del proyecto.
type CreatorRef struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
}

// ProjectResponse proyecto con creador y contadores de tareas.
type ProjectResponse struct {
	ID                 string     `json:"id"`
	TenantID           string     `json:"tenantId"`
	Name               string     `json:"name"`
	Description        *string    `json:"description"`
	Status             string     `json:"status"`
	CreatedBy          CreatorRef `json:"createdBy"`
	TaskCount          int        `json:"taskCount"`
	CompletedTaskCount int        `json:"completedTaskCount"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// ProjectListResponse página de proyectos.
type ProjectListResponse struct {
	Projects   []ProjectResponse `json:"projects"`
	Total      int               `json:"total"`
	Pagination Pagination        `json:"pagination"`
}
