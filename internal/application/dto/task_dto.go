package dto

import "time"

// CreateTaskRequest alta de tarea en un proyecto. Estado inicial siempre todo.
type CreateTaskRequest struct {
	Title       string  `json:"title" validate:"required,min=2" errmsg:"El título debe tener al menos 2 caracteres"`
	Description *string `json:"description"`
	Priority    string  `json:"priority" validate:"omitempty,oneof=low medium high" errmsg:"Prioridad inválida"`
	AssignedTo  *string `json:"assignedTo" validate:"omitempty,uuid" errmsg:"assignedTo debe ser un UUID"`
	DueDate     *Date   `json:"dueDate"`
}

// UpdateTaskRequest actualización parcial; assignedTo, description y dueDate aceptan null.
type UpdateTaskRequest struct {
	Title       *string          `json:"title" validate:"omitempty,min=2" errmsg:"El título debe tener al menos 2 caracteres"`
	Description Nullable[string] `json:"description"`
	Status      *string          `json:"status" validate:"omitempty,oneof=todo in_progress completed" errmsg:"Estado de tarea inválido"`
	Priority    *string          `json:"priority" validate:"omitempty,oneof=low medium high" errmsg:"Prioridad inválida"`
	AssignedTo  Nullable[string] `json:"assignedTo" validate:"omitempty,uuid" errmsg:"assignedTo debe ser un UUID"`
	DueDate     Nullable[Date]   `json:"dueDate"`
}

// Empty informa si no hay ningún campo para actualizar.
func (r UpdateTaskRequest) Empty() bool {
	return r.Title == nil && !r.Description.Set && r.Status == nil && r.Priority == nil &&
		!r.AssignedTo.Set && !r.DueDate.Set
}

// UpdateTaskStatusRequest cambio de estado.
type UpdateTaskStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=todo in_progress completed" errmsg:"Estado de tarea inválido"`
}

// ListTasksQuery filtros del listado de tareas.
type ListTasksQuery struct {
	PageRequest
	Status     string `query:"status" validate:"omitempty,oneof=todo in_progress completed" errmsg:"Estado de tarea inválido"`
	AssignedTo string `query:"assignedTo" validate:"omitempty,uuid" errmsg:"assignedTo debe ser un UUID"`
	Priority   string `query:"priority" validate:"omitempty,oneof=low medium high" errmsg:"Prioridad inválida"`
	Search     string `query:"search"`
}

// AssigneeResponse usuario asignado.
type AssigneeResponse struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// TaskResponse tarea con su asignado.
type TaskResponse struct {
	ID          string            `json:"id"`
	ProjectID   string            `json:"projectId"`
	TenantID    string            `json:"tenantId"`
	Title       string            `json:"title"`
	Description *string           `json:"description"`
	Status      string            `json:"status"`
	Priority    string            `json:"priority"`
	AssignedTo  *AssigneeResponse `json:"assignedTo"`
	DueDate     *Date             `json:"dueDate"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// TaskListResponse página de tareas.
type TaskListResponse struct {
	Tasks      []TaskResponse `json:"tasks"`
	Total      int            `json:"total"`
	Pagination Pagination     `json:"pagination"`
}

// TaskStatusResponse resultado de PATCH /tasks/:id/status.
type TaskStatusResponse struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updatedAt"`
}
