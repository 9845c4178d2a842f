package entity

import "time"

// Acciones auditadas.
const (
	ActionRegisterTenant   = "REGISTER_TENANT"
	ActionLogin            = "LOGIN"
	ActionLogout           = "LOGOUT"
	ActionUpdateTenant     = "UPDATE_TENANT"
	ActionCreateUser       = "CREATE_USER"
	ActionUpdateUser       = "UPDATE_USER"
	ActionDeleteUser       = "DELETE_USER"
	ActionCreateProject    = "CREATE_PROJECT"
	ActionUpdateProject    = "UPDATE_PROJECT"
	ActionDeleteProject    = "DELETE_PROJECT"
	ActionCreateTask       = "CREATE_TASK"
	ActionUpdateTask       = "UPDATE_TASK"
	ActionUpdateTaskStatus = "UPDATE_TASK_STATUS"
	ActionDeleteTask       = "DELETE_TASK"
)

// Tipos de entidad auditada.
const (
	EntityTenant  = "tenant"
	EntityUser    = "user"
	EntityProject = "project"
	EntityTask    = "task"
)

// AuditEvent registro inmutable de una mutación. TenantID vacío para acciones sin tenant.
type AuditEvent struct {
	TenantID   string
	UserID     string
	Action     string
	EntityType string
	EntityID   string
	IPAddress  string
	Timestamp  time.Time
}
