package entity

import "time"

// TaskStatus estado de una tarea.
type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
)

// Valid informa si el estado es válido.
func (s TaskStatus) Valid() bool {
	return s == TaskTodo || s == TaskInProgress || s == TaskCompleted
}

// TaskPriority prioridad de una tarea.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// Valid informa si la prioridad es válida.
func (p TaskPriority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Task pertenece a un proyecto; TenantID siempre es el del proyecto.
type Task struct {
	ID          string
	ProjectID   string
	TenantID    string
	Title       string
	Description *string
	Status      TaskStatus
	Priority    TaskPriority
	AssignedTo  *string
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Assignee datos públicos del usuario asignado.
type Assignee struct {
	ID       string
	FullName string
	Email    string
}

// TaskSummary tarea con su asignado resuelto (para listados y respuestas).
type TaskSummary struct {
	Task
	Assignee *Assignee
}

// TaskFilter filtros del listado de tareas de un proyecto.
type TaskFilter struct {
	ProjectID  string
	Status     TaskStatus
	AssignedTo string
	Priority   TaskPriority
	Search     string
	Limit      int
	Offset     int
}
