package repository

import (
	"context"

	"github.com/jhoicas/taskhub-api/internal/domain/entity"
)

// TaskRepository define el puerto de persistencia para Task.
type TaskRepository interface {
	Create(ctx context.Context, task *entity.Task) error
	GetByID(ctx context.Context, id string) (*entity.Task, error)
	Update(ctx context.Context, task *entity.Task) error
	Delete(ctx context.Context, id string) error
	// List ordena por prioridad (high primero), due_date ascendente con nulos al final y created_at descendente.
	List(ctx context.Context, filter entity.TaskFilter) ([]entity.TaskSummary, int, error)
	// UnassignUser deja sin asignar las tareas del usuario.
	UnassignUser(ctx context.Context, userID string) error
}
