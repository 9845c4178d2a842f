package repository

import (
	"context"

	"github.com/jhoicas/taskhub-api/internal/domain/entity"
)

// ProjectRepository define el puerto de persistencia para Project.
type ProjectRepository interface {
	Create(ctx context.Context, project *entity.Project) error
	GetByID(ctx context.Context, id string) (*entity.Project, error)
	// GetSummary incluye creador y contadores de tareas.
	GetSummary(ctx context.Context, id string) (*entity.ProjectSummary, error)
	Update(ctx context.Context, project *entity.Project) error
	// Delete elimina el proyecto; las tareas caen en cascada.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter entity.ProjectFilter) ([]entity.ProjectSummary, int, error)
	CountByTenant(ctx context.Context, tenantID string) (int, error)
}
