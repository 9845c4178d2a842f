package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/taskhub-api/internal/domain"
	"github.com/jhoicas/taskhub-api/internal/domain/entity"
	"github.com/jhoicas/taskhub-api/internal/domain/repository"
)

var _ repository.ProjectRepository = (*ProjectRepo)(nil)

const (
	projectColumns = "p.id, p.tenant_id, p.name, p.description, p.status, p.created_by, p.created_at, p.updated_at"
	projectSummary = projectColumns + `, u.full_name,
		(SELECT COUNT(*) FROM tasks WHERE project_id = p.id),
		(SELECT COUNT(*) FROM tasks WHERE project_id = p.id AND status = 'completed')`
)

// ProjectRepo implementación del puerto ProjectRepository sobre PostgreSQL.
type ProjectRepo struct {
	q Querier
}

// NewProjectRepository construye el adaptador de persistencia para proyectos.
func NewProjectRepository(q Querier) *ProjectRepo {
	return &ProjectRepo{q: q}
}

// Create persiste un nuevo proyecto.
func (r *ProjectRepo) Create(ctx context.Context, p *entity.Project) error {
	query := `
		INSERT INTO projects (id, tenant_id, name, description, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.TenantID, p.Name, p.Description, string(p.Status), nullable(p.CreatedBy), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Invalid("El tenant o el creador no existen")
		}
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

// GetByID obtiene un proyecto por ID.
func (r *ProjectRepo) GetByID(ctx context.Context, id string) (*entity.Project, error) {
	p, err := scanProject(r.q.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects p WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

// GetSummary obtiene un proyecto con creador y contadores.
func (r *ProjectRepo) GetSummary(ctx context.Context, id string) (*entity.ProjectSummary, error) {
	query := `SELECT ` + projectSummary + ` FROM projects p LEFT JOIN users u ON p.created_by = u.id WHERE p.id = $1`
	s, err := scanProjectSummary(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get project summary: %w", err)
	}
	return s, nil
}

func scanProject(row pgx.Row, extra ...any) (*entity.Project, error) {
	var p entity.Project
	var status string
	var createdBy *string
	dest := []any{&p.ID, &p.TenantID, &p.Name, &p.Description, &status, &createdBy, &p.CreatedAt, &p.UpdatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	p.Status = entity.ProjectStatus(status)
	p.CreatedBy = deref(createdBy)
	return &p, nil
}

func scanProjectSummary(row pgx.Row) (*entity.ProjectSummary, error) {
	var s entity.ProjectSummary
	var creator *string
	p, err := scanProject(row, &creator, &s.TaskCount, &s.CompletedTaskCount)
	if err != nil {
		return nil, err
	}
	s.Project = *p
	s.CreatorName = deref(creator)
	return &s, nil
}

// Update escribe nombre, descripción y estado.
func (r *ProjectRepo) Update(ctx context.Context, p *entity.Project) error {
	sqlStr, args, err := psql.Update("projects").
		SetMap(map[string]any{
			"name":        p.Name,
			"description": p.Description,
			"status":      string(p.Status),
			"updated_at":  p.UpdatedAt,
		}).
		Where(sq.Eq{"id": p.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update project: %w", err)
	}
	tag, err := r.q.Exec(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el proyecto; las tareas se eliminan por ON DELETE CASCADE.
func (r *ProjectRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista proyectos con filtros de tenant, estado y búsqueda por nombre.
func (r *ProjectRepo) List(ctx context.Context, f entity.ProjectFilter) ([]entity.ProjectSummary, int, error) {
	where := sq.And{}
	if f.TenantID != "" {
		where = append(where, sq.Eq{"p.tenant_id": f.TenantID})
	}
	if f.Status != "" {
		where = append(where, sq.Eq{"p.status": string(f.Status)})
	}
	if f.Search != "" {
		where = append(where, sq.ILike{"p.name": likePattern(f.Search)})
	}

	total, err := count(ctx, r.q, psql.Select("COUNT(*)").From("projects p").Where(where))
	if err != nil {
		return nil, 0, fmt.Errorf("count projects: %w", err)
	}

	sqlStr, args, err := psql.Select(projectSummary).
		From("projects p").
		LeftJoin("users u ON p.created_by = u.id").
		Where(where).
		OrderBy("p.created_at DESC").
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list projects: %w", err)
	}
	rows, err := r.q.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	list := make([]entity.ProjectSummary, 0)
	for rows.Next() {
		s, err := scanProjectSummary(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan project: %w", err)
		}
		list = append(list, *s)
	}
	return list, total, rows.Err()
}

// CountByTenant cuenta los proyectos del tenant (para el límite del plan).
func (r *ProjectRepo) CountByTenant(ctx context.Context, tenantID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM projects WHERE tenant_id = $1`, tenantID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}
	return n, nil
}
