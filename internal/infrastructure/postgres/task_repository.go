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

var _ repository.TaskRepository = (*TaskRepo)(nil)

const taskColumns = "t.id, t.project_id, t.tenant_id, t.title, t.description, t.status, t.priority, t.assigned_to, t.due_date, t.created_at, t.updated_at"

// TaskRepo implementación del puerto TaskRepository sobre PostgreSQL.
type TaskRepo struct {
	q Querier
}

// NewTaskRepository construye el adaptador de persistencia para tareas.
func NewTaskRepository(q Querier) *TaskRepo {
	return &TaskRepo{q: q}
}

// Create persiste una nueva tarea.
func (r *TaskRepo) Create(ctx context.Context, t *entity.Task) error {
	query := `
		INSERT INTO tasks (id, project_id, tenant_id, title, description, status, priority, assigned_to, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.ProjectID, t.TenantID, t.Title, t.Description, string(t.Status), string(t.Priority),
		t.AssignedTo, t.DueDate, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Invalid("El proyecto o el usuario asignado no existen")
		}
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// GetByID obtiene una tarea por ID.
func (r *TaskRepo) GetByID(ctx context.Context, id string) (*entity.Task, error) {
	t, err := scanTask(r.q.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks t WHERE t.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

func scanTask(row pgx.Row, extra ...any) (*entity.Task, error) {
	var t entity.Task
	var status, priority string
	dest := []any{&t.ID, &t.ProjectID, &t.TenantID, &t.Title, &t.Description, &status, &priority,
		&t.AssignedTo, &t.DueDate, &t.CreatedAt, &t.UpdatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	t.Status = entity.TaskStatus(status)
	t.Priority = entity.TaskPriority(priority)
	return &t, nil
}

// Update escribe todos los campos mutables de la tarea.
func (r *TaskRepo) Update(ctx context.Context, t *entity.Task) error {
	sqlStr, args, err := psql.Update("tasks").
		SetMap(map[string]any{
			"title":       t.Title,
			"description": t.Description,
			"status":      string(t.Status),
			"priority":    string(t.Priority),
			"assigned_to": t.AssignedTo,
			"due_date":    t.DueDate,
			"updated_at":  t.UpdatedAt,
		}).
		Where(sq.Eq{"id": t.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update task: %w", err)
	}
	tag, err := r.q.Exec(ctx, sqlStr, args...)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Invalid("El usuario asignado no existe")
		}
		return fmt.Errorf("update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina una tarea.
func (r *TaskRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// taskListQuery aplica filtros, orden y paginación al listado de tareas.
func taskListQuery(b sq.SelectBuilder, f entity.TaskFilter) sq.SelectBuilder {
	return b.Where(taskWhere(f)).
		OrderBy(
			"CASE t.priority WHEN 'high' THEN 1 WHEN 'medium' THEN 2 ELSE 3 END",
			"t.due_date ASC NULLS LAST",
			"t.created_at DESC",
		).
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset))
}

func taskWhere(f entity.TaskFilter) sq.And {
	where := sq.And{sq.Eq{"t.project_id": f.ProjectID}}
	if f.Status != "" {
		where = append(where, sq.Eq{"t.status": string(f.Status)})
	}
	if f.AssignedTo != "" {
		where = append(where, sq.Eq{"t.assigned_to": f.AssignedTo})
	}
	if f.Priority != "" {
		where = append(where, sq.Eq{"t.priority": string(f.Priority)})
	}
	if f.Search != "" {
		where = append(where, sq.ILike{"t.title": likePattern(f.Search)})
	}
	return where
}

// List lista las tareas de un proyecto con su asignado.
func (r *TaskRepo) List(ctx context.Context, f entity.TaskFilter) ([]entity.TaskSummary, int, error) {
	total, err := count(ctx, r.q, psql.Select("COUNT(*)").From("tasks t").Where(taskWhere(f)))
	if err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	base := psql.Select(taskColumns, "u.id", "u.full_name", "u.email").
		From("tasks t").
		LeftJoin("users u ON t.assigned_to = u.id")
	sqlStr, args, err := taskListQuery(base, f).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list tasks: %w", err)
	}
	rows, err := r.q.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	list := make([]entity.TaskSummary, 0)
	for rows.Next() {
		var aID, aName, aEmail *string
		t, err := scanTask(rows, &aID, &aName, &aEmail)
		if err != nil {
			return nil, 0, fmt.Errorf("scan task: %w", err)
		}
		s := entity.TaskSummary{Task: *t}
		if aID != nil {
			s.Assignee = &entity.Assignee{ID: *aID, FullName: deref(aName), Email: deref(aEmail)}
		}
		list = append(list, s)
	}
	return list, total, rows.Err()
}

// UnassignUser deja sin asignar las tareas del usuario.
func (r *TaskRepo) UnassignUser(ctx context.Context, userID string) error {
	if _, err := r.q.Exec(ctx, `UPDATE tasks SET assigned_to = NULL, updated_at = NOW() WHERE assigned_to = $1`, userID); err != nil {
		return fmt.Errorf("unassign tasks: %w", err)
	}
	return nil
}
