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

var _ repository.TenantRepository = (*TenantRepo)(nil)

const tenantColumns = "t.id, t.name, t.subdomain, t.status, t.subscription_plan, t.max_users, t.max_projects, t.created_at, t.updated_at"

// TenantRepo implementación del puerto TenantRepository sobre PostgreSQL.
type TenantRepo struct {
	q Querier
}

// NewTenantRepository construye el adaptador; q puede ser el pool o una transacción.
func NewTenantRepository(q Querier) *TenantRepo {
	return &TenantRepo{q: q}
}

// Create persiste un nuevo tenant. Subdominio repetido → ErrSubdomainTaken.
func (r *TenantRepo) Create(ctx context.Context, t *entity.Tenant) error {
	query := `
		INSERT INTO tenants (id, name, subdomain, status, subscription_plan, max_users, max_projects, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.Name, t.Subdomain, string(t.Status), string(t.SubscriptionPlan), t.MaxUsers, t.MaxProjects,
		t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSubdomainTaken
		}
		return fmt.Errorf("insert tenant: %w", err)
	}
	return nil
}

// GetByID obtiene un tenant por ID.
func (r *TenantRepo) GetByID(ctx context.Context, id string) (*entity.Tenant, error) {
	return r.getOne(ctx, `SELECT `+tenantColumns+` FROM tenants t WHERE t.id = $1`, id)
}

// GetBySubdomain obtiene un tenant por subdominio sin distinguir mayúsculas.
func (r *TenantRepo) GetBySubdomain(ctx context.Context, subdomain string) (*entity.Tenant, error) {
	return r.getOne(ctx, `SELECT `+tenantColumns+` FROM tenants t WHERE LOWER(t.subdomain) = LOWER($1)`, subdomain)
}

// LockByID bloquea la fila del tenant hasta el fin de la transacción.
func (r *TenantRepo) LockByID(ctx context.Context, id string) (*entity.Tenant, error) {
	return r.getOne(ctx, `SELECT `+tenantColumns+` FROM tenants t WHERE t.id = $1 FOR UPDATE`, id)
}

func (r *TenantRepo) getOne(ctx context.Context, query string, arg string) (*entity.Tenant, error) {
	t, err := scanTenant(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tenant: %w", err)
	}
	return t, nil
}

func scanTenant(row pgx.Row, extra ...any) (*entity.Tenant, error) {
	var t entity.Tenant
	var status, plan string
	dest := []any{&t.ID, &t.Name, &t.Subdomain, &status, &plan, &t.MaxUsers, &t.MaxProjects, &t.CreatedAt, &t.UpdatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	t.Status = entity.TenantStatus(status)
	t.SubscriptionPlan = entity.Plan(plan)
	return &t, nil
}

// Update escribe los campos mutables del tenant.
func (r *TenantRepo) Update(ctx context.Context, t *entity.Tenant) error {
	sqlStr, args, err := psql.Update("tenants").
		SetMap(map[string]any{
			"name":              t.Name,
			"status":            string(t.Status),
			"subscription_plan": string(t.SubscriptionPlan),
			"max_users":         t.MaxUsers,
			"max_projects":      t.MaxProjects,
			"updated_at":        t.UpdatedAt,
		}).
		Where(sq.Eq{"id": t.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update tenant: %w", err)
	}
	tag, err := r.q.Exec(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("update tenant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTenantNotFound
	}
	return nil
}

// List lista tenants con contadores de usuarios y proyectos, más recientes primero.
func (r *TenantRepo) List(ctx context.Context, f entity.TenantFilter) ([]entity.TenantSummary, int, error) {
	where := sq.And{}
	if f.Status != "" {
		where = append(where, sq.Eq{"t.status": string(f.Status)})
	}
	if f.Plan != "" {
		where = append(where, sq.Eq{"t.subscription_plan": string(f.Plan)})
	}

	total, err := count(ctx, r.q, psql.Select("COUNT(*)").From("tenants t").Where(where))
	if err != nil {
		return nil, 0, fmt.Errorf("count tenants: %w", err)
	}

	sqlStr, args, err := psql.Select(tenantColumns,
		"(SELECT COUNT(*) FROM users u WHERE u.tenant_id = t.id)",
		"(SELECT COUNT(*) FROM projects p WHERE p.tenant_id = t.id)").
		From("tenants t").
		Where(where).
		OrderBy("t.created_at DESC").
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list tenants: %w", err)
	}
	rows, err := r.q.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()

	list := make([]entity.TenantSummary, 0)
	for rows.Next() {
		var s entity.TenantSummary
		t, err := scanTenant(rows, &s.TotalUsers, &s.TotalProjects)
		if err != nil {
			return nil, 0, fmt.Errorf("scan tenant: %w", err)
		}
		s.Tenant = *t
		list = append(list, s)
	}
	return list, total, rows.Err()
}

// Stats cuenta usuarios, proyectos y tareas del tenant.
func (r *TenantRepo) Stats(ctx context.Context, id string) (entity.TenantStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users WHERE tenant_id = $1),
			(SELECT COUNT(*) FROM projects WHERE tenant_id = $1),
			(SELECT COUNT(*) FROM tasks WHERE tenant_id = $1)`
	var s entity.TenantStats
	if err := r.q.QueryRow(ctx, query, id).Scan(&s.TotalUsers, &s.TotalProjects, &s.TotalTasks); err != nil {
		return entity.TenantStats{}, fmt.Errorf("tenant stats: %w", err)
	}
	return s, nil
}
