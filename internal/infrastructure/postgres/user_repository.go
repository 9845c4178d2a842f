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

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = "id, tenant_id, email, password_hash, full_name, role, is_active, created_at, updated_at"

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un nuevo usuario. Email repetido en el tenant → ErrEmailAlreadyExists.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	query := `
		INSERT INTO users (id, tenant_id, email, password_hash, full_name, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		u.ID, nullable(u.TenantID), u.Email, u.PasswordHash, u.FullName, string(u.Role), u.IsActive,
		u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		if isForeignKeyViolation(err) {
			return domain.ErrTenantNotFound
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByEmailInTenant obtiene un usuario por email dentro de un tenant.
func (r *UserRepo) GetByEmailInTenant(ctx context.Context, email, tenantID string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1) AND tenant_id = $2`, email, tenantID)
}

// GetSuperAdminByEmail obtiene un usuario sin tenant por email.
func (r *UserRepo) GetSuperAdminByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1) AND tenant_id IS NULL`, email)
}

func (r *UserRepo) getOne(ctx context.Context, query string, args ...any) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	var tenantID *string
	var role string
	if err := row.Scan(&u.ID, &tenantID, &u.Email, &u.PasswordHash, &u.FullName, &role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.TenantID = deref(tenantID)
	u.Role = entity.Role(role)
	return &u, nil
}

// Update actualiza nombre, rol, estado y hash del usuario.
func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	sqlStr, args, err := psql.Update("users").
		SetMap(map[string]any{
			"full_name":     u.FullName,
			"role":          string(u.Role),
			"is_active":     u.IsActive,
			"password_hash": u.PasswordHash,
			"updated_at":    u.UpdatedAt,
		}).
		Where(sq.Eq{"id": u.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update user: %w", err)
	}
	tag, err := r.q.Exec(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Delete elimina un usuario por ID.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// List lista usuarios de un tenant con búsqueda por nombre o email y filtro de rol.
func (r *UserRepo) List(ctx context.Context, f entity.UserFilter) ([]*entity.User, int, error) {
	where := sq.And{sq.Eq{"tenant_id": f.TenantID}}
	if f.Search != "" {
		where = append(where, sq.Or{
			sq.ILike{"full_name": likePattern(f.Search)},
			sq.ILike{"email": likePattern(f.Search)},
		})
	}
	if f.Role != "" {
		where = append(where, sq.Eq{"role": string(f.Role)})
	}

	total, err := count(ctx, r.q, psql.Select("COUNT(*)").From("users").Where(where))
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	sqlStr, args, err := psql.Select(userColumns).
		From("users").
		Where(where).
		OrderBy("created_at DESC").
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list users: %w", err)
	}
	rows, err := r.q.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	list := make([]*entity.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, total, rows.Err()
}

// CountByTenant cuenta los usuarios del tenant (para el límite del plan).
func (r *UserRepo) CountByTenant(ctx context.Context, tenantID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE tenant_id = $1`, tenantID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
