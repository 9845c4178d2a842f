package repository

import (
	"context"

	"github.com/jhoicas/taskhub-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Las búsquedas devuelven (nil, nil) cuando no hay fila.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// GetByEmailInTenant busca sin distinguir mayúsculas dentro de un tenant.
	GetByEmailInTenant(ctx context.Context, email, tenantID string) (*entity.User, error)
	// GetSuperAdminByEmail busca un usuario sin tenant (super_admin).
	GetSuperAdminByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter entity.UserFilter) ([]*entity.User, int, error)
	CountByTenant(ctx context.Context, tenantID string) (int, error)
}
