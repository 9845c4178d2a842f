package repository

import (
	"context"

	"github.com/jhoicas/taskhub-api/internal/domain/entity"
)

// TenantRepository define el puerto de persistencia para Tenant.
type TenantRepository interface {
	Create(ctx context.Context, tenant *entity.Tenant) error
	GetByID(ctx context.Context, id string) (*entity.Tenant, error)
	GetBySubdomain(ctx context.Context, subdomain string) (*entity.Tenant, error)
	// LockByID lee el tenant con SELECT ... FOR UPDATE. Solo tiene efecto dentro de una transacción.
	LockByID(ctx context.Context, id string) (*entity.Tenant, error)
	Update(ctx context.Context, tenant *entity.Tenant) error
	List(ctx context.Context, filter entity.TenantFilter) ([]entity.TenantSummary, int, error)
	Stats(ctx context.Context, id string) (entity.TenantStats, error)
}
