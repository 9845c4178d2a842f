package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jhoicas/taskhub-api/internal/domain/entity"
	"github.com/jhoicas/taskhub-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo sumidero de auditoría sobre database/sql. Usa su propio *sql.DB
// (stdlib.OpenDBFromPool) para no competir con las transacciones de negocio.
type AuditRepo struct {
	db *sql.DB
}

// NewAuditRepository construye el sumidero de auditoría.
func NewAuditRepository(db *sql.DB) *AuditRepo {
	return &AuditRepo{db: db}
}

// Insert agrega un evento a audit_logs.
func (r *AuditRepo) Insert(ctx context.Context, e entity.AuditEvent) error {
	_, err := psql.Insert("audit_logs").
		Columns("tenant_id", "user_id", "action", "entity_type", "entity_id", "ip_address", "created_at").
		Values(nullable(e.TenantID), nullable(e.UserID), e.Action, e.EntityType, nullable(e.EntityID), e.IPAddress, e.Timestamp).
		RunWith(r.db).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}
