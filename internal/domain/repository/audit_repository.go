package repository

import (
	"context"

	"github.com/jhoicas/taskhub-api/internal/domain/entity"
)

// AuditRepository sumidero append-only de eventos de auditoría.
type AuditRepository interface {
	Insert(ctx context.Context, event entity.AuditEvent) error
}
