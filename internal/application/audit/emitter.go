// Package audit registra las mutaciones en un canal lateral de mejor esfuerzo:
// un fallo de auditoría nunca cambia el resultado de la operación auditada.
package audit

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jhoicas/taskhub-api/internal/domain/entity"
	"github.com/jhoicas/taskhub-api/internal/domain/repository"
	"github.com/jhoicas/taskhub-api/pkg/logger"
)

// Emitter recibe eventos de auditoría. Record no bloquea ni devuelve error.
type Emitter interface {
	Record(ctx context.Context, event entity.AuditEvent)
}

type ipKey struct{}

// WithClientIP guarda la IP del cliente en el contexto de la petición.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ipKey{}, ip)
}

// ClientIP devuelve la IP guardada con WithClientIP o "unknown".
func ClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(ipKey{}).(string); ok && ip != "" {
		return ip
	}
	return "unknown"
}

// ErrClosed el emisor ya fue cerrado.
var ErrClosed = errors.New("audit: emisor cerrado")

const defaultWriteTimeout = 5 * time.Second

// AsyncEmitter encola eventos en un canal acotado y los escribe desde una goroutine propia.
// Con la cola llena el evento se descarta y se cuenta.
type AsyncEmitter struct {
	repo         repository.AuditRepository
	log          *logger.Logger
	metrics      *Metrics
	writeTimeout time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan entity.AuditEvent
	done   chan struct{}
}

var _ Emitter = (*AsyncEmitter)(nil)

// NewAsyncEmitter arranca el escritor en segundo plano. queueSize debe ser positivo.
func NewAsyncEmitter(repo repository.AuditRepository, log *logger.Logger, metrics *Metrics, queueSize int) *AsyncEmitter {
	if queueSize <= 0 {
		queueSize = 1
	}
	e := &AsyncEmitter{
		repo:         repo,
		log:          log.Component("audit"),
		metrics:      metrics,
		writeTimeout: defaultWriteTimeout,
		queue:        make(chan entity.AuditEvent, queueSize),
		done:         make(chan struct{}),
	}
	go e.run()
	return e
}

// Record completa timestamp e IP y encola el evento.
func (e *AsyncEmitter) Record(ctx context.Context, ev entity.AuditEvent) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	if ev.IPAddress == "" {
		ev.IPAddress = ClientIP(ctx)
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		e.drop(ev, "emisor cerrado")
		return
	}
	select {
	case e.queue <- ev:
	default:
		e.drop(ev, "cola llena")
	}
}

func (e *AsyncEmitter) drop(ev entity.AuditEvent, reason string) {
	e.metrics.dropped.Inc()
	e.log.Warn().
		Str("action", ev.Action).
		Str("entity_id", ev.EntityID).
		Str("reason", reason).
		Msg("evento de auditoría descartado")
}

func (e *AsyncEmitter) run() {
	defer close(e.done)
	for ev := range e.queue {
		e.write(ev)
	}
}

func (e *AsyncEmitter) write(ev entity.AuditEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), e.writeTimeout)
	defer cancel()
	if err := e.repo.Insert(ctx, ev); err != nil {
		e.metrics.failed.Inc()
		e.log.Error().Err(err).
			Str("action", ev.Action).
			Str("entity_type", ev.EntityType).
			Str("entity_id", ev.EntityID).
			Msg("no se pudo registrar el evento de auditoría")
		return
	}
	e.metrics.recorded.Inc()
}

// Close deja de aceptar eventos y espera a que se escriban los encolados o a que venza ctx.
func (e *AsyncEmitter) Close(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	e.closed = true
	close(e.queue)
	e.mu.Unlock()

	select {
	case <-e.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
