// Package memory implementa los puertos de persistencia en memoria.
// Sirve para desarrollo local (STORAGE_DRIVER=memory) y como doble de pruebas.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/taskhub-api/internal/domain"
	"github.com/jhoicas/taskhub-api/internal/domain/entity"
	"github.com/jhoicas/taskhub-api/internal/domain/repository"
)

// Store guarda tenants, usuarios, proyectos, tareas y auditoría en mapas.
// WithinTx serializa las transacciones y, si fn falla, deshace solo las claves
// que fn modificó; las escrituras de otras peticiones se conservan.
type Store struct {
	txMu sync.Mutex

	mu       sync.RWMutex
	tenants  map[string]entity.Tenant
	users    map[string]entity.User
	projects map[string]entity.Project
	tasks    map[string]entity.Task
	audit    []entity.AuditEvent
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		tenants:  make(map[string]entity.Tenant),
		users:    make(map[string]entity.User),
		projects: make(map[string]entity.Project),
		tasks:    make(map[string]entity.Task),
	}
}

var (
	_ repository.TxRunner        = (*Store)(nil)
	_ repository.AuditRepository = (*Store)(nil)
)

// Repos devuelve los repositorios sin transacción.
func (s *Store) Repos() repository.Repos {
	return s.repos(nil)
}

func (s *Store) repos(undo *undoLog) repository.Repos {
	return repository.Repos{
		Tenants:  TenantRepo{s: s, undo: undo},
		Users:    UserRepo{s: s, undo: undo},
		Projects: ProjectRepo{s: s, undo: undo},
		Tasks:    TaskRepo{s: s, undo: undo},
	}
}

// undoLog acciones que devuelven cada clave tocada a su valor previo.
// Se registra y se aplica con s.mu tomado.
type undoLog struct {
	ops []func()
}

// keep anota el valor actual de key en m antes de modificarlo. Sin transacción no hace nada.
func keep[V any](l *undoLog, m map[string]V, key string) {
	if l == nil {
		return
	}
	prev, existed := m[key]
	l.ops = append(l.ops, func() {
		if existed {
			m[key] = prev
		} else {
			delete(m, key)
		}
	})
}

// rollback aplica las acciones en orden inverso.
func (s *Store) rollback(l *undoLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(l.ops) - 1; i >= 0; i-- {
		l.ops[i]()
	}
}

// WithinTx ejecuta fn de forma exclusiva. Equivale al bloqueo FOR UPDATE del tenant
// en Postgres, con granularidad de almacén completo.
func (s *Store) WithinTx(ctx context.Context, fn func(repos repository.Repos) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	undo := &undoLog{}
	if err := fn(s.repos(undo)); err != nil {
		s.rollback(undo)
		return err
	}
	return nil
}

// Insert agrega un evento de auditoría.
func (s *Store) Insert(_ context.Context, e entity.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audit = append(s.audit, e)
	return nil
}

// AuditEvents copia de los eventos registrados.
func (s *Store) AuditEvents() []entity.AuditEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.AuditEvent(nil), s.audit...)
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	end := len(list)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return list[offset:end]
}

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// ─── Tenants ────────────────────────────────────────────────────────────────

// TenantRepo implementa repository.TenantRepository.
type TenantRepo struct {
	s    *Store
	undo *undoLog
}

var _ repository.TenantRepository = TenantRepo{}

func (r TenantRepo) Create(_ context.Context, t *entity.Tenant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, ex := range r.s.tenants {
		if strings.EqualFold(ex.Subdomain, t.Subdomain) {
			return domain.ErrSubdomainTaken
		}
	}
	keep(r.undo, r.s.tenants, t.ID)
	r.s.tenants[t.ID] = *t
	return nil
}

func (r TenantRepo) GetByID(_ context.Context, id string) (*entity.Tenant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.tenants[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r TenantRepo) GetBySubdomain(_ context.Context, subdomain string) (*entity.Tenant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, t := range r.s.tenants {
		if strings.EqualFold(t.Subdomain, subdomain) {
			t := t
			return &t, nil
		}
	}
	return nil, nil
}

func (r TenantRepo) LockByID(ctx context.Context, id string) (*entity.Tenant, error) {
	return r.GetByID(ctx, id)
}

func (r TenantRepo) Update(_ context.Context, t *entity.Tenant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tenants[t.ID]; !ok {
		return domain.ErrTenantNotFound
	}
	keep(r.undo, r.s.tenants, t.ID)
	r.s.tenants[t.ID] = *t
	return nil
}

func (r TenantRepo) List(_ context.Context, f entity.TenantFilter) ([]entity.TenantSummary, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]entity.TenantSummary, 0, len(r.s.tenants))
	for _, t := range r.s.tenants {
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.Plan != "" && t.SubscriptionPlan != f.Plan {
			continue
		}
		list = append(list, entity.TenantSummary{
			Tenant:        t,
			TotalUsers:    r.s.countUsers(t.ID),
			TotalProjects: r.s.countProjects(t.ID),
		})
	}
	sort.SliceStable(list, func(i, j int) bool { return newer(list[i].CreatedAt, list[j].CreatedAt, list[i].ID, list[j].ID) })
	return page(list, f.Limit, f.Offset), len(list), nil
}

func (r TenantRepo) Stats(_ context.Context, id string) (entity.TenantStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	st := entity.TenantStats{TotalUsers: r.s.countUsers(id), TotalProjects: r.s.countProjects(id)}
	for _, t := range r.s.tasks {
		if t.TenantID == id {
			st.TotalTasks++
		}
	}
	return st, nil
}

func (s *Store) countUsers(tenantID string) int {
	n := 0
	for _, u := range s.users {
		if u.TenantID == tenantID {
			n++
		}
	}
	return n
}

func (s *Store) countProjects(tenantID string) int {
	n := 0
	for _, p := range s.projects {
		if p.TenantID == tenantID {
			n++
		}
	}
	return n
}
