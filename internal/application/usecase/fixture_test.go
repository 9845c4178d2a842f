package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taskhub-api/internal/domain/access"
	"github.com/jhoicas/taskhub-api/internal/domain/entity"
	"github.com/jhoicas/taskhub-api/internal/domain/quota"
	"github.com/jhoicas/taskhub-api/internal/infrastructure/memory"
)

type recorder struct {
	mu     sync.Mutex
	events []entity.AuditEvent
}

func (r *recorder) Record(_ context.Context, e entity.AuditEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) last() entity.AuditEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return entity.AuditEvent{}
	}
	return r.events[len(r.events)-1]
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

type env struct {
	store    *memory.Store
	rec      *recorder
	tenants  *TenantUseCase
	users    *UserUseCase
	projects *ProjectUseCase
	tasks    *TaskUseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.NewStore()
	r := store.Repos()
	rec := &recorder{}
	guard := access.NewGuard()
	enforcer := quota.NewEnforcer(quota.DefaultConfig())
	return &env{
		store:    store,
		rec:      rec,
		tenants:  NewTenantUseCase(r.Tenants, guard, enforcer, rec),
		users:    NewUserUseCase(store, r.Users, r.Tenants, guard, enforcer, rec),
		projects: NewProjectUseCase(store, r.Projects, guard, enforcer, rec),
		tasks:    NewTaskUseCase(r.Tasks, r.Projects, r.Users, guard, rec),
	}
}

// seedTenant crea un tenant free (5 usuarios / 3 proyectos).
func (e *env) seedTenant(t *testing.T, sub string) string {
	t.Helper()
	id := uuid.NewString()
	require.NoError(t, e.store.Repos().Tenants.Create(context.Background(), &entity.Tenant{
		ID: id, Name: "Tenant " + sub, Subdomain: sub, Status: entity.TenantActive,
		SubscriptionPlan: entity.PlanFree, MaxUsers: 5, MaxProjects: 3,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}))
	return id
}

// seedUser crea un usuario y devuelve su principal.
func (e *env) seedUser(t *testing.T, tenantID string, role entity.Role) access.Principal {
	t.Helper()
	id := uuid.NewString()
	require.NoError(t, e.store.Repos().Users.Create(context.Background(), &entity.User{
		ID: id, TenantID: tenantID, Email: id + "@test.co", PasswordHash: "x",
		FullName: "Usuario " + id[:4], Role: role, IsActive: true, CreatedAt: time.Now(),
	}))
	return access.Principal{UserID: id, TenantID: tenantID, Role: role}
}

func strPtr(s string) *string { return &s }
