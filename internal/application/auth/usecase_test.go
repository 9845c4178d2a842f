package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/taskhub-api/internal/application/dto"
	"github.com/jhoicas/taskhub-api/internal/domain"
	"github.com/jhoicas/taskhub-api/internal/domain/access"
	"github.com/jhoicas/taskhub-api/internal/domain/entity"
	"github.com/jhoicas/taskhub-api/internal/domain/quota"
	"github.com/jhoicas/taskhub-api/internal/infrastructure/memory"
	"github.com/jhoicas/taskhub-api/pkg/jwt"
)

const testSecret = "secreto-de-prueba"

type recorder struct {
	mu     sync.Mutex
	events []entity.AuditEvent
}

func (r *recorder) Record(_ context.Context, e entity.AuditEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Action)
	}
	return out
}

type memRevoker struct {
	mu  sync.Mutex
	ids map[string]time.Duration
}

func (m *memRevoker) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids[jti] = ttl
	return nil
}

func (m *memRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.ids[jti]
	return ok, nil
}

type fixture struct {
	store *memory.Store
	rec   *recorder
	rev   *memRevoker
	uc    *AuthUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()
	rec := &recorder{}
	rev := &memRevoker{ids: map[string]time.Duration{}}
	uc := NewAuthUseCase(repos.Tenants, repos.Users, store,
		quota.NewEnforcer(quota.DefaultConfig()), access.NewGuard(), rec, rev,
		JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: "taskhub-test"})
	return &fixture{store: store, rec: rec, rev: rev, uc: uc}
}

func (f *fixture) register(t *testing.T, sub string) *dto.RegisterTenantResponse {
	t.Helper()
	out, err := f.uc.RegisterTenant(context.Background(), dto.RegisterTenantRequest{
		TenantName:    "Empresa " + sub,
		Subdomain:     sub,
		AdminEmail:    "admin@" + sub + ".co",
		AdminPassword: "Secreta123",
		AdminFullName: "Admin " + sub,
	})
	require.NoError(t, err)
	return out
}

func (f *fixture) seedSuperAdmin(t *testing.T, email string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("Super1234"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, f.store.Repos().Users.Create(context.Background(), &entity.User{
		ID: "super-1", Email: email, PasswordHash: string(hash), FullName: "Super", Role: entity.RoleSuperAdmin, IsActive: true,
	}))
}

// ─── RegisterTenant ─────────────────────────────────────────────────────────

func TestRegisterTenant_CreaTenantFreeYAdmin(t *testing.T) {
	f := newFixture(t)
	out := f.register(t, "acme")

	assert.Equal(t, "acme", out.Subdomain)
	assert.Equal(t, string(entity.RoleTenantAdmin), out.AdminUser.Role)
	require.NotNil(t, out.AdminUser.TenantID)
	assert.Equal(t, out.TenantID, *out.AdminUser.TenantID)

	tenant, err := f.store.Repos().Tenants.GetByID(context.Background(), out.TenantID)
	require.NoError(t, err)
	require.NotNil(t, tenant)
	assert.Equal(t, entity.PlanFree, tenant.SubscriptionPlan)
	assert.Equal(t, 5, tenant.MaxUsers)
	assert.Equal(t, 3, tenant.MaxProjects)
	assert.Equal(t, []string{entity.ActionRegisterTenant}, f.rec.actions())
}

func TestRegisterTenant_SubdominioDuplicado(t *testing.T) {
	f := newFixture(t)
	f.register(t, "acme")
	_, err := f.uc.RegisterTenant(context.Background(), dto.RegisterTenantRequest{
		TenantName: "Otra", Subdomain: "ACME", AdminEmail: "x@y.co", AdminPassword: "Secreta123", AdminFullName: "Xx",
	})
	assert.ErrorIs(t, err, domain.ErrSubdomainTaken)
}

func TestRegisterTenant_EmailReservado(t *testing.T) {
	f := newFixture(t)
	f.seedSuperAdmin(t, "root@taskhub.io")
	_, err := f.uc.RegisterTenant(context.Background(), dto.RegisterTenantRequest{
		TenantName: "Otra", Subdomain: "otra", AdminEmail: "ROOT@taskhub.io", AdminPassword: "Secreta123", AdminFullName: "Xx",
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestRegisterTenant_ValidaAntesDePersistir(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.RegisterTenant(context.Background(), dto.RegisterTenantRequest{
		TenantName: "A", Subdomain: "ab", AdminEmail: "no-email", AdminPassword: "debil", AdminFullName: "X",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, f.rec.actions())
}

// ─── Login ──────────────────────────────────────────────────────────────────

func TestLogin_PorSubdominioYPorTenantID(t *testing.T) {
	f := newFixture(t)
	reg := f.register(t, "acme")
	ctx := context.Background()

	out, err := f.uc.Login(ctx, dto.LoginRequest{Email: "admin@acme.co", Password: "Secreta123", TenantSubdomain: "acme"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, 3600, out.ExpiresIn)

	claims, err := jwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.AdminUser.ID, claims.UserID)
	assert.Equal(t, reg.TenantID, claims.TenantID)

	_, err = f.uc.Login(ctx, dto.LoginRequest{Email: "admin@acme.co", Password: "Secreta123", TenantID: reg.TenantID})
	require.NoError(t, err)
}

func TestLogin_Errores(t *testing.T) {
	f := newFixture(t)
	f.register(t, "acme")
	ctx := context.Background()

	_, err := f.uc.Login(ctx, dto.LoginRequest{Email: "admin@acme.co", Password: "Secreta123", TenantSubdomain: "nada"})
	assert.ErrorIs(t, err, domain.ErrTenantNotFound)

	_, err = f.uc.Login(ctx, dto.LoginRequest{Email: "admin@acme.co", Password: "Mala12345", TenantSubdomain: "acme"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = f.uc.Login(ctx, dto.LoginRequest{Email: "admin@acme.co", Password: "Secreta123"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials, "sin tenant solo entra un super_admin")
}

func TestLogin_SuperAdminSinTenant(t *testing.T) {
	f := newFixture(t)
	f.seedSuperAdmin(t, "root@taskhub.io")
	out, err := f.uc.Login(context.Background(), dto.LoginRequest{Email: "root@taskhub.io", Password: "Super1234"})
	require.NoError(t, err)
	assert.Nil(t, out.User.TenantID)
	assert.Equal(t, string(entity.RoleSuperAdmin), out.User.Role)
}

func TestLogin_TenantSuspendidoYCuentaDesactivada(t *testing.T) {
	f := newFixture(t)
	reg := f.register(t, "acme")
	ctx := context.Background()
	repos := f.store.Repos()

	tenant, _ := repos.Tenants.GetByID(ctx, reg.TenantID)
	tenant.Status = entity.TenantSuspended
	require.NoError(t, repos.Tenants.Update(ctx, tenant))
	_, err := f.uc.Login(ctx, dto.LoginRequest{Email: "admin@acme.co", Password: "Secreta123", TenantSubdomain: "acme"})
	assert.ErrorIs(t, err, domain.ErrTenantSuspended)

	tenant.Status = entity.TenantActive
	require.NoError(t, repos.Tenants.Update(ctx, tenant))
	user, _ := repos.Users.GetByID(ctx, reg.AdminUser.ID)
	user.IsActive = false
	require.NoError(t, repos.Users.Update(ctx, user))
	_, err = f.uc.Login(ctx, dto.LoginRequest{Email: "admin@acme.co", Password: "Secreta123", TenantSubdomain: "acme"})
	assert.ErrorIs(t, err, domain.ErrDeactivated)
}

// ─── Authenticate ───────────────────────────────────────────────────────────

func login(t *testing.T, f *fixture) string {
	t.Helper()
	out, err := f.uc.Login(context.Background(), dto.LoginRequest{Email: "admin@acme.co", Password: "Secreta123", TenantSubdomain: "acme"})
	require.NoError(t, err)
	return out.Token
}

func TestAuthenticate_PrincipalDesdeUsuarioVivo(t *testing.T) {
	f := newFixture(t)
	reg := f.register(t, "acme")
	token := login(t, f)

	s, err := f.uc.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, reg.AdminUser.ID, s.UserID)
	assert.Equal(t, reg.TenantID, s.TenantID)
	assert.Equal(t, entity.RoleTenantAdmin, s.Role)
	assert.NotEmpty(t, s.TokenID)

	// El rol se lee de la base: una degradación aplica de inmediato.
	repos := f.store.Repos()
	user, _ := repos.Users.GetByID(context.Background(), reg.AdminUser.ID)
	user.Role = entity.RoleUser
	require.NoError(t, repos.Users.Update(context.Background(), user))
	s, err = f.uc.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, s.Role)
}

// Escenario: token válido de un usuario desactivado → ACCOUNT_DEACTIVATED, distinto de inválido/expirado.
func TestAuthenticate_CausasDistintas(t *testing.T) {
	f := newFixture(t)
	reg := f.register(t, "acme")
	token := login(t, f)
	ctx := context.Background()

	_, err := f.uc.Authenticate(ctx, "basura")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	expired, err := jwt.Generate(testSecret, reg.AdminUser.ID, reg.TenantID, "tenant_admin", "x", -1)
	require.NoError(t, err)
	_, err = f.uc.Authenticate(ctx, expired)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)

	ghost, err := jwt.Generate(testSecret, "no-existe", reg.TenantID, "user", "x", 10)
	require.NoError(t, err)
	_, err = f.uc.Authenticate(ctx, ghost)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	repos := f.store.Repos()
	user, _ := repos.Users.GetByID(ctx, reg.AdminUser.ID)
	user.IsActive = false
	require.NoError(t, repos.Users.Update(ctx, user))
	_, err = f.uc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, domain.ErrDeactivated)
	assert.NotErrorIs(t, err, domain.ErrInvalidToken)
	assert.NotErrorIs(t, err, domain.ErrTokenExpired)
}

func TestAuthenticate_TenantSuspendidoBloqueaCadaPeticion(t *testing.T) {
	f := newFixture(t)
	reg := f.register(t, "acme")
	token := login(t, f)
	ctx := context.Background()

	repos := f.store.Repos()
	tenant, _ := repos.Tenants.GetByID(ctx, reg.TenantID)
	tenant.Status = entity.TenantSuspended
	require.NoError(t, repos.Tenants.Update(ctx, tenant))

	_, err := f.uc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, domain.ErrTenantSuspended)
}

// ─── Logout ─────────────────────────────────────────────────────────────────

func TestLogout_RevocaElToken(t *testing.T) {
	f := newFixture(t)
	f.register(t, "acme")
	token := login(t, f)
	ctx := context.Background()

	s, err := f.uc.Authenticate(ctx, token)
	require.NoError(t, err)
	require.NoError(t, f.uc.Logout(ctx, *s))

	_, err = f.uc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, domain.ErrTokenRevoked)
	assert.Greater(t, f.rev.ids[s.TokenID], time.Duration(0), "TTL hasta el vencimiento del token")
	assert.Equal(t, []string{entity.ActionRegisterTenant, entity.ActionLogin, entity.ActionLogout}, f.rec.actions())
}

// ─── Me ─────────────────────────────────────────────────────────────────────

func TestMe_ConTenantYSuperAdminSinTenant(t *testing.T) {
	f := newFixture(t)
	reg := f.register(t, "acme")
	f.seedSuperAdmin(t, "root@taskhub.io")
	ctx := context.Background()

	me, err := f.uc.Me(ctx, access.Principal{UserID: reg.AdminUser.ID, TenantID: reg.TenantID, Role: entity.RoleTenantAdmin})
	require.NoError(t, err)
	require.NotNil(t, me.Tenant)
	assert.Equal(t, "acme", me.Tenant.Subdomain)

	me, err = f.uc.Me(ctx, access.Principal{UserID: "super-1", Role: entity.RoleSuperAdmin})
	require.NoError(t, err)
	assert.Nil(t, me.Tenant)
}
