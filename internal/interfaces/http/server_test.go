package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/taskhub-api/internal/application/auth"
	"github.com/jhoicas/taskhub-api/internal/application/dto"
	"github.com/jhoicas/taskhub-api/internal/application/usecase"
	"github.com/jhoicas/taskhub-api/internal/domain/access"
	"github.com/jhoicas/taskhub-api/internal/domain/entity"
	"github.com/jhoicas/taskhub-api/internal/domain/quota"
	"github.com/jhoicas/taskhub-api/internal/infrastructure/memory"
	"github.com/jhoicas/taskhub-api/internal/infrastructure/redisstore"
	apphttp "github.com/jhoicas/taskhub-api/internal/interfaces/http"
	"github.com/jhoicas/taskhub-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "taskhub-test"
	testPassword  = "Secreta123"
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

type testServer struct {
	app   *fiber.App
	store *memory.Store
	rec   *recorder
	redis *miniredis.Miniredis
}

type serverOpts struct {
	limiter        *apphttp.RateLimiter
	health         *apphttp.HealthHandler
	trustedProxies []string
}

// newTestServer arma la API completa sobre el store en memoria y una
// lista de revocación en miniredis.
func newTestServer(t *testing.T, opts ...serverOpts) *testServer {
	t.Helper()
	var o serverOpts
	if len(opts) > 0 {
		o = opts[0]
	}

	store := memory.NewStore()
	repos := store.Repos()
	rec := &recorder{}
	guard := access.NewGuard()
	enforcer := quota.NewEnforcer(quota.DefaultConfig())

	mr := miniredis.RunT(t)
	denylist, err := redisstore.NewDenylist(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = denylist.Close() })

	authUC := auth.NewAuthUseCase(repos.Tenants, repos.Users, store, enforcer, guard, rec, denylist,
		auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 60, Issuer: testIssuer})

	reg := prometheus.NewRegistry()
	metrics := apphttp.NewMetrics(reg, reg)
	app := apphttp.NewApp(apphttp.AppOptions{
		Name:           "taskhub-test",
		Logger:         logger.Nop(),
		Metrics:        metrics,
		TrustedProxies: o.trustedProxies,
	})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:       authUC,
		TenantUC:     usecase.NewTenantUseCase(repos.Tenants, guard, enforcer, rec),
		UserUC:       usecase.NewUserUseCase(store, repos.Users, repos.Tenants, guard, enforcer, rec),
		ProjectUC:    usecase.NewProjectUseCase(store, repos.Projects, guard, enforcer, rec),
		TaskUC:       usecase.NewTaskUseCase(repos.Tasks, repos.Projects, repos.Users, guard, rec),
		Health:       o.health,
		Metrics:      metrics,
		LoginLimiter: o.limiter,
	})
	return &testServer{app: app, store: store, rec: rec, redis: mr}
}

// do lanza la petición y devuelve estado y cuerpo crudo.
func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

// doJSON como do pero decodifica la respuesta en out.
func (s *testServer) doJSON(t *testing.T, method, path, token string, body, out any) int {
	t.Helper()
	status, raw := s.do(t, method, path, token, body)
	if out != nil {
		require.NoError(t, json.Unmarshal(raw, out), "cuerpo: %s", raw)
	}
	return status
}

// errorCode devuelve el code del cuerpo de error.
func errorCode(t *testing.T, raw []byte) string {
	t.Helper()
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &e), "cuerpo: %s", raw)
	return e.Code
}

type tenantSession struct {
	TenantID string
	Sub      string
	AdminID  string
	Token    string
}

// registerTenant registra un tenant por la API y hace login con su admin.
func (s *testServer) registerTenant(t *testing.T, sub string) tenantSession {
	t.Helper()
	var reg dto.RegisterTenantResponse
	status := s.doJSON(t, http.MethodPost, "/api/auth/register-tenant", "", dto.RegisterTenantRequest{
		TenantName:    "Empresa " + sub,
		Subdomain:     sub,
		AdminEmail:    "admin@" + sub + ".co",
		AdminPassword: testPassword,
		AdminFullName: "Admin " + sub,
	}, &reg)
	require.Equal(t, http.StatusCreated, status)
	token := s.login(t, sub, "admin@"+sub+".co")
	return tenantSession{TenantID: reg.TenantID, Sub: sub, AdminID: reg.AdminUser.ID, Token: token}
}

func (s *testServer) login(t *testing.T, sub, email string) string {
	t.Helper()
	var out dto.LoginResponse
	status := s.doJSON(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{
		Email: email, Password: testPassword, TenantSubdomain: sub,
	}, &out)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, out.Token)
	return out.Token
}

// addUser crea un usuario con rol user en el tenant y devuelve id y token.
func (s *testServer) addUser(t *testing.T, ts tenantSession, name string) (string, string) {
	t.Helper()
	email := name + "@" + ts.Sub + ".co"
	var u dto.UserResponse
	status := s.doJSON(t, http.MethodPost, "/api/tenants/"+ts.TenantID+"/users", ts.Token, dto.CreateUserRequest{
		Email: email, Password: testPassword, FullName: "Usuario " + name,
	}, &u)
	require.Equal(t, http.StatusCreated, status)
	return u.ID, s.login(t, ts.Sub, email)
}

func (s *testServer) createProject(t *testing.T, token, name string) (int, dto.ProjectResponse) {
	t.Helper()
	var p dto.ProjectResponse
	status, raw := s.do(t, http.MethodPost, "/api/projects", token, dto.CreateProjectRequest{Name: name})
	if status == http.StatusCreated {
		require.NoError(t, json.Unmarshal(raw, &p))
	}
	return status, p
}

// seedSuperAdmin crea un super admin directamente en el store.
func (s *testServer) seedSuperAdmin(t *testing.T) string {
	t.Helper()
	hash, err := bcryptHash(testPassword)
	require.NoError(t, err)
	require.NoError(t, s.store.Repos().Users.Create(context.Background(), &entity.User{
		ID: uuid.NewString(), Email: "root@taskhub.io", PasswordHash: hash,
		FullName: "Root", Role: entity.RoleSuperAdmin, IsActive: true, CreatedAt: time.Now(),
	}))
	var out dto.LoginResponse
	status := s.doJSON(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{
		Email: "root@taskhub.io", Password: testPassword,
	}, &out)
	require.Equal(t, http.StatusOK, status)
	return out.Token
}

func bcryptHash(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	return string(b), err
}

// doWithHeaders petición sin cuerpo con headers arbitrarios.
func (s *testServer) doWithHeaders(t *testing.T, method, path string, headers map[string]string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func jsonUnmarshal(raw []byte, out any) error { return json.Unmarshal(raw, out) }
