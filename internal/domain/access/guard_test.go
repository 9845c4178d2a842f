package access_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taskhub-api/internal/domain"
	"github.com/jhoicas/taskhub-api/internal/domain/access"
	"github.com/jhoicas/taskhub-api/internal/domain/entity"
)

const (
	tenantA = "aaaaaaaa-0000-0000-0000-000000000001"
	tenantB = "bbbbbbbb-0000-0000-0000-000000000002"
)

var (
	superAdmin = access.Principal{UserID: "super", Role: entity.RoleSuperAdmin}
	adminA     = access.Principal{UserID: "admin-a", TenantID: tenantA, Role: entity.RoleTenantAdmin}
	userA      = access.Principal{UserID: "user-a", TenantID: tenantA, Role: entity.RoleUser}
	otherUserA = access.Principal{UserID: "user-a2", TenantID: tenantA, Role: entity.RoleUser}
	userB      = access.Principal{UserID: "user-b", TenantID: tenantB, Role: entity.RoleUser}
	adminB     = access.Principal{UserID: "admin-b", TenantID: tenantB, Role: entity.RoleTenantAdmin}
)

func decide(p access.Principal, action access.Action, r access.Resource, f access.Fields) error {
	return access.NewGuard().Decide(p, access.Request{Action: action, Resource: r, Fields: f})
}

// ──────────────────────────────────────────────────────────────────────────────
// Aislamiento de tenant
// ──────────────────────────────────────────────────────────────────────────────

func TestDecide_OtroTenant_SiempreDenegado(t *testing.T) {
	type tc struct {
		name     string
		action   access.Action
		resource access.Resource
		wantErr  error
	}
	cases := []tc{
		{"leer proyecto", access.ActionRead, access.Resource{Kind: access.KindProject, ID: "p1", TenantID: tenantA}, domain.ErrForbidden},
		{"actualizar proyecto", access.ActionUpdate, access.Resource{Kind: access.KindProject, ID: "p1", TenantID: tenantA, CreatedBy: "admin-a"}, domain.ErrNotFound},
		{"eliminar proyecto", access.ActionDelete, access.Resource{Kind: access.KindProject, ID: "p1", TenantID: tenantA}, domain.ErrNotFound},
		{"crear tarea", access.ActionCreate, access.Resource{Kind: access.KindTask, ID: "p1", TenantID: tenantA}, domain.ErrForbidden},
		{"listar tareas", access.ActionList, access.Resource{Kind: access.KindTask, ID: "p1", TenantID: tenantA}, domain.ErrForbidden},
		{"actualizar tarea", access.ActionUpdate, access.Resource{Kind: access.KindTask, ID: "t1", TenantID: tenantA}, domain.ErrNotFound},
		{"eliminar tarea", access.ActionDelete, access.Resource{Kind: access.KindTask, ID: "t1", TenantID: tenantA}, domain.ErrNotFound},
		{"crear usuario", access.ActionCreate, access.Resource{Kind: access.KindUser, TenantID: tenantA}, domain.ErrForbidden},
		{"listar usuarios", access.ActionList, access.Resource{Kind: access.KindUser, TenantID: tenantA}, domain.ErrForbidden},
		{"actualizar usuario", access.ActionUpdate, access.Resource{Kind: access.KindUser, ID: "user-a", TenantID: tenantA}, domain.ErrForbidden},
		{"eliminar usuario", access.ActionDelete, access.Resource{Kind: access.KindUser, ID: "user-a", TenantID: tenantA}, domain.ErrForbidden},
		{"leer tenant", access.ActionRead, access.Resource{Kind: access.KindTenant, ID: tenantA, TenantID: tenantA}, domain.ErrForbidden},
		{"actualizar tenant", access.ActionUpdate, access.Resource{Kind: access.KindTenant, ID: tenantA, TenantID: tenantA}, domain.ErrForbidden},
	}
	for _, p := range []access.Principal{userB, adminB} {
		for _, c := range cases {
			t.Run(string(p.Role)+"/"+c.name, func(t *testing.T) {
				err := decide(p, c.action, c.resource, access.Fields{})
				require.Error(t, err)
				assert.True(t, errors.Is(err, c.wantErr), "se esperaba %v, se obtuvo %v", c.wantErr, err)
			})
		}
	}
}

func TestDecide_SuperAdmin_AccedeACualquierTenant(t *testing.T) {
	resources := []struct {
		action access.Action
		r      access.Resource
	}{
		{access.ActionRead, access.Resource{Kind: access.KindProject, ID: "p1", TenantID: tenantA}},
		{access.ActionUpdate, access.Resource{Kind: access.KindProject, ID: "p1", TenantID: tenantB, CreatedBy: "user-b"}},
		{access.ActionUpdate, access.Resource{Kind: access.KindTask, ID: "t1", TenantID: tenantA}},
		{access.ActionCreate, access.Resource{Kind: access.KindUser, TenantID: tenantB}},
		{access.ActionList, access.Resource{Kind: access.KindTenant}},
		{access.ActionRead, access.Resource{Kind: access.KindTenant, ID: tenantB, TenantID: tenantB}},
	}
	for _, c := range resources {
		assert.NoError(t, decide(superAdmin, c.action, c.r, access.Fields{}), "%s %s", c.action, c.r.Kind)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Propiedad de proyectos
// ──────────────────────────────────────────────────────────────────────────────

// Escenario: un user crea P; él puede actualizarlo y eliminarlo, otro user del mismo tenant no.
func TestDecide_CreadorDelProyecto(t *testing.T) {
	p := access.Resource{Kind: access.KindProject, ID: "p1", TenantID: tenantA, CreatedBy: userA.UserID}

	assert.NoError(t, decide(userA, access.ActionUpdate, p, access.Fields{}))
	assert.NoError(t, decide(userA, access.ActionDelete, p, access.Fields{}))

	err := decide(otherUserA, access.ActionUpdate, p, access.Fields{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	err = decide(otherUserA, access.ActionDelete, p, access.Fields{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	assert.NoError(t, decide(adminA, access.ActionDelete, p, access.Fields{}), "tenant_admin del mismo tenant puede eliminar")
	assert.NoError(t, decide(otherUserA, access.ActionRead, p, access.Fields{}), "cualquier miembro puede leer")
}

func TestDecide_TareasSinRestriccionDeRol(t *testing.T) {
	task := access.Resource{Kind: access.KindTask, ID: "t1", TenantID: tenantA}
	assert.NoError(t, decide(otherUserA, access.ActionUpdate, task, access.Fields{}))
	assert.NoError(t, decide(userA, access.ActionCreate, task, access.Fields{}))
}

// ──────────────────────────────────────────────────────────────────────────────
// Usuarios: autoprotección
// ──────────────────────────────────────────────────────────────────────────────

func TestDecide_NadiePuedeEliminarseASiMismo(t *testing.T) {
	for _, p := range []access.Principal{userA, adminA, superAdmin} {
		self := access.Resource{Kind: access.KindUser, ID: p.UserID, TenantID: p.TenantID}
		err := decide(p, access.ActionDelete, self, access.Fields{})
		assert.ErrorIs(t, err, domain.ErrForbidden, "rol %s", p.Role)
	}
}

func TestDecide_AutoActualizacion(t *testing.T) {
	for _, p := range []access.Principal{userA, adminA, superAdmin} {
		self := access.Resource{Kind: access.KindUser, ID: p.UserID, TenantID: p.TenantID}

		assert.NoError(t, decide(p, access.ActionUpdate, self, access.Fields{}), "fullName propio permitido (%s)", p.Role)
		assert.ErrorIs(t, decide(p, access.ActionUpdate, self, access.Fields{Role: true}), domain.ErrForbidden)
		assert.ErrorIs(t, decide(p, access.ActionUpdate, self, access.Fields{IsActive: true}), domain.ErrForbidden)
	}
}

func TestDecide_ActualizarOtroUsuario(t *testing.T) {
	target := access.Resource{Kind: access.KindUser, ID: otherUserA.UserID, TenantID: tenantA}

	assert.NoError(t, decide(adminA, access.ActionUpdate, target, access.Fields{Role: true, IsActive: true}))
	assert.ErrorIs(t, decide(userA, access.ActionUpdate, target, access.Fields{}), domain.ErrForbidden)
}

func TestDecide_EliminarUsuario_SoloAdmin(t *testing.T) {
	target := access.Resource{Kind: access.KindUser, ID: otherUserA.UserID, TenantID: tenantA}
	assert.NoError(t, decide(adminA, access.ActionDelete, target, access.Fields{}))
	assert.ErrorIs(t, decide(userA, access.ActionDelete, target, access.Fields{}), domain.ErrForbidden)
}

func TestDecide_CrearUsuario_SoloAdmin(t *testing.T) {
	r := access.Resource{Kind: access.KindUser, TenantID: tenantA}
	assert.NoError(t, decide(adminA, access.ActionCreate, r, access.Fields{}))
	assert.ErrorIs(t, decide(userA, access.ActionCreate, r, access.Fields{}), domain.ErrForbidden)
	assert.NoError(t, decide(userA, access.ActionList, r, access.Fields{}), "listar es para cualquier miembro")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tenants: restricción de campos
// ──────────────────────────────────────────────────────────────────────────────

func TestDecide_CamposRestringidosDelTenant(t *testing.T) {
	own := access.Resource{Kind: access.KindTenant, ID: tenantA, TenantID: tenantA}

	assert.NoError(t, decide(adminA, access.ActionUpdate, own, access.Fields{}), "tenant_admin puede cambiar el nombre")

	for _, f := range []access.Fields{
		{Status: true}, {SubscriptionPlan: true}, {MaxUsers: true}, {MaxProjects: true},
	} {
		err := decide(adminA, access.ActionUpdate, own, f)
		assert.ErrorIs(t, err, domain.ErrForbidden)
		assert.NoError(t, decide(superAdmin, access.ActionUpdate, own, f))
	}

	assert.ErrorIs(t, decide(userA, access.ActionUpdate, own, access.Fields{}), domain.ErrForbidden,
		"user normal no actualiza el tenant")
}

func TestDecide_ListarTenants_SoloSuperAdmin(t *testing.T) {
	r := access.Resource{Kind: access.KindTenant}
	assert.ErrorIs(t, decide(adminA, access.ActionList, r, access.Fields{}), domain.ErrForbidden)
	assert.NoError(t, decide(superAdmin, access.ActionList, r, access.Fields{}))
}

func TestDecide_PrincipalSinTenant_NoAutorizado(t *testing.T) {
	broken := access.Principal{UserID: "x", Role: entity.RoleUser}
	err := decide(broken, access.ActionRead, access.Resource{Kind: access.KindProject, TenantID: tenantA}, access.Fields{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestCheckTenantActive(t *testing.T) {
	g := access.NewGuard()
	suspended := &entity.Tenant{ID: tenantA, Status: entity.TenantSuspended}
	active := &entity.Tenant{ID: tenantA, Status: entity.TenantActive}
	trial := &entity.Tenant{ID: tenantA, Status: entity.TenantTrial}

	assert.ErrorIs(t, g.CheckTenantActive(adminA, suspended), domain.ErrTenantSuspended)
	assert.NoError(t, g.CheckTenantActive(superAdmin, suspended))
	assert.NoError(t, g.CheckTenantActive(adminA, active))
	assert.NoError(t, g.CheckTenantActive(adminA, trial))
}

func TestScopeTenant(t *testing.T) {
	g := access.NewGuard()
	assert.Equal(t, "", g.ScopeTenant(superAdmin))
	assert.Equal(t, tenantA, g.ScopeTenant(userA))
}
