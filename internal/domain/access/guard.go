// Package access concentra la tabla de decisión de autorización multi-tenant.
//
// Todas las rutas que leen o mutan tenants, usuarios, proyectos o tareas
// cargan el principal y el recurso y delegan aquí; ningún handler repite
// comprobaciones de rol o de tenant por su cuenta.
package access

import (
	"github.com/jhoicas/taskhub-api/internal/domain"
	"github.com/jhoicas/taskhub-api/internal/domain/entity"
)

// Principal identidad autenticada de la petición. TenantID vacío solo para super_admin.
type Principal struct {
	UserID   string
	TenantID string
	Role     entity.Role
}

// IsSuperAdmin informa si el principal es super_admin.
func (p Principal) IsSuperAdmin() bool { return p.Role == entity.RoleSuperAdmin }

// Valid comprueba el invariante de tenant: todo rol distinto de super_admin tiene tenant.
func (p Principal) Valid() bool {
	if p.UserID == "" || !p.Role.Valid() {
		return false
	}
	if p.IsSuperAdmin() {
		return true
	}
	return p.TenantID != ""
}

// Action operación solicitada sobre un recurso.
type Action string

const (
	ActionRead   Action = "read"
	ActionList   Action = "list"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Kind tipo de recurso.
type Kind string

const (
	KindTenant  Kind = "tenant"
	KindUser    Kind = "user"
	KindProject Kind = "project"
	KindTask    Kind = "task"
)

// Resource hechos de propiedad del recurso objetivo, leídos del almacén.
// Para KindTenant, TenantID es el propio ID del tenant. Para crear o listar
// tareas, TenantID es el del proyecto padre.
type Resource struct {
	Kind      Kind
	ID        string
	TenantID  string
	CreatedBy string
}

// Fields marca los campos restringidos que la petición intenta escribir.
type Fields struct {
	Role             bool
	IsActive         bool
	Status           bool
	SubscriptionPlan bool
	MaxUsers         bool
	MaxProjects      bool
}

func (f Fields) tenantRestricted() bool {
	return f.Status || f.SubscriptionPlan || f.MaxUsers || f.MaxProjects
}

// Request petición completa a evaluar.
type Request struct {
	Action   Action
	Resource Resource
	Fields   Fields
}

type ruleKey struct {
	kind   Kind
	action Action
}

// rule fila de la tabla. crossTenant es el resultado cuando el recurso es de otro
// tenant; allow decide propiedad/rol dentro del mismo tenant (nil = cualquier miembro).
type rule struct {
	superAdminOnly bool
	crossTenant    func() error
	allow          func(p Principal, r Resource) bool
	denied         string
}

func forbiddenTenant() error { return domain.Forbidden("Acceso denegado") }

func forbiddenOwnTenant() error {
	return domain.Forbidden("Acceso denegado. Solo puede acceder a su propio tenant.")
}

func hiddenProject() error { return domain.NotFound("Proyecto no encontrado") }

func hiddenTask() error { return domain.NotFound("Tarea no encontrada") }

func isTenantAdmin(p Principal, _ Resource) bool { return p.Role == entity.RoleTenantAdmin }

var table = map[ruleKey]rule{
	{KindTenant, ActionList}: {superAdminOnly: true, denied: "Acceso denegado. Permisos insuficientes."},
	{KindTenant, ActionRead}: {crossTenant: forbiddenOwnTenant},
	{KindTenant, ActionUpdate}: {
		crossTenant: forbiddenOwnTenant,
		allow:       isTenantAdmin,
		denied:      "Acceso denegado. Permisos insuficientes.",
	},

	{KindUser, ActionCreate}: {
		crossTenant: forbiddenOwnTenant,
		allow:       isTenantAdmin,
		denied:      "Acceso denegado. Permisos insuficientes.",
	},
	{KindUser, ActionList}: {crossTenant: forbiddenOwnTenant},
	{KindUser, ActionUpdate}: {
		crossTenant: func() error { return domain.Forbidden("No autorizado para actualizar este usuario") },
		allow: func(p Principal, r Resource) bool {
			return p.UserID == r.ID || p.Role == entity.RoleTenantAdmin
		},
		denied: "No autorizado para actualizar este usuario",
	},
	{KindUser, ActionDelete}: {
		crossTenant: func() error { return domain.Forbidden("No autorizado para eliminar este usuario") },
		allow:       isTenantAdmin,
		denied:      "No autorizado para eliminar este usuario",
	},

	{KindProject, ActionCreate}: {crossTenant: forbiddenTenant},
	{KindProject, ActionRead}:   {crossTenant: forbiddenTenant},
	{KindProject, ActionUpdate}: {
		crossTenant: hiddenProject,
		allow:       projectOwner,
		denied:      "No autorizado para actualizar este proyecto",
	},
	{KindProject, ActionDelete}: {
		crossTenant: hiddenProject,
		allow:       projectOwner,
		denied:      "No autorizado para eliminar este proyecto",
	},

	{KindTask, ActionCreate}: {crossTenant: forbiddenTenant},
	{KindTask, ActionList}:   {crossTenant: forbiddenTenant},
	{KindTask, ActionUpdate}: {crossTenant: hiddenTask},
	{KindTask, ActionDelete}: {crossTenant: hiddenTask},
}

func projectOwner(p Principal, r Resource) bool {
	return p.Role == entity.RoleTenantAdmin || (r.CreatedBy != "" && p.UserID == r.CreatedBy)
}

// Guard evalúa la tabla de decisión. No guarda estado: cada decisión depende
// solo del principal y de los hechos del recurso leídos en la misma petición.
type Guard struct{}

// NewGuard construye el guard.
func NewGuard() *Guard { return &Guard{} }

// Decide devuelve nil si la petición está permitida. La denegación envuelve
// domain.ErrForbidden o domain.ErrNotFound según la tabla de rutas.
// El llamador debe haber comprobado antes que el recurso existe.
func (g *Guard) Decide(p Principal, req Request) error {
	if !p.Valid() {
		return domain.ErrUnauthorized
	}
	rl, ok := table[ruleKey{req.Resource.Kind, req.Action}]
	if !ok {
		return domain.Forbidden("Operación no permitida")
	}
	super := p.IsSuperAdmin()

	if rl.superAdminOnly && !super {
		return domain.Forbidden(rl.denied)
	}

	// Aislamiento de tenant.
	if !super && req.Resource.TenantID != p.TenantID {
		if rl.crossTenant != nil {
			return rl.crossTenant()
		}
		return forbiddenTenant()
	}

	// Propiedad / rol para mutaciones.
	if !super && rl.allow != nil && !rl.allow(p, req.Resource) {
		return domain.Forbidden(rl.denied)
	}

	if req.Resource.Kind == KindUser {
		if err := selfProtection(p, req); err != nil {
			return err
		}
	}

	if req.Resource.Kind == KindTenant && req.Action == ActionUpdate && !super && req.Fields.tenantRestricted() {
		return domain.Forbidden("Solo el super admin puede actualizar estos campos")
	}
	return nil
}

// selfProtection: nadie se elimina a sí mismo y nadie cambia su propio rol o estado,
// sin importar el rol.
func selfProtection(p Principal, req Request) error {
	if p.UserID != req.Resource.ID {
		return nil
	}
	switch req.Action {
	case ActionDelete:
		return domain.Forbidden("No puede eliminarse a sí mismo")
	case ActionUpdate:
		if req.Fields.Role || req.Fields.IsActive {
			return domain.Forbidden("No puede cambiar su propio rol ni su estado")
		}
	}
	return nil
}

// CheckTenantActive aplica la compuerta de activación: un tenant suspendido
// bloquea a todos sus usuarios salvo al super_admin.
func (g *Guard) CheckTenantActive(p Principal, t *entity.Tenant) error {
	if t == nil || p.IsSuperAdmin() {
		return nil
	}
	if t.Status == entity.TenantSuspended {
		return domain.ErrTenantSuspended
	}
	return nil
}

// ScopeTenant devuelve el tenant por el que se deben filtrar los listados:
// vacío (todos) para super_admin, el propio en otro caso.
func (g *Guard) ScopeTenant(p Principal) string {
	if p.IsSuperAdmin() {
		return ""
	}
	return p.TenantID
}
