// Package quota aplica los límites de usuarios y proyectos por tenant.
package quota

import (
	"context"
	"fmt"

	"github.com/jhoicas/taskhub-api/internal/domain"
	"github.com/jhoicas/taskhub-api/internal/domain/entity"
)

// Kind tipo de recurso limitado.
type Kind string

const (
	KindUser    Kind = "user"
	KindProject Kind = "project"
)

// Limits límites de un plan.
type Limits struct {
	MaxUsers    int
	MaxProjects int
}

// Config tabla inmutable de límites por plan. Se construye una vez al arrancar.
type Config struct {
	plans map[entity.Plan]Limits
}

// DefaultConfig devuelve los límites por defecto: free 5/3, pro 25/15, enterprise 100/50.
func DefaultConfig() Config {
	cfg, _ := NewConfig(map[entity.Plan]Limits{
		entity.PlanFree:       {MaxUsers: 5, MaxProjects: 3},
		entity.PlanPro:        {MaxUsers: 25, MaxProjects: 15},
		entity.PlanEnterprise: {MaxUsers: 100, MaxProjects: 50},
	})
	return cfg
}

// NewConfig valida y copia la tabla. Todos los planes deben estar presentes con límites positivos.
func NewConfig(plans map[entity.Plan]Limits) (Config, error) {
	cp := make(map[entity.Plan]Limits, 3)
	for _, p := range []entity.Plan{entity.PlanFree, entity.PlanPro, entity.PlanEnterprise} {
		l, ok := plans[p]
		if !ok {
			return Config{}, fmt.Errorf("quota: falta el plan %s", p)
		}
		if l.MaxUsers <= 0 || l.MaxProjects <= 0 {
			return Config{}, fmt.Errorf("quota: límites del plan %s deben ser positivos", p)
		}
		cp[p] = l
	}
	return Config{plans: cp}, nil
}

// Limits devuelve los límites por defecto de un plan.
func (c Config) Limits(plan entity.Plan) (Limits, bool) {
	l, ok := c.plans[plan]
	return l, ok
}

// Counter cuenta recursos existentes de un tenant. Lo implementan los repositorios
// de usuarios y proyectos (con pool o atados a una transacción).
type Counter interface {
	CountByTenant(ctx context.Context, tenantID string) (int, error)
}

// LimitError denegación por límite alcanzado. Se reporta como FORBIDDEN.
type LimitError struct {
	Kind    Kind
	Current int
	Limit   int
}

func (e *LimitError) Error() string {
	if e.Kind == KindUser {
		return fmt.Sprintf("Límite de usuarios alcanzado. Máximo %d usuarios permitidos para su plan de suscripción.", e.Limit)
	}
	return fmt.Sprintf("Límite de proyectos alcanzado. Máximo %d proyectos permitidos para su plan de suscripción.", e.Limit)
}

// Is hace que errors.Is(err, domain.ErrForbidden) sea verdadero.
func (e *LimitError) Is(target error) bool { return target == domain.ErrForbidden }

// Enforcer comprueba límites antes de crear y resuelve los límites al cambiar de plan.
type Enforcer struct {
	cfg Config
}

// NewEnforcer construye el enforcer con la tabla de planes.
func NewEnforcer(cfg Config) *Enforcer {
	return &Enforcer{cfg: cfg}
}

// Check decide con un conteo ya obtenido: deniega si count >= máximo del tenant.
func (e *Enforcer) Check(t *entity.Tenant, kind Kind, count int) error {
	if t == nil {
		return domain.ErrTenantNotFound
	}
	var max int
	switch kind {
	case KindUser:
		max = t.MaxUsers
	case KindProject:
		max = t.MaxProjects
	default:
		return fmt.Errorf("quota: tipo desconocido %q", kind)
	}
	if count >= max {
		return &LimitError{Kind: kind, Current: count, Limit: max}
	}
	return nil
}

// CheckCreate cuenta los recursos del tenant y aplica Check. Para que el conteo y la
// inserción sean atómicos, counter debe estar atado a la transacción que bloqueó el tenant.
func (e *Enforcer) CheckCreate(ctx context.Context, counter Counter, t *entity.Tenant, kind Kind) error {
	if t == nil {
		return domain.ErrTenantNotFound
	}
	count, err := counter.CountByTenant(ctx, t.ID)
	if err != nil {
		return fmt.Errorf("contar %s: %w", kind, err)
	}
	return e.Check(t, kind, count)
}

// ResolveLimits calcula los límites tras una actualización del tenant.
// Un cambio de plan sin límites explícitos reinicia ambos a los del nuevo plan.
// Si llega al menos uno explícito, no se reinicia nada: se aplican los indicados
// y el otro conserva su valor actual.
func (e *Enforcer) ResolveLimits(current *entity.Tenant, plan *entity.Plan, maxUsers, maxProjects *int) (Limits, error) {
	out := Limits{MaxUsers: current.MaxUsers, MaxProjects: current.MaxProjects}
	if plan != nil {
		defaults, ok := e.cfg.Limits(*plan)
		if !ok {
			return Limits{}, domain.Invalid("Plan de suscripción inválido")
		}
		if maxUsers == nil && maxProjects == nil {
			out = defaults
		}
	}
	if maxUsers != nil {
		if *maxUsers <= 0 {
			return Limits{}, domain.Invalid("maxUsers debe ser un entero positivo")
		}
		out.MaxUsers = *maxUsers
	}
	if maxProjects != nil {
		if *maxProjects <= 0 {
			return Limits{}, domain.Invalid("maxProjects debe ser un entero positivo")
		}
		out.MaxProjects = *maxProjects
	}
	return out, nil
}

// DefaultsFor límites del plan indicado; free si el plan no existe.
func (e *Enforcer) DefaultsFor(plan entity.Plan) Limits {
	if l, ok := e.cfg.Limits(plan); ok {
		return l
	}
	l, _ := e.cfg.Limits(entity.PlanFree)
	return l
}
