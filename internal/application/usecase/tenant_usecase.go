package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/taskhub-api/internal/application/audit"
	"github.com/jhoicas/taskhub-api/internal/application/dto"
	"github.com/jhoicas/taskhub-api/internal/domain"
	"github.com/jhoicas/taskhub-api/internal/domain/access"
	"github.com/jhoicas/taskhub-api/internal/domain/entity"
	"github.com/jhoicas/taskhub-api/internal/domain/quota"
	"github.com/jhoicas/taskhub-api/internal/domain/repository"
)

const defaultTenantPageSize = 10

// TenantUseCase consulta y administración de tenants.
type TenantUseCase struct {
	tenants  repository.TenantRepository
	guard    *access.Guard
	enforcer *quota.Enforcer
	emitter  audit.Emitter
}

// NewTenantUseCase construye el caso de uso.
func NewTenantUseCase(tenants repository.TenantRepository, guard *access.Guard, enforcer *quota.Enforcer, emitter audit.Emitter) *TenantUseCase {
	return &TenantUseCase{tenants: tenants, guard: guard, enforcer: enforcer, emitter: emitter}
}

// List listado global de tenants con contadores. Solo super_admin.
func (uc *TenantUseCase) List(ctx context.Context, p access.Principal, q dto.ListTenantsQuery) (*dto.TenantListResponse, error) {
	if err := dto.Validate(q); err != nil {
		return nil, err
	}
	if err := uc.guard.Decide(p, access.Request{Action: access.ActionList, Resource: access.Resource{Kind: access.KindTenant}}); err != nil {
		return nil, err
	}
	pg := q.PageRequest.Normalize(defaultTenantPageSize)
	list, total, err := uc.tenants.List(ctx, entity.TenantFilter{
		Status: entity.TenantStatus(q.Status),
		Plan:   entity.Plan(q.Plan),
		Limit:  pg.Limit,
		Offset: pg.Offset(),
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.TenantListItem, 0, len(list))
	for _, t := range list {
		items = append(items, dto.TenantListItem{
			ID:               t.ID,
			Name:             t.Name,
			Subdomain:        t.Subdomain,
			Status:           string(t.Status),
			SubscriptionPlan: string(t.SubscriptionPlan),
			TotalUsers:       t.TotalUsers,
			TotalProjects:    t.TotalProjects,
			CreatedAt:        t.CreatedAt,
		})
	}
	return &dto.TenantListResponse{Tenants: items, Pagination: dto.NewPagination(pg, total)}, nil
}

// Get detalle de un tenant con estadísticas.
func (uc *TenantUseCase) Get(ctx context.Context, p access.Principal, id string) (*dto.TenantResponse, error) {
	t, err := uc.tenants.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrTenantNotFound
	}
	if err := uc.guard.Decide(p, access.Request{Action: access.ActionRead, Resource: tenantResource(t)}); err != nil {
		return nil, err
	}
	st, err := uc.tenants.Stats(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	out := toTenantResponse(t)
	out.Stats = &dto.TenantStats{TotalUsers: st.TotalUsers, TotalProjects: st.TotalProjects, TotalTasks: st.TotalTasks}
	return out, nil
}

// Update actualiza nombre (tenant_admin) o estado, plan y límites (solo super_admin).
// Un cambio de plan lleva los límites no indicados a los del nuevo plan.
func (uc *TenantUseCase) Update(ctx context.Context, p access.Principal, id string, in dto.UpdateTenantRequest) (*dto.TenantResponse, error) {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		in.Name = &name
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.Empty() {
		return nil, errNoFields
	}
	t, err := uc.tenants.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrTenantNotFound
	}
	fields := access.Fields{
		Status:           in.Status != nil,
		SubscriptionPlan: in.SubscriptionPlan != nil,
		MaxUsers:         in.MaxUsers != nil,
		MaxProjects:      in.MaxProjects != nil,
	}
	if err := uc.guard.Decide(p, access.Request{Action: access.ActionUpdate, Resource: tenantResource(t), Fields: fields}); err != nil {
		return nil, err
	}

	if in.Name != nil {
		t.Name = *in.Name
	}
	if in.Status != nil {
		t.Status = entity.TenantStatus(*in.Status)
	}
	if in.SubscriptionPlan != nil || in.MaxUsers != nil || in.MaxProjects != nil {
		var plan *entity.Plan
		if in.SubscriptionPlan != nil {
			pl := entity.Plan(*in.SubscriptionPlan)
			plan = &pl
		}
		limits, err := uc.enforcer.ResolveLimits(t, plan, in.MaxUsers, in.MaxProjects)
		if err != nil {
			return nil, err
		}
		if plan != nil {
			t.SubscriptionPlan = *plan
		}
		t.MaxUsers, t.MaxProjects = limits.MaxUsers, limits.MaxProjects
	}
	t.UpdatedAt = time.Now()
	if err := uc.tenants.Update(ctx, t); err != nil {
		return nil, err
	}

	uc.emitter.Record(ctx, entity.AuditEvent{
		TenantID:   t.ID,
		UserID:     p.UserID,
		Action:     entity.ActionUpdateTenant,
		EntityType: entity.EntityTenant,
		EntityID:   t.ID,
	})
	return toTenantResponse(t), nil
}

func tenantResource(t *entity.Tenant) access.Resource {
	return access.Resource{Kind: access.KindTenant, ID: t.ID, TenantID: t.ID}
}
