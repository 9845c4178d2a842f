package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/taskhub-api/internal/application/audit"
	"github.com/jhoicas/taskhub-api/internal/application/dto"
	"github.com/jhoicas/taskhub-api/internal/domain"
	"github.com/jhoicas/taskhub-api/internal/domain/access"
	"github.com/jhoicas/taskhub-api/internal/domain/entity"
	"github.com/jhoicas/taskhub-api/internal/domain/quota"
	"github.com/jhoicas/taskhub-api/internal/domain/repository"
)

const defaultProjectPageSize = 20

var errProjectNotFound = domain.NotFound("Proyecto no encontrado")

// ProjectUseCase proyectos del tenant del usuario.
type ProjectUseCase struct {
	tx       repository.TxRunner
	projects repository.ProjectRepository
	guard    *access.Guard
	enforcer *quota.Enforcer
	emitter  audit.Emitter
}

// NewProjectUseCase construye el caso de uso.
func NewProjectUseCase(
	tx repository.TxRunner,
	projects repository.ProjectRepository,
	guard *access.Guard,
	enforcer *quota.Enforcer,
	emitter audit.Emitter,
) *ProjectUseCase {
	return &ProjectUseCase{tx: tx, projects: projects, guard: guard, enforcer: enforcer, emitter: emitter}
}

// Create crea el proyecto en el tenant del principal respetando el límite del plan.
func (uc *ProjectUseCase) Create(ctx context.Context, p access.Principal, in dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if p.TenantID == "" {
		return nil, domain.Forbidden("Los proyectos pertenecen a un tenant")
	}
	if err := uc.guard.Decide(p, access.Request{
		Action:   access.ActionCreate,
		Resource: access.Resource{Kind: access.KindProject, TenantID: p.TenantID},
	}); err != nil {
		return nil, err
	}

	status := entity.ProjectActive
	if in.Status != "" {
		status = entity.ProjectStatus(in.Status)
	}
	now := time.Now()
	project := &entity.Project{
		ID:          uuid.New().String(),
		TenantID:    p.TenantID,
		Name:        in.Name,
		Description: in.Description,
		Status:      status,
		CreatedBy:   p.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	var summary *entity.ProjectSummary
	err := uc.tx.WithinTx(ctx, func(r repository.Repos) error {
		tenant, err := r.Tenants.LockByID(ctx, p.TenantID)
		if err != nil {
			return err
		}
		if err := uc.enforcer.CheckCreate(ctx, r.Projects, tenant, quota.KindProject); err != nil {
			return err
		}
		if err := r.Projects.Create(ctx, project); err != nil {
			return err
		}
		summary, err = r.Projects.GetSummary(ctx, project.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.emitter.Record(ctx, entity.AuditEvent{
		TenantID:   project.TenantID,
		UserID:     p.UserID,
		Action:     entity.ActionCreateProject,
		EntityType: entity.EntityProject,
		EntityID:   project.ID,
	})
	if summary == nil {
		summary = &entity.ProjectSummary{Project: *project}
	}
	out := toProjectResponse(summary)
	return &out, nil
}

// List proyectos visibles para el principal: los de su tenant, o todos para super_admin.
func (uc *ProjectUseCase) List(ctx context.Context, p access.Principal, q dto.ListProjectsQuery) (*dto.ProjectListResponse, error) {
	if err := dto.Validate(q); err != nil {
		return nil, err
	}
	pg := q.PageRequest.Normalize(defaultProjectPageSize)
	list, total, err := uc.projects.List(ctx, entity.ProjectFilter{
		TenantID: uc.guard.ScopeTenant(p),
		Status:   entity.ProjectStatus(q.Status),
		Search:   strings.TrimSpace(q.Search),
		Limit:    pg.Limit,
		Offset:   pg.Offset(),
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProjectResponse, 0, len(list))
	for i := range list {
		items = append(items, toProjectResponse(&list[i]))
	}
	return &dto.ProjectListResponse{Projects: items, Total: total, Pagination: dto.NewPagination(pg, total)}, nil
}

// Get detalle del proyecto.
func (uc *ProjectUseCase) Get(ctx context.Context, p access.Principal, id string) (*dto.ProjectResponse, error) {
	s, err := uc.projects.GetSummary(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, errProjectNotFound
	}
	if err := uc.guard.Decide(p, access.Request{Action: access.ActionRead, Resource: projectResource(&s.Project)}); err != nil {
		return nil, err
	}
	out := toProjectResponse(s)
	return &out, nil
}

// Update actualización parcial: creador, tenant_admin o super_admin.
func (uc *ProjectUseCase) Update(ctx context.Context, p access.Principal, id string, in dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
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
	project, err := uc.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, errProjectNotFound
	}
	if err := uc.guard.Decide(p, access.Request{Action: access.ActionUpdate, Resource: projectResource(project)}); err != nil {
		return nil, err
	}

	if in.Name != nil {
		project.Name = *in.Name
	}
	if in.Description.Set {
		project.Description = in.Description.Value
	}
	if in.Status != nil {
		project.Status = entity.ProjectStatus(*in.Status)
	}
	project.UpdatedAt = time.Now()
	if err := uc.projects.Update(ctx, project); err != nil {
		return nil, err
	}

	uc.emitter.Record(ctx, entity.AuditEvent{
		TenantID:   project.TenantID,
		UserID:     p.UserID,
		Action:     entity.ActionUpdateProject,
		EntityType: entity.EntityProject,
		EntityID:   project.ID,
	})
	// El cambio ya quedó guardado: si falla la lectura de contadores se responde sin ellos.
	s, err := uc.projects.GetSummary(ctx, project.ID)
	if err != nil || s == nil {
		s = &entity.ProjectSummary{Project: *project}
	}
	out := toProjectResponse(s)
	return &out, nil
}

// Delete elimina el proyecto y sus tareas.
func (uc *ProjectUseCase) Delete(ctx context.Context, p access.Principal, id string) error {
	project, err := uc.projects.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if project == nil {
		return errProjectNotFound
	}
	if err := uc.guard.Decide(p, access.Request{Action: access.ActionDelete, Resource: projectResource(project)}); err != nil {
		return err
	}
	if err := uc.projects.Delete(ctx, project.ID); err != nil {
		return err
	}

	uc.emitter.Record(ctx, entity.AuditEvent{
		TenantID:   project.TenantID,
		UserID:     p.UserID,
		Action:     entity.ActionDeleteProject,
		EntityType: entity.EntityProject,
		EntityID:   project.ID,
	})
	return nil
}

func projectResource(p *entity.Project) access.Resource {
	return access.Resource{Kind: access.KindProject, ID: p.ID, TenantID: p.TenantID, CreatedBy: p.CreatedBy}
}
