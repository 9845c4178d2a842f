package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/taskhub-api/internal/domain"
	"github.com/jhoicas/taskhub-api/internal/domain/entity"
	"github.com/jhoicas/taskhub-api/internal/domain/repository"
)

// ProjectRepo implementa repository.ProjectRepository.
type ProjectRepo struct {
	s    *Store
	undo *undoLog
}

var _ repository.ProjectRepository = ProjectRepo{}

func (r ProjectRepo) Create(_ context.Context, p *entity.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tenants[p.TenantID]; !ok {
		return domain.Invalid("El tenant o el creador no existen")
	}
	if p.CreatedBy != "" {
		if _, ok := r.s.users[p.CreatedBy]; !ok {
			return domain.Invalid("El tenant o el creador no existen")
		}
	}
	keep(r.undo, r.s.projects, p.ID)
	r.s.projects[p.ID] = *p
	return nil
}

func (r ProjectRepo) GetByID(_ context.Context, id string) (*entity.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.projects[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r ProjectRepo) GetSummary(_ context.Context, id string) (*entity.ProjectSummary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.projects[id]
	if !ok {
		return nil, nil
	}
	s := r.s.summarize(p)
	return &s, nil
}

func (s *Store) summarize(p entity.Project) entity.ProjectSummary {
	out := entity.ProjectSummary{Project: p}
	if u, ok := s.users[p.CreatedBy]; ok {
		out.CreatorName = u.FullName
	}
	for _, t := range s.tasks {
		if t.ProjectID != p.ID {
			continue
		}
		out.TaskCount++
		if t.Status == entity.TaskCompleted {
			out.CompletedTaskCount++
		}
	}
	return out
}

func (r ProjectRepo) Update(_ context.Context, p *entity.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.projects[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Name = p.Name
	cur.Description = p.Description
	cur.Status = p.Status
	cur.UpdatedAt = p.UpdatedAt
	keep(r.undo, r.s.projects, p.ID)
	r.s.projects[p.ID] = cur
	return nil
}

// Delete elimina el proyecto y sus tareas.
func (r ProjectRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.projects[id]; !ok {
		return domain.ErrNotFound
	}
	keep(r.undo, r.s.projects, id)
	delete(r.s.projects, id)
	for k, t := range r.s.tasks {
		if t.ProjectID == id {
			keep(r.undo, r.s.tasks, k)
			delete(r.s.tasks, k)
		}
	}
	return nil
}

func (r ProjectRepo) List(_ context.Context, f entity.ProjectFilter) ([]entity.ProjectSummary, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]entity.ProjectSummary, 0)
	for _, p := range r.s.projects {
		if f.TenantID != "" && p.TenantID != f.TenantID {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.Search != "" && !contains(p.Name, f.Search) {
			continue
		}
		list = append(list, r.s.summarize(p))
	}
	sort.SliceStable(list, func(i, j int) bool { return newer(list[i].CreatedAt, list[j].CreatedAt, list[i].ID, list[j].ID) })
	return page(list, f.Limit, f.Offset), len(list), nil
}

func (r ProjectRepo) CountByTenant(_ context.Context, tenantID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.countProjects(tenantID), nil
}
