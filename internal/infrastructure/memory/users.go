package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/taskhub-api/internal/domain"
	"github.com/jhoicas/taskhub-api/internal/domain/entity"
	"github.com/jhoicas/taskhub-api/internal/domain/repository"
)

// UserRepo implementa repository.UserRepository.
type UserRepo struct {
	s    *Store
	undo *undoLog
}

var _ repository.UserRepository = UserRepo{}

func (r UserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u.TenantID != "" {
		if _, ok := r.s.tenants[u.TenantID]; !ok {
			return domain.ErrTenantNotFound
		}
	}
	for _, ex := range r.s.users {
		if ex.TenantID == u.TenantID && strings.EqualFold(ex.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	keep(r.undo, r.s.users, u.ID)
	r.s.users[u.ID] = *u
	return nil
}

func (r UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r UserRepo) find(match func(entity.User) bool) *entity.User {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if match(u) {
			u := u
			return &u
		}
	}
	return nil
}

func (r UserRepo) GetByEmailInTenant(_ context.Context, email, tenantID string) (*entity.User, error) {
	return r.find(func(u entity.User) bool {
		return u.TenantID == tenantID && strings.EqualFold(u.Email, email)
	}), nil
}

func (r UserRepo) GetSuperAdminByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u entity.User) bool {
		return u.TenantID == "" && strings.EqualFold(u.Email, email)
	}), nil
}

func (r UserRepo) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.users[u.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	cur.FullName = u.FullName
	cur.Role = u.Role
	cur.IsActive = u.IsActive
	if u.PasswordHash != "" {
		cur.PasswordHash = u.PasswordHash
	}
	cur.UpdatedAt = u.UpdatedAt
	keep(r.undo, r.s.users, u.ID)
	r.s.users[u.ID] = cur
	return nil
}

// Delete elimina el usuario; proyectos creados y tareas asignadas quedan con referencia vacía.
func (r UserRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	keep(r.undo, r.s.users, id)
	delete(r.s.users, id)
	for k, p := range r.s.projects {
		if p.CreatedBy == id {
			keep(r.undo, r.s.projects, k)
			p.CreatedBy = ""
			r.s.projects[k] = p
		}
	}
	for k, t := range r.s.tasks {
		if t.AssignedTo != nil && *t.AssignedTo == id {
			keep(r.undo, r.s.tasks, k)
			t.AssignedTo = nil
			r.s.tasks[k] = t
		}
	}
	return nil
}

func (r UserRepo) List(_ context.Context, f entity.UserFilter) ([]*entity.User, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*entity.User, 0)
	for _, u := range r.s.users {
		if f.TenantID != "" && u.TenantID != f.TenantID {
			continue
		}
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.Search != "" && !contains(u.FullName, f.Search) && !contains(u.Email, f.Search) {
			continue
		}
		u := u
		list = append(list, &u)
	}
	sort.SliceStable(list, func(i, j int) bool { return newer(list[i].CreatedAt, list[j].CreatedAt, list[i].ID, list[j].ID) })
	return page(list, f.Limit, f.Offset), len(list), nil
}

func (r UserRepo) CountByTenant(_ context.Context, tenantID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.countUsers(tenantID), nil
}

func newer(a, b time.Time, idA, idB string) bool {
	if a.Equal(b) {
		return idA > idB
	}
	return a.After(b)
}
