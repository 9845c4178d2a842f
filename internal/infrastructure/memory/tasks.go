package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/taskhub-api/internal/domain"
	"github.com/jhoicas/taskhub-api/internal/domain/entity"
	"github.com/jhoicas/taskhub-api/internal/domain/repository"
)

// TaskRepo implementa repository.TaskRepository.
type TaskRepo struct {
	s    *Store
	undo *undoLog
}

var _ repository.TaskRepository = TaskRepo{}

func (r TaskRepo) Create(_ context.Context, t *entity.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.projects[t.ProjectID]; !ok {
		return domain.Invalid("El proyecto o el usuario asignado no existen")
	}
	if t.AssignedTo != nil {
		if _, ok := r.s.users[*t.AssignedTo]; !ok {
			return domain.Invalid("El proyecto o el usuario asignado no existen")
		}
	}
	keep(r.undo, r.s.tasks, t.ID)
	r.s.tasks[t.ID] = *t
	return nil
}

func (r TaskRepo) GetByID(_ context.Context, id string) (*entity.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.tasks[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r TaskRepo) Update(_ context.Context, t *entity.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tasks[t.ID]; !ok {
		return domain.ErrNotFound
	}
	if t.AssignedTo != nil {
		if _, ok := r.s.users[*t.AssignedTo]; !ok {
			return domain.Invalid("El usuario asignado no existe")
		}
	}
	keep(r.undo, r.s.tasks, t.ID)
	r.s.tasks[t.ID] = *t
	return nil
}

func (r TaskRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tasks[id]; !ok {
		return domain.ErrNotFound
	}
	keep(r.undo, r.s.tasks, id)
	delete(r.s.tasks, id)
	return nil
}

var priorityRank = map[entity.TaskPriority]int{
	entity.PriorityHigh:   1,
	entity.PriorityMedium: 2,
	entity.PriorityLow:    3,
}

// taskLess orden del listado: prioridad, vencimiento (nulos al final), creación descendente.
func taskLess(a, b entity.Task) bool {
	if ra, rb := priorityRank[a.Priority], priorityRank[b.Priority]; ra != rb {
		return ra < rb
	}
	switch {
	case a.DueDate != nil && b.DueDate == nil:
		return true
	case a.DueDate == nil && b.DueDate != nil:
		return false
	case a.DueDate != nil && b.DueDate != nil && !a.DueDate.Equal(*b.DueDate):
		return a.DueDate.Before(*b.DueDate)
	}
	return newer(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
}

func (r TaskRepo) List(_ context.Context, f entity.TaskFilter) ([]entity.TaskSummary, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]entity.TaskSummary, 0)
	for _, t := range r.s.tasks {
		if t.ProjectID != f.ProjectID {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.Priority != "" && t.Priority != f.Priority {
			continue
		}
		if f.AssignedTo != "" && (t.AssignedTo == nil || *t.AssignedTo != f.AssignedTo) {
			continue
		}
		if f.Search != "" && !contains(t.Title, f.Search) {
			continue
		}
		s := entity.TaskSummary{Task: t}
		if t.AssignedTo != nil {
			if u, ok := r.s.users[*t.AssignedTo]; ok {
				s.Assignee = &entity.Assignee{ID: u.ID, FullName: u.FullName, Email: u.Email}
			}
		}
		list = append(list, s)
	}
	sort.SliceStable(list, func(i, j int) bool { return taskLess(list[i].Task, list[j].Task) })
	return page(list, f.Limit, f.Offset), len(list), nil
}

func (r TaskRepo) UnassignUser(_ context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for k, t := range r.s.tasks {
		if t.AssignedTo != nil && *t.AssignedTo == userID {
			keep(r.undo, r.s.tasks, k)
			t.AssignedTo = nil
			r.s.tasks[k] = t
		}
	}
	return nil
}
