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
	"github.com/jhoicas/taskhub-api/internal/domain/repository"
)

const defaultTaskPageSize = 50

var errTaskNotFound = domain.NotFound("Tarea no encontrada")

// TaskUseCase tareas de los proyectos. El tenant de la tarea es siempre el del proyecto.
type TaskUseCase struct {
	tasks    repository.TaskRepository
	projects repository.ProjectRepository
	users    repository.UserRepository
	guard    *access.Guard
	emitter  audit.Emitter
}

// NewTaskUseCase construye el caso de uso.
func NewTaskUseCase(
	tasks repository.TaskRepository,
	projects repository.ProjectRepository,
	users repository.UserRepository,
	guard *access.Guard,
	emitter audit.Emitter,
) *TaskUseCase {
	return &TaskUseCase{tasks: tasks, projects: projects, users: users, guard: guard, emitter: emitter}
}

// Create crea una tarea en estado todo. El asignado debe pertenecer al tenant del proyecto.
func (uc *TaskUseCase) Create(ctx context.Context, p access.Principal, projectID string, in dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.AssignedTo != nil && strings.TrimSpace(*in.AssignedTo) == "" {
		in.AssignedTo = nil
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	project, err := uc.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, errProjectNotFound
	}
	if err := uc.guard.Decide(p, access.Request{
		Action:   access.ActionCreate,
		Resource: access.Resource{Kind: access.KindTask, ID: project.ID, TenantID: project.TenantID},
	}); err != nil {
		return nil, err
	}
	assignee, err := uc.resolveAssignee(ctx, in.AssignedTo, project.TenantID)
	if err != nil {
		return nil, err
	}

	priority := entity.PriorityMedium
	if in.Priority != "" {
		priority = entity.TaskPriority(in.Priority)
	}
	now := time.Now()
	task := &entity.Task{
		ID:          uuid.New().String(),
		ProjectID:   project.ID,
		TenantID:    project.TenantID,
		Title:       in.Title,
		Description: in.Description,
		Status:      entity.TaskTodo,
		Priority:    priority,
		AssignedTo:  in.AssignedTo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.DueDate != nil {
		d := in.DueDate.Time
		task.DueDate = &d
	}
	if err := uc.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	uc.emitter.Record(ctx, entity.AuditEvent{
		TenantID:   task.TenantID,
		UserID:     p.UserID,
		Action:     entity.ActionCreateTask,
		EntityType: entity.EntityTask,
		EntityID:   task.ID,
	})
	out := toTaskResponse(task, assignee)
	return &out, nil
}

// List tareas del proyecto con filtros.
func (uc *TaskUseCase) List(ctx context.Context, p access.Principal, projectID string, q dto.ListTasksQuery) (*dto.TaskListResponse, error) {
	if err := dto.Validate(q); err != nil {
		return nil, err
	}
	project, err := uc.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, errProjectNotFound
	}
	if err := uc.guard.Decide(p, access.Request{
		Action:   access.ActionList,
		Resource: access.Resource{Kind: access.KindTask, ID: project.ID, TenantID: project.TenantID},
	}); err != nil {
		return nil, err
	}
	pg := q.PageRequest.Normalize(defaultTaskPageSize)
	list, total, err := uc.tasks.List(ctx, entity.TaskFilter{
		ProjectID:  project.ID,
		Status:     entity.TaskStatus(q.Status),
		AssignedTo: q.AssignedTo,
		Priority:   entity.TaskPriority(q.Priority),
		Search:     strings.TrimSpace(q.Search),
		Limit:      pg.Limit,
		Offset:     pg.Offset(),
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.TaskResponse, 0, len(list))
	for i := range list {
		items = append(items, toTaskResponse(&list[i].Task, list[i].Assignee))
	}
	return &dto.TaskListResponse{Tasks: items, Total: total, Pagination: dto.NewPagination(pg, total)}, nil
}

// Update actualización parcial. assignedTo null desasigna la tarea.
func (uc *TaskUseCase) Update(ctx context.Context, p access.Principal, taskID string, in dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		in.Title = &title
	}
	if in.AssignedTo.Value != nil && strings.TrimSpace(*in.AssignedTo.Value) == "" {
		in.AssignedTo.Value = nil
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.Empty() {
		return nil, errNoFields
	}
	task, err := uc.load(ctx, p, taskID, access.ActionUpdate)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		task.Title = *in.Title
	}
	if in.Description.Set {
		task.Description = in.Description.Value
	}
	if in.Status != nil {
		task.Status = entity.TaskStatus(*in.Status)
	}
	if in.Priority != nil {
		task.Priority = entity.TaskPriority(*in.Priority)
	}
	var assignee *entity.Assignee
	if in.AssignedTo.Set {
		assignee, err = uc.resolveAssignee(ctx, in.AssignedTo.Value, task.TenantID)
		if err != nil {
			return nil, err
		}
		task.AssignedTo = in.AssignedTo.Value
	} else if task.AssignedTo != nil {
		assignee, err = uc.resolveAssignee(ctx, task.AssignedTo, task.TenantID)
		if err != nil {
			return nil, err
		}
	}
	if in.DueDate.Set {
		task.DueDate = nil
		if in.DueDate.Value != nil {
			d := in.DueDate.Value.Time
			task.DueDate = &d
		}
	}
	task.UpdatedAt = time.Now()
	if err := uc.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	uc.emitter.Record(ctx, entity.AuditEvent{
		TenantID:   task.TenantID,
		UserID:     p.UserID,
		Action:     entity.ActionUpdateTask,
		EntityType: entity.EntityTask,
		EntityID:   task.ID,
	})
	out := toTaskResponse(task, assignee)
	return &out, nil
}

// UpdateStatus cambia solo el estado.
func (uc *TaskUseCase) UpdateStatus(ctx context.Context, p access.Principal, taskID string, in dto.UpdateTaskStatusRequest) (*dto.TaskStatusResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	task, err := uc.load(ctx, p, taskID, access.ActionUpdate)
	if err != nil {
		return nil, err
	}
	task.Status = entity.TaskStatus(in.Status)
	task.UpdatedAt = time.Now()
	if err := uc.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	uc.emitter.Record(ctx, entity.AuditEvent{
		TenantID:   task.TenantID,
		UserID:     p.UserID,
		Action:     entity.ActionUpdateTaskStatus,
		EntityType: entity.EntityTask,
		EntityID:   task.ID,
	})
	return &dto.TaskStatusResponse{ID: task.ID, Status: string(task.Status), UpdatedAt: task.UpdatedAt}, nil
}

// Delete elimina la tarea.
func (uc *TaskUseCase) Delete(ctx context.Context, p access.Principal, taskID string) error {
	task, err := uc.load(ctx, p, taskID, access.ActionDelete)
	if err != nil {
		return err
	}
	if err := uc.tasks.Delete(ctx, task.ID); err != nil {
		return err
	}

	uc.emitter.Record(ctx, entity.AuditEvent{
		TenantID:   task.TenantID,
		UserID:     p.UserID,
		Action:     entity.ActionDeleteTask,
		EntityType: entity.EntityTask,
		EntityID:   task.ID,
	})
	return nil
}

// load comprueba existencia y luego autorización.
func (uc *TaskUseCase) load(ctx context.Context, p access.Principal, taskID string, action access.Action) (*entity.Task, error) {
	task, err := uc.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, errTaskNotFound
	}
	if err := uc.guard.Decide(p, access.Request{
		Action:   action,
		Resource: access.Resource{Kind: access.KindTask, ID: task.ID, TenantID: task.TenantID},
	}); err != nil {
		return nil, err
	}
	return task, nil
}

// resolveAssignee valida que el usuario exista y sea del tenant indicado. nil = sin asignar.
func (uc *TaskUseCase) resolveAssignee(ctx context.Context, userID *string, tenantID string) (*entity.Assignee, error) {
	if userID == nil {
		return nil, nil
	}
	u, err := uc.users.GetByID(ctx, *userID)
	if err != nil {
		return nil, err
	}
	if u == nil || u.TenantID != tenantID {
		return nil, domain.Invalid("El usuario asignado no pertenece a este tenant")
	}
	return &entity.Assignee{ID: u.ID, FullName: u.FullName, Email: u.Email}, nil
}
