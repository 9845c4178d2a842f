package usecase

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taskhub-api/internal/application/dto"
	"github.com/jhoicas/taskhub-api/internal/domain"
	"github.com/jhoicas/taskhub-api/internal/domain/access"
	"github.com/jhoicas/taskhub-api/internal/domain/entity"
)

func setupTasks(t *testing.T) (*env, access.Principal, access.Principal, string) {
	t.Helper()
	e := newEnv(t)
	a := e.seedTenant(t, "acme")
	b := e.seedTenant(t, "beta")
	userA := e.seedUser(t, a, entity.RoleUser)
	userB := e.seedUser(t, b, entity.RoleUser)
	p, err := e.projects.Create(context.Background(), userA, dto.CreateProjectRequest{Name: "Proyecto"})
	require.NoError(t, err)
	return e, userA, userB, p.ID
}

func TestTaskCreate_ValoresPorDefecto(t *testing.T) {
	e, userA, _, projectID := setupTasks(t)

	out, err := e.tasks.Create(context.Background(), userA, projectID, dto.CreateTaskRequest{Title: "Escribir"})
	require.NoError(t, err)
	assert.Equal(t, "todo", out.Status)
	assert.Equal(t, "medium", out.Priority)
	assert.Nil(t, out.AssignedTo)
	assert.Equal(t, entity.ActionCreateTask, e.rec.last().Action)
}

// Escenario: asignar a un usuario de otro tenant es VALIDATION y no persiste nada.
func TestTaskCreate_AsignadoDeOtroTenant(t *testing.T) {
	e, userA, userB, projectID := setupTasks(t)
	before := e.rec.count()

	_, err := e.tasks.Create(context.Background(), userA, projectID, dto.CreateTaskRequest{
		Title: "Cruzada", AssignedTo: strPtr(userB.UserID),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, before, e.rec.count())

	out, err := e.tasks.List(context.Background(), userA, projectID, dto.ListTasksQuery{})
	require.NoError(t, err)
	assert.Zero(t, out.Total)
}

func TestTask_OtroTenant(t *testing.T) {
	e, userA, userB, projectID := setupTasks(t)
	ctx := context.Background()
	task, err := e.tasks.Create(ctx, userA, projectID, dto.CreateTaskRequest{Title: "Privada"})
	require.NoError(t, err)

	_, err = e.tasks.Create(ctx, userB, projectID, dto.CreateTaskRequest{Title: "Intrusa"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = e.tasks.List(ctx, userB, projectID, dto.ListTasksQuery{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = e.tasks.Update(ctx, userB, task.ID, dto.UpdateTaskRequest{Title: strPtr("Hack")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = e.tasks.UpdateStatus(ctx, userB, task.ID, dto.UpdateTaskStatusRequest{Status: "completed"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, e.tasks.Delete(ctx, userB, task.ID), domain.ErrNotFound)
}

func TestTaskUpdate_AsignarYDesasignar(t *testing.T) {
	e, userA, _, projectID := setupTasks(t)
	ctx := context.Background()
	other := e.seedUser(t, userA.TenantID, entity.RoleUser)

	task, err := e.tasks.Create(ctx, userA, projectID, dto.CreateTaskRequest{Title: "Compartida"})
	require.NoError(t, err)

	var in dto.UpdateTaskRequest
	require.NoError(t, json.Unmarshal([]byte(`{"assignedTo":"`+other.UserID+`","priority":"high","dueDate":"2026-05-01"}`), &in))
	out, err := e.tasks.Update(ctx, other, task.ID, in)
	require.NoError(t, err, "cualquier miembro del tenant edita tareas")
	require.NotNil(t, out.AssignedTo)
	assert.Equal(t, other.UserID, out.AssignedTo.ID)
	assert.Equal(t, "high", out.Priority)
	require.NotNil(t, out.DueDate)

	in = dto.UpdateTaskRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"assignedTo":null,"dueDate":null}`), &in))
	out, err = e.tasks.Update(ctx, userA, task.ID, in)
	require.NoError(t, err)
	assert.Nil(t, out.AssignedTo)
	assert.Nil(t, out.DueDate)
	assert.Equal(t, "high", out.Priority, "los campos ausentes no cambian")

	_, err = e.tasks.Update(ctx, userA, task.ID, dto.UpdateTaskRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTaskUpdateStatus_YListadoFiltrado(t *testing.T) {
	e, userA, _, projectID := setupTasks(t)
	ctx := context.Background()

	t1, err := e.tasks.Create(ctx, userA, projectID, dto.CreateTaskRequest{Title: "Uno", Priority: "low"})
	require.NoError(t, err)
	_, err = e.tasks.Create(ctx, userA, projectID, dto.CreateTaskRequest{Title: "Dos", Priority: "high"})
	require.NoError(t, err)

	st, err := e.tasks.UpdateStatus(ctx, userA, t1.ID, dto.UpdateTaskStatusRequest{Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, "completed", st.Status)
	assert.Equal(t, entity.ActionUpdateTaskStatus, e.rec.last().Action)

	_, err = e.tasks.UpdateStatus(ctx, userA, t1.ID, dto.UpdateTaskStatusRequest{Status: "done"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	out, err := e.tasks.List(ctx, userA, projectID, dto.ListTasksQuery{})
	require.NoError(t, err)
	require.Len(t, out.Tasks, 2)
	assert.Equal(t, "Dos", out.Tasks[0].Title, "high primero")

	out, err = e.tasks.List(ctx, userA, projectID, dto.ListTasksQuery{Status: "completed"})
	require.NoError(t, err)
	require.Len(t, out.Tasks, 1)
	assert.Equal(t, t1.ID, out.Tasks[0].ID)

	p, err := e.projects.Get(ctx, userA, projectID)
	require.NoError(t, err)
	assert.Equal(t, 2, p.TaskCount)
	assert.Equal(t, 1, p.CompletedTaskCount)
}

func TestTaskDelete(t *testing.T) {
	e, userA, _, projectID := setupTasks(t)
	ctx := context.Background()
	task, err := e.tasks.Create(ctx, userA, projectID, dto.CreateTaskRequest{Title: "Borrar"})
	require.NoError(t, err)

	require.NoError(t, e.tasks.Delete(ctx, userA, task.ID))
	assert.Equal(t, entity.ActionDeleteTask, e.rec.last().Action)
	assert.ErrorIs(t, e.tasks.Delete(ctx, userA, task.ID), domain.ErrNotFound)
}
