package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taskhub-api/internal/application/dto"
	"github.com/jhoicas/taskhub-api/internal/domain"
	"github.com/jhoicas/taskhub-api/internal/domain/entity"
	"github.com/jhoicas/taskhub-api/internal/domain/quota"
)

func newUserReq(email string) dto.CreateUserRequest {
	return dto.CreateUserRequest{Email: email, Password: "Secreta123", FullName: "Nuevo Usuario"}
}

func TestUserCreate_AdminConRolPorDefecto(t *testing.T) {
	e := newEnv(t)
	a := e.seedTenant(t, "acme")
	admin := e.seedUser(t, a, entity.RoleTenantAdmin)

	out, err := e.users.Create(context.Background(), admin, a, newUserReq("Nuevo@Acme.co "))
	require.NoError(t, err)
	assert.Equal(t, "nuevo@acme.co", out.Email)
	assert.Equal(t, "user", out.Role)
	assert.True(t, out.IsActive)
	assert.Equal(t, entity.ActionCreateUser, e.rec.last().Action)

	_, err = e.users.Create(context.Background(), admin, a, newUserReq("nuevo@acme.co"))
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestUserCreate_UserNormalYOtroTenant(t *testing.T) {
	e := newEnv(t)
	a := e.seedTenant(t, "acme")
	b := e.seedTenant(t, "beta")
	user := e.seedUser(t, a, entity.RoleUser)
	adminB := e.seedUser(t, b, entity.RoleTenantAdmin)
	ctx := context.Background()

	_, err := e.users.Create(ctx, user, a, newUserReq("x@acme.co"))
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = e.users.Create(ctx, adminB, a, newUserReq("x@acme.co"))
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUserCreate_LimiteDelPlan(t *testing.T) {
	e := newEnv(t)
	a := e.seedTenant(t, "acme")
	admin := e.seedUser(t, a, entity.RoleTenantAdmin)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := e.users.Create(ctx, admin, a, newUserReq(fmt.Sprintf("u%d@acme.co", i)))
		require.NoError(t, err)
	}
	_, err := e.users.Create(ctx, admin, a, newUserReq("sobra@acme.co"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	var le *quota.LimitError
	assert.ErrorAs(t, err, &le)
	assert.Contains(t, err.Error(), "Máximo 5 usuarios")
}

func TestUserCreate_ConcurrenteNoSuperaElLimite(t *testing.T) {
	e := newEnv(t)
	a := e.seedTenant(t, "acme")
	admin := e.seedUser(t, a, entity.RoleTenantAdmin)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = e.users.Create(ctx, admin, a, newUserReq(fmt.Sprintf("c%d@acme.co", i)))
		}(i)
	}
	wg.Wait()

	n, err := e.store.Repos().Users.CountByTenant(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestUserList_BusquedaYAislamiento(t *testing.T) {
	e := newEnv(t)
	a := e.seedTenant(t, "acme")
	b := e.seedTenant(t, "beta")
	admin := e.seedUser(t, a, entity.RoleTenantAdmin)
	userA := e.seedUser(t, a, entity.RoleUser)
	userB := e.seedUser(t, b, entity.RoleUser)
	ctx := context.Background()

	out, err := e.users.List(ctx, userA, a, dto.ListUsersQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Total)

	out, err = e.users.List(ctx, admin, a, dto.ListUsersQuery{Role: "tenant_admin"})
	require.NoError(t, err)
	require.Len(t, out.Users, 1)
	assert.Equal(t, admin.UserID, out.Users[0].ID)

	_, err = e.users.List(ctx, userB, a, dto.ListUsersQuery{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUserUpdate_Autoproteccion(t *testing.T) {
	e := newEnv(t)
	a := e.seedTenant(t, "acme")
	admin := e.seedUser(t, a, entity.RoleTenantAdmin)
	user := e.seedUser(t, a, entity.RoleUser)
	ctx := context.Background()

	out, err := e.users.Update(ctx, user, user.UserID, dto.UpdateUserRequest{FullName: strPtr("Nombre Propio")})
	require.NoError(t, err)
	assert.Equal(t, "Nombre Propio", out.FullName)

	_, err = e.users.Update(ctx, admin, admin.UserID, dto.UpdateUserRequest{Role: strPtr("user")})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	f := false
	_, err = e.users.Update(ctx, admin, admin.UserID, dto.UpdateUserRequest{IsActive: &f})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	out, err = e.users.Update(ctx, admin, user.UserID, dto.UpdateUserRequest{Role: strPtr("tenant_admin"), IsActive: &f})
	require.NoError(t, err)
	assert.Equal(t, "tenant_admin", out.Role)
	assert.False(t, out.IsActive)

	_, err = e.users.Update(ctx, admin, "no-existe", dto.UpdateUserRequest{FullName: strPtr("Xx")})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserDelete_NuncaASiMismoYDesasignaTareas(t *testing.T) {
	e := newEnv(t)
	a := e.seedTenant(t, "acme")
	admin := e.seedUser(t, a, entity.RoleTenantAdmin)
	user := e.seedUser(t, a, entity.RoleUser)
	super := e.seedUser(t, "", entity.RoleSuperAdmin)
	ctx := context.Background()

	assert.ErrorIs(t, e.users.Delete(ctx, admin, admin.UserID), domain.ErrForbidden)
	assert.ErrorIs(t, e.users.Delete(ctx, super, super.UserID), domain.ErrForbidden, "ni siquiera super_admin")
	assert.ErrorIs(t, e.users.Delete(ctx, user, admin.UserID), domain.ErrForbidden)

	project, err := e.projects.Create(ctx, admin, dto.CreateProjectRequest{Name: "Proyecto"})
	require.NoError(t, err)
	task, err := e.tasks.Create(ctx, admin, project.ID, dto.CreateTaskRequest{Title: "Tarea", AssignedTo: strPtr(user.UserID)})
	require.NoError(t, err)
	require.NotNil(t, task.AssignedTo)

	require.NoError(t, e.users.Delete(ctx, admin, user.UserID))
	got, err := e.store.Repos().Tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Nil(t, got.AssignedTo)
	assert.Equal(t, entity.ActionDeleteUser, e.rec.last().Action)
}
