package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/taskhub-api/internal/application/audit"
	"github.com/jhoicas/taskhub-api/internal/application/auth"
	"github.com/jhoicas/taskhub-api/internal/application/dto"
	"github.com/jhoicas/taskhub-api/internal/domain"
	"github.com/jhoicas/taskhub-api/internal/domain/access"
	"github.com/jhoicas/taskhub-api/internal/domain/entity"
	"github.com/jhoicas/taskhub-api/internal/domain/quota"
	"github.com/jhoicas/taskhub-api/internal/domain/repository"
)

const defaultUserPageSize = 50

// UserUseCase aplica reglas de negocio para usuarios de un tenant.
type UserUseCase struct {
	tx       repository.TxRunner
	users    repository.UserRepository
	tenants  repository.TenantRepository
	guard    *access.Guard
	enforcer *quota.Enforcer
	emitter  audit.Emitter
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(
	tx repository.TxRunner,
	users repository.UserRepository,
	tenants repository.TenantRepository,
	guard *access.Guard,
	enforcer *quota.Enforcer,
	emitter audit.Emitter,
) *UserUseCase {
	return &UserUseCase{tx: tx, users: users, tenants: tenants, guard: guard, enforcer: enforcer, emitter: emitter}
}

// Create da de alta un usuario en el tenant respetando el límite del plan.
// Conteo e inserción corren en la transacción que bloquea la fila del tenant.
func (uc *UserUseCase) Create(ctx context.Context, p access.Principal, tenantID string, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FullName = strings.TrimSpace(in.FullName)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	t, err := uc.tenants.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrTenantNotFound
	}
	if err := uc.guard.Decide(p, access.Request{
		Action:   access.ActionCreate,
		Resource: access.Resource{Kind: access.KindUser, TenantID: t.ID},
	}); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	role := entity.RoleUser
	if in.Role != "" {
		role = entity.Role(in.Role)
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		TenantID:     t.ID,
		Email:        in.Email,
		PasswordHash: string(hash),
		FullName:     in.FullName,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = uc.tx.WithinTx(ctx, func(r repository.Repos) error {
		locked, err := r.Tenants.LockByID(ctx, t.ID)
		if err != nil {
			return err
		}
		if err := uc.enforcer.CheckCreate(ctx, r.Users, locked, quota.KindUser); err != nil {
			return err
		}
		existing, err := r.Users.GetByEmailInTenant(ctx, user.Email, t.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrEmailAlreadyExists
		}
		return r.Users.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	uc.emitter.Record(ctx, entity.AuditEvent{
		TenantID:   t.ID,
		UserID:     p.UserID,
		Action:     entity.ActionCreateUser,
		EntityType: entity.EntityUser,
		EntityID:   user.ID,
	})
	out := auth.ToUserResponse(user)
	return &out, nil
}

// List usuarios del tenant con búsqueda por nombre o email y filtro de rol.
func (uc *UserUseCase) List(ctx context.Context, p access.Principal, tenantID string, q dto.ListUsersQuery) (*dto.UserListResponse, error) {
	if err := dto.Validate(q); err != nil {
		return nil, err
	}
	t, err := uc.tenants.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrTenantNotFound
	}
	if err := uc.guard.Decide(p, access.Request{
		Action:   access.ActionList,
		Resource: access.Resource{Kind: access.KindUser, TenantID: t.ID},
	}); err != nil {
		return nil, err
	}
	pg := q.PageRequest.Normalize(defaultUserPageSize)
	list, total, err := uc.users.List(ctx, entity.UserFilter{
		TenantID: t.ID,
		Search:   strings.TrimSpace(q.Search),
		Role:     entity.Role(q.Role),
		Limit:    pg.Limit,
		Offset:   pg.Offset(),
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, auth.ToUserResponse(u))
	}
	return &dto.UserListResponse{Users: items, Total: total, Pagination: dto.NewPagination(pg, total)}, nil
}

// Update aplica una actualización parcial. Nadie cambia su propio rol ni su estado.
func (uc *UserUseCase) Update(ctx context.Context, p access.Principal, userID string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if in.FullName != nil {
		name := strings.TrimSpace(*in.FullName)
		in.FullName = &name
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.Empty() {
		return nil, errNoFields
	}
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := uc.guard.Decide(p, access.Request{
		Action:   access.ActionUpdate,
		Resource: access.Resource{Kind: access.KindUser, ID: user.ID, TenantID: user.TenantID},
		Fields:   access.Fields{Role: in.Role != nil, IsActive: in.IsActive != nil},
	}); err != nil {
		return nil, err
	}

	if in.FullName != nil {
		user.FullName = *in.FullName
	}
	if in.Role != nil {
		user.Role = entity.Role(*in.Role)
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	user.UpdatedAt = time.Now()
	if err := uc.users.Update(ctx, user); err != nil {
		return nil, err
	}

	uc.emitter.Record(ctx, entity.AuditEvent{
		TenantID:   user.TenantID,
		UserID:     p.UserID,
		Action:     entity.ActionUpdateUser,
		EntityType: entity.EntityUser,
		EntityID:   user.ID,
	})
	out := auth.ToUserResponse(user)
	return &out, nil
}

// Delete elimina un usuario y deja sin asignar sus tareas, en una transacción.
func (uc *UserUseCase) Delete(ctx context.Context, p access.Principal, userID string) error {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if err := uc.guard.Decide(p, access.Request{
		Action:   access.ActionDelete,
		Resource: access.Resource{Kind: access.KindUser, ID: user.ID, TenantID: user.TenantID},
	}); err != nil {
		return err
	}
	err = uc.tx.WithinTx(ctx, func(r repository.Repos) error {
		if err := r.Tasks.UnassignUser(ctx, user.ID); err != nil {
			return err
		}
		return r.Users.Delete(ctx, user.ID)
	})
	if err != nil {
		return err
	}

	uc.emitter.Record(ctx, entity.AuditEvent{
		TenantID:   user.TenantID,
		UserID:     p.UserID,
		Action:     entity.ActionDeleteUser,
		EntityType: entity.EntityUser,
		EntityID:   user.ID,
	})
	return nil
}
