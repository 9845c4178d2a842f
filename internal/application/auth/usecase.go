package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/taskhub-api/internal/application/audit"
	"github.com/jhoicas/taskhub-api/internal/application/dto"
	"github.com/jhoicas/taskhub-api/internal/domain"
	"github.com/jhoicas/taskhub-api/internal/domain/access"
	"github.com/jhoicas/taskhub-api/internal/domain/entity"
	"github.com/jhoicas/taskhub-api/internal/domain/quota"
	"github.com/jhoicas/taskhub-api/internal/domain/repository"
	"github.com/jhoicas/taskhub-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// Revoker lista de tokens revocados por jti.
type Revoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Session resultado de autenticar un token: principal reconstruido desde la base
// más los datos del token necesarios para revocarlo.
type Session struct {
	access.Principal
	TokenID   string
	ExpiresAt time.Time
}

// AuthUseCase casos de uso de autenticación: registro de tenant, login, me, logout
// y validación del token en cada petición.
type AuthUseCase struct {
	tenants  repository.TenantRepository
	users    repository.UserRepository
	tx       repository.TxRunner
	enforcer *quota.Enforcer
	guard    *access.Guard
	emitter  audit.Emitter
	revoker  Revoker
	jwtCfg   JWTConfig
	now      func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth. revoker puede ser nil (sin revocación).
func NewAuthUseCase(
	tenants repository.TenantRepository,
	users repository.UserRepository,
	tx repository.TxRunner,
	enforcer *quota.Enforcer,
	guard *access.Guard,
	emitter audit.Emitter,
	revoker Revoker,
	jwtCfg JWTConfig,
) *AuthUseCase {
	return &AuthUseCase{
		tenants:  tenants,
		users:    users,
		tx:       tx,
		enforcer: enforcer,
		guard:    guard,
		emitter:  emitter,
		revoker:  revoker,
		jwtCfg:   jwtCfg,
		now:      time.Now,
	}
}

// RegisterTenant crea el tenant en plan free y su tenant_admin en una sola transacción.
func (uc *AuthUseCase) RegisterTenant(ctx context.Context, in dto.RegisterTenantRequest) (*dto.RegisterTenantResponse, error) {
	in.TenantName = strings.TrimSpace(in.TenantName)
	in.Subdomain = strings.ToLower(strings.TrimSpace(in.Subdomain))
	in.AdminEmail = normalizeEmail(in.AdminEmail)
	in.AdminFullName = strings.TrimSpace(in.AdminFullName)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}

	reserved, err := uc.users.GetSuperAdminByEmail(ctx, in.AdminEmail)
	if err != nil {
		return nil, err
	}
	if reserved != nil {
		return nil, domain.Conflict("Este email está reservado")
	}
	existing, err := uc.tenants.GetBySubdomain(ctx, in.Subdomain)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrSubdomainTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	limits := uc.enforcer.DefaultsFor(entity.PlanFree)
	tenant := &entity.Tenant{
		ID:               uuid.New().String(),
		Name:             in.TenantName,
		Subdomain:        in.Subdomain,
		Status:           entity.TenantActive,
		SubscriptionPlan: entity.PlanFree,
		MaxUsers:         limits.MaxUsers,
		MaxProjects:      limits.MaxProjects,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	admin := &entity.User{
		ID:           uuid.New().String(),
		TenantID:     tenant.ID,
		Email:        in.AdminEmail,
		PasswordHash: string(hash),
		FullName:     in.AdminFullName,
		Role:         entity.RoleTenantAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = uc.tx.WithinTx(ctx, func(r repository.Repos) error {
		if err := r.Tenants.Create(ctx, tenant); err != nil {
			return err
		}
		return r.Users.Create(ctx, admin)
	})
	if err != nil {
		return nil, err
	}

	uc.emitter.Record(ctx, entity.AuditEvent{
		TenantID:   tenant.ID,
		UserID:     admin.ID,
		Action:     entity.ActionRegisterTenant,
		EntityType: entity.EntityTenant,
		EntityID:   tenant.ID,
	})
	return &dto.RegisterTenantResponse{
		TenantID:  tenant.ID,
		Subdomain: tenant.Subdomain,
		AdminUser: ToUserResponse(admin),
	}, nil
}

// Login verifica credenciales dentro del tenant indicado (por subdominio o id).
// Sin tenant busca un super_admin.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	in.Email = normalizeEmail(in.Email)
	in.TenantSubdomain = strings.ToLower(strings.TrimSpace(in.TenantSubdomain))
	in.TenantID = strings.TrimSpace(in.TenantID)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}

	var (
		tenant *entity.Tenant
		err    error
	)
	switch {
	case in.TenantSubdomain != "":
		tenant, err = uc.tenants.GetBySubdomain(ctx, in.TenantSubdomain)
	case in.TenantID != "":
		tenant, err = uc.tenants.GetByID(ctx, in.TenantID)
	}
	if err != nil {
		return nil, err
	}
	if (in.TenantSubdomain != "" || in.TenantID != "") && tenant == nil {
		return nil, domain.ErrTenantNotFound
	}

	var user *entity.User
	if tenant != nil {
		user, err = uc.users.GetByEmailInTenant(ctx, in.Email, tenant.ID)
	} else {
		user, err = uc.users.GetSuperAdminByEmail(ctx, in.Email)
	}
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, domain.ErrDeactivated
	}
	principal := principalOf(user)
	if err := uc.guard.CheckTenantActive(principal, tenant); err != nil {
		return nil, err
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.TenantID, string(user.Role), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	uc.emitter.Record(ctx, entity.AuditEvent{
		TenantID:   user.TenantID,
		UserID:     user.ID,
		Action:     entity.ActionLogin,
		EntityType: entity.EntityUser,
		EntityID:   user.ID,
	})
	return &dto.LoginResponse{
		User:      ToUserResponse(user),
		Token:     token,
		ExpiresIn: uc.jwtCfg.ExpMinutes * 60,
	}, nil
}

// Me devuelve el usuario autenticado con el resumen de su tenant.
func (uc *AuthUseCase) Me(ctx context.Context, p access.Principal) (*dto.MeResponse, error) {
	user, err := uc.users.GetByID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	out := &dto.MeResponse{UserResponse: ToUserResponse(user)}
	if user.TenantID == "" {
		return out, nil
	}
	tenant, err := uc.tenants.GetByID(ctx, user.TenantID)
	if err != nil {
		return nil, err
	}
	if tenant != nil {
		out.Tenant = &dto.TenantBrief{
			ID:               tenant.ID,
			Name:             tenant.Name,
			Subdomain:        tenant.Subdomain,
			Status:           string(tenant.Status),
			SubscriptionPlan: string(tenant.SubscriptionPlan),
			MaxUsers:         tenant.MaxUsers,
			MaxProjects:      tenant.MaxProjects,
		}
	}
	return out, nil
}

// Logout revoca el token hasta su vencimiento y registra el evento.
func (uc *AuthUseCase) Logout(ctx context.Context, s Session) error {
	if uc.revoker != nil && s.TokenID != "" {
		ttl := s.ExpiresAt.Sub(uc.now())
		if ttl > 0 {
			if err := uc.revoker.Revoke(ctx, s.TokenID, ttl); err != nil {
				return fmt.Errorf("revocar token: %w", err)
			}
		}
	}
	uc.emitter.Record(ctx, entity.AuditEvent{
		TenantID:   s.TenantID,
		UserID:     s.UserID,
		Action:     entity.ActionLogout,
		EntityType: entity.EntityUser,
		EntityID:   s.UserID,
	})
	return nil
}

// Authenticate valida el token y reconstruye el principal desde el usuario vivo.
// Rol y tenant salen de la base, no del token.
func (uc *AuthUseCase) Authenticate(ctx context.Context, token string) (*Session, error) {
	claims, err := jwt.Parse(uc.jwtCfg.Secret, token)
	if err != nil {
		if errors.Is(err, jwt.ErrExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrInvalidToken
	}
	if claims.UserID == "" {
		return nil, domain.ErrInvalidToken
	}
	if uc.revoker != nil && claims.ID != "" {
		revoked, err := uc.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("consultar revocación: %w", err)
		}
		if revoked {
			return nil, domain.ErrTokenRevoked
		}
	}

	user, err := uc.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if !user.IsActive {
		return nil, domain.ErrDeactivated
	}
	principal := principalOf(user)
	if !principal.Valid() {
		return nil, domain.ErrInvalidToken
	}
	if user.TenantID != "" {
		tenant, err := uc.tenants.GetByID(ctx, user.TenantID)
		if err != nil {
			return nil, err
		}
		if tenant == nil {
			return nil, domain.ErrTenantNotFound
		}
		if err := uc.guard.CheckTenantActive(principal, tenant); err != nil {
			return nil, err
		}
	}

	s := &Session{Principal: principal, TokenID: claims.ID}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}

func principalOf(u *entity.User) access.Principal {
	return access.Principal{UserID: u.ID, TenantID: u.TenantID, Role: u.Role}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ToUserResponse convierte la entidad a DTO (sin hash).
func ToUserResponse(u *entity.User) dto.UserResponse {
	var tenantID *string
	if u.TenantID != "" {
		id := u.TenantID
		tenantID = &id
	}
	return dto.UserResponse{
		ID:        u.ID,
		TenantID:  tenantID,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      string(u.Role),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
