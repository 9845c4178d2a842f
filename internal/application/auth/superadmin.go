package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/taskhub-api/internal/application/dto"
	"github.com/jhoicas/taskhub-api/internal/domain"
	"github.com/jhoicas/taskhub-api/internal/domain/entity"
	"github.com/jhoicas/taskhub-api/internal/domain/repository"
)

// SeedSuperAdmin crea el super admin si no existe. Es idempotente: con el email ya
// registrado devuelve el usuario existente y created=false sin tocar la contraseña.
func SeedSuperAdmin(ctx context.Context, users repository.UserRepository, email, password, fullName string) (user *entity.User, created bool, err error) {
	email = normalizeEmail(email)
	fullName = strings.TrimSpace(fullName)
	switch {
	case email == "" || !strings.Contains(email, "@"):
		return nil, false, domain.Invalid("Email inválido")
	case !dto.IsStrongPassword(password):
		return nil, false, domain.Invalid("La contraseña debe tener al menos 8 caracteres, con mayúscula, minúscula y número")
	case len(fullName) < 2:
		return nil, false, domain.Invalid("El nombre completo debe tener al menos 2 caracteres")
	}

	existing, err := users.GetSuperAdminByEmail(ctx, email)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, fmt.Errorf("hash password: %w", err)
	}
	now := time.Now().UTC()
	u := &entity.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
		Role:         entity.RoleSuperAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Create(ctx, u); err != nil {
		return nil, false, err
	}
	return u, true, nil
}
