package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/taskhub-api/internal/application/audit"
	"github.com/jhoicas/taskhub-api/internal/application/auth"
	"github.com/jhoicas/taskhub-api/internal/application/dto"
	"github.com/jhoicas/taskhub-api/internal/domain"
	"github.com/jhoicas/taskhub-api/internal/domain/access"
)

// LocalSession clave de la sesión autenticada en c.Locals.
const LocalSession = "session"

// Authenticator valida el token y reconstruye la sesión. Lo implementa auth.AuthUseCase.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Session, error)
}

// AuthMiddleware valida el Bearer Token y carga la sesión en c.Locals.
// Cada causa de rechazo tiene su propio código.
func AuthMiddleware(authn Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		session, err := authn.Authenticate(c.UserContext(), tokenString)
		if err != nil {
			// Usuario del token inexistente: es un fallo de autenticación, no un 404.
			if errors.Is(err, domain.ErrUserNotFound) {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "USER_NOT_FOUND", Message: "El usuario del token no existe"})
			}
			return err
		}
		c.Locals(LocalSession, session)
		return c.Next()
	}
}

// GetSession devuelve la sesión del contexto (después del middleware de auth).
func GetSession(c *fiber.Ctx) *auth.Session {
	s, _ := c.Locals(LocalSession).(*auth.Session)
	return s
}

// GetPrincipal devuelve el principal autenticado; vacío si no hay sesión.
func GetPrincipal(c *fiber.Ctx) access.Principal {
	if s := GetSession(c); s != nil {
		return s.Principal
	}
	return access.Principal{}
}

// GetUserID devuelve el UserID del contexto.
func GetUserID(c *fiber.Ctx) string { return GetPrincipal(c).UserID }

// GetTenantID devuelve el TenantID del contexto (vacío para super_admin).
func GetTenantID(c *fiber.Ctx) string { return GetPrincipal(c).TenantID }

// GetRole devuelve el rol del contexto.
func GetRole(c *fiber.Ctx) string { return string(GetPrincipal(c).Role) }

// ClientIPMiddleware deja la IP del cliente en el contexto para la auditoría.
// c.IP() solo lee X-Forwarded-For si la petición llega desde un proxy de confianza.
func ClientIPMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.SetUserContext(audit.WithClientIP(c.UserContext(), c.IP()))
		return c.Next()
	}
}
