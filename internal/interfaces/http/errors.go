package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/taskhub-api/internal/application/dto"
	"github.com/jhoicas/taskhub-api/internal/domain"
	"github.com/jhoicas/taskhub-api/internal/domain/quota"
	"github.com/jhoicas/taskhub-api/pkg/logger"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// Orden importa: los sentinels específicos antes que los genéricos.
var errorTable = []errorMapping{
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrInvalidCredentials, fiber.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{domain.ErrTokenExpired, fiber.StatusUnauthorized, "TOKEN_EXPIRED"},
	{domain.ErrTokenRevoked, fiber.StatusUnauthorized, "TOKEN_REVOKED"},
	{domain.ErrInvalidToken, fiber.StatusUnauthorized, "INVALID_TOKEN"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrDeactivated, fiber.StatusForbidden, "ACCOUNT_DEACTIVATED"},
	{domain.ErrTenantSuspended, fiber.StatusForbidden, "TENANT_SUSPENDED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrTenantNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
	{domain.ErrSubdomainTaken, fiber.StatusConflict, "SUBDOMAIN_TAKEN"},
	{domain.ErrDuplicate, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
}

// resolveError traduce un error de dominio a estado HTTP y cuerpo de error.
// ok=false significa error no esperado (500).
func resolveError(err error) (int, dto.ErrorResponse, bool) {
	var limit *quota.LimitError
	if errors.As(err, &limit) {
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "LIMIT_REACHED", Message: limit.Error()}, true
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, dto.ErrorResponse{Code: fiberCode(fe.Code), Message: fe.Message}, true
	}
	for _, m := range errorTable {
		if errors.Is(err, m.target) {
			return m.status, dto.ErrorResponse{Code: m.code, Message: messageFor(err, m.target)}, true
		}
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "Error interno del servidor"}, false
}

// messageFor usa el motivo propio de DeniedError/ValidationError; para sentinels
// envueltos con contexto técnico devuelve solo el texto del sentinel.
func messageFor(err, target error) string {
	var denied *domain.DeniedError
	if errors.As(err, &denied) {
		return denied.Reason
	}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}
	return target.Error()
}

func fiberCode(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusTooManyRequests:
		return "RATE_LIMITED"
	case fiber.StatusRequestEntityTooLarge:
		return "BODY_TOO_LARGE"
	}
	if status >= 500 {
		return "INTERNAL"
	}
	return "BAD_REQUEST"
}

// NewErrorHandler ErrorHandler de Fiber: toda ruta devuelve el error y aquí se
// escribe el cuerpo {code, message}. Los 500 se registran con el error original.
func NewErrorHandler(log *logger.Logger, metrics *Metrics) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, body, known := resolveError(err)
		if !known {
			log.Error().Err(err).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Str("request_id", requestID(c)).
				Msg("error no controlado")
		}
		if metrics != nil {
			metrics.errors.WithLabelValues(body.Code).Inc()
		}
		return c.Status(status).JSON(body)
	}
}

func badBody() error {
	return domain.Invalid("Cuerpo de la petición inválido")
}

func badQuery() error {
	return domain.Invalid("Parámetros de consulta inválidos")
}

// pathID lee un identificador de la ruta y exige formato UUID antes de consultar el almacén.
func pathID(c *fiber.Ctx, name string) (string, error) {
	id := c.Params(name)
	if err := dto.Validate(dto.PathID{ID: id}); err != nil {
		return "", domain.Invalid(name + " debe ser un UUID")
	}
	return id, nil
}
