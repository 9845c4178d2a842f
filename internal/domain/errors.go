package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrTenantNotFound     = errors.New("tenant no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrSubdomainTaken     = errors.New("el subdominio ya existe")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")

	// Autenticación: cada causa se reporta con un código distinto.
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrInvalidToken       = errors.New("token inválido")
	ErrTokenExpired       = errors.New("token expirado")
	ErrTokenRevoked       = errors.New("token revocado")
	ErrDeactivated        = errors.New("la cuenta está desactivada")
	ErrTenantSuspended    = errors.New("la cuenta del tenant está suspendida")
)

// ValidationError agrupa los mensajes de validación de una petición.
// errors.Is(err, ErrInvalidInput) es verdadero para cualquier ValidationError.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	if len(e.Messages) == 0 {
		return ErrInvalidInput.Error()
	}
	msg := e.Messages[0]
	for _, m := range e.Messages[1:] {
		msg += ", " + m
	}
	return msg
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// Invalid construye un ValidationError con uno o más mensajes.
func Invalid(messages ...string) error {
	return &ValidationError{Messages: messages}
}

// DeniedError es una denegación con mensaje propio. Envuelve ErrForbidden, ErrNotFound
// o ErrConflict para que la capa HTTP elija el código sin conocer la regla que la produjo.
type DeniedError struct {
	Kind   error
	Reason string
}

func (e *DeniedError) Error() string { return e.Reason }

func (e *DeniedError) Unwrap() error { return e.Kind }

// Forbidden devuelve una denegación 403 con el motivo indicado.
func Forbidden(reason string) error {
	return &DeniedError{Kind: ErrForbidden, Reason: reason}
}

// NotFound devuelve una denegación 404 con el motivo indicado.
func NotFound(reason string) error {
	return &DeniedError{Kind: ErrNotFound, Reason: reason}
}

// Conflict devuelve un 409 con el motivo indicado.
func Conflict(reason string) error {
	return &DeniedError{Kind: ErrConflict, Reason: reason}
}
