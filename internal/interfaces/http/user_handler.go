package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/taskhub-api/internal/application/dto"
	"github.com/jhoicas/taskhub-api/internal/application/usecase"
)

// UserHandler usuarios de un tenant.
type UserHandler struct {
	uc *usecase.UserUseCase
}

func NewUserHandler(uc *usecase.UserUseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// Create godoc
// @Summary      Crear usuario en el tenant
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        tenantId  path  string                 true  "ID del tenant"
// @Param        body      body  dto.CreateUserRequest  true  "usuario"
// @Success      201  {object}  dto.UserResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/tenants/{tenantId}/users [post]
func (h *UserHandler) Create(c *fiber.Ctx) error {
	id, err := pathID(c, "tenantId")
	if err != nil {
		return err
	}
	var in dto.CreateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody()
	}
	out, err := h.uc.Create(c.UserContext(), GetPrincipal(c), id, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar usuarios del tenant
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        tenantId  path   string  true   "ID del tenant"
// @Param        search    query  string  false  "email o nombre"
// @Param        role      query  string  false  "user, tenant_admin"
// @Success      200  {object}  dto.UserListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/tenants/{tenantId}/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	id, err := pathID(c, "tenantId")
	if err != nil {
		return err
	}
	var q dto.ListUsersQuery
	if err := c.QueryParser(&q); err != nil {
		return badQuery()
	}
	out, err := h.uc.List(c.UserContext(), GetPrincipal(c), id, q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar usuario
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path  string                 true  "ID del usuario"
// @Param        body    body  dto.UpdateUserRequest  true  "campos a actualizar"
// @Success      200  {object}  dto.UserResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/{userId} [put]
func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c, "userId")
	if err != nil {
		return err
	}
	var in dto.UpdateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody()
	}
	out, err := h.uc.Update(c.UserContext(), GetPrincipal(c), id, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar usuario
// @Description  Sus tareas quedan sin asignar.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path  string  true  "ID del usuario"
// @Success      200  {object}  dto.MessageResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/{userId} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "userId")
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), GetPrincipal(c), id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Usuario eliminado"})
}
