package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/taskhub-api/internal/application/dto"
	"github.com/jhoicas/taskhub-api/internal/application/usecase"
)

// TenantHandler administración de tenants.
type TenantHandler struct {
	uc *usecase.TenantUseCase
}

func NewTenantHandler(uc *usecase.TenantUseCase) *TenantHandler {
	return &TenantHandler{uc: uc}
}

// List godoc
// @Summary      Listar tenants (super admin)
// @Tags         tenants
// @Produce      json
// @Security     BearerAuth
// @Param        status  query  string  false  "active, suspended, trial"
// @Param        plan    query  string  false  "free, pro, enterprise"
// @Param        page    query  int     false  "página"
// @Param        limit   query  int     false  "tamaño de página"
// @Success      200  {object}  dto.TenantListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/tenants [get]
func (h *TenantHandler) List(c *fiber.Ctx) error {
	var q dto.ListTenantsQuery
	if err := c.QueryParser(&q); err != nil {
		return badQuery()
	}
	out, err := h.uc.List(c.UserContext(), GetPrincipal(c), q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener tenant con estadísticas
// @Tags         tenants
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del tenant"
// @Success      200  {object}  dto.TenantResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/tenants/{id} [get]
func (h *TenantHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.uc.Get(c.UserContext(), GetPrincipal(c), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar tenant
// @Description  Plan, estado y límites solo los cambia el super admin.
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                   true  "ID del tenant"
// @Param        body  body  dto.UpdateTenantRequest  true  "campos a actualizar"
// @Success      200  {object}  dto.TenantResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/tenants/{id} [put]
func (h *TenantHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var in dto.UpdateTenantRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody()
	}
	out, err := h.uc.Update(c.UserContext(), GetPrincipal(c), id, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
