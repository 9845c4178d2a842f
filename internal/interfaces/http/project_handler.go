package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/taskhub-api/internal/application/dto"
	"github.com/jhoicas/taskhub-api/internal/application/usecase"
)

// ProjectHandler proyectos del tenant autenticado.
type ProjectHandler struct {
	uc *usecase.ProjectUseCase
}

func NewProjectHandler(uc *usecase.ProjectUseCase) *ProjectHandler {
	return &ProjectHandler{uc: uc}
}

// Create godoc
// @Summary      Crear proyecto
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateProjectRequest  true  "proyecto"
// @Success      201  {object}  dto.ProjectResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/projects [post]
func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProjectRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody()
	}
	out, err := h.uc.Create(c.UserContext(), GetPrincipal(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar proyectos
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        status  query  string  false  "active, archived, completed"
// @Param        search  query  string  false  "nombre o descripción"
// @Param        page    query  int     false  "página"
// @Param        limit   query  int     false  "tamaño de página"
// @Success      200  {object}  dto.ProjectListResponse
// @Router       /api/projects [get]
func (h *ProjectHandler) List(c *fiber.Ctx) error {
	var q dto.ListProjectsQuery
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
// @Summary      Obtener proyecto
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  path  string  true  "ID del proyecto"
// @Success      200  {object}  dto.ProjectResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/projects/{projectId} [get]
func (h *ProjectHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, "projectId")
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
// @Summary      Actualizar proyecto
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  path  string                    true  "ID del proyecto"
// @Param        body       body  dto.UpdateProjectRequest  true  "campos a actualizar"
// @Success      200  {object}  dto.ProjectResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/projects/{projectId} [put]
func (h *ProjectHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c, "projectId")
	if err != nil {
		return err
	}
	var in dto.UpdateProjectRequest
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
// @Summary      Eliminar proyecto y sus tareas
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  path  string  true  "ID del proyecto"
// @Success      200  {object}  dto.MessageResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/projects/{projectId} [delete]
func (h *ProjectHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "projectId")
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), GetPrincipal(c), id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Proyecto eliminado"})
}
