package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/taskhub-api/internal/application/dto"
	"github.com/jhoicas/taskhub-api/internal/application/usecase"
)

// TaskHandler tareas de un proyecto.
type TaskHandler struct {
	uc *usecase.TaskUseCase
}

func NewTaskHandler(uc *usecase.TaskUseCase) *TaskHandler {
	return &TaskHandler{uc: uc}
}

// Create godoc
// @Summary      Crear tarea
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  path  string                 true  "ID del proyecto"
// @Param        body       body  dto.CreateTaskRequest  true  "tarea"
// @Success      201  {object}  dto.TaskResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/projects/{projectId}/tasks [post]
func (h *TaskHandler) Create(c *fiber.Ctx) error {
	id, err := pathID(c, "projectId")
	if err != nil {
		return err
	}
	var in dto.CreateTaskRequest
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
// @Summary      Listar tareas del proyecto
// @Description  Orden: prioridad, fecha de vencimiento (sin fecha al final), creación.
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        projectId   path   string  true   "ID del proyecto"
// @Param        status      query  string  false  "todo, in_progress, completed"
// @Param        assignedTo  query  string  false  "ID del usuario asignado"
// @Param        priority    query  string  false  "low, medium, high"
// @Param        search      query  string  false  "título o descripción"
// @Success      200  {object}  dto.TaskListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/projects/{projectId}/tasks [get]
func (h *TaskHandler) List(c *fiber.Ctx) error {
	id, err := pathID(c, "projectId")
	if err != nil {
		return err
	}
	var q dto.ListTasksQuery
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
// @Summary      Actualizar tarea
// @Description  assignedTo y dueDate aceptan null para limpiar el valor.
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        taskId  path  string                 true  "ID de la tarea"
// @Param        body    body  dto.UpdateTaskRequest  true  "campos a actualizar"
// @Success      200  {object}  dto.TaskResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/tasks/{taskId} [put]
func (h *TaskHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c, "taskId")
	if err != nil {
		return err
	}
	var in dto.UpdateTaskRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody()
	}
	out, err := h.uc.Update(c.UserContext(), GetPrincipal(c), id, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Cambiar estado de la tarea
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        taskId  path  string                       true  "ID de la tarea"
// @Param        body    body  dto.UpdateTaskStatusRequest  true  "estado"
// @Success      200  {object}  dto.TaskStatusResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/tasks/{taskId}/status [patch]
func (h *TaskHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := pathID(c, "taskId")
	if err != nil {
		return err
	}
	var in dto.UpdateTaskStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody()
	}
	out, err := h.uc.UpdateStatus(c.UserContext(), GetPrincipal(c), id, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar tarea
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        taskId  path  string  true  "ID de la tarea"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/tasks/{taskId} [delete]
func (h *TaskHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "taskId")
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), GetPrincipal(c), id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Tarea eliminada"})
}
