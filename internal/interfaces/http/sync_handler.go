package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cuentas-api/internal/application/dto"
	"github.com/jhoicas/cuentas-api/internal/application/usecase"
)

// SyncHandler expone el disparo y consulta de la sincronización de cuentas.
type SyncHandler struct {
	uc *usecase.SyncUseCase
}

// NewSyncHandler construye el handler.
func NewSyncHandler(uc *usecase.SyncUseCase) *SyncHandler {
	return &SyncHandler{uc: uc}
}

// TriggerSync godoc
// @Summary      Disparar sincronización de la hoja
// @Tags         sync
// @Produce      json
// @Success      202  {object}  dto.TaskResponse
// @Failure      409  {object}  dto.TaskResponse  "ya hay una sincronización en curso"
// @Router       /api/sync [post]
func (h *SyncHandler) TriggerSync(c *fiber.Ctx) error {
	started, task := h.uc.StartSync()
	if !started {
		// No es un error de negocio: se adjunta la tarea en curso para poder sondearla.
		return c.Status(fiber.StatusConflict).JSON(dto.FromTask(task))
	}
	return c.Status(fiber.StatusAccepted).JSON(dto.FromTask(task))
}

// TriggerVerify godoc
// @Summary      Disparar verificación de cuentas borradas
// @Tags         sync
// @Produce      json
// @Success      202  {object}  dto.TaskResponse
// @Failure      409  {object}  dto.TaskResponse
// @Router       /api/sync/verify [post]
func (h *SyncHandler) TriggerVerify(c *fiber.Ctx) error {
	started, task := h.uc.StartVerify()
	if !started {
		return c.Status(fiber.StatusConflict).JSON(dto.FromTask(task))
	}
	return c.Status(fiber.StatusAccepted).JSON(dto.FromTask(task))
}

// Status godoc
// @Summary      Estado de la sincronización
// @Description  Con task_id consulta esa tarea; sin él, la más reciente del tipo (prefiriendo una en curso).
// @Tags         sync
// @Produce      json
// @Param        task_id  query  string  false  "id de tarea"
// @Param        type     query  string  false  "tipo lógico (default sync_sheets)"
// @Success      200  {object}  dto.TaskResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sync/status [get]
func (h *SyncHandler) Status(c *fiber.Ctx) error {
	if taskID := c.Query("task_id"); taskID != "" {
		task, ok := h.uc.Get(taskID)
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "tarea no encontrada"})
		}
		return c.JSON(dto.FromTask(task))
	}

	taskType := c.Query("type", usecase.TaskTypeSync)
	task, ok := h.uc.Latest(taskType)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "sin tareas de ese tipo"})
	}
	return c.JSON(dto.FromTask(task))
}

// List godoc
// @Summary      Listar tareas registradas
// @Tags         sync
// @Produce      json
// @Success      200  {array}  dto.TaskResponse
// @Router       /api/sync/tasks [get]
func (h *SyncHandler) List(c *fiber.Ctx) error {
	return c.JSON(dto.FromTasks(h.uc.List()))
}
