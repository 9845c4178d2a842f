package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger dependencia verificable por el health check (pool de Postgres).
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse respuesta de GET /health.
type HealthResponse struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	Cache     string    `json:"cache,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthHandler reporta el estado del proceso, la base de datos y Redis.
// Sin base el servicio no atiende (503); sin Redis sigue en modo degradado.
type HealthHandler struct {
	db    Pinger
	cache Pinger
}

// NewHealthHandler db nil = almacenamiento en memoria; cache nil = sin revocación.
func NewHealthHandler(db, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// Check godoc
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  HealthResponse
// @Failure      503  {object}  HealthResponse
// @Router       /health [get]
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	resp := HealthResponse{Status: "ok", Database: "memory", Timestamp: time.Now().UTC()}
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	if h.cache != nil {
		resp.Cache = "connected"
		if err := h.cache.Ping(ctx); err != nil {
			resp.Status = "degraded"
			resp.Cache = "disconnected"
		}
	}
	if h.db != nil {
		resp.Database = "connected"
		if err := h.db.Ping(ctx); err != nil {
			resp.Status = "error"
			resp.Database = "disconnected"
			return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
		}
	}
	return c.JSON(resp)
}
