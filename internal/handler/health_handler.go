package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports per-mode liveness. Neither endpoint solves anything;
// they only confirm the process is up and the mode is wired.
type HealthHandler struct{}

// NewHealthHandler constructs the health handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// AO godoc
// @Summary AÖ mode liveness
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health/ao [get]
func (h *HealthHandler) AO(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "mode": "ao"})
}

// NA godoc
// @Summary NA mode liveness
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health/na [get]
func (h *HealthHandler) NA(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "mode": "na"})
}
