package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/roster-scheduler-api/internal/dto"
	appErrors "github.com/noah-isme/roster-scheduler-api/pkg/errors"
	"github.com/noah-isme/roster-scheduler-api/pkg/response"
)

type naGenerator interface {
	Generate(ctx context.Context, req dto.GenerateNARequest) (*dto.GenerateNAResponse, error)
}

// NAHandler exposes the NA (morning/evening split) rostering endpoint.
type NAHandler struct {
	service naGenerator
}

// NewNAHandler constructs the NA handler.
func NewNAHandler(svc naGenerator) *NAHandler {
	return &NAHandler{service: svc}
}

// Generate godoc
// @Summary Generate an NA (morning/evening A-shift) roster proposal
// @Tags Scheduler
// @Accept json
// @Produce json
// @Param payload body dto.GenerateNARequest true "Generate NA roster payload"
// @Success 200 {object} response.Envelope
// @Router /schedules/na/generate [post]
func (h *NAHandler) Generate(c *gin.Context) {
	var req dto.GenerateNARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid NA generate payload"))
		return
	}
	result, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
