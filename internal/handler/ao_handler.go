package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/roster-scheduler-api/internal/dto"
	appErrors "github.com/noah-isme/roster-scheduler-api/pkg/errors"
	"github.com/noah-isme/roster-scheduler-api/pkg/response"
)

type aoGenerator interface {
	Generate(ctx context.Context, req dto.GenerateAORequest) (*dto.GenerateAOResponse, error)
}

// AOHandler exposes the AÖ rostering endpoint.
type AOHandler struct {
	service aoGenerator
}

// NewAOHandler constructs the AÖ handler.
func NewAOHandler(svc aoGenerator) *AOHandler {
	return &AOHandler{service: svc}
}

// Generate godoc
// @Summary Generate an AÖ (6-duty-type) roster proposal
// @Tags Scheduler
// @Accept json
// @Produce json
// @Param payload body dto.GenerateAORequest true "Generate AÖ roster payload"
// @Success 200 {object} response.Envelope
// @Router /schedules/ao/generate [post]
func (h *AOHandler) Generate(c *gin.Context) {
	var req dto.GenerateAORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid AÖ generate payload"))
		return
	}
	result, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
