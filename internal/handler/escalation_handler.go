package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campus-desk/complaints-api/internal/models"
	"github.com/campus-desk/complaints-api/pkg/response"
)

type escalationRunner interface {
	RunPass(ctx context.Context, now time.Time) (*models.EscalationResult, error)
}

// EscalationHandler exposes the manual escalation trigger.
type EscalationHandler struct {
	engine escalationRunner
}

// NewEscalationHandler constructs the handler.
func NewEscalationHandler(engine escalationRunner) *EscalationHandler {
	return &EscalationHandler{engine: engine}
}

// Run godoc
// @Summary Run an escalation pass now
// @Description Evaluates all active escalation rules against open complaints and performs matching reassignments.
// @Tags Escalation
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /auto-escalate-complaints [post]
func (h *EscalationHandler) Run(c *gin.Context) {
	result, err := h.engine.RunPass(c.Request.Context(), time.Now().UTC())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
