package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campus-desk/complaints-api/internal/service"
	"github.com/campus-desk/complaints-api/pkg/response"
)

// AnalyticsHandler exposes complaint statistics.
type AnalyticsHandler struct {
	service *service.AnalyticsService
}

// NewAnalyticsHandler constructs an analytics handler.
func NewAnalyticsHandler(svc *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: svc}
}

// Summary godoc
// @Summary Complaint statistics
// @Tags Analytics
// @Produce json
// @Param backlogHours query int false "Age bound for the escalation backlog count"
// @Success 200 {object} response.Envelope
// @Router /analytics/summary [get]
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	backlogHours := 0
	if raw := c.Query("backlogHours"); raw != "" {
		if val, err := strconv.Atoi(raw); err == nil {
			backlogHours = val
		}
	}
	summary, err := h.service.Summary(c.Request.Context(), backlogHours)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}
