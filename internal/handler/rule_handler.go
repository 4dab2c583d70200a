package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campus-desk/complaints-api/internal/models"
	"github.com/campus-desk/complaints-api/internal/service"
	appErrors "github.com/campus-desk/complaints-api/pkg/errors"
	"github.com/campus-desk/complaints-api/pkg/response"
)

// RuleHandler exposes escalation rule administration endpoints.
type RuleHandler struct {
	service *service.RuleService
}

// NewRuleHandler constructs a rule handler.
func NewRuleHandler(svc *service.RuleService) *RuleHandler {
	return &RuleHandler{service: svc}
}

// List godoc
// @Summary List escalation rules
// @Tags Escalation Rules
// @Produce json
// @Param active query bool false "Only active rules"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /escalation-rules [get]
func (h *RuleHandler) List(c *gin.Context) {
	var filter models.EscalationRuleFilter
	if active := c.Query("active"); active != "" {
		if val, err := strconv.ParseBool(active); err == nil {
			filter.ActiveOnly = val
		}
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	rules, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rules, pagination)
}

// Get godoc
// @Summary Get an escalation rule
// @Tags Escalation Rules
// @Produce json
// @Param id path string true "Rule ID"
// @Success 200 {object} response.Envelope
// @Router /escalation-rules/{id} [get]
func (h *RuleHandler) Get(c *gin.Context) {
	rule, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rule, nil)
}

// Create godoc
// @Summary Create an escalation rule
// @Tags Escalation Rules
// @Accept json
// @Produce json
// @Param payload body service.SaveRuleRequest true "Rule payload"
// @Success 201 {object} response.Envelope
// @Router /escalation-rules [post]
func (h *RuleHandler) Create(c *gin.Context) {
	var req service.SaveRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	rule, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, rule)
}

// Update godoc
// @Summary Update an escalation rule
// @Tags Escalation Rules
// @Accept json
// @Produce json
// @Param id path string true "Rule ID"
// @Param payload body service.SaveRuleRequest true "Rule payload"
// @Success 200 {object} response.Envelope
// @Router /escalation-rules/{id} [put]
func (h *RuleHandler) Update(c *gin.Context) {
	var req service.SaveRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	rule, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rule, nil)
}

// Deactivate godoc
// @Summary Deactivate an escalation rule
// @Tags Escalation Rules
// @Produce json
// @Param id path string true "Rule ID"
// @Success 204
// @Router /escalation-rules/{id} [delete]
func (h *RuleHandler) Deactivate(c *gin.Context) {
	if err := h.service.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
