package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-desk/complaints-api/internal/models"
	appErrors "github.com/campus-desk/complaints-api/pkg/errors"
)

type fakeEscalationRunner struct {
	result *models.EscalationResult
	err    error
	ranAt  time.Time
}

func (f *fakeEscalationRunner) RunPass(ctx context.Context, now time.Time) (*models.EscalationResult, error) {
	f.ranAt = now
	return f.result, f.err
}

type escalationEnvelope struct {
	Data  map[string]interface{} `json:"data"`
	Error map[string]interface{} `json:"error"`
}

func TestEscalationHandlerRun(t *testing.T) {
	gin.SetMode(gin.TestMode)
	runner := &fakeEscalationRunner{result: &models.EscalationResult{Matched: 3, Escalated: 2, Skipped: 1}}
	handler := NewEscalationHandler(runner)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/auto-escalate-complaints", nil)

	handler.Run(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, runner.ranAt.IsZero())
	var envelope escalationEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, float64(2), envelope.Data["escalated"])
	assert.Equal(t, float64(1), envelope.Data["skipped"])
}

func TestEscalationHandlerRunInFlight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewEscalationHandler(&fakeEscalationRunner{err: appErrors.ErrPassInFlight})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/auto-escalate-complaints", nil)

	handler.Run(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
	var envelope escalationEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, appErrors.ErrPassInFlight.Code, envelope.Error["code"])
}

func TestEscalationHandlerRunStoreUnavailable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewEscalationHandler(&fakeEscalationRunner{
		err: appErrors.Wrap(errors.New("connection refused"), appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load escalation rules"),
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/auto-escalate-complaints", nil)

	handler.Run(c)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
