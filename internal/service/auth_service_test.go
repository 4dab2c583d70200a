package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-desk/complaints-api/internal/models"
	"github.com/campus-desk/complaints-api/pkg/config"
)

func TestAuthServiceIssueAndValidate(t *testing.T) {
	svc := NewAuthService(config.JWTConfig{Secret: "test-secret", Expiration: time.Hour})

	token, err := svc.IssueServiceToken("escalation-cron")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "escalation-cron", claims.UserID)
	assert.Equal(t, models.RoleService, claims.Role)
}

func TestAuthServiceRejectsWrongSecret(t *testing.T) {
	issuer := NewAuthService(config.JWTConfig{Secret: "secret-a", Expiration: time.Hour})
	verifier := NewAuthService(config.JWTConfig{Secret: "secret-b", Expiration: time.Hour})

	token, err := issuer.IssueServiceToken("escalation-cron")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestAuthServiceRejectsExpiredToken(t *testing.T) {
	svc := NewAuthService(config.JWTConfig{Secret: "test-secret", Expiration: -time.Minute})

	token, err := svc.IssueServiceToken("escalation-cron")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestAuthServiceRejectsGarbage(t *testing.T) {
	svc := NewAuthService(config.JWTConfig{Secret: "test-secret", Expiration: time.Hour})

	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}
