package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/campus-desk/complaints-api/internal/models"
	"github.com/campus-desk/complaints-api/pkg/config"
	appErrors "github.com/campus-desk/complaints-api/pkg/errors"
)

// AuthService validates bearer tokens. There is no login surface here:
// identities are minted by the institution's SSO or, for schedulers, by
// IssueServiceToken from an operator tool.
type AuthService struct {
	cfg config.JWTConfig
}

// NewAuthService constructs the service.
func NewAuthService(cfg config.JWTConfig) *AuthService {
	return &AuthService{cfg: cfg}
}

// ValidateToken parses and verifies an access token.
func (s *AuthService) ValidateToken(token string) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "unexpected signing method")
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}
	return claims, nil
}

// IssueServiceToken mints a token for a trusted non-human principal, such
// as the cron caller of the escalation trigger.
func (s *AuthService) IssueServiceToken(subject string) (string, error) {
	now := time.Now().UTC()
	claims := &models.JWTClaims{
		UserID: subject,
		Role:   models.RoleService,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.Expiration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign token")
	}
	return signed, nil
}
