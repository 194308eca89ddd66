package middleware

import (
	"errors"
	"strings"

	"github.com/Rpoore10/health-hire/internal/identity"
	"github.com/Rpoore10/health-hire/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
)

const CtxSessionKey = "session"

type SessionMiddleware struct {
	tokens jwt.Service
}

func NewSessionMiddleware(tokens jwt.Service) *SessionMiddleware {
	return &SessionMiddleware{tokens: tokens}
}

// Require rejects requests without a valid session token.
func (m *SessionMiddleware) Require() fiber.Handler {
	return func(c fiber.Ctx) error {
		s, err := m.sessionFromRequest(c)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return NewAppError(fiber.StatusUnauthorized, "Session expired", nil, err)
			}
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
		}
		c.Locals(CtxSessionKey, s)
		return c.Next()
	}
}

// Attach records the session when one is present and continues either way.
// Handlers that need their own "sign in first" wording use this variant and
// check the locals themselves.
func (m *SessionMiddleware) Attach() fiber.Handler {
	return func(c fiber.Ctx) error {
		if s, err := m.sessionFromRequest(c); err == nil {
			c.Locals(CtxSessionKey, s)
		}
		return c.Next()
	}
}

func (m *SessionMiddleware) sessionFromRequest(c fiber.Ctx) (identity.Session, error) {
	token, ok := bearerTokenFromHeader(c.Get("Authorization"))
	if !ok {
		return identity.Session{}, jwt.ErrTokenInvalid
	}

	claims, err := m.tokens.ValidateToken(token)
	if err != nil {
		return identity.Session{}, err
	}

	return identity.Session{
		UserID: claims.UserID.String(),
		Email:  claims.Email,
		Token:  token,
	}, nil
}

// SessionFromCtx returns the session placed by Require or Attach.
func SessionFromCtx(c fiber.Ctx) (identity.Session, bool) {
	s, ok := c.Locals(CtxSessionKey).(identity.Session)
	if !ok || s.UserID == "" {
		return identity.Session{}, false
	}
	return s, true
}

func bearerTokenFromHeader(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}
