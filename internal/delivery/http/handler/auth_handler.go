package handler

import (
	"strings"

	"github.com/Rpoore10/health-hire/internal/delivery/http/middleware"
	"github.com/Rpoore10/health-hire/internal/identity"
	"github.com/Rpoore10/health-hire/internal/pkg/response"
	"github.com/Rpoore10/health-hire/internal/provision"

	"github.com/gofiber/fiber/v3"
)

type AuthHandler struct {
	client      identity.Client
	provisioner *provision.Provisioner
	sessions    *middleware.SessionMiddleware
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type resetRequest struct {
	Email string `json:"email"`
}

type sessionResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	Token  string `json:"token"`
}

func NewAuthHandler(client identity.Client, provisioner *provision.Provisioner, sessions *middleware.SessionMiddleware) *AuthHandler {
	return &AuthHandler{client: client, provisioner: provisioner, sessions: sessions}
}

func (h *AuthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/signin", h.SignIn)
	r.Post("/signup", h.SignUp)
	r.Post("/signout", h.SignOut, h.sessions.Require())
	r.Post("/reset", h.SendPasswordReset)
}

func (h *AuthHandler) SignIn(c fiber.Ctx) error {
	var req credentialsRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	s, err := h.client.SignIn(c.Context(), req.Email, req.Password)
	if err != nil {
		status, msg := authDisplay(err)
		return middleware.NewAppError(status, msg, nil, err)
	}

	if err := h.ensureProfile(c, s); err != nil {
		return err
	}

	return response.Success(c, fiber.StatusOK, msgSignedIn, toSessionResponse(s))
}

func (h *AuthHandler) SignUp(c fiber.Ctx) error {
	var req credentialsRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	s, err := h.client.SignUp(c.Context(), req.Email, req.Password)
	if err != nil {
		status, msg := authDisplay(err)
		return middleware.NewAppError(status, msg, signupModeNudge(err), err)
	}

	if err := h.ensureProfile(c, s); err != nil {
		return err
	}

	return response.Success(c, fiber.StatusOK, msgAccountCreated, toSessionResponse(s))
}

func (h *AuthHandler) SignOut(c fiber.Ctx) error {
	s, ok := middleware.SessionFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	if err := h.client.SignOut(c.Context(), s.UserID); err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, authFallbackMessage, nil, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func (h *AuthHandler) SendPasswordReset(c fiber.Ctx) error {
	var req resetRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	// provider is not called without an email to send to
	if strings.TrimSpace(req.Email) == "" {
		return middleware.NewAppError(fiber.StatusBadRequest, msgResetNeedEmail, nil, nil)
	}

	if err := h.client.SendPasswordReset(c.Context(), req.Email); err != nil {
		status, msg := authDisplay(err)
		return middleware.NewAppError(status, msg, nil, err)
	}

	return response.Success(c, fiber.StatusOK, msgResetSent, nil)
}

// ensureProfile runs the provisioner after an auth success. A provisioning
// failure surfaces as the generic auth sentence, same as an uncoded
// provider error.
func (h *AuthHandler) ensureProfile(c fiber.Ctx, s identity.Session) error {
	var email *string
	if s.Email != "" {
		email = &s.Email
	}
	if err := h.provisioner.EnsureEmployerProfile(c.Context(), s.UserID, email); err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, authFallbackMessage, nil, err)
	}
	return nil
}

func toSessionResponse(s identity.Session) sessionResponse {
	return sessionResponse{UserID: s.UserID, Email: s.Email, Token: s.Token}
}
