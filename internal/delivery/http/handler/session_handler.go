package handler

import (
	"github.com/Rpoore10/health-hire/internal/delivery/http/middleware"
	"github.com/Rpoore10/health-hire/internal/pkg/response"
	"github.com/Rpoore10/health-hire/internal/provision"

	"github.com/gofiber/fiber/v3"
)

// SessionHandler answers "who am I" for page loads. Like the original
// page-load observer, it also re-provisions the employer profile so both
// entry points converge on the same idempotent call.
type SessionHandler struct {
	provisioner *provision.Provisioner
}

func NewSessionHandler(provisioner *provision.Provisioner) *SessionHandler {
	return &SessionHandler{provisioner: provisioner}
}

func (h *SessionHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/session", h.GetSession)
}

func (h *SessionHandler) GetSession(c fiber.Ctx) error {
	s, ok := middleware.SessionFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var email *string
	if s.Email != "" {
		email = &s.Email
	}
	if err := h.provisioner.EnsureEmployerProfile(c.Context(), s.UserID, email); err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]any{
		"user_id": s.UserID,
		"email":   s.Email,
	})
}
