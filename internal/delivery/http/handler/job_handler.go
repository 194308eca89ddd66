package handler

import (
	"errors"

	"github.com/Rpoore10/health-hire/internal/delivery/http/middleware"
	"github.com/Rpoore10/health-hire/internal/pkg/response"
	jobuc "github.com/Rpoore10/health-hire/internal/usecase/job"
	"github.com/Rpoore10/health-hire/internal/ws"

	"github.com/gofiber/fiber/v3"
)

const (
	msgJobPosted       = "Job posted ✅"
	msgSignInFirst     = "Please sign in first at /auth."
	msgFillFields      = "Please fill title, location, and valid pay numbers."
	msgMinAboveMax     = "Min pay cannot be greater than max pay."
	msgPostingInFlight = "A job posting is already in progress."
	msgErrorPostingJob = "Error posting job"
)

type JobHandler struct {
	jobs *jobuc.Service
}

type postJobRequest struct {
	Title         string `json:"title"`
	Location      string `json:"location"`
	MinPay        string `json:"minPay"`
	MaxPay        string `json:"maxPay"`
	Shifts        string `json:"shifts"`
	Modalities    string `json:"modalities"`
	MustHaveCerts string `json:"mustHaveCerts"`
}

func NewJobHandler(jobs *jobuc.Service) *JobHandler {
	return &JobHandler{jobs: jobs}
}

func (h *JobHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/", h.PostJob)
}

func (h *JobHandler) PostJob(c fiber.Ctx) error {
	var req postJobRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	// the session is attached best-effort so the handler can answer with
	// its own wording instead of a bare 401
	var employerID string
	if s, ok := middleware.SessionFromCtx(c); ok {
		employerID = s.UserID
	}

	id, err := h.jobs.Submit(c.Context(), employerID, jobuc.SubmitInput{
		Title:         req.Title,
		Location:      req.Location,
		MinPay:        req.MinPay,
		MaxPay:        req.MaxPay,
		Shifts:        req.Shifts,
		Modalities:    req.Modalities,
		MustHaveCerts: req.MustHaveCerts,
	})
	if err != nil {
		return mapJobError(err)
	}

	ws.NotifyJobPosted(id, employerID)

	return response.Success(c, fiber.StatusOK, msgJobPosted, map[string]any{"id": id})
}

func mapJobError(err error) error {
	switch {
	case errors.Is(err, jobuc.ErrNotSignedIn):
		return middleware.NewAppError(fiber.StatusUnauthorized, msgSignInFirst, nil, err)
	case errors.Is(err, jobuc.ErrInvalidFields):
		return middleware.NewAppError(fiber.StatusBadRequest, msgFillFields, nil, err)
	case errors.Is(err, jobuc.ErrPayRange):
		return middleware.NewAppError(fiber.StatusBadRequest, msgMinAboveMax, nil, err)
	case errors.Is(err, jobuc.ErrSubmitInFlight):
		return middleware.NewAppError(fiber.StatusConflict, msgPostingInFlight, nil, err)
	}

	var storeErr *jobuc.StoreError
	if errors.As(err, &storeErr) {
		msg := msgErrorPostingJob
		if storeErr.Err != nil {
			msg = storeErr.Err.Error()
		}
		return middleware.NewAppError(fiber.StatusBadGateway, msg, nil, err)
	}

	return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
}
