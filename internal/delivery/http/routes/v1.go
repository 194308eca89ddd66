package routes

import (
	"github.com/Rpoore10/health-hire/internal/delivery/http/handler"
	"github.com/Rpoore10/health-hire/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

func registerV1(r fiber.Router, d Deps) {
	if r == nil {
		return
	}

	sessionMw := middleware.NewSessionMiddleware(d.Tokens)

	authHandler := handler.NewAuthHandler(d.Identity, d.Provisioner, sessionMw)
	authHandler.RegisterRoutes(r.Group("/auth"))

	sessionHandler := handler.NewSessionHandler(d.Provisioner)
	sessionHandler.RegisterRoutes(r.Group("", sessionMw.Require()))

	// jobs attach the session without requiring it so the handler can
	// answer "sign in first" in its own words
	jobHandler := handler.NewJobHandler(d.Jobs)
	jobHandler.RegisterRoutes(r.Group("/jobs", sessionMw.Attach()))
}
