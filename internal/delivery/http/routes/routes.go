package routes

import (
	"log"

	"github.com/Rpoore10/health-hire/internal/database"
	"github.com/Rpoore10/health-hire/internal/delivery/http/handler"
	"github.com/Rpoore10/health-hire/internal/identity"
	"github.com/Rpoore10/health-hire/internal/pkg/jwt"
	"github.com/Rpoore10/health-hire/internal/provision"
	jobuc "github.com/Rpoore10/health-hire/internal/usecase/job"
	"github.com/Rpoore10/health-hire/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Deps struct {
	Logger      *log.Logger
	DB          database.DB
	Identity    identity.Client
	Provisioner *provision.Provisioner
	Jobs        *jobuc.Service
	Tokens      jwt.Service
	Hub         *ws.Hub
}

func Register(app *fiber.App, d Deps) {
	if app == nil {
		return
	}

	handler.NewHealthHandler(d.DB).RegisterRoutes(app)

	api := app.Group("/api")
	registerV1(api.Group("/v1"), d)

	wsHandler := ws.NewHandler(d.Hub, d.Logger)
	app.Get("/ws/events", wsHandler.HandleEventsWS)
}
