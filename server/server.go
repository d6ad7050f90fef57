package server

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/sirupsen/logrus"

	"go-sentinel/engine"
)

// New wires the engine behind a fiber app.
func New(eng *engine.Engine) *fiber.App {
	h := &Handler{eng: eng}

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Content-Type,Origin,Accept",
	}))

	app.Post("/scans", h.StartScanHandler)
	app.Post("/settings", h.SettingsHandler)
	app.Get("/scans/:id", h.StatusHandler)
	app.Get("/scans/:id/findings", h.FindingsHandler)
	app.Delete("/scans/:id", h.StopHandler)
	app.Get("/modules", h.ModulesHandler)

	return app
}

// Start builds the app and blocks on listening.
func Start(eng *engine.Engine, addr string) error {
	if addr == "" {
		addr = ":8080"
	}
	logrus.Infof("listening on %s", addr)
	return New(eng).Listen(addr)
}
