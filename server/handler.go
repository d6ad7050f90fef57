package server

import (
	"sync"

	"github.com/gofiber/fiber/v3"

	"go-sentinel/engine"
	"go-sentinel/models"
)

// Handler adapts the scan engine to HTTP.
type Handler struct {
	eng *engine.Engine

	mu       sync.RWMutex
	defaults models.ScanConfig
}

// StartScanHandler defines the handler for POST /scans.
func (h *Handler) StartScanHandler(ctx fiber.Ctx) error {
	br := response{
		Error:   true,
		Message: "Invalid data provided.",
	}

	var data ScanRequestAPI
	if err := ctx.Bind().Body(&data); err != nil {
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(br)
	}
	if !data.Validate(h.eng.Modules()) {
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(br)
	}

	cfg := h.withDefaults(data.Config)
	id, err := h.eng.Start(data.Targets, &cfg)
	if err != nil {
		br.Message = err.Error()
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(br)
	}

	return ctx.Status(fiber.StatusAccepted).JSON(ScanStartedResponse{SessionID: id})
}

// SettingsHandler defines the handler for POST /settings. Stored
// settings fill in fields a later scan request leaves unset.
func (h *Handler) SettingsHandler(ctx fiber.Ctx) error {
	br := response{
		Error:   true,
		Message: "Invalid data provided.",
	}

	var data models.ScanConfig
	if err := ctx.Bind().Body(&data); err != nil {
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(br)
	}
	if !validConfig(&data, h.eng.Modules()) {
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(br)
	}

	h.mu.Lock()
	h.defaults = data
	h.mu.Unlock()
	return ctx.SendStatus(fiber.StatusOK)
}

// withDefaults applies the stored settings to unset request fields.
func (h *Handler) withDefaults(cfg models.ScanConfig) models.ScanConfig {
	h.mu.RLock()
	def := h.defaults
	h.mu.RUnlock()

	if len(cfg.Ports) == 0 {
		cfg.Ports = def.Ports
	}
	if len(cfg.Modules) == 0 {
		cfg.Modules = def.Modules
	}
	if cfg.TimeoutMs == 0 {
		cfg.TimeoutMs = def.TimeoutMs
	}
	if cfg.Workers == 0 {
		cfg.Workers = def.Workers
	}
	if cfg.PortRisk == nil {
		cfg.PortRisk = def.PortRisk
	}
	if cfg.CompliantThreshold == 0 {
		cfg.CompliantThreshold = def.CompliantThreshold
	}
	if cfg.PartialThreshold == 0 {
		cfg.PartialThreshold = def.PartialThreshold
	}
	return cfg
}

// StatusHandler defines the handler for GET /scans/:id.
func (h *Handler) StatusHandler(ctx fiber.Ctx) error {
	session, ok := h.eng.Status(ctx.Params("id"))
	if !ok {
		return ctx.Status(fiber.StatusNotFound).JSON(response{
			Error:   true,
			Message: "Unknown session.",
		})
	}
	return ctx.Status(fiber.StatusOK).JSON(SessionResponse{Session: session})
}

// FindingsHandler defines the handler for GET /scans/:id/findings.
func (h *Handler) FindingsHandler(ctx fiber.Ctx) error {
	session, ok := h.eng.Status(ctx.Params("id"))
	if !ok {
		return ctx.Status(fiber.StatusNotFound).JSON(response{
			Error:   true,
			Message: "Unknown session.",
		})
	}
	return ctx.Status(fiber.StatusOK).JSON(FindingsResponse{
		Findings: session.Findings,
		Summary:  session.Summarize(),
	})
}

// StopHandler defines the handler for DELETE /scans/:id.
func (h *Handler) StopHandler(ctx fiber.Ctx) error {
	if !h.eng.Stop(ctx.Params("id")) {
		return ctx.Status(fiber.StatusNotFound).JSON(response{
			Error:   true,
			Message: "Unknown session.",
		})
	}
	return ctx.SendStatus(fiber.StatusAccepted)
}

// ModulesHandler defines the handler for GET /modules.
func (h *Handler) ModulesHandler(ctx fiber.Ctx) error {
	names := h.eng.Modules()
	return ctx.Status(fiber.StatusOK).JSON(ModulesResponse{
		Modules: names,
		Count:   len(names),
	})
}
