package server

import "go-sentinel/models"

// response defines the basic HTTP response returned by the server.
type response struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// ScanRequestAPI defines the JSON structure for incoming scan requests.
type ScanRequestAPI struct {
	Targets []string          `json:"targets"`
	Config  models.ScanConfig `json:"config"`
}

func (sr *ScanRequestAPI) Validate(known []string) bool {
	if len(sr.Targets) == 0 {
		return false
	}
	return validConfig(&sr.Config, known)
}

func validConfig(cfg *models.ScanConfig, known []string) bool {
	for _, p := range cfg.Ports {
		if p < 1 || p > 65535 {
			return false
		}
	}
	if len(cfg.Modules) == 0 {
		return true
	}
	valid := make(map[string]bool, len(known)+1)
	for _, id := range known {
		valid[id] = true
	}
	valid["compliance"] = true
	for _, id := range cfg.Modules {
		if !valid[id] {
			return false
		}
	}
	return true
}

// ScanStartedResponse acknowledges an accepted scan.
type ScanStartedResponse struct {
	SessionID string `json:"session_id"`
}

// SessionResponse wraps a session status poll.
type SessionResponse struct {
	Session models.ScanSession `json:"session"`
}

// FindingsResponse returns a finished session's findings and summary.
type FindingsResponse struct {
	Findings []models.Finding `json:"findings"`
	Summary  models.Summary   `json:"summary"`
}

// ModulesResponse lists the registered scanner modules.
type ModulesResponse struct {
	Modules []string `json:"modules"`
	Count   int      `json:"count"`
}
