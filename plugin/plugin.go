package plugin

import (
	"context"

	"go-sentinel/models"
)

// Module is the contract every scanner module implements. Scan must
// never return an error for expected network failure modes: those
// become scan_error findings in the returned slice.
type Module interface {
	Name() string
	Scan(ctx context.Context, target string, cfg *models.ScanConfig) []models.Finding
}

// Canonical module ids used for selection.
const (
	NetworkScanner    = "network"
	WebScanner        = "web"
	TLSScanner        = "tls"
	CloudScanner      = "cloud"
	ContainerScanner  = "container"
	ComplianceScanner = "compliance"
	ConfigAuditor     = "configuration"
)
