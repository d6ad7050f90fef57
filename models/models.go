package models

import (
	"time"
)

// Severity classifies how serious a finding is.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

// Valid reports whether s is one of the five known severities.
func (s Severity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo:
		return true
	}
	return false
}

// Rank orders severities from info (0) to critical (4).
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// FindingType identifies the category of a finding.
type FindingType string

const (
	FindingOpenPort       FindingType = "open_port"
	FindingVulnerability  FindingType = "vulnerability"
	FindingSecurityHeader FindingType = "security_header"
	FindingSSLCertificate FindingType = "ssl_certificate"
	FindingInfoDisclosure FindingType = "information_disclosure"
	FindingExposure       FindingType = "exposure"
	FindingCompliance     FindingType = "compliance"
	FindingScanError      FindingType = "scan_error"
	FindingInfo           FindingType = "info"
)

// Finding is the normalized output unit shared by all scanner modules.
// A finding is immutable once emitted; sessions only append.
type Finding struct {
	Target      string            `json:"target"`
	Module      string            `json:"module"`
	Type        FindingType       `json:"type"`
	Severity    Severity          `json:"severity"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Details     map[string]string `json:"details,omitempty"`
	Remediation string            `json:"remediation,omitempty"`
	Reference   string            `json:"reference,omitempty"` // CVE/CWE identifier
	Timestamp   time.Time         `json:"timestamp"`
}

// NewScanError builds the scan_error finding used whenever a target or
// module fails without aborting the rest of the scan.
func NewScanError(target, module, description string) Finding {
	return Finding{
		Target:      target,
		Module:      module,
		Type:        FindingScanError,
		Severity:    SeverityInfo,
		Title:       "Scan error",
		Description: description,
		Timestamp:   time.Now().UTC(),
	}
}

// SessionStatus is the lifecycle state of a scan session.
type SessionStatus string

const (
	StatusQueued    SessionStatus = "queued"
	StatusRunning   SessionStatus = "running"
	StatusCompleted SessionStatus = "completed"
	StatusFailed    SessionStatus = "failed"
	StatusStopped   SessionStatus = "stopped"
)

// ScanSession identifies one orchestrated scan invocation.
type ScanSession struct {
	ID               string        `json:"id"`
	Status           SessionStatus `json:"status"`
	Targets          []string      `json:"targets"`
	Modules          []string      `json:"modules"`
	Progress         int           `json:"progress"`
	CompletedTargets int           `json:"completed_targets"`
	Findings         []Finding     `json:"findings"`
	StartedAt        time.Time     `json:"started_at,omitempty"`
	FinishedAt       time.Time     `json:"finished_at,omitempty"`
	Error            string        `json:"error,omitempty"`
}

// SeverityCounts aggregates findings by severity.
type SeverityCounts struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
	Info     int `json:"info"`
	Total    int `json:"total"`
}

// Add counts one finding.
func (c *SeverityCounts) Add(s Severity) {
	switch s {
	case SeverityCritical:
		c.Critical++
	case SeverityHigh:
		c.High++
	case SeverityMedium:
		c.Medium++
	case SeverityLow:
		c.Low++
	default:
		c.Info++
	}
	c.Total++
}

// Summary is the per-session digest handed to reporting layers.
type Summary struct {
	SessionID      string         `json:"session_id"`
	Counts         SeverityCounts `json:"counts"`
	TargetsScanned int            `json:"targets_scanned"`
	Duration       string         `json:"duration"`
}

// Summarize computes the summary for a finished session.
func (s *ScanSession) Summarize() Summary {
	sum := Summary{
		SessionID:      s.ID,
		TargetsScanned: s.CompletedTargets,
	}
	for _, f := range s.Findings {
		sum.Counts.Add(f.Severity)
	}
	if !s.StartedAt.IsZero() && !s.FinishedAt.IsZero() {
		sum.Duration = s.FinishedAt.Sub(s.StartedAt).String()
	}
	return sum
}

// CredentialType identifies what a credential authenticates against.
type CredentialType string

const (
	CredentialSSH      CredentialType = "ssh"
	CredentialWebForm  CredentialType = "web-form"
	CredentialBasic    CredentialType = "basic"
	CredentialDatabase CredentialType = "database"
)

// Credential is supplied by the caller per scan and never persisted.
type Credential struct {
	Type          CredentialType `json:"type" yaml:"type"`
	Username      string         `json:"username" yaml:"username"`
	Password      string         `json:"password,omitempty" yaml:"password,omitempty"`
	KeyFile       string         `json:"key_file,omitempty" yaml:"keyFile,omitempty"`
	DBType        string         `json:"db_type,omitempty" yaml:"dbType,omitempty"`
	Database      string         `json:"database,omitempty" yaml:"database,omitempty"`
	LoginPath     string         `json:"login_path,omitempty" yaml:"loginPath,omitempty"`
	UsernameField string         `json:"username_field,omitempty" yaml:"usernameField,omitempty"`
	PasswordField string         `json:"password_field,omitempty" yaml:"passwordField,omitempty"`
}

// ScanConfig is the open option set recognized by scanner modules.
type ScanConfig struct {
	Ports       []int        `json:"ports,omitempty"`
	Modules     []string     `json:"modules,omitempty"`
	WebScan     bool         `json:"web_scan,omitempty"`
	Credentials []Credential `json:"credentials,omitempty"`

	// TimeoutMs applies per probe, not per scan.
	TimeoutMs int `json:"timeout,omitempty"`
	Workers   int `json:"workers,omitempty"`

	// PortRisk overrides entries of the default port risk table.
	PortRisk map[int]Severity `json:"port_risk,omitempty"`

	// Compliance scoring thresholds; zero values fall back to defaults.
	CompliantThreshold int `json:"compliant_threshold,omitempty"`
	PartialThreshold   int `json:"partial_threshold,omitempty"`
}

// PortTimeout returns the configured probe timeout or the given default.
func (c *ScanConfig) PortTimeout(def time.Duration) time.Duration {
	if c == nil || c.TimeoutMs <= 0 {
		return def
	}
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// WorkerCount returns the configured worker bound or the given default.
func (c *ScanConfig) WorkerCount(def int) int {
	if c == nil || c.Workers <= 0 {
		return def
	}
	return c.Workers
}
