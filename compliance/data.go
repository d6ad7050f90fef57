package compliance

import "go-sentinel/models"

// EvalRule determines a control's status from the findings collected
// for a target. The returned evidence string explains the verdict.
type EvalRule func(findings []models.Finding) (models.ControlStatus, string)

// RuledControl pairs a control definition with its evaluation rule.
type RuledControl struct {
	models.Control
	Eval EvalRule
}

// RuledFramework is a framework whose controls carry evaluation rules.
type RuledFramework struct {
	ID       string
	Name     string
	Controls []RuledControl
}

// Definition strips the rules, yielding the plain data model.
func (f *RuledFramework) Definition() models.ComplianceFramework {
	out := models.ComplianceFramework{ID: f.ID, Name: f.Name}
	for _, c := range f.Controls {
		out.Controls = append(out.Controls, c.Control)
	}
	return out
}

// BuiltinFrameworks returns the framework definitions shipped with the
// engine: a network/web baseline and a container-focused NIST subset.
func BuiltinFrameworks() []RuledFramework {
	return []RuledFramework{
		{
			ID:   "cis-baseline",
			Name: "CIS Baseline (subset)",
			Controls: []RuledControl{
				{
					Control: models.Control{
						ID:          "cis-net-1",
						Requirement: "No high-risk network services are exposed.",
						Remediation: []string{"Disable or firewall telnet, SMB, RPC and similar services."},
					},
					Eval: failOn(models.FindingOpenPort, models.SeverityHigh, "high-risk open port"),
				},
				{
					Control: models.Control{
						ID:          "cis-web-1",
						Requirement: "Web responses carry the required security headers.",
						Remediation: []string{"Send CSP, HSTS, X-Frame-Options, X-Content-Type-Options and X-XSS-Protection."},
					},
					Eval: failOn(models.FindingSecurityHeader, models.SeverityMedium, "missing security header"),
				},
				{
					Control: models.Control{
						ID:          "cis-tls-1",
						Requirement: "TLS endpoints use current protocols and valid certificates.",
						Remediation: []string{"Require TLS 1.2 or newer and renew expired certificates."},
					},
					Eval: failOn(models.FindingSSLCertificate, models.SeverityMedium, "certificate weakness"),
				},
				{
					Control: models.Control{
						ID:          "cis-vuln-1",
						Requirement: "No software with known vulnerabilities is reachable.",
						Remediation: []string{"Patch or upgrade flagged software versions."},
					},
					Eval: failOn(models.FindingVulnerability, models.SeverityMedium, "known vulnerability"),
				},
			},
		},
		{
			ID:   "nist-800-190",
			Name: "NIST SP 800-190 (subset)",
			Controls: []RuledControl{
				{
					Control: models.Control{
						ID:          "nist-190-1",
						Requirement: "Container runtime sockets are not exposed to the network.",
						Remediation: []string{"Bind the Docker daemon to a local socket or require mutual TLS."},
					},
					Eval: failOnExposure("docker"),
				},
				{
					Control: models.Control{
						ID:          "nist-190-2",
						Requirement: "Orchestrator control-plane endpoints require authentication.",
						Remediation: []string{"Close the insecure API port and enable kubelet authentication."},
					},
					Eval: failOnExposure("kubernetes"),
				},
			},
		},
	}
}

// failOn builds a rule failing when a finding of ftype at or above
// minSev exists, partial when below it, passing otherwise.
func failOn(ftype models.FindingType, minSev models.Severity, what string) EvalRule {
	return func(findings []models.Finding) (models.ControlStatus, string) {
		worst := models.Severity("")
		count := 0
		for _, f := range findings {
			if f.Type != ftype {
				continue
			}
			count++
			if worst == "" || f.Severity.Rank() > worst.Rank() {
				worst = f.Severity
			}
		}
		if count == 0 {
			return models.ControlPassed, "no " + what + " found"
		}
		if worst.Rank() >= minSev.Rank() {
			return models.ControlFailed, what + " present"
		}
		return models.ControlPartial, "only low-impact " + what + " present"
	}
}

// failOnExposure fails on confirmed exposures for a platform, returns
// not_applicable when the platform surface was never observed.
func failOnExposure(platform string) EvalRule {
	return func(findings []models.Finding) (models.ControlStatus, string) {
		seen := false
		for _, f := range findings {
			if f.Details["platform"] != platform {
				continue
			}
			seen = true
			if f.Type == models.FindingExposure {
				return models.ControlFailed, platform + " service exposed without authentication"
			}
		}
		if !seen {
			return models.ControlNotApplicable, "no " + platform + " surface observed"
		}
		return models.ControlPartial, platform + " ports answer but exposure was not confirmed"
	}
}
