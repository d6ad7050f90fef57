package config_scanner

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"go-sentinel/models"
	"go-sentinel/plugin"
	"go-sentinel/probe"
)

// check is one service misconfiguration probe: a stimulus sent to a
// port and the response prefix that proves the weak configuration.
type check struct {
	Port        int
	Payload     string
	Expect      string
	Title       string
	Description string
	Severity    models.Severity
	Remediation string
}

var checks = []check{
	{
		Port:        6379,
		Payload:     "PING\r\n",
		Expect:      "+PONG",
		Title:       "Redis accepts unauthenticated commands",
		Description: "The Redis instance answered PING without authentication.",
		Severity:    models.SeverityHigh,
		Remediation: "Set requirepass or enable ACLs, and bind Redis to localhost.",
	},
	{
		Port:        21,
		Payload:     "USER anonymous\r\nPASS guest@\r\n",
		Expect:      "230",
		Title:       "Anonymous FTP login enabled",
		Description: "The FTP server accepted an anonymous login.",
		Severity:    models.SeverityHigh,
		Remediation: "Disable anonymous FTP access.",
	},
	{
		Port:        23,
		Payload:     "",
		Expect:      "",
		Title:       "Cleartext management service enabled",
		Description: "Telnet transmits credentials and session data unencrypted.",
		Severity:    models.SeverityHigh,
		Remediation: "Replace telnet with SSH.",
	},
}

// Auditor probes for risky service configuration: unauthenticated data
// stores, anonymous logins and cleartext management services.
type Auditor struct {
	Timeout time.Duration
}

// Name returns the module id.
func (a *Auditor) Name() string {
	return plugin.ConfigAuditor
}

// Scan implements the module contract.
func (a *Auditor) Scan(ctx context.Context, target string, cfg *models.ScanConfig) []models.Finding {
	timeout := cfg.PortTimeout(a.Timeout)
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	prober := probe.New(timeout, 0)

	logrus.Infof("starting configuration audit on %s", target)

	var findings []models.Finding
	for _, c := range checks {
		select {
		case <-ctx.Done():
			return findings
		default:
		}

		var res probe.Result
		if c.Payload != "" {
			res = prober.ProbeSend(ctx, target, c.Port, []byte(c.Payload))
		} else {
			res = prober.Probe(ctx, target, c.Port)
		}
		if !res.Open {
			continue
		}
		if c.Expect != "" && !strings.Contains(string(res.Banner), c.Expect) {
			continue
		}

		findings = append(findings, models.Finding{
			Target:      target,
			Module:      plugin.ConfigAuditor,
			Type:        models.FindingVulnerability,
			Severity:    c.Severity,
			Title:       c.Title,
			Description: c.Description,
			Details: map[string]string{
				"port":     strconv.Itoa(c.Port),
				"evidence": fmt.Sprintf("%.60s", strings.TrimSpace(string(res.Banner))),
			},
			Remediation: c.Remediation,
			Timestamp:   time.Now().UTC(),
		})
	}
	return findings
}
