package container_scanner

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"go-sentinel/models"
	"go-sentinel/plugin"
	"go-sentinel/probe"
)

// Scanner probes the well-known port surface of Docker, Kubernetes and
// OpenShift deployments, upgrading port-open findings to confirmed
// exposures through lightweight unauthenticated requests.
type Scanner struct {
	Timeout time.Duration

	// Platforms limits the exposure table, e.g. []string{"docker"}.
	// Empty means all platforms.
	Platforms []string
}

// Name returns the module id.
func (s *Scanner) Name() string {
	return plugin.ContainerScanner
}

// Scan implements the module contract.
func (s *Scanner) Scan(ctx context.Context, target string, cfg *models.ScanConfig) []models.Finding {
	timeout := cfg.PortTimeout(s.Timeout)
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	prober := probe.New(timeout, 0)
	client := confirmClient(timeout)

	logrus.Infof("starting container/orchestrator scan on %s", target)

	var findings []models.Finding
	for _, exp := range s.selected() {
		select {
		case <-ctx.Done():
			return findings
		default:
		}

		res := prober.Probe(ctx, target, exp.Port)
		if !res.Open {
			continue
		}

		confirmed := false
		if exp.ConfirmPath != "" {
			confirmed = confirm(ctx, client, target, exp)
		}
		findings = append(findings, exposureFinding(target, exp, confirmed))
	}

	findings = append(findings, advisoryFindings(target)...)
	return findings
}

func (s *Scanner) selected() []exposure {
	if len(s.Platforms) == 0 {
		return exposures
	}
	want := make(map[string]bool, len(s.Platforms))
	for _, p := range s.Platforms {
		want[p] = true
	}
	var out []exposure
	for _, exp := range exposures {
		if want[exp.Platform] {
			out = append(out, exp)
		}
	}
	return out
}

// confirmClient skips certificate verification: platform API endpoints
// present self-signed or cluster-CA certificates, and the question is
// whether they answer anonymously, not whether they are trusted.
func confirmClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}
}

// confirm performs the unauthenticated GET that proves the service
// answers without credentials. Any failure simply leaves the finding
// at port-open level.
func confirm(ctx context.Context, client *http.Client, target string, exp exposure) bool {
	scheme := "http"
	if exp.TLS {
		scheme = "https"
	}
	url := fmt.Sprintf("%s://%s:%d%s", scheme, target, exp.Port, exp.ConfirmPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	resp, err := client.Do(req)
	if err != nil {
		logrus.Debugf("confirmation GET %s failed: %v", url, err)
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func exposureFinding(target string, exp exposure, confirmed bool) models.Finding {
	severity := exp.OpenSev
	title := fmt.Sprintf("%s port %d open", exp.Service, exp.Port)
	ftype := models.FindingOpenPort
	if confirmed {
		severity = exp.ConfirmSev
		title = fmt.Sprintf("%s exposed without authentication", exp.Service)
		ftype = models.FindingExposure
	}
	return models.Finding{
		Target:      target,
		Module:      plugin.ContainerScanner,
		Type:        ftype,
		Severity:    severity,
		Title:       title,
		Description: exp.Description,
		Details: map[string]string{
			"platform":  exp.Platform,
			"port":      strconv.Itoa(exp.Port),
			"confirmed": strconv.FormatBool(confirmed),
		},
		Remediation: "Restrict the port to trusted networks and require authentication.",
		Timestamp:   time.Now().UTC(),
	}
}

// advisoryFindings emits the benchmark checklist items that require
// manual review. They are advisory by contract: always info severity.
func advisoryFindings(target string) []models.Finding {
	now := time.Now().UTC()
	out := make([]models.Finding, 0, len(advisories))
	for _, a := range advisories {
		out = append(out, models.Finding{
			Target:      target,
			Module:      plugin.ContainerScanner,
			Type:        models.FindingInfo,
			Severity:    models.SeverityInfo,
			Title:       fmt.Sprintf("%s %s requires manual review", a.Framework, a.Control),
			Description: a.Text,
			Details:     map[string]string{"framework": a.Framework, "control": a.Control},
			Timestamp:   now,
		})
	}
	return out
}
