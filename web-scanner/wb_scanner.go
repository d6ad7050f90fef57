package web_scanner

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"go-sentinel/models"
	"go-sentinel/plugin"
)

// Scanner probes a web target for missing security headers, injectable
// parameters and TLS weaknesses. Each step is independently fault
// tolerant: a failure in one does not prevent the next.
type Scanner struct {
	Timeout time.Duration

	// TLS, when set, receives HTTPS targets after the HTTP checks.
	TLS plugin.Module
}

// Name returns the module id.
func (s *Scanner) Name() string {
	return plugin.WebScanner
}

// Activates reports whether the target should get a web scan: explicit
// URL, web scan requested, or a web port in the configured port list.
func Activates(target string, cfg *models.ScanConfig) bool {
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return true
	}
	if cfg == nil {
		return false
	}
	if cfg.WebScan {
		return true
	}
	for _, p := range cfg.Ports {
		if p == 80 || p == 443 {
			return true
		}
	}
	return false
}

// Scan implements the module contract. Non-web targets produce no
// findings: the module activates only per the Activates inference.
func (s *Scanner) Scan(ctx context.Context, target string, cfg *models.ScanConfig) []models.Finding {
	if !Activates(target, cfg) {
		logrus.Debugf("skipping web scan for %s: not inferred as a web target", target)
		return nil
	}

	baseURL := target
	if !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := &http.Client{Timeout: timeout}

	logrus.Infof("starting web scan on %s", baseURL)

	var findings []models.Finding
	findings = append(findings, s.checkHeaders(ctx, client, target, baseURL)...)
	findings = append(findings, s.probePayloads(ctx, client, target, baseURL)...)

	if strings.HasPrefix(baseURL, "https://") && s.TLS != nil {
		host := target
		if u, err := url.Parse(baseURL); err == nil && u.Hostname() != "" {
			host = u.Hostname()
		}
		findings = append(findings, s.TLS.Scan(ctx, host, cfg)...)
	}

	return findings
}

// checkHeaders fetches response headers via HEAD and reports missing
// security headers plus Server header disclosure.
func (s *Scanner) checkHeaders(ctx context.Context, client *http.Client, target, baseURL string) []models.Finding {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, baseURL, nil)
	if err != nil {
		return []models.Finding{models.NewScanError(target, plugin.WebScanner, fmt.Sprintf("header check failed: %v", err))}
	}
	resp, err := client.Do(req)
	if err != nil {
		logrus.Debugf("HEAD %s failed: %v", baseURL, err)
		return []models.Finding{models.NewScanError(target, plugin.WebScanner, fmt.Sprintf("header check failed: %v", err))}
	}
	defer resp.Body.Close()

	now := time.Now().UTC()
	var findings []models.Finding
	for _, h := range requiredHeaders {
		if resp.Header.Get(h.Name) != "" {
			continue
		}
		findings = append(findings, models.Finding{
			Target:      target,
			Module:      plugin.WebScanner,
			Type:        models.FindingSecurityHeader,
			Severity:    h.Severity,
			Title:       fmt.Sprintf("Missing %s header", h.Name),
			Description: fmt.Sprintf("The response lacks the %s header, which %s.", h.Name, h.Why),
			Details:     map[string]string{"header": h.Name},
			Remediation: fmt.Sprintf("Configure the web server to send %s.", h.Name),
			Timestamp:   now,
		})
	}

	if server := resp.Header.Get("Server"); server != "" {
		findings = append(findings, models.Finding{
			Target:      target,
			Module:      plugin.WebScanner,
			Type:        models.FindingInfoDisclosure,
			Severity:    models.SeverityLow,
			Title:       "Server header disclosure",
			Description: fmt.Sprintf("The Server header reveals %q.", server),
			Details:     map[string]string{"server": server},
			Remediation: "Suppress or genericize the Server response header.",
			Timestamp:   now,
		})
	}
	return findings
}

// probePayloads issues the traversal and SQL injection payload families
// against the root path and any discovered form fields, stopping each
// family after its first confirmed hit.
func (s *Scanner) probePayloads(ctx context.Context, client *http.Client, target, baseURL string) []models.Finding {
	params := append([]string{"q"}, extractFormFields(ctx, client, baseURL)...)

	var findings []models.Finding
	for _, family := range payloadFamilies {
		if f, ok := s.probeFamily(ctx, client, target, baseURL, params, family); ok {
			findings = append(findings, f)
		}
	}
	return findings
}

func (s *Scanner) probeFamily(ctx context.Context, client *http.Client, target, baseURL string, params []string, family payloadFamily) (models.Finding, bool) {
	for _, param := range params {
		for _, payload := range family.Payloads {
			probeURL := fmt.Sprintf("%s/?%s=%s", strings.TrimRight(baseURL, "/"), param, url.QueryEscape(payload))
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, probeURL, nil)
			if err != nil {
				continue
			}
			resp, err := client.Do(req)
			if err != nil {
				logrus.Debugf("payload request %s failed: %v", probeURL, err)
				continue
			}
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
			resp.Body.Close()

			if sig := matchSignature(string(body), family.Signatures); sig != "" {
				return models.Finding{
					Target:      target,
					Module:      plugin.WebScanner,
					Type:        models.FindingVulnerability,
					Severity:    models.SeverityHigh,
					Title:       fmt.Sprintf("%s via %q parameter", family.Title, param),
					Description: fmt.Sprintf("The response to a %s payload contained the error signature %q.", family.Name, sig),
					Details: map[string]string{
						"parameter": param,
						"payload":   payload,
						"signature": sig,
						"url":       probeURL,
					},
					Remediation: "Validate and sanitize all user-supplied input.",
					Reference:   family.Reference,
					Timestamp:   time.Now().UTC(),
				}, true
			}
		}
	}
	return models.Finding{}, false
}

func matchSignature(body string, signatures []string) string {
	for _, sig := range signatures {
		if strings.Contains(body, sig) {
			return sig
		}
	}
	return ""
}

// extractFormFields returns non-password input names from forms on the
// landing page. Fetch or parse failure just means no extra parameters.
func extractFormFields(ctx context.Context, client *http.Client, baseURL string) []string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
	if err != nil {
		return nil
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil
	}

	var fields []string
	doc.Find("form input").Each(func(i int, sel *goquery.Selection) {
		if name, exists := sel.Attr("name"); exists {
			if !strings.Contains(strings.ToLower(name), "password") {
				fields = append(fields, name)
			}
		}
	})
	return fields
}
