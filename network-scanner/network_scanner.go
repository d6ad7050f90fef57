package network_scanner

import (
	"context"
	"fmt"
	"net"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"go-sentinel/models"
	"go-sentinel/plugin"
	"go-sentinel/probe"
	"go-sentinel/service"
)

// Scanner probes a configurable port list, identifies the services
// behind open ports and flags known-vulnerable software versions.
type Scanner struct {
	Timeout time.Duration
	Workers int
}

// Name returns the module id.
func (s *Scanner) Name() string {
	return plugin.NetworkScanner
}

// Scan implements the module contract.
func (s *Scanner) Scan(ctx context.Context, target string, cfg *models.ScanConfig) []models.Finding {
	ports := DefaultPorts
	if cfg != nil && len(cfg.Ports) > 0 {
		ports = cfg.Ports
	}
	prober := probe.New(cfg.PortTimeout(s.Timeout), 0)
	workers := cfg.WorkerCount(s.Workers)
	if workers <= 0 {
		workers = 10
	}

	logrus.Infof("starting network scan on %s (%d ports)", target, len(ports))

	results := s.sweep(ctx, prober, target, ports, workers)

	var findings []models.Finding
	for _, res := range results {
		info := service.Identify(res.Port, res.Banner)
		findings = append(findings, openPortFinding(target, res.Port, info, cfg))
		findings = append(findings, versionChecks(target, res.Port, res.Banner, info)...)
	}

	if f, ok := reverseDNS(ctx, target); ok {
		findings = append(findings, f)
	}

	logrus.Infof("network scan on %s finished with %d findings", target, len(findings))
	return findings
}

// sweep runs the port probes through a fixed worker pool and returns
// open-port results sorted by port number.
func (s *Scanner) sweep(ctx context.Context, prober *probe.Prober, target string, ports []int, workers int) []probe.Result {
	portChan := make(chan int)
	resultsChan := make(chan probe.Result, len(ports))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for port := range portChan {
				res := prober.Probe(ctx, target, port)
				if res.Open {
					resultsChan <- res
				}
			}
		}()
	}

	go func() {
		defer close(portChan)
		for _, port := range ports {
			select {
			case <-ctx.Done():
				return
			case portChan <- port:
			}
		}
	}()

	wg.Wait()
	close(resultsChan)

	var open []probe.Result
	for res := range resultsChan {
		open = append(open, res)
	}
	sort.Slice(open, func(i, j int) bool { return open[i].Port < open[j].Port })
	return open
}

// openPortFinding classifies an open port through the risk table.
// Classification is pure: the same (port, service) pair always yields
// the same severity.
func openPortFinding(target string, port int, info service.Info, cfg *models.ScanConfig) models.Finding {
	severity := models.SeverityMedium
	if s, ok := portRisk[port]; ok {
		severity = s
	}
	if cfg != nil {
		if s, ok := cfg.PortRisk[port]; ok && s.Valid() {
			severity = s
		}
	}

	desc := fmt.Sprintf("Port %d is open (%s)", port, info.Name)
	details := map[string]string{
		"port":    strconv.Itoa(port),
		"service": info.Name,
	}
	if info.Version != "" {
		details["version"] = info.Version
	}
	if info.Vendor != "" {
		details["vendor"] = info.Vendor
	}

	return models.Finding{
		Target:      target,
		Module:      plugin.NetworkScanner,
		Type:        models.FindingOpenPort,
		Severity:    severity,
		Title:       fmt.Sprintf("Open port %d/%s", port, info.Name),
		Description: desc,
		Details:     details,
		Remediation: "Close the port or restrict access if the service is not required.",
		Timestamp:   time.Now().UTC(),
	}
}

// versionChecks matches the banner against the known-vulnerable table.
func versionChecks(target string, port int, banner []byte, info service.Info) []models.Finding {
	if len(banner) == 0 {
		return nil
	}
	text := string(banner)

	var findings []models.Finding
	for _, v := range bannerVulns {
		if !strings.Contains(text, v.Substring) {
			continue
		}
		findings = append(findings, models.Finding{
			Target:      target,
			Module:      plugin.NetworkScanner,
			Type:        models.FindingVulnerability,
			Severity:    v.Severity,
			Title:       v.Title,
			Description: v.Description,
			Details: map[string]string{
				"port":    strconv.Itoa(port),
				"service": info.Name,
				"banner":  strings.TrimSpace(v.Substring),
			},
			Remediation: "Upgrade to a supported release.",
			Reference:   v.CVE,
			Timestamp:   time.Now().UTC(),
		})
	}
	return findings
}

// reverseDNS emits an informational finding when the target resolves to
// a hostname. Lookup failure is swallowed.
func reverseDNS(ctx context.Context, target string) (models.Finding, bool) {
	names, err := net.DefaultResolver.LookupAddr(ctx, target)
	if err != nil || len(names) == 0 {
		logrus.Debugf("reverse DNS lookup failed for %s: %v", target, err)
		return models.Finding{}, false
	}
	hostname := strings.TrimSuffix(names[0], ".")
	return models.Finding{
		Target:      target,
		Module:      plugin.NetworkScanner,
		Type:        models.FindingInfo,
		Severity:    models.SeverityInfo,
		Title:       "Reverse DNS record",
		Description: fmt.Sprintf("%s resolves to %s", target, hostname),
		Details:     map[string]string{"hostname": hostname},
		Timestamp:   time.Now().UTC(),
	}, true
}
