package network_scanner

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-sentinel/models"
	"go-sentinel/service"
)

func TestOpenPortFinding_RiskTable(t *testing.T) {
	cases := []struct {
		port int
		want models.Severity
	}{
		{23, models.SeverityHigh},
		{445, models.SeverityHigh},
		{1723, models.SeverityHigh},
		{21, models.SeverityMedium},
		{25, models.SeverityMedium},
		{22, models.SeverityLow},
		{80, models.SeverityInfo},
		{443, models.SeverityInfo},
		{9999, models.SeverityMedium}, // anything else
	}
	for _, tc := range cases {
		f := openPortFinding("10.0.0.1", tc.port, service.Info{Name: "svc"}, nil)
		assert.Equal(t, tc.want, f.Severity, "port %d", tc.port)
		assert.Equal(t, models.FindingOpenPort, f.Type)
	}
}

func TestOpenPortFinding_Pure(t *testing.T) {
	info := service.Info{Name: "SSH"}
	first := openPortFinding("10.0.0.1", 22, info, nil)
	second := openPortFinding("10.0.0.1", 22, info, nil)
	assert.Equal(t, first.Severity, second.Severity)
	assert.Equal(t, first.Title, second.Title)
}

func TestOpenPortFinding_ConfigOverride(t *testing.T) {
	cfg := &models.ScanConfig{PortRisk: map[int]models.Severity{22: models.SeverityCritical}}
	f := openPortFinding("10.0.0.1", 22, service.Info{Name: "SSH"}, cfg)
	assert.Equal(t, models.SeverityCritical, f.Severity)
}

func TestVersionChecks_KnownVulnerableBanner(t *testing.T) {
	banner := []byte("SSH-2.0-OpenSSH_7.2p2 Ubuntu-4ubuntu2.8\r\n")
	findings := versionChecks("10.0.0.1", 22, banner, service.Info{Name: "SSH"})

	require.Len(t, findings, 1)
	assert.Equal(t, models.FindingVulnerability, findings[0].Type)
	assert.Equal(t, "CVE-2016-6210", findings[0].Reference)
}

func TestVersionChecks_CleanBanner(t *testing.T) {
	banner := []byte("SSH-2.0-OpenSSH_9.6\r\n")
	assert.Empty(t, versionChecks("10.0.0.1", 22, banner, service.Info{Name: "SSH"}))
}

func TestVersionChecks_NoBanner(t *testing.T) {
	assert.Empty(t, versionChecks("10.0.0.1", 22, nil, service.Info{}))
}

func TestScan_OpenAndClosedPorts(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			_, _ = conn.Write([]byte("SSH-2.0-OpenSSH_9.6\r\n"))
			conn.Close()
		}
	}()
	openPort := ln.Addr().(*net.TCPAddr).Port

	// Reserve a second port and close it so it refuses connections.
	closedLn, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	closedPort := closedLn.Addr().(*net.TCPAddr).Port
	closedLn.Close()

	s := &Scanner{Timeout: 500 * time.Millisecond, Workers: 2}
	cfg := &models.ScanConfig{Ports: []int{openPort, closedPort}}
	findings := s.Scan(context.Background(), "127.0.0.1", cfg)

	var open []models.Finding
	for _, f := range findings {
		if f.Type == models.FindingOpenPort {
			open = append(open, f)
		}
	}
	require.Len(t, open, 1)
	assert.Equal(t, "SSH", open[0].Details["service"])
}

func TestScannerName(t *testing.T) {
	s := &Scanner{}
	assert.Equal(t, "network", s.Name())
}
