package container_scanner

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-sentinel/models"
)

func TestExposureFinding_OpenVsConfirmed(t *testing.T) {
	exp := exposures[0] // plaintext Docker daemon

	open := exposureFinding("10.0.0.1", exp, false)
	assert.Equal(t, models.FindingOpenPort, open.Type)
	assert.Equal(t, models.SeverityHigh, open.Severity)
	assert.Equal(t, "false", open.Details["confirmed"])

	confirmed := exposureFinding("10.0.0.1", exp, true)
	assert.Equal(t, models.FindingExposure, confirmed.Type)
	assert.Equal(t, models.SeverityCritical, confirmed.Severity)
	assert.Equal(t, "docker", confirmed.Details["platform"])
	assert.Equal(t, "true", confirmed.Details["confirmed"])
}

func TestSelected_PlatformFilter(t *testing.T) {
	s := &Scanner{Platforms: []string{"docker"}}
	for _, exp := range s.selected() {
		assert.Equal(t, "docker", exp.Platform)
	}

	all := (&Scanner{}).selected()
	assert.Len(t, all, len(exposures))
}

func TestAdvisoryFindings_AlwaysInfo(t *testing.T) {
	findings := advisoryFindings("10.0.0.1")
	require.Len(t, findings, len(advisories))
	for _, f := range findings {
		assert.Equal(t, models.FindingInfo, f.Type)
		assert.Equal(t, models.SeverityInfo, f.Severity)
		assert.NotEmpty(t, f.Details["framework"])
	}
}

func TestConfirm_AgainstTestServer(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/version" {
			_, _ = w.Write([]byte(`{"Version":"24.0.7"}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	addr := ts.Listener.Addr().(*net.TCPAddr)
	client := &http.Client{Timeout: time.Second}

	exp := exposure{Port: addr.Port, Platform: "docker", Service: "Docker daemon", ConfirmPath: "/version"}
	assert.True(t, confirm(context.Background(), client, "127.0.0.1", exp))

	exp.ConfirmPath = "/secrets"
	assert.False(t, confirm(context.Background(), client, "127.0.0.1", exp))
}

func TestConfirm_SelfSignedHTTPSEndpoint(t *testing.T) {
	// API servers and kubelets present self-signed or cluster-CA certs;
	// confirmation must still see the anonymous 200 behind them.
	ts := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/version" {
			_, _ = w.Write([]byte(`{"major":"1","minor":"29"}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	addr := ts.Listener.Addr().(*net.TCPAddr)
	client := confirmClient(time.Second)

	exp := exposure{Port: addr.Port, Platform: "kubernetes", Service: "Kubernetes API server", TLS: true, ConfirmPath: "/version"}
	assert.True(t, confirm(context.Background(), client, "127.0.0.1", exp))
}

func TestScan_EmitsAdvisoriesWithoutOpenPorts(t *testing.T) {
	// No container surface listens locally, so only advisories come back.
	s := &Scanner{Timeout: 200 * time.Millisecond, Platforms: []string{"openshift"}}
	findings := s.Scan(context.Background(), "127.0.0.1", &models.ScanConfig{TimeoutMs: 200})

	require.NotEmpty(t, findings)
	for _, f := range findings {
		if f.Type == models.FindingInfo {
			continue
		}
		// Anything else must reference a real local listener.
		t.Fatalf("unexpected finding %s on port %s", f.Type, f.Details["port"])
	}
}
