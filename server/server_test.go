package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-sentinel/engine"
	"go-sentinel/models"
	"go-sentinel/plugin"
)

type fakeModule struct{ name string }

func (m *fakeModule) Name() string { return m.name }

func (m *fakeModule) Scan(_ context.Context, target string, _ *models.ScanConfig) []models.Finding {
	return []models.Finding{{
		Target:   target,
		Module:   m.name,
		Type:     models.FindingInfo,
		Severity: models.SeverityInfo,
		Title:    "probe ran",
	}}
}

func TestStartScanHandler(t *testing.T) {
	eng := engine.New(plugin.NewRegistry(&fakeModule{name: "network"}), nil, 1)
	defer eng.Shutdown()
	app := New(eng)

	body, _ := json.Marshal(ScanRequestAPI{
		Targets: []string{"127.0.0.1"},
		Config:  models.ScanConfig{Modules: []string{"network"}},
	})
	req := httptest.NewRequest(http.MethodPost, "/scans", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	var started ScanStartedResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&started))
	assert.NotEmpty(t, started.SessionID)
}

func TestStartScanHandler_Invalid(t *testing.T) {
	eng := engine.New(plugin.NewRegistry(&fakeModule{name: "network"}), nil, 1)
	defer eng.Shutdown()
	app := New(eng)

	cases := []ScanRequestAPI{
		{}, // no targets
		{Targets: []string{"127.0.0.1"}, Config: models.ScanConfig{Ports: []int{0}}},
		{Targets: []string{"127.0.0.1"}, Config: models.ScanConfig{Modules: []string{"nonsense"}}},
	}
	for _, tc := range cases {
		body, _ := json.Marshal(tc)
		req := httptest.NewRequest(http.MethodPost, "/scans", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	}
}

func TestStatusHandler_UnknownSession(t *testing.T) {
	eng := engine.New(plugin.NewRegistry(&fakeModule{name: "network"}), nil, 1)
	defer eng.Shutdown()
	app := New(eng)

	req := httptest.NewRequest(http.MethodGet, "/scans/no-such-id", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStatusAndFindingsFlow(t *testing.T) {
	eng := engine.New(plugin.NewRegistry(&fakeModule{name: "network"}), nil, 1)
	defer eng.Shutdown()
	app := New(eng)

	id, err := eng.Start([]string{"127.0.0.1"}, &models.ScanConfig{Modules: []string{"network"}})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		s, ok := eng.Status(id)
		return ok && s.Status == models.StatusCompleted
	}, 5*time.Second, 10*time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/scans/"+id, nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var status SessionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.Equal(t, models.StatusCompleted, status.Session.Status)
	assert.Equal(t, 100, status.Session.Progress)

	req = httptest.NewRequest(http.MethodGet, "/scans/"+id+"/findings", nil)
	resp2, err := app.Test(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.Equal(t, http.StatusOK, resp2.StatusCode)

	var findings FindingsResponse
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&findings))
	require.Len(t, findings.Findings, 1)
	assert.Equal(t, 1, findings.Summary.Counts.Total)
}

func TestStopHandler(t *testing.T) {
	eng := engine.New(plugin.NewRegistry(&fakeModule{name: "network"}), nil, 1)
	defer eng.Shutdown()
	app := New(eng)

	req := httptest.NewRequest(http.MethodDelete, "/scans/no-such-id", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	id, err := eng.Start([]string{"127.0.0.1"}, &models.ScanConfig{Modules: []string{"network"}})
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodDelete, "/scans/"+id, nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
}

func TestModulesHandler(t *testing.T) {
	eng := engine.New(plugin.NewRegistry(&fakeModule{name: "network"}, &fakeModule{name: "web"}), nil, 1)
	defer eng.Shutdown()
	app := New(eng)

	req := httptest.NewRequest(http.MethodGet, "/modules", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var mods ModulesResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&mods))
	assert.Equal(t, 2, mods.Count)
	assert.Equal(t, []string{"network", "web"}, mods.Modules)
}

func TestSettingsHandler(t *testing.T) {
	eng := engine.New(plugin.NewRegistry(&fakeModule{name: "network"}), nil, 1)
	defer eng.Shutdown()
	app := New(eng)

	body, _ := json.Marshal(models.ScanConfig{Modules: []string{"network"}, TimeoutMs: 500})
	req := httptest.NewRequest(http.MethodPost, "/settings", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Unknown module ids are rejected.
	body, _ = json.Marshal(models.ScanConfig{Modules: []string{"nonsense"}})
	req = httptest.NewRequest(http.MethodPost, "/settings", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err = app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestWithDefaults(t *testing.T) {
	h := &Handler{}
	h.defaults = models.ScanConfig{Ports: []int{22, 80}, TimeoutMs: 500, Workers: 4}

	merged := h.withDefaults(models.ScanConfig{TimeoutMs: 1000})
	assert.Equal(t, []int{22, 80}, merged.Ports)
	assert.Equal(t, 1000, merged.TimeoutMs, "request value wins over stored default")
	assert.Equal(t, 4, merged.Workers)
}

func TestScanRequestValidate(t *testing.T) {
	known := []string{"network", "web"}

	ok := ScanRequestAPI{Targets: []string{"10.0.0.1"}}
	assert.True(t, ok.Validate(known))

	compliance := ScanRequestAPI{Targets: []string{"10.0.0.1"}, Config: models.ScanConfig{Modules: []string{"compliance"}}}
	assert.True(t, compliance.Validate(known))

	badPort := ScanRequestAPI{Targets: []string{"10.0.0.1"}, Config: models.ScanConfig{Ports: []int{70000}}}
	assert.False(t, badPort.Validate(known))
}
