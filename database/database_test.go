package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-sentinel/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	return db
}

func testSession() *models.ScanSession {
	start := time.Now().Add(-time.Minute)
	return &models.ScanSession{
		ID:               "session-1",
		Status:           models.StatusCompleted,
		Progress:         100,
		CompletedTargets: 1,
		StartedAt:        start,
		FinishedAt:       start.Add(30 * time.Second),
		Findings: []models.Finding{
			{
				Target:   "10.0.0.1",
				Module:   "network",
				Type:     models.FindingOpenPort,
				Severity: models.SeverityHigh,
				Title:    "Open port 445/SMB",
				Details:  map[string]string{"port": "445"},
			},
			{
				Target:   "10.0.0.1",
				Module:   "tls",
				Type:     models.FindingSSLCertificate,
				Severity: models.SeverityMedium,
				Title:    "Certificate signed with SHA-1",
			},
		},
	}
}

func TestArchiveAndFetch(t *testing.T) {
	db := testDB(t)
	session := testSession()

	require.NoError(t, db.Archive(session, session.Summarize()))

	row, err := db.Fetch("session-1")
	require.NoError(t, err)
	assert.Equal(t, "completed", row.Status)
	assert.Equal(t, 100, row.Progress)
	assert.Equal(t, 1, row.High)
	assert.Equal(t, 1, row.Medium)
	require.Len(t, row.Findings, 2)
	assert.Equal(t, "Open port 445/SMB", row.Findings[0].Title)
	assert.Contains(t, row.Findings[0].Details, `"port":"445"`)
}

func TestFetch_Unknown(t *testing.T) {
	db := testDB(t)
	_, err := db.Fetch("missing")
	assert.Error(t, err)
}

func TestList(t *testing.T) {
	db := testDB(t)
	s := testSession()
	require.NoError(t, db.Archive(s, s.Summarize()))

	rows, err := db.List(0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "session-1", rows[0].SessionID)
}

func TestPurge(t *testing.T) {
	db := testDB(t)
	s := testSession()
	require.NoError(t, db.Archive(s, s.Summarize()))

	require.NoError(t, db.Purge("session-1"))
	_, err := db.Fetch("session-1")
	assert.Error(t, err)

	assert.Error(t, db.Purge("session-1"))
}
