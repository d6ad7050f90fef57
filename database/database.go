package database

import (
	"encoding/json"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"go-sentinel/models"
)

// DB archives finished scan sessions in a SQLite database. The engine
// itself never reads it back; the HTTP surface does.
type DB struct {
	conn *gorm.DB
}

// New opens (or creates) the database at path.
func New(path string) (*DB, error) {
	if path == "" {
		path = "sentinel.db"
	}
	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	db := &DB{conn: conn}
	if err = db.Migrate(); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the schema.
func (db *DB) Migrate() error {
	return db.conn.AutoMigrate(&SessionRow{}, &FindingRow{})
}

// Archive stores a finished session with its findings. Satisfies the
// engine's Archiver contract.
func (db *DB) Archive(session *models.ScanSession, summary models.Summary) error {
	row := SessionRow{
		SessionID:      session.ID,
		Status:         string(session.Status),
		Progress:       session.Progress,
		TargetsScanned: summary.TargetsScanned,
		Duration:       summary.Duration,
		Critical:       summary.Counts.Critical,
		High:           summary.Counts.High,
		Medium:         summary.Counts.Medium,
		Low:            summary.Counts.Low,
		Info:           summary.Counts.Info,
		Error:          session.Error,
	}
	for _, f := range session.Findings {
		details := ""
		if len(f.Details) > 0 {
			if b, err := json.Marshal(f.Details); err == nil {
				details = string(b)
			}
		}
		row.Findings = append(row.Findings, FindingRow{
			Target:      f.Target,
			Module:      f.Module,
			Type:        string(f.Type),
			Severity:    string(f.Severity),
			Title:       f.Title,
			Description: f.Description,
			Remediation: f.Remediation,
			Reference:   f.Reference,
			Details:     details,
		})
	}
	return db.conn.Create(&row).Error
}

// Fetch returns one archived session with findings preloaded.
func (db *DB) Fetch(sessionID string) (*SessionRow, error) {
	var row SessionRow
	err := db.conn.Preload("Findings").Where("session_id = ?", sessionID).First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// List returns the most recent archived sessions without findings.
func (db *DB) List(limit int) ([]SessionRow, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []SessionRow
	err := db.conn.Order("created_at desc").Limit(limit).Find(&rows).Error
	return rows, err
}

// Purge deletes an archived session after the caller retrieved it.
func (db *DB) Purge(sessionID string) error {
	var row SessionRow
	if err := db.conn.Where("session_id = ?", sessionID).First(&row).Error; err != nil {
		return err
	}
	if err := db.conn.Where("session_row_id = ?", row.ID).Delete(&FindingRow{}).Error; err != nil {
		return err
	}
	return db.conn.Delete(&row).Error
}
