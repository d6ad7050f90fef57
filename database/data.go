package database

import "gorm.io/gorm"

// SessionRow archives one finished scan session.
type SessionRow struct {
	gorm.Model
	SessionID      string `gorm:"uniqueIndex"`
	Status         string
	Progress       int
	TargetsScanned int
	Duration       string
	Critical       int
	High           int
	Medium         int
	Low            int
	Info           int
	Error          string
	Findings       []FindingRow `gorm:"foreignKey:SessionRowID"`
}

// FindingRow archives one finding of a session.
type FindingRow struct {
	gorm.Model
	SessionRowID uint `gorm:"index"`
	Target       string
	Module       string
	Type         string
	Severity     string
	Title        string
	Description  string
	Remediation  string
	Reference    string
	Details      string // JSON-encoded detail map
}
