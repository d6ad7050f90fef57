package models

// ControlStatus is the outcome of evaluating a single control.
type ControlStatus string

const (
	ControlPassed        ControlStatus = "passed"
	ControlFailed        ControlStatus = "failed"
	ControlPartial       ControlStatus = "partial"
	ControlNotApplicable ControlStatus = "not_applicable"
)

// Control is one individually assessable requirement of a framework.
type Control struct {
	ID          string   `json:"id"`
	Requirement string   `json:"requirement"`
	Remediation []string `json:"remediation,omitempty"`
}

// ComplianceFramework is a named standard with an ordered control list.
type ComplianceFramework struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Controls []Control `json:"controls"`
}

// ControlResult records the evaluation of one control against a target.
type ControlResult struct {
	ControlID string        `json:"control_id"`
	Status    ControlStatus `json:"status"`
	Score     int           `json:"score"` // 0-100; passed=100, failed=0, partial in between
	Evidence  string        `json:"evidence,omitempty"`
}

// Assessment binds a framework to a target with per-control results.
type Assessment struct {
	FrameworkID string          `json:"framework_id"`
	Target      string          `json:"target"`
	Results     []ControlResult `json:"results"`
	Score       int             `json:"score"`
	Status      string          `json:"status"` // compliant | partially-compliant | non-compliant
	Evaluated   int             `json:"evaluated"`
}
