package compliance

import (
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"go-sentinel/models"
)

// Default scoring thresholds; configurable per scan.
const (
	DefaultCompliantThreshold = 85
	DefaultPartialThreshold   = 60
	partialScore              = 50
)

// Scorer aggregates control-level results into framework scores.
type Scorer struct {
	Frameworks []RuledFramework
}

// NewScorer returns a scorer over the builtin frameworks.
func NewScorer() *Scorer {
	return &Scorer{Frameworks: BuiltinFrameworks()}
}

// Assess evaluates one framework against the findings collected for a
// target. Not-applicable controls are excluded from both numerator and
// denominator; a framework where every control is not applicable yields
// score 100 with Evaluated == 0 so the consumer can tell it apart.
func (s *Scorer) Assess(framework RuledFramework, target string, findings []models.Finding, cfg *models.ScanConfig) models.Assessment {
	assessment := models.Assessment{
		FrameworkID: framework.ID,
		Target:      target,
	}

	total := 0
	for _, ctrl := range framework.Controls {
		status, evidence := ctrl.Eval(findings)
		result := models.ControlResult{
			ControlID: ctrl.ID,
			Status:    status,
			Evidence:  evidence,
		}
		switch status {
		case models.ControlPassed:
			result.Score = 100
		case models.ControlFailed:
			result.Score = 0
		case models.ControlPartial:
			result.Score = partialScore
		}
		assessment.Results = append(assessment.Results, result)
		if status != models.ControlNotApplicable {
			total += result.Score
			assessment.Evaluated++
		}
	}

	if assessment.Evaluated == 0 {
		assessment.Score = 100
	} else {
		assessment.Score = int(math.Round(float64(total) / float64(assessment.Evaluated)))
	}
	assessment.Status = status(assessment.Score, cfg)

	logrus.Debugf("framework %s scored %d (%s) for %s", framework.ID, assessment.Score, assessment.Status, target)
	return assessment
}

// AssessAll runs every framework and additionally renders the
// assessments as compliance findings for the session stream.
func (s *Scorer) AssessAll(target string, findings []models.Finding, cfg *models.ScanConfig) ([]models.Assessment, []models.Finding) {
	var assessments []models.Assessment
	var out []models.Finding
	now := time.Now().UTC()

	for _, fw := range s.Frameworks {
		a := s.Assess(fw, target, findings, cfg)
		assessments = append(assessments, a)

		severity := models.SeverityInfo
		switch a.Status {
		case "non-compliant":
			severity = models.SeverityHigh
		case "partially-compliant":
			severity = models.SeverityMedium
		}
		out = append(out, models.Finding{
			Target:      target,
			Module:      "compliance",
			Type:        models.FindingCompliance,
			Severity:    severity,
			Title:       fmt.Sprintf("%s: %s (%d%%)", fw.Name, a.Status, a.Score),
			Description: fmt.Sprintf("%d of %d applicable controls evaluated; framework score %d%%.", a.Evaluated, len(fw.Controls), a.Score),
			Details: map[string]string{
				"framework": fw.ID,
				"score":     fmt.Sprintf("%d", a.Score),
				"status":    a.Status,
			},
			Timestamp: now,
		})
	}
	return assessments, out
}

// status maps a score to the overall compliance verdict using the
// configured thresholds, defaulting to 85/60.
func status(score int, cfg *models.ScanConfig) string {
	compliant := DefaultCompliantThreshold
	partial := DefaultPartialThreshold
	if cfg != nil {
		if cfg.CompliantThreshold > 0 {
			compliant = cfg.CompliantThreshold
		}
		if cfg.PartialThreshold > 0 {
			partial = cfg.PartialThreshold
		}
	}
	switch {
	case score >= compliant:
		return "compliant"
	case score >= partial:
		return "partially-compliant"
	default:
		return "non-compliant"
	}
}
