package compliance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-sentinel/models"
)

func passRule() EvalRule {
	return func([]models.Finding) (models.ControlStatus, string) {
		return models.ControlPassed, "ok"
	}
}

func failRule() EvalRule {
	return func([]models.Finding) (models.ControlStatus, string) {
		return models.ControlFailed, "bad"
	}
}

func partialRule() EvalRule {
	return func([]models.Finding) (models.ControlStatus, string) {
		return models.ControlPartial, "mixed"
	}
}

func naRule() EvalRule {
	return func([]models.Finding) (models.ControlStatus, string) {
		return models.ControlNotApplicable, "not observed"
	}
}

func framework(rules ...EvalRule) RuledFramework {
	fw := RuledFramework{ID: "test-fw", Name: "Test framework"}
	for i, r := range rules {
		fw.Controls = append(fw.Controls, RuledControl{
			Control: models.Control{ID: string(rune('a' + i))},
			Eval:    r,
		})
	}
	return fw
}

func TestAssess_MeanScore(t *testing.T) {
	s := NewScorer()
	a := s.Assess(framework(passRule(), failRule()), "10.0.0.1", nil, nil)

	assert.Equal(t, 50, a.Score)
	assert.Equal(t, 2, a.Evaluated)
	assert.Equal(t, "non-compliant", a.Status)
}

func TestAssess_NotApplicableExcluded(t *testing.T) {
	s := NewScorer()
	a := s.Assess(framework(passRule(), passRule(), naRule()), "10.0.0.1", nil, nil)

	assert.Equal(t, 100, a.Score)
	assert.Equal(t, 2, a.Evaluated)
	assert.Equal(t, "compliant", a.Status)
	assert.Len(t, a.Results, 3)
}

func TestAssess_AllNotApplicable(t *testing.T) {
	s := NewScorer()
	a := s.Assess(framework(naRule(), naRule()), "10.0.0.1", nil, nil)

	assert.Equal(t, 100, a.Score)
	assert.Equal(t, 0, a.Evaluated)
	assert.Equal(t, "compliant", a.Status)
}

func TestAssess_PartialScoring(t *testing.T) {
	s := NewScorer()
	a := s.Assess(framework(partialRule(), partialRule()), "10.0.0.1", nil, nil)

	assert.Equal(t, 50, a.Score)
	assert.Equal(t, "non-compliant", a.Status)
}

func TestAssess_ThresholdBoundaries(t *testing.T) {
	assert.Equal(t, "compliant", status(85, nil))
	assert.Equal(t, "partially-compliant", status(84, nil))
	assert.Equal(t, "partially-compliant", status(60, nil))
	assert.Equal(t, "non-compliant", status(59, nil))
}

func TestAssess_ConfiguredThresholds(t *testing.T) {
	cfg := &models.ScanConfig{CompliantThreshold: 90, PartialThreshold: 70}
	assert.Equal(t, "partially-compliant", status(85, cfg))
	assert.Equal(t, "non-compliant", status(65, cfg))
	assert.Equal(t, "compliant", status(95, cfg))
}

func TestFailOn_Verdicts(t *testing.T) {
	rule := failOn(models.FindingOpenPort, models.SeverityHigh, "high-risk open port")

	st, _ := rule(nil)
	assert.Equal(t, models.ControlPassed, st)

	st, _ = rule([]models.Finding{{Type: models.FindingOpenPort, Severity: models.SeverityLow}})
	assert.Equal(t, models.ControlPartial, st)

	st, _ = rule([]models.Finding{{Type: models.FindingOpenPort, Severity: models.SeverityCritical}})
	assert.Equal(t, models.ControlFailed, st)

	// Other finding types do not count.
	st, _ = rule([]models.Finding{{Type: models.FindingVulnerability, Severity: models.SeverityCritical}})
	assert.Equal(t, models.ControlPassed, st)
}

func TestFailOnExposure_Verdicts(t *testing.T) {
	rule := failOnExposure("docker")

	st, _ := rule(nil)
	assert.Equal(t, models.ControlNotApplicable, st)

	st, _ = rule([]models.Finding{{
		Type:    models.FindingOpenPort,
		Details: map[string]string{"platform": "docker"},
	}})
	assert.Equal(t, models.ControlPartial, st)

	st, _ = rule([]models.Finding{{
		Type:    models.FindingExposure,
		Details: map[string]string{"platform": "docker"},
	}})
	assert.Equal(t, models.ControlFailed, st)
}

func TestAssessAll_EmitsFindings(t *testing.T) {
	s := NewScorer()
	assessments, findings := s.AssessAll("10.0.0.1", nil, nil)

	require.Len(t, assessments, len(s.Frameworks))
	require.Len(t, findings, len(s.Frameworks))
	for _, f := range findings {
		assert.Equal(t, models.FindingCompliance, f.Type)
		assert.Equal(t, "10.0.0.1", f.Target)
	}
}

func TestBuiltinFrameworks_CleanFindingsCompliant(t *testing.T) {
	s := NewScorer()
	for _, fw := range s.Frameworks {
		a := s.Assess(fw, "10.0.0.1", nil, nil)
		assert.Equal(t, "compliant", a.Status, fw.ID)
	}
}

func TestFrameworkDefinition(t *testing.T) {
	fw := BuiltinFrameworks()[0]
	def := fw.Definition()
	assert.Equal(t, fw.ID, def.ID)
	assert.Len(t, def.Controls, len(fw.Controls))
}
