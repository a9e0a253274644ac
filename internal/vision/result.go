package vision

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/refurbly/gradeserver/internal/video"
)

// Grade is one of four ordinal condition tiers assigned by the reasoning service.
type Grade string

// Condition grades, excellent through poor.
const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
)

// ParseGrade validates a grade letter case-insensitively.
// Anything outside A-D is rejected, never coerced.
func ParseGrade(s string) (Grade, error) {
	switch Grade(strings.ToUpper(strings.TrimSpace(s))) {
	case GradeA:
		return GradeA, nil
	case GradeB:
		return GradeB, nil
	case GradeC:
		return GradeC, nil
	case GradeD:
		return GradeD, nil
	}
	return "", fmt.Errorf("invalid grade %q", s)
}

// Severity is the impact tier of one finding.
type Severity string

// Finding severities.
const (
	SeverityLow    Severity = "Low"
	SeverityMedium Severity = "Medium"
	SeverityHigh   Severity = "High"
)

// ParseSeverity validates a severity value case-insensitively.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return SeverityLow, nil
	case "medium":
		return SeverityMedium, nil
	case "high":
		return SeverityHigh, nil
	}
	return "", fmt.Errorf("invalid severity %q", s)
}

// Finding is one itemized observation about a physical area of the device.
// Findings are produced only by the reasoning service; this package validates
// their shape but never synthesizes or edits them.
type Finding struct {
	Category    string   `json:"category"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
}

// Result is the validated, canonical output of one assessment call.
type Result struct {
	Grade                 Grade           `json:"grade"`
	Confidence            float64         `json:"confidence"`
	OverallCondition      string          `json:"overall_condition"`
	DamageTypes           []string        `json:"damage_types"`
	DetailedFindings      []Finding       `json:"detailed_findings"`
	ProcessingTimeSeconds float64         `json:"processing_time_seconds"`
	VideoMetadata         *video.Metadata `json:"video_metadata,omitempty"`
}

// rawResult mirrors the reply shape before validation. Enum fields stay as
// strings so validation controls acceptance, not JSON unmarshaling.
type rawResult struct {
	Grade            string  `json:"grade"`
	Confidence       float64 `json:"confidence"`
	OverallCondition string  `json:"overall_condition"`
	DamageTypes      []string `json:"damage_types"`
	DetailedFindings []struct {
		Category    string `json:"category"`
		Severity    string `json:"severity"`
		Description string `json:"description"`
	} `json:"detailed_findings"`
}

// ValidateReply parses the reasoning service's reply text and validates it
// against the exact expected shape. A JSON parse failure is
// ErrResponseMalformed; any shape deviation is ErrResponseInvalid. A
// partially valid reply is never forwarded.
func ValidateReply(reply string) (*Result, error) {
	reply = stripCodeFences(reply)

	var raw rawResult
	if err := json.Unmarshal([]byte(reply), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResponseMalformed, err)
	}

	grade, err := ParseGrade(raw.Grade)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResponseInvalid, err)
	}

	if math.IsNaN(raw.Confidence) || raw.Confidence < 0 || raw.Confidence > 1 {
		return nil, fmt.Errorf("%w: confidence %v outside [0, 1]", ErrResponseInvalid, raw.Confidence)
	}

	if strings.TrimSpace(raw.OverallCondition) == "" {
		return nil, fmt.Errorf("%w: missing overall_condition", ErrResponseInvalid)
	}

	findings := make([]Finding, len(raw.DetailedFindings))
	for i, f := range raw.DetailedFindings {
		severity, err := ParseSeverity(f.Severity)
		if err != nil {
			return nil, fmt.Errorf("%w: finding %d: %v", ErrResponseInvalid, i, err)
		}
		if strings.TrimSpace(f.Description) == "" {
			return nil, fmt.Errorf("%w: finding %d: missing description", ErrResponseInvalid, i)
		}
		findings[i] = Finding{
			Category:    f.Category,
			Severity:    severity,
			Description: f.Description,
		}
	}

	damageTypes := raw.DamageTypes
	if damageTypes == nil {
		damageTypes = []string{}
	}

	return &Result{
		Grade:            grade,
		Confidence:       raw.Confidence,
		OverallCondition: raw.OverallCondition,
		DamageTypes:      damageTypes,
		DetailedFindings: findings,
	}, nil
}

// stripCodeFences removes a surrounding markdown code fence, which models
// emit even when instructed to reply with bare JSON.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
