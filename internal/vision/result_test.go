package vision_test

import (
	"errors"
	"testing"

	"github.com/refurbly/gradeserver/internal/vision"
)

const validReply = `{
	"grade": "B",
	"confidence": 0.85,
	"overall_condition": "Minor scuffs on the lid, screen and keyboard intact",
	"damage_types": ["Scratches"],
	"detailed_findings": [
		{"category": "Lid", "severity": "Low", "description": "Light scuffing near the hinge"}
	]
}`

func TestValidateReply(t *testing.T) {
	result, err := vision.ValidateReply(validReply)
	if err != nil {
		t.Fatalf("ValidateReply() error = %v", err)
	}

	if result.Grade != vision.GradeB {
		t.Errorf("Grade = %v, want B", result.Grade)
	}
	if result.Confidence != 0.85 {
		t.Errorf("Confidence = %v, want 0.85", result.Confidence)
	}
	if len(result.DetailedFindings) != 1 {
		t.Fatalf("DetailedFindings count = %d, want 1", len(result.DetailedFindings))
	}
	if result.DetailedFindings[0].Severity != vision.SeverityLow {
		t.Errorf("Severity = %v, want Low", result.DetailedFindings[0].Severity)
	}
}

func TestValidateReplyCodeFenced(t *testing.T) {
	fenced := "```json\n" + validReply + "\n```"

	result, err := vision.ValidateReply(fenced)
	if err != nil {
		t.Fatalf("ValidateReply(fenced) error = %v", err)
	}
	if result.Grade != vision.GradeB {
		t.Errorf("Grade = %v, want B", result.Grade)
	}
}

func TestValidateReplyLowercaseGrade(t *testing.T) {
	reply := `{"grade": "c", "confidence": 0.5, "overall_condition": "Worn"}`

	result, err := vision.ValidateReply(reply)
	if err != nil {
		t.Fatalf("ValidateReply() error = %v", err)
	}
	if result.Grade != vision.GradeC {
		t.Errorf("Grade = %v, want C", result.Grade)
	}
}

func TestValidateReplyNilDamageTypes(t *testing.T) {
	reply := `{"grade": "A", "confidence": 0.9, "overall_condition": "Pristine"}`

	result, err := vision.ValidateReply(reply)
	if err != nil {
		t.Fatalf("ValidateReply() error = %v", err)
	}
	if result.DamageTypes == nil {
		t.Error("DamageTypes = nil, want empty slice")
	}
	if len(result.DamageTypes) != 0 {
		t.Errorf("DamageTypes = %v, want empty", result.DamageTypes)
	}
}

func TestValidateReplyRejections(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  error
	}{
		{"not json", "the laptop looks fine to me", vision.ErrResponseMalformed},
		{"truncated json", `{"grade": "A", "confi`, vision.ErrResponseMalformed},
		{"grade out of range", `{"grade": "E", "confidence": 0.5, "overall_condition": "x"}`, vision.ErrResponseInvalid},
		{"grade empty", `{"confidence": 0.5, "overall_condition": "x"}`, vision.ErrResponseInvalid},
		{"confidence above one", `{"grade": "A", "confidence": 1.2, "overall_condition": "x"}`, vision.ErrResponseInvalid},
		{"confidence negative", `{"grade": "A", "confidence": -0.1, "overall_condition": "x"}`, vision.ErrResponseInvalid},
		{"missing condition", `{"grade": "A", "confidence": 0.5}`, vision.ErrResponseInvalid},
		{"blank condition", `{"grade": "A", "confidence": 0.5, "overall_condition": "  "}`, vision.ErrResponseInvalid},
		{
			"bad finding severity",
			`{"grade": "A", "confidence": 0.5, "overall_condition": "x",
			  "detailed_findings": [{"category": "Lid", "severity": "Catastrophic", "description": "d"}]}`,
			vision.ErrResponseInvalid,
		},
		{
			"finding missing description",
			`{"grade": "A", "confidence": 0.5, "overall_condition": "x",
			  "detailed_findings": [{"category": "Lid", "severity": "Low", "description": ""}]}`,
			vision.ErrResponseInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := vision.ValidateReply(tt.reply)
			if !errors.Is(err, tt.want) {
				t.Errorf("ValidateReply() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseGrade(t *testing.T) {
	for _, s := range []string{"A", "b", " C ", "d"} {
		if _, err := vision.ParseGrade(s); err != nil {
			t.Errorf("ParseGrade(%q) error = %v", s, err)
		}
	}
	for _, s := range []string{"E", "AA", "", "1"} {
		if _, err := vision.ParseGrade(s); err == nil {
			t.Errorf("ParseGrade(%q) error = nil, want error", s)
		}
	}
}
