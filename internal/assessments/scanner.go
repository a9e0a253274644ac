package assessments

import (
	"encoding/json"
	"fmt"

	"github.com/refurbly/gradeserver/pkg/repository"
)

// scanAssessment reads one row in projection column order. The JSONB columns
// come back as raw bytes and are unmarshaled into their domain shapes.
func scanAssessment(s repository.Scanner) (Assessment, error) {
	var (
		a             Assessment
		damageTypes   []byte
		findings      []byte
		videoMetaData []byte
	)

	err := s.Scan(
		&a.ID,
		&a.SKU,
		&a.Grade,
		&a.Confidence,
		&a.OverallCondition,
		&damageTypes,
		&findings,
		&a.ProcessingTimeSeconds,
		&videoMetaData,
		&a.OriginalFileName,
		&a.OriginalContentType,
		&a.SizeBytes,
		&a.AssessmentDate,
	)
	if err != nil {
		return a, err
	}

	if err := json.Unmarshal(damageTypes, &a.DamageTypes); err != nil {
		return a, fmt.Errorf("unmarshal damage_types: %w", err)
	}
	if err := json.Unmarshal(findings, &a.DetailedFindings); err != nil {
		return a, fmt.Errorf("unmarshal detailed_findings: %w", err)
	}
	if videoMetaData != nil {
		if err := json.Unmarshal(videoMetaData, &a.VideoMetadata); err != nil {
			return a, fmt.Errorf("unmarshal video_metadata: %w", err)
		}
	}

	return a, nil
}
