package assessments

import (
	"time"

	"github.com/google/uuid"
	"github.com/refurbly/gradeserver/internal/vision"
)

// Assessment is one durable condition record. The pipeline only ever creates
// assessments; it never mutates them after the write.
type Assessment struct {
	ID                    uuid.UUID        `json:"id"`
	SKU                   string           `json:"sku"`
	Grade                 vision.Grade     `json:"grade"`
	Confidence            float64          `json:"confidence"`
	OverallCondition      string           `json:"overall_condition"`
	DamageTypes           []string         `json:"damage_types"`
	DetailedFindings      []vision.Finding `json:"detailed_findings"`
	ProcessingTimeSeconds float64          `json:"processing_time_seconds"`
	VideoMetadata         *videoMetadata   `json:"video_metadata,omitempty"`
	OriginalFileName      string           `json:"original_file_name"`
	OriginalContentType   string           `json:"original_content_type"`
	SizeBytes             int64            `json:"size_bytes"`
	AssessmentDate        time.Time        `json:"assessment_date"`
}

// videoMetadata mirrors the sampler's probe output for persistence.
type videoMetadata struct {
	DurationSeconds float64 `json:"duration_seconds"`
	WidthPx         int     `json:"width_px"`
	HeightPx        int     `json:"height_px"`
	FPS             float64 `json:"fps"`
}

// newAssessment assembles a persistable record from a validated model result
// and the upload's file metadata.
func newAssessment(result *vision.Result, fileName, contentType string, sizeBytes int64) *Assessment {
	a := &Assessment{
		ID:                    uuid.New(),
		SKU:                   GenerateSKU(),
		Grade:                 result.Grade,
		Confidence:            result.Confidence,
		OverallCondition:      result.OverallCondition,
		DamageTypes:           result.DamageTypes,
		DetailedFindings:      result.DetailedFindings,
		ProcessingTimeSeconds: result.ProcessingTimeSeconds,
		OriginalFileName:      fileName,
		OriginalContentType:   contentType,
		SizeBytes:             sizeBytes,
	}

	if result.VideoMetadata != nil {
		a.VideoMetadata = &videoMetadata{
			DurationSeconds: result.VideoMetadata.DurationSeconds,
			WidthPx:         result.VideoMetadata.WidthPx,
			HeightPx:        result.VideoMetadata.HeightPx,
			FPS:             result.VideoMetadata.FPS,
		}
	}

	return a
}

// ItemOutcome is the per-file entry in a batch response. Exactly one outcome
// exists per submitted file; Success and Error are mutually exclusive.
type ItemOutcome struct {
	OriginalFileName string      `json:"original_file_name"`
	Success          bool        `json:"success"`
	Assessment       *Assessment `json:"assessment,omitempty"`
	Error            string      `json:"error,omitempty"`
}

// BatchResult is the aggregate response for one upload batch.
type BatchResult struct {
	Success bool          `json:"success"`
	Results []ItemOutcome `json:"results"`
}
