package assessments

import "github.com/refurbly/gradeserver/pkg/query"

var projection = query.NewProjectionMap("public", "assessments", "a").
	Project("id", "ID").
	Project("sku", "SKU").
	Project("grade", "Grade").
	Project("confidence", "Confidence").
	Project("overall_condition", "OverallCondition").
	Project("damage_types", "DamageTypes").
	Project("detailed_findings", "DetailedFindings").
	Project("processing_time_seconds", "ProcessingTimeSeconds").
	Project("video_metadata", "VideoMetadata").
	Project("original_file_name", "OriginalFileName").
	Project("original_content_type", "OriginalContentType").
	Project("size_bytes", "SizeBytes").
	Project("assessment_date", "AssessmentDate")

var defaultSort = query.SortField{Field: "AssessmentDate", Descending: true}
