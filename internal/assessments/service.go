package assessments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/refurbly/gradeserver/internal/media"
	"github.com/refurbly/gradeserver/internal/video"
	"github.com/refurbly/gradeserver/internal/vision"
	"github.com/refurbly/gradeserver/pkg/pagination"
)

// Grader produces validated condition results from prepared media.
// *vision.Requestor satisfies it in production.
type Grader interface {
	AssessImages(ctx context.Context, images []media.NormalizedImage) (*vision.Result, error)
	AssessVideoFrame(ctx context.Context, frame media.NormalizedImage, meta video.Metadata) (*vision.Result, error)
}

// System is the assessment domain surface wired into the server.
type System interface {
	Handler(logger *slog.Logger, pagination pagination.Config, maxFiles int, maxUploadSize int64) *Handler
	AssessBatch(ctx context.Context, items []media.UploadItem) BatchResult
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Assessment], error)
	Find(ctx context.Context, id uuid.UUID) (*Assessment, error)
}

type system struct {
	store      Store
	grader     Grader
	sampler    video.Sampler
	frameCount int
	logger     *slog.Logger
}

// NewSystem assembles the assessment pipeline from its collaborators.
func NewSystem(store Store, grader Grader, sampler video.Sampler, frameCount int, logger *slog.Logger) System {
	if frameCount < 1 {
		frameCount = video.DefaultFrameCount
	}
	return &system{
		store:      store,
		grader:     grader,
		sampler:    sampler,
		frameCount: frameCount,
		logger:     logger.With("system", "assessments"),
	}
}

func (s *system) Handler(logger *slog.Logger, pagination pagination.Config, maxFiles int, maxUploadSize int64) *Handler {
	return NewHandler(s, logger, pagination, maxFiles, maxUploadSize)
}

// AssessBatch runs every upload through the pipeline independently. A failure
// on one file never aborts the others, and the response carries exactly one
// outcome per submitted file in submission order.
func (s *system) AssessBatch(ctx context.Context, items []media.UploadItem) BatchResult {
	outcomes := make([]ItemOutcome, 0, len(items))
	allSucceeded := true

	for _, item := range items {
		outcome := s.assessItem(ctx, item)
		if !outcome.Success {
			allSucceeded = false
		}
		outcomes = append(outcomes, outcome)
	}

	return BatchResult{Success: allSucceeded, Results: outcomes}
}

func (s *system) assessItem(ctx context.Context, item media.UploadItem) ItemOutcome {
	failure := func(err error) ItemOutcome {
		s.logger.Warn("assessment failed",
			"file", item.FileName,
			"content_type", item.DeclaredContentType,
			"error", err,
		)
		return ItemOutcome{OriginalFileName: item.FileName, Error: err.Error()}
	}

	var (
		result *vision.Result
		err    error
	)

	switch media.Classify(item.DeclaredContentType, item.FileName) {
	case media.KindImage:
		result, err = s.assessImage(ctx, item)
	case media.KindVideo:
		result, err = s.assessVideo(ctx, item)
	default:
		return failure(fmt.Errorf(
			"invalid file type %q: upload laptop photos or videos",
			item.DeclaredContentType,
		))
	}
	if err != nil {
		return failure(err)
	}

	record := newAssessment(result, item.FileName, item.DeclaredContentType, item.SizeBytes)
	created, err := s.store.Insert(ctx, record)
	if err != nil {
		return failure(fmt.Errorf("failed to save assessment, please retry: %w", err))
	}

	s.logger.Info("assessment complete",
		"file", item.FileName,
		"sku", created.SKU,
		"grade", created.Grade,
	)
	return ItemOutcome{OriginalFileName: item.FileName, Success: true, Assessment: created}
}

func (s *system) assessImage(ctx context.Context, item media.UploadItem) (*vision.Result, error) {
	if len(item.Data) < media.MinImageBytes {
		return nil, media.ErrInvalidImage
	}

	normalized, err := media.Normalize(item.Data, item.DeclaredContentType)
	if err != nil {
		return nil, err
	}

	return s.grader.AssessImages(ctx, []media.NormalizedImage{*normalized})
}

// assessVideo grades the middle sampled frame. When the sampler cannot
// produce frames the item still succeeds with a conservative placeholder
// grade flagged for manual review, so one broken codec does not block
// intake of the unit.
func (s *system) assessVideo(ctx context.Context, item media.UploadItem) (*vision.Result, error) {
	frames, err := s.sampler.ExtractFrames(ctx, item.Data, s.frameCount)
	if err != nil {
		s.logger.Warn("video frame extraction failed, recording placeholder grade",
			"file", item.FileName,
			"error", err,
		)
		return degradedVideoResult(), nil
	}

	frame := frames.MiddleFrame()
	result, err := s.grader.AssessVideoFrame(ctx, frame, frames.Metadata)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		s.logger.Warn("video frame grading failed, recording placeholder grade",
			"file", item.FileName,
			"error", err,
		)
		return degradedVideoResult(), nil
	}
	return result, nil
}

func degradedVideoResult() *vision.Result {
	return &vision.Result{
		Grade:            vision.GradeC,
		Confidence:       0.3,
		OverallCondition: "Video uploaded but automated analysis was incomplete; assign a technician for manual review",
		DamageTypes:      []string{"Video Processing Error"},
		DetailedFindings: []vision.Finding{{
			Category:    "Processing",
			Severity:    vision.SeverityMedium,
			Description: "Automated frame analysis did not complete; the recorded grade is a conservative placeholder pending manual review",
		}},
	}
}

func (s *system) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Assessment], error) {
	return s.store.List(ctx, page, filters)
}

func (s *system) Find(ctx context.Context, id uuid.UUID) (*Assessment, error) {
	return s.store.Find(ctx, id)
}
