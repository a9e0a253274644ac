package vision

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/refurbly/gradeserver/internal/media"
	"github.com/refurbly/gradeserver/internal/video"
)

// Requestor builds grading requests against the fixed rubric, invokes the
// reasoning service through its Client, and validates replies. It never
// retries; the batch orchestrator decides how a failure is surfaced.
type Requestor struct {
	client Client
	logger *slog.Logger
}

// NewRequestor creates a Requestor over the given client.
func NewRequestor(client Client, logger *slog.Logger) *Requestor {
	return &Requestor{
		client: client,
		logger: logger.With("system", "vision"),
	}
}

// AssessImages grades a device from one or more normalized photos. With more
// than one image the instruction demands a per-image breakdown before the
// aggregate grade.
func (r *Requestor) AssessImages(ctx context.Context, images []media.NormalizedImage) (*Result, error) {
	if len(images) == 0 {
		return nil, fmt.Errorf("%w: no images to assess", ErrInvocationFailed)
	}
	return r.assess(ctx, buildPrompt(len(images)), images, nil)
}

// AssessVideoFrame grades a device from a single representative video frame.
// The instruction acknowledges single-frame limitations and the result is
// annotated with the probed container metadata.
func (r *Requestor) AssessVideoFrame(ctx context.Context, frame media.NormalizedImage, meta video.Metadata) (*Result, error) {
	return r.assess(ctx, buildVideoPrompt(), []media.NormalizedImage{frame}, &meta)
}

func (r *Requestor) assess(ctx context.Context, prompt string, images []media.NormalizedImage, meta *video.Metadata) (*Result, error) {
	start := time.Now()

	reply, err := r.client.Complete(ctx, prompt, images)
	if err != nil {
		return nil, err
	}

	result, err := ValidateReply(reply)
	if err != nil {
		r.logger.Warn("rejected model reply", "error", err)
		return nil, err
	}

	result.ProcessingTimeSeconds = time.Since(start).Seconds()
	result.VideoMetadata = meta

	r.logger.Info("assessment completed",
		"grade", result.Grade,
		"confidence", result.Confidence,
		"images", len(images),
		"elapsed_seconds", result.ProcessingTimeSeconds,
	)

	return result, nil
}
