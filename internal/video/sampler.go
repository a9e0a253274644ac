package video

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/refurbly/gradeserver/internal/media"
)

// DefaultFrameCount is the number of representative frames requested per video.
const DefaultFrameCount = 3

// FrameSet is the result of sampling one video: an ordered sequence of
// normalized frames plus the probed container metadata. A successful
// extraction always carries at least one frame.
type FrameSet struct {
	Frames   []media.NormalizedImage
	Metadata Metadata
}

// MiddleFrame returns the temporally centered frame of the set. Selection is
// deterministic so repeated assessments of the same upload analyze the same
// frame.
func (fs *FrameSet) MiddleFrame() media.NormalizedImage {
	return fs.Frames[len(fs.Frames)/2]
}

// Sampler extracts still frames from video byte streams.
type Sampler interface {
	ExtractFrames(ctx context.Context, videoData []byte, frameCount int) (*FrameSet, error)
}

type ffmpegSampler struct {
	logger  *slog.Logger
	timeout time.Duration
}

// NewSampler creates a Sampler backed by the ffmpeg and ffprobe binaries on
// the host. Each subprocess invocation is bounded by timeout.
func NewSampler(logger *slog.Logger, timeout time.Duration) Sampler {
	return &ffmpegSampler{
		logger:  logger.With("system", "video"),
		timeout: timeout,
	}
}

// ExtractFrames writes the video to a scoped temporary directory, probes its
// metadata, and pulls frameCount uniformly spaced still frames. The temporary
// directory is removed on every exit path.
func (s *ffmpegSampler) ExtractFrames(ctx context.Context, videoData []byte, frameCount int) (*FrameSet, error) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return nil, ErrUnavailable
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return nil, ErrUnavailable
	}

	if frameCount < 1 {
		frameCount = DefaultFrameCount
	}

	dir, err := os.MkdirTemp("", "gradeserver-video-*")
	if err != nil {
		return nil, fmt.Errorf("%w: temp dir: %v", ErrExtractionFailed, err)
	}
	defer os.RemoveAll(dir)

	src := filepath.Join(dir, uuid.NewString()+".video")
	if err := os.WriteFile(src, videoData, 0o600); err != nil {
		return nil, fmt.Errorf("%w: write source: %v", ErrExtractionFailed, err)
	}

	probeCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	meta, err := probe(probeCtx, src)
	if err != nil {
		return nil, err
	}

	interval := SamplingInterval(meta.DurationSeconds, frameCount)
	pattern := filepath.Join(dir, "frame_%03d.jpg")

	extractCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cmd := exec.CommandContext(extractCtx, "ffmpeg",
		"-i", src,
		"-vf", fmt.Sprintf("fps=1/%d", interval),
		"-frames:v", fmt.Sprintf("%d", frameCount),
		"-q:v", "2",
		pattern,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("%w: ffmpeg: %v: %s", ErrExtractionFailed, err, truncate(output, 512))
	}

	frames, err := s.collectFrames(dir)
	if err != nil {
		return nil, err
	}

	return &FrameSet{Frames: frames, Metadata: *meta}, nil
}

// SamplingInterval computes the uniform spacing in seconds between sampled
// frames: max(1, floor(duration / frameCount)). Uniform temporal sampling is
// a deliberate simplification; only one representative frame is ultimately
// analyzed.
func SamplingInterval(durationSeconds float64, frameCount int) int {
	interval := int(durationSeconds) / frameCount
	if interval < 1 {
		interval = 1
	}
	return interval
}

// collectFrames reads back whatever frames ffmpeg produced. A frame file that
// fails to read or normalize is skipped with a warning; zero usable frames is
// a failure, never a degenerate success.
func (s *ffmpegSampler) collectFrames(dir string) ([]media.NormalizedImage, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "frame_*.jpg"))
	if err != nil {
		return nil, fmt.Errorf("%w: glob frames: %v", ErrExtractionFailed, err)
	}
	sort.Strings(matches)

	frames := make([]media.NormalizedImage, 0, len(matches))
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			s.logger.Warn("skipping unreadable frame", "path", path, "error", err)
			continue
		}

		frame, err := media.Normalize(data, media.CanonicalMimeType)
		if err != nil {
			s.logger.Warn("skipping undecodable frame", "path", path, "error", err)
			continue
		}

		frames = append(frames, *frame)
	}

	if len(frames) == 0 {
		return nil, fmt.Errorf("%w: no frames produced", ErrExtractionFailed)
	}

	return frames, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
