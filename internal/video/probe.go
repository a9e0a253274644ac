package video

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Metadata describes the probed video container.
type Metadata struct {
	DurationSeconds float64 `json:"duration_seconds"`
	WidthPx         int     `json:"width_px"`
	HeightPx        int     `json:"height_px"`
	FPS             float64 `json:"fps"`
}

// probe inspects the video file with ffprobe and parses the key=value output.
func probe(ctx context.Context, path string) (*Metadata, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration:stream=width,height,r_frame_rate",
		"-of", "default=noprint_wrappers=1",
		path,
	)

	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%w: ffprobe: %v", ErrExtractionFailed, err)
	}

	var meta Metadata
	for line := range strings.Lines(string(output)) {
		key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok {
			continue
		}

		switch key {
		case "duration":
			if d, err := strconv.ParseFloat(value, 64); err == nil {
				meta.DurationSeconds = d
			}
		case "width":
			if w, err := strconv.Atoi(value); err == nil {
				meta.WidthPx = w
			}
		case "height":
			if h, err := strconv.Atoi(value); err == nil {
				meta.HeightPx = h
			}
		case "r_frame_rate":
			if fps, err := ParseFrameRate(value); err == nil {
				meta.FPS = fps
			}
		}
	}

	return &meta, nil
}

// ParseFrameRate parses an ffprobe rational frame rate such as "30000/1001"
// or a plain number. The value is parsed arithmetically; it is never handed
// to an expression evaluator.
func ParseFrameRate(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty frame rate")
	}

	num, den, ok := strings.Cut(value, "/")
	if !ok {
		return strconv.ParseFloat(value, 64)
	}

	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid frame rate numerator %q", num)
	}

	d, err := strconv.ParseFloat(den, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid frame rate denominator %q", den)
	}
	if d == 0 {
		return 0, fmt.Errorf("zero frame rate denominator")
	}

	return n / d, nil
}
