// Package video extracts representative still frames and container metadata
// from uploaded video streams by driving the ffmpeg/ffprobe tools.
package video

import "errors"

// Domain errors for video frame extraction.
var (
	ErrUnavailable      = errors.New("video processing tools are not installed")
	ErrExtractionFailed = errors.New("frame extraction failed")
)
