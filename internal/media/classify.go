package media

import (
	"path/filepath"
	"strings"
)

// Extensions used to rescue files whose declared content type is a generic
// binary marker. Browsers commonly report HEIC captures and some video
// containers as application/octet-stream.
var (
	imageExtensions = map[string]bool{
		".heic": true,
		".heif": true,
	}

	videoExtensions = map[string]bool{
		".mp4":  true,
		".webm": true,
		".mov":  true,
		".avi":  true,
		".mkv":  true,
	}
)

// Classify determines whether an uploaded file is an image, a video, or
// unsupported, from its declared content type and file name. It is a pure
// function: identical inputs always produce the identical kind, and every
// input maps to exactly one kind.
//
// Precedence: a recognized image/* or video/* content type wins; a generic
// binary content type falls back to the file extension; everything else is
// unsupported. Matching is case-insensitive on both sides.
func Classify(declaredContentType, fileName string) Kind {
	contentType := strings.ToLower(strings.TrimSpace(declaredContentType))
	if mediaType, _, ok := strings.Cut(contentType, ";"); ok {
		contentType = strings.TrimSpace(mediaType)
	}

	switch {
	case strings.HasPrefix(contentType, "image/"):
		return KindImage
	case strings.HasPrefix(contentType, "video/"):
		return KindVideo
	}

	if isGenericBinary(contentType) {
		ext := strings.ToLower(filepath.Ext(fileName))
		switch {
		case imageExtensions[ext]:
			return KindImage
		case videoExtensions[ext]:
			return KindVideo
		}
	}

	return KindUnsupported
}

func isGenericBinary(contentType string) bool {
	switch contentType {
	case "", "application/octet-stream", "binary/octet-stream":
		return true
	}
	return false
}
