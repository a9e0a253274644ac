package media

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"strings"

	_ "golang.org/x/image/webp"
)

const (
	// CanonicalMimeType is the single format every image is re-encoded to
	// before it leaves the process. The vision service accepts a narrower set
	// of formats than users upload; re-encoding removes format branching
	// downstream.
	CanonicalMimeType = "image/jpeg"

	canonicalQuality = 85

	// MinImageBytes short-circuits obviously corrupt uploads before the
	// decoder runs. The batch pipeline applies the same threshold so garbage
	// never consumes a model invocation.
	MinImageBytes = 100
)

// decodableMimeTypes lists the declared content types the normalizer will
// attempt to decode. HEIC is deliberately absent: it classifies as an image
// but has no decoder here, so it surfaces as an unsupported-format failure
// with the offending type in the message.
var decodableMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Normalize validates raw image bytes and re-encodes them into the canonical
// transmissible format, regardless of input format. It is synchronous and
// single-attempt.
func Normalize(data []byte, declaredMimeType string) (*NormalizedImage, error) {
	if len(data) < MinImageBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidImage, len(data))
	}

	mimeType := strings.ToLower(strings.TrimSpace(declaredMimeType))
	if mediaType, _, ok := strings.Cut(mimeType, ";"); ok {
		mimeType = strings.TrimSpace(mediaType)
	}

	if !decodableMimeTypes[mimeType] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, declaredMimeType)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode failed: %v", ErrInvalidImage, err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: canonicalQuality}); err != nil {
		return nil, fmt.Errorf("%w: re-encode failed: %v", ErrInvalidImage, err)
	}

	return &NormalizedImage{
		Data:     buf.Bytes(),
		MimeType: CanonicalMimeType,
	}, nil
}
