package media

// Kind identifies what an uploaded file is after classification.
type Kind int

const (
	KindUnsupported Kind = iota
	KindImage
	KindVideo
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindVideo:
		return "video"
	default:
		return "unsupported"
	}
}

// UploadItem is one file from a batch upload. It lives only for the duration
// of the request that produced it and is never persisted.
type UploadItem struct {
	Data                []byte
	DeclaredContentType string
	FileName            string
	SizeBytes           int64
}

// NormalizedImage holds re-encoded image bytes in the canonical transmissible
// format. It is consumed by exactly one assessment call and then discarded.
type NormalizedImage struct {
	Data     []byte
	MimeType string
}
