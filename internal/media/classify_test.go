package media_test

import (
	"testing"

	"github.com/refurbly/gradeserver/internal/media"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		fileName    string
		want        media.Kind
	}{
		{"jpeg content type", "image/jpeg", "laptop.jpg", media.KindImage},
		{"png content type", "image/png", "laptop.png", media.KindImage},
		{"uppercase content type", "IMAGE/JPEG", "laptop.jpg", media.KindImage},
		{"content type with params", "image/jpeg; charset=binary", "laptop.jpg", media.KindImage},
		{"mp4 content type", "video/mp4", "walkthrough.mp4", media.KindVideo},
		{"webm content type", "video/webm", "walkthrough.webm", media.KindVideo},
		{"octet stream heic extension", "application/octet-stream", "IMG_0001.HEIC", media.KindImage},
		{"octet stream heif extension", "application/octet-stream", "capture.heif", media.KindImage},
		{"octet stream mp4 extension", "application/octet-stream", "clip.mp4", media.KindVideo},
		{"octet stream mov extension", "application/octet-stream", "clip.MOV", media.KindVideo},
		{"octet stream avi extension", "application/octet-stream", "clip.avi", media.KindVideo},
		{"octet stream mkv extension", "application/octet-stream", "clip.mkv", media.KindVideo},
		{"octet stream webm extension", "application/octet-stream", "clip.webm", media.KindVideo},
		{"binary octet stream fallback", "binary/octet-stream", "capture.heic", media.KindImage},
		{"empty content type with video extension", "", "clip.mp4", media.KindVideo},
		{"octet stream unknown extension", "application/octet-stream", "report.txt", media.KindUnsupported},
		{"octet stream no extension", "application/octet-stream", "mysteryfile", media.KindUnsupported},
		{"text content type", "text/plain", "notes.txt", media.KindUnsupported},
		{"pdf content type", "application/pdf", "invoice.pdf", media.KindUnsupported},
		{"image extension with non-binary type", "application/json", "photo.heic", media.KindUnsupported},
		{"empty everything", "", "", media.KindUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := media.Classify(tt.contentType, tt.fileName)
			if got != tt.want {
				t.Errorf("Classify(%q, %q) = %v, want %v", tt.contentType, tt.fileName, got, tt.want)
			}
		})
	}
}

func TestClassifyDeterministic(t *testing.T) {
	for range 10 {
		if got := media.Classify("application/octet-stream", "a.heic"); got != media.KindImage {
			t.Fatalf("Classify() = %v, want stable KindImage", got)
		}
	}
}
