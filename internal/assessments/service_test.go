package assessments_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/refurbly/gradeserver/internal/assessments"
	"github.com/refurbly/gradeserver/internal/media"
	"github.com/refurbly/gradeserver/internal/video"
	"github.com/refurbly/gradeserver/internal/vision"
	"github.com/refurbly/gradeserver/pkg/pagination"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeStore struct {
	mu       sync.Mutex
	inserted []*assessments.Assessment
	failOn   func(a *assessments.Assessment) error
}

func (f *fakeStore) Insert(ctx context.Context, a *assessments.Assessment) (*assessments.Assessment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failOn != nil {
		if err := f.failOn(a); err != nil {
			return nil, err
		}
	}
	f.inserted = append(f.inserted, a)
	return a, nil
}

func (f *fakeStore) List(ctx context.Context, page pagination.PageRequest, filters assessments.Filters) (*pagination.PageResult[assessments.Assessment], error) {
	return nil, errors.New("not implemented")
}

func (f *fakeStore) Find(ctx context.Context, id uuid.UUID) (*assessments.Assessment, error) {
	return nil, assessments.ErrNotFound
}

type fakeGrader struct {
	result *vision.Result
	err    error
}

func (f *fakeGrader) AssessImages(ctx context.Context, images []media.NormalizedImage) (*vision.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return cloneResult(f.result), nil
}

func (f *fakeGrader) AssessVideoFrame(ctx context.Context, frame media.NormalizedImage, meta video.Metadata) (*vision.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	r := cloneResult(f.result)
	r.VideoMetadata = &meta
	return r, nil
}

func cloneResult(r *vision.Result) *vision.Result {
	clone := *r
	return &clone
}

type fakeSampler struct {
	frames *video.FrameSet
	err    error
}

func (f *fakeSampler) ExtractFrames(ctx context.Context, videoData []byte, frameCount int) (*video.FrameSet, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.frames, nil
}

func goodResult() *vision.Result {
	return &vision.Result{
		Grade:            vision.GradeA,
		Confidence:       0.92,
		OverallCondition: "Pristine, no visible wear",
		DamageTypes:      []string{},
		DetailedFindings: []vision.Finding{},
	}
}

var encodedJPEG = func() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		panic(err)
	}
	return buf.Bytes()
}()

func imageItem(name string) media.UploadItem {
	return media.UploadItem{
		Data:                encodedJPEG,
		DeclaredContentType: "image/jpeg",
		FileName:            name,
		SizeBytes:           int64(len(encodedJPEG)),
	}
}

func videoItem(name string) media.UploadItem {
	return media.UploadItem{
		Data:                []byte("video container bytes"),
		DeclaredContentType: "video/mp4",
		FileName:            name,
		SizeBytes:           21,
	}
}

func newTestSystem(store assessments.Store, grader assessments.Grader, sampler video.Sampler) assessments.System {
	return assessments.NewSystem(store, grader, sampler, 3, discard())
}

func TestAssessBatchOutcomePerFile(t *testing.T) {
	store := &fakeStore{}
	sys := newTestSystem(store, &fakeGrader{result: goodResult()}, &fakeSampler{})

	items := []media.UploadItem{
		imageItem("one.jpg"),
		imageItem("two.jpg"),
		imageItem("three.jpg"),
	}

	batch := sys.AssessBatch(context.Background(), items)

	if len(batch.Results) != len(items) {
		t.Fatalf("outcomes = %d, want %d", len(batch.Results), len(items))
	}
	if !batch.Success {
		t.Error("Success = false, want true")
	}
	for i, outcome := range batch.Results {
		if outcome.OriginalFileName != items[i].FileName {
			t.Errorf("outcome %d file = %q, want %q", i, outcome.OriginalFileName, items[i].FileName)
		}
		if !outcome.Success {
			t.Errorf("outcome %d failed: %s", i, outcome.Error)
		}
		if outcome.Assessment == nil {
			t.Errorf("outcome %d missing assessment", i)
		}
	}
}

func TestAssessBatchFailureIsolation(t *testing.T) {
	store := &fakeStore{
		failOn: func(a *assessments.Assessment) error {
			if a.OriginalFileName == "two.jpg" {
				return errors.New("connection reset")
			}
			return nil
		},
	}
	sys := newTestSystem(store, &fakeGrader{result: goodResult()}, &fakeSampler{})

	batch := sys.AssessBatch(context.Background(), []media.UploadItem{
		imageItem("one.jpg"),
		imageItem("two.jpg"),
		imageItem("three.jpg"),
	})

	if batch.Success {
		t.Error("Success = true, want false when one item fails")
	}
	if len(batch.Results) != 3 {
		t.Fatalf("outcomes = %d, want 3", len(batch.Results))
	}

	if !batch.Results[0].Success || !batch.Results[2].Success {
		t.Error("surrounding items should succeed when the middle item fails")
	}
	if batch.Results[1].Success {
		t.Error("failed store write should surface as a per-item failure")
	}
	if !strings.Contains(batch.Results[1].Error, "retry") {
		t.Errorf("error %q should advise a retry", batch.Results[1].Error)
	}
	if len(store.inserted) != 2 {
		t.Errorf("persisted = %d, want 2", len(store.inserted))
	}
}

func TestAssessBatchUnsupportedFile(t *testing.T) {
	sys := newTestSystem(&fakeStore{}, &fakeGrader{result: goodResult()}, &fakeSampler{})

	batch := sys.AssessBatch(context.Background(), []media.UploadItem{{
		Data:                []byte("%PDF-1.7"),
		DeclaredContentType: "application/pdf",
		FileName:            "invoice.pdf",
		SizeBytes:           8,
	}})

	outcome := batch.Results[0]
	if outcome.Success {
		t.Fatal("unsupported file should fail")
	}
	if !strings.Contains(strings.ToLower(outcome.Error), "invalid file type") {
		t.Errorf("error %q should name the invalid file type", outcome.Error)
	}
}

func TestAssessBatchCorruptImage(t *testing.T) {
	sys := newTestSystem(&fakeStore{}, &fakeGrader{result: goodResult()}, &fakeSampler{})

	batch := sys.AssessBatch(context.Background(), []media.UploadItem{{
		Data:                []byte("x"),
		DeclaredContentType: "image/jpeg",
		FileName:            "broken.jpg",
		SizeBytes:           1,
	}})

	outcome := batch.Results[0]
	if outcome.Success {
		t.Fatal("corrupt image should fail")
	}
	if !strings.Contains(outcome.Error, "corrupted or empty") {
		t.Errorf("error %q should describe the corrupt image", outcome.Error)
	}
}

func TestAssessBatchVideoSuccess(t *testing.T) {
	frames := &video.FrameSet{
		Frames: []media.NormalizedImage{
			{Data: []byte("f0"), MimeType: media.CanonicalMimeType},
			{Data: []byte("f1"), MimeType: media.CanonicalMimeType},
			{Data: []byte("f2"), MimeType: media.CanonicalMimeType},
		},
		Metadata: video.Metadata{DurationSeconds: 30, WidthPx: 1920, HeightPx: 1080, FPS: 30},
	}
	store := &fakeStore{}
	sys := newTestSystem(store, &fakeGrader{result: goodResult()}, &fakeSampler{frames: frames})

	batch := sys.AssessBatch(context.Background(), []media.UploadItem{videoItem("walkthrough.mp4")})

	outcome := batch.Results[0]
	if !outcome.Success {
		t.Fatalf("video assessment failed: %s", outcome.Error)
	}
	if outcome.Assessment.VideoMetadata == nil {
		t.Error("video assessment should carry probed metadata")
	}
}

func TestAssessBatchVideoExtractionFailureDegrades(t *testing.T) {
	store := &fakeStore{}
	sys := newTestSystem(store, &fakeGrader{result: goodResult()}, &fakeSampler{err: video.ErrExtractionFailed})

	batch := sys.AssessBatch(context.Background(), []media.UploadItem{videoItem("corrupt.mp4")})

	outcome := batch.Results[0]
	if !outcome.Success {
		t.Fatalf("extraction failure should degrade, not fail: %s", outcome.Error)
	}

	a := outcome.Assessment
	if a.Grade != vision.GradeC {
		t.Errorf("Grade = %v, want C placeholder", a.Grade)
	}
	if a.Confidence != 0.3 {
		t.Errorf("Confidence = %v, want 0.3", a.Confidence)
	}
	if len(a.DamageTypes) != 1 || a.DamageTypes[0] != "Video Processing Error" {
		t.Errorf("DamageTypes = %v, want [Video Processing Error]", a.DamageTypes)
	}
	if len(a.DetailedFindings) == 0 {
		t.Fatal("degraded assessment should carry a manual review finding")
	}
	if !strings.Contains(strings.ToLower(a.DetailedFindings[0].Description), "manual review") {
		t.Errorf("finding %q should direct to manual review", a.DetailedFindings[0].Description)
	}
	if len(store.inserted) != 1 {
		t.Error("degraded assessment should still persist")
	}
}

func TestAssessBatchMixedKinds(t *testing.T) {
	store := &fakeStore{}
	sys := newTestSystem(store, &fakeGrader{result: goodResult()}, &fakeSampler{err: video.ErrUnavailable})

	batch := sys.AssessBatch(context.Background(), []media.UploadItem{
		imageItem("front.jpg"),
		videoItem("spin.mp4"),
		{Data: []byte("hello"), DeclaredContentType: "text/plain", FileName: "notes.txt", SizeBytes: 5},
	})

	if len(batch.Results) != 3 {
		t.Fatalf("outcomes = %d, want 3", len(batch.Results))
	}
	if !batch.Results[0].Success {
		t.Errorf("image should succeed: %s", batch.Results[0].Error)
	}
	if !batch.Results[1].Success {
		t.Errorf("video should degrade to success: %s", batch.Results[1].Error)
	}
	if batch.Results[2].Success {
		t.Error("text file should fail")
	}
	if batch.Success {
		t.Error("Success = true, want false with one failed item")
	}
}

func TestAssessBatchUniqueSKUs(t *testing.T) {
	store := &fakeStore{}
	sys := newTestSystem(store, &fakeGrader{result: goodResult()}, &fakeSampler{})

	items := make([]media.UploadItem, 5)
	for i := range items {
		items[i] = imageItem(fmt.Sprintf("photo_%d.jpg", i))
	}
	sys.AssessBatch(context.Background(), items)

	seen := map[string]bool{}
	for _, a := range store.inserted {
		if seen[a.SKU] {
			t.Errorf("duplicate SKU %s within batch", a.SKU)
		}
		seen[a.SKU] = true
	}
}

func TestAssessBatchGraderFailure(t *testing.T) {
	boom := errors.New("model overloaded")
	sys := newTestSystem(&fakeStore{}, &fakeGrader{err: boom}, &fakeSampler{})

	batch := sys.AssessBatch(context.Background(), []media.UploadItem{imageItem("front.jpg")})

	outcome := batch.Results[0]
	if outcome.Success {
		t.Fatal("grader failure on an image should fail the item")
	}
	if !strings.Contains(outcome.Error, "model overloaded") {
		t.Errorf("error %q should carry the cause", outcome.Error)
	}
}
