package media

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
)

type stubUploader struct {
	mu       sync.Mutex
	uploaded []string
	failFor  map[string]bool
}

func (s *stubUploader) Upload(_ context.Context, publicID string, file File) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFor[file.Name] {
		return "", errors.New("transient upload failure")
	}
	s.uploaded = append(s.uploaded, file.Name)
	return "https://cdn.example.com/" + file.Name, nil
}

type stubConverter struct {
	fail bool
}

func (s stubConverter) Convert(file File) (File, error) {
	if s.fail {
		return File{}, errors.New("corrupt container")
	}
	name := strings.TrimSuffix(file.Name, ".heic") + ".jpg"
	return File{Name: name, Data: file.Data}, nil
}

func newTestPipeline(up *stubUploader, conv Converter) *Pipeline {
	return NewPipeline(up, conv, zap.NewNop().Sugar())
}

func TestProcessRejectsOversizedFilesWithoutUploading(t *testing.T) {
	up := &stubUploader{}
	p := newTestPipeline(up, stubConverter{})

	files := []File{
		{Name: "a.jpg", Data: make([]byte, 100)},
		{Name: "big.jpg", Data: make([]byte, 6*1024*1024)},
		{Name: "c.jpg", Data: make([]byte, 100)},
	}

	_, err := p.Process(context.Background(), 1, TierStandard, files)

	var sizeErr *SizeLimitError
	if !errors.As(err, &sizeErr) {
		t.Fatalf("expected SizeLimitError, got %v", err)
	}
	if len(sizeErr.Files) != 1 || sizeErr.Files[0] != "big.jpg" {
		t.Errorf("expected exactly big.jpg to be named, got %v", sizeErr.Files)
	}
	if len(up.uploaded) != 0 {
		t.Errorf("no uploads should happen on a failed batch, got %v", up.uploaded)
	}
}

func TestProcessPremiumTierAllowsLargerFiles(t *testing.T) {
	up := &stubUploader{}
	p := newTestPipeline(up, stubConverter{})

	files := []File{{Name: "big.jpg", Data: make([]byte, 6*1024*1024)}}

	attachments, err := p.Process(context.Background(), 1, TierPremium, files)
	if err != nil {
		t.Fatalf("premium upload failed: %v", err)
	}
	if len(attachments) != 1 {
		t.Fatalf("expected 1 attachment, got %d", len(attachments))
	}
}

func TestValidateSizeAcceptsFileAtExactCeiling(t *testing.T) {
	p := newTestPipeline(&stubUploader{}, stubConverter{})

	files := []File{{Name: "edge.jpg", Data: make([]byte, 5*1024*1024)}}
	if err := p.ValidateSize(files, TierStandard); err != nil {
		t.Fatalf("file at the exact ceiling should pass: %v", err)
	}

	files[0].Data = append(files[0].Data, 0)
	if err := p.ValidateSize(files, TierStandard); err == nil {
		t.Fatal("file one byte over the ceiling should fail")
	}
}

func TestProcessDropsFailedUploadsAndKeepsGoing(t *testing.T) {
	up := &stubUploader{failFor: map[string]bool{"b.jpg": true}}
	p := newTestPipeline(up, stubConverter{})

	files := []File{
		{Name: "a.jpg", Data: []byte("aaa")},
		{Name: "b.jpg", Data: []byte("bbb")},
	}

	attachments, err := p.Process(context.Background(), 7, TierStandard, files)
	if err != nil {
		t.Fatalf("per-file failures must not fail the batch: %v", err)
	}
	if len(attachments) != 1 {
		t.Fatalf("expected 1 attachment after a dropped upload, got %d", len(attachments))
	}
	if !strings.Contains(attachments[0].URL, "a.jpg") {
		t.Errorf("surviving attachment should be a.jpg, got %s", attachments[0].URL)
	}
}

func TestUploadPreservesInputOrder(t *testing.T) {
	up := &stubUploader{}
	p := newTestPipeline(up, stubConverter{})

	var files []File
	for i := 0; i < 10; i++ {
		files = append(files, File{Name: fmt.Sprintf("%02d.jpg", i), Data: []byte{byte(i)}})
	}

	attachments := p.Upload(context.Background(), 1, files)
	if len(attachments) != 10 {
		t.Fatalf("expected 10 attachments, got %d", len(attachments))
	}
	for i, a := range attachments {
		want := fmt.Sprintf("%02d.jpg", i)
		if !strings.HasSuffix(a.URL, want) {
			t.Errorf("attachment %d out of order: got %s, want suffix %s", i, a.URL, want)
		}
	}
}

func TestProcessAbortsWholeBatchOnConversionFailure(t *testing.T) {
	up := &stubUploader{}
	p := newTestPipeline(up, stubConverter{fail: true})

	files := []File{
		{Name: "ok.jpg", Data: []byte("fine")},
		{Name: "broken.heic", Data: []byte("not really heic")},
	}

	_, err := p.Process(context.Background(), 1, TierStandard, files)

	var convErr *ConversionError
	if !errors.As(err, &convErr) {
		t.Fatalf("expected ConversionError, got %v", err)
	}
	if convErr.File != "broken.heic" {
		t.Errorf("error should name the offending file, got %s", convErr.File)
	}
	if len(up.uploaded) != 0 {
		t.Errorf("nothing should upload when conversion aborts the batch, got %v", up.uploaded)
	}
}

func TestNormalizePassesThroughDisplayableFormats(t *testing.T) {
	p := newTestPipeline(&stubUploader{}, stubConverter{fail: true})

	file := File{Name: "photo.png", Data: []byte("png bytes")}
	got, err := p.Normalize(file)
	if err != nil {
		t.Fatalf("non-legacy formats must pass through: %v", err)
	}
	if got.Name != file.Name {
		t.Errorf("pass-through renamed the file: %s", got.Name)
	}
}

func TestNormalizeRenamesConvertedFiles(t *testing.T) {
	p := newTestPipeline(&stubUploader{}, stubConverter{})

	got, err := p.Normalize(File{Name: "IMG_0042.heic", Data: []byte("heic")})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got.Name != "IMG_0042.jpg" {
		t.Errorf("expected IMG_0042.jpg, got %s", got.Name)
	}
}
