package media

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func pngFixture(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}

func TestJPEGConverterProducesDecodableJPEG(t *testing.T) {
	conv := NewJPEGConverter()

	got, err := conv.Convert(File{Name: "shot.heic", Data: pngFixture(t)})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	if got.Name != "shot.jpg" {
		t.Errorf("expected shot.jpg, got %s", got.Name)
	}

	img, err := jpeg.Decode(bytes.NewReader(got.Data))
	if err != nil {
		t.Fatalf("output is not valid JPEG: %v", err)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 8 {
		t.Errorf("dimensions changed: %v", img.Bounds())
	}
}

func TestJPEGConverterRejectsGarbage(t *testing.T) {
	conv := NewJPEGConverter()

	if _, err := conv.Convert(File{Name: "junk.heic", Data: []byte{0xde, 0xad}}); err == nil {
		t.Fatal("expected an error for undecodable input")
	}
}

func TestNeedsConversion(t *testing.T) {
	if !NeedsConversion("IMG.HEIC") {
		t.Error("HEIC should need conversion regardless of case")
	}
	if NeedsConversion("photo.jpg") {
		t.Error("jpg should not need conversion")
	}
	if NeedsConversion("clip.mp4") {
		t.Error("mp4 should not need conversion")
	}
}

func TestDetectKind(t *testing.T) {
	if got := DetectKind(pngFixture(t)); got != KindImage {
		t.Errorf("png fixture detected as %s", got)
	}

	// minimal mp4 ftyp box
	mp4 := []byte{0x00, 0x00, 0x00, 0x0c, 'f', 't', 'y', 'p', 'm', 'p', '4', '2'}
	if got := DetectKind(mp4); got != KindVideo {
		t.Errorf("mp4 header detected as %s", got)
	}
}
