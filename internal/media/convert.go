package media

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/png"
)

// legacy container formats that browsers cannot render directly
var legacyFormats = map[string]bool{
	".heic": true,
	".heif": true,
}

// Converter re-encodes a legacy container into a displayable raster
// format. Other codecs can be normalized the same way without touching
// the pipeline's control flow.
type Converter interface {
	Convert(file File) (File, error)
}

const jpegQuality = 80

// jpegConverter decodes through the registered image codecs and
// re-encodes as JPEG.
type jpegConverter struct{}

func NewJPEGConverter() Converter {
	return jpegConverter{}
}

func (jpegConverter) Convert(file File) (File, error) {
	img, _, err := image.Decode(bytes.NewReader(file.Data))
	if err != nil {
		return File{}, fmt.Errorf("decode %s: %w", file.Name, err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return File{}, fmt.Errorf("encode %s: %w", file.Name, err)
	}

	ext := filepath.Ext(file.Name)
	name := strings.TrimSuffix(file.Name, ext) + ".jpg"

	return File{Name: name, Data: buf.Bytes()}, nil
}

// NeedsConversion reports whether a file's declared format requires
// normalization before upload.
func NeedsConversion(name string) bool {
	return legacyFormats[strings.ToLower(filepath.Ext(name))]
}
