package media

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const maxConcurrentUploads = 4

// Uploader stores a blob under a caller-controlled public ID and
// resolves a stable public URL for it.
type Uploader interface {
	Upload(ctx context.Context, publicID string, file File) (string, error)
}

// Pipeline turns raw client-selected files into hosted media
// references: normalize, enforce the tier size ceiling, then upload.
type Pipeline struct {
	uploader  Uploader
	converter Converter
	logger    *zap.SugaredLogger
}

func NewPipeline(uploader Uploader, converter Converter, logger *zap.SugaredLogger) *Pipeline {
	return &Pipeline{
		uploader:  uploader,
		converter: converter,
		logger:    logger,
	}
}

// Normalize converts a legacy-format file to JPEG; everything else
// passes through unchanged.
func (p *Pipeline) Normalize(file File) (File, error) {
	if !NeedsConversion(file.Name) {
		return file, nil
	}

	converted, err := p.converter.Convert(file)
	if err != nil {
		return File{}, &ConversionError{File: file.Name, Err: err}
	}
	return converted, nil
}

// ValidateSize checks every file against the tier ceiling. All
// offending files are reported together so the user can fix the whole
// selection in one go.
func (p *Pipeline) ValidateSize(files []File, tier string) error {
	limit := SizeCeiling(tier)

	var oversized []string
	for _, f := range files {
		if int64(len(f.Data)) > limit {
			oversized = append(oversized, f.Name)
		}
	}
	if len(oversized) > 0 {
		return &SizeLimitError{Files: oversized, Limit: limit}
	}
	return nil
}

// Upload pushes validated files to the object store concurrently,
// namespaced per user. A single failed upload is logged and dropped
// from the result, not fatal: the attachment list may come back
// shorter than the input.
func (p *Pipeline) Upload(ctx context.Context, userID int64, files []File) []Attachment {
	results := make([]*Attachment, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentUploads)

	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			publicID := fmt.Sprintf("users/%d/%d_%s", userID, time.Now().UnixNano(), uuid.New().String())

			url, err := p.uploader.Upload(ctx, publicID, file)
			if err != nil {
				p.logger.Errorw("media upload failed", "file", file.Name, "user_id", userID, "error", err)
				return nil
			}

			results[i] = &Attachment{URL: url, Kind: DetectKind(file.Data)}
			return nil
		})
	}
	g.Wait()

	// keep input order, drop failed slots
	attachments := make([]Attachment, 0, len(files))
	for _, res := range results {
		if res != nil {
			attachments = append(attachments, *res)
		}
	}
	return attachments
}

// Process runs the full intake: normalization and size checks are hard
// preconditions for the whole batch, uploads are best-effort per file.
func (p *Pipeline) Process(ctx context.Context, userID int64, tier string, files []File) ([]Attachment, error) {
	if len(files) == 0 {
		return nil, nil
	}

	normalized := make([]File, len(files))
	for i, file := range files {
		f, err := p.Normalize(file)
		if err != nil {
			return nil, err
		}
		normalized[i] = f
	}

	if err := p.ValidateSize(normalized, tier); err != nil {
		return nil, err
	}

	return p.Upload(ctx, userID, normalized), nil
}
