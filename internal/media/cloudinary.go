package media

import (
	"bytes"
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryUploader stores batch files in Cloudinary under the public
// IDs chosen by the pipeline.
type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryUploader(cld *cloudinary.Cloudinary) *CloudinaryUploader {
	return &CloudinaryUploader{cld: cld}
}

func (u *CloudinaryUploader) Upload(ctx context.Context, publicID string, file File) (string, error) {
	resp, err := u.cld.Upload.Upload(
		ctx,
		bytes.NewReader(file.Data),
		uploader.UploadParams{
			PublicID:     publicID,
			Overwrite:    api.Bool(false),
			ResourceType: "auto", // images and videos share the pipeline
		},
	)
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	return resp.SecureURL, nil
}
