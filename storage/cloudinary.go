package storage

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"volunteer-match-server/config"
	"volunteer-match-server/services"
)

var _ services.MediaUploader = (*CloudinaryUploader)(nil)

// CloudinaryUploader sends request photos to Cloudinary.
type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryUploader(cfg config.CloudinaryConfig) (*CloudinaryUploader, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}
	cld, err := cloudinary.NewFromURL(fmt.Sprintf("cloudinary://%s:%s@%s", cfg.APIKey, cfg.APISecret, cfg.CloudName))
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	log.Printf("🔧 Cloudinary uploads enabled for cloud %s", cfg.CloudName)
	return &CloudinaryUploader{cld: cld}, nil
}

// Upload stores file as an image and returns its HTTPS URL.
func (u *CloudinaryUploader) Upload(ctx context.Context, file io.Reader, folder, publicID string) (string, error) {
	overwrite := true
	res, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       folder,
		PublicID:     publicID,
		Overwrite:    &overwrite,
		ResourceType: "image",
	})
	if err != nil {
		return "", err
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("cloudinary: %s", res.Error.Message)
	}
	return res.SecureURL, nil
}
