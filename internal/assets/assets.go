package assets

import (
	"context"
	"fmt"
	"io"

	"stitchmart/internal/config"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Asset is a stored image reference
type Asset struct {
	URL      string
	PublicID string
}

// Store uploads and deletes hosted image assets
type Store interface {
	Upload(ctx context.Context, content io.Reader, publicID string) (*Asset, error)
	Destroy(ctx context.Context, publicID string) error
}

type cloudinaryStore struct {
	client *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryStore creates a Store backed by Cloudinary
func NewCloudinaryStore(cfg config.CloudinaryConfig) (Store, error) {
	client, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
	}
	return &cloudinaryStore{client: client, folder: "products"}, nil
}

func (s *cloudinaryStore) Upload(ctx context.Context, content io.Reader, publicID string) (*Asset, error) {
	overwrite := true
	result, err := s.client.Upload.Upload(ctx, content, uploader.UploadParams{
		PublicID:  publicID,
		Folder:    s.folder,
		Overwrite: &overwrite,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload asset: %w", err)
	}

	return &Asset{URL: result.SecureURL, PublicID: result.PublicID}, nil
}

func (s *cloudinaryStore) Destroy(ctx context.Context, publicID string) error {
	_, err := s.client.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("failed to destroy asset: %w", err)
	}
	return nil
}
