package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// uploadFolder groups guest ID documents in the media library.
const uploadFolder = "bookings"

// StorageServiceImpl implements StorageService backed by Cloudinary.
type StorageServiceImpl struct {
	cld *cloudinary.Cloudinary
}

// NewStorageService creates a new StorageServiceImpl instance.
func NewStorageService(cld *cloudinary.Cloudinary) StorageService {
	return &StorageServiceImpl{cld: cld}
}

// UploadBuffer uploads raw file bytes into the bookings folder and returns
// the secure URL of the stored asset.
func (s *StorageServiceImpl) UploadBuffer(ctx context.Context, data []byte, filename string) (string, error) {
	result, err := s.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder:   uploadFolder,
		PublicID: filename,
	})
	if err != nil {
		return "", fmt.Errorf("StorageServiceImpl: failed to upload file: %w", err)
	}
	url := result.SecureURL
	if url == "" {
		url = result.URL
	}
	if url == "" {
		return "", fmt.Errorf("StorageServiceImpl: upload completed but no URL returned")
	}
	return url, nil
}

// DeleteFile deletes a file from Cloudinary given its public ID.
func (s *StorageServiceImpl) DeleteFile(ctx context.Context, publicID string) error {
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("StorageServiceImpl: failed to delete file: %w", err)
	}
	return nil
}
