package storage

import "context"

// StorageService stores raw document bytes and returns a durable URL.
type StorageService interface {
	UploadBuffer(ctx context.Context, data []byte, filename string) (string, error)
	DeleteFile(ctx context.Context, publicID string) error
}
