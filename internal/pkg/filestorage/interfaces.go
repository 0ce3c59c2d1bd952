package filestorage

import (
	"context"
	"mime/multipart"
)

// FileStorage persists uploaded item files and hands back a public URL
type FileStorage interface {
	// SaveFileWithPath stores the upload under subPath and returns its URL
	SaveFileWithPath(ctx context.Context, fileHeader *multipart.FileHeader, subPath string) (string, error)

	// DeleteFile removes a file previously returned by SaveFileWithPath.
	// Deleting a missing file is not an error.
	DeleteFile(ctx context.Context, fileURL string) error
}
