package filestorage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/yigit/elearning/internal/pkg/logger"
)

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string // The root directory where files will be stored
	baseURL  string // URL prefix the files are served under
}

// NewLocalStorage creates a new LocalStorage instance and ensures basePath exists.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// SaveFileWithPath saves a file to a specified subdirectory
func (ls *LocalStorage) SaveFileWithPath(_ context.Context, fileHeader *multipart.FileHeader, subPath string) (string, error) {
	if fileHeader == nil {
		return "", nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	subPath = cleanSubPath(subPath)
	fullDirPath := filepath.Join(ls.basePath, filepath.FromSlash(subPath))
	if err := os.MkdirAll(fullDirPath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", fullDirPath).Msg("Failed to create subdirectory")
		return "", fmt.Errorf("failed to create subdirectory: %w", err)
	}

	uniqueFilename := uuid.New().String() + strings.ToLower(filepath.Ext(fileHeader.Filename))
	dstPath := filepath.Join(fullDirPath, uniqueFilename)

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, file); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	url := ls.baseURL + "/" + path.Join(subPath, uniqueFilename)
	logger.Info().Str("filename", fileHeader.Filename).Str("url", url).Msg("File saved successfully")
	return url, nil
}

// DeleteFile removes a stored file given the URL SaveFileWithPath returned.
func (ls *LocalStorage) DeleteFile(_ context.Context, fileURL string) error {
	physicalPath, err := ls.GetFullPath(fileURL)
	if err != nil {
		return err
	}

	if err := os.Remove(physicalPath); err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
			return nil
		}
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", physicalPath).Msg("File deleted successfully")
	return nil
}

// GetFullPath maps a stored URL back onto the filesystem, refusing paths that escape basePath.
func (ls *LocalStorage) GetFullPath(fileURL string) (string, error) {
	rel := strings.TrimPrefix(fileURL, ls.baseURL)
	rel = cleanSubPath(rel)
	if rel == "" {
		return "", fmt.Errorf("invalid file path: %s", fileURL)
	}
	return filepath.Join(ls.basePath, filepath.FromSlash(rel)), nil
}

// cleanSubPath normalizes to a relative slash path without ".." segments
func cleanSubPath(p string) string {
	p = path.Clean("/" + strings.ReplaceAll(p, "\\", "/"))
	return strings.TrimPrefix(p, "/")
}
