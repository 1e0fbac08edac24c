package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/orchids/fitcourse/internal/config"
	"github.com/orchids/fitcourse/pkg/logger"
	"github.com/orchids/fitcourse/pkg/validator"
)

// UploadService writes uploaded media to local disk and resolves stored
// paths to public URLs.
type UploadService struct {
	config *config.StorageConfig
	log    *logger.Logger
}

func NewUploadService(config *config.StorageConfig, log *logger.Logger) *UploadService {
	return &UploadService{
		config: config,
		log:    log,
	}
}

// SaveVideoFile validates and stores an uploaded video, returning the path
// relative to the upload root.
func (s *UploadService) SaveVideoFile(ctx context.Context, file multipart.File, header *multipart.FileHeader) (string, error) {
	if err := validator.ValidateVideoFile(file, header, s.config.MaxFileSize); err != nil {
		return "", err
	}
	return s.save(ctx, file, header, s.config.UploadPath, "videos")
}

// SaveThumbnail validates and stores an uploaded thumbnail image. Thumbnails
// live under the same upload root as videos so Remove and PublicURL resolve
// every stored path the same way.
func (s *UploadService) SaveThumbnail(ctx context.Context, file multipart.File, header *multipart.FileHeader) (string, error) {
	if err := validator.ValidateImageFile(header, s.config.MaxFileSize); err != nil {
		return "", err
	}
	return s.save(ctx, file, header, s.config.UploadPath, "thumbnails")
}

func (s *UploadService) save(ctx context.Context, file multipart.File, header *multipart.FileHeader, root, subdir string) (string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	filename := fmt.Sprintf("%s%s", uuid.New().String(), ext)

	dir := filepath.Join(root, subdir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	fullPath := filepath.Join(dir, filename)

	dest, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dest.Close()

	written, err := io.Copy(dest, file)
	if err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	if written != header.Size {
		os.Remove(fullPath)
		return "", fmt.Errorf("file size mismatch: expected %d, got %d", header.Size, written)
	}

	s.log.Info(ctx, "file saved", map[string]interface{}{
		"path": fullPath,
		"size": written,
	})

	relPath, err := filepath.Rel(s.config.UploadPath, fullPath)
	if err != nil {
		relPath = filename
	}

	return filepath.ToSlash(relPath), nil
}

// Remove deletes a stored file. A missing file is not an error.
func (s *UploadService) Remove(ctx context.Context, relPath string) {
	if relPath == "" {
		return
	}
	fullPath := filepath.Join(s.config.UploadPath, filepath.FromSlash(relPath))
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		s.log.Warn(ctx, "failed to remove file", map[string]interface{}{
			"path":  fullPath,
			"error": err.Error(),
		})
	}
}

// PublicURL maps a stored relative path to its servable URL.
func (s *UploadService) PublicURL(relPath string) string {
	return strings.TrimRight(s.config.PublicBaseURL, "/") + "/" + strings.TrimLeft(relPath, "/")
}
