package validator

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrFileTooLarge      = fmt.Errorf("file size exceeds maximum allowed size")
	ErrInvalidFormat     = fmt.Errorf("invalid file format")
	ErrInvalidTitle      = fmt.Errorf("invalid title")
	ErrInvalidDesc       = fmt.Errorf("invalid description")
	ErrInvalidName       = fmt.Errorf("invalid name")
	ErrInvalidEmail      = fmt.Errorf("invalid email address")
	ErrInvalidURL        = fmt.Errorf("invalid URL")
	ErrInvalidUUID       = fmt.Errorf("invalid UUID format")
	ErrInvalidPagination = fmt.Errorf("invalid pagination parameters")
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

var allowedVideoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".avi":  true,
	".mkv":  true,
	".webm": true,
}

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

var videoMagicBytes = map[string][]byte{
	"mp4":  {0x00, 0x00, 0x00, 0x18, 0x66, 0x74, 0x79, 0x70}, // ftyp
	"webm": {0x1A, 0x45, 0xDF, 0xA3},                         // EBML
	"avi":  {0x52, 0x49, 0x46, 0x46},                         // RIFF
}

func ValidateVideoFile(file multipart.File, header *multipart.FileHeader, maxSize int64) error {
	if header.Size > maxSize {
		return fmt.Errorf("%w: file is %d bytes, maximum is %d bytes", ErrFileTooLarge, header.Size, maxSize)
	}

	if header.Size < 1024 {
		return fmt.Errorf("%w: file is too small to be a valid video", ErrInvalidFormat)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedVideoExtensions[ext] {
		return fmt.Errorf("%w: only mp4, mov, avi, mkv, webm are allowed", ErrInvalidFormat)
	}

	buf := make([]byte, 512)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read file header: %w", err)
	}

	if _, err := file.Seek(0, 0); err != nil {
		return fmt.Errorf("failed to reset file pointer: %w", err)
	}

	if !isVideoFile(buf[:n]) {
		return fmt.Errorf("%w: file content does not match video format", ErrInvalidFormat)
	}

	return nil
}

func ValidateImageFile(header *multipart.FileHeader, maxSize int64) error {
	if header.Size > maxSize {
		return fmt.Errorf("%w: file is %d bytes, maximum is %d bytes", ErrFileTooLarge, header.Size, maxSize)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExtensions[ext] {
		return fmt.Errorf("%w: only jpg, jpeg, png, webp are allowed", ErrInvalidFormat)
	}

	return nil
}

func isVideoFile(buf []byte) bool {
	if len(buf) < 8 {
		return false
	}

	for _, magic := range videoMagicBytes {
		if len(buf) >= len(magic) {
			match := true
			for i, b := range magic {
				if buf[i] != b {
					match = false
					break
				}
			}
			if match {
				return true
			}
		}
	}

	return false
}

func ValidateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("%w: title cannot be empty", ErrInvalidTitle)
	}
	if len(title) > 255 {
		return fmt.Errorf("%w: title cannot exceed 255 characters", ErrInvalidTitle)
	}
	return nil
}

func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}
	if len(name) > 100 {
		return fmt.Errorf("%w: name cannot exceed 100 characters", ErrInvalidName)
	}
	return nil
}

func ValidateDescription(description string) error {
	if len(description) > 5000 {
		return fmt.Errorf("%w: description cannot exceed 5000 characters", ErrInvalidDesc)
	}
	return nil
}

func ValidateEmail(email string) error {
	if !emailRegex.MatchString(strings.TrimSpace(email)) {
		return fmt.Errorf("%w: %s", ErrInvalidEmail, email)
	}
	return nil
}

func ValidateExternalURL(raw string) error {
	if raw == "" {
		return nil
	}
	if len(raw) > 500 {
		return fmt.Errorf("%w: URL cannot exceed 500 characters", ErrInvalidURL)
	}
	parsed, err := url.Parse(raw)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("%w: must be an absolute http(s) URL", ErrInvalidURL)
	}
	return nil
}

func ValidateUUID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s", ErrInvalidUUID, id)
	}
	return parsed, nil
}

func ValidatePageParams(page, limit int) error {
	if page < 1 {
		return fmt.Errorf("%w: page must be >= 1", ErrInvalidPagination)
	}
	if limit < 1 || limit > 100 {
		return fmt.Errorf("%w: limit must be between 1 and 100", ErrInvalidPagination)
	}
	return nil
}

func SanitizeString(s string) string {
	return strings.TrimSpace(s)
}
