package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Video struct {
	ID             uuid.UUID
	ProfessionalID uuid.UUID
	Title          string
	Description    string
	FilePath       *string
	ExternalURL    string
	ThumbnailPath  *string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Categories attached to this video. All must belong to the same
	// professional as the video itself.
	Categories []*Category

	// URL is the resolved playback location, filled in by the service layer
	// from FilePath or ExternalURL. Never persisted.
	URL string
}

func NewVideo(professionalID uuid.UUID, title, description, externalURL string, filePath *string) (*Video, error) {
	video := &Video{
		ID:             uuid.New(),
		ProfessionalID: professionalID,
		Title:          strings.TrimSpace(title),
		Description:    strings.TrimSpace(description),
		FilePath:       filePath,
		ExternalURL:    strings.TrimSpace(externalURL),
		IsActive:       true,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	if err := video.Validate(); err != nil {
		return nil, err
	}

	return video, nil
}

func (v *Video) Validate() error {
	if v.Title == "" {
		return ErrInvalidName
	}
	if len(v.Title) > 255 {
		return ErrInvalidName
	}
	if !v.HasSource() {
		return ErrMissingSource
	}
	return nil
}

func (v *Video) HasSource() bool {
	return (v.FilePath != nil && *v.FilePath != "") || v.ExternalURL != ""
}

// Resolve fills URL, preferring the uploaded file's servable location over
// the external URL.
func (v *Video) Resolve(fileURL func(path string) string) {
	if v.FilePath != nil && *v.FilePath != "" {
		v.URL = fileURL(*v.FilePath)
		return
	}
	v.URL = v.ExternalURL
}

func (v *Video) SetActive(active bool) {
	v.IsActive = active
	v.UpdatedAt = time.Now()
}

func (v *Video) CategoryIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(v.Categories))
	for _, c := range v.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}
