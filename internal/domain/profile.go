package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProfessionalProfile holds the public-facing details of a professional.
// It shares its primary key with the owning user and is removed with it.
type ProfessionalProfile struct {
	UserID    uuid.UUID
	FullName  string
	Bio       string
	CREF      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewProfessionalProfile(userID uuid.UUID, fullName string) *ProfessionalProfile {
	return &ProfessionalProfile{
		UserID:    userID,
		FullName:  fullName,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func (p *ProfessionalProfile) DisplayName(fallbackEmail string) string {
	if p.FullName != "" {
		return p.FullName
	}
	return fallbackEmail
}

func (p *ProfessionalProfile) UpdateDetails(fullName, bio, cref *string) {
	if fullName != nil {
		p.FullName = *fullName
	}
	if bio != nil {
		p.Bio = *bio
	}
	if cref != nil {
		p.CREF = *cref
	}
	p.UpdatedAt = time.Now()
}
