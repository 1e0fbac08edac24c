package domain

import (
	"time"

	"github.com/google/uuid"
)

// StudentLink grants a student visibility into a professional's active
// videos. No link means the student sees nothing from that professional.
type StudentLink struct {
	ID             uuid.UUID
	ProfessionalID uuid.UUID
	StudentID      uuid.UUID
	CreatedAt      time.Time
}

func NewStudentLink(professionalID, studentID uuid.UUID) *StudentLink {
	return &StudentLink{
		ID:             uuid.New(),
		ProfessionalID: professionalID,
		StudentID:      studentID,
		CreatedAt:      time.Now(),
	}
}

// LinkedStudent is a student link joined with the student's account details,
// as shown in the professional's student list.
type LinkedStudent struct {
	LinkID    uuid.UUID
	StudentID uuid.UUID
	Email     string
	CreatedAt time.Time
}
