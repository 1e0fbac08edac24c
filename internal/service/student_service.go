package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/orchids/fitcourse/internal/access"
	"github.com/orchids/fitcourse/internal/domain"
	"github.com/orchids/fitcourse/internal/repository"
	"github.com/orchids/fitcourse/pkg/logger"
	"github.com/orchids/fitcourse/pkg/validator"
)

// StudentService manages the links between a professional and their
// students. Links are the only thing that makes content visible to a
// student.
type StudentService struct {
	linkageRepo repository.LinkageRepository
	userRepo    repository.UserRepository
	gate        access.Gate
	log         *logger.Logger
}

func NewStudentService(
	linkageRepo repository.LinkageRepository,
	userRepo repository.UserRepository,
	gate access.Gate,
	log *logger.Logger,
) *StudentService {
	return &StudentService{
		linkageRepo: linkageRepo,
		userRepo:    userRepo,
		gate:        gate,
		log:         log,
	}
}

// Add links an existing student account to the professional by email.
func (s *StudentService) Add(ctx context.Context, user *domain.User, email string) (*domain.StudentLink, error) {
	if err := s.gate.CanManage(user); err != nil {
		return nil, err
	}

	email = validator.SanitizeString(email)
	if err := validator.ValidateEmail(email); err != nil {
		return nil, domain.ErrInvalidEmail
	}

	student, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if student.ID == user.ID {
		return nil, domain.ErrSelfLink
	}
	if student.Role != domain.RoleUser {
		return nil, domain.ErrNotAStudent
	}

	link := domain.NewStudentLink(user.ID, student.ID)
	if err := s.linkageRepo.Create(ctx, link); err != nil {
		if errors.Is(err, domain.ErrAlreadyLinked) {
			return nil, domain.ErrAlreadyLinked
		}
		return nil, err
	}

	s.log.Info(ctx, "student linked", map[string]interface{}{
		"professional_id": user.ID,
		"student_id":      student.ID,
	})

	return link, nil
}

func (s *StudentService) List(ctx context.Context, user *domain.User) ([]*domain.LinkedStudent, error) {
	if err := s.gate.CanManage(user); err != nil {
		return nil, err
	}
	return s.linkageRepo.ListByProfessional(ctx, user.ID)
}

// Remove deletes a link owned by the professional. A link belonging to
// another professional reports not-found.
func (s *StudentService) Remove(ctx context.Context, user *domain.User, linkID uuid.UUID) error {
	if err := s.gate.CanManage(user); err != nil {
		return err
	}

	if err := s.linkageRepo.Delete(ctx, user.ID, linkID); err != nil {
		return err
	}

	s.log.Info(ctx, "student unlinked", map[string]interface{}{
		"professional_id": user.ID,
		"link_id":         linkID,
	})

	return nil
}
