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

type VideoService struct {
	videoRepo    repository.VideoRepository
	categoryRepo repository.CategoryRepository
	uploads      *UploadService
	gate         access.Gate
	log          *logger.Logger
}

func NewVideoService(
	videoRepo repository.VideoRepository,
	categoryRepo repository.CategoryRepository,
	uploads *UploadService,
	gate access.Gate,
	log *logger.Logger,
) *VideoService {
	return &VideoService{
		videoRepo:    videoRepo,
		categoryRepo: categoryRepo,
		uploads:      uploads,
		gate:         gate,
		log:          log,
	}
}

type CreateVideoInput struct {
	Title         string
	Description   string
	ExternalURL   string
	FilePath      *string
	ThumbnailPath *string
	CategoryIDs   []uuid.UUID
}

func (s *VideoService) Create(ctx context.Context, user *domain.User, input CreateVideoInput) (*domain.Video, error) {
	if err := s.gate.CanManage(user); err != nil {
		return nil, err
	}

	title := validator.SanitizeString(input.Title)
	if err := validator.ValidateTitle(title); err != nil {
		return nil, err
	}
	if err := validator.ValidateDescription(input.Description); err != nil {
		return nil, err
	}
	if err := validator.ValidateExternalURL(input.ExternalURL); err != nil {
		return nil, err
	}

	categories, err := s.resolveCategories(ctx, user, input.CategoryIDs)
	if err != nil {
		return nil, err
	}

	video, err := domain.NewVideo(user.ID, title, input.Description, input.ExternalURL, input.FilePath)
	if err != nil {
		return nil, err
	}
	video.ThumbnailPath = input.ThumbnailPath
	video.Categories = categories

	if err := s.videoRepo.Create(ctx, video); err != nil {
		return nil, err
	}

	s.log.Info(ctx, "video created", map[string]interface{}{
		"video_id": video.ID,
		"owner_id": video.ProfessionalID,
		"title":    video.Title,
	})

	video.Resolve(s.uploads.PublicURL)
	return video, nil
}

// resolveCategories loads the requested categories and rejects any not owned
// by the video's owner. Attaching another professional's category is refused
// even for admins, since a video and its categories must share an owner.
func (s *VideoService) resolveCategories(ctx context.Context, user *domain.User, ids []uuid.UUID) ([]*domain.Category, error) {
	categories := make([]*domain.Category, 0, len(ids))
	for _, id := range ids {
		category, err := s.categoryRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrCategoryNotFound) {
				return nil, domain.ErrCategoryNotFound
			}
			return nil, err
		}
		if category.ProfessionalID != user.ID {
			return nil, domain.ErrNotOwner
		}
		categories = append(categories, category)
	}
	return categories, nil
}

// Get returns a video visible to the caller. Out-of-scope rows are a plain
// not-found.
func (s *VideoService) Get(ctx context.Context, user *domain.User, id uuid.UUID) (*domain.Video, error) {
	video, err := s.videoRepo.GetByIDScoped(ctx, access.ScopeFor(user), id)
	if err != nil {
		return nil, err
	}
	video.Resolve(s.uploads.PublicURL)
	return video, nil
}

type ListVideosInput struct {
	CategoryID *uuid.UUID
	Search     string
	Page       int
	Limit      int
}

func (s *VideoService) List(ctx context.Context, user *domain.User, input ListVideosInput) ([]*domain.Video, int, error) {
	if input.Page < 1 {
		input.Page = 1
	}
	if input.Limit < 1 || input.Limit > 100 {
		input.Limit = 20
	}

	filter := repository.VideoFilter{
		CategoryID: input.CategoryID,
		Search:     validator.SanitizeString(input.Search),
		Limit:      input.Limit,
		Offset:     (input.Page - 1) * input.Limit,
	}

	videos, total, err := s.videoRepo.List(ctx, access.ScopeFor(user), filter)
	if err != nil {
		return nil, 0, err
	}

	for _, v := range videos {
		v.Resolve(s.uploads.PublicURL)
	}

	return videos, total, nil
}

type UpdateVideoInput struct {
	Title         *string
	Description   *string
	ExternalURL   *string
	IsActive      *bool
	FilePath      *string
	ThumbnailPath *string
	CategoryIDs   *[]uuid.UUID
}

func (s *VideoService) Update(ctx context.Context, user *domain.User, id uuid.UUID, input UpdateVideoInput) (*domain.Video, error) {
	if err := s.gate.CanManage(user); err != nil {
		return nil, err
	}

	video, err := s.videoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.CanWrite(user, video.ProfessionalID) {
		return nil, domain.ErrVideoNotFound
	}

	oldFile := video.FilePath
	oldThumb := video.ThumbnailPath

	if input.Title != nil {
		title := validator.SanitizeString(*input.Title)
		if err := validator.ValidateTitle(title); err != nil {
			return nil, err
		}
		video.Title = title
	}
	if input.Description != nil {
		if err := validator.ValidateDescription(*input.Description); err != nil {
			return nil, err
		}
		video.Description = validator.SanitizeString(*input.Description)
	}
	if input.ExternalURL != nil {
		if err := validator.ValidateExternalURL(*input.ExternalURL); err != nil {
			return nil, err
		}
		video.ExternalURL = validator.SanitizeString(*input.ExternalURL)
	}
	if input.IsActive != nil {
		video.SetActive(*input.IsActive)
	}
	if input.FilePath != nil {
		video.FilePath = input.FilePath
	}
	if input.ThumbnailPath != nil {
		video.ThumbnailPath = input.ThumbnailPath
	}
	if input.CategoryIDs != nil {
		owner := user
		if user.ID != video.ProfessionalID {
			// Admin editing someone else's video: categories still must
			// belong to the video's owner.
			owner = &domain.User{ID: video.ProfessionalID}
		}
		categories, err := s.resolveCategories(ctx, owner, *input.CategoryIDs)
		if err != nil {
			return nil, err
		}
		video.Categories = categories
	}

	if err := video.Validate(); err != nil {
		return nil, err
	}

	if err := s.videoRepo.Update(ctx, video); err != nil {
		return nil, err
	}

	if input.FilePath != nil && oldFile != nil && *oldFile != *input.FilePath {
		s.uploads.Remove(ctx, *oldFile)
	}
	if input.ThumbnailPath != nil && oldThumb != nil && *oldThumb != *input.ThumbnailPath {
		s.uploads.Remove(ctx, *oldThumb)
	}

	video.Resolve(s.uploads.PublicURL)
	return video, nil
}

func (s *VideoService) Delete(ctx context.Context, user *domain.User, id uuid.UUID) error {
	if err := s.gate.CanManage(user); err != nil {
		return err
	}

	video, err := s.videoRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !access.CanWrite(user, video.ProfessionalID) {
		return domain.ErrVideoNotFound
	}

	if err := s.videoRepo.Delete(ctx, id); err != nil {
		return err
	}

	if video.FilePath != nil {
		s.uploads.Remove(ctx, *video.FilePath)
	}
	if video.ThumbnailPath != nil {
		s.uploads.Remove(ctx, *video.ThumbnailPath)
	}

	s.log.Info(ctx, "video deleted", map[string]interface{}{
		"video_id": id,
		"owner_id": video.ProfessionalID,
	})

	return nil
}
