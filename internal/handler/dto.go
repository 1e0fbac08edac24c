package handler

import (
	"time"

	"github.com/google/uuid"

	"github.com/orchids/fitcourse/internal/domain"
)

type userResponse struct {
	ID                 uuid.UUID `json:"id"`
	Email              string    `json:"email"`
	Role               string    `json:"role"`
	SubscriptionStatus string    `json:"subscription_status"`
	CreatedAt          time.Time `json:"created_at"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:                 u.ID,
		Email:              u.Email,
		Role:               string(u.Role),
		SubscriptionStatus: string(u.SubscriptionStatus),
		CreatedAt:          u.CreatedAt,
	}
}

type profileResponse struct {
	UserID   uuid.UUID `json:"user_id"`
	FullName string    `json:"full_name"`
	Bio      string    `json:"bio"`
	CREF     string    `json:"cref"`
}

func toProfileResponse(p *domain.ProfessionalProfile) profileResponse {
	return profileResponse{
		UserID:   p.UserID,
		FullName: p.FullName,
		Bio:      p.Bio,
		CREF:     p.CREF,
	}
}

type categoryResponse struct {
	ID          uuid.UUID          `json:"id"`
	ParentID    *uuid.UUID         `json:"parent_id,omitempty"`
	Name        string             `json:"name"`
	DisplayName string             `json:"display_name"`
	Slug        string             `json:"slug"`
	Description string             `json:"description,omitempty"`
	Children    []categoryResponse `json:"children,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}

func toCategoryResponse(c *domain.Category) categoryResponse {
	resp := categoryResponse{
		ID:          c.ID,
		ParentID:    c.ParentID,
		Name:        c.Name,
		DisplayName: c.DisplayName(),
		Slug:        c.Slug,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
	}
	for _, child := range c.Children {
		resp.Children = append(resp.Children, toCategoryResponse(child))
	}
	return resp
}

func toCategoryResponses(categories []*domain.Category) []categoryResponse {
	out := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, toCategoryResponse(c))
	}
	return out
}

type videoResponse struct {
	ID          uuid.UUID          `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	URL         string             `json:"url"`
	Thumbnail   *string            `json:"thumbnail,omitempty"`
	IsActive    bool               `json:"is_active"`
	Categories  []categoryResponse `json:"categories"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

func toVideoResponse(v *domain.Video, thumbnailURL func(path string) string) videoResponse {
	resp := videoResponse{
		ID:          v.ID,
		Title:       v.Title,
		Description: v.Description,
		URL:         v.URL,
		IsActive:    v.IsActive,
		Categories:  toCategoryResponses(v.Categories),
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
	if v.ThumbnailPath != nil && *v.ThumbnailPath != "" {
		url := thumbnailURL(*v.ThumbnailPath)
		resp.Thumbnail = &url
	}
	return resp
}

type studentResponse struct {
	LinkID    uuid.UUID `json:"link_id"`
	StudentID uuid.UUID `json:"student_id"`
	Email     string    `json:"email"`
	LinkedAt  time.Time `json:"linked_at"`
}

func toStudentResponse(s *domain.LinkedStudent) studentResponse {
	return studentResponse{
		LinkID:    s.LinkID,
		StudentID: s.StudentID,
		Email:     s.Email,
		LinkedAt:  s.CreatedAt,
	}
}
