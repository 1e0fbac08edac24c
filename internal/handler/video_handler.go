package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/orchids/fitcourse/internal/service"
	"github.com/orchids/fitcourse/pkg/logger"
	"github.com/orchids/fitcourse/pkg/response"
	"github.com/orchids/fitcourse/pkg/validator"
)

type VideoHandler struct {
	videoService  *service.VideoService
	uploadService *service.UploadService
	log           *logger.Logger
}

func NewVideoHandler(videoService *service.VideoService, uploadService *service.UploadService, log *logger.Logger) *VideoHandler {
	return &VideoHandler{
		videoService:  videoService,
		uploadService: uploadService,
		log:           log,
	}
}

// Create accepts a multipart form. The video source is either an uploaded
// "video" file or an "external_url" field; thumbnails are optional.
func (h *VideoHandler) Create(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	ctx := c.Request.Context()

	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		response.BadRequest(c, "Invalid multipart form data")
		return
	}

	input := service.CreateVideoInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		ExternalURL: c.PostForm("external_url"),
	}

	categoryIDs, err := parseCategoryIDs(c.PostFormArray("category_ids"))
	if err != nil {
		handleDomainError(c, err)
		return
	}
	input.CategoryIDs = categoryIDs

	if file, header, err := c.Request.FormFile("video"); err == nil {
		defer file.Close()
		path, err := h.uploadService.SaveVideoFile(ctx, file, header)
		if err != nil {
			handleDomainError(c, err)
			return
		}
		input.FilePath = &path
	}

	if file, header, err := c.Request.FormFile("thumbnail"); err == nil {
		defer file.Close()
		path, err := h.uploadService.SaveThumbnail(ctx, file, header)
		if err != nil {
			handleDomainError(c, err)
			return
		}
		input.ThumbnailPath = &path
	}

	video, err := h.videoService.Create(ctx, user, input)
	if err != nil {
		if input.FilePath != nil {
			h.uploadService.Remove(ctx, *input.FilePath)
		}
		if input.ThumbnailPath != nil {
			h.uploadService.Remove(ctx, *input.ThumbnailPath)
		}
		handleDomainError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, toVideoResponse(video, h.uploadService.PublicURL))
}

func parseCategoryIDs(values []string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := validator.ValidateUUID(part)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (h *VideoHandler) Get(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	id, err := validator.ValidateUUID(c.Param("id"))
	if err != nil {
		handleDomainError(c, err)
		return
	}

	video, err := h.videoService.Get(c.Request.Context(), user, id)
	if err != nil {
		handleDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, toVideoResponse(video, h.uploadService.PublicURL))
}

func (h *VideoHandler) List(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	input := service.ListVideosInput{
		Search: c.Query("search"),
		Page:   page,
		Limit:  limit,
	}

	if raw := c.Query("category_id"); raw != "" {
		id, err := validator.ValidateUUID(raw)
		if err != nil {
			handleDomainError(c, err)
			return
		}
		input.CategoryID = &id
	}

	videos, total, err := h.videoService.List(c.Request.Context(), user, input)
	if err != nil {
		handleDomainError(c, err)
		return
	}

	items := make([]videoResponse, 0, len(videos))
	for _, v := range videos {
		items = append(items, toVideoResponse(v, h.uploadService.PublicURL))
	}

	if input.Page < 1 {
		input.Page = 1
	}
	if input.Limit < 1 || input.Limit > 100 {
		input.Limit = 20
	}
	totalPages := (total + input.Limit - 1) / input.Limit

	response.SuccessWithList(c, items, response.PaginationMeta{
		Total:       total,
		Page:        input.Page,
		Limit:       input.Limit,
		TotalPages:  totalPages,
		HasNext:     input.Page < totalPages,
		HasPrevious: input.Page > 1,
	})
}

type updateVideoRequest struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	ExternalURL *string      `json:"external_url"`
	IsActive    *bool        `json:"is_active"`
	CategoryIDs *[]uuid.UUID `json:"category_ids"`
}

func (h *VideoHandler) Update(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	id, err := validator.ValidateUUID(c.Param("id"))
	if err != nil {
		handleDomainError(c, err)
		return
	}

	var req updateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Invalid request body")
		return
	}

	video, err := h.videoService.Update(c.Request.Context(), user, id, service.UpdateVideoInput{
		Title:       req.Title,
		Description: req.Description,
		ExternalURL: req.ExternalURL,
		IsActive:    req.IsActive,
		CategoryIDs: req.CategoryIDs,
	})
	if err != nil {
		handleDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, toVideoResponse(video, h.uploadService.PublicURL))
}

func (h *VideoHandler) Delete(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	id, err := validator.ValidateUUID(c.Param("id"))
	if err != nil {
		handleDomainError(c, err)
		return
	}

	if err := h.videoService.Delete(c.Request.Context(), user, id); err != nil {
		handleDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
