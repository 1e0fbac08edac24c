package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/orchids/fitcourse/internal/service"
	"github.com/orchids/fitcourse/pkg/logger"
	"github.com/orchids/fitcourse/pkg/response"
	"github.com/orchids/fitcourse/pkg/validator"
)

type CategoryHandler struct {
	categoryService *service.CategoryService
	log             *logger.Logger
}

func NewCategoryHandler(categoryService *service.CategoryService, log *logger.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		log:             log,
	}
}

type createCategoryRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	ParentID    *uuid.UUID `json:"parent_id"`
}

func (h *CategoryHandler) Create(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Category name is required")
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), user, service.CreateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
	})
	if err != nil {
		handleDomainError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, toCategoryResponse(category))
}

// List returns the caller's visible categories as a nested tree. Students
// get the trees of every professional they are linked to.
func (h *CategoryHandler) List(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	tree, err := h.categoryService.ListTree(c.Request.Context(), user)
	if err != nil {
		handleDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, toCategoryResponses(tree))
}

func (h *CategoryHandler) Get(c *gin.Context) {
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

	category, err := h.categoryService.Get(c.Request.Context(), user, id)
	if err != nil {
		handleDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, toCategoryResponse(category))
}

type updateCategoryRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	ParentID    *uuid.UUID `json:"parent_id"`
	ClearParent bool       `json:"clear_parent"`
}

func (h *CategoryHandler) Update(c *gin.Context) {
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

	var req updateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Invalid request body")
		return
	}

	category, err := h.categoryService.Update(c.Request.Context(), user, id, service.UpdateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
		ClearParent: req.ClearParent,
	})
	if err != nil {
		handleDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, toCategoryResponse(category))
}

func (h *CategoryHandler) Delete(c *gin.Context) {
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

	if err := h.categoryService.Delete(c.Request.Context(), user, id); err != nil {
		handleDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
