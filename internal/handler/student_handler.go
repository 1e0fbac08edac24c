package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orchids/fitcourse/internal/service"
	"github.com/orchids/fitcourse/pkg/logger"
	"github.com/orchids/fitcourse/pkg/response"
	"github.com/orchids/fitcourse/pkg/validator"
)

type StudentHandler struct {
	studentService *service.StudentService
	log            *logger.Logger
}

func NewStudentHandler(studentService *service.StudentService, log *logger.Logger) *StudentHandler {
	return &StudentHandler{
		studentService: studentService,
		log:            log,
	}
}

type addStudentRequest struct {
	Email string `json:"email" binding:"required"`
}

func (h *StudentHandler) Add(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req addStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Student email is required")
		return
	}

	link, err := h.studentService.Add(c.Request.Context(), user, req.Email)
	if err != nil {
		handleDomainError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"link_id":    link.ID,
		"student_id": link.StudentID,
	})
}

func (h *StudentHandler) List(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	students, err := h.studentService.List(c.Request.Context(), user)
	if err != nil {
		handleDomainError(c, err)
		return
	}

	items := make([]studentResponse, 0, len(students))
	for _, s := range students {
		items = append(items, toStudentResponse(s))
	}

	response.Success(c, http.StatusOK, items)
}

func (h *StudentHandler) Remove(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	linkID, err := validator.ValidateUUID(c.Param("id"))
	if err != nil {
		handleDomainError(c, err)
		return
	}

	if err := h.studentService.Remove(c.Request.Context(), user, linkID); err != nil {
		handleDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"removed": true})
}
