package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tutor-platform/internal/usecase/account"
	"tutor-platform/pkg/utils"
)

type DashboardHandler struct {
	service *account.Service
}

func NewDashboardHandler(service *account.Service) *DashboardHandler {
	return &DashboardHandler{service: service}
}

func (h *DashboardHandler) TutorStudents(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	students, err := h.service.TutorDashboardStudents(c.Request.Context(), principal)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", students)
}

func (h *DashboardHandler) StudentTutors(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	tutors, err := h.service.StudentDashboardTutors(c.Request.Context(), principal)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", tutors)
}
