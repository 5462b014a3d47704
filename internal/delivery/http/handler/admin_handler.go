package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tutor-platform/internal/usecase/account"
	appErrors "tutor-platform/pkg/errors"
	"tutor-platform/pkg/utils"
)

type AdminHandler struct {
	service *account.Service
}

func NewAdminHandler(service *account.Service) *AdminHandler {
	return &AdminHandler{service: service}
}

func (h *AdminHandler) RegisterRoutes(router gin.IRoutes) {
	router.PATCH("/review-user/:id", h.ReviewUser)
	router.PUT("/review-user/:id", h.ReviewUser)

	router.GET("/students", h.listStudents(account.FilterAll))
	router.GET("/students/approved", h.listStudents(account.FilterApproved))
	router.GET("/students/rejected", h.listStudents(account.FilterRejected))

	router.GET("/tutors", h.listTutors(account.FilterAll))
	router.GET("/tutors/approved", h.listTutors(account.FilterApproved))
	router.GET("/tutors/rejected", h.listTutors(account.FilterRejected))
}

func (h *AdminHandler) ReviewUser(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondWithError(c, appErrors.ErrAccountNotFound)
		return
	}

	// An empty body is reported as an invalid action, not a bad request.
	var req account.ReviewRequest
	if c.Request.ContentLength != 0 && !bindRequest(c, &req) {
		return
	}

	resp, err := h.service.Review(c.Request.Context(), principal, accountID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, resp.Message, resp)
}

func (h *AdminHandler) listStudents(filter account.ReviewFilter) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := principalOrAbort(c)
		if !ok {
			return
		}

		students, err := h.service.ListStudents(c.Request.Context(), principal, filter)
		if err != nil {
			respondWithError(c, err)
			return
		}

		utils.SuccessResponse(c, http.StatusOK, "", students)
	}
}

func (h *AdminHandler) listTutors(filter account.ReviewFilter) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := principalOrAbort(c)
		if !ok {
			return
		}

		tutors, err := h.service.ListTutors(c.Request.Context(), principal, filter)
		if err != nil {
			respondWithError(c, err)
			return
		}

		utils.SuccessResponse(c, http.StatusOK, "", tutors)
	}
}
