package handler

import (
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tutor-platform/internal/usecase/account"
	"tutor-platform/pkg/utils"
)

type AccountHandler struct {
	service *account.Service
}

func NewAccountHandler(service *account.Service) *AccountHandler {
	return &AccountHandler{service: service}
}

func (h *AccountHandler) RegisterRoutes(router gin.IRoutes) {
	router.POST("/register/student", h.RegisterStudent)
	router.POST("/register/tutor", h.RegisterTutor)
}

func (h *AccountHandler) RegisterProfileRoutes(router gin.IRoutes) {
	router.GET("/profile", h.GetProfile)
}

func (h *AccountHandler) RegisterStudent(c *gin.Context) {
	var req account.RegisterStudentRequest
	if !bindRequest(c, &req) {
		return
	}

	upload, closeUpload, err := formUpload(c, "profile_photo")
	if err != nil {
		respondWithError(c, err)
		return
	}
	defer closeUpload()

	resp, err := h.service.RegisterStudent(c.Request.Context(), &req, upload)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, resp.Message, resp)
}

func (h *AccountHandler) RegisterTutor(c *gin.Context) {
	var req account.RegisterTutorRequest
	if !bindRequest(c, &req) {
		return
	}

	upload, closeUpload, err := formUpload(c, "profile_image")
	if err != nil {
		respondWithError(c, err)
		return
	}
	defer closeUpload()

	resp, err := h.service.RegisterTutor(c.Request.Context(), &req, upload)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, resp.Message, resp)
}

func (h *AccountHandler) GetProfile(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	resp, err := h.service.GetOwnProfile(c.Request.Context(), principal)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", resp)
}

// formUpload opens the named multipart file part. A missing part or a
// non-multipart body yields a nil upload.
func formUpload(c *gin.Context, field string) (*account.Upload, func(), error) {
	noop := func() {}
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return nil, noop, nil
	}

	fh, err := c.FormFile(field)
	if err == http.ErrMissingFile {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, err
	}

	f, err := fh.Open()
	if err != nil {
		return nil, noop, err
	}
	return &account.Upload{Filename: fh.Filename, Content: f}, closer(f), nil
}

func closer(f multipart.File) func() {
	return func() { _ = f.Close() }
}
