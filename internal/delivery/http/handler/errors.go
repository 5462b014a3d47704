package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domainAccount "tutor-platform/internal/domain/account"
	"tutor-platform/internal/logger"
	"tutor-platform/internal/middleware"
	appErrors "tutor-platform/pkg/errors"
	"tutor-platform/pkg/utils"
)

func respondWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var maxBytesErr *http.MaxBytesError
	var appErr *appErrors.AppError

	switch {
	case errors.Is(err, appErrors.ErrDuplicateEmail):
		utils.CodedErrorResponse(c, http.StatusBadRequest, "DUPLICATE_EMAIL", err.Error())
	case errors.Is(err, appErrors.ErrDuplicateMobile):
		utils.CodedErrorResponse(c, http.StatusBadRequest, "DUPLICATE_MOBILE", err.Error())
	case errors.Is(err, appErrors.ErrInvalidEmail):
		utils.CodedErrorResponse(c, http.StatusBadRequest, "INVALID_EMAIL", "Enter a valid email address.")
	case errors.Is(err, appErrors.ErrInvalidInput):
		utils.CodedErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, appErrors.ErrInvalidCredentials):
		utils.CodedErrorResponse(c, http.StatusBadRequest, "INVALID_CREDENTIALS", "Invalid credentials")
	case errors.Is(err, appErrors.ErrUnauthorized):
		utils.CodedErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", err.Error())
	case errors.Is(err, appErrors.ErrAccountNotApproved):
		utils.CodedErrorResponse(c, http.StatusForbidden, middleware.ForbiddenCode(err), "Your account is awaiting admin approval.")
	case errors.Is(err, appErrors.ErrAccountRejected),
		errors.Is(err, appErrors.ErrWrongRole),
		errors.Is(err, appErrors.ErrAdminRequired):
		utils.CodedErrorResponse(c, http.StatusForbidden, middleware.ForbiddenCode(err), err.Error())
	case errors.Is(err, appErrors.ErrAccountNotFound),
		errors.Is(err, appErrors.ErrProfileNotFound):
		utils.CodedErrorResponse(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, appErrors.ErrEmailNotFound):
		utils.CodedErrorResponse(c, http.StatusBadRequest, "EMAIL_NOT_FOUND", "No account found with this email")
	case errors.Is(err, appErrors.ErrInvalidToken):
		utils.CodedErrorResponse(c, http.StatusBadRequest, "INVALID_TOKEN", "Invalid or expired token")
	case errors.Is(err, appErrors.ErrInvalidAction):
		utils.CodedErrorResponse(c, http.StatusBadRequest, "INVALID_ACTION", "Invalid action. Use 'approve' or 'reject'.")
	case errors.As(err, &maxBytesErr):
		utils.CodedErrorResponse(c, http.StatusRequestEntityTooLarge, "REQUEST_TOO_LARGE", "Request body too large")
	case errors.As(err, &appErr):
		if appErr.Code == "VALIDATION_ERROR" {
			utils.ValidationErrorResponse(c, http.StatusBadRequest, appErr.Message, utils.ValidationMessages(appErr.Err))
			return
		}
		utils.CodedErrorResponse(c, http.StatusBadRequest, appErr.Code, appErr.Message)
	default:
		logger.Error("Internal server error",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Error(err),
		)
		utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
	}
}

// bindRequest accepts JSON, urlencoded and multipart bodies alike.
func bindRequest(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBind(req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			respondWithError(c, err)
			return false
		}
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func principalOrAbort(c *gin.Context) (domainAccount.Principal, bool) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		respondWithError(c, appErrors.ErrUnauthorized)
		return p, false
	}
	return p, true
}
