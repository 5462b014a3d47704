package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tutor-platform/internal/usecase/auth"
	"tutor-platform/pkg/utils"
)

type AuthHandler struct {
	service *auth.Service
}

func NewAuthHandler(service *auth.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) RegisterRoutes(router gin.IRoutes) {
	router.POST("/login", h.Login)
	router.POST("/forgot-password", h.ForgotPassword)
	router.POST("/reset-password", h.ResetPassword)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if !bindRequest(c, &req) {
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Login successful", resp)
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req auth.ForgotPasswordRequest
	if !bindRequest(c, &req) {
		return
	}

	resp, err := h.service.RequestPasswordReset(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if resp.ResetToken == "" {
		utils.SuccessResponse(c, http.StatusOK, "Password reset instructions have been sent to your email", nil)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Password reset token generated", resp)
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req auth.ResetPasswordRequest
	if !bindRequest(c, &req) {
		return
	}

	if err := h.service.CompletePasswordReset(c.Request.Context(), &req); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Password has been reset successfully", nil)
}
