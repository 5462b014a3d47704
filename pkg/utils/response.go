package utils

import "github.com/gin-gonic/gin"

type Response struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    interface{}       `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Code    string            `json:"code,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func SuccessResponse(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, Response{
		Success: false,
		Error:   message,
	})
}

// CodedErrorResponse lets callers tell apart failures that share a status.
func CodedErrorResponse(c *gin.Context, status int, code, message string) {
	c.JSON(status, Response{
		Success: false,
		Error:   message,
		Code:    code,
	})
}

func ValidationErrorResponse(c *gin.Context, status int, message string, fields map[string]string) {
	c.JSON(status, Response{
		Success: false,
		Error:   message,
		Code:    "VALIDATION_ERROR",
		Fields:  fields,
	})
}
