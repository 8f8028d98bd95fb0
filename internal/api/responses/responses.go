// internal/api/responses/responses.go
package responses

import (
	"net/http"

	"cadastro-service/internal/logging"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// APIResponse defines the standard envelope for API responses.
type APIResponse struct {
	Status  string      `json:"status"` // "success" or "error"
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
}

// Success sends a successful response with the provided data and message.
func Success(c *gin.Context, data interface{}, message string) {
	resp := APIResponse{Status: "success", Data: data, Message: message}
	c.JSON(http.StatusOK, resp)
	logging.Logger.Info("API success",
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", http.StatusOK),
		zap.String("request_id", c.GetString("RequestID")),
	)
}

// Error sends an error response with the provided code, message, and optional errors.
func Error(c *gin.Context, code int, message string, errs ...string) {
	resp := APIResponse{Status: "error", Message: message, Errors: errs}
	c.AbortWithStatusJSON(code, resp)
	logging.Logger.Error("API error",
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", code),
		zap.Strings("errors", errs),
		zap.String("request_id", c.GetString("RequestID")),
	)
}
