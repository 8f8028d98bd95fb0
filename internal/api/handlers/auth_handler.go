// internal/api/handlers/auth_handler.go
package handlers

import (
	"errors"
	"net/http"

	"cadastro-service/internal/api/middleware"
	"cadastro-service/internal/api/responses"
	"cadastro-service/internal/core/auth"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service auth.Service
}

func NewAuthHandler(service auth.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

type LoginRequest struct {
	Token string `json:"token" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, "Requisição inválida")
		return
	}

	sessao, err := h.service.Login(c.Request.Context(), req.Token)
	if err != nil {
		var statusErr *auth.StatusError
		if errors.As(err, &statusErr) {
			responses.Error(c, http.StatusUnauthorized, statusErr.Error())
			return
		}
		if errors.Is(err, auth.ErrTokenVazio) || errors.Is(err, auth.ErrSemJWT) {
			responses.Error(c, http.StatusUnauthorized, err.Error())
			return
		}
		responses.Error(c, http.StatusBadGateway, "Erro no login", err.Error())
		return
	}

	responses.Success(c, sessao, "Login realizado")
}

// Sessao devolve a sessão atual, já validada pelo middleware.
func (h *AuthHandler) Sessao(c *gin.Context) {
	sessao, _ := middleware.SessionFrom(c)
	responses.Success(c, sessao, "")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), c.GetHeader(middleware.SessionHeader)); err != nil {
		responses.Error(c, http.StatusInternalServerError, "Erro ao encerrar sessão", err.Error())
		return
	}
	responses.Success(c, nil, "Sessão encerrada")
}
