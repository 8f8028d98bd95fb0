package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"cadastro-service/internal/api/responses"
	"cadastro-service/internal/core/auth"
	"cadastro-service/internal/logging"
	"cadastro-service/internal/observability"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// SessionHeader carrega o id da sessão devolvido no login.
	SessionHeader = "X-Session-ID"
	sessionKey    = "sessao"
)

// RequestLogger logs request information
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		logging.Logger.Info("request completed",
			zap.String("path", path),
			zap.String("query", c.Request.URL.RawQuery),
			zap.String("ip", c.ClientIP()),
			zap.String("method", c.Request.Method),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("request_id", c.GetString("RequestID")),
		)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		observability.RequestDuration.WithLabelValues(
			route,
			c.Request.Method,
			strconv.Itoa(status),
		).Observe(latency.Seconds())
	}
}

// RequestTracker tracks active connections
func RequestTracker() gin.HandlerFunc {
	return func(c *gin.Context) {
		observability.ActiveConnections.Inc()
		defer observability.ActiveConnections.Dec()
		c.Next()
	}
}

// RequestID adds a unique request ID to the context
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("RequestID", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// RequireSession exige uma sessão válida no cabeçalho X-Session-ID.
func RequireSession(svc auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessao, err := svc.Sessao(c.Request.Context(), c.GetHeader(SessionHeader))
		if err != nil {
			if errors.Is(err, auth.ErrSessaoNaoEncontrada) {
				responses.Error(c, http.StatusUnauthorized, "Nenhum usuário logado.")
				return
			}
			responses.Error(c, http.StatusInternalServerError, "Erro ao consultar sessão", err.Error())
			return
		}
		c.Set(sessionKey, sessao)
		c.Next()
	}
}

// SessionFrom devolve a sessão gravada por RequireSession.
func SessionFrom(c *gin.Context) (*auth.Sessao, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	s, ok := v.(*auth.Sessao)
	return s, ok
}
