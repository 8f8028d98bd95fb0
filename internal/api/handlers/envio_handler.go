package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"cadastro-service/internal/api/middleware"
	"cadastro-service/internal/api/responses"
	"cadastro-service/internal/core/auth"
	"cadastro-service/internal/core/envio"
	"cadastro-service/internal/domain"
	"cadastro-service/internal/logging"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EnvioHandler envia cadastros já convertidos para a API de gestão.
type EnvioHandler struct {
	baseURL    string
	projeto    string
	httpClient *http.Client
	auth       auth.Service
}

// NewEnvioHandler cria o handler de envio. Uma resposta 401 da API de cadastro
// encerra a sessão do usuário.
func NewEnvioHandler(baseURL, projeto string, httpClient *http.Client, authService auth.Service) *EnvioHandler {
	return &EnvioHandler{
		baseURL:    baseURL,
		projeto:    projeto,
		httpClient: httpClient,
		auth:       authService,
	}
}

// EnvioRequest é o corpo de POST /cadastros/:tipo/enviar.
type EnvioRequest struct {
	Itens      []json.RawMessage `json:"itens" binding:"required"`
	GrupoToken string            `json:"grupoToken"`
}

// EnvioResponse resume o envio.
type EnvioResponse struct {
	Total      int               `json:"total"`
	Sucessos   int               `json:"sucessos"`
	Falhas     int               `json:"falhas"`
	Resultados []envio.Resultado `json:"resultados"`
}

func resumoEnvio(total int, resultados []envio.Resultado) EnvioResponse {
	r := EnvioResponse{Total: total, Resultados: resultados}
	for _, res := range resultados {
		if res.Success {
			r.Sucessos++
		} else {
			r.Falhas++
		}
	}
	return r
}

func (h *EnvioHandler) clientFor(sessao *auth.Sessao) *envio.Client {
	return envio.NewClient(h.baseURL, h.projeto,
		envio.WithHTTPClient(h.httpClient),
		envio.WithUnauthorizedHook(func() {
			if err := h.auth.Logout(context.Background(), sessao.ID); err != nil {
				logging.Logger.Warn("erro ao encerrar sessão", zap.Error(err))
			}
		}),
	)
}

// HandleEnviar envia os itens um a um. Com ?stream=1 responde em SSE, com um
// evento "progress" por item e um "result" no final.
func (h *EnvioHandler) HandleEnviar(c *gin.Context) {
	sessao, ok := middleware.SessionFrom(c)
	if !ok {
		responses.Error(c, http.StatusUnauthorized, "Nenhum usuário logado.")
		return
	}

	tipo, err := domain.ParseTipoCadastro(c.Param("tipo"))
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Tipo de cadastro inválido", err.Error())
		return
	}

	var req EnvioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, "Requisição inválida", err.Error())
		return
	}

	client := h.clientFor(sessao)
	ctx := c.Request.Context()

	if c.Query("stream") == "1" {
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Header("X-Accel-Buffering", "no")

		resultados, err := client.SendAll(ctx, tipo, sessao.Usuario.JWT, req.Itens, req.GrupoToken, func(p envio.Progresso) {
			c.SSEvent("progress", p)
			c.Writer.Flush()
		})
		if err != nil {
			c.SSEvent("error", gin.H{"message": err.Error()})
			c.Writer.Flush()
			return
		}
		c.SSEvent("result", resumoEnvio(len(req.Itens), resultados))
		c.Writer.Flush()
		return
	}

	resultados, err := client.SendAll(ctx, tipo, sessao.Usuario.JWT, req.Itens, req.GrupoToken, nil)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logging.Logger.Info("envio interrompido pelo cliente", zap.Int("enviados", len(resultados)))
			return
		}
		responses.Error(c, http.StatusInternalServerError, "Erro ao enviar cadastros", err.Error())
		return
	}

	resumo := resumoEnvio(len(req.Itens), resultados)
	responses.Success(c, resumo, fmt.Sprintf("%d de %d %s enviado(s) com sucesso", resumo.Sucessos, resumo.Total, tipo.Rotulo()))
}
