package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"cadastro-service/internal/api/responses"
	"cadastro-service/internal/core/cadastro"
	"cadastro-service/internal/core/planilha"
	"cadastro-service/internal/domain"
	"cadastro-service/internal/logging"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PlanilhaHandler lida com as requisições de leitura e conversão de planilhas.
type PlanilhaHandler struct {
	service     cadastro.Service
	maxUploadMB int64
}

// NewPlanilhaHandler cria um novo handler de planilhas.
func NewPlanilhaHandler(service cadastro.Service, maxUploadMB int64) *PlanilhaHandler {
	return &PlanilhaHandler{
		service:     service,
		maxUploadMB: maxUploadMB,
	}
}

// openUpload valida e abre o arquivo enviado no campo "file".
func (h *PlanilhaHandler) openUpload(c *gin.Context) (multipart.File, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Arquivo (.xls, .xlsx) não encontrado ou inválido")
		return nil, false
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".xls" && ext != ".xlsx" {
		responses.Error(c, http.StatusBadRequest, fmt.Sprintf("Extensão de arquivo não suportada: %s", ext))
		return nil, false
	}

	if h.maxUploadMB > 0 && fileHeader.Size > h.maxUploadMB<<20 {
		responses.Error(c, http.StatusRequestEntityTooLarge, fmt.Sprintf("Arquivo maior que o limite de %d MB", h.maxUploadMB))
		return nil, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Não foi possível abrir o arquivo")
		return nil, false
	}
	return file, true
}

// conversionError traduz os erros de leitura/conversão em respostas HTTP.
func conversionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, planilha.ErrFormatoInvalido):
		responses.Error(c, http.StatusBadRequest, "Não foi possível ler a planilha", err.Error())
	case errors.Is(err, cadastro.ErrPlanilhaVazia):
		responses.Error(c, http.StatusBadRequest, "A planilha não possui abas")
	case errors.Is(err, domain.ErrTipoInvalido):
		responses.Error(c, http.StatusBadRequest, "Tipo de cadastro inválido", err.Error())
	default:
		logging.Logger.Error("erro ao processar planilha", zap.Error(err))
		responses.Error(c, http.StatusInternalServerError, "Erro ao processar a planilha", err.Error())
	}
}

// HandleListSheets lista as abas da planilha com o tipo reconhecido de cada uma.
func (h *PlanilhaHandler) HandleListSheets(c *gin.Context) {
	file, ok := h.openUpload(c)
	if !ok {
		return
	}
	defer file.Close()

	abas, err := h.service.ListSheets(c.Request.Context(), file)
	if err != nil {
		conversionError(c, err)
		return
	}
	responses.Success(c, abas, cadastro.Resumo(abas))
}

// HandleConvertAll converte todas as abas reconhecidas.
func (h *PlanilhaHandler) HandleConvertAll(c *gin.Context) {
	file, ok := h.openUpload(c)
	if !ok {
		return
	}
	defer file.Close()

	resultados, err := h.service.ConvertAllSheets(c.Request.Context(), file)
	if err != nil {
		conversionError(c, err)
		return
	}
	responses.Success(c, resultados, fmt.Sprintf("%d aba(s) convertida(s)", len(resultados)))
}

// HandleConvertSheet converte a primeira aba com o tipo da rota. Com
// ?download=1 devolve o JSON como arquivo.
func (h *PlanilhaHandler) HandleConvertSheet(c *gin.Context) {
	tipo, err := domain.ParseTipoCadastro(c.Param("tipo"))
	if err != nil {
		conversionError(c, err)
		return
	}

	file, ok := h.openUpload(c)
	if !ok {
		return
	}
	defer file.Close()

	resultado, err := h.service.ConvertSheet(c.Request.Context(), file, tipo)
	if err != nil {
		conversionError(c, err)
		return
	}

	if c.Query("download") == "1" {
		output, err := json.MarshalIndent(resultado.Dados, "", "  ")
		if err != nil {
			responses.Error(c, http.StatusInternalServerError, "Erro ao gerar o arquivo", err.Error())
			return
		}
		fileName := fmt.Sprintf("%s-%d.json", tipo, time.Now().UnixMilli())
		c.Header("Content-Disposition", "attachment; filename="+fileName)
		c.Data(http.StatusOK, "application/json; charset=utf-8", output)
		return
	}

	responses.Success(c, resultado, fmt.Sprintf("%d registro(s) de %s convertido(s)", resultado.Linhas, tipo.Rotulo()))
}
