package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"cadastro-service/internal/api/middleware"
	"cadastro-service/internal/core/auth"
	"cadastro-service/internal/core/cadastro"
	"cadastro-service/internal/core/planilha"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Errors  []string        `json:"errors"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

// ---------------------- fixtures ----------------------

func planilhaTeste(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "Motorista"))
	require.NoError(t, f.SetSheetRow("Motorista", "A1", &[]any{"NOME", "CPF"}))
	require.NoError(t, f.SetSheetRow("Motorista", "A2", &[]any{"Ana", "123.456.789-09"}))

	_, err := f.NewSheet("Foo")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Foo", "A1", &[]any{"X"}))
	require.NoError(t, f.SetSheetRow("Foo", "A2", &[]any{"y"}))

	_, err = f.NewSheet("Veiculos")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Veiculos", "A1", &[]any{"PLACA"}))
	require.NoError(t, f.SetSheetRow("Veiculos", "A2", &[]any{"ABC1D23"}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func uploadRequest(t *testing.T, url, fileName string, content []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, url, body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func planilhaRouter() *gin.Engine {
	h := NewPlanilhaHandler(cadastro.NewService(cadastro.NewConverter(planilha.NewDateDecoder(nil))), 1)
	r := gin.New()
	r.POST("/abas", h.HandleListSheets)
	r.POST("/converter", h.HandleConvertAll)
	r.POST("/converter/:tipo", h.HandleConvertSheet)
	return r
}

// fakeAuth guarda uma única sessão.
type fakeAuth struct {
	sessao   *auth.Sessao
	loginErr error
	logouts  atomic.Int32
}

func (f *fakeAuth) Login(_ context.Context, _ string) (*auth.Sessao, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.sessao, nil
}

func (f *fakeAuth) Sessao(_ context.Context, id string) (*auth.Sessao, error) {
	if f.sessao == nil || id != f.sessao.ID {
		return nil, auth.ErrSessaoNaoEncontrada
	}
	return f.sessao, nil
}

func (f *fakeAuth) Logout(_ context.Context, _ string) error {
	f.logouts.Add(1)
	return nil
}

func novaSessao() *auth.Sessao {
	return &auth.Sessao{ID: "sessao-1", Usuario: auth.Usuario{IdUsuario: "42", Projeto: "OTM", JWT: "jwt-teste"}}
}

// ---------------------- planilhas ----------------------

func TestHandleListSheets(t *testing.T) {
	w := httptest.NewRecorder()
	planilhaRouter().ServeHTTP(w, uploadRequest(t, "/abas", "cadastros.xlsx", planilhaTeste(t)))

	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.Equal(t, "success", env.Status)
	assert.Equal(t, "2 aba(s) reconhecida(s) de 3 total", env.Message)

	var abas []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &abas))
	require.Len(t, abas, 3)
	assert.Equal(t, "motorista", abas[0]["type"])
	assert.Nil(t, abas[1]["type"])
	assert.Equal(t, "veiculo", abas[2]["type"])
}

func TestHandleConvertAll(t *testing.T) {
	w := httptest.NewRecorder()
	planilhaRouter().ServeHTTP(w, uploadRequest(t, "/converter", "cadastros.xlsx", planilhaTeste(t)))

	require.Equal(t, http.StatusOK, w.Code)
	var resultados []struct {
		SheetName string           `json:"sheetName"`
		Type      string           `json:"type"`
		Data      []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &resultados))
	require.Len(t, resultados, 2)
	assert.Equal(t, "Motorista", resultados[0].SheetName)
	assert.Equal(t, "12345678909", resultados[0].Data[0]["cpf"])
	assert.Equal(t, "veiculo", resultados[1].Type)
}

func TestHandleConvertSheet(t *testing.T) {
	t.Run("download", func(t *testing.T) {
		w := httptest.NewRecorder()
		planilhaRouter().ServeHTTP(w, uploadRequest(t, "/converter/motorista?download=1", "cadastros.xlsx", planilhaTeste(t)))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment; filename=motorista-")
		assert.True(t, strings.HasSuffix(w.Header().Get("Content-Disposition"), ".json"))

		var motoristas []map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &motoristas))
		require.Len(t, motoristas, 1)
		assert.Equal(t, "Ana", motoristas[0]["nome"])
	})

	t.Run("tipo inválido", func(t *testing.T) {
		w := httptest.NewRecorder()
		planilhaRouter().ServeHTTP(w, uploadRequest(t, "/converter/caminhao", "cadastros.xlsx", planilhaTeste(t)))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Tipo de cadastro inválido", decode(t, w).Message)
	})
}

func TestUploadValidation(t *testing.T) {
	tests := []struct {
		name     string
		req      func(t *testing.T) *http.Request
		wantCode int
	}{
		{
			name: "sem arquivo",
			req: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodPost, "/abas", nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "extensão não suportada",
			req: func(t *testing.T) *http.Request {
				return uploadRequest(t, "/abas", "cadastros.csv", []byte("a,b"))
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "arquivo corrompido",
			req: func(t *testing.T) *http.Request {
				return uploadRequest(t, "/abas", "cadastros.xlsx", []byte("não é uma planilha"))
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "acima do limite",
			req: func(t *testing.T) *http.Request {
				return uploadRequest(t, "/abas", "cadastros.xlsx", bytes.Repeat([]byte{0}, 2<<20))
			},
			wantCode: http.StatusRequestEntityTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			planilhaRouter().ServeHTTP(w, tt.req(t))
			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, "error", decode(t, w).Status)
		})
	}
}

// ---------------------- envio ----------------------

func gestaoServer(t *testing.T, status func(body map[string]any) int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(raw, &body)

		code := status(body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		if code >= 300 {
			_, _ = w.Write([]byte(`{"message":"recusado"}`))
			return
		}
		_, _ = w.Write(raw)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func envioRouter(srv *httptest.Server, authSvc auth.Service) *gin.Engine {
	h := NewEnvioHandler(srv.URL, "OTM", srv.Client(), authSvc)
	r := gin.New()
	r.POST("/cadastros/:tipo/enviar", middleware.RequireSession(authSvc), h.HandleEnviar)
	return r
}

func envioRequest(url, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.SessionHeader, "sessao-1")
	return req
}

func TestHandleEnviar(t *testing.T) {
	srv := gestaoServer(t, func(body map[string]any) int {
		if body["nome"] == "B" {
			return http.StatusBadRequest
		}
		return http.StatusOK
	})
	authSvc := &fakeAuth{sessao: novaSessao()}

	w := httptest.NewRecorder()
	envioRouter(srv, authSvc).ServeHTTP(w, envioRequest("/cadastros/motorista/enviar",
		`{"itens":[{"nome":"A"},{"nome":"B"},{"nome":"C"}],"grupoToken":"g1"}`))

	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.Equal(t, "2 de 3 Motorista enviado(s) com sucesso", env.Message)

	var resumo EnvioResponse
	require.NoError(t, json.Unmarshal(env.Data, &resumo))
	assert.Equal(t, 3, resumo.Total)
	assert.Equal(t, 2, resumo.Sucessos)
	assert.Equal(t, 1, resumo.Falhas)
	require.Len(t, resumo.Resultados, 3)
	assert.False(t, resumo.Resultados[1].Success)
	assert.Equal(t, "recusado", resumo.Resultados[1].Error)
	assert.JSONEq(t, `{"nome":"C","token":["g1"]}`, string(resumo.Resultados[2].Data))
}

func TestHandleEnviarStream(t *testing.T) {
	srv := gestaoServer(t, func(map[string]any) int { return http.StatusOK })

	w := httptest.NewRecorder()
	envioRouter(srv, &fakeAuth{sessao: novaSessao()}).ServeHTTP(w, envioRequest("/cadastros/veiculo/enviar?stream=1",
		`{"itens":[{"placa":"A"},{"placa":"B"}]}`))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/event-stream")

	body := w.Body.String()
	assert.Equal(t, 2, strings.Count(body, "event:progress"))
	assert.Equal(t, 1, strings.Count(body, "event:result"))
	assert.Less(t, strings.LastIndex(body, "event:progress"), strings.Index(body, "event:result"))
}

func TestHandleEnviarErros(t *testing.T) {
	srv := gestaoServer(t, func(map[string]any) int { return http.StatusOK })

	t.Run("sem sessão", func(t *testing.T) {
		req := envioRequest("/cadastros/motorista/enviar", `{"itens":[]}`)
		req.Header.Del(middleware.SessionHeader)
		w := httptest.NewRecorder()
		envioRouter(srv, &fakeAuth{sessao: novaSessao()}).ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Nenhum usuário logado.", decode(t, w).Message)
	})

	t.Run("tipo inválido", func(t *testing.T) {
		w := httptest.NewRecorder()
		envioRouter(srv, &fakeAuth{sessao: novaSessao()}).ServeHTTP(w, envioRequest("/cadastros/caminhao/enviar", `{"itens":[]}`))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("corpo sem itens", func(t *testing.T) {
		w := httptest.NewRecorder()
		envioRouter(srv, &fakeAuth{sessao: novaSessao()}).ServeHTTP(w, envioRequest("/cadastros/motorista/enviar", `{}`))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleEnviarUnauthorizedEncerraSessao(t *testing.T) {
	srv := gestaoServer(t, func(map[string]any) int { return http.StatusUnauthorized })
	authSvc := &fakeAuth{sessao: novaSessao()}

	w := httptest.NewRecorder()
	envioRouter(srv, authSvc).ServeHTTP(w, envioRequest("/cadastros/motorista/enviar", `{"itens":[{"nome":"A"}]}`))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int32(1), authSvc.logouts.Load())
}

// ---------------------- auth ----------------------

func authRouter(svc auth.Service) *gin.Engine {
	h := NewAuthHandler(svc)
	r := gin.New()
	r.POST("/login", h.Login)
	sessao := r.Group("", middleware.RequireSession(svc))
	sessao.GET("/sessao", h.Sessao)
	sessao.DELETE("/sessao", h.Logout)
	return r
}

func TestAuthHandler(t *testing.T) {
	t.Run("login", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"token":"abc"}`))
		req.Header.Set("Content-Type", "application/json")
		authRouter(&fakeAuth{sessao: novaSessao()}).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var sessao auth.Sessao
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &sessao))
		assert.Equal(t, "sessao-1", sessao.ID)
	})

	t.Run("login recusado", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"token":"abc"}`))
		req.Header.Set("Content-Type", "application/json")
		authRouter(&fakeAuth{loginErr: &auth.StatusError{Status: http.StatusForbidden}}).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, auth.MessageForStatus(http.StatusForbidden), decode(t, w).Message)
	})

	t.Run("login sem token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		authRouter(&fakeAuth{}).ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("sessão e logout", func(t *testing.T) {
		svc := &fakeAuth{sessao: novaSessao()}
		r := authRouter(svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/sessao", nil)
		req.Header.Set(middleware.SessionHeader, "sessao-1")
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodDelete, "/sessao", nil)
		req.Header.Set(middleware.SessionHeader, "sessao-1")
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, int32(1), svc.logouts.Load())
	})
}
