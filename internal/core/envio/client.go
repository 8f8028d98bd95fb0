package envio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"cadastro-service/internal/domain"
	"cadastro-service/internal/logging"
	"cadastro-service/internal/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	msgSemUsuario   = "Nenhum usuário logado."
	msgDesconhecido = "Erro desconhecido."
)

// ErrSemUsuario é devolvido quando não há JWT para autenticar o envio.
var ErrSemUsuario = errors.New(msgSemUsuario)

// HTTPError é a falha devolvida pela API de cadastro, já com a mensagem extraída do corpo.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Client envia cadastros convertidos para a API de gestão de cadastro.
type Client struct {
	baseURL        string
	projeto        string
	httpClient     *http.Client
	onUnauthorized func()
}

type Option func(*Client)

// WithHTTPClient troca o cliente HTTP padrão.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithUnauthorizedHook registra a ação executada quando a API responde 401,
// normalmente mandar o usuário de volta para o login.
func WithUnauthorizedHook(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// NewClient cria o cliente para a base informada (sem barra final).
func NewClient(baseURL, projeto string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		projeto:    projeto,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL devolve o endpoint de cadastro do tipo.
func (c *Client) URL(tipo domain.TipoCadastro) string {
	return fmt.Sprintf("%s/api/app/v1/%s", c.baseURL, tipo.Endpoint())
}

// SendItem faz um POST com o cadastro. Quando grupoToken não é vazio, ele
// substitui o campo token do item.
func (c *Client) SendItem(ctx context.Context, tipo domain.TipoCadastro, jwt string, item json.RawMessage, grupoToken string) (json.RawMessage, error) {
	ctx, span := observability.Tracer().Start(ctx, "envio.SendItem")
	defer span.End()
	span.SetAttributes(attribute.String("cadastro.tipo", string(tipo)))

	data, err := c.sendItem(ctx, tipo, jwt, item, grupoToken)
	observability.RecordError(span, err)
	return data, err
}

func (c *Client) sendItem(ctx context.Context, tipo domain.TipoCadastro, jwt string, item json.RawMessage, grupoToken string) (json.RawMessage, error) {
	if !tipo.Valido() {
		return nil, fmt.Errorf("%w: %q", domain.ErrTipoInvalido, tipo)
	}
	if jwt == "" {
		return nil, ErrSemUsuario
	}

	body, err := withGrupoToken(item, grupoToken)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(tipo), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("erro ao montar requisição: %w", err)
	}
	req.Header.Set("projeto", c.projeto)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+jwt)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler resposta: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return nil, &HTTPError{Status: resp.StatusCode, Message: ExtractErrorMessage(raw)}
	}

	if !json.Valid(raw) {
		return json.RawMessage("{}"), nil
	}
	return json.RawMessage(raw), nil
}

// withGrupoToken grava o token do grupo como lista de um elemento no item.
func withGrupoToken(item json.RawMessage, grupoToken string) ([]byte, error) {
	if grupoToken == "" {
		if len(item) == 0 {
			return []byte("{}"), nil
		}
		return item, nil
	}

	fields := map[string]json.RawMessage{}
	if len(item) > 0 {
		if err := json.Unmarshal(item, &fields); err != nil {
			return nil, fmt.Errorf("item inválido: %w", err)
		}
	}
	token, err := json.Marshal([]string{grupoToken})
	if err != nil {
		return nil, err
	}
	fields["token"] = token
	return json.Marshal(fields)
}

// ExtractErrorMessage procura a mensagem de erro no corpo da resposta, nesta
// ordem: errors, data.errors, message. Listas viram texto separado por vírgula.
func ExtractErrorMessage(body []byte) string {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return msgDesconhecido
	}

	if msg, ok := messageFrom(payload["errors"]); ok {
		return msg
	}
	var data map[string]json.RawMessage
	if err := json.Unmarshal(payload["data"], &data); err == nil {
		if msg, ok := messageFrom(data["errors"]); ok {
			return msg
		}
	}
	if msg, ok := messageFrom(payload["message"]); ok {
		return msg
	}
	return msgDesconhecido
}

func messageFrom(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			if msg, ok := messageFrom(item); ok {
				parts = append(parts, msg)
			} else {
				parts = append(parts, "")
			}
		}
		return strings.Join(parts, ","), true
	}

	return string(raw), true
}

func logFailure(tipo domain.TipoCadastro, index int, err error) {
	fields := []zap.Field{
		zap.String("tipo", string(tipo)),
		zap.Int("index", index),
		zap.Error(err),
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		fields = append(fields, zap.Int("status", httpErr.Status))
	}
	logging.Logger.Warn("falha ao enviar cadastro", fields...)
}
