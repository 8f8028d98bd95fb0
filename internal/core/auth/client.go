package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"cadastro-service/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

// Mensagens exibidas ao usuário conforme o status da API de segurança.
const (
	MsgRequisicaoInvalida = "Requisição inválida. Verifique os dados enviados."
	MsgSessaoExpirada     = "Sessão expirada. Faça login novamente."
	MsgAcessoNegado       = "Você não tem permissão para acessar este recurso."
	MsgNaoEncontrado      = "Recurso não encontrado."
	MsgErroServidor       = "Erro no servidor. Tente novamente mais tarde."
)

// StatusError é a falha HTTP da API de segurança, com mensagem amigável.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return MessageForStatus(e.Status)
}

// MessageForStatus traduz o status HTTP na mensagem exibida ao usuário.
func MessageForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return MsgRequisicaoInvalida
	case http.StatusUnauthorized:
		return MsgSessaoExpirada
	case http.StatusForbidden:
		return MsgAcessoNegado
	case http.StatusNotFound:
		return MsgNaoEncontrado
	default:
		return MsgErroServidor
	}
}

// Usuario é o usuário devolvido pela API de segurança.
type Usuario struct {
	IdUsuario   string   `json:"IdUsuario"`
	Projeto     string   `json:"Projeto"`
	Tokens      []string `json:"Tokens"`
	TipoUsuario int      `json:"TipoUsuario"`
	JWT         string   `json:"JWT"`
	IdToken     int      `json:"IdToken"`
}

// Client conversa com a API de segurança e com a de permissões.
type Client struct {
	webAPIFR   string
	gestaoAPI  string
	httpClient *http.Client
}

// NewClient cria o cliente. As bases não devem terminar em barra.
func NewClient(webAPIFR, gestaoAPI string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		webAPIFR:   strings.TrimRight(webAPIFR, "/"),
		gestaoAPI:  strings.TrimRight(gestaoAPI, "/"),
		httpClient: httpClient,
	}
}

// Login troca o token de acesso (parâmetro E do portal) pelo usuário e seu JWT.
func (c *Client) Login(ctx context.Context, accessToken string) (*Usuario, error) {
	ctx, span := observability.Tracer().Start(ctx, "auth.Login")
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webAPIFR+"/api/security/user", strings.NewReader(accessToken))
	if err != nil {
		return nil, fmt.Errorf("erro ao montar requisição de login: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain")

	var usuario Usuario
	if err := c.do(req, &usuario); err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.String("auth.projeto", usuario.Projeto))
	return &usuario, nil
}

// Permissoes busca as permissões de cadastro do usuário no projeto.
func (c *Client) Permissoes(ctx context.Context, jwt, projeto string) (json.RawMessage, error) {
	ctx, span := observability.Tracer().Start(ctx, "auth.Permissoes")
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.gestaoAPI+"/api/app/v1/Cadastro/Permissoes", nil)
	if err != nil {
		return nil, fmt.Errorf("erro ao montar requisição de permissões: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+jwt)
	req.Header.Set("projeto", projeto)

	var permissoes json.RawMessage
	if err := c.do(req, &permissoes); err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	return permissoes, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("erro ao ler resposta: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("resposta inválida de %s: %w", req.URL.Path, err)
	}
	return nil
}
