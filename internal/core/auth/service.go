package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"cadastro-service/internal/logging"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrTokenVazio indica login sem token de acesso.
	ErrTokenVazio = errors.New("token de acesso não informado")
	// ErrSemJWT indica usuário devolvido sem JWT, que não consegue enviar cadastros.
	ErrSemJWT = errors.New("usuário sem JWT")
)

// SecurityAPI é o que o serviço precisa das APIs remotas.
type SecurityAPI interface {
	Login(ctx context.Context, accessToken string) (*Usuario, error)
	Permissoes(ctx context.Context, jwt, projeto string) (json.RawMessage, error)
}

// Service controla as sessões dos usuários do conversor.
type Service interface {
	Login(ctx context.Context, accessToken string) (*Sessao, error)
	Sessao(ctx context.Context, id string) (*Sessao, error)
	Logout(ctx context.Context, id string) error
}

type service struct {
	api    SecurityAPI
	store  SessionStore
	maxTTL time.Duration
	now    func() time.Time
}

// NewService cria o serviço. maxTTL limita a duração da sessão mesmo quando o
// JWT expira depois.
func NewService(api SecurityAPI, store SessionStore, maxTTL time.Duration) Service {
	return &service{api: api, store: store, maxTTL: maxTTL, now: time.Now}
}

func (s *service) Login(ctx context.Context, accessToken string) (*Sessao, error) {
	if accessToken == "" {
		return nil, ErrTokenVazio
	}

	usuario, err := s.api.Login(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	if usuario.JWT == "" {
		return nil, ErrSemJWT
	}

	permissoes, err := s.api.Permissoes(ctx, usuario.JWT, usuario.Projeto)
	if err != nil {
		return nil, err
	}

	ttl := s.sessionTTL(usuario.JWT)
	if ttl <= 0 {
		return nil, &StatusError{Status: http.StatusUnauthorized}
	}

	sessao := &Sessao{
		ID:         uuid.NewString(),
		Usuario:    *usuario,
		Permissoes: permissoes,
		ExpiraEm:   s.now().Add(ttl).UTC(),
	}
	if err := s.store.Save(ctx, sessao, ttl); err != nil {
		return nil, fmt.Errorf("erro ao salvar sessão: %w", err)
	}

	logging.Logger.Info("login realizado",
		zap.String("usuario", usuario.IdUsuario),
		zap.String("projeto", usuario.Projeto),
		zap.Duration("ttl", ttl),
	)
	return sessao, nil
}

// sessionTTL usa o exp do JWT, sem validar assinatura, limitado por maxTTL.
func (s *service) sessionTTL(token string) time.Duration {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return s.maxTTL
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return s.maxTTL
	}
	ttl := exp.Sub(s.now())
	if ttl > s.maxTTL {
		return s.maxTTL
	}
	return ttl
}

func (s *service) Sessao(ctx context.Context, id string) (*Sessao, error) {
	if id == "" {
		return nil, ErrSessaoNaoEncontrada
	}
	return s.store.Get(ctx, id)
}

func (s *service) Logout(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
