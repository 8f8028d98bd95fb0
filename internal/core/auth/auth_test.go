package auth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedJWT(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": exp.Unix(),
	})
	s, err := token.SignedString([]byte("segredo-de-teste"))
	require.NoError(t, err)
	return s
}

func fakeAPIs(t *testing.T, jwtToken string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/security/user", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "text/plain" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		switch string(body) {
		case "token-valido":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"IdUsuario": "42", "Projeto": "OTM", "Tokens": []string{"g1"},
				"TipoUsuario": 1, "JWT": jwtToken, "IdToken": 7,
			})
		case "token-sem-jwt":
			_, _ = w.Write([]byte(`{"IdUsuario":"43","Projeto":"OTM","JWT":null}`))
		default:
			w.WriteHeader(http.StatusForbidden)
		}
	})
	mux.HandleFunc("/api/app/v1/Cadastro/Permissoes", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+jwtToken || r.Header.Get("projeto") != "OTM" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"Motorista":true,"Veiculo":false}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestMessageForStatus(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{400, MsgRequisicaoInvalida},
		{401, MsgSessaoExpirada},
		{403, MsgAcessoNegado},
		{404, MsgNaoEncontrado},
		{500, MsgErroServidor},
		{502, MsgErroServidor},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MessageForStatus(tt.status))
		assert.Equal(t, tt.want, (&StatusError{Status: tt.status}).Error())
	}
}

func TestClient_Login(t *testing.T) {
	token := signedJWT(t, time.Now().Add(time.Hour))
	srv := fakeAPIs(t, token)
	client := NewClient(srv.URL+"/", srv.URL, nil)

	usuario, err := client.Login(context.Background(), "token-valido")
	require.NoError(t, err)
	assert.Equal(t, "42", usuario.IdUsuario)
	assert.Equal(t, []string{"g1"}, usuario.Tokens)
	assert.Equal(t, 7, usuario.IdToken)
	assert.Equal(t, token, usuario.JWT)

	_, err = client.Login(context.Background(), "outro")
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusForbidden, statusErr.Status)
	assert.Equal(t, MsgAcessoNegado, err.Error())

	perms, err := client.Permissoes(context.Background(), token, "OTM")
	require.NoError(t, err)
	assert.JSONEq(t, `{"Motorista":true,"Veiculo":false}`, string(perms))
}

func TestService_Login(t *testing.T) {
	token := signedJWT(t, time.Now().Add(30*time.Minute))
	srv := fakeAPIs(t, token)
	store := NewMemoryStore()
	svc := NewService(NewClient(srv.URL, srv.URL, nil), store, 8*time.Hour)
	ctx := context.Background()

	sessao, err := svc.Login(ctx, "token-valido")
	require.NoError(t, err)
	assert.NotEmpty(t, sessao.ID)
	assert.Equal(t, "42", sessao.Usuario.IdUsuario)
	assert.JSONEq(t, `{"Motorista":true,"Veiculo":false}`, string(sessao.Permissoes))
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), sessao.ExpiraEm, time.Minute, "TTL segue o exp do JWT")

	got, err := svc.Sessao(ctx, sessao.ID)
	require.NoError(t, err)
	assert.Equal(t, sessao.Usuario, got.Usuario)

	require.NoError(t, svc.Logout(ctx, sessao.ID))
	_, err = svc.Sessao(ctx, sessao.ID)
	assert.ErrorIs(t, err, ErrSessaoNaoEncontrada)
}

func TestService_LoginErrors(t *testing.T) {
	srv := fakeAPIs(t, signedJWT(t, time.Now().Add(time.Hour)))
	svc := NewService(NewClient(srv.URL, srv.URL, nil), NewMemoryStore(), time.Hour)
	ctx := context.Background()

	_, err := svc.Login(ctx, "")
	assert.ErrorIs(t, err, ErrTokenVazio)

	_, err = svc.Login(ctx, "token-sem-jwt")
	assert.ErrorIs(t, err, ErrSemJWT)

	_, err = svc.Login(ctx, "desconhecido")
	assert.Equal(t, MsgAcessoNegado, err.Error())

	_, err = svc.Sessao(ctx, "")
	assert.ErrorIs(t, err, ErrSessaoNaoEncontrada)
}

func TestSessionTTL(t *testing.T) {
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	svc := &service{maxTTL: 8 * time.Hour, now: func() time.Time { return now }}

	assert.Equal(t, 2*time.Hour, svc.sessionTTL(signedJWT(t, now.Add(2*time.Hour))))
	assert.Equal(t, 8*time.Hour, svc.sessionTTL(signedJWT(t, now.Add(48*time.Hour))), "limitado pelo máximo")
	assert.Equal(t, 8*time.Hour, svc.sessionTTL("nao-e-jwt"))
	assert.LessOrEqual(t, svc.sessionTTL(signedJWT(t, now.Add(-time.Hour))), time.Duration(0))
}

func TestMemoryStore_Expiry(t *testing.T) {
	now := time.Now()
	store := &memoryStore{sessions: map[string]memoryEntry{}, now: func() time.Time { return now }}
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &Sessao{ID: "a"}, time.Minute))
	_, err := store.Get(ctx, "a")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = store.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrSessaoNaoEncontrada)
	assert.Empty(t, store.sessions)
}
