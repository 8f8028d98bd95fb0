package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cadastro-service/internal/observability"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const sessionKeyPrefix = "cadastro:sessao:"

type redisStore struct {
	cmdable redis.Cmdable
}

// NewRedisStore guarda as sessões no Redis, uma chave por sessão com TTL.
func NewRedisStore(client redis.Cmdable) SessionStore {
	return &redisStore{cmdable: client}
}

// NewRedisClient abre a conexão a partir de uma URI redis:// e valida com PING.
func NewRedisClient(ctx context.Context, uri, password string, db int) (*redis.Client, error) {
	opts, err := redis.ParseURL(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URI: %w", err)
	}
	if password != "" {
		opts.Password = password
	}
	if db != 0 {
		opts.DB = db
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("erro ao conectar no Redis: %w", err)
	}
	return client, nil
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func startSpan(ctx context.Context, op, key string) (context.Context, trace.Span) {
	return observability.Tracer().Start(ctx, "redis."+op,
		trace.WithAttributes(
			attribute.String("redis.key", key),
			attribute.String("redis.operation", op),
		),
	)
}

func finishSpan(span trace.Span, op string, err error) {
	status := "success"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "success")
	}
	observability.SessionOperations.WithLabelValues(op, status).Inc()
	span.End()
}

func (r *redisStore) Save(ctx context.Context, s *Sessao, ttl time.Duration) (err error) {
	key := sessionKey(s.ID)
	ctx, span := startSpan(ctx, "set", key)
	defer func() { finishSpan(span, "save", err) }()

	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("erro ao serializar sessão: %w", err)
	}
	return r.cmdable.Set(ctx, key, payload, ttl).Err()
}

func (r *redisStore) Get(ctx context.Context, id string) (s *Sessao, err error) {
	key := sessionKey(id)
	ctx, span := startSpan(ctx, "get", key)
	defer func() {
		if errors.Is(err, ErrSessaoNaoEncontrada) {
			observability.SessionOperations.WithLabelValues("get", "miss").Inc()
			span.End()
			return
		}
		finishSpan(span, "get", err)
	}()

	payload, err := r.cmdable.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessaoNaoEncontrada
	}
	if err != nil {
		return nil, err
	}

	var sessao Sessao
	if err := json.Unmarshal(payload, &sessao); err != nil {
		return nil, fmt.Errorf("sessão corrompida: %w", err)
	}
	return &sessao, nil
}

func (r *redisStore) Delete(ctx context.Context, id string) (err error) {
	key := sessionKey(id)
	ctx, span := startSpan(ctx, "del", key)
	defer func() { finishSpan(span, "delete", err) }()

	return r.cmdable.Del(ctx, key).Err()
}
