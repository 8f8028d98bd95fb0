package envio

import (
	"context"
	"encoding/json"
	"fmt"

	"cadastro-service/internal/domain"
	"cadastro-service/internal/logging"
	"cadastro-service/internal/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Resultado é o desfecho do envio de um cadastro, na posição original.
type Resultado struct {
	Index   int             `json:"index"`
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Progresso é emitido depois de cada envio concluído.
type Progresso struct {
	Total   int         `json:"total"`
	Current int         `json:"current"`
	Results []Resultado `json:"results"`
}

// SendAll envia os itens um por vez, na ordem, esperando cada resposta antes
// do próximo. Falhas individuais viram Resultado e não interrompem a fila. Se
// ctx for cancelado, devolve os resultados já obtidos junto com ctx.Err().
func (c *Client) SendAll(ctx context.Context, tipo domain.TipoCadastro, jwt string, itens []json.RawMessage, grupoToken string, onProgress func(Progresso)) ([]Resultado, error) {
	if !tipo.Valido() {
		return nil, fmt.Errorf("%w: %q", domain.ErrTipoInvalido, tipo)
	}

	ctx, span := observability.Tracer().Start(ctx, "envio.SendAll")
	defer span.End()
	span.SetAttributes(
		attribute.String("cadastro.tipo", string(tipo)),
		attribute.Int("cadastro.total", len(itens)),
	)

	resultados := make([]Resultado, 0, len(itens))
	falhas := 0
	for i, item := range itens {
		if err := ctx.Err(); err != nil {
			logging.Logger.Info("envio cancelado",
				zap.String("tipo", string(tipo)),
				zap.Int("enviados", len(resultados)),
				zap.Int("total", len(itens)),
			)
			observability.RecordError(span, err)
			return resultados, err
		}

		r := Resultado{Index: i}
		data, err := c.SendItem(ctx, tipo, jwt, item, grupoToken)
		if err != nil {
			r.Error = err.Error()
			falhas++
			logFailure(tipo, i, err)
			observability.Submissions.WithLabelValues(string(tipo), "error").Inc()
		} else {
			r.Success = true
			r.Data = data
			observability.Submissions.WithLabelValues(string(tipo), "success").Inc()
		}
		resultados = append(resultados, r)

		if onProgress != nil {
			snapshot := make([]Resultado, len(resultados))
			copy(snapshot, resultados)
			onProgress(Progresso{Total: len(itens), Current: i + 1, Results: snapshot})
		}
	}

	logging.Logger.Info("envio concluído",
		zap.String("tipo", string(tipo)),
		zap.Int("total", len(itens)),
		zap.Int("falhas", falhas),
	)
	return resultados, nil
}
