package cadastro

import (
	"fmt"

	"cadastro-service/internal/core/planilha"
	"cadastro-service/internal/domain"
)

// Converter transforma linhas de planilha nos cadastros da API. Cada linha de
// entrada gera exatamente um cadastro, na mesma ordem; campos ausentes ou
// inválidos assumem o valor padrão.
type Converter struct {
	datas *planilha.DateDecoder
}

// NewConverter cria um conversor que usa o decodificador de datas informado.
func NewConverter(datas *planilha.DateDecoder) *Converter {
	if datas == nil {
		datas = planilha.NewDateDecoder(nil)
	}
	return &Converter{datas: datas}
}

// Convert despacha para o conversor do tipo. Só falha para tipo desconhecido.
func (cv *Converter) Convert(tipo domain.TipoCadastro, rows []planilha.Row) (any, error) {
	switch tipo {
	case domain.TipoMotorista:
		return cv.Motoristas(rows), nil
	case domain.TipoTransportador:
		return cv.Transportadores(rows), nil
	case domain.TipoVeiculo:
		return cv.Veiculos(rows), nil
	case domain.TipoParticipanteFisico:
		return cv.ParticipantesFisicos(rows), nil
	case domain.TipoParticipanteJuridico:
		return cv.ParticipantesJuridicos(rows), nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrTipoInvalido, tipo)
	}
}

func (cv *Converter) data(row planilha.Row, key string) *string {
	return cv.datas.Decode(row.Get(key, planilha.Cell{}))
}
