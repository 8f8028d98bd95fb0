package cadastro

import (
	"cadastro-service/internal/core/planilha"
	"cadastro-service/internal/domain"
)

var gatilhoAgregador = gatilho{presenca: "agregador", valor: "AGREGADOR"}

// Veiculos converte as linhas da aba de veículos.
func (cv *Converter) Veiculos(rows []planilha.Row) []domain.Veiculo {
	out := make([]domain.Veiculo, len(rows))
	for i, row := range rows {
		out[i] = domain.Veiculo{
			Placa:              row.Str("PLACA", ""),
			Renavam:            row.StrPtr("RENAVAM"),
			TaraKg:             row.Float("TARA KG", 0),
			CapacidadeKg:       row.FloatPtr("CAPACIDADE KG"),
			CapacidadeM3:       row.FloatPtr("CAPACIDADE M3"),
			TipoRodado:         row.Int("TIPO RODADO", 0),
			TipoCarroceria:     row.Int("TIPO DE CARROCERIA", 0),
			Uf:                 row.Int("ESTADO", 0),
			TipoVeiculo:        row.Int("TIPO VEICULO", 0),
			Transportador:      row.Str("PROPRIETARIO", ""),
			NumeroEixos:        row.Int("EIXO", 0),
			NumeroEixoSuspenso: row.Int("NUMEROEIXOSUSPENSO", 0),
			AnoFabricacao:      row.IntPtr("ANO FABRICACAO"),
			AnoModelo:          row.IntPtr("ANO MODELO"),
			Chassi:             row.Str("CHASSI", ""),
			Cor:                row.Str("COR", ""),
			Marca:              row.Str("MARCA", ""),
			Modelo:             row.Str("MODELO", ""),
			Cidade:             row.IntPtr("CIDADE"),
			Token:              token(row),
			Agregador:          lista(row, gatilhoAgregador),
		}
	}
	return out
}
