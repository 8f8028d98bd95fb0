package domain

import (
	"errors"
	"fmt"
)

// TipoCadastro identifica um dos cinco formatos de cadastro aceitos pela API de gestão.
type TipoCadastro string

// Tipos de cadastro suportados.
const (
	TipoMotorista            TipoCadastro = "motorista"
	TipoTransportador        TipoCadastro = "transportador"
	TipoVeiculo              TipoCadastro = "veiculo"
	TipoParticipanteFisico   TipoCadastro = "participante-fisico"
	TipoParticipanteJuridico TipoCadastro = "participante-juridico"
)

// ErrTipoInvalido indica um identificador de tipo de cadastro desconhecido.
var ErrTipoInvalido = errors.New("tipo de cadastro inválido")

// TiposCadastro lista os tipos na ordem em que são apresentados ao usuário.
var TiposCadastro = []TipoCadastro{
	TipoMotorista,
	TipoTransportador,
	TipoVeiculo,
	TipoParticipanteFisico,
	TipoParticipanteJuridico,
}

var endpoints = map[TipoCadastro]string{
	TipoMotorista:            "Motorista",
	TipoTransportador:        "Transportador",
	TipoVeiculo:              "Veiculo",
	TipoParticipanteFisico:   "ParticipanteFisico",
	TipoParticipanteJuridico: "ParticipanteJuridico",
}

var rotulos = map[TipoCadastro]string{
	TipoMotorista:            "Motorista",
	TipoTransportador:        "Transportador",
	TipoVeiculo:              "Veículo",
	TipoParticipanteFisico:   "Participante Físico",
	TipoParticipanteJuridico: "Participante Jurídico",
}

// ParseTipoCadastro valida um identificador recebido de fora (rota, flag de CLI).
func ParseTipoCadastro(s string) (TipoCadastro, error) {
	t := TipoCadastro(s)
	if _, ok := endpoints[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrTipoInvalido, s)
	}
	return t, nil
}

// Endpoint retorna o nome do recurso na API de gestão de cadastro.
func (t TipoCadastro) Endpoint() string {
	return endpoints[t]
}

// Rotulo retorna o nome de exibição do tipo.
func (t TipoCadastro) Rotulo() string {
	return rotulos[t]
}

// Valido informa se o tipo pertence ao conjunto conhecido.
func (t TipoCadastro) Valido() bool {
	_, ok := endpoints[t]
	return ok
}
