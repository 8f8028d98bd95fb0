package cadastro

import (
	"cadastro-service/internal/core/planilha"
	"cadastro-service/internal/domain"
)

// Gatilhos dos blocos condicionais do transportador. A coluna testada para
// incluir o bloco é sempre diferente da coluna lida para o valor.
var (
	gatilhoTransportadorVinculado = gatilho{presenca: "transportadorVinculado", valor: "TRANSPORTADORVINCULADO"}
	gatilhoCnpjAutorizado         = gatilho{presenca: "cnpjAutorizado", valor: "CNPJAUTORIZADO"}
	gatilhoObservacaoContribuinte = gatilho{presenca: "observacaoContribuinte", valor: "OBSERVACAOCONTRIBUINTE"}
	gatilhoExcecao                = gatilho{presenca: "tipoServico", valor: "TIPOSERVICO"}
	gatilhoCartao                 = gatilho{presenca: "numeroCartao", valor: "NUMEROCARTAO"}

	emailTransportador    = colunasEmail{presenca: "emailTransportador", email: "EMAILTRANSPORTADOR", nome: "NOMEEMAILTRANSPORTADOR"}
	telefoneTransportador = colunasTelefone{presenca: "telefoneTransportador", numero: "TELEFONETRANSPORTADOR", operadora: "OPERADORATRANSPORTADOR", tipo: "TIPOTELEFONETRANSPORTADOR"}
	enderecoTransportador = colunasEndereco{
		logradouro:  "LOGRADOUROTRANSPORTADOR",
		numero:      "NUMEROTRANSPORTADOR",
		complemento: "COMPLEMENTOTRANSPORTADOR",
		bairro:      "BAIRROTRANSPORTADOR",
		ibgeCidade:  "IBGECIDADETRANSPORTADOR",
		cep:         "CEPTRANSPORTADOR",
	}
)

// Transportadores converte as linhas da aba de transportadores. Cada linha
// carrega quatro grupos de colunas: os dados do transportador, o participante
// jurídico (colunas sem sufixo), o participante físico (sufixo FISICO) e o
// contato do próprio transportador (sufixo TRANSPORTADOR).
func (cv *Converter) Transportadores(rows []planilha.Row) []domain.Transportador {
	out := make([]domain.Transportador, len(rows))
	for i, row := range rows {
		out[i] = cv.transportador(row)
	}
	return out
}

func (cv *Converter) transportador(row planilha.Row) domain.Transportador {
	return domain.Transportador{
		Rntrc:                     row.Str("RNTRC", ""),
		DataVencimentoRntrc:       cv.data(row, "DATAVENCIMENTORNTRC"),
		TipoProprietario:          row.Int("TIPOPROPRIETARIO", 0),
		GeraMdfe:                  row.Bool("GERAMDFe", true),
		GeracaoTransito:           row.Int("GERACAOTRANSITO", 1),
		Modal:                     row.Int("MODAL", 1),
		LocalGeracaoTransito:      row.Int("LOCALGERACAOTRANSITO", 0),
		TipoAverbacao:             row.Int("TIPOAVERBACAO", 1),
		ValorFixo:                 row.Float("VALORFIXO", 0),
		Dependentes:               row.Int("DEPENDENTES", 0),
		TipoEmpresa:               row.Int("TIPOEMPRESA", 1),
		TransportadoresVinculados: transportadorVinculado(row),
		CnpjsAutorizados:          lista(row, gatilhoCnpjAutorizado),
		ObservacaoContribuinte:    lista(row, gatilhoObservacaoContribuinte),
		Excecoes: domain.SomeIf(row.Has(gatilhoExcecao.presenca), func() domain.Excecao {
			return domain.Excecao{
				TipoServico: row.Int(gatilhoExcecao.valor, 0),
				Tomador:     row.Int("TOMADOR", 0),
			}
		}),
		Cartao:            cartaoTransportador(row),
		CondicaoPagamento: row.Str("CONDICAOPAGAMENTO", ""),
		Token:             token(row),
		ParticipanteJuridico: domain.ParticipanteJuridicoVinculado{
			IdParticipante:            row.Int("IDPARTICIPANTEJURIDICO", 0),
			ParticipanteJuridicoDados: participanteJuridico(row, colunasJuridicoTransportador),
		},
		ParticipanteFisico: cv.participanteFisico(row, colunasFisicoTransportador),
		Email:              email(row, emailTransportador),
		Telefone:           telefone(row, telefoneTransportador),
		Endereco:           endereco(row, enderecoTransportador),
	}
}

func transportadorVinculado(row planilha.Row) domain.Optional[domain.TransportadorVinculado] {
	g := gatilhoTransportadorVinculado
	return domain.SomeIf(row.Has(g.presenca), func() domain.TransportadorVinculado {
		return domain.TransportadorVinculado{
			Transportador:         row.Str(g.valor, ""),
			TipoContrato:          row.Int("TIPOCONTRATO", 0),
			FrotaTerceira:         row.Bool("FROTATERCEIRA", true),
			FrotaTerceiraContrato: row.Int("FROTATERCEIRACONTRATO", 0),
			MdFe:                  row.Int("MDFE", 0),
		}
	})
}

func cartaoTransportador(row planilha.Row) domain.Optional[domain.CartaoTransportador] {
	g := gatilhoCartao
	return domain.SomeIf(row.Has(g.presenca), func() domain.CartaoTransportador {
		instituicao := row.Int("INSTITUICAOBANCARIA", 0)
		return domain.CartaoTransportador{
			IdCartao:                     row.Int("IDCARTAO", 0),
			Pagamento:                    row.Int("PAGAMENTO", 1),
			Emissor:                      row.Int("EMISSORCARTAO", 0),
			MeioPagamento:                row.Int("MEIOPAGAMENTO", 1),
			CnpjVinculo:                  row.Str("CNPJVINCULOCARTAO", ""),
			InstituicaoBancaria:          instituicao,
			DocumentoBeneficiente:        row.Str("DOCUMENTOBENEFICIENTE", ""),
			NomeBeneficiente:             row.Str("NOMEBENEFICIENTE", ""),
			RepassaAdiantamentoMotorista: row.Bool("REPASSAADIANTAMENTOMOTORISTA", true),
			TipoChavePix:                 row.Int("TIPOCHAVEPIX", 0),
			ValorChavePix:                row.Str("VALORCHAVEPIX", ""),
			NumeroCartao:                 row.Str(g.valor, ""),
			DadosBancarios: domain.DadosBancarios{
				InstituicaoBancaria:      instituicao,
				Agencia:                  row.Str("AGENCIA", ""),
				AgenciaDigitoVerificador: row.Str("AGENCIA_DIGITO_VERIFICADOR", ""),
				TipoConta:                row.Int("TIPOCONTA", 1),
				Conta:                    row.Str("CONTA", ""),
				ContaDigitoVerificador:   row.Str("CONTADIGITOVERIFICADOR", ""),
			},
		}
	})
}
