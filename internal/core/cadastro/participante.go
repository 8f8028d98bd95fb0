package cadastro

import (
	"cadastro-service/internal/core/planilha"
	"cadastro-service/internal/domain"
)

// ---------------------- colunas compartilhadas ----------------------

type colunasEndereco struct {
	logradouro, numero, complemento, bairro, ibgeCidade, cep string
}

// colunasEmail e colunasTelefone guardam a coluna de presença separada das
// colunas de valor. A presença é testada numa chave em camelCase que não é a
// mesma lida para o valor.
type colunasEmail struct {
	presenca, email, nome string
}

type colunasTelefone struct {
	presenca, numero, operadora, tipo string
}

type colunasFisico struct {
	nome, cpf, rg, inscricaoEstadual, dataNascimento string
	latitude, longitude, emissorRG, dataEmissaoRG    string
	naturalidade, sexo, ufEmissaoRG, raca            string

	endereco colunasEndereco
	email    colunasEmail
	telefone colunasTelefone
}

type colunasJuridico struct {
	latitude, longitude string
}

var (
	enderecoPadrao = colunasEndereco{
		logradouro:  "LOGRADOURO",
		numero:      "NUMERO",
		complemento: "COMPLEMENTO",
		bairro:      "BAIRRO",
		ibgeCidade:  "IBGECIDADE",
		cep:         "CEP",
	}
	emailPadrao    = colunasEmail{presenca: "email", email: "EMAIL", nome: "NOMEEMAIL"}
	telefonePadrao = colunasTelefone{presenca: "telefone", numero: "TELEFONE", operadora: "OPERADORA", tipo: "TIPOTELEFONE"}

	colunasFisicoAvulso = colunasFisico{
		nome:              "NOME",
		cpf:               "CPF",
		rg:                "RG",
		inscricaoEstadual: "INSCRICAOESTADUAL",
		dataNascimento:    "DATA_NASCIMENTO",
		latitude:          "LATITUDE",
		longitude:         "LONGITUDE",
		emissorRG:         "EMISSORRG",
		dataEmissaoRG:     "DATAEMISSAORG",
		naturalidade:      "NATURALIDADE",
		sexo:              "SEXO",
		ufEmissaoRG:       "UFEMISSAORG",
		raca:              "RACA",
		endereco:          enderecoPadrao,
		email:             emailPadrao,
		telefone:          telefonePadrao,
	}

	// participante físico embutido no transportador
	colunasFisicoTransportador = colunasFisico{
		nome:              "NOMEFISICO",
		cpf:               "CPFFISICO",
		rg:                "RGFISICO",
		inscricaoEstadual: "INSCRICAOESTADUALFISICO",
		dataNascimento:    "DATA_NASCIMENTOFISICO",
		latitude:          "LATITUDEFISICO",
		longitude:         "LONGITUDEFISICO",
		emissorRG:         "EMISSORRGFISICO",
		dataEmissaoRG:     "DATAEMISSAORG_FISICO",
		naturalidade:      "NATURALIDADEFISICO",
		sexo:              "SEXOFISICO",
		ufEmissaoRG:       "UFEMISSAORGFISICO",
		raca:              "RACAFISICO",
		endereco: colunasEndereco{
			logradouro:  "LOGRADOUROFISICO",
			numero:      "NUMEROFISICO",
			complemento: "COMPLEMENTOFISICO",
			bairro:      "BAIRROFISICO",
			ibgeCidade:  "IBGECIDADEFISICO",
			cep:         "CEPFISICO",
		},
		email:    colunasEmail{presenca: "emailFisico", email: "EMAILFISICO", nome: "NOMEEMAILFISICO"},
		telefone: colunasTelefone{presenca: "telefoneFisico", numero: "TELEFONEFISICO", operadora: "OPERADORAFISICO", tipo: "TIPOTELEFONEFISICO"},
	}

	colunasJuridicoAvulso        = colunasJuridico{latitude: "LATITUDE", longitude: "LONGITUDE"}
	colunasJuridicoTransportador = colunasJuridico{latitude: "LATITUDEJURIDICO", longitude: "LONGITUDEJURIDICO"}
)

// ---------------------- participante físico ----------------------

// ParticipantesFisicos converte as linhas da aba de participantes físicos.
func (cv *Converter) ParticipantesFisicos(rows []planilha.Row) []domain.ParticipanteFisico {
	out := make([]domain.ParticipanteFisico, len(rows))
	for i, row := range rows {
		out[i] = domain.ParticipanteFisico{
			ParticipanteFisicoDados: cv.participanteFisico(row, colunasFisicoAvulso),
			Token:                   token(row),
		}
	}
	return out
}

func (cv *Converter) participanteFisico(row planilha.Row, col colunasFisico) domain.ParticipanteFisicoDados {
	return domain.ParticipanteFisicoDados{
		Nome:              row.Str(col.nome, ""),
		Cpf:               row.Str(col.cpf, ""),
		Rg:                row.Str(col.rg, ""),
		InscricaoEstadual: row.Str(col.inscricaoEstadual, ""),
		DataNascimento:    cv.data(row, col.dataNascimento),
		Latitude:          row.Str(col.latitude, ""),
		Longitude:         row.Str(col.longitude, ""),
		EmissorRG:         row.Str(col.emissorRG, ""),
		DataEmissaoRG:     cv.data(row, col.dataEmissaoRG),
		Naturalidade:      row.Str(col.naturalidade, ""),
		Sexo:              row.Int(col.sexo, 0),
		UfEmissaoRG:       row.Int(col.ufEmissaoRG, 0),
		Raca:              row.Int(col.raca, 1),
		Endereco:          endereco(row, col.endereco),
		Email:             email(row, col.email),
		Telefone:          telefone(row, col.telefone),
	}
}

// ---------------------- participante jurídico ----------------------

// ParticipantesJuridicos converte as linhas da aba de participantes jurídicos.
func (cv *Converter) ParticipantesJuridicos(rows []planilha.Row) []domain.ParticipanteJuridico {
	out := make([]domain.ParticipanteJuridico, len(rows))
	for i, row := range rows {
		out[i] = domain.ParticipanteJuridico{
			ParticipanteJuridicoDados: participanteJuridico(row, colunasJuridicoAvulso),
			Token:                     token(row),
		}
	}
	return out
}

func participanteJuridico(row planilha.Row, col colunasJuridico) domain.ParticipanteJuridicoDados {
	return domain.ParticipanteJuridicoDados{
		RazaoSocial:             row.Str("RAZAOSOCIAL", ""),
		NomeFantasia:            row.Str("NOMEFANTASIA", ""),
		Cnpj:                    row.Str("CNPJ", ""),
		InscricaoEstadual:       row.Str("INSCRICAOESTADUAL", ""),
		InscricaoMunicipal:      row.Str("INSCRICAOMUNICIPAL", ""),
		InscricaoEstadualAvulsa: row.Str("INSCRICAOESTADUALAVULSA", ""),
		PorteEmpresa:            row.Int("PORTEEMPRESA", 0),
		Latitude:                row.Str(col.latitude, ""),
		Longitude:               row.Str(col.longitude, ""),
		TipoContribuinte:        row.Int("TIPOCONTRIBUINTE", 0),
		Terminal:                row.Bool("TERMINAL", true),
		TerminalCorGrafico:      row.Str("TERMINALCORGRAFICO", ""),
		Endereco:                endereco(row, enderecoPadrao),
		Email:                   email(row, emailPadrao),
		Telefone:                telefone(row, telefonePadrao),
	}
}

// ---------------------- blocos comuns ----------------------

// endereco nunca é nulo fora do motorista: ibgeCidade assume 0.
func endereco(row planilha.Row, col colunasEndereco) domain.Endereco {
	ibge := row.Int(col.ibgeCidade, 0)
	return domain.Endereco{
		Logradouro:  row.Str(col.logradouro, ""),
		Numero:      row.Str(col.numero, ""),
		Complemento: row.Str(col.complemento, ""),
		Bairro:      row.Str(col.bairro, ""),
		IbgeCidade:  &ibge,
		Cep:         row.Str(col.cep, ""),
	}
}

func email(row planilha.Row, col colunasEmail) domain.Optional[domain.Email] {
	return domain.SomeIf(row.Has(col.presenca), func() domain.Email {
		return domain.Email{
			Email: row.Str(col.email, ""),
			Nome:  row.Str(col.nome, ""),
		}
	})
}

func telefone(row planilha.Row, col colunasTelefone) domain.Optional[domain.Telefone] {
	return domain.SomeIf(row.Has(col.presenca), func() domain.Telefone {
		return domain.Telefone{
			Numero:       row.Str(col.numero, ""),
			Operadora:    row.Int(col.operadora, 0),
			TipoTelefone: row.Int(col.tipo, 0),
		}
	})
}

func token(row planilha.Row) domain.Optional[string] {
	return domain.SomeIf(row.Has("TOKEN"), func() string {
		return row.Str("TOKEN", "")
	})
}

// gatilho liga uma coluna de presença à coluna de onde o valor é lido.
type gatilho struct {
	presenca string
	valor    string
}

func lista(row planilha.Row, g gatilho) domain.Optional[string] {
	return domain.SomeIf(row.Has(g.presenca), func() string {
		return row.Str(g.valor, "")
	})
}
