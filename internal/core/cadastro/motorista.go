package cadastro

import (
	"cadastro-service/internal/core/planilha"
	"cadastro-service/internal/domain"
)

// Motoristas converte as linhas da aba de motoristas.
func (cv *Converter) Motoristas(rows []planilha.Row) []domain.Motorista {
	out := make([]domain.Motorista, len(rows))
	for i, row := range rows {
		out[i] = cv.motorista(row)
	}
	return out
}

func (cv *Converter) motorista(row planilha.Row) domain.Motorista {
	return domain.Motorista{
		Nome:                    row.Str("NOME", ""),
		Cpf:                     planilha.CleanDigits(row.Get("CPF", planilha.StringCell(""))),
		Rg:                      row.StrPtr("RG"),
		InscricaoEstadual:       row.StrPtr("INSCRICAOESTADUAL"),
		DataNascimento:          cv.data(row, "DATA_NASCIMENTO"),
		Latitude:                row.StrPtr("LATITUDE"),
		Longitude:               row.StrPtr("LONGITUDE"),
		EmissorRG:               row.StrPtr("EMISSORRG"),
		DataEmissaoRG:           cv.data(row, "DATAEMISSAORG"),
		Naturalidade:            row.StrPtr("NATURALIDADE"),
		Sexo:                    row.Int("SEXO", 0),
		UfEmissaoRG:             row.IntPtr("UFEMISSAORG"),
		Raca:                    row.Int("RACA", 1),
		Telefone:                telefoneMotorista(row),
		Endereco:                enderecoMotorista(row),
		Email:                   emailMotorista(row),
		NumeroCnh:               row.StrPtr("NUMEROCNH"),
		NumeroSegurancaCnh:      row.StrPtr("NUMEROSEGURANCACNH"),
		CategoriaCnh:            row.StrPtr("CATEGORIACNH"),
		ValidadeCnh:             cv.validadeCnh(row),
		Pis:                     row.StrPtr("PIS"),
		NomeMae:                 row.StrPtr("NOMEMAE"),
		TipoFuncionario:         row.Int("TIPOFUNCIONARIO", 1),
		Contratante:             row.StrPtr("CONTRATANTE"),
		NumeroCartaoCIOT:        row.StrPtr("NUMEROCARTÃOCIOT"),
		DataPrimeiraHabilitacao: cv.data(row, "DATAPRIMEIRAHABILITACAO"),
		Token:                   token(row),
		Cartao: domain.SomeIf(row.Has("NUMEROCARTAO"), func() domain.CartaoMotorista {
			return domain.CartaoMotorista{
				IdCartao:     row.Int("IDCARTAO", 0),
				Emissor:      row.Int("EMISSORCARTAO", 0),
				TipoCartao:   row.Int("TIPOCARTAO", 1),
				NumeroCartao: row.Str("NUMEROCARTAO", ""),
				CnpjVinculo:  row.Str("CNPJVINCULOCARTAO", ""),
			}
		}),
	}
}

// telefoneMotorista só existe quando o número, depois de limpo, sobra com dígitos.
func telefoneMotorista(row planilha.Row) domain.Optional[domain.TelefoneMotorista] {
	numero := planilha.CleanDigits(row.Get("TELEFONE", planilha.StringCell("")))
	return domain.SomeIf(numero != "", func() domain.TelefoneMotorista {
		return domain.TelefoneMotorista{
			Numero:       numero,
			Operadora:    row.IntPtr("OPERADORA"),
			TipoTelefone: row.IntPtr("TIPO TELEFONE"),
		}
	})
}

// enderecoMotorista vira nulo quando nenhuma coluna de endereço foi preenchida.
func enderecoMotorista(row planilha.Row) *domain.Endereco {
	e := domain.Endereco{
		Logradouro:  row.Str("LOGRADOURO", ""),
		Numero:      row.Str("NUMERO", ""),
		Complemento: row.Str("COMPLEMENTO", ""),
		Bairro:      row.Str("BAIRRO", ""),
		IbgeCidade:  row.IntPtr("IBGECIDADE"),
		Cep:         row.Str("CEP", ""),
	}
	if e.Vazio() {
		return nil
	}
	return &e
}

func emailMotorista(row planilha.Row) domain.Optional[string] {
	if p := row.StrPtr("EMAIL"); p != nil {
		return domain.Some(*p)
	}
	return domain.None[string]()
}

// validadeCnh usa "" quando a coluna não tem valor e nil quando tem valor mas
// não é uma data reconhecível.
func (cv *Converter) validadeCnh(row planilha.Row) *string {
	if !row.Has("VALIDADECNH") {
		vazio := ""
		return &vazio
	}
	return cv.data(row, "VALIDADECNH")
}
