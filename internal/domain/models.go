// package domain/models.go
package domain

// --- Estruturas compartilhadas ---

// Endereco é o endereço de qualquer cadastro. IbgeCidade é nulo apenas no motorista.
type Endereco struct {
	Logradouro  string `json:"logradouro"`
	Numero      string `json:"numero"`
	Complemento string `json:"complemento"`
	Bairro      string `json:"bairro"`
	IbgeCidade  *int   `json:"ibgeCidade"`
	Cep         string `json:"cep"`
}

// Vazio informa se nenhum campo do endereço foi preenchido.
func (e Endereco) Vazio() bool {
	return e.Logradouro == "" && e.Numero == "" && e.Complemento == "" &&
		e.Bairro == "" && e.IbgeCidade == nil && e.Cep == ""
}

// Email de contato dos participantes e do transportador.
type Email struct {
	Email string `json:"email"`
	Nome  string `json:"nome"`
}

// Telefone de contato dos participantes e do transportador.
type Telefone struct {
	Numero       string `json:"numero"`
	Operadora    int    `json:"operadora"`
	TipoTelefone int    `json:"tipoTelefone"`
}

// --- Motorista ---

// TelefoneMotorista tem operadora e tipo anuláveis e número só com dígitos.
type TelefoneMotorista struct {
	Numero       string `json:"numero"`
	Operadora    *int   `json:"operadora"`
	TipoTelefone *int   `json:"tipoTelefone"`
}

type CartaoMotorista struct {
	IdCartao     int    `json:"idCartao"`
	Emissor      int    `json:"emissor"`
	TipoCartao   int    `json:"tipoCartao"`
	NumeroCartao string `json:"numeroCartao"`
	CnpjVinculo  string `json:"cnpjVinculo"`
}

// Motorista representa uma linha da aba de motoristas.
type Motorista struct {
	Nome                    string                      `json:"nome"`
	Cpf                     string                      `json:"cpf"`
	Rg                      *string                     `json:"rg"`
	InscricaoEstadual       *string                     `json:"inscricaoEstadual"`
	DataNascimento          *string                     `json:"dataNascimento"`
	Latitude                *string                     `json:"latitude"`
	Longitude               *string                     `json:"longitude"`
	EmissorRG               *string                     `json:"emissorRG"`
	DataEmissaoRG           *string                     `json:"dataEmissaoRG"`
	Naturalidade            *string                     `json:"naturalidade"`
	Sexo                    int                         `json:"sexo"`
	UfEmissaoRG             *int                        `json:"ufEmissaoRG"`
	Raca                    int                         `json:"raca"`
	Telefone                Optional[TelefoneMotorista] `json:"telefone"`
	Endereco                *Endereco                   `json:"endereco"`
	Email                   Optional[string]            `json:"email"`
	NumeroCnh               *string                     `json:"numeroCnh"`
	NumeroSegurancaCnh      *string                     `json:"numeroSegurancaCnh"`
	CategoriaCnh            *string                     `json:"categoriaCnh"`
	ValidadeCnh             *string                     `json:"validadeCnh"`
	Pis                     *string                     `json:"pis"`
	NomeMae                 *string                     `json:"nomeMae"`
	TipoFuncionario         int                         `json:"tipoFuncionario"`
	Contratante             *string                     `json:"contratante"`
	NumeroCartaoCIOT        *string                     `json:"numeroCartaoCIOT"`
	DataPrimeiraHabilitacao *string                     `json:"dataPrimeiraHabilitacao"`
	Token                   Optional[string]            `json:"token"`
	Cartao                  Optional[CartaoMotorista]   `json:"cartao"`
}

// --- Participantes ---

// ParticipanteFisicoDados é o corpo comum do participante físico, avulso ou embutido no transportador.
type ParticipanteFisicoDados struct {
	Nome              string             `json:"nome"`
	Cpf               string             `json:"cpf"`
	Rg                string             `json:"rg"`
	InscricaoEstadual string             `json:"inscricaoEstadual"`
	DataNascimento    *string            `json:"dataNascimento"`
	Latitude          string             `json:"latitude"`
	Longitude         string             `json:"longitude"`
	EmissorRG         string             `json:"emissorRG"`
	DataEmissaoRG     *string            `json:"dataEmissaoRG"`
	Naturalidade      string             `json:"naturalidade"`
	Sexo              int                `json:"sexo"`
	UfEmissaoRG       int                `json:"ufEmissaoRG"`
	Raca              int                `json:"raca"`
	Endereco          Endereco           `json:"endereco"`
	Email             Optional[Email]    `json:"email"`
	Telefone          Optional[Telefone] `json:"telefone"`
}

// ParticipanteFisico é o cadastro avulso de pessoa física.
type ParticipanteFisico struct {
	ParticipanteFisicoDados
	Token Optional[string] `json:"token"`
}

// ParticipanteJuridicoDados é o corpo comum do participante jurídico.
type ParticipanteJuridicoDados struct {
	RazaoSocial             string             `json:"razaoSocial"`
	NomeFantasia            string             `json:"nomeFantasia"`
	Cnpj                    string             `json:"cnpj"`
	InscricaoEstadual       string             `json:"inscricaoEstadual"`
	InscricaoMunicipal      string             `json:"inscricaoMunicipal"`
	InscricaoEstadualAvulsa string             `json:"inscricaoEstadualAvulsa"`
	PorteEmpresa            int                `json:"porteEmpresa"`
	Latitude                string             `json:"latitude"`
	Longitude               string             `json:"longitude"`
	TipoContribuinte        int                `json:"tipoContribuinte"`
	Terminal                bool               `json:"terminal"`
	TerminalCorGrafico      string             `json:"terminalCorGrafico"`
	Endereco                Endereco           `json:"endereco"`
	Email                   Optional[Email]    `json:"email"`
	Telefone                Optional[Telefone] `json:"telefone"`
}

// ParticipanteJuridico é o cadastro avulso de pessoa jurídica.
type ParticipanteJuridico struct {
	ParticipanteJuridicoDados
	Token Optional[string] `json:"token"`
}

// ParticipanteJuridicoVinculado é o participante jurídico embutido no transportador.
type ParticipanteJuridicoVinculado struct {
	IdParticipante int `json:"idParticipante"`
	ParticipanteJuridicoDados
}

// --- Transportador ---

type TransportadorVinculado struct {
	Transportador         string `json:"transportador"`
	TipoContrato          int    `json:"tipoContrato"`
	FrotaTerceira         bool   `json:"frotaTerceira"`
	FrotaTerceiraContrato int    `json:"frotaTerceiraContrato"`
	MdFe                  int    `json:"mdFe"`
}

type Excecao struct {
	TipoServico int `json:"tipoServico"`
	Tomador     int `json:"tomador"`
}

type DadosBancarios struct {
	InstituicaoBancaria      int    `json:"instituicaoBancaria"`
	Agencia                  string `json:"agencia"`
	AgenciaDigitoVerificador string `json:"agenciaDigitoVerificador"`
	TipoConta                int    `json:"tipoConta"`
	Conta                    string `json:"conta"`
	ContaDigitoVerificador   string `json:"contaDigitoVerificador"`
}

type CartaoTransportador struct {
	IdCartao                     int            `json:"idCartao"`
	Pagamento                    int            `json:"pagamento"`
	Emissor                      int            `json:"emissor"`
	MeioPagamento                int            `json:"meioPagamento"`
	CnpjVinculo                  string         `json:"cnpjVinculo"`
	InstituicaoBancaria          int            `json:"instituicaoBancaria"`
	DocumentoBeneficiente        string         `json:"documentoBeneficiente"`
	NomeBeneficiente             string         `json:"nomeBeneficiente"`
	RepassaAdiantamentoMotorista bool           `json:"repassaAdiantamentoMotorista"`
	TipoChavePix                 int            `json:"tipoChavePix"`
	ValorChavePix                string         `json:"valorChavePix"`
	NumeroCartao                 string         `json:"numeroCartao"`
	DadosBancarios               DadosBancarios `json:"dadosBancarios"`
}

// Transportador representa uma linha da aba de transportadores. Carrega sempre
// um participante jurídico e um físico, mesmo sem as colunas correspondentes.
type Transportador struct {
	Rntrc                     string                           `json:"rntrc"`
	DataVencimentoRntrc       *string                          `json:"dataVencimentoRntrc"`
	TipoProprietario          int                              `json:"tipoProprietario"`
	GeraMdfe                  bool                             `json:"geraMdfe"`
	GeracaoTransito           int                              `json:"geracaoTransito"`
	Modal                     int                              `json:"modal"`
	LocalGeracaoTransito      int                              `json:"localGeracaoTransito"`
	TipoAverbacao             int                              `json:"tipoAverbacao"`
	ValorFixo                 float64                          `json:"valorFixo"`
	Dependentes               int                              `json:"dependentes"`
	TipoEmpresa               int                              `json:"tipoEmpresa"`
	TransportadoresVinculados Optional[TransportadorVinculado] `json:"transportadoresVinculados"`
	CnpjsAutorizados          Optional[string]                 `json:"cnpjsAutorizados"`
	ObservacaoContribuinte    Optional[string]                 `json:"observacaoContribuinte"`
	Excecoes                  Optional[Excecao]                `json:"excecoes"`
	Cartao                    Optional[CartaoTransportador]    `json:"cartao"`
	CondicaoPagamento         string                           `json:"condicaoPagamento"`
	Token                     Optional[string]                 `json:"token"`
	ParticipanteJuridico      ParticipanteJuridicoVinculado    `json:"participanteJuridico"`
	ParticipanteFisico        ParticipanteFisicoDados          `json:"participanteFisico"`
	Email                     Optional[Email]                  `json:"email"`
	Telefone                  Optional[Telefone]               `json:"telefone"`
	Endereco                  Endereco                         `json:"endereco"`
}

// --- Veículo ---

type Veiculo struct {
	Placa              string           `json:"placa"`
	Renavam            *string          `json:"renavam"`
	TaraKg             float64          `json:"taraKg"`
	CapacidadeKg       *float64         `json:"capacidadeKg"`
	CapacidadeM3       *float64         `json:"capacidadeM3"`
	TipoRodado         int              `json:"tipoRodado"`
	TipoCarroceria     int              `json:"tipoCarroceria"`
	Uf                 int              `json:"uf"`
	TipoVeiculo        int              `json:"tipoVeiculo"`
	Transportador      string           `json:"transportador"`
	NumeroEixos        int              `json:"numeroEixos"`
	NumeroEixoSuspenso int              `json:"numeroEixoSuspenso"`
	AnoFabricacao      *int             `json:"anoFabricacao"`
	AnoModelo          *int             `json:"anoModelo"`
	Chassi             string           `json:"chassi"`
	Cor                string           `json:"cor"`
	Marca              string           `json:"marca"`
	Modelo             string           `json:"modelo"`
	Cidade             *int             `json:"cidade"`
	Token              Optional[string] `json:"token"`
	Agregador          Optional[string] `json:"agregador"`
}

// --- Planilhas ---

// AbaInfo descreve uma aba da planilha antes da conversão.
type AbaInfo struct {
	Nome     string        `json:"name"`
	Tipo     *TipoCadastro `json:"type"`
	Linhas   int           `json:"rowCount"`
	Sugestao string        `json:"suggestion,omitempty"`
}

// ResultadoAba é o resultado da conversão de uma aba reconhecida.
type ResultadoAba struct {
	NomeAba string       `json:"sheetName"`
	Tipo    TipoCadastro `json:"type"`
	Dados   any          `json:"data"`
	Linhas  int          `json:"rowCount"`
}
