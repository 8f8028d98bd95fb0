package cadastro

import (
	"strings"
	"sync"
	"unicode"

	"cadastro-service/internal/domain"

	"github.com/schollz/closestmatch"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ---------------------- classificação de abas ----------------------

// nomesAba é a tabela fixa de nomes de aba reconhecidos, já em minúsculas e NFC.
var nomesAba = map[string]domain.TipoCadastro{
	"motorista":               domain.TipoMotorista,
	"motoristas":              domain.TipoMotorista,
	"transportador":           domain.TipoTransportador,
	"transportadores":         domain.TipoTransportador,
	"veiculo":                 domain.TipoVeiculo,
	"veiculos":                domain.TipoVeiculo,
	"veículo":                 domain.TipoVeiculo,
	"veículos":                domain.TipoVeiculo,
	"participante fisico":     domain.TipoParticipanteFisico,
	"participantes fisicos":   domain.TipoParticipanteFisico,
	"participante físico":     domain.TipoParticipanteFisico,
	"participantes físicos":   domain.TipoParticipanteFisico,
	"participante juridico":   domain.TipoParticipanteJuridico,
	"participantes juridicos": domain.TipoParticipanteJuridico,
	"participante jurídico":   domain.TipoParticipanteJuridico,
	"participantes jurídicos": domain.TipoParticipanteJuridico,
}

func normalizeSheetName(name string) string {
	return strings.TrimSpace(strings.ToLower(norm.NFC.String(name)))
}

// Classify devolve o tipo de cadastro de uma aba pelo nome. A comparação é
// exata depois de normalizar; não existe correspondência parcial.
func Classify(name string) (domain.TipoCadastro, bool) {
	tipo, ok := nomesAba[normalizeSheetName(name)]
	return tipo, ok
}

// ---------------------- sugestão ----------------------

func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}))
	result, _, _ := transform.String(t, s)
	return result
}

type sugestor struct {
	cm      *closestmatch.ClosestMatch
	porNome map[string]domain.TipoCadastro
}

var sugestorPadrao = sync.OnceValue(func() *sugestor {
	porNome := make(map[string]domain.TipoCadastro, len(nomesAba))
	keys := make([]string, 0, len(nomesAba))
	for nome, tipo := range nomesAba {
		folded := foldAccents(nome)
		if _, ok := porNome[folded]; ok {
			continue
		}
		porNome[folded] = tipo
		keys = append(keys, folded)
	}
	return &sugestor{cm: closestmatch.New(keys, []int{2, 3}), porNome: porNome}
})

// Suggest aponta o tipo cujo nome de aba mais se parece com name. Serve só de
// dica para abas não reconhecidas; nunca altera o resultado de Classify.
func Suggest(name string) (domain.TipoCadastro, bool) {
	key := foldAccents(normalizeSheetName(name))
	if key == "" {
		return "", false
	}
	s := sugestorPadrao()
	match := s.cm.Closest(key)
	if match == "" {
		return "", false
	}
	tipo, ok := s.porNome[match]
	return tipo, ok
}
