package cadastro

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cadastro-service/internal/core/planilha"
	"cadastro-service/internal/domain"
	"cadastro-service/internal/logging"
	"cadastro-service/internal/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ErrPlanilhaVazia indica uma planilha sem nenhuma aba.
var ErrPlanilhaVazia = errors.New("planilha sem abas")

// Service define as operações sobre planilhas de cadastro.
type Service interface {
	ListSheets(ctx context.Context, file io.Reader) ([]domain.AbaInfo, error)
	ConvertAllSheets(ctx context.Context, file io.Reader) ([]domain.ResultadoAba, error)
	ConvertSheet(ctx context.Context, file io.Reader, tipo domain.TipoCadastro) (*domain.ResultadoAba, error)
}

type service struct {
	converter *Converter
}

// NewService cria o serviço de planilhas com o conversor informado.
func NewService(converter *Converter) Service {
	if converter == nil {
		converter = NewConverter(nil)
	}
	return &service{converter: converter}
}

func (svc *service) readWorkbook(ctx context.Context, file io.Reader) (*planilha.Workbook, error) {
	_, span := observability.Tracer().Start(ctx, "planilha.Read")
	defer span.End()

	wb, err := planilha.Read(file)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("planilha.abas", len(wb.Sheets)))
	return wb, nil
}

// ListSheets classifica todas as abas sem converter nenhuma.
func (svc *service) ListSheets(ctx context.Context, file io.Reader) ([]domain.AbaInfo, error) {
	wb, err := svc.readWorkbook(ctx, file)
	if err != nil {
		return nil, err
	}

	abas := make([]domain.AbaInfo, 0, len(wb.Sheets))
	for _, sheet := range wb.Sheets {
		info := domain.AbaInfo{Nome: sheet.Name, Linhas: len(sheet.Rows)}
		if tipo, ok := Classify(sheet.Name); ok {
			info.Tipo = &tipo
			observability.SheetsClassified.WithLabelValues(string(tipo)).Inc()
		} else {
			if sugestao, ok := Suggest(sheet.Name); ok {
				info.Sugestao = string(sugestao)
			}
			observability.SheetsClassified.WithLabelValues("nenhum").Inc()
		}
		abas = append(abas, info)
	}

	logging.Logger.Info("abas listadas",
		zap.Int("total", len(abas)),
		zap.Int("reconhecidas", contarReconhecidas(abas)),
	)
	return abas, nil
}

// ConvertAllSheets converte todas as abas reconhecidas, na ordem do arquivo.
// Abas não reconhecidas ficam de fora do resultado.
func (svc *service) ConvertAllSheets(ctx context.Context, file io.Reader) ([]domain.ResultadoAba, error) {
	wb, err := svc.readWorkbook(ctx, file)
	if err != nil {
		return nil, err
	}

	resultados := make([]domain.ResultadoAba, 0, len(wb.Sheets))
	for _, sheet := range wb.Sheets {
		tipo, ok := Classify(sheet.Name)
		if !ok {
			logging.Logger.Debug("aba ignorada", zap.String("aba", sheet.Name))
			continue
		}
		resultado, err := svc.convert(sheet, tipo)
		if err != nil {
			return nil, err
		}
		resultados = append(resultados, resultado)
	}
	return resultados, nil
}

// ConvertSheet converte a primeira aba com o tipo escolhido pelo usuário,
// independente do nome da aba.
func (svc *service) ConvertSheet(ctx context.Context, file io.Reader, tipo domain.TipoCadastro) (*domain.ResultadoAba, error) {
	if !tipo.Valido() {
		return nil, fmt.Errorf("%w: %q", domain.ErrTipoInvalido, tipo)
	}

	wb, err := svc.readWorkbook(ctx, file)
	if err != nil {
		return nil, err
	}
	if len(wb.Sheets) == 0 {
		return nil, ErrPlanilhaVazia
	}

	resultado, err := svc.convert(wb.Sheets[0], tipo)
	if err != nil {
		return nil, err
	}
	return &resultado, nil
}

func (svc *service) convert(sheet planilha.Sheet, tipo domain.TipoCadastro) (domain.ResultadoAba, error) {
	dados, err := svc.converter.Convert(tipo, sheet.Rows)
	if err != nil {
		return domain.ResultadoAba{}, fmt.Errorf("erro ao converter aba %q: %w", sheet.Name, err)
	}

	observability.RowsConverted.WithLabelValues(string(tipo)).Add(float64(len(sheet.Rows)))
	logging.Logger.Info("aba convertida",
		zap.String("aba", sheet.Name),
		zap.String("tipo", string(tipo)),
		zap.Int("linhas", len(sheet.Rows)),
	)

	return domain.ResultadoAba{
		NomeAba: sheet.Name,
		Tipo:    tipo,
		Dados:   dados,
		Linhas:  len(sheet.Rows),
	}, nil
}

func contarReconhecidas(abas []domain.AbaInfo) int {
	n := 0
	for _, a := range abas {
		if a.Tipo != nil {
			n++
		}
	}
	return n
}

// Resumo monta a mensagem exibida depois da listagem de abas.
func Resumo(abas []domain.AbaInfo) string {
	return fmt.Sprintf("%d aba(s) reconhecida(s) de %d total", contarReconhecidas(abas), len(abas))
}
