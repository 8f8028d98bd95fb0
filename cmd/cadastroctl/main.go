// Package main é a linha de comando do conversor de cadastros.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"cadastro-service/internal/config"
	"cadastro-service/internal/core/cadastro"
	"cadastro-service/internal/core/envio"
	"cadastro-service/internal/core/planilha"
	"cadastro-service/internal/domain"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	tipoFlag       string
	saidaFlag      string
	jwtFlag        string
	grupoTokenFlag string
	apiFlag        string
)

func main() {
	if err := config.LoadConfig(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cadastroctl",
		Short: "Converte planilhas de cadastro e envia para a API de gestão",
		Long: `cadastroctl lê planilhas .xls/.xlsx de motoristas, transportadores, veículos
e participantes, converte cada aba reconhecida para JSON e envia os cadastros.`,
		SilenceUsage: true,
	}

	abasCmd := &cobra.Command{
		Use:   "abas <arquivo>",
		Short: "Lista as abas da planilha e o tipo reconhecido",
		Args:  cobra.ExactArgs(1),
		RunE:  runAbas,
	}

	converterCmd := &cobra.Command{
		Use:   "converter <arquivo>",
		Short: "Converte as abas reconhecidas (ou a primeira aba, com --tipo)",
		Args:  cobra.ExactArgs(1),
		RunE:  runConverter,
	}
	converterCmd.Flags().StringVarP(&tipoFlag, "tipo", "t", "", "Tipo de cadastro da primeira aba")
	converterCmd.Flags().StringVarP(&saidaFlag, "saida", "o", "", "Arquivo de saída (padrão: stdout)")

	enviarCmd := &cobra.Command{
		Use:   "enviar <arquivo.json>",
		Short: "Envia os cadastros de um JSON convertido, um por vez",
		Args:  cobra.ExactArgs(1),
		RunE:  runEnviar,
	}
	enviarCmd.Flags().StringVarP(&tipoFlag, "tipo", "t", "", "Tipo de cadastro")
	enviarCmd.Flags().StringVar(&jwtFlag, "jwt", os.Getenv("CADASTRO_JWT"), "JWT do usuário")
	enviarCmd.Flags().StringVar(&grupoTokenFlag, "grupo-token", "", "Token de grupo aplicado a cada cadastro")
	enviarCmd.Flags().StringVar(&apiFlag, "api", config.AppConfig.GestaoCadastroAPI, "URL base da API de gestão de cadastro")
	_ = enviarCmd.MarkFlagRequired("tipo")

	rootCmd.AddCommand(abasCmd, converterCmd, enviarCmd)
	return rootCmd
}

func newService() cadastro.Service {
	return cadastro.NewService(cadastro.NewConverter(planilha.NewDateDecoder(config.AppConfig.Timezone)))
}

func runAbas(cmd *cobra.Command, args []string) error {
	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("erro ao abrir arquivo: %w", err)
	}
	defer file.Close()

	abas, err := newService().ListSheets(cmd.Context(), file)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render(args[0]))
	for _, aba := range abas {
		fmt.Fprintln(out, formatAba(aba))
	}
	fmt.Fprintln(out, mutedStyle.Render(cadastro.Resumo(abas)))
	return nil
}

func formatAba(aba domain.AbaInfo) string {
	tipo := mutedStyle.Render("não reconhecida")
	if aba.Tipo != nil {
		tipo = tipoStyle.Render(aba.Tipo.Rotulo())
	}
	linha := lipgloss.JoinHorizontal(lipgloss.Top,
		sheetStyle.Render(aba.Nome),
		tipo,
		mutedStyle.Render(fmt.Sprintf("%d linha(s)", aba.Linhas)),
	)
	if aba.Sugestao != "" {
		linha += mutedStyle.Render(fmt.Sprintf("  (talvez %s?)", aba.Sugestao))
	}
	return linha
}

func runConverter(cmd *cobra.Command, args []string) error {
	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("erro ao abrir arquivo: %w", err)
	}
	defer file.Close()

	svc := newService()

	var resultado any
	if tipoFlag != "" {
		tipo, err := domain.ParseTipoCadastro(tipoFlag)
		if err != nil {
			return err
		}
		aba, err := svc.ConvertSheet(cmd.Context(), file, tipo)
		if err != nil {
			return err
		}
		resultado = aba.Dados
	} else {
		resultado, err = svc.ConvertAllSheets(cmd.Context(), file)
		if err != nil {
			return err
		}
	}

	output, err := json.MarshalIndent(resultado, "", "  ")
	if err != nil {
		return fmt.Errorf("erro ao gerar JSON: %w", err)
	}

	if saidaFlag == "" {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(output))
		return err
	}
	if err := os.WriteFile(saidaFlag, output, 0644); err != nil {
		return fmt.Errorf("erro ao gravar %s: %w", saidaFlag, err)
	}
	fmt.Fprintln(cmd.ErrOrStderr(), successStyle.Render("✓ "+saidaFlag))
	return nil
}

func runEnviar(cmd *cobra.Command, args []string) error {
	tipo, err := domain.ParseTipoCadastro(tipoFlag)
	if err != nil {
		return err
	}

	itens, err := readItens(args[0])
	if err != nil {
		return err
	}

	cfg := config.AppConfig
	client := envio.NewClient(apiFlag, cfg.Projeto,
		envio.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		envio.WithUnauthorizedHook(func() {
			fmt.Fprintln(cmd.ErrOrStderr(), errorStyle.Render("sessão expirada, gere um novo JWT"))
		}),
	)

	out := cmd.OutOrStdout()
	resultados, err := client.SendAll(cmd.Context(), tipo, jwtFlag, itens, grupoTokenFlag, func(p envio.Progresso) {
		fmt.Fprintln(out, progressLine(p))
	})

	falhas := 0
	for _, r := range resultados {
		if !r.Success {
			falhas++
		}
	}
	resumo := fmt.Sprintf("%d enviado(s), %d falha(s), %d no arquivo", len(resultados)-falhas, falhas, len(itens))
	fmt.Fprintln(out, boxStyle.Render(resumo))

	if err != nil {
		return err
	}
	if falhas > 0 {
		return fmt.Errorf("%d cadastro(s) falharam", falhas)
	}
	return nil
}

// readItens aceita um array JSON ou a saída de "converter" para todas as abas,
// usando a primeira aba.
func readItens(path string) ([]json.RawMessage, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir arquivo: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	var itens []json.RawMessage
	if err := json.Unmarshal(raw, &itens); err != nil {
		return nil, fmt.Errorf("JSON inválido em %s: %w", path, err)
	}

	if len(itens) > 0 {
		var aba struct {
			SheetName *string           `json:"sheetName"`
			Data      []json.RawMessage `json:"data"`
		}
		if json.Unmarshal(itens[0], &aba) == nil && aba.SheetName != nil {
			return aba.Data, nil
		}
	}
	return itens, nil
}

func progressLine(p envio.Progresso) string {
	ultimo := p.Results[len(p.Results)-1]
	status := successStyle.Render("ok")
	if !ultimo.Success {
		status = errorStyle.Render("erro: " + strings.TrimSpace(ultimo.Error))
	}
	return fmt.Sprintf("%s %s", mutedStyle.Render(fmt.Sprintf("[%d/%d]", p.Current, p.Total)), status)
}
