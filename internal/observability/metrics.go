package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "cadastro_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"path", "method", "status"},
	)

	// ActiveConnections tracks active connections
	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cadastro_active_connections",
			Help: "Number of active connections",
		},
	)

	// SheetsClassified conta abas lidas por tipo reconhecido ("nenhum" quando não reconhecida)
	SheetsClassified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cadastro_sheets_classified_total",
			Help: "Number of workbook sheets classified",
		},
		[]string{"type"},
	)

	// RowsConverted conta linhas convertidas em cadastros
	RowsConverted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cadastro_rows_converted_total",
			Help: "Number of spreadsheet rows converted into records",
		},
		[]string{"type"},
	)

	// Submissions conta envios à API de cadastro por resultado
	Submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cadastro_submissions_total",
			Help: "Number of records submitted to the registration API",
		},
		[]string{"type", "status"},
	)

	// SessionOperations tracks session store operations
	SessionOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cadastro_session_operations_total",
			Help: "Number of session store operations",
		},
		[]string{"operation", "status"},
	)
)
