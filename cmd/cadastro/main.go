// cmd/cadastro/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cadastro-service/internal/api/handlers"
	"cadastro-service/internal/api/middleware"
	"cadastro-service/internal/config"
	"cadastro-service/internal/core/auth"
	"cadastro-service/internal/core/cadastro"
	"cadastro-service/internal/core/planilha"
	"cadastro-service/internal/logging"
	"cadastro-service/internal/observability"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	serviceName = "cadastro-service"
	version     = "1.0.0"
)

func main() {
	if err := logging.InitLogger(serviceName, version); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer logging.Sync()

	if err := config.LoadConfig(); err != nil {
		logging.Logger.Fatal("failed to load config", zap.Error(err))
	}
	cfg := config.AppConfig

	observability.InitTracer(version)
	defer observability.ShutdownTracer()

	sessions := sessionStore(cfg)
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	authService := auth.NewService(auth.NewClient(cfg.WebAPIFR, cfg.GestaoCadastroAPI, httpClient), sessions, cfg.SessionTTL)
	cadastroService := cadastro.NewService(cadastro.NewConverter(planilha.NewDateDecoder(cfg.Timezone)))

	authHandler := handlers.NewAuthHandler(authService)
	planilhaHandler := handlers.NewPlanilhaHandler(cadastroService, cfg.MaxUploadMB)
	envioHandler := handlers.NewEnvioHandler(cfg.GestaoCadastroAPI, cfg.Projeto, httpClient, authService)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.MaxMultipartMemory = cfg.MaxUploadMB << 20
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RequestTracker(),
		cors.New(corsConfig()),
	)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "service": serviceName})
	})

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/login", authHandler.Login)

		planilhas := apiV1.Group("/planilhas")
		planilhas.POST("/abas", planilhaHandler.HandleListSheets)
		planilhas.POST("/converter", planilhaHandler.HandleConvertAll)
		planilhas.POST("/converter/:tipo", planilhaHandler.HandleConvertSheet)

		autenticado := apiV1.Group("", middleware.RequireSession(authService))
		autenticado.GET("/sessao", authHandler.Sessao)
		autenticado.DELETE("/sessao", authHandler.Logout)
		autenticado.POST("/cadastros/:tipo/enviar", envioHandler.HandleEnviar)
	}

	// sem WriteTimeout: o envio em stream dura enquanto houver itens
	srv := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Port),
		Handler:     router,
		ReadTimeout: 60 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		logging.Logger.Info("🚀 Cadastro Service iniciado",
			zap.Int("port", cfg.Port),
			zap.String("environment", cfg.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Logger.Fatal("falha ao iniciar o servidor de cadastro", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Logger.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Logger.Fatal("server forced to shutdown", zap.Error(err))
	}
	logging.Logger.Info("server exited gracefully")
}

// sessionStore usa Redis quando REDIS_URI está definido e cai para memória
// se não houver conexão.
func sessionStore(cfg *config.Config) auth.SessionStore {
	if cfg.RedisURI == "" {
		logging.Logger.Info("REDIS_URI vazio, sessões em memória")
		return auth.NewMemoryStore()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := auth.NewRedisClient(ctx, cfg.RedisURI, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logging.Logger.Warn("redis indisponível, sessões em memória", zap.Error(err))
		return auth.NewMemoryStore()
	}
	logging.Logger.Info("sessões no redis", zap.Int("db", cfg.RedisDB))
	return auth.NewRedisStore(client)
}

func corsConfig() cors.Config {
	c := cors.DefaultConfig()
	c.AllowAllOrigins = true
	c.AllowHeaders = append(c.AllowHeaders, "Authorization", middleware.SessionHeader, "X-Request-ID")
	c.ExposeHeaders = []string{"Content-Disposition", "X-Request-ID"}
	return c
}
