package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/leandrowaltz/provavida/internal/adapter/database"
	handlers "github.com/leandrowaltz/provavida/internal/adapter/http"
	"github.com/leandrowaltz/provavida/internal/app/audit"
	"github.com/leandrowaltz/provavida/internal/app/auth"
	"github.com/leandrowaltz/provavida/internal/app/cadastro"
	"github.com/leandrowaltz/provavida/internal/app/export"
	"github.com/leandrowaltz/provavida/internal/app/statistics"
	"github.com/leandrowaltz/provavida/internal/infra/metrics"
	"github.com/leandrowaltz/provavida/internal/infra/middleware"
	"github.com/leandrowaltz/provavida/pkg/config"
	"github.com/leandrowaltz/provavida/pkg/ratelimit"
	"go.uber.org/zap"
)

// App reúne as dependências da aplicação
type App struct {
	Config     *config.Config
	Logger     *zap.Logger
	DB         *database.Database
	APIMetrics *metrics.APIMetrics

	Auth       *auth.Service
	Cadastros  *cadastro.Service
	Audit      *audit.Service
	Statistics *statistics.Service
	Export     *export.Service

	limiter     ratelimit.Limiter
	redisClient *redis.Client
}

// NewApp cria uma nova instância da aplicação com todas as dependências injetadas
func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	location, err := cfg.Locale.Location()
	if err != nil {
		return nil, fmt.Errorf("fuso horário inválido: %w", err)
	}

	hasher, err := auth.NewPasswordHasher(cfg.Auth.PasswordMode)
	if err != nil {
		return nil, err
	}

	// Inicializar banco de dados
	db, err := database.NewDatabase(ctx, database.ConfigFromSettings(cfg.Database), logger)
	if err != nil {
		return nil, err
	}

	// Inicializar métricas
	apiMetrics := metrics.NewAPIMetrics()

	// Inicializar repositórios
	cadastroRepo := database.NewCadastroRepository(db.DB(), logger)
	userRepo := database.NewUserRepository(db.DB(), logger)
	auditRepo := database.NewAuditRepository(db.DB(), logger)

	// Inicializar serviços
	admin := auth.BootstrapAdmin{Username: cfg.Auth.AdminUsername, Password: cfg.Auth.AdminPassword}
	authService := auth.NewService(userRepo, hasher, admin, logger)
	cadastroService := cadastro.NewService(cadastroRepo, logger, apiMetrics)
	auditService := audit.NewService(auditRepo, logger)
	statsService := statistics.NewService(cadastroRepo, location, logger)
	exportService := export.NewService(cadastroRepo, statsService, export.Options{
		TempDir:  cfg.Export.TempDir,
		LogoPath: cfg.Export.LogoPath,
		City:     cfg.Locale.City,
		Location: location,
	}, apiMetrics, logger)

	a := &App{
		Config:     cfg,
		Logger:     logger,
		DB:         db,
		APIMetrics: apiMetrics,
		Auth:       authService,
		Cadastros:  cadastroService,
		Audit:      auditService,
		Statistics: statsService,
		Export:     exportService,
	}

	if cfg.RateLimit.Enabled {
		a.limiter, a.redisClient = newLimiter(ctx, cfg.RateLimit, logger)
	}

	return a, nil
}

// newLimiter cria o limitador de login. Se o Redis não responder, usa memória local.
func newLimiter(ctx context.Context, cfg config.RateLimitConfig, logger *zap.Logger) (ratelimit.Limiter, *redis.Client) {
	if cfg.Type == "redis" {
		client, err := ratelimit.NewRedisClient(ctx, &redis.Options{
			Addr:         cfg.Redis.Address,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		}, logger)
		if err == nil {
			logger.Info("Rate limit de login usando Redis", zap.String("address", cfg.Redis.Address))
			return ratelimit.NewRedisLimiter(client, logger), client
		}
		logger.Warn("Redis indisponível, usando rate limit em memória", zap.Error(err))
	}

	return ratelimit.NewMemoryLimiter(cfg.LoginPeriod), nil
}

// SeedAdmin garante que a conta do administrador inicial exista
func (a *App) SeedAdmin(ctx context.Context) error {
	created, err := a.Auth.EnsureBootstrapAdmin(ctx)
	if err != nil {
		return fmt.Errorf("falha ao criar administrador inicial: %w", err)
	}
	if created {
		a.Logger.Info("Administrador inicial criado", zap.String("username", a.Config.Auth.AdminUsername))
	}
	return nil
}

// Close libera conexões abertas pela aplicação
func (a *App) Close() error {
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.Logger.Warn("Erro ao fechar cliente Redis", zap.Error(err))
		}
	}
	return a.DB.Close()
}

// RegisterRoutes registra todas as rotas no router
func (a *App) RegisterRoutes(router *gin.Engine) {
	cfg := a.Config

	base := middleware.NewMiddleware(a.Logger)
	recovery := middleware.NewRecoveryMiddleware(a.Logger, a.APIMetrics)
	security := middleware.NewSecurityMiddleware(a.Logger)
	authMiddleware := middleware.NewAuthMiddleware(a.Auth, a.Logger)

	// Configurar middleware global
	router.Use(recovery.Recovery())
	router.Use(base.RequestID())
	router.Use(base.IgnoreFavicon())
	if cfg.Tracing.Enabled {
		router.Use(middleware.NewTracingMiddleware(a.Logger, cfg.Tracing.ServiceName).Middleware())
	}
	router.Use(base.Logger())
	if cfg.Metrics.Enabled {
		metricsMiddleware := middleware.NewMetricsMiddleware(a.APIMetrics, a.Logger)
		router.Use(metricsMiddleware.Middleware())
		metricsMiddleware.RegisterEndpoint(router, cfg.Metrics.PrometheusPath)
	}
	router.Use(security.Headers())
	router.Use(security.CORS(cfg.CORS.AllowedOrigins, cfg.CORS.MaxAge))
	router.Use(base.MaxBodySize(cfg.Server.MaxBodyBytes))

	// Health checks
	var extras []handlers.Dependency
	if a.redisClient != nil {
		client := a.redisClient
		extras = append(extras, handlers.Dependency{
			Name:  "redis",
			Check: func(ctx context.Context) error { return client.Ping(ctx).Err() },
		})
	}
	health := handlers.NewHealthChecker(a.DB, a.Logger, extras...)
	router.GET("/health", health.DetailedHealth)
	router.GET("/health/liveness", health.LivenessCheck)
	router.GET("/health/readiness", health.ReadinessCheck)

	cadastroHandler := handlers.NewCadastroHandler(a.Cadastros, a.Logger)
	userHandler := handlers.NewUserHandler(a.Auth, a.Logger)
	reportHandler := handlers.NewReportHandler(a.Audit, a.Statistics, a.Export, a.Logger)

	api := router.Group("/api")

	// Rotas públicas
	login := []gin.HandlerFunc{}
	if a.limiter != nil {
		limit := middleware.NewRateLimitMiddleware(a.limiter, cfg.RateLimit.LoginLimit, cfg.RateLimit.LoginPeriod, a.APIMetrics, a.Logger)
		login = append(login, limit.IPRateLimit("login"))
	}
	api.POST("/login", append(login, userHandler.Login)...)
	api.GET("/documento/:cpf", cadastroHandler.Document)
	api.GET("/foto/:cpf", cadastroHandler.Photo)

	// Rotas de usuários autenticados
	user := api.Group("")
	user.Use(authMiddleware.RequireUser())
	{
		user.GET("/cadastros", cadastroHandler.List)
		user.POST("/cadastro", cadastroHandler.Create)
		user.POST("/cadastro/:cpf/foto", cadastroHandler.UpdatePhoto)
		user.PUT("/cadastro/:cpf", cadastroHandler.Edit)
		user.GET("/visitas/:status", cadastroHandler.Visits)
		user.POST("/visita/realizar/:cpf", cadastroHandler.CompleteVisit)
		user.POST("/change-password", userHandler.ChangePassword)

		user.GET("/audit_logs", reportHandler.AuditLogs)
		user.GET("/statistics", reportHandler.Statistics)

		user.GET("/export/statistics/pdf", reportHandler.StatisticsPDF)
		user.GET("/export/all", reportHandler.ExportAll)
		user.GET("/export/all/xlsx", reportHandler.ExportAllXLSX)
		user.GET("/export/whatsapp", reportHandler.ExportWhatsApp)
		user.GET("/export/visitas/:status/:format", reportHandler.ExportVisits)
		user.GET("/export/declaracao/:cpf", reportHandler.Declaration)
		user.GET("/export/cadastro/:cpf/pdf", reportHandler.CadastroPDF)
	}

	// Rotas administrativas
	admin := api.Group("")
	admin.Use(authMiddleware.RequireAdmin())
	{
		admin.POST("/reset-password", userHandler.ResetPassword)
		admin.GET("/users", userHandler.ListUsers)
		admin.POST("/users", userHandler.CreateUser)
		admin.GET("/users/:id", userHandler.GetUser)
		admin.PUT("/users/:id", userHandler.UpdatePermissions)
		admin.DELETE("/users/:id", userHandler.DeleteUser)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Rota não encontrada",
			"path":  c.Request.URL.Path,
		})
	})
}

// NewServer monta o servidor HTTP com os limites configurados
func (a *App) NewServer(router http.Handler) *http.Server {
	s := a.Config.Server
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.Host, s.Port),
		Handler:           router,
		ReadTimeout:       s.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      s.WriteTimeout,
		IdleTimeout:       s.IdleTimeout,
		MaxHeaderBytes:    s.MaxHeaderBytes,
	}
}
