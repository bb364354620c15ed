// @title                       Gestão API
// @version                     1.0
// @description                 Inventário, finanças, vendas e importação de NFe para pequenos negócios.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/Gestao-api/docs"
	appanalytics "github.com/jhoicas/Gestao-api/internal/application/analytics"
	"github.com/jhoicas/Gestao-api/internal/application/auth"
	"github.com/jhoicas/Gestao-api/internal/application/finance"
	"github.com/jhoicas/Gestao-api/internal/application/inventory"
	"github.com/jhoicas/Gestao-api/internal/application/nfe"
	"github.com/jhoicas/Gestao-api/internal/application/ports"
	"github.com/jhoicas/Gestao-api/internal/application/sales"
	"github.com/jhoicas/Gestao-api/internal/application/usecase"
	"github.com/jhoicas/Gestao-api/internal/infrastructure/cache"
	"github.com/jhoicas/Gestao-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Gestao-api/internal/infrastructure/nfexml"
	"github.com/jhoicas/Gestao-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Gestao-api/internal/interfaces/http"
	"github.com/jhoicas/Gestao-api/pkg/config"
	"github.com/jhoicas/Gestao-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(cfg.DB.ConnectionString(), log.Zerolog()); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	costRepo := postgres.NewCostEntryRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	accountRepo := postgres.NewBankAccountRepository(pool)
	transactionRepo := postgres.NewBankTransactionRepository(pool)
	billRepo := postgres.NewBillRepository(pool)
	installmentRepo := postgres.NewInstallmentRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	nfeRepo := postgres.NewNFeRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Idempotencia: Redis si está configurado; si no, se aceptan todas las claves.
	var idempotency ports.IdempotencyStore = cache.NoopIdempotencyStore{}
	if cfg.Redis.Enabled() {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		defer client.Close()
		idempotency = cache.NewRedisIdempotencyStore(client, "", cfg.Redis.IdempotencyTTL)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("idempotencia en Redis")
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	authUC := auth.NewAuthUseCase(userRepo, companyRepo, txRunner, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.HTTP.BodyLimit(),
		ErrorHandler: httpRouter.ErrorHandler,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log.Zerolog(), m))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath:    "/",
		FileContent: []byte(docs.SwaggerInfo.ReadDoc()),
		Path:        "docs",
		Title:       "Gestão API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	if m != nil {
		app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		UserUC:      usecase.NewUserUseCase(userRepo),
		CompanyUC:   usecase.NewCompanyUseCase(companyRepo),
		ModuleSvc:   usecase.NewModuleService(companyRepo),
		SupplierUC:  usecase.NewSupplierUseCase(supplierRepo),
		ItemUC:      inventory.NewItemUseCase(txRunner, itemRepo, costRepo, movementRepo),
		MovementUC:  inventory.NewRegisterMovementUseCase(txRunner, itemRepo, movementRepo),
		AccountUC:   finance.NewAccountUseCase(txRunner, accountRepo, transactionRepo),
		BillUC:      finance.NewBillUseCase(txRunner, billRepo, installmentRepo, supplierRepo),
		SaleUC:      sales.NewSaleUseCase(txRunner, saleRepo),
		NFeUC:       nfe.NewNFeUseCase(txRunner, nfeRepo, itemRepo, nfexml.NewParser()),
		DashboardUC: appanalytics.NewDashboardUseCase(analyticsRepo),
		Idempotency: idempotency,
		Metrics:     m,
		Logger:      log.Zerolog(),
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
