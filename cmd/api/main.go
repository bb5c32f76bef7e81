package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/Distribuidora-api/internal/application/analytics"
	"github.com/jhoicas/Distribuidora-api/internal/application/auth"
	"github.com/jhoicas/Distribuidora-api/internal/application/stock"
	"github.com/jhoicas/Distribuidora-api/internal/application/usecase"
	"github.com/jhoicas/Distribuidora-api/internal/application/validation"
	"github.com/jhoicas/Distribuidora-api/internal/domain/repository"
	"github.com/jhoicas/Distribuidora-api/internal/infrastructure/cache"
	"github.com/jhoicas/Distribuidora-api/internal/infrastructure/excel"
	"github.com/jhoicas/Distribuidora-api/internal/infrastructure/lock"
	"github.com/jhoicas/Distribuidora-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Distribuidora-api/internal/interfaces/http"
	"github.com/jhoicas/Distribuidora-api/pkg/config"
	"github.com/jhoicas/Distribuidora-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	rpc := postgres.NewRPCClient(pool)
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	shrinkageRepo := postgres.NewShrinkageRepository(pool)
	settlementRepo := postgres.NewSettlementRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)

	// Redis es opcional: sin REDIS_URL no hay caché de nombres ni locks distribuidos.
	var (
		names  repository.NameLookup = userRepo
		locker usecase.Locker
	)
	if cfg.Redis.Enabled() {
		rdb, err := cache.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Warn().Err(err).Msg("redis no disponible, se continúa sin caché ni locks")
		} else {
			defer rdb.Close()
			names = cache.NewNameCache(rdb, userRepo, cfg.Redis.CacheTTL, log.Component("name_cache"))
			locker = lock.NewRedisLocker(rdb, cfg.Redis.LockTTL, log.Component("lock"))
		}
	}

	val := validation.New(cfg.Domain.PhoneRegion)
	stockMgr := stock.NewManager(
		productRepo,
		postgres.NewStockGateway(rpc),
		shrinkageRepo,
		orderRepo,
		log.Component("stock"),
		cfg.Domain.LowStockDefault,
	)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	productUC := usecase.NewProductUseCase(productRepo, postgres.NewPriceGateway(rpc), val, log.Component("productos"))
	customerUC := usecase.NewCustomerUseCase(customerRepo, val, log.Component("clientes"))
	orderUC := usecase.NewOrderUseCase(orderRepo, postgres.NewOrderGateway(rpc), stockMgr, locker, val, log.Component("pedidos"))
	settlementUC := usecase.NewSettlementUseCase(settlementRepo, log.Component("rendiciones"))
	exportUC := analytics.NewExportUseCase(analyticsRepo, names, excel.NewWorkbookWriter(), log.Component("analytics"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 60, // la exportación analítica puede tardar
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Distribuidora API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		ProductUC:    productUC,
		CustomerUC:   customerUC,
		OrderUC:      orderUC,
		SettlementUC: settlementUC,
		Stock:        stockMgr,
		ExportUC:     exportUC,
		JWTSecret:    cfg.JWT.Secret,
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
