package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/bimal-bp/DPR/internal/application/inventory"
	"github.com/bimal-bp/DPR/internal/application/usecase"
	"github.com/bimal-bp/DPR/internal/domain/repository"
	"github.com/bimal-bp/DPR/internal/infrastructure/catalog"
	"github.com/bimal-bp/DPR/internal/infrastructure/memory"
	infrapdf "github.com/bimal-bp/DPR/internal/infrastructure/pdf"
	"github.com/bimal-bp/DPR/internal/infrastructure/postgres"
	httpRouter "github.com/bimal-bp/DPR/internal/interfaces/http"
	"github.com/bimal-bp/DPR/pkg/config"
	"github.com/bimal-bp/DPR/pkg/logger"
)

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
		Str("store", cfg.Ledger.Store).
		Dur("tx_timeout", cfg.Ledger.TxTimeout).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET requerido")
	}

	ctx := context.Background()

	var (
		txRunner    inventory.TxRunner
		productRepo repository.ProductRepository
	)
	switch cfg.Ledger.Store {
	case config.StoreMemory:
		store := memory.NewStore(cfg.Ledger.TxTimeout)
		if cfg.Ledger.CatalogFile != "" {
			if err := seedMemory(store, cfg.Ledger.CatalogFile, cfg.Ledger.CatalogCharset); err != nil {
				log.Fatal().Err(err).Str("file", cfg.Ledger.CatalogFile).Msg("cargar catálogo")
			}
		}
		txRunner, productRepo = store, store.Products()
		log.Warn().Msg("store en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		txRunner = postgres.NewTxRunner(pool, cfg.Ledger.TxTimeout)
		productRepo = postgres.NewProductRepository(pool)
	}

	productUC := usecase.NewProductUseCase(productRepo, cfg.Ledger.TxTimeout)
	resolver := inventory.NewResolver(txRunner)
	saveDayUC := inventory.NewSaveDayUseCase(txRunner, log.Named("save_day"))
	dailyViewUC := inventory.NewDailyViewUseCase(txRunner)
	historyUC := inventory.NewHistoryUseCase(txRunner)

	// PDF: reporte de rango por categoría
	pdfGenerator := infrapdf.NewMarotoReportGenerator(cfg.App.Name)
	reportUC := inventory.NewReportUseCase(historyUC, pdfGenerator, cfg.Ledger.PDFTitle)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Named("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.HTTP.DocsFile != "" {
		if err := httpRouter.MountDocs(app, cfg.HTTP.DocsFile, cfg.App.Name+" API"); err != nil {
			log.Warn().Err(err).Msg("documentación OpenAPI no disponible")
		}
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC: productUC,
		Resolver:  resolver,
		SaveDay:   saveDayUC,
		DailyView: dailyViewUC,
		History:   historyUC,
		Report:    reportUC,
		JWTSecret: cfg.JWT.Secret,
		Logger:    log,
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

func seedMemory(store *memory.Store, path, charset string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	products, err := catalog.Load(f, charset)
	if err != nil {
		return err
	}
	return store.Seed(products...)
}
