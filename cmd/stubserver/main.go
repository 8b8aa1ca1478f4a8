// El stub server implementa en memoria la superficie /api/inventory/ del
// backend real, para desarrollar y probar el dashboard sin infraestructura.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/tu-usuario/inventario-dashboard/internal/application/analytics"
	"github.com/tu-usuario/inventario-dashboard/internal/application/ingest"
	"github.com/tu-usuario/inventario-dashboard/internal/infrastructure/excel"
	"github.com/tu-usuario/inventario-dashboard/internal/infrastructure/memory"
	"github.com/tu-usuario/inventario-dashboard/internal/infrastructure/pdf"
	httpRouter "github.com/tu-usuario/inventario-dashboard/internal/interfaces/http"
	"github.com/tu-usuario/inventario-dashboard/pkg/config"
	"github.com/tu-usuario/inventario-dashboard/pkg/logger"
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
		Str("addr", cfg.HTTP.Addr()).
		Msg("iniciando stub server de inventario")

	store := memory.NewStore()
	analysisUC := analytics.NewAnalysisUseCase(store)
	ingestUC := ingest.New(store, excel.Parser{}, memory.Checksum, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name + "-stub",
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 60, // las exportaciones pueden ser grandes
		IdleTimeout:  time.Second * 60,
		BodyLimit:    64 * 1024 * 1024, // archivos Excel de carga
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name + "-stub"})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Store:    store,
		Analysis: analysisUC,
		Ingest:   ingestUC,
		PDF:      pdf.NewReportGenerator(),
		Log:      log,
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
}
