package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/aleman-inventario/internal/application/auth"
	"github.com/jhoicas/aleman-inventario/internal/application/catalog"
	"github.com/jhoicas/aleman-inventario/internal/application/inventory"
	"github.com/jhoicas/aleman-inventario/internal/application/usecase"
	infrapdf "github.com/jhoicas/aleman-inventario/internal/infrastructure/pdf"
	"github.com/jhoicas/aleman-inventario/internal/infrastructure/spreadsheet"
	"github.com/jhoicas/aleman-inventario/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/aleman-inventario/internal/interfaces/http"
	"github.com/jhoicas/aleman-inventario/pkg/config"
	"github.com/jhoicas/aleman-inventario/pkg/logger"
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
		Str("db_driver", cfg.DB.Driver).
		Str("stock_policy", cfg.Inventory.StockPolicy).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := storage.Open(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión al almacenamiento")
	}
	defer store.Close()

	authUC := auth.NewAuthUseCase(store.Users, store.Sessions, store.Locations, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log.Component("auth"))
	if created, err := authUC.EnsureAdmin(ctx, cfg.Admin.Login, cfg.Admin.Password, cfg.Admin.Name); err != nil {
		store.Close()
		log.Fatal().Err(err).Msg("aprovisionar administrador")
	} else if created {
		log.Info().Str("login", cfg.Admin.Login).Msg("administrador aprovisionado")
	}

	movementUC := inventory.NewMovementUseCase(
		store.Tx, store.Products, store.Locations, store.Movements,
		cfg.Inventory.RejectNegative(), cfg.Inventory.Places, log.Component("movimientos"),
	)
	stockUC := inventory.NewStockUseCase(
		store.Movements, store.Products, store.Locations,
		infrapdf.NewStockReportGenerator(cfg.App.Name),
	)
	cartUC := inventory.NewCartUseCase(movementUC, store.Tx, store.Products, store.Sessions, log.Component("carro"))
	importUC := catalog.NewImportUseCase(spreadsheet.Reader{}, store.Products, log.Component("importacion"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    spreadsheet.MaxUploadBytes + 1<<20,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Aleman Inventario API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		LocationUC: usecase.NewLocationUseCase(store.Locations),
		ProductUC:  usecase.NewProductUseCase(store.Products),
		ImportUC:   importUC,
		UserUC:     usecase.NewUserUseCase(store.Users, store.Sessions, store.Locations, log.Component("usuarios")),
		MovementUC: movementUC,
		StockUC:    stockUC,
		CartUC:     cartUC,
		Ping:       store.Ping,
		Service:    cfg.App.Name,
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
