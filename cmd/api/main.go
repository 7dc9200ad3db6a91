package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-retail-pos/internal/events"
	"go-retail-pos/internal/handler"
	"go-retail-pos/internal/middleware"
	"go-retail-pos/internal/repository"
	"go-retail-pos/internal/service"
	"go-retail-pos/internal/ws"
	"go-retail-pos/pkg/config"
	"go-retail-pos/pkg/database"
	"go-retail-pos/pkg/jwt"
	applog "go-retail-pos/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := applog.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	// 2. Setup Database
	db, err := database.Connect(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := repository.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to migrate schema", zap.Error(err))
	}

	// 3. Setup event fan-out: websocket hub always, Kafka when configured
	wsHub := ws.NewHub(logger.Named("ws"))
	go wsHub.Run()
	defer wsHub.Stop()

	publishers := events.Multi{wsHub}
	if cfg.KafkaBrokers != "" {
		kafka := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger.Named("kafka"))
		defer kafka.Close()
		publishers = append(publishers, kafka)
		logger.Info("Kafka ledger events enabled", zap.String("topic", cfg.KafkaTopic))
	}

	// 4. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	additionRepo := repository.NewStockAdditionRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	userRepo := repository.NewUserRepo(db)
	tokens := jwt.NewManager(cfg.JWTSecret, cfg.JWTTTL)

	ledgerService := service.NewLedgerService(productRepo, additionRepo, saleRepo, userRepo, db, publishers, logger.Named("ledger"))
	catalogService := service.NewCatalogService(productRepo, additionRepo, db, publishers, logger.Named("catalog"))
	authService := service.NewAuthService(userRepo, tokens, logger.Named("auth"))
	userService := service.NewUserService(userRepo, logger.Named("users"))
	dashService := service.NewDashboardService(productRepo, saleRepo)
	reportService := service.NewReportService(ledgerService, productRepo, service.ReportSettings{
		BusinessName: cfg.BusinessName,
		Currency:     cfg.Currency,
	}, logger.Named("reports"))

	// 5. Seed admin user and optional sample catalog
	seed(cfg, userRepo, productRepo, catalogService, logger)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Retail POS v1.0",
	})

	// Middleware
	app.Use(recover.New()) // Panic recovery
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(logger.Named("http")))
	app.Use(cors.New())

	// 7. Routes
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "ws_clients": wsHub.ClientCount()})
	})

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Join(c)
		defer wsHub.Leave(c)

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	handler.RegisterRoutes(app, &handler.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Users:     handler.NewUserHandler(userService),
		Products:  handler.NewProductHandler(catalogService),
		Ledger:    handler.NewLedgerHandler(ledgerService),
		Dashboard: handler.NewDashboardHandler(dashService),
		Reports:   handler.NewReportHandler(reportService),
	}, authService)

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Panic("Server stopped", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
