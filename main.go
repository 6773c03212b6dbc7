package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"handmadehub/internal/config"
	"handmadehub/internal/handlers"
	"handmadehub/internal/middleware"
	"handmadehub/internal/models"
	"handmadehub/internal/repositories"
	"handmadehub/internal/services"
	"handmadehub/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()

	// --- Database ---
	db, err := openDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.Product{}, &models.Order{},
		&models.Blog{}, &models.State{}, &models.Contact{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- RabbitMQ ---
	// The event bus is optional: a marketplace without a broker still
	// serves orders, it just skips fulfillment events.
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Printf("Warning: RabbitMQ unavailable, order events disabled: %v", err)
			mqClient = nil
		} else {
			defer mqClient.Close()
		}
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	blogRepo := repositories.NewGORMBlogRepository(db)
	stateRepo := repositories.NewGORMStateRepository(db)
	contactRepo := repositories.NewGORMContactRepository(db)

	// --- Services ---
	authService := services.NewAuthService(userRepo, cfg.JWTSecret)
	productService := services.NewProductService(productRepo, cfg.UploadDir)
	contentService := services.NewContentService(blogRepo, stateRepo, contactRepo)
	adminService := services.NewAdminService(userRepo, productRepo, orderRepo)
	var orderService *services.OrderService
	if mqClient != nil {
		orderService = services.NewOrderService(orderRepo, mqClient)
	} else {
		orderService = services.NewOrderService(orderRepo, nil)
	}

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(authService)
	adminHandler := handlers.NewAdminHandler(authService, adminService)
	productHandler := handlers.NewProductHandler(productService)
	artisanHandler := handlers.NewArtisanHandler(productService, orderService)
	orderHandler := handlers.NewOrderHandler(orderService)
	contentHandler := handlers.NewContentHandler(contentService)

	// --- Fiber app ---
	app := fiber.New()
	app.Use(logger.New())

	requireAuth := middleware.AuthRequired(authService)
	api := app.Group("/api")

	authHandler.RegisterRoutes(api)
	userHandler.RegisterRoutes(api, requireAuth)
	adminHandler.RegisterRoutes(api, requireAuth)
	productHandler.RegisterRoutes(api, requireAuth)
	artisanHandler.RegisterRoutes(api, requireAuth)
	orderHandler.RegisterRoutes(api, requireAuth)
	contentHandler.RegisterRoutes(api, requireAuth)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Order event consumer ---
	if mqClient != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for order events...")
			handler := func(msg amqp.Delivery) error {
				log.Printf("Received order event (tag %d): %s", msg.DeliveryTag, string(msg.Body))
				return nil
			}
			if consumerErr := mqClient.ConsumeOrderEvents(handler); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	}

	// --- Start HTTP server ---
	log.Printf("Starting server on %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// openDatabase picks postgres when DATABASE_URL is set, sqlite otherwise.
// TranslateError turns driver-specific unique violations into
// gorm.ErrDuplicatedKey, which the repositories depend on.
func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{TranslateError: true}
	if cfg.DatabaseURL != "" {
		return gorm.Open(postgres.Open(cfg.DatabaseURL), gormCfg)
	}
	return gorm.Open(sqlite.Open(cfg.SQLitePath), gormCfg)
}
