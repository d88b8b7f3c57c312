package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-storefront-api/internal/cache"
	"go-storefront-api/internal/handler"
	"go-storefront-api/internal/ledger"
	"go-storefront-api/internal/mailer"
	"go-storefront-api/internal/media"
	"go-storefront-api/internal/middleware"
	"go-storefront-api/internal/model"
	"go-storefront-api/internal/repository"
	"go-storefront-api/internal/service"
	"go-storefront-api/internal/ws"
	"go-storefront-api/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	db.AutoMigrate(&model.Product{}, &model.Image{}, &model.User{})

	// 3. Seed default admin user
	seedAdmin(db)

	// 4. Media host (S3-compatible). Catalog reads still work without it.
	storage, err := media.NewS3FromEnv(context.Background())
	if err != nil {
		log.Printf("Warning: media storage disabled: %v", err)
		storage = media.Disabled()
	}

	// 5. Optional catalog cache
	catalogCache := cache.Noop()
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		catalogCache = cache.NewRedis(addr)
		log.Println("Catalog cache enabled via Redis at " + addr)
	}

	// 6. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 7. Server-side sessions (cookie carries only the session ID)
	sessionStore := session.New(session.Config{
		Expiration:     24 * time.Hour,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})

	// 8. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	imageRepo := repository.NewImageRepo(db)
	userRepo := repository.NewUserRepo(db)

	stockLedger := ledger.New(db, productRepo, wsHub)
	catalogService := service.NewCatalogService(productRepo, imageRepo, db, storage, catalogCache, wsHub)
	authService := service.NewAuthService(userRepo)
	contactService := service.NewContactService(mailer.NewFromEnv())

	catalogHandler := handler.NewCatalogHandler(catalogService)
	checkoutHandler := handler.NewCheckoutHandler(stockLedger)
	authHandler := handler.NewAuthHandler(authService, sessionStore)
	contactHandler := handler.NewContactHandler(contactService)

	// 9. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Storefront API v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New(cors.Config{
		AllowOrigins:     getEnv("CORS_ORIGINS", "*"),
		AllowCredentials: os.Getenv("CORS_ORIGINS") != "",
	}))

	// 10. Routes
	api := app.Group("/api")

	// ============ PUBLIC ROUTES ============
	api.Get("/productos", catalogHandler.GetProducts)
	api.Get("/productos/:id", catalogHandler.GetProduct)
	api.Post("/actualizar-stock", checkoutHandler.UpdateStock)

	app.Post("/contacto", contactHandler.SendMessage)

	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/logout", authHandler.Logout)

	// ============ ADMIN ROUTES ============
	admin := api.Group("", middleware.RequireAdmin(sessionStore, userRepo))
	admin.Post("/productos", catalogHandler.CreateProduct)
	admin.Put("/productos/:id", catalogHandler.UpdateProduct)
	admin.Delete("/productos/:id", catalogHandler.DeleteProduct)
	admin.Post("/productos/:id/imagenes", catalogHandler.UploadImage)
	admin.Delete("/imagenes/:id", catalogHandler.DeleteImage)
	admin.Get("/auth/me", authHandler.Me)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 11. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// seedAdmin creates the default admin account when ADMIN_EMAIL and
// ADMIN_PASSWORD are set and no such user exists yet.
func seedAdmin(db *gorm.DB) {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}

	userRepo := repository.NewUserRepo(db)
	if _, err := userRepo.FindByEmail(email); err == nil {
		return
	}

	admin := &model.User{
		Email:   email,
		IsAdmin: true,
	}
	if err := admin.SetPassword(password); err != nil {
		log.Printf("Warning: failed to hash admin password: %v", err)
		return
	}
	if err := userRepo.Create(admin); err != nil {
		log.Printf("Warning: failed to create admin user: %v", err)
		return
	}
	log.Printf("Admin user created: %s", email)
}
