package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"reward-claim-system/handlers"
	"reward-claim-system/middleware"
	"reward-claim-system/models"
	"reward-claim-system/services"
	"reward-claim-system/utils"
	"reward-claim-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{})

	// 🔐❗ GLOBAL: Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	// Load allowed origins from environment variable
	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-User-ID",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Profile{},
		&models.TaskCompletion{},
		&models.CreditEntry{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	registry := services.NewTaskRegistry(services.DefaultTasks())
	claimService := services.NewClaimService(db, registry)
	claimService.Timeout = envDuration("CLAIM_TIMEOUT_MS", 5000)

	// Weights derived from the wheel layout keep visual odds equal to real odds;
	// custom weights may be configured, but drift is a config bug worth flagging.
	spinWeights := services.LayoutWeights(services.DefaultLayout)
	spinService := services.NewSpinService(spinWeights, services.DefaultLayout)
	if diff := services.CheckLayoutWeights(spinService.Layout, spinService.Weights); diff > 0.01 {
		log.Printf("⚠️  Spin layout slice ratios diverge from configured weights by %.3f — visual odds will not match real odds", diff)
	}

	socialProofService := services.NewSocialProofService(
		envDuration("SOCIAL_PROOF_MIN_GAP_MS", 8000),
		envDuration("SOCIAL_PROOF_MAX_GAP_MS", 15000),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Ledger/balance consistency checks (report-only, see workers package)
	reconcileClient := workers.NewReconcileClient(db)
	go workers.PollReconcile(ctx, reconcileClient, 5*time.Minute)

	claimService.StartSnapshotScheduler()

	handlers.SetupTaskRoutes(app, claimService)
	handlers.SetupSpinRoutes(app, spinService)
	handlers.SetupSocialRoutes(app, socialProofService)

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5300")
	log.Println("✅ Ledger reconciliation polling running (every 5m)")
	log.Println("✅ Snapshot scheduler running (hourly)")
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}

// envDuration reads a millisecond env var with a fallback.
func envDuration(key string, defaultMs int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			return time.Duration(ms) * time.Millisecond
		}
		log.Printf("⚠️  Invalid %s=%q, using default %dms", key, v, defaultMs)
	}
	return time.Duration(defaultMs) * time.Millisecond
}
