package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/fadilmartias/panel-review/internal/config"
	"github.com/fadilmartias/panel-review/internal/domain/fiber/handler"
	"github.com/fadilmartias/panel-review/internal/middleware"
	"github.com/fadilmartias/panel-review/internal/model"
	"github.com/fadilmartias/panel-review/internal/panel"
	"github.com/fadilmartias/panel-review/internal/repository"
	"github.com/fadilmartias/panel-review/internal/service"
	"github.com/fadilmartias/panel-review/internal/storage"
	"github.com/fadilmartias/panel-review/internal/usecase"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Load .env file
	ctx := context.Background()
	err := godotenv.Load()
	if err != nil {
		log.Println("Could not load .env file")
	}

	appConfig := config.LoadAppConfig()

	app := fiber.New(fiber.Config{
		AppName: appConfig.Name,
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			// Status code defaults to 500
			code := fiber.StatusInternalServerError

			// Retrieve the custom status code if it's a *fiber.Error
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}

			message := err.Error()
			if message == "" {
				message = "Internal Server Error"
			}

			return ctx.Status(code).JSON(fiber.Map{"error": message})
		},
	})
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))
	// Use middleware
	app.Use(recover.New(recover.Config{
		EnableStackTrace: config.LoadAppConfig().Env != "production",
	}))

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed, // 1
	}))
	app.Use(pprof.New(pprof.Config{
		Next: func(c *fiber.Ctx) bool {
			return config.LoadAppConfig().Env != "production"
		},
	}))
	app.Use(healthcheck.New())

	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))

	app.Use(middleware.RateLimiter(50, 1*time.Minute))

	db := ConnectDB()

	jobRepo := repository.NewPanelJobRepository(db)
	candidateRepo := repository.NewCandidateRepository(db)
	groupRepo := repository.NewCandidateGroupRepository(db)
	analysisRepo := repository.NewInterviewAnalysisRepository(db)
	positionRepo := repository.NewPositionRepository(db)
	artifacts := storage.NewLocalStore()

	gemini, err := service.NewGeminiService(ctx)
	if err != nil {
		log.Fatal(err)
	}

	// Embeddings always go through Gemini; the panel speaker can be
	// switched to OpenRouter per deployment.
	var speaker panel.Speaker = gemini
	if os.Getenv("PANEL_PROVIDER") == "openrouter" {
		speaker = service.NewOpenRouterService()
	}

	uc := usecase.NewPanelUsecase(jobRepo, candidateRepo, groupRepo, analysisRepo, positionRepo, artifacts, speaker, gemini)
	handler := handler.NewPanelHandler(uc)

	handler.RegisterRoutes(app)

	// Monitor goroutine count
	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			log.Printf("Active goroutines: %d", runtime.NumGoroutine())
		}
	}()

	log.Println("Server running on ", appConfig.Port)
	if err := app.Listen(appConfig.Port); err != nil {
		log.Fatal(err)
	}
}

func ConnectDB() *gorm.DB {
	dbConfig := config.LoadDBConfig()
	appConfig := config.LoadAppConfig()

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=Asia/Jakarta",
		dbConfig.Host,
		dbConfig.User,
		dbConfig.Password,
		dbConfig.Name,
		dbConfig.Port,
		dbConfig.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}
	pgDB, err := db.DB()
	if err != nil {
		log.Fatalf("Could not get database instance: %v", err)
	}
	if appConfig.Env != "production" {
		pgDB.SetMaxIdleConns(5)
		pgDB.SetMaxOpenConns(10)
		pgDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		pgDB.SetMaxIdleConns(20)
		pgDB.SetMaxOpenConns(200)
		pgDB.SetConnMaxLifetime(time.Hour)
	}

	// migrasi tabel
	err = db.AutoMigrate(&model.Position{}, &model.CandidateGroup{}, &model.Candidate{}, &model.InterviewAnalysis{}, &model.PanelJob{})
	if err != nil {
		log.Fatal("migration failed: ", err)
	}
	return db
}
