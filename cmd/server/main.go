package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/sarabsinghsaluja/moodboard-agent/internal/client"
	"github.com/sarabsinghsaluja/moodboard-agent/internal/config"
	"github.com/sarabsinghsaluja/moodboard-agent/internal/handler"
	"github.com/sarabsinghsaluja/moodboard-agent/internal/middleware"
	"github.com/sarabsinghsaluja/moodboard-agent/internal/service"
	"github.com/sarabsinghsaluja/moodboard-agent/internal/worker"
	ws "github.com/sarabsinghsaluja/moodboard-agent/internal/websocket"
)

const version = "0.1.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Test Redis connection
	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: Redis not available: %v", err)
	}

	// Initialize Asynq client
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer asynqClient.Close()

	// Initialize validator
	validate := validator.New()

	// Initialize WebSocket hub
	hub := ws.NewHub()
	go hub.Run()

	// External clients
	visionClient := newVisionClient(cfg)
	spotifyClient := client.NewSpotifyClient(&cfg.Spotify)

	// Initialize services
	analyzeService := service.NewAnalyzeService(visionClient)
	matcherService := service.NewMatcherService(spotifyClient, redisClient)
	jobService := service.NewJobService(redisClient, asynqClient)

	// Initialize handlers
	analyzeHandler := handler.NewAnalyzeHandler(analyzeService, matcherService, jobService, validate)
	moodHandler := handler.NewMoodHandler(analyzeService)
	recommendHandler := handler.NewRecommendHandler(matcherService, validate)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.Auth.Enabled, cfg.Auth.JWTSecret)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    12 * 1024 * 1024, // 10MB images plus multipart overhead
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Root and health
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"name":        "MoodBoard Agent API",
			"version":     version,
			"description": "Upload an image to detect its mood and get matching music",
			"endpoints": fiber.Map{
				"POST /analyze":               "Upload image for complete mood + music analysis",
				"POST /analyze/async":         "Queue analysis as a background job",
				"POST /mood":                  "Analyze image mood only",
				"GET /moods":                  "List all available moods",
				"GET /recommendations/:mood":  "Get music recommendations for a mood",
				"GET /playlists/:mood":        "Search playlists matching a mood",
			},
		})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"services": fiber.Map{
				"vision":  analyzeService.IsConfigured(),
				"spotify": matcherService.IsConfigured(),
				"redis":   redisClient.Ping(c.Context()).Err() == nil,
			},
		})
	})

	// API routes
	authHandler := authMiddleware.Authenticate()
	if cfg.Gateway.Enabled {
		authHandler = middleware.GatewayAuthMiddleware()
	}
	api := app.Group("/", authHandler)

	api.Get("/moods", moodHandler.List)
	api.Post("/mood", rateLimiter.AnalyzeLimit(cfg.RateLimit.AnalyzePerMin), moodHandler.Analyze)

	api.Post("/analyze", rateLimiter.AnalyzeLimit(cfg.RateLimit.AnalyzePerMin), analyzeHandler.Analyze)
	api.Post("/analyze/async", rateLimiter.AnalyzeLimit(cfg.RateLimit.AnalyzePerMin), analyzeHandler.AnalyzeAsync)
	api.Get("/analyze/status/:jobId", analyzeHandler.Status)
	api.Get("/analyze/result/:jobId", analyzeHandler.Result)
	api.Post("/analyze/cancel/:jobId", analyzeHandler.Cancel)

	recommend := api.Group("/", rateLimiter.RecommendLimit(cfg.RateLimit.RecommendPerMin))
	recommend.Get("/recommendations/:mood", recommendHandler.Tracks)
	recommend.Get("/playlists/:mood", recommendHandler.Playlists)

	// WebSocket routes
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/jobs/:jobId", websocket.New(func(c *websocket.Conn) {
		jobID := c.Params("jobId")
		hub.HandleConnection(c, jobID)
	}))

	// Start Asynq worker server
	go startWorkerServer(cfg, jobService, analyzeService, matcherService, hub)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// Start server
	addr := ":" + cfg.Server.Port
	log.Printf("Server starting on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func newVisionClient(cfg *config.Config) client.VisionClient {
	timeout := time.Duration(cfg.Vision.Timeout) * time.Second

	switch cfg.Vision.Provider {
	case "anthropic":
		return client.NewAnthropicClient(&cfg.Anthropic, timeout)
	default:
		return client.NewOpenAIClient(&cfg.OpenAI, timeout)
	}
}

func startWorkerServer(cfg *config.Config, jobService *service.JobService, analyzeService *service.AnalyzeService, matcherService *service.MatcherService, hub *ws.Hub) {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: 4,
			Queues: map[string]int{
				"analyze": 10,
			},
		},
	)

	analyzeWorker := worker.NewAnalyzeWorker(jobService, analyzeService, matcherService, hub)

	mux := asynq.NewServeMux()
	mux.HandleFunc(service.TaskTypeAnalyze, analyzeWorker.ProcessTask)

	if err := srv.Run(mux); err != nil {
		log.Printf("Asynq worker error: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "SERVICE_ERROR",
			"message": message,
		},
	})
}
