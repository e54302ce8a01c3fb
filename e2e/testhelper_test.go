package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/sarabsinghsaluja/moodboard-agent/internal/handler"
	"github.com/sarabsinghsaluja/moodboard-agent/internal/middleware"
	"github.com/sarabsinghsaluja/moodboard-agent/internal/service"
)

// testApp holds all components needed for testing
type testApp struct {
	app   *fiber.App
	redis *redis.Client
}

// setupApp creates a Fiber app identical to main.go but with unconfigured
// external clients. This triggers mock/fallback responses in all services.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	// Redis (localhost, DB 15 to avoid collision). Sync endpoints work
	// without it: the rate limiter fails open and the cache is best-effort.
	redisClient := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15,
	})

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr: "localhost:6379",
		DB:   15,
	})
	t.Cleanup(func() { asynqClient.Close() })

	validate := validator.New()

	// nil clients → services use mock fallbacks
	analyzeService := service.NewAnalyzeService(nil)
	matcherService := service.NewMatcherService(nil, redisClient)
	jobService := service.NewJobService(redisClient, asynqClient)

	analyzeHandler := handler.NewAnalyzeHandler(analyzeService, matcherService, jobService, validate)
	moodHandler := handler.NewMoodHandler(analyzeService)
	recommendHandler := handler.NewRecommendHandler(matcherService, validate)

	authMiddleware := middleware.NewAuthMiddleware(false, "")
	rateLimiter := middleware.NewRateLimiter(redisClient)

	app := fiber.New(fiber.Config{
		BodyLimit: 12 * 1024 * 1024,
	})

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"name": "MoodBoard Agent API", "version": "test"})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"services": fiber.Map{
				"vision":  analyzeService.IsConfigured(),
				"spotify": matcherService.IsConfigured(),
			},
		})
	})

	api := app.Group("/", authMiddleware.Authenticate())

	api.Get("/moods", moodHandler.List)

	// Use very high rate limits so tests don't get blocked
	api.Post("/mood", rateLimiter.AnalyzeLimit(10000), moodHandler.Analyze)
	api.Post("/analyze", rateLimiter.AnalyzeLimit(10000), analyzeHandler.Analyze)
	api.Post("/analyze/async", rateLimiter.AnalyzeLimit(10000), analyzeHandler.AnalyzeAsync)
	api.Get("/analyze/status/:jobId", analyzeHandler.Status)
	api.Get("/analyze/result/:jobId", analyzeHandler.Result)
	api.Post("/analyze/cancel/:jobId", analyzeHandler.Cancel)

	recommend := api.Group("/", rateLimiter.RecommendLimit(10000))
	recommend.Get("/recommendations/:mood", recommendHandler.Tracks)
	recommend.Get("/playlists/:mood", recommendHandler.Playlists)

	return &testApp{app: app, redis: redisClient}
}

// requireRedis skips the test when localhost redis is not reachable.
func requireRedis(t *testing.T, ta *testApp) {
	t.Helper()
	if err := ta.redis.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis not available: %v", err)
	}
}

// pngBytes is a minimal payload http.DetectContentType identifies as a PNG.
func pngBytes() []byte {
	header := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	return append(header, make([]byte, 256)...)
}

// createImageRequest builds a multipart/form-data request carrying an image.
func createImageRequest(t *testing.T, path string, filename, contentType string, data []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	partHeader := make(textproto.MIMEHeader)
	partHeader.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	partHeader.Set("Content-Type", contentType)
	part, err := writer.CreatePart(partHeader)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	_, _ = part.Write(data)
	writer.Close()

	req, err := http.NewRequest(http.MethodPost, path, &buf)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

// doRequest is a helper to perform HTTP requests against the test app.
func doRequest(app *fiber.App, method, path string, body string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != "" {
		bodyReader = strings.NewReader(body)
	}

	req, err := http.NewRequest(method, path, bodyReader)
	if err != nil {
		return nil, err
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	return app.Test(req, -1)
}

// readBody reads and returns the response body as a string.
func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return string(b)
}

// parseJSON parses response body into a map.
func parseJSON(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	body := readBody(t, resp)
	var result map[string]interface{}
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, body)
	}
	return result
}

// assertStatus checks the HTTP status code.
func assertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Errorf("expected status %d, got %d", expected, resp.StatusCode)
	}
}
