package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

// readSecret reads a Docker secret from a file path specified by an env var
// with _FILE suffix. If FOO is already set directly, the file is skipped.
// If FOO_FILE is set, reads the file content and sets FOO.
func readSecret(envKey string) {
	if os.Getenv(envKey) != "" {
		return
	}
	fileKey := envKey + "_FILE"
	filePath := os.Getenv(fileKey)
	if filePath == "" {
		return
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return
	}
	val := strings.TrimSpace(string(data))
	os.Setenv(envKey, val)
}

type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Gateway   GatewayConfig
	RateLimit RateLimitConfig
	Vision    VisionConfig
	OpenAI    OpenAIConfig
	Anthropic AnthropicConfig
	Spotify   SpotifyConfig
}

type ServerConfig struct {
	Port     string
	Env      string
	LogLevel string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// AuthConfig controls the optional bearer-JWT gate on the API routes.
// Disabled by default; the public demo deployment runs open.
type AuthConfig struct {
	Enabled   bool
	JWTSecret string
}

// GatewayConfig enables trusting X-User-* identity headers set by an
// authenticating reverse proxy instead of verifying tokens locally.
type GatewayConfig struct {
	Enabled bool
}

type RateLimitConfig struct {
	AnalyzePerMin   int
	RecommendPerMin int
}

// VisionConfig selects which vision provider performs mood analysis.
type VisionConfig struct {
	Provider string // "openai" or "anthropic"
	Timeout  int    // seconds
}

type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

type AnthropicConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Version string
}

type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
	Market       string
}

func Load() (*Config, error) {
	// Read Docker Swarm secrets from _FILE env vars before Viper binds
	readSecret("REDIS_PASSWORD")
	readSecret("JWT_SECRET")
	readSecret("OPENAI_API_KEY")
	readSecret("ANTHROPIC_API_KEY")
	readSecret("SPOTIFY_CLIENT_SECRET")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Environment variables
	viper.AutomaticEnv()

	// Bind environment variables with underscores to nested config keys
	_ = viper.BindEnv("server.port", "SERVER_PORT")
	_ = viper.BindEnv("server.env", "SERVER_ENV")
	_ = viper.BindEnv("server.log_level", "LOG_LEVEL")
	_ = viper.BindEnv("redis.addr", "REDIS_ADDR")
	_ = viper.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = viper.BindEnv("redis.db", "REDIS_DB")
	_ = viper.BindEnv("auth.enabled", "AUTH_ENABLED")
	_ = viper.BindEnv("auth.jwt_secret", "JWT_SECRET")
	_ = viper.BindEnv("gateway.enabled", "GATEWAY_ENABLED")
	_ = viper.BindEnv("ratelimit.analyze_per_min", "RATELIMIT_ANALYZE_PER_MIN")
	_ = viper.BindEnv("ratelimit.recommend_per_min", "RATELIMIT_RECOMMEND_PER_MIN")
	_ = viper.BindEnv("vision.provider", "VISION_PROVIDER")
	_ = viper.BindEnv("vision.timeout", "VISION_TIMEOUT")
	_ = viper.BindEnv("openai.api_key", "OPENAI_API_KEY")
	_ = viper.BindEnv("openai.base_url", "OPENAI_BASE_URL")
	_ = viper.BindEnv("openai.model", "OPENAI_MODEL")
	_ = viper.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")
	_ = viper.BindEnv("anthropic.base_url", "ANTHROPIC_BASE_URL")
	_ = viper.BindEnv("anthropic.model", "ANTHROPIC_MODEL")
	_ = viper.BindEnv("anthropic.version", "ANTHROPIC_VERSION")
	_ = viper.BindEnv("spotify.client_id", "SPOTIFY_CLIENT_ID")
	_ = viper.BindEnv("spotify.client_secret", "SPOTIFY_CLIENT_SECRET")
	_ = viper.BindEnv("spotify.market", "SPOTIFY_MARKET")

	// Defaults
	viper.SetDefault("server.port", "8000")
	viper.SetDefault("server.env", "development")
	viper.SetDefault("server.log_level", "info")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("auth.enabled", false)
	viper.SetDefault("auth.jwt_secret", "change-me-in-production")
	viper.SetDefault("gateway.enabled", false)
	viper.SetDefault("ratelimit.analyze_per_min", 10)
	viper.SetDefault("ratelimit.recommend_per_min", 60)

	// Vision defaults
	viper.SetDefault("vision.provider", "openai")
	viper.SetDefault("vision.timeout", 60)
	viper.SetDefault("openai.base_url", "https://api.openai.com/v1")
	viper.SetDefault("openai.model", "gpt-4o")
	viper.SetDefault("anthropic.base_url", "https://api.anthropic.com")
	viper.SetDefault("anthropic.model", "claude-3-5-sonnet-20241022")
	viper.SetDefault("anthropic.version", "2023-06-01")

	// Spotify defaults
	viper.SetDefault("spotify.market", "US")

	// Try to read config file (optional)
	_ = viper.ReadInConfig()

	cfg := &Config{
		Server: ServerConfig{
			Port:     viper.GetString("server.port"),
			Env:      viper.GetString("server.env"),
			LogLevel: viper.GetString("server.log_level"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("redis.addr"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		Auth: AuthConfig{
			Enabled:   viper.GetBool("auth.enabled"),
			JWTSecret: viper.GetString("auth.jwt_secret"),
		},
		Gateway: GatewayConfig{
			Enabled: viper.GetBool("gateway.enabled"),
		},
		RateLimit: RateLimitConfig{
			AnalyzePerMin:   viper.GetInt("ratelimit.analyze_per_min"),
			RecommendPerMin: viper.GetInt("ratelimit.recommend_per_min"),
		},
		Vision: VisionConfig{
			Provider: viper.GetString("vision.provider"),
			Timeout:  viper.GetInt("vision.timeout"),
		},
		OpenAI: OpenAIConfig{
			APIKey:  viper.GetString("openai.api_key"),
			BaseURL: viper.GetString("openai.base_url"),
			Model:   viper.GetString("openai.model"),
		},
		Anthropic: AnthropicConfig{
			APIKey:  viper.GetString("anthropic.api_key"),
			BaseURL: viper.GetString("anthropic.base_url"),
			Model:   viper.GetString("anthropic.model"),
			Version: viper.GetString("anthropic.version"),
		},
		Spotify: SpotifyConfig{
			ClientID:     viper.GetString("spotify.client_id"),
			ClientSecret: viper.GetString("spotify.client_secret"),
			Market:       viper.GetString("spotify.market"),
		},
	}

	return cfg, nil
}
