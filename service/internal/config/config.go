// internal/config/config.go
package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	engine "github.com/jason-s-yu/idiomchain/engine"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds all service configuration.
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Game      GameConfig
	Benchmark BenchmarkConfig
	Logging   LoggingConfig
}

// ServerConfig holds listener and auth settings.
type ServerConfig struct {
	Port      string
	Host      string
	JWTSecret string // empty disables token checks
}

// StorageConfig locates the corpus, the battle store and Redis.
type StorageConfig struct {
	CorpusPath  string
	DatabaseURL string // Postgres; when empty DBPath is used
	DBPath      string // SQLite file
	RedisURL    string // empty disables turn publishing
}

// GameConfig holds match rules and move-source limits.
type GameConfig struct {
	MaxRounds      int
	ValidationMode engine.Mode
	LLMTimeout     time.Duration
}

// BenchmarkConfig holds benchmark defaults.
type BenchmarkConfig struct {
	MaxConcurrency int
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string
	Format string // "json" or "text"
}

// Load reads .env if present, then the environment, applying defaults.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warnf("Error loading .env file: %v", err)
	}
	return &Config{
		Server: ServerConfig{
			Port:      getEnv("PORT", "8080"),
			Host:      getEnv("HOST", "0.0.0.0"),
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		Storage: StorageConfig{
			CorpusPath:  getEnv("CORPUS_PATH", "data/chengyu.json"),
			DatabaseURL: getEnv("DATABASE_URL", ""),
			DBPath:      getEnv("DB_PATH", "battles.db"),
			RedisURL:    getEnv("REDIS_URL", ""),
		},
		Game: GameConfig{
			MaxRounds:      getEnvInt("MAX_ROUNDS", engine.MaxRounds),
			ValidationMode: engine.ParseMode(getEnv("VALIDATION_MODE", engine.ModeExactChar.String())),
			LLMTimeout:     time.Duration(getEnvInt("LLM_TIMEOUT_SECONDS", 60)) * time.Second,
		},
		Benchmark: BenchmarkConfig{
			MaxConcurrency: getEnvInt("BENCHMARK_MAX_CONCURRENCY", 5),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}
}

// Addr returns the listen address in host:port form.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// Rules returns the match rules configured for the service.
func (c *Config) Rules() engine.Rules {
	return engine.Rules{MaxRounds: c.Game.MaxRounds, Mode: c.Game.ValidationMode}
}

// SetupLogging applies the logging level and format to the global logger.
func (c *Config) SetupLogging() {
	if c.Logging.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	level, err := log.ParseLevel(c.Logging.Level)
	if err != nil {
		log.Warnf("Unknown LOG_LEVEL %q, using info", c.Logging.Level)
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Warnf("Invalid integer for %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}
