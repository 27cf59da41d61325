package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the server and the seed command.
type Config struct {
	ServerPort      string
	MongoURI        string
	MongoDBName     string
	JWTSecret       string
	TokenTTL        time.Duration
	CORSOrigin      string
	LogFile         string
	LogLevel        string
	UploadMaxMemory int64
	RateLimit       float64
	RateBurst       int
	SeedRandom      uint64
}

// Load reads envFile when it exists and then the process environment.
// A missing envFile is not an error; variables already set win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		ServerPort:  getEnv("SERVER_PORT", "3000"),
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName: getEnv("MONGO_DB_NAME", "taskoo"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		CORSOrigin:  getEnv("CORS_ORIGIN", "http://localhost:5173"),
		LogFile:     getEnv("LOG_FILE", "logs/taskoo.log"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.TokenTTL, err = getDuration("TOKEN_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.UploadMaxMemory, err = getInt64("UPLOAD_MAX_MEMORY", 32<<20); err != nil {
		return nil, err
	}
	if cfg.RateLimit, err = getFloat("RATE_LIMIT", 20); err != nil {
		return nil, err
	}
	burst, err := getInt64("RATE_BURST", 40)
	if err != nil {
		return nil, err
	}
	cfg.RateBurst = int(burst)
	seed, err := getInt64("SEED_RANDOM", 0)
	if err != nil {
		return nil, err
	}
	cfg.SeedRandom = uint64(seed)

	return cfg, nil
}

// Validate reports settings the HTTP server cannot run without.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	if c.ServerPort == "" {
		return errors.New("SERVER_PORT is not set")
	}
	if c.RateLimit <= 0 || c.RateBurst <= 0 {
		return fmt.Errorf("invalid rate limit %v/%d", c.RateLimit, c.RateBurst)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

func getInt64(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return f, nil
}
