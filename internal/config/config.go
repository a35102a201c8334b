package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultServerPort      = 8080
	DefaultTokenTTLMinutes = 1440
	DefaultLoginRatePerMin = 10
	DefaultESIndex         = "books"
)

var ErrMissingEnv = errors.New("missing required env")

type Config struct {
	ServerPort int
	LogLevel   string

	DatabaseURL string

	JWTSecret []byte
	TokenTTL  time.Duration

	LoginRatePerMin int

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string
}

// Load reads .env when present, then the process environment.
func Load() Config {
	_ = godotenv.Load(".env")

	return Config{
		ServerPort: EnvIntDefault("SERVER_PORT", DefaultServerPort),
		LogLevel:   EnvDefault("LOG_LEVEL", "info"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret: []byte(os.Getenv("JWT_SECRET")),
		TokenTTL:  time.Duration(EnvIntDefault("TOKEN_TTL_MINUTES", DefaultTokenTTLMinutes)) * time.Minute,

		LoginRatePerMin: EnvIntDefault("LOGIN_RATE_PER_MIN", DefaultLoginRatePerMin),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", DefaultESIndex),
	}
}

// Validate reports the first required key that is empty.
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return missing("DATABASE_URL")
	}
	if len(c.JWTSecret) == 0 {
		return missing("JWT_SECRET")
	}
	return nil
}

func missing(env string) error {
	return &MissingEnvError{Name: env}
}

type MissingEnvError struct {
	Name string
}

func (e *MissingEnvError) Error() string { return ErrMissingEnv.Error() + " " + e.Name }

func (e *MissingEnvError) Unwrap() error { return ErrMissingEnv }

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
