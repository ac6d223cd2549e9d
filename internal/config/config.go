// Package config reads runtime settings from the environment, loading a
// .env file first when one is present.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	DBPath    string
	LogLevel  string `validate:"oneof=trace debug info warn error fatal panic disabled"`
	LogFormat string `validate:"oneof=pretty json"`
	UserID    string `validate:"required"`
	Mode      string `validate:"required"`

	// GradeTimeLimits overrides the per-question time limit by grade.
	GradeTimeLimits map[int]int `validate:"dive,keys,min=1,max=12,endkeys,min=1"`

	PresentationDelay time.Duration `validate:"gte=0"`
	SubmitTimeout     time.Duration `validate:"gt=0"`

	// RedisURL enables the submission queue when set.
	RedisURL string `validate:"omitempty,url"`
}

// Load reads configuration from environment variables with defaults.
// A missing .env file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	limits, err := ParseGradeTimeLimits(getEnv("GRADE_TIME_LIMITS", ""))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DBPath:            getEnv("SEATWORK_DB", ""),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "pretty"),
		UserID:            getEnv("SEATWORK_USER", defaultUser()),
		Mode:              getEnv("SEATWORK_MODE", "practice"),
		GradeTimeLimits:   limits,
		PresentationDelay: time.Duration(getEnvInt("PRESENTATION_DELAY_MS", 1500)) * time.Millisecond,
		SubmitTimeout:     time.Duration(getEnvInt("SUBMIT_TIMEOUT_SECS", 10)) * time.Second,
		RedisURL:          getEnv("REDIS_URL", ""),
	}

	if err := validator.New().Struct(cfg); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			return nil, fmt.Errorf("invalid config: %s failed %q", ve[0].Field(), ve[0].Tag())
		}
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ParseGradeTimeLimits parses "grade:seconds" pairs separated by commas,
// e.g. "1:90,2:90". An empty string yields nil.
func ParseGradeTimeLimits(raw string) (map[int]int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	out := make(map[int]int)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		g, s, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("GRADE_TIME_LIMITS: %q is not grade:seconds", part)
		}
		grade, err := strconv.Atoi(strings.TrimSpace(g))
		if err != nil {
			return nil, fmt.Errorf("GRADE_TIME_LIMITS: bad grade %q", g)
		}
		secs, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("GRADE_TIME_LIMITS: bad seconds %q", s)
		}
		out[grade] = secs
	}
	return out, nil
}

func defaultUser() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "student"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
