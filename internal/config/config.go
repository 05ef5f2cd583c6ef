package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/playmatatu/plinko/internal/game"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Environment
	Environment string

	// Database
	DatabaseURL    string
	MigrateOnStart bool

	// Redis
	RedisURL string

	// Server
	Port        string
	FrontendURL string

	// Table
	TickRateHz      int
	Seed            int64
	BoardConfigPath string
	Table           game.Config

	// Security
	JWTSecret           string
	AdminSessionMinutes int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Database
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		MigrateOnStart: getEnv("MIGRATE_ON_START", "false") == "true",

		// Redis
		RedisURL: getEnv("REDIS_URL", ""),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Table
		TickRateHz:      getEnvInt("TICK_RATE_HZ", 60),
		Seed:            getEnvInt64("PLINKO_SEED", 0),
		BoardConfigPath: getEnv("BOARD_CONFIG_PATH", ""),

		// Security
		JWTSecret:           getEnv("JWT_SECRET", "change-me-in-production"),
		AdminSessionMinutes: getEnvInt("ADMIN_SESSION_MINUTES", 240),
	}

	table := game.DefaultConfig()
	if cfg.BoardConfigPath != "" {
		preset, err := LoadBoardFile(cfg.BoardConfigPath, table)
		if err != nil {
			log.Printf("[CONFIG] Ignoring board preset %s: %v", cfg.BoardConfigPath, err)
		} else {
			table = preset
			log.Printf("[CONFIG] Loaded board preset from %s", cfg.BoardConfigPath)
		}
	}
	cfg.Table = ApplyTableEnv(table)

	return cfg
}

// LoadBoardFile reads a YAML board preset on top of base. Keys missing from
// the file keep the value from base.
func LoadBoardFile(path string, base game.Config) (game.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read board preset: %w", err)
	}
	return ParseBoard(data, base)
}

// ParseBoard decodes a YAML board preset on top of base.
func ParseBoard(data []byte, base game.Config) (game.Config, error) {
	out := base.Clone()
	if err := yaml.Unmarshal(data, &out); err != nil {
		return base, fmt.Errorf("parse board preset: %w", err)
	}
	return out, nil
}

// ApplyTableEnv overrides table constants from PLINKO_* environment variables.
func ApplyTableEnv(t game.Config) game.Config {
	t = t.Clone()

	t.Gravity = getEnvFloat("PLINKO_GRAVITY", t.Gravity)
	t.BounceEnergyLoss = getEnvFloat("PLINKO_BOUNCE_ENERGY_LOSS", t.BounceEnergyLoss)
	t.Friction = getEnvFloat("PLINKO_FRICTION", t.Friction)
	t.MaxSpeed = getEnvFloat("PLINKO_MAX_SPEED", t.MaxSpeed)
	t.RandomBounceFactor = getEnvFloat("PLINKO_RANDOM_BOUNCE_FACTOR", t.RandomBounceFactor)
	t.InitialVelocityXRange = getEnvFloat("PLINKO_INITIAL_VELOCITY_X_RANGE", t.InitialVelocityXRange)
	t.InitialVelocityY = getEnvFloat("PLINKO_INITIAL_VELOCITY_Y", t.InitialVelocityY)

	t.CostPerPlay = getEnvFloat("PLINKO_COST_PER_PLAY", t.CostPerPlay)
	t.InitialBalance = getEnvFloat("PLINKO_INITIAL_BALANCE", t.InitialBalance)

	t.BallRadius = getEnvFloat("PLINKO_BALL_RADIUS", t.BallRadius)
	t.PegRadius = getEnvFloat("PLINKO_PEG_RADIUS", t.PegRadius)
	t.PegSpacing = getEnvFloat("PLINKO_PEG_SPACING", t.PegSpacing)
	t.Rows = getEnvInt("PLINKO_ROWS", t.Rows)
	t.TopOffset = getEnvFloat("PLINKO_TOP_OFFSET", t.TopOffset)
	t.DropHeight = getEnvFloat("PLINKO_DROP_HEIGHT", t.DropHeight)
	t.DropVariance = getEnvFloat("PLINKO_DROP_VARIANCE", t.DropVariance)

	t.Multipliers = getEnvFloats("PLINKO_MULTIPLIERS", t.Multipliers)
	t.BoxWidth = getEnvFloat("PLINKO_BOX_WIDTH", t.BoxWidth)
	t.BoxHeight = getEnvFloat("PLINKO_BOX_HEIGHT", t.BoxHeight)
	t.BoxSpacing = getEnvFloat("PLINKO_BOX_SPACING", t.BoxSpacing)
	t.PayoutInset = getEnvFloat("PLINKO_PAYOUT_INSET", t.PayoutInset)
	t.PayoutBottomOffset = getEnvFloat("PLINKO_PAYOUT_BOTTOM_OFFSET", t.PayoutBottomOffset)

	t.Width = getEnvFloat("PLINKO_WIDTH", t.Width)
	t.Height = getEnvFloat("PLINKO_HEIGHT", t.Height)

	return t
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// ParseFloatList parses a comma separated list such as "3,2,1.5,1,0,1,1.5,2,3".
func ParseFloatList(value string) ([]float64, error) {
	parts := strings.Split(value, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid list entry %q", p)
		}
		out = append(out, f)
	}
	return out, nil
}

func getEnvFloats(key string, defaultValue []float64) []float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	out, err := ParseFloatList(value)
	if err != nil {
		log.Printf("[CONFIG] Invalid %s: %v, keeping default", key, err)
		return defaultValue
	}
	return out
}
