package admin

import (
	"fmt"
	"log"
	"math"
	"strconv"

	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/plinko/internal/config"
	"github.com/playmatatu/plinko/internal/game"
	"github.com/playmatatu/plinko/internal/models"
)

// GetAllRuntimeConfig returns all runtime config entries
func GetAllRuntimeConfig(db *sqlx.DB) ([]models.RuntimeConfig, error) {
	var configs []models.RuntimeConfig
	err := db.Select(&configs, `
		SELECT key, value, value_type, description, updated_by, updated_at
		FROM runtime_config
		ORDER BY key
	`)
	return configs, err
}

// GetRuntimeConfigValue returns a single runtime config value
func GetRuntimeConfigValue(db *sqlx.DB, key string) (*models.RuntimeConfig, error) {
	var cfg models.RuntimeConfig
	err := db.Get(&cfg, `SELECT key, value, value_type, description, updated_by, updated_at FROM runtime_config WHERE key=$1`, key)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ValidateValue checks value against a runtime config value type.
func ValidateValue(valueType, value string) error {
	switch valueType {
	case "int":
		if _, err := strconv.Atoi(value); err != nil {
			return fmt.Errorf("invalid integer value: %s", value)
		}
	case "float":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("invalid float value: %s", value)
		}
	case "float_list":
		list, err := config.ParseFloatList(value)
		if err != nil {
			return fmt.Errorf("invalid float list value: %s", value)
		}
		for _, f := range list {
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return fmt.Errorf("invalid float list value: %s", value)
			}
		}
	default:
		return fmt.Errorf("unknown value type: %s", valueType)
	}
	return nil
}

// UpdateRuntimeConfigValue updates a single runtime config value. The new
// value takes effect at the next table reset.
func UpdateRuntimeConfigValue(db *sqlx.DB, key, value, username string) error {
	existing, err := GetRuntimeConfigValue(db, key)
	if err != nil {
		return fmt.Errorf("config key not found: %s", key)
	}
	if err := ValidateValue(existing.ValueType, value); err != nil {
		return err
	}

	_, err = db.Exec(`
		UPDATE runtime_config SET value=$1, updated_by=$2, updated_at=NOW() WHERE key=$3
	`, value, username, key)
	return err
}

// ApplyRuntimeConfig applies overrides to t. Unknown keys and malformed
// values are skipped. The result is not validated; the table does that on
// reset.
func ApplyRuntimeConfig(entries []models.RuntimeConfig, t game.Config) game.Config {
	t = t.Clone()
	applied := 0
	for _, c := range entries {
		if c.Key == "multipliers" {
			if v, err := config.ParseFloatList(c.Value); err == nil {
				t.Multipliers = v
				applied++
			}
			continue
		}

		target := floatField(&t, c.Key)
		if target == nil {
			continue
		}
		if v, err := strconv.ParseFloat(c.Value, 64); err == nil {
			*target = v
			applied++
		}
	}

	log.Printf("[CONFIG] Applied %d runtime config overrides", applied)
	return t
}

func floatField(t *game.Config, key string) *float64 {
	switch key {
	case "gravity":
		return &t.Gravity
	case "bounce_energy_loss":
		return &t.BounceEnergyLoss
	case "friction":
		return &t.Friction
	case "max_speed":
		return &t.MaxSpeed
	case "random_bounce_factor":
		return &t.RandomBounceFactor
	case "cost_per_play":
		return &t.CostPerPlay
	case "initial_balance":
		return &t.InitialBalance
	}
	return nil
}

// LoadTableConfig reads every override from the database and applies it to base.
func LoadTableConfig(db *sqlx.DB, base game.Config) (game.Config, error) {
	entries, err := GetAllRuntimeConfig(db)
	if err != nil {
		return base, err
	}
	return ApplyRuntimeConfig(entries, base), nil
}
