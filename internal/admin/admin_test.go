package admin

import (
	"testing"

	"github.com/playmatatu/plinko/internal/game"
	"github.com/playmatatu/plinko/internal/models"
)

func TestPasswordRoundTrip(t *testing.T) {
	hashed, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !VerifyPassword(hashed, "s3cret") {
		t.Error("correct password rejected")
	}
	if VerifyPassword(hashed, "wrong") {
		t.Error("wrong password accepted")
	}
}

func TestValidateValue(t *testing.T) {
	tests := []struct {
		valueType string
		value     string
		wantErr   bool
	}{
		{"int", "10", false},
		{"int", "1.5", true},
		{"float", "0.98", false},
		{"float", "abc", true},
		{"float", "NaN", true},
		{"float", "+Inf", true},
		{"float", "-inf", true},
		{"float_list", "1,NaN,1", true},
		{"float_list", "3,2,1,2,3", false},
		{"float_list", "3,,3", true},
		{"bool", "true", true},
	}
	for _, tt := range tests {
		err := ValidateValue(tt.valueType, tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateValue(%q, %q) error = %v, wantErr %v", tt.valueType, tt.value, err, tt.wantErr)
		}
	}
}

func TestApplyRuntimeConfig(t *testing.T) {
	base := game.DefaultConfig()
	entries := []models.RuntimeConfig{
		{Key: "gravity", Value: "0.5", ValueType: "float"},
		{Key: "cost_per_play", Value: "25", ValueType: "float"},
		{Key: "multipliers", Value: "5, 1, 0, 1, 5", ValueType: "float_list"},
		{Key: "friction", Value: "oops", ValueType: "float"},
		{Key: "unknown_key", Value: "1", ValueType: "int"},
	}

	got := ApplyRuntimeConfig(entries, base)

	if got.Gravity != 0.5 {
		t.Errorf("Gravity = %v, want 0.5", got.Gravity)
	}
	if got.CostPerPlay != 25 {
		t.Errorf("CostPerPlay = %v, want 25", got.CostPerPlay)
	}
	if got.Friction != base.Friction {
		t.Errorf("Friction = %v, want unchanged %v", got.Friction, base.Friction)
	}
	if len(got.Multipliers) != 5 || got.Multipliers[0] != 5 {
		t.Errorf("Multipliers = %v", got.Multipliers)
	}
	if len(base.Multipliers) != 9 {
		t.Errorf("base multipliers modified: %v", base.Multipliers)
	}
	if err := got.Validate(); err != nil {
		t.Errorf("overridden config invalid: %v", err)
	}
}
