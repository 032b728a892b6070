package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	os.Setenv("SERVER_PORT", "9090")
	os.Setenv("DB_HOST", "db.internal")
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("PLAN_GROWTH_QUOTA", "30")
	os.Setenv("ENFORCER_INTERVAL", "45s")
	defer func() {
		os.Unsetenv("SERVER_PORT")
		os.Unsetenv("DB_HOST")
		os.Unsetenv("JWT_SECRET")
		os.Unsetenv("PLAN_GROWTH_QUOTA")
		os.Unsetenv("ENFORCER_INTERVAL")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, 30, cfg.PlanGrowthQuota)
	assert.Equal(t, 45*time.Second, cfg.EnforcerInterval)
}

func TestLoadConfig_Defaults(t *testing.T) {
	os.Unsetenv("SERVER_PORT")
	os.Unsetenv("PLAN_STARTER_QUOTA")
	os.Unsetenv("PLAN_GROWTH_QUOTA")
	os.Unsetenv("PLAN_PROFESSIONAL_QUOTA")
	os.Unsetenv("QUOTA_CYCLE_DAYS")
	os.Unsetenv("ENFORCER_INTERVAL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 12, cfg.PlanStarterQuota)
	assert.Equal(t, 27, cfg.PlanGrowthQuota)
	assert.Equal(t, 52, cfg.PlanProfessionalQuota)
	assert.Equal(t, 30, cfg.QuotaCycleDays)
	assert.Equal(t, 30*time.Second, cfg.EnforcerInterval)
	assert.Equal(t, 20, cfg.EnforcerBatchSize)
	assert.Equal(t, 5, cfg.EnforcerWorkers)
	assert.Equal(t, 5, cfg.EnforcerMaxAttempts)
}

func TestLoadConfig_InvalidIntFallsBack(t *testing.T) {
	os.Setenv("PLAN_STARTER_QUOTA", "not-a-number")
	defer os.Unsetenv("PLAN_STARTER_QUOTA")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	assert.Equal(t, 12, cfg.PlanStarterQuota)
}
