package config

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "ENV", "LOG_LEVEL", "LOG_FORMAT",
		"NVDB_BASE_URL", "NVDB_SCHEMA_PATH", "NVDB_OBJECTS_PATH", "NVDB_CLIENT_ID", "NVDB_TIMEOUT", "NVDB_RATE_LIMIT",
		"NVDB_DEFAULT_REGION", "NVDB_MIN_OBJECTS", "NVDB_MAX_OBJECTS", "NVDB_DEFAULT_OBJECTS",
		"CACHE_TTL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "8089" {
		t.Errorf("Expected Port to be 8089, got %s", cfg.Port)
	}

	if cfg.Env != "development" {
		t.Errorf("Expected Env to be development, got %s", cfg.Env)
	}

	if cfg.NVDB.ClientID != "demo-dataquality" {
		t.Errorf("Expected ClientID demo-dataquality, got %s", cfg.NVDB.ClientID)
	}

	if cfg.NVDB.DefaultRegion != 34 {
		t.Errorf("Expected DefaultRegion 34, got %d", cfg.NVDB.DefaultRegion)
	}

	if cfg.NVDB.MinObjects != 100 || cfg.NVDB.MaxObjects != 800 {
		t.Errorf("Expected object bounds [100, 800], got [%d, %d]", cfg.NVDB.MinObjects, cfg.NVDB.MaxObjects)
	}

	if cfg.NVDB.Timeout != 20*time.Second {
		t.Errorf("Expected Timeout 20s, got %v", cfg.NVDB.Timeout)
	}

	if cfg.Cache.TTL != 0 {
		t.Errorf("Expected cache TTL 0, got %v", cfg.Cache.TTL)
	}
}

func TestLoadWithCustomValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("ENV", "production")
	t.Setenv("NVDB_CLIENT_ID", "kvalitet-test")
	t.Setenv("NVDB_TIMEOUT", "15s")
	t.Setenv("NVDB_DEFAULT_REGION", "50")
	t.Setenv("CACHE_TTL", "10m")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "9000" {
		t.Errorf("Expected Port to be 9000, got %s", cfg.Port)
	}

	if cfg.Env != "production" {
		t.Errorf("Expected Env to be production, got %s", cfg.Env)
	}

	if cfg.NVDB.ClientID != "kvalitet-test" {
		t.Errorf("Expected ClientID kvalitet-test, got %s", cfg.NVDB.ClientID)
	}

	if cfg.NVDB.Timeout != 15*time.Second {
		t.Errorf("Expected Timeout 15s, got %v", cfg.NVDB.Timeout)
	}

	if cfg.NVDB.DefaultRegion != 50 {
		t.Errorf("Expected DefaultRegion 50, got %d", cfg.NVDB.DefaultRegion)
	}

	if cfg.Cache.TTL != 10*time.Minute {
		t.Errorf("Expected cache TTL 10m, got %v", cfg.Cache.TTL)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("Expected LogLevel to be debug, got %s", cfg.LogLevel)
	}
}

func TestValidateInvalidEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "invalid")

	_, err := Load()
	if err == nil {
		t.Error("Expected error when ENV is invalid, got nil")
	}
}

func TestValidateObjectBounds(t *testing.T) {
	clearEnv(t)
	t.Setenv("NVDB_MIN_OBJECTS", "900")

	_, err := Load()
	if err == nil {
		t.Error("Expected error when min objects exceeds max, got nil")
	}
}

func TestValidateDefaultOutsideBounds(t *testing.T) {
	clearEnv(t)
	t.Setenv("NVDB_DEFAULT_OBJECTS", "50")

	_, err := Load()
	if err == nil {
		t.Error("Expected error when default objects is below min, got nil")
	}
}

func TestDefaultPassesValidation(t *testing.T) {
	if err := Default().validate(); err != nil {
		t.Errorf("Default() should be valid, got %v", err)
	}
}

func TestGetEnvAsDuration(t *testing.T) {
	t.Setenv("TEST_DURATION", "2h")

	duration := getEnvAsDuration("TEST_DURATION", "1h")
	if duration != 2*time.Hour {
		t.Errorf("Expected duration to be %v, got %v", 2*time.Hour, duration)
	}

	t.Setenv("TEST_DURATION", "soon")
	duration = getEnvAsDuration("TEST_DURATION", "1h")
	if duration != time.Hour {
		t.Errorf("Expected fallback duration %v, got %v", time.Hour, duration)
	}
}

func TestGetEnvAsInt(t *testing.T) {
	t.Setenv("TEST_INT", "100")

	if value := getEnvAsInt("TEST_INT", 50); value != 100 {
		t.Errorf("Expected value to be 100, got %d", value)
	}

	t.Setenv("TEST_INT", "abc")
	if value := getEnvAsInt("TEST_INT", 50); value != 50 {
		t.Errorf("Expected fallback 50, got %d", value)
	}
}

func TestGetEnvAsFloat(t *testing.T) {
	t.Setenv("TEST_FLOAT", "2.5")

	if value := getEnvAsFloat("TEST_FLOAT", 1); value != 2.5 {
		t.Errorf("Expected value to be 2.5, got %v", value)
	}
}
