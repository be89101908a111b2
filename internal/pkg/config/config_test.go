package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func defaultConfig(t *testing.T) *Config {
	t.Helper()
	v := viper.New()
	setDefaults(v, "test")
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		t.Fatalf("unmarshal defaults: %v", err)
	}
	return &cfg
}

func TestDefaults_AreValid(t *testing.T) {
	cfg := defaultConfig(t)
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.Elevation.Timeout != 10*time.Second {
		t.Errorf("expected 10s elevation timeout, got %s", cfg.Elevation.Timeout)
	}
	if cfg.Profile.DefaultKFactor != 1.33 {
		t.Errorf("expected default k 1.33, got %v", cfg.Profile.DefaultKFactor)
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Server.Port = 0
	cfg.Profile.MaxSamples = 1
	cfg.Elevation.Provider = "magic"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"server.port", "profile.max_samples", "elevation.provider"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected error to mention %s, got %v", want, err)
		}
	}
}

func TestValidate_ProviderSpecific(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Elevation.Provider = "postgis"
	cfg.Database.DBName = ""
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "database.dbname") {
		t.Errorf("expected database.dbname error, got %v", err)
	}

	cfg = defaultConfig(t)
	cfg.Elevation.BatchSize = 500
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "batch_size") {
		t.Errorf("expected batch_size error, got %v", err)
	}
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{User: "rrl", Password: "pw", Host: "db", Port: 5432, DBName: "dem", SSLMode: "disable"}
	want := "postgres://rrl:pw@db:5432/dem?sslmode=disable"
	if got := d.DSN(); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}
