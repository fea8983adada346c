package config

import (
	"strings"
	"testing"
	"time"
)

type envTestConfig struct {
	Port int           `env:"SEEDSHIFT_TEST_PORT" envDefault:"123"`
	TTL  time.Duration `env:"SEEDSHIFT_TEST_TTL" envDefault:"5s"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 123 {
		t.Fatalf("expected default port 123, got %d", cfg.Port)
	}
	if cfg.TTL != 5*time.Second {
		t.Fatalf("expected default ttl 5s, got %v", cfg.TTL)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("SEEDSHIFT_TEST_PORT", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestParseEnvFromUsesProvidedEnvironment(t *testing.T) {
	t.Parallel()

	var cfg envTestConfig
	if err := ParseEnvFrom(&cfg, map[string]string{"SEEDSHIFT_TEST_TTL": "750ms"}); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.TTL != 750*time.Millisecond || cfg.Port != 123 {
		t.Fatalf("cfg = %+v, want ttl 750ms and default port", cfg)
	}

	if err := ParseEnvFrom(&cfg, map[string]string{"SEEDSHIFT_TEST_TTL": "soon"}); err == nil {
		t.Fatal("expected duration parse error")
	}
	if err := ParseEnvFrom(&envTestConfig{}, nil); err != nil {
		t.Fatalf("nil environment: %v", err)
	}
}
