package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
database:
  host: db.internal
  port: 5432
  user: restaurant
  password: secret
  database: restaurant

rabbitmq:
  host: mq.internal
  port: 5672
  user: guest
  password: guest
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Host != "db.internal" || cfg.Database.Port != 5432 {
		t.Errorf("database config = %+v", cfg.Database)
	}
	if cfg.Database.Database != "restaurant" {
		t.Errorf("database name = %s, want restaurant", cfg.Database.Database)
	}
	if cfg.RabbitMQ.Host != "mq.internal" || cfg.RabbitMQ.Port != 5672 {
		t.Errorf("rabbitmq config = %+v", cfg.RabbitMQ)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() on missing file should fail")
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing database host", "database:\n  port: 5432\n  database: restaurant\nrabbitmq:\n  host: mq\n  port: 5672\n"},
		{"missing rabbitmq port", "database:\n  host: db\n  port: 5432\n  database: restaurant\nrabbitmq:\n  host: mq\n"},
		{"malformed yaml", "database: [unclosed\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Error("Load() should fail")
			}
		})
	}
}
