package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "port: 8080\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Port)
	}
	if !cfg.IsDev() {
		t.Error("default env should be development")
	}
	if cfg.Database.Host != "127.0.0.1" || cfg.Database.Port != 3306 {
		t.Errorf("unexpected database defaults: %s:%d", cfg.Database.Host, cfg.Database.Port)
	}
	if cfg.Studio.AutosaveSeconds != 30 {
		t.Errorf("autosave default = %d, want 30", cfg.Studio.AutosaveSeconds)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "port: 8080\nnot_a_real_key: true\n")
	if _, err := Load(path); err == nil {
		t.Fatal("unknown config keys must be rejected")
	}
}

func TestLoadRejectsBadPorts(t *testing.T) {
	for _, content := range []string{
		"port: 0\n",
		"port: 70000\n",
		"port: 8080\ndatabase:\n  port: -1\n",
		"port: 8080\nredis:\n  port: 99999\n",
	} {
		path := writeConfig(t, content)
		if _, err := Load(path); err == nil {
			t.Errorf("config %q should not load", content)
		}
	}
}

func TestDSNValue(t *testing.T) {
	db := DatabaseRuntimeConfig{
		Host:      "db.internal",
		Port:      3306,
		User:      "stylebox",
		Password:  "s3cret",
		Name:      "stylebox",
		Charset:   "utf8mb4",
		ParseTime: true,
		Loc:       "Local",
	}
	dsn := db.DSNValue()
	if !strings.HasPrefix(dsn, "stylebox:s3cret@tcp(db.internal:3306)/stylebox?") {
		t.Errorf("unexpected DSN: %s", dsn)
	}
	if !strings.Contains(dsn, "parseTime=true") {
		t.Errorf("DSN missing parseTime: %s", dsn)
	}

	explicit := DatabaseRuntimeConfig{DSN: "user:pw@tcp(h:3306)/d"}
	if got := explicit.DSNValue(); got != "user:pw@tcp(h:3306)/d" {
		t.Errorf("explicit DSN should win, got %s", got)
	}
}

func TestRedisURLValue(t *testing.T) {
	r := RedisRuntimeConfig{Host: "cache.internal", Port: 6380, DB: 2}
	if got := r.URLValue(); got != "redis://cache.internal:6380/2" {
		t.Errorf("url = %s", got)
	}

	tls := RedisRuntimeConfig{Host: "cache", Port: 6379, TLS: true}
	if got := tls.URLValue(); !strings.HasPrefix(got, "rediss://") {
		t.Errorf("TLS should produce rediss scheme, got %s", got)
	}

	raw := RedisRuntimeConfig{URL: "localhost:6379/0"}
	if got := raw.URLValue(); got != "redis://localhost:6379/0" {
		t.Errorf("bare url should gain redis scheme, got %s", got)
	}
}
