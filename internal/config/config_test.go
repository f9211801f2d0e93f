package config

import (
	"reflect"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "ALLOW_ORIGINS", "WORKBOOK_PATH", "DATABASE_URL", "REDIS_ADDR",
		"CACHE_TTL_SECONDS", "LOG_LEVEL", "MAX_UPLOAD_MB", "OPERATORS",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("port = %q", cfg.Port)
	}
	if cfg.Address() != ":8080" {
		t.Errorf("address = %q", cfg.Address())
	}
	if cfg.CacheTTLSeconds != 5 {
		t.Errorf("cache ttl = %d", cfg.CacheTTLSeconds)
	}
	if cfg.MaxUploadMB != 16 {
		t.Errorf("max upload = %d", cfg.MaxUploadMB)
	}
	if !reflect.DeepEqual(cfg.Operators, []string{"Martin", "Amanda", "Otro"}) {
		t.Errorf("operators = %v", cfg.Operators)
	}
	if cfg.DatabaseURL != "" || cfg.WorkbookPath != "" {
		t.Errorf("backend selection should default to empty, got %q %q", cfg.DatabaseURL, cfg.WorkbookPath)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("OPERATORS", " Ana , Luis ,")
	t.Setenv("CACHE_TTL_SECONDS", "30")
	t.Setenv("ALLOW_ORIGINS", "http://localhost:3000,https://tienda.example")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Errorf("port = %q", cfg.Port)
	}
	if !reflect.DeepEqual(cfg.Operators, []string{"Ana", "Luis"}) {
		t.Errorf("operators = %v", cfg.Operators)
	}
	if cfg.CacheTTLSeconds != 30 {
		t.Errorf("cache ttl = %d", cfg.CacheTTLSeconds)
	}
	if len(cfg.AllowOrigins) != 2 {
		t.Errorf("allow origins = %v", cfg.AllowOrigins)
	}
}

func TestLoadRejectsGarbageNumbers(t *testing.T) {
	t.Setenv("CACHE_TTL_SECONDS", "minus")
	t.Setenv("MAX_UPLOAD_MB", "-4")

	cfg := Load()
	if cfg.CacheTTLSeconds != 5 {
		t.Errorf("cache ttl = %d, want default 5", cfg.CacheTTLSeconds)
	}
	if cfg.MaxUploadMB != 16 {
		t.Errorf("max upload = %d, want default 16", cfg.MaxUploadMB)
	}
}
