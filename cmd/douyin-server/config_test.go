package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Server.Host != "0.0.0.0" || cfg.Server.Port != 8000 {
		t.Errorf("server defaults = %s:%d", cfg.Server.Host, cfg.Server.Port)
	}
	if cfg.Server.RequestTimeout != 4*time.Minute {
		t.Errorf("RequestTimeout = %v", cfg.Server.RequestTimeout)
	}
	if cfg.Extractor.NavTimeout != 30*time.Second {
		t.Errorf("NavTimeout = %v", cfg.Extractor.NavTimeout)
	}
	if cfg.Extractor.InterceptTimeout != 12*time.Second {
		t.Errorf("InterceptTimeout = %v", cfg.Extractor.InterceptTimeout)
	}
	if cfg.Extractor.MaxEmptyPages != 3 {
		t.Errorf("MaxEmptyPages = %d", cfg.Extractor.MaxEmptyPages)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("DOUYIN_PROXY", "socks5://127.0.0.1:1080")
	t.Setenv("DOUYIN_MAX_EMPTY_PAGES", "5")

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("Port = %d", cfg.Server.Port)
	}
	if cfg.Extractor.Proxy != "socks5://127.0.0.1:1080" {
		t.Errorf("Proxy = %q", cfg.Extractor.Proxy)
	}
	if cfg.Extractor.MaxEmptyPages != 5 {
		t.Errorf("MaxEmptyPages = %d", cfg.Extractor.MaxEmptyPages)
	}
}

func TestLoadConfig_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	// Fields without default tags survive the envconfig pass; defaulted
	// fields need env vars to override YAML, same as the env-only case.
	content := "extractor:\n  proxy: \"http://yaml-proxy:8080\"\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Extractor.Proxy != "http://yaml-proxy:8080" {
		t.Errorf("Proxy = %q", cfg.Extractor.Proxy)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := loadConfig("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [broken"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadConfig(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}
