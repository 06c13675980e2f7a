package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type testConfig struct {
	Name string `yaml:"name"`
	Port int    `yaml:"port"`
}

type validatedConfig struct {
	Port int `yaml:"port"`
}

func (c *validatedConfig) Validate() error {
	if c.Port <= 0 {
		return errors.New("port must be positive")
	}
	return nil
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, "name: app\nport: 8080\n")
	var cfg testConfig
	if err := Load(path, &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "app" || cfg.Port != 8080 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadEnvExpansion(t *testing.T) {
	t.Setenv("TEST_APP_NAME", "expanded")
	path := writeConfig(t, "name: ${TEST_APP_NAME}\n")
	var cfg testConfig
	if err := Load(path, &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "expanded" {
		t.Errorf("name = %q", cfg.Name)
	}
}

func TestLoadValidation(t *testing.T) {
	path := writeConfig(t, "port: -1\n")
	var cfg validatedConfig
	if err := Load(path, &cfg); err == nil {
		t.Error("expected validation error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	var cfg testConfig
	if err := Load(filepath.Join(t.TempDir(), "absent.yaml"), &cfg); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadOptionalMissingFile(t *testing.T) {
	cfg := validatedConfig{Port: 80}
	loaded, err := LoadOptional(filepath.Join(t.TempDir(), "absent.yaml"), &cfg)
	if err != nil {
		t.Fatal(err)
	}
	if loaded {
		t.Error("loaded = true for missing file")
	}
	if cfg.Port != 80 {
		t.Errorf("defaults were modified: %+v", cfg)
	}
}

func TestLoadOptionalMissingFileInvalidDefaults(t *testing.T) {
	cfg := validatedConfig{}
	if _, err := LoadOptional(filepath.Join(t.TempDir(), "absent.yaml"), &cfg); err == nil {
		t.Error("expected validation error for invalid defaults")
	}
}

func TestLoadOptionalExistingFile(t *testing.T) {
	path := writeConfig(t, "port: 9090\n")
	cfg := validatedConfig{Port: 80}
	loaded, err := LoadOptional(path, &cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !loaded || cfg.Port != 9090 {
		t.Errorf("loaded=%v cfg=%+v", loaded, cfg)
	}
}
