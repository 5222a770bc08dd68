// DBIMGTOOL ⸻ internal/config/config_test.go

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Output.Suffix != ".clean" {
		t.Errorf("Suffix = %q", cfg.Output.Suffix)
	}
	if cfg.Watch.SettleSeconds != 2 {
		t.Errorf("SettleSeconds = %d", cfg.Watch.SettleSeconds)
	}
	if len(cfg.Watch.Paths) == 0 {
		t.Error("no default watch paths")
	}

	want := map[string]bool{".jpg": true, ".png": true, ".heic": true, ".webp": true}
	for _, ext := range cfg.Watch.Extensions {
		delete(want, ext)
	}
	if len(want) != 0 {
		t.Errorf("default extensions missing: %v", want)
	}
}

func TestLoadFrom(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dbimgtool.toml")
	content := `
[tool]
dir = "/opt/exiftool"

[output]
suffix = ".scrubbed"

[watch]
paths = ["/data/incoming"]
extensions = [".jpg"]
settle_seconds = 5
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Tool.Dir != "/opt/exiftool" {
		t.Errorf("Tool.Dir = %q", cfg.Tool.Dir)
	}
	if cfg.Output.Suffix != ".scrubbed" {
		t.Errorf("Suffix = %q", cfg.Output.Suffix)
	}
	if len(cfg.Watch.Paths) != 1 || cfg.Watch.Paths[0] != "/data/incoming" {
		t.Errorf("Paths = %v", cfg.Watch.Paths)
	}
	if cfg.Watch.SettleSeconds != 5 {
		t.Errorf("SettleSeconds = %d", cfg.Watch.SettleSeconds)
	}
}

func TestLoadFromFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dbimgtool.toml")
	if err := os.WriteFile(path, []byte("[tool]\ndir = \"tools\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Output.Suffix != ".clean" {
		t.Errorf("unset suffix not defaulted: %q", cfg.Output.Suffix)
	}
	if cfg.Watch.SettleSeconds != 2 {
		t.Errorf("unset settle not defaulted: %d", cfg.Watch.SettleSeconds)
	}
}

func TestLoadFromMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dbimgtool.toml")
	if err := os.WriteFile(path, []byte("not [valid toml"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("malformed config accepted")
	}
}

func TestSaveRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	cfg := Default()
	cfg.Tool.Dir = "vendor-tools"
	cfg.Output.Suffix = ".x"

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if loaded.Tool.Dir != "vendor-tools" || loaded.Output.Suffix != ".x" {
		t.Errorf("roundtrip lost values: %+v", loaded)
	}
}
