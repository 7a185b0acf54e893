package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGlobalPath(t *testing.T) {
	origXDG := os.Getenv("XDG_CONFIG_HOME")
	defer func() {
		if origXDG != "" {
			_ = os.Setenv("XDG_CONFIG_HOME", origXDG)
		} else {
			_ = os.Unsetenv("XDG_CONFIG_HOME")
		}
	}()

	t.Run("with XDG_CONFIG_HOME set", func(t *testing.T) {
		_ = os.Setenv("XDG_CONFIG_HOME", "/custom/config")
		got := GlobalPath()
		want := "/custom/config/storyloom/storyloom.yml"
		if got != want {
			t.Errorf("GlobalPath() = %v, want %v", got, want)
		}
	})

	t.Run("without XDG_CONFIG_HOME", func(t *testing.T) {
		_ = os.Unsetenv("XDG_CONFIG_HOME")
		got := GlobalPath()
		if !filepath.IsAbs(got) {
			t.Errorf("GlobalPath() should return absolute path, got %v", got)
		}
		if filepath.Base(got) != "storyloom.yml" {
			t.Errorf("GlobalPath() should end with storyloom.yml, got %v", got)
		}
	})
}

func TestProjectPath(t *testing.T) {
	got := ProjectPath()
	want := "storyloom.yml"
	if got != want {
		t.Errorf("ProjectPath() = %v, want %v", got, want)
	}
}

func TestLoadDefaults(t *testing.T) {
	// Run from a temp dir so no project config is picked up
	origWd, _ := os.Getwd()
	tmp := t.TempDir()
	if err := os.Chdir(tmp); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer func() { _ = os.Chdir(origWd) }()
	t.Setenv("XDG_CONFIG_HOME", tmp)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.APIURL != "https://api.storyloom.io/v1" {
		t.Errorf("expected default api_url, got %q", cfg.APIURL)
	}
	if cfg.DataDir != ".storyloom" {
		t.Errorf("expected default data_dir .storyloom, got %q", cfg.DataDir)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log_level info, got %q", cfg.LogLevel)
	}
	if !cfg.Watermark {
		t.Error("expected watermark enabled by default")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	origWd, _ := os.Getwd()
	tmp := t.TempDir()
	if err := os.Chdir(tmp); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer func() { _ = os.Chdir(origWd) }()
	t.Setenv("XDG_CONFIG_HOME", tmp)
	t.Setenv("STORYLOOM_API_URL", "http://localhost:8080/v1")
	t.Setenv("STORYLOOM_VOICE", "aria")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.APIURL != "http://localhost:8080/v1" {
		t.Errorf("env override failed, got api_url %q", cfg.APIURL)
	}
	if cfg.Voice != "aria" {
		t.Errorf("env override failed, got voice %q", cfg.Voice)
	}
}

func TestWriteGlobal(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)

	cfg := &Config{
		APIURL:  "http://example.test/v1",
		DataDir: ".loom",
	}
	if err := WriteGlobal(cfg); err != nil {
		t.Fatalf("WriteGlobal failed: %v", err)
	}

	if _, err := os.Stat(GlobalPath()); err != nil {
		t.Errorf("config file missing at GlobalPath(): %v", err)
	}
	if !Exists() {
		t.Error("Exists() should report true after WriteGlobal")
	}
}

func TestWriteAndLoadProject(t *testing.T) {
	origWd, _ := os.Getwd()
	tmp := t.TempDir()
	if err := os.Chdir(tmp); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer func() { _ = os.Chdir(origWd) }()
	t.Setenv("XDG_CONFIG_HOME", tmp)

	cfg := &Config{
		APIURL:   "http://example.test/v1",
		DataDir:  ".loom",
		LogLevel: "debug",
		Theme:    "dusk",
	}
	if err := WriteProject(cfg); err != nil {
		t.Fatalf("WriteProject failed: %v", err)
	}

	if !Exists() {
		t.Error("Exists() should report true after WriteProject")
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if loaded.APIURL != cfg.APIURL {
		t.Errorf("loaded api_url = %q, want %q", loaded.APIURL, cfg.APIURL)
	}
	if loaded.Theme != "dusk" {
		t.Errorf("loaded theme = %q, want dusk", loaded.Theme)
	}
}
