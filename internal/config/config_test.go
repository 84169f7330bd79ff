package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cv-dev/cv/internal/errors"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Preview.Port != DefaultPort {
		t.Errorf("Preview.Port = %d, want %d", cfg.Preview.Port, DefaultPort)
	}
	if cfg.Preview.Host != DefaultHost {
		t.Errorf("Preview.Host = %q, want %q", cfg.Preview.Host, DefaultHost)
	}
	if cfg.Modules.Dir != DefaultModulesDir {
		t.Errorf("Modules.Dir = %q, want %q", cfg.Modules.Dir, DefaultModulesDir)
	}
	if cfg.Metrics.Namespace != DefaultNamespace {
		t.Errorf("Metrics.Namespace = %q, want %q", cfg.Metrics.Namespace, DefaultNamespace)
	}
	if cfg.HasS3() {
		t.Error("HasS3 should be false by default")
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	// Test loading non-existent config
	_, err := Load(tmpDir)
	if !errors.HasCode(err, "CV300") {
		t.Errorf("Load(missing) err = %v, want CV300", err)
	}

	configPath := filepath.Join(tmpDir, ConfigFileName)
	configJSON := `{
  "name": "shop",
  "modules": {
    "dir": "components",
    "s3": {"bucket": "shop-components", "prefix": "v2/"}
  },
  "engine": {"strict": true},
  "preview": {"port": 8080}
}
`
	if err := os.WriteFile(configPath, []byte(configJSON), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Name != "shop" {
		t.Errorf("Name = %q, want %q", cfg.Name, "shop")
	}
	if cfg.Modules.Dir != "components" {
		t.Errorf("Modules.Dir = %q, want %q", cfg.Modules.Dir, "components")
	}
	if !cfg.HasS3() || cfg.Modules.S3.Prefix != "v2/" {
		t.Errorf("Modules.S3 = %+v", cfg.Modules.S3)
	}
	if !cfg.Engine.Strict {
		t.Error("Engine.Strict should be true")
	}
	if cfg.Preview.Port != 8080 {
		t.Errorf("Preview.Port = %d, want %d", cfg.Preview.Port, 8080)
	}
	// Defaults survive partial sections.
	if cfg.Preview.Host != DefaultHost {
		t.Errorf("Preview.Host = %q, want %q", cfg.Preview.Host, DefaultHost)
	}
	if cfg.Page != "index.html" {
		t.Errorf("Page = %q, want index.html", cfg.Page)
	}
}

func TestLoadFile_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFileName)

	if err := os.WriteFile(configPath, []byte("not valid json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFile(configPath)
	if err == nil {
		t.Fatal("Expected error for invalid JSON")
	}
	if !strings.Contains(err.Error(), "CV301") {
		t.Errorf("Expected CV301 error, got: %v", err)
	}
}

func TestSave(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFileName)

	cfg := New()
	cfg.Preview.Port = 9000
	cfg.Modules.S3.Bucket = "b"

	// Save should fail without configPath set
	if err := cfg.Save(); err == nil {
		t.Error("Expected error when saving without path")
	}

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("SaveTo error: %v", err)
	}

	loaded, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if loaded.Preview.Port != 9000 {
		t.Errorf("Preview.Port = %d, want %d", loaded.Preview.Port, 9000)
	}
	if loaded.Modules.S3.Bucket != "b" {
		t.Errorf("Modules.S3.Bucket = %q, want %q", loaded.Modules.S3.Bucket, "b")
	}

	loaded.Preview.Port = 9001
	if err := loaded.Save(); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	reloaded, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if reloaded.Preview.Port != 9001 {
		t.Errorf("Preview.Port = %d, want %d", reloaded.Preview.Port, 9001)
	}
}

func envMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := New()
	err := cfg.ApplyEnv(envMap(map[string]string{
		"CV_MODULES_DIR":       "/srv/modules",
		"CV_S3_BUCKET":         "remote",
		"CV_STRICT":            "true",
		"CV_LOG_LEVEL":         "debug",
		"CV_PREVIEW_PORT":      "5000",
		"CV_METRICS":           "1",
		"CV_METRICS_NAMESPACE": "",
	}))
	if err != nil {
		t.Fatalf("ApplyEnv error: %v", err)
	}

	if cfg.Modules.Dir != "/srv/modules" {
		t.Errorf("Modules.Dir = %q", cfg.Modules.Dir)
	}
	if cfg.Modules.S3.Bucket != "remote" {
		t.Errorf("Modules.S3.Bucket = %q", cfg.Modules.S3.Bucket)
	}
	if !cfg.Engine.Strict {
		t.Error("Engine.Strict should be true")
	}
	if cfg.Preview.Port != 5000 {
		t.Errorf("Preview.Port = %d, want 5000", cfg.Preview.Port)
	}
	if !cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled should be true")
	}
	// An empty override falls back to the default.
	if cfg.Metrics.Namespace != DefaultNamespace {
		t.Errorf("Metrics.Namespace = %q, want %q", cfg.Metrics.Namespace, DefaultNamespace)
	}
	if level, _ := cfg.LogLevel(); level != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want debug", level)
	}
}

func TestApplyEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"port", map[string]string{"CV_PREVIEW_PORT": "eighty"}},
		{"strict", map[string]string{"CV_STRICT": "maybe"}},
		{"metrics", map[string]string{"CV_METRICS": "yes please"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New().ApplyEnv(envMap(tt.env))
			if !errors.HasCode(err, "CV302") {
				t.Errorf("ApplyEnv err = %v, want CV302", err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := New()

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate should pass for valid config: %v", err)
	}

	cfg.Preview.Port = -1
	if err := cfg.Validate(); err == nil {
		t.Error("Validate should fail for negative port")
	}

	cfg.Preview.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Error("Validate should fail for port > 65535")
	}

	cfg = New()
	cfg.Engine.LogLevel = "loud"
	if err := cfg.Validate(); !errors.HasCode(err, "CV302") {
		t.Errorf("Validate(logLevel) = %v, want CV302", err)
	}

	cfg = New()
	cfg.Modules.S3.Prefix = "v1/"
	if err := cfg.Validate(); err == nil {
		t.Error("Validate should fail for an S3 prefix without a bucket")
	}
}

func TestPreviewAddress(t *testing.T) {
	cfg := New()
	if got := cfg.PreviewURL(); got != "http://localhost:4000" {
		t.Errorf("PreviewURL = %q, want %q", got, "http://localhost:4000")
	}

	cfg.Preview.Port = 8080
	cfg.Preview.Host = "0.0.0.0"
	if got := cfg.PreviewAddress(); got != "0.0.0.0:8080" {
		t.Errorf("PreviewAddress = %q, want %q", got, "0.0.0.0:8080")
	}

	cfg.Preview.Host = "::1"
	if got := cfg.PreviewAddress(); got != "[::1]:8080" {
		t.Errorf("PreviewAddress = %q, want %q", got, "[::1]:8080")
	}
}

func TestPaths(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFileName)

	cfg := New()
	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatal(err)
	}

	if got := cfg.ModulesPath(); got != filepath.Join(tmpDir, "modules") {
		t.Errorf("ModulesPath = %q, want %q", got, filepath.Join(tmpDir, "modules"))
	}
	if got := cfg.PagePath(); got != filepath.Join(tmpDir, "index.html") {
		t.Errorf("PagePath = %q, want %q", got, filepath.Join(tmpDir, "index.html"))
	}

	cfg.Modules.Dir = "/absolute/path"
	if got := cfg.ModulesPath(); got != "/absolute/path" {
		t.Errorf("ModulesPath absolute = %q, want %q", got, "/absolute/path")
	}
}

func TestExists(t *testing.T) {
	tmpDir := t.TempDir()

	if Exists(tmpDir) {
		t.Error("Exists should be false for empty directory")
	}

	configPath := filepath.Join(tmpDir, ConfigFileName)
	if err := os.WriteFile(configPath, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	if !Exists(tmpDir) {
		t.Error("Exists should be true after creating config")
	}
}

func TestFindProjectRoot(t *testing.T) {
	tmpDir := t.TempDir()
	nestedDir := filepath.Join(tmpDir, "a", "b", "c")
	if err := os.MkdirAll(nestedDir, 0755); err != nil {
		t.Fatal(err)
	}

	if _, err := FindProjectRoot(nestedDir); err == nil {
		t.Error("FindProjectRoot should fail when no config exists")
	}

	configPath := filepath.Join(tmpDir, ConfigFileName)
	if err := os.WriteFile(configPath, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	root, err := FindProjectRoot(nestedDir)
	if err != nil {
		t.Fatalf("FindProjectRoot error: %v", err)
	}
	if root != tmpDir {
		t.Errorf("FindProjectRoot = %q, want %q", root, tmpDir)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	if cfg.Preview.Port != DefaultPort {
		t.Errorf("Preview.Port = %d, want %d", cfg.Preview.Port, DefaultPort)
	}
	if cfg.Modules.Dir != DefaultModulesDir {
		t.Errorf("Modules.Dir = %q, want %q", cfg.Modules.Dir, DefaultModulesDir)
	}
	if cfg.Engine.LogLevel != "info" {
		t.Errorf("Engine.LogLevel = %q, want info", cfg.Engine.LogLevel)
	}
}
