package templates

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cv-dev/cv/internal/config"
	"github.com/cv-dev/cv/internal/errors"
	"github.com/cv-dev/cv/pkg/module"
	"github.com/cv-dev/cv/pkg/vdom"
	"github.com/cv-dev/cv/pkg/vtest"
)

func TestGet(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"minimal", false},
		{"slots", false},
		{"s3", false},
		{"nonexistent", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := Get(tt.name)
			if tt.wantErr {
				if !errors.HasCode(err, "CV500") {
					t.Errorf("Get(%q) error = %v, want CV500", tt.name, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tmpl.Name != tt.name {
				t.Errorf("Name = %q, want %q", tmpl.Name, tt.name)
			}
			if tmpl.Description == "" {
				t.Error("Description is empty")
			}
		})
	}
}

func TestList(t *testing.T) {
	got := strings.Join(List(), ",")
	if got != "minimal,s3,slots" {
		t.Errorf("List() = %s, want minimal,s3,slots", got)
	}
}

func TestCreateMinimal(t *testing.T) {
	dir := t.TempDir()
	tmpl, _ := Get("minimal")
	if err := tmpl.Create(dir, Config{ProjectName: "site"}); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	if cfg.Name != "site" || cfg.HasS3() {
		t.Errorf("config = %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}

	f, err := os.Open(filepath.Join(cfg.ModulesPath(), "card.html"))
	if err != nil {
		t.Fatalf("open module: %v", err)
	}
	defer f.Close()
	ns, err := module.ParseModule(f, "card")
	if err != nil {
		t.Fatalf("ParseModule: %v", err)
	}
	for _, export := range []string{vdom.DefaultExport, "compact"} {
		if _, ok := ns.Export(export); !ok {
			t.Errorf("card module missing export %q", export)
		}
	}
}

func TestCreateDefaultsProjectName(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "blog")
	tmpl, _ := Get("minimal")
	if err := tmpl.Create(dir, Config{}); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	page, _ := os.ReadFile(filepath.Join(dir, "index.html"))
	if !strings.Contains(string(page), "<title>blog</title>") {
		t.Errorf("project name not defaulted: %s", page)
	}
}

func TestCreateSlotsEnhances(t *testing.T) {
	dir := t.TempDir()
	tmpl, _ := Get("slots")
	if err := tmpl.Create(dir, Config{ProjectName: "demo"}); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	if !cfg.Metrics.Enabled {
		t.Error("slots template should enable metrics")
	}

	page, err := os.ReadFile(cfg.PagePath())
	if err != nil {
		t.Fatalf("read page: %v", err)
	}
	loader := module.NewMarkupLoader(module.DirSource(cfg.ModulesPath()))
	h := vtest.MountPage(t, string(page), vdom.WithLoader(loader))

	vtest.ExpectElement(t, h, "main")
	body := h.HTML()
	for _, want := range []string{
		`<header><h1 slot="header">demo</h1></header>`,
		`<section><p>Main content goes into the default slot.</p></section>`,
		`<footer><small slot="footer">Built with cv</small></footer>`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %s\nbody: %s", want, body)
		}
	}
}

func TestCreateS3(t *testing.T) {
	dir := t.TempDir()
	tmpl, _ := Get("s3")
	cfg := Config{ProjectName: "remote", Bucket: "assets", Prefix: "ui/", Region: "eu-west-1"}
	if err := tmpl.Create(dir, cfg); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	loaded, err := config.Load(dir)
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	s3 := loaded.Modules.S3
	if s3.Bucket != "assets" || s3.Prefix != "ui/" || s3.Region != "eu-west-1" {
		t.Errorf("s3 config = %+v", s3)
	}
}

func TestCreateS3DefaultBucket(t *testing.T) {
	dir := t.TempDir()
	tmpl, _ := Get("s3")
	if err := tmpl.Create(dir, Config{}); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	loaded, err := config.Load(dir)
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	if loaded.Modules.S3.Bucket != "my-modules" || loaded.Modules.S3.Region != "" {
		t.Errorf("s3 config = %+v", loaded.Modules.S3)
	}
}

func TestCreateRefusesExistingProject(t *testing.T) {
	dir := t.TempDir()
	tmpl, _ := Get("minimal")
	if err := tmpl.Create(dir, Config{}); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if err := tmpl.Create(dir, Config{}); !errors.HasCode(err, "CV501") {
		t.Errorf("second Create error = %v, want CV501", err)
	}
}
