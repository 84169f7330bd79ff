package templates

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"text/template"

	"github.com/cv-dev/cv/internal/config"
	"github.com/cv-dev/cv/internal/errors"
)

// Config contains template configuration.
type Config struct {
	// ProjectName is the name of the project.
	ProjectName string

	// Bucket, Prefix and Region locate remote modules for the s3 template.
	Bucket string
	Prefix string
	Region string
}

// Template represents a project template.
type Template struct {
	// Name is the template name.
	Name string

	// Description describes the template.
	Description string

	// Files is a map of relative paths to file contents.
	Files map[string]string
}

// Available templates.
var templates = map[string]*Template{
	"minimal": minimalTemplate(),
	"slots":   slotsTemplate(),
	"s3":      s3Template(),
}

// Get returns a template by name.
func Get(name string) (*Template, error) {
	tmpl, ok := templates[name]
	if !ok {
		return nil, errors.New("CV500").
			WithDetail("Template '" + name + "' not found").
			WithSuggestion("Available templates: minimal, slots, s3")
	}
	return tmpl, nil
}

// List returns all available template names, sorted.
func List() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create generates a project from the template. It refuses to write
// into a directory that already holds cv.json.
func (t *Template) Create(dir string, cfg Config) error {
	if config.Exists(dir) {
		return errors.New("CV501").WithDetail(filepath.Join(dir, config.ConfigFileName))
	}
	if cfg.ProjectName == "" {
		cfg.ProjectName = filepath.Base(dir)
	}

	for relPath, content := range t.Files {
		// Execute template
		tmpl, err := template.New(relPath).Parse(content)
		if err != nil {
			return errors.Newf(errors.CategoryCLI, "invalid template %s: %v", relPath, err)
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, cfg); err != nil {
			return errors.Newf(errors.CategoryCLI, "template execute error %s: %v", relPath, err)
		}

		// Write file
		fullPath := filepath.Join(dir, relPath)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			return err
		}

		if err := os.WriteFile(fullPath, buf.Bytes(), 0644); err != nil {
			return err
		}
	}

	return nil
}

const indexPage = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <title>{{.ProjectName}}</title>
</head>
<body>
    <h1>{{.ProjectName}}</h1>
    <div module="card" title="Welcome">
        Edit modules/card.html and run cv serve.
    </div>
</body>
</html>
`

const cardModule = `<template export="default">
    <article class="card">
        <slot></slot>
    </article>
</template>

<template export="compact">
    <span class="card compact"><slot></slot></span>
</template>
`

// minimalTemplate returns the minimal template.
func minimalTemplate() *Template {
	return &Template{
		Name:        "minimal",
		Description: "One page and one markup module",
		Files: map[string]string{
			"cv.json": `{
  "name": "{{.ProjectName}}",
  "page": "index.html",
  "modules": {
    "dir": "modules"
  }
}
`,
			"index.html":        indexPage,
			"modules/card.html": cardModule,
		},
	}
}

// slotsTemplate returns a template showing named slots.
func slotsTemplate() *Template {
	return &Template{
		Name:        "slots",
		Description: "A layout module with named slots",
		Files: map[string]string{
			"cv.json": `{
  "name": "{{.ProjectName}}",
  "page": "index.html",
  "modules": {
    "dir": "modules"
  },
  "metrics": {
    "enabled": true
  }
}
`,
			"index.html": `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <title>{{.ProjectName}}</title>
</head>
<body>
    <div module="layout">
        <h1 slot="header">{{.ProjectName}}</h1>
        <p>Main content goes into the default slot.</p>
        <small slot="footer">Built with cv</small>
    </div>
</body>
</html>
`,
			"modules/layout.html": `<template export="default">
    <main class="layout">
        <header><slot name="header"><h1>Untitled</h1></slot></header>
        <section><slot></slot></section>
        <footer><slot name="footer"></slot></footer>
    </main>
</template>
`,
		},
	}
}

// s3Template returns a template that also loads modules from S3.
func s3Template() *Template {
	return &Template{
		Name:        "s3",
		Description: "Local modules with an S3 bucket as fallback",
		Files: map[string]string{
			"cv.json": `{
  "name": "{{.ProjectName}}",
  "page": "index.html",
  "modules": {
    "dir": "modules",
    "s3": {
      "bucket": "{{if .Bucket}}{{.Bucket}}{{else}}my-modules{{end}}",
      "prefix": "{{.Prefix}}"{{if .Region}},
      "region": "{{.Region}}"{{end}}
    }
  }
}
`,
			"index.html":        indexPage,
			"modules/card.html": cardModule,
		},
	}
}
