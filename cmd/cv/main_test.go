package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	cverrors "github.com/cv-dev/cv/internal/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func newProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "cv.json"), `{"name": "demo", "page": "index.html", "engine": {"logLevel": "error"}}`)
	writeFile(t, filepath.Join(dir, "index.html"),
		`<!DOCTYPE html><html><head></head><body><div module="card" title="hi"></div></body></html>`)
	writeFile(t, filepath.Join(dir, "modules", "card.html"),
		`<template export="default"><b class="card"><slot></slot></b></template>`)
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestEnhanceStdout(t *testing.T) {
	dir := newProject(t)

	out, err := execute(t, "-C", dir, "enhance")
	if err != nil {
		t.Fatalf("enhance: %v", err)
	}
	want := `<body><b title="hi"></b></body>`
	if !strings.Contains(out, want) {
		t.Errorf("output = %q, want it to contain %q", out, want)
	}
	if !strings.HasPrefix(out, "<!DOCTYPE html>") {
		t.Errorf("output missing doctype: %q", out)
	}
}

func TestEnhanceOutputFile(t *testing.T) {
	dir := newProject(t)
	dest := filepath.Join(dir, "dist.html")

	if _, err := execute(t, "-C", dir, "enhance", filepath.Join(dir, "index.html"), "-o", dest); err != nil {
		t.Fatalf("enhance: %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if strings.Contains(string(data), "module=") {
		t.Errorf("module marker left in output: %s", data)
	}
}

func TestEnhanceMissingModule(t *testing.T) {
	dir := newProject(t)
	writeFile(t, filepath.Join(dir, "index.html"), `<html><body><p module="nope"></p></body></html>`)

	_, err := execute(t, "-C", dir, "enhance")
	if !cverrors.HasCode(err, "CV200") {
		t.Errorf("enhance error = %v, want CV200", err)
	}
}

func TestEnhanceBadConfig(t *testing.T) {
	dir := newProject(t)
	writeFile(t, filepath.Join(dir, "cv.json"), `{"modules": {"s3": {"prefix": "x/"}}}`)

	_, err := execute(t, "-C", dir, "enhance")
	if !cverrors.HasCode(err, "CV302") {
		t.Errorf("enhance error = %v, want CV302", err)
	}
}

func TestLogLevelFlag(t *testing.T) {
	dir := newProject(t)

	_, err := execute(t, "-C", dir, "--log-level", "loud", "enhance")
	if !cverrors.HasCode(err, "CV302") {
		t.Errorf("enhance error = %v, want CV302", err)
	}
}

func TestVersionShort(t *testing.T) {
	out, err := execute(t, "version", "--short")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if strings.TrimSpace(out) != version {
		t.Errorf("version --short = %q, want %q", out, version)
	}
}

func TestInitThenEnhance(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "site")

	if _, err := execute(t, "init", dir, "--name", "Site"); err != nil {
		t.Fatalf("init: %v", err)
	}
	out, err := execute(t, "-C", dir, "enhance")
	if err != nil {
		t.Fatalf("enhance: %v", err)
	}
	if !strings.Contains(out, `<article title="Welcome">`) {
		t.Errorf("enhanced page missing card: %s", out)
	}

	if _, err := execute(t, "init", dir); !cverrors.HasCode(err, "CV501") {
		t.Errorf("second init error = %v, want CV501", err)
	}
}
