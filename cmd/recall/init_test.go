package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()

	origWd, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origWd) })
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	return tmpDir
}

func TestInitCmd(t *testing.T) {
	tmpDir := chdirTemp(t)

	cmd := NewInitCmd()

	var out bytes.Buffer
	cmd.SetOut(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	storePath := filepath.Join(tmpDir, ".recall")
	if _, err := os.Stat(filepath.Join(storePath, ".git")); err != nil {
		t.Errorf("expected git repository at %s", storePath)
	}
	if _, err := os.Stat(filepath.Join(storePath, "config.yaml")); err != nil {
		t.Errorf("expected config file at %s", storePath)
	}
	if !strings.Contains(out.String(), "Initialized") {
		t.Errorf("output = %q", out.String())
	}
}

func TestInitCmdAlreadyInitialized(t *testing.T) {
	tmpDir := chdirTemp(t)

	if err := os.MkdirAll(filepath.Join(tmpDir, ".recall"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	cmd := NewInitCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	if err := cmd.Execute(); err == nil {
		t.Error("expected error for already initialized store")
	}
}
