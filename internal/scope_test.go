package internal

import (
	"os"
	"path/filepath"
	"testing"
)

func TestScopePaths(t *testing.T) {
	scope := Scope{
		Type:      ScopeProject,
		Path:      "/work/project",
		StorePath: "/work/project/.recall",
	}

	if got := scope.IndexPath(); got != filepath.Join("/work/project/.recall", IndexFilename) {
		t.Errorf("index path = %q", got)
	}
	if got := scope.ConfigPath(); got != "/work/project/.recall/config.yaml" {
		t.Errorf("config path = %q", got)
	}
}

func TestResolverGlobal(t *testing.T) {
	resolver := NewScopeResolver()
	scope := resolver.Global()

	if scope.Type != ScopeGlobal {
		t.Errorf("type = %q, want global", scope.Type)
	}
	if filepath.Base(scope.StorePath) != ".recall" {
		t.Errorf("store path = %q", scope.StorePath)
	}
}

func TestResolverFindsEnclosingProject(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmpDir, ".recall"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	nested := filepath.Join(tmpDir, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("mkdir nested: %v", err)
	}

	resolver := NewScopeResolver()
	scope, ok := resolver.findProjectScope(nested)
	if !ok {
		t.Fatal("expected to find project scope")
	}

	if scope.Type != ScopeProject {
		t.Errorf("type = %q, want project", scope.Type)
	}
	// Symlinked temp dirs make exact path comparison flaky; the base is enough.
	if filepath.Base(scope.StorePath) != ".recall" {
		t.Errorf("store path = %q", scope.StorePath)
	}
	if filepath.Dir(scope.StorePath) != scope.Path {
		t.Errorf("path = %q, store = %q", scope.Path, scope.StorePath)
	}
}

func TestResolverNoProject(t *testing.T) {
	resolver := NewScopeResolver()

	_, ok := resolver.findProjectScope(t.TempDir())
	if ok {
		t.Error("expected no project scope in empty directory")
	}
}

func TestResolveExplicitGlobal(t *testing.T) {
	resolver := NewScopeResolver()

	scope := resolver.Resolve("global")
	if scope.Type != ScopeGlobal {
		t.Errorf("type = %q, want global", scope.Type)
	}
}

func TestCascadeEndsWithGlobal(t *testing.T) {
	resolver := NewScopeResolver()

	scopes := resolver.Cascade()
	if len(scopes) == 0 {
		t.Fatal("expected at least one scope")
	}
	if scopes[len(scopes)-1].Type != ScopeGlobal {
		t.Errorf("last scope = %q, want global", scopes[len(scopes)-1].Type)
	}
}
