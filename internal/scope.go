package internal

import (
	"os"
	"path/filepath"
)

type ScopeType string

const (
	ScopeGlobal  ScopeType = "global"
	ScopeProject ScopeType = "project"
)

// Scope locates one index store: either a project-local .recall directory or
// the global one under the user's home.
type Scope struct {
	Type      ScopeType
	Path      string // working directory root
	StorePath string // .recall directory path
}

func (s Scope) IndexPath() string {
	return filepath.Join(s.StorePath, IndexFilename)
}

func (s Scope) ConfigPath() string {
	return filepath.Join(s.StorePath, "config.yaml")
}

type ScopeResolver struct {
	homeDir string
}

func NewScopeResolver() *ScopeResolver {
	home, _ := os.UserHomeDir()
	return &ScopeResolver{homeDir: home}
}

func (r *ScopeResolver) Global() Scope {
	storePath := filepath.Join(r.homeDir, ".recall")
	return Scope{
		Type:      ScopeGlobal,
		Path:      r.homeDir,
		StorePath: storePath,
	}
}

func (r *ScopeResolver) Project() (Scope, bool) {
	cwd, err := os.Getwd()
	if err != nil {
		return Scope{}, false
	}
	return r.findProjectScope(cwd)
}

func (r *ScopeResolver) findProjectScope(dir string) (Scope, bool) {
	for {
		storePath := filepath.Join(dir, ".recall")
		info, err := os.Stat(storePath)
		if err == nil && info.IsDir() {
			return Scope{Type: ScopeProject, Path: dir, StorePath: storePath}, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Scope{}, false
		}
		dir = parent
	}
}

func (r *ScopeResolver) Resolve(explicit string) Scope {
	if explicit == "global" {
		return r.Global()
	}
	if scope, ok := r.Project(); ok {
		return scope
	}
	return r.Global()
}

// Cascade returns the scopes to consult in order: the enclosing project
// store first when one exists, then the global store.
func (r *ScopeResolver) Cascade() []Scope {
	scopes := []Scope{}
	if scope, ok := r.Project(); ok {
		scopes = append(scopes, scope)
	}
	scopes = append(scopes, r.Global())
	return scopes
}
