package system

import (
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Env is the run-scoped process environment: the inherited variables plus a search path
// that steps may extend (for example with version-manager shims).
type Env struct {
	fs   afero.Fs
	path []string
	vars []string // inherited variables without PATH
}

// NewEnv splits environ (os.Environ format) into the search path and the other variables.
func NewEnv(fs afero.Fs, environ []string) *Env {
	e := &Env{fs: fs}
	for _, kv := range environ {
		if strings.HasPrefix(kv, "PATH=") {
			e.path = filepath.SplitList(strings.TrimPrefix(kv, "PATH="))
			continue
		}
		e.vars = append(e.vars, kv)
	}
	return e
}

// PrependPath puts dir at the front of the search path. A dir already present is moved.
func (e *Env) PrependPath(dir string) {
	kept := []string{dir}
	for _, p := range e.path {
		if p != dir {
			kept = append(kept, p)
		}
	}
	e.path = kept
}

// Path returns the search path in PATH syntax.
func (e *Env) Path() string {
	return strings.Join(e.path, string(filepath.ListSeparator))
}

// Environ returns the variables for a child process: inherited ones, the current PATH,
// then extra pairs (later pairs win in os/exec).
func (e *Env) Environ(extra ...string) []string {
	out := make([]string, 0, len(e.vars)+len(extra)+1)
	out = append(out, e.vars...)
	out = append(out, "PATH="+e.Path())
	return append(out, extra...)
}

// Probe answers whether a command is available on the run's search path.
// It never executes anything.
type Probe struct {
	env *Env
}

// NewProbe creates a Probe over env.
func NewProbe(env *Env) *Probe {
	return &Probe{env: env}
}

// Has reports whether name resolves to an executable.
func (p *Probe) Has(name string) bool {
	_, ok := p.Resolve(name)
	return ok
}

// Resolve returns the executable path for name. Names containing a separator are checked as given.
func (p *Probe) Resolve(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	if strings.ContainsRune(name, filepath.Separator) {
		return name, p.executable(name)
	}

	for _, dir := range p.env.path {
		if dir == "" {
			dir = "."
		}
		candidate := filepath.Join(dir, name)
		if p.executable(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func (p *Probe) executable(path string) bool {
	info, err := p.env.fs.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode().Perm()&0111 != 0
}
