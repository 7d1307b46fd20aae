package rootpath

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/eugenenazirov/doctour/internal/lazy"
)

const (
	// Marker is the directory name that identifies the project root.
	Marker = "DocTour-AI"
	// MaxHops bounds the upward walk from the executable.
	MaxHops = 10
)

// ErrRootNotFound is returned when no ancestor of the executable carries the marker name.
var ErrRootNotFound = errors.New("project root not found")

// Resolver walks upward from the running executable until it reaches a
// directory named Marker.
type Resolver struct {
	Marker     string
	MaxHops    int
	Executable func() (string, error)
}

// NewResolver returns a Resolver with the production marker and hop bound.
func NewResolver() *Resolver {
	return &Resolver{
		Marker:     Marker,
		MaxHops:    MaxHops,
		Executable: os.Executable,
	}
}

// Find returns the absolute path of the closest ancestor named r.Marker.
func (r *Resolver) Find() (string, error) {
	exe, err := r.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}

	abs, err := filepath.Abs(exe)
	if err != nil {
		return "", fmt.Errorf("absolute executable path: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}

	return r.walk(filepath.Clean(abs))
}

func (r *Resolver) walk(start string) (string, error) {
	cur := start
	for hops := 0; filepath.Base(cur) != r.Marker; hops++ {
		if hops >= r.MaxHops {
			return "", fmt.Errorf("%w: no %q directory within %d levels of %s", ErrRootNotFound, r.Marker, r.MaxHops, start)
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return "", fmt.Errorf("%w: reached filesystem root from %s", ErrRootNotFound, start)
		}
		cur = parent
	}
	return cur, nil
}

var root = lazy.New(func() (string, error) {
	return NewResolver().Find()
})

// Resolve returns the project root, resolving it on first use. The result
// (or the failure) is cached for the lifetime of the process.
func Resolve() (string, error) {
	return root.Get()
}

// MustResolve is like Resolve but panics when the root cannot be located.
func MustResolve() string {
	dir, err := Resolve()
	if err != nil {
		panic(fmt.Sprintf("failed to resolve project root: %v", err))
	}
	return dir
}

// SetRoot pins the project root to dir instead of walking from the executable.
// It must be called before the first Resolve.
func SetRoot(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("absolute root path: %w", err)
	}
	if !root.Set(filepath.Clean(abs)) {
		return errors.New("project root already resolved")
	}
	return nil
}
