package clubs

import (
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/clubmerge/internal/embedded"
	"github.com/agentstation/clubmerge/pkg/errors"
)

// ValidationError reports an invalid entry of a club table.
type ValidationError struct {
	Index   int
	ClubID  string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.ClubID != "" {
		return fmt.Sprintf("club %d (%s): %s", e.Index, e.ClubID, e.Message)
	}
	return fmt.Sprintf("club %d: %s", e.Index, e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == errors.ErrInvalidInput
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
	defaultErr      error
)

// Default returns the registry built from the embedded club table.
func Default() (*Registry, error) {
	defaultOnce.Do(func() {
		defaultRegistry, defaultErr = LoadFS(embedded.FS, embedded.ClubsFile)
	})
	return defaultRegistry, defaultErr
}

// MustDefault is Default for callers that cannot handle an error.
// The embedded table is covered by tests, so a failure here is a build defect.
func MustDefault() *Registry {
	r, err := Default()
	if err != nil {
		panic(err)
	}
	return r
}

// Load reads a club table from a YAML file on disk.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from configuration
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	return Parse(data, path)
}

// LoadFS reads a club table from a filesystem.
func LoadFS(fsys fs.FS, name string) (*Registry, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, errors.WrapIO("read", name, err)
	}
	return Parse(data, name)
}

// Parse decodes a YAML club table. file is only used in error messages.
func Parse(data []byte, file string) (*Registry, error) {
	var table []Club
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, errors.WrapParse("yaml", file, err)
	}
	return NewRegistry(table)
}

// Marshal encodes clubs as a YAML club table.
func Marshal(clubs []Club) ([]byte, error) {
	return yaml.MarshalWithOptions(clubs, yaml.Indent(2), yaml.IndentSequence(false))
}
