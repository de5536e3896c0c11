package sink

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/agentstation/clubmerge/pkg/constants"
	"github.com/agentstation/clubmerge/pkg/errors"
	"github.com/agentstation/clubmerge/pkg/profiles"
)

// BatchWriter writes merged profiles as JSON arrays of at most size profiles
// per file, named user-DE-merged_<n>.json with n counting from 1.
type BatchWriter struct {
	mu      sync.Mutex
	dir     string
	size    int
	pending []*profiles.Profile
	files   []string
	written int
}

// NewBatchWriter creates a writer into dir. A size below 1 uses the default.
func NewBatchWriter(dir string, size int) (*BatchWriter, error) {
	if size < 1 {
		size = constants.MaxProfilesPerFile
	}
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return nil, errors.WrapIO("create", dir, err)
	}
	return &BatchWriter{dir: dir, size: size}, nil
}

// Add queues a profile and writes a file once a batch is full.
func (w *BatchWriter) Add(p *profiles.Profile) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending = append(w.pending, p)
	if len(w.pending) >= w.size {
		return w.flush()
	}
	return nil
}

// Flush writes the pending profiles, if any.
func (w *BatchWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.flush()
}

// Files returns the paths written so far.
func (w *BatchWriter) Files() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.files...)
}

// Written returns the number of profiles written so far.
func (w *BatchWriter) Written() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.written
}

func (w *BatchWriter) flush() error {
	if len(w.pending) == 0 {
		return nil
	}
	path := filepath.Join(w.dir, fmt.Sprintf("%s%d.json", constants.MergedFilePrefix, len(w.files)+1))
	if err := writeJSONArray(path, w.pending); err != nil {
		return errors.WrapSink("json", "write "+path, err)
	}
	w.files = append(w.files, path)
	w.written += len(w.pending)
	w.pending = w.pending[:0]
	return nil
}

func writeJSONArray(path string, items []*profiles.Profile) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, constants.FilePermissions) //nolint:gosec // output directory is operator-provided
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	bw := bufio.NewWriterSize(f, constants.WriteBufferSize)
	if _, err := bw.WriteString("[\n"); err != nil {
		return err
	}
	for i, p := range items {
		b, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", p.UID, err)
		}
		if i > 0 {
			if _, err := bw.WriteString(",\n"); err != nil {
				return err
			}
		}
		if _, err := bw.Write(b); err != nil {
			return err
		}
	}
	if _, err := bw.WriteString("\n]\n"); err != nil {
		return err
	}
	return bw.Flush()
}
