package sink

import (
	"bufio"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"sync"

	"github.com/agentstation/clubmerge/pkg/constants"
	"github.com/agentstation/clubmerge/pkg/errors"
)

// traceHeader is the header row of the trace file.
var traceHeader = []string{"old_UID", "old_clubId", "new_UID", "new_clubId", "email"}

// CSVTraceSink writes trace rows to oldData_merged_profile.csv.
type CSVTraceSink struct {
	mu   sync.Mutex
	path string
	file *os.File
	buf  *bufio.Writer
	w    *csv.Writer
}

// NewCSVTraceSink creates the trace file in dir and writes its header.
func NewCSVTraceSink(dir string) (*CSVTraceSink, error) {
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return nil, errors.WrapIO("create", dir, err)
	}
	path := filepath.Join(dir, constants.TraceFileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, constants.FilePermissions) //nolint:gosec // output directory is operator-provided
	if err != nil {
		return nil, errors.WrapIO("create", path, err)
	}
	buf := bufio.NewWriterSize(f, constants.WriteBufferSize)
	s := &CSVTraceSink{path: path, file: f, buf: buf, w: csv.NewWriter(buf)}
	if err := s.w.Write(traceHeader); err != nil {
		_ = f.Close()
		return nil, errors.WrapSink("csv", "write header", err)
	}
	return s, nil
}

// Path returns the trace file path.
func (s *CSVTraceSink) Path() string {
	return s.path
}

// Write appends rows to the trace file.
func (s *CSVTraceSink) Write(_ context.Context, rows []TraceRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rows {
		if err := s.w.Write([]string{r.OldUID, r.OldClubID, r.NewUID, r.NewClubID, r.Email}); err != nil {
			return errors.WrapSink("csv", "write row", err)
		}
	}
	return nil
}

// Close flushes and closes the trace file.
func (s *CSVTraceSink) Close(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		_ = s.file.Close()
		return errors.WrapSink("csv", "flush", err)
	}
	if err := s.buf.Flush(); err != nil {
		_ = s.file.Close()
		return errors.WrapSink("csv", "flush", err)
	}
	return errors.WrapIO("close", s.path, s.file.Close())
}
