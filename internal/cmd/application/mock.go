package application

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/clubmerge"
	"github.com/agentstation/clubmerge/pkg/clubs"
	"github.com/agentstation/clubmerge/pkg/logging"
)

// Mock provides a mock implementation of Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default/zero value.
//
// Example Usage:
//
//	mock := &application.Mock{
//	    PipelineOptionsFunc: func(context.Context) ([]clubmerge.Option, error) {
//	        return []clubmerge.Option{clubmerge.WithInputDir(dir)}, nil
//	    },
//	}
//	cmd := merge.NewCommand(mock)
//	// ... test command
type Mock struct {
	ClubsFunc           func() (*clubs.Registry, error)
	PipelineOptionsFunc func(ctx context.Context) ([]clubmerge.Option, error)
	LoggerFunc          func() *zerolog.Logger
	OutputFormatFunc    func() string
	VersionFunc         func() string
	CommitFunc          func() string
	DateFunc            func() string
	BuiltByFunc         func() string
}

// Clubs returns the club table using the mock function or the embedded default.
func (m *Mock) Clubs() (*clubs.Registry, error) {
	if m.ClubsFunc != nil {
		return m.ClubsFunc()
	}
	return clubs.Default()
}

// PipelineOptions returns pipeline options using the mock function or none.
func (m *Mock) PipelineOptions(ctx context.Context) ([]clubmerge.Option, error) {
	if m.PipelineOptionsFunc != nil {
		return m.PipelineOptionsFunc(ctx)
	}
	return nil, nil
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	return logging.NewNopLogger()
}

// OutputFormat returns output format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}

// Ensure Mock implements Application at compile time.
var _ Application = (*Mock)(nil)
