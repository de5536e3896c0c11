// Package application defines the application interface shared by all
// clubmerge commands.
//
// Usage in Commands:
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            registry, err := app.Clubs()
//	            if err != nil {
//	                return err
//	            }
//	            // ... use registry
//	            return nil
//	        },
//	    }
//	}
//
// Testing with Mocks:
//
//	mock := &application.Mock{
//	    OutputFormatFunc: func() string { return "json" },
//	}
//	cmd := NewCommand(mock)
//	// ... test command behavior
package application

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/clubmerge"
	"github.com/agentstation/clubmerge/pkg/clubs"
)

// Application provides the dependencies commands need. The App struct from
// cmd/clubmerge/app implements it; tests use Mock.
//
// Commands should accept this interface rather than the concrete App type.
type Application interface {
	// Clubs returns the club table, from the configured file or the embedded default.
	Clubs() (*clubs.Registry, error)

	// PipelineOptions returns the pipeline options built from the configuration.
	// It connects the Neo4j trace sink when one is configured, so it takes a context.
	PipelineOptions(ctx context.Context) ([]clubmerge.Option, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
