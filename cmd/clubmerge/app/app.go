// Package app provides the application context and dependency management
// for the clubmerge CLI. It centralizes configuration, logging and the
// construction of the merge pipeline from that configuration.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/clubmerge"
	"github.com/agentstation/clubmerge/internal/cmd/application"
	"github.com/agentstation/clubmerge/internal/sink"
	"github.com/agentstation/clubmerge/pkg/authority"
	"github.com/agentstation/clubmerge/pkg/clubs"
	"github.com/agentstation/clubmerge/pkg/errors"
	"github.com/agentstation/clubmerge/pkg/profiles"
	"github.com/agentstation/clubmerge/pkg/reconciler"
)

// App represents the clubmerge application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// Club table (lazy-initialized, singleton)
	mu    sync.RWMutex
	clubs *clubs.Registry
}

// Ensure App implements application.Application at compile time.
var _ application.Application = (*App)(nil)

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, err
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Clubs returns the club table, loading it on first use.
// This is thread-safe and ensures the file is read once.
func (a *App) Clubs() (*clubs.Registry, error) {
	a.mu.RLock()
	if a.clubs != nil {
		r := a.clubs
		a.mu.RUnlock()
		return r, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.clubs != nil {
		return a.clubs, nil
	}

	var (
		r   *clubs.Registry
		err error
	)
	if a.config.ClubsFile != "" {
		r, err = clubs.Load(a.config.ClubsFile)
	} else {
		r, err = clubs.Default()
	}
	if err != nil {
		return nil, err
	}
	a.logger.Debug().Int("clubs", r.Len()).Str("file", a.config.ClubsFile).Msg("Loaded club table")

	a.clubs = r
	return r, nil
}

// PipelineOptions builds the pipeline options from the configuration.
func (a *App) PipelineOptions(ctx context.Context) ([]clubmerge.Option, error) {
	recOpts, err := a.reconcilerOptions()
	if err != nil {
		return nil, err
	}

	opts := []clubmerge.Option{
		clubmerge.WithReconcilerOptions(recOpts...),
	}
	if a.config.InputDir != "" {
		opts = append(opts, clubmerge.WithInputDir(a.config.InputDir))
	}
	if a.config.OutputDir != "" {
		opts = append(opts, clubmerge.WithOutputDir(a.config.OutputDir))
	}
	if a.config.BatchSize > 0 {
		opts = append(opts, clubmerge.WithBatchSize(a.config.BatchSize))
	}
	if a.config.Workers > 0 {
		opts = append(opts, clubmerge.WithWorkers(a.config.Workers))
	}
	if a.config.MetricsFile != "" {
		opts = append(opts, clubmerge.WithMetricsTextfile(a.config.MetricsFile))
	}

	kind, ok := sink.ParseKind(a.config.TraceSink)
	if !ok {
		return nil, errors.NewConfigError("trace-sink", "unknown trace sink "+a.config.TraceSink, nil)
	}
	if kind == sink.KindNeo4j {
		graph, err := sink.NewNeo4jTraceSink(ctx, sink.Neo4jOptions{
			URI:      a.config.Neo4jURI,
			Username: a.config.Neo4jUser,
			Password: a.config.Neo4jPassword,
			Database: a.config.Neo4jDatabase,
		})
		if err != nil {
			return nil, err
		}
		a.logger.Info().Str("uri", a.config.Neo4jURI).Msg("Writing trace to Neo4j")
		opts = append(opts, clubmerge.WithTraceSink(graph))
	}

	return opts, nil
}

// reconcilerOptions builds the merge engine options from the configuration.
func (a *App) reconcilerOptions() ([]reconciler.Option, error) {
	registry, err := a.Clubs()
	if err != nil {
		return nil, err
	}

	strategyType, err := reconciler.ParseStrategyType(a.config.Strategy)
	if err != nil {
		return nil, errors.NewConfigError("strategy", err.Error(), err)
	}
	var strategy reconciler.Strategy = reconciler.NewClubRegistryStrategy(registry)
	if strategyType == reconciler.StrategyTypePriorityList {
		strategy = reconciler.NewPriorityListStrategy(reconciler.DefaultTypeOfMemberPriority)
	}

	var fixed []authority.Option
	for field, value := range map[string]string{
		profiles.AttrDivision:        a.config.Division,
		profiles.AttrRegion:          a.config.Region,
		profiles.AttrCountryDivision: a.config.CountryDivision,
	} {
		if value != "" {
			fixed = append(fixed, authority.WithFixedValue(field, value))
		}
	}

	return []reconciler.Option{
		reconciler.WithClubs(registry),
		reconciler.WithStrategy(strategy),
		reconciler.WithAuthorities(authority.New(fixed...)),
	}, nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithClubs sets the club table (useful for testing).
func WithClubs(r *clubs.Registry) Option {
	return func(a *App) error {
		a.clubs = r
		return nil
	}
}
