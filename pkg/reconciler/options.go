package reconciler

import (
	"time"

	"github.com/google/uuid"

	"github.com/agentstation/clubmerge/pkg/authority"
	"github.com/agentstation/clubmerge/pkg/clubs"
	"github.com/agentstation/clubmerge/pkg/errors"
)

// Options configures a reconciler.
type options struct {
	strategy    Strategy
	authorities authority.Authority
	clubs       *clubs.Registry
	tracking    bool
	now         func() time.Time
	newID       func() string
}

func defaultOptions() *options {
	return &options{
		authorities: authority.New(),
		clubs:       clubs.MustDefault(),
		tracking:    true,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (options *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}
	if options.strategy == nil {
		options.strategy = NewClubRegistryStrategy(options.clubs)
	}
	return options, nil
}

// newOptions returns reconciler options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithStrategy sets the typeOfMember strategy.
func WithStrategy(strategy Strategy) Option {
	return func(r *options) error {
		if strategy == nil {
			return &errors.ValidationError{
				Field:   "strategy",
				Message: "cannot be nil",
			}
		}
		r.strategy = strategy
		return nil
	}
}

// WithAuthorities sets the field rule table.
func WithAuthorities(authorities authority.Authority) Option {
	return func(r *options) error {
		if authorities == nil {
			return &errors.ValidationError{
				Field:   "authorities",
				Message: "cannot be nil",
			}
		}
		r.authorities = authorities
		return nil
	}
}

// WithClubs sets the club table used for normalization, consents and the
// default strategy.
func WithClubs(registry *clubs.Registry) Option {
	return func(r *options) error {
		if registry == nil {
			return &errors.ValidationError{
				Field:   "clubs",
				Message: "cannot be nil",
			}
		}
		r.clubs = registry
		return nil
	}
}

// WithProvenance enables field-level tracking.
func WithProvenance(enabled bool) Option {
	return func(r *options) error {
		r.tracking = enabled
		return nil
	}
}

// WithClock sets the clock used for consent defaults and result timing.
func WithClock(now func() time.Time) Option {
	return func(r *options) error {
		if now == nil {
			return &errors.ValidationError{
				Field:   "clock",
				Message: "cannot be nil",
			}
		}
		r.now = now
		return nil
	}
}

// WithIDGenerator sets the generator of merged profile UIDs.
func WithIDGenerator(newID func() string) Option {
	return func(r *options) error {
		if newID == nil {
			return &errors.ValidationError{
				Field:   "id_generator",
				Message: "cannot be nil",
			}
		}
		r.newID = newID
		return nil
	}
}
