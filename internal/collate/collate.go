// Package collate reads raw profile records and groups them by identity key.
package collate

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/go-playground/validator/v10"

	"github.com/agentstation/clubmerge/pkg/errors"
	"github.com/agentstation/clubmerge/pkg/logging"
	"github.com/agentstation/clubmerge/pkg/profiles"
)

// Group is the set of records sharing one identity key, in input order.
type Group struct {
	Identity string
	Profiles []*profiles.Profile
}

// Result holds the collated groups and the records that were rejected.
type Result struct {
	Groups   []Group
	Rejected []*errors.RejectedRecordError
	Files    int
	Records  int
}

// Duplicates returns the groups with more than one record.
func (r *Result) Duplicates() []Group {
	var out []Group
	for _, g := range r.Groups {
		if len(g.Profiles) > 1 {
			out = append(out, g)
		}
	}
	return out
}

// Collator reads record files into identity groups.
type Collator struct {
	validate *validator.Validate
	groups   map[string]int
	result   *Result
}

// New creates an empty collator.
func New() *Collator {
	return &Collator{
		validate: validator.New(),
		groups:   make(map[string]int),
		result:   &Result{},
	}
}

// Dir collates every *.json file of dir in lexical order.
func Dir(ctx context.Context, dir string) (*Result, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, errors.WrapIO("glob", dir, err)
	}
	slices.Sort(paths)

	c := New()
	for _, path := range paths {
		if err := c.File(ctx, path); err != nil {
			return nil, err
		}
	}
	return c.Result(), nil
}

// File adds the records of one JSON array file.
func (c *Collator) File(ctx context.Context, path string) error {
	f, err := os.Open(path) //nolint:gosec // input directory is operator-provided
	if err != nil {
		return errors.WrapIO("open", path, err)
	}
	defer func() { _ = f.Close() }()

	if err := c.Read(ctx, f, filepath.Base(path)); err != nil {
		return err
	}
	c.result.Files++
	return nil
}

// Read adds the records of a JSON array read from r. Records are decoded one
// at a time; invalid records are rejected and collation continues.
func (c *Collator) Read(ctx context.Context, r io.Reader, file string) error {
	logger := logging.FromContext(ctx)
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return errors.WrapParse("json", file, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return errors.NewParseError("json", file, "expected a JSON array of records", nil)
	}

	index := 0
	for dec.More() {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", errors.ErrCanceled, err)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return errors.WrapParse("json", file, err)
		}
		c.result.Records++

		p, rejected := c.decode(raw, file, index)
		index++
		if rejected != nil {
			c.result.Rejected = append(c.result.Rejected, rejected)
			logger.Warn().Err(rejected).Str("file", file).Msg("Record rejected")
			continue
		}
		c.add(p)
	}

	logger.Debug().Str("file", file).Int("records", index).Msg("Collated file")
	return nil
}

// Result returns the collation so far.
func (c *Collator) Result() *Result {
	return c.result
}

func (c *Collator) decode(raw json.RawMessage, file string, index int) (*profiles.Profile, *errors.RejectedRecordError) {
	var p profiles.Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, &errors.RejectedRecordError{File: file, Index: index, Err: err}
	}
	if err := Validate(c.validate, &p); err != nil {
		err.File, err.Index = file, index
		return nil, err
	}
	return &p, nil
}

func (c *Collator) add(p *profiles.Profile) {
	key := p.IdentityKey()
	if i, ok := c.groups[key]; ok {
		c.result.Groups[i].Profiles = append(c.result.Groups[i].Profiles, p)
		return
	}
	c.groups[key] = len(c.result.Groups)
	c.result.Groups = append(c.result.Groups, Group{Identity: key, Profiles: []*profiles.Profile{p}})
}

// Validate checks the fields a record needs to enter the merge engine:
// UID, email, a consistent tier and a club id.
func Validate(v *validator.Validate, p *profiles.Profile) *errors.RejectedRecordError {
	var fields []string
	if err := v.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if !stderrors.As(err, &verrs) {
			return &errors.RejectedRecordError{UID: p.UID, Err: err}
		}
		for _, fe := range verrs {
			fields = append(fields, fe.Field())
		}
	}
	if !p.Data.Has(profiles.AttrClubID) {
		fields = append(fields, profiles.AttrClubID)
	}
	if len(fields) == 0 {
		return nil
	}
	return &errors.RejectedRecordError{
		UID:    p.UID,
		Fields: fields,
		Err:    errors.ErrInvalidInput,
	}
}
