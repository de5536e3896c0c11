package errors_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	pkgerrors "github.com/agentstation/clubmerge/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{
			Resource: "profile",
			ID:       "a1b2",
		}
		assert.Equal(t, "profile with ID a1b2 not found", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := pkgerrors.NewNotFoundError("club", "test")
		wrapped := errors.Join(errors.New("failed"), base)
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Field:   "batch_size",
			Message: "must be positive",
		}
		assert.Equal(t, "validation failed for field batch_size: must be positive", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Message: "invalid configuration",
		}
		assert.Equal(t, "validation failed: invalid configuration", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})
}

func TestRejectedRecordError(t *testing.T) {
	tests := []struct {
		name     string
		err      *pkgerrors.RejectedRecordError
		contains []string
	}{
		{
			name:     "invalid fields",
			err:      &pkgerrors.RejectedRecordError{File: "apta.json", Index: 3, UID: "u1", Fields: []string{"Email", "ClubID"}},
			contains: []string{"record 3 (u1)", "apta.json", "Email, ClubID"},
		},
		{
			name:     "missing uid",
			err:      &pkgerrors.RejectedRecordError{File: "milupa.json", Err: errors.New("bad tier")},
			contains: []string{"<no UID>", "bad tier"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, s := range tt.contains {
				assert.Contains(t, tt.err.Error(), s)
			}
			assert.True(t, pkgerrors.IsValidationError(tt.err))
		})
	}
}

func TestMergeError(t *testing.T) {
	err := pkgerrors.NewMergeError("jane@example.com", nil, pkgerrors.ErrEmptyGroup)
	assert.Equal(t, "merge failed for jane@example.com: empty profile group", err.Error())
	assert.True(t, pkgerrors.IsEmptyGroup(err))

	wrapped := fmt.Errorf("pipeline: %w", err)
	var mergeErr *pkgerrors.MergeError
	require.True(t, errors.As(wrapped, &mergeErr))
	assert.Equal(t, "jane@example.com", mergeErr.Identity)

	withUIDs := pkgerrors.NewMergeError("jane@example.com", []string{"u1", "u2"}, errors.New("boom"))
	assert.Contains(t, withUIDs.Error(), "[u1 u2]")
}

func TestParseError(t *testing.T) {
	tests := []struct {
		name string
		err  *pkgerrors.ParseError
		want string
	}{
		{
			name: "with offset",
			err:  &pkgerrors.ParseError{Format: "json", File: "a.json", Offset: 57, Message: "unexpected token"},
			want: "parse error in json file a.json at byte 57: unexpected token",
		},
		{
			name: "file only",
			err:  &pkgerrors.ParseError{Format: "yaml", File: "clubs.yaml", Message: "bad indent"},
			want: "parse error in yaml file clubs.yaml: bad indent",
		},
		{
			name: "no file",
			err:  &pkgerrors.ParseError{Format: "json", Message: "eof"},
			want: "json parse error: eof",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestWrapParseKeepsOffset(t *testing.T) {
	var v []map[string]any
	syntaxErr := json.Unmarshal([]byte(`[{"UID": "a"},, ]`), &v)
	require.Error(t, syntaxErr)

	var perr *pkgerrors.ParseError
	require.ErrorAs(t, pkgerrors.WrapParse("json", "apta.json", syntaxErr), &perr)
	assert.Equal(t, "apta.json", perr.File)
	assert.Positive(t, perr.Offset)
	assert.Contains(t, perr.Error(), "at byte")

	require.ErrorAs(t, pkgerrors.WrapParse("yaml", "clubs.yaml", errors.New("bad indent")), &perr)
	assert.Zero(t, perr.Offset)
}

func TestWrapHelpers(t *testing.T) {
	base := errors.New("disk full")

	assert.Nil(t, pkgerrors.WrapIO("write", "/tmp/x", nil))
	assert.Nil(t, pkgerrors.WrapParse("json", "x", nil))
	assert.Nil(t, pkgerrors.WrapSink("csv", "write", nil))

	ioErr := pkgerrors.WrapIO("write", "/tmp/out.json", base)
	var target *pkgerrors.IOError
	require.True(t, errors.As(ioErr, &target))
	assert.Equal(t, "/tmp/out.json", target.Path)
	assert.True(t, errors.Is(ioErr, base))

	sinkErr := pkgerrors.WrapSink("neo4j", "write trace", base)
	assert.Equal(t, "neo4j sink failed to write trace: disk full", sinkErr.Error())
	assert.True(t, errors.Is(sinkErr, base))

}
