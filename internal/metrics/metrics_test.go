package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()
	m.Merged(3, 1, 2, 5*time.Millisecond)
	m.Merged(2, 0, 1, time.Millisecond)
	m.Failed(4)
	m.Rejected(7)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.identities.WithLabelValues("merged")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.identities.WithLabelValues("failed")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.records.WithLabelValues("merged")))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.records.WithLabelValues("rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.childCollisions))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.sharedItems))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.Merged(2, 0, 0, time.Millisecond)
	path := filepath.Join(t.TempDir(), "clubmerge.prom")

	require.NoError(t, m.WriteTextfile(path, time.Unix(1700000000, 0)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `clubmerge_identities_total{result="merged"} 2`)
	assert.Contains(t, string(data), "clubmerge_last_run_timestamp_seconds 1.7e+09")
}

func TestWriteTextfileError(t *testing.T) {
	err := New().WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom"), time.Now())
	assert.Error(t, err)
}
