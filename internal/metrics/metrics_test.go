package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.CommandApplied("submit_score")
	m.CommandApplied("submit_score")
	m.CommandRejected("add_match")
	m.SnapshotPublished()
	m.SnapshotReceived()
	m.SnapshotIgnored("self")
	m.PersistFailed()
	m.PublishFailed()
	m.SetStateVersion(7)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.commands.WithLabelValues("submit_score", OutcomeApplied)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.commands.WithLabelValues("add_match", OutcomeRejected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.snapshotsSent))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.snapshotsRecv))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.snapshotsIgnored.WithLabelValues("self")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.persistFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.publishFailures))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.stateVersion))

	count, err := testutil.GatherAndCount(reg, "robowars_sync_persist_failures_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDoubleRegisterFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)

	_, err = New(reg)
	assert.Error(t, err)
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.CommandApplied("x")
		m.CommandRejected("x")
		m.SnapshotPublished()
		m.SnapshotReceived()
		m.SnapshotIgnored("x")
		m.PersistFailed()
		m.PublishFailed()
		m.SetStateVersion(1)
	})
}
