package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "robowars"

// Command outcomes
const (
	OutcomeApplied  = "applied"
	OutcomeRejected = "rejected"
)

// Metrics holds the collectors for one instance. A nil *Metrics is valid and records nothing.
type Metrics struct {
	commands         *prometheus.CounterVec
	snapshotsSent    prometheus.Counter
	snapshotsRecv    prometheus.Counter
	snapshotsIgnored *prometheus.CounterVec
	persistFailures  prometheus.Counter
	publishFailures  prometheus.Counter
	stateVersion     prometheus.Gauge
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "commands_total",
			Help:      "Store commands by name and outcome.",
		}, []string{"command", "outcome"}),
		snapshotsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "snapshots_published_total",
			Help:      "Snapshots broadcast to other instances.",
		}),
		snapshotsRecv: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "snapshots_received_total",
			Help:      "Foreign snapshots adopted from other instances.",
		}),
		snapshotsIgnored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "snapshots_ignored_total",
			Help:      "Received sync messages that were dropped, by reason.",
		}, []string{"reason"}),
		persistFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "persist_failures_total",
			Help:      "Snapshot writes that failed.",
		}),
		publishFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "publish_failures_total",
			Help:      "Snapshot broadcasts that failed.",
		}),
		stateVersion: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "state_version",
			Help:      "Number of state changes applied by this instance.",
		}),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{
			m.commands, m.snapshotsSent, m.snapshotsRecv, m.snapshotsIgnored,
			m.persistFailures, m.publishFailures, m.stateVersion,
		} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}

	return m, nil
}

// CommandApplied counts a command that changed state
func (m *Metrics) CommandApplied(command string) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(command, OutcomeApplied).Inc()
}

// CommandRejected counts a command that was a no-op
func (m *Metrics) CommandRejected(command string) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(command, OutcomeRejected).Inc()
}

// SnapshotPublished counts a broadcast snapshot
func (m *Metrics) SnapshotPublished() {
	if m == nil {
		return
	}
	m.snapshotsSent.Inc()
}

// SnapshotReceived counts an adopted foreign snapshot
func (m *Metrics) SnapshotReceived() {
	if m == nil {
		return
	}
	m.snapshotsRecv.Inc()
}

// SnapshotIgnored counts a dropped sync message
func (m *Metrics) SnapshotIgnored(reason string) {
	if m == nil {
		return
	}
	m.snapshotsIgnored.WithLabelValues(reason).Inc()
}

// PersistFailed counts a failed snapshot write
func (m *Metrics) PersistFailed() {
	if m == nil {
		return
	}
	m.persistFailures.Inc()
}

// PublishFailed counts a failed broadcast
func (m *Metrics) PublishFailed() {
	if m == nil {
		return
	}
	m.publishFailures.Inc()
}

// SetStateVersion records the store version
func (m *Metrics) SetStateVersion(version uint64) {
	if m == nil {
		return
	}
	m.stateVersion.Set(float64(version))
}
