package butterfly

import (
	"bytes"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nathaniel-bennett/butterfly/pkg/log"
)

// StateMonitor is an EventFirer that aggregates the node/edge stats
// StateFeedback fires, per client, and exposes both the per-client-average
// contract spec §4.9 requires (AvgStateNodes/AvgStateEdges) and Prometheus
// gauges tracking those averages, matching the DOMAIN STACK's choice of
// prometheus/client_golang for monitor-side metrics. It does not itself
// serve an HTTP endpoint; callers register its collectors with whatever
// registry the surrounding runtime already exposes.
type StateMonitor struct {
	nodesGauge prometheus.Gauge
	edgesGauge prometheus.Gauge

	mu         sync.Mutex
	nodeStats  map[string]uint64 // clientID -> latest reported node count
	edgeStats  map[string]uint64 // clientID -> latest reported edge count
}

// NewStateMonitor creates a StateMonitor with its own gauges, ready to be
// registered with a prometheus.Registerer.
func NewStateMonitor() *StateMonitor {
	return &StateMonitor{
		nodesGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "butterfly_avg_state_nodes",
			Help: "Average, across clients, of each client's state-graph vertex count.",
		}),
		edgesGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "butterfly_avg_state_edges",
			Help: "Average, across clients, of each client's state-graph edge count.",
		}),
		nodeStats: make(map[string]uint64),
		edgeStats: make(map[string]uint64),
	}
}

// Collectors returns the gauges for registration with a
// prometheus.Registerer.
func (m *StateMonitor) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.nodesGauge, m.edgesGauge}
}

// FireStat implements EventFirer. It records the firing client's latest
// node/edge count and refreshes the cross-client average gauges; any other
// stat name is ignored by this monitor (it isn't the only consumer of the
// event stream).
func (m *StateMonitor) FireStat(stat Stat) error {
	switch stat.Name {
	case StatNodes:
		m.mu.Lock()
		m.nodeStats[stat.ClientID] = stat.Number
		m.nodesGauge.Set(m.averageLocked(m.nodeStats))
		m.mu.Unlock()
	case StatEdges:
		m.mu.Lock()
		m.edgeStats[stat.ClientID] = stat.Number
		m.edgesGauge.Set(m.averageLocked(m.edgeStats))
		m.mu.Unlock()
	}
	return nil
}

// AvgStateNodes returns the average, across every client that has reported
// at least one node-count stat, of that client's latest node count — the
// avg_statemachine_nodes contract (spec §4.9).
func (m *StateMonitor) AvgStateNodes() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.averageLocked(m.nodeStats)
}

// AvgStateEdges returns the average, across every client that has reported
// at least one edge-count stat, of that client's latest edge count — the
// avg_statemachine_edges contract (spec §4.9).
func (m *StateMonitor) AvgStateEdges() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.averageLocked(m.edgeStats)
}

func (m *StateMonitor) averageLocked(byClient map[string]uint64) float64 {
	if len(byClient) == 0 {
		return 0
	}
	var sum uint64
	for _, v := range byClient {
		sum += v
	}
	return float64(sum) / float64(len(byClient))
}

// GraphvizMonitor periodically overwrites a file on disk with the
// concatenation of every client's latest DOT state-graph text, the Go
// analogue of the Rust original's interval-gated GraphvizMonitor
// (_examples/original_source/src/monitor.rs). It is compiled into every
// build, but StateFeedback fires StatGraph only under the graphviz build tag
// (see feedback_graphviz.go / feedback_nographviz.go), so without that tag
// this type receives nothing and never writes.
type GraphvizMonitor struct {
	path     string
	interval time.Duration

	mu        sync.Mutex
	lastWrite time.Time
	graphs    map[string]string // clientID -> latest DOT text
}

// NewGraphvizMonitor creates a GraphvizMonitor writing the combined DOT text
// to path at most once per interval.
func NewGraphvizMonitor(path string, interval time.Duration) *GraphvizMonitor {
	return &GraphvizMonitor{
		path:      path,
		interval:  interval,
		lastWrite: time.Now(),
		graphs:    make(map[string]string),
	}
}

// FireStat implements EventFirer. It always records the firing client's
// latest graph text, then writes the concatenation of every known client's
// graph to disk only once interval has elapsed since the last write,
// matching spec §4.9's "periodically (every N seconds)".
func (m *GraphvizMonitor) FireStat(stat Stat) error {
	if stat.Name != StatGraph || !stat.IsText {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.graphs[stat.ClientID] = stat.Text
	if time.Since(m.lastWrite) < m.interval {
		return nil
	}
	m.lastWrite = time.Now()

	var buf bytes.Buffer
	for _, graph := range m.graphs {
		buf.WriteString(graph)
		buf.WriteByte('\n')
	}

	if err := os.WriteFile(m.path, buf.Bytes(), 0o644); err != nil {
		log.Errorf("graphviz monitor: writing %s: %v", m.path, err)
		return err
	}
	return nil
}

// FanoutFirer broadcasts each Stat to every configured EventFirer,
// stopping at the first error. Useful for composing StateMonitor's
// Prometheus gauges with a GraphvizMonitor's disk dumps.
type FanoutFirer struct {
	firers []EventFirer
}

// NewFanoutFirer creates a FanoutFirer over the given firers.
func NewFanoutFirer(firers ...EventFirer) *FanoutFirer {
	return &FanoutFirer{firers: firers}
}

// FireStat implements EventFirer.
func (f *FanoutFirer) FireStat(stat Stat) error {
	for _, firer := range f.firers {
		if err := firer.FireStat(stat); err != nil {
			return err
		}
	}
	return nil
}
