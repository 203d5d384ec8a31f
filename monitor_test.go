package butterfly

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateMonitorAveragesAcrossClients(t *testing.T) {
	m := NewStateMonitor()

	require.NoError(t, m.FireStat(Stat{Name: StatNodes, Number: 4, ClientID: "a"}))
	require.NoError(t, m.FireStat(Stat{Name: StatNodes, Number: 8, ClientID: "b"}))
	require.NoError(t, m.FireStat(Stat{Name: StatEdges, Number: 2, ClientID: "a"}))
	require.NoError(t, m.FireStat(Stat{Name: StatEdges, Number: 6, ClientID: "b"}))

	assert.Equal(t, 6.0, m.AvgStateNodes())
	assert.Equal(t, 4.0, m.AvgStateEdges())
}

func TestStateMonitorUpdatesPerClientNotOverwritingOthers(t *testing.T) {
	m := NewStateMonitor()

	require.NoError(t, m.FireStat(Stat{Name: StatNodes, Number: 4, ClientID: "a"}))
	require.NoError(t, m.FireStat(Stat{Name: StatNodes, Number: 8, ClientID: "b"}))
	require.NoError(t, m.FireStat(Stat{Name: StatNodes, Number: 10, ClientID: "a"}))

	assert.Equal(t, 9.0, m.AvgStateNodes())
}

func TestStateMonitorAverageWithNoClientsIsZero(t *testing.T) {
	m := NewStateMonitor()
	assert.Equal(t, 0.0, m.AvgStateNodes())
	assert.Equal(t, 0.0, m.AvgStateEdges())
}

func TestGraphvizMonitorWaitsForInterval(t *testing.T) {
	path := t.TempDir() + "/stategraph.dot"
	m := NewGraphvizMonitor(path, time.Hour)

	require.NoError(t, m.FireStat(Stat{Name: StatGraph, Text: "digraph{}", IsText: true, ClientID: "a"}))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestGraphvizMonitorConcatenatesAllClientsOnWrite(t *testing.T) {
	path := t.TempDir() + "/stategraph.dot"
	m := NewGraphvizMonitor(path, 0)

	require.NoError(t, m.FireStat(Stat{Name: StatGraph, Text: "digraph A{}", IsText: true, ClientID: "a"}))
	require.NoError(t, m.FireStat(Stat{Name: StatGraph, Text: "digraph B{}", IsText: true, ClientID: "b"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "digraph A{}")
	assert.Contains(t, string(data), "digraph B{}")
}
