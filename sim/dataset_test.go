package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func powerAt(ts, total float64) PowerSample {
	return PowerSample{Timestamp: ts, TotalPower: total}
}

func counterAt(ts float64) CounterSample {
	return CounterSample{Timestamp: ts, SMActivity: 0.5, MemoryUtilization: 0.5, CacheHitRate: 0.5, Instructions: 1, MemoryThroughput: 1}
}

func TestBuildTrainingTable_NearestTimestampWins(t *testing.T) {
	// GIVEN power samples at t=0,1,2 and counters between them
	powers := []PowerSample{powerAt(0, 100), powerAt(1, 200), powerAt(2, 300)}
	counters := []CounterSample{
		counterAt(0.1), // closest to t=0
		counterAt(0.9), // closest to t=1
		counterAt(1.6), // closest to t=2
	}

	// WHEN joining
	table, err := BuildTrainingTable(counters, powers)
	require.NoError(t, err)

	// THEN each counter row carries the nearest power sample's total
	assert.Equal(t, []float64{100, 200, 300}, table.Target)
}

func TestBuildTrainingTable_ExactTimestampMatch(t *testing.T) {
	powers := []PowerSample{powerAt(0, 100), powerAt(1, 200)}
	table, err := BuildTrainingTable([]CounterSample{counterAt(1)}, powers)
	require.NoError(t, err)
	assert.Equal(t, []float64{200}, table.Target)
}

func TestBuildTrainingTable_TieResolvesToEarlierSample(t *testing.T) {
	// Counter at t=0.5 is equidistant from power samples at 0 and 1
	powers := []PowerSample{powerAt(0, 100), powerAt(1, 200)}
	table, err := BuildTrainingTable([]CounterSample{counterAt(0.5)}, powers)
	require.NoError(t, err)
	assert.Equal(t, []float64{100}, table.Target, "tie must resolve to the earlier power sample")
}

func TestBuildTrainingTable_CountersOutsidePowerRangeClampToEnds(t *testing.T) {
	powers := []PowerSample{powerAt(1, 100), powerAt(2, 200)}
	counters := []CounterSample{counterAt(0), counterAt(10)}

	table, err := BuildTrainingTable(counters, powers)
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 200}, table.Target)
}

func TestBuildTrainingTable_RowAlignment(t *testing.T) {
	powers := []PowerSample{powerAt(0, 150)}
	counters := []CounterSample{
		{Timestamp: 0, SMActivity: 0.1, MemoryUtilization: 0.2, CacheHitRate: 0.3, Instructions: 4, MemoryThroughput: 5},
		{Timestamp: 1, SMActivity: 0.6, MemoryUtilization: 0.7, CacheHitRate: 0.8, Instructions: 9, MemoryThroughput: 10},
	}

	table, err := BuildTrainingTable(counters, powers)
	require.NoError(t, err)

	assert.Equal(t, CounterNames(), table.FeatureNames)
	assert.Equal(t, 2, table.Rows())
	assert.Equal(t, []float64{0.1, 0.2, 0.3, 4, 5}, table.Features[0])
	assert.Equal(t, []float64{0.6, 0.7, 0.8, 9, 10}, table.Features[1])
	assert.Equal(t, []float64{0, 1}, table.Timestamps)
}

func TestBuildTrainingTable_EmptyInputs_ReturnError(t *testing.T) {
	_, err := BuildTrainingTable(nil, []PowerSample{powerAt(0, 100)})
	assert.Error(t, err)

	_, err = BuildTrainingTable([]CounterSample{counterAt(0)}, nil)
	assert.Error(t, err)
}

func TestMeanFeatures_PerColumnMeans(t *testing.T) {
	powers := []PowerSample{powerAt(0, 100)}
	counters := []CounterSample{
		{Timestamp: 0, SMActivity: 0.2, MemoryUtilization: 0.4, CacheHitRate: 0.0, Instructions: 10, MemoryThroughput: 100},
		{Timestamp: 1, SMActivity: 0.4, MemoryUtilization: 0.6, CacheHitRate: 1.0, Instructions: 30, MemoryThroughput: 300},
	}

	table, err := BuildTrainingTable(counters, powers)
	require.NoError(t, err)

	means := table.MeanFeatures()
	require.Len(t, means, len(CounterNames()))
	assert.InDelta(t, 0.3, means[0], 1e-12)
	assert.InDelta(t, 0.5, means[1], 1e-12)
	assert.InDelta(t, 0.5, means[2], 1e-12)
	assert.InDelta(t, 20, means[3], 1e-12)
	assert.InDelta(t, 200, means[4], 1e-12)
}

func TestBuildTrainingTable_FromSimulatedStreams(t *testing.T) {
	// GIVEN a simulated power trace and an independently collected counter stream
	sim := newTestSimulator(t, DefaultPowerParams(), 42)
	activity := NewConstantPattern(0.5).Generate(60, nil)
	powers, err := sim.Simulate(60, 1, activity)
	require.NoError(t, err)

	collector := newTestCollector(t, DefaultCollectorParams(), 43)
	counters := collector.CollectN(60)

	// WHEN joining
	table, err := BuildTrainingTable(counters, powers)
	require.NoError(t, err)

	// THEN every row has a target and targets come from the trace
	require.Equal(t, 60, table.Rows())
	for i, target := range table.Target {
		assert.GreaterOrEqual(t, target, DefaultPowerParams().IdlePowerW, "row %d target below idle floor", i)
	}
}
