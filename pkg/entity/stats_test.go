package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/kube-telemetry/pkg/errors"
)

const statsFixture = `{
  "name": "/",
  "stats": [
    {
      "timestamp": "2019-08-14T10:54:06Z",
      "cpu": {"usage": {"total": 1000, "user": 600, "system": 400}, "load_average": 1},
      "memory": {"usage": 100, "working_set": 90, "rss": 80, "cache": 20, "swap": 0, "failcnt": 0},
      "network": {"rx_bytes": 10, "tx_bytes": 20, "rx_errors": 0, "tx_errors": 0},
      "filesystem": [{"device": "/dev/sda1", "capacity": 1000, "usage": 500}]
    },
    {
      "timestamp": "2019-08-14T10:54:36.123456789Z",
      "cpu": {"usage": {"total": 2000, "user": 1200, "system": 800}, "load_average": 2},
      "memory": {"usage": 200, "working_set": 180, "rss": 160, "cache": 40, "swap": 8, "failcnt": 1},
      "network": {"rx_bytes": 30, "tx_bytes": 60, "rx_errors": 1, "tx_errors": 2},
      "filesystem": [
        {"device": "/dev/sda1", "capacity": 1000, "usage": 600},
        {"device": "/dev/sdb1", "capacity": 2000, "usage": 100}
      ]
    }
  ]
}`

func TestParseStatsSnapshot(t *testing.T) {
	snapshot, err := ParseStatsSnapshot([]byte(statsFixture))
	require.NoError(t, err)

	// only the latest sample of the rolling window counts
	assert.Equal(t, 2000.0, snapshot["cpu_usage_total"])
	assert.Equal(t, 1200.0, snapshot["cpu_usage_user"])
	assert.Equal(t, 800.0, snapshot["cpu_usage_system"])
	assert.Equal(t, 2.0, snapshot["cpu_load_average"])
	assert.Equal(t, 200.0, snapshot["memory_usage"])
	assert.Equal(t, 180.0, snapshot["memory_working_set"])
	assert.Equal(t, 160.0, snapshot["memory_rss"])
	assert.Equal(t, 40.0, snapshot["memory_cache"])
	assert.Equal(t, 8.0, snapshot["memory_swap"])
	assert.Equal(t, 1.0, snapshot["memory_failcnt"])
	assert.Equal(t, 30.0, snapshot["network_rx_bytes"])
	assert.Equal(t, 60.0, snapshot["network_tx_bytes"])
	assert.Equal(t, 1.0, snapshot["network_rx_errors"])
	assert.Equal(t, 2.0, snapshot["network_tx_errors"])

	// filesystems are summed across devices
	assert.Equal(t, 3000.0, snapshot["filesystem_capacity"])
	assert.Equal(t, 700.0, snapshot["filesystem_usage"])

	// RFC3339Nano timestamps truncate to whole seconds
	expected := time.Date(2019, 8, 14, 10, 54, 36, 0, time.UTC).Unix()
	assert.Equal(t, float64(expected), snapshot["timestamp"])
}

func TestParseStatsSnapshotMalformed(t *testing.T) {
	_, err := ParseStatsSnapshot([]byte("not json"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInternal))
}

func TestParseStatsSnapshotNoSamples(t *testing.T) {
	_, err := ParseStatsSnapshot([]byte(`{"name": "/", "stats": []}`))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInternal))
}

func TestParseStatsSnapshotBadTimestamp(t *testing.T) {
	_, err := ParseStatsSnapshot([]byte(`{"stats": [{"timestamp": "yesterday"}]}`))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInternal))
}

func TestStatsSnapshotAdd(t *testing.T) {
	a := StatsSnapshot{"timestamp": 100, "memory_usage": 5}
	b := StatsSnapshot{"timestamp": 200, "memory_usage": 7, "extra": 1}

	sum := a.Add(b)

	assert.Equal(t, StatsSnapshot{"timestamp": 300, "memory_usage": 12}, sum)
	assert.Equal(t, 100.0, a["timestamp"], "inputs must not be mutated")
}
