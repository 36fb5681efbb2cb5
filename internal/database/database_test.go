package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "bot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestMetricRoundTrip(t *testing.T) {
	s := openTestStore(t)

	v, err := s.GetMetric("commands_processed")
	require.NoError(t, err)
	assert.Zero(t, v)

	require.NoError(t, s.SaveMetric("commands_processed", 3))
	require.NoError(t, s.SaveMetric("commands_processed", 7))

	v, err = s.GetMetric("commands_processed")
	require.NoError(t, err)
	assert.Equal(t, 7.0, v)
}

func TestLabeledMetrics(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.SaveMetricWithLabels("messages_per_channel", "-100", "general", 4))
	require.NoError(t, s.SaveMetricWithLabels("messages_per_channel", "-100", "general", 5))
	require.NoError(t, s.SaveMetricWithLabels("messages_per_channel", "42", "PrivateChat-42", 1))
	require.NoError(t, s.SaveMetric("messages_per_channel", 99))

	got, err := s.GetMetricsWithLabels("messages_per_channel")
	require.NoError(t, err)
	assert.Equal(t, map[string]map[string]float64{
		"-100": {"general": 5},
		"42":   {"PrivateChat-42": 1},
	}, got)

	assert.Error(t, s.SaveMetricWithLabels("messages_per_channel", "", "x", 1))
}

func TestOpenInMemory(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SaveMetric("alerts_fired", 2))
	v, err := s.GetMetric("alerts_fired")
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)
}
