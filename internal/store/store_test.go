package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndListRuns(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.RecordRun(RunRecord{
			ID:           string(rune('a' + i)),
			StartedAt:    base.Add(time.Duration(i) * time.Hour),
			Duration:     1500 * time.Millisecond,
			Elements:     100 + i,
			Processes:    10,
			Diagrams:     5,
			RenderedPDFs: 2,
			CopiedAssets: 8,
		}))
	}

	runs, err := s.RecentRuns(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// Newest first.
	assert.Equal(t, "c", runs[0].ID)
	assert.Equal(t, "b", runs[1].ID)
	assert.Equal(t, 102, runs[0].Elements)
	assert.Equal(t, 1500*time.Millisecond, runs[0].Duration)
}

func TestRecentRunsDefaultLimit(t *testing.T) {
	s := newTestStore(t)
	base := time.Now().UTC()

	for i := 0; i < 15; i++ {
		require.NoError(t, s.RecordRun(RunRecord{
			ID:        string(rune('a' + i)),
			StartedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	runs, err := s.RecentRuns(0)
	require.NoError(t, err)
	assert.Len(t, runs, 10)
}

func TestRecentRunsEmpty(t *testing.T) {
	s := newTestStore(t)
	runs, err := s.RecentRuns(5)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
