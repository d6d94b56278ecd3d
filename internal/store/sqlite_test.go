package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestSaveAndGetRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run := &Run{
		Model:                 "3sfca",
		Kernel:                "gaussian",
		Params:                map[string]float64{"sigma": 2.5},
		HuffNormalization:     true,
		SuboptimalityExponent: 1.0,
		NumDemand:             3,
		NumSupply:             2,
		Scores:                []float64{1.5, 0.5, 0},
	}
	require.NoError(t, s.SaveRun(ctx, run))
	require.NotEmpty(t, run.ID)
	require.False(t, run.CreatedAt.IsZero())

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "3sfca", got.Model)
	assert.Equal(t, "gaussian", got.Kernel)
	assert.Equal(t, map[string]float64{"sigma": 2.5}, got.Params)
	assert.True(t, got.HuffNormalization)
	assert.Equal(t, []float64{1.5, 0.5, 0}, got.Scores)
	assert.Equal(t, 3, got.NumDemand)
	assert.Equal(t, 2, got.NumSupply)
}

func TestGetRun_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetRun(context.Background(), "nonexistent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestListRuns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, model := range []string{"2sfca", "2sfca", "gravity"} {
		run := &Run{
			Model:                 model,
			Kernel:                "uniform",
			Params:                map[string]float64{"scale": 6},
			SuboptimalityExponent: 1.0,
			NumDemand:             1,
			NumSupply:             1,
			Scores:                []float64{1},
		}
		require.NoError(t, s.SaveRun(ctx, run))
	}

	all, err := s.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	filtered, err := s.ListRuns(ctx, RunFilter{Model: "2sfca"})
	require.NoError(t, err)
	assert.Len(t, filtered, 2)

	limited, err := s.ListRuns(ctx, RunFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSaveRun_NoParams(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run := &Run{
		Model:                 "2sfca",
		Kernel:                "uniform",
		SuboptimalityExponent: 1.0,
		NumDemand:             1,
		NumSupply:             1,
		Scores:                []float64{0},
	}
	require.NoError(t, s.SaveRun(ctx, run))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Params)
}
