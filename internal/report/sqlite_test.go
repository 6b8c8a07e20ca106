package report

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"disambig/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "runs", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func evaluation(engine string, correct, tested int) model.Evaluation {
	return model.Evaluation{
		Engine:     engine,
		Candidate1: "there",
		Candidate2: "their",
		TrainSize:  100,
		Tested:     tested,
		Correct:    correct,
		Wrong:      tested - correct,
		Accuracy:   float64(correct) / float64(tested),
	}
}

func TestSaveAndGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	e := evaluation("bayes-chain", 8, 10)
	e.Failed = []string{"their::(x, DT)", "there::(x, DT)"}

	saved, err := s.Save(ctx, e)
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())

	got, err := s.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "bayes-chain", got.Engine)
	assert.Equal(t, 8, got.Correct)
	assert.Equal(t, 0.8, got.Accuracy)
	assert.Equal(t, e.Failed, got.Failed)
	assert.True(t, saved.CreatedAt.Equal(got.CreatedAt))
}

func TestGet_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get(context.Background(), "01ARZ3NDEKTSV4RRFFQ69G5FAV")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	first, err := s.Save(ctx, evaluation("bayes-chain", 5, 10))
	require.NoError(t, err)
	second, err := s.Save(ctx, evaluation("cbr-exact", 6, 10))
	require.NoError(t, err)
	third, err := s.Save(ctx, evaluation("bayes-chain", 7, 10))
	require.NoError(t, err)

	all, err := s.List(ctx, ListParams{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{third.ID, second.ID, first.ID}, []string{all[0].ID, all[1].ID, all[2].ID})

	chain, err := s.List(ctx, ListParams{Engine: "bayes-chain"})
	require.NoError(t, err)
	assert.Len(t, chain, 2)

	limited, err := s.List(ctx, ListParams{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	none, err := s.List(ctx, ListParams{Candidate1: "then"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, e := range []model.Evaluation{
		evaluation("bayes-chain", 5, 10),
		evaluation("bayes-chain", 7, 10),
		evaluation("cbr-edit", 9, 10),
	} {
		_, err := s.Save(ctx, e)
		require.NoError(t, err)
	}

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, "bayes-chain", stats[0].Engine)
	assert.Equal(t, 2, stats[0].Runs)
	assert.InDelta(t, 0.6, stats[0].MeanAccuracy, 1e-9)
	assert.InDelta(t, 0.7, stats[0].BestAccuracy, 1e-9)
	assert.Equal(t, "cbr-edit", stats[1].Engine)
}

func TestGet_CorruptRow(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	saved, err := s.Save(ctx, evaluation("cbr-edit", 3, 4))
	require.NoError(t, err)

	_, err = s.db.ExecContext(ctx, `UPDATE evaluations SET failed = ? WHERE id = ?`, "[not json", saved.ID)
	require.NoError(t, err)
	_, err = s.Get(ctx, saved.ID)
	assert.ErrorContains(t, err, "failed examples")

	_, err = s.db.ExecContext(ctx, `UPDATE evaluations SET failed = NULL, created_at = ? WHERE id = ?`, "yesterday", saved.ID)
	require.NoError(t, err)
	_, err = s.List(ctx, ListParams{})
	assert.ErrorContains(t, err, "created_at")
}
