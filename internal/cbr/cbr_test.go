package cbr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"disambig/internal/window"
	"disambig/pkg/options"
)

func tagged(center, fill string, overrides map[int]string) window.Example {
	ws := make([]window.Word, window.Size)
	for i := range ws {
		ws[i] = window.Word{Literal: "x", POS: fill, Stem: "x"}
	}
	ws[window.Center].Literal = center
	for i, pos := range overrides {
		ws[i].POS = pos
	}
	return window.MustExample(ws, true)
}

func repeat(ex window.Example, n int) []window.Example {
	out := make([]window.Example, n)
	for i := range out {
		out[i] = ex
	}
	return out
}

func TestNeighborCount(t *testing.T) {
	tests := []struct {
		size, want int
	}{
		{100, 20},
		{50, 10},
		{200, 21},
		{105, 21},
		{106, 21},
		{4, 0},
		{0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NeighborCount(tt.size, 21, 5), "size %d", tt.size)
	}
	assert.Equal(t, 0, NeighborCount(100, 21, 0))
}

func TestParseMetric(t *testing.T) {
	m, err := ParseMetric("exact")
	require.NoError(t, err)
	assert.Equal(t, ExactMatch, m)

	m, err = ParseMetric(" Edit ")
	require.NoError(t, err)
	assert.Equal(t, EditDistance, m)

	_, err = ParseMetric("cosine")
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestExactScore(t *testing.T) {
	a := tagged("there", "DT", nil)
	assert.Equal(t, 21, ExactMatch.Score(a, a))

	b := tagged("their", "DT", map[int]string{6: "NN", 8: "VBZ"})
	assert.Equal(t, 21-7-5, ExactMatch.Score(a, b))
}

func TestExactScore_Symmetric(t *testing.T) {
	pairs := [][2]window.Example{
		{tagged("a", "DT", map[int]string{3: "NN", 9: "VB"}), tagged("b", "DT", map[int]string{3: "NN", 10: "JJ"})},
		{tagged("a", "NN", nil), tagged("b", "DT", map[int]string{5: "NN", 6: "NN"})},
		{tagged("a", "IN", map[int]string{0: "X", 14: "Y"}), tagged("b", "IN", nil)},
	}
	for _, p := range pairs {
		assert.Equal(t, ExactMatch.Score(p[0], p[1]), ExactMatch.Score(p[1], p[0]))
	}
}

func TestEditScore_IdenticalIsZero(t *testing.T) {
	a := tagged("there", "DT", map[int]string{2: "NN", 6: "VB", 8: "VBZ"})
	assert.Equal(t, 0, EditDistance.Score(a, a))
}

func TestEditScore_SingleQueryMismatch(t *testing.T) {
	train := tagged("there", "DT", nil)
	query := tagged("there", "DT", map[int]string{8: "NN"})

	// The mismatching column accumulates the weights of rows 1..9.
	assert.Equal(t, -16, EditDistance.Score(train, query))
}

func TestEditScore_SingleTrainMismatch(t *testing.T) {
	train := tagged("there", "DT", map[int]string{8: "NN"})
	query := tagged("there", "DT", nil)

	// The mismatching row charges its weight once per column up to the diagonal.
	assert.Equal(t, -54, EditDistance.Score(train, query))
}

func TestEditScore_NeverPositive(t *testing.T) {
	a := tagged("a", "DT", map[int]string{4: "NN"})
	b := tagged("b", "NN", map[int]string{9: "DT"})
	assert.LessOrEqual(t, EditDistance.Score(a, b), 0)
	assert.LessOrEqual(t, EditDistance.Score(b, a), 0)
}

func TestNew_InvalidK(t *testing.T) {
	_, err := New(ExactMatch, "there", "their", repeat(tagged("there", "DT", nil), 4))
	require.ErrorIs(t, err, ErrInvalidK)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestNew_EmptyTrainingSet(t *testing.T) {
	_, err := New(EditDistance, "there", "their", nil)
	assert.ErrorIs(t, err, window.ErrEmptyTrainingSet)
}

func TestNew_UnknownMetric(t *testing.T) {
	_, err := New(Metric(9), "there", "their", repeat(tagged("there", "DT", nil), 10))
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestSetTrainingSet_RecomputesK(t *testing.T) {
	r, err := New(ExactMatch, "there", "their", repeat(tagged("there", "DT", nil), 50))
	require.NoError(t, err)
	assert.Equal(t, 10, r.K())

	require.NoError(t, r.SetTrainingSet(repeat(tagged("there", "DT", nil), 200)))
	assert.Equal(t, 21, r.K())

	require.ErrorIs(t, r.SetTrainingSet(repeat(tagged("there", "DT", nil), 3)), ErrInvalidK)
	assert.Equal(t, 21, r.K(), "failed reload keeps the previous case base")
}

func TestNew_KOptions(t *testing.T) {
	r, err := New(ExactMatch, "there", "their", repeat(tagged("there", "DT", nil), 100),
		options.WithKMax(7), options.WithKRatio(2))
	require.NoError(t, err)
	assert.Equal(t, 7, r.K())
	assert.Equal(t, "cbr-exact", r.Name())
}

// majoritySet holds three windows identical to the query and twelve that
// share none of its tags.
func majoritySet(close ...string) []window.Example {
	var set []window.Example
	for _, c := range close {
		set = append(set, tagged(c, "DT", nil))
	}
	for len(set) < 15 {
		set = append(set, tagged("their", "ZZ", nil))
	}
	return set
}

func TestClassify_MajorityOfThree(t *testing.T) {
	for _, metric := range []Metric{ExactMatch, EditDistance} {
		t.Run(metric.String(), func(t *testing.T) {
			r, err := New(metric, "there", "their", majoritySet("there", "their", "there"))
			require.NoError(t, err)
			require.Equal(t, 3, r.K())

			got, err := r.Classify(tagged("?", "DT", nil))
			require.NoError(t, err)
			assert.Equal(t, "there", got)
		})
	}
}

func TestClassify_SplitVoteGoesToCandidate1(t *testing.T) {
	set := majoritySet("their", "there")[:10]
	r, err := New(ExactMatch, "there", "their", set)
	require.NoError(t, err)
	require.Equal(t, 2, r.K())

	got, err := r.Classify(tagged("?", "DT", nil))
	require.NoError(t, err)
	assert.Equal(t, "there", got)
}

func TestNearest_TiesKeepTrainingOrder(t *testing.T) {
	set := majoritySet("there", "their", "there")
	r, err := New(ExactMatch, "there", "their", set)
	require.NoError(t, err)

	nearest := r.Nearest(tagged("?", "DT", nil))
	require.Len(t, nearest, 3)
	assert.Equal(t, []string{"there", "their", "there"}, []string{
		nearest[0].Example.CenterWord(),
		nearest[1].Example.CenterWord(),
		nearest[2].Example.CenterWord(),
	})
	for _, n := range nearest {
		assert.Equal(t, 21, n.Similarity)
	}
}

func TestNearest_BestFirst(t *testing.T) {
	set := []window.Example{
		tagged("their", "DT", map[int]string{6: "NN"}),
		tagged("there", "DT", nil),
		tagged("their", "DT", map[int]string{6: "NN", 8: "NN"}),
		tagged("there", "DT", map[int]string{3: "NN"}),
		tagged("their", "ZZ", nil),
	}
	r, err := New(ExactMatch, "there", "their", set, options.WithKRatio(1))
	require.NoError(t, err)

	nearest := r.Nearest(tagged("?", "DT", nil))
	require.Len(t, nearest, 5)
	scores := make([]int, len(nearest))
	for i, n := range nearest {
		scores[i] = n.Similarity
	}
	assert.Equal(t, []int{21, 20, 14, 9, 0}, scores)
}

func TestClassify_UnknownCenterWord(t *testing.T) {
	r, err := New(ExactMatch, "there", "their", majoritySet("there", "they're", "there"))
	require.NoError(t, err)

	_, err = r.Classify(tagged("?", "DT", nil))
	require.ErrorIs(t, err, ErrUnknownCenterWord)

	var cwe *CenterWordError
	require.True(t, errors.As(err, &cwe))
	assert.Equal(t, "they're", cwe.Center)
}

func TestTopK_KLargerThanPool(t *testing.T) {
	got := topK([]Neighbor{{Similarity: 1}, {Similarity: 3, order: 1}}, 5)
	require.Len(t, got, 2)
	assert.Equal(t, 3, got[0].Similarity)
}
