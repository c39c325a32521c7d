package index

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var medicineTexts = []string{
	"pain reliever fever reducer",
	"anti-inflammatory pain relief",
	"antihistamine allergy relief sneezing",
}

func TestBuild_EmptyCorpus(t *testing.T) {
	idx, err := Build(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyCorpus)
	assert.Nil(t, idx)
}

func TestBuild_VocabularyAndIDF(t *testing.T) {
	idx, err := Build(context.Background(), medicineTexts[:2])
	require.NoError(t, err)

	assert.Equal(t, []string{"anti", "fever", "inflammatory", "pain", "reducer", "relief", "reliever"}, idx.Vocabulary())
	assert.Equal(t, Stats{Documents: 2, Terms: 7}, idx.Stats())

	// Shared by both documents: ln(3/3) + 1.
	pain, ok := idx.IDF("pain")
	require.True(t, ok)
	assert.InDelta(t, 1.0, pain, 1e-12)

	// Unique to one document: ln(3/2) + 1.
	fever, ok := idx.IDF("fever")
	require.True(t, ok)
	assert.InDelta(t, math.Log(1.5)+1, fever, 1e-12)

	_, ok = idx.IDF("aspirin")
	assert.False(t, ok)
}

func TestBuild_RowsAreUnitLength(t *testing.T) {
	idx, err := Build(context.Background(), medicineTexts)
	require.NoError(t, err)
	require.Equal(t, len(medicineTexts), idx.Len())

	for i, row := range idx.Vectors() {
		assert.InDelta(t, 1.0, row.Norm(), 1e-12, "row %d", i)
	}
}

func TestBuild_TextWithoutTokens(t *testing.T) {
	idx, err := Build(context.Background(), []string{"a b c", "- -"})
	require.NoError(t, err)

	assert.Equal(t, 0, idx.Stats().Terms)
	scores := idx.Similarities(idx.Transform("a b c"))
	assert.Equal(t, []float64{0, 0}, scores)
}

func TestBuild_PoolSizesAgree(t *testing.T) {
	texts := make([]string, 0, 3*chunkSize)
	for i := 0; i < 3*chunkSize; i++ {
		texts = append(texts, medicineTexts[i%len(medicineTexts)])
	}

	single, err := Build(context.Background(), texts, WithPoolSize(1))
	require.NoError(t, err)
	parallel, err := Build(context.Background(), texts, WithPoolSize(4))
	require.NoError(t, err)

	assert.Equal(t, single.Vocabulary(), parallel.Vocabulary())
	assert.Equal(t, single.Vectors(), parallel.Vectors())
}

func TestBuild_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	idx, err := Build(ctx, medicineTexts)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, idx)
}

func TestBuild_WithNilLoggerFallsBack(t *testing.T) {
	idx, err := Build(context.Background(), medicineTexts, WithLogger(nil), WithPoolSize(0))
	require.NoError(t, err)
	assert.Equal(t, 3, idx.Len())
}

func TestSimilarities(t *testing.T) {
	idx, err := Build(context.Background(), medicineTexts)
	require.NoError(t, err)

	t.Run("identical text scores one", func(t *testing.T) {
		scores := idx.Similarities(idx.Transform("PAIN reliever Fever reducer"))
		assert.InDelta(t, 1.0, scores[0], 1e-9)
		assert.Less(t, scores[1], 1.0)
	})

	t.Run("shared term scores above zero", func(t *testing.T) {
		scores := idx.Similarities(idx.Transform("pain"))
		assert.Greater(t, scores[0], 0.0)
		assert.Greater(t, scores[1], 0.0)
		assert.Equal(t, 0.0, scores[2])
	})

	t.Run("disjoint vocabulary scores zero", func(t *testing.T) {
		v := idx.Transform("xyz_no_match_term")
		assert.True(t, v.IsZero())
		assert.Equal(t, []float64{0, 0, 0}, idx.Similarities(v))
	})

	t.Run("scores are within bounds", func(t *testing.T) {
		for _, q := range []string{"relief", "allergy pain", "fever fever fever"} {
			for _, s := range idx.Similarities(idx.Transform(q)) {
				assert.GreaterOrEqual(t, s, 0.0)
				assert.LessOrEqual(t, s, 1.0)
			}
		}
	})
}

func TestTransform_IgnoresUnknownTerms(t *testing.T) {
	idx, err := Build(context.Background(), medicineTexts)
	require.NoError(t, err)

	withNoise := idx.Similarities(idx.Transform("allergy zzzz qqqq"))
	clean := idx.Similarities(idx.Transform("allergy"))
	assert.InDeltaSlice(t, clean, withNoise, 1e-12)
}
