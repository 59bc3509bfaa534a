package extract_test

import (
	"testing"

	"github.com/cursorboy/scrapekb/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeasure(t *testing.T) {
	t.Parallel()

	t.Run("counts visible text only", func(t *testing.T) {
		t.Parallel()

		fragment := "<p>hello   <b>world</b></p><script>var hidden = 1</script><style>p{}</style>"

		length, ratio, err := extract.Measure(fragment)

		require.NoError(t, err)
		assert.Equal(t, 11, length)
		assert.InDelta(t, 11.0/float64(len(fragment)), ratio, 1e-9)
	})

	t.Run("counts runes rather than bytes", func(t *testing.T) {
		t.Parallel()

		length, _, err := extract.Measure("<p>héllo wörld</p>")

		require.NoError(t, err)
		assert.Equal(t, 11, length)
	})

	t.Run("measures empty input as zero", func(t *testing.T) {
		t.Parallel()

		length, ratio, err := extract.Measure("")

		require.NoError(t, err)
		assert.Zero(t, length)
		assert.Zero(t, ratio)
	})
}

func TestGate_Passes(t *testing.T) {
	t.Parallel()

	g := extract.Gate{MinTextLength: 200, MinTextRatio: 0.1}

	assert.True(t, g.Passes(200, 0.1))
	assert.False(t, g.Passes(199, 0.9))
	assert.False(t, g.Passes(5000, 0.05))
}
