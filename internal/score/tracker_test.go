package score

import (
	"testing"

	"github.com/mauv0809/osu-autoref/internal/match"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWinningScore(t *testing.T) {
	assert.Equal(t, 1, WinningScore(1))
	assert.Equal(t, 2, WinningScore(3))
	assert.Equal(t, 4, WinningScore(7))
	assert.Equal(t, 7, WinningScore(13))
}

func TestApply(t *testing.T) {
	tr := New(7)

	side, ok := tr.Apply(1200)
	require.True(t, ok)
	assert.Equal(t, match.Red, side)

	side, ok = tr.Apply(-5)
	require.True(t, ok)
	assert.Equal(t, match.Blue, side)

	_, ok = tr.Apply(0)
	assert.False(t, ok, "a tie has no winner")
	assert.Equal(t, 1, tr.Points(match.Red))
	assert.Equal(t, 1, tr.Points(match.Blue))
}

func TestEvaluate(t *testing.T) {
	cases := []struct {
		name      string
		red, blue int
		want      Outcome
		wantSide  match.Side
	}{
		{name: "early match continues", red: 1, blue: 2, want: Continue, wantSide: match.NoSide},
		{name: "both one short is a tiebreaker", red: 3, blue: 3, want: Tiebreaker, wantSide: match.NoSide},
		{name: "red reaches winning score", red: 4, blue: 3, want: Winner, wantSide: match.Red},
		{name: "blue reaches winning score", red: 2, blue: 4, want: Winner, wantSide: match.Blue},
		{name: "one team one short", red: 3, blue: 2, want: Continue, wantSide: match.NoSide},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tr := New(7)
			require.NoError(t, tr.Set(tc.red, tc.blue))
			got, side := tr.Evaluate()
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.wantSide, side)
		})
	}
}

func TestWinFiresOnFirstReach(t *testing.T) {
	tr := New(7)
	require.NoError(t, tr.Set(3, 3))
	outcome, _ := tr.Evaluate()
	require.Equal(t, Tiebreaker, outcome)

	tr.Apply(10)
	outcome, side := tr.Evaluate()
	assert.Equal(t, Winner, outcome)
	assert.Equal(t, match.Red, side)
	assert.Equal(t, 4, tr.Points(match.Red))
}

func TestSet_RejectsNegative(t *testing.T) {
	tr := New(5)
	assert.Error(t, tr.Set(-1, 0))
}
