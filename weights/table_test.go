package weights

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Habibbiswas460/Angel-x-sub003/learning"
)

var testKey = Key{Bucket: learning.TimeAfternoon, Rule: RuleEntry}

func TestReadDefaultsToNeutral(t *testing.T) {
	t.Parallel()

	tbl := NewTable()
	assert.InDelta(t, Neutral, tbl.Read(learning.TimeAfternoon, RuleEntry), 1e-9)
}

func TestApplyMovesWeightAndRecordsHistory(t *testing.T) {
	t.Parallel()

	tbl := NewTable()
	at := time.Date(2026, 2, 2, 16, 0, 0, 0, time.UTC)

	err := tbl.Apply(Adjustment{ID: "A1", Key: testKey, Delta: 0.3, Reason: "amplify", At: at})
	require.NoError(t, err)

	assert.InDelta(t, 1.3, tbl.Read(learning.TimeAfternoon, RuleEntry), 1e-9)
	assert.True(t, tbl.LastAdjusted(testKey).Equal(at))

	hist := tbl.History()
	require.Len(t, hist, 1)
	assert.Equal(t, "A1", hist[0].ID)
	assert.Equal(t, 1, tbl.AppliedOn(at))
}

func TestApplyRejectsOutOfRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		setup float64
		delta float64
	}{
		{"above max", 0.8, 0.3}, // 1.0 + 0.8 = 1.8, then +0.3 breaches 2.0
		{"below min", -0.8, -0.3},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tbl := NewTable()
			at := time.Date(2026, 2, 2, 16, 0, 0, 0, time.UTC)
			require.NoError(t, tbl.Apply(Adjustment{ID: "S", Key: testKey, Delta: tt.setup, At: at}))

			err := tbl.Apply(Adjustment{ID: "X", Key: testKey, Delta: tt.delta, At: at})
			assert.Error(t, err)

			got := tbl.Read(learning.TimeAfternoon, RuleEntry)
			assert.GreaterOrEqual(t, got, MinWeight)
			assert.LessOrEqual(t, got, MaxWeight)
		})
	}
}

func TestWeightStaysBoundedOverAnySequence(t *testing.T) {
	t.Parallel()

	tbl := NewTable()
	at := time.Date(2026, 2, 2, 16, 0, 0, 0, time.UTC)

	deltas := []float64{0.3, 0.3, 0.3, 0.3, -0.5, -0.5, -0.5, -0.5, -0.5, 0.3}
	for i, d := range deltas {
		_ = tbl.Apply(Adjustment{ID: "Q", Key: testKey, Delta: d, At: at.Add(time.Duration(i) * time.Hour)})
		got := tbl.Read(learning.TimeAfternoon, RuleEntry)
		assert.GreaterOrEqual(t, got, MinWeight-1e-9)
		assert.LessOrEqual(t, got, MaxWeight+1e-9)
	}
}

func TestResetAllReturnsToNeutral(t *testing.T) {
	t.Parallel()

	tbl := NewTable()
	at := time.Date(2026, 2, 2, 16, 0, 0, 0, time.UTC)
	require.NoError(t, tbl.Apply(Adjustment{ID: "A", Key: testKey, Delta: -0.7, At: at}))

	tbl.ResetAll()
	assert.InDelta(t, Neutral, tbl.Read(learning.TimeAfternoon, RuleEntry), 1e-9)
	assert.Len(t, tbl.History(), 1, "audit log survives a reset")
}

func TestRestoreRoundTrip(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 2, 2, 16, 0, 0, 0, time.UTC)
	src := NewTable()
	require.NoError(t, src.Apply(Adjustment{ID: "A", Key: testKey, Delta: 0.3, At: at}))

	dst := NewTable()
	dst.Restore(src.All(), src.History())

	assert.InDelta(t, 1.3, dst.Read(learning.TimeAfternoon, RuleEntry), 1e-9)
	assert.Len(t, dst.History(), 1)
}

func TestProposeAmplifyRestrictBlock(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 2, 2, 16, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		action    learning.Action
		current   float64 // applied before proposing, as delta from neutral
		wantDelta float64
		wantOK    bool
	}{
		{"amplify from neutral", learning.Amplify, 0, 0.3, true},
		{"amplify capped at max", learning.Amplify, 0.9, 0.1, true},
		{"amplify at ceiling proposes nothing", learning.Amplify, 1.0, 0, false},
		{"restrict from neutral", learning.Restrict, 0, -0.3, true},
		{"restrict capped at min", learning.Restrict, -0.9, -0.1, true},
		{"block steps down by the ceiling", learning.Block, 0.5, -0.5, true},
		{"block from neutral", learning.Block, 0, -0.5, true},
		{"block finishes the walk to zero", learning.Block, -0.7, -0.3, true},
		{"block at zero proposes nothing", learning.Block, -1.0, 0, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tbl := NewTable()
			if tt.current != 0 {
				require.NoError(t, tbl.Apply(Adjustment{ID: "S", Key: testKey, Delta: tt.current, At: now}))
			}

			adj := NewAdjuster(tbl, 0.5)
			ch, ok := adj.Propose(learning.Insight{
				Bucket:     learning.TimeAfternoon,
				Action:     tt.action,
				SampleSize: 25,
				WinRate:    0.76,
			}, now)

			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.InDelta(t, tt.wantDelta, ch.Delta, 1e-9)
				assert.Equal(t, testKey, ch.Key)
				assert.Equal(t, 25, ch.SampleSize)
				assert.NotEmpty(t, ch.Reason)
			}
		})
	}
}
