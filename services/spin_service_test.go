package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func testWeights() map[Outcome]float64 {
	return map[Outcome]float64{
		OutcomeWin:      0.2,
		OutcomeLose:     0.6,
		OutcomeTryAgain: 0.2,
	}
}

func TestDetermineOutcomeFrequencies(t *testing.T) {
	svc := NewSpinService(testWeights(), DefaultLayout)

	const draws = 100_000
	counts := make(map[Outcome]int)
	for i := 0; i < draws; i++ {
		outcome, err := svc.DetermineOutcome(svc.Weights)
		require.NoError(t, err)
		counts[outcome]++
	}

	for outcome, weight := range svc.Weights {
		freq := float64(counts[outcome]) / draws
		require.InDelta(t, weight, freq, 0.02, "outcome %s: frequency %v vs weight %v", outcome, freq, weight)
	}
}

func TestDetermineOutcomeValidation(t *testing.T) {
	svc := NewSpinService(testWeights(), DefaultLayout)

	cases := []struct {
		name    string
		weights map[Outcome]float64
	}{
		{"empty", map[Outcome]float64{}},
		{"negative", map[Outcome]float64{OutcomeWin: -0.2, OutcomeLose: 1.2}},
		{"sum below one", map[Outcome]float64{OutcomeWin: 0.3, OutcomeLose: 0.3}},
		{"sum above one", map[Outcome]float64{OutcomeWin: 0.7, OutcomeLose: 0.7}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.DetermineOutcome(tc.weights)
			require.Error(t, err)
		})
	}
}

func TestDetermineOutcomeSingleCertainOutcome(t *testing.T) {
	svc := NewSpinService(testWeights(), DefaultLayout)

	for i := 0; i < 100; i++ {
		outcome, err := svc.DetermineOutcome(map[Outcome]float64{OutcomeLose: 1})
		require.NoError(t, err)
		require.Equal(t, OutcomeLose, outcome)
	}
}

func TestComputeRotationAlwaysForward(t *testing.T) {
	svc := NewSpinService(testWeights(), DefaultLayout)

	layouts := []SegmentLayout{
		DefaultLayout,
		{OutcomeWin, OutcomeLose, OutcomeTryAgain},
		{OutcomeWin, OutcomeWin, OutcomeLose, OutcomeLose, OutcomeTryAgain, OutcomeLose},
	}
	outcomes := []Outcome{OutcomeWin, OutcomeLose, OutcomeTryAgain}

	for _, layout := range layouts {
		prev := 0.0
		for i := 0; i < 500; i++ {
			outcome := outcomes[i%len(outcomes)]
			next, err := svc.ComputeRotation(prev, outcome, layout)
			require.NoError(t, err)
			require.Greater(t, next, prev)
			prev = next
		}
	}
}

func TestComputeRotationSpinCountBounds(t *testing.T) {
	svc := NewSpinService(testWeights(), DefaultLayout)

	sliceAngle := 360.0 / float64(len(DefaultLayout))
	for i := 0; i < 1000; i++ {
		next, err := svc.ComputeRotation(0, OutcomeLose, DefaultLayout)
		require.NoError(t, err)

		delta := next
		// At least 10 full turns plus the nearest slice center; under 12 turns
		// plus the farthest target angle.
		require.GreaterOrEqual(t, delta, 10*360+sliceAngle/2)
		require.Less(t, delta, 12*360+360+sliceAngle/2)
	}
}

// sliceUnderPointer recovers which slice index a resting rotation leaves
// under the top pointer, inverting targetAngle = 360 - idx*sliceAngle + sliceAngle/2.
func sliceUnderPointer(rotation float64, layoutSize int) int {
	sliceAngle := 360.0 / float64(layoutSize)
	orientation := math.Mod(rotation, 360)
	idx := int(math.Round((360+sliceAngle/2-orientation)/sliceAngle)) % layoutSize
	if idx < 0 {
		idx += layoutSize
	}
	return idx
}

func TestComputeRotationLandsOnChosenOutcome(t *testing.T) {
	svc := NewSpinService(testWeights(), DefaultLayout)

	for _, outcome := range []Outcome{OutcomeWin, OutcomeLose, OutcomeTryAgain} {
		for i := 0; i < 200; i++ {
			next, err := svc.ComputeRotation(0, outcome, DefaultLayout)
			require.NoError(t, err)

			idx := sliceUnderPointer(next, len(DefaultLayout))
			require.Equal(t, outcome, DefaultLayout[idx],
				"rotation %v landed on slice %d (%s), wanted %s", next, idx, DefaultLayout[idx], outcome)
		}
	}
}

func TestComputeRotationErrors(t *testing.T) {
	svc := NewSpinService(testWeights(), DefaultLayout)

	_, err := svc.ComputeRotation(0, OutcomeWin, SegmentLayout{})
	require.Error(t, err)

	_, err = svc.ComputeRotation(0, OutcomeWin, SegmentLayout{OutcomeLose, OutcomeLose})
	require.Error(t, err)
}

func TestLayoutWeightsMatchSliceCounts(t *testing.T) {
	weights := LayoutWeights(DefaultLayout)

	require.InDelta(t, 2.0/12, weights[OutcomeWin], 1e-9)
	require.InDelta(t, 7.0/12, weights[OutcomeLose], 1e-9)
	require.InDelta(t, 3.0/12, weights[OutcomeTryAgain], 1e-9)

	// Derived weights are always valid DetermineOutcome input.
	svc := NewSpinService(weights, DefaultLayout)
	_, err := svc.DetermineOutcome(weights)
	require.NoError(t, err)
}

func TestCheckLayoutWeights(t *testing.T) {
	// Weights derived from the layout itself never diverge.
	require.InDelta(t, 0, CheckLayoutWeights(DefaultLayout, LayoutWeights(DefaultLayout)), 1e-9)

	// 0.2/0.6/0.2 against the 12-slice layout: TRY_AGAIN is the worst fit,
	// 3/12 slices vs weight 0.2.
	diff := CheckLayoutWeights(DefaultLayout, testWeights())
	require.InDelta(t, 0.05, diff, 1e-6)
	require.Greater(t, diff, 0.01)
}
