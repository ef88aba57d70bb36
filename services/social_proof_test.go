package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNextEventBounds(t *testing.T) {
	svc := NewSocialProofService(8*time.Second, 15*time.Second)

	nameSet := make(map[string]bool, len(withdrawalNames))
	for _, n := range withdrawalNames {
		nameSet[n] = true
	}

	for i := 0; i < 1000; i++ {
		event := svc.NextEvent()
		require.True(t, nameSet[event.DisplayName], "unexpected name %q", event.DisplayName)
		require.GreaterOrEqual(t, event.Amount, int64(socialProofMinAmount))
		require.LessOrEqual(t, event.Amount, int64(socialProofMaxAmount))
	}
}

func TestNextGapWithinWindow(t *testing.T) {
	svc := NewSocialProofService(8*time.Second, 15*time.Second)

	for i := 0; i < 1000; i++ {
		gap := svc.NextGap()
		require.GreaterOrEqual(t, gap, 8*time.Second)
		require.LessOrEqual(t, gap, 15*time.Second)
	}
}

func TestNextGapDegenerateWindow(t *testing.T) {
	svc := NewSocialProofService(5*time.Second, 5*time.Second)
	require.Equal(t, 5*time.Second, svc.NextGap())

	// A reversed window collapses to the minimum.
	svc = NewSocialProofService(10*time.Second, 2*time.Second)
	require.Equal(t, 10*time.Second, svc.MinGap)
	require.Equal(t, 10*time.Second, svc.MaxGap)
}
