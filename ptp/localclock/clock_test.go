package localclock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewClockStartsAtNominalRate(t *testing.T) {
	c := NewClock()
	require.False(t, c.Locked())
	require.False(t, c.Calibrated())
}

func TestStepAppliesWholeOffsetAndResetsLock(t *testing.T) {
	c := NewClock()
	for i := 0; i < lockThreshold; i++ {
		c.Adjust(time.Millisecond)
	}
	require.True(t, c.Locked())

	before := c.Now()
	c.Step(-time.Second)
	after := c.Now()

	require.False(t, c.Locked())
	require.WithinDuration(t, before.Add(time.Second), after, 50*time.Millisecond)
}

func TestLockedAfterThresholdAdjustments(t *testing.T) {
	c := NewClock()
	for i := 0; i < lockThreshold-1; i++ {
		c.Adjust(time.Microsecond)
		require.False(t, c.Locked())
	}
	c.Adjust(time.Microsecond)
	require.True(t, c.Locked())
}

func TestCalibratedRequiresBothLockAndAssertion(t *testing.T) {
	c := NewClock()
	c.SetCalibrated(true)
	require.False(t, c.Calibrated())

	for i := 0; i < lockThreshold; i++ {
		c.Adjust(time.Microsecond)
	}
	require.True(t, c.Calibrated())
}

func TestFrequencyRatioClamped(t *testing.T) {
	c := NewClock()
	c.Adjust(-10 * time.Second)
	require.LessOrEqual(t, c.frequencyRatio, maxFrequencyRatio)
	c.Adjust(10 * time.Second)
	require.GreaterOrEqual(t, c.frequencyRatio, minFrequencyRatio)
}
