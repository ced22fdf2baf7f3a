package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLookback(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	fixed := NewFixed(now)

	window := Lookback(fixed, 24*time.Hour)

	assert.Equal(t, now.Add(-24*time.Hour), window.Start)
	assert.Equal(t, now, window.End)
}

func TestWindowContains(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	window := Lookback(NewFixed(now), 24*time.Hour)

	t.Run("bounds are inclusive", func(t *testing.T) {
		assert.True(t, window.Contains(window.Start))
		assert.True(t, window.Contains(window.End))
	})

	t.Run("outside either bound is excluded", func(t *testing.T) {
		assert.False(t, window.Contains(window.Start.Add(-time.Nanosecond)))
		assert.False(t, window.Contains(window.End.Add(time.Nanosecond)))
	})
}

func TestFixedAdvance(t *testing.T) {
	fixed := NewFixed(time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC))
	fixed.Advance(90 * time.Minute)

	assert.Equal(t, time.Date(2024, 5, 10, 13, 30, 0, 0, time.UTC), fixed.Now())
}
