package clocktest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFake(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("FiresDueCallbacksInOrder", func(t *testing.T) {
		c := New(start)
		var got []int

		c.AfterFunc(2*time.Second, func() { got = append(got, 2) })
		c.AfterFunc(time.Second, func() { got = append(got, 1) })
		c.AfterFunc(5*time.Second, func() { got = append(got, 5) })

		c.Advance(3 * time.Second)

		assert.Equal(t, []int{1, 2}, got)
		assert.Equal(t, start.Add(3*time.Second), c.Now())
		assert.Equal(t, 1, c.Pending())
	})

	t.Run("ChainedCallbacksFireWithinOneAdvance", func(t *testing.T) {
		c := New(start)
		ticks := 0

		var tick func()
		tick = func() {
			ticks++
			if ticks < 10 {
				c.AfterFunc(time.Second, tick)
			}
		}
		c.AfterFunc(time.Second, tick)

		c.Advance(time.Minute)

		assert.Equal(t, 10, ticks)
		assert.Zero(t, c.Pending())
	})

	t.Run("StoppedTimerNeverFires", func(t *testing.T) {
		c := New(start)
		fired := false

		tm := c.AfterFunc(time.Second, func() { fired = true })

		assert.True(t, tm.Stop())
		assert.False(t, tm.Stop())

		c.Advance(time.Hour)
		assert.False(t, fired)
	})
}
