package goroutine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shandysiswandi/glintai/internal/pkg/goroutine"
	"github.com/stretchr/testify/assert"
)

func TestManager_Go(t *testing.T) {
	t.Run("CollectsErrors", func(t *testing.T) {
		m := goroutine.NewManager(4)
		errBoom := errors.New("boom")

		m.Go(context.Background(), "ok", func(context.Context) error { return nil })
		m.Go(context.Background(), "failing", func(context.Context) error { return errBoom })

		err := m.Wait()
		assert.ErrorIs(t, err, errBoom)
		assert.Contains(t, err.Error(), "failing")
		assert.Zero(t, m.Active())
	})

	t.Run("RecoversPanic", func(t *testing.T) {
		m := goroutine.NewManager(1)

		m.Go(context.Background(), "panicky", func(context.Context) error { panic("oops") })

		err := m.Wait()
		assert.ErrorIs(t, err, goroutine.ErrPanic)
		assert.Contains(t, err.Error(), "oops")
	})

	t.Run("LimitReached", func(t *testing.T) {
		m := goroutine.NewManager(1)
		release := make(chan struct{})
		started := make(chan struct{})

		m.Go(context.Background(), "blocker", func(context.Context) error {
			close(started)
			<-release
			return nil
		})
		<-started

		ran := false
		m.Go(context.Background(), "refused", func(context.Context) error {
			ran = true
			return nil
		})

		close(release)
		assert.NoError(t, m.Wait())
		assert.False(t, ran)
		assert.Equal(t, int64(1), m.Dropped())
	})

	t.Run("Closed", func(t *testing.T) {
		m := goroutine.NewManager(2)
		assert.NoError(t, m.Wait())

		ran := false
		m.Go(context.Background(), "late", func(context.Context) error {
			ran = true
			return nil
		})

		assert.NoError(t, m.Wait())
		assert.False(t, ran)
		assert.Equal(t, int64(1), m.Dropped())
	})

	t.Run("CanceledContext", func(t *testing.T) {
		m := goroutine.NewManager(2)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		ran := false
		m.Go(ctx, "canceled", func(context.Context) error {
			ran = true
			return nil
		})

		assert.NoError(t, m.Wait())
		assert.False(t, ran)
	})
}
