package irq

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/x-xyz/goguard/base/ctx"
)

func TestSaveAndRestore(t *testing.T) {
	t.Run("Restores enabled interrupts", func(t *testing.T) {
		u := &Unit{}

		flags := u.SaveAndDisable()
		assert.Equal(t, Enabled, flags)
		assert.False(t, u.Enabled())
		assert.Equal(t, 1, u.Depth())

		u.Restore(flags)
		assert.True(t, u.Enabled())
		assert.Equal(t, 0, u.Depth())
	})
	t.Run("Keeps interrupts disabled if they were disabled on entry", func(t *testing.T) {
		u := NewUnit(Disabled)

		flags := u.SaveAndDisable()
		assert.Equal(t, Disabled, flags)

		u.Restore(flags)
		assert.False(t, u.Enabled())
	})
	t.Run("Nested sections unwind to the outer state", func(t *testing.T) {
		u := NewUnit(Enabled)

		outer := u.SaveAndDisable()
		inner := u.SaveAndDisable()
		assert.Equal(t, Disabled, inner)

		u.Restore(inner)
		assert.False(t, u.Enabled(), "inner restore must not re-enable")

		u.Restore(outer)
		assert.True(t, u.Enabled())
		assert.Equal(t, 0, u.Depth())
	})
	t.Run("No drift across repeated sections", func(t *testing.T) {
		for _, state := range []Flags{Enabled, Disabled} {
			u := NewUnit(state)
			for i := 0; i < 1000; i++ {
				u.Restore(u.SaveAndDisable())
			}
			assert.Equal(t, state, u.State())
			assert.Equal(t, 0, u.Depth())
		}
	})
}

func TestContext(t *testing.T) {
	_, ok := FromContext(ctx.Background())
	assert.False(t, ok)

	u := NewUnit(Disabled)
	c := NewContext(ctx.WithValue(ctx.Background(), "workerID", "w"), u)

	got, ok := FromContext(c)
	assert.True(t, ok)
	assert.Same(t, u, got)
	assert.Equal(t, "w", c.Value("workerID"))
}

func TestFlagsString(t *testing.T) {
	assert.Equal(t, "enabled", Enabled.String())
	assert.Equal(t, "disabled", Disabled.String())
}

func TestRaise(t *testing.T) {
	t.Run("Runs at once while enabled", func(t *testing.T) {
		u := &Unit{}
		ran := 0
		assert.True(t, u.Raise(func() { ran++ }))
		assert.Equal(t, 1, ran)
	})
	t.Run("Defers until the outermost restore", func(t *testing.T) {
		u := &Unit{}
		var order []string

		outer := u.SaveAndDisable()
		inner := u.SaveAndDisable()
		assert.False(t, u.Raise(func() { order = append(order, "first") }))
		assert.False(t, u.Raise(func() { order = append(order, "second") }))

		u.Restore(inner)
		assert.Empty(t, order)

		u.Restore(outer)
		assert.Equal(t, []string{"first", "second"}, order)

		// drained handlers do not run again
		u.Restore(u.SaveAndDisable())
		assert.Equal(t, []string{"first", "second"}, order)
	})
}
