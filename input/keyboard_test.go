package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"car-scene/core"
)

func TestKeyboardHeldAndEvents(t *testing.T) {
	kb := NewKeyboard()
	kb.HandleKey(core.KeyUp, Press)
	kb.HandleKey(core.KeyO, Press)
	kb.HandleKey(core.KeyO, Release)

	snap := kb.Snapshot()
	assert.True(t, snap.IsHeld(core.KeyUp))
	assert.False(t, snap.IsHeld(core.KeyO))
	require.Len(t, snap.Events, 2)
	assert.Equal(t, core.KeyUp, snap.Events[0].Code)
	assert.Equal(t, core.KeyO, snap.Events[1].Code)
}

func TestSnapshotDrainsEventsButKeepsHeld(t *testing.T) {
	kb := NewKeyboard()
	kb.HandleKey(core.KeyLeft, Press)
	_ = kb.Snapshot()

	snap := kb.Snapshot()
	assert.Empty(t, snap.Events)
	assert.True(t, snap.IsHeld(core.KeyLeft))
	assert.False(t, snap.Empty())
}

func TestSnapshotIsIsolatedFromLaterInput(t *testing.T) {
	kb := NewKeyboard()
	kb.HandleKey(core.KeyDown, Press)
	snap := kb.Snapshot()

	kb.HandleKey(core.KeyDown, Release)
	assert.True(t, snap.IsHeld(core.KeyDown))
	assert.False(t, kb.IsHeld(core.KeyDown))
}

func TestRepeatIsAnEvent(t *testing.T) {
	kb := NewKeyboard()
	kb.HandleKey(core.KeyO, Press)
	kb.HandleKey(core.KeyO, Repeat)

	snap := kb.Snapshot()
	require.Len(t, snap.Events, 2)
	assert.False(t, snap.Events[0].Repeat)
	assert.True(t, snap.Events[1].Repeat)
}

func TestEmptySnapshot(t *testing.T) {
	kb := NewKeyboard()
	assert.True(t, kb.Snapshot().Empty())

	kb.HandleKey(core.KeyT, Press)
	kb.HandleKey(core.KeyT, Release)
	kb.Snapshot()
	assert.True(t, kb.Snapshot().Empty())
}
