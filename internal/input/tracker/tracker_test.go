package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dshills/keychord/internal/input/combo"
	"github.com/dshills/keychord/internal/input/key"
)

// queue is a manual Deferrer: callbacks run only when flush is called.
type queue struct {
	fns []func()
}

func (q *queue) Defer(fn func()) { q.fns = append(q.fns, fn) }

func (q *queue) flush() {
	for len(q.fns) > 0 {
		fn := q.fns[0]
		q.fns = q.fns[1:]
		fn()
	}
}

func TestKeyDownRecordsBothSets(t *testing.T) {
	tr := New(nil)
	tr.KeyDown("A", "KeyA")

	assert.True(t, tr.Has("a"))
	assert.True(t, tr.HasCode("keya"))
	assert.Equal(t, []string{"a"}, tr.Keys())
	assert.Equal(t, []string{"keya"}, tr.Codes())
}

func TestKeyUpRemovesBothSets(t *testing.T) {
	tr := New(nil)
	tr.KeyDown("A", "KeyA")
	tr.KeyUp("A", "KeyA")

	assert.False(t, tr.Has("a"))
	assert.False(t, tr.HasCode("keya"))
	assert.Equal(t, 0, tr.Len())
}

func TestBlurClearsEverything(t *testing.T) {
	tr := New(nil)
	tr.KeyDown("A", "KeyA")
	tr.KeyDown("Control", "ControlLeft")
	assert.Equal(t, 2, tr.Len())
	assert.Len(t, tr.Codes(), 2)

	tr.Blur()
	assert.Equal(t, 0, tr.Len())
	assert.Empty(t, tr.Codes())

	tr.KeyDown("b", "KeyB")
	tr.Reset()
	assert.Equal(t, 0, tr.Len())
}

func TestMatch(t *testing.T) {
	tr := New(nil)
	tr.KeyDown("Control", "ControlLeft")
	tr.KeyDown("a", "KeyA")

	assert.True(t, tr.Match(combo.Compile("control+a")))
	assert.True(t, tr.Match(combo.Compile("controlleft+keya")))
	assert.False(t, tr.Match(combo.Compile("a")))

	tr.KeyDown("Shift", "ShiftLeft")
	assert.False(t, tr.Match(combo.Compile("control+a")))
}

func TestNeedsRelease(t *testing.T) {
	tests := []struct {
		name string
		ev   *key.Event
		want bool
	}{
		{"plain key", key.NewKeyDown("a", "KeyA", key.ModNone), false},
		{"meta held", key.NewKeyDown("a", "KeyA", key.ModMeta), true},
		{"meta key itself", key.NewKeyDown("Meta", "MetaLeft", key.ModMeta), false},
		{"control under meta", key.NewKeyDown("Control", "ControlLeft", key.ModMeta|key.ModCtrl), false},
		{"shift under meta", key.NewKeyDown("Shift", "ShiftLeft", key.ModMeta|key.ModShift), false},
		{"alt under meta", key.NewKeyDown("Alt", "AltLeft", key.ModMeta|key.ModAlt), true},
		{"ctrl without meta", key.NewKeyDown("s", "KeyS", key.ModCtrl), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NeedsRelease(tt.ev))
		})
	}
}

func TestReleaseLaterWaitsForDeferrer(t *testing.T) {
	q := &queue{}
	tr := New(q)
	tr.KeyDown("Meta", "MetaLeft")
	tr.KeyDown("a", "KeyA")

	tr.ReleaseLater("a", "KeyA")
	assert.True(t, tr.Has("a"), "key stays held until the deferred callback runs")
	assert.True(t, tr.Match(combo.Compile("meta+a")))

	q.flush()
	assert.False(t, tr.Has("a"))
	assert.False(t, tr.HasCode("keya"))
	assert.True(t, tr.Has("meta"))
}

func TestReleaseLaterWithoutDeferrer(t *testing.T) {
	tr := New(nil)
	tr.KeyDown("a", "KeyA")
	tr.ReleaseLater("a", "KeyA")
	assert.False(t, tr.Has("a"))
}
