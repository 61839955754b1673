package cmd

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
)

// maxLines bounds the dispatch log kept by the view.
const maxLines = 200

// view draws the run screen: a title, the held keys and a log of
// dispatched bindings, newest last.
type view struct {
	screen tcell.Screen
	title  string

	mu      sync.Mutex
	pressed []string
	lines   []string
}

func newView(screen tcell.Screen, title string) *view {
	return &view{screen: screen, title: title}
}

// Print appends a line to the log.
func (v *view) Print(line string) {
	v.mu.Lock()
	v.lines = append(v.lines, line)
	if len(v.lines) > maxLines {
		v.lines = v.lines[len(v.lines)-maxLines:]
	}
	v.mu.Unlock()
	v.draw()
}

// Clear empties the log.
func (v *view) Clear() {
	v.mu.Lock()
	v.lines = nil
	v.mu.Unlock()
	v.draw()
}

// SetPressed updates the held-keys line.
func (v *view) SetPressed(keys []string) {
	v.mu.Lock()
	v.pressed = keys
	v.mu.Unlock()
	v.draw()
}

// Lines returns a copy of the log.
func (v *view) Lines() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.lines...)
}

func (v *view) draw() {
	v.mu.Lock()
	pressed := strings.Join(v.pressed, "+")
	lines := append([]string(nil), v.lines...)
	v.mu.Unlock()

	s := v.screen
	s.Clear()
	w, h := s.Size()

	bold := tcell.StyleDefault.Bold(true)
	dim := tcell.StyleDefault.Dim(true)
	putLine(s, 0, w, v.title, bold)
	putLine(s, 1, w, fmt.Sprintf("held: %s", pressed), dim)

	rows := h - 3
	if rows > 0 && len(lines) > rows {
		lines = lines[len(lines)-rows:]
	}
	for i, line := range lines {
		putLine(s, 3+i, w, line, tcell.StyleDefault)
	}
	s.Show()
}

// putLine writes text on row y, clipped to width w.
func putLine(s tcell.Screen, y, w int, text string, style tcell.Style) {
	x := 0
	for _, r := range text {
		if x >= w {
			return
		}
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
