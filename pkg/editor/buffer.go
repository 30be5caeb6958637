// Package editor holds the host text surface the engine edits through: a
// rune-addressed buffer with span replacement, a cursor and linear undo/redo
// history over whole-text revisions.
package editor

import (
	"fmt"
	"sync"
)

// Buffer is a rune-addressed text buffer implementing suggest.Surface.
// All offsets are rune offsets. Safe for concurrent use.
type Buffer struct {
	mu      sync.Mutex
	runes   []rune
	cursor  int
	version uint64
	history []string
	histIdx int
}

// NewBuffer creates a buffer seeded with text; the seed is revision zero.
func NewBuffer(text string) *Buffer {
	return &Buffer{
		runes:   []rune(text),
		history: []string{text},
	}
}

// FullText returns the current text.
func (b *Buffer) FullText() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.runes)
}

// SetText replaces the whole buffer and clamps the cursor.
func (b *Buffer) SetText(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.runes = []rune(text)
	if b.cursor > len(b.runes) {
		b.cursor = len(b.runes)
	}
	b.version++
	b.recordLocked()
}

// Cursor returns the current cursor rune offset.
func (b *Buffer) Cursor() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cursor
}

// SetCursor moves the cursor, clamped into the text bounds.
func (b *Buffer) SetCursor(offset int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if offset < 0 {
		offset = 0
	}
	if offset > len(b.runes) {
		offset = len(b.runes)
	}
	b.cursor = offset
}

// Version counts mutations since creation.
func (b *Buffer) Version() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.version
}

// ReplaceSpan substitutes the length runes starting at offset with text and
// leaves the cursor at the end of the inserted run.
func (b *Buffer) ReplaceSpan(offset, length int, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if offset < 0 || length < 0 || offset+length > len(b.runes) {
		return fmt.Errorf("span [%d,%d) out of bounds (len %d)", offset, offset+length, len(b.runes))
	}

	insert := []rune(text)
	next := make([]rune, 0, len(b.runes)-length+len(insert))
	next = append(next, b.runes[:offset]...)
	next = append(next, insert...)
	next = append(next, b.runes[offset+length:]...)
	b.runes = next
	b.cursor = offset + len(insert)
	b.version++
	b.recordLocked()
	return nil
}

// Undo steps back one revision. The boolean is false at the oldest revision.
func (b *Buffer) Undo() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.histIdx == 0 {
		return "", false
	}
	b.histIdx--
	b.restoreLocked()
	return string(b.runes), true
}

// Redo steps forward one revision. The boolean is false at the newest.
func (b *Buffer) Redo() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.histIdx >= len(b.history)-1 {
		return "", false
	}
	b.histIdx++
	b.restoreLocked()
	return string(b.runes), true
}

// recordLocked appends the current text as a revision, dropping any redo
// tail. Identical consecutive revisions are collapsed.
func (b *Buffer) recordLocked() {
	text := string(b.runes)
	if b.history[b.histIdx] == text {
		return
	}
	b.history = append(b.history[:b.histIdx+1], text)
	b.histIdx = len(b.history) - 1
}

func (b *Buffer) restoreLocked() {
	b.runes = []rune(b.history[b.histIdx])
	if b.cursor > len(b.runes) {
		b.cursor = len(b.runes)
	}
	b.version++
}
