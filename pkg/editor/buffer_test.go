package editor

import "testing"

func TestReplaceSpan(t *testing.T) {
	b := NewBuffer("The quick brown fox")

	if err := b.ReplaceSpan(10, 5, "auburn"); err != nil {
		t.Fatalf("ReplaceSpan: %v", err)
	}
	if got := b.FullText(); got != "The quick auburn fox" {
		t.Errorf("text = %q", got)
	}
	if got := b.Cursor(); got != 16 {
		t.Errorf("cursor = %d, want end of insert (16)", got)
	}
}

func TestReplaceSpanRuneOffsets(t *testing.T) {
	b := NewBuffer("Быстрая рыжая лиса")

	// Offsets are rune offsets, not byte offsets.
	if err := b.ReplaceSpan(14, 4, "плутовка"); err != nil {
		t.Fatalf("ReplaceSpan: %v", err)
	}
	if got := b.FullText(); got != "Быстрая рыжая плутовка" {
		t.Errorf("text = %q", got)
	}
}

func TestReplaceSpanBounds(t *testing.T) {
	b := NewBuffer("short")

	testCases := []struct {
		name   string
		offset int
		length int
	}{
		{"negative offset", -1, 2},
		{"negative length", 0, -1},
		{"span past end", 3, 5},
		{"offset past end", 6, 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if err := b.ReplaceSpan(tc.offset, tc.length, "x"); err == nil {
				t.Errorf("ReplaceSpan(%d, %d) succeeded, want error", tc.offset, tc.length)
			}
		})
	}
	if got := b.FullText(); got != "short" {
		t.Errorf("failed replace mutated the text: %q", got)
	}
}

func TestSetCursorClamps(t *testing.T) {
	b := NewBuffer("abc")

	b.SetCursor(-5)
	if got := b.Cursor(); got != 0 {
		t.Errorf("cursor = %d, want 0", got)
	}
	b.SetCursor(99)
	if got := b.Cursor(); got != 3 {
		t.Errorf("cursor = %d, want 3", got)
	}
}

func TestUndoRedo(t *testing.T) {
	b := NewBuffer("one")
	b.SetText("two")
	b.SetText("three")

	text, ok := b.Undo()
	if !ok || text != "two" {
		t.Fatalf("Undo = %q, %v", text, ok)
	}
	text, ok = b.Undo()
	if !ok || text != "one" {
		t.Fatalf("Undo = %q, %v", text, ok)
	}
	if _, ok := b.Undo(); ok {
		t.Error("Undo past the oldest revision should fail")
	}

	text, ok = b.Redo()
	if !ok || text != "two" {
		t.Fatalf("Redo = %q, %v", text, ok)
	}
	text, ok = b.Redo()
	if !ok || text != "three" {
		t.Fatalf("Redo = %q, %v", text, ok)
	}
	if _, ok := b.Redo(); ok {
		t.Error("Redo past the newest revision should fail")
	}
}

func TestEditDropsRedoTail(t *testing.T) {
	b := NewBuffer("one")
	b.SetText("two")
	b.Undo()

	// A fresh edit after undo forks history; the old "two" is gone.
	b.SetText("alt")
	if _, ok := b.Redo(); ok {
		t.Error("Redo should fail after a fresh edit")
	}
	text, ok := b.Undo()
	if !ok || text != "one" {
		t.Errorf("Undo = %q, %v, want back to one", text, ok)
	}
}

func TestIdenticalRevisionsCollapse(t *testing.T) {
	b := NewBuffer("same")
	b.SetText("same")
	b.SetText("same")

	if _, ok := b.Undo(); ok {
		t.Error("no-op edits should not create revisions")
	}
}

func TestVersionIncrements(t *testing.T) {
	b := NewBuffer("a")
	v0 := b.Version()
	b.SetText("b")
	if b.Version() <= v0 {
		t.Error("SetText should bump the version")
	}
	v1 := b.Version()
	if err := b.ReplaceSpan(0, 1, "c"); err != nil {
		t.Fatalf("ReplaceSpan: %v", err)
	}
	if b.Version() <= v1 {
		t.Error("ReplaceSpan should bump the version")
	}
}
