package suggest

import "testing"

func TestExtractWordUnderCursor(t *testing.T) {
	e := NewExtractor(120, "-'’")
	text := "The quick brown fox"

	// Every offset strictly inside "brown" (runes 10..14) must yield the
	// whole word, as must the boundary right after it.
	for offset := 10; offset <= 15; offset++ {
		cc, ok := e.Extract(text, offset)
		if !ok {
			t.Fatalf("offset %d: expected a word, got miss", offset)
		}
		if cc.Word != "brown" {
			t.Errorf("offset %d: word = %q, want %q", offset, cc.Word, "brown")
		}
		if cc.Pos != 10 {
			t.Errorf("offset %d: pos = %d, want 10", offset, cc.Pos)
		}
		if cc.Left != "The quick" {
			t.Errorf("offset %d: left = %q, want %q", offset, cc.Left, "The quick")
		}
		if cc.Right != "fox" {
			t.Errorf("offset %d: right = %q, want %q", offset, cc.Right, "fox")
		}
	}
}

func TestExtractTable(t *testing.T) {
	e := NewExtractor(120, "-'’")

	testCases := []struct {
		name   string
		text   string
		offset int
		word   string
		ok     bool
	}{
		{"start of text", "brown fox", 0, "brown", true},
		{"end of text", "brown fox", 9, "fox", true},
		{"offset past end", "brown fox", 10, "", false},
		{"negative offset", "brown fox", -1, "", false},
		{"empty text", "", 0, "", false},
		{"on a space with no word before", " fox", 0, "", false},
		{"after punctuation", "fox. ", 3, "fox", true},
		{"two spaces past the word", "a  b", 2, "", false},
		{"internal hyphen", "well-known fact", 3, "well-known", true},
		{"internal apostrophe", "it don't matter", 5, "don't", true},
		{"trailing hyphen excluded", " re- do", 1, "re", true},
		{"cyrillic word", "Быстрая лиса", 9, "лиса", true},
		{"digits", "room 42 here", 6, "42", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cc, ok := e.Extract(tc.text, tc.offset)
			if ok != tc.ok {
				t.Fatalf("Extract(%q, %d) ok = %v, want %v", tc.text, tc.offset, ok, tc.ok)
			}
			if ok && cc.Word != tc.word {
				t.Errorf("Extract(%q, %d) word = %q, want %q", tc.text, tc.offset, cc.Word, tc.word)
			}
		})
	}
}

func TestExtractRespectsParagraphBoundary(t *testing.T) {
	e := NewExtractor(120, "")
	text := "first paragraph\nsecond line target words here\nthird paragraph"

	cc, ok := e.Extract(text, 28) // inside "target"
	if !ok {
		t.Fatal("expected a word")
	}
	if cc.Word != "target" {
		t.Fatalf("word = %q, want %q", cc.Word, "target")
	}
	if cc.Left != "second line" {
		t.Errorf("left = %q crossed the paragraph break", cc.Left)
	}
	if cc.Right != "words here" {
		t.Errorf("right = %q crossed the paragraph break", cc.Right)
	}
}

func TestExtractWindowBound(t *testing.T) {
	e := NewExtractor(4, "")
	cc, ok := e.Extract("abcdefgh word abcdefgh", 10)
	if !ok {
		t.Fatal("expected a word")
	}
	if len([]rune(cc.Left)) > 4 {
		t.Errorf("left window %q exceeds bound", cc.Left)
	}
	if len([]rune(cc.Right)) > 4 {
		t.Errorf("right window %q exceeds bound", cc.Right)
	}
}

func TestExtractDeterministic(t *testing.T) {
	e := NewExtractor(120, "-")
	a, okA := e.Extract("same input text", 6)
	b, okB := e.Extract("same input text", 6)
	if okA != okB || a != b {
		t.Errorf("identical inputs gave different results: %+v vs %+v", a, b)
	}
}
