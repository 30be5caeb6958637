package morph

import "testing"

func TestCheckFlagsReflexiveEndings(t *testing.T) {
	issues := Check("Он учится хорошо")
	if len(issues) != 1 {
		t.Fatalf("got %d issues, want 1", len(issues))
	}
	if issues[0].Start != 3 || issues[0].Length != 6 {
		t.Errorf("span = [%d,%d), want rune span [3,9)", issues[0].Start, issues[0].Start+issues[0].Length)
	}
}

func TestCheckRuneOffsets(t *testing.T) {
	// ASCII prefix shifts byte offsets away from rune offsets.
	issues := Check("abc учится")
	if len(issues) != 1 {
		t.Fatalf("got %d issues, want 1", len(issues))
	}
	if issues[0].Start != 4 {
		t.Errorf("start = %d, want rune offset 4", issues[0].Start)
	}
}

func TestCheckMultipleHitsInOrder(t *testing.T) {
	issues := Check("учится и умывается")
	if len(issues) != 2 {
		t.Fatalf("got %d issues, want 2", len(issues))
	}
	if issues[0].Start >= issues[1].Start {
		t.Error("issues should appear in order")
	}
}

func TestCheckCleanText(t *testing.T) {
	for _, text := range []string{
		"",
		"plain latin text",
		"Быстрая рыжая лиса",
		"цифры 123 и знаки!",
	} {
		if issues := Check(text); len(issues) != 0 {
			t.Errorf("Check(%q) = %v, want none", text, issues)
		}
	}
}

func TestCheckSoftSignVariant(t *testing.T) {
	issues := Check("надо учиться")
	if len(issues) != 1 {
		t.Fatalf("got %d issues, want 1", len(issues))
	}
	if issues[0].Length != 7 {
		t.Errorf("length = %d, want 7 runes", issues[0].Length)
	}
}
