package prompt

import (
	"strings"
	"testing"
)

func TestSynonymsFramesContext(t *testing.T) {
	b := NewBuilder()
	p := b.Synonyms("лиса", "Быстрая рыжая", "перепрыгнула через пса")

	if !strings.Contains(p, "[ лиса ]") {
		t.Errorf("prompt does not bracket the word:\n%s", p)
	}
	if !strings.Contains(p, "Быстрая рыжая [ лиса ] перепрыгнула через пса") {
		t.Errorf("prompt does not frame the context:\n%s", p)
	}
	if !strings.Contains(p, "синонимов") {
		t.Errorf("prompt lacks the instruction:\n%s", p)
	}
	if strings.Contains(p, "Glossary:") {
		t.Errorf("prompt has a glossary section with no glossaries:\n%s", p)
	}
}

func TestSynonymsAppendsRelevantGlossary(t *testing.T) {
	g := NewGlossary("test")
	g.AutoToPrompt = true
	g.Add("пёс", "hound")
	g.Add("кот", "cat")

	b := NewBuilder(g)
	p := b.Synonyms("лиса", "рыжая", "и ленивый пёс")

	if !strings.Contains(p, "Glossary:") {
		t.Fatalf("prompt lacks the glossary section:\n%s", p)
	}
	if !strings.Contains(p, "пёс -> hound") {
		t.Errorf("relevant entry missing:\n%s", p)
	}
	if strings.Contains(p, "кот") {
		t.Errorf("irrelevant entry included:\n%s", p)
	}
}

func TestSynonymsSkipsManualGlossaries(t *testing.T) {
	g := NewGlossary("manual")
	g.Add("пёс", "hound")

	b := NewBuilder(g)
	p := b.Synonyms("лиса", "рыжая", "и пёс")

	if strings.Contains(p, "Glossary:") {
		t.Errorf("manual glossary leaked into the prompt:\n%s", p)
	}
}

func TestNewBuilderSkipsNil(t *testing.T) {
	b := NewBuilder(nil, NewGlossary("a"), nil)
	if len(b.glossaries) != 1 {
		t.Errorf("glossaries = %d, want 1", len(b.glossaries))
	}
}
