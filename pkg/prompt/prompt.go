// Package prompt builds model prompts for the suggestion flow and manages
// the glossaries appended to them. The engine consumes it as a collaborator;
// no state is shared back.
package prompt

import (
	"strings"

	"golang.org/x/text/cases"
)

// synonymInstruction is the fixed instruction for synonym lookups. The reply
// format (semicolon-separated words, nothing else) is what pkg/model parses.
const synonymInstruction = "Дай 5-10 вариантов синонимов одного русского слова в данном контексте.\n" +
	"Формат: слово;слово;слово... Без лишнего текста."

var folder = cases.Fold()

// Builder assembles prompts from an instruction, the cursor context and any
// attached glossaries marked auto-to-prompt.
type Builder struct {
	glossaries []*Glossary
}

// NewBuilder creates a Builder over the given glossaries. Nil entries are
// skipped.
func NewBuilder(glossaries ...*Glossary) *Builder {
	b := &Builder{}
	for _, g := range glossaries {
		if g != nil {
			b.glossaries = append(b.glossaries, g)
		}
	}
	return b
}

// Synonyms returns the prompt asking for in-context synonyms of word.
// Glossary entries whose source term occurs in the surrounding context are
// appended so the model keeps established translations intact.
func (b *Builder) Synonyms(word, left, right string) string {
	var sb strings.Builder
	sb.WriteString(synonymInstruction)
	sb.WriteString("\nКонтекст: ...")
	sb.WriteString(left)
	sb.WriteString(" [ ")
	sb.WriteString(word)
	sb.WriteString(" ] ")
	sb.WriteString(right)
	sb.WriteString("...")

	passage := left + " " + word + " " + right
	var lines []string
	for _, g := range b.glossaries {
		if !g.AutoToPrompt {
			continue
		}
		for _, e := range g.Relevant(passage) {
			lines = append(lines, e.Source+" -> "+e.Target)
		}
	}
	if len(lines) > 0 {
		sb.WriteString("\n\nGlossary:\n")
		sb.WriteString(strings.Join(lines, "\n"))
	}
	return sb.String()
}
