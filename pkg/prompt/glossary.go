package prompt

import (
	"encoding/json"
	"os"
	"sort"
	"strings"
	"unicode"

	"github.com/tchap/go-patricia/v2/patricia"
)

// Entry is one source term with its fixed translation.
type Entry struct {
	Source string
	Target string
}

// Glossary is an in-memory mapping of source terms to their translations,
// persisted as JSON. Relevance lookups go through a patricia trie over the
// case-folded source terms, so multi-word terms match from their first token.
type Glossary struct {
	Name         string            `json:"name"`
	Entries      map[string]string `json:"entries"`
	AutoToPrompt bool              `json:"auto_to_prompt"`

	path string
	trie *patricia.Trie
}

// NewGlossary creates an empty glossary with the given name.
func NewGlossary(name string) *Glossary {
	g := &Glossary{Name: name, Entries: make(map[string]string)}
	g.rebuild()
	return g
}

// LoadGlossary reads a glossary JSON file.
func LoadGlossary(path string) (*Glossary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	g := &Glossary{}
	if err := json.Unmarshal(data, g); err != nil {
		return nil, err
	}
	if g.Entries == nil {
		g.Entries = make(map[string]string)
	}
	g.path = path
	g.rebuild()
	return g, nil
}

// Save writes the glossary to path, or to the file it was loaded from when
// path is empty.
func (g *Glossary) Save(path string) error {
	if path == "" {
		path = g.path
	}
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	g.path = path
	return nil
}

// Add inserts or updates a term pair.
func (g *Glossary) Add(source, target string) {
	g.Entries[source] = target
	g.trie.Insert(patricia.Prefix(folder.String(source)), source)
}

// Remove deletes source if present.
func (g *Glossary) Remove(source string) {
	if _, ok := g.Entries[source]; !ok {
		return
	}
	delete(g.Entries, source)
	g.trie.Delete(patricia.Prefix(folder.String(source)))
}

// Get returns the translation for source.
func (g *Glossary) Get(source string) (string, bool) {
	target, ok := g.Entries[source]
	return target, ok
}

// Relevant returns the entries whose source term occurs in text, ordered by
// source. Matching is caseless: each token of the folded text is used as a
// trie prefix and candidates are verified against the token position.
func (g *Glossary) Relevant(text string) []Entry {
	folded := folder.String(text)
	seen := make(map[string]bool)

	for _, off := range tokenOffsets(folded) {
		_ = g.trie.VisitSubtree(patricia.Prefix(tokenAt(folded, off)), func(p patricia.Prefix, item patricia.Item) error {
			term := string(p)
			if strings.HasPrefix(folded[off:], term) {
				seen[item.(string)] = true
			}
			return nil
		})
	}

	sources := make([]string, 0, len(seen))
	for src := range seen {
		sources = append(sources, src)
	}
	sort.Strings(sources)

	entries := make([]Entry, 0, len(sources))
	for _, src := range sources {
		entries = append(entries, Entry{Source: src, Target: g.Entries[src]})
	}
	return entries
}

func (g *Glossary) rebuild() {
	g.trie = patricia.NewTrie()
	for src := range g.Entries {
		g.trie.Insert(patricia.Prefix(folder.String(src)), src)
	}
}

// tokenOffsets returns the byte offset of each token start in s.
func tokenOffsets(s string) []int {
	var offs []int
	inWord := false
	for i, r := range s {
		word := unicode.IsLetter(r) || unicode.IsDigit(r)
		if word && !inWord {
			offs = append(offs, i)
		}
		inWord = word
	}
	return offs
}

// tokenAt returns the token beginning at byte offset off.
func tokenAt(s string, off int) string {
	rest := s[off:]
	for i, r := range rest {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return rest[:i]
		}
	}
	return rest
}
