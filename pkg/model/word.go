// Package model defines the words held by the indexes and returned as suggestions.
package model

import "fmt"

// WordType is the source a word was indexed from.
type WordType string

const (
	CurrentFile      WordType = "currentFile"
	CurrentVault     WordType = "currentVault"
	CustomDictionary WordType = "customDictionary"
	InternalLink     WordType = "internalLink"
	FrontMatter      WordType = "frontMatter"
)

// WordGroup collects word types whose words are interchangeable in results.
type WordGroup string

const (
	GroupSuggestion   WordGroup = "suggestion"
	GroupInternalLink WordGroup = "internalLink"
	GroupFrontMatter  WordGroup = "frontMatter"
)

var wordTypes = []WordType{CurrentFile, CurrentVault, CustomDictionary, InternalLink, FrontMatter}

// WordTypes lists every word type.
func WordTypes() []WordType {
	return append([]WordType(nil), wordTypes...)
}

// ParseWordType validates a word type name.
func ParseWordType(name string) (WordType, error) {
	for _, t := range wordTypes {
		if string(t) == name {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown word type %q", name)
}

// Group returns the result group of t.
func (t WordType) Group() WordGroup {
	switch t {
	case InternalLink:
		return GroupInternalLink
	case FrontMatter:
		return GroupFrontMatter
	default:
		return GroupSuggestion
	}
}

// Word is one indexed entry. The index never mutates a Word after creating it;
// matching returns copies with Hit set.
type Word struct {
	Value       string
	Description string
	Aliases     []string
	Type        WordType
	// CaretSymbol marks where the caret goes after insertion.
	CaretSymbol string
	// CreatedPath is the file the word came from, if any.
	CreatedPath string
	// Key is the front matter field of a FrontMatter word.
	Key string
	// Hit is the literal the query matched: the value or one of the aliases.
	Hit string
}

// Literals returns the value followed by the aliases.
func (w Word) Literals() []string {
	out := make([]string, 0, len(w.Aliases)+1)
	out = append(out, w.Value)
	return append(out, w.Aliases...)
}

// MatchedAlias reports whether Hit is one of the aliases rather than the value.
func (w Word) MatchedAlias() bool {
	return w.Hit != "" && w.Hit != w.Value
}
