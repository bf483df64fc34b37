/*
Package tokenizer splits text into word tokens for indexing and finds the
candidate query starts in the text before the cursor.

Both built-in strategies share one scanner: runes are classified as trim
(a separator) or as one of the strategy's content classes, and a token is
emitted every time a trim rune is met or the content class changes. Every
emitted token, trim runes and empty regions included, is yielded in order, so
joining the words of Tokens gives back the input.
*/
package tokenizer

import (
	"fmt"
	"iter"
	"regexp"
	"unicode/utf8"

	"github.com/bastiangx/complements/pkg/strutil"
)

// Token is a substring of the scanned text and its byte offset in it.
type Token struct {
	Word   string
	Offset int
}

// TrimTarget selects which trim pattern a scan uses.
type TrimTarget int

const (
	// Indexing splits stored text into words.
	Indexing TrimTarget = iota
	// Input splits the text being typed to find where a query may start.
	Input
)

func (t TrimTarget) String() string {
	if t == Input {
		return "input"
	}
	return "indexing"
}

// Tokenizer is implemented by every strategy.
type Tokenizer interface {
	// Tokens scans content lazily. The sequence can be ranged over many times.
	Tokens(content string, target TrimTarget) iter.Seq[Token]
	// Tokenize returns the indexable words of content. With raw set, trim
	// tokens are kept.
	Tokenize(content string, raw bool) []string
	// RecursiveTokenize returns, for every token start that is not a trim
	// token, the suffix of content from that offset, in ascending offset order.
	RecursiveTokenize(content string) []Token
	TrimPattern(target TrimTarget) *regexp.Regexp
	// ShouldIgnoreOnCurrent reports whether query can never start a completion.
	ShouldIgnoreOnCurrent(query string) bool
}

// Options configures a tokenizer built by a Strategy.
type Options struct {
	// TreatUnderscoreAsPartOfWord stops '_' from separating words.
	TreatUnderscoreAsPartOfWord bool
	// TrimPattern, when set, replaces both built-in trim patterns. It is
	// matched against one rune at a time, so it should be a character class.
	TrimPattern *regexp.Regexp
}

const trimChars = `\r\n\t\[\]$/:?!=()<>"',|;*~ \x60_“„«»‹›‚‘’”`

var (
	// IndexingTrimPattern keeps '.' inside words so versions and
	// abbreviations survive; trailing dots are stripped afterwards.
	IndexingTrimPattern = regexp.MustCompile(`[` + trimChars + `]`)
	InputTrimPattern    = regexp.MustCompile(`[.` + trimChars + `]`)
)

type class int

const (
	classNone class = iota
	classTrim
	classContent
	classLatin
	classOthers
)

// scanner is the state machine shared by the strategies.
type scanner struct {
	indexing *regexp.Regexp
	input    *regexp.Regexp
	classify func(r rune) class
}

func newScanner(opts Options, classify func(rune) class) (scanner, error) {
	s := scanner{
		indexing: IndexingTrimPattern,
		input:    InputTrimPattern,
		classify: classify,
	}
	if opts.TrimPattern != nil {
		s.indexing = opts.TrimPattern
		s.input = opts.TrimPattern
	}
	if opts.TreatUnderscoreAsPartOfWord {
		var err error
		if s.indexing, err = removeUnderscore(s.indexing); err != nil {
			return scanner{}, err
		}
		if s.input, err = removeUnderscore(s.input); err != nil {
			return scanner{}, err
		}
	}
	return s, nil
}

func (s scanner) TrimPattern(target TrimTarget) *regexp.Regexp {
	if target == Input {
		return s.input
	}
	return s.indexing
}

func (s scanner) Tokens(content string, target TrimTarget) iter.Seq[Token] {
	trim := s.TrimPattern(target)
	return func(yield func(Token) bool) {
		start := 0
		prev := classNone
		for i := 0; i < len(content); {
			r, size := utf8.DecodeRuneInString(content[i:])

			c := classTrim
			if !trim.MatchString(content[i : i+size]) {
				c = s.classify(r)
			}

			switch {
			case c == classTrim:
				if !yield(Token{Word: content[start:i], Offset: start}) {
					return
				}
				start = i
				prev = classTrim
			case prev == c || prev == classNone:
				prev = c
			default:
				if !yield(Token{Word: content[start:i], Offset: start}) {
					return
				}
				start = i
				prev = c
			}
			i += size
		}
		yield(Token{Word: content[start:], Offset: start})
	}
}

func (s scanner) RecursiveTokenize(content string) []Token {
	trim := s.input
	var results []Token
	for token := range s.Tokens(content, Input) {
		if token.Word == "" || trim.MatchString(token.Word) {
			continue
		}
		results = append(results, Token{Word: content[token.Offset:], Offset: token.Offset})
	}
	return results
}

func (s scanner) ShouldIgnoreOnCurrent(query string) bool {
	if query == "" {
		return true
	}
	for _, r := range query {
		if !s.input.MatchString(string(r)) {
			return false
		}
	}
	return true
}

// isTrimOnly reports whether every rune of word matches pattern
func isTrimOnly(word string, pattern *regexp.Regexp) bool {
	for i := 0; i < len(word); {
		_, size := utf8.DecodeRuneInString(word[i:])
		if !pattern.MatchString(word[i : i+size]) {
			return false
		}
		i += size
	}
	return true
}

func removeUnderscore(pattern *regexp.Regexp) (*regexp.Regexp, error) {
	p, err := strutil.RemoveFromPattern(pattern, "_")
	if err != nil {
		return nil, fmt.Errorf("failed to drop '_' from trim pattern %q: %w", pattern, err)
	}
	return p, nil
}
