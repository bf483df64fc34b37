package tokenizer

import (
	"strings"

	"github.com/bastiangx/complements/pkg/strutil"
)

// defaultTokenizer has a single content class: anything not trim.
type defaultTokenizer struct {
	scanner
}

func newDefault(opts Options) (Tokenizer, error) {
	s, err := newScanner(opts, func(rune) class { return classContent })
	if err != nil {
		return nil, err
	}
	return &defaultTokenizer{scanner: s}, nil
}

// Tokenize joins back date and version runs such as 2020/01/01, strips
// trailing dots and drops empty words. Trim tokens are dropped unless raw.
func (t *defaultTokenizer) Tokenize(content string, raw bool) []string {
	var words []string
	for token := range t.Tokens(content, Indexing) {
		if token.Word != "" {
			words = append(words, token.Word)
		}
	}

	results := make([]string, 0, len(words))
	for _, word := range strutil.JoinNumberWithSymbol(words) {
		word = strings.TrimRight(word, ".")
		if word == "" {
			continue
		}
		if !raw && isTrimOnly(word, t.indexing) {
			continue
		}
		results = append(results, word)
	}
	return results
}
