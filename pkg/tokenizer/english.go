package tokenizer

// englishOnlyTokenizer separates latin words from everything else and only
// indexes the latin ones.
type englishOnlyTokenizer struct {
	scanner
}

func isLatin(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_', r == '-', r == '\\':
		return true
	}
	return false
}

func classifyEnglish(r rune) class {
	if isLatin(r) {
		return classLatin
	}
	return classOthers
}

func newEnglishOnly(opts Options) (Tokenizer, error) {
	s, err := newScanner(opts, classifyEnglish)
	if err != nil {
		return nil, err
	}
	return &englishOnlyTokenizer{scanner: s}, nil
}

func (t *englishOnlyTokenizer) Tokenize(content string, raw bool) []string {
	var results []string
	for token := range t.Tokens(content, Indexing) {
		if !containsLatin(token.Word) {
			continue
		}
		if !raw && t.indexing.MatchString(token.Word) {
			continue
		}
		results = append(results, token.Word)
	}
	return results
}

func containsLatin(word string) bool {
	for _, r := range word {
		if isLatin(r) {
			return true
		}
	}
	return false
}
