/*
Package strutil holds the string primitives shared by the tokenizer, the word
indexes and the match strategies.

Every function is pure and works on runes, so multi-byte and astral
characters are never split. Comparisons that ignore case lower both sides
with the Unicode tables, not only ASCII.
*/
package strutil

import (
	"iter"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	numbersOrFewSymbolsPattern = regexp.MustCompile(`^[0-9_\-./:]+$`)
	alphabetsPattern           = regexp.MustCompile(`^[a-zA-Z0-9_\-]+$`)
	internalLinkPattern        = regexp.MustCompile(`^\[\[.+]]$`)
	smallLetterOnlyFirst       = regexp.MustCompile(`^\p{Lu}\P{Lu}+$`)
)

// ExcludeSpace drops every whitespace rune.
func ExcludeSpace(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)
}

// EqualsAsLiterals reports whether a and b are equal once all whitespace is removed.
func EqualsAsLiterals(a, b string) bool {
	return ExcludeSpace(a) == ExcludeSpace(b)
}

// EncodeSpace replaces half-width spaces with %20 so the value can be used in a link.
func EncodeSpace(text string) string {
	return strings.ReplaceAll(text, " ", "%20")
}

// AllNumbersOrFewSymbols reports whether text only has digits and the
// separators found in dates, times and versions.
func AllNumbersOrFewSymbols(text string) bool {
	return numbersOrFewSymbolsPattern.MatchString(text)
}

// AllAlphabets reports whether text only has ASCII letters, digits, '_' or '-'.
func AllAlphabets(text string) bool {
	return alphabetsPattern.MatchString(text)
}

// LowerIncludes checks if one contains other case-insensitively
func LowerIncludes(one, other string) bool {
	return strings.Contains(strings.ToLower(one), strings.ToLower(other))
}

// LowerIncludesWithoutSpace is LowerIncludes with whitespace removed from other
func LowerIncludesWithoutSpace(one, other string) bool {
	return LowerIncludes(one, ExcludeSpace(other))
}

// LowerStartsWith checks if one has the prefix other case-insensitively
func LowerStartsWith(one, other string) bool {
	return strings.HasPrefix(strings.ToLower(one), strings.ToLower(other))
}

// LowerStartsWithoutSpace is LowerStartsWith with whitespace removed from both sides
func LowerStartsWithoutSpace(one, other string) bool {
	return LowerStartsWith(ExcludeSpace(one), ExcludeSpace(other))
}

// CapitalizeFirstLetter upper-cases the first rune and leaves the rest alone.
// Strings starting with a rune that has no upper case are returned as is.
func CapitalizeFirstLetter(text string) string {
	r, size := utf8.DecodeRuneInString(text)
	if r == utf8.RuneError {
		return text
	}
	upper := unicode.ToUpper(r)
	if upper == r {
		return text
	}
	return string(upper) + text[size:]
}

// StartsSmallLetterOnlyFirst reports whether text is capitalized like "Abc":
// an upper-case first rune followed only by non upper-case runes.
func StartsSmallLetterOnlyFirst(text string) bool {
	return smallLetterOnlyFirst.MatchString(text)
}

// IsInternalLink reports whether text is exactly one [[link]].
func IsInternalLink(text string) bool {
	return internalLinkPattern.MatchString(text)
}

// SplitRaw splits text by pattern and keeps every delimiter as its own element,
// so joining the sequence gives back text.
func SplitRaw(text string, pattern *regexp.Regexp) iter.Seq[string] {
	return func(yield func(string) bool) {
		prev := 0
		for _, loc := range pattern.FindAllStringIndex(text, -1) {
			if loc[0] == loc[1] {
				continue
			}
			if loc[0] > prev {
				if !yield(text[prev:loc[0]]) {
					return
				}
			}
			if !yield(text[loc[0]:loc[1]]) {
				return
			}
			prev = loc[1]
		}
		if prev < len(text) {
			yield(text[prev:])
		}
	}
}

// RemoveFromPattern compiles a copy of pattern whose source has every rune of
// removeChars deleted. It is meant for character-class patterns such as the
// tokenizer trim patterns.
func RemoveFromPattern(pattern *regexp.Regexp, removeChars string) (*regexp.Regexp, error) {
	source := strings.Map(func(r rune) rune {
		if strings.ContainsRune(removeChars, r) {
			return -1
		}
		return r
	}, pattern.String())
	return regexp.Compile(source)
}

// FindCommonPrefix returns the longest case-insensitive common prefix of strs,
// spelled as in strs[0]. ok is false when strs is empty or nothing is shared.
func FindCommonPrefix(strs []string) (prefix string, ok bool) {
	if len(strs) == 0 {
		return "", false
	}

	first := strs[0]
	end := len(first)
	for _, s := range strs[1:] {
		end = commonPrefixLen(first[:end], s)
		if end == 0 {
			break
		}
	}
	if end == 0 {
		return "", false
	}
	return first[:end], true
}

// commonPrefixLen returns the byte length in a of the prefix shared with b
func commonPrefixLen(a, b string) int {
	ia, ib := 0, 0
	for ia < len(a) && ib < len(b) {
		ra, sa := utf8.DecodeRuneInString(a[ia:])
		rb, sb := utf8.DecodeRuneInString(b[ib:])
		if unicode.ToLower(ra) != unicode.ToLower(rb) {
			break
		}
		ia += sa
		ib += sb
	}
	return ia
}

// JoinNumberWithSymbol merges adjacent tokens made only of digits and date or
// version separators, e.g. ["2020", "-", "01"] becomes ["2020-01"].
// Other tokens pass through in order.
func JoinNumberWithSymbol(tokens []string) []string {
	if len(tokens) == 0 {
		return []string{}
	}

	results := make([]string, 0, len(tokens))
	prev := tokens[0]
	for _, token := range tokens[1:] {
		if AllNumbersOrFewSymbols(prev) && AllNumbersOrFewSymbols(token) {
			prev += token
			continue
		}
		results = append(results, prev)
		prev = token
	}
	return append(results, prev)
}
