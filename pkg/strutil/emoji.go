package strutil

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// pictographic approximates Extended_Pictographic plus the enclosed
// alphanumeric supplement, which the unicode package does not expose.
var pictographic = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x00a9, Hi: 0x00a9, Stride: 1},
		{Lo: 0x00ae, Hi: 0x00ae, Stride: 1},
		{Lo: 0x203c, Hi: 0x203c, Stride: 1},
		{Lo: 0x2049, Hi: 0x2049, Stride: 1},
		{Lo: 0x2122, Hi: 0x2122, Stride: 1},
		{Lo: 0x2139, Hi: 0x2139, Stride: 1},
		{Lo: 0x2194, Hi: 0x2199, Stride: 1},
		{Lo: 0x21a9, Hi: 0x21aa, Stride: 1},
		{Lo: 0x231a, Hi: 0x231b, Stride: 1},
		{Lo: 0x2328, Hi: 0x2328, Stride: 1},
		{Lo: 0x2388, Hi: 0x2388, Stride: 1},
		{Lo: 0x23cf, Hi: 0x23cf, Stride: 1},
		{Lo: 0x23e9, Hi: 0x23f3, Stride: 1},
		{Lo: 0x23f8, Hi: 0x23fa, Stride: 1},
		{Lo: 0x24c2, Hi: 0x24c2, Stride: 1},
		{Lo: 0x25aa, Hi: 0x25ab, Stride: 1},
		{Lo: 0x25b6, Hi: 0x25b6, Stride: 1},
		{Lo: 0x25c0, Hi: 0x25c0, Stride: 1},
		{Lo: 0x25fb, Hi: 0x25fe, Stride: 1},
		{Lo: 0x2600, Hi: 0x27bf, Stride: 1},
		{Lo: 0x2934, Hi: 0x2935, Stride: 1},
		{Lo: 0x2b05, Hi: 0x2b07, Stride: 1},
		{Lo: 0x2b1b, Hi: 0x2b1c, Stride: 1},
		{Lo: 0x2b50, Hi: 0x2b50, Stride: 1},
		{Lo: 0x2b55, Hi: 0x2b55, Stride: 1},
		{Lo: 0x3030, Hi: 0x3030, Stride: 1},
		{Lo: 0x303d, Hi: 0x303d, Stride: 1},
		{Lo: 0x3297, Hi: 0x3297, Stride: 1},
		{Lo: 0x3299, Hi: 0x3299, Stride: 1},
	},
	R32: []unicode.Range32{
		{Lo: 0x1f000, Hi: 0x1faff, Stride: 1},
		{Lo: 0x1fc00, Hi: 0x1fffd, Stride: 1},
	},
	LatinOffset: 2,
}

const (
	variationSelector16 = '\ufe0f'
	combiningKeycap     = '\u20e3'
)

// isEmojiCluster reports whether a grapheme cluster renders as an emoji
func isEmojiCluster(cluster string) bool {
	for _, r := range cluster {
		switch {
		case unicode.Is(pictographic, r):
			return true
		case r == variationSelector16, r == combiningKeycap:
			return true
		case r >= 0xe0020 && r <= 0xe007f:
			return true
		}
	}
	return false
}

// ExcludeEmoji removes emoji, whole grapheme clusters at a time so that
// variation selectors, skin tones and ZWJ sequences go with their base, then
// trims the surrounding space.
func ExcludeEmoji(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	rest := text
	state := -1
	var cluster string
	for len(rest) > 0 {
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if !isEmojiCluster(cluster) {
			b.WriteString(cluster)
		}
	}
	return strings.TrimSpace(b.String())
}

// RemoveAccentsDiacritics folds accented letters to their base letter (á -> a).
func RemoveAccentsDiacritics(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return result
}

// AliasOptions selects which transforms SynonymAliases applies.
type AliasOptions struct {
	Emoji             bool
	AccentsDiacritics bool
}

// SynonymAliases returns the alternate literal of value produced by the enabled
// transforms, or nothing when value is unaffected by them.
func SynonymAliases(value string, opts AliasOptions) []string {
	alias := value
	if opts.Emoji {
		alias = ExcludeEmoji(alias)
	}
	if opts.AccentsDiacritics {
		alias = RemoveAccentsDiacritics(alias)
	}
	if alias == value || alias == "" {
		return []string{}
	}
	return []string{alias}
}
