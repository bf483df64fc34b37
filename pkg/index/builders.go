package index

import (
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/bastiangx/complements/pkg/model"
	"github.com/bastiangx/complements/pkg/strutil"
	"github.com/bastiangx/complements/pkg/tokenizer"
	"github.com/samber/lo"
)

// TextOptions controls how free text becomes words.
type TextOptions struct {
	Type      model.WordType
	Path      string
	MinLength int
	Aliases   strutil.AliasOptions
}

// WordsFromText tokenizes text and turns every distinct word of at least
// MinLength runes into a Word, in order of first appearance.
func WordsFromText(tok tokenizer.Tokenizer, text string, opts TextOptions) []model.Word {
	tokens := lo.Uniq(tok.Tokenize(text, false))
	tokens = lo.Filter(tokens, func(token string, _ int) bool {
		return utf8.RuneCountInString(token) >= opts.MinLength
	})

	return lo.Map(tokens, func(token string, _ int) model.Word {
		return model.Word{
			Value:       token,
			Type:        opts.Type,
			CreatedPath: opts.Path,
			Aliases:     strutil.SynonymAliases(token, opts.Aliases),
		}
	})
}

// DictionaryOptions describes the layout of a custom dictionary file.
type DictionaryOptions struct {
	// Delimiter separates value, description and aliases. Defaults to a tab.
	Delimiter string
	// CaretSymbol, when found in a value, marks where the caret goes.
	CaretSymbol string
	Path        string
	Aliases     strutil.AliasOptions
}

const escapedBackslash = "\x00backslash\x00"

// ParseDictionary reads one word per line:
//
//	value<delim>description<delim>alias<delim>alias...
//
// Empty lines and lines starting with '#' are skipped. In values, `\n` is a
// line break and `\\` a backslash.
func ParseDictionary(content string, opts DictionaryOptions) []model.Word {
	delimiter := opts.Delimiter
	if delimiter == "" {
		delimiter = "\t"
	}

	var words []model.Word
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if w, ok := lineToWord(line, delimiter, opts); ok {
			words = append(words, w)
		}
	}
	return words
}

func lineToWord(line, delimiter string, opts DictionaryOptions) (model.Word, bool) {
	fields := strings.Split(line, delimiter)

	value := strings.ReplaceAll(fields[0], `\\`, escapedBackslash)
	value = strings.ReplaceAll(value, `\n`, "\n")
	value = strings.ReplaceAll(value, escapedBackslash, `\`)
	if strings.TrimSpace(value) == "" {
		return model.Word{}, false
	}

	w := model.Word{
		Value:       value,
		Type:        model.CustomDictionary,
		CreatedPath: opts.Path,
	}
	if len(fields) > 1 {
		w.Description = fields[1]
	}
	if opts.CaretSymbol != "" && strings.Contains(value, opts.CaretSymbol) {
		w.CaretSymbol = opts.CaretSymbol
	}

	var aliases []string
	if len(fields) > 2 {
		aliases = lo.Compact(fields[2:])
	}
	aliases = append(aliases, strutil.SynonymAliases(value, opts.Aliases)...)
	w.Aliases = lo.Without(lo.Uniq(aliases), value)
	return w, true
}

// Note is a file of the vault seen by the link and front matter builders.
type Note struct {
	Path    string
	Content string
}

// InternalLinkWords turns notes into link targets named after their base name.
// Front matter aliases of the note become aliases of the link.
func InternalLinkWords(notes []Note, aliasOpts strutil.AliasOptions) []model.Word {
	words := make([]model.Word, 0, len(notes))
	for _, note := range notes {
		value := strings.TrimSuffix(filepath.Base(note.Path), filepath.Ext(note.Path))
		if value == "" {
			continue
		}

		aliases := strutil.SynonymAliases(value, aliasOpts)
		if fm, ok := ParseFrontMatter(note.Content); ok {
			for _, alias := range FrontMatterAliases(fm) {
				aliases = append(aliases, alias)
				aliases = append(aliases, strutil.SynonymAliases(alias, aliasOpts)...)
			}
		}

		words = append(words, model.Word{
			Value:       value,
			Type:        model.InternalLink,
			CreatedPath: note.Path,
			Aliases:     lo.Without(lo.Uniq(aliases), value),
		})
	}
	return words
}
