package index

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/bastiangx/complements/pkg/model"
	"github.com/bastiangx/complements/pkg/strutil"
	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

const frontMatterFence = "---"

// ParseFrontMatter decodes the YAML block fenced by "---" lines at the very
// top of content. ok is false when there is no such block or it does not
// decode to a mapping.
func ParseFrontMatter(content string) (map[string]any, bool) {
	content = strings.TrimPrefix(content, "\ufeff")
	lines := strings.SplitAfter(content, "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], "\r\n") != frontMatterFence {
		return nil, false
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], "\r\n") == frontMatterFence {
			end = i
			break
		}
	}
	if end < 0 {
		return nil, false
	}

	var fm map[string]any
	if err := yaml.Unmarshal([]byte(strings.Join(lines[1:end], "")), &fm); err != nil {
		log.Debugf("Skipping malformed front matter: %v", err)
		return nil, false
	}
	if fm == nil {
		return nil, false
	}
	return fm, true
}

// FrontMatterAliases returns the values of the aliases (or alias) field.
func FrontMatterAliases(fm map[string]any) []string {
	for _, key := range []string{"aliases", "alias"} {
		if v, ok := fm[key]; ok {
			if s, ok := v.(string); ok {
				return splitList(s)
			}
			return scalarStrings(v)
		}
	}
	return nil
}

// FrontMatterWords collects every scalar front matter value of the notes as
// a word keyed by its field name. Keys are visited in sorted order.
func FrontMatterWords(notes []Note, aliasOpts strutil.AliasOptions) []model.Word {
	var words []model.Word
	for _, note := range notes {
		fm, ok := ParseFrontMatter(note.Content)
		if !ok {
			continue
		}
		for _, key := range slices.Sorted(maps.Keys(fm)) {
			for _, value := range scalarStrings(fm[key]) {
				words = append(words, model.Word{
					Value:       value,
					Type:        model.FrontMatter,
					Key:         key,
					CreatedPath: note.Path,
					Aliases:     strutil.SynonymAliases(value, aliasOpts),
				})
			}
		}
	}
	return words
}

// scalarStrings flattens a scalar or a list of scalars. Nested mappings are skipped.
func scalarStrings(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		if s := strings.TrimSpace(t); s != "" {
			return []string{s}
		}
		return nil
	case []any:
		var out []string
		for _, item := range t {
			out = append(out, scalarStrings(item)...)
		}
		return out
	case map[string]any:
		return nil
	default:
		return []string{fmt.Sprint(t)}
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
