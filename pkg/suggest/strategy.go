package suggest

import (
	"errors"
	"fmt"
	"slices"

	"github.com/bastiangx/complements/pkg/index"
	"github.com/bastiangx/complements/pkg/model"
)

var (
	// ErrUnknownStrategy is returned for a strategy name outside the registry.
	ErrUnknownStrategy = errors.New("unknown match strategy")
	// ErrInheritNotInvocable means the inherit placeholder reached dispatch
	// without being resolved to a concrete strategy.
	ErrInheritNotInvocable = errors.New("inherit match strategy must be resolved before use")
)

// Handler ranks the indexed words matching query, at most max of them.
type Handler func(words *index.IndexedWords, query string, max int, opts Options) []model.Word

// MatchStrategy is one of a fixed set of named matching disciplines.
type MatchStrategy struct {
	name    string
	handler Handler
}

var (
	// Inherit defers to the default strategy of the caller.
	Inherit = MatchStrategy{name: "inherit", handler: inheritHandler}
	// Prefix matches words starting with the query.
	Prefix = MatchStrategy{name: "prefix", handler: suggestByPrefix}
	// Partial also matches words containing the query anywhere.
	Partial = MatchStrategy{name: "partial", handler: suggestByPartial}

	matchStrategies = []MatchStrategy{Inherit, Prefix, Partial}
)

func inheritHandler(*index.IndexedWords, string, int, Options) []model.Word {
	panic(ErrInheritNotInvocable)
}

func (s MatchStrategy) Name() string { return s.name }

func (s MatchStrategy) String() string { return s.name }

// Handler returns the bound matching function. Calling the handler of Inherit panics.
func (s MatchStrategy) Handler() Handler { return s.handler }

// IsInherit reports whether s defers to a default. The zero value does too.
func (s MatchStrategy) IsInherit() bool {
	return s.name == "" || s.name == Inherit.name
}

// Resolve returns fallback when s is Inherit, s otherwise.
func (s MatchStrategy) Resolve(fallback MatchStrategy) MatchStrategy {
	if s.IsInherit() {
		return fallback
	}
	return s
}

// Run calls the handler, returning ErrInheritNotInvocable instead of panicking
// when s was never resolved.
func (s MatchStrategy) Run(words *index.IndexedWords, query string, max int, opts Options) ([]model.Word, error) {
	if s.IsInherit() {
		return nil, ErrInheritNotInvocable
	}
	return s.handler(words, query, max, opts), nil
}

// StrategyFromName looks up a registered strategy.
func StrategyFromName(name string) (MatchStrategy, error) {
	i := slices.IndexFunc(matchStrategies, func(s MatchStrategy) bool { return s.name == name })
	if i < 0 {
		return MatchStrategy{}, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
	return matchStrategies[i], nil
}

// Strategies lists the registered strategies.
func Strategies() []MatchStrategy {
	return slices.Clone(matchStrategies)
}
