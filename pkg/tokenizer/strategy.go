package tokenizer

import (
	"fmt"
	"slices"
)

// Strategy names a tokenizer implementation. The set is fixed.
type Strategy struct {
	name  string
	build func(Options) (Tokenizer, error)
}

var (
	Default     = Strategy{name: "default", build: newDefault}
	EnglishOnly = Strategy{name: "english-only", build: newEnglishOnly}

	strategies = []Strategy{Default, EnglishOnly}
)

func (s Strategy) Name() string { return s.name }

// New builds a tokenizer for this strategy.
func (s Strategy) New(opts Options) (Tokenizer, error) {
	if s.build == nil {
		return nil, fmt.Errorf("tokenizer strategy %q is not registered", s.name)
	}
	t, err := s.build(opts)
	if err != nil {
		return nil, fmt.Errorf("build %s tokenizer: %w", s.name, err)
	}
	return t, nil
}

// StrategyFromName looks up a strategy by its name.
func StrategyFromName(name string) (Strategy, bool) {
	i := slices.IndexFunc(strategies, func(s Strategy) bool { return s.name == name })
	if i < 0 {
		return Strategy{}, false
	}
	return strategies[i], true
}

// Strategies lists every strategy in registration order.
func Strategies() []Strategy {
	return slices.Clone(strategies)
}
