// SPDX-License-Identifier: MPL-2.0

package utcs

const (
	// DefaultSuggestionLimit caps the completions returned by Suggest.
	DefaultSuggestionLimit = 5
	// DefaultLargeRangeThreshold is the unit count above which a range draws a warning.
	DefaultLargeRangeThreshold = 100
)

type (
	// Engine validates, completes and scans UTCS codes against one registry snapshot.
	// An Engine is immutable after construction and safe for concurrent use.
	Engine struct {
		reg                 *Registries
		rules               []SuggestionRule
		suggestionLimit     int
		largeRangeThreshold int
	}

	// Option configures an Engine.
	Option func(*Engine)
)

// NewEngine creates an Engine over reg. A nil reg behaves as empty registries,
// so every registry lookup misses.
func NewEngine(reg *Registries, opts ...Option) *Engine {
	if reg == nil {
		reg = &Registries{}
	}
	e := &Engine{
		reg:                 reg,
		rules:               DefaultSuggestionRules(),
		suggestionLimit:     DefaultSuggestionLimit,
		largeRangeThreshold: DefaultLargeRangeThreshold,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithSuggestionRules replaces the trigram selection rules used by Suggest.
// An empty slice leaves only the common-trigram padding.
func WithSuggestionRules(rules []SuggestionRule) Option {
	return func(e *Engine) {
		e.rules = append([]SuggestionRule(nil), rules...)
	}
}

// WithSuggestionLimit sets how many completions Suggest returns at most.
// Non-positive values are ignored.
func WithSuggestionLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.suggestionLimit = n
		}
	}
}

// WithLargeRangeThreshold sets the unit count above which a range draws a warning.
// Non-positive values are ignored.
func WithLargeRangeThreshold(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.largeRangeThreshold = n
		}
	}
}

// Registries returns the snapshot the engine validates against.
func (e *Engine) Registries() *Registries {
	return e.reg
}
