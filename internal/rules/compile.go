package rules

import (
	"fmt"
	"strings"
)

// ParseEngine maps a configured engine name onto an Engine. An empty name
// selects the regex engine.
func ParseEngine(name string) (Engine, error) {
	switch Engine(strings.ToLower(strings.TrimSpace(name))) {
	case "", EngineRegex:
		return EngineRegex, nil
	case EngineAho:
		return EngineAho, nil
	default:
		return "", fmt.Errorf("unknown match engine %q", name)
	}
}

// Compile builds a Matcher for one batch of terms.
func Compile(engine Engine, terms []string) (Matcher, error) {
	switch engine {
	case "", EngineRegex:
		m, err := NewRegexMatcher(terms)
		if err != nil {
			return nil, fmt.Errorf("compile regex batch: %w", err)
		}
		return m, nil
	case EngineAho:
		m, err := NewAhoMatcher(terms)
		if err != nil {
			return nil, fmt.Errorf("build aho batch: %w", err)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown match engine %q", engine)
	}
}
