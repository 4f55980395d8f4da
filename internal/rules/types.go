package rules

type Engine string

const (
	EngineRegex Engine = "regex"
	EngineAho   Engine = "aho"
)

// Span is a match located in the original (non-folded) input.
type Span struct {
	Start int
	End   int
	Text  string
}

// Matcher finds the leftmost occurrence of any of its terms in input.
// When several terms start at the same offset the one listed first wins.
// Matching is case-insensitive and every term is literal text.
type Matcher interface {
	Match(input string) (Span, bool)
}
