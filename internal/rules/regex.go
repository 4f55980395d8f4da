package rules

import (
	"errors"
	"regexp"
	"strings"
)

type RegexMatcher struct {
	re *regexp.Regexp
}

// NewRegexMatcher compiles terms into one case-insensitive alternation.
// Terms are quoted, so pattern metacharacters only ever match themselves.
func NewRegexMatcher(terms []string) (*RegexMatcher, error) {
	quoted := make([]string, 0, len(terms))
	for _, term := range terms {
		if term == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(term))
	}
	if len(quoted) == 0 {
		return nil, errors.New("no non-empty terms")
	}

	re, err := regexp.Compile("(?i)(?:" + strings.Join(quoted, "|") + ")")
	if err != nil {
		return nil, err
	}
	return &RegexMatcher{re: re}, nil
}

func (m *RegexMatcher) Match(input string) (Span, bool) {
	loc := m.re.FindStringIndex(input)
	if loc == nil {
		return Span{}, false
	}
	return Span{Start: loc[0], End: loc[1], Text: input[loc[0]:loc[1]]}, true
}
