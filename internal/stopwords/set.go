// Package stopwords loads prohibited terms and partitions them into batches
// that are compiled into one matcher each.
package stopwords

import (
	"context"
	"strings"
)

// DefaultBatchSize bounds the number of terms compiled into a single matcher.
const DefaultBatchSize = 1000

// Set is an ordered list of normalized terms split into batches. A Set is
// never mutated after Load returns and may be shared between goroutines.
type Set struct {
	terms   []string
	batches [][]string
}

// Load normalizes raw lines into a Set. Line terminators and surrounding
// whitespace are stripped, empty lines dropped and every term lower-cased.
// Terms are kept as literal text.
func Load(lines []string, batchSize int) *Set {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	terms := make([]string, 0, len(lines))
	for _, line := range lines {
		term := normalizeTerm(line)
		if term == "" {
			continue
		}
		terms = append(terms, term)
	}

	set := &Set{terms: terms}
	for start := 0; start < len(terms); start += batchSize {
		end := start + batchSize
		if end > len(terms) {
			end = len(terms)
		}
		set.batches = append(set.batches, terms[start:end:end])
	}
	return set
}

// LoadFrom reads the source and builds a Set. A source that cannot be read
// yields an empty Set, since an absent list means nothing is prohibited.
func LoadFrom(ctx context.Context, src Source, batchSize int) *Set {
	if src == nil {
		return Load(nil, batchSize)
	}
	lines, err := src.Lines(ctx)
	if err != nil {
		return Load(nil, batchSize)
	}
	return Load(lines, batchSize)
}

func normalizeTerm(line string) string {
	line = strings.TrimRight(line, "\r\n")
	return strings.ToLower(strings.TrimSpace(line))
}

// Terms returns the normalized terms in their original order.
func (s *Set) Terms() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.terms...)
}

// Batches returns the partitioned terms. Callers must not modify them.
func (s *Set) Batches() [][]string {
	if s == nil {
		return nil
	}
	return s.batches
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.terms)
}

func (s *Set) Empty() bool {
	return s.Len() == 0
}
