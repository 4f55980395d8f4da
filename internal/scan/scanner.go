// Package scan evaluates submission fields against a stopword set.
package scan

import (
	"strconv"
	"strings"
	"sync"

	"github.com/stopguard/stopguard/internal/rules"
	"github.com/stopguard/stopguard/internal/stopwords"
)

// Result is either clean (Blocked false) or names the first matching field
// and the matched text exactly as the submitter typed it.
type Result struct {
	Blocked bool
	Field   Field
	Term    string
}

var Clean = Result{}

type Options struct {
	Engine rules.Engine
	// Fields restricts which fields are scanned. Nil scans all of them.
	Fields []Field
}

// maxCompiled bounds the compiled-batch cache.
const maxCompiled = 256

// Scanner is safe for concurrent use. Compiled batches are cached by their
// content, so an unchanged list is compiled once even though a fresh Set is
// loaded for every scan.
type Scanner struct {
	engine rules.Engine
	fields []Field

	mu       sync.Mutex
	compiled map[string]rules.Matcher
}

func New(opts Options) (*Scanner, error) {
	engine := opts.Engine
	if engine == "" {
		engine = rules.EngineRegex
	}
	if _, err := rules.ParseEngine(string(engine)); err != nil {
		return nil, err
	}

	fields := opts.Fields
	if fields == nil {
		fields = FieldOrder
	}
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = string(f)
	}
	ordered, err := ParseFields(names)
	if err != nil {
		return nil, err
	}

	return &Scanner{engine: engine, fields: ordered, compiled: map[string]rules.Matcher{}}, nil
}

func (s *Scanner) Fields() []Field {
	return append([]Field(nil), s.fields...)
}

// Scan checks fields in the fixed order and stops at the first field with a
// match. Within that field the leftmost match across all batches is
// reported, ties going to the earlier batch, so the reported term does not
// depend on the batch size.
func (s *Scanner) Scan(fields Fields, set *stopwords.Set) Result {
	if set.Empty() {
		return Clean
	}

	matchers := s.matchers(set)

	for _, field := range s.fields {
		value := fields.Value(field)
		if value == "" {
			continue
		}

		best, found := rules.Span{}, false
		for _, m := range matchers {
			span, ok := m.Match(value)
			if !ok {
				continue
			}
			if !found || span.Start < best.Start {
				best, found = span, true
			}
			if best.Start == 0 {
				break
			}
		}
		if found {
			return Result{Blocked: true, Field: field, Term: best.Text}
		}
	}

	return Clean
}

func (s *Scanner) matchers(set *stopwords.Set) []rules.Matcher {
	batches := set.Batches()
	out := make([]rules.Matcher, 0, len(batches))

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, batch := range batches {
		key := batchKey(batch)
		if m, ok := s.compiled[key]; ok {
			out = append(out, m)
			continue
		}

		m, err := rules.Compile(s.engine, batch)
		if err != nil {
			// a batch too large for the regex engine is still matched literally
			m, err = rules.Compile(rules.EngineAho, batch)
			if err != nil {
				continue
			}
		}
		if len(s.compiled) >= maxCompiled {
			s.compiled = map[string]rules.Matcher{}
		}
		s.compiled[key] = m
		out = append(out, m)
	}
	return out
}

// batchKey identifies a batch by its terms. Each term is length-prefixed so
// no two different batches share a key.
func batchKey(batch []string) string {
	var b strings.Builder
	for _, term := range batch {
		b.WriteString(strconv.Itoa(len(term)))
		b.WriteByte(':')
		b.WriteString(term)
	}
	return b.String()
}
