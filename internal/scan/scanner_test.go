package scan

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stopguard/stopguard/internal/rules"
	"github.com/stopguard/stopguard/internal/stopwords"
)

var engines = []rules.Engine{rules.EngineRegex, rules.EngineAho}

func newScanner(t *testing.T, engine rules.Engine) *Scanner {
	t.Helper()
	s, err := New(Options{Engine: engine})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	return s
}

func TestScanScenarioFreeMoney(t *testing.T) {
	for _, engine := range engines {
		s := newScanner(t, engine)
		set := stopwords.Load([]string{"buyviagra", "free-money"}, 1000)

		got := s.Scan(Fields{Content: "Click here for FREE-MONEY now"}, set)
		want := Result{Blocked: true, Field: FieldContent, Term: "FREE-MONEY"}
		if got != want {
			t.Fatalf("%s: expected %+v, got %+v", engine, want, got)
		}
	}
}

func TestScanCleanSubmission(t *testing.T) {
	for _, engine := range engines {
		s := newScanner(t, engine)
		set := stopwords.Load([]string{"spam"}, 1000)

		fields := Fields{
			Content:     "Lovely weather today",
			Author:      "Jo",
			AuthorEmail: "jo@example.com",
			AuthorURL:   "https://example.com",
			AuthorIP:    "203.0.113.7",
		}
		if got := s.Scan(fields, set); got != Clean {
			t.Fatalf("%s: expected clean, got %+v", engine, got)
		}
	}
}

func TestScanEmptySetNeverBlocks(t *testing.T) {
	s := newScanner(t, rules.EngineRegex)
	set := stopwords.Load(nil, 1000)

	if got := s.Scan(Fields{Content: "anything at all", Author: "spam"}, set); got != Clean {
		t.Fatalf("expected clean, got %+v", got)
	}
}

func TestScanCaseInsensitive(t *testing.T) {
	for _, engine := range engines {
		s := newScanner(t, engine)
		set := stopwords.Load([]string{"SPAM"}, 1000)

		for _, value := range []string{"SPAM", "Spam", "sPaM", "spam"} {
			got := s.Scan(Fields{Content: "buy " + value}, set)
			if !got.Blocked || got.Term != value {
				t.Fatalf("%s: expected %q to be blocked with its own casing, got %+v", engine, value, got)
			}
		}
	}
}

func TestScanSubstringNotWholeWord(t *testing.T) {
	for _, engine := range engines {
		s := newScanner(t, engine)
		set := stopwords.Load([]string{"ass"}, 1000)

		got := s.Scan(Fields{Content: "first class service"}, set)
		if !got.Blocked || got.Term != "ass" {
			t.Fatalf("%s: expected substring match, got %+v", engine, got)
		}
	}
}

func TestScanLiteralMetacharacters(t *testing.T) {
	for _, engine := range engines {
		s := newScanner(t, engine)
		set := stopwords.Load([]string{"a.b", "x*", "(c)", "d|e"}, 1000)

		if got := s.Scan(Fields{Content: "axb xx c d e"}, set); got != Clean {
			t.Fatalf("%s: expected metacharacters to be literal, got %+v", engine, got)
		}
		if got := s.Scan(Fields{Content: "see A.B"}, set); got.Term != "A.B" {
			t.Fatalf("%s: expected literal match, got %+v", engine, got)
		}
	}
}

func TestScanFieldOrder(t *testing.T) {
	for _, engine := range engines {
		s := newScanner(t, engine)
		set := stopwords.Load([]string{"casino"}, 1000)

		fields := Fields{
			Content:   "visit my Casino",
			AuthorURL: "https://casino.example",
		}
		got := s.Scan(fields, set)
		if got.Field != FieldContent {
			t.Fatalf("%s: expected content to be reported, got %+v", engine, got)
		}

		fields.Content = "harmless"
		fields.AuthorIP = "casino"
		got = s.Scan(fields, set)
		if got.Field != FieldAuthorURL || got.Term != "casino" {
			t.Fatalf("%s: expected author_url to be reported, got %+v", engine, got)
		}
	}
}

func TestScanEveryField(t *testing.T) {
	s := newScanner(t, rules.EngineRegex)
	set := stopwords.Load([]string{"bad"}, 1000)

	for _, field := range FieldOrder {
		var fields Fields
		switch field {
		case FieldContent:
			fields.Content = "BAD"
		case FieldAuthor:
			fields.Author = "BAD"
		case FieldAuthorEmail:
			fields.AuthorEmail = "BAD"
		case FieldAuthorURL:
			fields.AuthorURL = "BAD"
		case FieldAuthorIP:
			fields.AuthorIP = "BAD"
		}
		got := s.Scan(fields, set)
		if got.Field != field {
			t.Fatalf("expected %s to be reported, got %+v", field, got)
		}
	}
}

func TestScanRestrictedFields(t *testing.T) {
	s, err := New(Options{Fields: []Field{FieldAuthorURL, FieldContent}})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	set := stopwords.Load([]string{"bad"}, 1000)

	if got := s.Scan(Fields{Author: "bad", AuthorEmail: "bad@example.com"}, set); got != Clean {
		t.Fatalf("expected disabled fields to be ignored, got %+v", got)
	}
	if got := s.Scan(Fields{AuthorURL: "bad.example"}, set); got.Field != FieldAuthorURL {
		t.Fatalf("expected author_url match, got %+v", got)
	}
	if fields := s.Fields(); fields[0] != FieldContent || fields[1] != FieldAuthorURL {
		t.Fatalf("expected fields in fixed order, got %v", fields)
	}
}

func TestScanBatchBoundary(t *testing.T) {
	lines := make([]string, 2500)
	for i := range lines {
		lines[i] = fmt.Sprintf("zz-filler-%04d-zz", i)
	}
	lines[2400] = "needle-2401"

	for _, engine := range engines {
		s := newScanner(t, engine)
		set := stopwords.Load(lines, 1000)
		if len(set.Batches()) != 3 {
			t.Fatalf("expected 3 batches, got %d", len(set.Batches()))
		}

		got := s.Scan(Fields{Content: "a haystack with a NEEDLE-2401 inside"}, set)
		want := Result{Blocked: true, Field: FieldContent, Term: "NEEDLE-2401"}
		if got != want {
			t.Fatalf("%s: expected %+v, got %+v", engine, want, got)
		}
	}
}

func TestScanBatchSizeInvariance(t *testing.T) {
	terms := []string{"eggs", "ham", "spam", "free", "free-money", "a.b", "ass"}
	inputs := []Fields{
		{Content: "spam and eggs"},
		{Content: "FREE-MONEY here"},
		{Content: "ham; then spam"},
		{Content: "nothing", AuthorURL: "http://a.b/class"},
		{Content: "clean", Author: "clean"},
		{Content: "first class eggs"},
	}

	for _, engine := range engines {
		s := newScanner(t, engine)
		for _, fields := range inputs {
			reference := s.Scan(fields, stopwords.Load(terms, len(terms)+1))
			for _, size := range []int{1, 2, 3, 1000} {
				got := s.Scan(fields, stopwords.Load(terms, size))
				if got != reference {
					t.Fatalf("%s: batch size %d gave %+v, unbatched gave %+v for %+v", engine, size, got, reference, fields)
				}
			}
		}
	}
}

func TestScanEnginesAgree(t *testing.T) {
	terms := []string{"eggs", "spam", "free-money", "(c)", "ass"}
	regex := newScanner(t, rules.EngineRegex)
	aho := newScanner(t, rules.EngineAho)

	for _, content := range []string{"Spam, Eggs", "copyright (C) 2024", "class", "fine", "EGGS SPAM free-money"} {
		set := stopwords.Load(terms, 2)
		a := regex.Scan(Fields{Content: content}, set)
		b := aho.Scan(Fields{Content: content}, set)
		if a != b {
			t.Fatalf("engines disagree on %q: regex %+v aho %+v", content, a, b)
		}
	}
}

func TestScanListChangeDoesNotReuseMatcher(t *testing.T) {
	for _, engine := range engines {
		s := newScanner(t, engine)
		fields := Fields{Content: "a only"}

		if got := s.Scan(fields, stopwords.Load([]string{"a", "b"}, 1000)); !got.Blocked || got.Term != "a" {
			t.Fatalf("%s: expected block on a, got %+v", engine, got)
		}
		if got := s.Scan(fields, stopwords.Load([]string{"a\x00b"}, 1000)); got != Clean {
			t.Fatalf("%s: expected clean after the list changed, got %+v", engine, got)
		}
	}
}

func TestBatchKeyIsUnambiguous(t *testing.T) {
	pairs := [][2][]string{
		{{"a", "b"}, {"a\x00b"}},
		{{"ab", "c"}, {"a", "bc"}},
		{{"1:a"}, {"1", "a"}},
	}
	for _, pair := range pairs {
		if batchKey(pair[0]) == batchKey(pair[1]) {
			t.Fatalf("batches %q and %q share a key", pair[0], pair[1])
		}
	}
}

func TestScanInvalidUTF8TermEnginesAgree(t *testing.T) {
	set := stopwords.Load([]string{"bad\xffword"}, 1000)
	for _, engine := range engines {
		s := newScanner(t, engine)
		got := s.Scan(Fields{Content: "so BAD\xffWORD here"}, set)
		if !got.Blocked || got.Term != "BAD\xffWORD" {
			t.Fatalf("%s: expected block on the raw bytes, got %+v", engine, got)
		}
	}
}

func TestScanIdempotentAndConcurrent(t *testing.T) {
	s := newScanner(t, rules.EngineRegex)
	set := stopwords.Load([]string{"spam"}, 1000)
	fields := Fields{Content: "SPAM"}

	first := s.Scan(fields, set)
	if second := s.Scan(fields, set); second != first {
		t.Fatalf("expected identical results, got %+v then %+v", first, second)
	}

	var wg sync.WaitGroup
	results := make([]Result, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = s.Scan(fields, stopwords.Load([]string{"spam"}, 1000))
		}(i)
	}
	wg.Wait()
	for _, r := range results {
		if r != first {
			t.Fatalf("expected %+v from concurrent scan, got %+v", first, r)
		}
	}
}

func TestParseFields(t *testing.T) {
	fields, err := ParseFields([]string{"author_url", "Content"})
	if err != nil {
		t.Fatalf("ParseFields error: %v", err)
	}
	if len(fields) != 2 || fields[0] != FieldContent || fields[1] != FieldAuthorURL {
		t.Fatalf("unexpected fields %v", fields)
	}

	all, err := ParseFields(nil)
	if err != nil || len(all) != len(FieldOrder) {
		t.Fatalf("expected all fields, got %v %v", all, err)
	}

	if _, err := ParseFields([]string{"comment_karma"}); err == nil {
		t.Fatal("expected unknown field error")
	}
}

func TestNewRejectsUnknownEngine(t *testing.T) {
	if _, err := New(Options{Engine: "pcre"}); err == nil {
		t.Fatal("expected unknown engine error")
	}
}
