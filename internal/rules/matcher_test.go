package rules

import "testing"

var engines = []Engine{EngineRegex, EngineAho}

func TestMatcherCaseInsensitive(t *testing.T) {
	for _, engine := range engines {
		m, err := Compile(engine, []string{"spam"})
		if err != nil {
			t.Fatalf("%s: compile: %v", engine, err)
		}
		for _, input := range []string{"SPAM", "Spam", "sPaM", "eat spam"} {
			span, ok := m.Match(input)
			if !ok {
				t.Fatalf("%s: expected %q to match", engine, input)
			}
			if span.Text != input[span.Start:span.End] {
				t.Fatalf("%s: span text %q does not match input slice", engine, span.Text)
			}
		}
	}
}

func TestMatcherLiteralMetacharacters(t *testing.T) {
	for _, engine := range engines {
		m, err := Compile(engine, []string{"a.b", "(x|y)*"})
		if err != nil {
			t.Fatalf("%s: compile: %v", engine, err)
		}
		if _, ok := m.Match("axb"); ok {
			t.Fatalf("%s: expected a.b not to match axb", engine)
		}
		span, ok := m.Match("see a.b here")
		if !ok || span.Text != "a.b" {
			t.Fatalf("%s: expected literal a.b match, got %+v %v", engine, span, ok)
		}
		if _, ok := m.Match("xxyy"); ok {
			t.Fatalf("%s: expected alternation term to stay literal", engine)
		}
		if span, ok := m.Match("pre (X|Y)* post"); !ok || span.Text != "(X|Y)*" {
			t.Fatalf("%s: expected literal (X|Y)* match, got %+v %v", engine, span, ok)
		}
	}
}

func TestMatcherLeftmostThenListOrder(t *testing.T) {
	cases := []struct {
		name  string
		terms []string
		input string
		want  string
	}{
		{"leftmost-wins", []string{"eggs", "spam"}, "spam and eggs", "spam"},
		{"tie-first-listed", []string{"free", "free-money"}, "FREE-MONEY", "FREE"},
		{"tie-first-listed-long", []string{"free-money", "free"}, "FREE-MONEY", "FREE-MONEY"},
		{"substring", []string{"ass"}, "first class", "ass"},
		{"overlap", []string{"bcd", "abcde"}, "xabcdex", "abcde"},
	}

	for _, engine := range engines {
		for _, tt := range cases {
			m, err := Compile(engine, tt.terms)
			if err != nil {
				t.Fatalf("%s/%s: compile: %v", engine, tt.name, err)
			}
			span, ok := m.Match(tt.input)
			if !ok {
				t.Fatalf("%s/%s: expected match", engine, tt.name)
			}
			if span.Text != tt.want {
				t.Fatalf("%s/%s: expected %q, got %q", engine, tt.name, tt.want, span.Text)
			}
		}
	}
}

func TestMatcherPreservesUnicodeCasing(t *testing.T) {
	for _, engine := range engines {
		m, err := Compile(engine, []string{"straße"})
		if err != nil {
			t.Fatalf("%s: compile: %v", engine, err)
		}
		span, ok := m.Match("Die STRAßE ist lang")
		if !ok || span.Text != "STRAßE" {
			t.Fatalf("%s: expected STRAßE, got %+v %v", engine, span, ok)
		}
	}
}

func TestMatcherNoMatch(t *testing.T) {
	for _, engine := range engines {
		m, err := Compile(engine, []string{"buyviagra"})
		if err != nil {
			t.Fatalf("%s: compile: %v", engine, err)
		}
		if _, ok := m.Match(""); ok {
			t.Fatalf("%s: empty input must not match", engine)
		}
		if _, ok := m.Match("a perfectly fine comment"); ok {
			t.Fatalf("%s: unexpected match", engine)
		}
	}
}

func TestCompileRejectsEmpty(t *testing.T) {
	for _, engine := range engines {
		if _, err := Compile(engine, []string{""}); err == nil {
			t.Fatalf("%s: expected error for empty batch", engine)
		}
	}
	if _, err := Compile("bogus", []string{"x"}); err == nil {
		t.Fatal("expected error for unknown engine")
	}
}

func TestParseEngine(t *testing.T) {
	cases := map[string]Engine{"": EngineRegex, "regex": EngineRegex, "AHO": EngineAho}
	for input, want := range cases {
		got, err := ParseEngine(input)
		if err != nil || got != want {
			t.Fatalf("ParseEngine(%q) expected %s, got %s (%v)", input, want, got, err)
		}
	}
	if _, err := ParseEngine("pcre"); err == nil {
		t.Fatal("expected error for unknown engine")
	}
}
