package stopwords

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestLoadNormalizes(t *testing.T) {
	set := Load([]string{"BuyViagra\r\n", "", "  Free-Money \n", "\n", "a.b"}, 10)

	want := []string{"buyviagra", "free-money", "a.b"}
	if !reflect.DeepEqual(set.Terms(), want) {
		t.Fatalf("expected %v, got %v", want, set.Terms())
	}
	if len(set.Batches()) != 1 {
		t.Fatalf("expected 1 batch, got %d", len(set.Batches()))
	}
}

func TestLoadBatches(t *testing.T) {
	lines := make([]string, 2500)
	for i := range lines {
		lines[i] = "term" + strings.Repeat("x", i%7) + string(rune('a'+i%26))
	}

	set := Load(lines, 1000)
	batches := set.Batches()
	if len(batches) != 3 {
		t.Fatalf("expected 3 batches, got %d", len(batches))
	}
	if len(batches[0]) != 1000 || len(batches[1]) != 1000 || len(batches[2]) != 500 {
		t.Fatalf("unexpected batch sizes %d/%d/%d", len(batches[0]), len(batches[1]), len(batches[2]))
	}

	var joined []string
	for _, batch := range batches {
		joined = append(joined, batch...)
	}
	if !reflect.DeepEqual(joined, set.Terms()) {
		t.Fatal("expected batches to reconstruct the term list")
	}
}

func TestLoadDefaultBatchSize(t *testing.T) {
	set := Load([]string{"a", "b"}, 0)
	if len(set.Batches()) != 1 {
		t.Fatalf("expected 1 batch, got %d", len(set.Batches()))
	}
}

func TestLoadEmpty(t *testing.T) {
	set := Load(nil, 1000)
	if !set.Empty() || len(set.Batches()) != 0 {
		t.Fatalf("expected empty set, got %d terms", set.Len())
	}
}

type failingSource struct{}

func (failingSource) Lines(context.Context) ([]string, error) {
	return nil, errors.New("boom")
}

func TestLoadFromFailingSourceIsEmpty(t *testing.T) {
	set := LoadFrom(context.Background(), failingSource{}, 1000)
	if !set.Empty() {
		t.Fatalf("expected empty set, got %d terms", set.Len())
	}
	if !LoadFrom(context.Background(), nil, 1000).Empty() {
		t.Fatal("expected empty set for nil source")
	}
}

func TestLoadFromStatic(t *testing.T) {
	set := LoadFrom(context.Background(), StaticSource{"Spam"}, 1000)
	if !reflect.DeepEqual(set.Terms(), []string{"spam"}) {
		t.Fatalf("unexpected terms %v", set.Terms())
	}
}
