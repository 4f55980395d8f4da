package stopwords

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type fakeList struct {
	key    string
	values []string
	err    error
}

func (f *fakeList) LRange(_ context.Context, key string, _, _ int64) *redis.StringSliceCmd {
	f.key = key
	return redis.NewStringSliceResult(f.values, f.err)
}

func TestRedisSourceLines(t *testing.T) {
	client := &fakeList{values: []string{"Spam", "eggs"}}
	src := NewRedisSource(client, "", zerolog.Nop())

	lines, err := src.Lines(context.Background())
	if err != nil {
		t.Fatalf("Lines error: %v", err)
	}
	if !reflect.DeepEqual(lines, []string{"Spam", "eggs"}) {
		t.Fatalf("unexpected lines %v", lines)
	}
	if client.key != defaultRedisKey {
		t.Fatalf("expected default key, got %q", client.key)
	}
}

func TestRedisSourceErrorsAreEmpty(t *testing.T) {
	for _, err := range []error{redis.Nil, errors.New("dial tcp: refused")} {
		src := NewRedisSource(&fakeList{err: err}, "k", zerolog.Nop())
		lines, gotErr := src.Lines(context.Background())
		if gotErr != nil || len(lines) != 0 {
			t.Fatalf("expected empty list for %v, got %v %v", err, lines, gotErr)
		}
	}
}
