package stopwords

import (
	"context"
	"errors"
	"reflect"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/rs/zerolog"
)

const expectedQuery = "SELECT word FROM stopwords WHERE is_active = TRUE ORDER BY id"

func TestPostgresSourceLines(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	src, err := NewPostgresSource(mock, "", zerolog.Nop())
	if err != nil {
		t.Fatalf("NewPostgresSource error: %v", err)
	}

	rows := mock.NewRows([]string{"word"}).AddRow("Spam").AddRow("free-money")
	mock.ExpectQuery(regexp.QuoteMeta(expectedQuery)).WillReturnRows(rows)

	lines, err := src.Lines(context.Background())
	if err != nil {
		t.Fatalf("Lines error: %v", err)
	}
	if !reflect.DeepEqual(lines, []string{"Spam", "free-money"}) {
		t.Fatalf("unexpected lines %v", lines)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresSourceQueryErrorIsEmpty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	src, err := NewPostgresSource(mock, "stopwords", zerolog.Nop())
	if err != nil {
		t.Fatalf("NewPostgresSource error: %v", err)
	}

	mock.ExpectQuery(regexp.QuoteMeta(expectedQuery)).WillReturnError(errors.New("connection refused"))

	lines, err := src.Lines(context.Background())
	if err != nil || len(lines) != 0 {
		t.Fatalf("expected empty list without error, got %v %v", lines, err)
	}
}

func TestPostgresSourceRowsErrorIsEmpty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	src, err := NewPostgresSource(mock, "", zerolog.Nop())
	if err != nil {
		t.Fatalf("NewPostgresSource error: %v", err)
	}

	rows := mock.NewRows([]string{"word"}).CloseError(errors.New("rows iteration error"))
	mock.ExpectQuery(regexp.QuoteMeta(expectedQuery)).WillReturnRows(rows)

	lines, err := src.Lines(context.Background())
	if err != nil || len(lines) != 0 {
		t.Fatalf("expected empty list without error, got %v %v", lines, err)
	}
}

func TestPostgresSourceRejectsTableName(t *testing.T) {
	if _, err := NewPostgresSource(nil, "words; DROP TABLE users", zerolog.Nop()); err == nil {
		t.Fatal("expected invalid table name error")
	}
	if _, err := NewPostgresSource(nil, "moderation.stopwords", zerolog.Nop()); err != nil {
		t.Fatalf("expected schema-qualified table to be accepted: %v", err)
	}
}
