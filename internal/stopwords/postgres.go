package stopwords

import (
	"context"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

const defaultTable = "stopwords"

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Querier is the subset of pgxpool.Pool used by PostgresSource.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresSource reads active terms from a table with columns
// (id, word, is_active).
type PostgresSource struct {
	db     Querier
	query  string
	logger zerolog.Logger
}

func NewPostgresSource(db Querier, table string, logger zerolog.Logger) (*PostgresSource, error) {
	if table == "" {
		table = defaultTable
	}
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &PostgresSource{
		db:     db,
		query:  fmt.Sprintf("SELECT word FROM %s WHERE is_active = TRUE ORDER BY id", table),
		logger: logger.With().Str("component", "stopwords_postgres").Logger(),
	}, nil
}

// Lines returns the active terms. Query failures are logged and reported as
// an empty list.
func (p *PostgresSource) Lines(ctx context.Context) ([]string, error) {
	rows, err := p.db.Query(ctx, p.query)
	if err != nil {
		p.logger.Error().Err(err).Msg("query stopwords")
		return nil, nil
	}
	defer rows.Close()

	var words []string
	for rows.Next() {
		var word string
		if err := rows.Scan(&word); err != nil {
			p.logger.Error().Err(err).Msg("scan stopword row")
			continue
		}
		words = append(words, word)
	}
	if err := rows.Err(); err != nil {
		p.logger.Error().Err(err).Msg("iterate stopword rows")
		return nil, nil
	}

	p.logger.Debug().Int("count", len(words)).Msg("fetched stopwords")
	return words, nil
}
