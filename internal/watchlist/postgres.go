package watchlist

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema creates the watchlist table. Applied by EnsureSchema.
const Schema = `CREATE TABLE IF NOT EXISTS watchlist_symbols (
	symbol     TEXT PRIMARY KEY,
	enabled    BOOLEAN NOT NULL DEFAULT TRUE,
	sort_order INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresSource reads enabled symbols from PostgreSQL.
type PostgresSource struct {
	pool *pgxpool.Pool
}

// NewPostgresSource creates a new PostgreSQL-backed watchlist.
func NewPostgresSource(pool *pgxpool.Pool) *PostgresSource {
	return &PostgresSource{pool: pool}
}

// EnsureSchema creates the table if needed.
func (s *PostgresSource) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("ensure watchlist schema: %w", err)
	}
	return nil
}

func (s *PostgresSource) Load(ctx context.Context) (Symbols, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT symbol FROM watchlist_symbols
		 WHERE enabled
		 ORDER BY sort_order, symbol`)
	if err != nil {
		return Symbols{}, fmt.Errorf("query watchlist: %w", err)
	}
	defer rows.Close()

	var raw []string
	for rows.Next() {
		var sym string
		if err := rows.Scan(&sym); err != nil {
			return Symbols{}, fmt.Errorf("scan watchlist: %w", err)
		}
		raw = append(raw, sym)
	}
	if err := rows.Err(); err != nil {
		return Symbols{}, fmt.Errorf("read watchlist: %w", err)
	}

	// Bad rows are skipped; only an empty result fails the load.
	syms, err := FromList(raw)
	if syms.Len() == 0 {
		return Symbols{}, err
	}
	return syms, nil
}

// Add enables symbol, inserting it if needed.
func (s *PostgresSource) Add(ctx context.Context, symbol string, sortOrder int) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO watchlist_symbols (symbol, enabled, sort_order)
		 VALUES ($1, TRUE, $2)
		 ON CONFLICT (symbol) DO UPDATE SET enabled = TRUE, sort_order = EXCLUDED.sort_order`,
		symbol, sortOrder,
	)
	return err
}

func (s *PostgresSource) Name() string { return "postgres" }
