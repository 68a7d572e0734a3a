package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"suba-radar/models"
	"suba-radar/utils"
)

const snapshotColumns = 9

// PostgresStore keeps the normalised table in PostgreSQL so the dashboard can
// be served without the original workbook.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection, waits for the server, runs schema
// migrations and returns a ready-to-use PostgresStore.
func NewPostgresStore(ctx context.Context, dsn string, retry *utils.RetryConfig) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if err := retry.Do(ctx, "postgres-ping", func() error { return db.PingContext(ctx) }); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	ps := &PostgresStore{db: db}
	if err := ps.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return ps, nil
}

func (ps *PostgresStore) migrate(ctx context.Context) error {
	_, err := ps.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS snapshots (
			id               SERIAL PRIMARY KEY,
			snapshot_date    DATE          NOT NULL,
			account          TEXT          NOT NULL,
			followers_max    NUMERIC(14,2) NOT NULL DEFAULT 0,
			followers_growth DOUBLE PRECISION NOT NULL DEFAULT 0,
			engagement_rate  DOUBLE PRECISION NOT NULL DEFAULT 0,
			categories       TEXT,
			verified         BOOLEAN       NOT NULL DEFAULT FALSE,
			is_brand         BOOLEAN       NOT NULL DEFAULT FALSE,
			cluster          TEXT          NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_snapshots_date    ON snapshots(snapshot_date);
		CREATE INDEX IF NOT EXISTS idx_snapshots_account ON snapshots(account);
	`)
	return err
}

// Write replaces the stored table with rows inside one transaction.
func (ps *PostgresStore) Write(ctx context.Context, rows []*models.Snapshot) error {
	tx, err := ps.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM snapshots"); err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}

	const batchSize = 50
	for i := 0; i < len(rows); i += batchSize {
		end := i + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		query, args := buildInsert(rows[i:end])
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("postgres: insert batch at %d: %w", i, err)
		}
	}
	return tx.Commit()
}

func buildInsert(batch []*models.Snapshot) (string, []interface{}) {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*snapshotColumns)

	for idx, s := range batch {
		base := idx * snapshotColumns
		placeholders := make([]string, snapshotColumns)
		for c := range placeholders {
			placeholders[c] = fmt.Sprintf("$%d", base+c+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")

		var categories sql.NullString
		if s.HasCategories() {
			categories = sql.NullString{String: s.Categories, Valid: true}
		}
		valueArgs = append(valueArgs,
			s.Date, s.Account, s.FollowersMax, s.FollowersGrowth, s.EngagementRate,
			categories, s.Verified, s.IsBrand, s.Cluster)
	}

	query := `INSERT INTO snapshots (snapshot_date, account, followers_max, followers_growth,
		engagement_rate, categories, verified, is_brand, cluster) VALUES ` + strings.Join(valueStrings, ",")
	return query, valueArgs
}

// Load retrieves the stored table in insertion order as raw rows, so it
// goes through the same normalisation as file sources.
func (ps *PostgresStore) Load(ctx context.Context) ([]*models.RawSnapshot, error) {
	rows, err := ps.db.QueryContext(ctx, `
		SELECT snapshot_date, account, followers_max, followers_growth, engagement_rate,
		       categories, verified, is_brand, cluster
		FROM snapshots
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	var out []*models.RawSnapshot
	for n := 1; rows.Next(); n++ {
		var (
			date                  time.Time
			account, cluster      string
			followers, growth, er float64
			categories            sql.NullString
			verified, isBrand     bool
		)
		if err := rows.Scan(&date, &account, &followers, &growth, &er,
			&categories, &verified, &isBrand, &cluster); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}

		s := &models.Snapshot{
			Date:            date,
			Account:         account,
			FollowersMax:    followers,
			FollowersGrowth: growth,
			EngagementRate:  er,
			Categories:      categories.String,
			Verified:        verified,
			IsBrand:         isBrand,
			Cluster:         cluster,
		}
		raw := s.Raw()
		raw.Row = n
		out = append(out, raw)
	}
	return out, rows.Err()
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}
