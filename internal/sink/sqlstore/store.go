// Package sqlstore appends batch tallies to a MySQL or PostgreSQL table.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/alexanderjulianmartinez/csvwatch/internal/sink"
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type Store struct {
	db      *sql.DB
	driver  string
	table   string
	timeout time.Duration
	log     *slog.Logger
}

// Open connects with driver "mysql" or "pgx" and creates the table if it
// does not exist yet.
func Open(driver, dsn, table string, log *slog.Logger) (*Store, error) {
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	if _, err := createStatement(driver, table); err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s ping failed: %w", driver, err)
	}

	s := &Store{
		db:      db,
		driver:  driver,
		table:   table,
		timeout: 5 * time.Second,
		log:     log,
	}
	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Name() string {
	return s.driver
}

func (s *Store) ensureSchema(ctx context.Context) error {
	stmt, err := createStatement(s.driver, s.table)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("create table %s: %w", s.table, err)
	}
	return nil
}

// Record inserts one row per entry inside a single transaction.
func (s *Store) Record(ctx context.Context, run sink.Run) error {
	if len(run.Entries) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	stmt, err := insertStatement(s.driver, s.table)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range run.Entries {
		if _, err := tx.ExecContext(ctx, stmt, run.ID, run.StartedAt, e.Label, e.Rows, e.Columns); err != nil {
			return fmt.Errorf("insert %s: %w", e.Label, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	if s.log != nil {
		s.log.Info("run recorded", "sink", s.Name(), "run_id", run.ID, "entries", len(run.Entries))
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func createStatement(driver, table string) (string, error) {
	switch driver {
	case "mysql":
		return fmt.Sprintf("CREATE TABLE IF NOT EXISTS `%s` ("+
			"run_id VARCHAR(36) NOT NULL, "+
			"started_at DATETIME(6) NOT NULL, "+
			"label VARCHAR(255) NOT NULL, "+
			"row_count BIGINT NOT NULL, "+
			"column_count INT NOT NULL, "+
			"PRIMARY KEY (run_id, label))", table), nil
	case "pgx":
		return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS "%s" (`+
			`run_id UUID NOT NULL, `+
			`started_at TIMESTAMPTZ NOT NULL, `+
			`label TEXT NOT NULL, `+
			`row_count BIGINT NOT NULL, `+
			`column_count INTEGER NOT NULL, `+
			`PRIMARY KEY (run_id, label))`, table), nil
	default:
		return "", fmt.Errorf("unsupported driver %q", driver)
	}
}

func insertStatement(driver, table string) (string, error) {
	switch driver {
	case "mysql":
		return fmt.Sprintf("INSERT INTO `%s` (run_id, started_at, label, row_count, column_count) VALUES (?, ?, ?, ?, ?)", table), nil
	case "pgx":
		return fmt.Sprintf(`INSERT INTO "%s" (run_id, started_at, label, row_count, column_count) VALUES ($1, $2, $3, $4, $5)`, table), nil
	default:
		return "", fmt.Errorf("unsupported driver %q", driver)
	}
}
