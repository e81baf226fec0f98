package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver
)

const (
	defaultQueryTimeout = 15 * time.Second
	defaultPingTimeout  = 5 * time.Second
)

// ErrNotReadOnly is returned when a statement does not start with a
// read-only verb. The rule prompt asks the model for single-scalar SELECTs,
// but nothing upstream enforces that, so the store rejects everything else
// before it reaches the database.
var ErrNotReadOnly = errors.New("statement is not a read-only query")

type Config struct {
	Logger *slog.Logger
	DB     *sql.DB
	// QueryTimeout bounds a single statement execution.
	QueryTimeout time.Duration
}

func (c *Config) Validate() error {
	if c.Logger == nil {
		return fmt.Errorf("logger is required")
	}
	if c.DB == nil {
		return fmt.Errorf("database is required")
	}
	if c.QueryTimeout == 0 {
		c.QueryTimeout = defaultQueryTimeout
	}
	return nil
}

// Store executes ad-hoc scalar queries against the video metrics database.
type Store struct {
	log *slog.Logger
	db  *sql.DB
	cfg Config
}

func New(cfg Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate store config: %w", err)
	}
	return &Store{
		log: cfg.Logger,
		db:  cfg.DB,
		cfg: cfg,
	}, nil
}

// Open connects to PostgreSQL through the pgx stdlib driver and verifies
// the connection.
func Open(ctx context.Context, databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// Scalar runs stmt as a single parameterless query and returns the first
// column of the first row as a number. No rows, or a NULL scalar, collapses
// to 0 without an error; database errors propagate to the caller. The
// connection is scoped to this call and released on every exit path.
func (s *Store) Scalar(ctx context.Context, stmt string) (float64, error) {
	if !isReadOnly(stmt) {
		return 0, fmt.Errorf("%w: %q", ErrNotReadOnly, firstToken(stmt))
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.QueryTimeout)
	defer cancel()

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get connection: %w", err)
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, stmt)
	if err != nil {
		return 0, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, fmt.Errorf("failed to read result: %w", err)
		}
		return 0, nil
	}

	columns, err := rows.Columns()
	if err != nil {
		return 0, fmt.Errorf("failed to get columns: %w", err)
	}

	// Only the first column carries the answer; extra columns are drained
	// without conversion.
	var value sql.NullFloat64
	dest := make([]any, len(columns))
	dest[0] = &value
	for i := 1; i < len(dest); i++ {
		dest[i] = new(sql.RawBytes)
	}
	if err := rows.Scan(dest...); err != nil {
		return 0, fmt.Errorf("failed to scan result: %w", err)
	}
	if !value.Valid {
		return 0, nil
	}
	return value.Float64, nil
}

func isReadOnly(stmt string) bool {
	switch strings.ToUpper(firstToken(stmt)) {
	case "SELECT", "WITH":
		return true
	}
	return false
}

func firstToken(stmt string) string {
	fields := strings.Fields(stmt)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
