package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"scalpSignals/internal/domain"
	"scalpSignals/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Repository implements ports.TradeRecordRepository and
// ports.SuggestionRepository using SQLite.
type Repository struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite repository.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewRepository creates a new SQLite repository instance.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite repository")
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/scalp_signals.db"
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		err = fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(dbPath), err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// WAL mode for better concurrency
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		err = fmt.Errorf("failed to open database at '%s': %w: %w", dbPath, ports.ErrDBConnection, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		err = fmt.Errorf("failed to ping database at '%s': %w: %w", dbPath, ports.ErrDBConnection, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// SQLite handles concurrency internally, but the Go driver benefits
	// from limiting connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cfg.Logger.Info(context.Background(), "SQLite database connection established", map[string]interface{}{"path": dbPath})

	repo := &Repository{db: db, logger: cfg.Logger}

	if err := repo.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize database schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	return repo, nil
}

// initializeSchema creates tables if they don't exist.
func (r *Repository) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS trade_records (
		id TEXT PRIMARY KEY,
		signal_id TEXT NOT NULL,
		pair TEXT NOT NULL,
		type TEXT NOT NULL,
		entry_price REAL NOT NULL,
		exit_price REAL NOT NULL,
		success INTEGER NOT NULL,
		recorded_at TIMESTAMP NOT NULL,
		time_elapsed_minutes INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS suggestions (
		id TEXT PRIMARY KEY,
		content TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_trade_records_recorded_at ON trade_records (recorded_at);
	CREATE INDEX IF NOT EXISTS idx_suggestions_status ON suggestions (status);
	`
	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to execute schema initialization: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	if r.db != nil {
		r.logger.Info(context.Background(), "Closing SQLite database connection")
		return r.db.Close()
	}
	return nil
}

// --- TradeRecordRepository Implementation ---

// CreateRecord appends a new trade record.
func (r *Repository) CreateRecord(ctx context.Context, rec *domain.TradeRecord) error {
	const query = `
	INSERT INTO trade_records (id, signal_id, pair, type, entry_price, exit_price, success, recorded_at, time_elapsed_minutes)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.SignalID, rec.Pair, string(rec.Type), rec.EntryPrice, rec.ExitPrice,
		boolToInt(rec.Success), rec.Timestamp, rec.TimeElapsedMinutes)
	if err != nil {
		return fmt.Errorf("failed to insert trade record %s: %w: %w", rec.ID, ports.ErrQueryFailed, err)
	}
	r.logger.Debug(ctx, "Trade record created", map[string]interface{}{"recordID": rec.ID, "pair": rec.Pair, "success": rec.Success})
	return nil
}

// FindRecent retrieves the most recent trade records, newest first.
func (r *Repository) FindRecent(ctx context.Context, limit int) ([]*domain.TradeRecord, error) {
	const query = `
	SELECT id, signal_id, pair, type, entry_price, exit_price, success, recorded_at, time_elapsed_minutes
	FROM trade_records
	ORDER BY recorded_at DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent trade records: %w: %w", ports.ErrQueryFailed, err)
	}
	defer rows.Close()

	records := make([]*domain.TradeRecord, 0)
	for rows.Next() {
		rec, err := scanTradeRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade record: %w", err)
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trade record rows: %w", err)
	}
	return records, nil
}

// CountOutcomes returns the number of recorded wins and the total count.
func (r *Repository) CountOutcomes(ctx context.Context) (int, int, error) {
	const query = `SELECT COALESCE(SUM(success), 0), COUNT(*) FROM trade_records`
	var wins, total int
	if err := r.db.QueryRowContext(ctx, query).Scan(&wins, &total); err != nil {
		return 0, 0, fmt.Errorf("failed to count trade outcomes: %w: %w", ports.ErrQueryFailed, err)
	}
	return wins, total, nil
}

// --- SuggestionRepository Implementation ---

// CreateSuggestion appends a new suggestion.
func (r *Repository) CreateSuggestion(ctx context.Context, s *domain.Suggestion) error {
	const query = `INSERT INTO suggestions (id, content, status, created_at) VALUES (?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, s.ID, s.Content, string(s.Status), s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert suggestion %s: %w: %w", s.ID, ports.ErrQueryFailed, err)
	}
	r.logger.Debug(ctx, "Suggestion created", map[string]interface{}{"suggestionID": s.ID})
	return nil
}

// FindByStatus retrieves suggestions with the given status, newest first.
func (r *Repository) FindByStatus(ctx context.Context, status domain.SuggestionStatus) ([]*domain.Suggestion, error) {
	const query = `
	SELECT id, content, status, created_at
	FROM suggestions
	WHERE status = ? ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to query suggestions by status %s: %w: %w", status, ports.ErrQueryFailed, err)
	}
	defer rows.Close()

	suggestions := make([]*domain.Suggestion, 0)
	for rows.Next() {
		s := &domain.Suggestion{}
		var st string
		if err := rows.Scan(&s.ID, &s.Content, &st, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan suggestion: %w", err)
		}
		s.Status = domain.SuggestionStatus(st)
		suggestions = append(suggestions, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating suggestion rows: %w", err)
	}
	return suggestions, nil
}

// --- Helper Scan Functions ---

// scanner defines an interface compatible with *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTradeRecord(s scanner) (*domain.TradeRecord, error) {
	rec := &domain.TradeRecord{}
	var tradeType string
	var success int
	err := s.Scan(
		&rec.ID, &rec.SignalID, &rec.Pair, &tradeType, &rec.EntryPrice, &rec.ExitPrice,
		&success, &rec.Timestamp, &rec.TimeElapsedMinutes)
	if err != nil {
		return nil, err
	}
	rec.Type = domain.SignalType(tradeType)
	rec.Success = success != 0
	return rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
