package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Source identifies the surface an evaluation came from
type Source string

const (
	SourceCLI       Source = "cli"
	SourceTUI       Source = "tui"
	SourceGRPC      Source = "grpc"
	SourceWebSocket Source = "ws"
	SourceHTTP      Source = "http"
)

// Record is one evaluated expression
type Record struct {
	ID         string        `json:"id"`
	Timestamp  time.Time     `json:"timestamp"`
	Expression string        `json:"expression"`
	Value      float64       `json:"value"`
	Success    bool          `json:"success"`
	ErrorCode  string        `json:"error_code,omitempty"`
	Error      string        `json:"error,omitempty"`
	Source     Source        `json:"source"`
	RequestID  string        `json:"request_id,omitempty"`
	Duration   time.Duration `json:"duration"`
}

// Filter defines criteria for listing records
type Filter struct {
	Source       Source
	OnlyFailures bool
	Since        time.Time
	Limit        int
	Offset       int
}

// Stats summarizes the stored history
type Stats struct {
	Total    int64     `json:"total"`
	Failures int64     `json:"failures"`
	First    time.Time `json:"first,omitempty"`
	Last     time.Time `json:"last,omitempty"`
}

// HistoryStore defines the interface for evaluation history persistence
type HistoryStore interface {
	Record(ctx context.Context, record *Record) error
	List(ctx context.Context, filter Filter) ([]*Record, error)
	Get(ctx context.Context, id string) (*Record, error)
	Stats(ctx context.Context) (*Stats, error)
	Clear(ctx context.Context) (int64, error)
	Prune(ctx context.Context, keep int) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}

// ErrNotFound is returned by Get for unknown IDs
var ErrNotFound = errors.New("history record not found")

// SQLiteHistoryStore implements HistoryStore using SQLite
type SQLiteHistoryStore struct {
	db         *sql.DB
	mu         sync.RWMutex
	maxEntries int
}

// SQLiteConfig holds configuration for the SQLite store
type SQLiteConfig struct {
	Path       string
	MaxEntries int // 0 keeps everything
}

// DefaultConfig returns default configuration
func DefaultConfig() SQLiteConfig {
	return SQLiteConfig{
		Path:       "./data/history.db",
		MaxEntries: 1000,
	}
}

// NewSQLiteHistoryStore creates a new SQLite-based history store
func NewSQLiteHistoryStore(cfg SQLiteConfig) (*SQLiteHistoryStore, error) {
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteHistoryStore{db: db, maxEntries: cfg.MaxEntries}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the necessary tables
func (s *SQLiteHistoryStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS history (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		timestamp DATETIME NOT NULL,
		expression TEXT NOT NULL,
		value TEXT,
		success INTEGER NOT NULL,
		error_code TEXT,
		error TEXT,
		source TEXT NOT NULL,
		request_id TEXT,
		duration_us INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_history_timestamp ON history(timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_history_source ON history(source);
	`

	_, err := s.db.Exec(schema)
	return err
}

// formatValue keeps Inf and NaN intact, which a REAL column would not
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func parseValue(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// Record stores a new history record, assigning ID and timestamp when
// missing, and prunes beyond MaxEntries
func (s *SQLiteHistoryStore) Record(ctx context.Context, record *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}
	record.Timestamp = record.Timestamp.UTC()
	if record.Source == "" {
		record.Source = SourceCLI
	}

	var value sql.NullString
	if record.Success {
		value = sql.NullString{String: formatValue(record.Value), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO history (id, timestamp, expression, value, success, error_code, error, source, request_id, duration_us)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, record.ID, record.Timestamp, record.Expression, value, record.Success,
		record.ErrorCode, record.Error, string(record.Source), record.RequestID, record.Duration.Microseconds())
	if err != nil {
		return fmt.Errorf("failed to insert history record: %w", err)
	}

	if s.maxEntries > 0 {
		if _, err := s.prune(ctx, s.maxEntries); err != nil {
			return err
		}
	}

	return nil
}

// List retrieves records, newest first
func (s *SQLiteHistoryStore) List(ctx context.Context, filter Filter) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, timestamp, expression, value, success, error_code, error, source, request_id, duration_us
		FROM history WHERE 1=1`
	var args []interface{}

	if filter.Source != "" {
		query += " AND source = ?"
		args = append(args, string(filter.Source))
	}
	if filter.OnlyFailures {
		query += " AND success = 0"
	}
	if !filter.Since.IsZero() {
		query += " AND timestamp >= ?"
		args = append(args, filter.Since.UTC())
	}

	query += " ORDER BY seq DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	} else if filter.Offset > 0 {
		query += " LIMIT -1"
	}
	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row scanner) (*Record, error) {
	var record Record
	var value, errorCode, errText, requestID sql.NullString
	var source string
	var durationUS int64

	if err := row.Scan(&record.ID, &record.Timestamp, &record.Expression, &value, &record.Success,
		&errorCode, &errText, &source, &requestID, &durationUS); err != nil {
		return nil, fmt.Errorf("failed to scan history record: %w", err)
	}

	if value.Valid {
		record.Value = parseValue(value.String)
	}
	record.ErrorCode = errorCode.String
	record.Error = errText.String
	record.Source = Source(source)
	record.RequestID = requestID.String
	record.Duration = time.Duration(durationUS) * time.Microsecond

	return &record, nil
}

// Get retrieves a single record by ID
func (s *SQLiteHistoryStore) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `SELECT id, timestamp, expression, value, success, error_code, error, source, request_id, duration_us
		FROM history WHERE id = ?`, id)

	record, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return record, nil
}

// Stats returns aggregate counts over the history
func (s *SQLiteHistoryStore) Stats(ctx context.Context) (*Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats Stats
	var failures sql.NullInt64
	var first, last sql.NullString

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END), MIN(timestamp), MAX(timestamp)
		FROM history
	`).Scan(&stats.Total, &failures, &first, &last)
	if err != nil {
		return nil, fmt.Errorf("failed to query history stats: %w", err)
	}

	stats.Failures = failures.Int64
	stats.First = parseTimestamp(first)
	stats.Last = parseTimestamp(last)

	return &stats, nil
}

// sqlite timestamp layouts produced by go-sqlite3
var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
}

func parseTimestamp(s sql.NullString) time.Time {
	if !s.Valid {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s.String); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Clear removes every record and returns how many were removed
func (s *SQLiteHistoryStore) Clear(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `DELETE FROM history`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}
	return result.RowsAffected()
}

// Prune keeps the newest keep records
func (s *SQLiteHistoryStore) Prune(ctx context.Context, keep int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prune(ctx, keep)
}

func (s *SQLiteHistoryStore) prune(ctx context.Context, keep int) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM history WHERE seq NOT IN (
			SELECT seq FROM history ORDER BY seq DESC LIMIT ?
		)
	`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune history: %w", err)
	}
	return result.RowsAffected()
}

// Ping verifies the database connection
func (s *SQLiteHistoryStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection
func (s *SQLiteHistoryStore) Close() error {
	return s.db.Close()
}
