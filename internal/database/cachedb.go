package database

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/sha3"
	_ "modernc.org/sqlite" // SQLite driver
)

// FileName is the name of the cache database inside its directory.
const FileName = "quivotequoi-cache.db"

// ErrNotFound is returned when the database file is required but missing.
var ErrNotFound = errors.New("cache database not found")

// CacheDB stores fetched responses.
type CacheDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures CacheDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a CacheDB in dbDir.
func Open(dbDir string, opts Options) (*CacheDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CacheDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Close closes the database connection.
func (cdb *CacheDB) Close() error {
	return cdb.db.Close()
}

// Path returns the database file path.
func (cdb *CacheDB) Path() string {
	return cdb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (cdb *CacheDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS responses (
		key TEXT PRIMARY KEY,
		url TEXT NOT NULL,
		status_code INTEGER NOT NULL,
		content_type TEXT,
		body BLOB,
		fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_responses_fetched ON responses(fetched_at);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// Response is a cached fetch result.
type Response struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
	FetchedAt   time.Time
}

// Key returns the cache key of an address.
func Key(url string) string {
	sum := sha3.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

// Put stores a response, replacing any previous one for the same address.
func (cdb *CacheDB) Put(ctx context.Context, resp *Response) error {
	query := `
	INSERT INTO responses (key, url, status_code, content_type, body)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET
		status_code = excluded.status_code,
		content_type = excluded.content_type,
		body = excluded.body,
		fetched_at = CURRENT_TIMESTAMP
	`

	_, err := cdb.db.ExecContext(ctx, query,
		Key(resp.URL),
		resp.URL,
		resp.StatusCode,
		resp.ContentType,
		resp.Body,
	)
	if err != nil {
		return fmt.Errorf("failed to store response: %w", err)
	}
	return nil
}

// Get returns the cached response for url, or nil when there is none.
func (cdb *CacheDB) Get(ctx context.Context, url string) (*Response, error) {
	query := `
	SELECT url, status_code, content_type, body, fetched_at
	FROM responses
	WHERE key = ?
	`

	var (
		resp        Response
		contentType sql.NullString
		timestamp   string
	)
	err := cdb.db.QueryRowContext(ctx, query, Key(url)).Scan(
		&resp.URL,
		&resp.StatusCode,
		&contentType,
		&resp.Body,
		&timestamp,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get response: %w", err)
	}
	resp.ContentType = contentType.String
	resp.FetchedAt = parseTimestamp(timestamp)
	return &resp, nil
}

// IsFresh reports whether url was fetched within ttl. A zero ttl means
// cached responses never expire.
func (cdb *CacheDB) IsFresh(ctx context.Context, url string, ttl time.Duration) (bool, error) {
	query := `SELECT COUNT(*) FROM responses WHERE key = ?`
	args := []any{Key(url)}
	if ttl > 0 {
		query += ` AND fetched_at > datetime('now', ?)`
		args = append(args, fmt.Sprintf("-%d seconds", int(ttl.Seconds())))
	}

	var count int
	if err := cdb.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check cached response: %w", err)
	}
	return count > 0, nil
}

// Purge deletes responses older than age and returns how many were removed.
func (cdb *CacheDB) Purge(ctx context.Context, age time.Duration) (int64, error) {
	result, err := cdb.db.ExecContext(ctx,
		`DELETE FROM responses WHERE fetched_at <= datetime('now', ?)`,
		fmt.Sprintf("-%d seconds", int(age.Seconds())),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to purge responses: %w", err)
	}
	return result.RowsAffected()
}

// Count returns the number of cached responses.
func (cdb *CacheDB) Count(ctx context.Context) (int, error) {
	var count int
	if err := cdb.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM responses`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count responses: %w", err)
	}
	return count, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp tries each known format and returns the zero time when
// none matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
