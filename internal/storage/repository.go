// Package storage persists per-user display preferences.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"ledgerdash/internal/core"
	"ledgerdash/internal/currency"
	"ledgerdash/internal/log"
)

// ErrMissingUser is returned when a preference is saved without a user.
var ErrMissingUser = errors.New("preference user is required")

// SQLiteRepository stores display preferences in SQLite.
type SQLiteRepository struct {
	db    *sql.DB
	table *currency.Table
}

// NewSQLiteRepository opens dbPath, creating its directory, and migrates it.
// Stored codes are validated against table.
func NewSQLiteRepository(dbPath string, table *currency.Table) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	if table == nil {
		table = currency.Default()
	}
	return &SQLiteRepository{db: db, table: table}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks the database connection.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// DisplayCurrency implements currency.Preferences. A user without a stored
// preference yields an empty code and no error.
func (r *SQLiteRepository) DisplayCurrency(ctx context.Context, user core.UserID) (currency.Code, error) {
	var code string
	err := r.db.QueryRowContext(ctx,
		`SELECT display_currency FROM user_preferences WHERE user_id = ?`, string(user)).Scan(&code)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get display currency: %w", err)
	}

	parsed, err := r.table.ParseCode(code)
	if err != nil {
		// A code dropped from the table since it was stored
		log.FromContext(ctx).WithComponent(log.ComponentStorage).WarnContext(ctx, "Ignoring stored display currency",
			log.FieldViewer, user,
			log.FieldCurrency, code)
		return "", nil
	}
	return parsed, nil
}

// SetDisplayCurrency implements currency.Preferences.
func (r *SQLiteRepository) SetDisplayCurrency(ctx context.Context, user core.UserID, code currency.Code) error {
	if user == "" {
		return ErrMissingUser
	}
	if _, err := r.table.Lookup(code); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_preferences (user_id, display_currency, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(user_id) DO UPDATE SET
			display_currency = excluded.display_currency,
			updated_at = CURRENT_TIMESTAMP`,
		string(user), string(code))
	if err != nil {
		return fmt.Errorf("set display currency: %w", err)
	}

	log.FromContext(ctx).WithComponent(log.ComponentStorage).DebugContext(ctx, "Display currency saved",
		log.FieldViewer, user,
		log.FieldCurrency, code)
	return nil
}

// MemoryPreferences is an in-process currency.Preferences.
type MemoryPreferences struct {
	mu    sync.RWMutex
	table *currency.Table
	codes map[core.UserID]currency.Code
}

// NewMemoryPreferences creates an empty store validating against table.
func NewMemoryPreferences(table *currency.Table) *MemoryPreferences {
	if table == nil {
		table = currency.Default()
	}
	return &MemoryPreferences{table: table, codes: make(map[core.UserID]currency.Code)}
}

func (m *MemoryPreferences) DisplayCurrency(_ context.Context, user core.UserID) (currency.Code, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.codes[user], nil
}

func (m *MemoryPreferences) SetDisplayCurrency(_ context.Context, user core.UserID, code currency.Code) error {
	if user == "" {
		return ErrMissingUser
	}
	if _, err := m.table.Lookup(code); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[user] = code
	return nil
}

var (
	_ currency.Preferences = (*SQLiteRepository)(nil)
	_ currency.Preferences = (*MemoryPreferences)(nil)
)
