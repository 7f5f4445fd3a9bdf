package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RichardoC/venue-assistant/internal/models"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicateDate = errors.New("date already exists")
)

type Database struct {
	db *sqlx.DB
}

func New(driver, dsn string) (*Database, error) {
	schema, ok := schemas[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every connection to an in-memory sqlite database gets its own empty database.
	if driver == DriverSQLite && (dsn == ":memory:" || strings.Contains(dsn, "mode=memory")) {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Database{db: db}, nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

// GetSessionHistory returns every turn of a session, oldest first.
func (d *Database) GetSessionHistory(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	query := d.db.Rebind(`
        SELECT id, session_id, role, content, created_at
        FROM chat_messages
        WHERE session_id = ?
        ORDER BY created_at ASC, id ASC`)

	messages := make([]models.ChatMessage, 0)
	if err := d.db.SelectContext(ctx, &messages, query, sessionID); err != nil {
		return nil, fmt.Errorf("failed to load session history: %w", err)
	}
	return messages, nil
}

// SaveTurn writes the user row and then the assistant row of one turn in a
// single transaction, so either both rows exist or neither does.
func (d *Database) SaveTurn(ctx context.Context, user, assistant *models.ChatMessage) error {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := tx.Rebind(`
        INSERT INTO chat_messages (session_id, role, content, created_at)
        VALUES (?, ?, ?, ?)
        RETURNING id`)

	now := time.Now().UTC()
	for _, msg := range []*models.ChatMessage{user, assistant} {
		if msg.CreatedAt.IsZero() {
			msg.CreatedAt = now
		}
		if err := tx.QueryRowxContext(ctx, query, msg.SessionID, msg.Role, msg.Content, msg.CreatedAt).Scan(&msg.ID); err != nil {
			return fmt.Errorf("failed to save %s message: %w", msg.Role, err)
		}
	}

	return tx.Commit()
}

func (d *Database) CreateAvailableDate(ctx context.Context, day time.Time) (*models.AvailableDate, error) {
	query := d.db.Rebind(`
        INSERT INTO available_dates (date)
        VALUES (?)
        RETURNING id`)

	date := &models.AvailableDate{Date: truncateDay(day)}
	err := d.db.QueryRowxContext(ctx, query, date.Day()).Scan(&date.ID)
	if isUniqueViolation(err) {
		return nil, ErrDuplicateDate
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create available date: %w", err)
	}
	return date, nil
}

// FindAvailableDate looks up an exact calendar-day match.
func (d *Database) FindAvailableDate(ctx context.Context, day time.Time) (*models.AvailableDate, error) {
	query := d.db.Rebind(`SELECT id, date FROM available_dates WHERE date = ?`)

	var date models.AvailableDate
	err := d.db.GetContext(ctx, &date, query, truncateDay(day).Format(models.DateLayout))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find available date: %w", err)
	}
	return &date, nil
}

func (d *Database) ListAvailableDates(ctx context.Context) ([]models.AvailableDate, error) {
	dates := make([]models.AvailableDate, 0)
	if err := d.db.SelectContext(ctx, &dates, `SELECT id, date FROM available_dates ORDER BY date ASC`); err != nil {
		return nil, fmt.Errorf("failed to list available dates: %w", err)
	}
	return dates, nil
}

func (d *Database) DeleteAvailableDate(ctx context.Context, id int64) error {
	result, err := d.db.ExecContext(ctx, d.db.Rebind(`DELETE FROM available_dates WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete available date: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete available date: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
