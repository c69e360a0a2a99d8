package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/moti-registry/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStorage stores the register as an ordered table in SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	logger *slog.Logger
	dbPath string
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{
		db:     db,
		dbPath: dbPath,
		logger: slog.Default(),
	}, nil
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// Init brings the schema up to date.
func (s *SQLiteStorage) Init(ctx context.Context) error {
	_, err := s.Migrate(ctx)
	return err
}

// Read loads the full register in stored order.
func (s *SQLiteStorage) Read(ctx context.Context) (model.Table, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT ref_id, date_received, type, classification, sender, subject,
			assigned_to, status, date_completed, tat_days
		FROM correspondence
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query correspondence: %w", err)
	}
	defer func() { _ = rows.Close() }()

	table := model.Table{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		table = append(table, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating correspondence: %w", err)
	}

	return table, nil
}

// Write replaces the stored register with table in a single transaction.
func (s *SQLiteStorage) Write(ctx context.Context, table model.Table) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTable(table); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM correspondence`); err != nil {
		return fmt.Errorf("failed to clear correspondence: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO correspondence (
			position, ref_id, date_received, type, classification, sender,
			subject, assigned_to, status, date_completed, tat_days
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, rec := range table {
		var completed sql.NullString
		if rec.DateCompleted != nil {
			completed = sql.NullString{String: rec.DateCompleted.Format(model.DateLayout), Valid: true}
		}

		_, err = stmt.ExecContext(ctx,
			i+1,
			rec.RefID,
			rec.DateReceived.Format(model.DateLayout),
			string(rec.Type),
			string(rec.Classification),
			rec.Sender,
			rec.Subject,
			rec.AssignedTo,
			string(rec.Status),
			completed,
			rec.TATDays,
		)
		if err != nil {
			return fmt.Errorf("failed to insert %s: %w", rec.RefID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Debug("wrote register", "path", s.dbPath, "rows", len(table))
	return nil
}

func scanRecord(rows *sql.Rows) (model.Correspondence, error) {
	var (
		rec            model.Correspondence
		received       string
		typ            string
		classification string
		status         string
		completed      sql.NullString
	)

	err := rows.Scan(
		&rec.RefID,
		&received,
		&typ,
		&classification,
		&rec.Sender,
		&rec.Subject,
		&rec.AssignedTo,
		&status,
		&completed,
		&rec.TATDays,
	)
	if err != nil {
		return rec, fmt.Errorf("failed to scan correspondence: %w", err)
	}

	rec.DateReceived, err = model.ParseDate(received)
	if err != nil {
		return rec, fmt.Errorf("%s: date received: %w", rec.RefID, err)
	}
	if completed.Valid && completed.String != "" {
		d, err := model.ParseDate(completed.String)
		if err != nil {
			return rec, fmt.Errorf("%s: date completed: %w", rec.RefID, err)
		}
		rec.DateCompleted = &d
	}

	rec.Type = model.CorrespondenceType(typ)
	rec.Classification = model.Classification(classification)
	rec.Status = model.Status(status)

	return rec, nil
}
