// Package store handles SQLite storage of transfer history.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/datamover/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// dateLayout is fixed width so stored dates sort as text.
const dateLayout = "2006-01-02T15:04:05.000000000Z07:00"

// MemoryDSN keeps history for the lifetime of the process only.
const MemoryDSN = ":memory:"

// Store wraps SQLite access for transfer history.
type Store struct {
	db *sql.DB
}

// Open opens the database at dsn and applies migrations. A file path has its
// directory created; MemoryDSN opens a private in-memory database.
func Open(dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("store dsn is empty")
	}
	if dsn != MemoryDSN {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS transfers (
			id INTEGER PRIMARY KEY,
			ref TEXT NOT NULL,
			date TEXT NOT NULL,
			source_device TEXT NOT NULL,
			destination_device TEXT NOT NULL,
			size_mb REAL NOT NULL,
			categories INTEGER NOT NULL,
			status TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_transfers_date ON transfers(date);`,
		`CREATE INDEX IF NOT EXISTS idx_transfers_status ON transfers(status);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertTransfer stores a finished transfer. An empty Ref becomes "txn_<id>".
func (s *Store) InsertTransfer(ctx context.Context, rec model.TransferRecord) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO transfers (ref, date, source_device, destination_device, size_mb, categories, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.Ref,
		rec.Date.UTC().Format(dateLayout),
		rec.SourceDevice,
		rec.DestinationDevice,
		rec.SizeMB,
		rec.Categories,
		string(rec.Status),
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if rec.Ref == "" {
		if _, err = tx.ExecContext(ctx, `UPDATE transfers SET ref = ? WHERE id = ?`, fmt.Sprintf("txn_%d", id), id); err != nil {
			return 0, err
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListTransfers returns history newest first.
func (s *Store) ListTransfers(ctx context.Context, filter model.HistoryFilter) ([]model.TransferRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, string(filter.Status))
	}
	query := fmt.Sprintf(`SELECT id, ref, date, source_device, destination_device, size_mb, categories, status
		FROM transfers
		WHERE %s
		ORDER BY date DESC, id DESC`, strings.Join(clauses, " AND "))
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.TransferRecord
	for rows.Next() {
		var rec model.TransferRecord
		var date, status string
		if err := rows.Scan(&rec.ID, &rec.Ref, &date, &rec.SourceDevice, &rec.DestinationDevice, &rec.SizeMB, &rec.Categories, &status); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(dateLayout, date)
		if err != nil {
			return nil, err
		}
		rec.Date = parsed
		rec.Status = model.Status(status)
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// CountTransfers returns the number of stored transfers.
func (s *Store) CountTransfers(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transfers`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
