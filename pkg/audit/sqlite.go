package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// auditSchema contains the SQL statements to create the audit database schema.
const auditSchema = `
CREATE TABLE IF NOT EXISTS validation_audit (
    id TEXT PRIMARY KEY,
    time TIMESTAMP NOT NULL,
    username TEXT NOT NULL,
    roles TEXT NOT NULL,
    role_change BOOLEAN NOT NULL,
    policy_count INTEGER NOT NULL,
    constraint_count INTEGER NOT NULL,
    failed_constraints TEXT,
    valid BOOLEAN NOT NULL,
    forced BOOLEAN NOT NULL,
    duration_ns INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_time ON validation_audit(time);
CREATE INDEX IF NOT EXISTS idx_audit_username ON validation_audit(username);
`

// SQLiteStorage implements Storage using SQLite for durable audit records.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens (creating if needed) an audit database at dbPath.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}

	if _, err := db.Exec(auditSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create audit schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Save persists one record.
func (s *SQLiteStorage) Save(ctx context.Context, rec *Record) error {
	roles, err := json.Marshal(rec.Roles)
	if err != nil {
		return fmt.Errorf("failed to encode roles: %w", err)
	}
	failed, err := json.Marshal(rec.FailedConstraints)
	if err != nil {
		return fmt.Errorf("failed to encode failed constraints: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO validation_audit
		(id, time, username, roles, role_change, policy_count, constraint_count,
		 failed_constraints, valid, forced, duration_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Time.UTC(), rec.Username, string(roles), rec.RoleChange,
		rec.PolicyCount, rec.ConstraintCount, string(failed), rec.Valid,
		rec.Forced, rec.Duration.Nanoseconds())
	if err != nil {
		return fmt.Errorf("failed to insert audit record %q: %w", rec.ID, err)
	}
	return nil
}

// List returns up to limit records for username, newest first.
func (s *SQLiteStorage) List(ctx context.Context, username string, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, time, username, roles, role_change, policy_count,
		       constraint_count, failed_constraints, valid, forced, duration_ns
		FROM validation_audit`
	args := []any{}
	if username != "" {
		query += ` WHERE username = ?`
		args = append(args, username)
	}
	query += ` ORDER BY time DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit records: %w", err)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		rec := &Record{}
		var roles, failed string
		var durationNS int64
		if err := rows.Scan(&rec.ID, &rec.Time, &rec.Username, &roles,
			&rec.RoleChange, &rec.PolicyCount, &rec.ConstraintCount,
			&failed, &rec.Valid, &rec.Forced, &durationNS); err != nil {
			return nil, fmt.Errorf("failed to scan audit row: %w", err)
		}
		if err := json.Unmarshal([]byte(roles), &rec.Roles); err != nil {
			return nil, fmt.Errorf("audit record %q: corrupt roles column: %w", rec.ID, err)
		}
		if failed != "" {
			if err := json.Unmarshal([]byte(failed), &rec.FailedConstraints); err != nil {
				return nil, fmt.Errorf("audit record %q: corrupt failed constraints column: %w", rec.ID, err)
			}
		}
		rec.Duration = time.Duration(durationNS)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// DeleteOlderThan removes records older than the cutoff.
func (s *SQLiteStorage) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM validation_audit WHERE time < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete old audit records: %w", err)
	}
	return res.RowsAffected()
}

// Count returns the number of stored records.
func (s *SQLiteStorage) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM validation_audit`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count audit records: %w", err)
	}
	return count, nil
}

// DeleteOldest removes the n oldest records.
func (s *SQLiteStorage) DeleteOldest(ctx context.Context, n int64) (int64, error) {
	if n <= 0 {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM validation_audit WHERE id IN (
			SELECT id FROM validation_audit ORDER BY time ASC LIMIT ?
		)`, n)
	if err != nil {
		return 0, fmt.Errorf("failed to delete oldest audit records: %w", err)
	}
	return res.RowsAffected()
}

// Close releases database resources.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

var (
	_ Storage = (*SQLiteStorage)(nil)
	_ Storage = (*MemoryStorage)(nil)
)
