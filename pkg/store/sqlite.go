package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"mercator-hq/vesta/pkg/credential"
)

// schema contains the SQL statements to create the policy database schema.
const schema = `
CREATE TABLE IF NOT EXISTS policies (
    id TEXT PRIMARY KEY,
    label TEXT NOT NULL,
    constraints TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS policy_roles (
    policy_id TEXT NOT NULL REFERENCES policies(id) ON DELETE CASCADE,
    role_id TEXT NOT NULL,
    PRIMARY KEY (policy_id, role_id)
);

CREATE INDEX IF NOT EXISTS idx_policy_roles_role ON policy_roles(role_id);
`

// SQLite implements credential.Store using SQLite for persistence. The
// backend uses a write-ahead log for better concurrent read performance,
// which matches the engine's read-mostly access pattern.
type SQLite struct {
	db *sql.DB

	findStmt  *sql.Stmt
	rolesStmt *sql.Stmt
}

// SQLiteConfig configures the SQLite store.
type SQLiteConfig struct {
	// DBPath is the path to the SQLite database file.
	DBPath string

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// NewSQLite opens (creating if needed) a SQLite policy store at dbPath with
// default settings.
func NewSQLite(dbPath string) (*SQLite, error) {
	return NewSQLiteWithConfig(SQLiteConfig{DBPath: dbPath})
}

// NewSQLiteWithConfig opens a SQLite policy store with custom configuration.
func NewSQLiteWithConfig(cfg SQLiteConfig) (*SQLite, error) {
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL&_foreign_keys=on",
		cfg.DBPath, int(cfg.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) prepareStatements() error {
	var err error

	s.findStmt, err = s.db.Prepare(`
		SELECT p.id, p.label, p.constraints
		FROM policies p
		JOIN policy_roles r ON r.policy_id = p.id
		WHERE r.role_id = ?
		ORDER BY p.rowid`)
	if err != nil {
		return fmt.Errorf("failed to prepare find statement: %w", err)
	}

	s.rolesStmt, err = s.db.Prepare(`
		SELECT role_id FROM policy_roles WHERE policy_id = ? ORDER BY rowid`)
	if err != nil {
		return fmt.Errorf("failed to prepare roles statement: %w", err)
	}

	return nil
}

// FindByRole returns all policies whose role membership includes roleID,
// ordered by insertion.
func (s *SQLite) FindByRole(ctx context.Context, roleID credential.RoleID) ([]credential.Policy, error) {
	rows, err := s.findStmt.QueryContext(ctx, string(roleID))
	if err != nil {
		return nil, fmt.Errorf("failed to query policies for role %q: %w", roleID, err)
	}
	defer rows.Close()

	var out []credential.Policy
	for rows.Next() {
		var p credential.Policy
		var constraintsJSON string
		if err := rows.Scan(&p.ID, &p.Label, &constraintsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan policy row: %w", err)
		}
		if err := json.Unmarshal([]byte(constraintsJSON), &p.Constraints); err != nil {
			return nil, fmt.Errorf("policy %q: corrupt constraints column: %w", p.ID, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate policy rows: %w", err)
	}

	for i := range out {
		roles, err := s.loadRoles(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Roles = roles
	}
	return out, nil
}

func (s *SQLite) loadRoles(ctx context.Context, policyID string) ([]credential.RoleID, error) {
	rows, err := s.rolesStmt.QueryContext(ctx, policyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query roles for policy %q: %w", policyID, err)
	}
	defer rows.Close()

	var roles []credential.RoleID
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, fmt.Errorf("failed to scan role row: %w", err)
		}
		roles = append(roles, credential.RoleID(role))
	}
	return roles, rows.Err()
}

// Put inserts or replaces a policy and its role memberships atomically.
func (s *SQLite) Put(ctx context.Context, p credential.Policy) error {
	if p.ID == "" {
		return fmt.Errorf("policy id cannot be empty")
	}

	constraintsJSON, err := json.Marshal(p.Constraints)
	if err != nil {
		return fmt.Errorf("failed to encode constraints: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO policies (id, label, constraints) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET label = excluded.label, constraints = excluded.constraints`,
		p.ID, p.Label, string(constraintsJSON)); err != nil {
		return fmt.Errorf("failed to upsert policy %q: %w", p.ID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM policy_roles WHERE policy_id = ?`, p.ID); err != nil {
		return fmt.Errorf("failed to clear roles for policy %q: %w", p.ID, err)
	}
	for _, role := range p.Roles {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO policy_roles (policy_id, role_id) VALUES (?, ?)`,
			p.ID, string(role)); err != nil {
			return fmt.Errorf("failed to insert role %q for policy %q: %w", role, p.ID, err)
		}
	}

	return tx.Commit()
}

// Delete removes a policy and its role memberships. Role rows are deleted
// explicitly rather than relying on the foreign-key cascade, which needs a
// pragma not every connection has enabled.
func (s *SQLite) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM policy_roles WHERE policy_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete roles for policy %q: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM policies WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete policy %q: %w", id, err)
	}
	return tx.Commit()
}

// List returns all policies in insertion order.
func (s *SQLite) List(ctx context.Context) ([]credential.Policy, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, label, constraints FROM policies ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to list policies: %w", err)
	}
	defer rows.Close()

	var out []credential.Policy
	for rows.Next() {
		var p credential.Policy
		var constraintsJSON string
		if err := rows.Scan(&p.ID, &p.Label, &constraintsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan policy row: %w", err)
		}
		if err := json.Unmarshal([]byte(constraintsJSON), &p.Constraints); err != nil {
			return nil, fmt.Errorf("policy %q: corrupt constraints column: %w", p.ID, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		roles, err := s.loadRoles(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Roles = roles
	}
	return out, nil
}

// Close releases database resources.
func (s *SQLite) Close() error {
	if s.findStmt != nil {
		s.findStmt.Close()
	}
	if s.rolesStmt != nil {
		s.rolesStmt.Close()
	}
	return s.db.Close()
}
