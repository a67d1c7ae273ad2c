// Package store persists products and the append-only session log in
// SQLite. It is the one concrete implementation of the repository
// interfaces the core consumes; the core itself never opens a database.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/jmorrow/coalens/internal/product"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS products (
	id                 TEXT PRIMARY KEY,
	name               TEXT NOT NULL,
	form_raw           TEXT,
	form_key           TEXT,
	total_thc_pct      REAL,
	total_terpenes_pct REAL,
	terpenes_json      TEXT NOT NULL,
	created_at         TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS session_log (
	id          TEXT PRIMARY KEY,
	at          TEXT NOT NULL,
	product_id  TEXT NOT NULL,
	actuals_json TEXT NOT NULL,
	notes       TEXT,
	FOREIGN KEY (product_id) REFERENCES products(id)
);
`

// #endregion schema

// #region store

// Store manages products and session history in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens a SQLite database and runs migrations.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// #endregion store

// #region products

// PutProduct inserts or replaces a product.
func (s *Store) PutProduct(p product.Product) error {
	terpJSON, err := json.Marshal(p.Terpenes)
	if err != nil {
		return fmt.Errorf("marshal terpenes: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO products (id, name, form_raw, form_key, total_thc_pct, total_terpenes_pct, terpenes_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   form_raw = excluded.form_raw,
		   form_key = excluded.form_key,
		   total_thc_pct = excluded.total_thc_pct,
		   total_terpenes_pct = excluded.total_terpenes_pct,
		   terpenes_json = excluded.terpenes_json,
		   created_at = excluded.created_at`,
		p.ID, p.Name, nullIfEmpty(p.FormRaw), nullIfEmpty(string(p.FormKey)),
		p.Metrics.TotalThcPct, p.Metrics.TotalTerpenesPct,
		string(terpJSON), p.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// Get retrieves a product by ID. The bool reports existence; a missing
// product is not an error.
func (s *Store) Get(id string) (product.Product, bool, error) {
	row := s.db.QueryRow(
		`SELECT id, name, form_raw, form_key, total_thc_pct, total_terpenes_pct, terpenes_json, created_at
		 FROM products WHERE id = ?`, id,
	)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return product.Product{}, false, nil
	}
	if err != nil {
		return product.Product{}, false, fmt.Errorf("get product %s: %w", id, err)
	}
	return p, true, nil
}

// ListProducts returns all products, newest first.
func (s *Store) ListProducts() ([]product.Product, error) {
	rows, err := s.db.Query(
		`SELECT id, name, form_raw, form_key, total_thc_pct, total_terpenes_pct, terpenes_json, created_at
		 FROM products ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []product.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ReplaceTerpenes swaps a product's terpene list wholesale. This is the
// one mutation the product record supports (manual correction).
func (s *Store) ReplaceTerpenes(id string, terpenes []product.Terpene) error {
	terpJSON, err := json.Marshal(terpenes)
	if err != nil {
		return fmt.Errorf("marshal terpenes: %w", err)
	}
	res, err := s.db.Exec(`UPDATE products SET terpenes_json = ? WHERE id = ?`, string(terpJSON), id)
	if err != nil {
		return fmt.Errorf("replace terpenes: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("replace terpenes: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("product %s not found", id)
	}
	return nil
}

// #endregion products

// #region sessions

// AppendSession appends one entry to the session log, minting an ID and
// timestamp when absent. The log is append-only; there is no update or
// delete path.
func (s *Store) AppendSession(entry product.SessionLogEntry) (product.SessionLogEntry, error) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.At.IsZero() {
		entry.At = time.Now().UTC()
	}
	actualsJSON, err := json.Marshal(entry.Actuals)
	if err != nil {
		return product.SessionLogEntry{}, fmt.Errorf("marshal actuals: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO session_log (id, at, product_id, actuals_json, notes) VALUES (?, ?, ?, ?, ?)`,
		entry.ID, entry.At.Format(time.RFC3339Nano), entry.ProductID, string(actualsJSON), nullIfEmpty(entry.Notes),
	)
	if err != nil {
		return product.SessionLogEntry{}, fmt.Errorf("append session: %w", err)
	}
	return entry, nil
}

// List returns the full session log in append order.
func (s *Store) List() ([]product.SessionLogEntry, error) {
	rows, err := s.db.Query(`SELECT id, at, product_id, actuals_json, notes FROM session_log ORDER BY at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []product.SessionLogEntry
	for rows.Next() {
		var entry product.SessionLogEntry
		var atStr, actualsJSON string
		var notes sql.NullString
		if err := rows.Scan(&entry.ID, &atStr, &entry.ProductID, &actualsJSON, &notes); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		entry.At, _ = time.Parse(time.RFC3339Nano, atStr)
		if err := json.Unmarshal([]byte(actualsJSON), &entry.Actuals); err != nil {
			return nil, fmt.Errorf("unmarshal actuals: %w", err)
		}
		if notes.Valid {
			entry.Notes = notes.String
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

// #endregion sessions

// #region helpers

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(r rowScanner) (product.Product, error) {
	var p product.Product
	var formRaw, formKey sql.NullString
	var thc, terpTotal sql.NullFloat64
	var terpJSON, createdStr string

	err := r.Scan(&p.ID, &p.Name, &formRaw, &formKey, &thc, &terpTotal, &terpJSON, &createdStr)
	if err != nil {
		return product.Product{}, err
	}
	if formRaw.Valid {
		p.FormRaw = formRaw.String
	}
	if formKey.Valid {
		p.FormKey = product.FormKey(formKey.String)
	}
	if thc.Valid {
		p.Metrics.TotalThcPct = product.FloatPtr(thc.Float64)
	}
	if terpTotal.Valid {
		p.Metrics.TotalTerpenesPct = product.FloatPtr(terpTotal.Float64)
	}
	if err := json.Unmarshal([]byte(terpJSON), &p.Terpenes); err != nil {
		return product.Product{}, fmt.Errorf("unmarshal terpenes: %w", err)
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	return p, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
