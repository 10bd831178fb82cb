// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/katalvlaran/geoinv/inversion"
	"github.com/katalvlaran/geoinv/survey"
)

const schema = `
CREATE TABLE IF NOT EXISTS models (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	created_at  TEXT NOT NULL,
	quantity    TEXT NOT NULL,
	state       TEXT NOT NULL,
	iterations  INTEGER NOT NULL,
	final_rms   REAL NOT NULL,
	rms_error   REAL NOT NULL,
	nx          INTEGER NOT NULL,
	nz          INTEGER NOT NULL,
	model_values BLOB NOT NULL,
	detail_json TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS models_created ON models (created_at);
`

// SQLite stores records in a single database file. Listing columns are
// kept in plain columns; the rest of the result travels as JSON.
type SQLite struct {
	db *sql.DB
}

var _ Store = (*SQLite)(nil)

// OpenSQLite opens (or creates) the database at path and migrates it.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Save inserts or replaces rec.
func (s *SQLite) Save(ctx context.Context, rec *Record) error {
	if rec == nil {
		return ErrNilResult
	}
	res := rec.Result
	values := res.Model.Values
	res.Model.Values = nil
	detail, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO models (id, name, created_at, quantity, state, iterations, final_rms, rms_error, nx, nz, model_values, detail_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, created_at = excluded.created_at, quantity = excluded.quantity,
			state = excluded.state, iterations = excluded.iterations, final_rms = excluded.final_rms,
			rms_error = excluded.rms_error, nx = excluded.nx, nz = excluded.nz,
			model_values = excluded.model_values, detail_json = excluded.detail_json`,
		rec.ID.String(), rec.Name, rec.CreatedAt.UTC().Format(time.RFC3339Nano),
		string(res.Quantity), res.State.String(), res.Iterations, res.FinalRMS, res.Quality.RMSError,
		res.Model.Nx, res.Model.Nz, encodeValues(values), string(detail),
	)
	if err != nil {
		return fmt.Errorf("insert model %s: %w", rec.ID, err)
	}

	return nil
}

// Load returns the record with id.
func (s *SQLite) Load(ctx context.Context, id uuid.UUID) (*Record, error) {
	var (
		rec        Record
		idStr      string
		createdStr string
		blob       []byte
		detail     string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, model_values, detail_json FROM models WHERE id = ?`, id.String(),
	).Scan(&idStr, &rec.Name, &createdStr, &blob, &detail)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", id, err)
	}

	if rec.ID, err = uuid.Parse(idStr); err != nil {
		return nil, fmt.Errorf("load %s: %w", id, err)
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	if err = json.Unmarshal([]byte(detail), &rec.Result); err != nil {
		return nil, fmt.Errorf("unmarshal result: %w", err)
	}
	rec.Result.Model.Values = decodeValues(blob)

	return &rec, nil
}

// List returns all summaries, newest first.
func (s *SQLite) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, created_at, quantity, state, iterations, final_rms, rms_error, nx, nz
		 FROM models ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			sum        Summary
			idStr      string
			createdStr string
			quantity   string
			state      string
		)
		if err := rows.Scan(&idStr, &sum.Name, &createdStr, &quantity, &state,
			&sum.Iterations, &sum.FinalRMS, &sum.RMSError, &sum.Nx, &sum.Nz); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if sum.ID, err = uuid.Parse(idStr); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		sum.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		sum.Quantity = survey.Quantity(quantity)
		if err := sum.State.UnmarshalText([]byte(state)); err != nil {
			sum.State = inversion.StateFailed
		}
		out = append(out, sum)
	}

	return out, rows.Err()
}

// Delete removes the record with id.
func (s *SQLite) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM models WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}

	return nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func encodeValues(v []float64) []byte {
	buf := make([]byte, 8*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(f))
	}

	return buf
}

func decodeValues(b []byte) []float64 {
	v := make([]float64, len(b)/8)
	for i := range v {
		v[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[i*8:]))
	}

	return v
}
