// SPDX-License-Identifier: MIT

// Package store persists inversion results.
//
// Two backends implement Store: SQLite (modernc.org/sqlite, a single file,
// model values as a little-endian float64 BLOB) and BadgerDB (a directory or
// in-memory, JSON values). Open picks one from a location string.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/katalvlaran/geoinv/inversion"
	"github.com/katalvlaran/geoinv/survey"
)

var (
	// ErrNotFound: no record with the requested id.
	ErrNotFound = errors.New("store: record not found")

	// ErrUnknownBackend: the location names no supported backend.
	ErrUnknownBackend = errors.New("store: unknown backend")

	// ErrNilResult: a record must carry a result.
	ErrNilResult = errors.New("store: nil result")
)

// Record is one stored inversion.
type Record struct {
	ID        uuid.UUID        `json:"id"`
	Name      string           `json:"name"`
	CreatedAt time.Time        `json:"created_at"`
	Result    inversion.Result `json:"result"`
}

// NewRecord wraps res under a fresh random id.
func NewRecord(name string, res *inversion.Result) (*Record, error) {
	if res == nil {
		return nil, ErrNilResult
	}

	return &Record{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
		Result:    *res,
	}, nil
}

// Summary is the listing view of a Record.
type Summary struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	CreatedAt  time.Time       `json:"created_at"`
	Quantity   survey.Quantity `json:"quantity"`
	State      inversion.State `json:"state"`
	Iterations int             `json:"iterations"`
	FinalRMS   float64         `json:"final_rms"`
	RMSError   float64         `json:"rms_error"`
	Nx         int             `json:"nx"`
	Nz         int             `json:"nz"`
}

// Summarize returns the listing view of r.
func (r *Record) Summarize() Summary {
	return Summary{
		ID:         r.ID,
		Name:       r.Name,
		CreatedAt:  r.CreatedAt,
		Quantity:   r.Result.Quantity,
		State:      r.Result.State,
		Iterations: r.Result.Iterations,
		FinalRMS:   r.Result.FinalRMS,
		RMSError:   r.Result.Quality.RMSError,
		Nx:         r.Result.Model.Nx,
		Nz:         r.Result.Model.Nz,
	}
}

// Store is a result repository. Implementations are safe for concurrent use.
type Store interface {
	// Save inserts or replaces rec.
	Save(ctx context.Context, rec *Record) error
	// Load returns the record with id or ErrNotFound.
	Load(ctx context.Context, id uuid.UUID) (*Record, error)
	// List returns all summaries, newest first.
	List(ctx context.Context) ([]Summary, error)
	// Delete removes the record with id or returns ErrNotFound.
	Delete(ctx context.Context, id uuid.UUID) error
	Close() error
}

// Open returns the backend named by location:
//
//	sqlite:<file>     SQLite database file
//	badger:<dir>      BadgerDB directory
//	memory            in-memory BadgerDB
//
// A location without a scheme ending in ".db" or ".sqlite" opens SQLite.
func Open(location string, logger *slog.Logger) (Store, error) {
	switch scheme, path, _ := strings.Cut(location, ":"); {
	case location == "memory":
		return OpenBadger(BadgerConfig{InMemory: true, Logger: logger})
	case scheme == "sqlite":
		return OpenSQLite(path)
	case scheme == "badger":
		return OpenBadger(BadgerConfig{Path: path, SyncWrites: true, Logger: logger})
	case strings.HasSuffix(location, ".db"), strings.HasSuffix(location, ".sqlite"):
		return OpenSQLite(location)
	default:
		return nil, fmt.Errorf("Open(%q): %w", location, ErrUnknownBackend)
	}
}
