// Package storage persists review records.
//
// Every Store call reads the persisted collection, applies one change and
// writes it back; nothing is cached between calls. Data-shape problems in the
// persisted state never surface as errors: a store that cannot make sense of
// what it reads behaves as if nothing were saved. Only failures of the medium
// itself to accept a write are returned.
//
// Concurrent writers in separate processes are last-writer-wins.
package storage

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/conorfennell/zeal/internal/domain"
)

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// DefaultSlotName is the storage slot the original web app used.
const DefaultSlotName = "zeal-russian-saved"

const defaultInitialEase = 2.5

// ErrUnknownBackend is returned by Open for an unrecognized backend name.
var ErrUnknownBackend = errors.New("storage: unknown backend")

// Store is a keyed, insertion-ordered collection of review records.
type Store interface {
	// ListAll returns every record in insertion order. Unreadable state
	// yields an empty result.
	ListAll() []domain.ReviewRecord

	Exists(itemID string) bool

	// Add creates a fresh record due at now. It does nothing if itemID is
	// already present.
	Add(itemID string, now time.Time) error

	// Remove deletes itemID if present.
	Remove(itemID string) error

	// DueAsOf returns the records with NextReview <= now, in ListAll order.
	DueAsOf(now time.Time) []domain.ReviewRecord

	// Apply replaces the stored record for itemID. It does nothing if
	// itemID is absent.
	Apply(itemID string, rec domain.ReviewRecord) error

	io.Closer
}

// Options configures a Store.
type Options struct {
	InitialEase float64      // ease of records created by Add; zero means 2.5
	Logger      *slog.Logger // nil means slog.Default()
}

func (o Options) initialEase() float64 {
	if o.InitialEase == 0 {
		return defaultInitialEase
	}
	return o.InitialEase
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// Open returns a Store for the named backend. location is the database path
// for sqlite and the JSON file path for file; memory ignores it.
func Open(backend, location string, opts Options) (Store, error) {
	switch backend {
	case BackendSQLite:
		s, err := OpenSQLite(location, opts)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendFile:
		return NewSlotStore(NewFileSlot(location), opts), nil
	case BackendMemory:
		return NewSlotStore(NewMemorySlot(nil), opts), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
}

func filterDue(recs []domain.ReviewRecord, now time.Time) []domain.ReviewRecord {
	var due []domain.ReviewRecord
	for _, r := range recs {
		if r.IsDue(now) {
			due = append(due, r)
		}
	}
	return due
}
