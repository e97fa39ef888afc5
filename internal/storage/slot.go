package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/conorfennell/zeal/internal/domain"
)

// Slot is a single named storage cell holding the whole record collection.
// A Slot that holds resources may also implement io.Closer; SlotStore.Close
// closes it.
type Slot interface {
	// Read returns the stored bytes, or nil if the slot has never been written.
	Read() ([]byte, error)
	Write(data []byte) error
}

// MemorySlot keeps the slot contents in memory.
type MemorySlot struct {
	mu   sync.Mutex
	data []byte
}

// NewMemorySlot returns a slot holding a copy of data.
func NewMemorySlot(data []byte) *MemorySlot {
	return &MemorySlot{data: bytes.Clone(data)}
}

func (m *MemorySlot) Read() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return bytes.Clone(m.data), nil
}

func (m *MemorySlot) Write(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = bytes.Clone(data)
	return nil
}

// FileSlot stores the slot as a JSON file. Writes replace the file atomically.
type FileSlot struct {
	path string
}

func NewFileSlot(path string) *FileSlot {
	return &FileSlot{path: path}
}

func (f *FileSlot) Read() ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read slot file %s: %w", f.path, err)
	}
	return data, nil
}

func (f *FileSlot) Write(data []byte) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("failed to replace slot file %s: %w", f.path, err)
	}
	return nil
}

// SlotStore keeps the record collection as a JSON array in a Slot.
type SlotStore struct {
	slot        Slot
	initialEase float64
	logger      *slog.Logger
}

// NewSlotStore returns a Store backed by slot.
func NewSlotStore(slot Slot, opts Options) *SlotStore {
	return &SlotStore{
		slot:        slot,
		initialEase: opts.initialEase(),
		logger:      opts.logger(),
	}
}

// load reads the collection. Corrupt or unreadable data reads as empty.
// Duplicate ids keep their first occurrence.
func (s *SlotStore) load() []domain.ReviewRecord {
	data, err := s.slot.Read()
	if err != nil {
		s.logger.Warn("Failed to read records, treating as empty", "error", err)
		return nil
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	var recs []domain.ReviewRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		s.logger.Warn("Corrupt record data, treating as empty", "error", err)
		return nil
	}

	seen := make(map[string]bool, len(recs))
	out := recs[:0]
	for _, r := range recs {
		if seen[r.ItemID] {
			continue
		}
		seen[r.ItemID] = true
		out = append(out, r)
	}
	return out
}

func (s *SlotStore) save(recs []domain.ReviewRecord) error {
	if recs == nil {
		recs = []domain.ReviewRecord{}
	}
	data, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	if err := s.slot.Write(data); err != nil {
		return fmt.Errorf("failed to write records: %w", err)
	}
	return nil
}

func indexOf(recs []domain.ReviewRecord, itemID string) int {
	for i, r := range recs {
		if r.ItemID == itemID {
			return i
		}
	}
	return -1
}

func (s *SlotStore) ListAll() []domain.ReviewRecord {
	return s.load()
}

func (s *SlotStore) Exists(itemID string) bool {
	return indexOf(s.load(), itemID) >= 0
}

func (s *SlotStore) Add(itemID string, now time.Time) error {
	recs := s.load()
	if indexOf(recs, itemID) >= 0 {
		return nil
	}
	return s.save(append(recs, domain.NewRecord(itemID, now, s.initialEase)))
}

func (s *SlotStore) Remove(itemID string) error {
	recs := s.load()
	i := indexOf(recs, itemID)
	if i < 0 {
		return nil
	}
	return s.save(append(recs[:i], recs[i+1:]...))
}

func (s *SlotStore) DueAsOf(now time.Time) []domain.ReviewRecord {
	return filterDue(s.load(), now)
}

func (s *SlotStore) Apply(itemID string, rec domain.ReviewRecord) error {
	recs := s.load()
	i := indexOf(recs, itemID)
	if i < 0 {
		return nil
	}
	rec.ItemID = itemID
	rec.SavedAt = recs[i].SavedAt
	recs[i] = rec
	return s.save(recs)
}

// Close closes the underlying slot when it implements io.Closer. MemorySlot
// and FileSlot hold nothing open, so for them Close is a no-op.
func (s *SlotStore) Close() error {
	if c, ok := s.slot.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
