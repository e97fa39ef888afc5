package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotStoreCorruptData(t *testing.T) {
	testCases := []struct {
		name string
		data string
	}{
		{name: "not json", data: "{{{"},
		{name: "object instead of array", data: `{"itemId":"a"}`},
		{name: "wrong field types", data: `[{"itemId":"a","interval":"soon"}]`},
		{name: "truncated", data: `[{"itemId":"a","savedAt":1`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewSlotStore(NewMemorySlot([]byte(tc.data)), Options{})

			assert.Empty(t, s.ListAll())
			assert.Empty(t, s.DueAsOf(t0))
			assert.False(t, s.Exists("a"))

			// Saving over corrupt state starts a fresh collection.
			require.NoError(t, s.Add("b", t0))
			assert.Equal(t, []string{"b"}, ids(s.ListAll()))
		})
	}
}

func TestSlotStoreLegacyFormat(t *testing.T) {
	legacy := `[
		{"wordId":"privet","savedAt":1000,"nextReview":2000,"interval":6,"easeFactor":2.7,"repetitions":2},
		{"wordId":"poka","savedAt":1500,"nextReview":1500,"interval":0,"easeFactor":2.5,"repetitions":0}
	]`
	s := NewSlotStore(NewMemorySlot([]byte(legacy)), Options{})

	recs := s.ListAll()
	require.Len(t, recs, 2)
	assert.Equal(t, "privet", recs[0].ItemID)
	assert.Equal(t, 6, recs[0].Interval)
	assert.InDelta(t, 2.7, recs[0].EaseFactor, 1e-9)
	assert.True(t, s.Exists("poka"))
}

func TestSlotStoreDuplicatesKeepFirst(t *testing.T) {
	data := `[
		{"itemId":"a","savedAt":1,"nextReview":1,"interval":0,"easeFactor":2.5,"repetitions":0},
		{"itemId":"a","savedAt":9,"nextReview":9,"interval":6,"easeFactor":2.7,"repetitions":2}
	]`
	s := NewSlotStore(NewMemorySlot([]byte(data)), Options{})

	recs := s.ListAll()
	require.Len(t, recs, 1)
	assert.Equal(t, int64(1), recs[0].SavedAt)
}

func TestFileSlot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "saved.json")
	slot := NewFileSlot(path)

	data, err := slot.Read()
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, slot.Write([]byte(`[]`)))
	data, err = slot.Read()
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files should not be left behind")
}

func TestSlotStoreWritesPlainArray(t *testing.T) {
	slot := NewMemorySlot(nil)
	s := NewSlotStore(slot, Options{})
	require.NoError(t, s.Add("a", t0))
	require.NoError(t, s.Remove("a"))

	data, err := slot.Read()
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))
}

// closingSlot is a memory slot that records whether it was closed.
type closingSlot struct {
	*MemorySlot
	closed int
	err    error
}

func (c *closingSlot) Close() error {
	c.closed++
	return c.err
}

func TestSlotStoreClose(t *testing.T) {
	t.Run("closes a slot that holds resources", func(t *testing.T) {
		slot := &closingSlot{MemorySlot: NewMemorySlot(nil)}
		s := NewSlotStore(slot, Options{})
		require.NoError(t, s.Add("a", t0))

		require.NoError(t, s.Close())
		assert.Equal(t, 1, slot.closed)
	})

	t.Run("returns the slot's close error", func(t *testing.T) {
		slot := &closingSlot{MemorySlot: NewMemorySlot(nil), err: os.ErrClosed}
		assert.ErrorIs(t, NewSlotStore(slot, Options{}).Close(), os.ErrClosed)
	})

	t.Run("plain slots close cleanly", func(t *testing.T) {
		assert.NoError(t, NewSlotStore(NewMemorySlot(nil), Options{}).Close())
		assert.NoError(t, NewSlotStore(NewFileSlot(filepath.Join(t.TempDir(), "s.json")), Options{}).Close())
	})
}
