package store

import (
	"encoding/json"
	"os"

	"github.com/ilikebug/ChatVortex/internal/domain"
)

// Slot is a single flat durable slot: the whole fallback corpus serialized
// as one blob. Implementations signal size-limit rejections with QuotaError.
type Slot interface {
	// Get returns the blob and whether the slot holds one.
	Get() ([]byte, bool, error)
	// Put overwrites the slot with the blob.
	Put(data []byte) error
	// Remove clears the slot. Removing an absent slot is not an error.
	Remove() error
}

// FileSlot stores the blob in a single file. A non-zero MaxBytes models the
// size-limited slot of the original host environment; writes beyond it fail
// with QuotaError.
type FileSlot struct {
	Path     string
	MaxBytes int
}

func (f *FileSlot) Get() ([]byte, bool, error) {
	data, err := os.ReadFile(f.Path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (f *FileSlot) Put(data []byte) error {
	if f.MaxBytes > 0 && len(data) > f.MaxBytes {
		return &QuotaError{Size: len(data), Limit: f.MaxBytes}
	}
	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.Path)
}

func (f *FileSlot) Remove() error {
	err := os.Remove(f.Path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// MemorySlot is an in-memory Slot for tests.
type MemorySlot struct {
	Data     []byte
	Present  bool
	MaxBytes int
	PutErr   error // forced error for fault injection
}

func (m *MemorySlot) Get() ([]byte, bool, error) {
	return m.Data, m.Present, nil
}

func (m *MemorySlot) Put(data []byte) error {
	if m.PutErr != nil {
		return m.PutErr
	}
	if m.MaxBytes > 0 && len(data) > m.MaxBytes {
		return &QuotaError{Size: len(data), Limit: m.MaxBytes}
	}
	m.Data = append([]byte(nil), data...)
	m.Present = true
	return nil
}

func (m *MemorySlot) Remove() error {
	m.Data, m.Present = nil, false
	return nil
}

// Snapshot is the fallback store adapter: the entire session collection
// lives in one Slot as a JSON array, each session with its messages inline.
// Every write is O(corpus size); that inefficiency is the accepted price of
// the degraded tier.
type Snapshot struct {
	slot Slot
}

// NewSnapshot creates a Snapshot over the given slot.
func NewSnapshot(slot Slot) *Snapshot {
	return &Snapshot{slot: slot}
}

// LoadAll deserializes the slot into the full session list. An absent slot
// or a corrupt blob both yield an empty list: corrupt data is treated as
// absence and gets overwritten on the next successful save.
func (s *Snapshot) LoadAll() ([]domain.Session, error) {
	data, ok, err := s.slot.Get()
	if err != nil {
		return nil, err
	}
	if !ok || len(data) == 0 {
		return nil, nil
	}
	var sessions []domain.Session
	if err := json.Unmarshal(data, &sessions); err != nil {
		return nil, nil
	}
	for i := range sessions {
		sessions[i].Normalize()
	}
	return sessions, nil
}

// SaveAll serializes the full session list and overwrites the slot. Cached
// summary fields are recomputed before the write. Quota failures propagate
// as QuotaError; truncation policy lives with the caller.
func (s *Snapshot) SaveAll(sessions []domain.Session) error {
	for i := range sessions {
		sessions[i].Normalize()
	}
	data, err := json.Marshal(sessions)
	if err != nil {
		return err
	}
	return s.slot.Put(data)
}

// Clear removes the slot entirely.
func (s *Snapshot) Clear() error {
	return s.slot.Remove()
}

// Empty reports whether the slot holds no parseable sessions.
func (s *Snapshot) Empty() (bool, error) {
	sessions, err := s.LoadAll()
	if err != nil {
		return false, err
	}
	return len(sessions) == 0, nil
}
