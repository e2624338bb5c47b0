package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ilikebug/ChatVortex/internal/domain"
)

func snapSession(id string, msgs int) domain.Session {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	sess := domain.Session{ID: id, Title: "snap " + id, CreatedAt: base, UpdatedAt: base}
	for i := 0; i < msgs; i++ {
		sess.Messages = append(sess.Messages, domain.Message{
			ID:        id + "-m" + string(rune('a'+i)),
			SessionID: id,
			Role:      domain.RoleUser,
			Content:   "hi",
			Timestamp: base.Add(time.Duration(i) * time.Second),
		})
	}
	return sess
}

func TestSnapshot_RoundTrip(t *testing.T) {
	snap := NewSnapshot(&MemorySlot{})

	sessions := []domain.Session{snapSession("a", 2), snapSession("b", 0)}
	if err := snap.SaveAll(sessions); err != nil {
		t.Fatalf("SaveAll: %v", err)
	}
	got, err := snap.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want 2", len(got))
	}
	if got[0].ID != "a" || len(got[0].Messages) != 2 {
		t.Errorf("session a = %+v, want 2 messages", got[0])
	}
	if got[0].MessageCount != 2 {
		t.Errorf("MessageCount = %d, want 2 (recomputed on save)", got[0].MessageCount)
	}
}

func TestSnapshot_AbsentAndCorrupt(t *testing.T) {
	t.Run("absent slot is empty, not an error", func(t *testing.T) {
		snap := NewSnapshot(&MemorySlot{})
		got, err := snap.LoadAll()
		if err != nil {
			t.Fatalf("LoadAll: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("len(got) = %d, want 0", len(got))
		}
	})

	t.Run("corrupt blob is treated as absence", func(t *testing.T) {
		snap := NewSnapshot(&MemorySlot{Data: []byte("{not json"), Present: true})
		got, err := snap.LoadAll()
		if err != nil {
			t.Fatalf("LoadAll: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("len(got) = %d, want 0", len(got))
		}
	})

	t.Run("corrupt blob overwritten by next save", func(t *testing.T) {
		slot := &MemorySlot{Data: []byte("{not json"), Present: true}
		snap := NewSnapshot(slot)
		if err := snap.SaveAll([]domain.Session{snapSession("a", 1)}); err != nil {
			t.Fatalf("SaveAll: %v", err)
		}
		got, err := snap.LoadAll()
		if err != nil {
			t.Fatalf("LoadAll: %v", err)
		}
		if len(got) != 1 {
			t.Errorf("len(got) = %d, want 1", len(got))
		}
	})
}

func TestSnapshot_Clear(t *testing.T) {
	snap := NewSnapshot(&MemorySlot{})
	if err := snap.SaveAll([]domain.Session{snapSession("a", 1)}); err != nil {
		t.Fatalf("SaveAll: %v", err)
	}
	if err := snap.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	empty, err := snap.Empty()
	if err != nil {
		t.Fatalf("Empty: %v", err)
	}
	if !empty {
		t.Error("expected empty slot after Clear")
	}
}

func TestMemorySlot_Quota(t *testing.T) {
	slot := &MemorySlot{MaxBytes: 10}
	err := slot.Put([]byte("0123456789abcdef"))
	if !IsQuota(err) {
		t.Fatalf("err = %v, want QuotaError", err)
	}
	if slot.Present {
		t.Error("rejected write must not land in the slot")
	}
}

func TestFileSlot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sessions.json")

	t.Run("absent file", func(t *testing.T) {
		slot := &FileSlot{Path: path}
		_, ok, err := slot.Get()
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if ok {
			t.Error("expected absent slot")
		}
	})

	t.Run("put then get", func(t *testing.T) {
		slot := &FileSlot{Path: path}
		if err := slot.Put([]byte(`[]`)); err != nil {
			t.Fatalf("Put: %v", err)
		}
		data, ok, err := slot.Get()
		if err != nil || !ok {
			t.Fatalf("Get: ok=%v err=%v", ok, err)
		}
		if string(data) != `[]` {
			t.Errorf("data = %q, want %q", data, `[]`)
		}
	})

	t.Run("quota rejection leaves the old blob intact", func(t *testing.T) {
		slot := &FileSlot{Path: path, MaxBytes: 4}
		err := slot.Put([]byte(`[{"id":"x"}]`))
		if !IsQuota(err) {
			t.Fatalf("err = %v, want QuotaError", err)
		}
		data, _, _ := (&FileSlot{Path: path}).Get()
		if string(data) != `[]` {
			t.Errorf("data = %q, want previous blob preserved", data)
		}
	})

	t.Run("remove is idempotent", func(t *testing.T) {
		slot := &FileSlot{Path: path}
		if err := slot.Remove(); err != nil {
			t.Fatalf("Remove: %v", err)
		}
		if err := slot.Remove(); err != nil {
			t.Fatalf("Remove absent: %v", err)
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Error("file still present after Remove")
		}
	})
}
