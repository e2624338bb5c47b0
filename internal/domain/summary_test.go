package domain

import (
	"strings"
	"testing"
	"time"
)

func msgAt(id, content string, sec int) Message {
	return Message{
		ID:        id,
		Role:      RoleUser,
		Content:   content,
		Timestamp: time.Date(2025, 3, 1, 12, 0, sec, 0, time.UTC),
	}
}

func TestRecomputeSummary(t *testing.T) {
	t.Run("empty list", func(t *testing.T) {
		count, preview := RecomputeSummary(nil)
		if count != 0 || preview != "" {
			t.Errorf("got (%d, %q), want (0, \"\")", count, preview)
		}
	})

	t.Run("preview comes from the newest message regardless of slice order", func(t *testing.T) {
		msgs := []Message{
			msgAt("b", "newest", 9),
			msgAt("a", "oldest", 1),
			msgAt("c", "middle", 5),
		}
		count, preview := RecomputeSummary(msgs)
		if count != 3 {
			t.Errorf("count = %d, want 3", count)
		}
		if preview != "newest" {
			t.Errorf("preview = %q, want %q", preview, "newest")
		}
	})

	t.Run("preview bounded to 100 runes", func(t *testing.T) {
		long := strings.Repeat("héllo", 40)
		_, preview := RecomputeSummary([]Message{msgAt("a", long, 1)})
		if n := len([]rune(preview)); n != PreviewLength {
			t.Errorf("preview length = %d runes, want %d", n, PreviewLength)
		}
		if !strings.HasPrefix(long, preview) {
			t.Error("preview is not a prefix of the content")
		}
	})
}

func TestSortMessages(t *testing.T) {
	msgs := []Message{
		msgAt("b", "2", 5),
		msgAt("a", "1", 1),
		msgAt("d", "4", 5),
		msgAt("c", "3", 3),
	}
	SortMessages(msgs)
	order := make([]string, len(msgs))
	for i, m := range msgs {
		order[i] = m.ID
	}
	// Equal timestamps break ties by ID.
	want := []string{"a", "c", "b", "d"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestStaleSummary(t *testing.T) {
	cases := []struct {
		name string
		sum  SessionSummary
		want bool
	}{
		{"fresh", SessionSummary{MessageCount: 2, LastMessagePreview: "hi"}, false},
		{"empty session", SessionSummary{MessageCount: 0}, false},
		{"negative count", SessionSummary{MessageCount: -1}, true},
		{"messages but no preview", SessionSummary{MessageCount: 3}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StaleSummary(tc.sum); got != tc.want {
				t.Errorf("StaleSummary = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	sess := &Session{
		ID: "s",
		Messages: []Message{
			msgAt("b", "hello!", 2),
			msgAt("a", "hi", 1),
		},
	}
	sess.Normalize()
	if sess.MessageCount != 2 {
		t.Errorf("MessageCount = %d, want 2", sess.MessageCount)
	}
	if sess.LastMessagePreview != "hello!" {
		t.Errorf("LastMessagePreview = %q, want %q", sess.LastMessagePreview, "hello!")
	}
	if sess.Messages[0].ID != "a" {
		t.Errorf("first message = %s, want a", sess.Messages[0].ID)
	}
}

func TestNewUUID(t *testing.T) {
	a, b := NewUUID(), NewUUID()
	if a == b {
		t.Error("expected distinct UUIDs")
	}
	if len(a) != 36 {
		t.Errorf("len = %d, want 36", len(a))
	}
	if a[14] != '4' {
		t.Errorf("version nibble = %c, want 4", a[14])
	}
}
