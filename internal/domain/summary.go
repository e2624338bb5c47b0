package domain

import "sort"

// PreviewLength is the maximum rune length of a cached last-message preview.
const PreviewLength = 100

// RecomputeSummary derives the cached summary fields from a message list:
// the message count and a bounded prefix of the newest message's content.
// Messages are considered in timestamp order regardless of slice order.
func RecomputeSummary(msgs []Message) (count int, preview string) {
	count = len(msgs)
	if count == 0 {
		return 0, ""
	}
	newest := msgs[0]
	for _, m := range msgs[1:] {
		if m.Timestamp.After(newest.Timestamp) {
			newest = m
		}
	}
	return count, TruncateRunes(newest.Content, PreviewLength)
}

// TruncateRunes returns at most n runes of s.
func TruncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// SortMessages orders messages ascending by timestamp, breaking ties by ID
// so the order is stable across reloads.
func SortMessages(msgs []Message) {
	sort.SliceStable(msgs, func(i, j int) bool {
		if msgs[i].Timestamp.Equal(msgs[j].Timestamp) {
			return msgs[i].ID < msgs[j].ID
		}
		return msgs[i].Timestamp.Before(msgs[j].Timestamp)
	})
}

// StaleSummary reports whether a summary's cached fields need repair: a
// negative count, or an empty preview while the session is known to hold
// messages.
func StaleSummary(s SessionSummary) bool {
	if s.MessageCount < 0 {
		return true
	}
	return s.MessageCount > 0 && s.LastMessagePreview == ""
}

// Normalize recomputes a session's cached summary fields in place and sorts
// its messages into timestamp order.
func (s *Session) Normalize() {
	SortMessages(s.Messages)
	s.MessageCount, s.LastMessagePreview = RecomputeSummary(s.Messages)
}
