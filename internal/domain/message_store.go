package domain

import "time"

// messageStore is the ordered message history of one room. Callers hold the room lock.
// Messages leave only through pruneByTTL and removeExpired.
type messageStore struct {
	messages []*Message
}

func newMessageStore() messageStore {
	return messageStore{messages: make([]*Message, 0, 16)}
}

func (s *messageStore) append(m *Message) {
	s.messages = append(s.messages, m)
}

// markViewed acknowledges every non-expired message on behalf of id.
func (s *messageStore) markViewed(id string) int {
	n := 0
	for _, m := range s.messages {
		if m.markViewed(id) {
			n++
		}
	}
	return n
}

// sweepExpiry flags messages every active participant has seen.
// A room with fewer than two active participants never expires anything.
func (s *messageStore) sweepExpiry(active map[string]struct{}, now time.Time) []*Message {
	if len(active) <= 1 {
		return nil
	}

	var expired []*Message
	for _, m := range s.messages {
		if m.IsExpired {
			continue
		}
		if m.seenByAll(active) {
			m.IsExpired = true
			m.ExpiredAt = now
			expired = append(expired, m)
		}
	}
	return expired
}

// pruneByTTL removes every message created before now-retention, expired or not.
func (s *messageStore) pruneByTTL(retention time.Duration, now time.Time) []*Message {
	cutoff := now.Add(-retention)
	return s.removeWhere(func(m *Message) bool {
		return m.CreatedAt.Before(cutoff)
	})
}

// removeExpired drops expired messages whose grace window has passed.
func (s *messageStore) removeExpired(now time.Time, grace time.Duration) []*Message {
	return s.removeWhere(func(m *Message) bool {
		return m.graceElapsed(now, grace)
	})
}

func (s *messageStore) removeWhere(match func(*Message) bool) []*Message {
	var removed []*Message
	kept := s.messages[:0]
	for _, m := range s.messages {
		if match(m) {
			removed = append(removed, m)
			continue
		}
		kept = append(kept, m)
	}
	for i := len(kept); i < len(s.messages); i++ {
		s.messages[i] = nil
	}
	s.messages = kept
	return removed
}

func (s *messageStore) size() int {
	return len(s.messages)
}

// snapshot projects the visible history. Messages past their grace window are hidden.
func (s *messageStore) snapshot(now time.Time, total int, grace time.Duration) []MessageView {
	views := make([]MessageView, 0, len(s.messages))
	for _, m := range s.messages {
		if m.graceElapsed(now, grace) {
			continue
		}
		views = append(views, m.view(total))
	}
	return views
}
