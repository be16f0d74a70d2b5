package domain

import (
	"sort"
	"time"
)

// presence is the participant set of one room. Callers hold the room lock.
type presence struct {
	participants map[string]*Participant
}

func newPresence() presence {
	return presence{participants: make(map[string]*Participant)}
}

func (pr *presence) get(id string) (*Participant, bool) {
	if id == "" {
		return nil, false
	}
	p, ok := pr.participants[id]
	return p, ok
}

func (pr *presence) add(p *Participant) {
	pr.participants[p.ID] = p
}

func (pr *presence) remove(id string) (*Participant, bool) {
	p, ok := pr.participants[id]
	if ok {
		delete(pr.participants, id)
	}
	return p, ok
}

func (pr *presence) size() int {
	return len(pr.participants)
}

// pruneInactive drops everyone whose last activity is older than inactiveAfter.
func (pr *presence) pruneInactive(now time.Time, inactiveAfter time.Duration) []*Participant {
	var removed []*Participant
	for id, p := range pr.participants {
		if now.Sub(p.LastSeen) > inactiveAfter {
			delete(pr.participants, id)
			removed = append(removed, p)
		}
	}
	sortParticipants(removed)
	return removed
}

func (pr *presence) activeIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(pr.participants))
	for id := range pr.participants {
		ids[id] = struct{}{}
	}
	return ids
}

// list returns the participants ordered by join time.
func (pr *presence) list() []*Participant {
	out := make([]*Participant, 0, len(pr.participants))
	for _, p := range pr.participants {
		out = append(out, p)
	}
	sortParticipants(out)
	return out
}

func sortParticipants(ps []*Participant) {
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].JoinedAt.Equal(ps[j].JoinedAt) {
			return ps[i].ID < ps[j].ID
		}
		return ps[i].JoinedAt.Before(ps[j].JoinedAt)
	})
}
