package core

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/sketchspy/sketchspy/internal/domain"
)

// lobbyImpl is a threadsafe in-memory lobby.
// It never closes adapter-owned resources.
type lobbyImpl struct {
	name     domain.LobbyName
	settings domain.Settings
	max      int
	sel      *Selector

	mu      sync.RWMutex
	ordered []MemberSnap // join order, host first
	bySID   map[SessionID]MemberSession
	closed  bool
}

func NewLobbyService(name domain.LobbyName, settings domain.Settings, size int, sel *Selector) LobbyService {
	if size <= 0 {
		size = domain.DefaultLobbySize
	}
	if sel == nil {
		sel = NewSelector()
	}
	return &lobbyImpl{
		name:     name,
		settings: settings,
		max:      size,
		sel:      sel,
		bySID:    make(map[SessionID]MemberSession),
	}
}

func (l *lobbyImpl) Name() domain.LobbyName    { return l.name }
func (l *lobbyImpl) Settings() domain.Settings { return l.settings }
func (l *lobbyImpl) Capacity() int             { return l.max }

func (l *lobbyImpl) MemberCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.ordered)
}

func (l *lobbyImpl) IsFull() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.ordered) == l.max
}

func (l *lobbyImpl) IsEmpty() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.ordered) == 0
}

func (l *lobbyImpl) Contains(sid SessionID) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.bySID[sid]
	return ok
}

func (l *lobbyImpl) ContainsName(name string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, ms := range l.bySID {
		p := ms.Player()
		if p.Named() && p.DisplayName() == name {
			return true
		}
	}
	return false
}

func (l *lobbyImpl) AddMember(sid SessionID, ms MemberSession) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return false
	}
	if len(l.ordered) == l.max {
		return false
	}
	if _, ok := l.bySID[sid]; ok {
		return false
	}
	l.bySID[sid] = ms
	l.ordered = append(l.ordered, MemberSnap{SID: sid, Session: ms})
	log.Info().Str("module", "core.lobby").Str("lobby", string(l.name)).Str("sid", string(sid)).Msg("member added")
	return true
}

func (l *lobbyImpl) RemoveMember(sid SessionID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.bySID[sid]; !ok {
		return false
	}
	delete(l.bySID, sid)
	for i, snap := range l.ordered {
		if snap.SID == sid {
			l.ordered = append(l.ordered[:i], l.ordered[i+1:]...)
			break
		}
	}
	log.Info().Str("module", "core.lobby").Str("lobby", string(l.name)).Str("sid", string(sid)).Msg("member removed")
	return true
}

// CloseIfEmpty flips the lobby to closed while it holds no members. The check
// and the flip share one critical section, so a member added through a stale
// reference can never land in a lobby the manager has already let go of.
func (l *lobbyImpl) CloseIfEmpty() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.ordered) > 0 {
		return false
	}
	l.closed = true
	return true
}

func (l *lobbyImpl) Closed() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.closed
}

func (l *lobbyImpl) Members() []MemberSnap {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]MemberSnap, len(l.ordered))
	copy(out, l.ordered)
	return out
}

func (l *lobbyImpl) Host() (MemberSnap, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.ordered) == 0 {
		return MemberSnap{}, false
	}
	return l.ordered[0], true
}

func (l *lobbyImpl) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, 0, len(l.ordered))
	for _, snap := range l.ordered {
		out = append(out, snap.Session.Player().DisplayName())
	}
	return out
}

func (l *lobbyImpl) ImposterNames() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, 0, len(l.ordered))
	for _, snap := range l.ordered {
		if snap.Session.Player().Role() == domain.RoleImposter {
			out = append(out, snap.Session.Player().DisplayName())
		}
	}
	return out
}

// SessionByName resolves a display name to the owning member. Name lookup is
// case-sensitive; uniqueness is enforced upstream at name-assignment time.
func (l *lobbyImpl) SessionByName(name string) (MemberSnap, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, snap := range l.ordered {
		if snap.Session.Player().DisplayName() == name {
			return snap, true
		}
	}
	return MemberSnap{}, false
}

func (l *lobbyImpl) MembersSnapshot() []MemberDTO {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]MemberDTO, 0, len(l.ordered))
	for _, snap := range l.ordered {
		p := snap.Session.Player()
		out = append(out, MemberDTO{ID: p.ID(), Name: p.DisplayName()})
	}
	return out
}

func (l *lobbyImpl) PickRandom(count int) []MemberSnap {
	return PickMany(l.sel, l.Members(), count)
}

// PickImposters marks exactly count random members as imposters. Callers must
// ResetRoles first; picking twice without a reset can only shrink the real
// side further, never exceed count per call.
func (l *lobbyImpl) PickImposters(count int) []MemberSnap {
	picked := l.PickRandom(count)
	for _, snap := range picked {
		snap.Session.Player().SetRole(domain.RoleImposter)
	}
	log.Debug().Str("module", "core.lobby").Str("lobby", string(l.name)).Int("count", len(picked)).Msg("imposters picked")
	return picked
}

func (l *lobbyImpl) ResetRoles() {
	for _, snap := range l.Members() {
		snap.Session.Player().SetRole(domain.RoleReal)
	}
}

// RandomOrder returns a fresh uniformly random permutation of the current
// membership, recomputed on every call.
func (l *lobbyImpl) RandomOrder() []MemberSnap {
	return Perm(l.sel, l.Members())
}

func (l *lobbyImpl) Broadcast(from SessionID, data Frame) PublishResult {
	return l.fanOut(&from, data)
}

func (l *lobbyImpl) Publish(data Frame) PublishResult {
	return l.fanOut(nil, data)
}

func (l *lobbyImpl) fanOut(except *SessionID, data Frame) PublishResult {
	l.mu.RLock()
	defer l.mu.RUnlock()
	res := PublishResult{}
	for sid, ms := range l.bySID {
		if except != nil && sid == *except {
			continue
		}
		if err := ms.Signal().TrySend(data); err != nil {
			res.Dropped = append(res.Dropped, ms)
			continue
		}
		res.SentTo++
	}
	log.Debug().Str("module", "core.lobby").Str("lobby", string(l.name)).Int("sent_to", res.SentTo).Int("dropped", len(res.Dropped)).Msg("fan out")
	return res
}
