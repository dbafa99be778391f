package core

import "github.com/sketchspy/sketchspy/internal/domain"

// Frame is a raw outbound payload, already encoded for the wire.
type Frame []byte

type SessionID string

// SignalConnection abstracts the system messaging transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// MemberSession binds a domain.Player and its transport endpoint.
// This is what a lobby stores and fans out to.
type MemberSession interface {
	Player() *domain.Player
	Signal() SignalConnection
}

// MemberSnap pairs a session with its id for callers that need both.
type MemberSnap struct {
	SID     SessionID
	Session MemberSession
}

// PublishResult reports delivery stats/backpressure to the orchestrator.
type PublishResult struct {
	SentTo  int
	Dropped []MemberSession
}

// MemberDTO is a read-only view for APIs (no transport fields).
type MemberDTO struct {
	ID   domain.PlayerID `json:"id"`
	Name string          `json:"name"`
}

// LobbyService is the core-facing API of a lobby. It owns the membership set
// and the per-game role bookkeeping but never touches transport resources.
type LobbyService interface {
	Name() domain.LobbyName
	Settings() domain.Settings

	MemberCount() int
	Capacity() int
	IsFull() bool
	IsEmpty() bool
	Contains(sid SessionID) bool
	ContainsName(name string) bool

	AddMember(sid SessionID, ms MemberSession) bool
	RemoveMember(sid SessionID) bool

	// CloseIfEmpty atomically closes the lobby when no members remain; a
	// closed lobby rejects every further add, so deregistration and a
	// racing join cannot both win.
	CloseIfEmpty() bool
	Closed() bool

	// Members returns the membership in join order; the first member is the host.
	Members() []MemberSnap
	Host() (MemberSnap, bool)
	Names() []string
	ImposterNames() []string
	SessionByName(name string) (MemberSnap, bool)
	MembersSnapshot() []MemberDTO

	PickRandom(count int) []MemberSnap
	PickImposters(count int) []MemberSnap
	ResetRoles()
	RandomOrder() []MemberSnap

	// Broadcast fans out to every member except from; Publish reaches everyone.
	Broadcast(from SessionID, data Frame) PublishResult
	Publish(data Frame) PublishResult
}

type LobbyInfo struct {
	Name        domain.LobbyName `json:"name"`
	MemberCount int              `json:"member_count"`
	Capacity    int              `json:"capacity"`
}

// LobbyFactory owns the live lobbies and the process-wide name uniqueness.
type LobbyFactory interface {
	Create(name domain.LobbyName, settings domain.Settings, size int) (LobbyService, error)
	Get(name domain.LobbyName) (LobbyService, bool)
	Remove(name domain.LobbyName)
	List() []LobbyInfo
}
