package app

import "github.com/sketchspy/sketchspy/internal/core"

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	MarkSlow
	KickMember
	DropFrame
)

// Policy decides what happens to members whose send buffers overflow during
// a relay fan-out.
type Policy interface {
	OnBackPressure(lobby core.LobbyService, member core.MemberSession) BackpressureAction
}

type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(lobby core.LobbyService, member core.MemberSession) BackpressureAction {
	return KickMember
}
