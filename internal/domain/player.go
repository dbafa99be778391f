// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"
	"sync"
)

const MaxPlayerNameLen = 36

var (
	ErrNameEmpty   = errors.New("player name empty")
	ErrNameTooLong = errors.New("player name too long")
)

type PlayerID string

// Role is the hidden role a player carries for the length of one game.
type Role string

const (
	RoleReal     Role = "real"
	RoleImposter Role = "imposter"
)

// Player is the per-connection game state: display name, hidden role and the
// draw-permission gate. Role and permission flip every game/turn, so they are
// plain tagged fields with explicit setters rather than typed wrappers.
// The orchestrator writes them while the relay reads them, hence the mutex.
type Player struct {
	id PlayerID

	mu      sync.RWMutex
	name    string
	role    Role
	canDraw bool
}

func NewPlayer(id PlayerID) *Player {
	return &Player{id: id, role: RoleReal}
}

func (p *Player) ID() PlayerID { return p.id }

func (p *Player) SetName(name string) error {
	if len(name) == 0 {
		return ErrNameEmpty
	}
	if len(name) > MaxPlayerNameLen {
		return ErrNameTooLong
	}
	p.mu.Lock()
	p.name = name
	p.mu.Unlock()
	return nil
}

// DisplayName falls back to the connection id while the player is unnamed.
func (p *Player) DisplayName() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.name == "" {
		return string(p.id)
	}
	return p.name
}

func (p *Player) Named() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.name != ""
}

func (p *Player) Role() Role {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.role
}

func (p *Player) SetRole(r Role) {
	p.mu.Lock()
	p.role = r
	p.mu.Unlock()
}

func (p *Player) MayDraw() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.canDraw
}

func (p *Player) AllowDraw(ok bool) {
	p.mu.Lock()
	p.canDraw = ok
	p.mu.Unlock()
}
