package orch

import "github.com/sketchspy/sketchspy/internal/domain"

// Outbound wire events. Every frame carries a type tag; requests that expect
// a client acknowledgement also carry the ack id.

type typeOnlyEvent struct {
	Type string `json:"type"`
}

type playersInLobbyEvent struct {
	Type    string   `json:"type"`
	Players []string `json:"players"`
}

type readyCheckEvent struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type roleEvent struct {
	Type string      `json:"type"`
	Role domain.Role `json:"role"`
}

type imposterListEvent struct {
	Type      string   `json:"type"`
	Imposters []string `json:"imposters"`
}

type promptEvent struct {
	Type   string `json:"type"`
	Prompt string `json:"prompt"`
}

type startRoundEvent struct {
	Type   string `json:"type"`
	Round  int    `json:"round"`
	Rounds int    `json:"rounds"`
}

type startTurnAllEvent struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	Seconds int    `json:"seconds"`
}

type startTurnEvent struct {
	Type    string `json:"type"`
	Seconds int    `json:"seconds"`
}

type guessImposterEvent struct {
	Type    string `json:"type"`
	ID      string `json:"id"`
	Seconds int    `json:"seconds"`
}

type votingFinishedEvent struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type endGameEvent struct {
	Type           string      `json:"type"`
	ImpostersFound []string    `json:"imposters_found"`
	Winner         domain.Role `json:"winner"`
}

// guessAnswer is the payload clients attach to a guessImposter ack.
type guessAnswer struct {
	Guess string `json:"guess"`
}
