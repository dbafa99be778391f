package domain

import (
	"errors"
	"time"
)

const (
	MaxLobbyNameLen  = 36
	DefaultLobbySize = 8
)

var (
	ErrLobbyNameEmpty   = errors.New("lobby name empty")
	ErrLobbyNameTooLong = errors.New("lobby name too long")
)

type LobbyName string

func ParseLobbyName(raw string) (LobbyName, error) {
	if len(raw) == 0 {
		return "", ErrLobbyNameEmpty
	}
	if len(raw) > MaxLobbyNameLen {
		return "", ErrLobbyNameTooLong
	}
	return LobbyName(raw), nil
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Settings is the per-lobby game configuration chosen at create time.
type Settings struct {
	TurnLength    time.Duration `json:"-"`
	GuessTime     time.Duration `json:"-"`
	ImposterCount int           `json:"imposter_count"`
	Rounds        int           `json:"rounds"`
	Difficulty    Difficulty    `json:"difficulty"`
	CustomPrompts []string      `json:"custom_prompts,omitempty"`

	// Wire representation, in whole seconds.
	TurnLengthSec int `json:"turn_length"`
	GuessTimeSec  int `json:"guess_time"`
}

func DefaultSettings() Settings {
	return Settings{
		TurnLength:    10 * time.Second,
		GuessTime:     10 * time.Second,
		TurnLengthSec: 10,
		GuessTimeSec:  10,
		ImposterCount: 1,
		Rounds:        3,
		Difficulty:    DifficultyMedium,
	}
}

// Normalize fills derived fields and clamps nonsense values so a lobby can
// never be created with a settings object the round loop chokes on.
func (s *Settings) Normalize() {
	if s.TurnLengthSec > 0 {
		s.TurnLength = time.Duration(s.TurnLengthSec) * time.Second
	}
	if s.GuessTimeSec > 0 {
		s.GuessTime = time.Duration(s.GuessTimeSec) * time.Second
	}
	if s.TurnLength <= 0 {
		s.TurnLength = 10 * time.Second
	}
	if s.GuessTime <= 0 {
		s.GuessTime = 10 * time.Second
	}
	// Wire seconds round up so a sub-second duration never advertises a
	// zero deadline to clients.
	s.TurnLengthSec = int((s.TurnLength + time.Second - 1) / time.Second)
	s.GuessTimeSec = int((s.GuessTime + time.Second - 1) / time.Second)
	if s.ImposterCount < 1 {
		s.ImposterCount = 1
	}
	if s.Rounds < 1 {
		s.Rounds = 1
	}
	switch s.Difficulty {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
	default:
		s.Difficulty = DifficultyMedium
	}
}
