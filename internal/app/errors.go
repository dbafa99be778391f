package app

import "errors"

var (
	ErrLobbyExists      = errors.New("lobby already exists")
	ErrLobbyNotFound    = errors.New("lobby not found")
	ErrLobbyFull        = errors.New("lobby full")
	ErrAlreadyMember    = errors.New("already a lobby member")
	ErrNotInLobby       = errors.New("not in a lobby")
	ErrNoSession        = errors.New("no bound session")
	ErrNameTaken        = errors.New("name already taken in lobby")
	ErrNotEnoughPlayers = errors.New("not enough players")
	ErrGameInProgress   = errors.New("game already in progress")
	ErrReadyCheckFailed = errors.New("ready check failed")
)
