package game

import "errors"

// Configuration errors. These are returned by Start and must be surfaced by the host;
// every other illegal call is a protocol race and is dropped silently.
var (
	ErrInsufficientPlayers  = errors.New("not enough players to start")
	ErrInvalidImpostorCount = errors.New("invalid impostor count")
	ErrAlreadyStarted       = errors.New("game already started")
	ErrNoRoster             = errors.New("roster is required")
)
