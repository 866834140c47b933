package models

import (
	"time"

	"github.com/google/uuid"
)

// MatchResult is the record of one completed game.
type MatchResult struct {
	ID        uuid.UUID     `json:"id"`
	Seed      int64         `json:"seed"`
	StartedAt time.Time     `json:"started_at"`
	EndedAt   time.Time     `json:"ended_at"`
	Rounds    int           `json:"rounds"`
	Winner    string        `json:"winner"`
	WinReason string        `json:"win_reason"`
	Players   []MatchPlayer `json:"players"`
}

type MatchPlayer struct {
	ID       uint32 `json:"id"`
	Provider string `json:"provider"`
	Role     string `json:"role"`
	Alive    bool   `json:"alive"`
}
