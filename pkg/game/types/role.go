package types

import "fmt"

// Role is the secret allegiance of an actor.
// RoleUnassigned is a real, checkable state: actors hold it until a game starts.
type Role uint8

const (
	RoleUnassigned Role = iota
	RoleCrew
	RoleImpostor
)

func (r Role) String() string {
	switch r {
	case RoleUnassigned:
		return "unassigned"
	case RoleCrew:
		return "crewmate"
	case RoleImpostor:
		return "impostor"
	default:
		return "unknown"
	}
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	switch string(text) {
	case "unassigned", "":
		*r = RoleUnassigned
	case "crewmate":
		*r = RoleCrew
	case "impostor":
		*r = RoleImpostor
	default:
		return fmt.Errorf("unknown role: %s", text)
	}
	return nil
}

// Phase is a state of the game state machine.
type Phase uint8

const (
	PhaseLobby Phase = iota
	PhasePlaying
	PhaseDiscussion
	PhaseVoting
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseLobby:
		return "lobby"
	case PhasePlaying:
		return "playing"
	case PhaseDiscussion:
		return "discussion"
	case PhaseVoting:
		return "voting"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	switch string(text) {
	case "lobby":
		*p = PhaseLobby
	case "playing":
		*p = PhasePlaying
	case "discussion":
		*p = PhaseDiscussion
	case "voting":
		*p = PhaseVoting
	case "game_over":
		*p = PhaseGameOver
	default:
		return fmt.Errorf("unknown phase: %s", text)
	}
	return nil
}

// WinReason explains why a game ended.
type WinReason uint8

const (
	WinReasonNone WinReason = iota
	// WinReasonImpostorsEjected means every impostor is dead
	WinReasonImpostorsEjected
	// WinReasonCrewEliminated means impostors reached parity with the crew
	WinReasonCrewEliminated
	// WinReasonTasksCompleted is reserved for task completion, which this engine never produces
	WinReasonTasksCompleted
)

func (w WinReason) String() string {
	switch w {
	case WinReasonNone:
		return ""
	case WinReasonImpostorsEjected:
		return "impostors ejected"
	case WinReasonCrewEliminated:
		return "crew eliminated"
	case WinReasonTasksCompleted:
		return "tasks completed"
	default:
		return "unknown"
	}
}

func (w WinReason) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

func (w *WinReason) UnmarshalText(text []byte) error {
	switch string(text) {
	case "":
		*w = WinReasonNone
	case "impostors ejected":
		*w = WinReasonImpostorsEjected
	case "crew eliminated":
		*w = WinReasonCrewEliminated
	case "tasks completed":
		*w = WinReasonTasksCompleted
	default:
		return fmt.Errorf("unknown win reason: %s", text)
	}
	return nil
}
