package game

import (
	"sort"

	"github.com/cbodonnell/sus/pkg/game/constants"
)

// VoteTally is the outcome of counting a vote ledger.
type VoteTally struct {
	// Counts maps targets to the number of votes they received, 0 being skip
	Counts map[uint32]int
	// Leaders are the targets holding the maximum count, sorted
	Leaders []uint32
	// Ejected is the unique non-skip plurality target, if any
	Ejected    uint32
	HasEjected bool
}

// IsTie reports whether more than one target shares the maximum count.
func (t VoteTally) IsTie() bool {
	return len(t.Leaders) > 1
}

// TallyVotes counts votes. No one is ejected on a tie, or when skip is among the leaders.
func TallyVotes(votes map[uint32]uint32) VoteTally {
	tally := VoteTally{
		Counts: make(map[uint32]int),
	}
	if len(votes) == 0 {
		return tally
	}

	maxVotes := 0
	for _, target := range votes {
		tally.Counts[target]++
		if tally.Counts[target] > maxVotes {
			maxVotes = tally.Counts[target]
		}
	}

	for target, count := range tally.Counts {
		if count == maxVotes {
			tally.Leaders = append(tally.Leaders, target)
		}
	}
	sort.Slice(tally.Leaders, func(i, j int) bool { return tally.Leaders[i] < tally.Leaders[j] })

	if len(tally.Leaders) == 1 && tally.Leaders[0] != constants.SkipVote {
		tally.Ejected = tally.Leaders[0]
		tally.HasEjected = true
	}

	return tally
}
