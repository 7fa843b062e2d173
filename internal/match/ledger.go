package match

// Outcome is a participant's side of a finished game.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
	OutcomeDraw Outcome = "draw"
)

const (
	winPoints  = 10
	lossPoints = -5
	drawPoints = 1
)

// Settlement is one ledger update owed by a finished game.
type Settlement struct {
	Player  string
	Outcome Outcome
}

// Record applies outcome to stats in place. Counts only grow; rating has no bound.
func Record(stats *PlayerStats, outcome Outcome) {
	if stats == nil {
		return
	}
	switch outcome {
	case OutcomeWin:
		stats.Wins++
		stats.Rating += winPoints
	case OutcomeLoss:
		stats.Losses++
		stats.Rating += lossPoints
	case OutcomeDraw:
		stats.Draws++
		stats.Rating += drawPoints
	default:
		return
	}
	stats.GamesPlayed++
}

// settle lists the ledger updates for a finished game. Seats without an identity are skipped.
func settle(g *Game, result Result) []Settlement {
	out := make([]Settlement, 0, 2)
	if winner, ok := result.Winner(); ok {
		if id, ok := g.PlayerAt(winner); ok {
			out = append(out, Settlement{Player: id, Outcome: OutcomeWin})
		}
		if id, ok := g.PlayerAt(winner.Other()); ok {
			out = append(out, Settlement{Player: id, Outcome: OutcomeLoss})
		}
		return out
	}
	for _, c := range []Color{White, Black} {
		if id, ok := g.PlayerAt(c); ok {
			out = append(out, Settlement{Player: id, Outcome: OutcomeDraw})
		}
	}
	return out
}
