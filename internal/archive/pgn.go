package archive

import (
	"fmt"
	"strings"
	"time"

	"github.com/park285/chainchess/internal/match"
)

// BuildPGN renders the game as PGN. Movetext uses full algebraic notation when the
// history replays from the standard start, and the stored labels otherwise.
func BuildPGN(g *match.Game) string {
	if g == nil {
		return ""
	}
	pgnResult := mapResultToPGN(resultToken(g))
	date := g.UpdatedAt
	if date.IsZero() {
		date = time.Now()
	}

	var b strings.Builder
	b.WriteString("[Event \"chainchess ladder\"]\n")
	b.WriteString("[Site \"chainchess\"]\n")
	b.WriteString(fmt.Sprintf("[Date \"%04d.%02d.%02d\"]\n", date.Year(), int(date.Month()), date.Day()))
	b.WriteString(fmt.Sprintf("[Round \"%d\"]\n", g.ID))
	b.WriteString(fmt.Sprintf("[White \"%s\"]\n", sanitizePGN(g.White)))
	b.WriteString(fmt.Sprintf("[Black \"%s\"]\n", sanitizePGN(blackName(g))))
	if code, title := match.Opening(g.Moves); code != "" {
		b.WriteString(fmt.Sprintf("[ECO \"%s\"]\n", sanitizePGN(code)))
		b.WriteString(fmt.Sprintf("[Opening \"%s\"]\n", sanitizePGN(title)))
	}
	if g.Termination != "" {
		b.WriteString(fmt.Sprintf("[Termination \"%s\"]\n", sanitizePGN(string(g.Termination))))
	}
	b.WriteString(fmt.Sprintf("[Result \"%s\"]\n\n", pgnResult))

	san, err := match.StandardSAN(g.Moves)
	if err != nil {
		san = make([]string, len(g.Moves))
		for i, m := range g.Moves {
			san[i] = m.SAN
			if san[i] == "" {
				san[i] = m.UCI
			}
		}
	}
	for i := 0; i < len(san); i += 2 {
		b.WriteString(fmt.Sprintf("%d. %s", i/2+1, strings.TrimSpace(san[i])))
		if i+1 < len(san) {
			b.WriteString(" ")
			b.WriteString(strings.TrimSpace(san[i+1]))
		}
		b.WriteString(" ")
	}
	b.WriteString(pgnResult)
	return b.String()
}

func blackName(g *match.Game) string {
	switch {
	case g.Black != "":
		return g.Black
	case g.AIBlack:
		return "chainchess heuristic"
	default:
		return "?"
	}
}

func mapResultToPGN(result string) string {
	switch strings.ToLower(strings.TrimSpace(result)) {
	case "white":
		return "1-0"
	case "black":
		return "0-1"
	case "draw":
		return "1/2-1/2"
	default:
		return "*"
	}
}

func sanitizePGN(s string) string {
	s = strings.ReplaceAll(s, "\\", " ")
	s = strings.ReplaceAll(s, "\"", "'")
	return strings.TrimSpace(s)
}
