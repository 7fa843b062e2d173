// Package query is the read-only view over games and the ladder.
package query

import (
	"context"
	"sort"

	"github.com/park285/chainchess/internal/match"
	"github.com/park285/chainchess/internal/store"
)

const DefaultLimit = 10

type Reader struct {
	records      *store.Records
	defaultLimit int
}

func NewReader(records *store.Records, defaultLimit int) *Reader {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	return &Reader{records: records, defaultLimit: defaultLimit}
}

// Games lists every game by ascending id.
func (r *Reader) Games(ctx context.Context) ([]*match.Summary, error) {
	games, err := r.records.ListGames(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(games, func(i, j int) bool { return games[i].ID < games[j].ID })
	out := make([]*match.Summary, 0, len(games))
	for _, g := range games {
		out = append(out, g.Summary())
	}
	return out, nil
}

// TopPlayers returns up to limit ladder entries by descending rating. Equal
// ratings order by ascending identity. A non-positive limit uses the default.
func (r *Reader) TopPlayers(ctx context.Context, limit int) ([]*match.PlayerStats, error) {
	if limit <= 0 {
		limit = r.defaultLimit
	}
	players, err := r.records.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(players, func(i, j int) bool {
		if players[i].Rating != players[j].Rating {
			return players[i].Rating > players[j].Rating
		}
		return players[i].Player < players[j].Player
	})
	if len(players) > limit {
		players = players[:limit]
	}
	return players, nil
}

// Game returns nil without error for an unknown id.
func (r *Reader) Game(ctx context.Context, id uint64) (*match.Game, error) {
	return r.records.LoadGame(ctx, id)
}

// Player returns the ladder entry of identity; ok is false when none exists yet.
func (r *Reader) Player(ctx context.Context, identity string) (*match.PlayerStats, bool, error) {
	return r.records.LoadPlayer(ctx, identity)
}

// Opening labels the game's move history using the ECO book.
func (r *Reader) Opening(g *match.Game) (code, title string) {
	if g == nil {
		return "", ""
	}
	return match.Opening(g.Moves)
}
