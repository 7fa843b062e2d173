package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/park285/chainchess/internal/match"
)

const DefaultPrefix = "chess"

// Records is the typed view over a KV used by the ladder and the query adapter.
type Records struct {
	kv     KV
	prefix string
}

func NewRecords(kv KV, prefix string) *Records {
	prefix = strings.Trim(strings.TrimSpace(prefix), ":")
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Records{kv: kv, prefix: prefix}
}

func (r *Records) KV() KV { return r.kv }

func (r *Records) gamePrefix() string             { return r.prefix + ":game:" }
func (r *Records) playerPrefix() string           { return r.prefix + ":player:" }
func (r *Records) counterKey() string             { return r.prefix + ":meta:next_game_id" }
func (r *Records) gameKey(id uint64) string       { return r.gamePrefix() + strconv.FormatUint(id, 10) }
func (r *Records) playerKey(player string) string { return r.playerPrefix() + player }

// LoadGame returns nil without error when the game does not exist.
func (r *Records) LoadGame(ctx context.Context, id uint64) (*match.Game, error) {
	raw, ok, err := r.kv.Get(ctx, r.gameKey(id))
	if err != nil || !ok {
		return nil, err
	}
	var g match.Game
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, fmt.Errorf("decode game %d: %w", id, err)
	}
	return &g, nil
}

// LoadPlayer returns a zeroed entry when the player has no record yet.
func (r *Records) LoadPlayer(ctx context.Context, player string) (*match.PlayerStats, bool, error) {
	raw, ok, err := r.kv.Get(ctx, r.playerKey(player))
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return match.NewPlayerStats(player), false, nil
	}
	var s match.PlayerStats
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, false, fmt.Errorf("decode player %s: %w", player, err)
	}
	return &s, true, nil
}

// NextGameID reads the id the next created game will take. Ids start at 1.
func (r *Records) NextGameID(ctx context.Context) (uint64, error) {
	raw, ok, err := r.kv.Get(ctx, r.counterKey())
	if err != nil {
		return 0, err
	}
	if !ok {
		return 1, nil
	}
	n, err := strconv.ParseUint(strings.TrimSpace(string(raw)), 10, 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("decode game counter %q", raw)
	}
	return n, nil
}

func (r *Records) ListGames(ctx context.Context) ([]*match.Game, error) {
	keys, err := r.kv.Keys(ctx, r.gamePrefix())
	if err != nil {
		return nil, err
	}
	keys = uniqueKeys(keys)
	out := make([]*match.Game, 0, len(keys))
	for _, k := range keys {
		id, err := strconv.ParseUint(strings.TrimPrefix(k, r.gamePrefix()), 10, 64)
		if err != nil {
			continue
		}
		g, err := r.LoadGame(ctx, id)
		if err != nil {
			return nil, err
		}
		if g != nil {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *Records) ListPlayers(ctx context.Context) ([]*match.PlayerStats, error) {
	keys, err := r.kv.Keys(ctx, r.playerPrefix())
	if err != nil {
		return nil, err
	}
	keys = uniqueKeys(keys)
	out := make([]*match.PlayerStats, 0, len(keys))
	for _, k := range keys {
		s, ok, err := r.LoadPlayer(ctx, strings.TrimPrefix(k, r.playerPrefix()))
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *Records) GameEntry(g *match.Game) (Entry, error) {
	raw, err := json.Marshal(g)
	if err != nil {
		return Entry{}, fmt.Errorf("encode game %d: %w", g.ID, err)
	}
	return Entry{Key: r.gameKey(g.ID), Value: raw}, nil
}

func (r *Records) PlayerEntry(s *match.PlayerStats) (Entry, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return Entry{}, fmt.Errorf("encode player %s: %w", s.Player, err)
	}
	return Entry{Key: r.playerKey(s.Player), Value: raw}, nil
}

// CounterEntry stores next as the id of the following game.
func (r *Records) CounterEntry(next uint64) Entry {
	return Entry{Key: r.counterKey(), Value: []byte(strconv.FormatUint(next, 10))}
}

// Commit writes a batch built from the helpers above.
func (r *Records) Commit(ctx context.Context, entries ...Entry) error {
	if err := r.kv.Put(ctx, entries...); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
