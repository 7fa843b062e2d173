// Package archive keeps finished games in Postgres together with their PGN.
package archive

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/park285/chainchess/internal/match"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

type Repository struct {
	db *sql.DB
}

// Open connects to databaseURL, pings and applies pending migrations.
func Open(ctx context.Context, databaseURL string) (*Repository, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	if err := Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Repository{db: db}, nil
}

// Migrate applies the embedded goose migrations.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

const upsertArchivedGame = `INSERT INTO archived_games (
        game_id, white_id, black_id, ai_black, result, termination,
        moves_uci, moves_label, final_fen, pgn, metadata,
        started_at, ended_at, duration_ms, eco, opening
      ) VALUES (
        $1,$2,$3,$4,$5,$6,$7::jsonb,$8::jsonb,$9,$10,$11,$12,$13,$14,$15,$16
      ) ON CONFLICT (game_id) DO UPDATE SET
        black_id=EXCLUDED.black_id,
        result=EXCLUDED.result,
        termination=EXCLUDED.termination,
        moves_uci=EXCLUDED.moves_uci,
        moves_label=EXCLUDED.moves_label,
        final_fen=EXCLUDED.final_fen,
        pgn=EXCLUDED.pgn,
        ended_at=EXCLUDED.ended_at,
        duration_ms=EXCLUDED.duration_ms,
        eco=EXCLUDED.eco,
        opening=EXCLUDED.opening`

// SaveResult upserts a finished game. Unfinished games are ignored.
func (r *Repository) SaveResult(ctx context.Context, g *match.Game) error {
	if r == nil || r.db == nil || g == nil || g.Status != match.StatusFinished {
		return nil
	}
	args, err := upsertArgs(g)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, upsertArchivedGame, args...); err != nil {
		return fmt.Errorf("upsert archived game %d: %w", g.ID, err)
	}
	return nil
}

// upsertArgs binds g to the $1..$16 placeholders of upsertArchivedGame.
func upsertArgs(g *match.Game) ([]any, error) {
	row := newArchivedGame(g)
	movesUCI, err := json.Marshal(row.MovesUCI)
	if err != nil {
		return nil, fmt.Errorf("marshal moves_uci: %w", err)
	}
	labels, err := json.Marshal(row.Labels)
	if err != nil {
		return nil, fmt.Errorf("marshal moves_label: %w", err)
	}
	return []any{
		int64(g.ID), g.White, g.Black, g.AIBlack, row.Result, string(g.Termination),
		string(movesUCI), string(labels), g.FEN, row.PGN, g.Metadata,
		g.CreatedAt, g.UpdatedAt, row.DurationMS, row.ECO, row.Opening,
	}, nil
}

// archivedGame is the derived row content of a finished game.
type archivedGame struct {
	Result     string
	MovesUCI   []string
	Labels     []string
	PGN        string
	ECO        string
	Opening    string
	DurationMS int64
}

func newArchivedGame(g *match.Game) archivedGame {
	row := archivedGame{
		Result:   resultToken(g),
		MovesUCI: make([]string, 0, len(g.Moves)),
		Labels:   make([]string, 0, len(g.Moves)),
	}
	for _, m := range g.Moves {
		row.MovesUCI = append(row.MovesUCI, m.UCI)
		row.Labels = append(row.Labels, m.SAN)
	}
	row.ECO, row.Opening = match.Opening(g.Moves)
	row.PGN = BuildPGN(g)
	if d := g.UpdatedAt.Sub(g.CreatedAt).Milliseconds(); d > 0 {
		row.DurationMS = d
	}
	return row
}

func resultToken(g *match.Game) string {
	if g.Status != match.StatusFinished {
		return ""
	}
	if g.Winner == "" {
		return "draw"
	}
	return string(g.Winner)
}
