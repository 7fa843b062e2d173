package match

import (
	"time"
)

// StartFEN is the position every new game starts from.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// MaxOpenGamesPerCreator caps the non-finished games a single identity may have created.
const MaxOpenGamesPerCreator = 64

// Color identifies a seat. White is the creator's seat and always moves first.
type Color string

const (
	White Color = "white"
	Black Color = "black"
)

// Other returns the opposing seat.
func (c Color) Other() Color {
	if c == White {
		return Black
	}
	return White
}

// Status is the lifecycle state of a game. It only moves forward.
type Status string

const (
	StatusLobby    Status = "LOBBY"
	StatusActive   Status = "ACTIVE"
	StatusFinished Status = "FINISHED"
)

// Termination records how a finished game ended.
type Termination string

const (
	TerminationCheckmate   Termination = "checkmate"
	TerminationStalemate   Termination = "stalemate"
	TerminationResignation Termination = "resignation"
)

// MoveRecord is one accepted ply.
type MoveRecord struct {
	UCI      string    `json:"uci"`
	SAN      string    `json:"san,omitempty"`
	PlayedBy Color     `json:"played_by"`
	PlayedAt time.Time `json:"played_at"`
}

// Game is the persisted state of a match.
type Game struct {
	ID          uint64       `json:"id"`
	White       string       `json:"white"`
	Black       string       `json:"black,omitempty"`
	AIBlack     bool         `json:"ai_black"`
	FEN         string       `json:"fen"`
	Moves       []MoveRecord `json:"moves"`
	Turn        Color        `json:"turn"`
	Status      Status       `json:"status"`
	Winner      Color        `json:"winner,omitempty"`
	Termination Termination  `json:"termination,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Metadata    string       `json:"metadata,omitempty"`
}

// Clone returns a deep copy so transitions never alias the caller's snapshot.
func (g *Game) Clone() *Game {
	if g == nil {
		return nil
	}
	cp := *g
	cp.Moves = append([]MoveRecord(nil), g.Moves...)
	if cp.Moves == nil {
		cp.Moves = []MoveRecord{}
	}
	return &cp
}

// Seat resolves an identity to the seat it occupies.
func (g *Game) Seat(identity string) (Color, bool) {
	switch {
	case identity == "":
		return "", false
	case identity == g.White:
		return White, true
	case g.Black != "" && identity == g.Black:
		return Black, true
	default:
		return "", false
	}
}

// PlayerAt returns the identity sitting at c. The automated seat has none.
func (g *Game) PlayerAt(c Color) (string, bool) {
	switch c {
	case White:
		return g.White, g.White != ""
	case Black:
		return g.Black, g.Black != ""
	default:
		return "", false
	}
}

// Summary is the public projection returned to callers.
type Summary struct {
	ID          uint64       `json:"game_id"`
	White       string       `json:"white"`
	Black       *string      `json:"black"`
	AIBlack     bool         `json:"ai_black"`
	FEN         string       `json:"board_fen"`
	Moves       []MoveRecord `json:"moves"`
	Turn        Color        `json:"turn"`
	Status      Status       `json:"status"`
	Winner      *Color       `json:"winner"`
	Termination Termination  `json:"termination,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Metadata    *string      `json:"metadata"`
}

// Summary projects the game for callers. Absent seats, winners and metadata become null.
func (g *Game) Summary() *Summary {
	if g == nil {
		return nil
	}
	s := &Summary{
		ID:          g.ID,
		White:       g.White,
		AIBlack:     g.AIBlack,
		FEN:         g.FEN,
		Moves:       append([]MoveRecord{}, g.Moves...),
		Turn:        g.Turn,
		Status:      g.Status,
		Termination: g.Termination,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
	if g.Black != "" {
		black := g.Black
		s.Black = &black
	}
	if g.Status == StatusFinished && g.Winner != "" {
		winner := g.Winner
		s.Winner = &winner
	}
	if g.Metadata != "" {
		meta := g.Metadata
		s.Metadata = &meta
	}
	return s
}

// PlayerStats is one ladder entry.
type PlayerStats struct {
	Player      string `json:"player"`
	Wins        int    `json:"wins"`
	Losses      int    `json:"losses"`
	Draws       int    `json:"draws"`
	GamesPlayed int    `json:"games_played"`
	Rating      int    `json:"rating"`
}

// NewPlayerStats returns an empty ledger entry for player.
func NewPlayerStats(player string) *PlayerStats {
	return &PlayerStats{Player: player}
}

// Result is the classification of a position after a move.
type Result string

const (
	ResultNone     Result = ""
	ResultWhiteWon Result = "white"
	ResultBlackWon Result = "black"
	ResultDraw     Result = "draw"
)

// WinFor returns the decisive result in favour of c.
func WinFor(c Color) Result {
	if c == White {
		return ResultWhiteWon
	}
	return ResultBlackWon
}

// Winner reports the winning seat of a decisive result.
func (r Result) Winner() (Color, bool) {
	switch r {
	case ResultWhiteWon:
		return White, true
	case ResultBlackWon:
		return Black, true
	default:
		return "", false
	}
}

// Terminal reports whether the result ends the game.
func (r Result) Terminal() bool { return r != ResultNone }
