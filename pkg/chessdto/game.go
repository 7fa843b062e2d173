package chessdto

import "time"

type MoveView struct {
	UCI      string    `json:"uci"`
	SAN      string    `json:"san,omitempty"`
	PlayedBy string    `json:"played_by"`
	PlayedAt time.Time `json:"played_at"`
}

type OpeningView struct {
	ECO  string `json:"eco"`
	Name string `json:"name"`
}

// GameView is the public projection of a game. Absent seats, winners and metadata are null.
type GameView struct {
	GameID      uint64       `json:"game_id"`
	White       string       `json:"white"`
	Black       *string      `json:"black"`
	AIBlack     bool         `json:"ai_black"`
	BoardFEN    string       `json:"board_fen"`
	Moves       []MoveView   `json:"moves"`
	Turn        string       `json:"turn"`
	Status      string       `json:"status"`
	Winner      *string      `json:"winner"`
	Termination string       `json:"termination,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Metadata    *string      `json:"metadata"`
	Opening     *OpeningView `json:"opening,omitempty"`
}

// OperationResponse answers create, join, move and resign.
type OperationResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Code    string    `json:"code,omitempty"`
	Game    *GameView `json:"game,omitempty"`
}

type GamesResponse struct {
	Games []GameView `json:"games"`
}

type PlayerView struct {
	Player      string `json:"player"`
	Wins        int    `json:"wins"`
	Losses      int    `json:"losses"`
	Draws       int    `json:"draws"`
	GamesPlayed int    `json:"games_played"`
	Rating      int    `json:"rating"`
}

type LeaderboardResponse struct {
	Players []PlayerView `json:"players"`
}
