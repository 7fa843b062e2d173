package api

import (
	"encoding/json"
	"errors"

	"github.com/valyala/fasthttp"

	"github.com/park285/chainchess/internal/match"
	"github.com/park285/chainchess/pkg/chessdto"
)

// errHandled signals that a handler step already wrote the response.
var errHandled = errors.New("api: response already written")

func statusFor(code match.Kind) int {
	switch code {
	case match.KindNotFound:
		return fasthttp.StatusNotFound
	case match.KindNotJoinable, match.KindWrongTurn, match.KindAlreadyFinished,
		match.KindMissingOpponent, match.KindLobbyLimit:
		return fasthttp.StatusConflict
	case match.KindInvalidMove:
		return fasthttp.StatusUnprocessableEntity
	case match.KindNotParticipant:
		return fasthttp.StatusForbidden
	default:
		return fasthttp.StatusBadRequest
	}
}

func writeJSON(rc *fasthttp.RequestCtx, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		rc.Error(`{"code":"internal","message":"encode response"}`, fasthttp.StatusInternalServerError)
		rc.SetContentType("application/json")
		return
	}
	rc.SetContentType("application/json")
	rc.SetStatusCode(status)
	rc.SetBody(b)
}

func (s *Server) writeError(rc *fasthttp.RequestCtx, status int, code string, data any, fallback string) {
	writeJSON(rc, status, chessdto.DomainError{Code: code, Message: s.catalog.Text("errors."+code, data, fallback)})
}

func (s *Server) writeErrorRetryable(rc *fasthttp.RequestCtx, status int, code string, data any, fallback string) {
	writeJSON(rc, status, chessdto.DomainError{Code: code, Message: s.catalog.Text("errors."+code, data, fallback), Retryable: true})
}

func gameView(g *match.Summary) *chessdto.GameView {
	if g == nil {
		return nil
	}
	v := &chessdto.GameView{
		GameID:      g.ID,
		White:       g.White,
		Black:       g.Black,
		AIBlack:     g.AIBlack,
		BoardFEN:    g.FEN,
		Moves:       make([]chessdto.MoveView, 0, len(g.Moves)),
		Turn:        string(g.Turn),
		Status:      string(g.Status),
		Termination: string(g.Termination),
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
		Metadata:    g.Metadata,
	}
	for _, m := range g.Moves {
		v.Moves = append(v.Moves, chessdto.MoveView{UCI: m.UCI, SAN: m.SAN, PlayedBy: string(m.PlayedBy), PlayedAt: m.PlayedAt})
	}
	if g.Winner != nil {
		w := string(*g.Winner)
		v.Winner = &w
	}
	return v
}

func playerView(p *match.PlayerStats) chessdto.PlayerView {
	return chessdto.PlayerView{
		Player:      p.Player,
		Wins:        p.Wins,
		Losses:      p.Losses,
		Draws:       p.Draws,
		GamesPlayed: p.GamesPlayed,
		Rating:      p.Rating,
	}
}
