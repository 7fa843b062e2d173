package api

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/valyala/fasthttp"

	"github.com/park285/chainchess/internal/ladder"
	"github.com/park285/chainchess/internal/match"
	"github.com/park285/chainchess/internal/render"
	"github.com/park285/chainchess/pkg/chessdto"
)

func (s *Server) handleHealth(rc *fasthttp.RequestCtx) {
	writeJSON(rc, fasthttp.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreate(rc *fasthttp.RequestCtx) {
	caller, ok := s.caller(rc)
	if !ok {
		return
	}
	var req chessdto.CreateGameRequest
	if !s.decode(rc, &req) {
		return
	}
	metadata := ""
	if req.Metadata != nil {
		metadata = *req.Metadata
	}
	resp, err := s.ops.Create(rc, caller, metadata, req.VsAI)
	s.operation(rc, "api_create", resp, err)
}

func (s *Server) handleJoin(rc *fasthttp.RequestCtx, rawID string) {
	s.gameOp(rc, rawID, "api_join", func(ctx context.Context, caller string, id uint64) (ladder.Response, error) {
		return s.ops.Join(ctx, caller, id)
	})
}

func (s *Server) handleMove(rc *fasthttp.RequestCtx, rawID string) {
	s.gameOp(rc, rawID, "api_move", func(ctx context.Context, caller string, id uint64) (ladder.Response, error) {
		var req chessdto.MoveRequest
		if !s.decode(rc, &req) {
			return ladder.Response{}, errHandled
		}
		return s.ops.SubmitMove(ctx, caller, id, req.Move, req.Promotion)
	})
}

func (s *Server) handleResign(rc *fasthttp.RequestCtx, rawID string) {
	s.gameOp(rc, rawID, "api_resign", func(ctx context.Context, caller string, id uint64) (ladder.Response, error) {
		return s.ops.Resign(ctx, caller, id)
	})
}

func (s *Server) gameOp(rc *fasthttp.RequestCtx, rawID, event string, op func(context.Context, string, uint64) (ladder.Response, error)) {
	caller, ok := s.caller(rc)
	if !ok {
		return
	}
	id, ok := s.gameID(rc, rawID)
	if !ok {
		return
	}
	resp, err := op(rc, caller, id)
	if errors.Is(err, errHandled) {
		return
	}
	s.operation(rc, event, resp, err)
}

func (s *Server) handleListGames(rc *fasthttp.RequestCtx) {
	games, err := s.reader.Games(rc)
	if err != nil {
		s.fault(rc, "api_list_games", err)
		return
	}
	out := chessdto.GamesResponse{Games: make([]chessdto.GameView, 0, len(games))}
	for _, g := range games {
		out.Games = append(out.Games, *gameView(g))
	}
	writeJSON(rc, fasthttp.StatusOK, out)
}

func (s *Server) handleGetGame(rc *fasthttp.RequestCtx, rawID string) {
	g, ok := s.loadGame(rc, rawID)
	if !ok {
		return
	}
	view := gameView(g.Summary())
	if code, title := s.reader.Opening(g); code != "" {
		view.Opening = &chessdto.OpeningView{ECO: code, Name: title}
	}
	writeJSON(rc, fasthttp.StatusOK, view)
}

func (s *Server) handleBoard(rc *fasthttp.RequestCtx, rawID string) {
	g, ok := s.loadGame(rc, rawID)
	if !ok {
		return
	}
	opts := render.Options{Flip: rc.QueryArgs().GetBool("flip")}
	if n := len(g.Moves); n > 0 && len(g.Moves[n-1].UCI) >= 4 {
		last := g.Moves[n-1].UCI
		opts.From, opts.To = last[0:2], last[2:4]
	}
	png, err := s.renderer.RenderPNG(rc, g.FEN, opts)
	if err != nil {
		s.fault(rc, "api_board", err)
		return
	}
	rc.SetContentType("image/png")
	rc.SetStatusCode(fasthttp.StatusOK)
	rc.SetBody(png)
}

func (s *Server) handleLeaderboard(rc *fasthttp.RequestCtx) {
	limit := 0
	if raw := rc.QueryArgs().Peek("limit"); len(raw) > 0 {
		n, err := strconv.Atoi(string(raw))
		if err != nil || n < 0 {
			s.badRequest(rc, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	players, err := s.reader.TopPlayers(rc, limit)
	if err != nil {
		s.fault(rc, "api_leaderboard", err)
		return
	}
	out := chessdto.LeaderboardResponse{Players: make([]chessdto.PlayerView, 0, len(players))}
	for _, p := range players {
		out.Players = append(out.Players, playerView(p))
	}
	writeJSON(rc, fasthttp.StatusOK, out)
}

// handlePlayer answers zeroed stats for identities that have not finished a game.
func (s *Server) handlePlayer(rc *fasthttp.RequestCtx, identity string) {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		s.badRequest(rc, "player identity is empty")
		return
	}
	stats, _, err := s.reader.Player(rc, identity)
	if err != nil {
		s.fault(rc, "api_player", err)
		return
	}
	writeJSON(rc, fasthttp.StatusOK, playerView(stats))
}

func (s *Server) loadGame(rc *fasthttp.RequestCtx, rawID string) (*match.Game, bool) {
	id, ok := s.gameID(rc, rawID)
	if !ok {
		return nil, false
	}
	g, err := s.reader.Game(rc, id)
	if err != nil {
		s.fault(rc, "api_get_game", err)
		return nil, false
	}
	if g == nil {
		data := map[string]any{"GameID": id}
		s.writeError(rc, fasthttp.StatusNotFound, "not_found", data, match.NotFound(id).Error())
		return nil, false
	}
	return g, true
}

func (s *Server) caller(rc *fasthttp.RequestCtx) (string, bool) {
	caller := strings.TrimSpace(string(rc.Request.Header.Peek(HeaderPlayerID)))
	if caller == "" {
		s.writeError(rc, fasthttp.StatusUnauthorized, "unauthenticated", nil, "caller identity is required")
		return "", false
	}
	return caller, true
}

func (s *Server) gameID(rc *fasthttp.RequestCtx, raw string) (uint64, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		s.badRequest(rc, "game id must be a positive integer")
		return 0, false
	}
	return id, true
}

// decode reads an optional JSON body. An empty body leaves v zeroed.
func (s *Server) decode(rc *fasthttp.RequestCtx, v any) bool {
	body := rc.PostBody()
	if len(body) == 0 {
		return true
	}
	if err := json.Unmarshal(body, v); err != nil {
		s.badRequest(rc, err.Error())
		return false
	}
	return true
}

func (s *Server) badRequest(rc *fasthttp.RequestCtx, detail string) {
	s.writeError(rc, fasthttp.StatusBadRequest, "bad_request", map[string]any{"Detail": detail}, detail)
}

func (s *Server) operation(rc *fasthttp.RequestCtx, event string, resp ladder.Response, err error) {
	if err != nil {
		s.fault(rc, event, err)
		return
	}
	out := chessdto.OperationResponse{
		Success: resp.Success,
		Message: resp.Message,
		Code:    string(resp.Code),
		Game:    gameView(resp.Game),
	}
	status := fasthttp.StatusOK
	if !resp.Success {
		status = statusFor(resp.Code)
	}
	writeJSON(rc, status, out)
}
