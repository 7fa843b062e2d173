package match

import (
	"time"
)

// Transition is the product of one accepted operation.
type Transition struct {
	Game        *Game
	Settlements []Settlement
}

// Finished reports whether the operation ended the game.
func (t Transition) Finished() bool { return t.Game != nil && t.Game.Status == StatusFinished }

// Referee runs the lifecycle rules over snapshots. It never mutates its inputs and holds no locks;
// the host serializes calls per game.
type Referee struct {
	Opponent Opponent
	Now      func() time.Time
}

// NewReferee returns a Referee with the built-in opponent and the wall clock.
func NewReferee() *Referee {
	return &Referee{Opponent: Heuristic{}, Now: time.Now}
}

func (r *Referee) now() time.Time {
	if r == nil || r.Now == nil {
		return time.Now().UTC()
	}
	return r.Now().UTC()
}

func (r *Referee) opponent() Opponent {
	if r == nil || r.Opponent == nil {
		return Heuristic{}
	}
	return r.Opponent
}

// OpenGamesBy counts the non-finished games whose first seat is creator.
// 생성자 기준 동시 대국 상한 검사에 사용.
func OpenGamesBy(games []*Game, creator string) int {
	n := 0
	for _, g := range games {
		if g != nil && g.White == creator && g.Status != StatusFinished {
			n++
		}
	}
	return n
}

// Create opens a new game with id. openGames is the creator's current OpenGamesBy count.
func (r *Referee) Create(id uint64, creator, metadata string, vsAI bool, openGames int) (Transition, error) {
	if openGames >= MaxOpenGamesPerCreator {
		return Transition{}, ErrLobbyLimit
	}
	now := r.now()
	g := &Game{
		ID:        id,
		White:     creator,
		AIBlack:   vsAI,
		FEN:       StartFEN,
		Moves:     []MoveRecord{},
		Turn:      White,
		Status:    StatusLobby,
		CreatedAt: now,
		UpdatedAt: now,
		Metadata:  metadata,
	}
	if vsAI {
		g.Status = StatusActive
	}
	return Transition{Game: g}, nil
}

// Join seats joiner as black.
func (r *Referee) Join(cur *Game, joiner string) (Transition, error) {
	if cur == nil {
		return Transition{}, ErrNotFound
	}
	if cur.AIBlack || cur.Status != StatusLobby || cur.Black != "" || joiner == "" || joiner == cur.White {
		return Transition{}, notJoinable(cur.ID)
	}
	g := cur.Clone()
	g.Black = joiner
	g.Status = StatusActive
	g.UpdatedAt = r.now()
	return Transition{Game: g}, nil
}

// SubmitMove plays caller's move and, in games against the built-in opponent, its reply.
func (r *Referee) SubmitMove(cur *Game, caller, moveText string, promotion *string) (Transition, error) {
	if cur == nil {
		return Transition{}, ErrNotFound
	}
	switch cur.Status {
	case StatusFinished:
		return Transition{}, ErrAlreadyFinished
	case StatusLobby:
		return Transition{}, ErrMissingOpponent
	}
	seat, ok := cur.Seat(caller)
	if !ok {
		return Transition{}, ErrNotParticipant
	}
	if seat != cur.Turn {
		return Transition{}, ErrWrongTurn
	}

	res, err := ApplyMove(cur.FEN, moveText, promotion)
	if err != nil {
		return Transition{}, err
	}

	g := cur.Clone()
	var settlements []Settlement
	if s := r.play(g, seat, res); s != nil {
		settlements = s
	}

	// AI 응수: 실패하면 사람의 수만 반영
	if g.AIBlack && g.Status == StatusActive && g.Turn == Black {
		if reply, ok := r.opponent().ChooseMove(g.FEN); ok {
			if aiRes, err := ApplyMove(g.FEN, reply, nil); err == nil {
				if s := r.play(g, Black, aiRes); s != nil {
					settlements = s
				}
			}
		}
	}
	return Transition{Game: g, Settlements: settlements}, nil
}

// Resign ends the game in favour of the seat opposite caller. 대기방(LOBBY)에서도 기권 가능.
func (r *Referee) Resign(cur *Game, caller string) (Transition, error) {
	if cur == nil {
		return Transition{}, ErrNotFound
	}
	if cur.Status == StatusFinished {
		return Transition{}, ErrAlreadyFinished
	}
	seat, ok := cur.Seat(caller)
	if !ok {
		return Transition{}, ErrNotParticipant
	}
	g := cur.Clone()
	result := WinFor(seat.Other())
	r.finish(g, result, TerminationResignation)
	return Transition{Game: g, Settlements: settle(g, result)}, nil
}

// play appends an accepted move and returns the settlements when it ended the game.
func (r *Referee) play(g *Game, seat Color, res MoveResult) []Settlement {
	now := r.now()
	g.FEN = res.FEN
	g.Turn = seat.Other()
	g.Moves = append(g.Moves, MoveRecord{UCI: res.UCI, SAN: res.SAN, PlayedBy: seat, PlayedAt: now})
	g.UpdatedAt = now
	if !res.Result.Terminal() {
		return nil
	}
	r.finish(g, res.Result, res.Termination)
	return settle(g, res.Result)
}

func (r *Referee) finish(g *Game, result Result, how Termination) {
	g.Status = StatusFinished
	g.Termination = how
	g.Winner = ""
	if c, ok := result.Winner(); ok {
		g.Winner = c
	}
	g.UpdatedAt = r.now()
}
