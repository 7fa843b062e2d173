package match

import (
	"errors"
	"testing"
	"time"
)

type stubOpponent struct {
	move string
	ok   bool
}

func (s stubOpponent) ChooseMove(string) (string, bool) { return s.move, s.ok }

func fixedReferee() *Referee {
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &Referee{Opponent: Heuristic{}, Now: func() time.Time { return clock }}
}

func activeGame(t *testing.T, r *Referee) *Game {
	t.Helper()
	tr, err := r.Create(1, "alice", "friendly", false, 0)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	tr, err = r.Join(tr.Game, "bob")
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	return tr.Game
}

func mustMove(t *testing.T, r *Referee, g *Game, caller, mv string) Transition {
	t.Helper()
	tr, err := r.SubmitMove(g, caller, mv, nil)
	if err != nil {
		t.Fatalf("SubmitMove(%s, %s): %v", caller, mv, err)
	}
	return tr
}

func TestCreate(t *testing.T) {
	r := fixedReferee()
	tr, err := r.Create(7, "alice", "", false, 0)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	g := tr.Game
	if g.ID != 7 || g.Status != StatusLobby || g.Turn != White || g.Black != "" || g.FEN != StartFEN {
		t.Fatalf("unexpected lobby game: %+v", g)
	}
	tr, err = r.Create(8, "alice", "", true, 1)
	if err != nil {
		t.Fatalf("Create ai: %v", err)
	}
	if tr.Game.Status != StatusActive || !tr.Game.AIBlack || tr.Game.Black != "" {
		t.Fatalf("unexpected ai game: %+v", tr.Game)
	}
}

func TestCreate_LobbyLimit(t *testing.T) {
	r := fixedReferee()
	var games []*Game
	for i := 0; i < MaxOpenGamesPerCreator; i++ {
		tr, err := r.Create(uint64(i+1), "alice", "", i%2 == 0, OpenGamesBy(games, "alice"))
		if err != nil {
			t.Fatalf("game %d: %v", i+1, err)
		}
		games = append(games, tr.Game)
	}
	if _, err := r.Create(65, "alice", "", false, OpenGamesBy(games, "alice")); !errors.Is(err, ErrLobbyLimit) {
		t.Fatalf("expected lobby limit, got %v", err)
	}
	if _, err := r.Create(65, "bob", "", false, OpenGamesBy(games, "bob")); err != nil {
		t.Fatalf("other creators are unaffected: %v", err)
	}
	games[0].Status = StatusFinished
	if n := OpenGamesBy(games, "alice"); n != MaxOpenGamesPerCreator-1 {
		t.Fatalf("finished games must not count, got %d", n)
	}
}

func TestJoin_Rejections(t *testing.T) {
	r := fixedReferee()
	lobby, _ := r.Create(1, "alice", "", false, 0)
	if _, err := r.Join(lobby.Game, "alice"); !errors.Is(err, ErrNotJoinable) {
		t.Fatalf("self join: %v", err)
	}
	ai, _ := r.Create(2, "alice", "", true, 0)
	if _, err := r.Join(ai.Game, "bob"); !errors.Is(err, ErrNotJoinable) {
		t.Fatalf("ai join: %v", err)
	}
	active := activeGame(t, r)
	if _, err := r.Join(active, "carol"); !errors.Is(err, ErrNotJoinable) {
		t.Fatalf("full join: %v", err)
	}
	if lobby.Game.Black != "" || lobby.Game.Status != StatusLobby {
		t.Fatalf("input snapshot mutated: %+v", lobby.Game)
	}
}

func TestSubmitMove_Guards(t *testing.T) {
	r := fixedReferee()
	lobby, _ := r.Create(1, "alice", "", false, 0)
	if _, err := r.SubmitMove(lobby.Game, "alice", "e2e4", nil); !errors.Is(err, ErrMissingOpponent) {
		t.Fatalf("lobby move: %v", err)
	}
	g := activeGame(t, r)
	if _, err := r.SubmitMove(g, "carol", "e2e4", nil); !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("outsider move: %v", err)
	}
	if _, err := r.SubmitMove(g, "bob", "e7e5", nil); !errors.Is(err, ErrWrongTurn) {
		t.Fatalf("black first: %v", err)
	}
	if _, err := r.SubmitMove(g, "alice", "f1c4", nil); !errors.Is(err, ErrInvalidMove) {
		t.Fatalf("blocked bishop: %v", err)
	}
	if g.FEN != StartFEN || len(g.Moves) != 0 {
		t.Fatalf("rejected move mutated the snapshot")
	}
}

func TestSubmitMove_TurnAlternates(t *testing.T) {
	r := fixedReferee()
	g := activeGame(t, r)
	line := []struct{ who, mv string }{
		{"alice", "e2e4"}, {"bob", "e7e5"}, {"alice", "g1f3"}, {"bob", "b8c6"}, {"alice", "f1b5"},
	}
	for i, step := range line {
		tr := mustMove(t, r, g, step.who, step.mv)
		next := tr.Game
		if next.Turn == g.Turn {
			t.Fatalf("ply %d did not flip turn", i+1)
		}
		if len(next.Moves) != i+1 || next.Moves[i].PlayedBy != g.Turn {
			t.Fatalf("ply %d recorded wrong: %+v", i+1, next.Moves)
		}
		if _, err := r.SubmitMove(next, step.who, "a2a3", nil); !errors.Is(err, ErrWrongTurn) {
			t.Fatalf("ply %d: repeated mover must be rejected, got %v", i+1, err)
		}
		g = next
	}
	if g.Moves[0].SAN != "e4" || g.Moves[4].SAN != "Bb5" {
		t.Fatalf("unexpected labels: %+v", g.Moves)
	}
}

func TestSubmitMove_FoolsMate(t *testing.T) {
	r := fixedReferee()
	g := activeGame(t, r)
	var tr Transition
	for i, mv := range []string{"f2f3", "e7e5", "g2g4", "d8h4"} {
		who := "alice"
		if i%2 == 1 {
			who = "bob"
		}
		tr = mustMove(t, r, g, who, mv)
		g = tr.Game
	}
	if !tr.Finished() || g.Winner != Black || g.Termination != TerminationCheckmate {
		t.Fatalf("expected black checkmate, got %+v", g)
	}
	want := []Settlement{{Player: "bob", Outcome: OutcomeWin}, {Player: "alice", Outcome: OutcomeLoss}}
	if len(tr.Settlements) != 2 || tr.Settlements[0] != want[0] || tr.Settlements[1] != want[1] {
		t.Fatalf("unexpected settlements: %+v", tr.Settlements)
	}
	if _, err := r.SubmitMove(g, "alice", "a2a3", nil); !errors.Is(err, ErrAlreadyFinished) {
		t.Fatalf("move after mate: %v", err)
	}
	if _, err := r.Resign(g, "alice"); !errors.Is(err, ErrAlreadyFinished) {
		t.Fatalf("resign after mate: %v", err)
	}
	if _, err := r.Join(g, "carol"); !errors.Is(err, ErrNotJoinable) {
		t.Fatalf("join after mate: %v", err)
	}
}

func TestSubmitMove_StalemateSettlesDraw(t *testing.T) {
	r := fixedReferee()
	g := activeGame(t, r)
	g.FEN = "k7/8/1Q6/8/8/8/8/7K w - - 0 1"
	tr := mustMove(t, r, g, "alice", "b6c7")
	if tr.Game.Status != StatusFinished || tr.Game.Winner != "" || tr.Game.Termination != TerminationStalemate {
		t.Fatalf("expected stalemate finish, got %+v", tr.Game)
	}
	if s := tr.Game.Summary(); s.Winner != nil {
		t.Fatalf("draw must have no winner in projection")
	}
	if len(tr.Settlements) != 2 {
		t.Fatalf("expected two draw settlements, got %+v", tr.Settlements)
	}
	for _, s := range tr.Settlements {
		if s.Outcome != OutcomeDraw {
			t.Fatalf("unexpected outcome: %+v", s)
		}
	}
}

func TestSubmitMove_AIReplies(t *testing.T) {
	r := fixedReferee()
	ai, _ := r.Create(3, "alice", "", true, 0)
	tr := mustMove(t, r, ai.Game, "alice", "e2e4")
	g := tr.Game
	if len(g.Moves) != 2 || g.Moves[1].PlayedBy != Black || g.Turn != White {
		t.Fatalf("expected automated reply, got %+v", g.Moves)
	}
	if _, err := r.SubmitMove(g, "", "e7e5", nil); !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("automated seat has no identity: %v", err)
	}
}

func TestSubmitMove_AIFailureIsSkipped(t *testing.T) {
	r := fixedReferee()
	ai, _ := r.Create(3, "alice", "", true, 0)
	for _, opp := range []Opponent{stubOpponent{}, stubOpponent{move: "e2e4", ok: true}} {
		r.Opponent = opp
		tr := mustMove(t, r, ai.Game, "alice", "d2d4")
		if len(tr.Game.Moves) != 1 || tr.Game.Turn != Black {
			t.Fatalf("failed reply must leave the human move standing: %+v", tr.Game)
		}
	}
}

func TestSubmitMove_AIMates(t *testing.T) {
	r := fixedReferee()
	ai, _ := r.Create(4, "alice", "", true, 0)
	g := ai.Game
	g.FEN = playLine(t, StartFEN, "f2f3", "e7e5").FEN
	r.Opponent = stubOpponent{move: "d8h4", ok: true}
	tr := mustMove(t, r, g, "alice", "g2g4")
	if tr.Game.Winner != Black || tr.Game.Status != StatusFinished {
		t.Fatalf("expected automated mate, got %+v", tr.Game)
	}
	if len(tr.Settlements) != 1 || tr.Settlements[0] != (Settlement{Player: "alice", Outcome: OutcomeLoss}) {
		t.Fatalf("only the human seat settles: %+v", tr.Settlements)
	}
}

func TestResign(t *testing.T) {
	r := fixedReferee()
	g := activeGame(t, r)
	g = mustMove(t, r, g, "alice", "f2f3").Game
	g = mustMove(t, r, g, "bob", "e7e5").Game
	tr, err := r.Resign(g, "bob")
	if err != nil {
		t.Fatalf("Resign: %v", err)
	}
	if tr.Game.Winner != White || tr.Game.Termination != TerminationResignation {
		t.Fatalf("resigning black must hand white the win: %+v", tr.Game)
	}
	if tr.Settlements[0] != (Settlement{Player: "alice", Outcome: OutcomeWin}) {
		t.Fatalf("unexpected settlements: %+v", tr.Settlements)
	}
	if _, err := r.Resign(g, "carol"); !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("outsider resign: %v", err)
	}
}

func TestResign_FromLobby(t *testing.T) {
	r := fixedReferee()
	lobby, _ := r.Create(1, "alice", "", false, 0)
	tr, err := r.Resign(lobby.Game, "alice")
	if err != nil {
		t.Fatalf("Resign: %v", err)
	}
	if tr.Game.Winner != Black || len(tr.Settlements) != 1 || tr.Settlements[0].Outcome != OutcomeLoss {
		t.Fatalf("unexpected lobby resignation: %+v %+v", tr.Game, tr.Settlements)
	}
}

func TestCreate_KeepsMetadataVerbatim(t *testing.T) {
	r := fixedReferee()
	tr, err := r.Create(1, "alice", "  blitz: 3+2 \n", false, 0)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	sum := tr.Game.Summary()
	if sum.Metadata == nil || *sum.Metadata != "  blitz: 3+2 \n" {
		t.Fatalf("metadata altered: %q", tr.Game.Metadata)
	}
	tr, err = r.Create(2, "alice", "", false, 0)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if tr.Game.Summary().Metadata != nil {
		t.Fatalf("empty metadata should be absent")
	}
}
