// Package ladder hosts the match core: it serializes operations, loads snapshots,
// commits every changed record in one batch and fans finished games out to the
// archive and the notifier.
package ladder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/park285/chainchess/internal/match"
	"github.com/park285/chainchess/internal/msgcat"
	"github.com/park285/chainchess/internal/notify"
	"github.com/park285/chainchess/internal/obslog"
	"github.com/park285/chainchess/internal/store"
)

// ErrNoCaller is returned when an operation arrives without a caller identity.
var ErrNoCaller = errors.New("ladder: caller identity required")

// Response is the outcome of one operation. Rejections carry Success=false and a Code.
type Response struct {
	Success bool
	Message string
	Code    match.Kind
	Game    *match.Summary
}

// Archiver stores finished games.
type Archiver interface {
	SaveResult(ctx context.Context, g *match.Game) error
}

type Service struct {
	mu       sync.Mutex
	records  *store.Records
	referee  *match.Referee
	catalog  *msgcat.Catalog
	archive  Archiver
	notifier notify.Publisher
	hookTTL  time.Duration
}

type Option func(*Service)

func WithReferee(r *match.Referee) Option    { return func(s *Service) { s.referee = r } }
func WithCatalog(c *msgcat.Catalog) Option   { return func(s *Service) { s.catalog = c } }
func WithArchive(a Archiver) Option          { return func(s *Service) { s.archive = a } }
func WithNotifier(p notify.Publisher) Option { return func(s *Service) { s.notifier = p } }

func New(records *store.Records, opts ...Option) *Service {
	s := &Service{
		records:  records,
		referee:  match.NewReferee(),
		notifier: notify.Nop(),
		hookTTL:  5 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.catalog == nil {
		s.catalog = msgcat.Default()
	}
	return s
}

// Create opens a lobby, or an active game against the built-in opponent.
func (s *Service) Create(ctx context.Context, caller, metadata string, vsAI bool) (Response, error) {
	caller = strings.TrimSpace(caller)
	if caller == "" {
		return Response{}, ErrNoCaller
	}
	tr, err := s.locked(func() (match.Transition, error) {
		games, err := s.records.ListGames(ctx)
		if err != nil {
			return match.Transition{}, fatal("list games", err)
		}
		id, err := s.records.NextGameID(ctx)
		if err != nil {
			return match.Transition{}, fatal("read game counter", err)
		}
		tr, err := s.referee.Create(id, caller, metadata, vsAI, match.OpenGamesBy(games, caller))
		if err != nil {
			return tr, err
		}
		return tr, s.commit(ctx, tr, s.records.CounterEntry(id+1))
	})
	if err != nil {
		return s.reject("game_create", 0, caller, err)
	}
	obslog.L().Info("game_create",
		zap.Uint64("game_id", tr.Game.ID),
		zap.String("white", tr.Game.White),
		zap.Bool("ai_black", tr.Game.AIBlack),
	)
	s.after(ctx, tr)
	return s.ok("ops.created", tr.Game), nil
}

// Join seats caller as black in a lobby.
func (s *Service) Join(ctx context.Context, caller string, id uint64) (Response, error) {
	caller = strings.TrimSpace(caller)
	if caller == "" {
		return Response{}, ErrNoCaller
	}
	tr, err := s.withGame(ctx, id, func(g *match.Game) (match.Transition, error) {
		return s.referee.Join(g, caller)
	})
	if err != nil {
		return s.reject("game_join", id, caller, err)
	}
	obslog.L().Info("game_join", zap.Uint64("game_id", id), zap.String("black", caller))
	s.after(ctx, tr)
	return s.ok("ops.joined", tr.Game), nil
}

// SubmitMove plays caller's move, and the automated reply when due.
func (s *Service) SubmitMove(ctx context.Context, caller string, id uint64, moveText string, promotion *string) (Response, error) {
	caller = strings.TrimSpace(caller)
	if caller == "" {
		return Response{}, ErrNoCaller
	}
	tr, err := s.withGame(ctx, id, func(g *match.Game) (match.Transition, error) {
		return s.referee.SubmitMove(g, caller, moveText, promotion)
	})
	if err != nil {
		return s.reject("game_move", id, caller, err)
	}
	last := tr.Game.Moves[len(tr.Game.Moves)-1]
	obslog.L().Info("game_move",
		zap.Uint64("game_id", id),
		zap.String("player", caller),
		zap.String("last_uci", last.UCI),
		zap.String("last_by", string(last.PlayedBy)),
		zap.String("status", string(tr.Game.Status)),
	)
	s.after(ctx, tr)
	return s.ok("ops.moved", tr.Game), nil
}

// Resign concedes the game to the other seat.
func (s *Service) Resign(ctx context.Context, caller string, id uint64) (Response, error) {
	caller = strings.TrimSpace(caller)
	if caller == "" {
		return Response{}, ErrNoCaller
	}
	tr, err := s.withGame(ctx, id, func(g *match.Game) (match.Transition, error) {
		return s.referee.Resign(g, caller)
	})
	if err != nil {
		return s.reject("game_resign", id, caller, err)
	}
	obslog.L().Info("game_resign", zap.Uint64("game_id", id), zap.String("player", caller), zap.String("winner", string(tr.Game.Winner)))
	s.after(ctx, tr)
	return s.ok("ops.resigned", tr.Game), nil
}

func (s *Service) locked(fn func() (match.Transition, error)) (match.Transition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

func (s *Service) withGame(ctx context.Context, id uint64, step func(*match.Game) (match.Transition, error)) (match.Transition, error) {
	return s.locked(func() (match.Transition, error) {
		g, err := s.records.LoadGame(ctx, id)
		if err != nil {
			return match.Transition{}, fatal("load game", err)
		}
		if g == nil {
			return match.Transition{}, match.NotFound(id)
		}
		tr, err := step(g)
		if err != nil {
			return tr, withGameID(err, id)
		}
		return tr, s.commit(ctx, tr)
	})
}

// commit writes the game, any extra entries and the settled player records in one batch.
// 부분 쓰기 금지: 하나라도 실패하면 아무것도 저장되지 않음.
func (s *Service) commit(ctx context.Context, tr match.Transition, extra ...store.Entry) error {
	ge, err := s.records.GameEntry(tr.Game)
	if err != nil {
		return fatal("encode game", err)
	}
	entries := append([]store.Entry{ge}, extra...)
	for _, st := range tr.Settlements {
		stats, _, err := s.records.LoadPlayer(ctx, st.Player)
		if err != nil {
			return fatal("load player", err)
		}
		match.Record(stats, st.Outcome)
		pe, err := s.records.PlayerEntry(stats)
		if err != nil {
			return fatal("encode player", err)
		}
		entries = append(entries, pe)
	}
	if err := s.records.Commit(ctx, entries...); err != nil {
		return fatal("commit", err)
	}
	return nil
}

// after runs the best-effort hooks of a committed transition. 실패는 로그만 남김.
func (s *Service) after(ctx context.Context, tr match.Transition) {
	hctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.hookTTL)
	defer cancel()
	g := tr.Game
	if tr.Finished() && s.archive != nil {
		if err := s.archive.SaveResult(hctx, g); err != nil {
			obslog.L().Error("game_archive_error", zap.Uint64("game_id", g.ID), zap.Error(err))
		} else {
			obslog.L().Info("game_archive", zap.Uint64("game_id", g.ID), zap.String("termination", string(g.Termination)))
		}
	}
	for _, st := range tr.Settlements {
		obslog.L().Info("ladder_record", zap.Uint64("game_id", g.ID), zap.String("player", st.Player), zap.String("outcome", string(st.Outcome)))
	}
	if err := s.notifier.Publish(hctx, notify.NewEvent(g, s.catalog)); err != nil {
		obslog.L().Warn("game_notify_error", zap.Uint64("game_id", g.ID), zap.Error(err))
	}
}

func (s *Service) ok(key string, g *match.Game) Response {
	return Response{Success: true, Message: s.catalog.Text(key, nil, key), Game: g.Summary()}
}

func (s *Service) reject(event string, id uint64, caller string, err error) (Response, error) {
	var fe *fatalError
	if errors.As(err, &fe) {
		obslog.L().Error(event+"_error", zap.Uint64("game_id", id), zap.String("player", caller), zap.Error(err))
		return Response{}, err
	}
	var me *match.Error
	if !errors.As(err, &me) {
		obslog.L().Error(event+"_error", zap.Uint64("game_id", id), zap.String("player", caller), zap.Error(err))
		return Response{}, err
	}
	obslog.L().Info(event+"_rejected", zap.Uint64("game_id", id), zap.String("player", caller), zap.String("kind", string(me.Code)))
	data := map[string]any{"GameID": me.GameID, "Detail": me.Detail, "Limit": match.MaxOpenGamesPerCreator}
	return Response{Success: false, Code: me.Code, Message: s.catalog.Text("errors."+string(me.Code), data, me.Error())}, nil
}

// fatalError marks storage faults. They abort the operation without a write.
type fatalError struct {
	op  string
	err error
}

func (e *fatalError) Error() string { return fmt.Sprintf("ladder %s: %v", e.op, e.err) }
func (e *fatalError) Unwrap() error { return e.err }

func fatal(op string, err error) error { return &fatalError{op: op, err: err} }

// withGameID stamps id onto rejections raised by the referee.
func withGameID(err error, id uint64) error {
	var me *match.Error
	if errors.As(err, &me) && me.GameID == 0 {
		cp := *me
		cp.GameID = id
		return &cp
	}
	return err
}
