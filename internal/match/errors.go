package match

import (
	"errors"
	"fmt"
)

// Kind classifies a rejected operation.
type Kind string

const (
	KindNotFound        Kind = "not_found"
	KindNotJoinable     Kind = "not_joinable"
	KindWrongTurn       Kind = "wrong_turn"
	KindAlreadyFinished Kind = "already_finished"
	KindMissingOpponent Kind = "missing_opponent"
	KindInvalidMove     Kind = "invalid_move"
	KindNotParticipant  Kind = "not_participant"
	KindLobbyLimit      Kind = "lobby_limit_reached"
)

// Error is a user-facing rejection. None of them leave persisted state changed.
type Error struct {
	Code   Kind
	GameID uint64
	Detail string
}

func (e *Error) Error() string {
	switch e.Code {
	case KindNotFound:
		return fmt.Sprintf("game %d was not found", e.GameID)
	case KindNotJoinable:
		return fmt.Sprintf("game %d is not joinable", e.GameID)
	case KindWrongTurn:
		return "it is not your turn"
	case KindAlreadyFinished:
		return "game is already finished"
	case KindMissingOpponent:
		return "game is still waiting for an opponent"
	case KindInvalidMove:
		if e.Detail != "" {
			return "invalid move: " + e.Detail
		}
		return "invalid move"
	case KindNotParticipant:
		return "you are not a participant in this game"
	case KindLobbyLimit:
		return fmt.Sprintf("cannot create more than %d concurrent games", MaxOpenGamesPerCreator)
	default:
		return "chess match error"
	}
}

// Is matches on kind so callers can compare against the sentinels below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

var (
	ErrNotFound        = &Error{Code: KindNotFound}
	ErrNotJoinable     = &Error{Code: KindNotJoinable}
	ErrWrongTurn       = &Error{Code: KindWrongTurn}
	ErrAlreadyFinished = &Error{Code: KindAlreadyFinished}
	ErrMissingOpponent = &Error{Code: KindMissingOpponent}
	ErrInvalidMove     = &Error{Code: KindInvalidMove}
	ErrNotParticipant  = &Error{Code: KindNotParticipant}
	ErrLobbyLimit      = &Error{Code: KindLobbyLimit}
)

// NotFound builds the rejection for an unknown game id.
func NotFound(id uint64) error { return &Error{Code: KindNotFound, GameID: id} }

func notJoinable(id uint64) error { return &Error{Code: KindNotJoinable, GameID: id} }

func invalidMove(detail string) error { return &Error{Code: KindInvalidMove, Detail: detail} }

// KindOf extracts the rejection kind, or "" for non-domain errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
