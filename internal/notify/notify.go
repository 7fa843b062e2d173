// Package notify publishes committed game changes to an external hub.
// Delivery is best effort; the ladder logs failures and moves on.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/park285/chainchess/internal/match"
	"github.com/park285/chainchess/internal/msgcat"
)

type EventType string

const (
	EventGameUpdated  EventType = "game_updated"
	EventGameFinished EventType = "game_finished"
)

// Event is the wire frame sent to the hub.
type Event struct {
	ID      string         `json:"id"`
	Type    EventType      `json:"type"`
	GameID  uint64         `json:"game_id"`
	Message string         `json:"message"`
	Game    *match.Summary `json:"game"`
	At      time.Time      `json:"at"`
}

// Publisher delivers events.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close(ctx context.Context) error
}

// NewEvent describes g after a committed operation.
func NewEvent(g *match.Game, cat *msgcat.Catalog) Event {
	ev := Event{
		ID:     uuid.NewString(),
		Type:   EventGameUpdated,
		GameID: g.ID,
		Game:   g.Summary(),
		At:     g.UpdatedAt,
	}
	data := map[string]any{
		"GameID":      g.ID,
		"Turn":        string(g.Turn),
		"Termination": string(g.Termination),
		"Winner":      string(g.Winner),
	}
	switch {
	case g.Status == match.StatusFinished && g.Winner != "":
		ev.Type = EventGameFinished
		ev.Message = cat.Text("notify.finished_win", data, fmt.Sprintf("game %d finished", g.ID))
	case g.Status == match.StatusFinished:
		ev.Type = EventGameFinished
		ev.Message = cat.Text("notify.finished_draw", data, fmt.Sprintf("game %d finished", g.ID))
	default:
		ev.Message = cat.Text("notify.updated", data, fmt.Sprintf("game %d updated", g.ID))
	}
	return ev
}

type nop struct{}

func (nop) Publish(context.Context, Event) error { return nil }
func (nop) Close(context.Context) error          { return nil }

// Nop discards every event.
func Nop() Publisher { return nop{} }

// New builds a publisher for mode: off, http or ws.
func New(mode, target string, timeout time.Duration) (Publisher, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "off":
		return Nop(), nil
	case "http":
		return NewHTTP(target, WithTimeout(timeout)), nil
	case "ws":
		return NewWS(target, timeout), nil
	default:
		return nil, fmt.Errorf("unsupported notify mode %q", mode)
	}
}
