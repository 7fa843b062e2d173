package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/park285/chainchess/internal/match"
	"github.com/park285/chainchess/internal/msgcat"
)

func sampleGame() *match.Game {
	at := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	return &match.Game{ID: 5, White: "alice", Black: "bob", FEN: match.StartFEN, Turn: match.Black, Status: match.StatusActive, CreatedAt: at, UpdatedAt: at}
}

func TestNewEvent(t *testing.T) {
	cat := msgcat.Default()
	g := sampleGame()
	ev := NewEvent(g, cat)
	if ev.Type != EventGameUpdated || ev.GameID != 5 || ev.ID == "" || ev.Message != "game 5 updated, black to move" {
		t.Fatalf("unexpected event: %+v", ev)
	}
	g.Status, g.Winner, g.Termination = match.StatusFinished, match.White, match.TerminationResignation
	ev = NewEvent(g, cat)
	if ev.Type != EventGameFinished || ev.Message != "game 5 finished by resignation, white wins" {
		t.Fatalf("unexpected finish event: %+v", ev)
	}
	g.Winner, g.Termination = "", match.TerminationStalemate
	if ev = NewEvent(g, nil); ev.Message != "game 5 finished" {
		t.Fatalf("nil catalog must fall back: %q", ev.Message)
	}
}

func TestHTTP_RetriesThenDelivers(t *testing.T) {
	var calls int32
	var got Event
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &got)
		if r.Header.Get("X-Event-Id") == "" || r.Header.Get("X-Hub") != "ladder" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	pub := NewHTTP(srv.URL, WithRetry(3), WithHeaderProvider(func() map[string]string { return map[string]string{"X-Hub": "ladder"} }))
	defer pub.Close(context.Background())
	if err := pub.Publish(context.Background(), NewEvent(sampleGame(), nil)); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if atomic.LoadInt32(&calls) != 3 || got.GameID != 5 {
		t.Fatalf("calls=%d event=%+v", calls, got)
	}
}

func TestHTTP_NoRetryOnClientError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("nope"))
	}))
	defer srv.Close()

	err := NewHTTP(srv.URL).Publish(context.Background(), NewEvent(sampleGame(), nil))
	if err == nil || !strings.Contains(err.Error(), "status=400") || atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("expected single 400 failure, err=%v calls=%d", err, calls)
	}
}

func TestWS_Publish(t *testing.T) {
	received := make(chan Event, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer c.Close(websocket.StatusNormalClosure, "")
		for {
			var ev Event
			if err := wsjson.Read(r.Context(), c, &ev); err != nil {
				return
			}
			received <- ev
		}
	}))
	defer srv.Close()

	pub := NewWS("ws"+strings.TrimPrefix(srv.URL, "http"), time.Second)
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := pub.Publish(ctx, NewEvent(sampleGame(), nil)); err != nil {
			t.Fatalf("Publish %d: %v", i, err)
		}
	}
	for i := 0; i < 2; i++ {
		select {
		case ev := <-received:
			if ev.GameID != 5 || ev.Game == nil || ev.Game.FEN != match.StartFEN {
				t.Fatalf("unexpected frame: %+v", ev)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("frame %d not received", i)
		}
	}
	_ = pub.Close(ctx)
	if err := pub.Publish(ctx, NewEvent(sampleGame(), nil)); err == nil {
		t.Fatalf("publish after close must fail")
	}
}

func TestNew(t *testing.T) {
	if p, err := New("off", "", 0); err != nil || p == nil {
		t.Fatalf("off: %v", err)
	}
	if _, err := New("smoke", "x", 0); err == nil {
		t.Fatalf("unknown mode must fail")
	}
}
