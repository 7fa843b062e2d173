// Package api exposes the ladder over HTTP with fasthttp.
package api

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/park285/chainchess/internal/ladder"
	"github.com/park285/chainchess/internal/msgcat"
	"github.com/park285/chainchess/internal/obslog"
	"github.com/park285/chainchess/internal/query"
	"github.com/park285/chainchess/internal/render"
)

const (
	HeaderPlayerID  = "X-Player-Id"
	HeaderRequestID = "X-Request-ID"

	requestIDKey = "request_id"
)

// Operations is the mutating surface served under /games.
type Operations interface {
	Create(ctx context.Context, caller, metadata string, vsAI bool) (ladder.Response, error)
	Join(ctx context.Context, caller string, id uint64) (ladder.Response, error)
	SubmitMove(ctx context.Context, caller string, id uint64, moveText string, promotion *string) (ladder.Response, error)
	Resign(ctx context.Context, caller string, id uint64) (ladder.Response, error)
}

type Server struct {
	ops      Operations
	reader   *query.Reader
	renderer *render.Renderer
	catalog  *msgcat.Catalog
	srv      *fasthttp.Server
}

type Option func(*Server)

func WithRenderer(r *render.Renderer) Option { return func(s *Server) { s.renderer = r } }

func WithCatalog(c *msgcat.Catalog) Option { return func(s *Server) { s.catalog = c } }

func New(ops Operations, reader *query.Reader, opts ...Option) *Server {
	s := &Server{ops: ops, reader: reader}
	for _, opt := range opts {
		opt(s)
	}
	if s.renderer == nil {
		s.renderer = render.NewRenderer(render.DefaultSquareSize)
	}
	if s.catalog == nil {
		s.catalog = msgcat.Default()
	}
	s.srv = &fasthttp.Server{
		Handler:      s.Handler(),
		Name:         "chainchess",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the routed handler wrapped with request-id logging.
func (s *Server) Handler() fasthttp.RequestHandler {
	return s.withRequestID(s.route)
}

func (s *Server) ListenAndServe(addr string) error {
	obslog.L().Info("api_listen", zap.String("addr", addr))
	return s.srv.ListenAndServe(addr)
}

func (s *Server) Serve(ln net.Listener) error { return s.srv.Serve(ln) }

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.ShutdownWithContext(ctx)
}

func (s *Server) withRequestID(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(rc *fasthttp.RequestCtx) {
		start := time.Now()
		reqID := strings.TrimSpace(string(rc.Request.Header.Peek(HeaderRequestID)))
		if reqID == "" {
			reqID = uuid.NewString()
		}
		rc.Response.Header.Set(HeaderRequestID, reqID)
		rc.SetUserValue(requestIDKey, reqID)

		next(rc)

		obslog.L().Info("api_request",
			zap.String("request_id", reqID),
			zap.String("method", string(rc.Method())),
			zap.String("path", string(rc.Path())),
			zap.Int("status", rc.Response.StatusCode()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

// RequestID returns the id assigned to rc by the middleware.
func RequestID(rc *fasthttp.RequestCtx) string {
	id, _ := rc.UserValue(requestIDKey).(string)
	return id
}

func (s *Server) route(rc *fasthttp.RequestCtx) {
	parts := strings.Split(strings.Trim(string(rc.Path()), "/"), "/")
	method := string(rc.Method())

	switch {
	case len(parts) == 1 && parts[0] == "healthz":
		s.only(rc, method, fasthttp.MethodGet, s.handleHealth)
	case len(parts) == 1 && parts[0] == "games":
		switch method {
		case fasthttp.MethodGet:
			s.handleListGames(rc)
		case fasthttp.MethodPost:
			s.handleCreate(rc)
		default:
			s.methodNotAllowed(rc, method)
		}
	case len(parts) == 2 && parts[0] == "games":
		s.only(rc, method, fasthttp.MethodGet, func(rc *fasthttp.RequestCtx) { s.handleGetGame(rc, parts[1]) })
	case len(parts) == 3 && parts[0] == "games":
		id := parts[1]
		switch parts[2] {
		case "join":
			s.only(rc, method, fasthttp.MethodPost, func(rc *fasthttp.RequestCtx) { s.handleJoin(rc, id) })
		case "moves":
			s.only(rc, method, fasthttp.MethodPost, func(rc *fasthttp.RequestCtx) { s.handleMove(rc, id) })
		case "resign":
			s.only(rc, method, fasthttp.MethodPost, func(rc *fasthttp.RequestCtx) { s.handleResign(rc, id) })
		case "board.png":
			s.only(rc, method, fasthttp.MethodGet, func(rc *fasthttp.RequestCtx) { s.handleBoard(rc, id) })
		default:
			s.notFound(rc, method)
		}
	case len(parts) == 1 && parts[0] == "leaderboard":
		s.only(rc, method, fasthttp.MethodGet, s.handleLeaderboard)
	case len(parts) == 2 && parts[0] == "players":
		s.only(rc, method, fasthttp.MethodGet, func(rc *fasthttp.RequestCtx) { s.handlePlayer(rc, parts[1]) })
	default:
		s.notFound(rc, method)
	}
}

func (s *Server) only(rc *fasthttp.RequestCtx, method, want string, h fasthttp.RequestHandler) {
	if method != want {
		s.methodNotAllowed(rc, method)
		return
	}
	h(rc)
}

func (s *Server) notFound(rc *fasthttp.RequestCtx, method string) {
	data := map[string]any{"Method": method, "Path": string(rc.Path())}
	s.writeError(rc, fasthttp.StatusNotFound, "route_not_found", data, "no such route")
}

func (s *Server) methodNotAllowed(rc *fasthttp.RequestCtx, method string) {
	data := map[string]any{"Method": method, "Path": string(rc.Path())}
	s.writeError(rc, fasthttp.StatusMethodNotAllowed, "method_not_allowed", data, "method not allowed")
}

// fault answers storage failures and missing identities.
func (s *Server) fault(rc *fasthttp.RequestCtx, event string, err error) {
	if errors.Is(err, ladder.ErrNoCaller) {
		s.writeError(rc, fasthttp.StatusUnauthorized, "unauthenticated", nil, "caller identity is required")
		return
	}
	obslog.L().Error(event+"_error", zap.String("request_id", RequestID(rc)), zap.Error(err))
	s.writeErrorRetryable(rc, fasthttp.StatusInternalServerError, "internal", nil, "internal error")
}
