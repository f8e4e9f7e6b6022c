package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	naverrors "github.com/vango-dev/stocknav/internal/errors"
	"github.com/vango-dev/stocknav/pkg/router"
)

// Live message types.
const (
	MessageNavigate = "navigate"
	MessageReplace  = "replace"
	MessageBack     = "back"
	MessageForward  = "forward"
	MessageName     = "name"
)

// LiveMessage is one client event on a live navigation session.
type LiveMessage struct {
	Type     string         `json:"type"`
	Location string         `json:"location,omitempty"`
	Name     string         `json:"name,omitempty"`
	Params   router.Params  `json:"params,omitempty"`
	Query    map[string]any `json:"query,omitempty"`
}

// LiveReply answers one LiveMessage. Replies are sent in message order.
type LiveReply struct {
	ID   string `json:"id,omitempty"`
	Type string `json:"type"`
	*ResolutionView
	Error string `json:"error,omitempty"`
	Code  string `json:"code,omitempty"`
}

// liveSession drives one navigator from a single read loop.
type liveSession struct {
	conn      *websocket.Conn
	navigator *router.Navigator
	resolver  *router.Resolver
	logger    *slog.Logger
	server    *Server
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.metrics.RecordWebSocketError("upgrade")
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	if !s.register(conn) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown"),
			deadline(s.config.WriteTimeout))
		_ = conn.Close()
		return
	}
	defer s.unregister(conn)

	conn.SetReadLimit(s.config.MaxMessageSize)

	id := uuid.NewString()
	logger := s.logger.With("session", id)
	guards := append([]router.Guard{s.tracer.Guard(), s.metrics.Guard()}, s.guards...)

	sess := &liveSession{
		conn: conn,
		navigator: router.NewNavigator(s.resolver,
			router.WithGuards(guards...),
			router.WithNavigatorLogger(logger),
		),
		resolver: s.resolver,
		logger:   logger,
		server:   s,
	}

	s.metrics.SessionOpened()
	defer s.metrics.SessionClosed()

	logger.Info("live session opened", "remote", r.RemoteAddr)
	sess.readLoop(s.ctx)
	logger.Info("live session closed", "navigations", sess.navigator.Len())
}

// register tracks conn until unregister. It refuses new sessions once
// shutdown has begun.
func (s *Server) register(conn *websocket.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx.Err() != nil {
		return false
	}
	s.live[conn] = struct{}{}
	s.sessions.Add(1)
	return true
}

func (s *Server) unregister(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.live, conn)
	s.mu.Unlock()
	_ = conn.Close()
	s.sessions.Done()
}

// readLoop processes messages one at a time until the connection closes.
func (ls *liveSession) readLoop(ctx context.Context) {
	for {
		_, data, err := ls.conn.ReadMessage()
		if err != nil {
			if errors.Is(err, websocket.ErrReadLimit) {
				ls.server.metrics.RecordWebSocketError("read_limit")
				ls.logger.Warn("message too large", "limit", ls.server.config.MaxMessageSize)
				return
			}
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				ls.server.metrics.RecordWebSocketError("read")
				ls.logger.Error("read error", "error", err)
			}
			return
		}

		reply := ls.handle(ctx, data)
		if err := ls.write(reply); err != nil {
			ls.server.metrics.RecordWebSocketError("write")
			ls.logger.Error("write error", "error", err)
			return
		}
	}
}

func (ls *liveSession) handle(ctx context.Context, data []byte) *LiveReply {
	var msg LiveMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		ls.server.metrics.RecordWebSocketError("decode")
		return errorReply("", naverrors.New("E403").Wrap(err))
	}

	nav, err := ls.dispatch(ctx, &msg)
	if err != nil {
		return errorReply(msg.Type, err)
	}
	return &LiveReply{
		ID:             nav.ID.String(),
		Type:           msg.Type,
		ResolutionView: NewResolutionView(nav.To, ls.resolver),
	}
}

func (ls *liveSession) dispatch(ctx context.Context, msg *LiveMessage) (*router.Navigation, error) {
	var opts []router.NavigateOption
	if len(msg.Query) > 0 {
		opts = append(opts, router.WithQuery(msg.Query))
	}

	switch msg.Type {
	case MessageNavigate:
		return ls.navigator.Navigate(ctx, msg.Location, opts...)
	case MessageReplace:
		return ls.navigator.Navigate(ctx, msg.Location, append(opts, router.WithReplace())...)
	case MessageBack:
		return ls.navigator.Back(ctx)
	case MessageForward:
		return ls.navigator.Forward(ctx)
	case MessageName:
		return ls.navigator.NavigateTo(ctx, msg.Name, msg.Params, opts...)
	default:
		ls.server.metrics.RecordWebSocketError("unknown_type")
		return nil, naverrors.New("E403").Wrap(fmt.Errorf("unknown message type %q", msg.Type))
	}
}

func errorReply(typ string, err error) *LiveReply {
	coded := naverrors.FromRouteError(err, "E403")
	return &LiveReply{
		Type:  typ,
		Error: err.Error(),
		Code:  coded.Code,
	}
}

func (ls *liveSession) write(reply *LiveReply) error {
	if err := ls.conn.SetWriteDeadline(deadline(ls.server.config.WriteTimeout)); err != nil {
		return err
	}
	return ls.conn.WriteJSON(reply)
}

func deadline(d time.Duration) time.Time {
	return time.Now().Add(d)
}
