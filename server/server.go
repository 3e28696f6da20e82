// Package server exposes an engine over a websocket. Every text frame carries
// one message envelope; replies go back on the same connection.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/samber/lo"
	"github.com/vidscout/vidscout/log"
	"github.com/vidscout/vidscout/message"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10

	maxFrameSize = 8 << 20
	sendBuffer   = 64
)

// Handler processes decoded messages and optionally replies.
type Handler interface {
	Handle(msg any) (any, error)
}

// Options configure a Server.
type Options struct {
	Addr string
	// AllowedOrigins lists the Origin headers accepted on upgrade. "*" accepts
	// any. When empty, only browser-extension origins and clients that send no
	// Origin are accepted.
	AllowedOrigins []string
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Server is a websocket endpoint in front of a Handler.
type Server struct {
	handler  Handler
	opts     Options
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[string]*client
}

// New returns a Server for h.
func New(h Handler, opts Options) *Server {
	s := &Server{
		handler: h,
		opts:    opts,
		clients: make(map[string]*client),
	}

	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  32 << 10,
		WriteBufferSize: 32 << 10,
		CheckOrigin:     s.checkOrigin,
	}

	return s
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	if len(s.opts.AllowedOrigins) == 0 {
		u, err := url.Parse(origin)
		return err == nil && lo.Contains([]string{"chrome-extension", "moz-extension", "safari-web-extension"}, u.Scheme)
	}

	return lo.ContainsBy(s.opts.AllowedOrigins, func(allowed string) bool {
		return allowed == "*" || strings.EqualFold(allowed, origin)
	})
}

// Handler returns the HTTP routes: /ws and /healthz.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = fmt.Fprintf(w, "ok %d\n", s.Clients())
	})
	return mux
}

// ListenAndServe serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Infof("listening on %s", s.opts.Addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.closeAll()
		return srv.Shutdown(shutdownCtx)
	}
}

// Clients returns the number of open connections.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) add(c *client) {
	s.mu.Lock()
	s.clients[c.id] = c
	s.mu.Unlock()
}

func (s *Server) remove(c *client) {
	s.mu.Lock()
	delete(s.clients, c.id)
	s.mu.Unlock()
}

func (s *Server) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.clients {
		_ = c.conn.Close()
	}
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debugf("upgrade from %s: %s", r.RemoteAddr, err)
		return
	}

	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}

	s.add(c)
	log.Infof("client %s connected from %s", c.id, r.RemoteAddr)

	go s.writeLoop(c)
	s.readLoop(c)
}

// readLoop owns the connection teardown. It only drops the connection's own
// state; the registry is never touched on disconnect.
func (s *Server) readLoop(c *client) {
	defer func() {
		s.remove(c)
		close(c.send)
		_ = c.conn.Close()
		log.Infof("client %s disconnected", c.id)
	}()

	c.conn.SetReadLimit(maxFrameSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debugf("client %s: %s", c.id, err)
			}
			return
		}

		if kind != websocket.TextMessage {
			continue
		}

		reply := s.dispatch(c, data)
		if reply == nil {
			continue
		}

		select {
		case c.send <- reply:
		default:
			log.Warnf("client %s: send buffer full, dropping reply", c.id)
		}
	}
}

func (s *Server) dispatch(c *client, data []byte) []byte {
	msg, err := message.Decode(data)
	if err != nil {
		log.Debugf("client %s: %s", c.id, err)
		return s.encode(message.Error{Message: err.Error()})
	}

	reply, err := s.handler.Handle(msg)
	if err != nil {
		return s.encode(message.Error{Message: err.Error()})
	}

	if reply == nil {
		return nil
	}
	return s.encode(reply)
}

func (s *Server) encode(payload any) []byte {
	data, err := message.Encode(payload)
	if err != nil {
		log.Errorf("encode reply: %s", err)
		return nil
	}
	return data
}

func (s *Server) writeLoop(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				_ = c.conn.Close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = c.conn.Close()
				return
			}
		}
	}
}
