// Package remote serves live preset tuning over a websocket.
//
// An editor connects to /ws and sends presets as YAML or JSON text
// messages. Each message is validated and acknowledged; accepted presets
// are handed to the frame loop through Poll, where the newest update wins.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gonewx/wellspring/pkg/config"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 5 * time.Second
	maxMessageSize = 64 << 10
)

// Ack is the reply to every preset message.
type Ack struct {
	OK    bool   `json:"ok"`
	Name  string `json:"name,omitempty"`
	Error string `json:"error,omitempty"`
}

// Server is an http.Handler for the tuning endpoints:
//
//	GET /schema  JSON schema of a preset
//	GET /ws      websocket; text messages are presets
type Server struct {
	mux      *http.ServeMux
	upgrader websocket.Upgrader
	schema   []byte

	mu      sync.Mutex
	pending *config.EffectConfig
	clients int
}

// NewServer builds the handler. The schema is rendered once.
func NewServer() (*Server, error) {
	schema, err := config.Schema()
	if err != nil {
		return nil, err
	}
	s := &Server{
		mux:    http.NewServeMux(),
		schema: schema,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// local tool; editors run from file:// or other ports
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	s.mux.HandleFunc("GET /schema", s.handleSchema)
	s.mux.HandleFunc("GET /ws", s.handleWS)
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("[Remote] tuning server listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Poll returns the most recent accepted preset since the last call.
// It never blocks.
func (s *Server) Poll() (*config.EffectConfig, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := s.pending
	s.pending = nil
	return cfg, cfg != nil
}

// Clients returns the number of connected editors.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clients
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/schema+json")
	w.Write(s.schema)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Remote] upgrade failed for %s: %v", r.RemoteAddr, err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	s.mu.Lock()
	s.clients++
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.clients--
		s.mu.Unlock()
	}()
	log.Printf("[Remote] editor connected: %s", r.RemoteAddr)

	for {
		msgType, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[Remote] read failed for %s: %v", r.RemoteAddr, err)
			}
			return
		}
		if msgType != websocket.TextMessage {
			if err := s.reply(conn, Ack{Error: "presets must be sent as text messages"}); err != nil {
				return
			}
			continue
		}

		ack := s.accept(payload)
		if err := s.reply(conn, ack); err != nil {
			log.Printf("[Remote] write failed for %s: %v", r.RemoteAddr, err)
			return
		}
	}
}

// accept parses and queues one preset.
func (s *Server) accept(payload []byte) Ack {
	cfg, err := config.ParseEffectConfig(payload)
	if err != nil {
		return Ack{Error: err.Error()}
	}
	s.mu.Lock()
	s.pending = cfg
	s.mu.Unlock()
	log.Printf("[Remote] preset %s queued", cfg.Name)
	return Ack{OK: true, Name: cfg.Name}
}

func (s *Server) reply(conn *websocket.Conn, ack Ack) error {
	data, err := json.Marshal(ack)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, data)
}
