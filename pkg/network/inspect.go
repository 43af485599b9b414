// Package network exposes the running game to external tools: an HTTP
// endpoint with the latest frame snapshot and a websocket stream of frames.
package network

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultAddr is the inspect server's listen address
	DefaultAddr = "127.0.0.1:7070"

	snapshotBuffer = 16
	writeTimeout   = time.Second
	shutdownGrace  = 2 * time.Second
)

// Snapshot describes one finished frame
type Snapshot struct {
	Frame    uint64     `json:"frame"`
	State    string     `json:"state"`
	Redrawn  bool       `json:"redrawn"`
	Position [3]float32 `json:"position"`
	Pitch    float32    `json:"pitch"`
	Yaw      float32    `json:"yaw"`
	Nodes    int        `json:"nodes"`
	Time     time.Time  `json:"time"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// InspectServer serves snapshots published by the game loop
type InspectServer struct {
	addr string
	log  *zap.Logger

	snapshots chan Snapshot

	mu      sync.RWMutex
	latest  *Snapshot
	clients map[*websocket.Conn]*sync.Mutex
}

// NewInspectServer creates a server for addr; it does not listen until Run
func NewInspectServer(addr string, log *zap.Logger) *InspectServer {
	if addr == "" {
		addr = DefaultAddr
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &InspectServer{
		addr:      addr,
		log:       log,
		snapshots: make(chan Snapshot, snapshotBuffer),
		clients:   make(map[*websocket.Conn]*sync.Mutex),
	}
}

// Publish queues s for broadcast. It never blocks; when subscribers fall
// behind, the snapshot is dropped and false is returned.
func (s *InspectServer) Publish(snap Snapshot) bool {
	select {
	case s.snapshots <- snap:
		return true
	default:
		return false
	}
}

// Handler returns the HTTP routes of the server
func (s *InspectServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/snapshot", s.handleSnapshot)
	mux.HandleFunc("/ws", s.handleWebSocket)
	return mux
}

// Run listens on the configured address and broadcasts snapshots until ctx is done
func (s *InspectServer) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, lis)
}

// Serve is Run on an existing listener
func (s *InspectServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("inspect server listening", zap.String("addr", lis.Addr().String()))
		if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return s.Broadcast(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		s.closeClients()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Broadcast forwards published snapshots to websocket clients until ctx is done
func (s *InspectServer) Broadcast(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case snap := <-s.snapshots:
			s.mu.Lock()
			s.latest = &snap
			s.mu.Unlock()
			s.broadcast(snap)
		}
	}
}

// Latest returns the most recent broadcast snapshot
func (s *InspectServer) Latest() (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return Snapshot{}, false
	}
	return *s.latest, true
}

// Clients returns the number of connected websocket clients
func (s *InspectServer) Clients() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *InspectServer) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	snap, ok := s.Latest()
	if !ok {
		http.Error(w, "no frame rendered yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		s.log.Warn("failed to write snapshot", zap.Error(err))
	}
}

func (s *InspectServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	connMutex := &sync.Mutex{}
	s.mu.Lock()
	s.clients[conn] = connMutex
	latest := s.latest
	s.mu.Unlock()
	defer s.removeClient(conn)

	s.log.Debug("inspect client connected", zap.String("remote", r.RemoteAddr))

	if latest != nil {
		if err := write(conn, connMutex, *latest); err != nil {
			return
		}
	}

	// drain until the peer goes away
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			s.log.Debug("inspect client disconnected", zap.String("remote", r.RemoteAddr), zap.Error(err))
			return
		}
	}
}

func (s *InspectServer) broadcast(snap Snapshot) {
	s.mu.RLock()
	clients := make(map[*websocket.Conn]*sync.Mutex, len(s.clients))
	for c, m := range s.clients {
		clients[c] = m
	}
	s.mu.RUnlock()

	for conn, m := range clients {
		if err := write(conn, m, snap); err != nil {
			s.log.Debug("dropping inspect client", zap.Error(err))
			s.removeClient(conn)
			conn.Close()
		}
	}
}

func write(conn *websocket.Conn, m *sync.Mutex, snap Snapshot) error {
	m.Lock()
	defer m.Unlock()
	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(snap)
}

func (s *InspectServer) removeClient(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.clients, conn)
	s.mu.Unlock()
}

func (s *InspectServer) closeClients() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn, m := range s.clients {
		m.Lock()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(writeTimeout))
		m.Unlock()
		conn.Close()
		delete(s.clients, conn)
	}
}
