package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"docinspect/src/auth"
	"docinspect/src/helpers"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// InspectorPath is where debugger frontends open their websocket.
const InspectorPath = "/inspector"

// Dispatcher executes one JSON-RPC method on behalf of a peer. Returning an *RPCError
// selects the error code; any other error is sent as CodeInternalError.
type Dispatcher interface {
	Dispatch(ctx context.Context, peer *Peer, method string, params json.RawMessage) (interface{}, error)
}

// Config holds the listener settings of the bridge.
type Config struct {
	Host    string
	Port    int
	Title   string // target title shown by /json
	Version string

	// Credentials, when set, require basic auth on every route but /healthz.
	Credentials *auth.Credentials

	ShutdownTimeout time.Duration
}

// Server is the HTTP/websocket bridge debugger frontends connect to.
type Server struct {
	config     Config
	dispatcher Dispatcher
	router     *mux.Router
	upgrader   websocket.Upgrader
	logger     *zap.SugaredLogger

	mu    sync.Mutex
	peers map[string]*Peer
	wg    sync.WaitGroup
}

func NewServer(config Config, dispatcher Dispatcher, logger *zap.SugaredLogger) *Server {
	if config.ShutdownTimeout == 0 {
		config.ShutdownTimeout = 5 * time.Second
	}
	s := &Server{
		config:     config,
		dispatcher: dispatcher,
		logger:     logger,
		peers:      make(map[string]*Peer),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Frontends are served from arbitrary origins.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	}).Methods(http.MethodGet)

	protected := r.NewRoute().Subrouter()
	protected.HandleFunc(InspectorPath, s.handleInspector)
	protected.HandleFunc("/json", s.handleTargets).Methods(http.MethodGet)
	protected.HandleFunc("/json/list", s.handleTargets).Methods(http.MethodGet)
	protected.HandleFunc("/json/version", s.handleVersion).Methods(http.MethodGet)
	protected.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	if s.config.Credentials != nil {
		protected.Use(func(next http.Handler) http.Handler {
			return s.config.Credentials.BasicAuth("docinspect", next)
		})
	}
	return r
}

// Handler returns the HTTP handler serving every bridge route.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr is the configured listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully and closes
// every peer.
func (s *Server) ListenAndServe(ctx context.Context) error {
	l, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return fmt.Errorf("error starting server on %s: %w", s.Addr(), err)
	}
	return s.Serve(ctx, l)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- httpServer.Serve(l) }()
	s.logger.Infow("Inspector bridge listening", "addr", l.Addr().String())

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving %s: %w", l.Addr(), err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	err := httpServer.Shutdown(shutdownCtx)
	s.Stop()

	s.logger.Info("Server shutdown complete")
	_ = s.logger.Sync()
	if err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

// Stop closes every connected peer and waits for their read loops to finish.
func (s *Server) Stop() {
	s.mu.Lock()
	peers := make([]*Peer, 0, len(s.peers))
	for _, p := range s.peers {
		peers = append(peers, p)
	}
	s.mu.Unlock()

	for _, p := range peers {
		_ = p.Close()
	}
	s.wg.Wait()
}

// PeerCount returns the number of open connections.
func (s *Server) PeerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.peers)
}

func (s *Server) handleInspector(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		s.logger.Warnw("Websocket upgrade failed", "remoteAddr", r.RemoteAddr, "error", err)
		return
	}

	id := helpers.GenerateUUID()
	peer := newPeer(id, conn, s.logger.With("peerID", id, "remoteAddr", conn.RemoteAddr().String()))
	if user, _, ok := r.BasicAuth(); ok {
		peer.User = user
	}

	s.mu.Lock()
	s.peers[id] = peer
	s.mu.Unlock()
	s.wg.Add(1)
	connectedPeers.Inc()

	peer.Logger.Info("Peer connected")
	go s.readLoop(peer)
}

// readLoop handles the frames of one peer in order until the connection ends.
func (s *Server) readLoop(peer *Peer) {
	defer func() {
		_ = peer.Close()
		s.mu.Lock()
		delete(s.peers, peer.ID)
		s.mu.Unlock()
		connectedPeers.Dec()
		peer.Logger.Info("Peer disconnected")
		s.wg.Done()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	peer.OnClose(cancel)

	for {
		_, data, err := peer.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				peer.Logger.Warnw("Error reading from peer", "error", err)
			}
			return
		}

		resp := s.handleFrame(ctx, peer, data)
		if resp == nil {
			continue
		}
		if err := peer.Send(resp); err != nil {
			peer.Logger.Warnw("Error writing to peer", "error", err)
			return
		}
	}
}

// handleFrame parses and dispatches one frame. It returns nil for notifications.
func (s *Server) handleFrame(ctx context.Context, peer *Peer, data []byte) *Response {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		requestsTotal.WithLabelValues("", strconv.Itoa(CodeParseError)).Inc()
		peer.Logger.Debugw("Malformed frame", "error", err)
		return &Response{ID: &nullID, Error: NewRPCError(CodeParseError, "parse error: %v", err)}
	}
	if req.Method == "" {
		requestsTotal.WithLabelValues("", strconv.Itoa(CodeInvalidRequest)).Inc()
		return &Response{ID: idOrNull(req.ID), Error: NewRPCError(CodeInvalidRequest, "method is required")}
	}

	peer.Logger.Debugw("Received request", "method", req.Method)
	result, err := s.dispatcher.Dispatch(ctx, peer, req.Method, req.Params)

	code := 0
	var rpcErr *RPCError
	if err != nil {
		if !errors.As(err, &rpcErr) {
			rpcErr = &RPCError{Code: CodeInternalError, Message: err.Error()}
		}
		code = rpcErr.Code
		peer.Logger.Debugw("Request failed", "method", req.Method, "error", rpcErr)
	}

	method := req.Method
	if code == CodeMethodNotFound {
		method = "unknown"
	}
	requestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()

	if req.ID == nil {
		return nil
	}
	if rpcErr != nil {
		return &Response{ID: req.ID, Error: rpcErr}
	}
	if result == nil {
		result = struct{}{}
	}
	return &Response{ID: req.ID, Result: result}
}

func idOrNull(id *json.RawMessage) *json.RawMessage {
	if id == nil {
		return &nullID
	}
	return id
}
