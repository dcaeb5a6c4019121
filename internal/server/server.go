// Package server exposes the hex operations over websocket connections.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"

	"github.com/gravitas-games/hexgeo/internal/config"
	"github.com/gravitas-games/hexgeo/internal/network"
)

// tokenProtocol is the websocket subprotocol that carries the JWT
const tokenProtocol = "access_token"

// Server represents the query service
type Server struct {
	config   *config.Config
	logger   *log.Logger
	session  *Session
	upgrader websocket.Upgrader
	httpSrv  *http.Server
	auth     Authenticator
	redis    *redis.Client

	// Connection tracking
	connections map[*Connection]bool
	connMu      sync.RWMutex

	// Shutdown
	ctx    context.Context
	cancel context.CancelFunc
}

// Option customizes a Server
type Option func(*Server)

// WithAuthenticator replaces the authenticator derived from the config
func WithAuthenticator(a Authenticator) Option {
	return func(s *Server) { s.auth = a }
}

// New creates a new server instance. Redis is only dialed when an
// address is configured; JWT validation is skipped when jwt.disabled is
// set or an authenticator is supplied.
func New(ctx context.Context, cfg *config.Config, logger *log.Logger, opts ...Option) (*Server, error) {
	logger.Info("initializing server")

	srvCtx, cancel := context.WithCancel(context.Background())

	srv := &Server{
		config:      cfg,
		logger:      logger,
		connections: make(map[*Connection]bool),
		ctx:         srvCtx,
		cancel:      cancel,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			Subprotocols:    []string{tokenProtocol},
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	for _, opt := range opts {
		opt(srv)
	}

	if srv.auth == nil {
		if err := srv.initAuth(ctx); err != nil {
			cancel()
			srv.closeRedis()
			return nil, err
		}
	}

	srv.session = NewSession("main", logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", srv.handleWebSocket)
	mux.HandleFunc("/health", srv.handleHealth)

	srv.httpSrv = &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server initialized", "addr", cfg.Server.Addr())
	return srv, nil
}

func (s *Server) initAuth(ctx context.Context) error {
	if s.config.JWT.Disabled {
		s.logger.Warn("JWT authentication disabled, accepting anonymous clients")
		s.auth = AnonymousAuth{}
		return nil
	}

	var blacklist Blacklist
	if s.config.Redis.Address != "" {
		s.redis = redis.NewClient(&redis.Options{
			Addr:     s.config.Redis.Address,
			Password: s.config.Redis.Password,
			DB:       s.config.Redis.DB,
		})
		if err := s.redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		s.logger.Info("connected to Redis", "addr", s.config.Redis.Address)
		blacklist = NewRedisBlacklist(s.redis, s.config.Redis.BlacklistPrefix)
	}

	validator, err := NewJWTValidator(ctx, s.config.JWT, blacklist, s.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize JWT validator: %w", err)
	}
	go validator.Run(s.ctx)
	s.auth = validator
	return nil
}

// Handler returns the HTTP routes of the service
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// Start listens on the configured address and blocks until Shutdown
func (s *Server) Start() error {
	s.logger.Info("websocket endpoint", "url", fmt.Sprintf("ws://%s/ws", s.httpSrv.Addr))
	s.logger.Info("health endpoint", "url", fmt.Sprintf("http://%s/health", s.httpSrv.Addr))

	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")

	s.session.SetState(StateStopping)
	s.session.BroadcastMessage(&network.ServerMessage{
		Type:    network.MsgTypeSessionStatus,
		Payload: s.session.GetStatus(),
	})

	// Cancel context to signal shutdown
	s.cancel()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var errs []error
	if err := s.httpSrv.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}

	s.connMu.Lock()
	for conn := range s.connections {
		conn.Close()
	}
	s.connMu.Unlock()

	if err := s.closeRedis(); err != nil {
		errs = append(errs, fmt.Errorf("redis close: %w", err))
	}

	s.logger.Info("server shutdown complete")
	return errors.Join(errs...)
}

func (s *Server) closeRedis() error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Close()
}

// handleWebSocket handles WebSocket connection requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("websocket connection request", "remote", r.RemoteAddr)

	encoding, err := network.ParseEncoding(r.URL.Query().Get("encoding"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	client, err := s.auth.Authenticate(r.Context(), r)
	if err != nil {
		s.logger.Warn("authentication failed", "remote", r.RemoteAddr, "err", err)
		http.Error(w, fmt.Sprintf("Invalid token: %v", err), http.StatusUnauthorized)
		return
	}
	if !client.IsActive() {
		http.Error(w, "Account not active", http.StatusForbidden)
		return
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}

	conn := NewConnection(ws, s, client, encoding)

	s.connMu.Lock()
	s.connections[conn] = true
	s.connMu.Unlock()

	conn.logger.Info("websocket connection established", "user", client.Username, "remote", r.RemoteAddr, "encoding", encoding)

	// Handle connection (blocking)
	conn.Handle()

	s.connMu.Lock()
	delete(s.connections, conn)
	s.connMu.Unlock()

	conn.logger.Info("websocket connection closed", "user", client.Username)
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := s.session.GetStatus()
	code := http.StatusOK
	if status.State != StateRunning {
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(status); err != nil {
		s.logger.Warn("failed to write health response", "err", err)
	}
}
