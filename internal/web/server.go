package web

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"cydwatch/internal/core/stopwatch"
	"cydwatch/internal/logging"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const (
	writeTimeout    = 5 * time.Second
	shutdownTimeout = 5 * time.Second
)

// Options configures a Server.
type Options struct {
	Stopwatch    *stopwatch.Stopwatch
	Addr         string
	PushInterval time.Duration
	Log          *logrus.Entry
	// Info supplies the device section of the status page; nil uses the host.
	Info func() DeviceInfo
}

// Server is the remote monitor. It serves a status page, a JSON snapshot,
// a websocket feed and Prometheus metrics for one stopwatch.
type Server struct {
	watch *stopwatch.Stopwatch
	addr  string
	push  time.Duration
	log   *logrus.Entry
	info  func() DeviceInfo

	mux      *http.ServeMux
	metrics  *metrics
	upgrader websocket.Upgrader

	mu        sync.Mutex
	clients   map[*client]struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a Server; call Run to start listening.
func New(opts Options) *Server {
	push := opts.PushInterval
	if push <= 0 {
		push = time.Second
	}
	logger := opts.Log
	if logger == nil {
		logger = logging.Discard()
	}
	info := opts.Info
	if info == nil {
		info = HostInfo
	}

	server := &Server{
		watch: opts.Stopwatch,
		addr:  opts.Addr,
		push:  push,
		log:   logger,
		info:  info,
		mux:   http.NewServeMux(),
		upgrader: websocket.Upgrader{
			HandshakeTimeout: 10 * time.Second,
			CheckOrigin:      func(_ *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
		done:    make(chan struct{}),
	}
	server.metrics = newMetrics(opts.Stopwatch)

	server.mux.HandleFunc("/", server.handleIndex)
	server.mux.HandleFunc("/api", server.handleAPI)
	server.mux.HandleFunc("/ws", server.handleSocket)
	server.mux.Handle("/metrics", promhttp.HandlerFor(server.metrics.registry, promhttp.HandlerOpts{}))
	return server
}

// ServeHTTP implements http.Handler.
func (server *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	server.mux.ServeHTTP(w, r)
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully and closes every websocket client.
func (server *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", server.addr)
	if err != nil {
		return errors.Wrapf(err, "listen on %s", server.addr)
	}
	return server.Serve(ctx, listener)
}

// Serve is Run on an existing listener.
func (server *Server) Serve(ctx context.Context, listener net.Listener) error {
	httpServer := &http.Server{
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
	}

	events := server.watch.Subscribe(16)
	defer server.watch.Unsubscribe(events)
	go server.Track(ctx, events)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpServer.Serve(listener)
	}()
	server.log.WithField("addr", listener.Addr().String()).Info("web monitor listening")

	select {
	case err := <-serveErr:
		server.Close()
		return errors.Wrap(err, "serve web monitor")
	case <-ctx.Done():
	}

	server.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown web monitor")
	}
	server.log.Info("web monitor stopped")
	return nil
}

// Close stops every websocket client. It is safe to call more than once.
func (server *Server) Close() {
	server.closeOnce.Do(func() {
		close(server.done)
	})
}

// Track counts stopwatch transitions and wakes websocket clients for each
// event until events is closed, ctx is cancelled or the server is closed.
func (server *Server) Track(ctx context.Context, events <-chan stopwatch.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-server.done:
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			server.metrics.observe(event)
			server.notifyClients()
		}
	}
}

func (server *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	page := newStatusPage(server.watch.SessionStats(), server.watch.Lap(), server.info())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := statusTemplate.Execute(w, page); err != nil {
		server.log.WithError(err).Warn("render status page failed")
	}
}

func (server *Server) handleAPI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(server.watch.SessionStats()); err != nil {
		server.log.WithError(err).Warn("encode stats failed")
	}
}

func (server *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	if !websocket.IsWebSocketUpgrade(r) {
		http.Error(w, "websocket upgrade required", http.StatusBadRequest)
		return
	}
	ws, err := server.upgrader.Upgrade(w, r, nil)
	if err != nil {
		server.log.WithError(err).Debug("websocket upgrade failed")
		return
	}

	c := &client{ws: ws, notify: make(chan struct{}, 1), gone: make(chan struct{})}
	server.mu.Lock()
	server.clients[c] = struct{}{}
	server.mu.Unlock()
	server.log.WithField("remote", r.RemoteAddr).Debug("websocket client connected")

	go c.readLoop()
	server.writeLoop(c)

	server.mu.Lock()
	delete(server.clients, c)
	server.mu.Unlock()
	_ = ws.Close()
}

func (server *Server) notifyClients() {
	server.mu.Lock()
	defer server.mu.Unlock()
	for c := range server.clients {
		select {
		case c.notify <- struct{}{}:
		default:
		}
	}
}

// writeLoop sends a snapshot immediately, on every push tick and on every
// stopwatch event, until the client goes away or the server closes.
func (server *Server) writeLoop(c *client) {
	ticker := time.NewTicker(server.push)
	defer ticker.Stop()

	for {
		if err := c.send(server.watch.SessionStats()); err != nil {
			server.log.WithError(err).Debug("websocket client dropped")
			return
		}
		select {
		case <-server.done:
			_ = c.ws.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeTimeout))
			return
		case <-c.gone:
			return
		case <-ticker.C:
		case <-c.notify:
		}
	}
}

type client struct {
	ws     *websocket.Conn
	notify chan struct{}
	gone   chan struct{}
	mu     sync.Mutex
}

// readLoop discards incoming messages and marks the client gone when the
// connection fails.
func (c *client) readLoop() {
	defer close(c.gone)
	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) send(stats stopwatch.Stats) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.ws.WriteJSON(stats)
}
