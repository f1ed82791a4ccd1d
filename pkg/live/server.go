package live

import (
	"context"
	_ "embed"
	"errors"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/popover/pkg/observe"
)

//go:embed client.js
var clientJS []byte

//go:embed page.html
var pageHTML string

var pageTemplate = template.Must(template.New("page").Parse(pageHTML))

// Element ids shared by the page and the session document.
const (
	contentNode = "content"
	arrowNode   = "arrow"
	closeNode   = "close"
)

func triggerNode(i int) string {
	return "trigger-" + strconv.Itoa(i)
}

// Server serves the page and one popover session per websocket.
type Server struct {
	config   *Config
	upgrader websocket.Upgrader
	logger   *slog.Logger
	tracer   trace.Tracer
	provider trace.TracerProvider

	metrics  *observe.Metrics
	sessions prometheus.Gauge

	mu     sync.Mutex
	active map[string]*Session
	wg     sync.WaitGroup
}

// New creates a server. A nil config uses DefaultConfig.
func New(config *Config) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	config.applyDefaults()

	provider := config.TracerProvider
	if provider == nil {
		provider = otel.GetTracerProvider()
	}

	s := &Server{
		config: config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     config.CheckOrigin,
		},
		logger:   config.Logger,
		provider: provider,
		tracer:   provider.Tracer("popover/live"),
		active:   make(map[string]*Session),
	}

	if config.Registry != nil {
		s.metrics = observe.NewMetrics(observe.WithRegistry(config.Registry))
		s.sessions = promauto.With(config.Registry).NewGauge(prometheus.GaugeOpts{
			Namespace: "popover",
			Subsystem: "live",
			Name:      "sessions",
			Help:      "Number of connected live sessions",
		})
	}
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handlePage)
	r.Get("/client.js", s.handleClientJS)
	r.Get("/ws", s.HandleWebSocket)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	if s.config.Registry != nil && s.config.MetricsPath != "" {
		r.Handle(s.config.MetricsPath, promhttp.HandlerFor(s.config.Registry, promhttp.HandlerOpts{}))
	}
	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down and
// waits for sessions to end.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("live server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.closeAll()
	s.wg.Wait()
	s.logger.Info("live server stopped")
	return err
}

// SessionCount returns the number of connected sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active)
}

type pageData struct {
	Title    string
	Triggers []pageTrigger
	Content  string
	Arrow    string
	Close    string
}

type pageTrigger struct {
	Node  string
	Label string
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	data := pageData{
		Title:   s.config.Title,
		Content: contentNode,
		Arrow:   arrowNode,
		Close:   closeNode,
	}
	for i, label := range s.config.Triggers {
		data.Triggers = append(data.Triggers, pageTrigger{Node: triggerNode(i), Label: label})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		s.logger.Error("page render failed", "error", err, "request_id", middleware.GetReqID(r.Context()))
	}
}

func (s *Server) handleClientJS(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	_, _ = w.Write(clientJS)
}

// HandleWebSocket upgrades the request and runs a session until the
// connection closes.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	conn.SetReadLimit(s.config.ReadLimit)

	sess := newSession(s, conn)
	s.track(sess)
	defer s.untrack(sess)

	if err := sess.run(r.Context()); err != nil {
		sess.logger.Info("session ended", "reason", err)
	}
}

func (s *Server) track(sess *Session) {
	s.wg.Add(1)
	s.mu.Lock()
	s.active[sess.ID] = sess
	s.mu.Unlock()
	if s.sessions != nil {
		s.sessions.Inc()
	}
}

func (s *Server) untrack(sess *Session) {
	s.mu.Lock()
	delete(s.active, sess.ID)
	s.mu.Unlock()
	if s.sessions != nil {
		s.sessions.Dec()
	}
	s.wg.Done()
}

func (s *Server) closeAll() {
	s.mu.Lock()
	sessions := make([]*Session, 0, len(s.active))
	for _, sess := range s.active {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.Close()
	}
}
