package preview

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cverrors "github.com/cv-dev/cv/internal/errors"
	"github.com/cv-dev/cv/pkg/dom"
	"github.com/cv-dev/cv/pkg/metrics"
	"github.com/cv-dev/cv/pkg/vdom"
)

// Options configures the preview server.
type Options struct {
	// Addr is the listen address (host:port).
	Addr string

	// Loader resolves module markers in the page.
	Loader vdom.Loader

	// Logger receives server and engine logs. Defaults to slog.Default().
	Logger *slog.Logger

	// Strict makes the engine panic on malformed input.
	Strict bool

	// Registry enables /metrics when set. Engine metrics are registered
	// on it under Namespace.
	Registry  *prometheus.Registry
	Namespace string
}

// Server serves a live, enhanced page. The page is kept as a server-side
// document; browser events are dispatched into it and every re-render is
// pushed to all connected clients.
type Server struct {
	options  Options
	logger   *slog.Logger
	doc      *dom.MemoryDocument
	engine   *vdom.Engine
	hub      *hub
	router   chi.Router
	renders  renderCounter
	enhanced int

	// mu guards doc and engine; reactive effects run on the dispatching
	// goroutine.
	mu sync.Mutex

	httpServer *http.Server
}

// New parses page, enhances its module markers and returns a server ready
// to handle requests. Module errors are logged; the page is served with
// the affected elements left static.
func New(ctx context.Context, page io.Reader, options Options) (*Server, error) {
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	doc, err := dom.ParseHTML(page)
	if err != nil {
		return nil, err
	}

	s := &Server{
		options: options,
		logger:  logger,
		doc:     doc,
		hub:     newHub(logger),
	}

	observers := []vdom.Observer{&s.renders}
	if options.Registry != nil {
		mopts := []metrics.Option{metrics.WithRegistry(options.Registry)}
		if options.Namespace != "" {
			mopts = append(mopts, metrics.WithNamespace(options.Namespace))
		}
		observers = append(observers, metrics.New(mopts...))
	}

	s.engine = vdom.New(doc,
		vdom.WithLoader(options.Loader),
		vdom.WithLogger(logger),
		vdom.WithObserver(vdom.Observers(observers...)),
		vdom.WithStrict(options.Strict),
	)

	s.mu.Lock()
	n, err := s.engine.Enhance(ctx, doc.Body())
	s.mu.Unlock()
	s.enhanced = n
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warn("page enhanced with errors", "enhanced", n, "error", err)
	} else {
		logger.Info("page enhanced", "enhanced", n)
	}

	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", s.handlePage)
	r.Get(ClientPath, s.handleClient)
	r.Get(SocketPath, s.handleSocket)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	if s.options.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.options.Registry, promhttp.HandlerOpts{}))
	}
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Enhanced returns the number of module markers virtualized at startup.
func (s *Server) Enhanced() int {
	return s.enhanced
}

// Clients returns the number of connected preview clients.
func (s *Server) Clients() int {
	return s.hub.count()
}

// HTML returns the current body markup.
func (s *Server) HTML() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return dom.InnerHTML(s.doc.Body())
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	var sb strings.Builder
	s.mu.Lock()
	err := dom.WriteDocument(&sb, s.doc)
	s.mu.Unlock()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	page := sb.String()
	script := fmt.Sprintf(`<script src="%s"></script>`, ClientPath)
	if i := strings.LastIndex(page, "</body>"); i >= 0 {
		page = page[:i] + script + page[i:]
	} else {
		page += script
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, page)
}

func (s *Server) handleClient(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	io.WriteString(w, ClientScript)
}

func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	s.hub.serve(w, r,
		func(id string) Message {
			return Message{Type: MessageHello, Client: id, HTML: s.HTML()}
		},
		func(id string, msg Message) *Message {
			if msg.Type != MessageEvent {
				return nil
			}
			if err := s.Dispatch(msg.Path, dom.Event{Type: msg.Event, Value: msg.Value}); err != nil {
				s.logger.Debug("preview dispatch failed", "client", id, "error", err)
				return &Message{Type: MessageError, Error: err.Error()}
			}
			return nil
		},
	)
}

// Dispatch delivers ev to the element at path, a list of child-node
// indexes starting at the body. Input and change events update the live
// value of form controls first. When the dispatch re-renders anything,
// the new body markup is broadcast to all clients.
func (s *Server) Dispatch(path []int, ev dom.Event) error {
	s.mu.Lock()
	el, err := s.elementAt(path)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	if ve, ok := el.(dom.ValueElement); ok {
		switch strings.ToLower(ev.Type) {
		case "input", "change":
			ve.SetValue(ev.Value)
		}
	}

	before := s.renders.load()
	el.DispatchEvent(ev)
	changed := s.renders.load() != before
	var html string
	if changed {
		html = dom.InnerHTML(s.doc.Body())
	}
	s.mu.Unlock()

	if changed {
		s.hub.broadcast(Message{Type: MessageRender, HTML: html})
	}
	return nil
}

func (s *Server) elementAt(path []int) (dom.Element, error) {
	el := s.doc.Body()
	for depth, i := range path {
		children := el.ChildNodes()
		if i < 0 || i >= len(children) {
			return nil, cverrors.New("CV402").WithDetailf("path %v ends at depth %d", path, depth)
		}
		next, ok := children[i].(dom.Element)
		if !ok {
			return nil, cverrors.New("CV402").WithDetailf("path %v reaches a text node at depth %d", path, depth)
		}
		el = next
	}
	return el, nil
}

// ListenAndServe serves until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:    s.options.Addr,
		Handler: s,
	}

	s.logger.Info("preview server running", "addr", s.options.Addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		s.Close()
		return nil
	case err := <-errCh:
		s.Close()
		return err
	}
}

// Close disconnects all clients and stops the HTTP server.
func (s *Server) Close() {
	s.hub.close()
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.httpServer.Shutdown(ctx)
	}
}

// renderCounter counts rendered nodes so a dispatch can tell whether
// anything changed.
type renderCounter struct {
	vdom.NopObserver
	n atomic.Int64
}

func (c *renderCounter) NodeRendered(dom.NodeType) { c.n.Add(1) }

func (c *renderCounter) load() int64 { return c.n.Load() }
