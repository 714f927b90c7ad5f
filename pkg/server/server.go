package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/shouni/image-viewport-kit/pkg/domain"
	"github.com/shouni/image-viewport-kit/pkg/viewport"
)

const defaultJPEGQuality = 75

// Prober は画像メタデータプローブです。probe.Prober がこれを満たします。
type Prober interface {
	Probe(ctx context.Context, source string) (*domain.ImageMetadata, error)
	Fetch(ctx context.Context, source string) ([]byte, error)
}

// Captioner は代替テキストの生成器です。caption.Captioner がこれを満たします。
type Captioner interface {
	Describe(ctx context.Context, data []byte) (string, error)
}

// Server は Viewer インスタンスを JSON API として公開するヘッドレスなホストです。
// Viewer ごとにミューテックスを持ち、入力イベントを到着順に1つずつ適用します。
type Server struct {
	prober    Prober
	captioner Captioner
	limits    viewport.Limits
	quality   int
	logger    *slog.Logger

	mu      sync.Mutex
	viewers map[string]*viewer
}

type viewer struct {
	mu     sync.Mutex
	id     string
	ctrl   *viewport.Controller
	layout *virtualLayout
}

// Option は Server の任意設定です。
type Option func(*Server)

func WithCaptioner(c Captioner) Option {
	return func(s *Server) { s.captioner = c }
}

func WithLimits(l viewport.Limits) Option {
	return func(s *Server) { s.limits = l }
}

func WithJPEGQuality(q int) Option {
	return func(s *Server) { s.quality = q }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// New は依存関係を注入して Server を生成します。
func New(prober Prober, opts ...Option) (*Server, error) {
	if prober == nil {
		return nil, fmt.Errorf("prober is required")
	}

	s := &Server{
		prober:  prober,
		limits:  viewport.DefaultLimits(),
		quality: defaultJPEGQuality,
		logger:  slog.Default(),
		viewers: make(map[string]*viewer),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.limits.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Handler はルーティング済みの http.Handler を返します。
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /viewers", s.handleOpen)
	mux.HandleFunc("GET /viewers/{id}", s.withViewer(s.handleState))
	mux.HandleFunc("DELETE /viewers/{id}", s.handleClose)
	mux.HandleFunc("POST /viewers/{id}/events", s.withViewer(s.handleEvent))
	mux.HandleFunc("POST /viewers/{id}/layout", s.withViewer(s.handleLayout))
	mux.HandleFunc("PUT /viewers/{id}/viewport", s.withViewer(s.handleResize))
	mux.HandleFunc("PUT /viewers/{id}/scroll", s.withViewer(s.handleScroll))
	mux.HandleFunc("GET /viewers/{id}/frame.jpg", s.withViewer(s.handleFrame))
	mux.HandleFunc("GET /viewers/{id}/caption", s.withViewer(s.handleCaption))
	return s.logRequests(mux)
}

// Len は開いている Viewer の数を返します。
func (s *Server) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.viewers)
}

func (s *Server) open(ctx context.Context, meta *domain.ImageMetadata, vp domain.ViewportSize) (*viewer, error) {
	layout := newVirtualLayout(vp)
	ctrl, err := viewport.NewController(layout,
		viewport.WithLimits(s.limits),
		viewport.WithInputSource(layout),
		viewport.WithLogger(s.logger),
	)
	if err != nil {
		return nil, err
	}
	if _, err := ctrl.Open(meta.Source, meta.Width, meta.Height); err != nil {
		return nil, err
	}

	v := &viewer{id: uuid.NewString(), ctrl: ctrl, layout: layout}
	s.mu.Lock()
	s.viewers[v.id] = v
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "viewer opened", "id", v.id, "source", meta.Source, "zoom", ctrl.Snapshot().Session.Zoom)
	return v, nil
}

func (s *Server) lookup(id string) (*viewer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.viewers[id]
	return v, ok
}

func (s *Server) remove(id string) {
	s.mu.Lock()
	delete(s.viewers, id)
	s.mu.Unlock()
}

// Shutdown はすべての Viewer を閉じます。
func (s *Server) Shutdown() {
	s.mu.Lock()
	viewers := s.viewers
	s.viewers = make(map[string]*viewer)
	s.mu.Unlock()

	for _, v := range viewers {
		v.mu.Lock()
		v.ctrl.Close()
		v.mu.Unlock()
	}
}
