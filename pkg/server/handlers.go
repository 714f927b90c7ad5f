package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/shouni/image-viewport-kit/pkg/domain"
	"github.com/shouni/image-viewport-kit/pkg/imgutil"
	"github.com/shouni/image-viewport-kit/pkg/viewport"
)

var errUnknownEvent = errors.New("unknown event type")

type openRequest struct {
	Source         string `json:"source"`
	ViewportWidth  int    `json:"viewport_width"`
	ViewportHeight int    `json:"viewport_height"`
}

type eventRequest struct {
	Type   string  `json:"type"`
	DeltaY float64 `json:"delta_y"`
	Action string  `json:"action"`
	Key    string  `json:"key"`
}

type sizeRequest struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type scrollRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type stateResponse struct {
	ID             string  `json:"id"`
	State          string  `json:"state"`
	Source         string  `json:"source,omitempty"`
	NaturalWidth   int     `json:"natural_width,omitempty"`
	NaturalHeight  int     `json:"natural_height,omitempty"`
	Zoom           float64 `json:"zoom,omitempty"`
	ViewportWidth  int     `json:"viewport_width"`
	ViewportHeight int     `json:"viewport_height"`
	RenderedWidth  float64 `json:"rendered_width,omitempty"`
	RenderedHeight float64 `json:"rendered_height,omitempty"`
	ScrollX        int     `json:"scroll_x"`
	ScrollY        int     `json:"scroll_y"`
	Affordance     string  `json:"affordance,omitempty"`
	Pending        bool    `json:"pending"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (v *viewer) state() stateResponse {
	snap := v.ctrl.Snapshot()
	vp := v.layout.ViewportSize()
	return stateResponse{
		ID:             v.id,
		State:          snap.State.String(),
		Source:         snap.Session.ImageSource,
		NaturalWidth:   snap.Session.NaturalWidth,
		NaturalHeight:  snap.Session.NaturalHeight,
		Zoom:           snap.Session.Zoom,
		ViewportWidth:  vp.Width,
		ViewportHeight: vp.Height,
		RenderedWidth:  snap.Geometry.RenderedWidth,
		RenderedHeight: snap.Geometry.RenderedHeight,
		ScrollX:        v.layout.scroll.X,
		ScrollY:        v.layout.scroll.Y,
		Affordance:     string(snap.Affordance),
		Pending:        snap.Pending,
	}
}

// toInputEvent は JSON の入力イベントを domain.InputEvent に変換します。
func (r eventRequest) toInputEvent() (domain.InputEvent, error) {
	switch r.Type {
	case "wheel":
		return domain.WheelEvent{DeltaY: r.DeltaY}, nil
	case "button":
		return domain.ButtonEvent{Action: domain.Action(r.Action)}, nil
	case "key":
		return domain.KeyEvent{Key: r.Key}, nil
	case "overlay":
		return domain.OverlayClickEvent{}, nil
	}
	return nil, fmt.Errorf("%w: %q", errUnknownEvent, r.Type)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleOpen(w http.ResponseWriter, r *http.Request) {
	var req openRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.Source == "" {
		writeError(w, http.StatusBadRequest, viewport.ErrEmptySource)
		return
	}

	// 寸法が取れない場合は Viewer を開かない
	meta, err := s.prober.Probe(r.Context(), req.Source)
	if err != nil {
		s.logger.WarnContext(r.Context(), "probe failed", "source", req.Source, "error", err)
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	vp := domain.ViewportSize{Width: req.ViewportWidth, Height: req.ViewportHeight}
	v, err := s.open(r.Context(), meta, vp)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	writeJSON(w, http.StatusCreated, v.state())
}

// withViewer はパスの {id} から Viewer を引き、そのミューテックスを保持したまま next を呼びます。
func (s *Server) withViewer(next func(http.ResponseWriter, *http.Request, *viewer)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, ok := s.lookup(r.PathValue("id"))
		if !ok {
			writeError(w, http.StatusNotFound, fmt.Errorf("viewer %q not found", r.PathValue("id")))
			return
		}
		v.mu.Lock()
		defer v.mu.Unlock()
		next(w, r, v)
	}
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request, v *viewer) {
	writeJSON(w, http.StatusOK, v.state())
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request, v *viewer) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	ev, err := req.toInputEvent()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	v.layout.emit(ev)
	if v.ctrl.State() == viewport.StateClosed {
		s.remove(v.id)
		s.logger.InfoContext(r.Context(), "viewer closed", "id", v.id, "event", req.Type)
	}
	writeJSON(w, http.StatusOK, v.state())
}

// handleLayout は画像要素のレイアウト完了通知です。
// 現在の描画サイズを確定させてから、予約されたセンタリングを実行します。
func (s *Server) handleLayout(w http.ResponseWriter, _ *http.Request, v *viewer) {
	v.layout.commit(v.ctrl.Snapshot().Geometry)
	v.ctrl.LayoutComplete()
	writeJSON(w, http.StatusOK, v.state())
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request, v *viewer) {
	var req sizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	v.layout.resize(domain.ViewportSize{Width: req.Width, Height: req.Height})
	writeJSON(w, http.StatusOK, v.state())
}

// handleScroll はドラッグやスクロールバーによるネイティブのスクロールです。
func (s *Server) handleScroll(w http.ResponseWriter, r *http.Request, v *viewer) {
	var req scrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	v.layout.ScrollTo(domain.ScrollOffset{X: req.X, Y: req.Y})
	writeJSON(w, http.StatusOK, v.state())
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request, v *viewer) {
	session, ok := v.ctrl.Session()
	if !ok {
		writeError(w, http.StatusConflict, viewport.ErrClosed)
		return
	}
	data, err := s.prober.Fetch(r.Context(), session.ImageSource)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}

	frame, err := imgutil.RenderViewport(data, session.Zoom, v.layout.scroll, v.layout.ViewportSize(), s.quality)
	if err != nil {
		if errors.Is(err, imgutil.ErrEmptyViewport) {
			writeError(w, http.StatusConflict, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(frame)
}

func (s *Server) handleCaption(w http.ResponseWriter, r *http.Request, v *viewer) {
	if s.captioner == nil {
		writeError(w, http.StatusNotFound, errors.New("captioning is not configured"))
		return
	}
	session, ok := v.ctrl.Session()
	if !ok {
		writeError(w, http.StatusConflict, viewport.ErrClosed)
		return
	}
	data, err := s.prober.Fetch(r.Context(), session.ImageSource)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	text, err := s.captioner.Describe(r.Context(), data)
	if err != nil {
		s.logger.WarnContext(r.Context(), "caption failed", "id", v.id, "error", err)
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": v.id, "caption": text})
}

func (s *Server) handleClose(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	v, ok := s.lookup(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("viewer %q not found", id))
		return
	}
	v.mu.Lock()
	v.ctrl.Close()
	v.mu.Unlock()
	s.remove(id)

	s.logger.InfoContext(r.Context(), "viewer closed", "id", id, "event", "delete")
	w.WriteHeader(http.StatusNoContent)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.LogAttrs(r.Context(), slog.LevelDebug, "http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("elapsed", time.Since(start)),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
