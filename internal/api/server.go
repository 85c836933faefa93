// Package api exposes the preview and control HTTP surface: tree
// inspection, capture triggering, latest-frame retrieval and a
// websocket frame stream.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/jpeg"
	"image/png"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/viewsnap/viewsnap/internal/capture"
	"github.com/viewsnap/viewsnap/internal/config"
	"github.com/viewsnap/viewsnap/internal/element"
	"github.com/viewsnap/viewsnap/internal/frame"
	"github.com/viewsnap/viewsnap/internal/logger"
	"github.com/viewsnap/viewsnap/internal/sim"
	"github.com/viewsnap/viewsnap/internal/transform"
)

// streamInterval paces the websocket frame stream.
const streamInterval = 500 * time.Millisecond

// Server is the preview HTTP server.
type Server struct {
	router    *mux.Router
	orch      *capture.Orchestrator
	screen    *sim.Screen
	configMgr *config.Manager
	upgrader  websocket.Upgrader

	frameMu   sync.Mutex
	lastFrame *frame.Frame
}

// NewServer creates the preview server.
func NewServer(orch *capture.Orchestrator, screen *sim.Screen, configMgr *config.Manager) *Server {
	s := &Server{
		router:    mux.NewRouter(),
		orch:      orch,
		screen:    screen,
		configMgr: configMgr,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // local preview tool
			},
		},
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods("GET")
	api.HandleFunc("/config", s.handleGetConfig).Methods("GET")

	api.HandleFunc("/elements", s.handleListElements).Methods("GET")

	api.HandleFunc("/capture", s.handleCapture).Methods("POST")
	api.HandleFunc("/frame/latest", s.handleLatestFrame).Methods("GET")
	api.HandleFunc("/frame/thumbnail", s.handleThumbnail).Methods("GET")
	api.HandleFunc("/frame/stream", s.handleFrameStream)

	api.HandleFunc("/cache/invalidate", s.handleInvalidate).Methods("POST")
}

// ServeHTTP makes the server mountable as a plain http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start starts the HTTP server.
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	logger.WithComponent("api").Info().Str("addr", addr).Msg("Preview server listening")
	return http.ListenAndServe(addr, s.router)
}

type elementInfo struct {
	ID         string `json:"id"`
	ClassName  string `json:"class_name"`
	Kind       string `json:"kind"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Visibility string `json:"visibility"`
	Shown      bool   `json:"shown"`
	Depth      int    `json:"depth"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg := s.configMgr.Get()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cfg)
}

func (s *Server) handleListElements(w http.ResponseWriter, r *http.Request) {
	var out []elementInfo
	var walk func(el *element.Element, depth int)
	walk = func(el *element.Element, depth int) {
		out = append(out, elementInfo{
			ID:         el.ID,
			ClassName:  el.ClassName,
			Kind:       el.Kind.String(),
			Width:      el.Width,
			Height:     el.Height,
			Visibility: el.Visibility.String(),
			Shown:      el.IsShown(),
			Depth:      depth,
		})
		for _, child := range el.Children() {
			walk(child, depth+1)
		}
	}
	walk(s.screen.Root(), 0)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

func (s *Server) handleCapture(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ElementID string `json:"element_id"`
		Save      bool   `json:"save"`
	}
	if r.Body != nil {
		// An empty body means auto-detect without saving.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	var target *element.Element
	if req.ElementID != "" {
		target = findByID(s.screen.Root(), req.ElementID)
		if target == nil {
			http.Error(w, fmt.Sprintf("no element %q", req.ElementID), http.StatusNotFound)
			return
		}
	}

	appCfg := s.configMgr.Get()
	builder := capture.NewConfig().
		IncludeBackground(appCfg.IncludeBackground).
		StabilizationDelay(time.Duration(appCfg.StabilizationMs) * time.Millisecond)
	if req.Save {
		builder.SaveTo(appCfg.OutputDir, "")
	}
	cfg, err := builder.Build()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := s.orch.Capture(r.Context(), target, cfg)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := map[string]interface{}{"path": result.Path}
	if result.Frame != nil {
		resp["width"] = result.Frame.Width()
		resp["height"] = result.Frame.Height()
		s.setLastFrame(result.Frame)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleLatestFrame(w http.ResponseWriter, r *http.Request) {
	s.frameMu.Lock()
	defer s.frameMu.Unlock()

	if s.lastFrame == nil {
		http.Error(w, "no frame captured yet", http.StatusNotFound)
		return
	}
	img, err := s.lastFrame.Image()
	if err != nil {
		http.Error(w, err.Error(), http.StatusGone)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	png.Encode(w, img)
}

func (s *Server) handleThumbnail(w http.ResponseWriter, r *http.Request) {
	maxSide := 256
	if v := r.URL.Query().Get("size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			maxSide = n
		}
	}

	s.frameMu.Lock()
	defer s.frameMu.Unlock()

	if s.lastFrame == nil {
		http.Error(w, "no frame captured yet", http.StatusNotFound)
		return
	}
	img, err := s.lastFrame.Image()
	if err != nil {
		http.Error(w, err.Error(), http.StatusGone)
		return
	}
	thumb := transform.Thumbnail(img, uint(maxSide))
	w.Header().Set("Content-Type", "image/png")
	png.Encode(w, thumb)
}

// handleFrameStream pushes a fresh capture as JPEG over the websocket
// on a fixed cadence until the client goes away. Slow clients get
// frames dropped, never a blocked capture.
func (s *Server) handleFrameStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.WithComponent("api").Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(streamInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}

		fr, err := s.orch.CaptureFrameOnly(r.Context(), nil, true)
		if err != nil {
			// Transient not-ready states are expected mid-stream.
			continue
		}
		img, err := fr.Image()
		if err != nil {
			fr.Release()
			continue
		}
		buf := new(bytes.Buffer)
		encodeErr := jpeg.Encode(buf, img, &jpeg.Options{Quality: 80})
		fr.Release()
		if encodeErr != nil {
			continue
		}
		if err := conn.WriteMessage(websocket.BinaryMessage, buf.Bytes()); err != nil {
			return
		}
	}
}

func (s *Server) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	s.orch.InvalidateAll()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "success"})
}

// setLastFrame swaps in a new frame and releases the previous one; the
// server is the owner of whatever it displays.
func (s *Server) setLastFrame(fr *frame.Frame) {
	s.frameMu.Lock()
	defer s.frameMu.Unlock()
	if s.lastFrame != nil {
		s.lastFrame.Release()
	}
	s.lastFrame = fr
}

func findByID(el *element.Element, id string) *element.Element {
	if el.ID == id {
		return el
	}
	for _, child := range el.Children() {
		if found := findByID(child, id); found != nil {
			return found
		}
	}
	return nil
}
