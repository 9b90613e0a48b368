package relaysim

import (
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/waterbot/internal/logging"
)

// Options configures a Server. Zero values pick the defaults.
type Options struct {
	Key   string
	Thing string
	// Frames limits each stream response; 0 streams until the client
	// goes away.
	Frames        int
	FrameInterval time.Duration
	Width, Height int
	// NumericValues makes channel reads return JSON numbers instead of
	// strings.
	NumericValues bool
	Logger        logging.Logger
}

// Command is one accepted channel write.
type Command struct {
	Channel string
	Value   string
	At      time.Time
}

// Server simulates the relay service and the robot camera.
type Server struct {
	opts   Options
	logger logging.Logger

	mu          sync.Mutex
	channels    map[string]string
	commands    []Command
	cameraDown  bool
	streamFails bool
	frameNo     int
}

// New constructs a simulator with every channel at 0.
func New(opts Options) *Server {
	if opts.Thing == "" {
		opts.Thing = "WaterRobot"
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = 100 * time.Millisecond
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 160, 120
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}
	return &Server{
		opts:   opts,
		logger: opts.Logger.With("module", "relaysim"),
		channels: map[string]string{
			"control":    "0",
			"pump":       "0",
			"Arm_on_off": "0",
		},
	}
}

// Handler returns the routes of the relay API and the camera.
func (s *Server) Handler() http.Handler {
	mux := chi.NewRouter()

	mux.With(s.keyMiddleware).Get("/channel/get/{key}/{thing}/{channel}", s.handleGet)
	mux.With(s.keyMiddleware).Get("/channel/set/{key}/{thing}/{channel}/{value}", s.handleSet)

	mux.Head("/", s.handleProbe)
	mux.Get("/", s.handleProbe)
	mux.Get("/stream", s.handleStream)
	mux.Get("/capture", s.handleCapture)

	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) keyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.opts.Key != "" && chi.URLParam(r, "key") != s.opts.Key {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid key"})
			return
		}
		if chi.URLParam(r, "thing") != s.opts.Thing {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown thing"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	ch := chi.URLParam(r, "channel")

	s.mu.Lock()
	v, ok := s.channels[ch]
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown channel"})
		return
	}

	if s.opts.NumericValues {
		if n, err := strconv.Atoi(v); err == nil {
			writeJSON(w, http.StatusOK, map[string]any{"value": n})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"value": v})
}

func (s *Server) handleSet(w http.ResponseWriter, r *http.Request) {
	ch := chi.URLParam(r, "channel")
	v := chi.URLParam(r, "value")

	s.mu.Lock()
	s.channels[ch] = v
	s.commands = append(s.commands, Command{Channel: ch, Value: v, At: time.Now()})
	s.mu.Unlock()

	s.logger.Info(r.Context(), "channel set", "channel", ch, "value", v)
	writeJSON(w, http.StatusOK, map[string]any{"result": true})
}

func (s *Server) handleProbe(w http.ResponseWriter, r *http.Request) {
	if s.CameraDown() {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) nextFrame() ([]byte, error) {
	s.mu.Lock()
	n := s.frameNo
	s.frameNo++
	s.mu.Unlock()
	return Frame(n, s.opts.Width, s.opts.Height)
}

func (s *Server) handleCapture(w http.ResponseWriter, r *http.Request) {
	if s.CameraDown() {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	b, err := s.nextFrame()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(b)))
	_, _ = w.Write(b)
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	down, fails := s.cameraDown, s.streamFails
	s.mu.Unlock()
	if down || fails {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	mw := multipart.NewWriter(w)
	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary="+mw.Boundary())
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)

	ticker := time.NewTicker(s.opts.FrameInterval)
	defer ticker.Stop()

	for sent := 0; s.opts.Frames == 0 || sent < s.opts.Frames; sent++ {
		if err := s.writePart(mw); err != nil {
			s.logger.Debug(r.Context(), "stream ended", "error", err)
			return
		}
		if flusher != nil {
			flusher.Flush()
		}

		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
	_ = mw.Close()
}

func (s *Server) writePart(mw *multipart.Writer) error {
	b, err := s.nextFrame()
	if err != nil {
		return err
	}
	h := textproto.MIMEHeader{}
	h.Set("Content-Type", "image/jpeg")
	h.Set("Content-Length", strconv.Itoa(len(b)))
	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = part.Write(b)
	return err
}

// SetCameraDown makes the probe, stream and capture endpoints fail.
func (s *Server) SetCameraDown(down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cameraDown = down
}

func (s *Server) CameraDown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cameraDown
}

// SetStreamFailing makes only the stream endpoint fail; the probe still
// answers.
func (s *Server) SetStreamFailing(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.streamFails = fail
}

// SetChannel changes a channel without recording a command, as if the
// robot changed it on its own.
func (s *Server) SetChannel(channel, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channels[channel] = value
}

func (s *Server) Channel(channel string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.channels[channel]
}

// Commands returns the accepted writes in arrival order.
func (s *Server) Commands() []Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Command(nil), s.commands...)
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info(ctx, "relay simulator listening", "addr", addr, "thing", s.opts.Thing)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
