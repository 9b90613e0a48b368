// Package camera reads the robot's MJPEG stream and keeps the latest
// frame.
//
// The client is a state machine driven by a single retry timer. Start
// probes the camera host; an unreachable host is Offline and retried after
// twice the retry delay. A reachable host gets its stream opened; the
// first decoded frame makes the stream Connected and clears the error
// count. A failed or dropped stream counts an error, reports Reconnecting
// or, at the threshold, Offline, and re-probes after the retry delay.
// Start, Retry and Stop always cancel the pending timer and any attempt in
// flight before doing anything else.
package camera

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"io"
	"mime"
	"mime/multipart"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/waterbot/internal/logging"
)

// ErrNoFrame is returned by Snapshot while no frame is loaded.
var ErrNoFrame = errors.New("no frame loaded")

const maxFrameSize = 8 << 20

// Frame is one decoded stream image.
type Frame struct {
	Data   []byte
	Width  int
	Height int
	At     time.Time
}

// Options configures a Client. Zero values select the defaults.
type Options struct {
	Host string
	Port int
	// ProbePort overrides the port of the liveness probe; 0 probes the
	// bare host.
	ProbePort      int
	StreamPath     string
	SnapshotPath   string
	RetryDelay     time.Duration
	ProbeTimeout   time.Duration
	ErrorThreshold int
	HTTPClient     *http.Client
	Logger         logging.Logger
}

// Client follows one camera stream. It is safe for concurrent use.
type Client struct {
	opts   Options
	http   *http.Client
	logger logging.Logger
	now    func() time.Time

	mu       sync.Mutex
	gen      uint64
	status   Status
	errors   int
	source   string
	frame    *Frame
	timer    *time.Timer
	cancel   context.CancelFunc
	onStatus func(Status)
}

// New constructs an idle client. Call Start to connect.
func New(opts Options) *Client {
	if opts.StreamPath == "" {
		opts.StreamPath = "/stream"
	}
	if opts.SnapshotPath == "" {
		opts.SnapshotPath = "/capture"
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 1200 * time.Millisecond
	}
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = 2 * time.Second
	}
	if opts.ErrorThreshold <= 0 {
		opts.ErrorThreshold = 2
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}
	return &Client{
		opts:   opts,
		http:   opts.HTTPClient,
		logger: opts.Logger.With("module", "camera"),
		now:    time.Now,
	}
}

func (c *Client) hostPort(port int) string {
	if port == 0 {
		return c.opts.Host
	}
	return net.JoinHostPort(c.opts.Host, strconv.Itoa(port))
}

func (c *Client) probeURL() string {
	return "http://" + c.hostPort(c.opts.ProbePort) + "/"
}

func (c *Client) streamURL() string {
	return fmt.Sprintf("http://%s%s?t=%d", c.hostPort(c.opts.Port), c.opts.StreamPath, c.now().UnixNano())
}

func (c *Client) snapshotURL() string {
	return "http://" + c.hostPort(c.opts.Port) + c.opts.SnapshotPath
}

// OnStatus registers fn to run on every status change.
func (c *Client) OnStatus(fn func(Status)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onStatus = fn
}

// Status returns the current stream status.
func (c *Client) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Errors returns the number of consecutive stream failures.
func (c *Client) Errors() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errors
}

// Source is the stream URL in use, or "" while none is set.
func (c *Client) Source() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.source
}

// Snapshot returns the latest frame.
func (c *Client) Snapshot() (Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.frame == nil {
		return Frame{}, ErrNoFrame
	}
	f := *c.frame
	f.Data = append([]byte(nil), c.frame.Data...)
	return f, nil
}

// reset cancels the pending timer and attempt and starts a new
// generation. Callers hold c.mu.
func (c *Client) reset() uint64 {
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.source = ""
	c.frame = nil
	return c.gen
}

// Start (re)starts the connection cycle.
func (c *Client) Start() {
	c.mu.Lock()
	gen := c.reset()
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.mu.Unlock()

	go c.cycle(ctx, gen)
}

// Retry is a manual Start.
func (c *Client) Retry() {
	c.Start()
}

// Stop cancels everything and returns to Idle.
func (c *Client) Stop() {
	c.mu.Lock()
	c.reset()
	c.mu.Unlock()
	c.setStatus(c.currentGen(), Idle)
}

func (c *Client) currentGen() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// setStatus applies s if gen is still current.
func (c *Client) setStatus(gen uint64, s Status) bool {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return false
	}
	changed := c.status != s
	c.status = s
	fn := c.onStatus
	c.mu.Unlock()

	if changed && fn != nil {
		fn(s)
	}
	return true
}

// schedule arms the single retry timer for gen.
func (c *Client) schedule(gen uint64, d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(d, func() {
		c.mu.Lock()
		current := gen == c.gen
		c.mu.Unlock()
		if current {
			c.Start()
		}
	})
}

func (c *Client) cycle(ctx context.Context, gen uint64) {
	if !c.setStatus(gen, Probing) {
		return
	}

	if err := c.probe(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		c.logger.Warn(ctx, "camera unreachable", "host", c.opts.Host, "error", err)
		if c.setStatus(gen, Offline) {
			c.schedule(gen, 2*c.opts.RetryDelay)
		}
		return
	}

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	src := c.streamURL()
	c.source = src
	c.mu.Unlock()
	c.setStatus(gen, Loading)

	err := c.readStream(ctx, gen, src)
	if ctx.Err() != nil {
		return
	}
	if err == nil {
		return
	}
	c.fail(ctx, gen, err)
}

func (c *Client) fail(ctx context.Context, gen uint64, err error) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.errors++
	n := c.errors
	c.mu.Unlock()

	status := Reconnecting
	if n >= c.opts.ErrorThreshold {
		status = Offline
	}
	c.logger.Warn(ctx, "camera stream failed", "errors", n, "status", status.String(), "error", err)
	if c.setStatus(gen, status) {
		c.schedule(gen, c.opts.RetryDelay)
	}
}

func (c *Client) probe(ctx context.Context) error {
	pctx, cancel := context.WithTimeout(ctx, c.opts.ProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(pctx, http.MethodHead, c.probeURL(), nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()
	if resp.StatusCode >= 500 {
		return fmt.Errorf("probe status %d", resp.StatusCode)
	}
	return nil
}

// load stores a decoded frame. The first frame of an attempt marks the
// stream connected.
func (c *Client) load(gen uint64, data []byte) error {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode frame: %w", err)
	}

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return context.Canceled
	}
	first := c.frame == nil
	c.frame = &Frame{Data: data, Width: cfg.Width, Height: cfg.Height, At: c.now()}
	if first {
		c.errors = 0
	}
	c.mu.Unlock()

	if first {
		c.setStatus(gen, Connected)
	}
	return nil
}

// readStream consumes src until it fails. A single still image loads and
// returns nil.
func (c *Client) readStream(ctx context.Context, gen uint64, src string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("stream status %d", resp.StatusCode)
	}

	mediaType, params, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil {
		return fmt.Errorf("stream content type: %w", err)
	}

	if strings.HasPrefix(mediaType, "image/") {
		data, err := io.ReadAll(io.LimitReader(resp.Body, maxFrameSize))
		if err != nil {
			return err
		}
		return c.load(gen, data)
	}
	if !strings.HasPrefix(mediaType, "multipart/") || params["boundary"] == "" {
		return fmt.Errorf("unexpected stream content type %q", mediaType)
	}

	mr := multipart.NewReader(resp.Body, params["boundary"])
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return errors.New("stream ended")
		}
		if err != nil {
			return err
		}
		data, err := io.ReadAll(io.LimitReader(part, maxFrameSize))
		if err != nil {
			return err
		}
		if err := c.load(gen, data); err != nil {
			return err
		}
	}
}

// FetchSnapshot downloads a single still image from the camera.
func (c *Client) FetchSnapshot(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.snapshotURL(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch snapshot: status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxFrameSize))
}
