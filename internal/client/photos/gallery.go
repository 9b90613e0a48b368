// Package photos captures stills from the camera stream and keeps them in
// a capped gallery, newest first, persisted in the key-value store on
// every change.
package photos

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/waterbot/internal/client/camera"
	"github.com/dmitrijs2005/waterbot/internal/client/kv"
	"github.com/dmitrijs2005/waterbot/internal/filex"
	"github.com/dmitrijs2005/waterbot/internal/logging"
)

const (
	DefaultLimit      = 20
	DefaultMinPayload = 1000
	// DateLayout renders capture times the way the gallery shows them.
	DateLayout = "1/2/2006, 3:04:05 PM"
	EmptyText  = `No photos captured yet. Click "Snap" to take a photo.`
)

// Photo is one gallery entry. URL is a data URL or, for archived photos,
// a remote URL; Key names the archived object.
type Photo struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Date   string `json:"date"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Key    string `json:"key,omitempty"`
}

// Camera is what a capture reads from.
type Camera interface {
	Status() camera.Status
	Source() string
	Snapshot() (camera.Frame, error)
	FetchSnapshot(ctx context.Context) ([]byte, error)
}

// Store persists the gallery.
type Store interface {
	GetJSON(ctx context.Context, key string, v any) (bool, error)
	SetJSON(ctx context.Context, key string, v any) error
}

// Archive keeps image bytes outside the local store.
type Archive interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Get(ctx context.Context, key string) ([]byte, error)
}

// Options configures a Gallery. Zero values select the defaults.
type Options struct {
	Limit      int
	MinPayload int
	Archive    Archive
	Logger     logging.Logger
}

// Gallery holds captured photos, newest first, up to its limit.
type Gallery struct {
	cam        Camera
	store      Store
	archive    Archive
	limit      int
	minPayload int
	logger     logging.Logger
	now        func() time.Time
	encode     func(w io.Writer, img image.Image) error

	mu     sync.Mutex
	photos []Photo
}

func encodeJPEG(w io.Writer, img image.Image) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: 90})
}

// NewGallery constructs a gallery that captures from cam and persists to
// store. Call Load to read the saved photos.
func NewGallery(cam Camera, store Store, opts Options) *Gallery {
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	if opts.MinPayload <= 0 {
		opts.MinPayload = DefaultMinPayload
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}
	return &Gallery{
		cam:        cam,
		store:      store,
		archive:    opts.Archive,
		limit:      opts.Limit,
		minPayload: opts.MinPayload,
		logger:     opts.Logger.With("module", "photos"),
		now:        time.Now,
		encode:     encodeJPEG,
	}
}

// Load reads the persisted gallery.
func (g *Gallery) Load(ctx context.Context) error {
	var photos []Photo
	if _, err := g.store.GetJSON(ctx, kv.KeyPhotos, &photos); err != nil {
		return fmt.Errorf("load photos: %w", err)
	}
	g.mu.Lock()
	g.photos = photos
	g.mu.Unlock()
	return nil
}

// persist must be called with g.mu held.
func (g *Gallery) persist(ctx context.Context) error {
	photos := g.photos
	if photos == nil {
		photos = []Photo{}
	}
	if err := g.store.SetJSON(ctx, kv.KeyPhotos, photos); err != nil {
		return fmt.Errorf("save photos: %w", err)
	}
	return nil
}

func dataURL(contentType string, b []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(b)
}

// render draws the frame onto a canvas of its natural size and encodes
// it.
func (g *Gallery) render(f camera.Frame) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(f.Data))
	if err != nil {
		return "", fmt.Errorf("decode frame: %w", err)
	}
	canvas := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	draw.Draw(canvas, canvas.Bounds(), img, img.Bounds().Min, draw.Src)

	var buf bytes.Buffer
	if err := g.encode(&buf, canvas); err != nil {
		return "", err
	}
	return dataURL("image/jpeg", buf.Bytes()), nil
}

// Capture saves the current stream frame as the newest photo. Without a
// stream source, or while the camera is idle or offline, it fails with
// ReasonOffline. A source whose first frame has not loaded fails with
// ReasonLoading.
func (g *Gallery) Capture(ctx context.Context) (Photo, error) {
	status := g.cam.Status()
	if g.cam.Source() == "" || status == camera.Idle || status == camera.Offline {
		return Photo{}, &CaptureError{Reason: ReasonOffline}
	}
	frame, err := g.cam.Snapshot()
	if status != camera.Connected || err != nil || frame.Width == 0 {
		return Photo{}, &CaptureError{Reason: ReasonLoading, Err: err}
	}

	url, err := g.render(frame)
	if err != nil {
		g.logger.Warn(ctx, "frame encode failed, fetching raw snapshot", "error", err)
		raw, ferr := g.cam.FetchSnapshot(ctx)
		if ferr != nil {
			return Photo{}, &CaptureError{Reason: ReasonEncode, Err: ferr}
		}
		url = dataURL(http.DetectContentType(raw), raw)
	}
	if len(url) < g.minPayload {
		return Photo{}, &CaptureError{Reason: ReasonBlank}
	}

	p := Photo{
		ID:     uuid.NewString(),
		URL:    url,
		Date:   g.now().Format(DateLayout),
		Width:  frame.Width,
		Height: frame.Height,
	}
	g.archivePhoto(ctx, &p)

	g.mu.Lock()
	defer g.mu.Unlock()
	g.photos = append([]Photo{p}, g.photos...)
	if len(g.photos) > g.limit {
		g.photos = g.photos[:g.limit]
	}
	if err := g.persist(ctx); err != nil {
		return p, err
	}
	g.logger.Info(ctx, "photo captured", "id", p.ID, "width", p.Width, "height", p.Height)
	return p, nil
}

// archivePhoto uploads the image and points the photo at the remote copy.
// The photo keeps its data URL when the upload fails.
func (g *Gallery) archivePhoto(ctx context.Context, p *Photo) {
	if g.archive == nil {
		return
	}
	ct, data, err := decodeDataURL(p.URL)
	if err != nil {
		g.logger.Warn(ctx, "archive skipped", "id", p.ID, "error", err)
		return
	}
	key := "photos/" + p.ID + extFor(ct)
	remote, err := g.archive.Put(ctx, key, data, ct)
	if err != nil {
		g.logger.Warn(ctx, "archive upload failed", "id", p.ID, "error", err)
		return
	}
	p.URL, p.Key = remote, key
}

// Delete removes the photo at index (0-based).
func (g *Gallery) Delete(ctx context.Context, index int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if index < 0 || index >= len(g.photos) {
		return fmt.Errorf("%w: %d", ErrNoSuchPhoto, index+1)
	}
	g.photos = append(g.photos[:index:index], g.photos[index+1:]...)
	return g.persist(ctx)
}

// List returns a copy of the photos, newest first.
func (g *Gallery) List() []Photo {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Photo(nil), g.photos...)
}

// Render writes the gallery as text: the empty-state message, or one line
// per photo with its delete command.
func (g *Gallery) Render(w io.Writer) error {
	photos := g.List()
	if len(photos) == 0 {
		_, err := fmt.Fprintln(w, EmptyText)
		return err
	}
	for i, p := range photos {
		where := "local"
		if p.Key != "" {
			where = "archived"
		}
		if _, err := fmt.Fprintf(w, "%2d. Captured at %s  %dx%d  %s  [delete %d]\n",
			i+1, p.Date, p.Width, p.Height, where, i+1); err != nil {
			return err
		}
	}
	return nil
}

// Export writes the image of the photo at index into dir and returns the
// file path.
func (g *Gallery) Export(ctx context.Context, index int, dir string) (string, error) {
	g.mu.Lock()
	if index < 0 || index >= len(g.photos) {
		g.mu.Unlock()
		return "", fmt.Errorf("%w: %d", ErrNoSuchPhoto, index+1)
	}
	p := g.photos[index]
	g.mu.Unlock()

	ct, data, err := decodeDataURL(p.URL)
	if err != nil {
		if p.Key == "" || g.archive == nil {
			return "", ErrNoImageData
		}
		if data, err = g.archive.Get(ctx, p.Key); err != nil {
			return "", fmt.Errorf("fetch archived photo: %w", err)
		}
		ct = http.DetectContentType(data)
	}

	out, err := filex.EnsureSubdDir(dir)
	if err != nil {
		return "", err
	}
	path := filepath.Join(out, p.ID+extFor(ct))
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

func decodeDataURL(u string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(u, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data URL")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("malformed data URL")
	}
	ct, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, fmt.Errorf("data URL is not base64")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, err
	}
	return ct, data, nil
}

func extFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/jpeg":
		return ".jpg"
	}
	return ".bin"
}
