package cli

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/waterbot/internal/client/auth"
	"github.com/dmitrijs2005/waterbot/internal/client/camera"
	"github.com/dmitrijs2005/waterbot/internal/client/config"
	"github.com/dmitrijs2005/waterbot/internal/client/credentials"
	"github.com/dmitrijs2005/waterbot/internal/client/device"
	"github.com/dmitrijs2005/waterbot/internal/client/identity"
	"github.com/dmitrijs2005/waterbot/internal/client/kv"
	"github.com/dmitrijs2005/waterbot/internal/client/photos"
	"github.com/dmitrijs2005/waterbot/internal/client/relay"
	"github.com/dmitrijs2005/waterbot/internal/client/views"
	"github.com/dmitrijs2005/waterbot/internal/logging"
)

// Identity service dial policy at startup.
const (
	dialAttempts = 3
	dialDelay    = 500 * time.Millisecond
)

// Seams for tests.
var (
	dialIdentity   = identity.Dial
	newS3Archive   = photos.NewS3Archive
	settleDelay    = views.DefaultSettleDelay
	stdinReader    = func() *bufio.Reader { return bufio.NewReader(os.Stdin) }
)

// App is the interactive console.
type App struct {
	config *config.Config
	logger logging.Logger
	reader *bufio.Reader

	store    *kv.Store
	identity *identity.GRPCClient
	hosted   *auth.HostedProvider
	authErr  error
	auth     *auth.Service

	router  *views.Router
	ctrl    *device.Controller
	keys    *device.KeyHandler
	camera  *camera.Client
	gallery *photos.Gallery

	// raw is set while the terminal is in raw drive mode.
	raw bool
}

// NewApp opens the local store and wires every console component from c.
// An unreachable identity service in hosted mode does not fail NewApp; auth
// is blocked and Run reports it at startup.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	store, err := kv.Open(ctx, c.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		return nil, err
	}

	a := &App{config: c, logger: logger, reader: stdinReader(), store: store}

	provider := a.newProvider(ctx)
	a.auth = auth.NewService(provider, auth.NewSession(), logger)

	a.router = views.NewRouter(a.auth.Session().LoggedIn, settleDelay)

	rc := relay.New(&http.Client{Timeout: c.CommandTimeout}, c.RelayBaseURL, c.RelayKey, c.RelayThing)
	a.ctrl = device.NewController(rc, device.Options{CommandTimeout: c.CommandTimeout, Logger: logger})
	a.ctrl.OnChange(func(act device.Actuator, on bool) {
		logger.Info(context.Background(), "actuator state synced", "actuator", act.String(), "on", on)
	})
	a.keys = device.NewKeyHandler(a.ctrl, func() bool { return a.router.Active() == views.Control }, device.DefaultRepeatWindow)

	a.camera = camera.New(camera.Options{
		Host:         c.CameraHost,
		Port:         c.CameraPort,
		ProbePort:    c.CameraProbePort,
		StreamPath:   c.StreamPath,
		SnapshotPath: c.SnapshotPath,
		RetryDelay:   c.CameraRetryDelay,
		ProbeTimeout: c.CameraProbeTimeout,
		Logger:       logger,
	})
	a.camera.OnStatus(func(s camera.Status) {
		logger.Info(context.Background(), "camera status", "status", s.String())
	})
	a.router.OnEnter(views.Control, a.camera.Start)

	var archive photos.Archive
	if c.ArchiveEnabled() {
		s3a, err := newS3Archive(ctx, photos.S3Options{
			Bucket:    c.S3Bucket,
			Region:    c.S3Region,
			Endpoint:  c.S3Endpoint,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
		})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("photo archive: %w", err)
		}
		archive = s3a
	}
	a.gallery = photos.NewGallery(a.camera, store, photos.Options{Limit: c.PhotoLimit, Archive: archive, Logger: logger})
	if err := a.gallery.Load(ctx); err != nil {
		logger.Warn(ctx, "gallery not loaded", "error", err)
	}

	return a, nil
}

func (a *App) newProvider(ctx context.Context) auth.Provider {
	if a.config.AuthMode != config.AuthHosted {
		return auth.NewLocalProvider(credentials.NewStore(a.store), a.store)
	}

	client, err := dialIdentity(ctx, a.config.IdentityEndpoint, dialAttempts, dialDelay)
	if err != nil {
		a.logger.Error(ctx, "identity service unavailable", "endpoint", a.config.IdentityEndpoint, "error", err)
		a.authErr = err
		return auth.NewUnavailableProvider(err)
	}
	a.identity = client
	a.hosted = auth.NewHostedProvider(client, a.store, a.logger)
	return a.hosted
}

// Run restores the previous session, starts the background tasks and
// blocks in the REPL until the user exits or ctx is done.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.Close()

	go a.ctrl.Run(ctx)
	go a.ctrl.RunPoller(ctx, a.config.PollInterval)
	if a.hosted != nil && a.config.HeartbeatInterval > 0 {
		go a.hosted.RunHeartbeat(ctx, a.config.HeartbeatInterval, a.isLoggedIn)
	}

	printlnFn("Welcome to the WaterBot console (type 'help' for commands)")
	if a.authErr != nil {
		a.toast("Error", auth.MsgServiceUnavailable)
	}
	if id, ok := a.auth.Restore(ctx); ok {
		a.toast("Welcome back!", id.Email)
	}

	runREPL(ctx, a, a.statusLine, a.reader)
}

// Close stops the camera and pending view hooks and releases the store and
// the identity connection.
func (a *App) Close() {
	if a.router != nil {
		a.router.Stop()
	}
	if a.camera != nil {
		a.camera.Stop()
	}
	if a.identity != nil {
		_ = a.identity.Close()
	}
	if a.store != nil {
		_ = a.store.Close()
	}
}

func (a *App) isLoggedIn() bool {
	return a.auth.Session().LoggedIn()
}

// statusLine is shown in the prompt, e.g. "(alice@example.org control camera:live)".
func (a *App) statusLine() string {
	var parts []string
	if id, ok := a.auth.Current(); ok {
		parts = append(parts, id.Email)
	}
	active := a.router.Active()
	parts = append(parts, string(active))
	if active == views.Control {
		parts = append(parts, "camera:"+a.camera.Status().String())
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// toast prints a notification as "[title] message".
func (a *App) toast(title, message string) {
	line := fmt.Sprintf("[%s] %s", title, message)
	if a.raw {
		line += "\r"
	}
	printlnFn(line)
}

// fail reports err as an error toast.
func (a *App) fail(err error) error {
	a.toast("Error", sentence(err.Error()))
	return err
}

func sentence(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
