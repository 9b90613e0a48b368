package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/waterbot/internal/client/photos"
	"github.com/dmitrijs2005/waterbot/internal/client/views"
)

// Snap captures a still from the camera into the gallery.
func (a *App) Snap(ctx context.Context) error {
	if !a.enter(views.Control) {
		return nil
	}
	a.toast("Capturing photo", "Requesting photo from ESP32...")
	if _, err := a.gallery.Capture(ctx); err != nil {
		var ce *photos.CaptureError
		if errors.As(err, &ce) {
			a.logger.Warn(ctx, "capture aborted", "reason", ce.Reason, "error", err)
		}
		return a.fail(err)
	}
	a.toast("Photo captured!", "Photo saved to gallery")
	return nil
}

// Photos shows the gallery.
func (a *App) Photos(ctx context.Context) error {
	return a.show(ctx, views.Gallery)
}

func (a *App) printGallery() {
	var b strings.Builder
	if err := a.gallery.Render(&b); err != nil {
		a.logger.Error(context.Background(), "render gallery", "error", err)
		return
	}
	printlnFn(strings.TrimRight(b.String(), "\n"))
}

// photoIndex turns the 1-based number shown in the gallery into an index.
func photoIndex(n string) (int, error) {
	i, err := strconv.Atoi(n)
	if err != nil || i < 1 {
		return 0, fmt.Errorf("%w: %s", photos.ErrNoSuchPhoto, n)
	}
	return i - 1, nil
}

// DeletePhoto removes photo n and shows the gallery again.
func (a *App) DeletePhoto(ctx context.Context, n string) error {
	if !a.enter(views.Gallery) {
		return nil
	}
	i, err := photoIndex(n)
	if err != nil {
		return a.fail(err)
	}
	if err := a.gallery.Delete(ctx, i); err != nil {
		return a.fail(err)
	}
	a.toast("Deleted", fmt.Sprintf("Photo %d removed", i+1))
	a.printGallery()
	return nil
}

// SavePhoto writes photo n into the configured photo directory.
func (a *App) SavePhoto(ctx context.Context, n string) error {
	if !a.enter(views.Gallery) {
		return nil
	}
	i, err := photoIndex(n)
	if err != nil {
		return a.fail(err)
	}
	path, err := a.gallery.Export(ctx, i, a.config.PhotoDir)
	if err != nil {
		return a.fail(err)
	}
	a.toast("Saved", path)
	return nil
}
