package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/waterbot/internal/client/views"
)

// Navigate switches to the named view and prints it. A protected view
// while logged out lands on the auth view instead.
func (a *App) Navigate(ctx context.Context, target string) error {
	v, err := views.Parse(target)
	if err != nil {
		printlnFn("Unknown view:", target)
		return err
	}
	return a.show(ctx, v)
}

// Start follows the home page call to action.
func (a *App) Start(ctx context.Context) error {
	return a.show(ctx, a.router.HeroTarget())
}

func (a *App) show(ctx context.Context, v views.View) error {
	got, err := a.router.Navigate(v)
	if err != nil {
		a.toast("Error", sentence(err.Error()))
		if !errors.Is(err, views.ErrLoginRequired) {
			return err
		}
	}
	a.render(ctx, got)
	return err
}

// enter makes v the active view without printing it. It reports whether v
// is now active.
func (a *App) enter(v views.View) bool {
	if a.router.Active() == v {
		return true
	}
	if _, err := a.router.Navigate(v); err != nil {
		a.toast("Error", sentence(err.Error()))
		return false
	}
	return true
}

// Menu toggles the navigation menu and prints the links when it opens.
func (a *App) Menu(ctx context.Context) error {
	if !a.router.ToggleMenu() {
		printlnFn("Menu closed")
		return nil
	}
	printlnFn(a.navLine())
	return nil
}

func (a *App) navLine() string {
	var b strings.Builder
	for _, l := range a.router.Links() {
		if !l.Visible {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(" | ")
		}
		if l.Active {
			fmt.Fprintf(&b, "*%s*", l.Label)
		} else {
			b.WriteString(l.Label)
		}
	}
	return b.String()
}

func (a *App) render(ctx context.Context, v views.View) {
	printlnFn(a.navLine())
	switch v {
	case views.Home:
		printlnFn("WaterBot: remote watering robot with live camera.")
		printlnFn(fmt.Sprintf("[%s] type 'start'", a.router.HeroLabel()))
	case views.Auth:
		printlnFn("Sign in with 'login', create an account with 'signup', forgot your password? 'reset'")
	case views.Control:
		_ = a.Status(ctx)
	case views.Gallery:
		a.printGallery()
	}
}
