// Package views keeps the console's page state: which view is showing,
// which navigation links are visible and highlighted, the mobile menu and
// the scroll position. Views behind login redirect to the auth view.
package views

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// View names a console page.
type View string

const (
	Home    View = "home"
	Auth    View = "auth"
	Control View = "control"
	Gallery View = "gallery"
)

// DefaultSettleDelay is how long enter hooks wait after a navigation.
const DefaultSettleDelay = 500 * time.Millisecond

var (
	ErrLoginRequired   = errors.New("please log in to access robot control")
	ErrAlreadySignedIn = errors.New("already signed in, log out first")
	ErrUnknownView     = errors.New("unknown view")
)

var order = []View{Home, Auth, Control, Gallery}

func (v View) protected() bool {
	return v == Control || v == Gallery
}

// Parse returns the view named s.
func Parse(s string) (View, error) {
	for _, v := range order {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownView, s)
}

// Link is one navigation entry.
type Link struct {
	View    View
	Label   string
	Visible bool
	Active  bool
}

// Router tracks the active view and enforces the login guard.
type Router struct {
	loggedIn func() bool
	settle   time.Duration

	mu       sync.Mutex
	active   View
	menuOpen bool
	scroll   map[View]int
	hooks    map[View][]func()
	timer    *time.Timer
}

// NewRouter starts on the home view. loggedIn reports the session state.
func NewRouter(loggedIn func() bool, settle time.Duration) *Router {
	return &Router{
		loggedIn: loggedIn,
		settle:   settle,
		active:   Home,
		scroll:   map[View]int{},
		hooks:    map[View][]func(){},
	}
}

// OnEnter registers hook to run each time v becomes active, after the
// settle delay.
func (r *Router) OnEnter(v View, hook func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks[v] = append(r.hooks[v], hook)
}

// Navigate activates v. A protected view while logged out activates the
// auth view instead and returns ErrLoginRequired. The auth view while
// logged in is refused with ErrAlreadySignedIn.
func (r *Router) Navigate(v View) (View, error) {
	if _, err := Parse(string(v)); err != nil {
		return r.Active(), err
	}

	loggedIn := r.loggedIn()
	switch {
	case v.protected() && !loggedIn:
		r.activate(Auth)
		return Auth, ErrLoginRequired
	case v == Auth && loggedIn:
		return r.Active(), ErrAlreadySignedIn
	}
	r.activate(v)
	return v, nil
}

func (r *Router) activate(v View) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.active = v
	r.menuOpen = false
	r.scroll[v] = 0

	// a newer navigation replaces the pending hooks of an older one
	if r.timer != nil {
		r.timer.Stop()
	}
	hooks := append([]func(){}, r.hooks[v]...)
	r.timer = time.AfterFunc(r.settle, func() {
		for _, h := range hooks {
			h()
		}
	})
}

// Stop cancels pending enter hooks.
func (r *Router) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

func (r *Router) Active() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Links returns the navigation entries in display order. The auth link is
// hidden while logged in and the control link is shown only while logged
// in.
func (r *Router) Links() []Link {
	loggedIn := r.loggedIn()
	active := r.Active()

	links := make([]Link, 0, len(order))
	for _, v := range order {
		l := Link{View: v, Label: label(v), Visible: true, Active: v == active}
		switch v {
		case Auth:
			l.Visible = !loggedIn
		case Control:
			l.Visible = loggedIn
		}
		links = append(links, l)
	}
	return links
}

func label(v View) string {
	switch v {
	case Home:
		return "Home"
	case Auth:
		return "Login"
	case Control:
		return "Control"
	case Gallery:
		return "Gallery"
	}
	return string(v)
}

// HeroTarget is where the home page call to action leads.
func (r *Router) HeroTarget() View {
	if r.loggedIn() {
		return Control
	}
	return Auth
}

func (r *Router) HeroLabel() string {
	if r.loggedIn() {
		return "Control Panel"
	}
	return "Get Started"
}

func (r *Router) ToggleMenu() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.menuOpen = !r.menuOpen
	return r.menuOpen
}

func (r *Router) MenuOpen() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.menuOpen
}

// Scroll returns the scroll offset of the active view.
func (r *Router) Scroll() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scroll[r.active]
}

// ScrollTo sets the scroll offset of the active view. Negative offsets
// clamp to zero.
func (r *Router) ScrollTo(offset int) {
	if offset < 0 {
		offset = 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scroll[r.active] = offset
}
