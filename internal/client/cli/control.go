package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/waterbot/internal/client/device"
	"github.com/dmitrijs2005/waterbot/internal/client/views"
)

var keyNames = map[string]rune{
	"w": 'w', "forward": 'w',
	"a": 'a', "left": 'a',
	"s": 's', "backward": 's',
	"d": 'd', "right": 'd',
}

func onOff(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}

func (a *App) reportDrive(p device.Press) {
	if p.Active == device.Stop {
		a.toast("Stopping", "Robot stopped")
		return
	}
	a.toast("Driving "+p.Active.String(), "Command sent to robot")
}

// DriveKey presses one drive control. Pressing the active direction again
// stops the robot.
func (a *App) DriveKey(ctx context.Context, key string) error {
	r, ok := keyNames[strings.ToLower(key)]
	if !ok {
		printlnFn("Unknown direction:", key)
		return nil
	}
	if !a.enter(views.Control) {
		return nil
	}
	if p, ok := a.keys.Handle(device.KeyEvent{Key: r}); ok {
		a.reportDrive(p)
	}
	return nil
}

// DriveMode reads single key presses until q. A held key auto-repeats in
// the terminal; repeats are ignored. Space is an emergency stop.
func (a *App) DriveMode(ctx context.Context) error {
	if !a.enter(views.Control) {
		return nil
	}

	fd := int(os.Stdin.Fd())
	if isTerminal(fd) {
		state, err := makeRaw(fd)
		if err != nil {
			return a.fail(err)
		}
		a.raw = true
		defer func() {
			a.raw = false
			_ = restoreTerm(fd, state)
		}()
	}

	a.toast("Drive mode", "w/a/s/d to drive, space for emergency stop, q to leave")
	for {
		if ctx.Err() != nil {
			return nil
		}
		r, _, err := a.reader.ReadRune()
		if err != nil {
			return nil
		}
		switch r {
		case 'q', 'Q', 0x03, 0x1b:
			a.toast("Drive mode", "left")
			return nil
		case ' ':
			_ = a.Stop(ctx)
		case '\r', '\n':
		default:
			if p, ok := a.keys.HandleRaw(r); ok {
				a.reportDrive(p)
			}
		}
	}
}

func (a *App) Pump(ctx context.Context) error {
	if !a.enter(views.Control) {
		return nil
	}
	if a.ctrl.TogglePump() {
		a.toast("Pump ON", "Water flowing")
	} else {
		a.toast("Pump OFF", "Water stopped")
	}
	return nil
}

func (a *App) Arms(ctx context.Context) error {
	if !a.enter(views.Control) {
		return nil
	}
	if a.ctrl.ToggleArms() {
		a.toast("Arms Open", "Pipes in open position")
	} else {
		a.toast("Arms Closed", "Pipes in closed position")
	}
	return nil
}

// Stop halts the drive and both actuators.
func (a *App) Stop(ctx context.Context) error {
	if !a.enter(views.Control) {
		return nil
	}
	a.toast("Emergency Stop!", "Robot halted")
	a.ctrl.EmergencyStop()
	return nil
}

// Status prints the robot and camera state.
func (a *App) Status(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("View:", a.router.Active())
		return nil
	}
	arms := "closed"
	if a.ctrl.State(device.Arms) {
		arms = "open"
	}
	src := a.camera.Source()
	if src == "" {
		src = "-"
	}
	printlnFn(fmt.Sprintf("Drive: %s  Pump: %s  Arms: %s", a.ctrl.ActiveDirection(), onOff(a.ctrl.State(device.Pump)), arms))
	printlnFn(fmt.Sprintf("Camera: %s  errors: %d  source: %s", a.camera.Status(), a.camera.Errors(), src))
	return nil
}

// Retry reconnects the camera stream.
func (a *App) Retry(ctx context.Context) error {
	if !a.enter(views.Control) {
		return nil
	}
	a.camera.Retry()
	a.toast("Camera", "Reconnecting...")
	return nil
}
