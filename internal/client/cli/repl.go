package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// printFn writes the prompt without a trailing newline.
var printFn = fmt.Print

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Navigate(ctx context.Context, target string) error
	Start(ctx context.Context) error
	Menu(ctx context.Context) error
	Login(ctx context.Context) error
	Signup(ctx context.Context) error
	Reset(ctx context.Context) error
	Recover(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	DriveKey(ctx context.Context, key string) error
	DriveMode(ctx context.Context) error
	Pump(ctx context.Context) error
	Arms(ctx context.Context) error
	Stop(ctx context.Context) error
	Status(ctx context.Context) error
	Retry(ctx context.Context) error
	Snap(ctx context.Context) error
	Photos(ctx context.Context) error
	DeletePhoto(ctx context.Context, n string) error
	SavePhoto(ctx context.Context, n string) error
}

const (
	helpLoggedOut = "Available commands: home, start, go <view>, menu, login, signup, reset, recover, whoami, status, help, exit"
	helpLoggedIn  = "Available commands: home, start, go <view>, menu, whoami, logout, reset,\n" +
		"  w|a|s|d, forward|left|right|backward, drive, pump, arms, stop, status, retry,\n" +
		"  snap, photos, delete <n>, save <n>, help, exit"
)

// runREPL starts a simple read–eval–print loop for the console.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF, when ctx is done, or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Anytime:
//	  - help               show available commands
//	  - home | go <view>   switch view (home, auth, control, gallery)
//	  - start              follow the home page call to action
//	  - menu               toggle the navigation menu
//	  - login | signup     authenticate
//	  - reset              reset a password
//	  - recover            redeem a recovery code
//	  - whoami | status    show the session and robot state
//	  - exit | quit        leave the program
//
//	Logged in:
//	  - w a s d, forward left right backward  drive (same again stops)
//	  - drive              raw key mode, q leaves
//	  - pump | arms        toggle the actuator
//	  - stop               emergency stop
//	  - retry              reconnect the camera
//	  - snap               capture a photo
//	  - photos | delete <n> | save <n>  manage the gallery
//	  - logout             sign out
//
// Any errors returned by command handlers are ignored here; handlers report
// their own errors.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printFn(fmt.Sprintf("wb %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			printlnFn()
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := strings.ToLower(parts[0])
		arg := ""
		if len(parts) > 1 {
			arg = parts[1]
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "home":
			_ = a.Navigate(ctx, "home")

		case "go":
			if arg == "" {
				printlnFn("Usage: go <home|auth|control|gallery>")
				continue
			}
			_ = a.Navigate(ctx, strings.ToLower(arg))

		case "start":
			_ = a.Start(ctx)

		case "menu":
			_ = a.Menu(ctx)

		case "login":
			_ = a.Login(ctx)

		case "signup", "register":
			_ = a.Signup(ctx)

		case "reset":
			_ = a.Reset(ctx)

		case "recover":
			_ = a.Recover(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.Whoami(ctx)

		case "w", "a", "s", "d", "forward", "left", "right", "backward":
			_ = a.DriveKey(ctx, cmd)

		case "drive":
			_ = a.DriveMode(ctx)

		case "pump":
			_ = a.Pump(ctx)

		case "arms":
			_ = a.Arms(ctx)

		case "stop":
			_ = a.Stop(ctx)

		case "status":
			_ = a.Status(ctx)

		case "retry":
			_ = a.Retry(ctx)

		case "snap":
			_ = a.Snap(ctx)

		case "photos", "gallery":
			_ = a.Photos(ctx)

		case "delete":
			if arg == "" {
				printlnFn("Usage: delete <n>")
				continue
			}
			_ = a.DeletePhoto(ctx, arg)

		case "save":
			if arg == "" {
				printlnFn("Usage: save <n>")
				continue
			}
			_ = a.SavePhoto(ctx, arg)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}
