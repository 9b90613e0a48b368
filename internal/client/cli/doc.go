// Package cli provides the interactive WaterBot control console.
//
// It wires configuration, the local key-value store, the auth provider
// (local user list or hosted identity service), the view router, the relay
// command client, the camera stream and the photo gallery, then runs a REPL.
// Typical flow: restore the previous session, sign in, drive the robot from
// the control view and capture photos into the gallery.
//
// Background tasks run for the lifetime of App.Run:
//   - the command dispatcher that sends relay writes in order
//   - the status poller that syncs pump and arms every PollInterval
//   - the profile heartbeat (hosted mode only)
//
// Entering the control view starts the camera stream after the router's
// settle delay. The REPL is started via App.Run(ctx), which blocks until
// the user exits. See runREPL for the command list.
package cli
