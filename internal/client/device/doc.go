// Package device turns console intents into relay channel writes and keeps
// a local mirror of the pump and arms state.
//
// Commands are at-most-once and fire-and-forget: they are queued in order
// and sent by a single dispatcher started with Run. A full queue drops the
// command; a failed send is logged and never retried. Local state changes
// optimistically when a command is issued and is reconciled by PollStatus.
// Every command bumps a per-actuator sequence number, and a poll ignores an
// actuator whose sequence moved during the poll or which still has commands
// in flight, so a slow poll cannot undo a fresh toggle.
package device
