// Package relaysim is a local stand-in for the cloud relay and the robot's
// camera. It serves the relay channel API, a camera liveness probe, an
// MJPEG stream of generated frames and single JPEG captures, and records
// every channel write so tests can assert on the command sequence.
package relaysim
