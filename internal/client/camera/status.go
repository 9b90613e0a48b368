package camera

// Status is the state of the stream as the console shows it.
type Status int

const (
	Idle Status = iota
	Probing
	Loading
	Connected
	Reconnecting
	Offline
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Probing:
		return "probing"
	case Loading:
		return "loading"
	case Connected:
		return "live"
	case Reconnecting:
		return "reconnecting"
	case Offline:
		return "offline"
	}
	return "unknown"
}
