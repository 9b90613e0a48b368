package device

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/waterbot/internal/client/relay"
	"github.com/dmitrijs2005/waterbot/internal/logging"
)

// Direction is a value of the control channel.
type Direction int

const (
	Stop     Direction = 0
	Forward  Direction = 1
	Left     Direction = 2
	Right    Direction = 3
	Backward Direction = 4
)

func (d Direction) String() string {
	switch d {
	case Stop:
		return "stop"
	case Forward:
		return "forward"
	case Left:
		return "left"
	case Right:
		return "right"
	case Backward:
		return "backward"
	}
	return fmt.Sprintf("direction(%d)", int(d))
}

// ParseDirection accepts a direction name.
func ParseDirection(s string) (Direction, bool) {
	for _, d := range []Direction{Forward, Left, Right, Backward} {
		if d.String() == s {
			return d, true
		}
	}
	return Stop, false
}

// Actuator is a switchable robot part.
type Actuator int

const (
	Pump Actuator = iota
	Arms
	numActuators
)

func (a Actuator) String() string {
	if a == Pump {
		return "pump"
	}
	return "arms"
}

func (a Actuator) channel() string {
	if a == Pump {
		return relay.ChannelPump
	}
	return relay.ChannelArms
}

// Relay is the channel API the controller talks to.
type Relay interface {
	Set(ctx context.Context, channel string, value int) error
	Get(ctx context.Context, channel string) (relay.Value, error)
}

// Options configures a Controller. A nil Logger discards logs.
type Options struct {
	QueueSize      int
	CommandTimeout time.Duration
	Logger         logging.Logger
}

type command struct {
	channel  string
	value    int
	actuator Actuator
	tracked  bool
}

// Controller mirrors the robot's drive and actuator state and sends every
// change to the relay in order.
type Controller struct {
	relay   Relay
	logger  logging.Logger
	timeout time.Duration
	queue   chan command

	mu        sync.Mutex
	lastDrive Direction
	state     [numActuators]bool
	seq       [numActuators]uint64
	pending   [numActuators]int
	onChange  func(Actuator, bool)
}

// NewController constructs a controller over r. Commands are only sent
// while Run is active.
func NewController(r Relay, opts Options) *Controller {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 16
	}
	if opts.CommandTimeout <= 0 {
		opts.CommandTimeout = 5 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}
	return &Controller{
		relay:   r,
		logger:  opts.Logger.With("module", "device"),
		timeout: opts.CommandTimeout,
		queue:   make(chan command, opts.QueueSize),
	}
}

// OnChange registers fn to run when a poll changes an actuator's state.
func (c *Controller) OnChange(fn func(Actuator, bool)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// enqueue must be called with c.mu held so that queue order matches the
// order of state changes.
func (c *Controller) enqueue(cmd command) {
	if cmd.tracked {
		c.seq[cmd.actuator]++
		c.pending[cmd.actuator]++
	}
	select {
	case c.queue <- cmd:
	default:
		if cmd.tracked {
			c.pending[cmd.actuator]--
		}
		c.logger.Warn(context.Background(), "command queue full, dropping command",
			"channel", cmd.channel, "value", cmd.value)
	}
}

// Run sends queued commands in order until ctx is done.
func (c *Controller) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-c.queue:
			c.send(ctx, cmd)
		}
	}
}

func (c *Controller) send(ctx context.Context, cmd command) {
	sctx, cancel := context.WithTimeout(ctx, c.timeout)
	err := c.relay.Set(sctx, cmd.channel, cmd.value)
	cancel()

	if cmd.tracked {
		c.mu.Lock()
		c.pending[cmd.actuator]--
		c.mu.Unlock()
	}

	if err != nil {
		c.logger.Error(ctx, "command failed", "channel", cmd.channel, "value", cmd.value, "error", err)
		return
	}
	c.logger.Info(ctx, "command sent", "channel", cmd.channel, "value", cmd.value)
}

// Drive presses a direction. Pressing the active direction again stops the
// robot. It returns the direction that is active afterwards. Stop is
// ignored.
func (c *Controller) Drive(d Direction) Direction {
	if d == Stop {
		return c.ActiveDirection()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.lastDrive == d {
		c.lastDrive = Stop
		c.enqueue(command{channel: relay.ChannelControl, value: int(Stop)})
		return Stop
	}
	c.lastDrive = d
	c.enqueue(command{channel: relay.ChannelControl, value: int(d)})
	return d
}

// ActiveDirection returns the direction being driven, or Stop.
func (c *Controller) ActiveDirection() Direction {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastDrive
}

func (c *Controller) toggle(a Actuator) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	on := !c.state[a]
	c.state[a] = on
	value := 0
	if on {
		value = 1
	}
	c.enqueue(command{channel: a.channel(), value: value, actuator: a, tracked: true})
	return on
}

// TogglePump flips the pump and returns its new state.
func (c *Controller) TogglePump() bool {
	return c.toggle(Pump)
}

// ToggleArms flips the arms and returns their new state.
func (c *Controller) ToggleArms() bool {
	return c.toggle(Arms)
}

// State reports the local mirror of a.
func (c *Controller) State(a Actuator) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state[a]
}

// EmergencyStop stops the drive and switches both actuators off,
// whatever the current state.
func (c *Controller) EmergencyStop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.enqueue(command{channel: relay.ChannelControl, value: int(Stop)})
	c.enqueue(command{channel: relay.ChannelPump, value: 0, actuator: Pump, tracked: true})
	c.enqueue(command{channel: relay.ChannelArms, value: 0, actuator: Arms, tracked: true})
	c.lastDrive = Stop
	c.state[Pump] = false
	c.state[Arms] = false
}

// PollStatus reads pump and arms concurrently and updates the local mirror
// where it differs. Errors are logged.
func (c *Controller) PollStatus(ctx context.Context) {
	c.mu.Lock()
	startSeq := c.seq
	c.mu.Unlock()

	var (
		g      errgroup.Group
		values [numActuators]bool
		ok     [numActuators]bool
	)
	for a := Actuator(0); a < numActuators; a++ {
		g.Go(func() error {
			v, err := c.relay.Get(ctx, a.channel())
			if err != nil {
				c.logger.Warn(ctx, "status poll failed", "actuator", a.String(), "error", err)
				return err
			}
			values[a], ok[a] = v.Active(), true
			return nil
		})
	}
	_ = g.Wait()

	var changed []Actuator
	c.mu.Lock()
	for a := Actuator(0); a < numActuators; a++ {
		if !ok[a] {
			continue
		}
		if c.seq[a] != startSeq[a] || c.pending[a] > 0 {
			c.logger.Debug(ctx, "ignoring stale status", "actuator", a.String())
			continue
		}
		if c.state[a] != values[a] {
			c.state[a] = values[a]
			changed = append(changed, a)
		}
	}
	fn := c.onChange
	state := c.state
	c.mu.Unlock()

	if fn != nil {
		for _, a := range changed {
			fn(a, state[a])
		}
	}
}

// RunPoller polls immediately and then every interval until ctx is done.
func (c *Controller) RunPoller(ctx context.Context, interval time.Duration) {
	c.PollStatus(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.PollStatus(ctx)
		}
	}
}
