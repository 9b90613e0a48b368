package device

import (
	"context"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/waterbot/internal/client/relay"
	"github.com/dmitrijs2005/waterbot/internal/relaysim"
)

type sent struct {
	channel string
	value   int
}

// fakeRelay records writes and serves reads from a table. A read can be
// held until release is closed.
type fakeRelay struct {
	mu      sync.Mutex
	sets    []sent
	values  map[string]string
	getErr  error
	setErr  error
	hold    chan struct{}
	started chan struct{}
}

func newFakeRelay() *fakeRelay {
	return &fakeRelay{values: map[string]string{relay.ChannelPump: "0", relay.ChannelArms: "0"}}
}

func (f *fakeRelay) Set(_ context.Context, ch string, v int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets = append(f.sets, sent{ch, v})
	return f.setErr
}

func (f *fakeRelay) Get(_ context.Context, ch string) (relay.Value, error) {
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.hold != nil {
		<-f.hold
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return relay.Value{}, f.getErr
	}
	var v relay.Value
	_ = v.UnmarshalJSON([]byte(`"` + f.values[ch] + `"`))
	return v, nil
}

func (f *fakeRelay) writes() []sent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sent(nil), f.sets...)
}

// drain sends everything queued so far without a background dispatcher.
func drain(c *Controller) {
	for {
		select {
		case cmd := <-c.queue:
			c.send(context.Background(), cmd)
		default:
			return
		}
	}
}

func TestDrive_ToggleSemantics(t *testing.T) {
	f := newFakeRelay()
	c := NewController(f, Options{})

	assert.Equal(t, Forward, c.Drive(Forward))
	assert.Equal(t, Stop, c.Drive(Forward))
	assert.Equal(t, Stop, c.ActiveDirection())

	assert.Equal(t, Left, c.Drive(Left))
	assert.Equal(t, Right, c.Drive(Right))
	assert.Equal(t, Right, c.ActiveDirection())

	assert.Equal(t, Right, c.Drive(Stop))
	drain(c)

	assert.Equal(t, []sent{
		{relay.ChannelControl, 1},
		{relay.ChannelControl, 0},
		{relay.ChannelControl, 2},
		{relay.ChannelControl, 3},
	}, f.writes())
}

func TestToggles_AndEmergencyStop(t *testing.T) {
	f := newFakeRelay()
	c := NewController(f, Options{})

	assert.True(t, c.TogglePump())
	assert.True(t, c.ToggleArms())
	assert.False(t, c.ToggleArms())
	assert.True(t, c.ToggleArms())
	c.Drive(Backward)

	c.EmergencyStop()
	assert.False(t, c.State(Pump))
	assert.False(t, c.State(Arms))
	assert.Equal(t, Stop, c.ActiveDirection())
	drain(c)

	got := f.writes()
	require.Len(t, got, 8)
	assert.Equal(t, []sent{
		{relay.ChannelControl, 0},
		{relay.ChannelPump, 0},
		{relay.ChannelArms, 0},
	}, got[5:])

	// a second emergency stop sends the same three commands
	c.EmergencyStop()
	drain(c)
	assert.Equal(t, got[5:], f.writes()[8:])
}

func TestSendFailure_IsSwallowed(t *testing.T) {
	f := newFakeRelay()
	f.setErr = errors.New("relay down")
	c := NewController(f, Options{})

	assert.True(t, c.TogglePump())
	drain(c)
	assert.True(t, c.State(Pump))
	assert.Len(t, f.writes(), 1)
}

func TestQueueFull_DropsCommand(t *testing.T) {
	f := newFakeRelay()
	c := NewController(f, Options{QueueSize: 1})

	c.TogglePump()
	c.TogglePump()
	drain(c)

	assert.Len(t, f.writes(), 1)
	c.mu.Lock()
	assert.Equal(t, 0, c.pending[Pump])
	c.mu.Unlock()
}

func TestPollStatus_UpdatesOnlyOnDifference(t *testing.T) {
	f := newFakeRelay()
	c := NewController(f, Options{})

	var changes []Actuator
	c.OnChange(func(a Actuator, on bool) {
		assert.True(t, on)
		changes = append(changes, a)
	})

	c.PollStatus(context.Background())
	assert.Empty(t, changes)

	f.values[relay.ChannelArms] = "1"
	c.PollStatus(context.Background())
	assert.Equal(t, []Actuator{Arms}, changes)
	assert.True(t, c.State(Arms))
	assert.False(t, c.State(Pump))

	c.PollStatus(context.Background())
	assert.Len(t, changes, 1)
}

func TestPollStatus_ErrorsKeepState(t *testing.T) {
	f := newFakeRelay()
	c := NewController(f, Options{})
	c.TogglePump()
	drain(c)

	f.getErr = errors.New("timeout")
	c.PollStatus(context.Background())
	assert.True(t, c.State(Pump))
}

func TestPollStatus_IgnoresPendingCommand(t *testing.T) {
	f := newFakeRelay()
	c := NewController(f, Options{})

	// remote still says off; the toggle has not been sent yet
	assert.True(t, c.TogglePump())
	c.PollStatus(context.Background())
	assert.True(t, c.State(Pump))

	drain(c)
	f.values[relay.ChannelPump] = "1"
	c.PollStatus(context.Background())
	assert.True(t, c.State(Pump))
}

func TestPollStatus_IgnoresCommandIssuedDuringPoll(t *testing.T) {
	f := newFakeRelay()
	f.hold = make(chan struct{})
	f.started = make(chan struct{}, 2)
	c := NewController(f, Options{})

	done := make(chan struct{})
	go func() {
		c.PollStatus(context.Background())
		close(done)
	}()
	<-f.started
	<-f.started

	// toggle and deliver while both reads are in flight
	assert.True(t, c.ToggleArms())
	f.mu.Lock()
	f.values[relay.ChannelPump] = "1"
	f.mu.Unlock()
	go drain(c)

	close(f.hold)
	<-done

	assert.True(t, c.State(Arms), "stale read must not undo the toggle")
	assert.True(t, c.State(Pump))
}

func TestRun_AgainstSimulator(t *testing.T) {
	sim := relaysim.New(relaysim.Options{Key: "k"})
	ts := httptest.NewServer(sim.Handler())
	t.Cleanup(ts.Close)

	c := NewController(relay.New(ts.Client(), ts.URL, "k", "WaterRobot"), Options{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	c.Drive(Forward)
	c.TogglePump()
	c.EmergencyStop()

	require.Eventually(t, func() bool { return len(sim.Commands()) == 5 }, 2*time.Second, 10*time.Millisecond)
	var got []string
	for _, cmd := range sim.Commands() {
		got = append(got, cmd.Channel+"="+cmd.Value)
	}
	assert.Equal(t, []string{"control=1", "pump=1", "control=0", "pump=0", "Arm_on_off=0"}, got)

	sim.SetChannel(relay.ChannelArms, "1")
	pollCtx, stop := context.WithCancel(context.Background())
	go c.RunPoller(pollCtx, 20*time.Millisecond)
	require.Eventually(t, func() bool { return c.State(Arms) }, 2*time.Second, 10*time.Millisecond)
	stop()
}

func TestParseDirection(t *testing.T) {
	d, ok := ParseDirection("backward")
	assert.True(t, ok)
	assert.Equal(t, Backward, d)

	_, ok = ParseDirection("up")
	assert.False(t, ok)
	assert.Equal(t, "left", Left.String())
}
