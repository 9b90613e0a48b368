package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/waterbot/internal/relaysim"
)

func newSim(t *testing.T, opts relaysim.Options) (*relaysim.Server, *Client) {
	t.Helper()
	sim := relaysim.New(opts)
	ts := httptest.NewServer(sim.Handler())
	t.Cleanup(ts.Close)
	return sim, New(ts.Client(), ts.URL+"/", "k1", "WaterRobot")
}

func TestSetThenGet(t *testing.T) {
	sim, c := newSim(t, relaysim.Options{Key: "k1"})
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, ChannelArms, 1))
	assert.Equal(t, "1", sim.Channel(ChannelArms))

	v, err := c.Get(ctx, ChannelArms)
	require.NoError(t, err)
	assert.True(t, v.Active())
	assert.Equal(t, "1", v.String())
}

func TestSet_BadKey(t *testing.T) {
	sim, c := newSim(t, relaysim.Options{Key: "other"})

	err := c.Set(context.Background(), ChannelPump, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Empty(t, sim.Commands())
}

func TestGet_NumericValue(t *testing.T) {
	sim, c := newSim(t, relaysim.Options{Key: "k1", NumericValues: true})
	sim.SetChannel(ChannelPump, "1")

	v, err := c.Get(context.Background(), ChannelPump)
	require.NoError(t, err)
	assert.True(t, v.Active())
}

func TestGet_Unreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	ts.Close()

	c := New(http.DefaultClient, ts.URL, "k", "t")
	_, err := c.Get(context.Background(), ChannelPump)
	require.Error(t, err)
}

func TestValue_Active(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{`"1"`, true},
		{`1`, true},
		{`1.0`, true},
		{`"1abc"`, true},
		{`" 1"`, true},
		{`"0"`, false},
		{`0`, false},
		{`"10"`, false},
		{`"on"`, false},
		{`null`, false},
		{`""`, false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var r getResponse
			require.NoError(t, json.Unmarshal([]byte(`{"value":`+tt.raw+`}`), &r))
			assert.Equal(t, tt.want, r.Value.Active())
		})
	}
}

func TestChannelURL_Escapes(t *testing.T) {
	c := New(http.DefaultClient, "https://relay.example", "a/b", "Water Robot")
	assert.Equal(t, "https://relay.example/channel/set/a%2Fb/Water%20Robot/pump/1", c.channelURL("set", "pump", "1"))
}
