// Package relay is an HTTP client for the cloud relay's channel API. Each
// robot is a "thing" with named channels holding one scalar value.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Channels used by the robot.
const (
	ChannelControl = "control"
	ChannelPump    = "pump"
	ChannelArms    = "Arm_on_off"
)

// Client provides functions for reading and writing channels.
type Client struct {
	Client  *http.Client
	BaseURL string
	Key     string
	Thing   string
}

// New constructs a client for thing at baseURL.
func New(client *http.Client, baseURL, key, thing string) *Client {
	return &Client{
		Client:  client,
		BaseURL: strings.TrimRight(baseURL, "/"),
		Key:     key,
		Thing:   thing,
	}
}

// Value is a channel value as the relay returns it: a JSON string or
// number.
type Value struct {
	raw json.RawMessage
}

func (v *Value) UnmarshalJSON(b []byte) error {
	v.raw = append(v.raw[:0], b...)
	return nil
}

func (v Value) String() string {
	var s string
	if err := json.Unmarshal(v.raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(v.raw))
}

// Int parses the value the way a lenient integer parse would: leading
// digits count, anything after them is ignored.
func (v Value) Int() (int, bool) {
	s := strings.TrimSpace(v.String())
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || end == 0 && (s[end] == '-' || s[end] == '+')) {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Active reports whether the value is 1.
func (v Value) Active() bool {
	n, ok := v.Int()
	return ok && n == 1
}

type getResponse struct {
	Value Value `json:"value"`
}

func (c *Client) channelURL(op string, parts ...string) string {
	segs := []string{c.BaseURL, "channel", op, url.PathEscape(c.Key), url.PathEscape(c.Thing)}
	for _, p := range parts {
		segs = append(segs, url.PathEscape(p))
	}
	return strings.Join(segs, "/")
}

func (c *Client) do(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("while making request: %w", err)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("while calling relay: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("while reading body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("bad status code %d", resp.StatusCode)
	}
	return body, nil
}

// Set writes value to channel. Any 2xx answer is success.
func (c *Client) Set(ctx context.Context, channel string, value int) error {
	if _, err := c.do(ctx, c.channelURL("set", channel, strconv.Itoa(value))); err != nil {
		return fmt.Errorf("set %s=%d: %w", channel, value, err)
	}
	return nil
}

// Get reads the current value of channel.
func (c *Client) Get(ctx context.Context, channel string) (Value, error) {
	body, err := c.do(ctx, c.channelURL("get", channel))
	if err != nil {
		return Value{}, fmt.Errorf("get %s: %w", channel, err)
	}
	var r getResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return Value{}, fmt.Errorf("get %s: while unmarshaling body: %w", channel, err)
	}
	return r.Value, nil
}
