package relaysim

import (
	"bytes"
	"encoding/json"
	"image/jpeg"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func do(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestChannels_SetThenGet(t *testing.T) {
	s := New(Options{Key: "k1", Thing: "WaterRobot"})
	h := s.Handler()

	rr := do(t, h, http.MethodGet, "/channel/set/k1/WaterRobot/pump/1")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, h, http.MethodGet, "/channel/get/k1/WaterRobot/pump")
	require.Equal(t, http.StatusOK, rr.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "1", body["value"])

	cmds := s.Commands()
	require.Len(t, cmds, 1)
	assert.Equal(t, "pump", cmds[0].Channel)
	assert.Equal(t, "1", cmds[0].Value)
}

func TestChannels_NumericValues(t *testing.T) {
	s := New(Options{NumericValues: true})
	s.SetChannel("Arm_on_off", "1")

	rr := do(t, s.Handler(), http.MethodGet, "/channel/get/any/WaterRobot/Arm_on_off")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"value":1}`, rr.Body.String())
	assert.Empty(t, s.Commands())
}

func TestChannels_Rejections(t *testing.T) {
	s := New(Options{Key: "k1"})
	h := s.Handler()

	assert.Equal(t, http.StatusUnauthorized, do(t, h, http.MethodGet, "/channel/set/bad/WaterRobot/pump/1").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/channel/get/k1/OtherRobot/pump").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/channel/get/k1/WaterRobot/nope").Code)
	assert.Empty(t, s.Commands())
}

func TestProbeAndCapture(t *testing.T) {
	s := New(Options{Width: 32, Height: 24})
	h := s.Handler()

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodHead, "/").Code)

	rr := do(t, h, http.MethodGet, "/capture")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/jpeg", rr.Header().Get("Content-Type"))
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(rr.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.Width)
	assert.Equal(t, 24, cfg.Height)

	s.SetCameraDown(true)
	assert.Equal(t, http.StatusServiceUnavailable, do(t, h, http.MethodHead, "/").Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(t, h, http.MethodGet, "/capture").Code)
}

func TestStream_MultipartFrames(t *testing.T) {
	s := New(Options{Frames: 3, FrameInterval: time.Millisecond, Width: 16, Height: 16})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	resp, err := http.Get(ts.URL + "/stream")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	mt, params, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "multipart/x-mixed-replace", mt)

	mr := multipart.NewReader(resp.Body, params["boundary"])
	frames := 0
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		_, err = jpeg.DecodeConfig(part)
		require.NoError(t, err)
		frames++
	}
	assert.Equal(t, 3, frames)
}

func TestStream_Failing(t *testing.T) {
	s := New(Options{})
	s.SetStreamFailing(true)
	h := s.Handler()

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodHead, "/").Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(t, h, http.MethodGet, "/stream").Code)
}

func TestFrame_Differs(t *testing.T) {
	a, err := Frame(0, 16, 16)
	require.NoError(t, err)
	b, err := Frame(1, 16, 16)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
