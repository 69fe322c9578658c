package remote

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	dialer := websocket.Dialer{}
	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readJSON(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("unmarshal %s: %v", data, err)
	}
}

func TestFrameDelivery(t *testing.T) {
	h := NewHub()
	srv := httptest.NewServer(h.Handler())
	defer srv.Close()
	defer h.Close()

	h.PublishFrame(3, 0)
	h.PublishState(true, false)
	conn := dial(t, srv)

	var replay FrameMessage
	readJSON(t, conn, &replay)
	if replay.Type != "frame" || replay.FrameIndex != 3 {
		t.Fatalf("replayed %+v, want frame 3", replay)
	}
	var state StateMessage
	readJSON(t, conn, &state)
	if state.Type != "state" || !state.Playing || state.Looping {
		t.Fatalf("replayed state %+v", state)
	}

	h.PublishFrame(17, 2)
	var msg FrameMessage
	readJSON(t, conn, &msg)
	if msg.FrameIndex != 17 || msg.ClipIndex != 2 {
		t.Errorf("got %+v, want frame 17 clip 2", msg)
	}
}

func TestCheckOrigin(t *testing.T) {
	tests := []struct {
		origin string
		want   bool
	}{
		{"", true},
		{"http://localhost:8080", true},
		{"http://127.0.0.1", true},
		{"http://[::1]:3000", true},
		{"https://evil.example", false},
		{"http://192.168.1.20", false},
		{"::not a url", false},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/ws", nil)
		if tt.origin != "" {
			r.Header.Set("Origin", tt.origin)
		}
		if got := checkOrigin(r); got != tt.want {
			t.Errorf("checkOrigin(%q) = %v, want %v", tt.origin, got, tt.want)
		}
	}
}

func TestForeignOriginRejected(t *testing.T) {
	h := NewHub()
	srv := httptest.NewServer(h.Handler())
	defer srv.Close()
	defer h.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	header := http.Header{"Origin": []string{"https://evil.example"}}
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err == nil {
		conn.Close()
		t.Fatal("foreign origin was upgraded")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("resp = %v, want 403", resp)
	}
	if h.Clients() != 0 {
		t.Fatalf("Clients() = %d, want 0", h.Clients())
	}
}

func TestCommands(t *testing.T) {
	h := NewHub()
	srv := httptest.NewServer(h.Handler())
	defer srv.Close()
	defer h.Close()

	conn := dial(t, srv)
	for _, m := range []string{
		`{"type":"bogus"}`,
		`not json`,
		`{"type":"seek","frame_index":42}`,
		`{"type":"pause"}`,
	} {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(m)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	want := []Command{{Type: "seek", FrameIndex: 42}, {Type: "pause"}}
	for _, w := range want {
		select {
		case got := <-h.Commands():
			if got != w {
				t.Errorf("command = %+v, want %+v", got, w)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for %+v", w)
		}
	}
}

func TestEnqueueDropsOldest(t *testing.T) {
	c := &client{send: make(chan []byte, 2)}
	c.enqueue([]byte("1"))
	c.enqueue([]byte("2"))
	c.enqueue([]byte("3"))
	if got := string(<-c.send); got != "2" {
		t.Errorf("first = %q, want 2", got)
	}
	if got := string(<-c.send); got != "3" {
		t.Errorf("second = %q, want 3", got)
	}
}

type fakeTarget struct {
	seeks       []int
	play, pause int
}

func (f *fakeTarget) SeekToFrame(i int) { f.seeks = append(f.seeks, i) }
func (f *fakeTarget) Play()             { f.play++ }
func (f *fakeTarget) Pause()            { f.pause++ }

func TestApply(t *testing.T) {
	f := &fakeTarget{}
	Apply(f, Command{Type: "seek", FrameIndex: 9})
	Apply(f, Command{Type: "play"})
	Apply(f, Command{Type: "pause"})
	Apply(f, Command{Type: "rewind"})
	if len(f.seeks) != 1 || f.seeks[0] != 9 || f.play != 1 || f.pause != 1 {
		t.Errorf("target = %+v", f)
	}
}
