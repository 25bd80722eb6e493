package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nhooyr.io/websocket"

	"signalboard/internal/feed"
	"signalboard/internal/models"
)

// readSSEFrame returns the payload of the next data frame, skipping
// keepalive comments. Bounded so a broken stream fails instead of hanging.
func readSSEFrame(t *testing.T, r *bufio.Reader) []byte {
	t.Helper()
	type result struct {
		data []byte
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				ch <- result{nil, err}
				return
			}
			line = strings.TrimRight(line, "\n")
			if strings.HasPrefix(line, "data: ") {
				ch <- result{[]byte(strings.TrimPrefix(line, "data: ")), nil}
				return
			}
		}
	}()
	select {
	case res := <-ch:
		if res.err != nil {
			t.Fatalf("read SSE frame: %v", res.err)
		}
		return res.data
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for SSE frame")
		return nil
	}
}

func waitSubscriberCount(t *testing.T, hub *feed.Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for hub.SubscriberCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("subscriber count = %d, want %d", hub.SubscriberCount(), want)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestStreamEmitsLatestThenLiveFrames(t *testing.T) {
	env := newTestEnv(t, envConfig{})
	if w := env.ingest(t, validPayload("s1", "demo", "r1", 1000)); w.Code != http.StatusOK {
		t.Fatalf("seed ingest status = %d", w.Code)
	}

	srv := httptest.NewServer(env.router)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/signals/stream?platform=demo")
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Fatalf("content type = %q", ct)
	}

	reader := bufio.NewReader(resp.Body)

	var first models.Signal
	if err := json.Unmarshal(readSSEFrame(t, reader), &first); err != nil {
		t.Fatalf("decode first frame: %v", err)
	}
	if first.ID != "s1" {
		t.Fatalf("first frame id = %q, want s1 (current latest row)", first.ID)
	}

	// A signal ingested while connected arrives as a live frame.
	if w := env.ingest(t, validPayload("s2", "demo", "r2", 2000)); w.Code != http.StatusOK {
		t.Fatalf("live ingest status = %d", w.Code)
	}
	var second models.Signal
	if err := json.Unmarshal(readSSEFrame(t, reader), &second); err != nil {
		t.Fatalf("decode second frame: %v", err)
	}
	if second.ID != "s2" {
		t.Fatalf("second frame id = %q, want s2", second.ID)
	}
}

func TestStreamDisconnectReleasesSubscription(t *testing.T) {
	env := newTestEnv(t, envConfig{})
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/signals/stream")
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}
	waitSubscriberCount(t, env.hub, 1)

	resp.Body.Close()
	waitSubscriberCount(t, env.hub, 0)

	// Publishing after disconnect must not block or panic.
	env.hub.Publish(models.Signal{ID: "late", Platform: "demo"})
}

func TestStreamSendsKeepaliveComments(t *testing.T) {
	env := newTestEnv(t, envConfig{heartbeat: 30 * time.Millisecond})
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/signals/stream")
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}
	defer resp.Body.Close()

	type line struct {
		s   string
		err error
	}
	ch := make(chan line, 1)
	go func() {
		reader := bufio.NewReader(resp.Body)
		for {
			s, rerr := reader.ReadString('\n')
			if rerr != nil {
				ch <- line{"", rerr}
				return
			}
			if strings.HasPrefix(s, ":") {
				ch <- line{s, nil}
				return
			}
		}
	}()
	select {
	case got := <-ch:
		if got.err != nil {
			t.Fatalf("read keepalive: %v", got.err)
		}
		if !strings.HasPrefix(got.s, ": keepalive") {
			t.Fatalf("comment line = %q", got.s)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no keepalive within 3s")
	}
}

func TestWebsocketFeedMirrorsStream(t *testing.T) {
	env := newTestEnv(t, envConfig{})
	if w := env.ingest(t, validPayload("s1", "demo", "r1", 1000)); w.Code != http.StatusOK {
		t.Fatalf("seed ingest status = %d", w.Code)
	}

	srv := httptest.NewServer(env.router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/signals/ws?platform=demo"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read first message: %v", err)
	}
	var first models.Signal
	if err := json.Unmarshal(data, &first); err != nil {
		t.Fatalf("decode first message: %v", err)
	}
	if first.ID != "s1" {
		t.Fatalf("first message id = %q, want s1", first.ID)
	}

	if w := env.ingest(t, validPayload("s2", "demo", "r2", 2000)); w.Code != http.StatusOK {
		t.Fatalf("live ingest status = %d", w.Code)
	}
	_, data, err = conn.Read(ctx)
	if err != nil {
		t.Fatalf("read second message: %v", err)
	}
	var second models.Signal
	if err := json.Unmarshal(data, &second); err != nil {
		t.Fatalf("decode second message: %v", err)
	}
	if second.ID != "s2" {
		t.Fatalf("second message id = %q, want s2", second.ID)
	}

	conn.Close(websocket.StatusNormalClosure, "")
	waitSubscriberCount(t, env.hub, 0)
}
