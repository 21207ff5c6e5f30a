package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTelegramSend(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("TOKEN", "")
	tn.APIBase = srv.URL
	require.NoError(t, tn.Notify(context.Background(), 42, "hello"))
	assert.Equal(t, float64(42), got["chat_id"])
	assert.Equal(t, "hello", got["text"])
	assert.Equal(t, "HTML", got["parse_mode"])
}

func TestTelegramSend_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "chat not found", http.StatusBadRequest)
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("TOKEN", "")
	tn.APIBase = srv.URL
	tn.MaxRetries = 0
	err := tn.Notify(context.Background(), 1, "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestPolling_RoutesCommandsAndReplies(t *testing.T) {
	var mu sync.Mutex
	var replies []map[string]any
	polled := 0
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			mu.Lock()
			polled++
			first := polled == 1
			mu.Unlock()
			if !first {
				cancel()
				w.Write([]byte(`{"ok":true,"result":[]}`))
				return
			}
			w.Write([]byte(`{"ok":true,"result":[
				{"update_id":10,"message":{"text":" /profile ","chat":{"id":555},"from":{"id":77,"username":"vega"}}},
				{"update_id":11,"message":{"text":"","chat":{"id":555},"from":{"id":77}}}
			]}`))
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			var body map[string]any
			json.NewDecoder(r.Body).Decode(&body)
			mu.Lock()
			replies = append(replies, body)
			mu.Unlock()
			w.Write([]byte(`{"ok":true}`))
		}
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("TOKEN", "")
	tn.APIBase = srv.URL

	var seen []Message
	tn.StartPolling(ctx, func(_ context.Context, msg Message) string {
		seen = append(seen, msg)
		return "pong"
	})

	require.Len(t, seen, 1)
	assert.Equal(t, Message{ChatID: 555, UserID: 77, Username: "vega", Text: "/profile"}, seen[0])
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, replies, 1)
	assert.Equal(t, float64(555), replies[0]["chat_id"])
	assert.Equal(t, "pong", replies[0]["text"])
}

func TestHub_BroadcastsToSubscribers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub()
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	// Registration is asynchronous; publish until the frame arrives.
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-time.After(20 * time.Millisecond):
				hub.Notify(ctx, 9, "found a planet")
			}
		}
	}()
	defer close(done)

	var evt FeedEvent
	require.NoError(t, conn.ReadJSON(&evt))
	assert.Equal(t, "notification", evt.Type)
	assert.Equal(t, int64(9), evt.PlayerID)
	assert.Equal(t, "found a planet", evt.Text)
}

type errSink struct{ err error }

func (s errSink) Notify(context.Context, int64, string) error { return s.err }

func TestFanout(t *testing.T) {
	boom := errors.New("boom")
	f := Fanout{errSink{}, errSink{err: boom}, errSink{}}
	assert.ErrorIs(t, f.Notify(context.Background(), 1, "x"), boom)
	assert.NoError(t, Fanout{errSink{}}.Notify(context.Background(), 1, "x"))
}
