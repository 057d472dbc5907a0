package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/fleetease-rental/internal/model"
)

func TestHub_PushRoutesByUser(t *testing.T) {
	h := NewHub(nil)
	a, b := NewClient("u1"), NewClient("u2")
	h.Add(a)
	h.Add(b)

	h.Push("u1", &model.Notification{ID: "notif_1", UserID: "u1"})
	require.Len(t, a.Send, 1)
	require.Len(t, b.Send, 0)

	var msg pushMessage
	require.NoError(t, json.Unmarshal(<-a.Send, &msg))
	require.Equal(t, "notification", msg.Type)
	require.Equal(t, "notif_1", msg.Notification.ID)

	h.Remove(a)
	h.Remove(a)
	require.Zero(t, h.Count("u1"))
	h.Push("u1", &model.Notification{ID: "notif_2"})
}

func TestHub_DropsSlowClient(t *testing.T) {
	h := NewHub(nil)
	c := &Client{UserID: "u1", Send: make(chan []byte, 1)}
	h.Add(c)

	h.Push("u1", &model.Notification{ID: "a"})
	h.Push("u1", &model.Notification{ID: "b"})
	require.Zero(t, h.Count("u1"))

	_, ok := <-c.Send
	require.True(t, ok)
	_, ok = <-c.Send
	require.False(t, ok, "queue is closed once dropped")
}

func TestHub_ServeDeliversOverWebsocket(t *testing.T) {
	h := NewHub(nil)
	up := websocket.Upgrader{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		h.Serve(ctx, conn, "u1")
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return h.Count("u1") == 1 }, time.Second, 10*time.Millisecond)
	h.Push("u1", &model.Notification{ID: "notif_ws", Title: "Merhaba"})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	require.Contains(t, string(data), `"notification_id":"notif_ws"`)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return h.Count("u1") == 0 }, time.Second, 10*time.Millisecond)
}
