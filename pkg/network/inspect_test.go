package network

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testSnapshot(frame uint64) Snapshot {
	return Snapshot{
		Frame:    frame,
		State:    "started",
		Redrawn:  true,
		Position: [3]float32{0, 0, 200},
		Nodes:    10,
	}
}

func getSnapshot(t *testing.T, url string) (*http.Response, Snapshot) {
	t.Helper()
	resp, err := http.Get(url + "/snapshot")
	require.NoError(t, err)
	defer resp.Body.Close()

	var snap Snapshot
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	}
	return resp, snap
}

func TestInspectServer_Stream(t *testing.T) {
	s := NewInspectServer("", zaptest.NewLogger(t))
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Broadcast(ctx)

	resp, _ := getSnapshot(t, ts.URL)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return s.Clients() == 1 }, time.Second, 5*time.Millisecond)

	require.True(t, s.Publish(testSnapshot(1)))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got Snapshot
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, testSnapshot(1), got)

	resp, snap := getSnapshot(t, ts.URL)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, testSnapshot(1), snap)

	t.Run("Late Client Gets Latest", func(t *testing.T) {
		late, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
		require.NoError(t, err)
		defer late.Close()

		require.NoError(t, late.SetReadDeadline(time.Now().Add(2*time.Second)))
		var first Snapshot
		require.NoError(t, late.ReadJSON(&first))
		assert.Equal(t, uint64(1), first.Frame)
	})

	t.Run("Disconnect", func(t *testing.T) {
		require.NoError(t, conn.Close())
		require.Eventually(t, func() bool { return s.Clients() == 0 }, time.Second, 5*time.Millisecond)
	})
}

func TestInspectServer_PublishNeverBlocks(t *testing.T) {
	s := NewInspectServer("", nil)
	for i := 0; i < snapshotBuffer; i++ {
		require.True(t, s.Publish(testSnapshot(uint64(i))))
	}
	assert.False(t, s.Publish(testSnapshot(99)))
}

func TestInspectServer_SnapshotMethod(t *testing.T) {
	s := NewInspectServer("", nil)
	req := httptest.NewRequest(http.MethodPost, "/snapshot", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestInspectServer_Serve(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := NewInspectServer(lis.Addr().String(), zaptest.NewLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, lis) }()

	url := "http://" + lis.Addr().String()
	s.Publish(testSnapshot(7))
	require.Eventually(t, func() bool {
		_, ok := s.Latest()
		return ok
	}, time.Second, 5*time.Millisecond)

	resp, snap := getSnapshot(t, url)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, uint64(7), snap.Frame)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}
