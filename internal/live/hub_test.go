package live

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"desynflow-backend/internal/models"
)

func dialHub(t *testing.T, h *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(h.HandleWebSocket))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, h *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if h.ClientCount() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("client count never reached %d (have %d)", want, h.ClientCount())
}

func TestHubBroadcastReachesClient(t *testing.T) {
	h := NewHub()
	defer h.Close()

	conn := dialHub(t, h)
	waitForClients(t, h, 1)

	h.Broadcast("assignment", map[string]int{"request_id": 5, "inspector_id": 9})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event Event
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if event.Type != "assignment" {
		t.Errorf("event type = %q, want assignment", event.Type)
	}
	payload, _ := json.Marshal(event.Payload)
	if !strings.Contains(string(payload), `"request_id":5`) {
		t.Errorf("payload missing request_id: %s", payload)
	}
}

func TestHubClientCountTracksDisconnect(t *testing.T) {
	h := NewHub()
	defer h.Close()

	conn := dialHub(t, h)
	waitForClients(t, h, 1)

	conn.Close()
	waitForClients(t, h, 0)
}

func TestPollerBroadcastsSnapshots(t *testing.T) {
	h := NewHub()
	defer h.Close()

	conn := dialHub(t, h)
	waitForClients(t, h, 1)

	source := staticSource{locations: []models.InspectorLocation{
		{InspectorID: 3, Latitude: 12.97, Longitude: 77.59, Availability: models.AvailabilityAvailable},
	}}
	poller := NewPoller(h, source, 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go poller.Run(ctx)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event Event
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if event.Type != "locations" {
		t.Errorf("event type = %q, want locations", event.Type)
	}
}

func TestPollerDefaultInterval(t *testing.T) {
	h := NewHub()
	defer h.Close()
	p := NewPoller(h, staticSource{}, 0)
	if p.interval != DefaultPollInterval {
		t.Errorf("interval = %s, want %s", p.interval, DefaultPollInterval)
	}
}

type staticSource struct {
	locations []models.InspectorLocation
}

func (s staticSource) Snapshot(context.Context) ([]models.InspectorLocation, error) {
	return s.locations, nil
}
