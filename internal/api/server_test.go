package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amterp/tally/internal/service"
	"github.com/amterp/tally/testutil"
)

func TestServer_PushesStateToWebSocketClients(t *testing.T) {
	handler := NewHandler(testutil.NewSession(t), nil)
	srv := NewServer(handler, 0, nil)

	ts := httptest.NewServer(srv.httpServer.Handler)
	defer ts.Close()

	conn := dialWS(t, ts.URL)
	if msg := readWS(t, conn); msg.Type != MessageState {
		t.Fatalf("Type = %q, want %q", msg.Type, MessageState)
	}
	if got := srv.Hub().ClientCount(); got != 1 {
		t.Errorf("Hub has %d clients, want 1", got)
	}

	resp, err := http.Post(ts.URL+"/api/v1/counters", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	msg := readWS(t, conn)
	if msg.Type != MessageState {
		t.Fatalf("Type = %q, want %q", msg.Type, MessageState)
	}
	data, _ := json.Marshal(msg.Data)
	var snap service.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatal(err)
	}
	if len(snap.Counters) != 1 || snap.Counters[0].Title != "Untitled" {
		t.Errorf("Unexpected counters %+v", snap.Counters)
	}
}

func TestServer_Addr(t *testing.T) {
	srv := NewServer(NewHandler(testutil.NewSession(t), nil), 8123, nil)
	if srv.Addr() != ":8123" {
		t.Errorf("Addr() = %q, want %q", srv.Addr(), ":8123")
	}
}
