package network

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"horde/protocol"
	"horde/room"
)

func newTestServer(t *testing.T, threshold int) (*httptest.Server, *room.Manager) {
	t.Helper()
	opts := room.DefaultOptions()
	opts.StartThreshold = threshold
	opts.Room.TickInterval = time.Hour
	m := room.NewManager(opts)
	srv := httptest.NewServer(NewServer(m))
	t.Cleanup(func() {
		srv.Close()
		m.Close()
	})
	return srv, m
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws" + query
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { ws.Close() })
	return ws
}

func sendJSON(t *testing.T, ws *websocket.Conn, msgType string, payload any) {
	t.Helper()
	b, err := protocol.Encode(msgType, payload)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := ws.WriteMessage(websocket.TextMessage, b); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func readUntil(t *testing.T, ws *websocket.Conn, msgType string) protocol.Envelope {
	t.Helper()
	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		mt, b, err := ws.ReadMessage()
		if err != nil {
			t.Fatalf("read while waiting for %q: %v", msgType, err)
		}
		var env protocol.Envelope
		if mt == websocket.BinaryMessage {
			env, err = protocol.DecodeBinaryEnvelope(b)
		} else {
			env, err = protocol.DecodeEnvelope(b)
		}
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if env.T == msgType {
			return env
		}
	}
}

func TestJoinOverWebsocket(t *testing.T) {
	srv, m := newTestServer(t, 1)
	ws := dial(t, srv, "")

	sendJSON(t, ws, protocol.MsgJoin, protocol.Join{Name: "alice"})
	id, err := protocol.DecodePayload[protocol.PlayerID](readUntil(t, ws, protocol.MsgPlayerID))
	if err != nil {
		t.Fatalf("decode player_id: %v", err)
	}
	if id.PlayerID == "" || id.RoomID == "" {
		t.Fatalf("player_id = %+v", id)
	}
	if code, ok := m.Locate(id.PlayerID); !ok || code != id.RoomID {
		t.Fatalf("manager has %q, %v for %s", code, ok, id.PlayerID)
	}
	readUntil(t, ws, protocol.MsgStart)
	st, err := protocol.DecodePayload[protocol.State](readUntil(t, ws, protocol.MsgState))
	if err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if st.Phase != "active" || len(st.Players) != 1 || st.Players[0].Name != "alice" {
		t.Fatalf("state = %+v", st)
	}

	sendJSON(t, ws, protocol.MsgPurchase, protocol.Purchase{Item: "weapon", Weapon: "smg", Cost: 60})
	sendJSON(t, ws, protocol.MsgRequestGold, struct{}{})
	g, err := protocol.DecodePayload[protocol.Gold](readUntil(t, ws, protocol.MsgGold))
	if err != nil {
		t.Fatalf("decode gold: %v", err)
	}
	if g.Gold != 50 {
		t.Fatalf("gold = %d, want 50", g.Gold)
	}
}

func TestMsgPackCodec(t *testing.T) {
	srv, _ := newTestServer(t, 1)
	ws := dial(t, srv, "?codec=msgpack")

	b, err := protocol.MsgPack.Encode(protocol.MsgJoin, protocol.Join{Name: "bob"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := ws.WriteMessage(websocket.BinaryMessage, b); err != nil {
		t.Fatalf("write: %v", err)
	}
	env := readUntil(t, ws, protocol.MsgRoster)
	if !env.Binary {
		t.Fatalf("msgpack client got a text frame")
	}
	roster, err := protocol.DecodePayload[protocol.Roster](env)
	if err != nil {
		t.Fatalf("decode roster: %v", err)
	}
	if len(roster.Names) != 1 || roster.Names[0] != "bob" {
		t.Fatalf("roster = %v", roster.Names)
	}
}

func TestFirstMessageMustBeJoin(t *testing.T) {
	srv, m := newTestServer(t, 1)
	ws := dial(t, srv, "")

	sendJSON(t, ws, protocol.MsgMove, protocol.Move{})
	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := ws.ReadMessage(); err == nil {
		t.Fatalf("expected the server to close the connection")
	}
	ctxRooms := m.ListRooms(context.Background())
	if len(ctxRooms) != 0 {
		t.Fatalf("rooms created without a join: %+v", ctxRooms)
	}
}

func TestDisconnectLeavesRoom(t *testing.T) {
	srv, m := newTestServer(t, 2)
	ws1 := dial(t, srv, "")
	ws2 := dial(t, srv, "")

	sendJSON(t, ws1, protocol.MsgJoin, protocol.Join{Name: "alice"})
	readUntil(t, ws1, protocol.MsgRoster)
	sendJSON(t, ws2, protocol.MsgJoin, protocol.Join{Name: "bob"})
	id2, _ := protocol.DecodePayload[protocol.PlayerID](readUntil(t, ws2, protocol.MsgPlayerID))

	ws2.Close()
	for {
		roster, err := protocol.DecodePayload[protocol.Roster](readUntil(t, ws1, protocol.MsgRoster))
		if err != nil {
			t.Fatalf("decode roster: %v", err)
		}
		if len(roster.Names) == 1 {
			if roster.Names[0] != "alice" {
				t.Fatalf("roster after disconnect = %v", roster.Names)
			}
			break
		}
	}
	if _, ok := m.Locate(id2.PlayerID); ok {
		t.Fatalf("disconnected player still routed")
	}
	if rooms := m.ListRooms(context.Background()); len(rooms) != 1 || rooms[0].Players != 1 {
		t.Fatalf("rooms after disconnect = %+v", rooms)
	}
}

func TestExplicitLeaveClosesConnection(t *testing.T) {
	srv, m := newTestServer(t, 1)
	ws := dial(t, srv, "")
	sendJSON(t, ws, protocol.MsgJoin, protocol.Join{})
	readUntil(t, ws, protocol.MsgRoster)

	sendJSON(t, ws, protocol.MsgLeave, struct{}{})
	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
	deadline := time.Now().Add(time.Second)
	for len(m.ListRooms(context.Background())) != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("room not torn down after leave")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHealthAndVersion(t *testing.T) {
	srv, _ := newTestServer(t, 1)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Fatalf("health = %d %q", resp.StatusCode, body)
	}

	resp, err = http.Get(srv.URL + "/version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	defer resp.Body.Close()
	var info map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		t.Fatalf("decode version: %v", err)
	}
	if _, ok := info["go"]; !ok {
		t.Fatalf("version payload = %v", info)
	}
}
