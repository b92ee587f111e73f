package admin

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"

	"horde/network"
	"horde/protocol"
	"horde/room"
)

type nopConn struct{}

func (nopConn) Send([]byte) error { return nil }
func (nopConn) Close() error { return nil }
func (nopConn) Codec() protocol.Codec { return protocol.JSON }

func newAdmin(t *testing.T, threshold int) (*Client, *room.Manager) {
	t.Helper()
	opts := room.DefaultOptions()
	opts.StartThreshold = threshold
	opts.Room.TickInterval = time.Hour
	m := room.NewManager(opts)

	srv := network.NewServer(m)
	srv.Handle(NewHandler(NewService(m)))
	ts := httptest.NewServer(srv)
	t.Cleanup(func() {
		ts.Close()
		m.Close()
	})
	return NewClient(ts.Client(), ts.URL), m
}

func TestListRooms(t *testing.T) {
	c, m := newAdmin(t, 2)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	rooms, err := c.ListRooms(ctx)
	if err != nil {
		t.Fatalf("ListRooms: %v", err)
	}
	if len(rooms) != 0 {
		t.Fatalf("rooms before any join = %+v", rooms)
	}

	code, _ := m.Route("c1", "alice", nopConn{})
	rooms, err = c.ListRooms(ctx)
	if err != nil {
		t.Fatalf("ListRooms: %v", err)
	}
	if len(rooms) != 1 || rooms[0].Code != code || rooms[0].Players != 1 || rooms[0].Phase != "lobby" {
		t.Fatalf("rooms = %+v", rooms)
	}
}

func TestOpenShop(t *testing.T) {
	c, m := newAdmin(t, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := c.OpenShop(ctx, "NOPE00")
	if connect.CodeOf(err) != connect.CodeNotFound {
		t.Fatalf("unknown room: code %v, err %v", connect.CodeOf(err), err)
	}
	if err := c.OpenShop(ctx, ""); connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Fatalf("empty room id: %v", err)
	}

	code, _ := m.Route("c1", "alice", nopConn{})
	if err := c.OpenShop(ctx, code); err != nil {
		t.Fatalf("OpenShop: %v", err)
	}
	if err := c.OpenShop(ctx, code); connect.CodeOf(err) != connect.CodeFailedPrecondition {
		t.Fatalf("second OpenShop: %v", err)
	}
	rooms, _ := c.ListRooms(ctx)
	if len(rooms) != 1 || rooms[0].Phase != "shop" {
		t.Fatalf("rooms after open = %+v", rooms)
	}
}
