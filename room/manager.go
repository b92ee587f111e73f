package room

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"sync"

	"github.com/sirupsen/logrus"

	"horde/logger"
)

var (
	ErrAlreadyRouted = errors.New("connection is already in a room")
	ErrNotRouted     = errors.New("connection is not in a room")
	ErrRoomNotFound  = errors.New("room not found")
	ErrRoomClosed    = errors.New("room closed")
	ErrWrongPhase    = errors.New("room is not in an active wave")
	ErrManagerClosed = errors.New("manager closed")
)

// RoomInfo is returned by the API for the server list.
type RoomInfo struct {
	Code    string `json:"code"`
	Players int    `json:"players"`
	Started bool   `json:"started"`
	Phase   string `json:"phase"`
	Wave    int    `json:"wave"`
}

type Options struct {
	Capacity       int
	StartThreshold int
	Room           Settings
}

func DefaultOptions() Options {
	return Options{Capacity: 4, StartThreshold: 1, Room: DefaultSettings()}
}

type entry struct {
	room    *Room
	members map[string]struct{}
	started bool
}

// Manager routes connections into rooms and owns membership. Every room in
// the table has at least one member; the last leave tears it down.
type Manager struct {
	mu     sync.RWMutex
	opts   Options
	rooms  map[string]*entry
	order  []string          // creation order, for routing
	routes map[string]string // conn id -> room code
	closed bool
}

func NewManager(opts Options) *Manager {
	if opts.Capacity <= 0 {
		opts.Capacity = 4
	}
	if opts.StartThreshold <= 0 {
		opts.StartThreshold = 1
	}
	return &Manager{
		opts:   opts,
		rooms:  make(map[string]*entry),
		routes: make(map[string]string),
	}
}

// Route puts connID into the oldest room that has not started and has
// space, or a fresh one. connID doubles as the player id.
func (m *Manager) Route(connID, name string, conn Conn) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return "", ErrManagerClosed
	}
	if _, ok := m.routes[connID]; ok {
		return "", ErrAlreadyRouted
	}

	var e *entry
	for _, code := range m.order {
		cand := m.rooms[code]
		if !cand.started && len(cand.members) < m.opts.Capacity {
			e = cand
			break
		}
	}
	if e == nil {
		e = m.createRoomLocked()
	}

	e.members[connID] = struct{}{}
	m.routes[connID] = e.room.Code
	start := !e.started && len(e.members) >= m.opts.StartThreshold
	if start {
		e.started = true
	}
	e.room.Post(Join{Conn: conn, PlayerID: connID, Name: name, Start: start})
	logger.Log.WithFields(logrus.Fields{
		"room":    e.room.Code,
		"conn":    connID,
		"members": len(e.members),
	}).Debug("connection routed")
	return e.room.Code, nil
}

func (m *Manager) createRoomLocked() *entry {
	code := generateCode(6)
	for {
		if _, exists := m.rooms[code]; !exists {
			break
		}
		code = generateCode(6)
	}
	r := New(code, m.opts.Room)
	e := &entry{room: r, members: make(map[string]struct{})}
	m.rooms[code] = e
	m.order = append(m.order, code)
	go r.Run()
	logger.Room(code).Info("room created")
	return e
}

func (m *Manager) Locate(connID string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	code, ok := m.routes[connID]
	return code, ok
}

// Leave drops the membership and stops the room when it empties. Stopping
// the room stops its ticker, so no wave or shop timer fires afterwards.
func (m *Manager) Leave(connID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	code, ok := m.routes[connID]
	if !ok {
		return ErrNotRouted
	}
	delete(m.routes, connID)
	e := m.rooms[code]
	delete(e.members, connID)
	e.room.Post(Leave{PlayerID: connID})
	if len(e.members) > 0 {
		return nil
	}
	m.removeRoomLocked(code)
	return nil
}

func (m *Manager) removeRoomLocked(code string) {
	e, ok := m.rooms[code]
	if !ok {
		return
	}
	e.room.Stop()
	delete(m.rooms, code)
	for i, c := range m.order {
		if c == code {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	logger.Room(code).Info("room removed")
}

// Dispatch posts cmd to the room connID belongs to.
func (m *Manager) Dispatch(connID string, cmd any) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	code, ok := m.routes[connID]
	if !ok {
		return ErrNotRouted
	}
	if !m.rooms[code].room.Post(cmd) {
		return ErrRoomClosed
	}
	return nil
}

func (m *Manager) Room(code string) (*Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.rooms[code]
	if !ok {
		return nil, false
	}
	return e.room, true
}

// ListRooms returns all active rooms with code and player count. Phase and
// wave come from the room itself and are left empty if it does not answer.
func (m *Manager) ListRooms(ctx context.Context) []RoomInfo {
	m.mu.RLock()
	out := make([]RoomInfo, 0, len(m.rooms))
	rooms := make([]*Room, 0, len(m.rooms))
	for _, code := range m.order {
		e := m.rooms[code]
		out = append(out, RoomInfo{Code: code, Players: len(e.members), Started: e.started})
		rooms = append(rooms, e.room)
	}
	m.mu.RUnlock()

	for i, r := range rooms {
		s, err := r.Inspect(ctx)
		if err != nil {
			continue
		}
		out[i].Phase = s.Phase.String()
		out[i].Wave = s.Wave
	}
	return out
}

func (m *Manager) OpenShop(ctx context.Context, code string) error {
	r, ok := m.Room(code)
	if !ok {
		return ErrRoomNotFound
	}
	opened, err := r.OpenShop(ctx)
	if err != nil {
		return err
	}
	if !opened {
		return ErrWrongPhase
	}
	return nil
}

// Close stops every room. Routing fails afterwards.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	for code, e := range m.rooms {
		e.room.Stop()
		delete(m.rooms, code)
	}
	m.order = nil
	m.routes = make(map[string]string)
}

const codeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func generateCode(n int) string {
	b := make([]byte, n)
	max := big.NewInt(int64(len(codeChars)))
	for i := range b {
		idx, _ := rand.Int(rand.Reader, max)
		b[i] = codeChars[idx.Int64()]
	}
	return string(b)
}
