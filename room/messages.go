package room

import (
	"horde/game"
	"horde/protocol"
)

type Conn interface {
	Send([]byte) error
	Close() error
	Codec() protocol.Codec
}

// Join: posted by the manager once the connection is routed. Start is set
// when this member brings the room to its start threshold.
type Join struct {
	Conn     Conn
	PlayerID string
	Name     string
	Start    bool
	Reply    chan<- JoinResult // optional
}

type JoinResult struct {
	PlayerID string
	RoomID   string
}

// Leave: explicit leave or disconnect
type Leave struct {
	PlayerID string
}

type Move struct {
	PlayerID string
	Pos      game.Vec
	Rotation float64
}

type Fire struct {
	PlayerID  string
	Pos       game.Vec
	Direction game.Vec
	Weapon    string
}

type Build struct {
	PlayerID string
	Kind     game.BuildingKind
	Pos      game.Vec
}

type CollectStart struct {
	PlayerID   string
	ResourceID string
}

type CollectStop struct {
	PlayerID   string
	ResourceID string
}

type CollectDone struct {
	PlayerID   string
	ResourceID string
}

type Purchase struct {
	PlayerID string
	Item     game.Purchase
}

type RequestGold struct {
	PlayerID string
}

type EndShop struct {
	PlayerID string
}

// OpenShop comes from outside the match (admin RPC).
type OpenShop struct {
	Reply chan<- bool // optional
}

type Damage struct {
	PlayerID string // reporter
	TargetID string
	Amount   int
}

type ZombieDown struct {
	PlayerID string
	ZombieID string
}

type BuildingDown struct {
	PlayerID   string
	BuildingID string
}

type Respawn struct {
	PlayerID string
}

type Inspect struct {
	Reply chan<- Summary
}

// Summary is a read-only view of a room for the registry and admin API.
type Summary struct {
	Code      string
	Phase     game.Phase
	Wave      int
	Countdown int
	Names     []string
	Zombies   int
	Buildings int
	Resources int
}
