package protocol

import (
	"encoding/json"
)

// Client -> server.
const (
	MsgJoin         = "join"
	MsgLeave        = "leave"
	MsgMove         = "move"
	MsgFire         = "fire"
	MsgBuild        = "build"
	MsgCollectStart = "collect_start"
	MsgCollectStop  = "collect_stop"
	MsgCollectDone  = "collect_done"
	MsgPurchase     = "purchase"
	MsgRequestGold  = "request_gold"
	MsgEndShop      = "end_shop"
	MsgDamage       = "damage"
	MsgZombieDown   = "zombie_down"
	MsgBuildingDown = "building_down"
	MsgRespawn      = "respawn"
)

// Server -> client.
const (
	MsgPlayerID  = "player_id"
	MsgState     = "state"
	MsgPlayer    = "player"
	MsgZombie    = "zombie"
	MsgBuilding  = "building"
	MsgResource  = "resource"
	MsgWave      = "wave"
	MsgCountdown = "countdown"
	MsgShopOpen  = "shop_open"
	MsgRoster    = "roster"
	MsgStart     = "start"
	MsgGold      = "gold"
	// MsgFire is reused for the relay back out to the other members.
)

const (
	TickHz = 1 // room simulation steps per second
)

type Envelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p"` // raw payload bytes

	// Binary marks P as msgpack rather than JSON.
	Binary bool `json:"-"`
}
