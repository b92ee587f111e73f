package network

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"horde/game"
	"horde/logger"
	"horde/protocol"
	"horde/room"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 16
	sendBuffer     = 256
)

var (
	errClosed   = errors.New("connection closed")
	errSendFull = errors.New("send buffer full")
	errLeft     = errors.New("client left")
)

// Client sits between one websocket and the room manager. It is the
// room.Conn the room publishes to.
type Client struct {
	ID string

	conn    *websocket.Conn
	codec   protocol.Codec
	manager *room.Manager
	log     *logrus.Entry

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func NewClient(id string, conn *websocket.Conn, codec protocol.Codec, m *room.Manager) *Client {
	return &Client{
		ID:      id,
		conn:    conn,
		codec:   codec,
		manager: m,
		log:     logger.Log.WithField("conn", id),
		send:    make(chan []byte, sendBuffer),
		done:    make(chan struct{}),
	}
}

// Send never blocks; a client that can't drain its buffer gets an error and
// is dropped by the room.
func (c *Client) Send(b []byte) error {
	select {
	case <-c.done:
		return errClosed
	default:
	}
	select {
	case c.send <- b:
		return nil
	case <-c.done:
		return errClosed
	default:
		return errSendFull
	}
}

func (c *Client) Close() error {
	c.closeOnce.Do(func() { close(c.done) })
	return nil
}

func (c *Client) Codec() protocol.Codec {
	return c.codec
}

// readPump reads intents until the socket fails or the client leaves.
func (c *Client) readPump() {
	routed := false
	log := c.log
	defer func() {
		if routed {
			if err := c.manager.Leave(c.ID); err != nil && !errors.Is(err, room.ErrNotRouted) {
				log.WithError(err).Warn("leave failed")
			}
		}
		c.Close()
		if err := c.conn.Close(); err != nil {
			log.WithError(err).Debug("failed to close websocket connection")
		}
		log.Info("Client disconnected")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.WithError(err).Warn("failed to set read deadline")
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Handshake: the first frame has to be a join.
	env, err := c.readEnvelope()
	if err != nil {
		log.WithError(err).Warn("Handshake failed")
		return
	}
	if env.T != protocol.MsgJoin {
		log.WithField("type", env.T).Warn("first message was not a join")
		return
	}
	var join protocol.Join
	if len(env.P) > 0 {
		if join, err = protocol.DecodePayload[protocol.Join](env); err != nil {
			log.WithError(err).Warn("bad join payload")
			return
		}
	}
	name := join.Name
	if name == "" {
		name = "Survivor-" + c.ID[:4]
	}
	code, err := c.manager.Route(c.ID, name, c)
	if err != nil {
		log.WithError(err).Warn("routing failed")
		return
	}
	routed = true
	log = log.WithField("room", code)
	log.WithField("name", name).Info("Client joined")

	for {
		env, err := c.readEnvelope()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.WithError(err).Debug("read failed")
			}
			return
		}
		cmd, err := c.command(env)
		if errors.Is(err, errLeft) {
			return
		}
		if err != nil {
			log.WithError(err).WithField("type", env.T).Debug("dropped message")
			continue
		}
		if err := c.manager.Dispatch(c.ID, cmd); err != nil {
			log.WithError(err).Warn("dispatch failed")
			return
		}
	}
}

func (c *Client) readEnvelope() (protocol.Envelope, error) {
	mt, data, err := c.conn.ReadMessage()
	if err != nil {
		return protocol.Envelope{}, err
	}
	if mt == websocket.BinaryMessage {
		return protocol.DecodeBinaryEnvelope(data)
	}
	return protocol.DecodeEnvelope(data)
}

// writePump drains the send buffer and keeps the connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	frame := websocket.TextMessage
	if c.codec.Binary() {
		frame = websocket.BinaryMessage
	}
	defer func() {
		ticker.Stop()
		if err := c.conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case msg := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set write deadline")
			}
			if err := c.conn.WriteMessage(frame, msg); err != nil {
				c.log.WithError(err).Debug("write failed")
				return
			}
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
				c.log.WithError(err).Debug("write close message failed")
			}
			return
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}

// command turns an inbound envelope into a room command for this client.
func (c *Client) command(env protocol.Envelope) (any, error) {
	id := c.ID
	switch env.T {
	case protocol.MsgLeave:
		return nil, errLeft
	case protocol.MsgJoin:
		return nil, room.ErrAlreadyRouted
	case protocol.MsgMove:
		m, err := decode[protocol.Move](env)
		if err != nil {
			return nil, err
		}
		return room.Move{PlayerID: id, Pos: toVec(m.Position), Rotation: m.Rotation}, nil
	case protocol.MsgFire:
		f, err := decode[protocol.Fire](env)
		if err != nil {
			return nil, err
		}
		return room.Fire{PlayerID: id, Pos: toVec(f.Position), Direction: toVec(f.Direction), Weapon: f.Weapon}, nil
	case protocol.MsgBuild:
		b, err := decode[protocol.Build](env)
		if err != nil {
			return nil, err
		}
		kind, err := game.ParseBuildingKind(b.Kind)
		if err != nil {
			return nil, err
		}
		return room.Build{PlayerID: id, Kind: kind, Pos: toVec(b.Position)}, nil
	case protocol.MsgCollectStart:
		cs, err := decode[protocol.CollectStart](env)
		if err != nil {
			return nil, err
		}
		return room.CollectStart{PlayerID: id, ResourceID: cs.ResourceID}, nil
	case protocol.MsgCollectStop:
		cs, err := decode[protocol.CollectStop](env)
		if err != nil {
			return nil, err
		}
		return room.CollectStop{PlayerID: id, ResourceID: cs.ResourceID}, nil
	case protocol.MsgCollectDone:
		cs, err := decode[protocol.CollectStop](env)
		if err != nil {
			return nil, err
		}
		return room.CollectDone{PlayerID: id, ResourceID: cs.ResourceID}, nil
	case protocol.MsgPurchase:
		p, err := decode[protocol.Purchase](env)
		if err != nil {
			return nil, err
		}
		item, err := toPurchase(p)
		if err != nil {
			return nil, err
		}
		return room.Purchase{PlayerID: id, Item: item}, nil
	case protocol.MsgRequestGold:
		return room.RequestGold{PlayerID: id}, nil
	case protocol.MsgEndShop:
		return room.EndShop{PlayerID: id}, nil
	case protocol.MsgDamage:
		d, err := decode[protocol.Damage](env)
		if err != nil {
			return nil, err
		}
		return room.Damage{PlayerID: id, TargetID: d.TargetID, Amount: d.Amount}, nil
	case protocol.MsgZombieDown:
		z, err := decode[protocol.ZombieDown](env)
		if err != nil {
			return nil, err
		}
		return room.ZombieDown{PlayerID: id, ZombieID: z.ZombieID}, nil
	case protocol.MsgBuildingDown:
		b, err := decode[protocol.BuildingDown](env)
		if err != nil {
			return nil, err
		}
		return room.BuildingDown{PlayerID: id, BuildingID: b.BuildingID}, nil
	case protocol.MsgRespawn:
		return room.Respawn{PlayerID: id}, nil
	}
	return nil, fmt.Errorf("unknown message type %q", env.T)
}

func decode[T any](env protocol.Envelope) (T, error) {
	v, err := protocol.DecodePayload[T](env)
	if err != nil {
		return v, err
	}
	if val, ok := any(v).(protocol.Validator); ok {
		if err := val.Validate(); err != nil {
			return v, err
		}
	}
	return v, nil
}

func toVec(v protocol.Vec) game.Vec {
	return game.Vec{X: v.X, Y: v.Y}
}

func toPurchase(p protocol.Purchase) (game.Purchase, error) {
	out := game.Purchase{Item: p.Item, Amount: p.Amount, Cost: p.Cost}
	switch p.Item {
	case game.ItemWeapon:
		w, err := game.ParseWeaponKind(p.Weapon)
		if err != nil {
			return out, err
		}
		out.Weapon = w
	case game.ItemResource:
		r, err := game.ParseResourceKind(p.Resource)
		if err != nil {
			return out, err
		}
		out.Resource = r
	}
	return out, nil
}
