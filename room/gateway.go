package room

import (
	"github.com/sirupsen/logrus"
)

// Gateway is a room's subscriber list. It is owned by the room goroutine and
// is not safe for concurrent use.
type Gateway struct {
	subs map[string]Conn
	log  *logrus.Entry
}

func NewGateway(log *logrus.Entry) *Gateway {
	return &Gateway{subs: make(map[string]Conn), log: log}
}

func (g *Gateway) Subscribe(id string, c Conn) {
	g.subs[id] = c
}

func (g *Gateway) Unsubscribe(id string) (Conn, bool) {
	c, ok := g.subs[id]
	if ok {
		delete(g.subs, id)
	}
	return c, ok
}

func (g *Gateway) Publish(t string, payload any) {
	g.fanout("", t, payload)
}

// PublishExcept sends to everyone but skip, for relays the sender already has.
func (g *Gateway) PublishExcept(skip, t string, payload any) {
	g.fanout(skip, t, payload)
}

func (g *Gateway) SendTo(id, t string, payload any) {
	c, ok := g.subs[id]
	if !ok {
		return
	}
	b, err := c.Codec().Encode(t, payload)
	if err != nil {
		g.log.WithError(err).WithField("type", t).Error("encode failed")
		return
	}
	if err := c.Send(b); err != nil {
		g.drop(id, c, err)
	}
}

// fanout encodes the message once per codec in use. A codec that can't
// encode the payload is skipped; the other subscribers still get the frame.
func (g *Gateway) fanout(skip, t string, payload any) {
	frames := make(map[string][]byte, 2)
	broken := make(map[string]bool)
	var failed []string
	for id, c := range g.subs {
		if id == skip {
			continue
		}
		codec := c.Codec()
		if broken[codec.Name()] {
			continue
		}
		b, ok := frames[codec.Name()]
		if !ok {
			var err error
			b, err = codec.Encode(t, payload)
			if err != nil {
				g.log.WithError(err).WithFields(logrus.Fields{"type": t, "codec": codec.Name()}).Error("encode failed")
				broken[codec.Name()] = true
				continue
			}
			frames[codec.Name()] = b
		}
		if err := c.Send(b); err != nil {
			failed = append(failed, id)
		}
	}
	for _, id := range failed {
		g.drop(id, g.subs[id], nil)
	}
}

// drop closes a subscriber that can't keep up. The transport sees the close
// and reports the leave through the manager.
func (g *Gateway) drop(id string, c Conn, err error) {
	delete(g.subs, id)
	entry := g.log.WithField("player", id)
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Warn("send failed, closing connection")
	_ = c.Close()
}
