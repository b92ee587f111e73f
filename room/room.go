package room

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"horde/game"
	"horde/logger"
	"horde/protocol"
)

type Settings struct {
	TickInterval time.Duration
	Rules        game.Rules
	Seed         int64 // 0 seeds from the clock
}

func DefaultSettings() Settings {
	return Settings{TickInterval: time.Second / protocol.TickHz, Rules: game.DefaultRules()}
}

type Room struct {
	Code  string
	Inbox chan any

	settings Settings
	state    *game.State
	gw       *Gateway
	rng      *rand.Rand
	log      *logrus.Entry

	quit     chan struct{}
	stopOnce sync.Once
}

func New(code string, s Settings) *Room {
	if s.TickInterval <= 0 {
		s.TickInterval = time.Second / protocol.TickHz
	}
	seed := s.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	log := logger.Room(code)
	return &Room{
		Code:     code,
		Inbox:    make(chan any, 256),
		settings: s,
		state:    game.NewState(s.Rules),
		gw:       NewGateway(log),
		rng:      rand.New(rand.NewSource(seed)),
		log:      log,
		quit:     make(chan struct{}),
	}
}

// Post queues a command. After Stop it reports false and the command is
// dropped.
func (r *Room) Post(cmd any) bool {
	select {
	case <-r.quit:
		return false
	default:
	}
	select {
	case r.Inbox <- cmd:
		return true
	case <-r.quit:
		return false
	}
}

func (r *Room) Stop() {
	r.stopOnce.Do(func() { close(r.quit) })
}

// Inspect asks the room goroutine for a summary.
func (r *Room) Inspect(ctx context.Context) (Summary, error) {
	reply := make(chan Summary, 1)
	if !r.Post(Inspect{Reply: reply}) {
		return Summary{}, ErrRoomClosed
	}
	select {
	case s := <-reply:
		return s, nil
	case <-r.quit:
		return Summary{}, ErrRoomClosed
	case <-ctx.Done():
		return Summary{}, ctx.Err()
	}
}

// OpenShop moves an active room into the shop and reports whether it did.
func (r *Room) OpenShop(ctx context.Context) (bool, error) {
	reply := make(chan bool, 1)
	if !r.Post(OpenShop{Reply: reply}) {
		return false, ErrRoomClosed
	}
	select {
	case ok := <-reply:
		return ok, nil
	case <-r.quit:
		return false, ErrRoomClosed
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

func (r *Room) Run() {
	ticker := time.NewTicker(r.settings.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.quit:
			return
		case cmd := <-r.Inbox:
			if r.stopped() {
				return
			}
			r.handleCommand(cmd)
		case <-ticker.C:
			if r.stopped() {
				return
			}
			r.tick()
		}
	}
}

// stopped is checked before each unit of work: select picks at random when
// quit and the inbox are both ready.
func (r *Room) stopped() bool {
	select {
	case <-r.quit:
		return true
	default:
		return false
	}
}

func (r *Room) tick() {
	if r.state.Phase == game.Lobby {
		return
	}
	res := game.Step(r.state, r.rng)
	if res.Wave > 0 {
		r.announceWave(res.Wave, res.Spawned)
	}
	for _, z := range res.Retargeted {
		r.gw.Publish(protocol.MsgZombie, zombieView(z))
	}
	r.publishCountdown()
}

func (r *Room) handleCommand(cmd any) {
	switch c := cmd.(type) {
	case Join:
		r.handleJoin(c)
	case Leave:
		r.handleLeave(c.PlayerID)
	case Move:
		if p, ok := r.state.MovePlayer(c.PlayerID, c.Pos, c.Rotation); ok {
			r.gw.PublishExcept(c.PlayerID, protocol.MsgPlayer, playerView(p))
		}
	case Fire:
		if _, ok := r.state.Players[c.PlayerID]; !ok {
			return
		}
		r.gw.PublishExcept(c.PlayerID, protocol.MsgFire, protocol.FireRelay{
			PlayerID:  c.PlayerID,
			Position:  vec(c.Pos),
			Direction: vec(c.Direction),
			Weapon:    c.Weapon,
		})
	case Build:
		b, ok := r.state.Build(c.PlayerID, c.Kind, c.Pos)
		if !ok {
			r.log.WithFields(logrus.Fields{"player": c.PlayerID, "kind": c.Kind}).Debug("build rejected")
			return
		}
		r.gw.Publish(protocol.MsgBuilding, buildingView(b))
		r.gw.Publish(protocol.MsgPlayer, playerView(r.state.Players[c.PlayerID]))
	case CollectStart:
		if n, ok := r.state.StartCollecting(c.ResourceID, c.PlayerID); ok {
			r.gw.Publish(protocol.MsgResource, resourceView(n, c.PlayerID))
		}
	case CollectStop:
		if n, ok := r.state.StopCollecting(c.ResourceID); ok {
			r.gw.Publish(protocol.MsgResource, resourceView(n, ""))
		}
	case CollectDone:
		p, n, ok := r.state.CompleteCollecting(c.ResourceID, c.PlayerID)
		if !ok {
			return
		}
		v := resourceView(n, "")
		v.Removed = true
		r.gw.Publish(protocol.MsgResource, v)
		r.gw.Publish(protocol.MsgPlayer, playerView(p))
	case Purchase:
		p, ok := r.state.Buy(c.PlayerID, c.Item)
		if !ok {
			r.log.WithFields(logrus.Fields{"player": c.PlayerID, "cost": c.Item.Cost}).Debug("purchase rejected")
			return
		}
		r.gw.Publish(protocol.MsgPlayer, playerView(p))
		r.gw.SendTo(c.PlayerID, protocol.MsgGold, protocol.Gold{Gold: p.Gold})
	case RequestGold:
		if p, ok := r.state.Players[c.PlayerID]; ok {
			r.gw.SendTo(c.PlayerID, protocol.MsgGold, protocol.Gold{Gold: p.Gold})
		}
	case EndShop:
		if n, spawned, ok := r.state.EndShop(r.rng); ok {
			r.announceWave(n, spawned)
			r.publishCountdown()
		}
	case OpenShop:
		ok := r.state.OpenShop()
		if ok {
			r.log.Info("shop opened")
			r.gw.Publish(protocol.MsgShopOpen, protocol.ShopOpen{
				Seconds: r.state.ShopCountdown,
				Items:   catalogView(),
			})
		}
		if c.Reply != nil {
			c.Reply <- ok
		}
	case Damage:
		r.handleDamage(c)
	case ZombieDown:
		if r.state.RemoveZombie(c.ZombieID) {
			r.gw.Publish(protocol.MsgZombie, protocol.ZombieView{ID: c.ZombieID, Removed: true})
		}
	case BuildingDown:
		if r.state.RemoveBuilding(c.BuildingID) {
			r.gw.Publish(protocol.MsgBuilding, protocol.BuildingView{ID: c.BuildingID, Removed: true})
		}
	case Respawn:
		if p, ok := r.state.Respawn(c.PlayerID); ok {
			r.gw.Publish(protocol.MsgPlayer, playerView(p))
		}
	case Inspect:
		c.Reply <- r.summary()
	default:
		r.log.Warnf("unknown command %T", cmd)
	}
}

func (r *Room) handleJoin(c Join) {
	reply := func() {
		if c.Reply != nil {
			c.Reply <- JoinResult{PlayerID: c.PlayerID, RoomID: r.Code}
		}
	}
	p, ok := r.state.AddPlayer(c.PlayerID, c.Name)
	if !ok {
		reply()
		return
	}
	r.gw.Subscribe(c.PlayerID, c.Conn)
	r.gw.SendTo(c.PlayerID, protocol.MsgPlayerID, protocol.PlayerID{
		PlayerID: c.PlayerID,
		RoomID:   r.Code,
		TickHz:   r.tickHz(),
	})

	if c.Start {
		if nodes, started := r.state.StartMatch(r.rng); started {
			r.log.WithField("player", c.PlayerID).Info("match started")
			r.gw.Publish(protocol.MsgStart, protocol.Start{RoomID: r.Code})
			for _, n := range nodes {
				r.gw.PublishExcept(c.PlayerID, protocol.MsgResource, resourceView(n, ""))
			}
		}
	}

	r.gw.SendTo(c.PlayerID, protocol.MsgState, snapshot(r.state))
	r.gw.PublishExcept(c.PlayerID, protocol.MsgPlayer, playerView(p))
	r.gw.Publish(protocol.MsgRoster, protocol.Roster{Names: r.state.Roster()})
	r.log.WithFields(logrus.Fields{"player": c.PlayerID, "name": c.Name}).Info("player joined")
	reply()
}

func (r *Room) handleLeave(playerID string) {
	p, ok := r.state.Players[playerID]
	if !ok {
		return
	}
	freed, _ := r.state.RemovePlayer(playerID)
	if c, ok := r.gw.Unsubscribe(playerID); ok {
		_ = c.Close()
	}

	gone := playerView(p)
	gone.Removed = true
	r.gw.Publish(protocol.MsgPlayer, gone)
	for _, rid := range freed {
		if n, ok := r.state.Resources[rid]; ok {
			r.gw.Publish(protocol.MsgResource, resourceView(n, ""))
		}
	}
	r.gw.Publish(protocol.MsgRoster, protocol.Roster{Names: r.state.Roster()})
	r.log.WithField("player", playerID).Info("player left")
}

func (r *Room) handleDamage(c Damage) {
	res, ok := r.state.ApplyDamage(c.TargetID, c.Amount)
	if !ok {
		return
	}
	switch {
	case res.Player != nil:
		r.gw.Publish(protocol.MsgPlayer, playerView(res.Player))
	case res.Zombie != nil:
		r.gw.Publish(protocol.MsgZombie, zombieView(res.Zombie))
	case res.Building != nil:
		r.gw.Publish(protocol.MsgBuilding, buildingView(res.Building))
	}
}

func (r *Room) announceWave(n int, spawned []*game.Zombie) {
	r.log.WithFields(logrus.Fields{"wave": n, "zombies": len(spawned)}).Info("wave started")
	r.gw.Publish(protocol.MsgWave, protocol.Wave{Number: n})
	for _, z := range spawned {
		r.gw.Publish(protocol.MsgZombie, zombieView(z))
	}
}

func (r *Room) publishCountdown() {
	cd := protocol.Countdown{Wave: r.state.Wave.Number, Seconds: r.state.Wave.Countdown}
	if r.state.Phase == game.Shop {
		cd.Shop = true
		cd.Seconds = r.state.ShopCountdown
	}
	r.gw.Publish(protocol.MsgCountdown, cd)
}

func (r *Room) tickHz() int {
	hz := int(time.Second / r.settings.TickInterval)
	if hz < 1 {
		return 1
	}
	return hz
}

func (r *Room) summary() Summary {
	return Summary{
		Code:      r.Code,
		Phase:     r.state.Phase,
		Wave:      r.state.Wave.Number,
		Countdown: r.state.Wave.Countdown,
		Names:     r.state.Roster(),
		Zombies:   len(r.state.Zombies),
		Buildings: len(r.state.Buildings),
		Resources: len(r.state.Resources),
	}
}
