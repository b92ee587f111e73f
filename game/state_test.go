package game

import (
	"math"
	"math/rand"
	"testing"
)

func newTestState(t *testing.T) *State {
	t.Helper()
	s := NewState(DefaultRules())
	if _, ok := s.AddPlayer("p1", "alice"); !ok {
		t.Fatalf("AddPlayer failed")
	}
	return s
}

func TestAddPlayerDefaults(t *testing.T) {
	s := newTestState(t)
	p := s.Players["p1"]
	if p.Health != 100 || p.MaxHealth != 100 || p.Stamina != 100 || p.MaxStamina != 100 {
		t.Fatalf("unexpected vitals: %+v", p)
	}
	if p.Gold != 50 {
		t.Fatalf("gold = %d, want 50", p.Gold)
	}
	if p.Pos != Center {
		t.Fatalf("spawn = %+v, want %+v", p.Pos, Center)
	}
	if !p.HasWeapon(Pistol) || p.CurrentWeapon != Pistol || len(p.Weapons) != 1 {
		t.Fatalf("unexpected weapons: %v current=%v", p.Weapons, p.CurrentWeapon)
	}
	if _, ok := s.AddPlayer("p1", "again"); ok {
		t.Fatalf("duplicate AddPlayer should be rejected")
	}
}

func TestBuildInsufficientResourcesIsRejected(t *testing.T) {
	s := newTestState(t)
	s.Players["p1"].Resources[Wood] = 5

	if _, ok := s.Build("p1", Fence, Vec{X: 1, Y: 1}); ok {
		t.Fatalf("build with 5 wood for a 10 wood fence should fail")
	}
	if got := s.Players["p1"].Resources[Wood]; got != 5 {
		t.Fatalf("wood after rejected build = %d, want 5", got)
	}
	if len(s.Buildings) != 0 {
		t.Fatalf("rejected build created %d buildings", len(s.Buildings))
	}
}

func TestBuildIsAllOrNothing(t *testing.T) {
	s := newTestState(t)
	p := s.Players["p1"]
	p.Resources[Wood] = 100
	p.Resources[Iron] = 4 // gate needs 5

	if _, ok := s.Build("p1", Gate, Vec{}); ok {
		t.Fatalf("gate build should fail on iron")
	}
	if p.Resources[Wood] != 100 || p.Resources[Iron] != 4 {
		t.Fatalf("partial debit: wood=%d iron=%d", p.Resources[Wood], p.Resources[Iron])
	}

	p.Resources[Iron] = 5
	b, ok := s.Build("p1", Gate, Vec{X: 10, Y: 20})
	if !ok {
		t.Fatalf("gate build should succeed")
	}
	if p.Resources[Wood] != 85 || p.Resources[Iron] != 0 {
		t.Fatalf("wrong debit: wood=%d iron=%d", p.Resources[Wood], p.Resources[Iron])
	}
	if b.Health != 100 || b.MaxHealth != 100 || b.Owner != "p1" || b.Kind != Gate {
		t.Fatalf("unexpected building: %+v", b)
	}
	if s.Buildings[b.ID] != b {
		t.Fatalf("building not stored")
	}
}

func TestBuildUnknownPlayer(t *testing.T) {
	s := NewState(DefaultRules())
	if _, ok := s.Build("ghost", Fence, Vec{}); ok {
		t.Fatalf("build for unknown player should be a no-op")
	}
}

func TestBuyRejectsWhenGoldShort(t *testing.T) {
	s := newTestState(t)
	if _, ok := s.Buy("p1", Purchase{Item: ItemWeapon, Weapon: Shotgun, Cost: 60}); ok {
		t.Fatalf("purchase above balance should fail")
	}
	if g := s.Players["p1"].Gold; g != 50 {
		t.Fatalf("gold after rejected purchase = %d, want 50", g)
	}
}

func TestBuyWeaponAndResource(t *testing.T) {
	s := newTestState(t)
	p := s.Players["p1"]
	p.Gold = 500

	if _, ok := s.Buy("p1", Purchase{Item: ItemWeapon, Weapon: SMG, Cost: 100}); !ok {
		t.Fatalf("weapon purchase failed")
	}
	if p.Gold != 400 || p.CurrentWeapon != SMG || !p.HasWeapon(SMG) {
		t.Fatalf("after weapon: gold=%d current=%v weapons=%v", p.Gold, p.CurrentWeapon, p.Weapons)
	}
	s.Buy("p1", Purchase{Item: ItemWeapon, Weapon: SMG, Cost: 100})
	if len(p.Weapons) != 2 {
		t.Fatalf("owned weapons should not duplicate: %v", p.Weapons)
	}

	if _, ok := s.Buy("p1", Purchase{Item: ItemResource, Resource: Iron, Amount: 10, Cost: 40}); !ok {
		t.Fatalf("resource purchase failed")
	}
	if p.Resources[Iron] != 10 || p.Gold != 260 {
		t.Fatalf("after resource: iron=%d gold=%d", p.Resources[Iron], p.Gold)
	}
}

func TestBuyMalformed(t *testing.T) {
	s := newTestState(t)
	cases := []Purchase{
		{Item: ItemWeapon, Weapon: Pistol, Cost: -10},
		{Item: ItemResource, Resource: Gold, Amount: 10, Cost: 1},
		{Item: ItemResource, Resource: Wood, Amount: -1, Cost: 1},
		{Item: "hat", Cost: 1},
	}
	for _, c := range cases {
		if _, ok := s.Buy("p1", c); ok {
			t.Fatalf("purchase %+v should be rejected", c)
		}
	}
	if g := s.Players["p1"].Gold; g != 50 {
		t.Fatalf("gold changed by malformed purchases: %d", g)
	}
}

func TestResourceCreditsNeverWrap(t *testing.T) {
	s := newTestState(t)
	p := s.Players["p1"]

	if _, ok := s.Buy("p1", Purchase{Item: ItemResource, Resource: Wood, Amount: math.MaxInt, Cost: 0}); !ok {
		t.Fatalf("first large purchase should fit")
	}
	if _, ok := s.Buy("p1", Purchase{Item: ItemResource, Resource: Wood, Amount: 1, Cost: 10}); ok {
		t.Fatalf("purchase past MaxInt should be rejected")
	}
	if p.Resources[Wood] != math.MaxInt || p.Gold != 50 {
		t.Fatalf("rejected purchase changed balances: wood=%d gold=%d", p.Resources[Wood], p.Gold)
	}

	s.Resources["r1"] = &ResourceNode{ID: "r1", Kind: Wood, Amount: 5}
	if _, ok := s.StartCollecting("r1", "p1"); !ok {
		t.Fatalf("collector should be assigned")
	}
	if _, _, ok := s.CompleteCollecting("r1", "p1"); ok {
		t.Fatalf("collection past MaxInt should be rejected")
	}
	if p.Resources[Wood] < 0 {
		t.Fatalf("wood balance went negative: %d", p.Resources[Wood])
	}
	if _, ok := s.Resources["r1"]; !ok {
		t.Fatalf("rejected collection should leave the node in place")
	}
}

func TestCollectingArbitration(t *testing.T) {
	s := newTestState(t)
	s.AddPlayer("p2", "bob")
	s.Resources["r1"] = &ResourceNode{ID: "r1", Kind: Stone, Amount: 10}

	if _, ok := s.StartCollecting("r1", "p1"); !ok {
		t.Fatalf("first collector should be assigned")
	}
	if _, ok := s.StartCollecting("r1", "p2"); ok {
		t.Fatalf("second collector should be refused")
	}
	if _, _, ok := s.CompleteCollecting("r1", "p2"); ok {
		t.Fatalf("completion from non-collector should be ignored")
	}
	p, n, ok := s.CompleteCollecting("r1", "p1")
	if !ok || p.Resources[Stone] != 10 || n.ID != "r1" {
		t.Fatalf("completion failed: ok=%v stone=%d", ok, s.Players["p1"].Resources[Stone])
	}
	if _, ok := s.Resources["r1"]; ok {
		t.Fatalf("node should be removed after completion")
	}
	if _, _, ok := s.CompleteCollecting("r1", "p1"); ok {
		t.Fatalf("double completion should be a no-op")
	}
}

func TestStopCollectingAndRemovePlayerFreesNodes(t *testing.T) {
	s := newTestState(t)
	s.Resources["r1"] = &ResourceNode{ID: "r1", Kind: Wood, Amount: 10}
	s.Resources["r2"] = &ResourceNode{ID: "r2", Kind: Wood, Amount: 10}
	s.StartCollecting("r1", "p1")
	s.StartCollecting("r2", "p1")

	if _, ok := s.StopCollecting("r1"); !ok {
		t.Fatalf("stop should clear assignment")
	}
	if _, ok := s.StopCollecting("r1"); ok {
		t.Fatalf("stop on free node should be a no-op")
	}
	freed, ok := s.RemovePlayer("p1")
	if !ok || len(freed) != 1 || freed[0] != "r2" {
		t.Fatalf("RemovePlayer freed %v ok=%v, want [r2]", freed, ok)
	}
	if s.Collector("r2") != "" {
		t.Fatalf("collector still assigned after leave")
	}
}

func TestApplyDamageClampsAndDestroys(t *testing.T) {
	s := newTestState(t)
	s.Zombies["z1"] = &Zombie{ID: "z1", Health: 30, MaxHealth: 30}
	s.Buildings["b1"] = &Building{ID: "b1", Health: 25, MaxHealth: 25}

	res, ok := s.ApplyDamage("p1", 250)
	if !ok || res.Player == nil || res.Player.Health != 0 {
		t.Fatalf("player damage: %+v ok=%v", res, ok)
	}
	res, _ = s.ApplyDamage("z1", 10)
	if res.Destroyed || res.Zombie.Health != 20 {
		t.Fatalf("zombie partial damage: %+v", res.Zombie)
	}
	res, _ = s.ApplyDamage("z1", 99)
	if !res.Destroyed {
		t.Fatalf("zombie should be destroyed")
	}
	if _, ok := s.Zombies["z1"]; ok {
		t.Fatalf("destroyed zombie still present")
	}
	if res, _ = s.ApplyDamage("b1", 25); !res.Destroyed {
		t.Fatalf("building should be destroyed")
	}
	if _, ok := s.ApplyDamage("nope", 1); ok {
		t.Fatalf("unknown target should be a no-op")
	}
	if _, ok := s.ApplyDamage("p1", -5); ok {
		t.Fatalf("negative damage should be rejected")
	}

	p, _ := s.Respawn("p1")
	if p.Health != p.MaxHealth || p.Pos != Center {
		t.Fatalf("respawn: %+v", p)
	}
}

func TestWaveNumberStrictlyIncreases(t *testing.T) {
	s := NewState(DefaultRules())
	rng := rand.New(rand.NewSource(11))
	s.StartMatch(rng)
	last := 0
	for i := 0; i < 5; i++ {
		n, spawned := s.StartWave(rng)
		if n <= last {
			t.Fatalf("wave %d not greater than previous %d", n, last)
		}
		if len(spawned) != ZombieCount(s.Rules.ZombieBase, n) {
			t.Fatalf("wave %d spawned %d", n, len(spawned))
		}
		if s.Wave.Countdown != s.Rules.WaveDuration {
			t.Fatalf("countdown not reset: %d", s.Wave.Countdown)
		}
		last = n
	}
}

func TestPhaseTransitions(t *testing.T) {
	s := NewState(DefaultRules())
	rng := rand.New(rand.NewSource(5))
	if s.OpenShop() {
		t.Fatalf("shop cannot open from lobby")
	}
	nodes, ok := s.StartMatch(rng)
	if !ok || len(nodes) != s.Rules.ResourceNodes {
		t.Fatalf("StartMatch seeded %d nodes ok=%v", len(nodes), ok)
	}
	if _, ok := s.StartMatch(rng); ok {
		t.Fatalf("match cannot start twice")
	}
	if _, _, ok := s.EndShop(rng); ok {
		t.Fatalf("EndShop outside shop should be a no-op")
	}
	if !s.OpenShop() || s.Phase != Shop {
		t.Fatalf("OpenShop failed")
	}
	n, _, ok := s.EndShop(rng)
	if !ok || n != 1 || s.Phase != Active {
		t.Fatalf("EndShop: wave=%d ok=%v phase=%v", n, ok, s.Phase)
	}
}
