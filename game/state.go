package game

import (
	"fmt"
	"math"
	"math/rand"
)

// Internal truth authoritative game state

type Vec struct {
	X, Y float64
}

type Player struct {
	ID            string
	Name          string
	Pos           Vec
	Rotation      float64
	Health        int
	MaxHealth     int
	Stamina       int
	MaxStamina    int
	Armor         int
	Weapons       []WeaponKind
	CurrentWeapon WeaponKind
	Resources     map[ResourceKind]int
	Gold          int
}

func (p *Player) HasWeapon(w WeaponKind) bool {
	for _, have := range p.Weapons {
		if have == w {
			return true
		}
	}
	return false
}

type Zombie struct {
	ID        string
	Kind      ZombieKind
	Pos       Vec
	Health    int
	MaxHealth int
	Target    string // player or building id, empty when idle
}

type Building struct {
	ID        string
	Kind      BuildingKind
	Pos       Vec
	Health    int
	MaxHealth int
	Owner     string
}

type ResourceNode struct {
	ID     string
	Kind   ResourceKind
	Pos    Vec
	Amount int
}

// Rules are the per-match numbers that can be tuned without a rebuild.
type Rules struct {
	WaveDuration   int // seconds
	ShopDuration   int // seconds
	ZombieBase     int
	ResourceNodes  int
	ResourceAmount int
}

func DefaultRules() Rules {
	return Rules{
		WaveDuration:   WaveDurationSeconds,
		ShopDuration:   ShopDurationSeconds,
		ZombieBase:     ZombieBase,
		ResourceNodes:  ResourceNodeCount,
		ResourceAmount: ResourceNodeAmount,
	}
}

type State struct {
	Tick          int
	Phase         Phase
	Wave          WaveClock
	ShopCountdown int
	Rules         Rules

	Players    map[string]*Player
	Zombies    map[string]*Zombie
	Buildings  map[string]*Building
	Resources  map[string]*ResourceNode
	Collectors map[string]string // resource id -> player id

	seq int
}

func NewState(rules Rules) *State {
	return &State{
		Phase:      Lobby,
		Wave:       NewWaveClock(rules.WaveDuration),
		Rules:      rules,
		Players:    make(map[string]*Player),
		Zombies:    make(map[string]*Zombie),
		Buildings:  make(map[string]*Building),
		Resources:  make(map[string]*ResourceNode),
		Collectors: make(map[string]string),
	}
}

func (s *State) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s%d", prefix, s.seq)
}

// AddPlayer creates the default record at the map centre. Capacity is the
// registry's concern and is not checked here.
func (s *State) AddPlayer(id, name string) (*Player, bool) {
	if _, ok := s.Players[id]; ok {
		return nil, false
	}
	p := &Player{
		ID:            id,
		Name:          name,
		Pos:           Center,
		Health:        DefaultHealth,
		MaxHealth:     DefaultHealth,
		Stamina:       DefaultStamina,
		MaxStamina:    DefaultStamina,
		Weapons:       []WeaponKind{StartingWeapon},
		CurrentWeapon: StartingWeapon,
		Resources:     map[ResourceKind]int{Wood: 0, Stone: 0, Iron: 0},
		Gold:          StartingGold,
	}
	s.Players[id] = p
	return p, true
}

// RemovePlayer drops the record and frees any node the player was
// harvesting. Zombie targets pointing at the player are left for the next
// retarget pass. Returns the freed resource ids.
func (s *State) RemovePlayer(id string) ([]string, bool) {
	if _, ok := s.Players[id]; !ok {
		return nil, false
	}
	delete(s.Players, id)
	var freed []string
	for rid, pid := range s.Collectors {
		if pid == id {
			delete(s.Collectors, rid)
			freed = append(freed, rid)
		}
	}
	return freed, true
}

func (s *State) Roster() []string {
	names := make([]string, 0, len(s.Players))
	for _, p := range s.Players {
		names = append(names, p.Name)
	}
	return names
}

// MovePlayer trusts the client: no speed or bounds checks.
func (s *State) MovePlayer(id string, pos Vec, rotation float64) (*Player, bool) {
	p, ok := s.Players[id]
	if !ok {
		return nil, false
	}
	p.Pos = pos
	p.Rotation = rotation
	return p, true
}

// Build debits every cost or nothing.
func (s *State) Build(ownerID string, kind BuildingKind, pos Vec) (*Building, bool) {
	p, ok := s.Players[ownerID]
	if !ok {
		return nil, false
	}
	cost := BuildingCost(kind)
	if len(cost) == 0 {
		return nil, false
	}
	for r, n := range cost {
		if p.Resources[r] < n {
			return nil, false
		}
	}
	for r, n := range cost {
		p.Resources[r] -= n
	}
	hp := BuildingMaxHealth(kind)
	b := &Building{
		ID:        s.nextID("b"),
		Kind:      kind,
		Pos:       pos,
		Health:    hp,
		MaxHealth: hp,
		Owner:     ownerID,
	}
	s.Buildings[b.ID] = b
	return b, true
}

// StartCollecting assigns the node to the player. A node already held by
// someone else stays with them.
func (s *State) StartCollecting(resourceID, playerID string) (*ResourceNode, bool) {
	n, ok := s.Resources[resourceID]
	if !ok {
		return nil, false
	}
	if _, ok := s.Players[playerID]; !ok {
		return nil, false
	}
	if cur, held := s.Collectors[resourceID]; held && cur != playerID {
		return nil, false
	}
	s.Collectors[resourceID] = playerID
	return n, true
}

func (s *State) StopCollecting(resourceID string) (*ResourceNode, bool) {
	n, ok := s.Resources[resourceID]
	if !ok {
		return nil, false
	}
	if _, held := s.Collectors[resourceID]; !held {
		return nil, false
	}
	delete(s.Collectors, resourceID)
	return n, true
}

// CompleteCollecting pays out the node to its assigned collector and removes
// it. Reports from anyone else, or for a node already gone, do nothing.
func (s *State) CompleteCollecting(resourceID, playerID string) (*Player, *ResourceNode, bool) {
	n, ok := s.Resources[resourceID]
	if !ok || s.Collectors[resourceID] != playerID {
		return nil, nil, false
	}
	p, ok := s.Players[playerID]
	if !ok || !canCredit(p.Resources[n.Kind], n.Amount) {
		return nil, nil, false
	}
	p.Resources[n.Kind] += n.Amount
	n.Amount = 0
	delete(s.Resources, resourceID)
	delete(s.Collectors, resourceID)
	return p, n, true
}

func (s *State) Collector(resourceID string) string {
	return s.Collectors[resourceID]
}

type Purchase struct {
	Item     string // ItemWeapon or ItemResource
	Weapon   WeaponKind
	Resource ResourceKind
	Amount   int
	Cost     int
}

// Buy takes the cost at face value and rejects when gold is short.
func (s *State) Buy(playerID string, it Purchase) (*Player, bool) {
	p, ok := s.Players[playerID]
	if !ok || it.Cost < 0 || p.Gold < it.Cost {
		return nil, false
	}
	switch it.Item {
	case ItemWeapon:
		if int(it.Weapon) >= len(weaponNames) {
			return nil, false
		}
		p.Gold -= it.Cost
		if !p.HasWeapon(it.Weapon) {
			p.Weapons = append(p.Weapons, it.Weapon)
		}
		p.CurrentWeapon = it.Weapon
	case ItemResource:
		if !it.Resource.Harvestable() || it.Amount < 0 || !canCredit(p.Resources[it.Resource], it.Amount) {
			return nil, false
		}
		p.Gold -= it.Cost
		p.Resources[it.Resource] += it.Amount
	default:
		return nil, false
	}
	return p, true
}

// canCredit reports whether amount fits on top of balance without wrapping.
func canCredit(balance, amount int) bool {
	return amount <= math.MaxInt-balance
}

// DamageResult names whichever entity took the hit.
type DamageResult struct {
	Player    *Player
	Zombie    *Zombie
	Building  *Building
	Destroyed bool
}

// ApplyDamage trusts the reported amount. Zombies and buildings at zero
// health are removed; players stay at zero until they respawn.
func (s *State) ApplyDamage(targetID string, amount int) (DamageResult, bool) {
	if amount < 0 {
		return DamageResult{}, false
	}
	if p, ok := s.Players[targetID]; ok {
		p.Health = clamp(p.Health-amount, 0, p.MaxHealth)
		return DamageResult{Player: p}, true
	}
	if z, ok := s.Zombies[targetID]; ok {
		z.Health = clamp(z.Health-amount, 0, z.MaxHealth)
		if z.Health == 0 {
			delete(s.Zombies, targetID)
		}
		return DamageResult{Zombie: z, Destroyed: z.Health == 0}, true
	}
	if b, ok := s.Buildings[targetID]; ok {
		b.Health = clamp(b.Health-amount, 0, b.MaxHealth)
		if b.Health == 0 {
			delete(s.Buildings, targetID)
		}
		return DamageResult{Building: b, Destroyed: b.Health == 0}, true
	}
	return DamageResult{}, false
}

func (s *State) RemoveZombie(id string) bool {
	if _, ok := s.Zombies[id]; !ok {
		return false
	}
	delete(s.Zombies, id)
	return true
}

func (s *State) RemoveBuilding(id string) bool {
	if _, ok := s.Buildings[id]; !ok {
		return false
	}
	delete(s.Buildings, id)
	return true
}

func (s *State) Respawn(id string) (*Player, bool) {
	p, ok := s.Players[id]
	if !ok {
		return nil, false
	}
	p.Health = p.MaxHealth
	p.Stamina = p.MaxStamina
	p.Pos = Center
	return p, true
}

// StartMatch leaves the lobby for good: resources are laid out and the wave
// clock starts running.
func (s *State) StartMatch(rng *rand.Rand) ([]*ResourceNode, bool) {
	if s.Phase != Lobby {
		return nil, false
	}
	s.Phase = Active
	s.Wave = NewWaveClock(s.Rules.WaveDuration)
	return s.SeedResources(rng), true
}

// StartWave resets the countdown, spawns the wave and bumps the wave number.
// Returns the number of the wave that was spawned.
func (s *State) StartWave(rng *rand.Rand) (int, []*Zombie) {
	n := s.Wave.Number
	spawned := s.spawnZombies(rng, n)
	s.Wave.Start()
	return n, spawned
}

func (s *State) OpenShop() bool {
	if s.Phase != Active {
		return false
	}
	s.Phase = Shop
	s.ShopCountdown = s.Rules.ShopDuration
	return true
}

func (s *State) EndShop(rng *rand.Rand) (int, []*Zombie, bool) {
	if s.Phase != Shop {
		return 0, nil, false
	}
	s.Phase = Active
	s.ShopCountdown = 0
	n, spawned := s.StartWave(rng)
	return n, spawned, true
}

// Retarget re-resolves every zombie and returns the ones whose target
// changed. Zombies with nothing in range keep their previous target unless
// it no longer exists.
func (s *State) Retarget() []*Zombie {
	players := make([]Target, 0, len(s.Players))
	for _, p := range s.Players {
		players = append(players, Target{ID: p.ID, Pos: p.Pos})
	}
	buildings := make([]Target, 0, len(s.Buildings))
	for _, b := range s.Buildings {
		buildings = append(buildings, Target{ID: b.ID, Pos: b.Pos})
	}
	var changed []*Zombie
	for _, z := range s.Zombies {
		id, ok := ResolveTarget(z.Pos, players, buildings)
		if !ok {
			if z.Target != "" && !s.targetExists(z.Target) {
				z.Target = ""
				changed = append(changed, z)
			}
			continue
		}
		if id == z.Target {
			continue
		}
		z.Target = id
		changed = append(changed, z)
	}
	return changed
}

func (s *State) targetExists(id string) bool {
	if _, ok := s.Players[id]; ok {
		return true
	}
	_, ok := s.Buildings[id]
	return ok
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
