package game

// Cost tables and health profiles. Lookups hand back fresh values so callers
// can't mutate the tables.

var buildingCosts = map[BuildingKind]map[ResourceKind]int{
	Fence:              {Wood: 10},
	Gate:               {Wood: 15, Iron: 5},
	BarbedWire:         {Iron: 10},
	TurretRifle:        {Iron: 20, Stone: 10},
	TurretFlamethrower: {Iron: 25, Stone: 15},
	TurretGrenade:      {Iron: 30, Stone: 20},
	TurretPiercing:     {Iron: 35, Stone: 25},
}

func BuildingCost(k BuildingKind) map[ResourceKind]int {
	src := buildingCosts[k]
	out := make(map[ResourceKind]int, len(src))
	for r, n := range src {
		out[r] = n
	}
	return out
}

func BuildingMaxHealth(k BuildingKind) int {
	switch k {
	case Fence:
		return 50
	case Gate:
		return 100
	case BarbedWire:
		return 25
	case TurretRifle, TurretFlamethrower, TurretGrenade, TurretPiercing:
		return 75
	}
	return 50
}

// Combat is what a turret (or wire) does to zombies in range. The server
// does not resolve it; clients get it so they all simulate the same turret.
type Combat struct {
	Range  float64
	Damage int
}

func BuildingCombat(k BuildingKind) Combat {
	switch k {
	case BarbedWire:
		return Combat{Range: 0, Damage: 5}
	case TurretRifle:
		return Combat{Range: 300, Damage: 10}
	case TurretFlamethrower:
		return Combat{Range: 150, Damage: 3}
	case TurretGrenade:
		return Combat{Range: 400, Damage: 30}
	case TurretPiercing:
		return Combat{Range: 500, Damage: 15}
	}
	return Combat{}
}

type ZombieProfile struct {
	Speed     float64
	Damage    int
	MaxHealth int
}

var zombieProfiles = map[ZombieKind]ZombieProfile{
	Basic:   {Speed: 50, Damage: 10, MaxHealth: 50},
	Fast:    {Speed: 120, Damage: 5, MaxHealth: 30},
	Tank:    {Speed: 30, Damage: 20, MaxHealth: 150},
	Spitter: {Speed: 40, Damage: 15, MaxHealth: 40},
}

func ZombieStats(k ZombieKind) ZombieProfile {
	if p, ok := zombieProfiles[k]; ok {
		return p
	}
	return zombieProfiles[Basic]
}

func ZombieMaxHealth(k ZombieKind) int {
	return ZombieStats(k).MaxHealth
}

// SpawnThreshold unlocks Kind once the wave number is past AfterWave; each
// threshold gets its own draw against Chance.
type SpawnThreshold struct {
	Kind      ZombieKind
	AfterWave int
	Chance    float64
}

var spawnThresholds = []SpawnThreshold{
	{Kind: Fast, AfterWave: 2, Chance: 0.20},
	{Kind: Tank, AfterWave: 4, Chance: 0.10},
	{Kind: Spitter, AfterWave: 6, Chance: 0.05},
}

// PickZombieKind walks the thresholds in order, drawing once per eligible
// threshold. First hit wins; Basic otherwise.
func PickZombieKind(wave int, draw func() float64) ZombieKind {
	for _, t := range spawnThresholds {
		if wave > t.AfterWave && draw() < t.Chance {
			return t.Kind
		}
	}
	return Basic
}

// ZombieCount is the spawn size for the wave that is starting.
func ZombieCount(base, wave int) int {
	return base + 2*wave
}

// CatalogItem is a shop entry. Purchases carry their own cost, the catalog
// is what clients render.
type CatalogItem struct {
	Name     string
	Item     string
	Weapon   WeaponKind
	Resource ResourceKind
	Amount   int
	Cost     int
}

const (
	ItemWeapon   = "weapon"
	ItemResource = "resource"
)

var catalog = []CatalogItem{
	{Name: "Pistol", Item: ItemWeapon, Weapon: Pistol, Cost: 50},
	{Name: "Assault rifle", Item: ItemWeapon, Weapon: AssaultRifle, Cost: 150},
	{Name: "Sniper", Item: ItemWeapon, Weapon: Sniper, Cost: 200},
	{Name: "Shotgun", Item: ItemWeapon, Weapon: Shotgun, Cost: 120},
	{Name: "Grenade launcher", Item: ItemWeapon, Weapon: GrenadeLauncher, Cost: 250},
	{Name: "SMG", Item: ItemWeapon, Weapon: SMG, Cost: 100},
	{Name: "Wood (10)", Item: ItemResource, Resource: Wood, Amount: 10, Cost: 20},
	{Name: "Stone (10)", Item: ItemResource, Resource: Stone, Amount: 10, Cost: 30},
	{Name: "Iron (10)", Item: ItemResource, Resource: Iron, Amount: 10, Cost: 40},
}

func Catalog() []CatalogItem {
	return append([]CatalogItem(nil), catalog...)
}
