package game

import "fmt"

type WeaponKind uint8

const (
	Pistol WeaponKind = iota
	AssaultRifle
	Sniper
	Shotgun
	GrenadeLauncher
	SMG
)

var weaponNames = [...]string{"pistol", "assault_rifle", "sniper", "shotgun", "grenade_launcher", "smg"}

func (k WeaponKind) String() string {
	if int(k) < len(weaponNames) {
		return weaponNames[k]
	}
	return fmt.Sprintf("weapon(%d)", k)
}

func ParseWeaponKind(s string) (WeaponKind, error) {
	for i, n := range weaponNames {
		if n == s {
			return WeaponKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown weapon kind %q", s)
}

type ResourceKind uint8

const (
	Wood ResourceKind = iota
	Stone
	Iron
	// Gold is a currency name only; nodes never carry it and balances
	// live in Player.Gold.
	Gold
)

var resourceNames = [...]string{"wood", "stone", "iron", "gold"}

// HarvestableKinds are the kinds resource nodes spawn with.
var HarvestableKinds = []ResourceKind{Wood, Stone, Iron}

func (k ResourceKind) String() string {
	if int(k) < len(resourceNames) {
		return resourceNames[k]
	}
	return fmt.Sprintf("resource(%d)", k)
}

func (k ResourceKind) Harvestable() bool {
	return k == Wood || k == Stone || k == Iron
}

func ParseResourceKind(s string) (ResourceKind, error) {
	for i, n := range resourceNames {
		if n == s {
			return ResourceKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown resource kind %q", s)
}

type BuildingKind uint8

const (
	Fence BuildingKind = iota
	Gate
	BarbedWire
	TurretRifle
	TurretFlamethrower
	TurretGrenade
	TurretPiercing
)

var buildingNames = [...]string{
	"fence", "gate", "barbed_wire",
	"turret_rifle", "turret_flamethrower", "turret_grenade", "turret_piercing",
}

func (k BuildingKind) String() string {
	if int(k) < len(buildingNames) {
		return buildingNames[k]
	}
	return fmt.Sprintf("building(%d)", k)
}

func ParseBuildingKind(s string) (BuildingKind, error) {
	for i, n := range buildingNames {
		if n == s {
			return BuildingKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown building kind %q", s)
}

type ZombieKind uint8

const (
	Basic ZombieKind = iota
	Fast
	Tank
	Spitter
)

var zombieNames = [...]string{"basic", "fast", "tank", "spitter"}

func (k ZombieKind) String() string {
	if int(k) < len(zombieNames) {
		return zombieNames[k]
	}
	return fmt.Sprintf("zombie(%d)", k)
}

type Phase uint8

const (
	Lobby Phase = iota
	Active
	Shop
)

func (p Phase) String() string {
	switch p {
	case Lobby:
		return "lobby"
	case Active:
		return "active"
	case Shop:
		return "shop"
	}
	return fmt.Sprintf("phase(%d)", p)
}
