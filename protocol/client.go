package protocol

import "errors"

//input structs coming in from the client.

type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Validator is implemented by payloads that can be rejected before they
// reach a room.
type Validator interface {
	Validate() error
}

type Join struct {
	Name string `json:"name,omitempty"` // optional name
}

type Move struct {
	Position Vec     `json:"position"`
	Rotation float64 `json:"rotation"`
	Velocity Vec     `json:"velocity"`
}

type Fire struct {
	Position  Vec    `json:"position"`
	Direction Vec    `json:"direction"`
	Weapon    string `json:"weapon"`
}

type Build struct {
	Kind     string `json:"kind"`
	Position Vec    `json:"position"`
}

func (b Build) Validate() error {
	if b.Kind == "" {
		return errors.New("building kind is required")
	}
	return nil
}

type CollectStart struct {
	ResourceID string `json:"resourceId"`
	PlayerID   string `json:"playerId"`
}

func (c CollectStart) Validate() error {
	if c.ResourceID == "" {
		return errors.New("resourceId is required")
	}
	return nil
}

// CollectStop doubles as the collect_done payload.
type CollectStop struct {
	ResourceID string `json:"resourceId"`
}

func (c CollectStop) Validate() error {
	if c.ResourceID == "" {
		return errors.New("resourceId is required")
	}
	return nil
}

type Purchase struct {
	Item     string `json:"item"` // "weapon" or "resource"
	Weapon   string `json:"weapon,omitempty"`
	Resource string `json:"resource,omitempty"`
	Amount   int    `json:"amount,omitempty"`
	Cost     int    `json:"cost"`
}

func (p Purchase) Validate() error {
	if p.Cost < 0 {
		return errors.New("cost cannot be negative")
	}
	switch p.Item {
	case "weapon":
		if p.Weapon == "" {
			return errors.New("weapon is required")
		}
	case "resource":
		if p.Resource == "" || p.Amount < 0 {
			return errors.New("resource and non-negative amount are required")
		}
	default:
		return errors.New("unknown item type")
	}
	return nil
}

type Damage struct {
	TargetID string `json:"targetId"`
	Amount   int    `json:"amount"`
}

func (d Damage) Validate() error {
	if d.TargetID == "" {
		return errors.New("targetId is required")
	}
	if d.Amount < 0 {
		return errors.New("damage cannot be negative")
	}
	return nil
}

type ZombieDown struct {
	ZombieID string `json:"zombieId"`
}

type BuildingDown struct {
	BuildingID string `json:"buildingId"`
}
