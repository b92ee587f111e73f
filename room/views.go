package room

import (
	"horde/game"
	"horde/protocol"
)

func vec(v game.Vec) protocol.Vec {
	return protocol.Vec{X: v.X, Y: v.Y}
}

func playerView(p *game.Player) protocol.PlayerView {
	weapons := make([]string, 0, len(p.Weapons))
	for _, w := range p.Weapons {
		weapons = append(weapons, w.String())
	}
	res := make(map[string]int, len(p.Resources))
	for k, n := range p.Resources {
		res[k.String()] = n
	}
	return protocol.PlayerView{
		ID:            p.ID,
		Name:          p.Name,
		Position:      vec(p.Pos),
		Rotation:      p.Rotation,
		Health:        p.Health,
		MaxHealth:     p.MaxHealth,
		Stamina:       p.Stamina,
		MaxStamina:    p.MaxStamina,
		Armor:         p.Armor,
		Weapons:       weapons,
		CurrentWeapon: p.CurrentWeapon.String(),
		Resources:     res,
		Gold:          p.Gold,
	}
}

func zombieView(z *game.Zombie) protocol.ZombieView {
	stats := game.ZombieStats(z.Kind)
	return protocol.ZombieView{
		ID:        z.ID,
		Kind:      z.Kind.String(),
		Position:  vec(z.Pos),
		Health:    z.Health,
		MaxHealth: z.MaxHealth,
		Speed:     stats.Speed,
		Damage:    stats.Damage,
		Target:    z.Target,
		Removed:   z.Health <= 0,
	}
}

func buildingView(b *game.Building) protocol.BuildingView {
	combat := game.BuildingCombat(b.Kind)
	return protocol.BuildingView{
		ID:        b.ID,
		Kind:      b.Kind.String(),
		Position:  vec(b.Pos),
		Health:    b.Health,
		MaxHealth: b.MaxHealth,
		Owner:     b.Owner,
		Range:     combat.Range,
		Damage:    combat.Damage,
		Removed:   b.Health <= 0,
	}
}

func resourceView(n *game.ResourceNode, collector string) protocol.ResourceView {
	return protocol.ResourceView{
		ID:        n.ID,
		Kind:      n.Kind.String(),
		Position:  vec(n.Pos),
		Amount:    n.Amount,
		Collector: collector,
	}
}

func snapshot(s *game.State) protocol.State {
	out := protocol.State{
		Wave:      s.Wave.Number,
		Countdown: s.Wave.Countdown,
		ShopOpen:  s.Phase == game.Shop,
		Phase:     s.Phase.String(),
		Players:   make([]protocol.PlayerView, 0, len(s.Players)),
		Zombies:   make([]protocol.ZombieView, 0, len(s.Zombies)),
		Buildings: make([]protocol.BuildingView, 0, len(s.Buildings)),
		Resources: make([]protocol.ResourceView, 0, len(s.Resources)),
	}
	for _, p := range s.Players {
		out.Players = append(out.Players, playerView(p))
	}
	for _, z := range s.Zombies {
		out.Zombies = append(out.Zombies, zombieView(z))
	}
	for _, b := range s.Buildings {
		out.Buildings = append(out.Buildings, buildingView(b))
	}
	for _, n := range s.Resources {
		out.Resources = append(out.Resources, resourceView(n, s.Collector(n.ID)))
	}
	return out
}

func catalogView() []protocol.CatalogItem {
	items := game.Catalog()
	out := make([]protocol.CatalogItem, 0, len(items))
	for _, it := range items {
		ci := protocol.CatalogItem{Name: it.Name, Item: it.Item, Cost: it.Cost}
		switch it.Item {
		case game.ItemWeapon:
			ci.Weapon = it.Weapon.String()
		case game.ItemResource:
			ci.Resource = it.Resource.String()
			ci.Amount = it.Amount
		}
		out = append(out, ci)
	}
	return out
}
