package game

import "math/rand"

// RandomEdgePosition picks one of the four map edges, then a uniform point
// along it.
func RandomEdgePosition(rng *rand.Rand) Vec {
	switch rng.Intn(4) {
	case 0:
		return Vec{X: rng.Float64() * MapWidth, Y: EdgeInset}
	case 1:
		return Vec{X: MapWidth - EdgeInset, Y: rng.Float64() * MapHeight}
	case 2:
		return Vec{X: rng.Float64() * MapWidth, Y: MapHeight - EdgeInset}
	default:
		return Vec{X: EdgeInset, Y: rng.Float64() * MapHeight}
	}
}

func RandomInteriorPosition(rng *rand.Rand) Vec {
	return Vec{
		X: InteriorMargin + rng.Float64()*(MapWidth-2*InteriorMargin),
		Y: InteriorMargin + rng.Float64()*(MapHeight-2*InteriorMargin),
	}
}

func (s *State) spawnZombies(rng *rand.Rand, wave int) []*Zombie {
	n := ZombieCount(s.Rules.ZombieBase, wave)
	out := make([]*Zombie, 0, n)
	for i := 0; i < n; i++ {
		kind := PickZombieKind(wave, rng.Float64)
		hp := ZombieMaxHealth(kind)
		z := &Zombie{
			ID:        s.nextID("z"),
			Kind:      kind,
			Pos:       RandomEdgePosition(rng),
			Health:    hp,
			MaxHealth: hp,
		}
		s.Zombies[z.ID] = z
		out = append(out, z)
	}
	return out
}

// SeedResources places the starting resource nodes.
func (s *State) SeedResources(rng *rand.Rand) []*ResourceNode {
	out := make([]*ResourceNode, 0, s.Rules.ResourceNodes)
	for i := 0; i < s.Rules.ResourceNodes; i++ {
		n := &ResourceNode{
			ID:     s.nextID("r"),
			Kind:   HarvestableKinds[rng.Intn(len(HarvestableKinds))],
			Pos:    RandomInteriorPosition(rng),
			Amount: s.Rules.ResourceAmount,
		}
		s.Resources[n.ID] = n
		out = append(out, n)
	}
	return out
}
