package game

import "math/rand"

type StepResult struct {
	Wave       int // wave spawned this step, 0 if none
	Spawned    []*Zombie
	ShopClosed bool
	Retargeted []*Zombie
}

// Step advances one second of match time. The lobby does not tick; the wave
// countdown only runs while Active and the shop countdown only while Shop.
func Step(s *State, rng *rand.Rand) StepResult {
	var res StepResult
	if s.Phase == Lobby {
		return res
	}
	s.Tick++

	switch s.Phase {
	case Active:
		if s.Wave.Tick() {
			res.Wave, res.Spawned = s.StartWave(rng)
		}
	case Shop:
		if s.ShopCountdown > 0 {
			s.ShopCountdown--
		}
		if s.ShopCountdown <= 0 {
			res.Wave, res.Spawned, res.ShopClosed = s.EndShop(rng)
		}
	}

	res.Retargeted = s.Retarget()
	return res
}
