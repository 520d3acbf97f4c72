package battleship

import "math/rand"

// RandomAgent fires at a random unresolved tile every move and keeps no
// memory of earlier hits.
type RandomAgent struct {
	rng        *rand.Rand
	lastTarget Coordinates
	hasFired   bool
}

var _ Agent = (*RandomAgent)(nil)

func NewRandomAgent(rng *rand.Rand) *RandomAgent {
	return &RandomAgent{rng: rng}
}

func (ra *RandomAgent) PlaceFleet(r *Ruleset, own *Grid) error {
	return PlaceFleet(r, own, ra.rng)
}

func (ra *RandomAgent) PerformMove(opponent *Grid) (bool, error) {
	target, err := pickRandomTarget(opponent, ra.rng)
	if err != nil {
		return false, err
	}

	result, err := opponent.Attack(target.X, target.Y)
	if err != nil {
		return false, err
	}

	ra.lastTarget = target
	ra.hasFired = true
	return result.IsHit(), nil
}

func (ra *RandomAgent) LastTarget() (Coordinates, bool) {
	return ra.lastTarget, ra.hasFired
}

func (ra *RandomAgent) Difficulty() Difficulty {
	return DifficultyEasy
}
