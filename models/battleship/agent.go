package battleship

import (
	"math/rand"
	"time"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

type Difficulty uint8

const (
	DifficultyEasy Difficulty = iota
	DifficultyHard
)

func (d Difficulty) String() string {
	if d == DifficultyHard {
		return "hard"
	}
	return "easy"
}

func IsDifficultyValid(d Difficulty) bool {
	return d == DifficultyEasy || d == DifficultyHard
}

// Agent is the computer player. PerformMove fires exactly one shot at the
// opponent grid and reports whether it hit; the caller keeps calling it
// while it returns true.
type Agent interface {
	PlaceFleet(r *Ruleset, own *Grid) error
	PerformMove(opponent *Grid) (bool, error)
	LastTarget() (Coordinates, bool)
	Difficulty() Difficulty
}

// NewAgent picks the implementation for a difficulty. A nil rng gets a
// time-seeded one; agents are not safe for concurrent use.
func NewAgent(difficulty Difficulty, rng *rand.Rand) (Agent, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	switch difficulty {
	case DifficultyEasy:
		return NewRandomAgent(rng), nil
	case DifficultyHard:
		return NewHuntAgent(rng), nil
	default:
		return nil, cerr.ErrInvalidGameDifficulty()
	}
}

// pickRandomTarget draws uniformly from the tiles nobody has bombarded.
func pickRandomTarget(grid *Grid, rng *rand.Rand) (Coordinates, error) {
	targets := grid.UnresolvedTiles()
	if len(targets) == 0 {
		return Coordinates{}, cerr.ErrNoTargetsLeft
	}
	return targets[rng.Intn(len(targets))], nil
}
