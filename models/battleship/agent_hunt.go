package battleship

import "math/rand"

type HuntPhase uint8

const (
	HuntPhaseIdle HuntPhase = iota
	HuntPhaseSearching
	HuntPhaseProbe
	HuntPhaseExtend
	HuntPhaseRescue
)

func (hp HuntPhase) String() string {
	switch hp {
	case HuntPhaseSearching:
		return "searching"
	case HuntPhaseProbe:
		return "probe"
	case HuntPhaseExtend:
		return "extend"
	case HuntPhaseRescue:
		return "rescue"
	default:
		return "idle"
	}
}

// Directions double as the probe order.
type Direction uint8

const (
	DirectionRight Direction = iota
	DirectionLeft
	DirectionUp
	DirectionDown
)

const directionCount = 4

func (d Direction) delta() (int, int) {
	switch d {
	case DirectionRight:
		return 1, 0
	case DirectionLeft:
		return -1, 0
	case DirectionUp:
		return 0, -1
	default:
		return 0, 1
	}
}

type Axis uint8

const (
	AxisHorizontal Axis = iota
	AxisVertical
)

func (a Axis) sides() [2]Direction {
	if a == AxisVertical {
		return [2]Direction{DirectionUp, DirectionDown}
	}
	return [2]Direction{DirectionRight, DirectionLeft}
}

func (a Axis) other() Axis {
	if a == AxisVertical {
		return AxisHorizontal
	}
	return AxisVertical
}

// huntState is everything the hunter remembers between moves. The zero
// value with phase set to searching is the neutral state every sink
// returns to.
type huntState struct {
	phase  HuntPhase
	origin Coordinates

	// number of neighbours of origin already probed, in Direction order
	probed  int
	anchors [directionCount]bool

	axis      Axis
	axesTried [2]bool
	side      int
	// distance from origin of the next tile on each side; 0 means closed
	reach [2]int
}

// HuntAgent searches at random until it hits, probes the four neighbours
// of that hit, then walks along the axis the neighbours revealed until
// the ship sinks.
type HuntAgent struct {
	rng        *rand.Rand
	state      huntState
	lastTarget Coordinates
	hasFired   bool
}

var _ Agent = (*HuntAgent)(nil)

func NewHuntAgent(rng *rand.Rand) *HuntAgent {
	return &HuntAgent{rng: rng}
}

func (h *HuntAgent) PlaceFleet(r *Ruleset, own *Grid) error {
	return PlaceFleet(r, own, h.rng)
}

func (h *HuntAgent) LastTarget() (Coordinates, bool) {
	return h.lastTarget, h.hasFired
}

func (h *HuntAgent) Difficulty() Difficulty {
	return DifficultyHard
}

func (h *HuntAgent) Phase() HuntPhase {
	return h.state.phase
}

func (h *HuntAgent) reset() {
	h.state = huntState{phase: HuntPhaseSearching}
}

// PerformMove advances the state machine until it has a tile worth
// shooting at. Steps that skip a tile (off the grid, already resolved)
// do not cost a shot. Each step either shoots or moves a cursor forward,
// so the loop is bounded; the budget is a backstop.
func (h *HuntAgent) PerformMove(opponent *Grid) (bool, error) {
	if h.state.phase == HuntPhaseIdle {
		h.state.phase = HuntPhaseSearching
	}

	budget := directionCount + 4*(opponent.Width()+opponent.Height())
	for step := 0; step < budget; step++ {
		target, shoot, err := h.next(opponent)
		if err != nil {
			return false, err
		}
		if shoot {
			return h.fire(opponent, target)
		}
	}

	h.state.phase = HuntPhaseRescue
	target, err := pickRandomTarget(opponent, h.rng)
	if err != nil {
		return false, err
	}
	return h.fire(opponent, target)
}

func (h *HuntAgent) next(opponent *Grid) (Coordinates, bool, error) {
	switch h.state.phase {
	case HuntPhaseProbe:
		target, shoot := h.nextProbe(opponent)
		return target, shoot, nil

	case HuntPhaseExtend:
		target, shoot := h.nextExtension(opponent)
		return target, shoot, nil

	default:
		target, err := pickRandomTarget(opponent, h.rng)
		if err != nil {
			return Coordinates{}, false, err
		}
		return target, true, nil
	}
}

func (h *HuntAgent) nextProbe(opponent *Grid) (Coordinates, bool) {
	s := &h.state
	if s.probed == directionCount {
		h.beginExtension()
		return Coordinates{}, false
	}

	dir := Direction(s.probed)
	dx, dy := dir.delta()
	target := s.origin.add(dx, dy)
	if !opponent.InBounds(target.X, target.Y) {
		s.probed++
		return Coordinates{}, false
	}

	tile := opponent.tile(target)
	if tile.WasBombarded() {
		s.anchors[dir] = tile.state == TileStateShipHit
		s.probed++
		return Coordinates{}, false
	}
	return target, true
}

func (h *HuntAgent) beginExtension() {
	s := &h.state
	switch {
	case s.anchors[DirectionRight] || s.anchors[DirectionLeft]:
		h.beginAxis(AxisHorizontal)
	case s.anchors[DirectionUp] || s.anchors[DirectionDown]:
		h.beginAxis(AxisVertical)
	default:
		h.reset()
	}
}

func (h *HuntAgent) hasAnchorOn(axis Axis) bool {
	sides := axis.sides()
	return h.state.anchors[sides[0]] || h.state.anchors[sides[1]]
}

// The anchor tiles at distance 1 are already hit, so every open side
// starts at distance 2.
func (h *HuntAgent) beginAxis(axis Axis) {
	s := &h.state
	s.phase = HuntPhaseExtend
	s.axis = axis
	s.axesTried[axis] = true
	s.side = 0

	for i, dir := range axis.sides() {
		s.reach[i] = 0
		if s.anchors[dir] {
			s.reach[i] = 2
		}
	}
}

func (h *HuntAgent) nextExtension(opponent *Grid) (Coordinates, bool) {
	s := &h.state
	if s.reach[0] == 0 && s.reach[1] == 0 {
		other := s.axis.other()
		if !s.axesTried[other] && h.hasAnchorOn(other) {
			h.beginAxis(other)
		} else {
			s.phase = HuntPhaseRescue
		}
		return Coordinates{}, false
	}

	if s.reach[s.side] == 0 {
		s.side = 1 - s.side
		return Coordinates{}, false
	}

	dx, dy := s.axis.sides()[s.side].delta()
	target := s.origin.add(dx*s.reach[s.side], dy*s.reach[s.side])
	if !opponent.InBounds(target.X, target.Y) {
		s.reach[s.side] = 0
		return Coordinates{}, false
	}

	tile := opponent.tile(target)
	if tile.WasBombarded() {
		if tile.state == TileStateShipHit {
			s.reach[s.side]++
		} else {
			s.reach[s.side] = 0
		}
		return Coordinates{}, false
	}
	return target, true
}

func (h *HuntAgent) beginProbe(origin Coordinates) {
	h.state = huntState{
		phase:  HuntPhaseProbe,
		origin: origin,
	}
}

func (h *HuntAgent) fire(opponent *Grid, target Coordinates) (bool, error) {
	result, err := opponent.Attack(target.X, target.Y)
	if err != nil {
		return false, err
	}
	h.lastTarget = target
	h.hasFired = true

	if result == AttackResultHitAndSunk {
		h.reset()
		return true, nil
	}

	s := &h.state
	switch s.phase {
	case HuntPhaseProbe:
		s.anchors[s.probed] = result.IsHit()
		s.probed++

	case HuntPhaseExtend:
		if result.IsHit() {
			s.reach[s.side]++
		} else {
			s.reach[s.side] = 0
		}

	default:
		if result.IsHit() {
			h.beginProbe(target)
		} else {
			s.phase = HuntPhaseSearching
		}
	}

	return result.IsHit(), nil
}
