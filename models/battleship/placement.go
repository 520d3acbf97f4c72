package battleship

import (
	"math/rand"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

// A fresh plan is started when random choices paint the fleet into a
// corner. Once the attempts run out an exhaustive search takes over.
const maxPlacementAttempts = 64

type candidate struct {
	origin      Coordinates
	orientation Orientation
}

type plannedShip struct {
	candidate
	length int
}

// placementPlan is a scratch occupancy board so failed attempts never
// touch the real grid.
type placementPlan struct {
	width    int
	height   int
	spacing  bool
	occupied []bool
	ships    []plannedShip
}

func newPlacementPlan(width, height int, spacing bool) *placementPlan {
	return &placementPlan{
		width:    width,
		height:   height,
		spacing:  spacing,
		occupied: make([]bool, width*height),
	}
}

func (p *placementPlan) isOccupied(c Coordinates) bool {
	return p.occupied[c.Y*p.width+c.X]
}

func (p *placementPlan) candidates(length int) []candidate {
	cands := make([]candidate, 0, 2*p.width*p.height)
	for _, orientation := range []Orientation{OrientationHorizontal, OrientationVertical} {
		// a length-1 ship looks the same either way
		if length == 1 && orientation == OrientationVertical {
			continue
		}
		for x := 0; x < p.width; x++ {
			for y := 0; y < p.height; y++ {
				origin := NewCoordinates(x, y)
				if fits(p.width, p.height, origin, length, orientation, p.spacing, p.isOccupied) {
					cands = append(cands, candidate{origin: origin, orientation: orientation})
				}
			}
		}
	}
	return cands
}

func (p *placementPlan) add(c candidate, length int) {
	for _, coord := range footprint(c.origin, length, c.orientation) {
		p.occupied[coord.Y*p.width+coord.X] = true
	}
	p.ships = append(p.ships, plannedShip{candidate: c, length: length})
}

// remove undoes the last add.
func (p *placementPlan) remove(c candidate, length int) {
	for _, coord := range footprint(c.origin, length, c.orientation) {
		p.occupied[coord.Y*p.width+coord.X] = false
	}
	p.ships = p.ships[:len(p.ships)-1]
}

// Lengths to place, longest first.
func fleetLengths(counts [MaxShipLength]int) []int {
	lengths := make([]int, 0, 8)
	for length := MaxShipLength; length >= MinShipLength; length-- {
		for i := 0; i < counts[length-1]; i++ {
			lengths = append(lengths, length)
		}
	}
	return lengths
}

func planFleet(r *Ruleset, rng *rand.Rand) (*placementPlan, bool) {
	lengths := fleetLengths(r.ShipCounts())

	for attempt := 0; attempt < maxPlacementAttempts; attempt++ {
		plan := newPlacementPlan(r.Width(), r.Height(), r.SpacingConstraint())
		complete := true

		for _, length := range lengths {
			cands := plan.candidates(length)
			if len(cands) == 0 {
				complete = false
				break
			}
			plan.add(cands[rng.Intn(len(cands))], length)
		}

		if complete {
			return plan, true
		}
	}
	return searchFleet(r, lengths, rng)
}

// searchFleet tries every combination of candidates, so it only fails when
// no layout exists. Ships of the same length are placed in candidate order
// to skip permutations of the same layout.
func searchFleet(r *Ruleset, lengths []int, rng *rand.Rand) (*placementPlan, bool) {
	plan := newPlacementPlan(r.Width(), r.Height(), r.SpacingConstraint())

	// candidates on the empty grid, shuffled once per length
	candsByLength := make(map[int][]candidate, MaxShipLength)
	for _, length := range lengths {
		if _, ok := candsByLength[length]; ok {
			continue
		}
		cands := plan.candidates(length)
		rng.Shuffle(len(cands), func(i, j int) { cands[i], cands[j] = cands[j], cands[i] })
		candsByLength[length] = cands
	}

	var place func(i, from int) bool
	place = func(i, from int) bool {
		if i == len(lengths) {
			return true
		}

		length := lengths[i]
		cands := candsByLength[length]
		for idx := from; idx < len(cands); idx++ {
			c := cands[idx]
			if !fits(plan.width, plan.height, c.origin, length, c.orientation, plan.spacing, plan.isOccupied) {
				continue
			}
			plan.add(c, length)

			next := 0
			if i+1 < len(lengths) && lengths[i+1] == length {
				next = idx + 1
			}
			if place(i+1, next) {
				return true
			}
			plan.remove(c, length)
		}
		return false
	}

	if !place(0, 0) {
		return nil, false
	}
	return plan, true
}

// Satisfiable reports whether at least one fleet layout exists for r.
func Satisfiable(r *Ruleset) bool {
	_, ok := planFleet(r, rand.New(rand.NewSource(1)))
	return ok
}

// PlaceFleet places every ship the ruleset asks for on an empty grid.
// Any valid layout may come out; which one depends on rng.
func PlaceFleet(r *Ruleset, grid *Grid, rng *rand.Rand) error {
	if grid.ShipCount() != 0 {
		return cerr.ErrFleetAlreadyPlaced()
	}
	if grid.Width() != r.Width() || grid.Height() != r.Height() {
		return cerr.ErrGridSizeMismatch(grid.Width(), grid.Height(), r.Width(), r.Height())
	}
	if err := r.Validate(); err != nil {
		return err
	}

	plan, ok := planFleet(r, rng)
	if !ok {
		return cerr.ErrRulesetUnsatisfiable(r.Name(), "no layout found")
	}

	for _, ps := range plan.ships {
		if _, err := grid.PlaceShip(ps.origin, ps.length, ps.orientation, plan.spacing); err != nil {
			return err
		}
	}
	return nil
}

// RemainingShips is indexed by length-1 and tells how many ships of each
// length the grid still needs to match the ruleset.
func RemainingShips(r *Ruleset, grid *Grid) [MaxShipLength]int {
	required := r.ShipCounts()
	placed := grid.ShipCountByLength()

	var remaining [MaxShipLength]int
	for i := range required {
		remaining[i] = max(required[i]-placed[i], 0)
	}
	return remaining
}

func FleetComplete(r *Ruleset, grid *Grid) bool {
	return grid.ShipCountByLength() == r.ShipCounts()
}
