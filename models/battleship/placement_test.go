package battleship

import (
	"errors"
	"math/rand"
	"testing"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func denseRuleset(t *testing.T) *Ruleset {
	t.Helper()
	r := NewRuleset("small_dense")
	require.NoError(t, r.SetGridSize(8, 8))
	require.NoError(t, r.SetSpacingConstraint(true))
	require.NoError(t, r.SetShipCount(1, 2))
	require.NoError(t, r.SetShipCount(2, 2))
	require.NoError(t, r.SetShipCount(3, 1))
	return r
}

// Nine singles fit a spaced 5x5 grid only on the (even, even) tiles, so
// random attempts alone often miss it.
func tightRuleset(t *testing.T) *Ruleset {
	t.Helper()
	r := NewRuleset("tight_singles")
	require.NoError(t, r.SetGridSize(5, 5))
	require.NoError(t, r.SetSpacingConstraint(true))
	require.NoError(t, r.SetShipCount(1, 9))
	return r
}

func chebyshev(a, b Coordinates) int {
	dx, dy := a.X-b.X, a.Y-b.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return max(dx, dy)
}

func requireValidFleet(t *testing.T, r *Ruleset, grid *Grid) {
	t.Helper()

	require.True(t, FleetComplete(r, grid))

	shipTiles := 0
	for x := 0; x < grid.Width(); x++ {
		for y := 0; y < grid.Height(); y++ {
			tile, err := grid.TileAt(x, y)
			require.NoError(t, err)
			if tile.Ship() != nil {
				shipTiles++
				require.Equal(t, TileStateShip, tile.State())
			} else {
				require.Equal(t, TileStateWater, tile.State())
			}
		}
	}

	expectedTiles := 0
	ships := grid.Ships()
	for _, ship := range ships {
		expectedTiles += ship.Length()
		for _, c := range ship.Footprint() {
			require.True(t, grid.InBounds(c.X, c.Y), "footprint out of bounds: %+v", c)
			tile, _ := grid.TileAt(c.X, c.Y)
			require.Same(t, ship, tile.Ship())
		}
	}
	// every ship tile belongs to exactly one footprint
	require.Equal(t, expectedTiles, shipTiles)

	if !r.SpacingConstraint() {
		return
	}
	for i := range ships {
		for j := i + 1; j < len(ships); j++ {
			for _, a := range ships[i].Footprint() {
				for _, b := range ships[j].Footprint() {
					require.Greater(t, chebyshev(a, b), 1, "ships touch at %+v and %+v", a, b)
				}
			}
		}
	}
}

func TestPlaceFleetProperties(t *testing.T) {
	rulesets := []*Ruleset{
		OfficialFirstVersionRuleset,
		OfficialSecondVersionRuleset,
		denseRuleset(t),
		tightRuleset(t),
	}

	for _, r := range rulesets {
		t.Run(r.Name(), func(t *testing.T) {
			for seed := int64(0); seed < 200; seed++ {
				grid := NewGrid(r.Width(), r.Height())
				err := PlaceFleet(r, grid, rand.New(rand.NewSource(seed)))
				require.NoError(t, err, "seed %d", seed)
				requireValidFleet(t, r, grid)
			}
		})
	}
}

func TestPlaceFleetUnsatisfiable(t *testing.T) {
	tests := []struct {
		name    string
		width   int
		height  int
		spacing bool
		counts  map[int]int
	}{
		// passes the cheap bound, but any two tiles of a 2x2 grid touch
		{name: "two singles on 2x2 with spacing", width: 2, height: 2, spacing: true, counts: map[int]int{1: 2}},
		{name: "too many cells", width: 3, height: 3, counts: map[int]int{5: 0, 3: 4}},
		{name: "ship longer than both sides", width: 3, height: 4, counts: map[int]int{5: 1}},
		{name: "five singles on 4x4 with spacing", width: 4, height: 4, spacing: true, counts: map[int]int{1: 5}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r := NewRuleset(test.name)
			require.NoError(t, r.SetGridSize(test.width, test.height))
			require.NoError(t, r.SetSpacingConstraint(test.spacing))
			for length, count := range test.counts {
				require.NoError(t, r.SetShipCount(length, count))
			}

			grid := NewGrid(test.width, test.height)
			err := PlaceFleet(r, grid, rand.New(rand.NewSource(1)))
			require.Error(t, err)
			assert.True(t, errors.Is(err, cerr.ErrUnsatisfiableRuleset), "got %v", err)
			assert.Equal(t, 0, grid.ShipCount(), "failed placement must not touch the grid")
		})
	}
}

func TestSearchFleet(t *testing.T) {
	r := tightRuleset(t)
	lengths := fleetLengths(r.ShipCounts())

	for seed := int64(0); seed < 20; seed++ {
		plan, ok := searchFleet(r, lengths, rand.New(rand.NewSource(seed)))
		require.True(t, ok, "seed %d", seed)
		require.Len(t, plan.ships, 9)
		for _, ps := range plan.ships {
			if ps.origin.X%2 != 0 || ps.origin.Y%2 != 0 {
				t.Fatalf("expected even coordinates\tgot: %+v", ps.origin)
			}
		}
	}

	// passes Validate, but any two tiles of a 2x2 grid touch
	r = NewRuleset("crowded")
	require.NoError(t, r.SetGridSize(2, 2))
	require.NoError(t, r.SetSpacingConstraint(true))
	require.NoError(t, r.SetShipCount(1, 2))
	require.NoError(t, r.Validate())

	_, ok := searchFleet(r, fleetLengths(r.ShipCounts()), rand.New(rand.NewSource(1)))
	assert.False(t, ok)
	assert.False(t, Satisfiable(r))
	assert.True(t, Satisfiable(tightRuleset(t)))
}

func TestPlaceFleetPreconditions(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	grid := NewGrid(10, 10)
	err := PlaceFleet(OfficialFirstVersionRuleset, grid, rng)
	require.Error(t, err, "grid size differs from ruleset")

	grid = NewGrid(15, 15)
	_, err = grid.PlaceShip(NewCoordinates(0, 0), 1, OrientationHorizontal, true)
	require.NoError(t, err)
	err = PlaceFleet(OfficialFirstVersionRuleset, grid, rng)
	require.Error(t, err, "grid already holds a ship")
}

func TestRemainingShips(t *testing.T) {
	r := OfficialFirstVersionRuleset
	grid := NewGrid(r.Width(), r.Height())

	remaining := RemainingShips(r, grid)
	if remaining != r.ShipCounts() {
		t.Fatalf("expected remaining: %v\tgot: %v", r.ShipCounts(), remaining)
	}

	_, err := grid.PlaceShip(NewCoordinates(0, 0), 1, OrientationHorizontal, true)
	require.NoError(t, err)
	_, err = grid.PlaceShip(NewCoordinates(5, 5), 4, OrientationVertical, true)
	require.NoError(t, err)

	expected := [MaxShipLength]int{1, 1, 1, 0, 0}
	remaining = RemainingShips(r, grid)
	if remaining != expected {
		t.Fatalf("expected remaining: %v\tgot: %v", expected, remaining)
	}
	assert.False(t, FleetComplete(r, grid))
}

func TestFleetLengthsLongestFirst(t *testing.T) {
	lengths := fleetLengths(OfficialSecondVersionRuleset.ShipCounts())
	assert.Equal(t, []int{5, 3, 2, 1}, lengths)
}
