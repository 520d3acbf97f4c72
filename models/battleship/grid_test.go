package battleship

import (
	"errors"
	"testing"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTileBombard(t *testing.T) {
	tests := []struct {
		name           string
		shipLength     int
		preHits        int
		state          TileState
		expectedResult AttackResult
		expectedState  TileState
	}{
		{name: "water turns into miss", state: TileStateWater, expectedResult: AttackResultNoHit, expectedState: TileStateMiss},
		{name: "miss stays miss", state: TileStateMiss, expectedResult: AttackResultNoHit, expectedState: TileStateMiss},
		{name: "ship gets hit", shipLength: 2, state: TileStateShip, expectedResult: AttackResultHit, expectedState: TileStateShipHit},
		{name: "last tile sinks ship", shipLength: 2, preHits: 1, state: TileStateShip, expectedResult: AttackResultHitAndSunk, expectedState: TileStateShipHit},
		{name: "hit tile is a no-op", shipLength: 2, preHits: 1, state: TileStateShipHit, expectedResult: AttackResultNoHit, expectedState: TileStateShipHit},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			tile := Tile{state: test.state}
			if test.shipLength > 0 {
				tile.ship = newShip(NewCoordinates(0, 0), test.shipLength, OrientationHorizontal)
				tile.ship.hits = test.preHits
			}

			result := tile.bombard()
			if result != test.expectedResult {
				t.Fatalf("expected result: %s\tgot: %s", test.expectedResult, result)
			}
			if tile.State() != test.expectedState {
				t.Fatalf("expected state: %s\tgot: %s", test.expectedState, tile.State())
			}
			if tile.ship != nil && tile.ship.Hits() > tile.ship.Length() {
				t.Fatalf("hits exceeded length: %d > %d", tile.ship.Hits(), tile.ship.Length())
			}
		})
	}
}

func TestGridAttackOutOfBounds(t *testing.T) {
	grid := NewGrid(15, 15)
	_, err := grid.PlaceShip(NewCoordinates(14, 0), 1, OrientationHorizontal, true)
	require.NoError(t, err)
	before := grid.Snapshot()

	tests := []struct {
		name string
		x, y int
	}{
		{name: "x equals width", x: 15, y: 0},
		{name: "y equals height", x: 0, y: 15},
		{name: "negative x", x: -1, y: 3},
		{name: "negative y", x: 3, y: -1},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := grid.Attack(test.x, test.y)
			require.Error(t, err)
			assert.True(t, errors.Is(err, cerr.ErrOutOfGridBound))
			assert.Equal(t, before, grid.Snapshot())
		})
	}
}

func TestGridReattackIsIdempotent(t *testing.T) {
	grid := NewGrid(5, 5)
	_, err := grid.PlaceShip(NewCoordinates(1, 1), 2, OrientationVertical, false)
	require.NoError(t, err)

	result, err := grid.Attack(1, 1)
	require.NoError(t, err)
	require.Equal(t, AttackResultHit, result)

	result, err = grid.Attack(0, 0)
	require.NoError(t, err)
	require.Equal(t, AttackResultNoHit, result)

	before := grid.Snapshot()
	for _, c := range []Coordinates{{1, 1}, {0, 0}} {
		result, err := grid.Attack(c.X, c.Y)
		require.NoError(t, err)
		assert.Equal(t, AttackResultNoHit, result)
	}
	assert.Equal(t, before, grid.Snapshot())
	assert.Equal(t, 1, grid.Ships()[0].Hits())
}

func TestGridPlaceShip(t *testing.T) {
	tests := []struct {
		name        string
		origin      Coordinates
		length      int
		orientation Orientation
		spacing     bool
		expectErr   bool
	}{
		{name: "fits on free water", origin: NewCoordinates(6, 6), length: 3, orientation: OrientationHorizontal},
		{name: "sticks out of the grid", origin: NewCoordinates(8, 0), length: 3, orientation: OrientationHorizontal, expectErr: true},
		{name: "overlaps existing ship", origin: NewCoordinates(1, 0), length: 2, orientation: OrientationVertical, expectErr: true},
		{name: "touches diagonally without spacing", origin: NewCoordinates(3, 1), length: 2, orientation: OrientationHorizontal},
		{name: "touches diagonally with spacing", origin: NewCoordinates(3, 1), length: 2, orientation: OrientationHorizontal, spacing: true, expectErr: true},
		{name: "two tiles away with spacing", origin: NewCoordinates(4, 0), length: 2, orientation: OrientationVertical, spacing: true},
		{name: "invalid length", origin: NewCoordinates(5, 5), length: 6, orientation: OrientationHorizontal, expectErr: true},
		{name: "origin outside grid", origin: NewCoordinates(-1, 5), length: 1, orientation: OrientationHorizontal, expectErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			grid := NewGrid(10, 10)
			// occupies (0,0) (1,0) (2,0)
			_, err := grid.PlaceShip(NewCoordinates(0, 0), 3, OrientationHorizontal, false)
			require.NoError(t, err)

			ship, err := grid.PlaceShip(test.origin, test.length, test.orientation, test.spacing)
			if test.expectErr {
				require.Error(t, err)
				assert.Equal(t, 1, grid.ShipCount())
				return
			}

			require.NoError(t, err)
			assert.Equal(t, 2, grid.ShipCount())
			for _, c := range ship.Footprint() {
				tile, err := grid.TileAt(c.X, c.Y)
				require.NoError(t, err)
				assert.Equal(t, TileStateShip, tile.State())
				assert.Same(t, ship, tile.Ship())
			}
		})
	}
}

func TestGridAllShipsSunk(t *testing.T) {
	grid := NewGrid(4, 4)
	assert.True(t, grid.AllShipsSunk(), "empty fleet counts as sunk")

	_, err := grid.PlaceShip(NewCoordinates(0, 0), 2, OrientationHorizontal, true)
	require.NoError(t, err)
	_, err = grid.PlaceShip(NewCoordinates(0, 3), 1, OrientationHorizontal, true)
	require.NoError(t, err)
	assert.False(t, grid.AllShipsSunk())

	result, _ := grid.Attack(0, 3)
	assert.Equal(t, AttackResultHitAndSunk, result)
	assert.Equal(t, 1, grid.SunkenShips())

	result, _ = grid.Attack(0, 0)
	assert.Equal(t, AttackResultHit, result)
	result, _ = grid.Attack(1, 0)
	assert.Equal(t, AttackResultHitAndSunk, result)
	assert.True(t, grid.AllShipsSunk())
}

func TestGridOccupancyCells(t *testing.T) {
	grid := NewGrid(3, 2)
	_, err := grid.PlaceShip(NewCoordinates(1, 0), 2, OrientationVertical, false)
	require.NoError(t, err)

	assert.Equal(t, []uint8{0, 1, 0, 0, 1, 0}, grid.OccupancyCells())
}
