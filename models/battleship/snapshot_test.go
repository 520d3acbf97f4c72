package battleship

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	r := OfficialSecondVersionRuleset
	grid := NewGrid(r.Width(), r.Height())
	require.NoError(t, PlaceFleet(r, grid, rand.New(rand.NewSource(42))))

	// sink the first ship and wound the second
	ships := grid.Ships()
	for _, c := range ships[0].Footprint() {
		_, err := grid.Attack(c.X, c.Y)
		require.NoError(t, err)
	}
	first := ships[1].Footprint()[0]
	_, err := grid.Attack(first.X, first.Y)
	require.NoError(t, err)
	for _, c := range grid.UnresolvedTiles()[:10] {
		_, err := grid.Attack(c.X, c.Y)
		require.NoError(t, err)
	}

	snapshot := grid.Snapshot()
	encoded, err := json.Marshal(snapshot)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"tiles":[[`)
	var decoded GridSnapshot
	require.NoError(t, json.Unmarshal(encoded, &decoded))

	restored, err := RestoreGrid(decoded)
	require.NoError(t, err)
	assert.Equal(t, snapshot, restored.Snapshot())

	restoredShips := restored.Ships()
	require.Len(t, restoredShips, len(ships))
	for i, ship := range ships {
		assert.Equal(t, ship.IsSunk(), restoredShips[i].IsSunk())
		assert.Equal(t, ship.Hits(), restoredShips[i].Hits())
		assert.Equal(t, ship.Orientation(), restoredShips[i].Orientation())
	}
	assert.True(t, restoredShips[0].IsSunk())
	assert.Equal(t, grid.UnresolvedTiles(), restored.UnresolvedTiles())
}

func TestRestoreGridRejectsInconsistentSnapshot(t *testing.T) {
	base := func() GridSnapshot {
		grid := NewGrid(4, 4)
		_, _ = grid.PlaceShip(NewCoordinates(0, 0), 2, OrientationHorizontal, false)
		_, _ = grid.Attack(0, 0)
		return grid.Snapshot()
	}

	tests := []struct {
		name   string
		mutate func(s *GridSnapshot)
	}{
		{name: "ship out of bounds", mutate: func(s *GridSnapshot) { s.Ships[0].X = 3 }},
		{name: "overlapping ships", mutate: func(s *GridSnapshot) { s.Ships = append(s.Ships, s.Ships[0]) }},
		{name: "water under ship", mutate: func(s *GridSnapshot) { s.Tiles[1][0] = TileStateWater }},
		{name: "ship tile without ship", mutate: func(s *GridSnapshot) { s.Tiles[3][3] = TileStateShip }},
		{name: "hits do not match", mutate: func(s *GridSnapshot) { s.Ships[0].Hits = 2 }},
		{name: "wrong width", mutate: func(s *GridSnapshot) { s.Width = 5 }},
		{name: "unknown state", mutate: func(s *GridSnapshot) { s.Tiles[2][2] = TileState(9) }},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			snapshot := base()
			test.mutate(&snapshot)
			_, err := RestoreGrid(snapshot)
			require.Error(t, err)
		})
	}
}

func TestMaskedSnapshot(t *testing.T) {
	grid := NewGrid(5, 5)
	_, err := grid.PlaceShip(NewCoordinates(0, 0), 1, OrientationHorizontal, true)
	require.NoError(t, err)
	_, err = grid.PlaceShip(NewCoordinates(2, 2), 2, OrientationVertical, true)
	require.NoError(t, err)

	_, _ = grid.Attack(0, 0)
	_, _ = grid.Attack(2, 2)
	_, _ = grid.Attack(4, 4)

	masked := grid.MaskedSnapshot()
	assert.Equal(t, TileStateShipHit, masked.Tiles[0][0])
	assert.Equal(t, TileStateShipHit, masked.Tiles[2][2])
	assert.Equal(t, TileStateWater, masked.Tiles[2][3], "unhit ship tile stays hidden")
	assert.Equal(t, TileStateMiss, masked.Tiles[4][4])
	require.Len(t, masked.Ships, 1)
	assert.Equal(t, ShipSnapshot{X: 0, Y: 0, Length: 1, Hits: 1, IsSunk: true}, masked.Ships[0])
}
