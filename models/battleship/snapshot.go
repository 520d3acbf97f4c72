package battleship

import (
	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

type ShipSnapshot struct {
	X        int  `json:"x"`
	Y        int  `json:"y"`
	Length   int  `json:"length"`
	Vertical bool `json:"vertical"`
	Hits     int  `json:"hits"`
	IsSunk   bool `json:"is_sunk"`
}

// GridSnapshot is the serializable form of a grid. Tiles are indexed
// [x][y] like the grid itself.
type GridSnapshot struct {
	Width  int            `json:"width"`
	Height int            `json:"height"`
	Tiles  [][]TileState  `json:"tiles"`
	Ships  []ShipSnapshot `json:"ships"`
}

func (ss ShipSnapshot) Footprint() []Coordinates {
	orientation := OrientationHorizontal
	if ss.Vertical {
		orientation = OrientationVertical
	}
	return footprint(NewCoordinates(ss.X, ss.Y), ss.Length, orientation)
}

func newShipSnapshot(ship *Ship) ShipSnapshot {
	return ShipSnapshot{
		X:        ship.origin.X,
		Y:        ship.origin.Y,
		Length:   ship.length,
		Vertical: ship.IsVertical(),
		Hits:     ship.hits,
		IsSunk:   ship.IsSunk(),
	}
}

func (g *Grid) Snapshot() GridSnapshot {
	tiles := make([][]TileState, g.width)
	for x := 0; x < g.width; x++ {
		tiles[x] = make([]TileState, g.height)
		for y := 0; y < g.height; y++ {
			tiles[x][y] = g.tiles[x][y].state
		}
	}

	ships := make([]ShipSnapshot, 0, len(g.ships))
	for _, ship := range g.ships {
		ships = append(ships, newShipSnapshot(ship))
	}

	return GridSnapshot{
		Width:  g.width,
		Height: g.height,
		Tiles:  tiles,
		Ships:  ships,
	}
}

// MaskedSnapshot is what the opponent is allowed to see: resolved tiles
// only, and only the ships that are already sunk.
func (g *Grid) MaskedSnapshot() GridSnapshot {
	snapshot := g.Snapshot()
	for x := range snapshot.Tiles {
		for y := range snapshot.Tiles[x] {
			if snapshot.Tiles[x][y] == TileStateShip {
				snapshot.Tiles[x][y] = TileStateWater
			}
		}
	}

	sunk := make([]ShipSnapshot, 0, len(snapshot.Ships))
	for _, ship := range snapshot.Ships {
		if ship.IsSunk {
			sunk = append(sunk, ship)
		}
	}
	snapshot.Ships = sunk
	return snapshot
}

// RestoreGrid rebuilds a grid from a full snapshot. Snapshots that break a
// grid invariant are rejected.
func RestoreGrid(snapshot GridSnapshot) (*Grid, error) {
	if snapshot.Width <= 0 || snapshot.Height <= 0 {
		return nil, cerr.ErrInvalidSnapshot("grid size must be positive")
	}
	if len(snapshot.Tiles) != snapshot.Width {
		return nil, cerr.ErrInvalidSnapshot("tile columns do not match width")
	}
	for _, column := range snapshot.Tiles {
		if len(column) != snapshot.Height {
			return nil, cerr.ErrInvalidSnapshot("tile rows do not match height")
		}
	}

	grid := NewGrid(snapshot.Width, snapshot.Height)
	for _, s := range snapshot.Ships {
		orientation := OrientationHorizontal
		if s.Vertical {
			orientation = OrientationVertical
		}
		if _, err := grid.PlaceShip(NewCoordinates(s.X, s.Y), s.Length, orientation, false); err != nil {
			return nil, cerr.ErrInvalidSnapshot(err.Error())
		}
	}

	for x := 0; x < grid.width; x++ {
		for y := 0; y < grid.height; y++ {
			tile := &grid.tiles[x][y]
			state := snapshot.Tiles[x][y]

			switch state {
			case TileStateWater, TileStateMiss:
				if tile.ship != nil {
					return nil, cerr.ErrInvalidSnapshot("water or miss tile under a ship")
				}
				tile.state = state

			case TileStateShip, TileStateShipHit:
				if tile.ship == nil {
					return nil, cerr.ErrInvalidSnapshot("ship tile without a ship")
				}
				if state == TileStateShipHit {
					tile.state = TileStateShipHit
					tile.ship.gotHit()
				}

			default:
				return nil, cerr.ErrInvalidSnapshot("unknown tile state")
			}
		}
	}

	for i, ship := range grid.ships {
		if ship.hits != snapshot.Ships[i].Hits {
			return nil, cerr.ErrInvalidSnapshot("ship hits do not match hit tiles")
		}
	}

	return grid, nil
}
