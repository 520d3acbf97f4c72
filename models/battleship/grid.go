package battleship

import (
	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

type Coordinates struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func NewCoordinates(x, y int) Coordinates {
	return Coordinates{X: x, Y: y}
}

func (c Coordinates) add(dx, dy int) Coordinates {
	return Coordinates{X: c.X + dx, Y: c.Y + dy}
}

// Grid tiles are indexed [x][y]. Ships are kept in placement order.
type Grid struct {
	width  int
	height int
	tiles  [][]Tile
	ships  []*Ship
}

// Creates a new grid with every tile set to water
func NewGrid(width, height int) *Grid {
	tiles := make([][]Tile, width)
	for x := 0; x < width; x++ {
		tiles[x] = make([]Tile, height)
	}

	return &Grid{
		width:  width,
		height: height,
		tiles:  tiles,
		ships:  make([]*Ship, 0, 8),
	}
}

func (g *Grid) Width() int {
	return g.width
}

func (g *Grid) Height() int {
	return g.height
}

func (g *Grid) Area() int {
	return g.width * g.height
}

func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

func (g *Grid) TileAt(x, y int) (*Tile, error) {
	if !g.InBounds(x, y) {
		return nil, cerr.ErrXorYOutOfGridBound(x, y)
	}
	return &g.tiles[x][y], nil
}

// only for coordinates already known to be in bounds
func (g *Grid) tile(c Coordinates) *Tile {
	return &g.tiles[c.X][c.Y]
}

// Attack is the only way to change a grid once the fleet is placed.
// Coordinates outside the grid are rejected before anything is touched.
func (g *Grid) Attack(x, y int) (AttackResult, error) {
	if !g.InBounds(x, y) {
		return AttackResultNoHit, cerr.ErrXorYOutOfGridBound(x, y)
	}
	return g.tiles[x][y].bombard(), nil
}

func (g *Grid) WasBombarded(x, y int) (bool, error) {
	tile, err := g.TileAt(x, y)
	if err != nil {
		return false, err
	}
	return tile.WasBombarded(), nil
}

// Reports whether a ship fits at origin: inside the grid, not on top of
// another ship and, with spacing, not within one tile of another ship.
func (g *Grid) CanPlaceShip(origin Coordinates, length int, orientation Orientation, spacing bool) bool {
	if length < MinShipLength || length > MaxShipLength {
		return false
	}
	return fits(g.width, g.height, origin, length, orientation, spacing, func(c Coordinates) bool {
		return g.tile(c).ship != nil
	})
}

func (g *Grid) PlaceShip(origin Coordinates, length int, orientation Orientation, spacing bool) (*Ship, error) {
	if length < MinShipLength || length > MaxShipLength {
		return nil, cerr.ErrInvalidShipLength(length)
	}
	if !g.InBounds(origin.X, origin.Y) {
		return nil, cerr.ErrXorYOutOfGridBound(origin.X, origin.Y)
	}
	if !g.CanPlaceShip(origin, length, orientation, spacing) {
		return nil, cerr.ErrShipPositionTaken(origin.X, origin.Y, length)
	}

	ship := newShip(origin, length, orientation)
	for _, c := range ship.Footprint() {
		g.tile(c).occupy(ship)
	}
	g.ships = append(g.ships, ship)
	return ship, nil
}

// Returns a copy of the ship list in placement order.
func (g *Grid) Ships() []*Ship {
	ships := make([]*Ship, len(g.ships))
	copy(ships, g.ships)
	return ships
}

func (g *Grid) ShipCount() int {
	return len(g.ships)
}

// ShipCountByLength is indexed by length-1.
func (g *Grid) ShipCountByLength() [MaxShipLength]int {
	var counts [MaxShipLength]int
	for _, ship := range g.ships {
		counts[ship.length-1]++
	}
	return counts
}

func (g *Grid) SunkenShips() int {
	sunken := 0
	for _, ship := range g.ships {
		if ship.IsSunk() {
			sunken++
		}
	}
	return sunken
}

// An empty fleet counts as sunk; games never start without ships.
func (g *Grid) AllShipsSunk() bool {
	return g.SunkenShips() == len(g.ships)
}

func (g *Grid) UnresolvedTiles() []Coordinates {
	coords := make([]Coordinates, 0, g.Area())
	for x := 0; x < g.width; x++ {
		for y := 0; y < g.height; y++ {
			if !g.tiles[x][y].WasBombarded() {
				coords = append(coords, NewCoordinates(x, y))
			}
		}
	}
	return coords
}

// Row-major occupancy, 1 where a ship sits. Used for fleet commitments.
func (g *Grid) OccupancyCells() []uint8 {
	cells := make([]uint8, 0, g.Area())
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if g.tiles[x][y].ship != nil {
				cells = append(cells, 1)
			} else {
				cells = append(cells, 0)
			}
		}
	}
	return cells
}

// fits is shared by the grid and the placement planner. occupied reports
// whether an in-bounds tile already holds a ship.
func fits(width, height int, origin Coordinates, length int, orientation Orientation, spacing bool, occupied func(Coordinates) bool) bool {
	end := origin.add(length-1, 0)
	if orientation == OrientationVertical {
		end = origin.add(0, length-1)
	}
	if origin.X < 0 || origin.Y < 0 || end.X >= width || end.Y >= height {
		return false
	}

	minX, minY, maxX, maxY := origin.X, origin.Y, end.X, end.Y
	if spacing {
		minX, minY = max(minX-1, 0), max(minY-1, 0)
		maxX, maxY = min(maxX+1, width-1), min(maxY+1, height-1)
	}

	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			if occupied(NewCoordinates(x, y)) {
				return false
			}
		}
	}
	return true
}
