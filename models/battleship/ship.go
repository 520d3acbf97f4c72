package battleship

const (
	MinShipLength = 1
	MaxShipLength = 5
)

type Orientation uint8

const (
	OrientationHorizontal Orientation = iota
	OrientationVertical
)

func (o Orientation) String() string {
	if o == OrientationVertical {
		return "vertical"
	}
	return "horizontal"
}

// Ship shape is fixed once placed; only hits change, and only
// through Grid.Attack.
type Ship struct {
	origin      Coordinates
	length      int
	orientation Orientation
	hits        int
}

func newShip(origin Coordinates, length int, orientation Orientation) *Ship {
	return &Ship{
		origin:      origin,
		length:      length,
		orientation: orientation,
	}
}

func (sh *Ship) gotHit() {
	if sh.hits < sh.length {
		sh.hits++
	}
}

func (sh *Ship) IsSunk() bool {
	return sh.hits == sh.length
}

func (sh *Ship) IsVertical() bool {
	return sh.orientation == OrientationVertical
}

func (sh *Ship) Orientation() Orientation {
	return sh.orientation
}

func (sh *Ship) Length() int {
	return sh.length
}

func (sh *Ship) Hits() int {
	return sh.hits
}

func (sh *Ship) Origin() Coordinates {
	return sh.origin
}

// Returns the tiles the ship covers, origin first.
func (sh *Ship) Footprint() []Coordinates {
	return footprint(sh.origin, sh.length, sh.orientation)
}

func footprint(origin Coordinates, length int, orientation Orientation) []Coordinates {
	coords := make([]Coordinates, 0, length)
	for i := 0; i < length; i++ {
		if orientation == OrientationVertical {
			coords = append(coords, NewCoordinates(origin.X, origin.Y+i))
		} else {
			coords = append(coords, NewCoordinates(origin.X+i, origin.Y))
		}
	}
	return coords
}
