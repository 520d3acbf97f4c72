package battleship

import "strconv"

type TileState uint8

const (
	TileStateWater TileState = iota
	TileStateMiss
	TileStateShip
	TileStateShipHit
)

func (ts TileState) String() string {
	switch ts {
	case TileStateMiss:
		return "miss"
	case TileStateShip:
		return "ship"
	case TileStateShipHit:
		return "ship_hit"
	default:
		return "water"
	}
}

// Tile columns go over the wire as arrays of numbers, not as the base64
// string encoding/json would make of a byte slice.
func (ts TileState) MarshalJSON() ([]byte, error) {
	return strconv.AppendUint(nil, uint64(ts), 10), nil
}

type AttackResult uint8

const (
	AttackResultNoHit AttackResult = iota
	AttackResultHit
	AttackResultHitAndSunk
)

func (ar AttackResult) IsHit() bool {
	return ar != AttackResultNoHit
}

func (ar AttackResult) String() string {
	switch ar {
	case AttackResultHit:
		return "hit"
	case AttackResultHitAndSunk:
		return "hit_and_sunk"
	default:
		return "no_hit"
	}
}

// A tile only references a ship while its state is
// TileStateShip or TileStateShipHit.
type Tile struct {
	state TileState
	ship  *Ship
}

func (t *Tile) State() TileState {
	return t.state
}

func (t *Tile) Ship() *Ship {
	return t.ship
}

func (t *Tile) WasBombarded() bool {
	return t.state == TileStateMiss || t.state == TileStateShipHit
}

func (t *Tile) occupy(ship *Ship) {
	t.state = TileStateShip
	t.ship = ship
}

// Resolved tiles never change again, so bombarding them twice is a no-op.
func (t *Tile) bombard() AttackResult {
	switch t.state {
	case TileStateWater:
		t.state = TileStateMiss
		return AttackResultNoHit

	case TileStateShip:
		t.state = TileStateShipHit
		t.ship.gotHit()
		if t.ship.IsSunk() {
			return AttackResultHitAndSunk
		}
		return AttackResultHit

	default:
		return AttackResultNoHit
	}
}
