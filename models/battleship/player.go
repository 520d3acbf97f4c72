package battleship

const (
	PointsForHit      = 50
	PointsForShipSunk = 150
)

type Player struct {
	isHuman bool
	isTurn  bool
	points  int
	grid    *Grid
}

func NewPlayer(isHuman, isTurn bool, width, height int) *Player {
	return &Player{
		isHuman: isHuman,
		isTurn:  isTurn,
		grid:    NewGrid(width, height),
	}
}

func (p *Player) IsHuman() bool {
	return p.isHuman
}

func (p *Player) IsTurn() bool {
	return p.isTurn
}

func (p *Player) Points() int {
	return p.points
}

func (p *Player) Grid() *Grid {
	return p.grid
}

// IsLoser is true once a placed fleet is entirely sunk.
func (p *Player) IsLoser() bool {
	return p.grid.ShipCount() > 0 && p.grid.AllShipsSunk()
}

// Awards the points an attack result is worth and returns them.
func (p *Player) reward(result AttackResult) int {
	gained := 0
	switch result {
	case AttackResultHit:
		gained = PointsForHit
	case AttackResultHitAndSunk:
		gained = PointsForHit + PointsForShipSunk
	}
	p.points += gained
	return gained
}

func (p *Player) setTurn(isTurn bool) {
	p.isTurn = isTurn
}
