package battleship

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

type GamePhase uint8

const (
	GamePhaseSetup GamePhase = iota
	GamePhasePlaying
	GamePhaseFinished
)

func (gp GamePhase) String() string {
	switch gp {
	case GamePhasePlaying:
		return "playing"
	case GamePhaseFinished:
		return "finished"
	default:
		return "setup"
	}
}

type AttackOutcome struct {
	Coordinates
	Result AttackResult
	// set when the shot sank a ship
	SunkShip *ShipSnapshot
}

type HumanAttackOutcome struct {
	AttackOutcome
	IsTurn   bool
	Finished bool
}

type ComputerTurn struct {
	Attacks  []AttackOutcome
	Finished bool
}

// Game is one human versus computer match. The computer grid belongs to
// the fleet setup goroutine until computerReady is closed; everything
// else goes through mu.
type Game struct {
	uuid     string
	ruleset  *Ruleset
	agent    Agent
	human    *Player
	computer *Player
	phase    GamePhase
	round    int
	humanWon bool
	rng      *rand.Rand

	setupOnce        sync.Once
	computerReady    chan struct{}
	computerSetupErr error

	mu sync.RWMutex
}

// NewGame validates and freezes the ruleset; it is shared with every other
// game using it from now on. A nil rng gets a time-seeded one.
func NewGame(ruleset *Ruleset, agent Agent, rng *rand.Rand) (*Game, error) {
	if err := ruleset.Validate(); err != nil {
		return nil, err
	}
	ruleset.Freeze()

	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	width, height := ruleset.Width(), ruleset.Height()
	return &Game{
		uuid:          newGameUuid(),
		ruleset:       ruleset,
		agent:         agent,
		human:         NewPlayer(true, true, width, height),
		computer:      NewPlayer(false, false, width, height),
		phase:         GamePhaseSetup,
		rng:           rng,
		computerReady: make(chan struct{}),
	}, nil
}

func newGameUuid() string {
	return uuid.NewString()[:6]
}

func (g *Game) Uuid() string {
	return g.uuid
}

func (g *Game) Ruleset() *Ruleset {
	return g.ruleset
}

func (g *Game) Difficulty() Difficulty {
	return g.agent.Difficulty()
}

func (g *Game) Phase() GamePhase {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.phase
}

func (g *Game) IsFinished() bool {
	return g.Phase() == GamePhaseFinished
}

func (g *Game) Round() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.round
}

func (g *Game) HumanWon() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.humanWon
}

func (g *Game) Points() (human, computer int) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.human.Points(), g.computer.Points()
}

func (g *Game) IsHumanTurn() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.human.IsTurn()
}

// SetupComputerFleet lets the agent place its fleet. It runs once, no
// matter how often it is called, and may run while the human places ships.
func (g *Game) SetupComputerFleet() error {
	g.setupOnce.Do(func() {
		g.computerSetupErr = g.agent.PlaceFleet(g.ruleset, g.computer.Grid())
		close(g.computerReady)
	})
	return g.WaitComputerFleet()
}

func (g *Game) WaitComputerFleet() error {
	<-g.computerReady
	return g.computerSetupErr
}

func (g *Game) isComputerFleetReady() bool {
	select {
	case <-g.computerReady:
		return g.computerSetupErr == nil
	default:
		return false
	}
}

func (g *Game) PlaceHumanShip(x, y, length int, vertical bool) ([MaxShipLength]int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != GamePhaseSetup {
		return [MaxShipLength]int{}, cerr.ErrGameAlreadyStarted(g.uuid)
	}
	if length < MinShipLength || length > MaxShipLength {
		return RemainingShips(g.ruleset, g.human.Grid()), cerr.ErrInvalidShipLength(length)
	}

	remaining := RemainingShips(g.ruleset, g.human.Grid())
	if remaining[length-1] == 0 {
		return remaining, cerr.ErrNoShipsLeftOfLength(length)
	}

	orientation := OrientationHorizontal
	if vertical {
		orientation = OrientationVertical
	}
	if _, err := g.human.Grid().PlaceShip(NewCoordinates(x, y), length, orientation, g.ruleset.SpacingConstraint()); err != nil {
		return remaining, err
	}

	return RemainingShips(g.ruleset, g.human.Grid()), nil
}

// AutoPlaceHumanFleet throws away whatever the human placed so far and
// lays out a complete random fleet.
func (g *Game) AutoPlaceHumanFleet() (GridSnapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != GamePhaseSetup {
		return GridSnapshot{}, cerr.ErrGameAlreadyStarted(g.uuid)
	}

	grid := NewGrid(g.ruleset.Width(), g.ruleset.Height())
	if err := PlaceFleet(g.ruleset, grid, g.rng); err != nil {
		return GridSnapshot{}, err
	}
	g.human.grid = grid
	return grid.Snapshot(), nil
}

func (g *Game) HumanFleetComplete() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return FleetComplete(g.ruleset, g.human.Grid())
}

// Start waits for the computer fleet and opens fire. The human shoots first.
func (g *Game) Start() error {
	if err := g.SetupComputerFleet(); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != GamePhaseSetup {
		return cerr.ErrGameAlreadyStarted(g.uuid)
	}
	if !FleetComplete(g.ruleset, g.human.Grid()) {
		return cerr.ErrFleetIncomplete("human player")
	}

	g.phase = GamePhasePlaying
	g.human.setTurn(true)
	g.computer.setTurn(false)
	return nil
}

func (g *Game) checkPlaying() error {
	switch g.phase {
	case GamePhaseSetup:
		return cerr.ErrGameNotStarted(g.uuid)
	case GamePhaseFinished:
		return cerr.ErrGameFinished(g.uuid)
	}
	return nil
}

func sunkShipAt(grid *Grid, c Coordinates, result AttackResult) *ShipSnapshot {
	if result != AttackResultHitAndSunk {
		return nil
	}
	snapshot := newShipSnapshot(grid.tile(c).ship)
	return &snapshot
}

// HumanAttack fires the human's shot at the computer grid. A hit keeps the
// turn, a miss hands it to the computer. Shooting a resolved tile is an
// error and keeps the turn.
func (g *Game) HumanAttack(x, y int) (HumanAttackOutcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.checkPlaying(); err != nil {
		return HumanAttackOutcome{}, err
	}
	if !g.human.IsTurn() {
		return HumanAttackOutcome{}, cerr.ErrNotHumanTurn(g.uuid)
	}

	target := g.computer.Grid()
	alreadyBombarded, err := target.WasBombarded(x, y)
	if err != nil {
		return HumanAttackOutcome{}, err
	}
	if alreadyBombarded {
		return HumanAttackOutcome{}, cerr.ErrAttackPositionAlreadyFilled(x, y)
	}

	result, err := target.Attack(x, y)
	if err != nil {
		return HumanAttackOutcome{}, err
	}
	g.human.reward(result)

	coords := NewCoordinates(x, y)
	outcome := HumanAttackOutcome{
		AttackOutcome: AttackOutcome{
			Coordinates: coords,
			Result:      result,
			SunkShip:    sunkShipAt(target, coords, result),
		},
	}

	switch {
	case g.computer.IsLoser():
		g.finish(true)
		outcome.Finished = true

	case !result.IsHit():
		g.human.setTurn(false)
		g.computer.setTurn(true)
	}

	outcome.IsTurn = g.human.IsTurn()
	return outcome, nil
}

// PlayComputerTurn runs the computer's whole turn under the game lock:
// it keeps shooting while it hits. Readers see the grid either before or
// after the turn, never in between. If the agent fails mid-turn, the shots
// already fired stand and the turn goes back to the human.
func (g *Game) PlayComputerTurn() (ComputerTurn, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.checkPlaying(); err != nil {
		return ComputerTurn{}, err
	}
	if !g.computer.IsTurn() {
		return ComputerTurn{}, cerr.ErrNotComputerTurn(g.uuid)
	}

	target := g.human.Grid()
	turn := ComputerTurn{Attacks: make([]AttackOutcome, 0, 4)}

	// every move resolves a new tile, so a turn never exceeds the area
	for i := 0; i < target.Area(); i++ {
		hit, err := g.agent.PerformMove(target)
		if err != nil {
			g.endComputerTurn()
			return turn, err
		}

		coords, _ := g.agent.LastTarget()
		result := AttackResultNoHit
		if hit {
			result = AttackResultHit
			if ship := target.tile(coords).ship; ship != nil && ship.IsSunk() {
				result = AttackResultHitAndSunk
			}
		}
		g.computer.reward(result)

		turn.Attacks = append(turn.Attacks, AttackOutcome{
			Coordinates: coords,
			Result:      result,
			SunkShip:    sunkShipAt(target, coords, result),
		})

		if g.human.IsLoser() {
			g.finish(false)
			turn.Finished = true
			return turn, nil
		}
		if !hit {
			break
		}
	}

	g.endComputerTurn()
	return turn, nil
}

func (g *Game) endComputerTurn() {
	g.round++
	g.computer.setTurn(false)
	g.human.setTurn(true)
}

func (g *Game) finish(humanWon bool) {
	g.phase = GamePhaseFinished
	g.humanWon = humanWon
	g.human.setTurn(false)
	g.computer.setTurn(false)
}

func (g *Game) HumanGrid() GridSnapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.human.Grid().Snapshot()
}

// ComputerGrid is the human's view of the computer grid. The full layout
// is only revealed once the game is over.
func (g *Game) ComputerGrid() GridSnapshot {
	if !g.isComputerFleetReady() {
		return NewGrid(g.ruleset.Width(), g.ruleset.Height()).Snapshot()
	}

	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.phase == GamePhaseFinished {
		return g.computer.Grid().Snapshot()
	}
	return g.computer.Grid().MaskedSnapshot()
}

// ComputerFleetCells is the occupancy the fleet commitment is computed over.
func (g *Game) ComputerFleetCells() ([]uint8, error) {
	if err := g.WaitComputerFleet(); err != nil {
		return nil, err
	}

	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.computer.Grid().OccupancyCells(), nil
}
