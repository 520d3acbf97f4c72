package error

import (
	"errors"
	"fmt"
)

// Sentinels that callers branch on with errors.Is. The constructors
// below wrap them so the message carries the offending values.
var (
	ErrOutOfGridBound          = errors.New("coordinates out of grid bound")
	ErrPositionAlreadyAttacked = errors.New("position already attacked")
	ErrUnsatisfiableRuleset    = errors.New("ruleset cannot be satisfied")
	ErrRulesetImmutable        = errors.New("ruleset is immutable")
	ErrNoTargetsLeft           = errors.New("no targets left on grid")
)

func ErrGameNotExists(gameUuid string) error {
	return fmt.Errorf("game with this uuid does not exist, uuid: %s", gameUuid)
}

func ErrGameIsNil(gameUuid string) error {
	return fmt.Errorf("game with this uuid is nil, uuid: %s", gameUuid)
}

func ErrGameNotStarted(gameUuid string) error {
	return fmt.Errorf("game has not started yet, uuid: %s", gameUuid)
}

func ErrGameAlreadyStarted(gameUuid string) error {
	return fmt.Errorf("game has already started, uuid: %s", gameUuid)
}

func ErrGameFinished(gameUuid string) error {
	return fmt.Errorf("game is already finished, uuid: %s", gameUuid)
}

func ErrNotHumanTurn(gameUuid string) error {
	return fmt.Errorf("it is not the human player's turn, uuid: %s", gameUuid)
}

func ErrNotComputerTurn(gameUuid string) error {
	return fmt.Errorf("it is not the computer player's turn, uuid: %s", gameUuid)
}

func ErrFleetIncomplete(owner string) error {
	return fmt.Errorf("fleet of %s is not completely placed", owner)
}

func ErrSessionNotFound(sessionId string) error {
	return fmt.Errorf("session not found, id: %s", sessionId)
}

func ErrSessionIsNil(sessionId string) error {
	return fmt.Errorf("session is nil, id: %s", sessionId)
}

func ErrSessionHasNoGame(sessionId string) error {
	return fmt.Errorf("session has no game, id: %s", sessionId)
}

func ErrSessionHasGame(sessionId string) error {
	return fmt.Errorf("session already has a game, id: %s", sessionId)
}

func ErrXorYOutOfGridBound(x, y int) error {
	return fmt.Errorf("%w\tx: %d\ty: %d", ErrOutOfGridBound, x, y)
}

func ErrAttackPositionAlreadyFilled(x, y int) error {
	return fmt.Errorf("%w\tx: %d\ty: %d", ErrPositionAlreadyAttacked, x, y)
}

func ErrShipPositionTaken(x, y, length int) error {
	return fmt.Errorf("ship of length %d cannot be placed here\tx: %d\ty: %d", length, x, y)
}

func ErrInvalidShipLength(length int) error {
	return fmt.Errorf("invalid ship length: %d", length)
}

func ErrNoShipsLeftOfLength(length int) error {
	return fmt.Errorf("no ships of length %d left to place", length)
}

func ErrFleetAlreadyPlaced() error {
	return errors.New("grid already holds ships; placement needs an empty grid")
}

func ErrGridSizeMismatch(gridW, gridH, ruleW, ruleH int) error {
	return fmt.Errorf("grid size %dx%d does not match ruleset size %dx%d", gridW, gridH, ruleW, ruleH)
}

func ErrRulesetUnsatisfiable(name string, reason string) error {
	return fmt.Errorf("%w: %s (%s)", ErrUnsatisfiableRuleset, name, reason)
}

func ErrRulesetFrozen(name string) error {
	return fmt.Errorf("%w: %s", ErrRulesetImmutable, name)
}

func ErrInvalidRuleset(name, reason string) error {
	return fmt.Errorf("invalid ruleset %s: %s", name, reason)
}

func ErrRulesetNotExists(name string) error {
	return fmt.Errorf("ruleset does not exist: %s", name)
}

func ErrDuplicateRuleset(name string) error {
	return fmt.Errorf("ruleset already registered: %s", name)
}

func ErrInvalidGameDifficulty() error {
	return errors.New("invalid game difficulty; must be easy(0) or hard(1)")
}

func ErrInvalidSnapshot(reason string) error {
	return fmt.Errorf("invalid grid snapshot: %s", reason)
}
