package battleship

import (
	"sync"

	"github.com/dolthub/swiss"
	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

type GameManager interface {
	CreateGame(rulesetName string, difficulty Difficulty) (*Game, error)
	FetchGame(gameUuid string) (*Game, error)
	TerminateGame(gameUuid string)
	GameCount() int
	Rulesets() *RulesetRegistry
}

type BattleshipGameManager struct {
	games    *swiss.Map[string, *Game]
	rulesets *RulesetRegistry
	mu       sync.RWMutex
}

var _ GameManager = (*BattleshipGameManager)(nil)

// A nil registry means only the official rulesets are available.
func NewBattleshipGameManager(rulesets *RulesetRegistry) *BattleshipGameManager {
	if rulesets == nil {
		rulesets = NewRulesetRegistry()
	}

	return &BattleshipGameManager{
		games:    swiss.NewMap[string, *Game](16),
		rulesets: rulesets,
	}
}

func (bgm *BattleshipGameManager) Rulesets() *RulesetRegistry {
	return bgm.rulesets
}

// CreateGame registers a new game and starts placing the computer fleet
// in the background.
func (bgm *BattleshipGameManager) CreateGame(rulesetName string, difficulty Difficulty) (*Game, error) {
	if !IsDifficultyValid(difficulty) {
		return nil, cerr.ErrInvalidGameDifficulty()
	}

	ruleset, err := bgm.rulesets.Lookup(rulesetName)
	if err != nil {
		return nil, err
	}

	agent, err := NewAgent(difficulty, nil)
	if err != nil {
		return nil, err
	}

	game, err := NewGame(ruleset, agent, nil)
	if err != nil {
		return nil, err
	}

	bgm.mu.Lock()
	for bgm.games.Has(game.uuid) {
		game.uuid = newGameUuid()
	}
	bgm.games.Put(game.uuid, game)
	bgm.mu.Unlock()

	go game.SetupComputerFleet()

	return game, nil
}

func (bgm *BattleshipGameManager) FetchGame(gameUuid string) (*Game, error) {
	bgm.mu.RLock()
	game, prs := bgm.games.Get(gameUuid)
	bgm.mu.RUnlock()
	if !prs {
		return nil, cerr.ErrGameNotExists(gameUuid)
	}
	if game == nil {
		return nil, cerr.ErrGameIsNil(gameUuid)
	}

	return game, nil
}

func (bgm *BattleshipGameManager) TerminateGame(gameUuid string) {
	bgm.mu.Lock()
	bgm.games.Delete(gameUuid)
	bgm.mu.Unlock()
}

func (bgm *BattleshipGameManager) GameCount() int {
	bgm.mu.RLock()
	defer bgm.mu.RUnlock()
	return bgm.games.Count()
}
