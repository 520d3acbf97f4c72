package api

import (
	"encoding/json"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/saeidalz13/battleship-solo/internal/commitment"
	cerr "github.com/saeidalz13/battleship-solo/internal/error"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
	mc "github.com/saeidalz13/battleship-solo/models/connection"
)

type RequestHandler interface {
	HandleCreateGame(gm mb.GameManager, current *mb.Game, sessionId string) (*mb.Game, mc.Message[mc.RespCreateGame])
	HandlePlaceShip(game *mb.Game, sessionId string) mc.Message[mc.RespPlaceShip]
	HandleAutoPlaceFleet(game *mb.Game, sessionId string) mc.Message[mc.RespAutoPlaceFleet]
	HandleStartGame(game *mb.Game, sessionId string) (commitment.Commitment, mc.Message[mc.RespStartGame])
	HandleAttack(game *mb.Game, sessionId string) (mb.HumanAttackOutcome, mc.Message[mc.RespAttack])
	HandleFetchGrids(game *mb.Game, sessionId string) mc.Message[mc.RespFetchGrids]
}

// Every incoming valid request will have this structure
// The request then is handled in line with RequestHandler interface
type Request struct {
	payload []byte
}

var _ RequestHandler = (*Request)(nil)

func NewRequest(payload ...[]byte) Request {
	if len(payload) == 0 {
		return Request{}
	}
	return Request{payload: payload[0]}
}

// A session plays one game at a time. A finished game may be replaced by
// a new one, an unfinished one may not.
func (r Request) HandleCreateGame(gm mb.GameManager, current *mb.Game, sessionId string) (*mb.Game, mc.Message[mc.RespCreateGame]) {
	resp := mc.NewMessage[mc.RespCreateGame](mc.CodeCreateGame)

	if current != nil && !current.IsFinished() {
		resp.AddError(cerr.ErrSessionHasGame(sessionId).Error(), "finish the current game first")
		return nil, resp
	}

	var req mc.Message[mc.ReqCreateGame]
	if err := json.Unmarshal(r.payload, &req); err != nil {
		resp.AddError(err.Error(), "invalid create game payload")
		return nil, resp
	}
	if req.Payload.Ruleset == "" {
		req.Payload.Ruleset = mb.RulesetNameOfficialSecondVersion
	}

	if _, err := gm.Rulesets().Lookup(req.Payload.Ruleset); err != nil {
		resp.AddError(err.Error(), "available rulesets: "+strings.Join(gm.Rulesets().Names(), ", "))
		return nil, resp
	}

	game, err := gm.CreateGame(req.Payload.Ruleset, req.Payload.Difficulty)
	if err != nil {
		resp.AddError(err.Error(), "failed to create game")
		return nil, resp
	}

	ruleset := game.Ruleset()
	resp.AddPayload(mc.RespCreateGame{
		GameUuid:   game.Uuid(),
		Ruleset:    ruleset.Name(),
		Width:      ruleset.Width(),
		Height:     ruleset.Height(),
		ShipCounts: ruleset.ShipCounts(),
		Spacing:    ruleset.SpacingConstraint(),
	})
	return game, resp
}

func (r Request) HandlePlaceShip(game *mb.Game, sessionId string) mc.Message[mc.RespPlaceShip] {
	resp := mc.NewMessage[mc.RespPlaceShip](mc.CodePlaceShip)
	if game == nil {
		resp.AddError(cerr.ErrSessionHasNoGame(sessionId).Error(), "")
		return resp
	}

	var req mc.Message[mc.ReqPlaceShip]
	if err := json.Unmarshal(r.payload, &req); err != nil {
		resp.AddError(err.Error(), "invalid place ship payload")
		return resp
	}

	p := req.Payload
	shipsLeft, err := game.PlaceHumanShip(p.X, p.Y, p.Length, p.Vertical)
	if err != nil {
		resp.AddError(err.Error(), "failed to place ship")
		return resp
	}

	resp.AddPayload(mc.RespPlaceShip{ShipsLeft: shipsLeft})
	return resp
}

func (r Request) HandleAutoPlaceFleet(game *mb.Game, sessionId string) mc.Message[mc.RespAutoPlaceFleet] {
	resp := mc.NewMessage[mc.RespAutoPlaceFleet](mc.CodeAutoPlaceFleet)
	if game == nil {
		resp.AddError(cerr.ErrSessionHasNoGame(sessionId).Error(), "")
		return resp
	}

	grid, err := game.AutoPlaceHumanFleet()
	if err != nil {
		resp.AddError(err.Error(), "failed to place fleet")
		return resp
	}

	resp.AddPayload(mc.RespAutoPlaceFleet{Grid: grid})
	return resp
}

// The computer fleet is committed to once it is final, so the layout
// revealed at the end can be checked against what was hidden during play.
func (r Request) HandleStartGame(game *mb.Game, sessionId string) (commitment.Commitment, mc.Message[mc.RespStartGame]) {
	resp := mc.NewMessage[mc.RespStartGame](mc.CodeStartGame)
	if game == nil {
		resp.AddError(cerr.ErrSessionHasNoGame(sessionId).Error(), "")
		return commitment.Commitment{}, resp
	}

	if err := game.Start(); err != nil {
		resp.AddError(err.Error(), "failed to start game")
		return commitment.Commitment{}, resp
	}

	cells, err := game.ComputerFleetCells()
	if err != nil {
		resp.AddError(err.Error(), "computer fleet is not available")
		return commitment.Commitment{}, resp
	}

	c, err := commitment.Commit(cells)
	if err != nil {
		resp.AddError(err.Error(), "failed to commit to computer fleet")
		return commitment.Commitment{}, resp
	}

	log.Info("game started", "session", sessionId, "game", game.Uuid(), "difficulty", game.Difficulty())
	resp.AddPayload(mc.RespStartGame{ComputerFleetCommitment: c.RootHex})
	return c, resp
}

func (r Request) HandleAttack(game *mb.Game, sessionId string) (mb.HumanAttackOutcome, mc.Message[mc.RespAttack]) {
	resp := mc.NewMessage[mc.RespAttack](mc.CodeAttack)
	if game == nil {
		resp.AddError(cerr.ErrSessionHasNoGame(sessionId).Error(), "")
		return mb.HumanAttackOutcome{}, resp
	}

	var req mc.Message[mc.ReqAttack]
	if err := json.Unmarshal(r.payload, &req); err != nil {
		resp.AddError(err.Error(), "invalid attack payload")
		return mb.HumanAttackOutcome{}, resp
	}

	outcome, err := game.HumanAttack(req.Payload.X, req.Payload.Y)
	if err != nil {
		resp.AddError(err.Error(), "attack failed")
		return mb.HumanAttackOutcome{}, resp
	}

	humanPoints, computerPoints := game.Points()
	respAttack := mc.RespAttack{
		X:              outcome.X,
		Y:              outcome.Y,
		Result:         outcome.Result,
		IsTurn:         outcome.IsTurn,
		HumanPoints:    humanPoints,
		ComputerPoints: computerPoints,
	}
	if outcome.SunkShip != nil {
		respAttack.SunkShipCoords = outcome.SunkShip.Footprint()
	}

	resp.AddPayload(respAttack)
	return outcome, resp
}

func (r Request) HandleFetchGrids(game *mb.Game, sessionId string) mc.Message[mc.RespFetchGrids] {
	resp := mc.NewMessage[mc.RespFetchGrids](mc.CodeFetchGrids)
	if game == nil {
		resp.AddError(cerr.ErrSessionHasNoGame(sessionId).Error(), "")
		return resp
	}

	resp.AddPayload(mc.RespFetchGrids{
		OwnGrid:      game.HumanGrid(),
		OpponentGrid: game.ComputerGrid(),
	})
	return resp
}

func newEndGameMessage(game *mb.Game, c commitment.Commitment) mc.Message[mc.RespEndGame] {
	humanPoints, computerPoints := game.Points()

	msg := mc.NewMessage[mc.RespEndGame](mc.CodeEndGame)
	msg.AddPayload(mc.RespEndGame{
		HumanWon:       game.HumanWon(),
		HumanPoints:    humanPoints,
		ComputerPoints: computerPoints,
		Rounds:         game.Round(),
		ComputerGrid:   game.ComputerGrid(),
		CommitmentSalt: c.SaltHex,
	})
	return msg
}

func newComputerTurnMessage(game *mb.Game, turn mb.ComputerTurn) mc.Message[mc.RespComputerTurn] {
	attacks := make([]mc.RespComputerAttack, len(turn.Attacks))
	for i, attack := range turn.Attacks {
		attacks[i] = mc.RespComputerAttack{X: attack.X, Y: attack.Y, Result: attack.Result}
	}

	humanPoints, computerPoints := game.Points()
	msg := mc.NewMessage[mc.RespComputerTurn](mc.CodeComputerTurn)
	msg.AddPayload(mc.RespComputerTurn{
		Attacks:        attacks,
		HumanPoints:    humanPoints,
		ComputerPoints: computerPoints,
		IsTurn:         game.IsHumanTurn(),
	})
	return msg
}
