package connection

import (
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
)

type RespSessionId struct {
	SessionID string `json:"session_id"`
}

type RespCreateGame struct {
	GameUuid   string                `json:"game_uuid"`
	Ruleset    string                `json:"ruleset"`
	Width      int                   `json:"width"`
	Height     int                   `json:"height"`
	ShipCounts [mb.MaxShipLength]int `json:"ship_counts"`
	Spacing    bool                  `json:"spacing"`
}

type RespPlaceShip struct {
	ShipsLeft [mb.MaxShipLength]int `json:"ships_left"`
}

type RespAutoPlaceFleet struct {
	Grid mb.GridSnapshot `json:"grid"`
}

type RespStartGame struct {
	ComputerFleetCommitment string `json:"computer_fleet_commitment"`
}

type RespAttack struct {
	X              int              `json:"x"`
	Y              int              `json:"y"`
	Result         mb.AttackResult  `json:"result"`
	IsTurn         bool             `json:"is_turn"`
	HumanPoints    int              `json:"human_points"`
	ComputerPoints int              `json:"computer_points"`
	SunkShipCoords []mb.Coordinates `json:"sunk_ship_coords,omitempty"`
}

type RespComputerAttack struct {
	X      int             `json:"x"`
	Y      int             `json:"y"`
	Result mb.AttackResult `json:"result"`
}

type RespComputerTurn struct {
	Attacks        []RespComputerAttack `json:"attacks"`
	HumanPoints    int                  `json:"human_points"`
	ComputerPoints int                  `json:"computer_points"`
	IsTurn         bool                 `json:"is_turn"`
}

type RespEndGame struct {
	HumanWon       bool            `json:"human_won"`
	HumanPoints    int             `json:"human_points"`
	ComputerPoints int             `json:"computer_points"`
	Rounds         int             `json:"rounds"`
	ComputerGrid   mb.GridSnapshot `json:"computer_grid"`
	CommitmentSalt string          `json:"commitment_salt"`
}

type RespFetchGrids struct {
	OwnGrid      mb.GridSnapshot `json:"own_grid"`
	OpponentGrid mb.GridSnapshot `json:"opponent_grid"`
}

type RespErr struct {
	ErrorDetails string `json:"error_details,omitempty"`
	Message      string `json:"message,omitempty"`
}

func NewRespErr(errorDetails, message string) *RespErr {
	return &RespErr{
		ErrorDetails: errorDetails,
		Message:      message,
	}
}
