package connection

import (
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
)

type ReqCreateGame struct {
	Ruleset    string        `json:"ruleset"`
	Difficulty mb.Difficulty `json:"difficulty"`
}

type ReqPlaceShip struct {
	X        int  `json:"x"`
	Y        int  `json:"y"`
	Length   int  `json:"length"`
	Vertical bool `json:"vertical"`
}

type ReqAttack struct {
	X int `json:"x"`
	Y int `json:"y"`
}
