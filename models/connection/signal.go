package connection

const (
	CodeSessionID uint8 = iota
	CodeCreateGame
	CodePlaceShip
	CodeAutoPlaceFleet

	// The human fleet is complete and the game may start
	CodeStartGame

	CodeAttack

	// Pushed by the server once the computer has finished its turn
	CodeComputerTurn
	CodeEndGame
	CodeFetchGrids
	CodeInvalidSignal

	// if the req msg does not contain "code" field
	CodeSignalAbsent
)

type Signal struct {
	Code uint8 `json:"code"`
}

func NewSignal(code uint8) Signal {
	return Signal{Code: code}
}
