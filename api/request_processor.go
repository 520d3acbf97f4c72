package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/saeidalz13/battleship-solo/db/sqlc"
	"github.com/saeidalz13/battleship-solo/internal/commitment"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
	mc "github.com/saeidalz13/battleship-solo/models/connection"
)

const (
	URLQuerySessionIDKeyword string = "sessionID"
)

type RequestProcessor struct {
	sessionManager mc.SessionManager
	gameManager    mb.GameManager
	analytics      *sqlc.AnalyticsManager
	upgrader       websocket.Upgrader
}

type Option func(*RequestProcessor) error

// Without a db manager the processor runs with analytics disabled.
func WithDbManager(dm sqlc.DbManager) Option {
	return func(rp *RequestProcessor) error {
		if dm.Analytics == nil {
			return errors.New("db manager has no analytics manager")
		}
		rp.analytics = dm.Analytics
		return nil
	}
}

// Only the listed origins may open a websocket. By default every origin
// is accepted.
func WithAllowedOrigins(origins ...string) Option {
	return func(rp *RequestProcessor) error {
		if len(origins) == 0 {
			return errors.New("at least one allowed origin is required")
		}

		allowed := make(map[string]bool, len(origins))
		for _, origin := range origins {
			allowed[origin] = true
		}
		rp.upgrader.CheckOrigin = func(r *http.Request) bool {
			return allowed[r.Header.Get("Origin")]
		}
		return nil
	}
}

func NewRequestProcessor(
	sessionManager mc.SessionManager,
	gameManager mb.GameManager,
	opts ...Option,
) (*RequestProcessor, error) {
	rp := &RequestProcessor{
		sessionManager: sessionManager,
		gameManager:    gameManager,
		upgrader: websocket.Upgrader{
			// good average time since this is not a high-latency operation such as video streaming
			HandshakeTimeout: time.Second * 5,

			// a full grid snapshot is the largest message and fits comfortably
			ReadBufferSize:  2048,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}

	for _, opt := range opts {
		if err := opt(rp); err != nil {
			return nil, err
		}
	}
	return rp, nil
}

func (rp *RequestProcessor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// use Upgrade method to make a websocket connection
	conn, err := rp.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("could not open websocket connection", "remote", r.RemoteAddr, "err", err)
		return
	}

	sessionIdQuery := r.URL.Query().Get(URLQuerySessionIDKeyword)
	switch sessionIdQuery {
	case "":
		log.Info("a new connection established", "remote", conn.RemoteAddr().String())
		rp.processSessionRequests(rp.sessionManager.GenerateNewSession(conn))

	default:
		if err := rp.sessionManager.ReconnectSession(sessionIdQuery, conn); err != nil {
			log.Warn("reconnection refused", "session", sessionIdQuery, "err", err)
			_ = conn.WriteJSON(mc.NewErrorMessage(mc.CodeSessionID, err.Error(), "session does not exist anymore"))
			conn.Close()
		}
	}
}

func (rp *RequestProcessor) processSessionRequests(session *mc.Session) {
	var (
		sessionGame     *mb.Game
		fleetCommitment commitment.Commitment
		sessionId       = session.Id()
	)

	defer func() {
		if sessionGame != nil {
			rp.gameManager.TerminateGame(sessionGame.Uuid())
		}
		if conn := session.Conn(); conn != nil {
			conn.Close()
		}
		rp.sessionManager.TerminateSession(sessionId)
		log.Info("session terminated", "session", sessionId)
	}()

	resp := mc.NewMessage[mc.RespSessionId](mc.CodeSessionID)
	resp.AddPayload(mc.RespSessionId{SessionID: sessionId})
	if err := rp.sessionManager.WriteToSessionConn(session, resp, mc.MessageTypeJSON); err != nil {
		return
	}

sessionLoop:
	for {
		// A WebSocket frame can be one of 6 types: text=1, binary=2, ping=9, pong=10, close=8 and continuation=0
		// https://www.rfc-editor.org/rfc/rfc6455.html#section-11.8
		_, payload, err := rp.sessionManager.ReadFromSessionConn(session)
		if err != nil {
			// This error happens after retries. If it's not nil,
			// then something was wrong with the session connection
			// and couldn't be resolved
			break sessionLoop
		}

		code, err := mc.FetchCodeFromMsg(payload)
		if err != nil {
			msg := mc.NewErrorMessage(mc.CodeSignalAbsent, err.Error(), "incoming req payload must contain 'code' field")
			if err := rp.sessionManager.WriteToSessionConn(session, msg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}
			continue sessionLoop
		}

		switch code {

		// A new game replaces a finished one. Its computer fleet is being
		// placed in the background from here on.
		case mc.CodeCreateGame:
			game, respMsg := NewRequest(payload).HandleCreateGame(rp.gameManager, sessionGame, sessionId)
			if !respMsg.HasError() {
				if sessionGame != nil {
					rp.gameManager.TerminateGame(sessionGame.Uuid())
				}
				sessionGame = game
				fleetCommitment = commitment.Commitment{}
				session.SetGame(game)

				log.Info("game created", "session", sessionId, "game", game.Uuid(), "ruleset", game.Ruleset().Name())
				rp.recordAnalytics("games created", func(ctx context.Context, a *sqlc.AnalyticsManager) error {
					return a.IncrementGamesCreatedCount(ctx)
				})
			}

			if err := rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}

		case mc.CodePlaceShip:
			respMsg := NewRequest(payload).HandlePlaceShip(sessionGame, sessionId)
			if err := rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}

		case mc.CodeAutoPlaceFleet:
			respMsg := NewRequest(payload).HandleAutoPlaceFleet(sessionGame, sessionId)
			if err := rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}

		case mc.CodeStartGame:
			c, respMsg := NewRequest(payload).HandleStartGame(sessionGame, sessionId)
			if !respMsg.HasError() {
				fleetCommitment = c
			}
			if err := rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}

		// A hit keeps the turn. A miss hands it to the computer, whose turn
		// runs on its own goroutine and is pushed once it is over.
		case mc.CodeAttack:
			outcome, respMsg := NewRequest(payload).HandleAttack(sessionGame, sessionId)
			if err := rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}

			// This means attack operation did not complete
			if respMsg.HasError() {
				continue sessionLoop
			}

			switch {
			case outcome.Finished:
				rp.onGameFinished(sessionId, sessionGame)
				if err := rp.sessionManager.WriteToSessionConn(session, newEndGameMessage(sessionGame, fleetCommitment), mc.MessageTypeJSON); err != nil {
					break sessionLoop
				}

			case !outcome.IsTurn:
				go rp.playComputerTurn(sessionId, sessionGame, fleetCommitment)
			}

		case mc.CodeFetchGrids:
			respMsg := NewRequest(payload).HandleFetchGrids(sessionGame, sessionId)
			if err := rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}

		default:
			respInvalidSignal := mc.NewErrorMessage(mc.CodeInvalidSignal, "", "invalid code in the incoming payload")
			if err := rp.sessionManager.WriteToSessionConn(session, respInvalidSignal, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}
		}
	}
}

// playComputerTurn may finish after its session is gone. The result is
// dropped then. A failed turn still reports the shots it fired, with the
// error attached and the turn back on the human side.
func (rp *RequestProcessor) playComputerTurn(sessionId string, game *mb.Game, c commitment.Commitment) {
	turn, err := game.PlayComputerTurn()
	if err != nil {
		log.Error("computer turn failed", "session", sessionId, "game", game.Uuid(), "err", err)

		msg := newComputerTurnMessage(game, turn)
		msg.AddError(err.Error(), "computer could not finish its turn")
		if err := rp.sessionManager.Communicate(sessionId, msg, mc.MessageTypeJSON); err != nil {
			log.Warn("could not deliver computer turn", "session", sessionId, "err", err)
		}
		return
	}

	rp.recordAnalytics("computer shots fired", func(ctx context.Context, a *sqlc.AnalyticsManager) error {
		return a.AddComputerShotsFired(ctx, len(turn.Attacks))
	})

	if err := rp.sessionManager.Communicate(sessionId, newComputerTurnMessage(game, turn), mc.MessageTypeJSON); err != nil {
		log.Warn("could not deliver computer turn", "session", sessionId, "err", err)
		return
	}

	if turn.Finished {
		rp.onGameFinished(sessionId, game)
		if err := rp.sessionManager.Communicate(sessionId, newEndGameMessage(game, c), mc.MessageTypeJSON); err != nil {
			log.Warn("could not deliver end of game", "session", sessionId, "err", err)
		}
	}
}

func (rp *RequestProcessor) onGameFinished(sessionId string, game *mb.Game) {
	humanPoints, computerPoints := game.Points()
	log.Info("game finished",
		"session", sessionId,
		"game", game.Uuid(),
		"human_won", game.HumanWon(),
		"rounds", game.Round(),
		"human_points", humanPoints,
		"computer_points", computerPoints,
	)

	humanWon := game.HumanWon()
	rp.recordAnalytics("game result", func(ctx context.Context, a *sqlc.AnalyticsManager) error {
		return a.RecordGameResult(ctx, humanWon)
	})
}

// Analytics never fail a game; errors are only logged.
func (rp *RequestProcessor) recordAnalytics(desc string, record func(ctx context.Context, a *sqlc.AnalyticsManager) error) {
	if rp.analytics == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sqlc.QuerierCtxTimeout)
	defer cancel()

	if err := record(ctx, rp.analytics); err != nil {
		log.Warn("analytics query failed", "query", desc, "err", err)
	}
}
