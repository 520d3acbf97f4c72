package connection

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dolthub/swiss"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

type SessionManager interface {
	GenerateNewSession(conn *websocket.Conn) *Session
	CleanupPeriodically()

	FindSession(sessionId string) (*Session, error)
	TerminateSession(sessionId string)
	ReconnectSession(sessionId string, conn *websocket.Conn) error
	Communicate(receiverSessionId string, msg interface{}, msgType uint8) error
	HandleAbnormalClosureSession(session *Session) error
	WriteToSessionConn(session *Session, msg interface{}, msgType uint8) error
	ReadFromSessionConn(session *Session) (int, []byte, error)
	SessionCount() int
}

// A session whose game is still being played is only dropped once it has
// been idle for this many cleanup intervals.
const inGameIdleFactor = 3

type BattleshipSessionManager struct {
	cleanupInterval time.Duration
	gracePeriod     time.Duration
	sessions        *swiss.Map[string, *Session]
	mu              sync.RWMutex
}

type SessionManagerOption func(*BattleshipSessionManager)

// WithGracePeriod sets how long a client that dropped abnormally may take
// to reconnect. Non-positive durations keep the default.
func WithGracePeriod(d time.Duration) SessionManagerOption {
	return func(bsm *BattleshipSessionManager) {
		if d > 0 {
			bsm.gracePeriod = d
		}
	}
}

func NewBattleshipSessionManager(opts ...SessionManagerOption) *BattleshipSessionManager {
	bsm := &BattleshipSessionManager{
		sessions:        swiss.NewMap[string, *Session](16),
		cleanupInterval: time.Minute * 20,
		gracePeriod:     time.Minute * 2,
	}
	for _, opt := range opts {
		opt(bsm)
	}
	return bsm
}

var _ SessionManager = (*BattleshipSessionManager)(nil)

func (bsm *BattleshipSessionManager) GenerateNewSession(conn *websocket.Conn) *Session {
	sessionId := base64.RawURLEncoding.EncodeToString([]byte(uuid.New().String()))
	session := NewSession(sessionId, conn)

	bsm.mu.Lock()
	bsm.sessions.Put(sessionId, session)
	bsm.mu.Unlock()

	return session
}

func (bsm *BattleshipSessionManager) FindSession(sessionId string) (*Session, error) {
	bsm.mu.RLock()
	defer bsm.mu.RUnlock()

	session, prs := bsm.sessions.Get(sessionId)
	if !prs {
		return nil, cerr.ErrSessionNotFound(sessionId)
	}

	if session == nil {
		return nil, cerr.ErrSessionIsNil(sessionId)
	}

	return session, nil
}

func (bsm *BattleshipSessionManager) TerminateSession(sessionId string) {
	bsm.mu.Lock()
	bsm.sessions.Delete(sessionId)
	bsm.mu.Unlock()
}

func (bsm *BattleshipSessionManager) SessionCount() int {
	bsm.mu.RLock()
	defer bsm.mu.RUnlock()
	return bsm.sessions.Count()
}

// A client that dropped abnormally comes back with its session id and
// takes over the session it left. If the server has not noticed the drop
// yet, the old connection is closed and the session loop moves over.
func (bsm *BattleshipSessionManager) ReconnectSession(sessionId string, conn *websocket.Conn) error {
	session, err := bsm.FindSession(sessionId)
	if err != nil {
		return err
	}
	session.reconnectionAfterAbnormalClosure(conn)
	return nil
}

// Communicate writes to a session looked up by id. Goroutines that outlive
// the session loop use it, so a terminated session is not an error worth
// retrying.
func (bsm *BattleshipSessionManager) Communicate(receiverSessionId string, msg interface{}, msgType uint8) error {
	receiverSession, err := bsm.FindSession(receiverSessionId)
	if err != nil {
		return err
	}
	return bsm.WriteToSessionConn(receiverSession, msg, msgType)
}

// To ensure that there is no dangling connections,
// server session manager marks the connections idle for
// more than 20 mins as stale, deletes them and closes
// their connection so the session loop ends too.
func (bsm *BattleshipSessionManager) CleanupPeriodically() {
	for {
		time.Sleep(bsm.cleanupInterval)
		bsm.cleanupStale()
	}
}

func (bsm *BattleshipSessionManager) isStale(session *Session) bool {
	idle := session.idleFor()
	if game := session.Game(); game != nil && !game.IsFinished() {
		return idle > bsm.cleanupInterval*inGameIdleFactor
	}
	return idle > bsm.cleanupInterval
}

func (bsm *BattleshipSessionManager) cleanupStale() {
	bsm.mu.Lock()
	stale := make([]*Session, 0, 10)
	bsm.sessions.Iter(func(id string, session *Session) (stop bool) {
		if bsm.isStale(session) {
			stale = append(stale, session)
		}
		return false
	})
	for _, session := range stale {
		bsm.sessions.Delete(session.id)
	}
	bsm.mu.Unlock()

	for _, session := range stale {
		if conn := session.Conn(); conn != nil {
			conn.Close()
		}
		log.Info("removed stale session", "session", session.id)
	}
}

// A session without a game has nothing worth waiting for. Otherwise the
// client gets a grace period to reconnect with its session id.
func (bsm *BattleshipSessionManager) HandleAbnormalClosureSession(s *Session) error {
	return bsm.awaitReconnection(s, s.Conn())
}

func (bsm *BattleshipSessionManager) awaitReconnection(s *Session, dropped *websocket.Conn) error {
	if s.Game() == nil {
		return NewConnErr(ConnLoopBreak).AddDesc("session has no game")
	}

	reconnected := s.awaitReconnection(dropped)
	timer := time.NewTimer(bsm.gracePeriod)
	defer timer.Stop()

	select {
	case <-timer.C:
		log.Info("grace period is over; session terminated", "session", s.id)
		return NewConnErr(ConnLoopBreak).AddDesc("grace period is over for session: " + s.id)

	case <-reconnected:
		log.Info("player reconnected", "session", s.id)
		return nil
	}
}

// WriteToSessionConn does not lose a message to a client that drops and
// comes back within the grace period: the write is repeated on the new
// connection.
func (bsm *BattleshipSessionManager) WriteToSessionConn(session *Session, msg interface{}, msgType uint8) error {
	conn := session.Conn()
	err := session.writeToConnWithRetry(msg, msgType)
	if err == nil {
		return nil
	}

	var connErr ConnErr
	if !errors.As(err, &connErr) {
		return err
	}

	switch {
	case connErr.Code() == ConnInvalidMsgType:
		return connErr

	// reconnected while this write was failing
	case session.Conn() != conn:
		return session.writeToConnWithRetry(msg, msgType)

	case connErr.Code() == ConnLoopAbnormalClosureRetry, session.isAwaitingReconnect():
		if err := bsm.awaitReconnection(session, conn); err != nil {
			return connErr
		}
		return session.writeToConnWithRetry(msg, msgType)
	}
	return connErr
}

func (bsm *BattleshipSessionManager) ReadFromSessionConn(session *Session) (int, []byte, error) {
	var retries uint8

	for {
		conn := session.Conn()
		messageType, payload, err := conn.ReadMessage()
		if err == nil {
			session.touch()
			return messageType, payload, nil
		}

		// the client came back on a new connection before this read failed
		if session.Conn() != conn {
			retries = 0
			continue
		}

		switch session.handleReadFromConnErr(err, retries) {
		case ConnLoopContinue:
			retries++
			continue

		case ConnLoopAbnormalClosureRetry:
			if err := bsm.awaitReconnection(session, conn); err != nil {
				return -1, []byte{}, err
			}
			retries = 0

		default:
			return -1, []byte{}, err
		}
	}
}

var ErrSignalAbsent = errors.New("incoming req payload must contain 'code' field")

// FetchCodeFromMsg reads only the code of an incoming message. A message
// without one is reported with ErrSignalAbsent.
func FetchCodeFromMsg(payload []byte) (uint8, error) {
	var signal struct {
		Code *uint8 `json:"code"`
	}
	const randomInvalidCode uint8 = 255

	if err := json.Unmarshal(payload, &signal); err != nil {
		return randomInvalidCode, err
	}
	if signal.Code == nil {
		return randomInvalidCode, ErrSignalAbsent
	}

	return *signal.Code, nil
}
