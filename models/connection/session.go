package connection

import (
	"errors"
	"net"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
)

const (
	maxWriteWsRetries uint8 = 2
	backOffFactor     uint8 = 2
)

const (
	MessageTypeBytes uint8 = iota
	MessageTypeJSON
)

type ConnectionHandler interface {
	reconnectionAfterAbnormalClosure(conn *websocket.Conn)
	handleReadFromConnErr(err error, retries uint8) uint8
	writeToConnWithRetry(msg interface{}, msgType uint8) error
	onConnErr(err error) uint8
}

// Session is one websocket client. Writes come from the session loop and
// from computer turn goroutines, so each frame is written under writeMu.
// mu only guards the fields.
type Session struct {
	id                     string
	conn                   *websocket.Conn
	game                   *mb.Game
	reconnectionSignalChan chan bool
	awaitingReconnect      bool
	lastActivity           time.Time
	mu                     sync.Mutex
	writeMu                sync.Mutex
}

func NewSession(id string, conn *websocket.Conn) *Session {
	return &Session{
		id:                     id,
		conn:                   conn,
		reconnectionSignalChan: make(chan bool),
		lastActivity:           time.Now(),
	}
}

func (s *Session) Id() string {
	return s.id
}

func (s *Session) Conn() *websocket.Conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn
}

func (s *Session) Game() *mb.Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game
}

func (s *Session) SetGame(game *mb.Game) {
	s.mu.Lock()
	s.game = game
	s.mu.Unlock()
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastActivity = time.Now()
	s.mu.Unlock()
}

func (s *Session) idleFor() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.lastActivity)
}

// awaitReconnection closes the dropped connection, so writers fail fast
// instead of writing into a dead socket, and returns the channel that is
// closed once the client is back. If the client already replaced dropped,
// the returned channel is closed.
func (s *Session) awaitReconnection(dropped *websocket.Conn) chan bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != dropped {
		back := make(chan bool)
		close(back)
		return back
	}

	if !s.awaitingReconnect {
		s.awaitingReconnect = true
		if s.conn != nil {
			s.conn.Close()
		}
	}
	return s.reconnectionSignalChan
}

func (s *Session) isAwaitingReconnect() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.awaitingReconnect
}

func (s *Session) onConnErr(err error) uint8 {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		log.Warn("timeout error", "session", s.id, "err", err)
		return ConnLoopRetry
	}

	if websocket.IsCloseError(err, websocket.CloseTryAgainLater) {
		log.Warn("high server load/traffic error", "session", s.id, "err", err)
		return ConnLoopRetry
	}

	// Happens if a mobile client goes to background
	if websocket.IsCloseError(err, websocket.CloseAbnormalClosure) {
		log.Warn("abnormal closure error", "session", s.id, "err", err)
		return ConnLoopAbnormalClosureRetry
	}

	if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
		log.Info("close error", "session", s.id, "err", err)
		return ConnLoopBreak
	}

	if websocket.IsCloseError(err, websocket.CloseProtocolError, websocket.CloseInternalServerErr, websocket.CloseTLSHandshake, websocket.CloseMandatoryExtension) {
		log.Error("critical error", "session", s.id, "err", err)
		return ConnLoopBreak
	}

	// Clients that send binary or badly encoded frames are most likely not
	// ours; no point in keeping them around.
	if websocket.IsCloseError(err, websocket.CloseInvalidFramePayloadData, websocket.CloseUnsupportedData, websocket.CloseMessageTooBig, websocket.ClosePolicyViolation, websocket.CloseServiceRestart, websocket.CloseNoStatusReceived) {
		log.Warn("non-critical error", "session", s.id, "err", err)
		return ConnLoopBreak
	}

	if errors.Is(err, net.ErrClosed) {
		log.Info("connection already closed", "session", s.id)
		return ConnLoopBreak
	}

	log.Error("unexpected error", "session", s.id, "err", err)
	return ConnLoopBreak
}

// Writes to the connection of that session. It also
// handles the abnormal or other types of errors of
// writing to a websocket connection. No lock is held
// while backing off.
func (s *Session) writeToConnWithRetry(msg interface{}, msgType uint8) error {
	var respBytes []byte
	switch msgType {
	case MessageTypeJSON:
	case MessageTypeBytes:
		b, ok := msg.([]byte)
		if !ok {
			return NewConnErr(ConnInvalidMsgType).AddDesc("msg type expected: []byte got invalid")
		}
		respBytes = b
	default:
		return NewConnErr(ConnInvalidMsgType).AddDesc("invalid message type to write with retry")
	}

	var retries uint8

writeJsonLoop:
	for {
		conn := s.Conn()

		s.writeMu.Lock()
		var err error
		if msgType == MessageTypeJSON {
			err = conn.WriteJSON(msg)
		} else {
			err = conn.WriteMessage(websocket.TextMessage, respBytes)
		}
		s.writeMu.Unlock()

		if err == nil {
			s.touch()
			return nil
		}

		switch s.onConnErr(err) {
		case ConnLoopRetry:
			if retries < maxWriteWsRetries {
				retries++
				log.Warn("writing json to ws failed; retrying", "remote", conn.RemoteAddr().String(), "retry", retries)
				time.Sleep(time.Duration(retries*backOffFactor) * time.Second)
				continue writeJsonLoop
			}
			log.Error("max retries reached for writing to ws", "remote", conn.RemoteAddr().String(), "err", err)
			return NewConnErr(ConnLoopBreak).WithCause(err)

		case ConnLoopAbnormalClosureRetry:
			return NewConnErr(ConnLoopAbnormalClosureRetry).WithCause(err)

		default:
			return NewConnErr(ConnLoopBreak).AddDesc("breaking writeJsonLoop").WithCause(err)
		}
	}
}

// Handles the errors that occur when reading from the ws connection.
// ConnLoopContinue means the read is worth another try.
func (s *Session) handleReadFromConnErr(err error, retries uint8) uint8 {
	switch s.onConnErr(err) {
	case ConnLoopAbnormalClosureRetry:
		return ConnLoopAbnormalClosureRetry

	case ConnLoopRetry:
		if retries < maxWriteWsRetries {
			log.Warn("failed to read from ws conn; retrying", "session", s.id, "retry", retries)
			time.Sleep(time.Duration(retries*backOffFactor) * time.Second)
			return ConnLoopContinue
		}
		return ConnLoopBreak

	default:
		log.Info("break ws conn loop", "session", s.id, "err", err)
		return ConnLoopBreak
	}
}

func (s *Session) reconnectionAfterAbnormalClosure(conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Signal for reconnection
	close(s.reconnectionSignalChan)

	// a connection that was not seen dropping yet is superseded anyway
	if s.conn != nil && s.conn != conn && !s.awaitingReconnect {
		s.conn.Close()
	}
	s.conn = conn
	s.reconnectionSignalChan = make(chan bool)
	s.awaitingReconnect = false
	s.lastActivity = time.Now()
}

var _ ConnectionHandler = (*Session)(nil)
