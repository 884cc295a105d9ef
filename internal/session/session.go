// Package session implements PlayerSession: one instance per accepted
// WebSocket, bridging the player's connection to its room's RoomAgent.
package session

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/scythe504/wordwave/internal/domain"
	"github.com/scythe504/wordwave/internal/metrics"
	"github.com/scythe504/wordwave/internal/room"
	"github.com/scythe504/wordwave/internal/wire"
)

// readTimeout is the read-side heartbeat timeout from spec §4.5: the peer
// must send "ping" or other traffic at least this often.
const readTimeout = 2500 * time.Millisecond

// inboundFrame is one message pulled off the connection by the reader
// goroutine, handed to the main loop over a channel so it can be
// multiplexed against broadcast events in a single select.
type inboundFrame struct {
	messageType int
	data        []byte
	err         error
}

// Session drives one player's connection for as long as it's attached to
// a room.
type Session struct {
	conn     *websocket.Conn
	room     room.Handle
	nickname string
	corrID   string
}

// New assigns a correlation id (so two connections sharing a nickname
// across a disconnect/rejoin are distinguishable in logs) and constructs a
// Session bound to the given room handle.
func New(conn *websocket.Conn, roomHandle room.Handle, nickname string) *Session {
	return &Session{
		conn:     conn,
		room:     roomHandle,
		nickname: nickname,
		corrID:   uuid.NewString(),
	}
}

// Run executes the full PlayerSession lifecycle (spec §4.5): AddPlayer
// handshake, then the broadcast/inbound select loop, then cleanup. It
// blocks until the session ends.
func (s *Session) Run() {
	metrics.ConnectedPlayers.Inc()
	defer metrics.ConnectedPlayers.Dec()

	result := s.room.AddPlayer(s.nickname)
	if result.Err != nil {
		s.writeError(result.Err)
		s.conn.Close()
		log.Printf("[PlayerSession %s] %s rejected: %v", s.corrID, s.nickname, result.Err)
		return
	}

	log.Printf("[PlayerSession %s] %s joined", s.corrID, s.nickname)

	reads := make(chan inboundFrame)
	go s.pumpReads(reads)

	s.loop(result.Subscription, reads)

	s.room.DisconnectPlayer(s.nickname)
	s.conn.Close()
	log.Printf("[PlayerSession %s] %s disconnected", s.corrID, s.nickname)
}

// pumpReads turns the connection's blocking ReadMessage calls into channel
// sends so the main loop can select over both broadcast events and
// inbound frames. Re-arming the read deadline before every read is what
// implements spec §4.5's 2500ms read-side timeout.
func (s *Session) pumpReads(out chan<- inboundFrame) {
	defer close(out)
	for {
		if err := s.conn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
			out <- inboundFrame{err: err}
			return
		}
		messageType, data, err := s.conn.ReadMessage()
		if err != nil {
			out <- inboundFrame{err: err}
			return
		}
		out <- inboundFrame{messageType: messageType, data: data}
	}
}

func (s *Session) loop(broadcast <-chan room.Event, reads <-chan inboundFrame) {
	for {
		select {
		case event, ok := <-broadcast:
			if !ok {
				log.Printf("[PlayerSession %s] room closed subscription for %s", s.corrID, s.nickname)
				return
			}
			if !s.writeEvent(event) {
				return
			}

		case frame, ok := <-reads:
			if !ok {
				return
			}
			if frame.err != nil {
				s.handleReadError(frame.err)
				return
			}
			if !s.handleInbound(frame) {
				return
			}
		}
	}
}

func (s *Session) handleReadError(err error) {
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		log.Printf("[PlayerSession %s] %s closed the connection: %v", s.corrID, s.nickname, err)
		return
	}
	if errors.Is(err, websocket.ErrReadLimit) {
		log.Printf("[PlayerSession %s] %s exceeded read limit", s.corrID, s.nickname)
		return
	}
	// Any other read failure, including the read-deadline timeout, is
	// WEBSOCKET_CLOSED per spec §7: terminal, not surfaced (the socket is
	// already unusable by the time we'd try to write to it).
	log.Printf("[PlayerSession %s] %s read error (treated as %s): %v", s.corrID, s.nickname, domain.ErrWebsocketClosed, err)
}

// handleInbound processes one frame read from the connection. It returns
// false when the session should end.
func (s *Session) handleInbound(frame inboundFrame) bool {
	if frame.messageType != websocket.TextMessage {
		s.writeError(domain.NewError(domain.ErrUnprocessableMessage, "non-text frame"))
		return true
	}

	if string(frame.data) == wire.PingText {
		return s.writeText(wire.PongText)
	}

	kind, payload, err := wire.ParseInbound(frame.data)
	if err != nil {
		s.writeError(domain.NewError(domain.ErrUnprocessableMessage, err.Error()))
		return true
	}

	switch kind {
	case wire.KindStartGame:
		cmd := payload.(wire.InboundStartGame)
		if cmd.AmountOfRounds < 0 || cmd.AmountOfRounds > 255 {
			s.writeError(domain.NewError(domain.ErrNotEnoughRounds, "amountOfRounds out of range"))
			return true
		}
		result := s.room.StartGame(s.nickname, uint8(cmd.AmountOfRounds))
		if result.Err != nil {
			s.writeError(result.Err)
		}

	case wire.KindChatMessageIn:
		cmd := payload.(wire.InboundChatMessage)
		s.room.ChatMessage(s.nickname, cmd.Content)

	case wire.KindPlayerWords:
		cmd := payload.(wire.InboundPlayerWords)
		s.room.AddPlayerWords(s.nickname, cmd.Words)

	case wire.KindPlayerVotingWord:
		cmd := payload.(wire.InboundPlayerVotingWord)
		s.room.SetVotingWord(s.nickname, cmd.Word)

	case wire.KindAcceptPlayersVotingWords:
		s.room.AcceptPlayersVotingWords(s.nickname)

	case wire.KindContinueToNextRound:
		s.room.ContinueToNextRound(s.nickname)

	case wire.KindPlayAgain:
		s.room.PlayAgain(s.nickname)

	default:
		s.writeError(domain.NewError(domain.ErrUnprocessableMessage, string(kind)))
	}
	return true
}

func (s *Session) writeEvent(event room.Event) bool {
	switch {
	case event.GameState != nil:
		return s.writeJSON(event.GameState)
	case event.ChatMessage != nil:
		return s.writeJSON(event.ChatMessage)
	default:
		return true
	}
}

// writeError classifies err per spec §7: Internal errors are logged only
// and never reach the client; everything else becomes a typed Error
// frame.
func (s *Session) writeError(err error) {
	var domainErr *domain.Error
	if errors.As(err, &domainErr) {
		s.writeJSON(wire.NewErrorFrame(domainErr.Type, domainErr.Detail))
		return
	}

	var internalErr *domain.InternalError
	if errors.As(err, &internalErr) {
		log.Printf("[PlayerSession %s] internal error suppressed for %s: %v", s.corrID, s.nickname, err)
		return
	}

	s.writeJSON(wire.NewErrorFrame(domain.ErrUnprocessableMessage, err.Error()))
}

func (s *Session) writeJSON(v any) bool {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("[PlayerSession %s] marshal failure for %s: %v", s.corrID, s.nickname, err)
		return true
	}
	return s.writeText(string(data))
}

func (s *Session) writeText(text string) bool {
	if err := s.conn.WriteMessage(websocket.TextMessage, []byte(text)); err != nil {
		log.Printf("[PlayerSession %s] write failed for %s: %v", s.corrID, s.nickname, err)
		return false
	}
	return true
}
