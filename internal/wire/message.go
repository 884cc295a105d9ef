// Package wire defines the frozen over-the-wire JSON contract between a
// PlayerSession and its client: the discriminated outbound frames and the
// discriminated inbound commands. The stable error type codes carried by
// the error frame are defined in package domain. Nothing
// here may change shape without breaking every connected client.
package wire

import (
	"encoding/json"
	"fmt"

	"github.com/scythe504/wordwave/internal/domain"
)

// OutboundKind is the `kind` discriminator on server→client frames.
type OutboundKind string

const (
	KindGameState   OutboundKind = "gameState"
	KindChatMessage OutboundKind = "chatMessage"
	KindError       OutboundKind = "error"
)

// InboundKind is the `kind` discriminator on client→server frames.
type InboundKind string

const (
	KindStartGame              InboundKind = "startGame"
	KindChatMessageIn          InboundKind = "chatMessage"
	KindPlayerWords            InboundKind = "playerWords"
	KindPlayerVotingWord       InboundKind = "playerVotingWord"
	KindAcceptPlayersVotingWords InboundKind = "acceptPlayersVotingWords"
	KindContinueToNextRound    InboundKind = "continueToNextRound"
	// KindPlayAgain is not enumerated in the distilled wire list but is
	// required for the PlayAgain Game operation (and the RoomAgent's
	// PlayAgain command) to be reachable from a client at all.
	KindPlayAgain InboundKind = "playAgain"
)

// PingText and PongText are the one pair of frames that live outside the
// JSON scheme entirely (spec §4.5 step 5).
const (
	PingText = "ping"
	PongText = "pong"
)

// playerWire is the wire shape of domain.Player.
type playerWire struct {
	Nickname    string `json:"nickname"`
	IsHost      bool   `json:"isHost"`
	IsConnected bool   `json:"isConnected"`
}

// wordWire is the wire shape of domain.Word.
type wordWire struct {
	Word   string `json:"word"`
	IsUsed bool   `json:"isUsed"`
	Score  int    `json:"score"`
}

// votingItemWire is the wire shape of domain.VotingItem.
type votingItemWire struct {
	PlayerNickname string `json:"playerNickname"`
	Word           string `json:"word"`
}

// roundWire is the wire shape of domain.Round.
type roundWire struct {
	Word              string                `json:"word"`
	PlayerWords       map[string][]wordWire `json:"playerWords"`
	PlayerVotingWords map[string]*string    `json:"playerVotingWords"`
	VotingItem        *votingItemWire       `json:"votingItem"`
}

// GameStateFrame is the `gameState` outbound frame body (spec §6).
type GameStateFrame struct {
	Kind           OutboundKind `json:"kind"`
	State          string       `json:"state"`
	Players        []playerWire `json:"players"`
	Rounds         []roundWire  `json:"rounds"`
	AmountOfRounds *uint8       `json:"amountOfRounds"`
}

// ChatMessageFrame is the `chatMessage` outbound frame body.
type ChatMessageFrame struct {
	Kind    OutboundKind `json:"kind"`
	Sender  string       `json:"sender"`
	Content string       `json:"content"`
}

// ErrorFrame is the `error` outbound frame body.
type ErrorFrame struct {
	Kind   OutboundKind    `json:"kind"`
	Type   domain.ErrorType `json:"type"`
	Title  string          `json:"title"`
	Detail string          `json:"detail"`
}

// NewErrorFrame builds the wire representation of a domain error.
func NewErrorFrame(t domain.ErrorType, detail string) ErrorFrame {
	return ErrorFrame{
		Kind:   KindError,
		Type:   t,
		Title:  humanizeErrorType(t),
		Detail: detail,
	}
}

func humanizeErrorType(t domain.ErrorType) string {
	return string(t)
}

// NewGameStateFrame translates a live domain.Game into its wire snapshot.
func NewGameStateFrame(state string, players []*domain.Player, rounds []*domain.Round, amountOfRounds *uint8) GameStateFrame {
	pw := make([]playerWire, len(players))
	for i, p := range players {
		pw[i] = playerWire{Nickname: p.Nickname, IsHost: p.IsHost, IsConnected: p.IsConnected}
	}

	rw := make([]roundWire, len(rounds))
	for i, r := range rounds {
		words := make(map[string][]wordWire, len(r.PlayerWords))
		for nickname, ws := range r.PlayerWords {
			wws := make([]wordWire, len(ws))
			for j, w := range ws {
				wws[j] = wordWire{Word: w.Text, IsUsed: w.Used, Score: w.Score}
			}
			words[nickname] = wws
		}

		votingWords := make(map[string]*string, len(r.PlayerVotingWords))
		for nickname, v := range r.PlayerVotingWords {
			votingWords[nickname] = v
		}

		var item *votingItemWire
		if r.VotingItem != nil {
			item = &votingItemWire{PlayerNickname: r.VotingItem.PlayerNickname, Word: r.VotingItem.WordText}
		}

		rw[i] = roundWire{
			Word:              r.Word,
			PlayerWords:       words,
			PlayerVotingWords: votingWords,
			VotingItem:        item,
		}
	}

	return GameStateFrame{
		Kind:           KindGameState,
		State:          state,
		Players:        pw,
		Rounds:         rw,
		AmountOfRounds: amountOfRounds,
	}
}

// inboundEnvelope is used only to sniff the `kind` discriminator before
// unmarshaling the rest of an inbound frame into its concrete shape.
type inboundEnvelope struct {
	Kind InboundKind `json:"kind"`
}

// InboundStartGame etc. are the concrete shapes of each inbound command.
type InboundStartGame struct {
	AmountOfRounds int `json:"amountOfRounds"`
}

type InboundChatMessage struct {
	Content string `json:"content"`
}

type InboundPlayerWords struct {
	Words []string `json:"words"`
}

type InboundPlayerVotingWord struct {
	Word *string `json:"word"`
}

// ParseInbound sniffs the `kind` field and unmarshals the rest of the
// payload into the matching concrete type. It returns (kind, payload, nil)
// on success; payload is nil for kinds that carry no body.
func ParseInbound(raw []byte) (InboundKind, any, error) {
	var env inboundEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", nil, err
	}

	switch env.Kind {
	case KindStartGame:
		var v InboundStartGame
		if err := json.Unmarshal(raw, &v); err != nil {
			return "", nil, err
		}
		return env.Kind, v, nil
	case KindChatMessageIn:
		var v InboundChatMessage
		if err := json.Unmarshal(raw, &v); err != nil {
			return "", nil, err
		}
		return env.Kind, v, nil
	case KindPlayerWords:
		var v InboundPlayerWords
		if err := json.Unmarshal(raw, &v); err != nil {
			return "", nil, err
		}
		return env.Kind, v, nil
	case KindPlayerVotingWord:
		var v InboundPlayerVotingWord
		if err := json.Unmarshal(raw, &v); err != nil {
			return "", nil, err
		}
		return env.Kind, v, nil
	case KindAcceptPlayersVotingWords, KindContinueToNextRound, KindPlayAgain:
		return env.Kind, nil, nil
	default:
		return "", nil, fmt.Errorf("unknown inbound kind %q", env.Kind)
	}
}
