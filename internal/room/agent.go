// Package room implements the RoomAgent: the serialized, single-goroutine
// owner of one Game. All domain mutation happens here and nowhere else —
// Game and Round are confined to this goroutine, never shared across
// tasks (spec §5, §9 design notes: no lock-guarded shared Game).
package room

import (
	"log"
	"math/rand"
	"time"

	"github.com/scythe504/wordwave/internal/domain"
	"github.com/scythe504/wordwave/internal/metrics"
	"github.com/scythe504/wordwave/internal/wire"
)

const (
	inboundQueueCapacity  = 128
	broadcastBufferPerSub = 32
)

// Directory is the minimal back-reference a RoomAgent needs: a handle to
// tell the Directory to forget this room on shutdown. Passed in by value
// at construction, never by shared ownership (spec §4.4, §9 design notes).
type Directory interface {
	RemoveGame(id string)
}

// Handle is the sendable command endpoint other goroutines use to talk to
// a RoomAgent. It is safe to copy and share across goroutines — only the
// channel send crosses a goroutine boundary, never the Game itself.
type Handle struct {
	commands chan<- command
}

// Event is one broadcast message fanned out to every subscriber of a room.
type Event struct {
	GameState    *wire.GameStateFrame
	ChatMessage  *wire.ChatMessageFrame
}

// AddPlayerResult is the reply to AddPlayer.
type AddPlayerResult struct {
	Subscription <-chan Event
	Err          error
}

// StartGameResult is the reply to StartGame.
type StartGameResult struct {
	Err error
}

type command interface{ isCommand() }

type cmdAddPlayer struct {
	nickname string
	reply    chan AddPlayerResult
}

type cmdDisconnectPlayer struct{ nickname string }

type cmdStartGame struct {
	nickname       string
	amountOfRounds uint8
	reply          chan StartGameResult
}

type cmdAddPlayerWords struct {
	nickname string
	words    []string
}

type cmdSetVotingWord struct {
	nickname string
	word     *string
}

type cmdAcceptPlayersVotingWords struct{ nickname string }
type cmdContinueToNextRound struct{ nickname string }
type cmdPlayAgain struct{ nickname string }

type cmdChatMessage struct {
	sender  string
	content string
}

func (cmdAddPlayer) isCommand()               {}
func (cmdDisconnectPlayer) isCommand()         {}
func (cmdStartGame) isCommand()               {}
func (cmdAddPlayerWords) isCommand()           {}
func (cmdSetVotingWord) isCommand()            {}
func (cmdAcceptPlayersVotingWords) isCommand() {}
func (cmdContinueToNextRound) isCommand()      {}
func (cmdPlayAgain) isCommand()                {}
func (cmdChatMessage) isCommand()              {}

// agent is the RoomAgent itself: the receive loop plus the Game it owns.
type agent struct {
	game              *domain.Game
	inbound           chan command
	subscribers       map[chan Event]struct{}
	directory         Directory
	inactivityTimeout time.Duration
}

// Spawn starts a new RoomAgent goroutine owning a fresh Game with the
// given id and prompt pool, and returns a Handle to talk to it.
func Spawn(id string, prompts []string, rng *rand.Rand, inactivityTimeout time.Duration, directory Directory) Handle {
	a := &agent{
		game:              domain.NewGame(id, prompts, rng),
		inbound:           make(chan command, inboundQueueCapacity),
		subscribers:       make(map[chan Event]struct{}),
		directory:         directory,
		inactivityTimeout: inactivityTimeout,
	}
	go a.run()
	return Handle{commands: a.inbound}
}

// sendFireAndForget delivers a fire-and-forget command to the room. It blocks
// (suspends) if the inbound queue is full, per spec §5 bounded resources.
func (h Handle) sendFireAndForget(c command) {
	h.commands <- c
}

// AddPlayer sends an AddPlayer command and blocks for the reply. The reply
// channel is buffered size 1 with exactly one writer (the agent), so the
// send from onAddPlayer can never block.
func (h Handle) AddPlayer(nickname string) AddPlayerResult {
	reply := make(chan AddPlayerResult, 1)
	h.commands <- cmdAddPlayer{nickname: nickname, reply: reply}
	return <-reply
}

func (h Handle) DisconnectPlayer(nickname string) {
	h.sendFireAndForget(cmdDisconnectPlayer{nickname: nickname})
}

func (h Handle) StartGame(nickname string, amountOfRounds uint8) StartGameResult {
	reply := make(chan StartGameResult, 1)
	h.commands <- cmdStartGame{nickname: nickname, amountOfRounds: amountOfRounds, reply: reply}
	return <-reply
}

func (h Handle) AddPlayerWords(nickname string, words []string) {
	h.sendFireAndForget(cmdAddPlayerWords{nickname: nickname, words: words})
}

func (h Handle) SetVotingWord(nickname string, word *string) {
	h.sendFireAndForget(cmdSetVotingWord{nickname: nickname, word: word})
}

func (h Handle) AcceptPlayersVotingWords(nickname string) {
	h.sendFireAndForget(cmdAcceptPlayersVotingWords{nickname: nickname})
}

func (h Handle) ContinueToNextRound(nickname string) {
	h.sendFireAndForget(cmdContinueToNextRound{nickname: nickname})
}

func (h Handle) PlayAgain(nickname string) {
	h.sendFireAndForget(cmdPlayAgain{nickname: nickname})
}

func (h Handle) ChatMessage(sender, content string) {
	h.sendFireAndForget(cmdChatMessage{sender: sender, content: content})
}

func (a *agent) run() {
	metrics.ActiveGames.Inc()
	log.Printf("[RoomAgent %s] started", a.game.ID())

	timer := time.NewTimer(a.inactivityTimeout)
	defer timer.Stop()

	for {
		select {
		case c, ok := <-a.inbound:
			if !ok {
				log.Printf("[RoomAgent %s] inbound channel closed, stopping", a.game.ID())
				a.stop()
				return
			}
			if !timer.Stop() {
				<-timer.C
			}
			timer.Reset(a.inactivityTimeout)
			a.handle(c)

		case <-timer.C:
			if a.game.AllPlayersAreDisconnected() {
				log.Printf("[RoomAgent %s] no activity after %s, stopping", a.game.ID(), a.inactivityTimeout)
				a.stop()
				return
			}
			timer.Reset(a.inactivityTimeout)
		}
	}
}

func (a *agent) stop() {
	a.directory.RemoveGame(a.game.ID())
	for sub := range a.subscribers {
		close(sub)
	}
	metrics.ActiveGames.Dec()
}

func (a *agent) handle(c command) {
	switch cmd := c.(type) {
	case cmdAddPlayer:
		a.onAddPlayer(cmd)
	case cmdDisconnectPlayer:
		if err := a.game.DisconnectPlayer(cmd.nickname); err != nil {
			log.Printf("[RoomAgent %s] DisconnectPlayer(%s): %v", a.game.ID(), cmd.nickname, err)
			return
		}
		a.broadcastState()
	case cmdStartGame:
		a.onStartGame(cmd)
	case cmdAddPlayerWords:
		if err := a.game.AddPlayerWords(cmd.nickname, cmd.words); err != nil {
			log.Printf("[RoomAgent %s] AddPlayerWords(%s): %v", a.game.ID(), cmd.nickname, err)
			return
		}
		a.broadcastState()
	case cmdSetVotingWord:
		if err := a.game.SetVotingWord(cmd.nickname, cmd.word); err != nil {
			log.Printf("[RoomAgent %s] SetVotingWord(%s): %v", a.game.ID(), cmd.nickname, err)
			return
		}
		a.broadcastState()
	case cmdAcceptPlayersVotingWords:
		if err := a.game.AcceptPlayersVotingWords(cmd.nickname); err != nil {
			log.Printf("[RoomAgent %s] AcceptPlayersVotingWords(%s): %v", a.game.ID(), cmd.nickname, err)
			return
		}
		a.broadcastState()
	case cmdContinueToNextRound:
		if err := a.game.ContinueToNextRound(cmd.nickname); err != nil {
			log.Printf("[RoomAgent %s] ContinueToNextRound(%s): %v", a.game.ID(), cmd.nickname, err)
			return
		}
		a.broadcastState()
	case cmdPlayAgain:
		if err := a.game.PlayAgain(cmd.nickname); err != nil {
			log.Printf("[RoomAgent %s] PlayAgain(%s): %v", a.game.ID(), cmd.nickname, err)
			return
		}
		a.broadcastState()
	case cmdChatMessage:
		a.broadcastChat(cmd.sender, cmd.content)
	}
}

func (a *agent) onAddPlayer(cmd cmdAddPlayer) {
	if err := a.game.AddPlayer(cmd.nickname); err != nil {
		cmd.reply <- AddPlayerResult{Err: err}
		return
	}

	sub := make(chan Event, broadcastBufferPerSub)
	a.subscribers[sub] = struct{}{}
	cmd.reply <- AddPlayerResult{Subscription: sub}
	a.broadcastState()
}

func (a *agent) onStartGame(cmd cmdStartGame) {
	if err := a.game.StartGame(cmd.nickname, cmd.amountOfRounds); err != nil {
		cmd.reply <- StartGameResult{Err: err}
		return
	}
	cmd.reply <- StartGameResult{}
	a.broadcastState()
}

func (a *agent) broadcastState() {
	frame := wire.NewGameStateFrame(string(a.game.State()), a.game.Players(), a.game.Rounds(), a.game.AmountOfRounds())
	a.publish(Event{GameState: &frame})
}

func (a *agent) broadcastChat(sender, content string) {
	frame := wire.ChatMessageFrame{Kind: wire.KindChatMessage, Sender: sender, Content: content}
	a.publish(Event{ChatMessage: &frame})
}

// publish fans the event out to every subscriber, dropping the oldest
// buffered event for any subscriber whose buffer is full instead of
// blocking the agent (spec §4.3 broadcast semantics).
func (a *agent) publish(e Event) {
	for sub := range a.subscribers {
		select {
		case sub <- e:
		default:
			select {
			case <-sub:
			default:
			}
			select {
			case sub <- e:
			default:
			}
		}
	}
}
