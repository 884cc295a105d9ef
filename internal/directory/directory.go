// Package directory implements the Directory: the process-wide registry of
// live rooms. A single serialized command loop owns the room-id → RoomAgent
// handle map; callers never touch the map directly.
package directory

import (
	"crypto/rand"
	"log"
	"math"
	"math/big"
	mrand "math/rand"
	"time"

	"github.com/scythe504/wordwave/internal/domain"
	"github.com/scythe504/wordwave/internal/room"
)

const inboundQueueCapacity = 512

// Handle is the sendable command endpoint used to talk to the Directory.
// It also satisfies room.Directory, so it can be passed by value into
// every RoomAgent the Directory spawns (spec §4.4 back-reference without
// cycles).
type Handle struct {
	commands chan<- command
}

// CreateGameResult is the reply to CreateGame.
type CreateGameResult struct {
	ID string
}

// GetGameActorResult is the reply to GetGameActor.
type GetGameActorResult struct {
	Room room.Handle
	Err  error
}

type command interface{ isCommand() }

type cmdCreateGame struct {
	reply chan CreateGameResult
}

type cmdGetGameActor struct {
	id    string
	reply chan GetGameActorResult
}

type cmdRemoveGame struct{ id string }

func (cmdCreateGame) isCommand()   {}
func (cmdGetGameActor) isCommand() {}
func (cmdRemoveGame) isCommand()   {}

type actor struct {
	rooms             map[string]room.Handle
	inbound           chan command
	prompts           []string
	inactivityTimeout time.Duration
	self              Handle
}

// Spawn starts the Directory goroutine and returns a Handle to it.
func Spawn(prompts []string, inactivityTimeout time.Duration) Handle {
	inbound := make(chan command, inboundQueueCapacity)
	h := Handle{commands: inbound}
	a := &actor{
		rooms:             make(map[string]room.Handle),
		inbound:           inbound,
		prompts:           prompts,
		inactivityTimeout: inactivityTimeout,
		self:              h,
	}
	go a.run()
	return h
}

func (h Handle) CreateGame() CreateGameResult {
	reply := make(chan CreateGameResult, 1)
	h.commands <- cmdCreateGame{reply: reply}
	return <-reply
}

func (h Handle) GetGameActor(id string) GetGameActorResult {
	reply := make(chan GetGameActorResult, 1)
	h.commands <- cmdGetGameActor{id: id, reply: reply}
	return <-reply
}

// RemoveGame implements room.Directory: a fire-and-forget notification
// sent by a RoomAgent as it shuts down.
func (h Handle) RemoveGame(id string) {
	h.commands <- cmdRemoveGame{id: id}
}

func (a *actor) run() {
	log.Printf("[Directory] started")
	for c := range a.inbound {
		switch cmd := c.(type) {
		case cmdCreateGame:
			id := a.createUniqueID()
			a.rooms[id] = room.Spawn(id, a.prompts, newGameRNG(), a.inactivityTimeout, a.self)
			log.Printf("[Directory] created room %s (%d rooms live)", id, len(a.rooms))
			cmd.reply <- CreateGameResult{ID: id}

		case cmdGetGameActor:
			h, ok := a.rooms[cmd.id]
			if !ok {
				cmd.reply <- GetGameActorResult{Err: domain.NewError(domain.ErrGameDoesNotExist, cmd.id)}
				continue
			}
			cmd.reply <- GetGameActorResult{Room: h}

		case cmdRemoveGame:
			if _, ok := a.rooms[cmd.id]; ok {
				delete(a.rooms, cmd.id)
				log.Printf("[Directory] removed room %s (%d rooms live)", cmd.id, len(a.rooms))
			}
		}
	}
}

func (a *actor) createUniqueID() string {
	for {
		id := newRoomID()
		if _, exists := a.rooms[id]; !exists {
			return id
		}
	}
}

// newGameRNG seeds a per-Game random source from crypto/rand so that
// concurrent Games draw prompts in independent orders (spec §9 design
// notes), falling back to a time-derived seed if the OS source is
// unavailable.
func newGameRNG() *mrand.Rand {
	max := big.NewInt(math.MaxInt64)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return mrand.New(mrand.NewSource(time.Now().UnixNano()))
	}
	return mrand.New(mrand.NewSource(n.Int64()))
}
