package domain

import (
	"math/rand"
)

// promptEntry is one entry of a Game's pre-shuffled prompt pool.
type promptEntry struct {
	text string
	used bool
}

// Game is a value-style object holding room identity, player roster, word
// pool, rounds list, and a finite state machine. All mutations are
// synchronous function calls; no I/O, no concurrency — a Game is confined
// to exactly one RoomAgent goroutine for its whole life.
type Game struct {
	id    string
	state State

	pool []*promptEntry
	rng  *rand.Rand

	players         []*Player
	rounds          []*Round
	amountOfRounds  *uint8
}

// NewGame builds a Game with a freshly-shuffled copy of prompts, shuffled
// with the given per-game random source so that concurrent Games draw
// prompts in independent orders (see spec §9 design note: the pool is
// shuffled once at construction using a per-Game RNG).
func NewGame(id string, prompts []string, rng *rand.Rand) *Game {
	pool := make([]*promptEntry, len(prompts))
	for i, p := range prompts {
		pool[i] = &promptEntry{text: p}
	}
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	return &Game{
		id:    id,
		state: StateLobby,
		pool:  pool,
		rng:   rng,
	}
}

func (g *Game) ID() string       { return g.id }
func (g *Game) State() State     { return g.state }
func (g *Game) Players() []*Player {
	return g.players
}
func (g *Game) Rounds() []*Round { return g.rounds }

// AmountOfRounds returns the configured round count, or nil before StartGame
// / after PlayAgain.
func (g *Game) AmountOfRounds() *uint8 { return g.amountOfRounds }

func (g *Game) isHost(nickname string) bool {
	i := findPlayer(g.players, nickname)
	return i >= 0 && g.players[i].IsHost
}

func (g *Game) connectedCount() int {
	n := 0
	for _, p := range g.players {
		if p.IsConnected {
			n++
		}
	}
	return n
}

// AllPlayersAreDisconnected reports true for an empty roster too — an
// empty room is as eligible for idle shutdown as a room full of ghosts.
func (g *Game) AllPlayersAreDisconnected() bool {
	for _, p := range g.players {
		if p.IsConnected {
			return false
		}
	}
	return true
}

func (g *Game) connectedSet() map[string]bool {
	m := make(map[string]bool, len(g.players))
	for _, p := range g.players {
		m[p.Nickname] = p.IsConnected
	}
	return m
}

func (g *Game) currentRound() *Round {
	if len(g.rounds) == 0 {
		return nil
	}
	return g.rounds[len(g.rounds)-1]
}

// AddPlayer implements spec §4.2 AddPlayer.
func (g *Game) AddPlayer(nickname string) error {
	if i := findPlayer(g.players, nickname); i >= 0 {
		p := g.players[i]
		if p.IsConnected {
			return NewError(ErrPlayerAlreadyExists, nickname)
		}
		p.IsConnected = true
		electHost(g.players)
		return nil
	}

	if g.state != StateLobby {
		return NewError(ErrGameAlreadyInProgress, "")
	}
	g.players = append(g.players, &Player{Nickname: nickname, IsConnected: true})
	electHost(g.players)
	return nil
}

// DisconnectPlayer implements spec §4.2 DisconnectPlayer.
func (g *Game) DisconnectPlayer(nickname string) error {
	i := findPlayer(g.players, nickname)
	if i < 0 {
		return NewInternalError("disconnect of unknown player %q", nickname)
	}
	p := g.players[i]
	if !p.IsConnected {
		return nil
	}
	p.IsConnected = false
	p.IsHost = false
	electHost(g.players)

	if g.state == StatePlayersSubmittingWords {
		return g.maybeAdvancePastWordSubmission()
	}
	return nil
}

// StartGame implements spec §4.2 StartGame.
func (g *Game) StartGame(nickname string, amountOfRounds uint8) error {
	if !g.isHost(nickname) {
		return NewError(ErrNonHostCannotStartGame, nickname)
	}
	if amountOfRounds < 1 {
		return NewError(ErrNotEnoughRounds, "")
	}
	if g.connectedCount() < 3 {
		return NewError(ErrNotEnoughPlayers, "")
	}

	g.amountOfRounds = &amountOfRounds

	next, err := fire(g.state, EventStartGame)
	if err != nil {
		return err
	}
	g.state = next
	return g.driveTransient()
}

// driveTransient runs the self-consuming mutation for whichever transient
// state fire() just landed the machine in, per spec §4.1. It is a no-op
// once the machine has settled in a non-transient state.
func (g *Game) driveTransient() error {
	switch {
	case !isTransient(g.state):
		return nil
	case g.state == StateCreatingNewRound:
		return g.enterCreatingNewRound()
	case g.state == StateChooseNextVotingItem:
		return g.enterChooseNextVotingItem()
	default:
		return NewInternalError("state %s marked transient but has no driver", g.state)
	}
}

// enterCreatingNewRound drives the transient CreatingNewRound state per
// spec §4.1: if out of rounds, fire NoMoreRounds into EndOfGame; otherwise
// pick the next prompt, append a fresh Round, and self-consume StartRound.
func (g *Game) enterCreatingNewRound() error {
	if g.amountOfRounds == nil || uint8(len(g.rounds)) >= *g.amountOfRounds {
		next, err := fire(g.state, EventNoMoreRounds)
		if err != nil {
			return err
		}
		g.state = next
		return nil
	}

	prompt := g.chooseNextPrompt()
	roster := make([]string, len(g.players))
	for i, p := range g.players {
		roster[i] = p.Nickname
	}
	g.rounds = append(g.rounds, newRound(prompt, roster))

	next, err := fire(g.state, EventStartRound)
	if err != nil {
		return err
	}
	g.state = next
	return nil
}

// chooseNextPrompt implements spec §4.2 Prompt selection.
func (g *Game) chooseNextPrompt() string {
	for _, e := range g.pool {
		if !e.used {
			e.used = true
			return e.text
		}
	}

	// Pool exhausted: reshuffle (used flags cleared, uniform permutation)
	// and retry once. Construction guarantees the pool is non-empty.
	for _, e := range g.pool {
		e.used = false
	}
	g.rng.Shuffle(len(g.pool), func(i, j int) { g.pool[i], g.pool[j] = g.pool[j], g.pool[i] })

	e := g.pool[0]
	e.used = true
	return e.text
}

// AddPlayerWords implements spec §4.2 AddPlayerWords.
func (g *Game) AddPlayerWords(nickname string, words []string) error {
	if g.state != StatePlayersSubmittingWords {
		return NewError(ErrInvalidStateForWordsSubmission, "")
	}
	normalized := normalizeWords(words)
	if hasDuplicates(normalized) {
		return NewError(ErrRepeatedWords, "")
	}

	round := g.currentRound()
	round.PlayerWords[nickname] = wrapWords(normalized)

	return g.maybeAdvancePastWordSubmission()
}

func wrapWords(words []string) []*Word {
	out := make([]*Word, len(words))
	for i, w := range words {
		out[i] = &Word{Text: w}
	}
	return out
}

// maybeAdvancePastWordSubmission checks whether every currently-connected
// player has submitted; if so, it auto-submits empty lists for any
// disconnected player still missing a submission and fires
// AllPlayersSubmittedWords.
func (g *Game) maybeAdvancePastWordSubmission() error {
	round := g.currentRound()
	if round == nil {
		return nil
	}
	connected := g.connectedSet()

	if !round.allPlayersSubmitted(connected) {
		return nil
	}

	for _, nickname := range round.Players {
		if connected[nickname] {
			continue
		}
		if _, ok := round.PlayerWords[nickname]; !ok {
			round.PlayerWords[nickname] = []*Word{}
		}
	}

	next, err := fire(g.state, EventAllPlayersSubmittedWords)
	if err != nil {
		return err
	}
	g.state = next
	return g.driveTransient()
}

// enterChooseNextVotingItem drives the transient ChooseNextVotingItem
// state per spec §4.1.
func (g *Game) enterChooseNextVotingItem() error {
	round := g.currentRound()
	item := round.nextVotingItem()
	if item == nil {
		round.VotingItem = nil
		next, err := fire(g.state, EventNoMoreVotingItems)
		if err != nil {
			return err
		}
		g.state = next
		return nil
	}

	round.VotingItem = item
	word := item.WordText
	round.PlayerVotingWords = map[string]*string{item.PlayerNickname: &word}
	if w := round.wordByText(item.PlayerNickname, item.WordText); w != nil {
		w.Used = true
	}

	next, err := fire(g.state, EventNextVotingItem)
	if err != nil {
		return err
	}
	g.state = next
	return nil
}

// SetVotingWord implements spec §4.2 SetVotingWord.
func (g *Game) SetVotingWord(nickname string, word *string) error {
	if g.state != StatePlayersSubmittingVotingWord {
		return NewError(ErrInvalidStateForVotingWordSubmission, "")
	}
	round := g.currentRound()
	if round.VotingItem == nil {
		return NewError(ErrVotingItemNone, "")
	}
	if nickname == round.VotingItem.PlayerNickname {
		return NewError(ErrVotingItemPlayerCannotSubmitVotingWord, nickname)
	}
	if word != nil {
		w := round.wordByText(nickname, *word)
		if w == nil || w.Used {
			return NewError(ErrNonExistingOrUsedWord, *word)
		}
	}

	if word == nil {
		round.PlayerVotingWords[nickname] = nil
	} else {
		v := *word
		round.PlayerVotingWords[nickname] = &v
	}
	return nil
}

// AcceptPlayersVotingWords implements spec §4.2 AcceptPlayersVotingWords.
func (g *Game) AcceptPlayersVotingWords(nickname string) error {
	if !g.isHost(nickname) {
		return NewError(ErrNonHostCannotContinueToNextVotingItem, nickname)
	}
	round := g.currentRound()
	score := round.ballotScore()

	for voter, word := range round.PlayerVotingWords {
		if word == nil {
			continue
		}
		if w := round.wordByText(voter, *word); w != nil {
			w.Score = score
			w.Used = true
		}
	}
	round.PlayerVotingWords = map[string]*string{}

	next, err := fire(g.state, EventAcceptPlayersVotingWords)
	if err != nil {
		return err
	}
	g.state = next
	return g.driveTransient()
}

// ContinueToNextRound implements spec §4.2 ContinueToNextRound.
func (g *Game) ContinueToNextRound(nickname string) error {
	if !g.isHost(nickname) {
		return NewError(ErrNonHostCannotContinueToNextRound, nickname)
	}
	next, err := fire(g.state, EventContinueToNextRound)
	if err != nil {
		return err
	}
	g.state = next
	return g.driveTransient()
}

// PlayAgain implements spec §4.2 PlayAgain. The prompt pool's used flags
// are deliberately left as-is; see spec §9 design notes.
func (g *Game) PlayAgain(nickname string) error {
	if !g.isHost(nickname) {
		return NewError(ErrNonHostCannotStartGame, nickname)
	}
	next, err := fire(g.state, EventPlayAgain)
	if err != nil {
		return err
	}
	g.state = next
	g.rounds = nil
	g.amountOfRounds = nil
	return nil
}
