package domain

// State is one node of the game's finite state machine.
type State string

const (
	StateLobby                       State = "Lobby"
	StateCreatingNewRound             State = "CreatingNewRound"
	StatePlayersSubmittingWords       State = "PlayersSubmittingWords"
	StateChooseNextVotingItem         State = "ChooseNextVotingItem"
	StatePlayersSubmittingVotingWord  State = "PlayersSubmittingVotingWord"
	StateEndOfRound                   State = "EndOfRound"
	StateEndOfGame                    State = "EndOfGame"
)

// Event drives transitions. CreatingNewRound and ChooseNextVotingItem are
// transient: the Game self-consumes their follow-up event in the same
// mutation that entered them, so no caller ever observes the Game sitting
// in those states across a suspension point.
type Event string

const (
	EventStartGame                 Event = "StartGame"
	EventStartRound                 Event = "StartRound"
	EventNoMoreRounds               Event = "NoMoreRounds"
	EventAllPlayersSubmittedWords   Event = "AllPlayersSubmittedWords"
	EventNextVotingItem             Event = "NextVotingItem"
	EventNoMoreVotingItems          Event = "NoMoreVotingItems"
	EventAcceptPlayersVotingWords   Event = "AcceptPlayersVotingWords"
	EventContinueToNextRound        Event = "ContinueToNextRound"
	EventPlayAgain                  Event = "PlayAgain"
)

type transitionKey struct {
	from  State
	event Event
}

// transitions is the FSM expressed as data, not control flow, so the
// testable properties in spec §8 can walk it mechanically instead of
// re-deriving it from a chain of if-statements.
var transitions = map[transitionKey]State{
	{StateLobby, EventStartGame}: StateCreatingNewRound,

	{StateCreatingNewRound, EventStartRound}:   StatePlayersSubmittingWords,
	{StateCreatingNewRound, EventNoMoreRounds}: StateEndOfGame,

	{StatePlayersSubmittingWords, EventAllPlayersSubmittedWords}: StateChooseNextVotingItem,

	{StateChooseNextVotingItem, EventNextVotingItem}:    StatePlayersSubmittingVotingWord,
	{StateChooseNextVotingItem, EventNoMoreVotingItems}: StateEndOfRound,

	{StatePlayersSubmittingVotingWord, EventAcceptPlayersVotingWords}: StateChooseNextVotingItem,

	{StateEndOfRound, EventContinueToNextRound}: StateCreatingNewRound,

	{StateEndOfGame, EventPlayAgain}: StateLobby,
}

// transient states self-consume a follow-up event as soon as they're
// entered; Game.driveTransient picks that event and feeds it back into the
// machine through fire.
var transientStates = map[State]bool{
	StateCreatingNewRound:     true,
	StateChooseNextVotingItem: true,
}

// fire advances the machine by one event, or reports an internal error
// naming the offending (state, event) pair. It does not handle the
// transient self-consumption; callers (Game) drive that explicitly since
// it requires picking the next prompt / voting item, which is domain logic
// the FSM table itself can't express.
func fire(current State, event Event) (State, error) {
	next, ok := transitions[transitionKey{current, event}]
	if !ok {
		return current, NewInternalError("event %s is not valid from state %s", event, current)
	}
	return next, nil
}

func isTransient(s State) bool {
	return transientStates[s]
}
