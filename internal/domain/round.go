package domain

// VotingItem is the currently-open ballot: one player's word, up for every
// other player to vote on.
type VotingItem struct {
	PlayerNickname string
	WordText       string
}

// Round holds everything scoped to one prompt: who's playing, what each of
// them submitted, the current ballot, and each voter's answer to it.
// Mutated only by its owning Game; destroyed wholesale on play-again.
type Round struct {
	Word string

	// Players is a snapshot of the roster order at round start.
	Players []string

	// PlayerWords maps nickname -> insertion-ordered submissions.
	PlayerWords map[string][]*Word

	// PlayerVotingWords maps nickname -> this round's ballot for the open
	// voting item. A missing entry and a present-but-nil entry are the
	// same thing semantically (no vote yet / voted null); when a voting
	// item opens, Game seeds only the voting-item owner's entry.
	PlayerVotingWords map[string]*string

	VotingItem *VotingItem
}

func newRound(word string, players []string) *Round {
	r := &Round{
		Word:              word,
		Players:           append([]string(nil), players...),
		PlayerWords:       make(map[string][]*Word, len(players)),
		PlayerVotingWords: make(map[string]*string, len(players)),
	}
	return r
}

// allPlayersSubmitted reports whether every connected player in the round
// has a (possibly empty) word list on file. Disconnected players are
// skipped; the caller (Game) auto-submits an empty list for them once this
// returns true.
func (r *Round) allPlayersSubmitted(connected map[string]bool) bool {
	for _, nickname := range r.Players {
		if !connected[nickname] {
			continue
		}
		if _, ok := r.PlayerWords[nickname]; !ok {
			return false
		}
	}
	return true
}

// nextVotingItem walks players in join order, and within a player their
// submission order, looking for the first word that is not yet Used. It
// returns nil if every word of every player has been used.
func (r *Round) nextVotingItem() *VotingItem {
	for _, nickname := range r.Players {
		for _, w := range r.PlayerWords[nickname] {
			if !w.Used {
				return &VotingItem{PlayerNickname: nickname, WordText: w.Text}
			}
		}
	}
	return nil
}

// wordByText finds a player's own word with the given text, or nil.
func (r *Round) wordByText(nickname, text string) *Word {
	for _, w := range r.PlayerWords[nickname] {
		if w.Text == text {
			return w
		}
	}
	return nil
}

// ballotScore counts the non-null ballots cast for the current voting
// item.
func (r *Round) ballotScore() int {
	count := 0
	for _, v := range r.PlayerVotingWords {
		if v != nil {
			count++
		}
	}
	return count
}
