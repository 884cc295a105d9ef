package domain

// Player is one room member. Created on first join in Lobby, toggled to
// disconnected on session end, never removed once created.
type Player struct {
	Nickname    string
	IsHost      bool
	IsConnected bool
}

// findPlayer returns the index of the player with the given nickname, or
// -1 if none exists.
func findPlayer(players []*Player, nickname string) int {
	for i, p := range players {
		if p.Nickname == nickname {
			return i
		}
	}
	return -1
}

// electHost re-elects a host after any membership change: if no player has
// IsHost=true, the first connected player in insertion order becomes host.
// At most one player has IsHost=true; if any connected player exists,
// exactly one does.
func electHost(players []*Player) {
	for _, p := range players {
		if p.IsHost {
			return
		}
	}
	for _, p := range players {
		if p.IsConnected {
			p.IsHost = true
			return
		}
	}
}
