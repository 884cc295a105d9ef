package wire

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scythe504/wordwave/internal/domain"
)

func TestParseInbound_StartGame(t *testing.T) {
	kind, payload, err := ParseInbound([]byte(`{"kind":"startGame","amountOfRounds":5}`))
	require.NoError(t, err)
	assert.Equal(t, KindStartGame, kind)
	assert.Equal(t, InboundStartGame{AmountOfRounds: 5}, payload)
}

func TestParseInbound_PlayerVotingWordNull(t *testing.T) {
	kind, payload, err := ParseInbound([]byte(`{"kind":"playerVotingWord","word":null}`))
	require.NoError(t, err)
	assert.Equal(t, KindPlayerVotingWord, kind)
	assert.Nil(t, payload.(InboundPlayerVotingWord).Word)
}

func TestParseInbound_UnknownKindErrors(t *testing.T) {
	_, _, err := ParseInbound([]byte(`{"kind":"doSomethingElse"}`))
	assert.Error(t, err)
}

func TestParseInbound_NoBodyKinds(t *testing.T) {
	for _, raw := range []string{
		`{"kind":"acceptPlayersVotingWords"}`,
		`{"kind":"continueToNextRound"}`,
		`{"kind":"playAgain"}`,
	} {
		_, payload, err := ParseInbound([]byte(raw))
		require.NoError(t, err)
		assert.Nil(t, payload)
	}
}

func TestGameStateFrame_RoundTripsThroughJSON(t *testing.T) {
	amount := uint8(3)
	frame := NewGameStateFrame("Lobby", nil, nil, &amount)

	data, err := json.Marshal(frame)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "gameState", decoded["kind"])
	assert.Equal(t, "Lobby", decoded["state"])
	assert.Equal(t, float64(3), decoded["amountOfRounds"])
}

func TestErrorFrame_CarriesStableTypeCode(t *testing.T) {
	frame := NewErrorFrame(domain.ErrPlayerAlreadyExists, "p1")
	data, err := json.Marshal(frame)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "error", decoded["kind"])
	assert.Equal(t, "PLAYER_ALREADY_EXISTS", decoded["type"])
}
