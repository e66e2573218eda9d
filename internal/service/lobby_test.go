package service

import (
	"testing"
	"time"

	"clueless-be/internal/service/clue"
	"clueless-be/internal/service/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLobby(t *testing.T, maxGames, minPlayers, maxPlayers int) (*LobbyService, *GameService) {
	t.Helper()

	gs := newTestGameService(t, maxGames, nil)
	ls := NewLobbyService(LobbyConfig{
		MinPlayers: minPlayers,
		MaxPlayers: maxPlayers,
	}, gs)
	t.Cleanup(ls.Close)

	return ls, gs
}

func join(t *testing.T, ls *LobbyService, player string) string {
	t.Helper()

	resp := ls.Join(dto.JoinGameRequest{Player: player})
	require.True(t, resp.Accepted, player)
	require.NotEmpty(t, resp.ClientID)

	c, err := ls.Client(resp.ClientID)
	require.NoError(t, err)
	runBot(t, c, passivePolicy)

	return resp.ClientID
}

func TestJoinValidatesCharacter(t *testing.T) {
	ls, _ := newTestLobby(t, 1, 3, 6)

	resp := ls.Join(dto.JoinGameRequest{Player: "Colonel Custard"})
	assert.False(t, resp.Accepted)
	assert.Empty(t, resp.ClientID)

	join(t, ls, clue.MUSTARD)

	// 等待队列中的角色不能重复
	resp = ls.Join(dto.JoinGameRequest{Player: clue.MUSTARD})
	assert.False(t, resp.Accepted)

	assert.Equal(t, 1, ls.PlayerCount(dto.PlayerCountRequest{}).Count)
}

func TestRequestGameNeedsEnoughPlayers(t *testing.T) {
	ls, _ := newTestLobby(t, 1, 3, 6)

	a := join(t, ls, clue.MUSTARD)
	join(t, ls, clue.SCARLET)

	resp, err := ls.RequestGame(dto.RequestGameRequest{ClientID: a})
	require.NoError(t, err)
	assert.Empty(t, resp.GameID)

	_, err = ls.RequestGame(dto.RequestGameRequest{ClientID: "missing"})
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestRequestGameStartsGame(t *testing.T) {
	ls, gs := newTestLobby(t, 1, 3, 6)

	a := join(t, ls, clue.MUSTARD)
	b := join(t, ls, clue.SCARLET)
	c := join(t, ls, clue.WHITE)

	resp, err := ls.RequestGame(dto.RequestGameRequest{ClientID: b})
	require.NoError(t, err)
	require.NotEmpty(t, resp.GameID)

	assert.Equal(t, 0, ls.PlayerCount(dto.PlayerCountRequest{ClientID: a}).Count)

	// 其他玩家再次请求时拿到同一局游戏
	again, err := ls.RequestGame(dto.RequestGameRequest{ClientID: c})
	require.NoError(t, err)
	assert.Equal(t, resp.GameID, again.GameID)

	snap, err := gs.GetGame(resp.GameID)
	require.NoError(t, err)

	names := make([]string, 0, len(snap.Players))
	for _, p := range snap.Players {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{clue.MUSTARD, clue.SCARLET, clue.WHITE}, names)

	require.Eventually(t, func() bool {
		snap, _ := gs.GetGame(resp.GameID)
		return snap.Turn > 0
	}, 2*time.Second, time.Millisecond)
}

func TestRequestGameCapsRoster(t *testing.T) {
	ls, gs := newTestLobby(t, 1, 2, 3)

	join(t, ls, clue.MUSTARD)
	join(t, ls, clue.SCARLET)
	join(t, ls, clue.WHITE)
	requester := join(t, ls, clue.GREEN)

	resp, err := ls.RequestGame(dto.RequestGameRequest{ClientID: requester})
	require.NoError(t, err)
	require.NotEmpty(t, resp.GameID)

	snap, err := gs.GetGame(resp.GameID)
	require.NoError(t, err)

	names := make([]string, 0, len(snap.Players))
	for _, p := range snap.Players {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{clue.MUSTARD, clue.SCARLET, clue.GREEN}, names)

	// White 继续等待
	assert.Equal(t, 1, ls.PlayerCount(dto.PlayerCountRequest{}).Count)
}

func TestRequestGameAtCapacity(t *testing.T) {
	ls, _ := newTestLobby(t, 1, 2, 2)

	first := join(t, ls, clue.MUSTARD)
	join(t, ls, clue.SCARLET)

	_, err := ls.RequestGame(dto.RequestGameRequest{ClientID: first})
	require.NoError(t, err)

	second := join(t, ls, clue.WHITE)
	join(t, ls, clue.GREEN)

	resp, err := ls.RequestGame(dto.RequestGameRequest{ClientID: second})
	assert.ErrorIs(t, err, ErrCapacity)
	assert.Equal(t, "try later", resp.Error)
	assert.Empty(t, resp.GameID)

	// 被拒绝的玩家仍在等待
	assert.Equal(t, 2, ls.PlayerCount(dto.PlayerCountRequest{}).Count)
	assert.Len(t, ls.Clients(), 4)
}

func TestRequestGameRequeuesAfterGameStops(t *testing.T) {
	ls, gs := newTestLobby(t, 1, 3, 6)

	a := join(t, ls, clue.MUSTARD)
	join(t, ls, clue.SCARLET)
	join(t, ls, clue.WHITE)

	resp, err := ls.RequestGame(dto.RequestGameRequest{ClientID: a})
	require.NoError(t, err)
	require.NotEmpty(t, resp.GameID)

	require.NoError(t, gs.Kill(resp.GameID))
	require.Eventually(t, func() bool {
		return !gs.IsActive(resp.GameID)
	}, 2*time.Second, time.Millisecond)

	// 游戏停止后再次请求会重新排队，而不是拿到旧游戏
	again, err := ls.RequestGame(dto.RequestGameRequest{ClientID: a})
	require.NoError(t, err)
	assert.Empty(t, again.GameID)
	assert.Equal(t, 1, ls.PlayerCount(dto.PlayerCountRequest{}).Count)

	c, err := ls.Client(a)
	require.NoError(t, err)
	assert.Empty(t, c.GameID())

	// 重复请求不会重复排队
	_, err = ls.RequestGame(dto.RequestGameRequest{ClientID: a})
	require.NoError(t, err)
	assert.Equal(t, 1, ls.PlayerCount(dto.PlayerCountRequest{}).Count)
}

func TestRequeueRejectsTakenCharacter(t *testing.T) {
	ls, gs := newTestLobby(t, 1, 2, 2)

	a := join(t, ls, clue.MUSTARD)
	join(t, ls, clue.SCARLET)

	resp, err := ls.RequestGame(dto.RequestGameRequest{ClientID: a})
	require.NoError(t, err)
	require.NoError(t, gs.Kill(resp.GameID))
	require.Eventually(t, func() bool {
		return !gs.IsActive(resp.GameID)
	}, 2*time.Second, time.Millisecond)

	join(t, ls, clue.MUSTARD)

	_, err = ls.RequestGame(dto.RequestGameRequest{ClientID: a})
	assert.ErrorIs(t, err, ErrCharacterTaken)
}
