package clue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func card(name string) Card {
	c, ok := LookupCard(name)
	if !ok {
		panic("unknown card " + name)
	}
	return c
}

func TestNewGameStartsInHallways(t *testing.T) {
	g, _ := newTestGame(t, MUSTARD, SCARLET, WHITE)

	snap := g.Snapshot()
	assert.Equal(t, 0, snap.Turn)
	assert.Empty(t, snap.Result)
	assert.Nil(t, snap.Murder)
	assert.Equal(t, MUSTARD, snap.CurrentTurn)

	assert.Equal(t, HallwayName(LOUNGE, DINING), snap.Players[0].Room)
	assert.Equal(t, HallwayName(HALL, LOUNGE), snap.Players[1].Room)
	assert.Equal(t, HallwayName(KITCHEN, BALLROOM), snap.Players[2].Room)
}

func TestNewGameRejectsUnknownCharacter(t *testing.T) {
	_, err := NewGame("bad", []Proxy{&fakeProxy{name: MUSTARD}, &fakeProxy{name: "Dr. Black"}}, GameConfig{})
	assert.ErrorIs(t, err, ErrUnknownCharacter)
}

func TestMoveRoundTrip(t *testing.T) {
	g, fakes := newTestGame(t, MUSTARD, SCARLET, WHITE)
	mustard := g.players[0]
	start := mustard.Room

	fakes[MUSTARD].onMove = func(ctx context.Context, req PlayerMoveRequest) (PlayerMoveResponse, error) {
		assert.ElementsMatch(t, []string{LOUNGE, DINING, start.Name}, req.MoveOptions)
		return PlayerMoveResponse{Move: DINING}, nil
	}

	g.move(context.Background(), mustard)
	assert.Equal(t, DINING, mustard.Room.Name)

	// 不在可选范围内的目标保持原地
	mustard.Room = start
	fakes[MUSTARD].onMove = func(ctx context.Context, req PlayerMoveRequest) (PlayerMoveResponse, error) {
		return PlayerMoveResponse{Move: KITCHEN}, nil
	}

	g.move(context.Background(), mustard)
	assert.Equal(t, start.Name, mustard.Room.Name)
}

func TestMoveOptionsSkipOccupiedHallway(t *testing.T) {
	g, _ := newTestGame(t, MUSTARD, SCARLET, WHITE)
	mustard := g.players[0]
	mustard.Room = mustRoom(t, LOUNGE)

	// Scarlet 仍在 Hall - Lounge 走廊
	options := roomNames(g.moveOptions(mustard))
	assert.Equal(t, []string{HallwayName(LOUNGE, DINING), CONSERVATORY, LOUNGE}, options)

	// 普通房间没有人数限制
	g.players[1].Room = mustRoom(t, CONSERVATORY)
	options = roomNames(g.moveOptions(mustard))
	assert.Contains(t, options, CONSERVATORY)
	assert.Contains(t, options, HallwayName(HALL, LOUNGE))
}

func TestTurnIncrementsExactlyOnce(t *testing.T) {
	g, _ := newTestGame(t, MUSTARD, SCARLET, WHITE)

	for i := 1; i <= 5; i++ {
		g.TakeTurn(context.Background())
		assert.Equal(t, i, g.Turn())
		assert.Equal(t, STAGE_IDLE, g.Snapshot().Stage)
	}

	// 出局玩家的回合同样计数
	g.players[2].Playing = false
	g.TakeTurn(context.Background())
	assert.Equal(t, 6, g.Turn())
	assert.Empty(t, g.Result())
}

func TestBroadcastSendsOnlyOwnHand(t *testing.T) {
	g, fakes := newTestGame(t, MUSTARD, SCARLET, WHITE)

	g.TakeTurn(context.Background())

	for _, p := range g.players {
		f := fakes[p.Name]
		require.Len(t, f.states, 1)

		state := f.states[0]
		assert.Equal(t, cardNames(p.Cards), state.PlayerCards)
		assert.Equal(t, MUSTARD, state.CurrentTurn)
		assert.Len(t, state.Whereabouts, 3)
		assert.Equal(t, "test-game", state.GameID)
	}
}

func TestHallwaySkipsSuggestion(t *testing.T) {
	g, fakes := newTestGame(t, MUSTARD, SCARLET, WHITE)

	g.TakeTurn(context.Background())

	assert.Empty(t, fakes[MUSTARD].suggestRequests)
	for _, f := range fakes {
		require.Len(t, f.suggestionResults, 1)
		assert.Equal(t, MUSTARD, f.suggestionResults[0].SuggestedBy)
		assert.Empty(t, f.suggestionResults[0].Suspect)
	}
}

func TestDisproverSkipsPlayerWithoutMatch(t *testing.T) {
	g, fakes := newTestGame(t, MUSTARD, SCARLET, WHITE)

	mustard, scarlet, white := g.players[0], g.players[1], g.players[2]
	mustard.Room = mustRoom(t, LOUNGE)
	mustard.Cards = []Card{card(ROPE)}
	scarlet.Cards = []Card{card(DAGGER)}
	scarlet.Playing = false
	white.Cards = []Card{card(WRENCH), card(HALL)}
	scarletRoom := scarlet.Room

	fakes[MUSTARD].onSuggestion = func(req PlayerSuggestionRequest) (PlayerSuggestionResponse, error) {
		assert.Equal(t, []string{LOUNGE}, req.Rooms)
		assert.ElementsMatch(t, []string{WHITE, MUSTARD, SCARLET}, req.Suspects)
		return PlayerSuggestionResponse{Suspect: SCARLET, Weapon: WRENCH, Room: LOUNGE}, nil
	}

	g.TakeTurn(context.Background())

	// Scarlet 已出局，不会被移动
	assert.Equal(t, scarletRoom, scarlet.Room)

	// 游戏不做脱敏，所有代理都收到完整事件
	for _, f := range fakes {
		require.Len(t, f.suggestionResults, 1)
		res := f.suggestionResults[0]
		assert.Equal(t, WHITE, res.DisprovedBy)
		assert.Equal(t, WRENCH, res.DisprovedCard)
		assert.Equal(t, MUSTARD, res.SuggestedBy)
	}
}

func TestDisproverOrderIsRelativeToActivePlayer(t *testing.T) {
	g, fakes := newTestGame(t, MUSTARD, SCARLET, WHITE)

	mustard, scarlet, white := g.players[0], g.players[1], g.players[2]
	mustard.Cards = []Card{card(ROPE)}
	scarlet.Cards = []Card{card(KITCHEN)}
	white.Cards = []Card{card(PIPE)}
	scarlet.Room = mustRoom(t, KITCHEN)

	// Scarlet 的回合：先检查 White，再检查 Mustard
	g.turn = 1
	fakes[SCARLET].onSuggestion = func(req PlayerSuggestionRequest) (PlayerSuggestionResponse, error) {
		return PlayerSuggestionResponse{Suspect: MUSTARD, Weapon: ROPE, Room: KITCHEN}, nil
	}

	g.TakeTurn(context.Background())

	res := fakes[SCARLET].suggestionResults[0]
	assert.Equal(t, MUSTARD, res.DisprovedBy)
	assert.Equal(t, ROPE, res.DisprovedCard)

	// 被点名的 Mustard 仍在游戏中，被移动到 Kitchen
	assert.Equal(t, KITCHEN, mustard.Room.Name)

	// 两人都能反驳时，顺位靠前的 White 先反驳
	g.turn = 1
	white.Cards = append(white.Cards, card(ROPE))
	disprover, shown, ok := g.findDisprover([]Card{card(MUSTARD), card(ROPE), card(KITCHEN)})
	require.True(t, ok)
	assert.Equal(t, WHITE, disprover.Name)
	assert.Equal(t, ROPE, shown.Name)

	n := len(g.players)
	for i := 1; i < n; i++ {
		candidate := g.players[(g.turn+i)%n]
		if candidate == disprover {
			break
		}
		assert.Empty(t, candidate.MatchingCards([]Card{card(MUSTARD), card(ROPE), card(KITCHEN)}))
	}
	assert.True(t, disprover.HasCard(shown))
}

func TestNoDisprover(t *testing.T) {
	g, fakes := newTestGame(t, MUSTARD, SCARLET, WHITE)

	g.players[0].Room = mustRoom(t, STUDY)
	g.players[1].Cards = nil
	g.players[2].Cards = nil

	fakes[MUSTARD].onSuggestion = func(req PlayerSuggestionRequest) (PlayerSuggestionResponse, error) {
		return PlayerSuggestionResponse{Suspect: WHITE, Weapon: ROPE, Room: STUDY}, nil
	}

	g.TakeTurn(context.Background())

	res := fakes[WHITE].suggestionResults[0]
	assert.Equal(t, WHITE, res.Suspect)
	assert.Empty(t, res.DisprovedBy)
	assert.Empty(t, res.DisprovedCard)
	assert.Equal(t, STUDY, g.players[2].Room.Name)
}

func TestInvalidSuggestionIsDeclined(t *testing.T) {
	g, fakes := newTestGame(t, MUSTARD, SCARLET, WHITE)

	g.players[0].Room = mustRoom(t, STUDY)
	whiteRoom := g.players[2].Room

	// 房间与所在位置不符
	fakes[MUSTARD].onSuggestion = func(req PlayerSuggestionRequest) (PlayerSuggestionResponse, error) {
		return PlayerSuggestionResponse{Suspect: WHITE, Weapon: ROPE, Room: HALL}, nil
	}

	g.TakeTurn(context.Background())

	res := fakes[SCARLET].suggestionResults[0]
	assert.Empty(t, res.Suspect)
	assert.Equal(t, MUSTARD, res.SuggestedBy)
	assert.Equal(t, whiteRoom, g.players[2].Room)
}

func accuse(triple MurderTriple) func(PlayerAccusationRequest) (PlayerAccusationResponse, error) {
	return func(PlayerAccusationRequest) (PlayerAccusationResponse, error) {
		return PlayerAccusationResponse{
			Suspect: triple.Suspect.Name,
			Weapon:  triple.Weapon.Name,
			Room:    triple.Room.Name,
		}, nil
	}
}

func wrongTriple(g *Game) MurderTriple {
	wrong := g.murder
	for _, w := range WEAPONS {
		if w != g.murder.Weapon.Name {
			wrong.Weapon = card(w)
			break
		}
	}
	return wrong
}

func TestCorrectAccusationWins(t *testing.T) {
	g, fakes := newTestGame(t, MUSTARD, SCARLET, WHITE)

	fakes[MUSTARD].onAccusation = accuse(g.murder)

	g.TakeTurn(context.Background())

	snap := g.Snapshot()
	assert.Equal(t, MUSTARD, snap.Result)
	assert.Equal(t, 1, snap.Turn)
	require.NotNil(t, snap.Murder)
	assert.Equal(t, g.murder, *snap.Murder)
	require.Len(t, snap.Accusations, 1)
	assert.True(t, snap.Accusations[0].Correct)

	for _, f := range fakes {
		require.Len(t, f.accusationResults, 1)
		assert.True(t, f.accusationResults[0].Correct)
		require.Len(t, f.gameOvers, 1)
		assert.Equal(t, MUSTARD, f.gameOvers[0].Result)
	}

	// 结束后的回合不产生任何效果
	g.TakeTurn(context.Background())
	assert.Equal(t, 1, g.Turn())
	assert.Equal(t, MUSTARD, g.Result())
}

func TestWrongAccusationEliminates(t *testing.T) {
	g, fakes := newTestGame(t, MUSTARD, SCARLET, WHITE)

	fakes[MUSTARD].onAccusation = accuse(wrongTriple(g))

	g.TakeTurn(context.Background())

	mustard := g.players[0]
	assert.False(t, mustard.Playing)
	assert.Empty(t, g.Result())
	assert.False(t, fakes[SCARLET].accusationResults[0].Correct)

	// 出局后仍会收到广播，也仍可以反驳
	g.TakeTurn(context.Background())
	g.TakeTurn(context.Background())
	g.TakeTurn(context.Background())

	assert.Len(t, fakes[MUSTARD].states, 4)
	assert.Len(t, fakes[MUSTARD].moveRequests, 1)

	// Scarlet 的回合，White 无牌可亮，轮到已出局的 Mustard
	g.turn = 1
	mustard.Cards = []Card{card(KITCHEN)}
	g.players[2].Cards = nil
	disprover, shown, ok := g.findDisprover([]Card{card(SCARLET), card(ROPE), card(KITCHEN)})
	require.True(t, ok)
	assert.Equal(t, MUSTARD, disprover.Name)
	assert.Equal(t, KITCHEN, shown.Name)
}

func TestAllEliminatedEndsWithoutContestants(t *testing.T) {
	g, fakes := newTestGame(t, MUSTARD, SCARLET, WHITE)

	wrong := accuse(wrongTriple(g))
	for _, f := range fakes {
		f.onAccusation = wrong
	}

	g.TakeTurn(context.Background())
	g.TakeTurn(context.Background())

	// 两次错误指控后仍有一名玩家在场
	assert.Empty(t, g.Result())
	assert.Equal(t, 1, g.countPlaying())

	g.TakeTurn(context.Background())

	assert.Equal(t, NO_CONTESTANTS, g.Result())
	assert.Equal(t, 3, g.Turn())
	assert.Len(t, g.Snapshot().Accusations, 3)
}

func TestInvalidAccusationIsDeclined(t *testing.T) {
	g, fakes := newTestGame(t, MUSTARD, SCARLET, WHITE)

	fakes[MUSTARD].onAccusation = func(PlayerAccusationRequest) (PlayerAccusationResponse, error) {
		// GREEN 不在本局名单中
		return PlayerAccusationResponse{Suspect: GREEN, Weapon: ROPE, Room: HALL}, nil
	}

	g.TakeTurn(context.Background())

	assert.True(t, g.players[0].Playing)
	assert.Empty(t, g.Snapshot().Accusations)
	assert.Empty(t, fakes[SCARLET].accusationResults)
}

func TestUnresponsiveProxyIsTreatedAsDecline(t *testing.T) {
	fakes := map[string]*fakeProxy{}
	proxies := []Proxy{}
	for _, name := range []string{MUSTARD, SCARLET, WHITE} {
		f := &fakeProxy{name: name}
		fakes[name] = f
		proxies = append(proxies, f)
	}

	g, err := NewGame("slow", proxies, GameConfig{Seed: 1, RequestTimeout: 20 * time.Millisecond})
	require.NoError(t, err)

	start := g.players[0].Room
	fakes[MUSTARD].onMove = func(ctx context.Context, req PlayerMoveRequest) (PlayerMoveResponse, error) {
		<-ctx.Done()
		return PlayerMoveResponse{}, ctx.Err()
	}

	g.TakeTurn(context.Background())

	assert.Equal(t, start, g.players[0].Room)
	assert.Equal(t, 1, g.Turn())
}
