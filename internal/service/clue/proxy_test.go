package clue

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeProxy struct {
	name string

	onMove       func(context.Context, PlayerMoveRequest) (PlayerMoveResponse, error)
	onSuggestion func(PlayerSuggestionRequest) (PlayerSuggestionResponse, error)
	onAccusation func(PlayerAccusationRequest) (PlayerAccusationResponse, error)

	mu                sync.Mutex
	states            []GameStateRequest
	moveRequests      []PlayerMoveRequest
	suggestRequests   []PlayerSuggestionRequest
	suggestionResults []PlayerSuggestionResult
	accusationResults []PlayerAccusationResult
	gameOvers         []GameOverRequest
}

func (f *fakeProxy) ID() string         { return "client-" + f.name }
func (f *fakeProxy) PlayerName() string { return f.name }

func (f *fakeProxy) SendGameState(ctx context.Context, req GameStateRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states = append(f.states, req)
	return nil
}

func (f *fakeProxy) RequestMove(ctx context.Context, req PlayerMoveRequest) (PlayerMoveResponse, error) {
	f.mu.Lock()
	f.moveRequests = append(f.moveRequests, req)
	f.mu.Unlock()

	if f.onMove == nil {
		return PlayerMoveResponse{}, nil
	}
	return f.onMove(ctx, req)
}

func (f *fakeProxy) RequestSuggestion(ctx context.Context, req PlayerSuggestionRequest) (PlayerSuggestionResponse, error) {
	f.mu.Lock()
	f.suggestRequests = append(f.suggestRequests, req)
	f.mu.Unlock()

	if f.onSuggestion == nil {
		return PlayerSuggestionResponse{}, nil
	}
	return f.onSuggestion(req)
}

func (f *fakeProxy) SendSuggestionResult(ctx context.Context, res PlayerSuggestionResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.suggestionResults = append(f.suggestionResults, res)
	return nil
}

func (f *fakeProxy) RequestAccusation(ctx context.Context, req PlayerAccusationRequest) (PlayerAccusationResponse, error) {
	if f.onAccusation == nil {
		return PlayerAccusationResponse{}, nil
	}
	return f.onAccusation(req)
}

func (f *fakeProxy) SendAccusationResult(ctx context.Context, res PlayerAccusationResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accusationResults = append(f.accusationResults, res)
	return nil
}

func (f *fakeProxy) SendGameOver(ctx context.Context, req GameOverRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gameOvers = append(f.gameOvers, req)
	return nil
}

func newTestGame(t *testing.T, names ...string) (*Game, map[string]*fakeProxy) {
	t.Helper()

	fakes := make(map[string]*fakeProxy, len(names))
	proxies := make([]Proxy, 0, len(names))
	for _, name := range names {
		f := &fakeProxy{name: name}
		fakes[name] = f
		proxies = append(proxies, f)
	}

	g, err := NewGame("test-game", proxies, GameConfig{Seed: 42})
	require.NoError(t, err)

	return g, fakes
}

func mustRoom(t *testing.T, name string) *Room {
	t.Helper()

	room, err := DefaultBoard().Lookup(name)
	require.NoError(t, err)

	return room
}
