package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"clueless-be/internal/service/client"
	"clueless-be/internal/service/clue"

	"github.com/sasha-s/go-deadlock"
)

type botPolicy func(req client.RequestWrapper) json.RawMessage

// runBot 在后台不断清空客户端信箱，按 policy 回复每个请求
func runBot(t *testing.T, c *client.Client, policy botPolicy) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	go func() {
		for {
			changed := c.Changed()

			for _, req := range c.Pending() {
				_ = c.Respond(req.RequestID, policy(req))
			}

			select {
			case <-changed:
			case <-ctx.Done():
				return
			}
		}
	}()
}

// 对所有请求都放弃：原地不动，不猜测，不指控
func passivePolicy(client.RequestWrapper) json.RawMessage {
	return nil
}

// 用自己的一张手牌指控，保证指控错误
func wrongAccuserPolicy() botPolicy {
	var hand []string

	return func(req client.RequestWrapper) json.RawMessage {
		switch req.ReqType {
		case client.REQ_GAME_STATE:
			var state clue.GameStateRequest
			if err := json.Unmarshal(req.Data, &state); err == nil {
				hand = state.PlayerCards
			}

		case client.REQ_ACCUSE:
			var ask clue.PlayerAccusationRequest
			if err := json.Unmarshal(req.Data, &ask); err != nil || len(hand) == 0 {
				return nil
			}

			resp := clue.PlayerAccusationResponse{
				Suspect: ask.Suspects[0],
				Weapon:  ask.Weapons[0],
				Room:    ask.Rooms[0],
			}

			card, _ := clue.LookupCard(hand[0])
			switch card.Type {
			case clue.CARD_SUSPECT:
				resp.Suspect = card.Name
			case clue.CARD_WEAPON:
				resp.Weapon = card.Name
			case clue.CARD_ROOM:
				resp.Room = card.Name
			}

			data, _ := json.Marshal(resp)
			return data
		}

		return nil
	}
}

type fakeRecorder struct {
	mu    deadlock.Mutex
	snaps []clue.Snapshot
}

func (r *fakeRecorder) RecordGame(_ context.Context, snap clue.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.snaps = append(r.snaps, snap)
	return nil
}

func (r *fakeRecorder) recorded() []clue.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]clue.Snapshot(nil), r.snaps...)
}

func testGameConfig() clue.GameConfig {
	return clue.GameConfig{
		RequestTimeout:   time.Second,
		BroadcastTimeout: time.Second,
		Seed:             7,
	}
}

func newBotClients(t *testing.T, policy func() botPolicy, names ...string) []clue.Proxy {
	t.Helper()

	proxies := make([]clue.Proxy, 0, len(names))
	for _, name := range names {
		c := client.NewClient(name)
		runBot(t, c, policy())
		t.Cleanup(c.Close)

		proxies = append(proxies, c)
	}

	return proxies
}

// slowed 让机器人在回复前稍作停顿，使不同游戏的回合相互交错
func slowed(policy func() botPolicy, delay time.Duration) func() botPolicy {
	return func() botPolicy {
		inner := policy()
		return func(req client.RequestWrapper) json.RawMessage {
			time.Sleep(delay)
			return inner(req)
		}
	}
}

// newIdleClients 创建从不回复的客户端
func newIdleClients(t *testing.T, names ...string) []clue.Proxy {
	t.Helper()

	proxies := make([]clue.Proxy, 0, len(names))
	for _, name := range names {
		c := client.NewClient(name)
		t.Cleanup(c.Close)

		proxies = append(proxies, c)
	}

	return proxies
}
