package clue

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/sasha-s/go-deadlock"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

const (
	DEFAULT_REQUEST_TIMEOUT   = 60 * time.Second
	DEFAULT_BROADCAST_TIMEOUT = 5 * time.Second
)

type GameConfig struct {
	// 单次 Move/Suggest/Accuse 请求的等待上限，超时视为放弃
	RequestTimeout time.Duration
	// 单个代理确认推送的等待上限
	BroadcastTimeout time.Duration
	// 为 0 时随机生成
	Seed uint64
}

// Game 管理一局游戏。所有可变状态只在 TakeTurn 内、持有 mu 时修改；
// 读取通过每个阶段结束后发布的快照完成，不需要等待正在进行的回合。
type Game struct {
	ID string

	mu deadlock.Mutex

	board    *Board
	players  []*Player
	proxies  map[string]Proxy
	murder   MurderTriple
	universe []Card
	rng      *rand.Rand

	turn        int
	result      string
	stage       string
	accusations []Accusation

	requestTimeout   time.Duration
	broadcastTimeout time.Duration

	snapshot atomic.Pointer[Snapshot]
}

// NewGame 按名单顺序创建玩家并发牌，名单顺序即回合顺序
func NewGame(id string, proxies []Proxy, cfg GameConfig) (*Game, error) {
	names := make([]string, 0, len(proxies))
	byName := make(map[string]Proxy, len(proxies))
	for _, p := range proxies {
		names = append(names, p.PlayerName())
		byName[p.PlayerName()] = p
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	rng := NewRand(seed)

	murder, hands, err := Deal(rng, names)
	if err != nil {
		return nil, fmt.Errorf("deal cards: %w", err)
	}

	universe, err := Universe(names)
	if err != nil {
		return nil, fmt.Errorf("build card universe: %w", err)
	}

	board := DefaultBoard()

	players := make([]*Player, 0, len(names))
	for _, name := range names {
		start := START_HALLWAY[name]

		room, err := board.Lookup(HallwayName(start[0], start[1]))
		if err != nil {
			return nil, fmt.Errorf("start room of %s: %w", name, err)
		}

		players = append(players, &Player{
			Name:    name,
			Room:    room,
			Cards:   hands[name],
			Playing: true,
		})
	}

	g := &Game{
		ID:               id,
		board:            board,
		players:          players,
		proxies:          byName,
		murder:           murder,
		universe:         universe,
		rng:              rng,
		stage:            STAGE_IDLE,
		requestTimeout:   cfg.RequestTimeout,
		broadcastTimeout: cfg.BroadcastTimeout,
	}

	if g.requestTimeout <= 0 {
		g.requestTimeout = DEFAULT_REQUEST_TIMEOUT
	}
	if g.broadcastTimeout <= 0 {
		g.broadcastTimeout = DEFAULT_BROADCAST_TIMEOUT
	}

	g.publish()

	return g, nil
}

// TakeTurn 执行完整的一个回合：广播 → 移动 → 猜测 → 指控 → 推进。
// 无论各阶段结果如何，回合计数恰好加一；游戏结束后调用不产生任何效果。
func (g *Game) TakeTurn(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.result != "" {
		return
	}

	g.stage = STAGE_BROADCAST
	handler := newStageHandler(g.stage)

	for handler != nil {
		handler.SetOnSwitch(func(nextStage string) {
			g.stage = nextStage
		})

		handler.OnEnter(ctx, g)
		handler.OnExit(g)

		if g.stage == handler.Stage() {
			zap.L().Error(
				"阶段处理器没有切换阶段",
				zap.String("game_id", g.ID),
				zap.String("stage", g.stage),
			)

			g.stage = fallbackStage(g.stage)
		}

		g.publish()

		handler = newStageHandler(g.stage)
	}
}

func (g *Game) Snapshot() Snapshot {
	return *g.snapshot.Load()
}

func (g *Game) Result() string {
	return g.snapshot.Load().Result
}

func (g *Game) Turn() int {
	return g.snapshot.Load().Turn
}

func (g *Game) IsFinished() bool {
	return g.Result() != ""
}

func (g *Game) activePlayer() *Player {
	return g.players[g.turn%len(g.players)]
}

func (g *Game) playerByName(name string) *Player {
	for _, p := range g.players {
		if p.Name == name {
			return p
		}
	}

	return nil
}

func (g *Game) countPlaying() int {
	count := 0
	for _, p := range g.players {
		if p.Playing {
			count++
		}
	}

	return count
}

// setResult 只在结果为空时写入，结果一旦确定不可再修改
func (g *Game) setResult(result string) bool {
	if g.result != "" {
		zap.L().Error(
			"游戏结果已确定，拒绝覆盖",
			zap.String("game_id", g.ID),
			zap.String("result", g.result),
			zap.String("rejected", result),
		)
		return false
	}

	g.result = result

	return true
}

func (g *Game) requestCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, g.requestTimeout)
}

// broadcast 并发地向所有代理推送，等待每个代理确认或超时后返回。
// 单个代理失败只记录日志，不影响其他代理。
func (g *Game) broadcast(ctx context.Context, action string, send func(ctx context.Context, player *Player, proxy Proxy) error) {
	var wg conc.WaitGroup

	for _, player := range g.players {
		proxy := g.proxies[player.Name]

		wg.Go(func() {
			bctx, cancel := context.WithTimeout(ctx, g.broadcastTimeout)
			defer cancel()

			if err := send(bctx, player, proxy); err != nil {
				zap.L().Warn(
					"推送失败",
					zap.String("game_id", g.ID),
					zap.String("action", action),
					zap.String("player", player.Name),
					zap.String("client_id", proxy.ID()),
					zap.Error(err),
				)
			}
		})
	}

	wg.Wait()
}

func (g *Game) pushGameState(ctx context.Context) {
	whereabouts := make(map[string]string, len(g.players))
	for _, p := range g.players {
		whereabouts[p.Name] = p.Room.Name
	}

	currentTurn := g.activePlayer().Name

	g.broadcast(ctx, "GameState", func(ctx context.Context, player *Player, proxy Proxy) error {
		return proxy.SendGameState(ctx, GameStateRequest{
			GameID:      g.ID,
			Whereabouts: whereabouts,
			CurrentTurn: currentTurn,
			PlayerCards: cardNames(player.Cards),
		})
	})
}

func (g *Game) pushGameOver(ctx context.Context) {
	req := GameOverRequest{
		GameID:  g.ID,
		Result:  g.result,
		Suspect: g.murder.Suspect.Name,
		Weapon:  g.murder.Weapon.Name,
		Room:    g.murder.Room.Name,
	}

	g.broadcast(ctx, "GameOver", func(ctx context.Context, _ *Player, proxy Proxy) error {
		return proxy.SendGameOver(ctx, req)
	})
}

// moveOptions 返回相邻房间（排除被其他玩家占据的走廊），最后一项为原地不动
func (g *Game) moveOptions(player *Player) []*Room {
	adjacent := g.board.AdjacentRooms(player.Room)

	options := make([]*Room, 0, len(adjacent)+1)
	for _, room := range adjacent {
		if room.IsHallway() && g.occupied(room, player) {
			continue
		}

		options = append(options, room)
	}

	return append(options, player.Room)
}

func (g *Game) occupied(room *Room, except *Player) bool {
	for _, p := range g.players {
		if p != except && p.Room.Name == room.Name {
			return true
		}
	}

	return false
}

func (g *Game) move(ctx context.Context, player *Player) {
	options := g.moveOptions(player)

	names := make([]string, 0, len(options))
	for _, room := range options {
		names = append(names, room.Name)
	}

	rctx, cancel := g.requestCtx(ctx)
	resp, err := g.proxies[player.Name].RequestMove(rctx, PlayerMoveRequest{
		GameID:      g.ID,
		MoveOptions: names,
	})
	cancel()

	if err != nil {
		zap.L().Warn(
			"移动请求没有响应，原地不动",
			zap.String("game_id", g.ID),
			zap.String("player", player.Name),
			zap.Error(err),
		)
		return
	}

	for _, room := range options {
		if room.Name == resp.Move {
			player.Room = room

			zap.L().Debug(
				"玩家移动",
				zap.String("game_id", g.ID),
				zap.String("player", player.Name),
				zap.String("room", room.Name),
			)
			return
		}
	}

	zap.L().Debug(
		"移动目标不在可选范围内，原地不动",
		zap.String("game_id", g.ID),
		zap.String("player", player.Name),
		zap.String("move", resp.Move),
		zap.Strings("options", names),
	)
}

func (g *Game) publish() {
	snap := &Snapshot{
		ID:          g.ID,
		Turn:        g.turn,
		Result:      g.result,
		Stage:       g.stage,
		CurrentTurn: g.activePlayer().Name,
		Players:     make([]PlayerSnapshot, 0, len(g.players)),
		Accusations: append([]Accusation(nil), g.accusations...),
	}

	for _, p := range g.players {
		snap.Players = append(snap.Players, PlayerSnapshot{
			Name:      p.Name,
			Room:      p.Room.Name,
			Playing:   p.Playing,
			CardCount: len(p.Cards),
		})
	}

	if g.result != "" {
		murder := g.murder
		snap.Murder = &murder
	}

	g.snapshot.Store(snap)
}

type PlayerSnapshot struct {
	Name      string `json:"name"`
	Room      string `json:"room"`
	Playing   bool   `json:"playing"`
	CardCount int    `json:"card_count"`
}

// Snapshot 是某一时刻游戏状态的只读副本，答案只在游戏结束后公开
type Snapshot struct {
	ID          string           `json:"id"`
	Turn        int              `json:"turn"`
	Result      string           `json:"result"`
	Stage       string           `json:"stage"`
	CurrentTurn string           `json:"current_turn"`
	Players     []PlayerSnapshot `json:"players"`
	Accusations []Accusation     `json:"accusations"`
	Murder      *MurderTriple    `json:"murder,omitempty"`
}

func (s Snapshot) Finished() bool {
	return s.Result != ""
}
