package service

import (
	"context"
	"errors"
	"time"

	"clueless-be/internal/service/client"
	"clueless-be/internal/service/clue"
	"clueless-be/internal/service/dto"

	"github.com/sasha-s/go-deadlock"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

var (
	ErrCapacity     = errors.New("server at capacity, try later")
	ErrGameNotFound = errors.New("game not found")
	ErrGameStopped  = errors.New("game already stopped")
	ErrEmptyRoster  = errors.New("roster is empty")
)

// ResultRecorder 保存已结束游戏的结果
type ResultRecorder interface {
	RecordGame(ctx context.Context, snap clue.Snapshot) error
}

type GameServiceConfig struct {
	// 同时占用工作槽位的游戏数上限
	MaxGames     int
	TurnInterval time.Duration
	// 已停止的游戏在注册表中保留的时长
	Retention time.Duration
	Game      clue.GameConfig
}

// GameService 是游戏注册表和调度器。注册表的锁与每局游戏自己的锁相互独立，
// 请求处理代码读取游戏列表时不会等待任何正在进行的回合。
type GameService struct {
	cfg      GameServiceConfig
	state    *gameServiceState
	recorder ResultRecorder

	// 工作槽位，缓冲区大小即并发上限
	slots chan struct{}

	workers conc.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

type gameServiceState struct {
	mu deadlock.RWMutex

	// 从游戏 ID 到条目的映射
	entries map[string]*gameEntry

	cleanUpDone chan struct{}
}

func NewGameService(cfg GameServiceConfig, recorder ResultRecorder) *GameService {
	if cfg.MaxGames <= 0 {
		cfg.MaxGames = 1
	}

	ctx, cancel := context.WithCancel(context.Background())

	state := &gameServiceState{
		entries:     make(map[string]*gameEntry),
		cleanUpDone: make(chan struct{}),
	}

	gs := &GameService{
		cfg:      cfg,
		state:    state,
		recorder: recorder,
		slots:    make(chan struct{}, cfg.MaxGames),
		ctx:      ctx,
		cancel:   cancel,
	}

	// 定期清理已经停止的游戏
	if cfg.Retention > 0 {
		go startCleanupLoop(state, cfg.Retention)
	}

	return gs
}

func startCleanupLoop(state *gameServiceState, retention time.Duration) {
	ticker := time.NewTicker(cleanupInterval(retention))
	defer ticker.Stop()

	for {
		select {
		case <-state.cleanUpDone:
			return

		case <-ticker.C:
			state.mu.Lock()

			for gameID, entry := range state.entries {
				if isEntryExpired(entry, retention) {
					zap.S().Infof("游戏 %s 已停止超过 %s，从注册表移除", gameID, retention)
					delete(state.entries, gameID)
				}
			}

			state.mu.Unlock()
		}
	}
}

// CreateGame 占用一个工作槽位并登记游戏，槽位已满时返回 ErrCapacity
func (gs *GameService) CreateGame(proxies []clue.Proxy) (string, error) {
	if len(proxies) == 0 {
		return "", ErrEmptyRoster
	}

	select {
	case gs.slots <- struct{}{}:
	default:
		zap.S().Warnf("游戏数已达上限 %d，拒绝创建", gs.cfg.MaxGames)
		return "", ErrCapacity
	}

	gameID := client.ShortID()

	game, err := clue.NewGame(gameID, proxies, gs.cfg.Game)
	if err != nil {
		<-gs.slots
		return "", err
	}

	entry := newGameEntry(game, proxies)

	gs.state.mu.Lock()
	gs.state.entries[gameID] = entry
	gs.state.mu.Unlock()

	zap.L().Info(
		"游戏已创建",
		zap.String("game_id", gameID),
		zap.Strings("players", entry.players),
	)

	return gameID, nil
}

// GetGame 返回最近一次发布的快照，不会等待正在进行的回合
func (gs *GameService) GetGame(gameID string) (clue.Snapshot, error) {
	entry, err := gs.entry(gameID)
	if err != nil {
		return clue.Snapshot{}, err
	}

	return entry.game.Snapshot(), nil
}

func (gs *GameService) Status(gameID string) (string, error) {
	entry, err := gs.entry(gameID)
	if err != nil {
		return "", err
	}

	return entry.getStatus(), nil
}

// IsActive 报告游戏是否仍在注册表中且未停止
func (gs *GameService) IsActive(gameID string) bool {
	entry, err := gs.entry(gameID)
	if err != nil {
		return false
	}

	return !isStopped(entry.getStatus())
}

func (gs *GameService) ListGames() []dto.GameSummary {
	gs.state.mu.RLock()
	entries := make([]*gameEntry, 0, len(gs.state.entries))
	for _, entry := range gs.state.entries {
		entries = append(entries, entry)
	}
	gs.state.mu.RUnlock()

	summaries := make([]dto.GameSummary, 0, len(entries))
	for _, entry := range entries {
		summaries = append(summaries, summarize(entry))
	}

	sortSummaries(summaries)

	return summaries
}

func (gs *GameService) Close() {
	close(gs.state.cleanUpDone)
	gs.cancel()

	if recovered := gs.workers.WaitAndRecover(); recovered != nil {
		zap.L().Error("游戏协程异常退出", zap.String("panic", recovered.String()))
	}
}

func (gs *GameService) entry(gameID string) (*gameEntry, error) {
	gs.state.mu.RLock()
	defer gs.state.mu.RUnlock()

	entry, ok := gs.state.entries[gameID]
	if !ok {
		return nil, ErrGameNotFound
	}

	return entry, nil
}
