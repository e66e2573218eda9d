package service

import (
	"errors"
	"slices"
	"time"

	"clueless-be/internal/service/client"
	"clueless-be/internal/service/clue"
	"clueless-be/internal/service/dto"

	"github.com/sasha-s/go-deadlock"
	"go.uber.org/zap"
)

var (
	ErrClientNotFound = errors.New("client not found")
	ErrCharacterTaken = errors.New("character already chosen by a waiting player")
)

type LobbyConfig struct {
	MinPlayers int
	MaxPlayers int
	// 不在进行中游戏里的客户端超过该时长无活动即被移除
	ClientTimeout time.Duration
}

// LobbyService 管理已加入的客户端和等待队列，凑够人数后交给 GameService 开局
type LobbyService struct {
	cfg   LobbyConfig
	games *GameService
	state *lobbyServiceState
}

type lobbyServiceState struct {
	mu deadlock.RWMutex

	// 从客户端 ID 到客户端的映射
	clients map[string]*client.Client
	// 按加入顺序排列的等待中客户端 ID
	waiting []string

	cleanUpDone chan struct{}
}

func NewLobbyService(cfg LobbyConfig, games *GameService) *LobbyService {
	state := &lobbyServiceState{
		clients:     make(map[string]*client.Client),
		waiting:     make([]string, 0),
		cleanUpDone: make(chan struct{}),
	}

	ls := &LobbyService{
		cfg:   cfg,
		games: games,
		state: state,
	}

	if cfg.ClientTimeout > 0 {
		go ls.startCleanupLoop()
	}

	return ls
}

func (ls *LobbyService) startCleanupLoop() {
	ticker := time.NewTicker(cleanupInterval(ls.cfg.ClientTimeout))
	defer ticker.Stop()

	for {
		select {
		case <-ls.state.cleanUpDone:
			return

		case <-ticker.C:
			ls.state.mu.Lock()

			for clientID, c := range ls.state.clients {
				if ls.isClientIdle(c) {
					zap.S().Infof("客户端 %s(%s) 长时间无活动，开始清理", clientID, c.PlayerName())

					ls.removeLocked(clientID)
					c.Close()
				}
			}

			ls.state.mu.Unlock()
		}
	}
}

func (ls *LobbyService) Close() {
	close(ls.state.cleanUpDone)

	ls.state.mu.Lock()
	defer ls.state.mu.Unlock()

	for _, c := range ls.state.clients {
		c.Close()
	}
}

// Join 登记一个客户端。玩家名称必须是合法角色，且不能与等待队列中的玩家重复
func (ls *LobbyService) Join(req dto.JoinGameRequest) dto.JoinGameResponse {
	resp := dto.JoinGameResponse{Player: req.Player}

	if !clue.IsCharacter(req.Player) {
		zap.S().Infof("拒绝加入：%q 不是可选角色", req.Player)
		return resp
	}

	ls.state.mu.Lock()
	defer ls.state.mu.Unlock()

	for _, id := range ls.state.waiting {
		if ls.state.clients[id].PlayerName() == req.Player {
			zap.S().Infof("拒绝加入：角色 %s 已被等待中的玩家选择", req.Player)
			return resp
		}
	}

	c := client.NewClient(req.Player)
	ls.state.clients[c.ID()] = c
	ls.state.waiting = append(ls.state.waiting, c.ID())

	zap.S().Infof("客户端 %s 以 %s 加入大厅", c.ID(), req.Player)

	resp.ClientID = c.ID()
	resp.Accepted = true

	return resp
}

// RequestGame 在等待人数足够时开局。人数超过上限时，取最早等待的
// max_players-1 名玩家加上请求者本人；服务器满载时返回 ErrCapacity。
func (ls *LobbyService) RequestGame(req dto.RequestGameRequest) (dto.RequestGameResponse, error) {
	resp := dto.RequestGameResponse{ClientID: req.ClientID}

	ls.state.mu.Lock()
	defer ls.state.mu.Unlock()

	requester, ok := ls.state.clients[req.ClientID]
	if !ok {
		return resp, ErrClientNotFound
	}

	requester.Touch()

	// 已经在游戏中的客户端直接拿到自己的游戏；游戏已停止的客户端重新排队
	if gameID := requester.GameID(); gameID != "" {
		if ls.games.IsActive(gameID) {
			resp.GameID = gameID
			return resp, nil
		}

		if err := ls.requeueLocked(requester); err != nil {
			return resp, err
		}
	}

	if len(ls.state.waiting) < ls.cfg.MinPlayers {
		return resp, nil
	}

	roster := ls.pickRosterLocked(req.ClientID)

	proxies := make([]clue.Proxy, 0, len(roster))
	for _, id := range roster {
		proxies = append(proxies, ls.state.clients[id])
	}

	gameID, err := ls.games.CreateGame(proxies)
	if err != nil {
		if errors.Is(err, ErrCapacity) {
			resp.Error = "try later"
		}
		return resp, err
	}

	for _, id := range roster {
		ls.state.clients[id].SetGameID(gameID)
	}

	ls.state.waiting = slices.DeleteFunc(ls.state.waiting, func(id string) bool {
		return slices.Contains(roster, id)
	})

	if err := ls.games.RunGame(gameID); err != nil {
		return resp, err
	}

	zap.L().Info(
		"大厅开局",
		zap.String("game_id", gameID),
		zap.String("requested_by", req.ClientID),
		zap.Int("players", len(roster)),
	)

	resp.GameID = gameID

	return resp, nil
}

func (ls *LobbyService) PlayerCount(req dto.PlayerCountRequest) dto.PlayerCountResponse {
	ls.state.mu.RLock()
	defer ls.state.mu.RUnlock()

	if c, ok := ls.state.clients[req.ClientID]; ok {
		c.Touch()
	}

	return dto.PlayerCountResponse{
		ClientID: req.ClientID,
		Count:    len(ls.state.waiting),
	}
}

func (ls *LobbyService) Client(clientID string) (*client.Client, error) {
	ls.state.mu.RLock()
	defer ls.state.mu.RUnlock()

	c, ok := ls.state.clients[clientID]
	if !ok {
		return nil, ErrClientNotFound
	}

	return c, nil
}

func (ls *LobbyService) Clients() []dto.ClientInfo {
	ls.state.mu.RLock()
	defer ls.state.mu.RUnlock()

	infos := make([]dto.ClientInfo, 0, len(ls.state.clients))
	for _, c := range ls.state.clients {
		infos = append(infos, dto.ClientInfo{
			ClientID: c.ID(),
			Player:   c.PlayerName(),
			GameID:   c.GameID(),
			Pending:  len(c.Pending()),
			LastSeen: c.LastSeen(),
		})
	}

	slices.SortFunc(infos, func(a, b dto.ClientInfo) int {
		return a.LastSeen.Compare(b.LastSeen)
	})

	return infos
}

func (ls *LobbyService) pickRosterLocked(requesterID string) []string {
	waiting := ls.state.waiting
	if len(waiting) <= ls.cfg.MaxPlayers {
		return slices.Clone(waiting)
	}

	roster := make([]string, 0, ls.cfg.MaxPlayers)
	for _, id := range waiting {
		if len(roster) == ls.cfg.MaxPlayers-1 {
			break
		}
		if id != requesterID {
			roster = append(roster, id)
		}
	}

	return append(roster, requesterID)
}

func (ls *LobbyService) requeueLocked(c *client.Client) error {
	for _, id := range ls.state.waiting {
		if ls.state.clients[id].PlayerName() == c.PlayerName() {
			return ErrCharacterTaken
		}
	}

	c.SetGameID("")
	ls.state.waiting = append(ls.state.waiting, c.ID())

	zap.S().Infof("客户端 %s(%s) 的游戏已停止，重新进入等待队列", c.ID(), c.PlayerName())

	return nil
}

func (ls *LobbyService) isClientIdle(c *client.Client) bool {
	if time.Since(c.LastSeen()) <= ls.cfg.ClientTimeout {
		return false
	}

	gameID := c.GameID()

	return gameID == "" || !ls.games.IsActive(gameID)
}

func (ls *LobbyService) removeLocked(clientID string) {
	delete(ls.state.clients, clientID)
	ls.state.waiting = slices.DeleteFunc(ls.state.waiting, func(id string) bool {
		return id == clientID
	})
}
