package service

import (
	"slices"
	"strings"
	"time"

	"clueless-be/internal/service/clue"
	"clueless-be/internal/service/dto"

	"github.com/sasha-s/go-deadlock"
)

type gameEntry struct {
	game    *clue.Game
	players []string

	mu     deadlock.Mutex
	status string
	// 暂停期间非空，恢复时关闭
	resumeCh chan struct{}
	killCh   chan struct{}
	// 条目是否持有一个工作槽位
	holdsSlot bool
	stoppedAt time.Time
}

func newGameEntry(game *clue.Game, proxies []clue.Proxy) *gameEntry {
	players := make([]string, 0, len(proxies))
	for _, p := range proxies {
		players = append(players, p.PlayerName())
	}

	return &gameEntry{
		game:      game,
		players:   players,
		status:    dto.STATUS_CREATED,
		killCh:    make(chan struct{}),
		holdsSlot: true,
	}
}

func (e *gameEntry) getStatus() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.status
}

func (e *gameEntry) setStatus(status string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.status = status
	if isStopped(status) {
		e.stoppedAt = time.Now()
	}
}

// pausedCh 在游戏暂停时返回恢复信号通道，否则返回 nil
func (e *gameEntry) pausedCh() <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status != dto.STATUS_PAUSED {
		return nil
	}

	return e.resumeCh
}

func (e *gameEntry) killed() bool {
	select {
	case <-e.killCh:
		return true
	default:
		return false
	}
}

func isStopped(status string) bool {
	return status == dto.STATUS_FINISHED || status == dto.STATUS_KILLED
}

func isEntryExpired(entry *gameEntry, retention time.Duration) bool {
	if entry == nil {
		return true
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if !isStopped(entry.status) {
		return false
	}

	return time.Since(entry.stoppedAt) > retention
}

func cleanupInterval(retention time.Duration) time.Duration {
	if retention < time.Minute {
		return retention
	}

	return time.Minute
}

func summarize(entry *gameEntry) dto.GameSummary {
	snap := entry.game.Snapshot()

	return dto.GameSummary{
		GameID:  snap.ID,
		Status:  entry.getStatus(),
		Players: slices.Clone(entry.players),
		Turn:    snap.Turn,
		Result:  snap.Result,
	}
}

func sortSummaries(summaries []dto.GameSummary) {
	slices.SortFunc(summaries, func(a, b dto.GameSummary) int {
		return strings.Compare(a.GameID, b.GameID)
	})
}
