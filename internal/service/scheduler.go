package service

import (
	"context"
	"errors"
	"time"

	"clueless-be/internal/service/clue"
	"clueless-be/internal/service/dto"

	"go.uber.org/zap"
)

var (
	ErrNotRunning = errors.New("game is not running")
	ErrNotPaused  = errors.New("game is not paused")
	ErrStarted    = errors.New("game already started")
)

const RECORD_TIMEOUT = 5 * time.Second

// RunGame 为游戏启动独立的工作协程，一直执行回合直到产生结果或被终止
func (gs *GameService) RunGame(gameID string) error {
	entry, err := gs.entry(gameID)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	if entry.status != dto.STATUS_CREATED {
		entry.mu.Unlock()
		return ErrStarted
	}
	entry.status = dto.STATUS_RUNNING
	entry.mu.Unlock()

	gs.workers.Go(func() {
		gs.gameLoop(entry)
	})

	zap.S().Infof("游戏 %s 开始运行", gameID)

	return nil
}

// Pause 在当前回合结束后挂起游戏，挂起期间让出工作槽位
func (gs *GameService) Pause(gameID string) error {
	entry, err := gs.entry(gameID)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.status != dto.STATUS_RUNNING {
		return ErrNotRunning
	}

	entry.status = dto.STATUS_PAUSED
	entry.resumeCh = make(chan struct{})

	zap.S().Infof("游戏 %s 已暂停", gameID)

	return nil
}

func (gs *GameService) Resume(gameID string) error {
	entry, err := gs.entry(gameID)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.status != dto.STATUS_PAUSED {
		return ErrNotPaused
	}

	entry.status = dto.STATUS_RUNNING
	close(entry.resumeCh)
	entry.resumeCh = nil

	zap.S().Infof("游戏 %s 已恢复", gameID)

	return nil
}

// Kill 让游戏在下一次回合检查时退出，不产生结果
func (gs *GameService) Kill(gameID string) error {
	entry, err := gs.entry(gameID)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if isStopped(entry.status) || entry.killed() {
		return ErrGameStopped
	}

	close(entry.killCh)

	// 还没有工作协程的游戏直接在这里收尾
	if entry.status == dto.STATUS_CREATED {
		entry.status = dto.STATUS_KILLED
		entry.stoppedAt = time.Now()
		gs.releaseSlotLocked(entry)
	}

	zap.S().Infof("游戏 %s 收到终止指令", gameID)

	return nil
}

func (gs *GameService) gameLoop(entry *gameEntry) {
	gameID := entry.game.ID

	defer gs.finish(entry)

	for {
		if entry.killed() || gs.ctx.Err() != nil {
			return
		}

		if resumeCh := entry.pausedCh(); resumeCh != nil {
			gs.releaseSlot(entry)
			zap.S().Debugf("游戏 %s 暂停中，已让出工作槽位", gameID)

			select {
			case <-resumeCh:
			case <-entry.killCh:
				return
			case <-gs.ctx.Done():
				return
			}

			if !gs.acquireSlot(entry) {
				return
			}

			zap.S().Debugf("游戏 %s 重新获得工作槽位", gameID)
			continue
		}

		entry.game.TakeTurn(gs.ctx)

		if entry.game.IsFinished() {
			return
		}

		if !gs.yield(entry) {
			return
		}
	}
}

// yield 在回合之间等待 turn_interval，期间收到终止指令则返回 false
func (gs *GameService) yield(entry *gameEntry) bool {
	if gs.cfg.TurnInterval <= 0 {
		return !entry.killed()
	}

	timer := time.NewTimer(gs.cfg.TurnInterval)

	select {
	case <-timer.C:
		return true

	case <-entry.killCh:
	case <-gs.ctx.Done():
	}

	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}

	return false
}

func (gs *GameService) finish(entry *gameEntry) {
	gs.releaseSlot(entry)

	snap := entry.game.Snapshot()

	if !snap.Finished() {
		entry.setStatus(dto.STATUS_KILLED)
		zap.L().Info(
			"游戏被终止",
			zap.String("game_id", snap.ID),
			zap.Int("turn", snap.Turn),
		)
		return
	}

	entry.setStatus(dto.STATUS_FINISHED)
	zap.L().Info(
		"游戏结束",
		zap.String("game_id", snap.ID),
		zap.String("result", snap.Result),
		zap.Int("turn", snap.Turn),
	)

	gs.record(snap)
}

func (gs *GameService) record(snap clue.Snapshot) {
	if gs.recorder == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), RECORD_TIMEOUT)
	defer cancel()

	if err := gs.recorder.RecordGame(ctx, snap); err != nil {
		zap.L().Error(
			"保存游戏结果失败",
			zap.String("game_id", snap.ID),
			zap.Error(err),
		)
	}
}

func (gs *GameService) acquireSlot(entry *gameEntry) bool {
	select {
	case gs.slots <- struct{}{}:
	case <-entry.killCh:
		return false
	case <-gs.ctx.Done():
		return false
	}

	entry.mu.Lock()
	entry.holdsSlot = true
	entry.mu.Unlock()

	return true
}

func (gs *GameService) releaseSlot(entry *gameEntry) {
	entry.mu.Lock()
	defer entry.mu.Unlock()

	gs.releaseSlotLocked(entry)
}

func (gs *GameService) releaseSlotLocked(entry *gameEntry) {
	if !entry.holdsSlot {
		return
	}

	entry.holdsSlot = false
	<-gs.slots
}
