package clue

import (
	"github.com/sasha-s/go-deadlock"
	"go.uber.org/zap"
)

// 游戏、注册表、大厅和客户端的锁都来自 go-deadlock。
// 新版本 Go 下取不到协程 ID，所有协程看起来是同一个，
// 锁顺序检测会把不同游戏的锁误判为死锁，因此只保留等待超时检测。
// 发现疑似死锁时只记录日志，不退出进程。
func init() {
	deadlock.Opts.DisableLockOrderDetection = true
	deadlock.Opts.OnPotentialDeadlock = func() {
		zap.L().Error("检测到疑似死锁：锁等待超过上限")
	}
}
