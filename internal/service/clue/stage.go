package clue

import (
	"context"

	"go.uber.org/zap"
)

// 每个回合依次经过以下阶段：
// 1. 广播阶段（Broadcast）：向所有玩家推送位置、当前回合玩家和各自的手牌
// 2. 移动阶段（Move）：当前玩家从合法目的地中选择一个
// 3. 猜测阶段（Suggest）：当前玩家在房间内提出猜测，按回合顺序寻找反驳者
// 4. 指控阶段（Accuse）：当前玩家可以进行最终指控
// 5. 推进阶段（Advance）：回合计数加一，判断游戏是否结束
// 回合结束后回到空闲阶段（Idle）
const (
	STAGE_IDLE      = "Idle"
	STAGE_BROADCAST = "Broadcast"
	STAGE_MOVE      = "Move"
	STAGE_SUGGEST   = "Suggest"
	STAGE_ACCUSE    = "Accuse"
	STAGE_ADVANCE   = "Advance"
)

type StageHandler interface {
	Stage() string

	OnEnter(ctx context.Context, g *Game)
	OnExit(g *Game)

	SetOnSwitch(func(nextStage string))
}

func newStageHandler(stage string) StageHandler {
	switch stage {
	case STAGE_BROADCAST:
		return &broadcastStageHandler{}
	case STAGE_MOVE:
		return &moveStageHandler{}
	case STAGE_SUGGEST:
		return &suggestStageHandler{}
	case STAGE_ACCUSE:
		return &accuseStageHandler{}
	case STAGE_ADVANCE:
		return &advanceStageHandler{}
	case STAGE_IDLE:
		return nil
	default:
		zap.L().Error("未知的游戏阶段", zap.String("stage", stage))
		return nil
	}
}

// 阶段处理器未切换时按固定顺序继续，保证回合一定能推进
func fallbackStage(stage string) string {
	switch stage {
	case STAGE_BROADCAST:
		return STAGE_MOVE
	case STAGE_MOVE:
		return STAGE_SUGGEST
	case STAGE_SUGGEST:
		return STAGE_ACCUSE
	case STAGE_ACCUSE:
		return STAGE_ADVANCE
	default:
		return STAGE_IDLE
	}
}

// 广播阶段处理器
type broadcastStageHandler struct {
	onSwitch func(string)
}

func (bsh *broadcastStageHandler) Stage() string {
	return STAGE_BROADCAST
}

func (bsh *broadcastStageHandler) OnEnter(ctx context.Context, g *Game) {
	g.pushGameState(ctx)

	bsh.onSwitch(STAGE_MOVE)
}

func (bsh *broadcastStageHandler) OnExit(g *Game) {
}

func (bsh *broadcastStageHandler) SetOnSwitch(onSwitch func(string)) {
	bsh.onSwitch = onSwitch
}

// 移动阶段处理器
type moveStageHandler struct {
	onSwitch func(string)
}

func (msh *moveStageHandler) Stage() string {
	return STAGE_MOVE
}

func (msh *moveStageHandler) OnEnter(ctx context.Context, g *Game) {
	active := g.activePlayer()

	// 已出局的玩家跳过移动、猜测和指控
	if !active.Playing {
		zap.L().Debug(
			"当前玩家已出局，跳过本回合",
			zap.String("game_id", g.ID),
			zap.String("player", active.Name),
		)

		msh.onSwitch(STAGE_ADVANCE)
		return
	}

	g.move(ctx, active)

	msh.onSwitch(STAGE_SUGGEST)
}

func (msh *moveStageHandler) OnExit(g *Game) {
}

func (msh *moveStageHandler) SetOnSwitch(onSwitch func(string)) {
	msh.onSwitch = onSwitch
}

// 猜测阶段处理器
type suggestStageHandler struct {
	onSwitch func(string)
}

func (ssh *suggestStageHandler) Stage() string {
	return STAGE_SUGGEST
}

func (ssh *suggestStageHandler) OnEnter(ctx context.Context, g *Game) {
	g.suggest(ctx, g.activePlayer())

	ssh.onSwitch(STAGE_ACCUSE)
}

func (ssh *suggestStageHandler) OnExit(g *Game) {
}

func (ssh *suggestStageHandler) SetOnSwitch(onSwitch func(string)) {
	ssh.onSwitch = onSwitch
}

// 指控阶段处理器
type accuseStageHandler struct {
	onSwitch func(string)
}

func (ash *accuseStageHandler) Stage() string {
	return STAGE_ACCUSE
}

func (ash *accuseStageHandler) OnEnter(ctx context.Context, g *Game) {
	g.accuse(ctx, g.activePlayer())

	ash.onSwitch(STAGE_ADVANCE)
}

func (ash *accuseStageHandler) OnExit(g *Game) {
}

func (ash *accuseStageHandler) SetOnSwitch(onSwitch func(string)) {
	ash.onSwitch = onSwitch
}

// 推进阶段处理器
type advanceStageHandler struct {
	onSwitch func(string)
}

func (ash *advanceStageHandler) Stage() string {
	return STAGE_ADVANCE
}

func (ash *advanceStageHandler) OnEnter(ctx context.Context, g *Game) {
	g.turn++

	if g.result == "" && g.countPlaying() == 0 {
		g.setResult(NO_CONTESTANTS)
	}

	if g.result != "" {
		zap.L().Info(
			"游戏结束",
			zap.String("game_id", g.ID),
			zap.String("result", g.result),
			zap.Int("turn", g.turn),
		)

		g.pushGameOver(ctx)
	}

	ash.onSwitch(STAGE_IDLE)
}

func (ash *advanceStageHandler) OnExit(g *Game) {
}

func (ash *advanceStageHandler) SetOnSwitch(onSwitch func(string)) {
	ash.onSwitch = onSwitch
}
