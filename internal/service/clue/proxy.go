package clue

import "context"

// Proxy 是游戏与远端参与者之间唯一的通道。
// 所有方法都会阻塞直到对方响应或 ctx 结束，具体的传输方式（轮询、
// WebSocket 等）对游戏不可见。
//
// 游戏不会对推送内容做按接收方的脱敏处理：SendSuggestionResult
// 收到的是包含反驳卡牌的完整事件，是否隐藏由代理实现决定。
type Proxy interface {
	ID() string
	PlayerName() string

	SendGameState(ctx context.Context, req GameStateRequest) error
	RequestMove(ctx context.Context, req PlayerMoveRequest) (PlayerMoveResponse, error)
	RequestSuggestion(ctx context.Context, req PlayerSuggestionRequest) (PlayerSuggestionResponse, error)
	SendSuggestionResult(ctx context.Context, res PlayerSuggestionResult) error
	RequestAccusation(ctx context.Context, req PlayerAccusationRequest) (PlayerAccusationResponse, error)
	SendAccusationResult(ctx context.Context, res PlayerAccusationResult) error
	SendGameOver(ctx context.Context, req GameOverRequest) error
}
