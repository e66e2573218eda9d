package client

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"clueless-be/internal/service/clue"

	"github.com/sasha-s/go-deadlock"
	"go.uber.org/zap"
)

var (
	ErrStaleResponse = errors.New("no pending request with this id")
	ErrClosed        = errors.New("client closed")
)

type pendingRequest struct {
	wrapper RequestWrapper
	replyCh chan json.RawMessage
}

// Client 是远端参与者在服务器上的代理，实现 clue.Proxy。
// 游戏发出的每个请求都先进入信箱，由传输层（轮询或 WebSocket）取出
// 交给客户端；客户端带着 request_id 回复后，阻塞的游戏协程才会继续。
// 未回复的请求可以被重复投递，已回复的请求不会被再次接受。
type Client struct {
	id         string
	playerName string

	mu       deadlock.Mutex
	gameID   string
	pending  []*pendingRequest
	changed  chan struct{}
	closed   bool
	lastSeen time.Time
}

func NewClient(playerName string) *Client {
	return &Client{
		id:         ShortID(),
		playerName: playerName,
		changed:    make(chan struct{}),
		lastSeen:   time.Now(),
	}
}

func (c *Client) ID() string {
	return c.id
}

func (c *Client) PlayerName() string {
	return c.playerName
}

func (c *Client) GameID() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.gameID
}

func (c *Client) SetGameID(gameID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gameID = gameID
}

func (c *Client) LastSeen() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lastSeen
}

func (c *Client) Touch() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastSeen = time.Now()
}

// Pending 按发出顺序返回所有尚未回复的请求
func (c *Client) Pending() []RequestWrapper {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make([]RequestWrapper, 0, len(c.pending))
	for _, p := range c.pending {
		result = append(result, p.wrapper)
	}

	return result
}

func (c *Client) Oldest() (RequestWrapper, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.pending) == 0 {
		return RequestWrapper{}, false
	}

	return c.pending[0].wrapper, true
}

// Changed 返回的通道在信箱内容变化时关闭，每次等待前需要重新获取
func (c *Client) Changed() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.changed
}

// Respond 把客户端的回复交给等待中的请求，每个请求只接受一次回复
func (c *Client) Respond(requestID string, data json.RawMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastSeen = time.Now()

	for i, p := range c.pending {
		if p.wrapper.RequestID != requestID {
			continue
		}

		c.pending = append(c.pending[:i], c.pending[i+1:]...)
		p.replyCh <- data
		c.notifyLocked()

		return nil
	}

	return ErrStaleResponse
}

// Close 让所有等待中的请求立即失败，之后的请求直接返回 ErrClosed
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.closed = true

	for _, p := range c.pending {
		close(p.replyCh)
	}

	c.pending = nil
	c.notifyLocked()
}

func (c *Client) notifyLocked() {
	close(c.changed)
	c.changed = make(chan struct{})
}

func (c *Client) remove(requestID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, p := range c.pending {
		if p.wrapper.RequestID == requestID {
			c.pending = append(c.pending[:i], c.pending[i+1:]...)
			c.notifyLocked()
			return true
		}
	}

	return false
}

func (c *Client) roundTrip(ctx context.Context, reqType string, data any, out any) error {
	wrapper, err := wrapRequest(reqType, GenID(), data)
	if err != nil {
		return err
	}

	p := &pendingRequest{
		wrapper: wrapper,
		replyCh: make(chan json.RawMessage, 1),
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}

	c.pending = append(c.pending, p)
	c.notifyLocked()
	c.mu.Unlock()

	zap.L().Debug(
		"请求进入信箱",
		zap.String("client_id", c.id),
		zap.String("request_type", reqType),
		zap.String("request_id", wrapper.RequestID),
	)

	select {
	case reply, ok := <-p.replyCh:
		if !ok {
			return ErrClosed
		}

		return unwrapReply(reqType, reply, out)

	case <-ctx.Done():
		// 回复与超时同时发生时以回复为准
		if !c.remove(wrapper.RequestID) {
			reply, ok := <-p.replyCh
			if !ok {
				return ErrClosed
			}

			return unwrapReply(reqType, reply, out)
		}

		return ctx.Err()
	}
}

func (c *Client) SendGameState(ctx context.Context, req clue.GameStateRequest) error {
	req.ClientID = c.id

	var ack clue.AckResponse
	return c.roundTrip(ctx, REQ_GAME_STATE, req, &ack)
}

func (c *Client) RequestMove(ctx context.Context, req clue.PlayerMoveRequest) (clue.PlayerMoveResponse, error) {
	req.ClientID = c.id

	var resp clue.PlayerMoveResponse
	err := c.roundTrip(ctx, REQ_PLAYER_MOVE, req, &resp)

	return resp, err
}

func (c *Client) RequestSuggestion(ctx context.Context, req clue.PlayerSuggestionRequest) (clue.PlayerSuggestionResponse, error) {
	req.ClientID = c.id

	var resp clue.PlayerSuggestionResponse
	err := c.roundTrip(ctx, REQ_SUGGEST, req, &resp)

	return resp, err
}

// SendSuggestionResult 只让猜测者和反驳者看到被亮出的卡牌
func (c *Client) SendSuggestionResult(ctx context.Context, res clue.PlayerSuggestionResult) error {
	res.ClientID = c.id

	if c.playerName != res.SuggestedBy && c.playerName != res.DisprovedBy {
		res.DisprovedCard = ""
	}

	var ack clue.AckResponse
	return c.roundTrip(ctx, REQ_SUGGESTION_RESULT, res, &ack)
}

func (c *Client) RequestAccusation(ctx context.Context, req clue.PlayerAccusationRequest) (clue.PlayerAccusationResponse, error) {
	req.ClientID = c.id

	var resp clue.PlayerAccusationResponse
	err := c.roundTrip(ctx, REQ_ACCUSE, req, &resp)

	return resp, err
}

func (c *Client) SendAccusationResult(ctx context.Context, res clue.PlayerAccusationResult) error {
	res.ClientID = c.id

	var ack clue.AckResponse
	return c.roundTrip(ctx, REQ_ACCUSATION_RESULT, res, &ack)
}

func (c *Client) SendGameOver(ctx context.Context, req clue.GameOverRequest) error {
	req.ClientID = c.id

	var ack clue.AckResponse
	return c.roundTrip(ctx, REQ_GAME_OVER, req, &ack)
}

var _ clue.Proxy = (*Client)(nil)
