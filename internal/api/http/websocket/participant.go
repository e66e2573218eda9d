package websocket

import (
	"encoding/json"
	"time"

	"clueless-be/internal/service/client"
	"clueless-be/internal/state"

	"github.com/gorilla/websocket"
	"github.com/kataras/iris/v12"
	"go.uber.org/zap"
)

// Connect 把客户端信箱接到一条 WebSocket 连接上：信箱里出现的请求被推送给客户端，
// 客户端发来的回复交给信箱。连接断开后未回复的请求仍留在信箱中，
// 重新连接或改用轮询都会再次收到。
func Connect(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		c, err := appState.Lobby.Client(ctx.URLParam("client_id"))
		if err != nil {
			ctx.StatusCode(iris.StatusNotFound)
			ctx.JSON(iris.Map{
				"error": err.Error(),
			})
			return
		}

		conn, err := upgrader.Upgrade(
			ctx.ResponseWriter(),
			ctx.Request(),
			nil,
		)
		if err != nil {
			zap.L().Error("升级到WebSocket失败", zap.Error(err))
			ctx.StatusCode(iris.StatusBadRequest)
			return
		}

		defer conn.Close()

		clientIP := ctx.RemoteAddr()

		c.Touch()
		conn.SetReadDeadline(time.Now().Add(HEARTBEAT_TIMEOUT))
		conn.SetPongHandler(heartbeatHandler(conn, c))

		zap.L().Info(
			"客户端通过WebSocket连接",
			zap.String("client_ip", clientIP),
			zap.String("client_id", c.ID()),
			zap.String("player", c.PlayerName()),
		)

		errCh := make(chan client.ResponseWrapper, ERR_BUFFER_SIZE)

		// 写协程的退出信号
		writeDoneCh := make(chan struct{})
		defer close(writeDoneCh)

		go writeLoop(conn, c, errCh, writeDoneCh, clientIP)

		readLoop(conn, c, errCh, clientIP)

		zap.L().Info(
			"客户端连接断开，未回复的请求保留在信箱中",
			zap.String("client_ip", clientIP),
			zap.String("client_id", c.ID()),
			zap.Int("pending", len(c.Pending())),
		)
	}
}

func readLoop(conn *websocket.Conn, c *client.Client, errCh chan<- client.ResponseWrapper, clientIP string) {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(
				err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
			) {
				zap.L().Error(
					"读取消息失败",
					zap.String("client_ip", clientIP),
					zap.Error(err),
				)
			}

			return
		}

		c.Touch()

		var wrapper client.ResponseWrapper

		if err := json.Unmarshal(msg, &wrapper); err != nil {
			zap.L().Warn(
				"解析回复失败",
				zap.String("client_ip", clientIP),
				zap.Error(err),
			)

			sendErr(errCh, client.WrapErrResponse("", "无效的回复格式"))
			continue
		}

		data := wrapper.Data

		// 客户端无法处理的请求按放弃处理
		if wrapper.RespType == client.RESP_ERROR {
			zap.L().Warn(
				"客户端报告错误",
				zap.String("client_id", c.ID()),
				zap.String("request_id", wrapper.RequestID),
				zap.String("error", wrapper.ErrMsg),
			)

			data = nil
		}

		if err := c.Respond(wrapper.RequestID, data); err != nil {
			zap.L().Debug(
				"回复没有对应的请求",
				zap.String("client_id", c.ID()),
				zap.String("request_id", wrapper.RequestID),
				zap.Error(err),
			)

			sendErr(errCh, client.WrapErrResponse(wrapper.RequestID, err.Error()))
		}
	}
}

func writeLoop(
	conn *websocket.Conn,
	c *client.Client,
	errCh <-chan client.ResponseWrapper,
	doneCh <-chan struct{},
	clientIP string,
) {
	ticker := time.NewTicker(HEARTBEAT_INTERVAL)
	defer ticker.Stop()

	// 本连接上已经推送过的请求
	sent := make(map[string]struct{})

	for {
		changed := c.Changed()

		if err := pushPending(conn, c, sent); err != nil {
			zap.L().Error(
				"推送请求失败",
				zap.String("client_ip", clientIP),
				zap.Error(err),
			)

			conn.Close()
			return
		}

		select {
		case <-doneCh:
			zap.L().Debug(
				"WebSocket写入协程退出",
				zap.String("client_ip", clientIP),
			)
			return

		case <-changed:

		case resp := <-errCh:
			conn.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT))
			if err := conn.WriteJSON(resp); err != nil {
				zap.L().Error(
					"发送错误回复失败",
					zap.String("client_ip", clientIP),
					zap.Error(err),
				)

				conn.Close()
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				zap.L().Error(
					"发送心跳失败",
					zap.String("client_ip", clientIP),
					zap.Error(err),
				)

				conn.Close()
				return
			}

			zap.L().Debug(
				"发送心跳",
				zap.String("client_ip", clientIP),
			)
		}
	}
}

// pushPending 推送信箱中本连接还没发过的请求，并忘掉已经回复的请求
func pushPending(conn *websocket.Conn, c *client.Client, sent map[string]struct{}) error {
	pending := c.Pending()

	live := make(map[string]struct{}, len(pending))

	for _, req := range pending {
		live[req.RequestID] = struct{}{}

		if _, ok := sent[req.RequestID]; ok {
			continue
		}

		conn.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT))
		if err := conn.WriteJSON(req); err != nil {
			return err
		}

		sent[req.RequestID] = struct{}{}

		zap.L().Debug(
			"推送请求",
			zap.String("client_id", c.ID()),
			zap.String("request_type", req.ReqType),
			zap.String("request_id", req.RequestID),
		)
	}

	for id := range sent {
		if _, ok := live[id]; !ok {
			delete(sent, id)
		}
	}

	return nil
}

func sendErr(errCh chan<- client.ResponseWrapper, resp client.ResponseWrapper) {
	select {
	case errCh <- resp:
	default:
		zap.L().Warn("错误回复缓冲已满，丢弃", zap.String("request_id", resp.RequestID))
	}
}
