package websocket

import (
	"net/http"
	"time"

	"clueless-be/internal/service/client"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// NOTE: 暂时允许所有来源
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

const (
	// 心跳间隔
	HEARTBEAT_INTERVAL = 30 * time.Second
	// 心跳超时时间，超过后视为连接断开
	HEARTBEAT_TIMEOUT = 45 * time.Second
	// 单次写入的超时时间
	WRITE_TIMEOUT = 10 * time.Second
	// 读协程交给写协程的错误回复缓冲
	ERR_BUFFER_SIZE = 16
)

// 收到 pong 时顺延读超时，并记录客户端仍然在线
var heartbeatHandler = func(conn *websocket.Conn, c *client.Client) func(string) error {
	return func(string) error {
		c.Touch()
		return conn.SetReadDeadline(time.Now().Add(HEARTBEAT_TIMEOUT))
	}
}
