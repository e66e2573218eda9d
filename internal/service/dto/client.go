package dto

import "time"

// 已连接的客户端信息，供调试接口展示
type ClientInfo struct {
	ClientID string    `json:"client_id"`
	Player   string    `json:"player"`
	GameID   string    `json:"game_id"`
	Pending  int       `json:"pending"`
	LastSeen time.Time `json:"last_seen"`
}
