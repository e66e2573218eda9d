package dto

// 加入是客户端的第一个请求，玩家名称即所选角色
type JoinGameRequest struct {
	Player string `json:"player"`
}

type JoinGameResponse struct {
	ClientID string `json:"client_id"`
	Player   string `json:"player"`
	Accepted bool   `json:"accepted"`
}

// 等待中的玩家不足时 game_id 为空，服务器满载时返回 error
type RequestGameRequest struct {
	ClientID string `json:"client_id"`
}

type RequestGameResponse struct {
	ClientID string `json:"client_id"`
	GameID   string `json:"game_id"`
	Error    string `json:"error,omitempty"`
}

type PlayerCountRequest struct {
	ClientID string `json:"client_id"`
}

type PlayerCountResponse struct {
	ClientID string `json:"client_id"`
	Count    int    `json:"count"`
}
