package dto

import "encoding/json"

// 客户端通过轮询接口提交的回复
type RespondRequest struct {
	ClientID  string          `json:"client_id"`
	RequestID string          `json:"request_id"`
	Data      json.RawMessage `json:"data"`
}

type RespondResponse struct {
	Accepted bool `json:"accepted"`
}

// 游戏状态
const (
	STATUS_CREATED  = "Created"
	STATUS_RUNNING  = "Running"
	STATUS_PAUSED   = "Paused"
	STATUS_FINISHED = "Finished"
	STATUS_KILLED   = "Killed"
)

type GameSummary struct {
	GameID  string   `json:"game_id"`
	Status  string   `json:"status"`
	Players []string `json:"players"`
	Turn    int      `json:"turn"`
	Result  string   `json:"result"`
}

// 运维操作：暂停、恢复、终止
const (
	CONTROL_PAUSE  = "pause"
	CONTROL_RESUME = "resume"
	CONTROL_KILL   = "kill"
)

type ControlResponse struct {
	GameID string `json:"game_id"`
	Status string `json:"status"`
}
