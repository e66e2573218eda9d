package client

import (
	"encoding/json"

	"go.uber.org/zap"
)

// 服务器发给客户端的请求类型
const (
	REQ_GAME_STATE        = "GameState"
	REQ_PLAYER_MOVE       = "PlayerMove"
	REQ_SUGGEST           = "Suggest"
	REQ_SUGGESTION_RESULT = "SuggestionResult"
	REQ_ACCUSE            = "Accuse"
	REQ_ACCUSATION_RESULT = "AccusationResult"
	REQ_GAME_OVER         = "GameOver"
)

// RequestWrapper 是服务器向客户端发出的一次请求，
// 客户端需要带着同一个 request_id 回复
type RequestWrapper struct {
	ReqType   string          `json:"request_type"`
	RequestID string          `json:"request_id"`
	Data      json.RawMessage `json:"data"`
}

// 客户端对请求的回复
const (
	RESP_ERROR = "Error"
	RESP_REPLY = "Reply"
)

type ResponseWrapper struct {
	RespType  string          `json:"response_type,omitempty"`
	RequestID string          `json:"request_id"`
	Data      json.RawMessage `json:"data"`
	ErrMsg    string          `json:"error_message,omitempty"`
}

func WrapErrResponse(requestID, errMsg string) ResponseWrapper {
	return ResponseWrapper{
		RespType:  RESP_ERROR,
		RequestID: requestID,
		ErrMsg:    errMsg,
	}
}

func wrapRequest(reqType, requestID string, data any) (RequestWrapper, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return RequestWrapper{}, err
	}

	return RequestWrapper{
		ReqType:   reqType,
		RequestID: requestID,
		Data:      raw,
	}, nil
}

func unwrapReply(reqType string, data json.RawMessage, out any) error {
	// 空回复等同于放弃，保留零值
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		zap.L().Debug(
			"Failed to unwrap reply",
			zap.String("request_type", reqType),
			zap.Error(err),
		)
		return err
	}

	return nil
}
