package http

import (
	"errors"
	"time"

	"clueless-be/internal/service/client"
	"clueless-be/internal/service/dto"
	"clueless-be/internal/state"

	"github.com/kataras/iris/v12"
	"go.uber.org/zap"
)

const (
	// 长轮询的默认和最大等待时间，单位秒
	DEFAULT_POLL_WAIT = 25
	MAX_POLL_WAIT     = 60
)

// Poll 返回最早一个尚未回复的请求；等待期间没有请求则返回 204。
// 未回复的请求会被重复返回，直到客户端回复为止。
func Poll(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		c, err := appState.Lobby.Client(ctx.URLParam("client_id"))
		if err != nil {
			writeError(ctx, iris.StatusNotFound, err.Error())
			return
		}

		c.Touch()

		wait := ctx.URLParamIntDefault("wait", DEFAULT_POLL_WAIT)
		wait = max(0, min(wait, MAX_POLL_WAIT))

		timer := time.NewTimer(time.Duration(wait) * time.Second)
		defer timer.Stop()

		for {
			changed := c.Changed()

			if req, ok := c.Oldest(); ok {
				ctx.JSON(req)
				return
			}

			select {
			case <-changed:

			case <-timer.C:
				ctx.StatusCode(iris.StatusNoContent)
				return

			case <-ctx.Request().Context().Done():
				return
			}
		}
	}
}

func Respond(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		var req dto.RespondRequest

		if err := ctx.ReadJSON(&req); err != nil {
			writeError(ctx, iris.StatusBadRequest, "请求参数无效")
			return
		}

		c, err := appState.Lobby.Client(req.ClientID)
		if err != nil {
			writeError(ctx, iris.StatusNotFound, err.Error())
			return
		}

		err = c.Respond(req.RequestID, req.Data)
		switch {
		case err == nil:
			ctx.JSON(dto.RespondResponse{Accepted: true})

		case errors.Is(err, client.ErrStaleResponse):
			zap.L().Debug(
				"忽略重复或过期的回复",
				zap.String("client_id", req.ClientID),
				zap.String("request_id", req.RequestID),
			)
			ctx.StatusCode(iris.StatusConflict)
			ctx.JSON(dto.RespondResponse{Accepted: false})

		default:
			writeError(ctx, iris.StatusInternalServerError, err.Error())
		}
	}
}
