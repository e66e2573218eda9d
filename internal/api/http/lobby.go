package http

import (
	"errors"

	"clueless-be/internal/service"
	"clueless-be/internal/service/dto"
	"clueless-be/internal/state"

	"github.com/kataras/iris/v12"
	"go.uber.org/zap"
)

func JoinGame(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		req := dto.JoinGameRequest{
			Player: ctx.URLParam("player"),
		}

		if req.Player == "" {
			writeError(ctx, iris.StatusBadRequest, "缺少 player 参数")
			return
		}

		resp := appState.Lobby.Join(req)

		zap.L().Info(
			"收到加入请求",
			zap.String("client_ip", ctx.RemoteAddr()),
			zap.String("player", req.Player),
			zap.Bool("accepted", resp.Accepted),
		)

		ctx.JSON(resp)
	}
}

func RequestGame(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		req := dto.RequestGameRequest{
			ClientID: ctx.URLParam("client_id"),
		}

		resp, err := appState.Lobby.RequestGame(req)
		switch {
		case err == nil:
			ctx.JSON(resp)

		case errors.Is(err, service.ErrCapacity):
			ctx.StatusCode(iris.StatusServiceUnavailable)
			ctx.JSON(resp)

		case errors.Is(err, service.ErrClientNotFound):
			writeError(ctx, iris.StatusNotFound, err.Error())

		case errors.Is(err, service.ErrCharacterTaken):
			writeError(ctx, iris.StatusConflict, err.Error())

		default:
			zap.L().Error("开局失败", zap.String("client_id", req.ClientID), zap.Error(err))
			writeError(ctx, iris.StatusInternalServerError, err.Error())
		}
	}
}

func PlayerCount(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		req := dto.PlayerCountRequest{
			ClientID: ctx.URLParam("client_id"),
		}

		ctx.JSON(appState.Lobby.PlayerCount(req))
	}
}
