package http

import (
	"errors"

	"clueless-be/internal/service"
	"clueless-be/internal/service/dto"
	"clueless-be/internal/state"

	"github.com/kataras/iris/v12"
	"go.uber.org/zap"
)

const DEFAULT_RESULT_LIMIT = 50

func ListClients(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		ctx.JSON(appState.Lobby.Clients())
	}
}

func ListGames(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		ctx.JSON(appState.GameSvc.ListGames())
	}
}

func GetGame(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		snap, err := appState.GameSvc.GetGame(ctx.Params().Get("id"))
		if err != nil {
			writeError(ctx, iris.StatusNotFound, err.Error())
			return
		}

		ctx.JSON(snap)
	}
}

// ControlGame 处理暂停、恢复和终止
func ControlGame(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		gameID := ctx.Params().Get("id")
		action := ctx.Params().Get("action")

		var err error

		switch action {
		case dto.CONTROL_PAUSE:
			err = appState.GameSvc.Pause(gameID)
		case dto.CONTROL_RESUME:
			err = appState.GameSvc.Resume(gameID)
		case dto.CONTROL_KILL:
			err = appState.GameSvc.Kill(gameID)
		default:
			writeError(ctx, iris.StatusBadRequest, "未知操作："+action)
			return
		}

		if err != nil {
			status := iris.StatusConflict
			if errors.Is(err, service.ErrGameNotFound) {
				status = iris.StatusNotFound
			}

			writeError(ctx, status, err.Error())
			return
		}

		status, _ := appState.GameSvc.Status(gameID)

		zap.L().Info(
			"运维操作",
			zap.String("game_id", gameID),
			zap.String("action", action),
			zap.String("client_ip", ctx.RemoteAddr()),
		)

		ctx.JSON(dto.ControlResponse{
			GameID: gameID,
			Status: status,
		})
	}
}

func ListResults(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		if appState.Results == nil {
			writeError(ctx, iris.StatusNotFound, "未配置结果存储")
			return
		}

		limit := ctx.URLParamIntDefault("limit", DEFAULT_RESULT_LIMIT)

		records, err := appState.Results.ListResults(ctx.Request().Context(), limit)
		if err != nil {
			writeError(ctx, iris.StatusInternalServerError, err.Error())
			return
		}

		ctx.JSON(records)
	}
}

func Tally(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		if appState.Tally == nil {
			writeError(ctx, iris.StatusNotFound, "未配置 Redis")
			return
		}

		games, wins, err := appState.Tally.Tally(ctx.Request().Context())
		if err != nil {
			writeError(ctx, iris.StatusInternalServerError, err.Error())
			return
		}

		ctx.JSON(iris.Map{
			"games": games,
			"wins":  wins,
		})
	}
}
