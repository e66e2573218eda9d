package http

import (
	"fmt"

	"clueless-be/internal/api/http/websocket"
	"clueless-be/internal/state"

	"github.com/kataras/iris/v12"
)

func NewApp(appState *state.AppState) *iris.Application {
	app := iris.Default()

	api := app.Party("/api")

	api.Get("/join_game", JoinGame(appState))
	api.Get("/request_game", RequestGame(appState))
	api.Get("/player_count", PlayerCount(appState))

	api.Get("/poll", Poll(appState))
	api.Post("/respond", Respond(appState))

	api.Get("/ws", websocket.Connect(appState))

	debug := app.Party("/debug")

	debug.Get("/clients", ListClients(appState))
	debug.Get("/games", ListGames(appState))
	debug.Get("/games/{id:string}", GetGame(appState))
	debug.Post("/games/{id:string}/{action:string}", ControlGame(appState))
	debug.Get("/results", ListResults(appState))
	debug.Get("/tally", Tally(appState))

	return app
}

func RunServer(appState *state.AppState) error {
	app := NewApp(appState)

	addr := fmt.Sprintf(
		"%s:%d",
		appState.Cfg.Host,
		appState.Cfg.Port,
	)

	return app.Listen(addr)
}

func writeError(ctx iris.Context, status int, msg string) {
	ctx.StatusCode(status)
	ctx.JSON(iris.Map{
		"error": msg,
	})
}
