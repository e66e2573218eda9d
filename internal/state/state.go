package state

import (
	"clueless-be/internal/config"
	"clueless-be/internal/service"
	"clueless-be/internal/store"
)

type AppState struct {
	Cfg     *config.AppConfig
	Lobby   *service.LobbyService
	GameSvc *service.GameService
	// 未配置数据库时为 nil
	Results *store.SQLStore
	Tally   *store.RedisTally
}

func NewAppState(
	cfg *config.AppConfig,
	lobby *service.LobbyService,
	gameSvc *service.GameService,
	results *store.SQLStore,
	tally *store.RedisTally,
) *AppState {
	return &AppState{
		Cfg:     cfg,
		Lobby:   lobby,
		GameSvc: gameSvc,
		Results: results,
		Tally:   tally,
	}
}
