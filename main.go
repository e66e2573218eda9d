package main

import (
	"context"
	"time"

	"clueless-be/internal/api/http"
	"clueless-be/internal/config"
	"clueless-be/internal/logger"
	"clueless-be/internal/service"
	"clueless-be/internal/service/clue"
	"clueless-be/internal/state"
	"clueless-be/internal/store"

	"go.uber.org/zap"
)

func main() {
	// 加载配置
	cfg := config.InitConfig()

	// 初始化日志器
	logger.InitLogger(cfg.LogLevel)
	defer zap.L().Sync()

	// 结果存储
	var recorders store.MultiRecorder

	var results *store.SQLStore
	if cfg.DBPath != "" {
		db, err := store.InitDB(cfg.DBPath)
		if err != nil {
			zap.L().Fatal("打开结果数据库失败", zap.String("db_path", cfg.DBPath), zap.Error(err))
		}

		results = store.NewSQLStore(db)
		recorders = append(recorders, results)
	}

	var tally *store.RedisTally
	if cfg.RedisAddr != "" {
		tally = store.NewRedisTally(store.RedisSettings{
			Address:  cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer tally.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := tally.Ping(ctx); err != nil {
			zap.L().Warn("Redis 暂时不可用，胜场统计可能丢失", zap.String("redis_addr", cfg.RedisAddr), zap.Error(err))
		}
		cancel()

		recorders = append(recorders, tally)
	}

	// 组装服务
	gameSvc := service.NewGameService(service.GameServiceConfig{
		MaxGames:     cfg.MaxGames,
		TurnInterval: cfg.TurnInterval,
		Retention:    cfg.GameRetention,
		Game: clue.GameConfig{
			RequestTimeout:   cfg.RequestTimeout,
			BroadcastTimeout: cfg.BroadcastTimeout,
			Seed:             cfg.Seed,
		},
	}, recorders)
	defer gameSvc.Close()

	lobby := service.NewLobbyService(service.LobbyConfig{
		MinPlayers:    cfg.MinPlayers,
		MaxPlayers:    cfg.MaxPlayers,
		ClientTimeout: cfg.ClientTimeout,
	}, gameSvc)
	defer lobby.Close()

	// 组装应用状态
	appState := state.NewAppState(
		cfg,
		lobby,
		gameSvc,
		results,
		tally,
	)

	zap.S().Infof("服务器启动于 %s:%d，最多同时进行 %d 局游戏", cfg.Host, cfg.Port, cfg.MaxGames)

	// 启动服务器
	if err := http.RunServer(appState); err != nil {
		zap.L().Error("服务器退出", zap.Error(err))
	}
}
