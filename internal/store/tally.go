package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"clueless-be/internal/service/clue"

	"github.com/go-redis/redis/v9"
)

const (
	KEY_GAMES = "clueless-games"
	KEY_WINS  = "clueless-wins-%s"
)

type RedisSettings struct {
	Address  string
	Password string
	DB       int
}

// RedisTally 在 Redis 中累计对局数和每个结果的胜场
type RedisTally struct {
	client *redis.Client
}

func NewRedisTally(settings RedisSettings) *RedisTally {
	return &RedisTally{
		client: redis.NewClient(&redis.Options{
			Addr:     settings.Address,
			Password: settings.Password,
			DB:       settings.DB,
		}),
	}
}

func (r *RedisTally) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisTally) RecordGame(ctx context.Context, snap clue.Snapshot) error {
	if !snap.Finished() {
		return ErrUnfinished
	}

	pipe := r.client.Pipeline()

	pipe.Incr(ctx, KEY_GAMES)
	pipe.Incr(ctx, fmt.Sprintf(KEY_WINS, snap.Result))

	_, err := pipe.Exec(ctx)
	return err
}

// Tally 返回总对局数和每个角色（以及平局）的胜场
func (r *RedisTally) Tally(ctx context.Context) (int, map[string]int, error) {
	results := append([]string{clue.NO_CONTESTANTS}, clue.CHARACTERS...)

	pipe := r.client.Pipeline()

	games := pipe.Get(ctx, KEY_GAMES)
	wins := make(map[string]*redis.StringCmd, len(results))
	for _, result := range results {
		wins[result] = pipe.Get(ctx, fmt.Sprintf(KEY_WINS, result))
	}

	// 从未出现过的键返回 redis.Nil，按 0 处理
	_, err := pipe.Exec(ctx)
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, nil, err
	}

	gamesVal, _ := strconv.Atoi(games.Val())

	counts := make(map[string]int, len(results))
	for result, cmd := range wins {
		counts[result], _ = strconv.Atoi(cmd.Val())
	}

	return gamesVal, counts, nil
}

func (r *RedisTally) Close() error {
	return r.client.Close()
}
