package cache

import (
	"context"

	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

var S store.StoreInterface

func NewCache() error {
	rdb := redis.NewClient(&redis.Options{
		Addr:     viper.GetString("cache.addr"),
		Password: viper.GetString("cache.password"),
		DB:       viper.GetInt("cache.db"),
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return err
	}

	S = redisstore.NewRedis(rdb)
	return nil
}
