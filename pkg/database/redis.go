package database

import (
	"context"
	"fmt"
	"log"
	"suraksha_backend/internal/config"
	"time"

	"github.com/go-redis/redis/v8"
)

// InitRedis 建立缓存连接。天气快照缓存和按用户的告警屏蔽集合都在这里，
// 启动时 Ping 带超时，Redis 不可达直接快速失败。
func InitRedis(cfg *config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     50,
		MinIdleConns: 5,
		DialTimeout:  3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, err
	}

	log.Println("Redis connection established")
	return rdb, nil
}
