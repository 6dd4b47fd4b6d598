package initializers

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
)

var Client *redis.Client

func ConnectRedis() {
	cfg := Config()
	Client = redis.NewClient(&redis.Options{
		Addr:     cfg.GetString("redis.addr"),
		Password: cfg.GetString("redis.password"),
		DB:       cfg.GetInt("redis.db"),
	})

	if _, err := Client.Ping(context.Background()).Result(); err != nil {
		log.Println("redis connection establishment failed", err)
	}
}
