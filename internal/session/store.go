// Package session реализует серверные сессии поверх key-value хранилища
// с ограниченным временем жизни. Сессия идентифицируется непрозрачным
// токеном, который клиент носит в cookie; содержимое сессии никогда
// не покидает сервер.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/task-tracker/internal/config"
)

// Store описывает минимальный key-value контракт, необходимый сессиям:
// чтение, запись с TTL и удаление. Реализация может быть любым
// персистентным хранилищем.
type Store interface {
	// Get читает значение по ключу. Возвращает false, если ключ отсутствует или истёк.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение с временем жизни.
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	// Del удаляет значение по ключу.
	Del(ctx context.Context, key string) error
}

// RedisStore реализует Store поверх Redis, значения сериализуются в JSON.
type RedisStore struct {
	Db *redis.Client
}

// InitServer создаёт подключение к Redis и проверяет его доступность.
func InitServer(ctx context.Context, cfg config.RedisConnection) (*RedisStore, error) {
	const op = "session.InitServer"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &RedisStore{Db: db}, nil
}

// Get читает значение по ключу из Redis.
func (c *RedisStore) Get(ctx context.Context, key string, result any) (bool, error) {
	const op = "session.RedisStore.Get"
	val, err := c.Db.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	err = json.Unmarshal([]byte(val), result)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// Set сохраняет значение в Redis с временем жизни.
func (c *RedisStore) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Db.Set(ctx, key, jsonData, expiration).Err()
}

// Del удаляет значение из Redis.
func (c *RedisStore) Del(ctx context.Context, key string) error {
	return c.Db.Del(ctx, key).Err()
}
