package slots

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/counseling-booking-service/internal/domain"
	"github.com/m04kA/counseling-booking-service/pkg/types"
)

const (
	keyPrefix     = "slots"
	generationKey = "slots:gen"
)

// Entry материализованный шаблон дня: статус и слоты без занятости
type Entry struct {
	Status domain.DayStatus      `json:"status"`
	Slots  []domain.SlotTemplate `json:"slots"`
}

// Key ключ дня в конкретном поколении
type Key string

// Cache материализация сгенерированных слотов в Redis.
// Ключ дня содержит поколение; любое изменение расписания увеличивает поколение,
// после чего все старые ключи истекают по TTL.
type Cache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// New создает кэш слотов
func New(client redis.Cmdable, ttl time.Duration) *Cache {
	return &Cache{
		client: client,
		ttl:    ttl,
	}
}

// Get возвращает материализованный день и ключ поколения, прочитанного при поиске.
// entry == nil означает промах; промах записывается по возвращённому ключу,
// чтобы план, построенный до инвалидации, не попал в новое поколение.
func (c *Cache) Get(ctx context.Context, date time.Time) (*Entry, Key, error) {
	key, err := c.dayKey(ctx, date)
	if err != nil {
		return nil, "", err
	}

	raw, err := c.client.Get(ctx, string(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, key, nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("%w: Get - key=%s: %v", ErrRedis, key, err)
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		// Битую запись считаем промахом, генератор перезапишет её после очистки
		_ = c.client.Del(ctx, string(key)).Err()
		return nil, key, nil
	}

	return &entry, key, nil
}

// PutIfAbsent сохраняет день по ключу из Get, только если он ещё не материализован (SETNX).
// Возвращает true, если запись создана этим вызовом.
func (c *Cache) PutIfAbsent(ctx context.Context, key Key, entry *Entry) (bool, error) {
	if key == "" {
		return false, fmt.Errorf("%w: PutIfAbsent - empty key", ErrRedis)
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrMarshal, err)
	}

	created, err := c.client.SetNX(ctx, string(key), payload, c.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("%w: PutIfAbsent - key=%s: %v", ErrRedis, key, err)
	}

	return created, nil
}

// Invalidate увеличивает поколение; все дни будут сгенерированы заново
func (c *Cache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		return fmt.Errorf("%w: Invalidate: %v", ErrRedis, err)
	}
	return nil
}

// ClearDate удаляет материализацию одного дня текущего поколения
func (c *Cache) ClearDate(ctx context.Context, date time.Time) error {
	key, err := c.dayKey(ctx, date)
	if err != nil {
		return err
	}

	if err := c.client.Del(ctx, string(key)).Err(); err != nil {
		return fmt.Errorf("%w: ClearDate - key=%s: %v", ErrRedis, key, err)
	}
	return nil
}

// Ping проверяет соединение с Redis
func (c *Cache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: Ping: %v", ErrRedis, err)
	}
	return nil
}

func (c *Cache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: generation: %v", ErrRedis, err)
	}
	return gen, nil
}

func (c *Cache) dayKey(ctx context.Context, date time.Time) (Key, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return "", err
	}
	return Key(fmt.Sprintf("%s:v%d:%s", keyPrefix, gen, types.FormatDate(date))), nil
}
