package table

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/play/contree/pkg/belote"
)

const keyPrefix = "contree:table:"

var ErrTableNotFound = errors.New("table: not found")

// Snapshot 牌桌的持久化状态，Version 每次成功动作加一
type Snapshot struct {
	TableID string           `json:"tableId"`
	Version int64            `json:"version"`
	State   belote.GameState `json:"state"`
	Updated time.Time        `json:"updated"`
	Extras  json.RawMessage  `json:"extras,omitempty"` // 牌桌附加信息，例如名称、创建者
}

// Extra 读取附加信息
func (s *Snapshot) Extra(key string) gjson.Result {
	return gjson.GetBytes(s.Extras, key)
}

// SetExtra 写入附加信息
func (s *Snapshot) SetExtra(key string, value any) (err error) {
	s.Extras, err = sjson.SetBytes(s.Extras, key, value)
	return err
}

// StoreOption 配置 Store
type StoreOption func(*Store)

// WithTTL 牌桌在 Redis 中的过期时间
func WithTTL(ttl time.Duration) StoreOption {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithCache 本地缓存大小和过期时间，size <= 0 时关闭缓存
func WithCache(size int, ttl time.Duration) StoreOption {
	return func(s *Store) {
		s.cacheSize = size
		s.cacheTTL = ttl
	}
}

// Store 牌桌快照以 JSON 存在 Redis，本地 LRU 缓存解码后的快照
// 每次读取仍然 GET，版本号与缓存一致时跳过解码，多进程写入不会读到旧状态
type Store struct {
	rdb       redis.Cmdable
	ttl       time.Duration
	cacheSize int
	cacheTTL  time.Duration
	cache     *expirable.LRU[string, *Snapshot]
}

func NewStore(rdb redis.Cmdable, opts ...StoreOption) *Store {
	s := &Store{
		rdb:       rdb,
		ttl:       24 * time.Hour,
		cacheSize: 1024,
		cacheTTL:  time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cacheSize > 0 {
		s.cache = expirable.NewLRU[string, *Snapshot](s.cacheSize, nil, s.cacheTTL)
	}
	return s
}

// Key 牌桌在 Redis 中的键
func Key(id string) string {
	return keyPrefix + id
}

// Save 写入快照并刷新过期时间
func (s *Store) Save(ctx context.Context, snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("table: marshal %s: %w", snap.TableID, err)
	}
	if err := s.rdb.Set(ctx, Key(snap.TableID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("table: save %s: %w", snap.TableID, err)
	}
	if s.cache != nil {
		s.cache.Add(snap.TableID, clone(snap))
	}
	log.Ctx(ctx).Trace().Str("table", snap.TableID).Int64("version", snap.Version).Msg("table saved")
	return nil
}

// Load 读取快照
func (s *Store) Load(ctx context.Context, id string) (*Snapshot, error) {
	data, err := s.rdb.Get(ctx, Key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		if s.cache != nil {
			s.cache.Remove(id)
		}
		return nil, ErrTableNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("table: load %s: %w", id, err)
	}

	if s.cache != nil {
		if cached, ok := s.cache.Get(id); ok && cached.Version == gjson.GetBytes(data, "version").Int() {
			return clone(cached), nil
		}
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("table: decode %s: %w", id, err)
	}
	if s.cache != nil {
		s.cache.Add(id, clone(&snap))
	}
	return &snap, nil
}

// Delete 删除牌桌
func (s *Store) Delete(ctx context.Context, id string) error {
	if s.cache != nil {
		s.cache.Remove(id)
	}
	n, err := s.rdb.Del(ctx, Key(id)).Result()
	if err != nil {
		return fmt.Errorf("table: delete %s: %w", id, err)
	}
	if n == 0 {
		return ErrTableNotFound
	}
	return nil
}

func clone(snap *Snapshot) *Snapshot {
	out := *snap
	out.State = snap.State.Clone()
	out.Extras = append(json.RawMessage(nil), snap.Extras...)
	return &out
}
