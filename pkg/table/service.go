package table

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/play/contree/pkg/belote"
	"github.com/play/contree/pkg/pubsub"
	"github.com/play/contree/pkg/ratelimit"
	"github.com/play/contree/pkg/redlock"
)

var ErrRateLimited = errors.New("table: too many actions")

// Event 每个被接受的动作发布一条
type Event struct {
	TableID       string        `json:"tableId"`
	Version       int64         `json:"version"`
	GameID        string        `json:"gameId"`
	Action        belote.Action `json:"action"`
	Phase         belote.Phase  `json:"phase"`
	CurrentPlayer int           `json:"currentPlayer"`
	Scores        belote.Scores `json:"scores"`
	Redealt       bool          `json:"redealt,omitempty"`
	Time          time.Time     `json:"time"`
}

// Topic 牌桌事件的主题
func Topic(tableID string) string {
	return "table:" + tableID
}

// ServiceOption 配置 Service
type ServiceOption func(*Service)

// WithPubSub 发布牌桌事件
func WithPubSub(ps *pubsub.PubSub) ServiceOption {
	return func(s *Service) {
		s.ps = ps
	}
}

// WithLimiter 按玩家限流
func WithLimiter(l *ratelimit.Keyed) ServiceOption {
	return func(s *Service) {
		s.limiter = l
	}
}

// WithGameOptions 创建牌桌时的牌局选项，恢复的牌局重新发牌时使用全局随机源
func WithGameOptions(opts ...belote.Option) ServiceOption {
	return func(s *Service) {
		s.gameOpts = append(s.gameOpts, opts...)
	}
}

// Service 多进程共享的权威牌桌
// 同一张桌的动作通过 Redis 锁串行执行：读取、应用、写回、发布
type Service struct {
	store    *Store
	locker   *redlock.RedisLocker
	ps       *pubsub.PubSub
	limiter  *ratelimit.Keyed
	gameOpts []belote.Option
}

func NewService(store *Store, locker *redlock.RedisLocker, opts ...ServiceOption) *Service {
	s := &Service{store: store, locker: locker}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create 新建牌桌并发牌
func (s *Service) Create(ctx context.Context, opts ...belote.Option) (*Snapshot, error) {
	g := belote.New(append(s.gameOpts[:len(s.gameOpts):len(s.gameOpts)], opts...)...)
	state := g.Deal()

	snap := &Snapshot{
		TableID: uuid.NewString(),
		Version: 1,
		State:   state,
		Updated: time.Now(),
	}
	if err := s.store.Save(ctx, snap); err != nil {
		return nil, err
	}
	s.publish(ctx, snap, belote.DealAction(), false)
	log.Ctx(ctx).Info().Str("table", snap.TableID).Str("game", state.ID).Msg("table created")
	return snap, nil
}

// Get 读取牌桌
func (s *Service) Get(ctx context.Context, id string) (*Snapshot, error) {
	return s.store.Load(ctx, id)
}

// Apply 在牌桌上执行动作
// 被拒绝时返回牌局的错误，状态不变也不发布事件
func (s *Service) Apply(ctx context.Context, id string, action belote.Action) (*Snapshot, error) {
	if s.limiter != nil && action.PlayerID != "" && s.limiter.Limit(ctx, action.PlayerID) {
		return nil, ErrRateLimited
	}

	var out *Snapshot
	err := s.locker.WithLock(ctx, id, func(ctx context.Context) error {
		snap, err := s.store.Load(ctx, id)
		if err != nil {
			return err
		}
		g := belote.Restore(snap.State)
		if err := g.Apply(action); err != nil {
			return err
		}

		prevGame := snap.State.ID
		snap.State = g.State()
		snap.Version++
		snap.Updated = time.Now()
		if err := s.store.Save(ctx, snap); err != nil {
			return err
		}
		redealt := action.Kind == belote.ActionPass && snap.State.ID != prevGame
		s.publish(ctx, snap, action, redealt)
		out = snap
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SetExtra 修改牌桌附加信息，版本号同样加一
func (s *Service) SetExtra(ctx context.Context, id, key string, value any) (*Snapshot, error) {
	var out *Snapshot
	err := s.locker.WithLock(ctx, id, func(ctx context.Context) error {
		snap, err := s.store.Load(ctx, id)
		if err != nil {
			return err
		}
		if err := snap.SetExtra(key, value); err != nil {
			return fmt.Errorf("table: set extra %s: %w", key, err)
		}
		snap.Version++
		snap.Updated = time.Now()
		if err := s.store.Save(ctx, snap); err != nil {
			return err
		}
		out = snap
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete 删除牌桌
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.locker.WithLock(ctx, id, func(ctx context.Context) error {
		return s.store.Delete(ctx, id)
	})
}

func (s *Service) publish(ctx context.Context, snap *Snapshot, action belote.Action, redealt bool) {
	if s.ps == nil {
		return
	}
	ev := Event{
		TableID:       snap.TableID,
		Version:       snap.Version,
		GameID:        snap.State.ID,
		Action:        action,
		Phase:         snap.State.Phase,
		CurrentPlayer: snap.State.CurrentPlayer,
		Scores:        snap.State.Scores,
		Redealt:       redealt,
		Time:          snap.Updated,
	}
	// 状态已写入，发布失败只记录
	if err := s.ps.Publish(ctx, Topic(snap.TableID), ev); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("table", snap.TableID).Int64("version", snap.Version).Msg("publish table event failed")
	}
}

// Seat 把远端牌桌包装成机器人可以操作的牌局
type Seat struct {
	svc *Service
	id  string
}

func (s *Service) Seat(id string) *Seat {
	return &Seat{svc: s, id: id}
}

func (t *Seat) State(ctx context.Context) (belote.GameState, error) {
	snap, err := t.svc.store.Load(ctx, t.id)
	if err != nil {
		return belote.GameState{}, err
	}
	return snap.State, nil
}

func (t *Seat) Apply(ctx context.Context, a belote.Action) error {
	_, err := t.svc.Apply(ctx, t.id, a)
	return err
}
