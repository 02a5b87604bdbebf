package pubsub

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var (
	ErrQueueFull          = errors.New("pubsub: queue is full")
	ErrSubscriptionClosed = errors.New("pubsub: subscription is closed")
	ErrPubSubClosed       = errors.New("pubsub: closed")
)

const (
	redisKeyPrefix      = "contree:topic:"
	blpopTimeout        = 1 * time.Second
	defaultQueueSize    = 1000
	defaultDataChanSize = 100
)

// Option 配置 PubSub
type Option func(*PubSub)

// SubOption 配置 Subscription
type SubOption func(*subOptions)

type subOptions struct {
	concurrency int
	recovery    bool
}

// PubSub 基于 Redis List 的主题队列，RPUSH 发布，BLPOP 消费
// 每条消息只会被一个订阅者的一个 worker 处理
type PubSub struct {
	client    redis.Cmdable
	queueSize int
	recovery  bool

	mu     sync.Mutex
	subs   map[*Subscription]struct{}
	closed chan struct{}
	wg     sync.WaitGroup
}

// WithQueueSize 发布时检查的队列最大长度，0 表示不限制
func WithQueueSize(qs int) Option {
	return func(p *PubSub) {
		if qs >= 0 {
			p.queueSize = qs
		}
	}
}

// WithRecovery 处理函数 panic 时恢复，默认所有订阅继承
func WithRecovery() Option {
	return func(p *PubSub) {
		p.recovery = true
	}
}

// WithConcurrency 处理消息的 worker 数，c <= 0 时为 1
func WithConcurrency(c int) SubOption {
	return func(o *subOptions) {
		o.concurrency = max(c, 1)
	}
}

// WithSubRecovery 单个订阅开启 panic 恢复
func WithSubRecovery() SubOption {
	return func(o *subOptions) {
		o.recovery = true
	}
}

// New 创建 PubSub
func New(client redis.Cmdable, opts ...Option) *PubSub {
	p := &PubSub{
		client:    client,
		queueSize: defaultQueueSize,
		subs:      make(map[*Subscription]struct{}),
		closed:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	log.Trace().Int("queue_size", p.queueSize).Bool("recovery", p.recovery).Msg("pubsub initialized")
	return p
}

// TopicKey 主题对应的 Redis 键
func TopicKey(topic string) string {
	return redisKeyPrefix + topic
}

// Publish 每个 msg 编码为一条 JSON 消息，按顺序追加到主题队列
func (p *PubSub) Publish(ctx context.Context, topic string, msgs ...any) error {
	select {
	case <-p.closed:
		return ErrPubSubClosed
	default:
	}
	if len(msgs) == 0 {
		return nil
	}

	key := TopicKey(topic)
	if p.queueSize > 0 {
		length, err := p.client.LLen(ctx, key).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("pubsub: llen %s: %w", topic, err)
		}
		if length+int64(len(msgs)) > int64(p.queueSize) {
			log.Warn().Str("topic", topic).Int64("length", length).Int("batch", len(msgs)).Msg("publish would exceed queue size")
			return ErrQueueFull
		}
	}

	payloads := make([]any, 0, len(msgs))
	for i, msg := range msgs {
		data, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("pubsub: marshal message %d: %w", i, err)
		}
		payloads = append(payloads, data)
	}
	if err := p.client.RPush(ctx, key, payloads...).Err(); err != nil {
		return fmt.Errorf("pubsub: rpush %s: %w", topic, err)
	}

	log.Trace().Str("topic", topic).Int("batch", len(msgs)).Msg("messages published")
	return nil
}

// Subscribe 订阅主题，消息解码为 T 后交给 fn，调用 Loop 开始消费
func Subscribe[T any](ctx context.Context, p *PubSub, topic string, fn func(context.Context, T), opts ...SubOption) (*Subscription, error) {
	if fn == nil {
		return nil, errors.New("pubsub: nil handler")
	}
	o := subOptions{concurrency: 1, recovery: p.recovery}
	for _, opt := range opts {
		opt(&o)
	}

	handle := func(ctx context.Context, payload []byte) error {
		var msg T
		if err := json.Unmarshal(payload, &msg); err != nil {
			return err
		}
		fn(ctx, msg)
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	select {
	case <-p.closed:
		return nil, ErrPubSubClosed
	default:
	}

	subCtx, cancel := context.WithCancel(ctx)
	s := &Subscription{
		pubSub:   p,
		topic:    topic,
		key:      TopicKey(topic),
		handle:   handle,
		opts:     o,
		dataChan: make(chan []byte, defaultDataChanSize),
		ctx:      subCtx,
		cancel:   cancel,
	}
	p.subs[s] = struct{}{}
	p.wg.Add(1)

	log.Trace().Str("topic", topic).Int("concurrency", o.concurrency).Msg("subscription created")
	return s, nil
}

// Close 停止所有订阅并等待退出
func (p *PubSub) Close() error {
	p.mu.Lock()
	select {
	case <-p.closed:
		p.mu.Unlock()
		return nil
	default:
		close(p.closed)
	}
	subs := make([]*Subscription, 0, len(p.subs))
	for s := range p.subs {
		subs = append(subs, s)
	}
	p.mu.Unlock()

	for _, s := range subs {
		if err := s.Stop(); err != nil && !errors.Is(err, ErrSubscriptionClosed) {
			log.Error().Err(err).Str("topic", s.topic).Msg("stop subscription")
		}
	}
	p.wg.Wait()
	log.Debug().Msg("pubsub closed")
	return nil
}

// Subscription 一个主题上的消费者
type Subscription struct {
	pubSub   *PubSub
	topic    string
	key      string
	handle   func(context.Context, []byte) error
	opts     subOptions
	dataChan chan []byte

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	once sync.Once
}

// Loop 启动一个 BLPOP 协程和若干 worker
func (s *Subscription) Loop() {
	s.wg.Add(1)
	go s.blpopLoop()

	for i := 0; i < s.opts.concurrency; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}
	log.Debug().Str("topic", s.topic).Int("workers", s.opts.concurrency).Msg("subscription loop started")
}

func (s *Subscription) blpopLoop() {
	defer s.wg.Done()

	for {
		if s.ctx.Err() != nil {
			return
		}
		results, err := s.pubSub.client.BLPop(s.ctx, blpopTimeout, s.key).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || s.ctx.Err() != nil {
				continue
			}
			log.Error().Err(err).Str("topic", s.topic).Msg("blpop failed")
			select {
			case <-s.ctx.Done():
			case <-time.After(time.Second):
			}
			continue
		}
		if len(results) != 2 {
			log.Warn().Str("topic", s.topic).Int("results", len(results)).Msg("blpop returned unexpected result length")
			continue
		}

		select {
		case s.dataChan <- []byte(results[1]):
		case <-s.ctx.Done():
			log.Warn().Str("topic", s.topic).Msg("subscription stopping, message discarded")
			return
		}
	}
}

func (s *Subscription) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			return
		case payload := <-s.dataChan:
			s.process(id, payload)
		}
	}
}

func (s *Subscription) process(id int, payload []byte) {
	if s.opts.recovery {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Str("topic", s.topic).Int("worker", id).Interface("panic", r).Msg("recovered panic in subscription handler")
			}
		}()
	}
	if err := s.handle(s.ctx, payload); err != nil {
		log.Error().Err(err).Str("topic", s.topic).Int("worker", id).Bytes("payload", payload).Msg("failed to decode message")
	}
}

// Stop 停止消费，等待 worker 退出，重复调用返回 ErrSubscriptionClosed
func (s *Subscription) Stop() error {
	err := ErrSubscriptionClosed
	s.once.Do(func() {
		err = nil
		s.cancel()

		done := make(chan struct{})
		go func() {
			s.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(10 * time.Second):
			log.Error().Str("topic", s.topic).Msg("subscription stop timed out")
		}

		s.pubSub.mu.Lock()
		delete(s.pubSub.subs, s)
		s.pubSub.mu.Unlock()
		s.pubSub.wg.Done()
	})
	return err
}

// Topic 订阅的主题
func (s *Subscription) Topic() string {
	return s.topic
}
