package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/play/contree/pkg/belote"
)

// DefaultDelay 机器人两次动作的间隔
const DefaultDelay = time.Second

// ErrNotDealt 牌局尚未发牌
var ErrNotDealt = errors.New("bot: game not dealt")

// Actor 机器人操作的牌局，可以是本地 Game，也可以是远端牌桌
type Actor interface {
	State(ctx context.Context) (belote.GameState, error)
	Apply(ctx context.Context, a belote.Action) error
}

type local struct {
	g *belote.Game
}

// Local 包装本地牌局
func Local(g *belote.Game) Actor {
	return local{g: g}
}

func (l local) State(context.Context) (belote.GameState, error) {
	return l.g.State(), nil
}

func (l local) Apply(_ context.Context, a belote.Action) error {
	return l.g.Apply(a)
}

// DriverOption 配置 Driver
type DriverOption func(*Driver)

// WithSeat 座位由 s 控制
func WithSeat(seat int, s Strategy) DriverOption {
	return func(d *Driver) {
		if seat >= 0 && seat < belote.Seats {
			d.seats[seat] = s
		}
	}
}

// WithAllSeats 四个座位都由 newStrategy 生成的机器人控制
func WithAllSeats(newStrategy func(seat int) Strategy) DriverOption {
	return func(d *Driver) {
		for seat := range d.seats {
			d.seats[seat] = newStrategy(seat)
		}
	}
}

// WithDelay 设置动作间隔，0 表示不等待
func WithDelay(delay time.Duration) DriverOption {
	return func(d *Driver) {
		d.delay = max(delay, 0)
	}
}

// Driver 轮到机器人座位时替它行动，其余座位留给真人
type Driver struct {
	actor Actor
	seats [belote.Seats]Strategy
	delay time.Duration
}

func NewDriver(actor Actor, opts ...DriverOption) *Driver {
	d := &Driver{actor: actor, delay: DefaultDelay}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Step 当前座位是机器人时执行一步，返回是否行动
func (d *Driver) Step(ctx context.Context) (bool, error) {
	state, err := d.actor.State(ctx)
	if err != nil {
		return false, err
	}
	if state.Phase != belote.PhaseBidding && state.Phase != belote.PhasePlaying {
		return false, nil
	}
	seat := state.CurrentPlayer
	s := d.seats[seat]
	if s == nil {
		return false, nil
	}

	action, ok := s.Decide(state, seat)
	if !ok {
		return false, nil
	}
	if err := d.actor.Apply(ctx, action); err != nil {
		return false, fmt.Errorf("bot seat %d %v: %w", seat, action, err)
	}
	log.Ctx(ctx).Trace().Int("seat", seat).Stringer("action", action).Msg("bot acted")
	return true, nil
}

// Run 每隔 delay 调用一次 Step，直到这一手结束或 ctx 取消
func (d *Driver) Run(ctx context.Context) error {
	var tick <-chan time.Time
	if d.delay > 0 {
		ticker := time.NewTicker(d.delay)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		state, err := d.actor.State(ctx)
		if err != nil {
			return err
		}
		switch state.Phase {
		case belote.PhaseFinished:
			return nil
		case belote.PhaseNone:
			return ErrNotDealt
		}

		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		acted, err := d.Step(ctx)
		if err != nil {
			return err
		}
		// 没有延迟又轮到真人时让出，避免空转
		if !acted && tick == nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(10 * time.Millisecond):
			}
		}
	}
}
