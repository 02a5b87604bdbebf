package belote

import (
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DefaultNames 默认座位名
var DefaultNames = [Seats]string{"Nord", "Est", "Sud", "Ouest"}

// Option 牌局选项
type Option func(*Game)

// WithRand 指定洗牌随机源
func WithRand(rng *rand.Rand) Option {
	return func(g *Game) {
		g.rng = rng
	}
}

// WithSeed 用固定种子洗牌，便于复现
func WithSeed(seed uint64) Option {
	return func(g *Game) {
		g.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithNames 指定座位名
func WithNames(names [Seats]string) Option {
	return func(g *Game) {
		g.names = names
	}
}

// WithPlayerIDs 指定玩家ID，未指定的座位自动生成
func WithPlayerIDs(ids [Seats]string) Option {
	return func(g *Game) {
		g.ids = ids
	}
}

// Game 持有唯一的权威状态，所有修改都经过动作接口
// 动作之间串行执行，被拒绝的动作不修改任何字段
type Game struct {
	mu    sync.Mutex
	rng   *rand.Rand
	ids   [Seats]string
	names [Seats]string
	state GameState
}

// New 创建牌局，需调用 Deal 发牌
// 玩家ID在整个牌局内保持不变，重新发牌不会更换
func New(opts ...Option) *Game {
	g := &Game{names: DefaultNames}
	for _, opt := range opts {
		opt(g)
	}
	for i := range g.ids {
		if g.ids[i] == "" {
			g.ids[i] = uuid.NewString()
		}
	}
	for i := range g.state.Players {
		g.state.Players[i] = NewPlayer(g.ids[i], g.names[i], i)
	}
	return g
}

// Restore 从已保存的状态恢复牌局
func Restore(state GameState, opts ...Option) *Game {
	g := &Game{names: DefaultNames}
	for _, opt := range opts {
		opt(g)
	}
	g.state = state.Clone()
	for i, p := range g.state.Players {
		g.ids[i] = p.ID
		g.names[i] = p.Name
	}
	return g
}

// State 返回状态的深拷贝，修改返回值不会影响牌局
func (g *Game) State() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.Clone()
}

// Deal 洗牌发牌，丢弃之前的全部状态
func (g *Game) Deal() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.deal()
	log.Info().Str("game", g.state.ID).Msg("hand dealt")
	return g.state.Clone()
}

func (g *Game) deal() {
	hands := NewDeck().Shuffle(g.rng).Deal(Seats, HandSize)

	state := GameState{
		ID:    uuid.NewString(),
		Phase: PhaseBidding,
	}
	for i := range state.Players {
		p := NewPlayer(g.ids[i], g.names[i], i)
		p.Hand = hands[i]
		state.Players[i] = p
	}
	g.state = state
}

// SetBid 叫牌
func (g *Game) SetBid(playerID string, suit Suit, points BidPoints) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.state.checkBid(playerID, suit, points); err != nil {
		return g.reject(ActionBid, playerID, err)
	}
	g.state.applyBid(playerID, suit, points)
	return g.accept(ActionBid, playerID)
}

// PassBid 不叫
// 有叫牌时连续三家不叫进入出牌阶段，无叫牌时四家不叫重新发牌
func (g *Game) PassBid(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, err := g.state.checkTurn(playerID, PhaseBidding); err != nil {
		return g.reject(ActionPass, playerID, err)
	}
	if g.state.applyPass() {
		old := g.state.ID
		g.deal()
		log.Info().Str("game", old).Str("next", g.state.ID).Msg("all players passed, redealing")
		return nil
	}
	if g.state.Phase == PhasePlaying {
		log.Info().Str("game", g.state.ID).Stringer("trump", g.state.Trump).
			Stringer("points", g.state.CurrentBid.Points).Msg("bidding closed")
	}
	return g.accept(ActionPass, playerID)
}

// Contre 对方队伍加倍
func (g *Game) Contre(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.state.checkContre(playerID); err != nil {
		return g.reject(ActionContre, playerID, err)
	}
	g.state.applyContre()
	return g.accept(ActionContre, playerID)
}

// SurContre 叫牌队伍再加倍
func (g *Game) SurContre(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.state.checkSurContre(playerID); err != nil {
		return g.reject(ActionSurContre, playerID, err)
	}
	g.state.applySurContre()
	return g.accept(ActionSurContre, playerID)
}

// PlayCard 出牌
func (g *Game) PlayCard(playerID string, card Card) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	seat, err := g.state.checkPlay(playerID, card)
	if err != nil {
		return g.reject(ActionPlay, playerID, err)
	}
	if won := g.state.applyPlay(seat, card); won >= 0 {
		log.Debug().Str("game", g.state.ID).Int("winner", won).
			Int("team1", g.state.Scores.Team1).Int("team2", g.state.Scores.Team2).Msg("trick completed")
	}
	if g.state.IsFinished() {
		log.Info().Str("game", g.state.ID).
			Int("team1", g.state.Scores.Team1).Int("team2", g.state.Scores.Team2).Msg("hand finished")
	}
	return g.accept(ActionPlay, playerID)
}

// Apply 分发动作
func (g *Game) Apply(a Action) error {
	switch a.Kind {
	case ActionDeal:
		g.Deal()
		return nil
	case ActionBid:
		return g.SetBid(a.PlayerID, a.Suit, a.Points)
	case ActionPass:
		return g.PassBid(a.PlayerID)
	case ActionContre:
		return g.Contre(a.PlayerID)
	case ActionSurContre:
		return g.SurContre(a.PlayerID)
	case ActionPlay:
		if a.Card == nil {
			return ErrCardNotInHand
		}
		return g.PlayCard(a.PlayerID, *a.Card)
	default:
		return ErrUnknownAction
	}
}

func (g *Game) accept(kind ActionKind, playerID string) error {
	log.Trace().Str("game", g.state.ID).Stringer("action", kind).Str("player", playerID).
		Stringer("phase", g.state.Phase).Int("next", g.state.CurrentPlayer).Msg("action accepted")
	return nil
}

func (g *Game) reject(kind ActionKind, playerID string, err error) error {
	log.Debug().Err(err).Str("game", g.state.ID).Stringer("action", kind).Str("player", playerID).
		Stringer("phase", g.state.Phase).Msg("action rejected")
	return err
}
