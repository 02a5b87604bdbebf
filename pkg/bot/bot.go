package bot

import (
	"math/rand/v2"

	"github.com/play/contree/pkg/belote"
)

// Strategy 为座位选择下一个动作，不该它行动时返回 false
type Strategy interface {
	Decide(state belote.GameState, seat int) (belote.Action, bool)
}

// StrategyFunc 函数形式的 Strategy
type StrategyFunc func(state belote.GameState, seat int) (belote.Action, bool)

func (f StrategyFunc) Decide(state belote.GameState, seat int) (belote.Action, bool) {
	return f(state, seat)
}

// Random 随机机器人
// 叫牌阶段以 BidChance 的概率在最长花色上叫最低可叫分，否则不叫；
// 以 ContreChance 的概率加倍或再加倍；出牌阶段随机出一张合法的牌。
// BidChance 为 0 时只会不叫和随机出牌。
type Random struct {
	BidChance    float64
	ContreChance float64

	rng *rand.Rand
}

// NewRandom 固定种子，同一局面下的选择可复现
func NewRandom(seed uint64, bidChance, contreChance float64) *Random {
	return &Random{
		BidChance:    bidChance,
		ContreChance: contreChance,
		rng:          rand.New(rand.NewPCG(seed, seed+1)),
	}
}

func (r *Random) Decide(state belote.GameState, seat int) (belote.Action, bool) {
	if seat != state.CurrentPlayer || seat < 0 || seat >= belote.Seats {
		return belote.Action{}, false
	}
	id := state.Players[seat].ID

	switch state.Phase {
	case belote.PhaseBidding:
		return r.bid(state, seat, id), true
	case belote.PhasePlaying:
		cards := belote.PlayableCards(state, seat)
		if len(cards) == 0 {
			return belote.Action{}, false
		}
		return belote.PlayAction(id, cards[r.rng.IntN(len(cards))]), true
	default:
		return belote.Action{}, false
	}
}

func (r *Random) bid(state belote.GameState, seat int, id string) belote.Action {
	var contre, surContre bool
	for _, a := range belote.LegalActions(state, seat) {
		switch a.Kind {
		case belote.ActionContre:
			contre = true
		case belote.ActionSurContre:
			surContre = true
		}
	}
	if surContre && r.chance(r.ContreChance) {
		return belote.SurContreAction(id)
	}
	if contre && r.chance(r.ContreChance) {
		return belote.ContreAction(id)
	}

	if bids := belote.LegalBids(state, seat); len(bids) > 0 && r.chance(r.BidChance) {
		return belote.BidAction(id, LongestSuit(state.Players[seat].Hand), bids[0])
	}
	return belote.PassAction(id)
}

func (r *Random) chance(p float64) bool {
	return p > 0 && r.rng.Float64() < p
}

// LongestSuit 张数最多的花色，张数相同时取牌点高的
func LongestSuit(hand belote.Cards) belote.Suit {
	best, bestCount, bestPoints := belote.Suits[0], -1, -1
	for _, suit := range belote.Suits {
		cards := hand.OfSuit(suit)
		points := cards.Points(suit)
		if len(cards) > bestCount || (len(cards) == bestCount && points > bestPoints) {
			best, bestCount, bestPoints = suit, len(cards), points
		}
	}
	return best
}
