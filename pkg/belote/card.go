package belote

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// 非将牌分值
var normalValues = [...]int{
	Rank7:  0,
	Rank8:  0,
	Rank9:  0,
	Rank10: 10,
	RankJ:  2,
	RankQ:  3,
	RankK:  4,
	RankA:  11,
}

// 将牌分值
var trumpValues = [...]int{
	Rank7:  0,
	Rank8:  0,
	Rank9:  14,
	Rank10: 10,
	RankJ:  20,
	RankQ:  3,
	RankK:  4,
	RankA:  11,
}

// NormalValue 非将牌时的分值
func NormalValue(r Rank) int {
	if !r.Valid() {
		return 0
	}
	return normalValues[r]
}

// TrumpValue 将牌时的分值
func TrumpValue(r Rank) int {
	if !r.Valid() {
		return 0
	}
	return trumpValues[r]
}

// Card 代表一张牌，Value 为建牌时确定的非将分值
type Card struct {
	Suit  Suit `json:"suit"`
	Rank  Rank `json:"rank"`
	Value int  `json:"value"`
}

// NewCard
func NewCard(rank Rank, suit Suit) Card {
	return Card{
		Suit:  suit,
		Rank:  rank,
		Value: NormalValue(rank),
	}
}

// Equal 只比较花色和点数
func (c Card) Equal(o Card) bool {
	return c.Suit == o.Suit && c.Rank == o.Rank
}

// Points 当前将牌下的分值
func (c Card) Points(trump Suit) int {
	if trump != SuitNone && c.Suit == trump {
		return TrumpValue(c.Rank)
	}
	return NormalValue(c.Rank)
}

func (c Card) String() string {
	if !c.Suit.Valid() {
		return fmt.Sprintf("%s%s", c.Rank, c.Suit)
	}
	return c.Rank.String() + suitSymbols[c.Suit]
}

type Cards []Card

// NewDeck 生成 32 张牌，按花色排列
func NewDeck() Cards {
	cards := make(Cards, 0, DeckSize)
	for _, suit := range Suits {
		for _, rank := range Ranks {
			cards = append(cards, NewCard(rank, suit))
		}
	}
	return cards
}

// Shuffle 返回洗好的新牌组，不修改原牌组
// rng 为 nil 时使用全局随机源
func (cs Cards) Shuffle(rng *rand.Rand) Cards {
	shuffled := make(Cards, len(cs))
	copy(shuffled, cs)

	swap := func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	if rng == nil {
		rand.Shuffle(len(shuffled), swap)
	} else {
		rng.Shuffle(len(shuffled), swap)
	}
	return shuffled
}

// Deal 轮流发牌，第 i*players+j 张发给玩家 j
// 牌数不足时 panic，固定 32 张牌不会发生
func (cs Cards) Deal(players, handSize int) []Cards {
	if players <= 0 || handSize <= 0 {
		panic(fmt.Sprintf("belote: invalid deal %d players x %d cards", players, handSize))
	}
	if len(cs) < players*handSize {
		panic(fmt.Sprintf("belote: deck of %d cards cannot deal %d players x %d cards", len(cs), players, handSize))
	}

	hands := make([]Cards, players)
	for j := range players {
		hands[j] = make(Cards, 0, handSize)
	}
	for i := range handSize {
		for j := range players {
			hands[j] = append(hands[j], cs[i*players+j])
		}
	}
	return hands
}

// Contains 是否包含指定的牌
func (cs Cards) Contains(card Card) bool {
	return cs.Index(card) >= 0
}

// Index 返回牌的位置，不存在返回 -1
func (cs Cards) Index(card Card) int {
	for i, c := range cs {
		if c.Equal(card) {
			return i
		}
	}
	return -1
}

// Remove 返回移除一张牌后的新牌组
func (cs Cards) Remove(card Card) (Cards, bool) {
	i := cs.Index(card)
	if i < 0 {
		return cs, false
	}
	out := make(Cards, 0, len(cs)-1)
	out = append(out, cs[:i]...)
	out = append(out, cs[i+1:]...)
	return out, true
}

// HasSuit 是否有该花色的牌
func (cs Cards) HasSuit(suit Suit) bool {
	for _, c := range cs {
		if c.Suit == suit {
			return true
		}
	}
	return false
}

// OfSuit 返回该花色的所有牌
func (cs Cards) OfSuit(suit Suit) Cards {
	var out Cards
	for _, c := range cs {
		if c.Suit == suit {
			out = append(out, c)
		}
	}
	return out
}

// Points 当前将牌下的总分
func (cs Cards) Points(trump Suit) int {
	total := 0
	for _, c := range cs {
		total += c.Points(trump)
	}
	return total
}

// Clone
func (cs Cards) Clone() Cards {
	if cs == nil {
		return nil
	}
	out := make(Cards, len(cs))
	copy(out, cs)
	return out
}

func (cs Cards) String() string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
