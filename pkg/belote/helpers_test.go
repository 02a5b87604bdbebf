package belote

import (
	"reflect"
	"testing"
)

func c(rank Rank, suit Suit) Card {
	return NewCard(rank, suit)
}

// dealtGame 创建已发牌的固定种子牌局
func dealtGame(t *testing.T, seed uint64) *Game {
	t.Helper()
	g := New(WithSeed(seed), WithPlayerIDs([Seats]string{"p0", "p1", "p2", "p3"}))
	g.Deal()
	return g
}

// playingGame 直接构造出牌阶段的状态
func playingGame(t *testing.T, trump Suit, leader int, hands [Seats]Cards) *Game {
	t.Helper()
	g := New(WithPlayerIDs([Seats]string{"p0", "p1", "p2", "p3"}))
	g.state.ID = "fixture"
	g.state.Phase = PhasePlaying
	g.state.Trump = trump
	g.state.Leader = leader
	g.state.CurrentPlayer = leader
	g.state.CurrentBid = &Bid{PlayerID: "p0", Suit: trump, Points: Points(80)}
	g.state.Bids = []Bid{*g.state.CurrentBid}
	g.state.ConsecutivePasses = 3
	for i := range hands {
		g.state.Players[i].Hand = hands[i]
	}
	return g
}

// mustReject 动作必须被拒绝且状态不变
func mustReject(t *testing.T, g *Game, want error, act func() error) {
	t.Helper()
	before := g.State()
	err := act()
	if err != want {
		t.Fatalf("expected %v, got %v", want, err)
	}
	if after := g.State(); !reflect.DeepEqual(before, after) {
		t.Fatalf("rejected action changed state:\nbefore %+v\nafter  %+v", before, after)
	}
}

func mustAccept(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("action rejected: %v", err)
	}
}

func playerID(g *Game, seat int) string {
	return g.State().Players[seat].ID
}

// checkCards 所有牌恰好 32 张且不重复
func checkCards(t *testing.T, gs GameState) {
	t.Helper()
	cards := gs.CardsInPlay()
	if len(cards) != DeckSize {
		t.Fatalf("expected %d cards in play, got %d", DeckSize, len(cards))
	}
	seen := make(map[Card]bool, DeckSize)
	for _, card := range cards {
		if seen[card] {
			t.Fatalf("duplicate card %v", card)
		}
		seen[card] = true
	}
}
