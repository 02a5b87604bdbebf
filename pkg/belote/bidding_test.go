package belote

import (
	"reflect"
	"testing"
)

func TestBidding_ThreePassesCloseBidding(t *testing.T) {
	g := dealtGame(t, 1)

	mustAccept(t, g.SetBid("p0", SuitHearts, Points(80)))
	mustAccept(t, g.PassBid("p1"))
	mustAccept(t, g.PassBid("p2"))
	mustAccept(t, g.PassBid("p3"))

	gs := g.State()
	if gs.Phase != PhasePlaying {
		t.Fatalf("expected playing phase, got %v", gs.Phase)
	}
	if gs.Trump != SuitHearts {
		t.Errorf("expected hearts trump, got %v", gs.Trump)
	}
	if gs.ConsecutivePasses != 3 {
		t.Errorf("expected 3 consecutive passes, got %d", gs.ConsecutivePasses)
	}
	if gs.CurrentPlayer != 0 || gs.Leader != 0 {
		t.Errorf("expected seat 0 to lead, got current %d leader %d", gs.CurrentPlayer, gs.Leader)
	}
	if len(gs.Bids) != 1 || gs.CurrentBid == nil || gs.CurrentBid.PlayerID != "p0" {
		t.Errorf("unexpected bids %+v current %+v", gs.Bids, gs.CurrentBid)
	}

	// 叫牌结束后叫牌动作全部拒绝
	mustReject(t, g, ErrWrongPhase, func() error { return g.SetBid("p0", SuitSpades, Points(90)) })
	mustReject(t, g, ErrWrongPhase, func() error { return g.PassBid("p0") })
}

func TestBidding_Monotonic(t *testing.T) {
	g := dealtGame(t, 2)

	mustAccept(t, g.SetBid("p0", SuitHearts, Points(90)))
	mustReject(t, g, ErrBidTooLow, func() error { return g.SetBid("p1", SuitSpades, Points(90)) })
	mustReject(t, g, ErrBidTooLow, func() error { return g.SetBid("p1", SuitSpades, Points(80)) })
	mustAccept(t, g.SetBid("p1", SuitSpades, Points(100)))
	mustAccept(t, g.SetBid("p2", SuitClubs, Points(160)))
	mustAccept(t, g.SetBid("p3", SuitDiamonds, Capot()))
	mustReject(t, g, ErrBidTooLow, func() error { return g.SetBid("p0", SuitHearts, Capot()) })
	mustReject(t, g, ErrBidTooLow, func() error { return g.SetBid("p0", SuitHearts, Points(CapotPoints)) })

	gs := g.State()
	if len(gs.Bids) != 4 {
		t.Fatalf("expected 4 bids in the log, got %d", len(gs.Bids))
	}
	for i := 1; i < len(gs.Bids); i++ {
		if !gs.Bids[i].Points.Beats(gs.Bids[i-1].Points) {
			t.Errorf("bid %d (%v) does not beat %v", i, gs.Bids[i].Points, gs.Bids[i-1].Points)
		}
	}
	if !gs.CurrentBid.Points.IsCapot() {
		t.Errorf("expected capot to be the current bid, got %v", gs.CurrentBid.Points)
	}
}

func TestBidding_BidResetsPasses(t *testing.T) {
	g := dealtGame(t, 3)

	mustAccept(t, g.PassBid("p0"))
	mustAccept(t, g.PassBid("p1"))
	mustAccept(t, g.SetBid("p2", SuitClubs, Points(80)))

	gs := g.State()
	if gs.ConsecutivePasses != 0 || gs.CurrentPlayer != 3 {
		t.Errorf("expected passes reset and seat 3 to act, got %d/%d", gs.ConsecutivePasses, gs.CurrentPlayer)
	}

	// 再经过三家不叫才结束
	mustAccept(t, g.PassBid("p3"))
	mustAccept(t, g.PassBid("p0"))
	if g.State().Phase != PhaseBidding {
		t.Fatal("bidding closed after two passes")
	}
	mustAccept(t, g.PassBid("p1"))
	gs = g.State()
	if gs.Phase != PhasePlaying || gs.Trump != SuitClubs || gs.CurrentPlayer != 2 {
		t.Errorf("expected clubs with seat 2 leading, got %v %v %d", gs.Phase, gs.Trump, gs.CurrentPlayer)
	}
}

func TestBidding_RejectionsLeaveStateUnchanged(t *testing.T) {
	g := dealtGame(t, 4)

	mustReject(t, g, ErrNotYourTurn, func() error { return g.SetBid("p1", SuitHearts, Points(80)) })
	mustReject(t, g, ErrNotYourTurn, func() error { return g.PassBid("p2") })
	mustReject(t, g, ErrPlayerNotFound, func() error { return g.PassBid("nobody") })
	mustReject(t, g, ErrInvalidSuit, func() error { return g.SetBid("p0", SuitNone, Points(80)) })
	mustReject(t, g, ErrNoCurrentBid, func() error { return g.Contre("p0") })
	mustReject(t, g, ErrNoCurrentBid, func() error { return g.SurContre("p0") })
	mustReject(t, g, ErrWrongPhase, func() error { return g.PlayCard("p0", g.State().Players[0].Hand[0]) })

	// 未发牌时全部拒绝
	fresh := New()
	id := fresh.State().Players[0].ID
	mustReject(t, fresh, ErrWrongPhase, func() error { return fresh.PassBid(id) })
	mustReject(t, fresh, ErrWrongPhase, func() error { return fresh.SetBid(id, SuitHearts, Points(80)) })
}

func TestBidding_Contre(t *testing.T) {
	g := dealtGame(t, 5)

	mustAccept(t, g.SetBid("p0", SuitSpades, Points(100)))
	mustAccept(t, g.PassBid("p1"))
	// p2 与叫牌者同队
	mustReject(t, g, ErrSameTeam, func() error { return g.Contre("p2") })
	mustReject(t, g, ErrNotContred, func() error { return g.SurContre("p2") })
	mustAccept(t, g.PassBid("p2"))
	mustAccept(t, g.Contre("p3"))

	gs := g.State()
	if !gs.CurrentBid.Contre || gs.CurrentBid.SurContre {
		t.Fatalf("unexpected flags %+v", gs.CurrentBid)
	}
	if gs.ConsecutivePasses != 0 || gs.CurrentPlayer != 0 {
		t.Errorf("contre should reset passes and advance, got %d/%d", gs.ConsecutivePasses, gs.CurrentPlayer)
	}
	// 叫牌记录保持原样
	if gs.Bids[0].Contre {
		t.Error("contre must not rewrite the bid log")
	}

	mustAccept(t, g.PassBid("p0"))
	mustReject(t, g, ErrAlreadyContred, func() error { return g.Contre("p1") })
	mustReject(t, g, ErrOtherTeam, func() error { return g.SurContre("p1") })
	mustAccept(t, g.PassBid("p1"))
	mustAccept(t, g.SurContre("p2"))

	gs = g.State()
	if !gs.CurrentBid.SurContre {
		t.Fatal("expected surcontre flag")
	}
	mustReject(t, g, ErrAlreadyContred, func() error { return g.Contre("p3") })
	mustAccept(t, g.PassBid("p3"))
	mustReject(t, g, ErrAlreadySurContred, func() error { return g.SurContre("p0") })
	mustAccept(t, g.PassBid("p0"))
	mustAccept(t, g.PassBid("p1"))

	gs = g.State()
	if gs.Phase != PhasePlaying || gs.Trump != SuitSpades {
		t.Errorf("expected spades play, got %v %v", gs.Phase, gs.Trump)
	}
	if !gs.CurrentBid.Contre || !gs.CurrentBid.SurContre {
		t.Errorf("flags lost when bidding closed: %+v", gs.CurrentBid)
	}
}

func TestBidding_NewBidClearsContre(t *testing.T) {
	g := dealtGame(t, 6)

	mustAccept(t, g.SetBid("p0", SuitSpades, Points(80)))
	mustAccept(t, g.Contre("p1"))
	mustAccept(t, g.SetBid("p2", SuitHearts, Points(90)))

	gs := g.State()
	if gs.CurrentBid.Contre {
		t.Error("new bid should start without contre")
	}
	// 新叫牌者为一队，p3 可以再次加倍
	mustAccept(t, g.Contre("p3"))
}

func TestBidding_FourPassesRedeal(t *testing.T) {
	g := dealtGame(t, 7)
	before := g.State()

	for _, id := range []string{"p0", "p1", "p2"} {
		mustAccept(t, g.PassBid(id))
	}
	if gs := g.State(); gs.ConsecutivePasses != 3 || gs.Phase != PhaseBidding {
		t.Fatalf("three passes without a bid should keep bidding, got %d %v", gs.ConsecutivePasses, gs.Phase)
	}
	mustAccept(t, g.PassBid("p3"))

	after := g.State()
	if after.ID == before.ID {
		t.Error("redeal should produce a new game id")
	}
	if after.Phase != PhaseBidding || after.ConsecutivePasses != 0 || after.CurrentPlayer != 0 {
		t.Errorf("redeal should reset bidding, got %v %d %d", after.Phase, after.ConsecutivePasses, after.CurrentPlayer)
	}
	if len(after.Bids) != 0 || after.CurrentBid != nil || after.Trump != SuitNone {
		t.Errorf("redeal should clear bids, got %+v", after.Bids)
	}

	same := true
	for i := range after.Players {
		if after.Players[i].ID != before.Players[i].ID {
			t.Errorf("player %d id changed on redeal", i)
		}
		if len(after.Players[i].Hand) != HandSize {
			t.Errorf("player %d has %d cards after redeal", i, len(after.Players[i].Hand))
		}
		if !reflect.DeepEqual(after.Players[i].Hand, before.Players[i].Hand) {
			same = false
		}
	}
	if same {
		t.Error("redeal kept the same hands")
	}
	checkCards(t, after)
}

func TestLegalBids(t *testing.T) {
	g := dealtGame(t, 8)

	bids := LegalBids(g.State(), 0)
	if len(bids) != 10 || bids[0] != Points(80) || !bids[9].IsCapot() {
		t.Fatalf("unexpected opening bids %v", bids)
	}
	if got := LegalBids(g.State(), 1); got != nil {
		t.Errorf("seat 1 cannot bid yet, got %v", got)
	}

	mustAccept(t, g.SetBid("p0", SuitHearts, Points(150)))
	bids = LegalBids(g.State(), 1)
	if len(bids) != 2 || bids[0] != Points(160) || !bids[1].IsCapot() {
		t.Errorf("unexpected bids over 150: %v", bids)
	}

	actions := LegalActions(g.State(), 1)
	if actions[0].Kind != ActionPass || actions[1].Kind != ActionContre {
		t.Errorf("expected pass then contre, got %v %v", actions[0], actions[1])
	}
	if len(actions) != 2+2*len(Suits) {
		t.Errorf("expected %d actions, got %d", 2+2*len(Suits), len(actions))
	}
	for _, a := range actions {
		if err := Restore(g.State()).Apply(a); err != nil {
			t.Errorf("legal action %v rejected: %v", a, err)
		}
	}
}
