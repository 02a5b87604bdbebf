package belote

import "testing"

func TestPlay_SingleTrickScenario(t *testing.T) {
	g := playingGame(t, SuitSpades, 0, [Seats]Cards{
		{c(Rank9, SuitSpades)},
		{c(RankA, SuitHearts)},
		{c(RankK, SuitHearts)},
		{c(Rank7, SuitHearts)},
	})

	mustAccept(t, g.PlayCard("p0", c(Rank9, SuitSpades)))
	mustAccept(t, g.PlayCard("p1", c(RankA, SuitHearts)))
	mustAccept(t, g.PlayCard("p2", c(RankK, SuitHearts)))

	gs := g.State()
	if len(gs.CurrentTrick) != 3 || gs.CurrentPlayer != 3 {
		t.Fatalf("unexpected trick %v next %d", gs.CurrentTrick, gs.CurrentPlayer)
	}
	// 出牌保留手牌中的分值
	if gs.CurrentTrick[0].Value != NormalValue(Rank9) {
		t.Errorf("played card value changed: %+v", gs.CurrentTrick[0])
	}

	mustAccept(t, g.PlayCard("p3", c(Rank7, SuitHearts)))

	gs = g.State()
	if gs.Scores.Team1 != 29 || gs.Scores.Team2 != 0 {
		t.Errorf("expected 29-0, got %+v", gs.Scores)
	}
	if gs.Tricks.Count() != 1 || len(gs.Tricks.Team1) != 1 {
		t.Errorf("expected team1 to hold the trick, got %+v", gs.Tricks)
	}
	if len(gs.CurrentTrick) != 0 {
		t.Errorf("trick not cleared: %v", gs.CurrentTrick)
	}
	if gs.Phase != PhaseFinished || !gs.IsFinished() {
		t.Errorf("expected finished hand, got %v", gs.Phase)
	}

	mustReject(t, g, ErrWrongPhase, func() error { return g.PlayCard("p0", c(Rank9, SuitSpades)) })
	mustReject(t, g, ErrWrongPhase, func() error { return g.PassBid("p0") })
}

func TestPlay_FollowSuit(t *testing.T) {
	g := playingGame(t, SuitClubs, 0, [Seats]Cards{
		{c(RankA, SuitHearts), c(Rank7, SuitDiamonds)},
		{c(Rank8, SuitHearts), c(RankJ, SuitClubs)},
		{c(RankQ, SuitSpades), c(RankA, SuitDiamonds)},
		{c(Rank10, SuitHearts), c(RankK, SuitSpades)},
	})

	mustReject(t, g, ErrNotYourTurn, func() error { return g.PlayCard("p1", c(Rank8, SuitHearts)) })
	mustReject(t, g, ErrCardNotInHand, func() error { return g.PlayCard("p0", c(RankK, SuitHearts)) })
	mustAccept(t, g.PlayCard("p0", c(RankA, SuitHearts)))

	// p1 有红桃，不能垫将
	mustReject(t, g, ErrMustFollowSuit, func() error { return g.PlayCard("p1", c(RankJ, SuitClubs)) })
	if got := PlayableCards(g.State(), 1); len(got) != 1 || got[0] != c(Rank8, SuitHearts) {
		t.Errorf("PlayableCards(1) = %v", got)
	}
	mustAccept(t, g.PlayCard("p1", c(Rank8, SuitHearts)))

	// p2 没有红桃，任意出
	if got := PlayableCards(g.State(), 2); len(got) != 2 {
		t.Errorf("void player should play anything, got %v", got)
	}
	mustAccept(t, g.PlayCard("p2", c(RankA, SuitDiamonds)))
	mustAccept(t, g.PlayCard("p3", c(Rank10, SuitHearts)))

	gs := g.State()
	if gs.Leader != 0 || gs.CurrentPlayer != 0 {
		t.Errorf("seat 0 should win and lead, got leader %d current %d", gs.Leader, gs.CurrentPlayer)
	}
	if gs.Scores.Team1 != 32 {
		t.Errorf("expected 32 for team1, got %+v", gs.Scores)
	}
}

func TestPlay_WinnerRelativeToLeader(t *testing.T) {
	// 首家是座位 2，第二张牌赢，赢家应为座位 3
	g := playingGame(t, SuitHearts, 2, [Seats]Cards{
		{c(Rank7, SuitSpades), c(Rank8, SuitSpades)},
		{c(RankQ, SuitSpades), c(Rank8, SuitClubs)},
		{c(RankK, SuitSpades), c(Rank7, SuitClubs)},
		{c(Rank7, SuitHearts), c(RankA, SuitClubs)},
	})

	mustReject(t, g, ErrNotYourTurn, func() error { return g.PlayCard("p0", c(Rank7, SuitSpades)) })
	mustAccept(t, g.PlayCard("p2", c(RankK, SuitSpades)))
	mustAccept(t, g.PlayCard("p3", c(Rank7, SuitHearts)))
	mustAccept(t, g.PlayCard("p0", c(Rank7, SuitSpades)))
	mustAccept(t, g.PlayCard("p1", c(RankQ, SuitSpades)))

	gs := g.State()
	if gs.Leader != 3 || gs.CurrentPlayer != 3 {
		t.Fatalf("expected seat 3 to win, got leader %d current %d", gs.Leader, gs.CurrentPlayer)
	}
	if gs.Scores.Team2 != 7 || gs.Scores.Team1 != 0 {
		t.Errorf("expected 0-7, got %+v", gs.Scores)
	}
	if gs.Phase != PhasePlaying {
		t.Errorf("hand should continue, got %v", gs.Phase)
	}

	// 第二墩由座位 3 首出
	mustAccept(t, g.PlayCard("p3", c(RankA, SuitClubs)))
	mustAccept(t, g.PlayCard("p0", c(Rank8, SuitSpades)))
	mustAccept(t, g.PlayCard("p1", c(Rank8, SuitClubs)))
	mustAccept(t, g.PlayCard("p2", c(Rank7, SuitClubs)))

	gs = g.State()
	if gs.Leader != 3 || gs.Scores.Team2 != 18 || gs.Phase != PhaseFinished {
		t.Errorf("unexpected final state leader %d scores %+v phase %v", gs.Leader, gs.Scores, gs.Phase)
	}
}
