package belote

func (gs *GameState) checkPlay(playerID string, card Card) (int, error) {
	seat, err := gs.checkTurn(playerID, PhasePlaying)
	if err != nil {
		return -1, err
	}
	hand := gs.Players[seat].Hand
	if !hand.Contains(card) {
		return -1, ErrCardNotInHand
	}
	// 有首花色必须跟，不强制压将
	if len(gs.CurrentTrick) > 0 {
		lead := gs.CurrentTrick[0].Suit
		if card.Suit != lead && hand.HasSuit(lead) {
			return -1, ErrMustFollowSuit
		}
	}
	return seat, nil
}

// applyPlay 出牌，一墩完成时返回赢家座位，否则返回 -1
func (gs *GameState) applyPlay(seat int, card Card) int {
	player := &gs.Players[seat]
	played := player.Hand[player.Hand.Index(card)]
	player.Hand, _ = player.Hand.Remove(card)
	gs.CurrentTrick = append(gs.CurrentTrick, played)

	if len(gs.CurrentTrick) < TrickSize {
		gs.CurrentPlayer = nextSeat(gs.CurrentPlayer)
		return -1
	}
	return gs.finishTrick()
}

// finishTrick 结算一墩，赢家座位 = 首家座位 + 相对位置
func (gs *GameState) finishTrick() int {
	trick := gs.CurrentTrick
	winner := (gs.Leader + TrickWinner(trick, gs.Trump)) % Seats
	team := gs.Players[winner].Team

	gs.Scores.Add(team, TrickPoints(trick, gs.Trump))
	gs.Tricks.Add(team, trick)
	gs.CurrentTrick = nil
	gs.CurrentPlayer = winner
	gs.Leader = winner

	if gs.AllHandsEmpty() {
		gs.Phase = PhaseFinished
	}
	return winner
}
